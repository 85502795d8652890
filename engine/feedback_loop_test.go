package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/agentweave/agentweave/config"
	"github.com/agentweave/agentweave/core"
	"github.com/agentweave/agentweave/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedbackWorkflow(maxIterations int) config.Workflow {
	return config.Workflow{
		Type:     config.TypeParallel,
		Branches: []string{"backend", "frontend"},
		Then: &config.Aggregation{
			Agent: "reviewer",
			FeedbackLoop: &config.FeedbackLoop{
				Enabled:         true,
				MaxIterations:   maxIterations,
				ApprovalKeyword: "APPROVED",
				FeedbackTargets: []string{"backend", "frontend"},
			},
		},
	}
}

func TestEngine_FeedbackLoop_ApprovedFirstRound(t *testing.T) {
	mock := model.NewMockModel().
		Respond("Design the API", "api design").
		Respond("Design the UI", "ui design").
		Respond("Review round", "APPROVED: solid work")

	e := newTestEngine(mock)
	registerParallelTeam(e)

	state, err := e.Run(context.Background(), feedbackWorkflow(3), core.NewRunState("csv export"))
	require.NoError(t, err)

	approved, iterations := state.FeedbackOutcome()
	assert.True(t, approved)
	assert.Equal(t, 1, iterations)

	// Two branch entries plus the single aggregator entry; no revisions.
	require.Len(t, state.Timeline, 3)
	final := state.Timeline[2]
	assert.True(t, final.IsAggregator)
	require.NotNil(t, final.Iteration)
	assert.Equal(t, 1, *final.Iteration)
	assert.Empty(t, state.Revisions)
}

func TestEngine_FeedbackLoop_NeverApprovedStopsAtCap(t *testing.T) {
	mock := model.NewMockModel().
		Respond("Design the API", "api design").
		Respond("Design the UI", "ui design").
		Respond("Review round", "Backend: add versioning\nFrontend: add loading state")

	e := newTestEngine(mock)
	registerParallelTeam(e)

	state, err := e.Run(context.Background(), feedbackWorkflow(2), core.NewRunState("csv export"))
	require.NoError(t, err)

	approved, iterations := state.FeedbackOutcome()
	assert.False(t, approved)
	assert.Equal(t, 2, iterations)
	require.Len(t, state.FeedbackIterations, 2)

	// One revision round ran between the two reviews.
	assert.Equal(t, "add versioning", state.FeedbackIterations[0].Feedback["backend"])
	require.Contains(t, state.Revisions, "backend")
	require.Contains(t, state.Revisions, "frontend")
	assert.Len(t, state.Revisions["backend"], 1)

	// Timeline: 2 initial + 2 revisions + 1 terminal review.
	require.Len(t, state.Timeline, 5)
	aggregators := 0
	for _, entry := range state.Timeline {
		if entry.IsAggregator {
			aggregators++
		}
	}
	assert.Equal(t, 1, aggregators)

	final := state.Timeline[4]
	assert.True(t, final.IsAggregator)
	require.NotNil(t, final.Iteration)
	assert.Equal(t, 2, *final.Iteration)
}

func TestEngine_FeedbackLoop_RevisionPromptCarriesFeedback(t *testing.T) {
	mock := model.NewMockModel().
		Respond("Design the API", "api design").
		Respond("Design the UI", "ui design").
		Respond("Review round", "Backend: add versioning\nFrontend: add loading state")

	e := newTestEngine(mock)
	registerParallelTeam(e)

	_, err := e.Run(context.Background(), feedbackWorkflow(2), core.NewRunState("csv export"))
	require.NoError(t, err)

	var sawBackendRevision bool
	for _, req := range mock.Requests() {
		if strings.Contains(req.User, "Reviewer feedback to address") &&
			strings.Contains(req.User, "add versioning") {
			sawBackendRevision = true
			assert.Contains(t, req.User, "api design")
		}
	}
	assert.True(t, sawBackendRevision)
}

func TestEngine_FeedbackLoop_OnlyNamedAgentsRevise(t *testing.T) {
	mock := model.NewMockModel().
		Respond("Design the API", "api design").
		Respond("Design the UI", "ui design").
		Respond("Review round 1", "Backend: add versioning").
		Respond("Review round 2", "APPROVED")

	e := newTestEngine(mock)
	registerParallelTeam(e)

	state, err := e.Run(context.Background(), feedbackWorkflow(3), core.NewRunState("csv export"))
	require.NoError(t, err)

	approved, iterations := state.FeedbackOutcome()
	assert.True(t, approved)
	assert.Equal(t, 2, iterations)

	// Only backend revised.
	assert.Contains(t, state.Revisions, "backend")
	assert.NotContains(t, state.Revisions, "frontend")

	// 2 initial + 1 backend revision + 1 terminal review.
	assert.Len(t, state.Timeline, 4)
}

func TestEngine_FeedbackLoop_GenericFeedbackRevisesEveryTarget(t *testing.T) {
	mock := model.NewMockModel().
		Respond("Design the API", "api design").
		Respond("Design the UI", "ui design").
		Respond("Review round 1", "Not good enough overall; tighten everything up.").
		Respond("Review round 2", "APPROVED")

	e := newTestEngine(mock)
	registerParallelTeam(e)

	state, err := e.Run(context.Background(), feedbackWorkflow(3), core.NewRunState("csv export"))
	require.NoError(t, err)

	approved, _ := state.FeedbackOutcome()
	assert.True(t, approved)

	// Generic feedback fans out to both targets.
	assert.Contains(t, state.Revisions, "backend")
	assert.Contains(t, state.Revisions, "frontend")
}

func TestEngine_FeedbackLoop_RevisionUpdatesOutputAndSummary(t *testing.T) {
	mock := model.NewMockModel().
		Respond("add versioning", "api design v2").
		Respond("Design the API", "api design").
		Respond("Design the UI", "ui design").
		Respond("Review round 1", "Backend: add versioning").
		Respond("Review round 2", "APPROVED")

	e := newTestEngine(mock)
	registerParallelTeam(e)

	state, err := e.Run(context.Background(), feedbackWorkflow(3), core.NewRunState("csv export"))
	require.NoError(t, err)

	out, ok := state.Output("backend")
	require.True(t, ok)
	assert.Equal(t, "api design v2", out)

	// The summary is recomputed from the revised output.
	sum, ok := state.Summaries["backend"]
	require.True(t, ok)
	assert.Equal(t, []string{"api design v2"}, sum.KeyInsights)
	assert.Equal(t, "api design v2", state.Revisions["backend"][1])
}
