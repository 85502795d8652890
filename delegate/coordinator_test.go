package delegate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/agentweave/agentweave/core"
	"github.com/agentweave/agentweave/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinator_RejectsNonDelegatingAgent(t *testing.T) {
	c := NewCoordinator(model.NewMockModel())

	_, _, err := c.Execute(context.Background(), core.Agent{ID: "solo", Role: "Solo"}, "input")
	assert.Error(t, err)
}

func TestCoordinator_SequentialThreadsOutputs(t *testing.T) {
	parent := parentAgent()
	parent.Strategy = core.DelegationSequential

	mock := model.NewMockModel().Enqueue(
		"architect output",
		"security output",
		"qa output",
		"synthesized deliverable",
	)
	c := NewCoordinator(mock)

	final, outputs, err := c.Execute(context.Background(), parent, "build it")
	require.NoError(t, err)

	assert.Equal(t, "synthesized deliverable", final)
	assert.Equal(t, "architect output", outputs["architect"])
	assert.Equal(t, "qa output", outputs["qa"])

	reqs := mock.Requests()
	require.Len(t, reqs, 4)
	// The second sub-agent sees the first one's output.
	assert.Contains(t, reqs[1].User, "architect output")
	// The synthesis call sees everything.
	assert.Contains(t, reqs[3].User, "security output")
}

func TestCoordinator_ParallelIsolatesSubAgents(t *testing.T) {
	parent := parentAgent()
	parent.Strategy = core.DelegationParallel

	mock := model.NewMockModel().
		Respond("Design", "architect output").
		Respond("Harden", "security output").
		Respond("Test", "qa output").
		Respond("Combine these", "synthesized deliverable")
	c := NewCoordinator(mock)

	final, outputs, err := c.Execute(context.Background(), parent, "build it")
	require.NoError(t, err)

	assert.Equal(t, "synthesized deliverable", final)
	assert.Len(t, outputs, 3)

	// No sub-agent prompt contains another sub-agent's output.
	for _, req := range mock.Requests() {
		if strings.Contains(req.User, "Your objective: Design") {
			assert.NotContains(t, req.User, "security output")
			assert.NotContains(t, req.User, "qa output")
		}
	}
}

func TestCoordinator_AutoUsesParsedPlan(t *testing.T) {
	parent := parentAgent()
	parent.Strategy = core.DelegationAuto

	mock := model.NewMockModel().Enqueue(
		`{"sub_agents": ["qa"], "sequence": "sequential", "reason": "only testing matters"}`,
		"qa output",
		"synthesized deliverable",
	)
	c := NewCoordinator(mock)

	final, outputs, err := c.Execute(context.Background(), parent, "verify the release")
	require.NoError(t, err)

	assert.Equal(t, "synthesized deliverable", final)
	assert.Len(t, outputs, 1)
	assert.Equal(t, "qa output", outputs["qa"])

	// Planning prompt lists the available sub-agents.
	assert.Contains(t, mock.Requests()[0].User, "architect")
}

func TestCoordinator_AutoFallsBackOnUnparseablePlan(t *testing.T) {
	parent := parentAgent()
	parent.Strategy = core.DelegationAuto

	mock := model.NewMockModel().Enqueue(
		"I would involve everyone, I think.",
		"architect output",
		"security output",
		"qa output",
		"synthesized deliverable",
	)
	c := NewCoordinator(mock)

	_, outputs, err := c.Execute(context.Background(), parent, "build it")
	require.NoError(t, err)

	// Fallback runs every declared sub-agent.
	assert.Len(t, outputs, 3)
}

func TestCoordinator_PlanningFailureIsFatal(t *testing.T) {
	parent := parentAgent()
	parent.Strategy = core.DelegationAuto

	mock := model.NewMockModel().FailWith(errors.New("down"))
	c := NewCoordinator(mock)

	_, _, err := c.Execute(context.Background(), parent, "build it")
	assert.Error(t, err)
}

func TestCoordinator_SubAgentFailureAbortsRound(t *testing.T) {
	parent := parentAgent()
	parent.Strategy = core.DelegationSequential

	mock := model.NewMockModel().FailAfter(1, errors.New("down")).Enqueue("architect output")
	c := NewCoordinator(mock)

	_, _, err := c.Execute(context.Background(), parent, "build it")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "security")
}
