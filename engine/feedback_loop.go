package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/agentweave/agentweave/config"
	"github.com/agentweave/agentweave/core"
	"github.com/agentweave/agentweave/feedback"
	"github.com/agentweave/agentweave/model"
	"github.com/agentweave/agentweave/summary"
)

// Outcome reports how an iterative feedback run ended.
type Outcome struct {
	// Approved is true when the reviewer accepted the work before the
	// iteration cap was reached.
	Approved bool
	// Iterations is the number of review rounds that ran.
	Iterations int
}

// runFeedbackLoop runs the parallel fan-out, then alternates review and
// revision rounds until the reviewer approves or the iteration cap is hit.
// The cap is a hard bound: round MaxIterations is always the last, approved
// or not.
//
// Every review round is recorded in state's feedback history, but only the
// terminal one is committed as the aggregator's timeline entry, keeping a
// single aggregator entry per run.
func (e *Engine) runFeedbackLoop(ctx context.Context, branches []core.Agent, aggregator core.Agent, fl config.FeedbackLoop, state *core.RunState, runID string) (Outcome, error) {
	results, err := e.fanOut(ctx, state, branches, nil)
	if err != nil {
		return Outcome{}, err
	}
	for _, res := range results {
		e.commitTurn(ctx, state, res, runID)
	}

	for iter := 1; iter <= fl.MaxIterations; iter++ {
		reviewStart := time.Now().UTC()
		reviewOut, err := e.model.Generate(ctx, model.Request{
			System: systemPrompt(aggregator),
			User:   reviewPrompt(aggregator, state, branches, fl, iter),
		})
		if err != nil {
			return Outcome{}, fmt.Errorf("reviewer %s failed: %w", aggregator.ID, err)
		}
		reviewEnd := time.Now().UTC()

		fb := feedback.Process(reviewOut, fl.FeedbackTargets, fl.ApprovalKeyword)
		state.RecordFeedbackIteration(core.FeedbackIteration{
			Iteration:      iter,
			ReviewerOutput: reviewOut,
			Approved:       fb.Approved,
			Feedback:       fb.Feedback,
			Timestamp:      reviewEnd,
		})
		e.logger.Info("review round completed",
			"run_id", runID,
			"iteration", iter,
			"approved", fb.Approved,
			"revision_targets", len(fb.Feedback),
		)

		if fb.Approved || iter == fl.MaxIterations {
			it := iter
			e.commitTurn(ctx, state, turnResult{
				entry: core.TimelineEntry{
					AgentID:      aggregator.ID,
					Role:         aggregator.Role,
					Output:       reviewOut,
					StartedAt:    reviewStart,
					EndedAt:      reviewEnd,
					IsAggregator: true,
					Iteration:    &it,
				},
				summary: e.summarizer.Summarize(ctx, reviewOut, aggregator.ID, aggregator.Role),
			}, runID)
			return Outcome{Approved: fb.Approved, Iterations: iter}, nil
		}

		// Revise exactly the agents the reviewer addressed, in branch
		// declaration order.
		revisers := make([]core.Agent, 0, len(fb.Feedback))
		for _, br := range branches {
			if _, ok := fb.Feedback[br.ID]; ok {
				revisers = append(revisers, br)
			}
		}

		it := iter
		results, err = e.fanOut(ctx, state, revisers, func(a core.Agent, spec turnSpec) turnSpec {
			prev, _ := state.Output(a.ID)
			spec.previousOutput = prev
			spec.feedback = fb.Feedback[a.ID]
			spec.iteration = &it
			spec.summaries = summary.Select(a, spec.summaries, e.reviseCtx)
			return spec
		})
		if err != nil {
			return Outcome{}, err
		}
		for _, res := range results {
			e.commitTurn(ctx, state, res, runID)
		}
	}

	// Not reached: the cap round always returns inside the loop.
	return Outcome{Iterations: fl.MaxIterations}, nil
}
