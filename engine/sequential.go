package engine

import (
	"context"

	"github.com/agentweave/agentweave/core"
)

// runSequential executes the steps one at a time in declaration order. Each
// step sees the summaries of every earlier step and is committed before the
// next step starts, so a mid-run failure leaves all completed steps durable
// in state.
func (e *Engine) runSequential(ctx context.Context, steps []core.Agent, state *core.RunState, runID string) error {
	for i, agent := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.logger.Debug("sequential step starting", "run_id", runID, "step", i, "agent_id", agent.ID)

		res, err := e.executeTurn(ctx, state, turnSpec{
			agent:     agent,
			summaries: state.OrderedSummaries(),
			outputs:   snapshotOutputs(state),
		})
		if err != nil {
			return err
		}
		e.commitTurn(ctx, state, res, runID)
	}
	return nil
}

// snapshotOutputs copies the latest outputs so turns and tools never hold a
// reference into live state.
func snapshotOutputs(state *core.RunState) map[string]string {
	out := make(map[string]string, len(state.Outputs))
	for id, v := range state.Outputs {
		out[id] = v
	}
	return out
}
