package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/agentweave/agentweave/core"
)

// runParallel fans the branch agents out concurrently, commits every branch
// result at the barrier, then runs the aggregator over the full set.
func (e *Engine) runParallel(ctx context.Context, branches []core.Agent, aggregator core.Agent, state *core.RunState, runID string) error {
	results, err := e.fanOut(ctx, state, branches, nil)
	if err != nil {
		return err
	}
	for _, res := range results {
		e.commitTurn(ctx, state, res, runID)
	}

	res, err := e.executeTurn(ctx, state, turnSpec{
		agent:        aggregator,
		summaries:    state.OrderedSummaries(),
		outputs:      snapshotOutputs(state),
		isAggregator: true,
	})
	if err != nil {
		return err
	}
	e.commitTurn(ctx, state, res, runID)
	return nil
}

// fanOut runs the given agents concurrently against a point-in-time snapshot
// of state taken before launch. Results stay off-state until the caller
// commits them, so a failing branch discards the whole batch and no partial
// fan-out ever reaches state. The optional specFn customizes each branch's
// spec (revision rounds use it to attach feedback).
//
// The shared snapshot is read-only inside the goroutines; state itself is
// only read through its immutable UserInput field.
func (e *Engine) fanOut(ctx context.Context, state *core.RunState, agents []core.Agent, specFn func(a core.Agent, base turnSpec) turnSpec) ([]turnResult, error) {
	branchID := core.NewID()
	summaries := state.OrderedSummaries()
	outputs := snapshotOutputs(state)

	results := make([]turnResult, len(agents))
	g, gctx := errgroup.WithContext(ctx)
	for i, agent := range agents {
		idx := i
		spec := turnSpec{
			agent:       agent,
			summaries:   summaries,
			outputs:     outputs,
			branchID:    &branchID,
			branchIndex: &idx,
		}
		if specFn != nil {
			spec = specFn(agent, spec)
		}
		g.Go(func() error {
			res, err := e.executeTurn(gctx, state, spec)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
