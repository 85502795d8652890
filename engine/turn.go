package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/agentweave/agentweave/core"
	"github.com/agentweave/agentweave/model"
	"github.com/agentweave/agentweave/tool"
)

// turnSpec describes one agent invocation: the agent, the context it may
// see, and the tags its timeline entry will carry.
type turnSpec struct {
	agent core.Agent
	// summaries visible to this turn, already ordered/ranked.
	summaries []core.ContextSummary
	// outputs is a point-in-time snapshot handed to tools.
	outputs map[string]string

	branchID     *string
	branchIndex  *int
	isAggregator bool
	iteration    *int

	// previousOutput + feedback switch the turn into revision mode.
	previousOutput string
	feedback       string
}

// turnResult is the staged product of one turn, kept off-state until the
// owning executor commits it. Fan-outs rely on this separation for their
// all-or-nothing barrier.
type turnResult struct {
	entry   core.TimelineEntry
	summary core.ContextSummary
	// subOutputs carries delegated sub-agent outputs for committing under
	// the parent id.
	subOutputs map[string]string
	// persistMemory requests a memory write at commit time (set for
	// memory-enabled agents).
	persistMemory bool
}

// executeTurn runs a single agent invocation without touching run state.
//
// Order within the turn: delegation or (tools → memory → model call), then
// summarization. A model-call failure is fatal and aborts the turn; tool-set
// errors other than cancellation surface through failed Results; memory
// failures degrade to zero results; summarization never fails.
func (e *Engine) executeTurn(ctx context.Context, state *core.RunState, spec turnSpec) (turnResult, error) {
	agent := spec.agent
	started := time.Now().UTC()

	var (
		output     string
		subOutputs map[string]string
	)

	if agent.Delegating() {
		var err error
		output, subOutputs, err = e.coordinator.Execute(ctx, agent, state.UserInput)
		if err != nil {
			return turnResult{}, err
		}
	} else {
		prompt, err := e.buildTurnPrompt(ctx, spec, state.UserInput)
		if err != nil {
			return turnResult{}, err
		}

		callStart := time.Now()
		output, err = e.model.Generate(ctx, model.Request{
			System: systemPrompt(agent),
			User:   prompt,
		})
		if err != nil {
			e.logger.Error("model call failed", "agent_id", agent.ID, "duration", time.Since(callStart), "error", err)
			return turnResult{}, fmt.Errorf("agent %s failed: %w", agent.ID, err)
		}
		e.logger.Debug("model call completed", "agent_id", agent.ID, "duration", time.Since(callStart))
	}

	ended := time.Now().UTC()

	sum := e.summarizer.Summarize(ctx, output, agent.ID, agent.Role)

	return turnResult{
		entry: core.TimelineEntry{
			AgentID:      agent.ID,
			Role:         agent.Role,
			Output:       output,
			StartedAt:    started,
			EndedAt:      ended,
			BranchID:     spec.branchID,
			BranchIndex:  spec.branchIndex,
			IsAggregator: spec.isAggregator,
			Iteration:    spec.iteration,
		},
		summary:       sum,
		subOutputs:    subOutputs,
		persistMemory: agent.MemoryEnabled,
	}, nil
}

// buildTurnPrompt gathers tool results and memories, then renders the user
// prompt for a non-delegating turn.
func (e *Engine) buildTurnPrompt(ctx context.Context, spec turnSpec, userInput string) (string, error) {
	agent := spec.agent

	var toolResults []tool.Result
	if len(agent.Tools) > 0 && e.tools != nil {
		results, err := e.tools.Invoke(ctx, agent.Tools, tool.Input{
			UserInput:       userInput,
			PreviousOutputs: spec.outputs,
		})
		if err != nil {
			// Only cancellation reaches here; individual tool failures are
			// carried inside the results.
			return "", fmt.Errorf("tool invocation for agent %s: %w", agent.ID, err)
		}
		toolResults = results
	}

	var memories []core.RelevantMemory
	if agent.MemoryEnabled {
		found, err := e.memory.Query(ctx, userInput+" "+agent.Goal, e.memoryTopK)
		if err != nil {
			e.logger.Warn("memory query failed, continuing without memories", "agent_id", agent.ID, "error", err)
		} else {
			memories = found
		}
	}

	return userPrompt(promptInput{
		agent:          agent,
		userInput:      userInput,
		summaries:      spec.summaries,
		toolResults:    toolResults,
		memories:       memories,
		previousOutput: spec.previousOutput,
		feedback:       spec.feedback,
		iteration:      iterationOrZero(spec.iteration),
	})
}

// commitTurn applies a staged result to run state and emits the turn event.
// Callers must hold exclusive ownership of the state (sequential step, or
// post-barrier commit phase of a fan-out).
func (e *Engine) commitTurn(ctx context.Context, state *core.RunState, res turnResult, runID string) {
	state.Commit(res.entry)
	state.SetSummary(res.summary)

	for subID, out := range res.subOutputs {
		state.SetSubAgentOutput(res.entry.AgentID, subID, out)
	}

	if res.entry.Iteration != nil && !res.entry.IsAggregator {
		state.RecordRevision(res.entry.AgentID, *res.entry.Iteration, res.entry.Output)
	}

	if res.persistMemory {
		err := e.memory.Store(ctx, core.MemoryEntry{
			Role:        res.entry.Role,
			Content:     res.entry.Output,
			KeyInsights: res.summary.KeyInsights,
			Decisions:   res.summary.Decisions,
			Timestamp:   res.entry.EndedAt,
		})
		if err != nil {
			// Memory persistence is best effort; the run continues.
			e.logger.Warn("memory store failed, skipping", "agent_id", res.entry.AgentID, "error", err)
		}
	}

	if e.sink != nil {
		e.sink(core.TurnEvent{
			ID:           core.NewID(),
			RunID:        runID,
			AgentID:      res.entry.AgentID,
			Role:         res.entry.Role,
			Output:       res.entry.Output,
			StartedAt:    res.entry.StartedAt,
			EndedAt:      res.entry.EndedAt,
			BranchID:     res.entry.BranchID,
			IsAggregator: res.entry.IsAggregator,
			Iteration:    res.entry.Iteration,
		})
	}
}

func iterationOrZero(it *int) int {
	if it == nil {
		return 0
	}
	return *it
}
