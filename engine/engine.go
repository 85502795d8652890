package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agentweave/agentweave/config"
	"github.com/agentweave/agentweave/core"
	"github.com/agentweave/agentweave/delegate"
	"github.com/agentweave/agentweave/logging"
	"github.com/agentweave/agentweave/memory"
	"github.com/agentweave/agentweave/model"
	"github.com/agentweave/agentweave/summary"
	"github.com/agentweave/agentweave/tool"
)

// ErrUnknownAgent is returned when a workflow references an agent id that
// was never registered with the engine.
var ErrUnknownAgent = errors.New("unknown agent")

// Summarizer compresses an agent's raw output into a bounded summary. The
// implementation must never fail; degraded results are substituted
// internally (see summary.Summarizer).
type Summarizer interface {
	Summarize(ctx context.Context, output, agentID, role string) core.ContextSummary
}

// Options configures an Engine instance using the functional options
// pattern. All service dependencies default to safe no-op or in-memory
// implementations so a bare engine works out of the box.
type Options struct {
	// Tools executes named tools ahead of an agent's model call. Nil
	// disables tool invocation.
	Tools tool.Invoker

	// Memory provides persistent-memory lookups for agents that enable
	// them. Defaults to the silent no-op store.
	Memory core.MemoryStore

	// MemoryTopK caps how many relevant memories are folded into a prompt.
	MemoryTopK int

	// Summarizer overrides the default model-backed summarizer.
	Summarizer Summarizer

	// RevisionContextItems caps how many context summaries a revision turn
	// sees (ranked by the context selector).
	RevisionContextItems int

	// Logger receives structured diagnostics. Defaults to no-op.
	Logger logging.Logger

	// EventSink receives a TurnEvent per completed agent turn.
	EventSink core.EventSink
}

// Engine is the top-level workflow dispatcher. It selects one of the three
// executors from the workflow topology and feedback configuration, resolves
// agent references, and owns the RunState for the duration of a run.
type Engine struct {
	model       model.Model
	coordinator *delegate.Coordinator
	summarizer  Summarizer
	tools       tool.Invoker
	memory      core.MemoryStore
	memoryTopK  int
	reviseCtx   int
	logger      logging.Logger
	sink        core.EventSink

	agents map[string]core.Agent
}

// New creates an Engine backed by the given model.
func New(m model.Model, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Memory:               memory.NewNopStore(),
		MemoryTopK:           5,
		RevisionContextItems: 5,
		Logger:               logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Summarizer == nil {
		opts.Summarizer = summary.NewSummarizer(m, func(o *summary.SummarizerOptions) {
			o.Logger = opts.Logger
		})
	}

	return &Engine{
		model: m,
		coordinator: delegate.NewCoordinator(m, func(o *delegate.CoordinatorOptions) {
			o.Logger = opts.Logger
		}),
		summarizer: opts.Summarizer,
		tools:      opts.Tools,
		memory:     opts.Memory,
		memoryTopK: opts.MemoryTopK,
		reviseCtx:  opts.RevisionContextItems,
		logger:     opts.Logger,
		sink:       opts.EventSink,
		agents:     map[string]core.Agent{},
	}
}

// Register makes agents resolvable by workflow references. Same-id
// registrations replace earlier ones.
func (e *Engine) Register(agents ...core.Agent) {
	for _, a := range agents {
		e.agents[a.ID] = a
	}
}

// Run executes the workflow against the given state, mutating and returning
// the same store. The workflow topology selects the executor: sequential
// steps, a parallel fan-out with aggregator, or the parallel fan-out wrapped
// in an iterative feedback loop when one is enabled.
func (e *Engine) Run(ctx context.Context, wf config.Workflow, state *core.RunState) (*core.RunState, error) {
	runID := core.NewID()
	started := time.Now()

	err := e.dispatch(ctx, wf, state, runID)

	e.logger.Info("workflow run finished",
		"run_id", runID,
		"workflow_type", wf.Type,
		"turns", len(state.Timeline),
		"duration", time.Since(started),
		"success", err == nil,
	)
	if err != nil {
		return state, err
	}
	return state, nil
}

func (e *Engine) dispatch(ctx context.Context, wf config.Workflow, state *core.RunState, runID string) error {
	switch wf.Type {
	case config.TypeSequential:
		steps, err := e.resolveSteps(wf.Steps)
		if err != nil {
			return err
		}
		return e.runSequential(ctx, steps, state, runID)

	case config.TypeParallel:
		branches, err := e.resolveIDs(wf.Branches)
		if err != nil {
			return err
		}
		if wf.Then == nil {
			return fmt.Errorf("parallel workflow is missing an aggregator")
		}
		aggregator, err := e.resolve(wf.Then.Agent)
		if err != nil {
			return err
		}
		if fl := wf.Then.FeedbackLoop; fl != nil && fl.Enabled {
			_, err := e.runFeedbackLoop(ctx, branches, aggregator, *fl, state, runID)
			return err
		}
		return e.runParallel(ctx, branches, aggregator, state, runID)

	default:
		return fmt.Errorf("unknown workflow type %q", wf.Type)
	}
}

func (e *Engine) resolve(id string) (core.Agent, error) {
	a, ok := e.agents[id]
	if !ok {
		return core.Agent{}, fmt.Errorf("%w: %s", ErrUnknownAgent, id)
	}
	return a, nil
}

func (e *Engine) resolveSteps(steps []config.Step) ([]core.Agent, error) {
	out := make([]core.Agent, 0, len(steps))
	for _, s := range steps {
		a, err := e.resolve(s.Agent)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (e *Engine) resolveIDs(ids []string) ([]core.Agent, error) {
	out := make([]core.Agent, 0, len(ids))
	for _, id := range ids {
		a, err := e.resolve(id)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
