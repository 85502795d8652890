// Package agentweave provides a high-level façade over the workflow engine
// and its supporting services (configuration, tools, memory & logging) for
// running declaratively described multi-agent workflows. Most applications
// interact with this package by:
//  1. Creating an AgentWeave via New() with a backing model (optionally
//     overriding default in-memory services)
//  2. Loading a workflow descriptor via config.Load or config.Parse
//  3. Executing it with Run, which returns the completed run state
//
// The façade delegates orchestration to engine.Engine while keeping setup
// and usage ergonomics concise. All defaults are safe for local development
// and testing; production deployments typically supply a persistent memory
// store and a structured logger.
package agentweave

import (
	"context"
	"fmt"

	"github.com/agentweave/agentweave/config"
	"github.com/agentweave/agentweave/core"
	"github.com/agentweave/agentweave/engine"
	"github.com/agentweave/agentweave/model"
)

// Options configures the AgentWeave instance. It mirrors engine.Options;
// see that type for field semantics.
type Options = engine.Options

// AgentWeave is the high-level façade aggregating the engine and services.
type AgentWeave struct {
	engine *engine.Engine
}

// New creates an AgentWeave backed by the given model. Unset services fall
// back to the engine's in-memory/no-op defaults.
func New(m model.Model, optFns ...func(o *Options)) *AgentWeave {
	return &AgentWeave{engine: engine.New(m, optFns...)}
}

// Run validates nothing itself: cfg is expected to have passed through
// config.Load or config.Parse. It registers the configured agents, creates
// a fresh run state for userInput and executes the workflow to completion.
//
// The returned state is valid (up to the last committed turn) even when an
// error is returned.
func (w *AgentWeave) Run(ctx context.Context, cfg *config.Config, userInput string) (*core.RunState, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil workflow config")
	}
	w.engine.Register(cfg.Agents...)

	state := core.NewRunState(userInput)
	return w.engine.Run(ctx, cfg.Workflow, state)
}

// Engine exposes the underlying engine for callers that need direct
// registration or repeated runs against the same agent set.
func (w *AgentWeave) Engine() *engine.Engine {
	return w.engine
}
