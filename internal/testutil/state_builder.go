package testutil

import (
	"time"

	"github.com/agentweave/agentweave/core"
)

// StateBuilder helps construct pre-populated run state for tests.
// Example:
//
//	state := NewStateBuilder("write a post").
//		Turn("researcher", "Researcher", "facts...").
//		Build()
type StateBuilder struct {
	state *core.RunState
}

// NewStateBuilder creates a builder around a fresh run state for the given
// user input.
func NewStateBuilder(userInput string) *StateBuilder {
	return &StateBuilder{state: core.NewRunState(userInput)}
}

// Turn commits a completed turn for the agent with a matching minimal
// summary (chainable).
func (b *StateBuilder) Turn(agentID, role, output string) *StateBuilder {
	now := time.Now().UTC()
	b.state.Commit(core.TimelineEntry{
		AgentID:   agentID,
		Role:      role,
		Output:    output,
		StartedAt: now,
		EndedAt:   now,
	})
	b.state.SetSummary(core.ContextSummary{
		AgentID:       agentID,
		Role:          role,
		KeyInsights:   []string{output},
		SourceAgentID: agentID,
	})
	return b
}

// Summary overwrites the summary for its agent id (chainable).
func (b *StateBuilder) Summary(sum core.ContextSummary) *StateBuilder {
	b.state.SetSummary(sum)
	return b
}

// Build returns the populated run state.
func (b *StateBuilder) Build() *core.RunState { return b.state }
