package testutil

import (
	"github.com/agentweave/agentweave/core"
)

// AgentBuilder helps construct agents with fluent chaining for tests.
// Example:
//
//	agent := NewAgentBuilder("researcher").Role("Researcher").Goal("Find facts").Build()
type AgentBuilder struct {
	agent core.Agent
}

// NewAgentBuilder creates a builder for an agent with the given id. Role
// defaults to the id so the minimal agent still validates.
func NewAgentBuilder(id string) *AgentBuilder {
	return &AgentBuilder{agent: core.Agent{ID: id, Role: id, Goal: "Complete the task"}}
}

// Role sets the agent role (chainable).
func (b *AgentBuilder) Role(role string) *AgentBuilder { b.agent.Role = role; return b }

// Goal sets the agent goal (chainable).
func (b *AgentBuilder) Goal(goal string) *AgentBuilder { b.agent.Goal = goal; return b }

// Tools sets the agent's tool names (chainable).
func (b *AgentBuilder) Tools(names ...string) *AgentBuilder { b.agent.Tools = names; return b }

// Memory enables persistent-memory lookups for the agent (chainable).
func (b *AgentBuilder) Memory() *AgentBuilder { b.agent.MemoryEnabled = true; return b }

// Strategy sets the delegation strategy (chainable).
func (b *AgentBuilder) Strategy(s core.DelegationStrategy) *AgentBuilder {
	b.agent.Strategy = s
	return b
}

// SubAgent appends a declared sub-agent (chainable).
func (b *AgentBuilder) SubAgent(sa core.SubAgent) *AgentBuilder {
	b.agent.SubAgents = append(b.agent.SubAgents, sa)
	return b
}

// Build returns the constructed agent.
func (b *AgentBuilder) Build() core.Agent { return b.agent }

// Sub is a shorthand for a minimal sub-agent declaration.
func Sub(id, role, goal string) core.SubAgent {
	return core.SubAgent{ID: id, Role: role, Goal: goal}
}
