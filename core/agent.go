package core

import "fmt"

// DelegationStrategy selects how a parent agent's declared sub-agents are
// chosen and ordered at execution time.
type DelegationStrategy string

const (
	// DelegationAuto lets the parent agent plan the sub-agent subset and
	// ordering itself via a single planning model call.
	DelegationAuto DelegationStrategy = "auto"
	// DelegationSequential runs every declared sub-agent in declaration
	// order, threading each output into the next sub-agent's prompt.
	DelegationSequential DelegationStrategy = "sequential"
	// DelegationParallel runs every declared sub-agent concurrently with
	// parent context only (no cross-visibility between sub-agents).
	DelegationParallel DelegationStrategy = "parallel"
)

// Valid reports whether the strategy is one of the recognized values.
// An empty strategy is valid and treated as DelegationSequential.
func (s DelegationStrategy) Valid() bool {
	switch s {
	case "", DelegationAuto, DelegationSequential, DelegationParallel:
		return true
	default:
		return false
	}
}

// Agent is a declarative definition of one workflow participant.
//
// Agents are immutable once loaded: the executors never mutate them, only
// read role/goal/tooling to construct prompts. The ID is the stable key used
// throughout RunState (outputs, summaries, timeline, feedback targets).
type Agent struct {
	// ID uniquely identifies the agent within a workflow.
	ID string `yaml:"id" json:"id"`
	// Role is the display string placed into the system prompt.
	Role string `yaml:"role" json:"role"`
	// Goal is the instruction string driving the agent's turn. It may
	// contain text/template expressions resolved at prompt build time.
	Goal string `yaml:"goal" json:"goal"`
	// Tools names the tools invoked before the agent's model call.
	Tools []string `yaml:"tools,omitempty" json:"tools,omitempty"`
	// SubAgents, when non-empty, turns the agent into a delegating parent:
	// its turn is produced by the sub-agent coordinator instead of a direct
	// model call.
	SubAgents []SubAgent `yaml:"sub_agents,omitempty" json:"sub_agents,omitempty"`
	// Strategy selects the delegation mode for SubAgents.
	Strategy DelegationStrategy `yaml:"delegation_strategy,omitempty" json:"delegation_strategy,omitempty"`
	// MemoryEnabled turns on persistent-memory lookups for this agent's
	// prompts.
	MemoryEnabled bool `yaml:"memory,omitempty" json:"memory,omitempty"`
}

// Delegating reports whether the agent declares sub-agents.
func (a Agent) Delegating() bool { return len(a.SubAgents) > 0 }

// SubAgent returns the declared sub-agent with the given id.
func (a Agent) SubAgent(id string) (SubAgent, bool) {
	for _, sa := range a.SubAgents {
		if sa.ID == id {
			return sa, true
		}
	}
	return SubAgent{}, false
}

// Validate checks structural consistency of a single agent definition.
func (a Agent) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("agent is missing an id")
	}
	if a.Role == "" {
		return fmt.Errorf("agent %s is missing a role", a.ID)
	}
	if !a.Strategy.Valid() {
		return fmt.Errorf("agent %s has unknown delegation strategy %q", a.ID, a.Strategy)
	}
	seen := map[string]bool{}
	for _, sa := range a.SubAgents {
		if sa.ID == "" {
			return fmt.Errorf("agent %s declares a sub-agent without an id", a.ID)
		}
		if seen[sa.ID] {
			return fmt.Errorf("agent %s declares duplicate sub-agent id %s", a.ID, sa.ID)
		}
		seen[sa.ID] = true
	}
	return nil
}

// SubAgent is a specialized worker delegated to by a parent Agent.
//
// It mirrors Agent but additionally carries a specialization description and
// trigger phrases consulted only by the auto delegation planner.
type SubAgent struct {
	ID   string `yaml:"id" json:"id"`
	Role string `yaml:"role" json:"role"`
	Goal string `yaml:"goal" json:"goal"`
	// Specialization describes what this sub-agent is uniquely good at.
	Specialization string `yaml:"specialization,omitempty" json:"specialization,omitempty"`
	// Triggers are phrases hinting when the auto planner should pick this
	// sub-agent.
	Triggers []string `yaml:"triggers,omitempty" json:"triggers,omitempty"`
	Tools    []string `yaml:"tools,omitempty" json:"tools,omitempty"`
}
