// Package config loads and validates declarative workflow descriptors.
//
// A descriptor names the participating agents and the workflow topology:
// either an ordered sequential pipeline or a parallel fan-out with an
// aggregator, optionally wrapped in a bounded review/revise feedback loop.
package config

import (
	"fmt"
	"os"

	"github.com/agentweave/agentweave/core"
	"gopkg.in/yaml.v3"
)

// Workflow topology types.
const (
	TypeSequential = "sequential"
	TypeParallel   = "parallel"
)

// Feedback loop iteration bounds (inclusive).
const (
	MinFeedbackIterations = 1
	MaxFeedbackIterations = 10
)

// DefaultApprovalKeyword is used when a feedback loop does not configure
// its own keyword.
const DefaultApprovalKeyword = "APPROVED"

// Config is a complete workflow descriptor: agent definitions plus the
// topology that orders them.
type Config struct {
	Agents   []core.Agent `yaml:"agents" json:"agents"`
	Workflow Workflow     `yaml:"workflow" json:"workflow"`
}

// Workflow describes the execution topology.
type Workflow struct {
	// Type is TypeSequential or TypeParallel.
	Type string `yaml:"type" json:"type"`
	// Steps is the ordered agent list for sequential workflows.
	Steps []Step `yaml:"steps,omitempty" json:"steps,omitempty"`
	// Branches names the concurrently executed agents of a parallel
	// workflow.
	Branches []string `yaml:"branches,omitempty" json:"branches,omitempty"`
	// Then configures the aggregator that runs after all branches.
	Then *Aggregation `yaml:"then,omitempty" json:"then,omitempty"`
}

// Step references one agent of a sequential workflow.
type Step struct {
	Agent string `yaml:"agent" json:"agent"`
}

// Aggregation configures the aggregator agent of a parallel workflow and
// its optional feedback loop.
type Aggregation struct {
	Agent        string        `yaml:"agent" json:"agent"`
	FeedbackLoop *FeedbackLoop `yaml:"feedback_loop,omitempty" json:"feedback_loop,omitempty"`
}

// FeedbackLoop bounds the iterative review/revise cycle wrapping a parallel
// workflow.
type FeedbackLoop struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	// MaxIterations strictly bounds review cycles; the loop terminates
	// regardless of reviewer behavior.
	MaxIterations int `yaml:"max_iterations" json:"max_iterations"`
	// ApprovalKeyword is matched (case-insensitively) in reviewer output to
	// detect approval.
	ApprovalKeyword string `yaml:"approval_keyword" json:"approval_keyword"`
	// FeedbackTargets lists the agents re-invoked with reviewer feedback.
	FeedbackTargets []string `yaml:"feedback_targets" json:"feedback_targets"`
}

// Load reads and parses a YAML descriptor from disk, applying defaults and
// validating before returning.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow config: %w", err)
	}
	return Parse(data)
}

// Parse parses a YAML descriptor, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse workflow config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills unset feedback loop fields with safe values.
func (c *Config) ApplyDefaults() {
	if c.Workflow.Then == nil || c.Workflow.Then.FeedbackLoop == nil {
		return
	}
	fl := c.Workflow.Then.FeedbackLoop
	if fl.ApprovalKeyword == "" {
		fl.ApprovalKeyword = DefaultApprovalKeyword
	}
	if fl.MaxIterations == 0 {
		fl.MaxIterations = 3
	}
	if fl.Enabled && len(fl.FeedbackTargets) == 0 {
		// Default to revising every branch agent.
		fl.FeedbackTargets = append([]string{}, c.Workflow.Branches...)
	}
}

// Agent returns the agent definition with the given id.
func (c *Config) Agent(id string) (core.Agent, bool) {
	for _, a := range c.Agents {
		if a.ID == id {
			return a, true
		}
	}
	return core.Agent{}, false
}

// Validate checks the descriptor for structural errors: unknown agent
// references, duplicate ids, invalid topology shapes and out-of-range
// feedback bounds.
func (c *Config) Validate() error {
	if len(c.Agents) == 0 {
		return fmt.Errorf("workflow config declares no agents")
	}

	known := map[string]bool{}
	for _, a := range c.Agents {
		if err := a.Validate(); err != nil {
			return err
		}
		if known[a.ID] {
			return fmt.Errorf("duplicate agent id %s", a.ID)
		}
		known[a.ID] = true
	}

	switch c.Workflow.Type {
	case TypeSequential:
		return c.validateSequential(known)
	case TypeParallel:
		return c.validateParallel(known)
	default:
		return fmt.Errorf("unknown workflow type %q", c.Workflow.Type)
	}
}

func (c *Config) validateSequential(known map[string]bool) error {
	if len(c.Workflow.Steps) == 0 {
		return fmt.Errorf("sequential workflow declares no steps")
	}
	for i, step := range c.Workflow.Steps {
		if step.Agent == "" {
			return fmt.Errorf("step %d is missing an agent reference", i)
		}
		if !known[step.Agent] {
			return fmt.Errorf("step %d references unknown agent %s", i, step.Agent)
		}
	}
	return nil
}

func (c *Config) validateParallel(known map[string]bool) error {
	if len(c.Workflow.Branches) == 0 {
		return fmt.Errorf("parallel workflow declares no branches")
	}
	seen := map[string]bool{}
	for _, b := range c.Workflow.Branches {
		if !known[b] {
			return fmt.Errorf("branch references unknown agent %s", b)
		}
		if seen[b] {
			return fmt.Errorf("agent %s appears in branches more than once", b)
		}
		seen[b] = true
	}

	if c.Workflow.Then == nil || c.Workflow.Then.Agent == "" {
		return fmt.Errorf("parallel workflow requires an aggregator (workflow.then.agent)")
	}
	if !known[c.Workflow.Then.Agent] {
		return fmt.Errorf("aggregator references unknown agent %s", c.Workflow.Then.Agent)
	}

	fl := c.Workflow.Then.FeedbackLoop
	if fl == nil || !fl.Enabled {
		return nil
	}
	if fl.MaxIterations < MinFeedbackIterations || fl.MaxIterations > MaxFeedbackIterations {
		return fmt.Errorf("feedback_loop.max_iterations must be between %d and %d, got %d",
			MinFeedbackIterations, MaxFeedbackIterations, fl.MaxIterations)
	}
	if len(fl.FeedbackTargets) == 0 {
		return fmt.Errorf("feedback_loop declares no feedback_targets")
	}
	for _, t := range fl.FeedbackTargets {
		if !known[t] {
			return fmt.Errorf("feedback target references unknown agent %s", t)
		}
		if !seen[t] {
			return fmt.Errorf("feedback target %s is not a branch agent", t)
		}
	}
	return nil
}
