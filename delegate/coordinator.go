// Package delegate implements hierarchical delegation: planning and running
// a parent agent's sub-agents, then synthesizing their outputs into the
// parent's final output.
package delegate

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentweave/agentweave/core"
	"github.com/agentweave/agentweave/logging"
	"github.com/agentweave/agentweave/model"
	"golang.org/x/sync/errgroup"
)

// CoordinatorOptions configures a Coordinator.
type CoordinatorOptions struct {
	Logger logging.Logger
}

// Coordinator plans and executes a parent agent's delegated sub-agents.
//
// Three delegation strategies are supported, selected by the parent's
// declared strategy:
//   - sequential / parallel: deterministic, no planning call
//   - auto: one model call asks the parent (in its role) to choose a
//     sub-agent subset and ordering; the response is parsed leniently with a
//     deterministic fallback
//
// Sequential execution threads each sub-agent's output into the next
// sub-agent's prompt (full cross-visibility within the set). Parallel
// execution gives each sub-agent only the parent's context, avoiding
// order-dependent results, and commits outputs only after every sub-agent
// has completed.
type Coordinator struct {
	model  model.Model
	logger logging.Logger
}

// NewCoordinator constructs a Coordinator backed by the given model.
func NewCoordinator(m model.Model, optFns ...func(o *CoordinatorOptions)) *Coordinator {
	opts := CoordinatorOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Coordinator{model: m, logger: opts.Logger}
}

// Execute runs the parent's delegation round end to end: plan, run the
// sub-agents, then synthesize their outputs into the parent's final output.
// Model-call failures (planning, sub-agent turns, synthesis) abort with an
// error; plan parse failures degrade to the fallback plan.
//
// Execute never touches shared run state: the sub-agent outputs are returned
// to the caller, which commits them together with the parent's turn. This
// keeps delegation safe inside parallel fan-outs, where commits must wait
// for the whole branch set.
func (c *Coordinator) Execute(ctx context.Context, parent core.Agent, userInput string) (string, map[string]string, error) {
	if !parent.Delegating() {
		return "", nil, fmt.Errorf("agent %s has no sub-agents to delegate to", parent.ID)
	}

	plan, err := c.plan(ctx, parent, userInput)
	if err != nil {
		return "", nil, err
	}

	outputs, err := c.runSubAgents(ctx, parent, plan, userInput)
	if err != nil {
		return "", nil, err
	}

	final, err := c.synthesize(ctx, parent, plan, outputs, userInput)
	if err != nil {
		return "", nil, err
	}
	return final, outputs, nil
}

// plan resolves the execution plan for the parent's strategy.
func (c *Coordinator) plan(ctx context.Context, parent core.Agent, userInput string) (Plan, error) {
	switch parent.Strategy {
	case core.DelegationParallel:
		return Plan{Sequence: core.DelegationParallel, SubAgents: parent.SubAgents}, nil
	case core.DelegationAuto:
		return c.autoPlan(ctx, parent, userInput)
	default: // sequential, also the default for an unset strategy
		return Plan{Sequence: core.DelegationSequential, SubAgents: parent.SubAgents}, nil
	}
}

// autoPlan issues the planning model call and parses its response. A failed
// call is fatal (it is a model call during an agent turn); an unparseable
// response falls back to running all sub-agents sequentially.
func (c *Coordinator) autoPlan(ctx context.Context, parent core.Agent, userInput string) (Plan, error) {
	raw, err := c.model.Generate(ctx, model.Request{
		System: fmt.Sprintf("You are %s. You coordinate a team of specialized sub-agents.", parent.Role),
		User:   planningPrompt(parent, userInput),
	})
	if err != nil {
		return Plan{}, fmt.Errorf("sub-agent planning failed for agent %s: %w", parent.ID, err)
	}

	plan, ok := ParsePlan(raw, parent)
	if !ok {
		c.logger.Warn("sub-agent plan unparseable, falling back to all-sequential", "agent_id", parent.ID)
		return FallbackPlan(parent), nil
	}
	return plan, nil
}

// runSubAgents executes the planned sub-agents and returns their outputs by
// id.
func (c *Coordinator) runSubAgents(ctx context.Context, parent core.Agent, plan Plan, userInput string) (map[string]string, error) {
	if plan.Sequence == core.DelegationParallel {
		return c.runParallel(ctx, parent, plan, userInput)
	}
	return c.runSequential(ctx, parent, plan, userInput)
}

// runSequential threads each sub-agent's output into the next prompt.
func (c *Coordinator) runSequential(ctx context.Context, parent core.Agent, plan Plan, userInput string) (map[string]string, error) {
	outputs := map[string]string{}
	var prior []core.SubAgent
	for _, sa := range plan.SubAgents {
		out, err := c.model.Generate(ctx, model.Request{
			System: subAgentSystem(sa),
			User:   subAgentPrompt(parent, sa, userInput, prior, outputs),
		})
		if err != nil {
			return nil, fmt.Errorf("sub-agent %s of agent %s failed: %w", sa.ID, parent.ID, err)
		}
		outputs[sa.ID] = out
		prior = append(prior, sa)
	}
	return outputs, nil
}

// runParallel fans the sub-agents out concurrently. Outputs are collected
// into an indexed slice and surfaced only after the whole set succeeds, so a
// single failure leaves no partial results behind.
func (c *Coordinator) runParallel(ctx context.Context, parent core.Agent, plan Plan, userInput string) (map[string]string, error) {
	results := make([]string, len(plan.SubAgents))
	g, gctx := errgroup.WithContext(ctx)

	for i, sa := range plan.SubAgents {
		i, sa := i, sa
		g.Go(func() error {
			out, err := c.model.Generate(gctx, model.Request{
				System: subAgentSystem(sa),
				User:   subAgentPrompt(parent, sa, userInput, nil, nil),
			})
			if err != nil {
				return fmt.Errorf("sub-agent %s of agent %s failed: %w", sa.ID, parent.ID, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	outputs := make(map[string]string, len(plan.SubAgents))
	for i, sa := range plan.SubAgents {
		outputs[sa.ID] = results[i]
	}
	return outputs, nil
}

// synthesize combines the sub-agent outputs into the parent's final output.
func (c *Coordinator) synthesize(ctx context.Context, parent core.Agent, plan Plan, outputs map[string]string, userInput string) (string, error) {
	out, err := c.model.Generate(ctx, model.Request{
		System: fmt.Sprintf("You are %s. Synthesize your team's work into a single coherent deliverable.", parent.Role),
		User:   synthesisPrompt(parent, plan, outputs, userInput),
	})
	if err != nil {
		return "", fmt.Errorf("synthesis failed for agent %s: %w", parent.ID, err)
	}
	return out, nil
}

func subAgentSystem(sa core.SubAgent) string {
	system := fmt.Sprintf("You are %s.", sa.Role)
	if sa.Specialization != "" {
		system += " Specialization: " + sa.Specialization
	}
	return system
}

// subAgentPrompt builds the task prompt for one sub-agent. Prior outputs are
// included only in sequential mode (prior is nil for parallel runs).
func subAgentPrompt(parent core.Agent, sa core.SubAgent, userInput string, prior []core.SubAgent, outputs map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task from %s: %s\n\n", parent.Role, parent.Goal)
	fmt.Fprintf(&b, "User request: %s\n\n", userInput)
	for _, p := range prior {
		if out, ok := outputs[p.ID]; ok {
			fmt.Fprintf(&b, "Output from %s (%s):\n%s\n\n", p.ID, p.Role, out)
		}
	}
	fmt.Fprintf(&b, "Your objective: %s", sa.Goal)
	return b.String()
}

// planningPrompt asks the parent to choose a sub-agent subset and ordering,
// returned as a small JSON object. Trigger phrases are surfaced as hints;
// the planner's JSON remains authoritative.
func planningPrompt(parent core.Agent, userInput string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User request: %s\n\n", userInput)
	fmt.Fprintf(&b, "Your objective: %s\n\n", parent.Goal)
	b.WriteString("Available sub-agents:\n")
	for _, sa := range parent.SubAgents {
		fmt.Fprintf(&b, "- %s: %s", sa.ID, sa.Role)
		if sa.Specialization != "" {
			fmt.Fprintf(&b, " (%s)", sa.Specialization)
		}
		if len(sa.Triggers) > 0 {
			fmt.Fprintf(&b, " [relevant when: %s]", strings.Join(sa.Triggers, ", "))
		}
		b.WriteByte('\n')
	}
	b.WriteString("\nChoose which sub-agents to involve and how to run them. ")
	b.WriteString(`Respond with a JSON object only: {"sub_agents": ["id", ...], "sequence": "sequential" or "parallel", "reason": "..."}`)
	return b.String()
}

func synthesisPrompt(parent core.Agent, plan Plan, outputs map[string]string, userInput string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User request: %s\n\n", userInput)
	fmt.Fprintf(&b, "Your objective: %s\n\n", parent.Goal)
	b.WriteString("Your sub-agents produced the following:\n\n")
	for _, sa := range plan.SubAgents {
		fmt.Fprintf(&b, "--- %s (%s) ---\n%s\n\n", sa.ID, sa.Role, outputs[sa.ID])
	}
	b.WriteString("Combine these into your final output.")
	return b.String()
}
