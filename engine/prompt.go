package engine

import (
	"fmt"
	"strings"

	"github.com/agentweave/agentweave/config"
	"github.com/agentweave/agentweave/core"
	"github.com/agentweave/agentweave/internal/util"
	"github.com/agentweave/agentweave/tool"
)

// promptInput aggregates everything a single agent turn may need to see.
// Fields beyond agent/userInput are optional; empty values render nothing.
type promptInput struct {
	agent     core.Agent
	userInput string
	// summaries are the context summaries visible to this turn, already
	// ordered/ranked by the caller.
	summaries []core.ContextSummary
	// toolResults are outputs of tools invoked ahead of the model call.
	toolResults []tool.Result
	// memories are relevant persistent memories, when enabled.
	memories []core.RelevantMemory
	// previousOutput and feedback switch the prompt into revision mode.
	previousOutput string
	feedback       string
	iteration      int
}

// systemPrompt frames the agent's role.
func systemPrompt(agent core.Agent) string {
	return fmt.Sprintf("You are %s. Stay in role and produce a complete, self-contained answer.", agent.Role)
}

// userPrompt renders the task prompt for one agent turn. The agent's goal
// may carry template expressions resolved against run data; a malformed
// template is a configuration error and fails the turn.
func userPrompt(pi promptInput) (string, error) {
	goal, err := util.RenderTemplate(pi.agent.Goal, map[string]any{
		"UserInput": pi.userInput,
		"AgentID":   pi.agent.ID,
	})
	if err != nil {
		return "", fmt.Errorf("goal template of agent %s: %w", pi.agent.ID, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "User request: %s\n\n", pi.userInput)

	if len(pi.memories) > 0 {
		b.WriteString("Relevant context from previous sessions:\n")
		for _, m := range pi.memories {
			fmt.Fprintf(&b, "- [%s, relevance %.2f] %s\n", m.Role, m.Relevance, m.Content)
		}
		b.WriteByte('\n')
	}

	writeSummaries(&b, pi.summaries)

	if len(pi.toolResults) > 0 {
		b.WriteString("Tool results:\n")
		for _, tr := range pi.toolResults {
			status := "ok"
			if !tr.Success {
				status = "failed"
			}
			fmt.Fprintf(&b, "- %s (%s): %s\n", tr.Name, status, tr.Payload)
		}
		b.WriteByte('\n')
	}

	if pi.feedback != "" {
		fmt.Fprintf(&b, "Your previous output (iteration %d):\n%s\n\n", pi.iteration, pi.previousOutput)
		fmt.Fprintf(&b, "Reviewer feedback to address:\n%s\n\n", pi.feedback)
		fmt.Fprintf(&b, "Revise your previous output to address the feedback. Your objective remains: %s", goal)
		return b.String(), nil
	}

	fmt.Fprintf(&b, "Your objective: %s", goal)
	return b.String(), nil
}

// reviewPrompt builds the aggregator's review turn for a feedback loop. It
// instructs the reviewer to either emit the approval keyword or structured
// per-agent feedback lines the feedback processor can extract.
func reviewPrompt(aggregator core.Agent, state *core.RunState, branches []core.Agent, fl config.FeedbackLoop, iteration int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User request: %s\n\n", state.UserInput)
	fmt.Fprintf(&b, "Review round %d of at most %d.\n\n", iteration, fl.MaxIterations)
	b.WriteString("The team produced the following outputs:\n\n")
	for _, br := range branches {
		if out, ok := state.Output(br.ID); ok {
			fmt.Fprintf(&b, "--- %s (%s) ---\n%s\n\n", br.ID, br.Role, out)
		}
	}
	fmt.Fprintf(&b, "Your objective: %s\n\n", aggregator.Goal)
	fmt.Fprintf(&b, "If the work meets the bar, respond with the single word %s.\n", fl.ApprovalKeyword)
	fmt.Fprintf(&b, "Otherwise, give concrete feedback for each agent that must revise, one block per agent, formatted as:\n")
	for _, t := range fl.FeedbackTargets {
		fmt.Fprintf(&b, "%s: <what to change>\n", t)
	}
	return b.String()
}

// writeSummaries renders context summaries as compact labelled blocks.
func writeSummaries(b *strings.Builder, summaries []core.ContextSummary) {
	if len(summaries) == 0 {
		return
	}
	b.WriteString("Context from earlier agents:\n\n")
	for _, s := range summaries {
		fmt.Fprintf(b, "[%s — %s]\n", s.AgentID, s.Role)
		writeList(b, "Key insights", s.KeyInsights)
		writeList(b, "Decisions", s.Decisions)
		writeList(b, "Artifacts", s.Artifacts)
		writeList(b, "Next steps", s.NextSteps)
		b.WriteByte('\n')
	}
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}
