package core

import "strings"

// MaxKeyInsights bounds the key insight list carried by a ContextSummary.
const MaxKeyInsights = 5

// ContextSummary is a bounded, structured compression of an agent's raw
// output. Summaries stand in for full outputs in later prompts, keeping
// context growth linear in the number of agents rather than in output size.
type ContextSummary struct {
	AgentID     string   `json:"agent_id"`
	Role        string   `json:"role"`
	KeyInsights []string `json:"key_insights,omitempty"`
	Decisions   []string `json:"decisions,omitempty"`
	Artifacts   []string `json:"artifacts,omitempty"`
	NextSteps   []string `json:"next_steps,omitempty"`
	// SourceAgentID back-references the full output this summary condenses,
	// for audit against the timeline.
	SourceAgentID string `json:"source_agent_id"`
}

// ItemCount returns the number of populated list items across all four
// bounded lists. Used by relevance scoring as a content-richness signal.
func (c ContextSummary) ItemCount() int {
	return len(c.KeyInsights) + len(c.Decisions) + len(c.Artifacts) + len(c.NextSteps)
}

// Text flattens the summary's lists into a single searchable string.
func (c ContextSummary) Text() string {
	var b strings.Builder
	for _, group := range [][]string{c.KeyInsights, c.Decisions, c.Artifacts, c.NextSteps} {
		for _, item := range group {
			b.WriteString(item)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
