package summary

import (
	"fmt"
	"testing"

	"github.com/agentweave/agentweave/core"
	"github.com/stretchr/testify/assert"
)

func TestSelect_CapsAtMaxItems(t *testing.T) {
	agent := core.Agent{ID: "writer", Goal: "write the report"}
	var pool []core.ContextSummary
	for i := 0; i < 10; i++ {
		pool = append(pool, core.ContextSummary{
			AgentID:     fmt.Sprintf("agent-%d", i),
			KeyInsights: []string{"insight"},
		})
	}

	selected := Select(agent, pool, 3)

	assert.Len(t, selected, 3)
}

func TestSelect_PrefersGoalOverlap(t *testing.T) {
	agent := core.Agent{ID: "writer", Goal: "summarize database benchmark results"}
	pool := []core.ContextSummary{
		{AgentID: "offtopic", KeyInsights: []string{"weather is sunny"}},
		{AgentID: "ontopic", KeyInsights: []string{"database benchmark results show 2x speedup"}},
	}

	selected := Select(agent, pool, 1)

	assert.Equal(t, "ontopic", selected[0].AgentID)
}

func TestSelect_RecencyBreaksEqualContent(t *testing.T) {
	agent := core.Agent{ID: "writer", Goal: "anything"}
	pool := []core.ContextSummary{
		{AgentID: "older", KeyInsights: []string{"same"}},
		{AgentID: "newer", KeyInsights: []string{"same"}},
	}

	selected := Select(agent, pool, 1)

	assert.Equal(t, "newer", selected[0].AgentID)
}

func TestSelect_OrdersByDescendingRecency(t *testing.T) {
	agent := core.Agent{ID: "a", Goal: ""}
	pool := []core.ContextSummary{
		{AgentID: "first", KeyInsights: []string{"x"}},
		{AgentID: "second", KeyInsights: []string{"x"}},
		{AgentID: "third", KeyInsights: []string{"x"}},
	}

	selected := Select(agent, pool, 3)

	assert.Equal(t, "third", selected[0].AgentID)
	assert.Equal(t, "second", selected[1].AgentID)
	assert.Equal(t, "first", selected[2].AgentID)
}

func TestSelect_EmptyAndZeroInputs(t *testing.T) {
	agent := core.Agent{ID: "a", Goal: "goal"}

	assert.Empty(t, Select(agent, nil, 3))
	assert.Empty(t, Select(agent, []core.ContextSummary{{AgentID: "x"}}, 0))
}

func TestGoalKeywords_StripsStopWords(t *testing.T) {
	keywords := goalKeywords("Write the report for the team and review it")

	assert.Contains(t, keywords, "write")
	assert.Contains(t, keywords, "report")
	assert.NotContains(t, keywords, "the")
	assert.NotContains(t, keywords, "and")
	assert.NotContains(t, keywords, "it")
}

func TestRichnessScore_Capped(t *testing.T) {
	small := core.ContextSummary{KeyInsights: []string{"a", "b"}}
	assert.InDelta(t, 0.2, richnessScore(small), 1e-9)

	big := core.ContextSummary{KeyInsights: []string{"1", "2", "3", "4", "5"}, Decisions: []string{"6", "7", "8", "9", "10", "11"}}
	assert.Equal(t, 1.0, richnessScore(big))
}
