package delegate

import (
	"testing"

	"github.com/agentweave/agentweave/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parentAgent() core.Agent {
	return core.Agent{
		ID:   "lead",
		Role: "Lead",
		Goal: "Deliver the plan",
		SubAgents: []core.SubAgent{
			{ID: "architect", Role: "Architect", Goal: "Design"},
			{ID: "security", Role: "Security", Goal: "Harden"},
			{ID: "qa", Role: "QA", Goal: "Test"},
		},
	}
}

func TestParsePlan_ValidResponse(t *testing.T) {
	raw := `Thinking it through...
{"sub_agents": ["security", "architect"], "sequence": "parallel", "reason": "independent concerns"}`

	plan, ok := ParsePlan(raw, parentAgent())
	require.True(t, ok)

	assert.Equal(t, core.DelegationParallel, plan.Sequence)
	require.Len(t, plan.SubAgents, 2)
	assert.Equal(t, "security", plan.SubAgents[0].ID)
	assert.Equal(t, "architect", plan.SubAgents[1].ID)
	assert.Equal(t, "independent concerns", plan.Reason)
}

func TestParsePlan_DropsUnknownIDs(t *testing.T) {
	raw := `{"sub_agents": ["architect", "marketing"], "sequence": "sequential"}`

	plan, ok := ParsePlan(raw, parentAgent())
	require.True(t, ok)

	require.Len(t, plan.SubAgents, 1)
	assert.Equal(t, "architect", plan.SubAgents[0].ID)
}

func TestParsePlan_NothingUsable(t *testing.T) {
	_, ok := ParsePlan(`{"sub_agents": ["marketing"]}`, parentAgent())
	assert.False(t, ok)

	_, ok = ParsePlan("no json here", parentAgent())
	assert.False(t, ok)
}

func TestParsePlan_UnknownSequenceDefaultsToSequential(t *testing.T) {
	raw := `{"sub_agents": ["qa"], "sequence": "reverse"}`

	plan, ok := ParsePlan(raw, parentAgent())
	require.True(t, ok)
	assert.Equal(t, core.DelegationSequential, plan.Sequence)
}

func TestFallbackPlan(t *testing.T) {
	plan := FallbackPlan(parentAgent())

	assert.Equal(t, core.DelegationSequential, plan.Sequence)
	assert.Len(t, plan.SubAgents, 3)
}
