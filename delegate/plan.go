package delegate

import (
	"github.com/agentweave/agentweave/core"
	"github.com/agentweave/agentweave/internal/util"
	"github.com/tidwall/gjson"
)

// Plan is the tagged execution plan for a parent agent's sub-agents: which
// sub-agents run and whether they run sequentially or concurrently. It is
// constructed either deterministically (sequential/parallel strategies) or
// by parsing the auto planner's model response, always validated against the
// declared sub-agent set before execution.
type Plan struct {
	// Sequence is DelegationSequential or DelegationParallel.
	Sequence core.DelegationStrategy
	// SubAgents is the validated, ordered subset to execute.
	SubAgents []core.SubAgent
	// Reason is the planner's stated rationale (auto mode only).
	Reason string
}

// FallbackPlan is the deterministic plan used whenever auto planning cannot
// produce a usable result: all declared sub-agents, in order, sequentially.
// This path never fails.
func FallbackPlan(parent core.Agent) Plan {
	return Plan{
		Sequence:  core.DelegationSequential,
		SubAgents: parent.SubAgents,
	}
}

// ParsePlan leniently extracts a Plan from the auto planner's free-form
// response. It looks for the first balanced JSON object carrying
// {"sub_agents": [...], "sequence": "sequential"|"parallel", "reason": ...},
// drops any id not present in the parent's declared sub-agent list, and
// reports ok=false when nothing usable remains.
func ParsePlan(raw string, parent core.Agent) (Plan, bool) {
	block, ok := util.ExtractJSONObject(raw)
	if !ok || !gjson.Valid(block) {
		return Plan{}, false
	}

	parsed := gjson.Parse(block)

	var subAgents []core.SubAgent
	for _, idRes := range parsed.Get("sub_agents").Array() {
		if sa, ok := parent.SubAgent(idRes.String()); ok {
			subAgents = append(subAgents, sa)
		}
	}
	if len(subAgents) == 0 {
		return Plan{}, false
	}

	sequence := core.DelegationSequential
	if parsed.Get("sequence").String() == string(core.DelegationParallel) {
		sequence = core.DelegationParallel
	}

	return Plan{
		Sequence:  sequence,
		SubAgents: subAgents,
		Reason:    parsed.Get("reason").String(),
	}, true
}
