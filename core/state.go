package core

import "time"

// TimelineEntry records one completed agent invocation. The timeline is the
// append-only audit log of a run: entries are never rewritten, even when a
// revision overwrites the agent's latest output.
type TimelineEntry struct {
	AgentID   string    `json:"agent_id"`
	Role      string    `json:"role"`
	Output    string    `json:"output"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	// BranchID groups entries belonging to the same parallel fan-out.
	BranchID *string `json:"branch_id,omitempty"`
	// BranchIndex is the entry's position within its fan-out.
	BranchIndex *int `json:"branch_index,omitempty"`
	// IsAggregator marks the single entry produced by the aggregator agent.
	IsAggregator bool `json:"is_aggregator,omitempty"`
	// Iteration tags entries produced by a feedback-loop revision round.
	Iteration *int `json:"iteration,omitempty"`
}

// FeedbackIteration records one review cycle of an iterative feedback run.
type FeedbackIteration struct {
	Iteration      int               `json:"iteration"`
	ReviewerOutput string            `json:"reviewer_output"`
	Approved       bool              `json:"approved"`
	Feedback       map[string]string `json:"feedback,omitempty"`
	Timestamp      time.Time         `json:"timestamp"`
}

// RunState is the single mutable store threaded through a workflow run.
//
// It is created once per run with the user's input and destroyed at run end;
// it is never shared across runs. RunState carries no locking on purpose:
// it is owned exclusively by whichever executor is currently active, and
// parallel fan-outs collect branch results off-state, committing them through
// a single barrier commit once every branch has completed. Concurrent
// branches therefore read a consistent point-in-time snapshot and no two
// concurrent writers ever touch the same key.
//
// Invariants maintained by the mutation methods:
//   - Outputs[id] always equals the output of the most recent TimelineEntry
//     for that id.
//   - Summaries[id] always reflects the most recent output for that id
//     (summaries are recomputed on revision, never stale-merged).
//   - Every id in Outputs or Summaries has at least one TimelineEntry.
type RunState struct {
	// UserInput is the immutable input that started the run.
	UserInput string `json:"user_input"`
	// Outputs maps agent id to its latest output text. Overwritten on
	// revision.
	Outputs map[string]string `json:"outputs"`
	// Timeline is the append-only sequence of completed invocations.
	Timeline []TimelineEntry `json:"timeline"`
	// Summaries maps agent id to the latest ContextSummary.
	Summaries map[string]ContextSummary `json:"summaries"`
	// SubAgentOutputs maps parent id to sub-agent id to output.
	SubAgentOutputs map[string]map[string]string `json:"sub_agent_outputs,omitempty"`
	// FeedbackIterations is the append-only review/revise history.
	FeedbackIterations []FeedbackIteration `json:"feedback_iterations,omitempty"`
	// Revisions maps agent id to iteration number to the revised output.
	Revisions map[string]map[int]string `json:"revisions,omitempty"`

	// summaryOrder preserves first-commit ordering for prompt construction
	// and recency scoring. Overwrites keep the original position.
	summaryOrder []string
}

// NewRunState creates a fresh store for a single run.
func NewRunState(userInput string) *RunState {
	return &RunState{
		UserInput:       userInput,
		Outputs:         map[string]string{},
		Summaries:       map[string]ContextSummary{},
		SubAgentOutputs: map[string]map[string]string{},
		Revisions:       map[string]map[int]string{},
	}
}

// Commit appends a timeline entry and overwrites the agent's latest output.
// It is the only way outputs enter the store, which keeps the
// outputs/timeline invariant by construction.
func (s *RunState) Commit(entry TimelineEntry) {
	s.Timeline = append(s.Timeline, entry)
	s.Outputs[entry.AgentID] = entry.Output
}

// SetSummary overwrites the agent's summary. First-time summaries are
// appended to the visibility order; recomputed summaries keep their slot.
func (s *RunState) SetSummary(sum ContextSummary) {
	if _, ok := s.Summaries[sum.AgentID]; !ok {
		s.summaryOrder = append(s.summaryOrder, sum.AgentID)
	}
	s.Summaries[sum.AgentID] = sum
}

// OrderedSummaries returns all summaries in first-commit order. The returned
// slice is a copy; callers may filter or re-rank it freely.
func (s *RunState) OrderedSummaries() []ContextSummary {
	out := make([]ContextSummary, 0, len(s.summaryOrder))
	for _, id := range s.summaryOrder {
		if sum, ok := s.Summaries[id]; ok {
			out = append(out, sum)
		}
	}
	return out
}

// Output returns the latest output for an agent id.
func (s *RunState) Output(agentID string) (string, bool) {
	out, ok := s.Outputs[agentID]
	return out, ok
}

// SetSubAgentOutput records one sub-agent's output under its parent.
func (s *RunState) SetSubAgentOutput(parentID, subAgentID, output string) {
	if s.SubAgentOutputs[parentID] == nil {
		s.SubAgentOutputs[parentID] = map[string]string{}
	}
	s.SubAgentOutputs[parentID][subAgentID] = output
}

// RecordFeedbackIteration appends one review cycle to the history.
func (s *RunState) RecordFeedbackIteration(fi FeedbackIteration) {
	s.FeedbackIterations = append(s.FeedbackIterations, fi)
}

// FeedbackOutcome reports the terminal feedback-loop result: the approval
// flag of the last recorded review and the number of review cycles run.
// Returns (false, 0) when no feedback loop was executed.
func (s *RunState) FeedbackOutcome() (approved bool, iterations int) {
	if len(s.FeedbackIterations) == 0 {
		return false, 0
	}
	last := s.FeedbackIterations[len(s.FeedbackIterations)-1]
	return last.Approved, last.Iteration
}

// RecordRevision stores a revised output under (agent, iteration) for audit.
// The latest-output map is updated separately via Commit.
func (s *RunState) RecordRevision(agentID string, iteration int, output string) {
	if s.Revisions[agentID] == nil {
		s.Revisions[agentID] = map[int]string{}
	}
	s.Revisions[agentID][iteration] = output
}
