package core

import (
	"time"

	"github.com/google/uuid"
)

// TurnEvent is the read-only record emitted after every completed agent
// turn. Presentation layers (console renderers, visualizers, log shippers)
// consume these as a stream; the engine never reads them back.
type TurnEvent struct {
	ID           string    `json:"id"`
	RunID        string    `json:"run_id"`
	AgentID      string    `json:"agent_id"`
	Role         string    `json:"role"`
	Output       string    `json:"output"`
	StartedAt    time.Time `json:"started_at"`
	EndedAt      time.Time `json:"ended_at"`
	BranchID     *string   `json:"branch_id,omitempty"`
	IsAggregator bool      `json:"is_aggregator,omitempty"`
	Iteration    *int      `json:"iteration,omitempty"`
}

// EventSink receives TurnEvents as they are emitted. Sinks must not block
// for long periods; they run inline on the executor goroutine.
type EventSink func(TurnEvent)

// NewID generates a unique identifier for runs, branches and events.
func NewID() string { return uuid.NewString() }
