package core

import (
	"context"
	"time"
)

// RelevantMemory is a ranked semantic match returned by a MemoryStore query.
// The coordination core treats memories as read-only context material.
type RelevantMemory struct {
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	KeyInsights []string  `json:"key_insights,omitempty"`
	Decisions   []string  `json:"decisions,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	// Relevance is a normalized score in [0,1].
	Relevance float64 `json:"relevance"`
}

// MemoryEntry is the unit persisted into a MemoryStore after a run.
type MemoryEntry struct {
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	KeyInsights []string  `json:"key_insights,omitempty"`
	Decisions   []string  `json:"decisions,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// MemoryStore provides persistence and retrieval of cross-run memories.
//
// Implementations backed by vector indexes, keyword heuristics or anything
// in between are acceptable. When memory is not configured callers receive a
// no-op implementation: Query returns empty results and Store succeeds
// silently, so executors never need a nil check.
type MemoryStore interface {
	Query(ctx context.Context, text string, topK int) ([]RelevantMemory, error)
	Store(ctx context.Context, entry MemoryEntry) error
}
