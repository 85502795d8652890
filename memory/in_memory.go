package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/agentweave/agentweave/core"
)

// InMemoryStore is a naive process-local MemoryStore. Entries are held in
// insertion order; Query performs a case-insensitive keyword-overlap scan
// assigning each hit a relevance score in [0,1] equal to the fraction of
// query words found in the entry content.
//
// Suitable only for tests / demos; swap for a vector index for production
// retrieval. Concurrency: protected by RWMutex.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []core.MemoryEntry
}

// NewInMemoryStore creates a new in-memory memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Store appends a new entry.
func (m *InMemoryStore) Store(_ context.Context, entry core.MemoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

// Len returns the number of stored entries.
func (m *InMemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Query scores every stored entry against the query text and returns the
// topK matches in descending relevance, ties broken by insertion order.
func (m *InMemoryStore) Query(_ context.Context, text string, topK int) ([]core.RelevantMemory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 || topK <= 0 {
		return []core.RelevantMemory{}, nil
	}

	matches := make([]core.RelevantMemory, 0, len(m.entries))
	for _, e := range m.entries {
		content := strings.ToLower(e.Content)
		hits := 0
		for _, w := range words {
			if strings.Contains(content, w) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		matches = append(matches, core.RelevantMemory{
			Role:        e.Role,
			Content:     e.Content,
			KeyInsights: e.KeyInsights,
			Decisions:   e.Decisions,
			Timestamp:   e.Timestamp,
			Relevance:   float64(hits) / float64(len(words)),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Relevance > matches[j].Relevance
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// NopStore is the MemoryStore used when memory is not configured: Query
// returns no results and Store succeeds silently.
type NopStore struct{}

// NewNopStore creates a no-op memory store.
func NewNopStore() NopStore { return NopStore{} }

// Query always returns an empty result set.
func (NopStore) Query(context.Context, string, int) ([]core.RelevantMemory, error) {
	return []core.RelevantMemory{}, nil
}

// Store silently discards the entry.
func (NopStore) Store(context.Context, core.MemoryEntry) error { return nil }
