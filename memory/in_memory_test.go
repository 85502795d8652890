package memory

import (
	"context"
	"testing"
	"time"

	"github.com/agentweave/agentweave/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeEntries(t *testing.T, s *InMemoryStore, contents ...string) {
	t.Helper()
	for _, c := range contents {
		require.NoError(t, s.Store(context.Background(), core.MemoryEntry{
			Role:      "agent",
			Content:   c,
			Timestamp: time.Now().UTC(),
		}))
	}
}

func TestInMemoryStore_StoreAndLen(t *testing.T) {
	s := NewInMemoryStore()
	assert.Zero(t, s.Len())

	storeEntries(t, s, "first", "second")
	assert.Equal(t, 2, s.Len())
}

func TestInMemoryStore_QueryRanksByOverlap(t *testing.T) {
	s := NewInMemoryStore()
	storeEntries(t, s,
		"postgres query planner statistics",
		"the weather was sunny",
		"postgres planner",
	)

	results, err := s.Query(context.Background(), "postgres query planner", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Full overlap beats partial overlap.
	assert.Equal(t, "postgres query planner statistics", results[0].Content)
	assert.Equal(t, 1.0, results[0].Relevance)
	assert.Greater(t, results[0].Relevance, results[1].Relevance)
}

func TestInMemoryStore_QueryRespectsTopK(t *testing.T) {
	s := NewInMemoryStore()
	storeEntries(t, s, "topic a", "topic b", "topic c")

	results, err := s.Query(context.Background(), "topic", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestInMemoryStore_QueryEmptyInputs(t *testing.T) {
	s := NewInMemoryStore()
	storeEntries(t, s, "something")

	results, err := s.Query(context.Background(), "", 5)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = s.Query(context.Background(), "something", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNopStore(t *testing.T) {
	s := NewNopStore()

	assert.NoError(t, s.Store(context.Background(), core.MemoryEntry{Content: "x"}))

	results, err := s.Query(context.Background(), "x", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}
