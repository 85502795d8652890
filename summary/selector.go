package summary

import (
	"sort"
	"strings"

	"github.com/agentweave/agentweave/core"
)

// Relevance weights. Recency and goal overlap dominate; richness is a
// smaller signal rewarding summaries that actually carry content.
const (
	recencyWeight  = 0.4
	overlapWeight  = 0.4
	richnessWeight = 0.2

	// richnessCap is the item count at which a summary earns the full
	// richness score.
	richnessCap = 10
)

// stopWords are stripped from goal text before keyword matching.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "in": true, "is": true,
	"it": true, "its": true, "of": true, "on": true, "or": true, "that": true,
	"the": true, "their": true, "this": true, "to": true, "with": true,
	"your": true, "you": true, "will": true, "should": true, "must": true,
}

// Select returns the top maxItems summaries by descending relevance to the
// agent, preserving original order on ties (stable sort) so selection is
// deterministic and testable.
//
// Score per summary:
//
//	0.4·recency (position in the pool, later = fresher)
//	0.4·keyword overlap between the agent's goal and the summary text
//	0.2·content richness (populated item count, capped)
func Select(agent core.Agent, summaries []core.ContextSummary, maxItems int) []core.ContextSummary {
	if maxItems <= 0 || len(summaries) == 0 {
		return []core.ContextSummary{}
	}

	keywords := goalKeywords(agent.Goal)

	type scored struct {
		sum   core.ContextSummary
		score float64
	}
	pool := make([]scored, len(summaries))
	for i, sum := range summaries {
		recency := float64(i+1) / float64(len(summaries))
		overlap := keywordOverlap(keywords, sum.Text())
		richness := richnessScore(sum)
		pool[i] = scored{
			sum:   sum,
			score: recencyWeight*recency + overlapWeight*overlap + richnessWeight*richness,
		}
	}

	sort.SliceStable(pool, func(i, j int) bool { return pool[i].score > pool[j].score })

	if maxItems > len(pool) {
		maxItems = len(pool)
	}
	out := make([]core.ContextSummary, maxItems)
	for i := 0; i < maxItems; i++ {
		out[i] = pool[i].sum
	}
	return out
}

// goalKeywords lower-cases and tokenizes goal text, dropping stop words.
func goalKeywords(goal string) []string {
	fields := strings.FieldsFunc(strings.ToLower(goal), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 || stopWords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}

// keywordOverlap returns the fraction of goal keywords found as substrings
// of the summary text.
func keywordOverlap(keywords []string, text string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return float64(hits) / float64(len(keywords))
}

// richnessScore is the min-capped fraction of populated list items.
func richnessScore(sum core.ContextSummary) float64 {
	count := sum.ItemCount()
	if count >= richnessCap {
		return 1
	}
	return float64(count) / float64(richnessCap)
}
