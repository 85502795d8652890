package summary

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/agentweave/agentweave/core"
	"github.com/agentweave/agentweave/internal/util"
	"github.com/agentweave/agentweave/logging"
	"github.com/agentweave/agentweave/model"
	"github.com/tidwall/gjson"
)

const (
	// cacheKeyPrefixLen is the number of leading output characters used in
	// the summary cache key. Two outputs sharing agent id and head are
	// treated as identical for memoization purposes.
	cacheKeyPrefixLen = 100

	// fallbackInsightLen bounds the truncated raw output used as the single
	// key insight when summarization degrades.
	fallbackInsightLen = 250
)

const summarizerPrompt = `Condense the following output from %s (%s) into a compact JSON object with exactly these keys:
  "key_insights": up to %d short strings capturing the most important findings
  "decisions": decisions that were made
  "artifacts": concrete artifacts produced (files, documents, components)
  "next_steps": recommended follow-up actions

Respond with the JSON object only.

Output:
%s`

// SummarizerOptions configures a Summarizer.
type SummarizerOptions struct {
	// Temperature for the summarization call; summaries benefit from low
	// variance.
	Temperature float64
	Logger      logging.Logger
}

// Summarizer compresses raw agent output into a bounded ContextSummary via
// a model call.
//
// Summarize never fails: a model or parse error degrades to a fallback
// summary whose key insight is the truncated raw output. Computed summaries
// are cached by (agent id, output head) so re-summarizing identical output
// skips the model call. Safe for concurrent use.
type Summarizer struct {
	model  model.Model
	temp   float64
	logger logging.Logger

	mu    sync.Mutex
	cache map[string]core.ContextSummary
}

// NewSummarizer constructs a Summarizer backed by the given model.
func NewSummarizer(m model.Model, optFns ...func(o *SummarizerOptions)) *Summarizer {
	opts := SummarizerOptions{
		Temperature: 0.2,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Summarizer{
		model:  m,
		temp:   opts.Temperature,
		logger: opts.Logger,
		cache:  map[string]core.ContextSummary{},
	}
}

// Summarize produces a ContextSummary for the agent's output. This path
// never returns an error; degraded results are logged and substituted.
func (s *Summarizer) Summarize(ctx context.Context, output, agentID, role string) core.ContextSummary {
	key := cacheKey(agentID, output)

	s.mu.Lock()
	if cached, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	sum, err := s.summarizeViaModel(ctx, output, agentID, role)
	if err != nil {
		s.logger.Warn("summarization degraded to fallback", "agent_id", agentID, "error", err)
		sum = Fallback(output, agentID, role)
	}

	s.mu.Lock()
	s.cache[key] = sum
	s.mu.Unlock()

	return sum
}

func (s *Summarizer) summarizeViaModel(ctx context.Context, output, agentID, role string) (core.ContextSummary, error) {
	req := model.Request{
		System:      "You compress agent outputs into structured summaries. Respond with JSON only.",
		User:        fmt.Sprintf(summarizerPrompt, agentID, role, core.MaxKeyInsights, output),
		Temperature: model.Temp(s.temp),
	}

	raw, err := s.model.Generate(ctx, req)
	if err != nil {
		return core.ContextSummary{}, fmt.Errorf("summarization call failed: %w", err)
	}

	sum, ok := parseSummary(raw, agentID, role)
	if !ok {
		return core.ContextSummary{}, fmt.Errorf("summarization response contained no usable JSON")
	}
	return sum, nil
}

// parseSummary leniently extracts the summary object from free-form model
// output.
func parseSummary(raw, agentID, role string) (core.ContextSummary, bool) {
	block, ok := util.ExtractJSONObject(raw)
	if !ok || !gjson.Valid(block) {
		return core.ContextSummary{}, false
	}

	parsed := gjson.Parse(block)
	sum := core.ContextSummary{
		AgentID:       agentID,
		Role:          role,
		KeyInsights:   stringList(parsed.Get("key_insights"), core.MaxKeyInsights),
		Decisions:     stringList(parsed.Get("decisions"), 0),
		Artifacts:     stringList(parsed.Get("artifacts"), 0),
		NextSteps:     stringList(parsed.Get("next_steps"), 0),
		SourceAgentID: agentID,
	}

	if sum.ItemCount() == 0 {
		return core.ContextSummary{}, false
	}
	return sum, true
}

// stringList flattens a gjson array into trimmed non-empty strings, capped
// at limit when limit > 0.
func stringList(res gjson.Result, limit int) []string {
	if !res.IsArray() {
		return nil
	}
	var out []string
	for _, item := range res.Array() {
		s := strings.TrimSpace(item.String())
		if s == "" {
			continue
		}
		out = append(out, s)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Fallback builds the degraded summary used when model-backed
// summarization fails: the truncated raw output as a single key insight.
func Fallback(output, agentID, role string) core.ContextSummary {
	insight := strings.TrimSpace(output)
	if len(insight) > fallbackInsightLen {
		insight = insight[:fallbackInsightLen]
	}
	if insight == "" {
		insight = "(no output)"
	}
	return core.ContextSummary{
		AgentID:       agentID,
		Role:          role,
		KeyInsights:   []string{insight},
		SourceAgentID: agentID,
	}
}

func cacheKey(agentID, output string) string {
	head := output
	if len(head) > cacheKeyPrefixLen {
		head = head[:cacheKeyPrefixLen]
	}
	return agentID + "\x00" + head
}
