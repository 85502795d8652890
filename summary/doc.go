// Package summary implements context compression for the workflow engine:
// a model-backed Summarizer that condenses raw agent output into a bounded
// ContextSummary (with caching and a fallback path that never fails), and a
// Selector that ranks summaries by relevance to a consuming agent.
package summary
