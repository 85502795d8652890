// Package core provides the foundational domain types used by AgentWeave.
// It defines the shared vocabulary for:
//
//   - Agents and SubAgents (declarative role/goal definitions)
//   - RunState (the single mutable store threaded through a workflow run)
//   - TimelineEntry (the append-only audit log of completed turns)
//   - ContextSummary (bounded compression of an agent's raw output)
//   - TurnEvent (read-only records emitted per completed agent turn)
//   - Pluggable store interfaces for memory recall/search
//
// The package intentionally keeps implementation concerns (model providers,
// executors, tool registries) out of scope, exposing small interfaces so
// custom backends can be plugged in without touching the coordination core.
package core
