// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug in
// any structured logger. It also offers a richer WeaveLogger with contextual
// helpers (component, run) and domain specific helpers for model calls and
// workflow executions.
package logging
