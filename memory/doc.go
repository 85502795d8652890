// Package memory provides reference implementations of core.MemoryStore: a
// process-local keyword-scored store suitable for tests and demos, and a
// NopStore used whenever memory is not configured.
package memory
