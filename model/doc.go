// Package model defines the language-model abstraction consumed by the
// workflow engine, plus a deterministic MockModel for tests and examples.
// Provider adapters live in the sub-packages model/openai and
// model/anthropic.
package model
