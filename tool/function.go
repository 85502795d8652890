package tool

import (
	"context"
	"fmt"

	"github.com/agentweave/agentweave/internal/util"
)

// FunctionTool is a generic adapter that exposes a plain Go function as an
// AgentWeave tool.
//
// Responsibilities:
//   - Holds a lightweight JSON-Schema-like parameter specification
//   - Validates supplied arguments against that schema before execution
//   - Invokes the wrapped function with the run-scoped Input
//
// A FunctionTool has no internal mutable state after construction and is
// safe for concurrent use by multiple goroutines.
type FunctionTool struct {
	// Tool identifier (snake_case recommended)
	name string
	// Human-readable description shown to models
	description string
	// JSON schema describing accepted arguments
	parameters map[string]any
	// User supplied implementation
	fn func(ctx context.Context, input Input) (string, error)
}

// NewFunctionTool constructs a FunctionTool from explicit schema and
// function.
//
// Example:
//
//	searchTool := NewFunctionTool(
//	  "web_search",
//	  "Search the web for the user's topic",
//	  map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	      "query": map[string]any{"type": "string"},
//	    },
//	  },
//	  func(ctx context.Context, input Input) (string, error) {
//	    return search(ctx, input.UserInput)
//	  },
//	)
func NewFunctionTool(
	name, description string,
	parameters map[string]any,
	fn func(ctx context.Context, input Input) (string, error),
) *FunctionTool {
	return &FunctionTool{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
}

// Name returns the tool identifier.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the human-readable tool description.
func (t *FunctionTool) Description() string { return t.description }

// Parameters returns the parameter schema.
func (t *FunctionTool) Parameters() map[string]any { return t.parameters }

// Execute validates arguments against the schema and runs the wrapped
// function.
func (t *FunctionTool) Execute(ctx context.Context, input Input) (string, error) {
	if t.parameters != nil && input.Args != nil {
		if err := util.ValidateParameters(input.Args, t.parameters); err != nil {
			return "", fmt.Errorf("tool %s: %w", t.name, err)
		}
	}
	return t.fn(ctx, input)
}
