// Package tool provides the tool invocation surface consumed by the
// workflow engine: an Invoker interface, a Registry implementation over
// registered tools, and a FunctionTool adapter exposing plain Go functions
// as tools.
package tool

import (
	"context"
	"fmt"
	"time"
)

// Input carries the run context handed to every tool invocation.
type Input struct {
	// UserInput is the workflow's original user input.
	UserInput string
	// PreviousOutputs maps agent id to latest output for agents that have
	// already completed, letting tools inspect upstream results.
	PreviousOutputs map[string]string
	// Args are optional structured arguments for the tool.
	Args map[string]any
}

// Result records the outcome of one tool invocation. Individual tool
// failures are reported through Success/Payload rather than an error so one
// broken tool does not abort the whole set.
type Result struct {
	Name     string        `json:"name"`
	Success  bool          `json:"success"`
	Duration time.Duration `json:"duration"`
	Payload  string        `json:"payload"`
}

// Invoker executes a named set of tools against a shared input.
type Invoker interface {
	Invoke(ctx context.Context, toolNames []string, input Input) ([]Result, error)
}

// Tool is a single invocable capability.
type Tool interface {
	Name() string
	Description() string
	// Parameters returns a minimal JSON-Schema-like map describing accepted
	// arguments.
	Parameters() map[string]any
	Execute(ctx context.Context, input Input) (string, error)
}

// Registry is an Invoker over a set of registered tools.
//
// Unknown tool names and tool execution errors produce failed Results; the
// error return is reserved for context cancellation so a run can still be
// aborted cleanly mid-invocation.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: map[string]Tool{}}
	r.Register(tools...)
	return r
}

// Register adds tools to the registry, replacing same-named entries.
func (r *Registry) Register(tools ...Tool) {
	for _, t := range tools {
		if _, exists := r.tools[t.Name()]; !exists {
			r.order = append(r.order, t.Name())
		}
		r.tools[t.Name()] = t
	}
}

// Names returns registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Invoke implements Invoker. Tools run in the order requested.
func (r *Registry) Invoke(ctx context.Context, toolNames []string, input Input) ([]Result, error) {
	results := make([]Result, 0, len(toolNames))
	for _, name := range toolNames {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		start := time.Now()
		t, ok := r.tools[name]
		if !ok {
			results = append(results, Result{
				Name:     name,
				Success:  false,
				Duration: time.Since(start),
				Payload:  fmt.Sprintf("tool %q is not registered", name),
			})
			continue
		}

		payload, err := t.Execute(ctx, input)
		res := Result{Name: name, Duration: time.Since(start)}
		if err != nil {
			res.Payload = err.Error()
		} else {
			res.Success = true
			res.Payload = payload
		}
		results = append(results, res)
	}
	return results, nil
}
