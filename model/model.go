package model

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Request captures one normalized model call produced by the engine: a
// system prompt (role framing), a user prompt (task + context) and an
// optional temperature override.
type Request struct {
	System string `json:"system"`
	User   string `json:"user"`
	// Temperature overrides the adapter default when non-nil.
	Temperature *float64 `json:"temperature,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface required to drive generation. Retry and
// rate-limiting policy is the implementation's concern; the engine treats a
// returned error as fatal for the enclosing turn.
type Model interface {
	// Generate produces a completion for the request. Implementations must
	// respect context cancellation.
	Generate(ctx context.Context, req Request) (string, error)

	// Info returns information about the model implementation.
	Info() Info
}

// Temp is a convenience helper for building temperature overrides.
func Temp(t float64) *float64 { return &t }

// MockModel is a lightweight in-memory Model useful for tests & examples.
//
// Responses can be registered three ways, consulted in order:
//  1. Scripted responses returned sequentially via Enqueue
//  2. Substring matchers registered via Respond
//  3. A generated echo fallback
//
// MockModel records every request it receives so tests can assert on the
// exact prompts the engine constructed. Safe for concurrent use.
type MockModel struct {
	mu        sync.Mutex
	info      Info
	queue     []string
	matchers  []matcher
	requests  []Request
	failWith  error
	failAfter int // number of successful calls before failWith applies; -1 = immediately
}

type matcher struct {
	substr   string
	response string
}

// NewMockModel constructs a MockModel.
func NewMockModel() *MockModel {
	return &MockModel{
		info:      Info{Name: "mock", Provider: "mock"},
		failAfter: -1,
	}
}

// Enqueue appends scripted responses returned in FIFO order before any
// matcher is consulted.
func (m *MockModel) Enqueue(responses ...string) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, responses...)
	return m
}

// Respond registers a canned response for any request whose user prompt
// contains substr. Matchers are consulted in registration order.
func (m *MockModel) Respond(substr, response string) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchers = append(m.matchers, matcher{substr: substr, response: response})
	return m
}

// FailWith makes every subsequent Generate call return err.
func (m *MockModel) FailWith(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
	m.failAfter = 0
	return m
}

// FailAfter makes Generate succeed n times and then return err.
func (m *MockModel) FailAfter(n int, err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
	m.failAfter = n
	return m
}

// Requests returns a copy of all requests received so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// CallCount returns the number of Generate calls received.
func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	calls := len(m.requests)
	m.requests = append(m.requests, req)

	if m.failWith != nil && m.failAfter >= 0 && calls >= m.failAfter {
		return "", m.failWith
	}

	if len(m.queue) > 0 {
		resp := m.queue[0]
		m.queue = m.queue[1:]
		return resp, nil
	}

	for _, mt := range m.matchers {
		if strings.Contains(req.User, mt.substr) {
			return mt.response, nil
		}
	}

	return fmt.Sprintf("Mock response to: %s", req.User), nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
