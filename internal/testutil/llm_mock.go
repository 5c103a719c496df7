package testutil

import (
	"context"
	"sync"

	"github.com/ndewijer/Stock-Research-Backend/internal/llm"
)

// MockCompleter is a mock implementation of llm.Completer for testing.
// It returns Reply (or Err) and records every request.
type MockCompleter struct {
	mu       sync.Mutex
	Reply    string
	Err      error
	requests []llm.Request
}

var _ llm.Completer = (*MockCompleter)(nil)

// NewMockCompleter creates a mock that always answers with reply.
func NewMockCompleter(reply string) *MockCompleter {
	return &MockCompleter{Reply: reply}
}

func (m *MockCompleter) Name() string { return "mock" }

func (m *MockCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

// Requests returns the requests received so far.
func (m *MockCompleter) Requests() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]llm.Request(nil), m.requests...)
}
