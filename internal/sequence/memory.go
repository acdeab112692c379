package sequence

import (
	"context"
	"sync"
)

// Memory is an in-process Repository used by tests and local development.
type Memory struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMemory creates an empty in-memory counter set.
func NewMemory() *Memory {
	return &Memory{counters: make(map[string]int64)}
}

func (m *Memory) Next(_ context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
	return m.counters[name], nil
}

func (m *Memory) Reset(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name] = 0
	return nil
}
