package sequence

import (
	"context"
	"sync"
)

// InMemory is a mutex-guarded counter map, matching the atomicity contract of
// the database-backed store for tests and local development.
type InMemory struct {
	mu     sync.Mutex
	values map[string]int64
}

func NewInMemory() *InMemory {
	return &InMemory{values: make(map[string]int64)}
}

func (s *InMemory) Next(_ context.Context, processorNumber string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[processorNumber]++
	return s.values[processorNumber], nil
}
