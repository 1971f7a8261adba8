package projectlocation

import (
	"context"
	"sync"

	id "wastetrack/pkg/domain"
	"wastetrack/pkg/platform/sentinel"
)

// InMemory is a map-backed project location store for tests and local development.
type InMemory struct {
	mu   sync.RWMutex
	byID map[id.ProjectLocationID]*ProjectLocation
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[id.ProjectLocationID]*ProjectLocation)}
}

// Seed inserts or replaces a project location.
func (s *InMemory) Seed(pl *ProjectLocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *pl
	s.byID[pl.ID] = &cp
}

func (s *InMemory) FindByID(_ context.Context, locationID id.ProjectLocationID) (*ProjectLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if pl, ok := s.byID[locationID]; ok {
		cp := *pl
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}
