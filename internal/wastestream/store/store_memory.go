package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"wastetrack/internal/wastestream/models"
	"wastetrack/pkg/platform/sentinel"
)

// InMemory is a map-backed waste stream store for tests and local development.
type InMemory struct {
	mu      sync.RWMutex
	streams map[models.WasteStreamNumber]*models.WasteStream
}

func NewInMemory() *InMemory {
	return &InMemory{streams: make(map[models.WasteStreamNumber]*models.WasteStream)}
}

func (s *InMemory) Create(_ context.Context, ws *models.WasteStream) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.streams[ws.Number]; exists {
		return sentinel.ErrConflict
	}
	cp := *ws
	s.streams[ws.Number] = &cp
	return nil
}

func (s *InMemory) Update(_ context.Context, ws *models.WasteStream) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.streams[ws.Number]; !exists {
		return sentinel.ErrNotFound
	}
	cp := *ws
	s.streams[ws.Number] = &cp
	return nil
}

func (s *InMemory) FindByNumber(_ context.Context, number models.WasteStreamNumber) (*models.WasteStream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ws, ok := s.streams[number]; ok {
		cp := *ws
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListByProcessor(_ context.Context, processorNumber string) ([]*models.WasteStream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.WasteStream
	for _, ws := range s.streams {
		if ws.Number.ProcessorPrefix() == processorNumber {
			cp := *ws
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (s *InMemory) TouchActivity(_ context.Context, number models.WasteStreamNumber, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.streams[number]
	if !ok {
		return sentinel.ErrNotFound
	}
	ws.TouchActivity(at)
	return nil
}
