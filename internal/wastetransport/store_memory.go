package wastetransport

import (
	"context"
	"sync"

	id "wastetrack/pkg/domain"
	"wastetrack/pkg/platform/sentinel"
)

// InMemory is a map-backed transport store for tests and local development.
type InMemory struct {
	mu         sync.RWMutex
	transports map[id.TransportID]*WasteTransport
}

func NewInMemory() *InMemory {
	return &InMemory{transports: make(map[id.TransportID]*WasteTransport)}
}

func (s *InMemory) Create(_ context.Context, transport *WasteTransport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.transports[transport.ID]; exists {
		return sentinel.ErrConflict
	}
	s.transports[transport.ID] = clone(transport)
	return nil
}

func (s *InMemory) Update(_ context.Context, transport *WasteTransport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.transports[transport.ID]; !exists {
		return sentinel.ErrNotFound
	}
	s.transports[transport.ID] = clone(transport)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, transportID id.TransportID) (*WasteTransport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if transport, ok := s.transports[transportID]; ok {
		return clone(transport), nil
	}
	return nil, sentinel.ErrNotFound
}

func clone(t *WasteTransport) *WasteTransport {
	cp := *t
	cp.Goods = append([]GoodsItem(nil), t.Goods...)
	return &cp
}
