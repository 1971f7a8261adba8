package company

import (
	"context"
	"sync"

	id "wastetrack/pkg/domain"
	"wastetrack/pkg/platform/sentinel"
)

// InMemory is a map-backed company store for tests and local development.
type InMemory struct {
	mu      sync.RWMutex
	byID    map[id.CompanyID]*Company
	byCocID map[string]*Company
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:    make(map[id.CompanyID]*Company),
		byCocID: make(map[string]*Company),
	}
}

// Seed inserts or replaces a company.
func (s *InMemory) Seed(c *Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.byID[c.ID] = &cp
	s.byCocID[c.ChamberOfCommerceID] = &cp
}

func (s *InMemory) FindByID(_ context.Context, companyID id.CompanyID) (*Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.byID[companyID]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByChamberOfCommerceID(_ context.Context, cocID string) (*Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.byCocID[cocID]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}
