package declaration

import (
	"context"
	"sort"
	"sync"

	wsmodels "wastetrack/internal/wastestream/models"
	id "wastetrack/pkg/domain"
	"wastetrack/pkg/platform/sentinel"
)

// InMemoryActivity is a slice-backed activity store for tests and local
// development.
type InMemoryActivity struct {
	mu    sync.RWMutex
	lines []ActivityLine
}

func NewInMemoryActivity() *InMemoryActivity {
	return &InMemoryActivity{}
}

func (s *InMemoryActivity) Record(_ context.Context, line ActivityLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
	return nil
}

func (s *InMemoryActivity) AggregateByStream(_ context.Context, period Period) ([]ReceivalDeclaration, error) {
	start, end := period.Bounds()

	s.mu.RLock()
	defer s.mu.RUnlock()

	type bucket struct {
		weight       float64
		transports   map[id.TransportID]struct{}
		transporters map[string]wsmodels.CompanyRef
	}
	buckets := make(map[wsmodels.WasteStreamNumber]*bucket)
	for _, line := range s.lines {
		if line.OccurredAt.Before(start) || !line.OccurredAt.Before(end) {
			continue
		}
		b, ok := buckets[line.Number]
		if !ok {
			b = &bucket{
				transports:   make(map[id.TransportID]struct{}),
				transporters: make(map[string]wsmodels.CompanyRef),
			}
			buckets[line.Number] = b
		}
		b.weight += line.WeightKg
		b.transports[line.TransportID] = struct{}{}
		b.transporters[line.Transporter.ChamberOfCommerceID] = line.Transporter
	}

	out := make([]ReceivalDeclaration, 0, len(buckets))
	for number, b := range buckets {
		transporters := make([]wsmodels.CompanyRef, 0, len(b.transporters))
		for _, ref := range b.transporters {
			transporters = append(transporters, ref)
		}
		sort.Slice(transporters, func(i, j int) bool {
			return transporters[i].ChamberOfCommerceID < transporters[j].ChamberOfCommerceID
		})
		out = append(out, ReceivalDeclaration{
			Number:         number,
			Period:         period,
			Transporters:   transporters,
			TotalWeightKg:  b.weight,
			TotalShipments: len(b.transports),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// InMemorySessions is a map-backed session store for tests and local
// development.
type InMemorySessions struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	errors   []ErrorRecord
}

func NewInMemorySessions() *InMemorySessions {
	return &InMemorySessions{sessions: make(map[string]*Session)}
}

func (s *InMemorySessions) Save(_ context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[session.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *session
	s.sessions[session.ID] = &cp
	return nil
}

func (s *InMemorySessions) Resolve(_ context.Context, sessionID string, status SessionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return sentinel.ErrNotFound
	}
	session.Status = status
	return nil
}

func (s *InMemorySessions) FindByID(_ context.Context, sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if session, ok := s.sessions[sessionID]; ok {
		cp := *session
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemorySessions) ListPending(_ context.Context) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Session
	for _, session := range s.sessions {
		if session.Status == SessionPending {
			cp := *session
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out, nil
}

func (s *InMemorySessions) EverDeclared(_ context.Context) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	declared := make(map[string]bool)
	for _, session := range s.sessions {
		if session.Status == SessionFailed {
			continue
		}
		for _, number := range session.Numbers {
			declared[number.String()] = true
		}
	}
	return declared, nil
}

func (s *InMemorySessions) DeclaredInPeriod(_ context.Context, kind Kind, period Period) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	declared := make(map[string]bool)
	for _, session := range s.sessions {
		if session.Status == SessionFailed || session.Kind != kind || session.Period != period {
			continue
		}
		for _, number := range session.Numbers {
			declared[number.String()] = true
		}
	}
	return declared, nil
}

func (s *InMemorySessions) RecordError(_ context.Context, rec ErrorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, rec)
	return nil
}

// Errors returns recorded declaration errors; test helper.
func (s *InMemorySessions) Errors() []ErrorRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ErrorRecord(nil), s.errors...)
}
