// Package service orchestrates the waste stream lifecycle: draft creation,
// edits, registry validation and activation.
package service

import (
	"context"
	"errors"
	"log/slog"

	"wastetrack/internal/events"
	"wastetrack/internal/wastestream/metrics"
	"wastetrack/internal/wastestream/models"
	"wastetrack/internal/wastestream/policy"
	"wastetrack/internal/wastestream/ports"
	"wastetrack/internal/wastestream/store"
	dErrors "wastetrack/pkg/domain-errors"
	"wastetrack/pkg/platform/sentinel"
	"wastetrack/pkg/requestcontext"
)

// Service exposes the waste stream use cases.
type Service struct {
	streams   store.Store
	factory   *Factory
	validator ports.Validator
	policy    policy.Policy
	logger    *slog.Logger
	metrics   *metrics.Metrics
	events    events.Publisher
}

type serviceConfig struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	events  events.Publisher
}

// Option customizes optional service dependencies.
type Option func(*serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serviceConfig) { cfg.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(cfg *serviceConfig) { cfg.metrics = m }
}

func WithEvents(p events.Publisher) Option {
	return func(cfg *serviceConfig) { cfg.events = p }
}

func New(streams store.Store, factory *Factory, validator ports.Validator, pol policy.Policy, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.events == nil {
		cfg.events = events.Noop{}
	}
	return &Service{
		streams:   streams,
		factory:   factory,
		validator: validator,
		policy:    pol,
		logger:    cfg.logger,
		metrics:   cfg.metrics,
		events:    cfg.events,
	}
}

// CreateDraft builds and persists a new draft without contacting the registry.
func (s *Service) CreateDraft(ctx context.Context, cmd models.Command) (*models.WasteStream, error) {
	ws, err := s.factory.CreateDraft(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if err := s.streams.Create(ctx, ws); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeConflict, "waste stream %s already exists", ws.Number)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "persist waste stream draft")
	}
	s.metrics.RecordDraftCreated()
	return ws, nil
}

// UpdateExisting re-resolves and persists an edit to a draft.
func (s *Service) UpdateExisting(ctx context.Context, number models.WasteStreamNumber, cmd models.Command) (*models.WasteStream, error) {
	ws, err := s.factory.UpdateExisting(ctx, number, cmd)
	if err != nil {
		return nil, err
	}
	if err := s.streams.Update(ctx, ws); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "persist waste stream update")
	}
	return ws, nil
}

// Get loads a stream and reports its effective status alongside the stored one.
func (s *Service) Get(ctx context.Context, number models.WasteStreamNumber) (*models.WasteStream, models.Status, error) {
	ws, err := s.streams.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, "", dErrors.Newf(dErrors.CodeNotFound, "waste stream %s not found", number)
		}
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "load waste stream")
	}
	return ws, s.policy.EffectiveFor(ws, requestcontext.Now(ctx)), nil
}

// ListByProcessor returns a processor's streams.
func (s *Service) ListByProcessor(ctx context.Context, processorNumber string) ([]*models.WasteStream, error) {
	streams, err := s.streams.ListByProcessor(ctx, processorNumber)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list waste streams")
	}
	return streams, nil
}

// Validate submits an existing stream to the registry without touching its
// status. The result is a displayable verdict either way.
func (s *Service) Validate(ctx context.Context, number models.WasteStreamNumber) (*models.ValidationResult, error) {
	ws, err := s.streams.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "waste stream %s not found", number)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load waste stream")
	}
	result, err := s.validator.Validate(ctx, ws)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordValidation(result.Valid)
	return result, nil
}
