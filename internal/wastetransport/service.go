package wastetransport

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"wastetrack/internal/declaration"
	wsmodels "wastetrack/internal/wastestream/models"
	wsstore "wastetrack/internal/wastestream/store"
	id "wastetrack/pkg/domain"
	dErrors "wastetrack/pkg/domain-errors"
	"wastetrack/pkg/platform/sentinel"
	"wastetrack/pkg/requestcontext"
)

// ActivityRecorder feeds weight-ticket lines into the declaration ledger.
// Satisfied by declaration.Service.
type ActivityRecorder interface {
	Record(ctx context.Context, line declaration.ActivityLine) error
}

// Service exposes the transport use cases. Using a stream in a transport or a
// weight ticket touches its activity timestamp, which is what keeps an active
// stream from decaying.
type Service struct {
	transports Store
	streams    wsstore.Store
	factory    *Factory
	activity   ActivityRecorder
	logger     *slog.Logger
}

func NewService(transports Store, streams wsstore.Store, factory *Factory, activity ActivityRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		transports: transports,
		streams:    streams,
		factory:    factory,
		activity:   activity,
		logger:     logger,
	}
}

// Create builds and persists a transport, then touches every referenced
// stream's activity clock.
func (s *Service) Create(ctx context.Context, cmd Command) (*WasteTransport, error) {
	transport, err := s.factory.Create(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if err := s.transports.Create(ctx, transport); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeConflict, "transport %s already exists", transport.ID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "persist transport")
	}
	s.touchStreams(ctx, transport, requestcontext.Now(ctx))
	return transport, nil
}

// Update replaces a transport's contents through the same gates as creation.
func (s *Service) Update(ctx context.Context, transportID id.TransportID, cmd Command) (*WasteTransport, error) {
	existing, err := s.Get(ctx, transportID)
	if err != nil {
		return nil, err
	}
	transport, err := s.factory.Update(ctx, existing, cmd)
	if err != nil {
		return nil, err
	}
	if err := s.transports.Update(ctx, transport); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "persist transport update")
	}
	s.touchStreams(ctx, transport, requestcontext.Now(ctx))
	return transport, nil
}

// Get loads one transport.
func (s *Service) Get(ctx context.Context, transportID id.TransportID) (*WasteTransport, error) {
	transport, err := s.transports.FindByID(ctx, transportID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "transport %s not found", transportID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load transport")
	}
	return transport, nil
}

// RecordWeightTicket registers a weighed delivery against a transport. The
// line lands in the activity ledger the monthly declarations aggregate over.
func (s *Service) RecordWeightTicket(ctx context.Context, transportID id.TransportID, number string, weightKg float64, occurredAt time.Time) (*declaration.ActivityLine, error) {
	if weightKg < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "weight cannot be negative")
	}
	transport, err := s.Get(ctx, transportID)
	if err != nil {
		return nil, err
	}
	parsed, err := s.goodsNumber(transport, number)
	if err != nil {
		return nil, err
	}
	if occurredAt.IsZero() {
		occurredAt = requestcontext.Now(ctx)
	}

	line := declaration.ActivityLine{
		ID:          id.WeightTicketID(uuid.New()),
		Number:      parsed,
		TransportID: transport.ID,
		Transporter: transport.Transporter,
		WeightKg:    weightKg,
		OccurredAt:  occurredAt,
	}
	if err := s.activity.Record(ctx, line); err != nil {
		return nil, err
	}
	if err := s.streams.TouchActivity(ctx, parsed, occurredAt); err != nil {
		s.logger.ErrorContext(ctx, "failed to touch waste stream activity",
			slog.String("number", parsed.String()),
			slog.String("error", err.Error()))
	}
	return &line, nil
}

func (s *Service) goodsNumber(transport *WasteTransport, number string) (wsmodels.WasteStreamNumber, error) {
	parsed, err := wsmodels.ParseWasteStreamNumber(number)
	if err != nil {
		return "", err
	}
	for _, item := range transport.Goods {
		if item.Number == parsed {
			return parsed, nil
		}
	}
	return "", dErrors.Newf(dErrors.CodeValidation,
		"waste stream %s is not on transport %s", parsed, transport.ID)
}

func (s *Service) touchStreams(ctx context.Context, transport *WasteTransport, at time.Time) {
	seen := make(map[wsmodels.WasteStreamNumber]bool, len(transport.Goods))
	for _, item := range transport.Goods {
		if seen[item.Number] {
			continue
		}
		seen[item.Number] = true
		if err := s.streams.TouchActivity(ctx, item.Number, at); err != nil {
			s.logger.ErrorContext(ctx, "failed to touch waste stream activity",
				slog.String("number", item.Number.String()),
				slog.String("error", err.Error()))
		}
	}
}
