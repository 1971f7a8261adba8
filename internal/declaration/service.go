package declaration

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"wastetrack/internal/events"
	wsmodels "wastetrack/internal/wastestream/models"
	dErrors "wastetrack/pkg/domain-errors"
	"wastetrack/pkg/platform/sentinel"
	"wastetrack/pkg/requestcontext"
)

// Item pairs a computed declaration with the stream it reports on; the
// registry message needs both the aggregates and the stream's party and
// location details.
type Item struct {
	Declaration ReceivalDeclaration
	Stream      *wsmodels.WasteStream
}

// Submission acknowledges a batch handed to the registry. Accepted false
// means the registry refused the whole session up front.
type Submission struct {
	SessionID string
	Accepted  bool
}

// Outcome is the asynchronous processing result of a submitted session.
// Resolved false means the registry is still working on it.
type Outcome struct {
	Resolved bool
	Accepted bool
	Errors   []ErrorDetail
}

// ErrorDetail is one registry error entry attached to a rejected session.
type ErrorDetail struct {
	Code        string
	Description string
}

// Registry is the outbound declaration port, satisfied by the amice adapter.
type Registry interface {
	Submit(ctx context.Context, kind Kind, items []Item) (Submission, error)
	Retrieve(ctx context.Context, sessionID string) (Outcome, error)
}

// Streams loads the aggregates referenced by activity lines.
// Satisfied by the waste stream store.
type Streams interface {
	FindByNumber(ctx context.Context, number wsmodels.WasteStreamNumber) (*wsmodels.WasteStream, error)
}

// Service aggregates receival activity into periodic declarations and drives
// the two-phase submit-now/poll-later session protocol.
type Service struct {
	activity ActivityStore
	sessions SessionStore
	streams  Streams
	registry Registry
	logger   *slog.Logger
	metrics  *Metrics
	events   events.Publisher
}

type serviceConfig struct {
	logger  *slog.Logger
	metrics *Metrics
	events  events.Publisher
}

// Option customizes optional service dependencies.
type Option func(*serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serviceConfig) { cfg.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(cfg *serviceConfig) { cfg.metrics = m }
}

func WithEvents(p events.Publisher) Option {
	return func(cfg *serviceConfig) { cfg.events = p }
}

func NewService(activity ActivityStore, sessions SessionStore, streams Streams, registry Registry, opts ...Option) *Service {
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
		activity: activity,
		sessions: sessions,
		streams:  streams,
		registry: registry,
		logger:   cfg.logger,
		metrics:  cfg.metrics,
		events:   cfg.events,
	}
}

// Record appends a weight-ticket line to the activity ledger.
func (s *Service) Record(ctx context.Context, line ActivityLine) error {
	if err := s.activity.Record(ctx, line); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "record activity line")
	}
	return nil
}

// Run submits both declaration kinds for the period. First receivals go out
// before the monthly batch so a stream's very first declaration is never
// preempted by its monthly aggregate.
func (s *Service) Run(ctx context.Context, period Period) error {
	_, firstErr := s.DeclareFirstReceivals(ctx, period)
	_, monthlyErr := s.DeclareMonthlyReceivals(ctx, period)
	return errors.Join(firstErr, monthlyErr)
}

// DeclareFirstReceivals submits a session covering streams whose activity in
// the period is their first ever: anything already covered by a non-failed
// session of either kind is excluded.
func (s *Service) DeclareFirstReceivals(ctx context.Context, period Period) (*Session, error) {
	declared, err := s.sessions.EverDeclared(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load declared numbers")
	}
	include := func(number string) bool { return !declared[number] }
	return s.declare(ctx, KindFirstReceival, period, include)
}

// DeclareMonthlyReceivals submits the period's regular aggregate session: only
// streams already under declaration, and not yet reported for this period.
// A stream's first month goes through the first-receival session instead, and
// the period guard keeps overlapping scheduled runs from double-reporting.
func (s *Service) DeclareMonthlyReceivals(ctx context.Context, period Period) (*Session, error) {
	declared, err := s.sessions.EverDeclared(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load declared numbers")
	}
	asFirst, err := s.sessions.DeclaredInPeriod(ctx, KindFirstReceival, period)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load period declarations")
	}
	asMonthly, err := s.sessions.DeclaredInPeriod(ctx, KindMonthlyReceival, period)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load period declarations")
	}
	include := func(number string) bool {
		return declared[number] && !asFirst[number] && !asMonthly[number]
	}
	return s.declare(ctx, KindMonthlyReceival, period, include)
}

func (s *Service) declare(ctx context.Context, kind Kind, period Period, include func(number string) bool) (*Session, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	decls, err := s.activity.AggregateByStream(ctx, period)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "aggregate receival activity")
	}

	items := make([]Item, 0, len(decls))
	for _, decl := range decls {
		if !include(decl.Number.String()) {
			continue
		}
		ws, err := s.streams.FindByNumber(ctx, decl.Number)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				// Activity against an unknown stream is a data defect;
				// it must not block the rest of the batch.
				s.logger.WarnContext(ctx, "skipping activity for unknown waste stream",
					slog.String("number", decl.Number.String()))
				continue
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load waste stream for declaration")
		}
		decl.Kind = kind
		items = append(items, Item{Declaration: decl, Stream: ws})
	}
	if len(items) == 0 {
		s.logger.InfoContext(ctx, "no receival declarations due",
			slog.String("kind", string(kind)), slog.String("period", period.String()))
		return nil, nil
	}

	sub, err := s.registry.Submit(ctx, kind, items)
	if err != nil {
		return nil, dErrors.Wrapf(err, dErrors.CodeUnavailable, "submit %s session", kind)
	}

	now := requestcontext.Now(ctx)
	session := &Session{
		ID:          sub.SessionID,
		Kind:        kind,
		Period:      period,
		Status:      SessionPending,
		SubmittedAt: now,
	}
	for _, item := range items {
		session.Numbers = append(session.Numbers, item.Declaration.Number)
	}
	if !sub.Accepted {
		session.Status = SessionFailed
		session.ResolvedAt = now
		if session.ID == "" {
			// An up-front rejection may come without a session number; key
			// the failed record locally so it still persists and a later
			// rejection cannot collide on an empty ID.
			session.ID = "local-" + uuid.NewString()
		}
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "persist declaration session")
	}
	s.metrics.RecordSession(kind, sub.Accepted)

	if !sub.Accepted {
		s.recordError(ctx, ErrorRecord{
			SessionID:   session.ID,
			Code:        "SESSION_REJECTED",
			Description: "registry refused the declaration session at submission",
			RecordedAt:  now,
		})
		s.publish(ctx, events.TypeSessionFailed, session)
		return session, &SessionFailedError{SessionID: session.ID, Kind: kind, Period: period}
	}

	s.metrics.RecordDeclarations(len(items))
	s.publish(ctx, events.TypeSessionSubmitted, session)
	s.logger.InfoContext(ctx, "declaration session submitted",
		slog.String("session_id", session.ID),
		slog.String("kind", string(kind)),
		slog.String("period", period.String()),
		slog.Int("declarations", len(items)))
	return session, nil
}

// GetSession loads one submission session.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "declaration session %s not found", sessionID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load declaration session")
	}
	return session, nil
}

// Aggregate computes the period's declarations without submitting anything;
// used for preview endpoints and reporting.
func (s *Service) Aggregate(ctx context.Context, period Period) ([]ReceivalDeclaration, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	decls, err := s.activity.AggregateByStream(ctx, period)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "aggregate receival activity")
	}
	return decls, nil
}

func (s *Service) recordError(ctx context.Context, rec ErrorRecord) {
	if err := s.sessions.RecordError(ctx, rec); err != nil {
		s.logger.ErrorContext(ctx, "failed to record declaration error",
			slog.String("session_id", rec.SessionID), slog.String("error", err.Error()))
	}
}

func (s *Service) publish(ctx context.Context, eventType string, session *Session) {
	err := s.events.Publish(ctx, events.Event{
		Type:       eventType,
		Key:        session.ID,
		OccurredAt: requestcontext.Now(ctx),
		Attributes: map[string]string{
			"kind":   string(session.Kind),
			"period": session.Period.String(),
		},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to publish session event",
			slog.String("type", eventType),
			slog.String("session_id", session.ID),
			slog.String("error", err.Error()))
	}
}
