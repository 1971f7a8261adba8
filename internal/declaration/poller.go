package declaration

import (
	"context"
	"log/slog"

	"wastetrack/internal/events"
	"wastetrack/pkg/requestcontext"
)

// Reconcile polls the registry for every pending session and settles the ones
// it has finished processing. One broken session never blocks the rest; its
// error is logged and the session stays pending for the next run.
func (s *Service) Reconcile(ctx context.Context) error {
	pending, err := s.sessions.ListPending(ctx)
	if err != nil {
		return err
	}
	for _, session := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.reconcileOne(ctx, session); err != nil {
			s.logger.ErrorContext(ctx, "failed to reconcile declaration session",
				slog.String("session_id", session.ID),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

func (s *Service) reconcileOne(ctx context.Context, session *Session) error {
	outcome, err := s.registry.Retrieve(ctx, session.ID)
	if err != nil {
		return err
	}
	if !outcome.Resolved {
		return nil
	}

	status := SessionFailed
	eventType := events.TypeSessionFailed
	if outcome.Accepted {
		status = SessionConfirmed
		eventType = events.TypeSessionConfirmed
	}
	if err := s.sessions.Resolve(ctx, session.ID, status); err != nil {
		return err
	}
	s.metrics.RecordResolution(status)

	if !outcome.Accepted {
		now := requestcontext.Now(ctx)
		for _, detail := range outcome.Errors {
			s.recordError(ctx, ErrorRecord{
				SessionID:   session.ID,
				Code:        detail.Code,
				Description: detail.Description,
				RecordedAt:  now,
			})
		}
		if len(outcome.Errors) == 0 {
			s.recordError(ctx, ErrorRecord{
				SessionID:   session.ID,
				Code:        "SESSION_REJECTED",
				Description: "registry rejected the session without error details",
				RecordedAt:  now,
			})
		}
	}

	s.publish(ctx, eventType, session)
	s.logger.InfoContext(ctx, "declaration session resolved",
		slog.String("session_id", session.ID),
		slog.String("status", string(status)))
	return nil
}
