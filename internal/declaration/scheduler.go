package declaration

import (
	"context"
	"log/slog"
	"time"

	"github.com/adhocore/gronx"
)

// Scheduler drives the periodic declaration runs and the session poller from
// cron expressions. Ticks are minute-granular; a fired minute is remembered so
// a short tick interval cannot double-fire an expression.
type Scheduler struct {
	service *Service
	gron    *gronx.Gronx
	logger  *slog.Logger

	runExpr  string
	pollExpr string
	tick     time.Duration

	lastRun  time.Time
	lastPoll time.Time
}

func NewScheduler(service *Service, runExpr, pollExpr string, tick time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if tick <= 0 {
		tick = time.Minute
	}
	return &Scheduler{
		service:  service,
		gron:     gronx.New(),
		logger:   logger,
		runExpr:  runExpr,
		pollExpr: pollExpr,
		tick:     tick,
	}
}

// Start blocks until the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	s.logger.InfoContext(ctx, "declaration scheduler started",
		slog.String("run_schedule", s.runExpr),
		slog.String("poll_schedule", s.pollExpr))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.onTick(ctx, now)
		}
	}
}

func (s *Scheduler) onTick(ctx context.Context, now time.Time) {
	minute := now.Truncate(time.Minute)

	if s.due(s.runExpr, minute, s.lastRun) {
		s.lastRun = minute
		// Declaration runs report over the month that just closed.
		period := PeriodOf(now).Previous()
		s.logger.InfoContext(ctx, "starting scheduled declaration run",
			slog.String("period", period.String()))
		if err := s.service.Run(ctx, period); err != nil {
			s.logger.ErrorContext(ctx, "scheduled declaration run failed",
				slog.String("period", period.String()),
				slog.String("error", err.Error()))
		}
	}

	if s.due(s.pollExpr, minute, s.lastPoll) {
		s.lastPoll = minute
		if err := s.service.Reconcile(ctx); err != nil {
			s.logger.ErrorContext(ctx, "session reconciliation failed",
				slog.String("error", err.Error()))
		}
	}
}

func (s *Scheduler) due(expr string, minute, last time.Time) bool {
	if expr == "" || minute.Equal(last) {
		return false
	}
	ok, err := s.gron.IsDue(expr, minute)
	if err != nil {
		s.logger.Error("invalid cron expression", slog.String("expr", expr), slog.String("error", err.Error()))
		return false
	}
	return ok
}
