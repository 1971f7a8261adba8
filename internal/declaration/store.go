package declaration

import (
	"context"
)

// ActivityStore records and aggregates weight-ticket activity.
type ActivityStore interface {
	// Record appends a weight-ticket line.
	Record(ctx context.Context, line ActivityLine) error

	// AggregateByStream sums the period's activity per waste stream:
	// total weight, count of distinct transports and the distinct
	// transporters involved. Streams without activity do not appear.
	AggregateByStream(ctx context.Context, period Period) ([]ReceivalDeclaration, error)
}

// SessionStore persists submission sessions and declaration error records.
type SessionStore interface {
	// Save persists a new session in PENDING state.
	Save(ctx context.Context, session *Session) error

	// Resolve moves a session to CONFIRMED or FAILED.
	Resolve(ctx context.Context, sessionID string, status SessionStatus) error

	// FindByID loads a session; sentinel.ErrNotFound if absent.
	FindByID(ctx context.Context, sessionID string) (*Session, error)

	// ListPending returns sessions awaiting registry confirmation.
	ListPending(ctx context.Context) ([]*Session, error)

	// EverDeclared reports, for each given number, whether it appears in
	// any non-FAILED session. Drives the first-receival exclusion.
	EverDeclared(ctx context.Context) (map[string]bool, error)

	// DeclaredInPeriod reports numbers already covered by a non-FAILED
	// session for the period, guarding against double-aggregation when
	// two scheduled runs overlap.
	DeclaredInPeriod(ctx context.Context, kind Kind, period Period) (map[string]bool, error)

	// RecordError appends a declaration error record for audit display.
	RecordError(ctx context.Context, rec ErrorRecord) error
}
