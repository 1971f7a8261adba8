package sequence

import (
	"context"
	"database/sql"
	"fmt"
)

// Postgres implements the counter as an atomic upsert: one round trip, no
// application-level locking, safe under arbitrary concurrent callers.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Next(ctx context.Context, processorNumber string) (int64, error) {
	var value int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO waste_stream_sequences (processor_number, value)
		VALUES ($1, 1)
		ON CONFLICT (processor_number)
		DO UPDATE SET value = waste_stream_sequences.value + 1
		RETURNING value`,
		processorNumber).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("next sequence value for processor %s: %w", processorNumber, err)
	}
	return value, nil
}
