// Package store persists waste stream aggregates. Implementations return
// sentinel errors; the service layer translates them into coded domain errors.
package store

import (
	"context"
	"time"

	"wastetrack/internal/wastestream/models"
)

// Store is the waste stream persistence port.
type Store interface {
	// Create persists a new draft. Returns sentinel.ErrConflict if the
	// number is already taken.
	Create(ctx context.Context, ws *models.WasteStream) error

	// Update overwrites an existing stream. Returns sentinel.ErrNotFound
	// if the number is unknown.
	Update(ctx context.Context, ws *models.WasteStream) error

	// FindByNumber loads a stream. Returns sentinel.ErrNotFound if absent.
	FindByNumber(ctx context.Context, number models.WasteStreamNumber) (*models.WasteStream, error)

	// ListByProcessor returns all streams scoped to a processor registry
	// number, ordered by number.
	ListByProcessor(ctx context.Context, processorNumber string) ([]*models.WasteStream, error)

	// TouchActivity advances a stream's last activity timestamp. Never
	// moves the timestamp backwards.
	TouchActivity(ctx context.Context, number models.WasteStreamNumber, at time.Time) error
}
