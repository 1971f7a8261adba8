package wastetransport

import (
	"context"

	id "wastetrack/pkg/domain"
)

// Store is the transport persistence port. Implementations return sentinel
// errors; the service layer translates them into coded domain errors.
type Store interface {
	// Create persists a new transport. Returns sentinel.ErrConflict if the
	// ID is already taken.
	Create(ctx context.Context, transport *WasteTransport) error

	// Update overwrites an existing transport. Returns sentinel.ErrNotFound
	// if the ID is unknown.
	Update(ctx context.Context, transport *WasteTransport) error

	// FindByID loads a transport. Returns sentinel.ErrNotFound if absent.
	FindByID(ctx context.Context, transportID id.TransportID) (*WasteTransport, error)
}
