// Package projectlocation stores address snapshots for project sites. A waste
// stream referencing a project keeps working even when the project record is
// later edited or removed, because the stream resolves against the snapshot.
package projectlocation

import (
	"context"

	"wastetrack/internal/company"
	id "wastetrack/pkg/domain"
)

// ProjectLocation is a stored pickup-site snapshot.
type ProjectLocation struct {
	ID      id.ProjectLocationID `json:"id"`
	Name    string               `json:"name"`
	Address company.Address      `json:"address"`
}

// Store provides project location lookups. Implementations return
// sentinel.ErrNotFound when no snapshot matches.
type Store interface {
	FindByID(ctx context.Context, locationID id.ProjectLocationID) (*ProjectLocation, error)
}
