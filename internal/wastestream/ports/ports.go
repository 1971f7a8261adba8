// Package ports declares the waste stream domain's outbound dependencies as
// plain interfaces so the service stays testable with in-memory fakes.
package ports

import (
	"context"

	"wastetrack/internal/company"
	"wastetrack/internal/projectlocation"
	"wastetrack/internal/wastestream/models"
	id "wastetrack/pkg/domain"
)

// Companies resolves party references against the company directory.
// Satisfied by company.Store.
type Companies interface {
	FindByID(ctx context.Context, companyID id.CompanyID) (*company.Company, error)
	FindByChamberOfCommerceID(ctx context.Context, cocID string) (*company.Company, error)
}

// ProjectLocations resolves stored pickup-site snapshots.
// Satisfied by projectlocation.Store.
type ProjectLocations interface {
	FindByID(ctx context.Context, locationID id.ProjectLocationID) (*projectlocation.ProjectLocation, error)
}

// Validator submits a waste stream to the external registry for validation.
//
// A registry rejection is NOT an error: it comes back as a result with
// Valid=false. Transport faults and missing configuration are folded into
// invalid results as well, so callers always get a displayable verdict. The
// error return is reserved for context cancellation and programming errors.
type Validator interface {
	Validate(ctx context.Context, ws *models.WasteStream) (*models.ValidationResult, error)
}
