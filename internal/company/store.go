package company

import (
	"context"

	id "wastetrack/pkg/domain"
)

// Store provides company lookups. Implementations return
// sentinel.ErrNotFound when no company matches.
type Store interface {
	FindByID(ctx context.Context, companyID id.CompanyID) (*Company, error)
	FindByChamberOfCommerceID(ctx context.Context, cocID string) (*Company, error)
}
