package company

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "wastetrack/pkg/domain"
	"wastetrack/pkg/platform/sentinel"
)

// Postgres reads companies from the companies table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const companyColumns = `id, name, chamber_of_commerce_id, registry_number,
	street, house_number, house_number_addition, postcode, city, country`

func (s *Postgres) FindByID(ctx context.Context, companyID id.CompanyID) (*Company, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1`,
		uuid.UUID(companyID))
	return scanCompany(row)
}

func (s *Postgres) FindByChamberOfCommerceID(ctx context.Context, cocID string) (*Company, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE chamber_of_commerce_id = $1`,
		cocID)
	return scanCompany(row)
}

func scanCompany(row *sql.Row) (*Company, error) {
	var (
		c        Company
		rawID    uuid.UUID
		addition sql.NullString
		registry sql.NullString
	)
	err := row.Scan(&rawID, &c.Name, &c.ChamberOfCommerceID, &registry,
		&c.Address.Street, &c.Address.HouseNumber, &addition,
		&c.Address.Postcode, &c.Address.City, &c.Address.Country)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan company: %w", err)
	}
	c.ID = id.CompanyID(rawID)
	c.Address.HouseNumberAddition = addition.String
	c.RegistryNumber = registry.String
	return &c, nil
}
