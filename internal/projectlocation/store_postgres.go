package projectlocation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "wastetrack/pkg/domain"
	"wastetrack/pkg/platform/sentinel"
)

// Postgres reads project location snapshots from the project_locations table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) FindByID(ctx context.Context, locationID id.ProjectLocationID) (*ProjectLocation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, street, house_number, house_number_addition, postcode, city, country
		 FROM project_locations WHERE id = $1`,
		uuid.UUID(locationID))

	var (
		pl       ProjectLocation
		rawID    uuid.UUID
		addition sql.NullString
	)
	err := row.Scan(&rawID, &pl.Name, &pl.Address.Street, &pl.Address.HouseNumber,
		&addition, &pl.Address.Postcode, &pl.Address.City, &pl.Address.Country)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan project location: %w", err)
	}
	pl.ID = id.ProjectLocationID(rawID)
	pl.Address.HouseNumberAddition = addition.String
	return &pl, nil
}
