// Package domain holds shared identifier types. Typed IDs prevent cross-type
// assignment at compile time; parse helpers enforce validity at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "wastetrack/pkg/domain-errors"
)

type (
	// CompanyID identifies a company in the local directory.
	CompanyID uuid.UUID

	// ProjectLocationID identifies a stored project-location snapshot.
	ProjectLocationID uuid.UUID

	// TransportID identifies a waste transport.
	TransportID uuid.UUID

	// WeightTicketID identifies a weighbridge ticket line.
	WeightTicketID uuid.UUID
)

func (id CompanyID) String() string         { return uuid.UUID(id).String() }
func (id ProjectLocationID) String() string { return uuid.UUID(id).String() }
func (id TransportID) String() string       { return uuid.UUID(id).String() }
func (id WeightTicketID) String() string    { return uuid.UUID(id).String() }

func (id CompanyID) IsZero() bool         { return uuid.UUID(id) == uuid.Nil }
func (id ProjectLocationID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// The typed ids travel as canonical UUID strings in JSON bodies and jsonb
// documents. Defined types do not inherit uuid.UUID's text marshaling, so
// each delegates explicitly.

func (id CompanyID) MarshalText() ([]byte, error)         { return uuid.UUID(id).MarshalText() }
func (id ProjectLocationID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id TransportID) MarshalText() ([]byte, error)       { return uuid.UUID(id).MarshalText() }
func (id WeightTicketID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }

func (id *CompanyID) UnmarshalText(text []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(text)
}

func (id *ProjectLocationID) UnmarshalText(text []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(text)
}

func (id *TransportID) UnmarshalText(text []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(text)
}

func (id *WeightTicketID) UnmarshalText(text []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(text)
}

// ParseCompanyID parses and validates a company ID string.
func ParseCompanyID(s string) (CompanyID, error) {
	u, err := parseUUID(s, "company id")
	return CompanyID(u), err
}

// ParseProjectLocationID parses and validates a project location ID string.
func ParseProjectLocationID(s string) (ProjectLocationID, error) {
	u, err := parseUUID(s, "project location id")
	return ProjectLocationID(u), err
}

// ParseTransportID parses and validates a transport ID string.
func ParseTransportID(s string) (TransportID, error) {
	u, err := parseUUID(s, "transport id")
	return TransportID(u), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", label)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must not be the nil UUID", label)
	}
	return u, nil
}
