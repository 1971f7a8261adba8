package models

// Status is a waste stream lifecycle status.
//
// The stored status only records explicit transitions: DRAFT at creation,
// ACTIVE after the registry accepted the stream. INACTIVE and EXPIRED are
// normally computed lazily from inactivity (see the policy package) but can
// also be stored when the registry revokes a stream.
type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusExpired  Status = "EXPIRED"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusInactive, StatusExpired:
		return true
	}
	return false
}
