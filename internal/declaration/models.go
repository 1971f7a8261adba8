// Package declaration aggregates waste receival activity into periodic
// registry declarations and tracks their submission sessions.
package declaration

import (
	"fmt"
	"time"

	wsmodels "wastetrack/internal/wastestream/models"
	id "wastetrack/pkg/domain"
	dErrors "wastetrack/pkg/domain-errors"
)

// Period is a reporting year-month.
type Period struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Previous returns the calendar month before p.
func (p Period) Previous() Period {
	t := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return PeriodOf(t)
}

// Bounds returns the half-open UTC interval [start, end) covered by p.
func (p Period) Bounds() (time.Time, time.Time) {
	start := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Melding encodes the period the way the registry wants it: zero-padded
// two-digit month concatenated with the four-digit year ("012026").
func (p Period) Melding() string {
	return fmt.Sprintf("%02d%04d", int(p.Month), p.Year)
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Valid reports whether p names a real year-month.
func (p Period) Valid() bool {
	return p.Year >= 2000 && p.Month >= time.January && p.Month <= time.December
}

// Kind distinguishes the two declaration flavors.
type Kind string

const (
	KindFirstReceival   Kind = "FIRST_RECEIVAL"
	KindMonthlyReceival Kind = "MONTHLY_RECEIVAL"
)

// ReceivalDeclaration is the ephemeral, query-computed report for one waste
// stream in one period. Constructed fresh on each declaration run, never
// mutated, submitted once per session.
type ReceivalDeclaration struct {
	Number         wsmodels.WasteStreamNumber `json:"number"`
	Kind           Kind                       `json:"kind"`
	Period         Period                     `json:"period"`
	Transporters   []wsmodels.CompanyRef      `json:"transporters"`
	TotalWeightKg  float64                    `json:"total_weight_kg"`
	TotalShipments int                        `json:"total_shipments"`
}

// ActivityLine is one weight-ticket line feeding the aggregation queries.
type ActivityLine struct {
	ID          id.WeightTicketID          `json:"id"`
	Number      wsmodels.WasteStreamNumber `json:"number"`
	TransportID id.TransportID             `json:"transport_id"`
	Transporter wsmodels.CompanyRef        `json:"transporter"`
	WeightKg    float64                    `json:"weight_kg"`
	OccurredAt  time.Time                  `json:"occurred_at"`
}

// SessionStatus tracks the two-phase submit-now/poll-later protocol.
type SessionStatus string

const (
	SessionPending   SessionStatus = "PENDING"
	SessionConfirmed SessionStatus = "CONFIRMED"
	SessionFailed    SessionStatus = "FAILED"
)

// Session is the persisted external reference for one batched submission.
// The registry confirms or rejects the whole batch asynchronously; there is
// no per-declaration outcome inside a session.
type Session struct {
	ID          string                       `json:"id"` // registry-issued session identifier
	Kind        Kind                         `json:"kind"`
	Period      Period                       `json:"period"`
	Numbers     []wsmodels.WasteStreamNumber `json:"numbers"`
	Status      SessionStatus                `json:"status"`
	SubmittedAt time.Time                    `json:"submitted_at"`
	ResolvedAt  time.Time                    `json:"resolved_at,omitzero"`
}

// ErrorRecord is a persisted declaration failure detail for audit display.
type ErrorRecord struct {
	SessionID   string    `json:"session_id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// SessionFailedError is raised when the registry rejects a whole batch.
// No partial-success path exists in the protocol, so the caller's retry
// policy must resubmit the entire batch.
type SessionFailedError struct {
	SessionID string
	Kind      Kind
	Period    Period
}

func (e *SessionFailedError) Error() string {
	return fmt.Sprintf("declaration session %s (%s %s) rejected by registry; whole batch unconfirmed", e.SessionID, e.Kind, e.Period)
}

func validatePeriod(p Period) error {
	if !p.Valid() {
		return dErrors.Newf(dErrors.CodeBadRequest, "invalid reporting period %s", p)
	}
	return nil
}
