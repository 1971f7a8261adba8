// Package policy computes a waste stream's effective status from its stored
// status and activity history. Recomputing lazily at read time keeps the
// stored status as the last explicit transition and needs no background sweep:
// an ACTIVE stream merely appears INACTIVE or EXPIRED once enough time has
// passed, without the row ever being mutated.
package policy

import (
	"time"

	"wastetrack/internal/wastestream/models"
)

// Policy holds the inactivity decay thresholds. Both are measured from the
// stream's last activity and come from configuration.
type Policy struct {
	InactiveAfter time.Duration
	ExpireAfter   time.Duration
}

func New(inactiveAfter, expireAfter time.Duration) Policy {
	return Policy{InactiveAfter: inactiveAfter, ExpireAfter: expireAfter}
}

// Effective computes the status a stream presents at the given instant.
// Pure: identical inputs always yield identical results.
//
// DRAFT never decays; a draft with no activity is unused, not expired.
// Stored INACTIVE and EXPIRED pass through unchanged. ACTIVE decays to
// INACTIVE after InactiveAfter and to EXPIRED after ExpireAfter.
func (p Policy) Effective(stored models.Status, lastActivityAt, now time.Time) models.Status {
	if stored != models.StatusActive {
		return stored
	}
	if lastActivityAt.IsZero() {
		return models.StatusActive
	}
	idle := now.Sub(lastActivityAt)
	switch {
	case idle >= p.ExpireAfter:
		return models.StatusExpired
	case idle >= p.InactiveAfter:
		return models.StatusInactive
	default:
		return models.StatusActive
	}
}

// EffectiveFor computes the effective status of a stream, falling back to the
// activation timestamp when the stream has never been used in a transport.
func (p Policy) EffectiveFor(ws *models.WasteStream, now time.Time) models.Status {
	last := ws.LastActivityAt
	if last.IsZero() {
		last = ws.ActivatedAt
	}
	return p.Effective(ws.Status, last, now)
}

// Editable reports whether the stream may currently be edited.
func (p Policy) Editable(ws *models.WasteStream, now time.Time) bool {
	return p.EffectiveFor(ws, now) == models.StatusDraft
}
