// Package events publishes lifecycle events for downstream consumers
// (reporting, audit, the invoicing system). Publishing is best-effort:
// domain flows never fail because an event could not be delivered.
package events

import (
	"context"
	"time"
)

// Event types emitted by this service.
const (
	TypeStreamActivated  = "wastestream.activated"
	TypeSessionSubmitted = "declaration.session.submitted"
	TypeSessionConfirmed = "declaration.session.confirmed"
	TypeSessionFailed    = "declaration.session.failed"
)

// Event is a lifecycle fact. Key groups related events on the same partition.
type Event struct {
	Type       string            `json:"type"`
	Key        string            `json:"key"`
	OccurredAt time.Time         `json:"occurred_at"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Publisher delivers lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Noop discards events; used when no brokers are configured and in tests.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
