package models

import (
	"time"

	dErrors "wastetrack/pkg/domain-errors"
)

// WasteType classifies the material moved under a stream.
type WasteType struct {
	Name             string `json:"name"`
	EuralCode        string `json:"eural_code"`        // grouped form, "17 04 05"
	ProcessingMethod string `json:"processing_method"` // grouped form, "A.01"
}

// WasteStream is the aggregate root for a registered waste movement.
//
// Invariants:
//   - Number is assigned once at creation and never changes
//   - Processor is mandatory
//   - only a stream whose effective status is DRAFT may be edited
//   - activation happens only through the validate-then-activate flow
type WasteStream struct {
	Number         WasteStreamNumber `json:"number"`
	WasteType      WasteType         `json:"waste_type"`
	CollectionType CollectionType    `json:"collection_type"`
	PickupLocation PickupLocation    `json:"pickup_location"`
	Processor      Processor         `json:"processor"`

	Consignor      Consignor               `json:"consignor"`
	Classification ConsignorClassification `json:"classification"`
	PickupParty    CompanyRef              `json:"pickup_party"`
	Dealer         *CompanyRef             `json:"dealer,omitempty"`
	Collector      *CompanyRef             `json:"collector,omitempty"`
	Broker         *CompanyRef             `json:"broker,omitempty"`

	Status         Status    `json:"status"`
	ActivatedAt    time.Time `json:"activated_at,omitzero"`
	LastActivityAt time.Time `json:"last_activity_at,omitzero"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Update carries the editable fields of a stream. The number, status and
// activity timestamps are not editable.
type Update struct {
	WasteType      WasteType
	CollectionType CollectionType
	PickupLocation PickupLocation
	Consignor      Consignor
	Classification ConsignorClassification
	PickupParty    CompanyRef
	Dealer         *CompanyRef
	Collector      *CompanyRef
	Broker         *CompanyRef
}

// CanUpdate checks whether the stream may be edited given its effective
// status. Only effectively-DRAFT streams are editable: once a stream is
// registered (or has decayed), edits require a new draft.
func (ws *WasteStream) CanUpdate(effective Status) error {
	if effective != StatusDraft {
		return dErrors.Newf(dErrors.CodeConflict, "waste stream %s is %s and can no longer be edited", ws.Number, effective)
	}
	return nil
}

// ApplyUpdate overwrites the editable fields. Call CanUpdate first.
func (ws *WasteStream) ApplyUpdate(upd Update, now time.Time) {
	ws.WasteType = upd.WasteType
	ws.CollectionType = upd.CollectionType
	ws.PickupLocation = upd.PickupLocation
	ws.Consignor = upd.Consignor
	ws.Classification = upd.Classification
	ws.PickupParty = upd.PickupParty
	ws.Dealer = upd.Dealer
	ws.Collector = upd.Collector
	ws.Broker = upd.Broker
	ws.UpdatedAt = now
}

// CanActivate checks the DRAFT -> ACTIVE transition.
func (ws *WasteStream) CanActivate() error {
	if ws.Status != StatusDraft {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "waste stream %s is %s, only drafts activate", ws.Number, ws.Status)
	}
	return nil
}

// ApplyActivation records the registry's acceptance. Pure status transition;
// persisting and event publishing are the caller's concern.
func (ws *WasteStream) ApplyActivation(now time.Time) {
	ws.Status = StatusActive
	ws.ActivatedAt = now
	ws.UpdatedAt = now
}

// TouchActivity records use of the stream in a transport or weight ticket,
// resetting the inactivity decay clock.
func (ws *WasteStream) TouchActivity(now time.Time) {
	if now.After(ws.LastActivityAt) {
		ws.LastActivityAt = now
	}
}
