package models

import (
	id "wastetrack/pkg/domain"
)

// CompanyRef is a resolved snapshot of a company's registry-relevant fields.
// The country drives the mapper's name-omission rule.
type CompanyRef struct {
	CompanyID           id.CompanyID `json:"company_id"`
	Name                string       `json:"name"`
	ChamberOfCommerceID string       `json:"chamber_of_commerce_id"`
	Country             string       `json:"country"`
}

// IsDutch reports whether the company is registered in the Netherlands.
func (r CompanyRef) IsDutch() bool { return r.Country == "Nederland" }

// Consignor is the party disposing of the waste: a company, or a private
// individual who carries no company reference.
type Consignor struct {
	Company *CompanyRef `json:"company,omitempty"`
	Private bool        `json:"private"`
}

// ConsignorClassification is the registry's coded classification of the
// consignor's role in the waste chain.
type ConsignorClassification int

const (
	ClassificationOriginal  ConsignorClassification = 1 // ontdoener
	ClassificationCollector ConsignorClassification = 2
	ClassificationDealer    ConsignorClassification = 3
	ClassificationBroker    ConsignorClassification = 4
)

// Valid reports whether c is a known classification code.
func (c ConsignorClassification) Valid() bool {
	return c >= ClassificationOriginal && c <= ClassificationBroker
}

// Processor is the delivery-side party authorized to receive the stream.
// A waste stream is meaningless without one.
type Processor struct {
	CompanyRef
	// RegistryNumber is the registry's six-digit identifier for the
	// processor; it scopes waste stream numbers and names the delivery
	// location on the wire.
	RegistryNumber string `json:"registry_number"`
}

// CollectionType describes how the waste reaches the processor.
type CollectionType string

const (
	CollectionDefault          CollectionType = "DEFAULT"
	CollectionRoute            CollectionType = "ROUTE"
	CollectionCollectorsScheme CollectionType = "COLLECTORS_SCHEME"
)

// Valid reports whether t is a known collection type.
func (t CollectionType) Valid() bool {
	switch t {
	case CollectionDefault, CollectionRoute, CollectionCollectorsScheme:
		return true
	}
	return false
}
