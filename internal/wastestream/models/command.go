package models

import (
	id "wastetrack/pkg/domain"
	dErrors "wastetrack/pkg/domain-errors"
)

// LocationCommand names a pickup location before resolution. Exactly the
// fields of the requested variant are read; the factory resolves CompanySite
// and ProjectSite variants against their stores.
type LocationCommand struct {
	Kind LocationKind `json:"kind"`

	// DUTCH_ADDRESS fields.
	Postcode            string `json:"postcode,omitempty"`
	HouseNumber         string `json:"house_number,omitempty"`
	HouseNumberAddition string `json:"house_number_addition,omitempty"`
	Street              string `json:"street,omitempty"`
	City                string `json:"city,omitempty"`
	Country             string `json:"country,omitempty"`

	// PROXIMITY fields (City and Country shared with DUTCH_ADDRESS).
	PostcodeDigits string `json:"postcode_digits,omitempty"`
	Description    string `json:"description,omitempty"`

	// COMPANY_SITE / PROJECT_SITE references.
	CompanyID         id.CompanyID         `json:"company_id,omitempty"`
	ProjectLocationID id.ProjectLocationID `json:"project_location_id,omitempty"`
}

// Command describes a waste stream draft or edit. Party fields reference the
// company directory; the factory resolves them into snapshots.
type Command struct {
	WasteTypeName    string         `json:"waste_type_name"`
	EuralCode        string         `json:"eural_code"`
	ProcessingMethod string         `json:"processing_method"`
	CollectionType   CollectionType `json:"collection_type"`

	Location LocationCommand `json:"location"`

	ProcessorID id.CompanyID `json:"processor_id"`

	ConsignorCompanyID id.CompanyID            `json:"consignor_company_id,omitempty"`
	ConsignorPrivate   bool                    `json:"consignor_private"`
	Classification     ConsignorClassification `json:"classification"`

	PickupPartyID id.CompanyID  `json:"pickup_party_id"`
	DealerID      *id.CompanyID `json:"dealer_id,omitempty"`
	CollectorID   *id.CompanyID `json:"collector_id,omitempty"`
	BrokerID      *id.CompanyID `json:"broker_id,omitempty"`
}

// Validate checks the command's self-contained invariants. Reference
// resolution failures surface later, from the factory.
func (c Command) Validate() error {
	if c.WasteTypeName == "" {
		return dErrors.New(dErrors.CodeBadRequest, "waste type name is required")
	}
	if c.EuralCode == "" {
		return dErrors.New(dErrors.CodeBadRequest, "eural code is required")
	}
	if c.ProcessingMethod == "" {
		return dErrors.New(dErrors.CodeBadRequest, "processing method is required")
	}
	if !c.CollectionType.Valid() {
		return dErrors.Newf(dErrors.CodeBadRequest, "unknown collection type %q", c.CollectionType)
	}
	if c.ProcessorID.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "processor is required")
	}
	if !c.Classification.Valid() {
		return dErrors.Newf(dErrors.CodeBadRequest, "unknown consignor classification %d", c.Classification)
	}
	if c.ConsignorPrivate && !c.ConsignorCompanyID.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "a private consignor carries no company reference")
	}
	if !c.ConsignorPrivate && c.ConsignorCompanyID.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "consignor company is required unless the consignor is a private individual")
	}
	if c.PickupPartyID.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "pickup party is required")
	}
	switch c.Location.Kind {
	case LocationDutchAddress:
		if c.Location.Postcode == "" || c.Location.HouseNumber == "" || c.Location.City == "" {
			return dErrors.New(dErrors.CodeBadRequest, "dutch address requires postcode, house number and city")
		}
	case LocationProximity:
		if c.Location.PostcodeDigits == "" || c.Location.Description == "" {
			return dErrors.New(dErrors.CodeBadRequest, "proximity location requires postcode digits and a description")
		}
	case LocationCompanySite:
		if c.Location.CompanyID.IsZero() {
			return dErrors.New(dErrors.CodeBadRequest, "company site location requires a company reference")
		}
	case LocationProjectSite:
		if c.Location.ProjectLocationID.IsZero() {
			return dErrors.New(dErrors.CodeBadRequest, "project site location requires a project location reference")
		}
	case LocationNone:
		// Self-contained.
	default:
		return dErrors.Newf(dErrors.CodeBadRequest, "unknown location kind %q", c.Location.Kind)
	}
	return nil
}
