// Package company is the local company directory consumed by the waste stream
// factory and the registry protocol mapper. It is a collaborator boundary:
// plain CRUD lives elsewhere, only lookups are exposed here.
package company

import (
	id "wastetrack/pkg/domain"
)

// Address is a company's registered address.
type Address struct {
	Street              string `json:"street"`
	HouseNumber         string `json:"house_number"`
	HouseNumberAddition string `json:"house_number_addition,omitempty"`
	Postcode            string `json:"postcode"`
	City                string `json:"city"`
	Country             string `json:"country"`
}

// IsDutch reports whether the address is in the Netherlands. The registry
// identifies domestic companies by chamber-of-commerce number alone, so this
// drives the name-omission rule in the protocol mapper.
func (a Address) IsDutch() bool {
	return a.Country == "Nederland"
}

// Company is a party in the waste chain: consignor, pickup party, collector,
// dealer, broker, transporter or processor.
type Company struct {
	ID                  id.CompanyID `json:"id"`
	Name                string       `json:"name"`
	ChamberOfCommerceID string       `json:"chamber_of_commerce_id"`
	// RegistryNumber is the waste registry's own identifier for the company.
	// Only set for registered processors and transporters.
	RegistryNumber string  `json:"registry_number,omitempty"`
	Address        Address `json:"address"`
}
