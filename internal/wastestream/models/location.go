package models

// LocationKind discriminates the pickup location union.
type LocationKind string

const (
	LocationDutchAddress LocationKind = "DUTCH_ADDRESS"
	LocationProximity    LocationKind = "PROXIMITY"
	LocationCompanySite  LocationKind = "COMPANY_SITE"
	LocationProjectSite  LocationKind = "PROJECT_SITE"
	LocationNone         LocationKind = "NONE"
)

// PickupLocation is a five-variant tagged union. Every variant is a small
// comparable value type so streams can be checked for identical pickup
// locations with plain equality. The protocol mapper switches exhaustively
// on Kind.
type PickupLocation interface {
	Kind() LocationKind
}

// DutchAddress is a full domestic street address.
type DutchAddress struct {
	Postcode            string `json:"postcode"`
	HouseNumber         string `json:"house_number"`
	HouseNumberAddition string `json:"house_number_addition,omitempty"`
	Street              string `json:"street"`
	City                string `json:"city"`
	Country             string `json:"country"`
}

func (DutchAddress) Kind() LocationKind { return LocationDutchAddress }

// Proximity describes a pickup site without an exact address: postcode digits,
// city and a free-text description ("verge along N207 near km 12").
type Proximity struct {
	PostcodeDigits string `json:"postcode_digits"`
	City           string `json:"city"`
	Description    string `json:"description"`
	Country        string `json:"country"`
}

func (Proximity) Kind() LocationKind { return LocationProximity }

// CompanySite is the registered address of a company in the directory,
// snapshotted at resolution time.
type CompanySite struct {
	CompanyID           string `json:"company_id"`
	Postcode            string `json:"postcode"`
	HouseNumber         string `json:"house_number"`
	HouseNumberAddition string `json:"house_number_addition,omitempty"`
	Street              string `json:"street"`
	City                string `json:"city"`
	Country             string `json:"country"`
}

func (CompanySite) Kind() LocationKind { return LocationCompanySite }

// ProjectSite is a stored project-location snapshot.
type ProjectSite struct {
	ProjectLocationID   string `json:"project_location_id"`
	Postcode            string `json:"postcode"`
	HouseNumber         string `json:"house_number"`
	HouseNumberAddition string `json:"house_number_addition,omitempty"`
	Street              string `json:"street"`
	City                string `json:"city"`
	Country             string `json:"country"`
}

func (ProjectSite) Kind() LocationKind { return LocationProjectSite }

// NoLocation is used for streams whose origin has no meaningful site, such as
// collectors' scheme streams. The mapper sends no origin fields at all.
type NoLocation struct{}

func (NoLocation) Kind() LocationKind { return LocationNone }
