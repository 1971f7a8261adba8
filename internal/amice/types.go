// Package amice adapts this service to the national registry's Amice web
// service: waste stream validation requests and periodic receival
// declarations. The wire shapes below mirror the registry's schema; field
// presence rules are contractual, so the mapper is strict about them.
package amice

import "encoding/xml"

// Bedrijf is any company-shaped wire field. The registry identifies Dutch
// companies solely by chamber-of-commerce number: Naam is populated only for
// foreign companies. That omission is a regulatory convention, not a bug.
type Bedrijf struct {
	Handelsregisternummer string `xml:"handelsregisternummer" json:"handelsregisternummer"`
	Naam                  string `xml:"naam,omitempty" json:"naam,omitempty"`
	Land                  string `xml:"land" json:"land"`
}

// Ontdoener is the consignor. Private individuals carry no company data.
type Ontdoener struct {
	Handelsregisternummer string `xml:"handelsregisternummer,omitempty" json:"handelsregisternummer,omitempty"`
	Naam                  string `xml:"naam,omitempty" json:"naam,omitempty"`
	Land                  string `xml:"land,omitempty" json:"land,omitempty"`
	IsParticulier         bool   `xml:"isParticulier" json:"isParticulier"`
}

// LocatieHerkomst is the pickup location. Which fields are populated depends
// on the location variant; for a stream without a pickup site, none are.
type LocatieHerkomst struct {
	Postcode               string `xml:"postcode,omitempty" json:"Postcode,omitempty"`
	Huisnummer             string `xml:"huisnummer,omitempty" json:"Huisnummer,omitempty"`
	HuisnummerToevoeging   string `xml:"huisnummerToevoeging,omitempty" json:"HuisnummerToevoeging,omitempty"`
	Woonplaats             string `xml:"woonplaats,omitempty" json:"Woonplaats,omitempty"`
	Straatnaam             string `xml:"straatnaam,omitempty" json:"Straatnaam,omitempty"`
	Land                   string `xml:"land,omitempty" json:"Land,omitempty"`
	Nabijheidsbeschrijving string `xml:"nabijheidsbeschrijving,omitempty" json:"Nabijheidsbeschrijving,omitempty"`
}

// AfvalstroomAanvraag is the validation request for one waste stream.
type AfvalstroomAanvraag struct {
	XMLName xml.Name `xml:"afvalstroomAanvraag" json:"-"`

	AfvalstroomNummer     string           `xml:"afvalstroomNummer" json:"afvalstroomNummer"`
	IsRouteInzameling     bool             `xml:"isRouteInzameling" json:"isRouteInzameling"`
	IsInzamelaarsRegeling bool             `xml:"isInzamelaarsRegeling" json:"isInzamelaarsRegeling"`
	Ontdoener             Ontdoener        `xml:"ontdoener" json:"ontdoener"`
	LocatieHerkomst       *LocatieHerkomst `xml:"locatieHerkomst,omitempty" json:"locatieHerkomst,omitempty"`
	LocatieOntvangst      string           `xml:"locatieOntvangst" json:"locatieOntvangst"`

	Afzender    Bedrijf  `xml:"afzender" json:"afzender"`
	Inzamelaar  *Bedrijf `xml:"inzamelaar,omitempty" json:"inzamelaar,omitempty"`
	Handelaar   *Bedrijf `xml:"handelaar,omitempty" json:"handelaar,omitempty"`
	Bemiddelaar *Bedrijf `xml:"bemiddelaar,omitempty" json:"bemiddelaar,omitempty"`

	Afvalstof                  string `xml:"afvalstof" json:"afvalstof"`
	GebruikelijkeNaamAfvalstof string `xml:"gebruikelijkeNaamAfvalstof" json:"gebruikelijkeNaamAfvalstof"`
	VerwerkingsMethode         string `xml:"verwerkingsMethode" json:"verwerkingsMethode"`
}

// Melding is one receival declaration inside a session: the stream's
// validation fields plus the period's aggregates.
type Melding struct {
	XMLName xml.Name `xml:"melding" json:"-"`

	AfvalstroomNummer     string           `xml:"afvalstroomNummer" json:"afvalstroomNummer"`
	IsRouteInzameling     bool             `xml:"isRouteInzameling" json:"isRouteInzameling"`
	IsInzamelaarsRegeling bool             `xml:"isInzamelaarsRegeling" json:"isInzamelaarsRegeling"`
	Ontdoener             Ontdoener        `xml:"ontdoener" json:"ontdoener"`
	LocatieHerkomst       *LocatieHerkomst `xml:"locatieHerkomst,omitempty" json:"locatieHerkomst,omitempty"`
	LocatieOntvangst      string           `xml:"locatieOntvangst" json:"locatieOntvangst"`

	Afzender    Bedrijf  `xml:"afzender" json:"afzender"`
	Inzamelaar  *Bedrijf `xml:"inzamelaar,omitempty" json:"inzamelaar,omitempty"`
	Handelaar   *Bedrijf `xml:"handelaar,omitempty" json:"handelaar,omitempty"`
	Bemiddelaar *Bedrijf `xml:"bemiddelaar,omitempty" json:"bemiddelaar,omitempty"`

	// Vervoerders is the comma-joined chamber-of-commerce numbers of every
	// carrier involved in the period.
	Vervoerders string `xml:"vervoerders" json:"vervoerders"`

	Afvalstof                  string  `xml:"afvalstof" json:"afvalstof"`
	GebruikelijkeNaamAfvalstof string  `xml:"gebruikelijkeNaamAfvalstof" json:"gebruikelijkeNaamAfvalstof"`
	VerwerkingsMethode         string  `xml:"verwerkingsMethode" json:"verwerkingsMethode"`
	TotaalGewicht              float64 `xml:"totaalGewicht" json:"totaalGewicht"`
	AantalVrachten             int     `xml:"aantalVrachten" json:"aantalVrachten"`

	// PeriodeMelding is MMYYYY: zero-padded month, four-digit year.
	PeriodeMelding string `xml:"periodeMelding" json:"periodeMelding"`
}

// Fout is one registry error entry.
type Fout struct {
	FoutCode         string `xml:"foutCode" json:"foutCode"`
	Foutomschrijving string `xml:"foutomschrijving" json:"foutomschrijving"`
}

// ValidatieAntwoord is the registry's verdict on a validation request.
// AanvraagGegevens echoes the submitted request for audit display.
type ValidatieAntwoord struct {
	XMLName xml.Name `xml:"validatieAntwoord" json:"-"`

	AfvalstroomGegevensValide string               `xml:"afvalstroomGegevensValide" json:"afvalstroomGegevensValide"`
	Fouten                    []Fout               `xml:"fout" json:"fout,omitempty"`
	AanvraagGegevens          *AfvalstroomAanvraag `xml:"aanvraagGegevens" json:"aanvraagGegevens,omitempty"`
}

// Valide reports the registry's flag semantics: exactly "Ja" means valid.
func (a ValidatieAntwoord) Valide() bool {
	return a.AfvalstroomGegevensValide == "Ja"
}

// SessieAntwoord acknowledges a batched declaration submission. Succes covers
// the whole session; per-declaration outcomes do not exist at this stage.
type SessieAntwoord struct {
	XMLName xml.Name `xml:"sessieAntwoord" json:"-"`

	Succes       bool   `xml:"succes" json:"succes"`
	SessieNummer string `xml:"sessieNummer" json:"sessieNummer"`
}

// SessieResultaat is the asynchronous processing outcome of a session,
// fetched by a later retrieval call.
type SessieResultaat struct {
	XMLName xml.Name `xml:"sessieResultaat" json:"-"`

	// Status is "InBehandeling", "Verwerkt" or "Afgekeurd".
	Status string `xml:"status" json:"status"`
	Fouten []Fout `xml:"fout" json:"fout,omitempty"`
}

const (
	SessieStatusPending  = "InBehandeling"
	SessieStatusAccepted = "Verwerkt"
	SessieStatusRejected = "Afgekeurd"
)
