package amice

import (
	"strings"

	"wastetrack/internal/declaration"
	"wastetrack/internal/wastestream/models"
	"wastetrack/pkg/lma"
	pstrings "wastetrack/pkg/platform/strings"
)

// MapStream translates a waste stream aggregate into the registry's
// validation request shape. Grouped codes become compact on the wire and the
// processor's registry number names the delivery location.
func MapStream(ws *models.WasteStream) AfvalstroomAanvraag {
	return AfvalstroomAanvraag{
		AfvalstroomNummer:     ws.Number.String(),
		IsRouteInzameling:     ws.CollectionType == models.CollectionRoute,
		IsInzamelaarsRegeling: ws.CollectionType == models.CollectionCollectorsScheme,
		Ontdoener:             mapConsignor(ws.Consignor),
		LocatieHerkomst:       mapLocation(ws.PickupLocation),
		LocatieOntvangst:      ws.Processor.RegistryNumber,

		Afzender:    mapCompany(ws.PickupParty),
		Inzamelaar:  mapOptionalCompany(ws.Collector),
		Handelaar:   mapOptionalCompany(ws.Dealer),
		Bemiddelaar: mapOptionalCompany(ws.Broker),

		Afvalstof:                  lma.CompactEural(ws.WasteType.EuralCode),
		GebruikelijkeNaamAfvalstof: ws.WasteType.Name,
		VerwerkingsMethode:         lma.CompactProcessingMethod(ws.WasteType.ProcessingMethod),
	}
}

// MapDeclaration builds one receival declaration line: the stream's
// validation fields plus the period's aggregates.
func MapDeclaration(ws *models.WasteStream, decl declaration.ReceivalDeclaration) Melding {
	req := MapStream(ws)
	return Melding{
		AfvalstroomNummer:     req.AfvalstroomNummer,
		IsRouteInzameling:     req.IsRouteInzameling,
		IsInzamelaarsRegeling: req.IsInzamelaarsRegeling,
		Ontdoener:             req.Ontdoener,
		LocatieHerkomst:       req.LocatieHerkomst,
		LocatieOntvangst:      req.LocatieOntvangst,

		Afzender:    req.Afzender,
		Inzamelaar:  req.Inzamelaar,
		Handelaar:   req.Handelaar,
		Bemiddelaar: req.Bemiddelaar,

		Vervoerders: joinTransporters(decl.Transporters),

		Afvalstof:                  req.Afvalstof,
		GebruikelijkeNaamAfvalstof: req.GebruikelijkeNaamAfvalstof,
		VerwerkingsMethode:         req.VerwerkingsMethode,
		TotaalGewicht:              decl.TotalWeightKg,
		AantalVrachten:             decl.TotalShipments,
		PeriodeMelding:             decl.Period.Melding(),
	}
}

// mapCompany applies the registry's name-omission rule: a Dutch company is
// identified by chamber-of-commerce number alone, a foreign one also by name.
func mapCompany(ref models.CompanyRef) Bedrijf {
	b := Bedrijf{
		Handelsregisternummer: ref.ChamberOfCommerceID,
		Land:                  ref.Country,
	}
	if !ref.IsDutch() {
		b.Naam = ref.Name
	}
	return b
}

func mapOptionalCompany(ref *models.CompanyRef) *Bedrijf {
	if ref == nil {
		return nil
	}
	b := mapCompany(*ref)
	return &b
}

func mapConsignor(c models.Consignor) Ontdoener {
	if c.Private || c.Company == nil {
		return Ontdoener{IsParticulier: true}
	}
	b := mapCompany(*c.Company)
	return Ontdoener{
		Handelsregisternummer: b.Handelsregisternummer,
		Naam:                  b.Naam,
		Land:                  b.Land,
	}
}

func mapLocation(loc models.PickupLocation) *LocatieHerkomst {
	switch l := loc.(type) {
	case models.DutchAddress:
		return &LocatieHerkomst{
			Postcode:             l.Postcode,
			Huisnummer:           l.HouseNumber,
			HuisnummerToevoeging: l.HouseNumberAddition,
			Woonplaats:           l.City,
			Straatnaam:           l.Street,
			Land:                 l.Country,
		}
	case models.Proximity:
		return &LocatieHerkomst{
			Postcode:               l.PostcodeDigits,
			Woonplaats:             l.City,
			Land:                   l.Country,
			Nabijheidsbeschrijving: l.Description,
		}
	case models.CompanySite:
		return &LocatieHerkomst{
			Postcode:             l.Postcode,
			Huisnummer:           l.HouseNumber,
			HuisnummerToevoeging: l.HouseNumberAddition,
			Woonplaats:           l.City,
			Straatnaam:           l.Street,
			Land:                 l.Country,
		}
	case models.ProjectSite:
		return &LocatieHerkomst{
			Postcode:             l.Postcode,
			Huisnummer:           l.HouseNumber,
			HuisnummerToevoeging: l.HouseNumberAddition,
			Woonplaats:           l.City,
			Straatnaam:           l.Street,
			Land:                 l.Country,
		}
	case models.NoLocation, nil:
		return nil
	default:
		return nil
	}
}

func joinTransporters(refs []models.CompanyRef) string {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ChamberOfCommerceID)
	}
	return strings.Join(pstrings.DedupeAndTrim(ids), ",")
}
