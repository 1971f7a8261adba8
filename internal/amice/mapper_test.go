package amice

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wastetrack/internal/declaration"
	"wastetrack/internal/wastestream/models"
	id "wastetrack/pkg/domain"
)

func dutchRef(name, coc string) models.CompanyRef {
	return models.CompanyRef{
		CompanyID:           id.CompanyID(uuid.New()),
		Name:                name,
		ChamberOfCommerceID: coc,
		Country:             "Nederland",
	}
}

func testStream() *models.WasteStream {
	consignor := dutchRef("Bouwbedrijf Jansen", "12345678")
	return &models.WasteStream{
		Number: "087654000001",
		WasteType: models.WasteType{
			Name:             "metalen (inclusief legeringen)",
			EuralCode:        "17 04 05",
			ProcessingMethod: "A.01",
		},
		CollectionType: models.CollectionDefault,
		PickupLocation: models.DutchAddress{
			Postcode:    "1234AB",
			HouseNumber: "12",
			Street:      "Dorpsstraat",
			City:        "Alphen aan den Rijn",
			Country:     "Nederland",
		},
		Processor: models.Processor{
			CompanyRef:     dutchRef("Verwerker BV", "87654321"),
			RegistryNumber: "087654",
		},
		Consignor:      models.Consignor{Company: &consignor},
		Classification: models.ClassificationOriginal,
		PickupParty:    dutchRef("Afzender BV", "23456789"),
	}
}

func TestMapStream_DutchCompaniesOmitName(t *testing.T) {
	req := MapStream(testStream())

	assert.Equal(t, "087654000001", req.AfvalstroomNummer)
	assert.Equal(t, "12345678", req.Ontdoener.Handelsregisternummer)
	assert.Empty(t, req.Ontdoener.Naam, "dutch companies are identified by coc number alone")
	assert.Equal(t, "Nederland", req.Ontdoener.Land)
	assert.Empty(t, req.Afzender.Naam)
}

func TestMapStream_ForeignCompanyKeepsName(t *testing.T) {
	ws := testStream()
	ws.Consignor.Company.Country = "België"
	ws.Consignor.Company.Name = "Recyclage NV"

	req := MapStream(ws)

	assert.Equal(t, "Recyclage NV", req.Ontdoener.Naam)
	assert.Equal(t, "België", req.Ontdoener.Land)
}

func TestMapStream_PrivateConsignor(t *testing.T) {
	ws := testStream()
	ws.Consignor = models.Consignor{Private: true}

	req := MapStream(ws)

	assert.True(t, req.Ontdoener.IsParticulier)
	assert.Empty(t, req.Ontdoener.Handelsregisternummer)
	assert.Empty(t, req.Ontdoener.Naam)
}

func TestMapStream_CompactsCodes(t *testing.T) {
	req := MapStream(testStream())

	assert.Equal(t, "170405", req.Afvalstof)
	assert.Equal(t, "A01", req.VerwerkingsMethode)
	assert.Equal(t, "metalen (inclusief legeringen)", req.GebruikelijkeNaamAfvalstof)
}

func TestMapStream_CollectionTypeFlags(t *testing.T) {
	tests := []struct {
		collection models.CollectionType
		route      bool
		scheme     bool
	}{
		{models.CollectionDefault, false, false},
		{models.CollectionRoute, true, false},
		{models.CollectionCollectorsScheme, false, true},
	}
	for _, tt := range tests {
		ws := testStream()
		ws.CollectionType = tt.collection
		req := MapStream(ws)
		assert.Equal(t, tt.route, req.IsRouteInzameling, string(tt.collection))
		assert.Equal(t, tt.scheme, req.IsInzamelaarsRegeling, string(tt.collection))
	}
}

func TestMapStream_Locations(t *testing.T) {
	t.Run("dutch address", func(t *testing.T) {
		req := MapStream(testStream())
		require.NotNil(t, req.LocatieHerkomst)
		assert.Equal(t, "1234AB", req.LocatieHerkomst.Postcode)
		assert.Equal(t, "12", req.LocatieHerkomst.Huisnummer)
		assert.Equal(t, "Dorpsstraat", req.LocatieHerkomst.Straatnaam)
		assert.Empty(t, req.LocatieHerkomst.Nabijheidsbeschrijving)
	})

	t.Run("proximity", func(t *testing.T) {
		ws := testStream()
		ws.PickupLocation = models.Proximity{
			PostcodeDigits: "2406",
			City:           "Alphen aan den Rijn",
			Description:    "berm langs N207 nabij km 12",
			Country:        "Nederland",
		}
		req := MapStream(ws)
		require.NotNil(t, req.LocatieHerkomst)
		assert.Equal(t, "2406", req.LocatieHerkomst.Postcode)
		assert.Equal(t, "berm langs N207 nabij km 12", req.LocatieHerkomst.Nabijheidsbeschrijving)
		assert.Empty(t, req.LocatieHerkomst.Straatnaam)
	})

	t.Run("no location sends nothing", func(t *testing.T) {
		ws := testStream()
		ws.PickupLocation = models.NoLocation{}
		req := MapStream(ws)
		assert.Nil(t, req.LocatieHerkomst)
	})
}

func TestMapStream_DeliveryLocationIsProcessorNumber(t *testing.T) {
	req := MapStream(testStream())
	assert.Equal(t, "087654", req.LocatieOntvangst)
}

func testDeclaration() declaration.ReceivalDeclaration {
	return declaration.ReceivalDeclaration{
		Number: "087654000001",
		Kind:   declaration.KindMonthlyReceival,
		Period: declaration.Period{Year: 2026, Month: time.January},
		Transporters: []models.CompanyRef{
			dutchRef("Transport A", "11111111"),
			dutchRef("Transport B", "22222222"),
		},
		TotalWeightKg:  5250.5,
		TotalShipments: 3,
	}
}

func TestMapDeclaration(t *testing.T) {
	melding := MapDeclaration(testStream(), testDeclaration())

	assert.Equal(t, "11111111,22222222", melding.Vervoerders)
	assert.Equal(t, 5250.5, melding.TotaalGewicht)
	assert.Equal(t, 3, melding.AantalVrachten)
	assert.Equal(t, "012026", melding.PeriodeMelding)
	assert.Equal(t, "170405", melding.Afvalstof)
}
