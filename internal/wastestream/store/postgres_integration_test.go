//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"

	"wastetrack/internal/wastestream/models"
	"wastetrack/internal/wastestream/store"
	"wastetrack/pkg/platform/sentinel"
	"wastetrack/pkg/testutil/containers"
)

const wasteStreamsDDL = `
CREATE TABLE IF NOT EXISTS waste_streams (
	number            TEXT PRIMARY KEY,
	waste_type_name   TEXT NOT NULL,
	eural_code        TEXT NOT NULL,
	processing_method TEXT NOT NULL,
	collection_type   TEXT NOT NULL,
	location_kind     TEXT NOT NULL,
	location          JSONB,
	processor         JSONB NOT NULL,
	parties           JSONB NOT NULL,
	status            TEXT NOT NULL,
	activated_at      TIMESTAMPTZ,
	last_activity_at  TIMESTAMPTZ,
	created_at        TIMESTAMPTZ NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL
)`

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	_, err := s.postgres.DB.ExecContext(context.Background(), wasteStreamsDDL)
	s.Require().NoError(err)
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "waste_streams"))
}

func newTestStream(number string) *models.WasteStream {
	now := time.Now().UTC().Truncate(time.Microsecond)
	consignor := models.CompanyRef{ChamberOfCommerceID: "12345678", Country: "Nederland"}
	return &models.WasteStream{
		Number:         models.WasteStreamNumber(number),
		WasteType:      models.WasteType{Name: "metalen", EuralCode: "17 04 05", ProcessingMethod: "A.01"},
		CollectionType: models.CollectionDefault,
		PickupLocation: models.DutchAddress{Postcode: "1234AB", HouseNumber: "12", City: "Alphen aan den Rijn", Country: "Nederland"},
		Processor:      models.Processor{CompanyRef: models.CompanyRef{ChamberOfCommerceID: "87654321", Country: "Nederland"}, RegistryNumber: "087654"},
		Consignor:      models.Consignor{Company: &consignor},
		PickupParty:    consignor,
		Status:         models.StatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	ws := newTestStream("087654000001")

	s.Require().NoError(s.store.Create(ctx, ws))

	got, err := s.store.FindByNumber(ctx, ws.Number)
	s.Require().NoError(err)
	s.Equal(ws.Number, got.Number)
	s.Equal(ws.WasteType, got.WasteType)
	s.Equal(ws.PickupLocation, got.PickupLocation, "location union survives the jsonb round trip")
	s.Require().NotNil(got.Consignor.Company)
	s.Equal("12345678", got.Consignor.Company.ChamberOfCommerceID)
	s.True(got.ActivatedAt.IsZero())
}

func (s *PostgresStoreSuite) TestCreateDuplicateNumber() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newTestStream("087654000001")))

	err := s.store.Create(ctx, newTestStream("087654000001"))

	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestFindMissing() {
	_, err := s.store.FindByNumber(context.Background(), "087654000099")

	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdate() {
	ctx := context.Background()
	ws := newTestStream("087654000001")
	s.Require().NoError(s.store.Create(ctx, ws))

	ws.Status = models.StatusActive
	ws.ActivatedAt = time.Now().UTC().Truncate(time.Microsecond)
	s.Require().NoError(s.store.Update(ctx, ws))

	got, err := s.store.FindByNumber(ctx, ws.Number)
	s.Require().NoError(err)
	s.Equal(models.StatusActive, got.Status)
	s.Equal(ws.ActivatedAt, got.ActivatedAt)
}

func (s *PostgresStoreSuite) TestUpdateMissing() {
	err := s.store.Update(context.Background(), newTestStream("087654000099"))

	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestTouchActivityIsMonotonic() {
	ctx := context.Background()
	ws := newTestStream("087654000001")
	s.Require().NoError(s.store.Create(ctx, ws))

	later := time.Now().UTC().Truncate(time.Microsecond)
	earlier := later.Add(-time.Hour)

	s.Require().NoError(s.store.TouchActivity(ctx, ws.Number, later))
	s.Require().NoError(s.store.TouchActivity(ctx, ws.Number, earlier))

	got, err := s.store.FindByNumber(ctx, ws.Number)
	s.Require().NoError(err)
	s.Equal(later, got.LastActivityAt, "an older weight ticket must not rewind the decay clock")
}

func (s *PostgresStoreSuite) TestListByProcessor() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newTestStream("087654000001")))
	s.Require().NoError(s.store.Create(ctx, newTestStream("087654000002")))
	s.Require().NoError(s.store.Create(ctx, newTestStream("099999000001")))

	streams, err := s.store.ListByProcessor(ctx, "087654")

	s.Require().NoError(err)
	s.Require().Len(streams, 2)
	s.Equal(models.WasteStreamNumber("087654000001"), streams[0].Number)
}
