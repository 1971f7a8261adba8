package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wastetrack/internal/company"
	"wastetrack/internal/projectlocation"
	"wastetrack/internal/wastestream/models"
	"wastetrack/internal/wastestream/numbers"
	"wastetrack/internal/wastestream/policy"
	"wastetrack/internal/wastestream/store"
	"wastetrack/internal/wastestream/store/sequence"
	id "wastetrack/pkg/domain"
	dErrors "wastetrack/pkg/domain-errors"
	"wastetrack/pkg/requestcontext"
)

type fixture struct {
	service   *Service
	streams   *store.InMemory
	validator *stubValidator

	processorID id.CompanyID
	consignorID id.CompanyID
	pickupID    id.CompanyID
}

type stubValidator struct {
	valid  bool
	errs   []models.ValidationError
	calls  int
	failed error
}

func (v *stubValidator) Validate(_ context.Context, ws *models.WasteStream) (*models.ValidationResult, error) {
	v.calls++
	if v.failed != nil {
		return nil, v.failed
	}
	return &models.ValidationResult{Number: ws.Number, Valid: v.valid, Errors: v.errs}, nil
}

func seedCompany(dir *company.InMemory, name, coc, registryNumber string) id.CompanyID {
	companyID := id.CompanyID(uuid.New())
	dir.Seed(&company.Company{
		ID:                  companyID,
		Name:                name,
		ChamberOfCommerceID: coc,
		RegistryNumber:      registryNumber,
		Address: company.Address{
			Street:      "Industrieweg",
			HouseNumber: "4",
			Postcode:    "2408AB",
			City:        "Alphen aan den Rijn",
			Country:     "Nederland",
		},
	})
	return companyID
}

func newFixture(t *testing.T, pol policy.Policy) *fixture {
	t.Helper()
	if pol == (policy.Policy{}) {
		pol = policy.New(365*24*time.Hour, 3*365*24*time.Hour)
	}

	dir := company.NewInMemory()
	f := &fixture{
		streams:     store.NewInMemory(),
		validator:   &stubValidator{valid: true},
		processorID: seedCompany(dir, "Verwerker BV", "87654321", "087654"),
		consignorID: seedCompany(dir, "Bouwbedrijf Jansen", "12345678", ""),
		pickupID:    seedCompany(dir, "Afzender BV", "23456789", ""),
	}
	factory := NewFactory(f.streams, numbers.NewGenerator(sequence.NewInMemory()), dir, projectlocation.NewInMemory(), pol)
	f.service = New(f.streams, factory, f.validator, pol)
	return f
}

func (f *fixture) command() models.Command {
	return models.Command{
		WasteTypeName:    "metalen (inclusief legeringen)",
		EuralCode:        "170405",
		ProcessingMethod: "A01",
		CollectionType:   models.CollectionDefault,
		Location: models.LocationCommand{
			Kind:        models.LocationDutchAddress,
			Postcode:    "1234AB",
			HouseNumber: "12",
			Street:      "Dorpsstraat",
			City:        "Alphen aan den Rijn",
		},
		ProcessorID:        f.processorID,
		ConsignorCompanyID: f.consignorID,
		Classification:     models.ClassificationOriginal,
		PickupPartyID:      f.pickupID,
	}
}

func at(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}

func TestCreateDraft(t *testing.T) {
	f := newFixture(t, policy.Policy{})
	ctx := at(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	ws, err := f.service.CreateDraft(ctx, f.command())

	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, ws.Status)
	assert.Equal(t, "087654", ws.Number.ProcessorPrefix())
	assert.Equal(t, "17 04 05", ws.WasteType.EuralCode, "codes stored grouped")
	assert.Equal(t, "A.01", ws.WasteType.ProcessingMethod)
	assert.Zero(t, f.validator.calls, "draft creation never contacts the registry")

	stored, err := f.streams.FindByNumber(ctx, ws.Number)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, stored.Status)
}

func TestCreateDraft_ProcessorWithoutRegistryNumber(t *testing.T) {
	f := newFixture(t, policy.Policy{})
	cmd := f.command()
	cmd.ProcessorID = f.consignorID // a plain company, no registry number

	_, err := f.service.CreateDraft(context.Background(), cmd)

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	assert.Contains(t, err.Error(), "not a registered processor")
}

func TestCreateDraft_PrivateConsignorCarriesNoCompany(t *testing.T) {
	f := newFixture(t, policy.Policy{})
	cmd := f.command()
	cmd.ConsignorPrivate = true // company reference still set

	_, err := f.service.CreateDraft(context.Background(), cmd)

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestCreateAndActivate_ValidVerdictActivates(t *testing.T) {
	f := newFixture(t, policy.Policy{})
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	result, err := f.service.CreateAndActivate(at(now), f.command())

	require.NoError(t, err)
	assert.True(t, result.Valid)

	stored, err := f.streams.FindByNumber(context.Background(), result.Number)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, stored.Status)
	assert.Equal(t, now, stored.ActivatedAt)
}

func TestCreateAndActivate_InvalidVerdictKeepsDraft(t *testing.T) {
	f := newFixture(t, policy.Policy{})
	f.validator.valid = false
	f.validator.errs = []models.ValidationError{{Code: "AF023", Description: "ontdoener onbekend"}}

	result, err := f.service.CreateAndActivate(context.Background(), f.command())

	require.NoError(t, err, "a rejection is an outcome, not an error")
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)

	stored, err := f.streams.FindByNumber(context.Background(), result.Number)
	require.NoError(t, err, "the draft was persisted before validation")
	assert.Equal(t, models.StatusDraft, stored.Status)
	assert.True(t, stored.ActivatedAt.IsZero())
}

func TestUpdateAndActivate_EditableDraft(t *testing.T) {
	f := newFixture(t, policy.Policy{})
	f.validator.valid = false
	created, err := f.service.CreateAndActivate(context.Background(), f.command())
	require.NoError(t, err)

	f.validator.valid = true
	cmd := f.command()
	cmd.WasteTypeName = "gemengd bouwafval"
	result, err := f.service.UpdateAndActivate(context.Background(), created.Number, cmd)

	require.NoError(t, err)
	assert.True(t, result.Valid)

	stored, err := f.streams.FindByNumber(context.Background(), created.Number)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, stored.Status)
	assert.Equal(t, "gemengd bouwafval", stored.WasteType.Name)
}

func TestUpdateExisting_ActiveStreamConflicts(t *testing.T) {
	f := newFixture(t, policy.Policy{})
	result, err := f.service.CreateAndActivate(context.Background(), f.command())
	require.NoError(t, err)

	_, err = f.service.UpdateExisting(context.Background(), result.Number, f.command())

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestGet_ReportsDecayedEffectiveStatus(t *testing.T) {
	pol := policy.Policy{InactiveAfter: time.Hour, ExpireAfter: 24 * time.Hour}
	f := newFixture(t, pol)
	activated := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	result, err := f.service.CreateAndActivate(at(activated), f.command())
	require.NoError(t, err)

	ws, effective, err := f.service.Get(at(activated.Add(2*time.Hour)), result.Number)

	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, ws.Status, "the stored column is untouched")
	assert.Equal(t, models.StatusInactive, effective)
}

func TestGet_UnknownNumber(t *testing.T) {
	f := newFixture(t, policy.Policy{})

	_, _, err := f.service.Get(context.Background(), "087654000099")

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestValidate_DoesNotTouchStatus(t *testing.T) {
	f := newFixture(t, policy.Policy{})
	f.validator.valid = false
	created, err := f.service.CreateAndActivate(context.Background(), f.command())
	require.NoError(t, err)

	f.validator.valid = true
	result, err := f.service.Validate(context.Background(), created.Number)

	require.NoError(t, err)
	assert.True(t, result.Valid)

	stored, err := f.streams.FindByNumber(context.Background(), created.Number)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, stored.Status, "standalone validation never activates")
}
