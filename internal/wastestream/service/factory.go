package service

import (
	"context"
	"errors"

	"wastetrack/internal/wastestream/models"
	"wastetrack/internal/wastestream/numbers"
	"wastetrack/internal/wastestream/policy"
	"wastetrack/internal/wastestream/ports"
	"wastetrack/internal/wastestream/store"
	id "wastetrack/pkg/domain"
	dErrors "wastetrack/pkg/domain-errors"
	"wastetrack/pkg/lma"
	"wastetrack/pkg/platform/sentinel"
	"wastetrack/pkg/requestcontext"
)

// Factory is the only constructor path for waste streams. It resolves the
// command's location variant and party references, normalizes registry codes
// and assigns the generated number, so no caller can bypass resolution.
type Factory struct {
	streams   store.Store
	generator *numbers.Generator
	companies ports.Companies
	projects  ports.ProjectLocations
	policy    policy.Policy
}

func NewFactory(streams store.Store, generator *numbers.Generator, companies ports.Companies, projects ports.ProjectLocations, pol policy.Policy) *Factory {
	return &Factory{
		streams:   streams,
		generator: generator,
		companies: companies,
		projects:  projects,
		policy:    pol,
	}
}

// CreateDraft builds a new DRAFT aggregate from the command. The draft is not
// persisted here; orchestration owns the write so the factory stays side
// effect free apart from consuming a sequence value.
func (f *Factory) CreateDraft(ctx context.Context, cmd models.Command) (*models.WasteStream, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	fields, err := f.resolve(ctx, cmd)
	if err != nil {
		return nil, err
	}
	processor, err := f.resolveProcessor(ctx, cmd.ProcessorID)
	if err != nil {
		return nil, err
	}

	number, err := f.generator.Next(ctx, processor.RegistryNumber)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	ws := &models.WasteStream{
		Number:         number,
		WasteType:      fields.WasteType,
		CollectionType: fields.CollectionType,
		PickupLocation: fields.PickupLocation,
		Processor:      *processor,
		Consignor:      fields.Consignor,
		Classification: fields.Classification,
		PickupParty:    fields.PickupParty,
		Dealer:         fields.Dealer,
		Collector:      fields.Collector,
		Broker:         fields.Broker,
		Status:         models.StatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return ws, nil
}

// UpdateExisting loads the aggregate, re-resolves the command and applies the
// update. Fails with NotFound for unknown numbers and Conflict when the
// stream's effective status is no longer DRAFT.
func (f *Factory) UpdateExisting(ctx context.Context, number models.WasteStreamNumber, cmd models.Command) (*models.WasteStream, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ws, err := f.streams.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "waste stream %s not found", number)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load waste stream")
	}

	now := requestcontext.Now(ctx)
	if err := ws.CanUpdate(f.policy.EffectiveFor(ws, now)); err != nil {
		return nil, err
	}

	fields, err := f.resolve(ctx, cmd)
	if err != nil {
		return nil, err
	}
	ws.ApplyUpdate(*fields, now)
	return ws, nil
}

// resolve turns a validated command into aggregate field values.
func (f *Factory) resolve(ctx context.Context, cmd models.Command) (*models.Update, error) {
	eural, err := lma.FormatEural(lma.CompactEural(cmd.EuralCode))
	if err != nil {
		return nil, err
	}
	method, err := lma.FormatProcessingMethod(lma.CompactProcessingMethod(cmd.ProcessingMethod))
	if err != nil {
		return nil, err
	}

	location, err := f.resolveLocation(ctx, cmd.Location)
	if err != nil {
		return nil, err
	}

	consignor := models.Consignor{Private: cmd.ConsignorPrivate}
	if !cmd.ConsignorPrivate {
		ref, err := f.resolveRef(ctx, cmd.ConsignorCompanyID, "consignor")
		if err != nil {
			return nil, err
		}
		consignor.Company = ref
	}

	pickupParty, err := f.resolveRef(ctx, cmd.PickupPartyID, "pickup party")
	if err != nil {
		return nil, err
	}

	upd := &models.Update{
		WasteType: models.WasteType{
			Name:             cmd.WasteTypeName,
			EuralCode:        eural,
			ProcessingMethod: method,
		},
		CollectionType: cmd.CollectionType,
		PickupLocation: location,
		Consignor:      consignor,
		Classification: cmd.Classification,
		PickupParty:    *pickupParty,
	}

	for _, opt := range []struct {
		companyID *id.CompanyID
		label     string
		target    **models.CompanyRef
	}{
		{cmd.DealerID, "dealer", &upd.Dealer},
		{cmd.CollectorID, "collector", &upd.Collector},
		{cmd.BrokerID, "broker", &upd.Broker},
	} {
		if opt.companyID == nil {
			continue
		}
		ref, err := f.resolveRef(ctx, *opt.companyID, opt.label)
		if err != nil {
			return nil, err
		}
		*opt.target = ref
	}
	return upd, nil
}

// resolveLocation dispatches on the five-variant union. Only the Company and
// ProjectSite variants need lookups; the others are self-contained.
func (f *Factory) resolveLocation(ctx context.Context, cmd models.LocationCommand) (models.PickupLocation, error) {
	switch cmd.Kind {
	case models.LocationDutchAddress:
		return models.DutchAddress{
			Postcode:            cmd.Postcode,
			HouseNumber:         cmd.HouseNumber,
			HouseNumberAddition: cmd.HouseNumberAddition,
			Street:              cmd.Street,
			City:                cmd.City,
			Country:             defaultCountry(cmd.Country),
		}, nil
	case models.LocationProximity:
		return models.Proximity{
			PostcodeDigits: cmd.PostcodeDigits,
			City:           cmd.City,
			Description:    cmd.Description,
			Country:        defaultCountry(cmd.Country),
		}, nil
	case models.LocationCompanySite:
		c, err := f.companies.FindByID(ctx, cmd.CompanyID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.Newf(dErrors.CodeBadRequest, "pickup company %s not found", cmd.CompanyID)
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "resolve pickup company")
		}
		return models.CompanySite{
			CompanyID:           c.ID.String(),
			Postcode:            c.Address.Postcode,
			HouseNumber:         c.Address.HouseNumber,
			HouseNumberAddition: c.Address.HouseNumberAddition,
			Street:              c.Address.Street,
			City:                c.Address.City,
			Country:             defaultCountry(c.Address.Country),
		}, nil
	case models.LocationProjectSite:
		pl, err := f.projects.FindByID(ctx, cmd.ProjectLocationID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.Newf(dErrors.CodeBadRequest, "project location %s not found", cmd.ProjectLocationID)
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "resolve project location")
		}
		return models.ProjectSite{
			ProjectLocationID:   pl.ID.String(),
			Postcode:            pl.Address.Postcode,
			HouseNumber:         pl.Address.HouseNumber,
			HouseNumberAddition: pl.Address.HouseNumberAddition,
			Street:              pl.Address.Street,
			City:                pl.Address.City,
			Country:             defaultCountry(pl.Address.Country),
		}, nil
	case models.LocationNone:
		return models.NoLocation{}, nil
	default:
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown location kind %q", cmd.Kind)
	}
}

func (f *Factory) resolveRef(ctx context.Context, companyID id.CompanyID, label string) (*models.CompanyRef, error) {
	c, err := f.companies.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeBadRequest, "%s company %s not found", label, companyID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "resolve "+label)
	}
	return &models.CompanyRef{
		CompanyID:           c.ID,
		Name:                c.Name,
		ChamberOfCommerceID: c.ChamberOfCommerceID,
		Country:             defaultCountry(c.Address.Country),
	}, nil
}

func (f *Factory) resolveProcessor(ctx context.Context, companyID id.CompanyID) (*models.Processor, error) {
	c, err := f.companies.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeBadRequest, "processor company %s not found", companyID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "resolve processor")
	}
	if c.RegistryNumber == "" {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "company %s is not a registered processor", companyID)
	}
	return &models.Processor{
		CompanyRef: models.CompanyRef{
			CompanyID:           c.ID,
			Name:                c.Name,
			ChamberOfCommerceID: c.ChamberOfCommerceID,
			Country:             defaultCountry(c.Address.Country),
		},
		RegistryNumber: c.RegistryNumber,
	}, nil
}

func defaultCountry(country string) string {
	if country == "" {
		return "Nederland"
	}
	return country
}
