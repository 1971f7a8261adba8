package wastetransport

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	wsmodels "wastetrack/internal/wastestream/models"
	"wastetrack/internal/wastestream/ports"
	wsstore "wastetrack/internal/wastestream/store"
	id "wastetrack/pkg/domain"
	dErrors "wastetrack/pkg/domain-errors"
	"wastetrack/pkg/platform/sentinel"
	"wastetrack/pkg/requestcontext"
)

// Factory constructs waste transports. Every goods line must reference an
// existing waste stream and the referenced streams must pass the
// compatibility gate before a transport exists at all.
type Factory struct {
	streams   wsstore.Store
	companies ports.Companies
	compat    *CompatibilityService
}

func NewFactory(streams wsstore.Store, companies ports.Companies, compat *CompatibilityService) *Factory {
	return &Factory{streams: streams, companies: companies, compat: compat}
}

// Create builds a new transport from the command.
func (f *Factory) Create(ctx context.Context, cmd Command) (*WasteTransport, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	transporter, err := f.resolveTransporter(ctx, cmd.TransporterCocID)
	if err != nil {
		return nil, err
	}
	if err := f.checkStreams(ctx, cmd); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	return &WasteTransport{
		ID:            id.TransportID(uuid.New()),
		TransportDate: cmd.TransportDate,
		Transporter:   *transporter,
		Goods:         cmd.Goods,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Update replaces a transport's date, transporter and goods. The same gates
// apply as on creation.
func (f *Factory) Update(ctx context.Context, transport *WasteTransport, cmd Command) (*WasteTransport, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	transporter, err := f.resolveTransporter(ctx, cmd.TransporterCocID)
	if err != nil {
		return nil, err
	}
	if err := f.checkStreams(ctx, cmd); err != nil {
		return nil, err
	}

	updated := *transport
	updated.TransportDate = cmd.TransportDate
	updated.Transporter = *transporter
	updated.Goods = cmd.Goods
	updated.UpdatedAt = requestcontext.Now(ctx)
	return &updated, nil
}

// checkStreams loads every referenced stream and runs the compatibility gate.
func (f *Factory) checkStreams(ctx context.Context, cmd Command) error {
	numbers := cmd.Numbers()
	streams := make([]*wsmodels.WasteStream, 0, len(numbers))
	var missing []string
	for _, number := range numbers {
		ws, err := f.streams.FindByNumber(ctx, number)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				missing = append(missing, number.String())
				continue
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "load waste stream for transport")
		}
		streams = append(streams, ws)
	}
	if len(missing) > 0 {
		return dErrors.Newf(dErrors.CodeValidation,
			"goods reference unknown waste streams: %s", strings.Join(missing, ", "))
	}
	if reason := f.compat.IncompatibilityReason(streams); reason != "" {
		return &IncompatibleWasteStreamsError{Numbers: numbers, Reason: reason}
	}
	return nil
}

func (f *Factory) resolveTransporter(ctx context.Context, cocID string) (*wsmodels.CompanyRef, error) {
	c, err := f.companies.FindByChamberOfCommerceID(ctx, cocID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeValidation, "transporter %s is not a known company", cocID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "resolve transporter")
	}
	return &wsmodels.CompanyRef{
		CompanyID:           c.ID,
		Name:                c.Name,
		ChamberOfCommerceID: c.ChamberOfCommerceID,
		Country:             c.Address.Country,
	}, nil
}
