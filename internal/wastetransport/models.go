// Package wastetransport builds and persists waste-carrying transports. The
// factory is the sole construction path: it guarantees every goods line
// references a known waste stream and that the streams on one transport are
// mutually compatible.
package wastetransport

import (
	"fmt"
	"strings"
	"time"

	wsmodels "wastetrack/internal/wastestream/models"
	id "wastetrack/pkg/domain"
	dErrors "wastetrack/pkg/domain-errors"
)

// GoodsItem is one line of waste on a transport.
type GoodsItem struct {
	Number      wsmodels.WasteStreamNumber `json:"number"`
	Description string                     `json:"description,omitempty"`
	WeightKg    float64                    `json:"weight_kg"`
}

// WasteTransport is a planned or executed waste movement. All goods lines
// share one pickup location, processor and consignor; the factory enforces
// that through the compatibility gate.
type WasteTransport struct {
	ID            id.TransportID      `json:"id"`
	TransportDate time.Time           `json:"transport_date"`
	Transporter   wsmodels.CompanyRef `json:"transporter"`
	Goods         []GoodsItem         `json:"goods"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// Command carries the inputs for creating or replacing a transport.
type Command struct {
	TransportDate    time.Time
	TransporterCocID string
	Goods            []GoodsItem
}

// Validate checks the command's local invariants.
func (c Command) Validate() error {
	if c.TransportDate.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "transport date is required")
	}
	if c.TransporterCocID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "transporter is required")
	}
	if len(c.Goods) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "a transport carries at least one goods line")
	}
	for i, item := range c.Goods {
		if _, err := wsmodels.ParseWasteStreamNumber(item.Number.String()); err != nil {
			return dErrors.Wrapf(err, dErrors.CodeInvalidInput, "goods line %d", i+1)
		}
		if item.WeightKg < 0 {
			return dErrors.Newf(dErrors.CodeInvalidInput, "goods line %d has a negative weight", i+1)
		}
	}
	return nil
}

// Numbers returns the distinct waste stream numbers referenced by the goods.
func (c Command) Numbers() []wsmodels.WasteStreamNumber {
	seen := make(map[wsmodels.WasteStreamNumber]bool, len(c.Goods))
	var out []wsmodels.WasteStreamNumber
	for _, item := range c.Goods {
		if seen[item.Number] {
			continue
		}
		seen[item.Number] = true
		out = append(out, item.Number)
	}
	return out
}

// IncompatibleWasteStreamsError rejects a transport whose streams disagree on
// pickup location, processor or consignor.
type IncompatibleWasteStreamsError struct {
	Numbers []wsmodels.WasteStreamNumber
	Reason  string
}

func (e *IncompatibleWasteStreamsError) Error() string {
	nums := make([]string, len(e.Numbers))
	for i, n := range e.Numbers {
		nums[i] = n.String()
	}
	return fmt.Sprintf("waste streams %s cannot share a transport: %s", strings.Join(nums, ", "), e.Reason)
}
