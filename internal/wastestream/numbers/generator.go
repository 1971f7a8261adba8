// Package numbers turns raw sequence values into waste stream numbers.
package numbers

import (
	"context"

	"wastetrack/internal/wastestream/models"
	"wastetrack/internal/wastestream/store/sequence"
	dErrors "wastetrack/pkg/domain-errors"
	"wastetrack/pkg/platform/sentinel"
)

// Generator produces unique, strictly increasing waste stream numbers scoped
// to a processor. It is a thin wrapper: uniqueness comes from the sequence
// store's atomic increment.
type Generator struct {
	sequences sequence.Store
}

func NewGenerator(sequences sequence.Store) *Generator {
	return &Generator{sequences: sequences}
}

// Next returns the next number for the processor. Sequence exhaustion or
// connectivity failure is fatal for the caller's draft creation.
func (g *Generator) Next(ctx context.Context, processorNumber string) (models.WasteStreamNumber, error) {
	seq, err := g.sequences.Next(ctx, processorNumber)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "waste stream number generation failed")
	}
	if seq > 999999 {
		return "", dErrors.Wrap(sentinel.ErrExhausted, dErrors.CodeInternal,
			"waste stream number space exhausted for processor "+processorNumber)
	}
	number, err := models.NewWasteStreamNumber(processorNumber, seq)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "waste stream number generation failed")
	}
	return number, nil
}
