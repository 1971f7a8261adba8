package models

import (
	"fmt"

	dErrors "wastetrack/pkg/domain-errors"
)

// WasteStreamNumber identifies a recurring waste movement at the national
// registry. Twelve characters: the processor's six-digit registry number
// followed by a six-digit sequence value. Assigned once at draft creation,
// immutable afterwards.
type WasteStreamNumber string

// NewWasteStreamNumber builds a number from a processor registry number and a
// sequence value. The sequence space per processor is 000001..999999.
func NewWasteStreamNumber(processorNumber string, seq int64) (WasteStreamNumber, error) {
	if len(processorNumber) != 6 {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "processor registry number %q must be six digits", processorNumber)
	}
	if seq < 1 || seq > 999999 {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "sequence value %d out of range for processor %s", seq, processorNumber)
	}
	return WasteStreamNumber(fmt.Sprintf("%s%06d", processorNumber, seq)), nil
}

// ParseWasteStreamNumber validates an externally supplied number.
func ParseWasteStreamNumber(s string) (WasteStreamNumber, error) {
	if len(s) != 12 {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "waste stream number %q must be twelve digits", s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", dErrors.Newf(dErrors.CodeInvalidInput, "waste stream number %q must be twelve digits", s)
		}
	}
	return WasteStreamNumber(s), nil
}

func (n WasteStreamNumber) String() string { return string(n) }

// ProcessorPrefix returns the processor registry number embedded in the number.
func (n WasteStreamNumber) ProcessorPrefix() string {
	if len(n) < 6 {
		return ""
	}
	return string(n[:6])
}
