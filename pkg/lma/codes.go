// Package lma implements the national waste registry's code formats: eural
// (EU waste classification) codes and processing-method codes. The registry's
// wire protocol uses compact forms; humans and our data model use the grouped
// display forms. Conversions are lossless in both directions.
package lma

import (
	"strings"

	dErrors "wastetrack/pkg/domain-errors"
)

// CompactEural strips the internal spacing from a grouped eural code:
// "17 04 05" -> "170405", "17 04 05*" -> "170405*".
func CompactEural(code string) string {
	return strings.ReplaceAll(code, " ", "")
}

// FormatEural groups a compact eural code for display: "170405" -> "17 04 05".
// A trailing '*' (hazardous marker) is preserved: "170405*" -> "17 04 05*".
// Returns an invalid-input error unless the code is exactly six digits.
func FormatEural(compact string) (string, error) {
	hazardous := strings.HasSuffix(compact, "*")
	digits := strings.TrimSuffix(compact, "*")
	if len(digits) != 6 || !isDigits(digits) {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "eural code %q must be six digits, optionally followed by '*'", compact)
	}
	grouped := digits[0:2] + " " + digits[2:4] + " " + digits[4:6]
	if hazardous {
		grouped += "*"
	}
	return grouped, nil
}

// CompactProcessingMethod strips the internal dots from a processing-method
// code: "A.01" -> "A01".
func CompactProcessingMethod(code string) string {
	return strings.ReplaceAll(code, ".", "")
}

// FormatProcessingMethod regroups a compact processing-method code for
// display: "A01" -> "A.01". Returns an invalid-input error unless the code is
// exactly three characters.
func FormatProcessingMethod(compact string) (string, error) {
	if len(compact) != 3 {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "processing method code %q must be three characters", compact)
	}
	return compact[0:1] + "." + compact[1:3], nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
