package models

import "encoding/json"

// Error codes for validation entries produced locally, without a registry
// verdict. Registry-issued codes pass through verbatim.
const (
	ValidationCodeConfig = "CONFIG_ERROR"
	ValidationCodeSOAP   = "SOAP_ERROR"
)

// ValidationError is one (code, description) entry from the registry, or a
// locally produced configuration/transport entry.
type ValidationError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ValidationResult is the registry's verdict on a waste stream, plus a
// snapshot of the request that was sent. The snapshot exists for audit and
// debugging display, not for replay.
type ValidationResult struct {
	Number      WasteStreamNumber `json:"number"`
	Valid       bool              `json:"is_valid"`
	Errors      []ValidationError `json:"errors,omitempty"`
	RequestData json.RawMessage   `json:"request_data,omitempty"`
}

// Invalid builds a failed result with a single local entry.
func Invalid(number WasteStreamNumber, code, description string) *ValidationResult {
	return &ValidationResult{
		Number: number,
		Valid:  false,
		Errors: []ValidationError{{Code: code, Description: description}},
	}
}
