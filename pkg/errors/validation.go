package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxIDLength bounds node and edge identifiers accepted from outside the engine.
const maxIDLength = 128

// ValidateNodeID validates a node or edge id received from a scenario file
// or an HTTP request.
//
// The rules are:
//   - No empty ids
//   - Maximum length of 128 characters
//   - No control characters or whitespace
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "id too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "id %q contains whitespace or control characters", id)
		}
	}

	return nil
}

// ValidateFinite rejects NaN and infinite coordinates or dimensions.
// name is used in the error message (e.g. "width").
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", name)
	}
	return nil
}

// ValidateDimension rejects negative or non-finite dimensions.
func ValidateDimension(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s must not be negative", name)
	}
	return nil
}

// ValidateScenarioPath validates a scenario file path by extension.
func ValidateScenarioPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "scenario path cannot be empty")
	}
	lower := strings.ToLower(path)
	for _, ext := range []string{".toml", ".yaml", ".yml"} {
		if strings.HasSuffix(lower, ext) {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported scenario file %q (want .toml, .yaml or .yml)", path)
}
