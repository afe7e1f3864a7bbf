package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxSMILESLength bounds accepted SMILES input. Target graphs have tens of
// atoms; anything this long is not a structure the engine is meant for.
const MaxSMILESLength = 4096

// MaxViewportExtent bounds viewport width and height.
const MaxViewportExtent = 100000

// MaxIterations bounds the force-simulation passes a caller may request.
// Each pass is quadratic in the atom count and is not interruptible.
const MaxIterations = 1000

// ValidateSMILES performs cheap safety checks on a SMILES string before it
// reaches the parser:
//   - No empty input
//   - Maximum length of [MaxSMILESLength] bytes
//   - No control characters or whitespace
//
// Grammar errors are reported by the parser itself.
func ValidateSMILES(s string) error {
	if s == "" {
		return New(ErrCodeInvalidSMILES, "SMILES cannot be empty")
	}

	if len(s) > MaxSMILESLength {
		return New(ErrCodeInvalidSMILES, "SMILES too long (max %d characters)", MaxSMILESLength)
	}

	for _, r := range s {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidSMILES, "SMILES contains whitespace or control characters")
		}
	}

	return nil
}

// ValidateViewport checks that a viewport has finite, positive dimensions,
// a non-negative padding, and leaves some drawable area inside the padding.
func ValidateViewport(width, height, padding float64) error {
	for _, v := range []float64{width, height, padding} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidViewport, "viewport values must be finite")
		}
	}

	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidViewport, "viewport must have positive width and height (got %gx%g)", width, height)
	}

	if width > MaxViewportExtent || height > MaxViewportExtent {
		return New(ErrCodeInvalidViewport, "viewport too large (max %d per side)", MaxViewportExtent)
	}

	if padding < 0 {
		return New(ErrCodeInvalidViewport, "padding cannot be negative")
	}

	if 2*padding >= width || 2*padding >= height {
		return New(ErrCodeInvalidViewport, "padding %g leaves no drawable area in %gx%g", padding, width, height)
	}

	return nil
}

// ValidateFilename validates a user-supplied input filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidInput, "filename cannot be empty")
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidInput, "filename cannot contain path separators")
	}

	if strings.Contains(filename, "..") {
		return New(ErrCodeInvalidInput, "filename cannot contain path traversal sequences (..)")
	}

	for _, r := range filename {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "filename contains invalid characters")
		}
	}

	return nil
}
