// Package unit converts drawing unit declarations to millimeters.
package unit

import "strings"

// PxPerInch is the CSS reference pixel density assumed for
// pixel-space documents.
const PxPerInch = 96.0

// ScaleToMM returns the multiplier that converts coordinates in the
// declared unit to millimeters. Matching is case-insensitive; an
// unknown or empty token is treated as already-millimeters. It never
// fails.
func ScaleToMM(token string) float64 {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "mm", "millimeter", "millimeters":
		return 1.0
	case "in", "inch", "inches":
		return 25.4
	case "cm", "centimeter", "centimeters":
		return 10.0
	case "px", "pixel", "pixels":
		return 25.4 / PxPerInch
	default:
		return 1.0
	}
}
