package metadata

import (
	"strconv"
	"strings"
)

// Unit conversion factors to millimetres.
const (
	inchToMM = 25.4
	cmToMM   = 10.0
)

// Typical paper bulk used when estimating spine width from a page count.
// 444 pages per inch is the usual figure for uncoated trade stock.
const pagesPerMM = 444.0 / inchToMM

// minSpineMM is the floor for estimated spines so thin pamphlets still
// render as visible books.
const minSpineMM = 3.0

// ParseDimensions parses an Open Library physical_dimensions string such as
// "7.8 x 5.1 x 1.1 inches" or "20 x 13 x 2 centimeters" into width, height,
// and spine in millimetres. Open Library records dimensions as
// height x width x depth. Returns ok=false when the string is absent or not
// in that shape.
func ParseDimensions(s string) (width, height, spine float64, ok bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, 0, 0, false
	}

	var factor float64
	switch {
	case strings.HasSuffix(s, "inches"):
		factor = inchToMM
		s = strings.TrimSuffix(s, "inches")
	case strings.HasSuffix(s, "centimeters"):
		factor = cmToMM
		s = strings.TrimSuffix(s, "centimeters")
	case strings.HasSuffix(s, "millimeters"):
		factor = 1
		s = strings.TrimSuffix(s, "millimeters")
	default:
		return 0, 0, 0, false
	}

	parts := strings.Split(s, "x")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}

	var vals [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || v <= 0 {
			return 0, 0, 0, false
		}
		vals[i] = v * factor
	}

	return vals[1], vals[0], vals[2], true
}

// EstimateSpineMM estimates spine thickness from a page count, for records
// that carry pagination but no measured dimensions.
func EstimateSpineMM(pages int) float64 {
	if pages <= 0 {
		return 0
	}
	spine := float64(pages) / pagesPerMM
	if spine < minSpineMM {
		spine = minSpineMM
	}
	return spine
}
