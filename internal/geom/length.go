package geom

import (
	"strconv"
	"strings"
	"sync"

	"codeberg.org/go-pdf/fpdf"
)

// Conversion factors from a unit to points, taken from fpdf so that lengths
// agree with the unit handling of the PDF backend.
var (
	unitOnce   sync.Once
	unitPoints map[string]float64
)

func loadUnitFactors() {
	unitPoints = map[string]float64{
		"":   1,
		"pt": 1,
		"px": 1,
	}
	for _, u := range []struct{ suffix, fpdfUnit string }{
		{"in", "inch"},
		{"mm", "mm"},
		{"cm", "cm"},
	} {
		pdf := fpdf.New("P", u.fpdfUnit, "A4", "")
		unitPoints[u.suffix] = pdf.UnitToPointConvert(1)
	}
}

// ParseLength converts a length such as "0.75in", "12pt", "8px", "10mm" or a
// bare number to document units (points). Pixels map 1:1 onto points.
func ParseLength(s string) (float64, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return 0, malformed(s, "empty length")
	}
	i := 0
	for i < len(v) && (v[i] == '+' || v[i] == '-' || v[i] == '.' || (v[i] >= '0' && v[i] <= '9')) {
		i++
	}
	num, unit := v[:i], v[i:]
	if num == "" {
		return 0, malformed(s, "missing number")
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, malformed(s, "invalid number %q", num)
	}
	unitOnce.Do(loadUnitFactors)
	k, ok := unitPoints[unit]
	if !ok {
		return 0, malformed(s, "unknown unit %q", unit)
	}
	return f * k, nil
}
