package geom

import (
	"strings"
)

// Box is the layout rectangle of a node in points. X and Y are relative to
// the origin of the parent box.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Margin is a four sided inset, used for both margins and padding
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// UniformMargin returns an inset with all four sides set to v
func UniformMargin(v float64) Margin {
	return Margin{Top: v, Right: v, Bottom: v, Left: v}
}

// SetAll sets all four sides to v
func (m *Margin) SetAll(v float64) {
	m.Top, m.Right, m.Bottom, m.Left = v, v, v, v
}

// Horizontal returns Left + Right
func (m Margin) Horizontal() float64 { return m.Left + m.Right }

// Vertical returns Top + Bottom
func (m Margin) Vertical() float64 { return m.Top + m.Bottom }

// ParseMargin parses an inset shorthand like:
//   - "10"
//   - "10 20"
//   - "10 15 8"
//   - "10 12 8 6"
//
// in top, right, bottom, left order. Every value may carry a unit.
func ParseMargin(s string) (Margin, error) {
	parts := strings.Fields(s)
	if len(parts) == 0 || len(parts) > 4 {
		return Margin{}, malformed(s, "expected 1 to 4 values, got %d", len(parts))
	}
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := ParseLength(p)
		if err != nil {
			return Margin{}, malformed(s, "value %d: %v", i+1, err)
		}
		vals[i] = v
	}
	switch len(vals) {
	case 1:
		return UniformMargin(vals[0]), nil
	case 2:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}, nil
	case 3:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}, nil
	default:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}, nil
	}
}
