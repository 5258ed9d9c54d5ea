package geom

import (
	"strings"
)

// BorderSide describes one side of a border
type BorderSide struct {
	Width float64 `json:"width"`
	Style string  `json:"style"`
	Color string  `json:"color"`
}

// Border holds the optional four sides of a node border
type Border struct {
	Top    *BorderSide `json:"top,omitempty"`
	Right  *BorderSide `json:"right,omitempty"`
	Bottom *BorderSide `json:"bottom,omitempty"`
	Left   *BorderSide `json:"left,omitempty"`
}

// UniformBorder returns a border with the same side on all four edges
func UniformBorder(side BorderSide) *Border {
	t, r, b, l := side, side, side, side
	return &Border{Top: &t, Right: &r, Bottom: &b, Left: &l}
}

// Clone returns a deep copy of the border
func (b *Border) Clone() *Border {
	if b == nil {
		return nil
	}
	cp := func(s *BorderSide) *BorderSide {
		if s == nil {
			return nil
		}
		c := *s
		return &c
	}
	return &Border{Top: cp(b.Top), Right: cp(b.Right), Bottom: cp(b.Bottom), Left: cp(b.Left)}
}

var borderStyles = map[string]bool{
	"none":   true,
	"solid":  true,
	"dashed": true,
	"dotted": true,
	"double": true,
}

// ParseBorderSide parses the shorthand "<width><unit> <style> <color>",
// e.g. "1px solid #aaaaaaff". The result is either fully populated or an error.
func ParseBorderSide(s string) (BorderSide, error) {
	parts := strings.Fields(s)
	if len(parts) != 3 {
		return BorderSide{}, malformed(s, "expected width, style and color")
	}
	w, err := ParseLength(parts[0])
	if err != nil {
		return BorderSide{}, malformed(s, "width: %v", err)
	}
	if w < 0 {
		return BorderSide{}, malformed(s, "negative width")
	}
	style := strings.ToLower(parts[1])
	if !borderStyles[style] {
		return BorderSide{}, malformed(s, "unknown style %q", parts[1])
	}
	if _, err := ParseColor(parts[2]); err != nil {
		return BorderSide{}, malformed(s, "color: %v", err)
	}
	return BorderSide{Width: w, Style: style, Color: parts[2]}, nil
}

// Background is the fill of a node
type Background struct {
	Color string `json:"color,omitempty"`
}
