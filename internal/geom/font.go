package geom

// Font describes the text attributes of a node. A zero LineHeight means unset.
type Font struct {
	Family     string  `json:"family,omitempty"`
	Size       float64 `json:"size"`
	Weight     string  `json:"weight,omitempty"`
	Style      string  `json:"style,omitempty"`
	Color      string  `json:"color,omitempty"`
	Align      string  `json:"align,omitempty"`
	LineHeight float64 `json:"line_height,omitempty"`
}

// DefaultFont returns a new font with the built-in defaults
func DefaultFont() *Font {
	return &Font{
		Family:     "Helvetica",
		Size:       12,
		Weight:     "normal",
		Color:      "#000000ff",
		Align:      "left",
		LineHeight: 16,
	}
}

// Clone returns a copy of the font
func (f *Font) Clone() *Font {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

// EffectiveLineHeight returns LineHeight, or 1 when it is unset.
func (f *Font) EffectiveLineHeight() float64 {
	if f.LineHeight > 0 {
		return f.LineHeight
	}
	return 1
}

// Bold reports whether the weight asks for a bold face
func (f *Font) Bold() bool {
	switch f.Weight {
	case "bold", "bolder", "600", "700", "800", "900":
		return true
	}
	return false
}

// Italic reports whether the style asks for an italic face
func (f *Font) Italic() bool {
	return f.Style == "italic" || f.Style == "oblique"
}
