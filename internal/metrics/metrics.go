// Package metrics provides the text width estimates used by flow to derive
// the height of text nodes.
package metrics

import (
	"math"
	"unicode/utf8"

	"github.com/gompdf/docflow/internal/geom"
)

// AverageCharWidth is the average glyph advance as a fraction of the font
// size assumed by Coarse.
const AverageCharWidth = 0.48

// Estimator returns the width text would occupy when set in font on a
// single line.
type Estimator interface {
	TextWidth(text string, font *geom.Font) float64
}

// Coarse is the default estimator: every character is AverageCharWidth
// times the font size wide.
type Coarse struct{}

// TextWidth returns runeCount * size * AverageCharWidth
func (Coarse) TextWidth(text string, font *geom.Font) float64 {
	return float64(utf8.RuneCountInString(text)) * font.Size * AverageCharWidth
}

// LineCount returns the number of lines text wraps into at maxWidth
func LineCount(e Estimator, text string, font *geom.Font, maxWidth float64) int {
	return int(math.Ceil(e.TextWidth(text, font) / maxWidth))
}
