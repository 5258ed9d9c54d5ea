package metrics

import (
	"fmt"
	"strings"
	"sync"

	"codeberg.org/go-pdf/fpdf"

	"github.com/gompdf/docflow/internal/geom"
)

// FPDF measures text with fpdf. The PDF core fonts (Helvetica, Times,
// Courier) are always available; TrueType families can be added with
// AddFont. Unknown families measure as Helvetica.
type FPDF struct {
	mu     sync.Mutex
	pdf    *fpdf.Fpdf
	styles map[string]map[string]bool // family -> registered styles
}

// NewFPDF creates an fpdf backed estimator
func NewFPDF() *FPDF {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	return &FPDF{pdf: pdf, styles: make(map[string]map[string]bool)}
}

// AddFont registers TrueType data for family in style ("", "B", "I" or
// "BI").
func (m *FPDF) AddFont(family, style string, data []byte) error {
	key := strings.ToLower(family)
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pdf.AddUTF8FontFromBytes(key, style, data)
	if m.pdf.Err() {
		err := m.pdf.Error()
		m.pdf.ClearError()
		return fmt.Errorf("failed to add font %s %q: %w", family, style, err)
	}
	if m.styles[key] == nil {
		m.styles[key] = make(map[string]bool)
	}
	m.styles[key][style] = true
	return nil
}

// TextWidth returns the width of text in points
func (m *FPDF) TextWidth(text string, font *geom.Font) float64 {
	if text == "" || font == nil || font.Size <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	fam, sty := m.resolve(font)
	m.pdf.SetFont(fam, sty, font.Size)
	return m.pdf.GetStringWidth(text)
}

// resolve prefers a registered family, falling back to its regular style,
// and otherwise maps to a core font.
func (m *FPDF) resolve(f *geom.Font) (string, string) {
	_, sty := coreFont(f)
	if styles, ok := m.styles[strings.ToLower(firstFamily(f.Family))]; ok {
		fam := strings.ToLower(firstFamily(f.Family))
		if styles[sty] {
			return fam, sty
		}
		if styles[""] {
			return fam, ""
		}
	}
	return coreFont(f)
}

func firstFamily(family string) string {
	first, _, _ := strings.Cut(family, ",")
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(first), `'"`))
}

// coreFont maps a font to a core PDF font family and style
func coreFont(f *geom.Font) (string, string) {
	family := "Helvetica"
	switch strings.ToLower(firstFamily(f.Family)) {
	case "times", "times new roman", "serif":
		family = "Times"
	case "courier", "courier new", "monospace":
		family = "Courier"
	}
	style := ""
	if f.Bold() {
		style += "B"
	}
	if f.Italic() {
		style += "I"
	}
	return family, style
}
