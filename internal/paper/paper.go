package paper

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"codeberg.org/go-pdf/fpdf"
)

var (
	// ErrUnknownSize is returned for a paper size preset that cannot be resolved
	ErrUnknownSize = errors.New("unknown paper size")
	// ErrUnknownOrientation is returned for orientations other than portrait and landscape
	ErrUnknownOrientation = errors.New("unknown page orientation")
)

// Orientation names accepted by Catalog.PaperSize
const (
	Portrait  = "portrait"
	Landscape = "landscape"
)

// Standard page sizes in points (1/72 inch)
const (
	// A series
	A0Width  = 2383.94
	A0Height = 3370.39
	A1Width  = 1683.78
	A1Height = 2383.94
	A2Width  = 1190.55
	A2Height = 1683.78
	A3Width  = 841.89
	A3Height = 1190.55
	A4Width  = 595.28
	A4Height = 841.89
	A5Width  = 419.53
	A5Height = 595.28
	A6Width  = 297.64
	A6Height = 419.53

	// US Letter and Legal
	LetterWidth  = 612
	LetterHeight = 792
	LegalWidth   = 612
	LegalHeight  = 1008
)

// Size represents a named paper size in portrait orientation
type Size struct {
	Width  float64
	Height float64
	Name   string
}

var presets = map[string]Size{
	"a0":        {A0Width, A0Height, "A0"},
	"a1":        {A1Width, A1Height, "A1"},
	"a2":        {A2Width, A2Height, "A2"},
	"a3":        {A3Width, A3Height, "A3"},
	"a4":        {A4Width, A4Height, "A4"},
	"a5":        {A5Width, A5Height, "A5"},
	"a6":        {A6Width, A6Height, "A6"},
	"us-letter": {LetterWidth, LetterHeight, "Letter"},
	"letter":    {LetterWidth, LetterHeight, "Letter"},
	"us-legal":  {LegalWidth, LegalHeight, "Legal"},
	"legal":     {LegalWidth, LegalHeight, "Legal"},
}

// Catalog resolves paper size presets. Names missing from the built-in and
// custom presets are looked up in fpdf's standard page size table.
type Catalog struct {
	custom map[string]Size

	mu  sync.Mutex
	pdf *fpdf.Fpdf
}

// NewCatalog creates a catalog with the built-in presets
func NewCatalog() *Catalog {
	return &Catalog{custom: make(map[string]Size)}
}

// Default is the catalog used when no other is configured
var Default = NewCatalog()

// Register adds or replaces a custom preset
func (c *Catalog) Register(name string, width, height float64) {
	key := strings.ToLower(strings.TrimSpace(name))
	c.custom[key] = Size{Width: width, Height: height, Name: name}
}

// Lookup returns the portrait size registered for name
func (c *Catalog) Lookup(name string) (Size, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if s, ok := c.custom[key]; ok {
		return s, nil
	}
	if s, ok := presets[key]; ok {
		return s, nil
	}
	if s, ok := c.lookupFPDF(key); ok {
		return s, nil
	}
	return Size{}, fmt.Errorf("%w: %q", ErrUnknownSize, name)
}

func (c *Catalog) lookupFPDF(key string) (Size, bool) {
	if key == "" {
		return Size{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pdf == nil {
		c.pdf = fpdf.New("P", "pt", "A4", "")
	}
	sz := c.pdf.GetPageSizeStr(key)
	if c.pdf.Err() {
		// fpdf errors are sticky, start over for the next lookup
		c.pdf = nil
		return Size{}, false
	}
	w, h := sz.Wd, sz.Ht
	if w > h {
		w, h = h, w
	}
	return Size{Width: w, Height: h, Name: key}, true
}

// PaperSize returns the width and height of the size preset in the given
// orientation. Landscape always yields width > height, portrait the reverse.
func (c *Catalog) PaperSize(size, orientation string) (float64, float64, error) {
	s, err := c.Lookup(size)
	if err != nil {
		return 0, 0, err
	}
	w, h := s.Width, s.Height
	switch strings.ToLower(strings.TrimSpace(orientation)) {
	case Portrait, "":
		if w > h {
			w, h = h, w
		}
	case Landscape:
		if w < h {
			w, h = h, w
		}
	default:
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownOrientation, orientation)
	}
	return w, h, nil
}
