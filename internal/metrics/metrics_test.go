package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gompdf/docflow/internal/geom"
)

func TestCoarse(t *testing.T) {
	f := &geom.Font{Size: 12}
	text := string(make([]byte, 500))
	assert.InDelta(t, 2880.0, Coarse{}.TextWidth(text, f), 1e-9)
	assert.Equal(t, 7, LineCount(Coarse{}, text, f, 468))

	// characters, not bytes
	assert.InDelta(t, 3*12*AverageCharWidth, Coarse{}.TextWidth("äöü", f), 1e-9)
	assert.Equal(t, 0, LineCount(Coarse{}, "", f, 100))
}

func TestFPDF(t *testing.T) {
	m := NewFPDF()
	f := &geom.Font{Family: "Helvetica", Size: 10}

	w := m.TextWidth("Hello World", f)
	assert.Greater(t, w, 0.0)

	f20 := &geom.Font{Family: "Helvetica", Size: 20}
	assert.InDelta(t, 2*w, m.TextWidth("Hello World", f20), 1e-6)

	mono := &geom.Font{Family: "Courier", Size: 10}
	// Courier glyphs are 600/1000 em wide
	assert.InDelta(t, 6.0*5, m.TextWidth("abcde", mono), 1e-6)

	assert.Equal(t, 0.0, m.TextWidth("", f))
	assert.Equal(t, 0.0, m.TextWidth("x", nil))
}

func TestCoreFont(t *testing.T) {
	fam, sty := coreFont(&geom.Font{Family: "'Times New Roman', serif", Weight: "bold", Style: "italic"})
	assert.Equal(t, "Times", fam)
	assert.Equal(t, "BI", sty)

	fam, sty = coreFont(&geom.Font{Family: "Roboto"})
	assert.Equal(t, "Helvetica", fam)
	assert.Equal(t, "", sty)
}

func TestFPDFResolveRegistered(t *testing.T) {
	m := NewFPDF()
	m.styles["roboto"] = map[string]bool{"": true, "B": true}

	fam, sty := m.resolve(&geom.Font{Family: "Roboto, sans-serif", Weight: "bold"})
	assert.Equal(t, "roboto", fam)
	assert.Equal(t, "B", sty)

	// missing italic falls back to regular
	fam, sty = m.resolve(&geom.Font{Family: "Roboto", Style: "italic"})
	assert.Equal(t, "roboto", fam)
	assert.Equal(t, "", sty)

	fam, _ = m.resolve(&geom.Font{Family: "courier"})
	assert.Equal(t, "Courier", fam)
}
