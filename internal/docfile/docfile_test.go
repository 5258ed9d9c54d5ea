package docfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/gompdf/docflow/internal/geom"
	"github.com/gompdf/docflow/internal/layout"
	"github.com/gompdf/docflow/internal/style"
)

const invoice = `
styles:
  tags:
    h1:
      font: {size: 30}
pages:
  - page_margin: 1in
    children:
      - tag: h1
        text: Invoice
      - block_orientation: horizontal
        margin: {bottom: 10}
        children:
          - tag: p
            weight: 2
            text: Billed to
            border_bottom: "1pt solid #cccccc"
          - tag: img
            src: logo.png
            min_height: 40
            attrs: {alt: Logo}
      - tag: p
        style: li
        padding: 4pt 8pt
        background: "#eeeeeeff"
        font: {color: "#333333ff"}
        text: Thanks
  - size: a5
    orientation: landscape
`

func build(t *testing.T, src string) (*layout.Builder, *Document) {
	t.Helper()
	doc, err := Decode(strings.NewReader(src))
	require.NoError(t, err)

	s, err := style.New(doc.Styles)
	require.NoError(t, err)
	b := layout.NewBuilder()
	require.NoError(t, doc.Build(b, s))
	return b, doc
}

func TestBuild(t *testing.T) {
	b, doc := build(t, invoice)
	require.Contains(t, doc.Styles.Tags, "H1")

	out, err := b.ToDoc()
	require.NoError(t, err)
	require.Len(t, out.Pages, 2)
	assert.Len(t, out.Images, 1)

	page := out.Pages[0]
	require.Len(t, page.Children, 3)

	h1 := page.Children[0]
	assert.Equal(t, "H1", h1.Tag)
	assert.Equal(t, 30.0, h1.Font.Size)
	assert.Equal(t, 6.0, h1.Margin.Bottom)
	assert.Equal(t, geom.Box{X: 72, Y: 72, Width: 468, Height: 16}, h1.Box)

	row := page.Children[1]
	assert.Equal(t, "DIV", row.Tag)
	assert.Equal(t, "horizontal", row.BlockOrientation)
	assert.Equal(t, 72.0+16+6, row.Box.Y)
	require.Len(t, row.Children, 2)

	cell := row.Children[0]
	assert.Equal(t, 312.0, cell.Box.Width)
	assert.Equal(t, 2.0, cell.Weight)
	require.NotNil(t, cell.Border)
	assert.Nil(t, cell.Border.Top)
	assert.Equal(t, "#cccccc", cell.Border.Bottom.Color)
	assert.Equal(t, 12.0, cell.Margin.Bottom)

	img := row.Children[1]
	assert.Equal(t, 156.0, img.Box.Width)
	assert.Equal(t, 312.0, img.Box.X)
	assert.Equal(t, 40.0, img.Box.Height)
	assert.Equal(t, "Logo", img.Attrs["alt"])
	assert.Equal(t, geom.HashSource("logo.png"), img.Hash)
	// the row is as tall as its tallest cell
	assert.Equal(t, 40.0, row.Box.Height)

	li := page.Children[2]
	assert.Equal(t, "P", li.Tag)
	assert.Equal(t, 24.0, li.Font.LineHeight)
	assert.Equal(t, "#333333ff", li.Font.Color)
	assert.Equal(t, geom.Margin{Top: 4, Right: 8, Bottom: 4, Left: 8}, li.Padding)
	assert.Equal(t, "#eeeeeeff", li.Background.Color)
	assert.Equal(t, 24.0+8, li.Box.Height)
	assert.Equal(t, row.Box.Y+40+10, li.Box.Y)

	second := out.Pages[1]
	assert.Equal(t, "a5", second.Size)
	assert.Greater(t, second.Box.Width, second.Box.Height)
	assert.Equal(t, "0.75in", second.PageMargin)
}

func TestInsetForms(t *testing.T) {
	doc, err := Decode(strings.NewReader(`
pages:
  - children:
      - {margin: 5}
      - {margin: "1 2"}
      - {margin: {top: 1in, left: 3}}
`))
	require.NoError(t, err)
	kids := doc.Pages[0].Children
	assert.Equal(t, geom.UniformMargin(5), kids[0].Margin.Margin)
	assert.Equal(t, geom.Margin{Top: 1, Right: 2, Bottom: 1, Left: 2}, kids[1].Margin.Margin)
	assert.Equal(t, geom.Margin{Top: 72, Left: 3}, kids[2].Margin.Margin)
}

func TestDecodeErrors(t *testing.T) {
	for name, src := range map[string]string{
		"empty":        "",
		"unknown key":  "pages:\n  - colour: red\n",
		"bad inset":    "pages:\n  - children:\n      - {margin: 1 2 3 4 5}\n",
		"bad side":     "pages:\n  - children:\n      - {margin: {middle: 2}}\n",
		"nested inset": "pages:\n  - children:\n      - {margin: {top: [1]}}\n",
	} {
		_, err := Decode(strings.NewReader(src))
		assert.Error(t, err, name)
	}
}

func TestBuildErrors(t *testing.T) {
	doc, err := Decode(strings.NewReader(`
pages:
  - children:
      - tag: div
        children:
          - {tag: p, border: "1pt wavy red"}
`))
	require.NoError(t, err)
	err = doc.Build(layout.NewBuilder(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, geom.ErrMalformedShorthand)
	assert.Contains(t, err.Error(), "pages[0]")
	assert.Contains(t, err.Error(), "children[0]")

	doc, err = Decode(strings.NewReader("pages:\n  - size: b9000\n"))
	require.NoError(t, err)
	assert.Error(t, doc.Build(layout.NewBuilder(), nil))
}

func TestBuildWithoutStyler(t *testing.T) {
	b, _ := build(t, "pages:\n  - children:\n      - {tag: p, text: hi}\n")
	_, err := b.ToDoc()
	require.NoError(t, err)

	doc, err := Decode(strings.NewReader("pages:\n  - children:\n      - {tag: p, text: hi}\n"))
	require.NoError(t, err)
	b = layout.NewBuilder()
	require.NoError(t, doc.Build(b, nil))
	out, err := b.ToDoc()
	require.NoError(t, err)
	assert.Nil(t, out.Pages[0].Children[0].Font)
	assert.Equal(t, 0.0, out.Pages[0].Children[0].Box.Height)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(invoice), 0o644))
	doc, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, doc.Pages, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBuildCombinesErrors(t *testing.T) {
	doc, err := Decode(strings.NewReader(`
pages:
  - size: b9000
  - children:
      - {tag: p, border_top: "1pt wavy red", border_left: "x"}
  - children:
      - {tag: p, text: fine}
`))
	require.NoError(t, err)

	b := layout.NewBuilder()
	err = doc.Build(b, nil)
	require.Error(t, err)
	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "pages[0]")
	assert.Contains(t, errs[1].Error(), "pages[1]")
	assert.ErrorIs(t, errs[1], geom.ErrMalformedShorthand)
	// both borders are reported
	assert.Contains(t, errs[1].Error(), `"1pt wavy red"`)
	assert.Contains(t, errs[1].Error(), `"x"`)

	// the valid page is still added
	assert.Len(t, b.Pages(), 1)
}
