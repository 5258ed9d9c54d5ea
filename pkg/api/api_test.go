package api

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gompdf/docflow/internal/geom"
	"github.com/gompdf/docflow/internal/metrics"
	"github.com/gompdf/docflow/internal/paper"
)

const letter = `
pages:
  - page_margin: 1in
    children:
      - tag: p
        text: Hello
`

func TestConvert(t *testing.T) {
	doc, err := New().Convert(strings.NewReader(letter))
	require.NoError(t, err)
	require.Len(t, doc.Pages, 1)

	page := doc.Pages[0]
	assert.Equal(t, 612.0, page.Box.Width)
	assert.Equal(t, 792.0, page.Box.Height)
	require.Len(t, page.Children, 1)
	assert.Equal(t, 72.0, page.Children[0].Box.X)
	assert.Equal(t, 468.0, page.Children[0].Box.Width)
}

func TestConvertPageOptions(t *testing.T) {
	c := NewWithOptions(DefaultOptions()).
		WithOption(WithPageSize(PageSizeA4)).
		WithOption(WithPageOrientation(PageOrientationLandscape)).
		WithOption(WithPageMargin("36"))

	doc, err := c.Convert(strings.NewReader("pages:\n  - children:\n      - tag: p\n"))
	require.NoError(t, err)

	page := doc.Pages[0]
	assert.Equal(t, paper.A4Height, page.Box.Width)
	assert.Equal(t, "landscape", page.Orientation)
	assert.Equal(t, 36.0, page.Children[0].Box.X)
}

func TestConvertErrors(t *testing.T) {
	_, err := New().Convert(strings.NewReader(""))
	assert.Error(t, err)

	_, err = New().Convert(strings.NewReader("pages:\n  - size: nonsense\n"))
	assert.ErrorIs(t, err, paper.ErrUnknownSize)

	_, err = New().ConvertFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestStyleLayers(t *testing.T) {
	dir := t.TempDir()
	styles := filepath.Join(dir, "styles.yaml")
	require.NoError(t, os.WriteFile(styles, []byte("tags:\n  p:\n    margin: {bottom: 9}\n"), 0o644))

	c := NewWithOptions(DefaultOptions()).
		WithOption(WithStylesheet("p { font-size: 20pt; margin-bottom: 3pt }")).
		WithOption(WithStyleFile(styles))

	doc, err := c.Convert(strings.NewReader(letter))
	require.NoError(t, err)

	p := doc.Pages[0].Children[0]
	assert.Equal(t, 20.0, p.Font.Size)
	// the style file is merged after the stylesheet
	assert.Equal(t, 9.0, p.Margin.Bottom)

	// the document's own styles win
	doc, err = c.Convert(strings.NewReader("styles:\n  tags:\n    p:\n      font: {size: 8}\n" + letter))
	require.NoError(t, err)
	assert.Equal(t, 8.0, doc.Pages[0].Children[0].Font.Size)

	_, err = New().WithOption(WithStyleFile(filepath.Join(dir, "none.yaml"))).Convert(strings.NewReader(letter))
	assert.Error(t, err)
}

func TestConvertHTML(t *testing.T) {
	doc, err := New().ConvertHTML(strings.NewReader(
		`<html><body><section data-size="a5"><p>Hi</p></section><section><h1>Two</h1></section></body></html>`))
	require.NoError(t, err)
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, "a5", doc.Pages[0].Size)
	assert.Equal(t, "us-letter", doc.Pages[1].Size)
	require.Len(t, doc.Pages[1].Children, 1)
	assert.Equal(t, "H1", doc.Pages[1].Children[0].Tag)
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestConvertFileResolvesImages(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "logo.png"), 3, 2)
	src := "pages:\n  - children:\n      - tag: img\n        src: logo.png\n      - tag: img\n        src: logo.png\n"
	path := filepath.Join(dir, "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	c := New()
	doc, err := c.ConvertFile(path)
	require.NoError(t, err)
	require.Len(t, doc.Images, 1)

	images, err := c.ResolveImages(context.Background(), doc)
	require.NoError(t, err)
	img := images[geom.HashSource("logo.png")]
	require.NotNil(t, img)
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 2, img.Height)
}

func TestConvertHTMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(path, []byte(`<body><p>Text</p><img src="a.png"></body>`), 0o644))

	doc, err := New().ConvertHTMLFile(path)
	require.NoError(t, err)
	assert.Len(t, doc.Images, 1)

	_, err = New().ConvertHTMLFile(filepath.Join(dir, "none.html"))
	assert.Error(t, err)
}

type fontMetrics struct {
	metrics.Coarse
	added []string
}

func (m *fontMetrics) AddFont(family, style string, data []byte) error {
	m.added = append(m.added, family+"/"+style+"/"+string(data))
	return nil
}

func TestRegisterFonts(t *testing.T) {
	dir := t.TempDir()
	regular := filepath.Join(dir, "serif.ttf")
	bold := filepath.Join(dir, "serif-bold.ttf")
	require.NoError(t, os.WriteFile(regular, []byte("regular face"), 0o644))
	require.NoError(t, os.WriteFile(bold, []byte("bold face"), 0o644))

	m := &fontMetrics{}
	src := "styles:\n  fonts:\n    - name: Serif\n      regular: " + regular + "\n      bold: " + bold + "\n" + letter
	_, err := NewWithOptions(DefaultOptions()).WithOption(WithMetrics(m)).Convert(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"Serif//regular face", "Serif/B/bold face"}, m.added)

	src = "styles:\n  fonts:\n    - name: Serif\n      regular: " + filepath.Join(dir, "none.ttf") + "\n" + letter
	_, err = NewWithOptions(DefaultOptions()).WithOption(WithMetrics(&fontMetrics{})).Convert(strings.NewReader(src))
	assert.ErrorContains(t, err, `font family "Serif"`)
}

func TestWriters(t *testing.T) {
	doc, err := New().Convert(strings.NewReader(letter))
	require.NoError(t, err)

	var js bytes.Buffer
	require.NoError(t, WriteJSON(doc, &js))
	assert.Contains(t, js.String(), `"pages"`)
	assert.Contains(t, js.String(), `"Hello"`)

	var tr bytes.Buffer
	require.NoError(t, WriteTree(doc, &tr))
	assert.Contains(t, tr.String(), "document (1 pages, 0 images)")
	assert.Contains(t, tr.String(), `P [72,72 468x`)
}
