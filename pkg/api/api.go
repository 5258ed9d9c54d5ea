package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/gompdf/docflow/internal/docfile"
	"github.com/gompdf/docflow/internal/htmlimport"
	"github.com/gompdf/docflow/internal/layout"
	"github.com/gompdf/docflow/internal/res"
	"github.com/gompdf/docflow/internal/style"
	"github.com/gompdf/docflow/internal/tree"
)

// Document is a laid out document
type Document = tree.Document

// Image is a loaded image asset
type Image = res.Image

// FontAdder is implemented by metrics that can measure embedded TrueType
// fonts, such as metrics.FPDF.
type FontAdder interface {
	AddFont(family, style string, data []byte) error
}

// Converter lays out YAML document files and HTML documents
type Converter struct {
	options Options
	log     *zap.Logger
	loader  *res.Loader
}

// New creates a new converter with default options
func New() *Converter {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a new converter with the specified options
func NewWithOptions(options Options) *Converter {
	log := options.Logger
	if log == nil {
		log = zap.NewNop()
		if options.Debug {
			if l, err := zap.NewDevelopment(); err == nil {
				log = l
			}
		}
	}
	c := &Converter{options: options, log: log}
	c.loader = c.newLoader("")
	return c
}

func (c *Converter) newLoader(base string) *res.Loader {
	return res.NewLoader(base,
		res.WithLogger(c.log),
		res.WithSearchPaths(c.options.ResourcePaths...))
}

// Options returns the converter options
func (c *Converter) Options() Options {
	return c.options
}

// WithOption returns a new converter with the specified option set
func (c *Converter) WithOption(option Option) *Converter {
	newOptions := c.options
	option(&newOptions)
	return NewWithOptions(newOptions)
}

// Convert lays out a YAML document file read from r. Relative resources
// resolve against the working directory.
func (c *Converter) Convert(r io.Reader) (*Document, error) {
	doc, err := docfile.Decode(r)
	if err != nil {
		return nil, err
	}
	return c.build(context.Background(), doc)
}

// ConvertFile lays out the YAML document file at path. Relative resources
// resolve against the file.
func (c *Converter) ConvertFile(path string) (*Document, error) {
	doc, err := docfile.Load(path)
	if err != nil {
		return nil, err
	}
	c.loader = c.newLoader(path)
	return c.build(context.Background(), doc)
}

func (c *Converter) build(ctx context.Context, doc *docfile.Document) (*Document, error) {
	table, err := c.styleTable(ctx)
	if err != nil {
		return nil, err
	}
	s, err := style.New(style.Merge(table, doc.Styles), style.WithLogger(c.log))
	if err != nil {
		return nil, fmt.Errorf("failed to create styler: %w", err)
	}
	if err := c.registerFonts(ctx, s); err != nil {
		return nil, err
	}

	b := c.newBuilder()
	if err := doc.Build(b, s); err != nil {
		return nil, fmt.Errorf("failed to build document: %w", err)
	}
	return b.ToDoc()
}

// ConvertHTML lays out the HTML document read from r
func (c *Converter) ConvertHTML(r io.Reader) (*Document, error) {
	return c.convertHTML(context.Background(), r)
}

// ConvertHTMLFile lays out the HTML file at path
func (c *Converter) ConvertHTMLFile(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read HTML file: %w", err)
	}
	c.loader = c.newLoader(path)
	return c.convertHTML(context.Background(), bytes.NewReader(content))
}

func (c *Converter) convertHTML(ctx context.Context, r io.Reader) (*Document, error) {
	table, err := c.styleTable(ctx)
	if err != nil {
		return nil, err
	}
	b := c.newBuilder()
	s, err := htmlimport.New(htmlimport.WithLogger(c.log), htmlimport.WithStyles(table)).Import(r, b)
	if err != nil {
		return nil, err
	}
	if err := c.registerFonts(ctx, s); err != nil {
		return nil, err
	}
	return b.ToDoc()
}

func (c *Converter) newBuilder() *layout.Builder {
	opts := []layout.Option{
		layout.WithLogger(c.log),
		layout.WithPageDefaults(layout.PageDefaults{
			Orientation: string(c.options.PageOrientation),
			Size:        c.options.PageSize,
			PageMargin:  c.options.PageMargin,
		}),
	}
	if c.options.Metrics != nil {
		opts = append(opts, layout.WithMetrics(c.options.Metrics))
	}
	return layout.NewBuilder(opts...)
}

// styleTable merges the configured table, stylesheets and style files in
// that order.
func (c *Converter) styleTable(ctx context.Context) (*style.Table, error) {
	table := c.options.Styles
	for i, sheet := range c.options.Stylesheets {
		t, err := style.ParseCSS(strings.NewReader(sheet), c.log)
		if err != nil {
			return nil, fmt.Errorf("stylesheet %d: %w", i+1, err)
		}
		table = style.Merge(table, t)
	}
	for _, path := range c.options.StyleFiles {
		r, err := c.loader.Load(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to load style file: %w", err)
		}
		var t *style.Table
		if strings.EqualFold(filepath.Ext(path), ".css") {
			t, err = style.ParseCSS(r.GetReader(), c.log)
		} else {
			t, err = style.LoadYAML(r.GetReader())
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		table = style.Merge(table, t)
	}
	return table, nil
}

// registerFonts adds the style table fonts to the metrics when they can
// measure them.
func (c *Converter) registerFonts(ctx context.Context, s *style.Styler) error {
	adder, ok := c.options.Metrics.(FontAdder)
	if !ok {
		return nil
	}
	if err := s.RegisterFonts(&fontRegistrar{ctx: ctx, loader: c.loader, adder: adder}); err != nil {
		return fmt.Errorf("failed to register fonts: %w", err)
	}
	return nil
}

type fontRegistrar struct {
	ctx    context.Context
	loader *res.Loader
	adder  FontAdder
}

func (r *fontRegistrar) RegisterFamily(f style.FontFamily) error {
	for _, face := range []struct{ style, path string }{
		{"", f.Regular},
		{"B", f.Bold},
		{"I", f.Italic},
		{"BI", f.BoldItalic},
	} {
		if face.path == "" {
			continue
		}
		font, err := r.loader.LoadFont(r.ctx, face.path)
		if err != nil {
			return err
		}
		if err := r.adder.AddFont(f.Name, face.style, font.Data); err != nil {
			return err
		}
	}
	return nil
}

// ResolveImages loads every image the document registers, once per hash
func (c *Converter) ResolveImages(ctx context.Context, doc *Document) (map[string]*Image, error) {
	return c.loader.LoadImages(ctx, doc.Images)
}

// WriteJSON writes the raw attribute form of doc as indented JSON
func WriteJSON(doc *Document, w io.Writer) error {
	raw, err := doc.ToRaw()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(raw); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// WriteTree writes an indented outline of doc
func WriteTree(doc *Document, w io.Writer) error {
	_, err := io.WriteString(w, tree.Dump(doc))
	return err
}
