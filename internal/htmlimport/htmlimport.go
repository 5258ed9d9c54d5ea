// Package htmlimport lays out HTML documents. Each <section> of the body
// becomes a page (or the whole body when there is none), block elements
// become nodes and inline content becomes their text.
//
// Page attributes come from data-size, data-orientation and
// data-page-margin on the section. Elements may set data-orientation and
// data-weight; table rows are horizontal with colspan as weight.
package htmlimport

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gompdf/docflow/internal/geom"
	"github.com/gompdf/docflow/internal/layout"
	"github.com/gompdf/docflow/internal/parser/css"
	"github.com/gompdf/docflow/internal/parser/html"
	"github.com/gompdf/docflow/internal/style"
)

var skipped = map[string]bool{
	"head": true, "script": true, "style": true, "template": true, "noscript": true, "title": true, "meta": true, "link": true,
}

var inline = map[string]bool{
	"a": true, "abbr": true, "b": true, "br": true, "code": true, "em": true, "i": true, "kbd": true,
	"mark": true, "q": true, "s": true, "small": true, "span": true, "strong": true, "sub": true,
	"sup": true, "time": true, "u": true, "var": true,
}

// Importer builds layout pages from HTML
type Importer struct {
	log    *zap.Logger
	styles *style.Table
}

// Option configures an Importer
type Option func(*Importer)

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(im *Importer) {
		if log != nil {
			im.log = log
		}
	}
}

// WithStyles sets a style table that <style> elements of the document are
// merged over.
func WithStyles(t *style.Table) Option {
	return func(im *Importer) {
		im.styles = t
	}
}

// New creates an importer
func New(opts ...Option) *Importer {
	im := &Importer{log: zap.NewNop()}
	for _, opt := range opts {
		opt(im)
	}
	im.log = im.log.Named("html")
	return im
}

// Import parses r and adds its pages to b. It returns the styler used so
// that callers can register its fonts.
func (im *Importer) Import(r io.Reader, b *layout.Builder) (*style.Styler, error) {
	doc, err := html.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return im.Build(doc, b)
}

// Build adds the pages of a parsed document to b
func (im *Importer) Build(doc *html.Document, b *layout.Builder) (*style.Styler, error) {
	table := im.styles
	for i, sheet := range doc.Stylesheets() {
		t, err := style.ParseCSS(strings.NewReader(sheet), im.log)
		if err != nil {
			return nil, fmt.Errorf("style element %d: %w", i+1, err)
		}
		table = style.Merge(table, t)
	}
	s, err := style.New(table, style.WithLogger(im.log))
	if err != nil {
		return nil, err
	}

	body := doc.Body()
	if body == nil {
		return nil, fmt.Errorf("document has no body")
	}
	pages := body.FindAll("section")
	if len(pages) == 0 {
		pages = []*html.Node{body}
	}
	for i, sec := range pages {
		if err := b.Page(pageAttrs(sec), func(p *layout.PageBuilder) error {
			return im.children(&p.NodeBuilder, sec, s)
		}); err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
	}
	im.log.Debug("Imported html", zap.Int("pages", len(pages)))
	return s, nil
}

func pageAttrs(sec *html.Node) layout.Attrs {
	attrs := layout.Attrs{}
	for attr, key := range map[string]string{
		"data-size":        "size",
		"data-orientation": "orientation",
		"data-page-margin": "page_margin",
	} {
		if v, ok := sec.AttrValue(attr); ok && v != "" {
			attrs[key] = v
		}
	}
	if id, ok := sec.AttrValue("id"); ok {
		attrs["id"] = id
	}
	return attrs
}

// children adds the block content of el to parent. Runs of inline content
// between blocks become SPAN nodes.
func (im *Importer) children(parent *layout.NodeBuilder, el *html.Node, s *style.Styler) error {
	var run []*html.Node
	flush := func() error {
		text := textOf(run)
		run = run[:0]
		if text == "" {
			return nil
		}
		return parent.Node("SPAN", layout.Attrs{"text": text}, func(n *layout.NodeBuilder) error {
			s.StyleNode(n)
			return nil
		})
	}

	for c := el.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.IsElement() && skipped[strings.ToLower(c.Data)]:
			continue
		case c.IsElement("section"):
			// sections are pages of their own
			continue
		case c.IsElement() && !inline[strings.ToLower(c.Data)]:
			if err := flush(); err != nil {
				return err
			}
			if err := im.element(parent, c, s); err != nil {
				return err
			}
		default:
			run = append(run, c)
		}
	}
	return flush()
}

func textOf(nodes []*html.Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if t := n.Text(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func hasBlockChildren(el *html.Node) bool {
	for _, c := range el.Elements() {
		tag := strings.ToLower(c.Data)
		if !inline[tag] && !skipped[tag] {
			return true
		}
	}
	return false
}

func (im *Importer) element(parent *layout.NodeBuilder, el *html.Node, s *style.Styler) error {
	tag := strings.ToUpper(el.Data)
	attrs, err := elementAttrs(el)
	if err != nil {
		return fmt.Errorf("<%s>: %w", el.Data, err)
	}

	configure := func(n *layout.NodeBuilder) error {
		s.StyleNode(n)
		if inlineStyle, ok := el.AttrValue("style"); ok {
			if err := applyInlineStyle(n, inlineStyle, im.log); err != nil {
				return fmt.Errorf("<%s style>: %w", el.Data, err)
			}
		}
		if tag == "IMG" {
			return nil
		}
		if hasBlockChildren(el) {
			return im.children(n, el, s)
		}
		if text := el.Text(); text != "" {
			n.SetText(text)
		}
		return nil
	}

	if tag == "IMG" {
		src, _ := el.AttrValue("src")
		if src == "" {
			im.log.Warn("Image without src skipped")
			return nil
		}
		return parent.Image(src, attrs, configure)
	}
	return parent.Node(tag, attrs, configure)
}

func elementAttrs(el *html.Node) (layout.Attrs, error) {
	attrs := layout.Attrs{}
	for _, a := range el.Attr {
		key := strings.ToLower(a.Key)
		switch key {
		case "style", "src":
		case "data-orientation":
			attrs["block_orientation"] = strings.ToLower(strings.TrimSpace(a.Val))
		case "data-weight", "colspan":
			w, err := strconv.ParseFloat(strings.TrimSpace(a.Val), 64)
			if err != nil {
				return nil, fmt.Errorf("%w %q: %v", layout.ErrInvalidAttribute, key, err)
			}
			attrs["weight"] = w
		default:
			attrs[key] = a.Val
		}
	}
	if el.IsElement("tr") {
		if _, ok := attrs["block_orientation"]; !ok {
			attrs["block_orientation"] = string(layout.Horizontal)
		}
	}
	return attrs, nil
}

// applyInlineStyle applies a style attribute over the cascaded values. Font
// and inset properties are resolved like stylesheet rules; border and
// background properties are set directly.
func applyInlineStyle(n *layout.NodeBuilder, decls string, log *zap.Logger) error {
	sheet, err := css.NewParser(log).ParseString("inline {" + decls + "}")
	if err != nil {
		return err
	}
	var errs error
	for _, rule := range sheet.Rules {
		r, err := style.RuleFromDeclarations(rule.Declarations, log)
		errs = multierr.Append(errs, err)
		if r.Font != nil {
			font := n.Font().Clone()
			if font == nil {
				font = geom.DefaultFont()
			}
			r.Font.Apply(font)
			n.SetFont(font)
		}
		if r.Margin != nil {
			m := *n.Margin()
			r.Margin.ApplyTo(&m)
			n.SetMargin(&m)
		}
		if r.Padding != nil {
			p := *n.Padding()
			r.Padding.ApplyTo(&p)
			n.SetPadding(&p)
		}

		for _, d := range rule.Declarations {
			switch d.Property {
			case "background", "background-color":
				c, err := geom.ParseColor(d.Value)
				if err != nil {
					errs = multierr.Append(errs, fmt.Errorf("%s: %w", d.Property, err))
					continue
				}
				n.BackgroundColor(c.Hex())
			case "border":
				errs = multierr.Append(errs, n.BorderAll(d.Value))
			case "border-top":
				errs = multierr.Append(errs, n.BorderTop(d.Value))
			case "border-right":
				errs = multierr.Append(errs, n.BorderRight(d.Value))
			case "border-bottom":
				errs = multierr.Append(errs, n.BorderBottom(d.Value))
			case "border-left":
				errs = multierr.Append(errs, n.BorderLeft(d.Value))
			}
		}
	}
	return errs
}
