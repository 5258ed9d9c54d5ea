// Package docfile reads documents described in YAML and builds them with a
// layout.Builder:
//
//	styles:
//	  tags:
//	    h1: {font: {size: 28}}
//	pages:
//	  - size: a4
//	    page_margin: 2cm
//	    children:
//	      - tag: h1
//	        text: Invoice
//	      - tag: div
//	        block_orientation: horizontal
//	        children:
//	          - {tag: p, weight: 2, text: Billed to}
//	          - {tag: img, src: logo.png}
package docfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/gompdf/docflow/internal/geom"
	"github.com/gompdf/docflow/internal/layout"
	"github.com/gompdf/docflow/internal/style"
)

type (
	// Document is the top level of a document file
	Document struct {
		Styles *style.Table `yaml:"styles"`
		Pages  []*PageSpec  `yaml:"pages"`
	}

	// PageSpec describes one page. Empty fields use the builder's page
	// defaults.
	PageSpec struct {
		Size        string         `yaml:"size"`
		Orientation string         `yaml:"orientation"`
		PageMargin  string         `yaml:"page_margin"`
		Attrs       map[string]any `yaml:"attrs"`
		Children    []*NodeSpec    `yaml:"children"`
	}

	// NodeSpec describes a node and its children. Explicit font, inset,
	// border and background values are applied after the node is styled and
	// win over the style table.
	NodeSpec struct {
		Tag              string          `yaml:"tag"`
		Style            string          `yaml:"style"`
		BlockOrientation string          `yaml:"block_orientation"`
		Weight           *float64        `yaml:"weight"`
		Text             *string         `yaml:"text"`
		Src              string          `yaml:"src"`
		Font             *style.FontRule `yaml:"font"`
		Margin           *Inset          `yaml:"margin"`
		Padding          *Inset          `yaml:"padding"`
		Border           string          `yaml:"border"`
		BorderTop        string          `yaml:"border_top"`
		BorderRight      string          `yaml:"border_right"`
		BorderBottom     string          `yaml:"border_bottom"`
		BorderLeft       string          `yaml:"border_left"`
		Background       string          `yaml:"background"`
		MinHeight        float64         `yaml:"min_height"`
		Attrs            map[string]any  `yaml:"attrs"`
		Children         []*NodeSpec     `yaml:"children"`
	}
)

// Inset is a margin or padding given either as a shorthand ("8", "4pt 8pt",
// "1 2 3 4") or as a mapping with top, right, bottom and left.
type Inset struct {
	geom.Margin
}

// UnmarshalYAML implements yaml.Unmarshaler
func (in *Inset) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		m, err := geom.ParseMargin(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		in.Margin = m
		return nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(value.Content); i += 2 {
			k, v := value.Content[i], value.Content[i+1]
			if v.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: inset %q must be a length", v.Line, k.Value)
			}
			l, err := geom.ParseLength(v.Value)
			if err != nil {
				return fmt.Errorf("line %d: %w", v.Line, err)
			}
			switch k.Value {
			case "top":
				in.Top = l
			case "right":
				in.Right = l
			case "bottom":
				in.Bottom = l
			case "left":
				in.Left = l
			default:
				return fmt.Errorf("line %d: unknown inset side %q", k.Line, k.Value)
			}
		}
		return nil
	}
	return fmt.Errorf("line %d: inset must be a shorthand or a mapping", value.Line)
}

// Decode reads a document. Unknown keys are rejected.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if doc.Styles != nil {
		// upper-cases the tag names
		doc.Styles = style.Merge(nil, doc.Styles)
	}
	return &doc, nil
}

// Load reads the document file at path
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Build adds the pages of d to b. Every node is styled with s first when s
// is not nil. A page that fails is left out and the remaining pages are
// still built; the failures are combined.
func (d *Document) Build(b *layout.Builder, s *style.Styler) error {
	var errs error
	for i, ps := range d.Pages {
		if err := b.Page(ps.attrs(), func(p *layout.PageBuilder) error {
			for j, ns := range ps.Children {
				if err := ns.build(&p.NodeBuilder, s); err != nil {
					return fmt.Errorf("children[%d]: %w", j, err)
				}
			}
			return nil
		}); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("pages[%d]: %w", i, err))
		}
	}
	return errs
}

func (ps *PageSpec) attrs() layout.Attrs {
	attrs := make(layout.Attrs, len(ps.Attrs)+3)
	for k, v := range ps.Attrs {
		attrs[k] = v
	}
	if ps.Size != "" {
		attrs["size"] = ps.Size
	}
	if ps.Orientation != "" {
		attrs["orientation"] = ps.Orientation
	}
	if ps.PageMargin != "" {
		attrs["page_margin"] = ps.PageMargin
	}
	return attrs
}

func (ns *NodeSpec) attrs() layout.Attrs {
	attrs := make(layout.Attrs, len(ns.Attrs)+4)
	for k, v := range ns.Attrs {
		attrs[k] = v
	}
	if ns.BlockOrientation != "" {
		attrs["block_orientation"] = ns.BlockOrientation
	}
	if ns.Weight != nil {
		attrs["weight"] = *ns.Weight
	}
	if ns.Text != nil {
		attrs["text"] = *ns.Text
	}
	if ns.Src != "" {
		attrs["src"] = ns.Src
	}
	return attrs
}

func (ns *NodeSpec) build(parent *layout.NodeBuilder, s *style.Styler) error {
	tag := ns.Tag
	if tag == "" {
		tag = "DIV"
	}
	return parent.Node(tag, ns.attrs(), func(n *layout.NodeBuilder) error {
		if s != nil {
			s.StyleNode(n, ns.Style)
		}
		if err := ns.apply(n); err != nil {
			return fmt.Errorf("%s: %w", n.Tag(), err)
		}
		for i, c := range ns.Children {
			if err := c.build(n, s); err != nil {
				return fmt.Errorf("%s.children[%d]: %w", n.Tag(), i, err)
			}
		}
		return nil
	})
}

// apply sets the explicit values of ns on n. Every border spec is tried.
func (ns *NodeSpec) apply(n *layout.NodeBuilder) error {
	if ns.Font != nil {
		font := n.Font().Clone()
		if font == nil {
			font = geom.DefaultFont()
		}
		ns.Font.Apply(font)
		n.SetFont(font)
	}
	if ns.Margin != nil {
		m := ns.Margin.Margin
		n.SetMargin(&m)
	}
	if ns.Padding != nil {
		p := ns.Padding.Margin
		n.SetPadding(&p)
	}
	var errs error
	if ns.Border != "" {
		errs = multierr.Append(errs, n.BorderAll(ns.Border))
	}
	for _, side := range []struct {
		spec string
		set  func(string) error
	}{
		{ns.BorderTop, n.BorderTop},
		{ns.BorderRight, n.BorderRight},
		{ns.BorderBottom, n.BorderBottom},
		{ns.BorderLeft, n.BorderLeft},
	} {
		if side.spec == "" {
			continue
		}
		errs = multierr.Append(errs, side.set(side.spec))
	}
	if errs != nil {
		return errs
	}
	if ns.Background != "" {
		n.BackgroundColor(ns.Background)
	}
	n.PushMinHeight(ns.MinHeight)
	return nil
}
