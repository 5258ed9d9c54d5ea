package layout

import (
	"fmt"

	"github.com/gompdf/docflow/internal/tree"
)

// PageBuilder is the root builder of one page. Its box is the paper and its
// padding is the page margin.
type PageBuilder struct {
	NodeBuilder

	orientation string
	size        string
	pageMargin  string
}

func newPageBuilder(doc *Builder, attrs Attrs) (*PageBuilder, error) {
	defaults := doc.opts.PageDefaults
	merged := Attrs{
		"orientation": defaults.Orientation,
		"size":        defaults.Size,
		"page_margin": defaults.PageMargin,
	}
	for k, v := range attrs {
		merged[k] = v
	}

	p := &PageBuilder{}
	var err error
	if p.orientation, err = stringAttr(merged, "orientation"); err != nil {
		return nil, err
	}
	if p.size, err = stringAttr(merged, "size"); err != nil {
		return nil, err
	}
	if p.pageMargin, err = stringAttr(merged, "page_margin"); err != nil {
		return nil, err
	}
	delete(merged, "orientation")
	delete(merged, "size")
	delete(merged, "page_margin")

	tag := "PAGE"
	if t, ok := merged["tag"].(string); ok && t != "" {
		tag = t
	}
	n, err := newNodeBuilder(doc, tag, merged)
	if err != nil {
		return nil, err
	}
	p.NodeBuilder = *n

	w, h, err := doc.opts.Paper.PaperSize(p.size, p.orientation)
	if err != nil {
		return nil, fmt.Errorf("page: %w", err)
	}
	margin, err := doc.opts.PageMargin(p.pageMargin)
	if err != nil {
		return nil, fmt.Errorf("page margin: %w", err)
	}
	p.box.Width, p.box.Height = w, h
	p.padding.SetAll(margin)
	p.widthSet = true
	return p, nil
}

func stringAttr(attrs Attrs, key string) (string, error) {
	s, ok := attrs[key].(string)
	if !ok {
		return "", fmt.Errorf("page: %w %q: unexpected %T", ErrInvalidAttribute, key, attrs[key])
	}
	return s, nil
}

// PageSize returns the paper size name
func (p *PageBuilder) PageSize() string { return p.size }

// PageOrientation returns the paper orientation
func (p *PageBuilder) PageOrientation() string { return p.orientation }

// PageMargin returns the page margin as given
func (p *PageBuilder) PageMargin() string { return p.pageMargin }

// ToPage flows the children top to bottom inside the page margins and
// returns the finished page.
func (p *PageBuilder) ToPage() (*tree.Page, error) {
	if err := p.flowVertical(); err != nil {
		return nil, err
	}
	p.flowed = true

	page := &tree.Page{
		Node:        *p.node(),
		Orientation: p.orientation,
		Size:        p.size,
		PageMargin:  p.pageMargin,
	}
	for _, c := range p.children {
		cn, err := c.ToNode()
		if err != nil {
			return nil, err
		}
		page.Children = append(page.Children, cn)
	}
	return page, nil
}
