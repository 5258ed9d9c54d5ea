// Package layout builds documents: a tree of node builders is styled, then
// flowed into positioned boxes and converted into a tree.Document.
//
// Flow assigns every node a box relative to its parent's origin. Vertical
// nodes stack their children, horizontal nodes split their content width
// among children by weight. The height of text is estimated from the
// configured metrics.
package layout

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gompdf/docflow/internal/geom"
	"github.com/gompdf/docflow/internal/tree"
)

// Builder assembles the pages of a document and registers the images they
// reference.
type Builder struct {
	opts Options
	log  *zap.Logger

	pages  []*PageBuilder
	images map[string]geom.ImageRef
}

// NewBuilder creates a document builder
func NewBuilder(opts ...Option) *Builder {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Builder{
		opts:   o,
		log:    o.Logger.Named("layout"),
		images: make(map[string]geom.ImageRef),
	}
}

// Page adds a page. attrs override the page defaults (orientation, size,
// page_margin). configure fills the page; if it fails the page is not added.
func (b *Builder) Page(attrs Attrs, configure func(*PageBuilder) error) error {
	p, err := newPageBuilder(b, attrs)
	if err != nil {
		return err
	}
	if configure != nil {
		if err := configure(p); err != nil {
			return err
		}
	}
	b.pages = append(b.pages, p)
	p.attach()
	b.log.Debug("Added page",
		zap.Int("page", len(b.pages)),
		zap.String("size", p.size),
		zap.String("orientation", p.orientation),
		zap.Float64("width", p.box.Width),
		zap.Float64("height", p.box.Height))
	return nil
}

// Pages returns the page builders added so far
func (b *Builder) Pages() []*PageBuilder { return b.pages }

// AddImage registers src under hash. A hash already present is kept.
func (b *Builder) AddImage(src, hash string) {
	if _, ok := b.images[hash]; ok {
		return
	}
	b.images[hash] = geom.ImageRef{Src: src, Hash: hash}
}

// Images returns a copy of the image registry
func (b *Builder) Images() map[string]geom.ImageRef {
	out := make(map[string]geom.ImageRef, len(b.images))
	for k, v := range b.images {
		out[k] = v
	}
	return out
}

// ToDoc lays out every page in order and returns the document
func (b *Builder) ToDoc() (*tree.Document, error) {
	doc := &tree.Document{
		Pages:  make([]*tree.Page, 0, len(b.pages)),
		Images: b.Images(),
	}
	for i, p := range b.pages {
		page, err := p.ToPage()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		doc.Pages = append(doc.Pages, page)
	}
	b.log.Debug("Document laid out", zap.Int("pages", len(doc.Pages)), zap.Int("images", len(doc.Images)))
	return doc, nil
}
