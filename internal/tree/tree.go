// Package tree holds the finalized document: pages of positioned nodes plus
// the image registry. Values in this package are produced by the layout
// builders and must not be modified after assembly.
package tree

import (
	"github.com/gompdf/docflow/internal/geom"
)

// Block orientations
const (
	Vertical   = "vertical"
	Horizontal = "horizontal"
)

// Node is a positioned element of a page
type Node struct {
	Tag              string           `json:"tag"`
	BlockOrientation string           `json:"block_orientation,omitempty"`
	Weight           float64          `json:"weight"`
	Box              geom.Box         `json:"box"`
	Margin           geom.Margin      `json:"margin"`
	Padding          geom.Margin      `json:"padding"`
	Border           *geom.Border     `json:"border,omitempty"`
	Background       *geom.Background `json:"background,omitempty"`
	Font             *geom.Font       `json:"font,omitempty"`
	Text             *string          `json:"text,omitempty"`
	Src              string           `json:"src,omitempty"`
	Hash             string           `json:"hash,omitempty"`
	Attrs            map[string]any   `json:"attrs,omitempty"`
	Children         []*Node          `json:"children,omitempty"`
}

// Page is the root node of one page
type Page struct {
	Node
	Orientation string `json:"orientation"`
	Size        string `json:"size"`
	PageMargin  string `json:"page_margin"`
}

// Document is the result of layout
type Document struct {
	Pages  []*Page                  `json:"pages"`
	Images map[string]geom.ImageRef `json:"images"`
}

// HasText reports whether the node carries text
func (n *Node) HasText() bool {
	return n.Text != nil
}

// Walk visits n and its descendants depth first in document order. Returning
// false from fn skips the children of that node.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Walk visits every node of every page in order. Page roots are reported at
// depth 0.
func (d *Document) Walk(fn func(page int, n *Node, depth int) bool) {
	for i, p := range d.Pages {
		p.Node.Walk(func(n *Node, depth int) bool {
			return fn(i, n, depth)
		})
	}
}
