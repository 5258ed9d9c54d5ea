package layout

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/gompdf/docflow/internal/geom"
	"github.com/gompdf/docflow/internal/metrics"
	"github.com/gompdf/docflow/internal/tree"
)

// Orientation is the direction children of a node are laid out in
type Orientation string

// Orientations
const (
	Vertical   Orientation = tree.Vertical
	Horizontal Orientation = tree.Horizontal
)

// Attrs are the raw attributes of a node. The keys tag, block_orientation,
// weight, src and text are interpreted, the rest is carried into the
// finished node unchanged.
type Attrs map[string]any

// NodeBuilder is a node under construction. Builders form a tree that is
// flowed once the content is complete and then converted into tree.Node
// values.
type NodeBuilder struct {
	doc *Builder

	tag         string
	orientation Orientation
	weight      float64
	minHeight   float64
	margin      *geom.Margin
	padding     *geom.Margin
	box         geom.Box
	widthSet    bool
	flowed      bool
	attached    bool

	border     *geom.Border
	background *geom.Background
	font       *geom.Font
	text       *string
	src        string
	hash       string
	attrs      Attrs

	children []*NodeBuilder
}

func newNodeBuilder(doc *Builder, tag string, attrs Attrs) (*NodeBuilder, error) {
	n := &NodeBuilder{
		doc:         doc,
		tag:         strings.ToUpper(tag),
		orientation: Vertical,
		weight:      1,
		margin:      &geom.Margin{},
		padding:     &geom.Margin{},
	}
	if n.tag == "" {
		if t, ok := attrs["tag"].(string); ok {
			n.tag = strings.ToUpper(t)
		}
	}
	if n.tag == "" {
		return nil, fmt.Errorf("node: %w", tree.ErrInvalidTag)
	}

	var src string
	for k, v := range attrs {
		switch k {
		case "tag":
		case "block_orientation":
			o, err := orientationAttr(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", n.tag, err)
			}
			n.orientation = o
		case "weight":
			w, ok := number(v)
			if !ok {
				return nil, invalidAttribute(n.tag, k, v)
			}
			if err := checkWeight(n.tag, w); err != nil {
				return nil, err
			}
			n.weight = w
		case "text":
			s, ok := v.(string)
			if !ok {
				return nil, invalidAttribute(n.tag, k, v)
			}
			n.text = &s
		case "src":
			s, ok := v.(string)
			if !ok {
				return nil, invalidAttribute(n.tag, k, v)
			}
			src = s
		default:
			if n.attrs == nil {
				n.attrs = make(Attrs)
			}
			n.attrs[k] = v
		}
	}
	if src != "" {
		n.ImageSrc(src)
	}
	return n, nil
}

func orientationAttr(v any) (Orientation, error) {
	var s string
	switch o := v.(type) {
	case Orientation:
		s = string(o)
	case string:
		s = o
	default:
		return "", fmt.Errorf("%w %q: unexpected %T", ErrInvalidAttribute, "block_orientation", v)
	}
	switch Orientation(strings.ToLower(s)) {
	case Vertical:
		return Vertical, nil
	case Horizontal:
		return Horizontal, nil
	}
	return "", fmt.Errorf("%w %q: unknown orientation %q", ErrInvalidAttribute, "block_orientation", s)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// Tag returns the upper-cased tag
func (n *NodeBuilder) Tag() string { return n.tag }

// Orientation returns the direction children are laid out in
func (n *NodeBuilder) Orientation() Orientation { return n.orientation }

// SetOrientation sets the direction children are laid out in
func (n *NodeBuilder) SetOrientation(o Orientation) { n.orientation = o }

// Weight returns the share of a horizontal parent's width this node takes
func (n *NodeBuilder) Weight() float64 { return n.weight }

// SetWeight sets the weight. It must be a finite number >= 0.
func (n *NodeBuilder) SetWeight(w float64) error {
	if err := checkWeight(n.tag, w); err != nil {
		return err
	}
	n.weight = w
	return nil
}

func checkWeight(tag string, w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return fmt.Errorf("%s: %w %q: %g is not a finite number >= 0", tag, ErrInvalidAttribute, "weight", w)
	}
	return nil
}

// MinHeight returns the minimum content height accumulated so far
func (n *NodeBuilder) MinHeight() float64 { return n.minHeight }

// Box returns the box computed by the last flow
func (n *NodeBuilder) Box() geom.Box { return n.box }

func (n *NodeBuilder) Children() []*NodeBuilder { return n.children }

func (n *NodeBuilder) Border() *geom.Border { return n.border }

// SetBorder replaces the border
func (n *NodeBuilder) SetBorder(b *geom.Border) { n.border = b }

func (n *NodeBuilder) Background() *geom.Background { return n.background }

// SetBackground replaces the background
func (n *NodeBuilder) SetBackground(b *geom.Background) { n.background = b }

func (n *NodeBuilder) Font() *geom.Font { return n.font }

// PushMinHeight raises the minimum content height to h. It never lowers it.
func (n *NodeBuilder) PushMinHeight(h float64) {
	if h > n.minHeight {
		n.minHeight = h
	}
}

// Margin returns the margin. It may be shared with other nodes of the same
// tag when the node was styled.
func (n *NodeBuilder) Margin() *geom.Margin { return n.margin }

// SetMargin assigns m without copying it. nil resets to a zero margin.
func (n *NodeBuilder) SetMargin(m *geom.Margin) {
	if m == nil {
		m = &geom.Margin{}
	}
	n.margin = m
}

// Padding returns the padding, shared like Margin
func (n *NodeBuilder) Padding() *geom.Margin { return n.padding }

// SetPadding assigns p without copying it. nil resets to a zero padding.
func (n *NodeBuilder) SetPadding(p *geom.Margin) {
	if p == nil {
		p = &geom.Margin{}
	}
	n.padding = p
}

// SetFont sets the font, replacing any font already set
func (n *NodeBuilder) SetFont(f *geom.Font) { n.font = f }

// DefaultFont sets f only if the node has no font yet
func (n *NodeBuilder) DefaultFont(f *geom.Font) {
	if n.font == nil {
		n.font = f
	}
}

// Text returns the text and whether it is set
func (n *NodeBuilder) Text() (string, bool) {
	if n.text == nil {
		return "", false
	}
	return *n.text, true
}

// SetText sets the text content
func (n *NodeBuilder) SetText(s string) { n.text = &s }

// BorderAll sets all four sides from a shorthand like "1px solid #aaaaaaff"
func (n *NodeBuilder) BorderAll(spec string) error {
	side, err := geom.ParseBorderSide(spec)
	if err != nil {
		return err
	}
	n.border = geom.UniformBorder(side)
	return nil
}

func (n *NodeBuilder) borderSide(spec string, set func(b *geom.Border, s *geom.BorderSide)) error {
	side, err := geom.ParseBorderSide(spec)
	if err != nil {
		return err
	}
	if n.border == nil {
		n.border = &geom.Border{}
	}
	set(n.border, &side)
	return nil
}

// BorderTop sets the top side, creating the border if needed
func (n *NodeBuilder) BorderTop(spec string) error {
	return n.borderSide(spec, func(b *geom.Border, s *geom.BorderSide) { b.Top = s })
}

// BorderRight sets the right side, creating the border if needed
func (n *NodeBuilder) BorderRight(spec string) error {
	return n.borderSide(spec, func(b *geom.Border, s *geom.BorderSide) { b.Right = s })
}

// BorderBottom sets the bottom side, creating the border if needed
func (n *NodeBuilder) BorderBottom(spec string) error {
	return n.borderSide(spec, func(b *geom.Border, s *geom.BorderSide) { b.Bottom = s })
}

// BorderLeft sets the left side, creating the border if needed
func (n *NodeBuilder) BorderLeft(spec string) error {
	return n.borderSide(spec, func(b *geom.Border, s *geom.BorderSide) { b.Left = s })
}

// BackgroundColor sets the background color, creating the background if needed
func (n *NodeBuilder) BackgroundColor(c string) {
	if n.background == nil {
		n.background = &geom.Background{}
	}
	n.background.Color = c
}

// ImageSrc makes the node reference the image at src. The image is
// registered with the document once the node is part of an added page.
func (n *NodeBuilder) ImageSrc(src string) {
	ref := geom.NewImageRef(src)
	n.src = src
	n.hash = ref.Hash
	if n.attached {
		n.doc.AddImage(ref.Src, ref.Hash)
	}
}

// attach marks the subtree as part of the document and registers its
// images.
func (n *NodeBuilder) attach() {
	n.attached = true
	if n.src != "" {
		n.doc.AddImage(n.src, n.hash)
	}
	for _, c := range n.children {
		c.attach()
	}
}

// Src returns the image source and its hash, empty for non-image nodes
func (n *NodeBuilder) Src() (src, hash string) { return n.src, n.hash }

// Node appends a child with tag. configure, if not nil, is run on the child
// before it is appended; its error is returned and the child is dropped.
func (n *NodeBuilder) Node(tag string, attrs Attrs, configure func(*NodeBuilder) error) error {
	child, err := newNodeBuilder(n.doc, tag, attrs)
	if err != nil {
		return err
	}
	if configure != nil {
		if err := configure(child); err != nil {
			return err
		}
	}
	n.children = append(n.children, child)
	if n.attached {
		child.attach()
	}
	return nil
}

// Div appends a vertical DIV
func (n *NodeBuilder) Div(attrs Attrs, configure func(*NodeBuilder) error) error {
	return n.Node("DIV", withOrientation(attrs, Vertical), configure)
}

// HorizontalDiv appends a horizontal DIV
func (n *NodeBuilder) HorizontalDiv(attrs Attrs, configure func(*NodeBuilder) error) error {
	return n.Node("DIV", withOrientation(attrs, Horizontal), configure)
}

// Image appends an IMG referencing src. A src key in attrs is ignored.
func (n *NodeBuilder) Image(src string, attrs Attrs, configure func(*NodeBuilder) error) error {
	if _, ok := attrs["src"]; ok {
		rest := make(Attrs, len(attrs))
		for k, v := range attrs {
			if k != "src" {
				rest[k] = v
			}
		}
		attrs = rest
	}
	return n.Node("IMG", attrs, func(img *NodeBuilder) error {
		img.ImageSrc(src)
		if configure != nil {
			return configure(img)
		}
		return nil
	})
}

func withOrientation(attrs Attrs, o Orientation) Attrs {
	out := make(Attrs, len(attrs)+1)
	for k, v := range attrs {
		out[k] = v
	}
	out["block_orientation"] = o
	return out
}

// ChildWidth returns the content width available to children. It fails
// until the node's own width has been assigned by flow.
func (n *NodeBuilder) ChildWidth() (float64, error) {
	if !n.widthSet {
		return 0, flowOrder(n.tag, "width read before it was assigned")
	}
	return n.box.Width - n.padding.Left - n.padding.Right, nil
}

// Flow positions the node at (x, y) relative to its parent's origin with
// the outer width w, lays out the children and returns the outer height
// consumed including margins.
func (n *NodeBuilder) Flow(x, y, w float64) (float64, error) {
	n.box.X = x + n.margin.Left
	n.box.Y = y + n.margin.Top
	n.box.Width = w - n.margin.Left - n.margin.Right
	n.widthSet = true

	var err error
	if n.orientation == Horizontal {
		err = n.flowHorizontal()
	} else {
		err = n.flowVertical()
	}
	if err != nil {
		return 0, err
	}

	if n.text != nil && n.font != nil {
		if err := n.flowText(); err != nil {
			return 0, err
		}
	}
	n.box.Height = n.minHeight + n.padding.Top + n.padding.Bottom
	n.flowed = true

	if ce := n.doc.log.Check(zap.DebugLevel, "Flowed node"); ce != nil {
		ce.Write(zap.String("tag", n.tag),
			zap.Float64("x", n.box.X), zap.Float64("y", n.box.Y),
			zap.Float64("width", n.box.Width), zap.Float64("height", n.box.Height))
	}
	return n.box.Height + n.margin.Top + n.margin.Bottom, nil
}

func (n *NodeBuilder) flowVertical() error {
	width, err := n.ChildWidth()
	if err != nil {
		return err
	}
	x := n.padding.Left
	yTop := n.padding.Top
	y := yTop
	for _, c := range n.children {
		dy, err := c.Flow(x, y, width)
		if err != nil {
			return err
		}
		y += dy
	}
	n.PushMinHeight(y - yTop)
	return nil
}

func (n *NodeBuilder) totalChildWeight() float64 {
	total := 0.0
	for _, c := range n.children {
		total += c.weight
	}
	return total
}

func (n *NodeBuilder) flowHorizontal() error {
	total := n.totalChildWeight()
	if !(total > 0) || math.IsInf(total, 0) {
		return divisionHazard(n.tag, "total child weight is %g", total)
	}
	width, err := n.ChildWidth()
	if err != nil {
		return err
	}
	x := n.padding.Left
	y := n.padding.Top
	for _, c := range n.children {
		w := math.Round(c.weight / total * width)
		dy, err := c.Flow(x, y, w)
		if err != nil {
			return err
		}
		x += w
		n.PushMinHeight(dy)
	}
	return nil
}

func (n *NodeBuilder) flowText() error {
	if *n.text == "" {
		return nil
	}
	width, err := n.ChildWidth()
	if err != nil {
		return err
	}
	if width <= 0 {
		return divisionHazard(n.tag, "text in a node with content width %g", width)
	}
	lines := metrics.LineCount(n.doc.opts.Metrics, *n.text, n.font, width)
	n.PushMinHeight(n.font.EffectiveLineHeight() * float64(lines))
	return nil
}

// ToNode converts the flowed builder and its children into a tree.Node
func (n *NodeBuilder) ToNode() (*tree.Node, error) {
	if !n.flowed {
		return nil, flowOrder(n.tag, "converted before flow")
	}
	node := n.node()
	for _, c := range n.children {
		cn, err := c.ToNode()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, cn)
	}
	return node, nil
}

// node returns the node without children
func (n *NodeBuilder) node() *tree.Node {
	node := &tree.Node{
		Tag:     n.tag,
		Weight:  n.weight,
		Box:     n.box,
		Margin:  *n.margin,
		Padding: *n.padding,
		Border:  n.border.Clone(),
		Font:    n.font.Clone(),
		Src:     n.src,
		Hash:    n.hash,
	}
	if n.orientation != Vertical {
		node.BlockOrientation = string(n.orientation)
	}
	if n.text != nil {
		t := *n.text
		node.Text = &t
	}
	if n.background != nil {
		bg := *n.background
		node.Background = &bg
	}
	if len(n.attrs) > 0 {
		node.Attrs = make(map[string]any, len(n.attrs))
		for k, v := range n.attrs {
			node.Attrs[k] = v
		}
	}
	return node
}
