package tree

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/gompdf/docflow/internal/geom"
)

// ErrInvalidTag is returned for nodes without a usable tag
var ErrInvalidTag = errors.New("invalid tag")

var nodeKeys = map[string]bool{
	"tag":               true,
	"block_orientation": true,
	"weight":            true,
	"box":               true,
	"margin":            true,
	"padding":           true,
	"border":            true,
	"background":        true,
	"font":              true,
	"text":              true,
	"src":               true,
	"hash":              true,
	"attrs":             true,
	"children":          true,
}

var pageKeys = map[string]bool{
	"orientation": true,
	"size":        true,
	"page_margin": true,
}

// nodeFields mirrors Node without the recursive and passthrough parts
type nodeFields struct {
	Tag              string           `json:"tag"`
	BlockOrientation string           `json:"block_orientation"`
	Weight           *float64         `json:"weight"`
	Box              geom.Box         `json:"box"`
	Margin           geom.Margin      `json:"margin"`
	Padding          geom.Margin      `json:"padding"`
	Border           *geom.Border     `json:"border"`
	Background       *geom.Background `json:"background"`
	Font             *geom.Font       `json:"font"`
	Text             *string          `json:"text"`
	Src              string           `json:"src"`
	Hash             string           `json:"hash"`
	Attrs            map[string]any   `json:"attrs"`
}

// NodeFromRaw builds a node from a raw attribute mapping such as the result
// of decoding JSON into map[string]any. The tag is required and upper-cased.
// Keys the node does not know are kept in Attrs.
func NodeFromRaw(raw map[string]any) (*Node, error) {
	return nodeFromRaw(raw, "node", nil)
}

func nodeFromRaw(raw map[string]any, path string, extraKeys map[string]bool) (*Node, error) {
	tag, _ := raw["tag"].(string)
	tag = strings.ToUpper(strings.TrimSpace(tag))
	if tag == "" {
		return nil, fmt.Errorf("%s: %w: tag must be a non-empty string", path, ErrInvalidTag)
	}

	var f nodeFields
	known := make(map[string]any, len(raw))
	for k, v := range raw {
		if nodeKeys[k] && k != "children" {
			known[k] = v
		}
	}
	data, err := json.Marshal(known)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to encode attributes: %w", path, err)
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%s (%s): failed to decode attributes: %w", path, tag, err)
	}

	n := &Node{
		Tag:              tag,
		BlockOrientation: f.BlockOrientation,
		Weight:           1,
		Box:              f.Box,
		Margin:           f.Margin,
		Padding:          f.Padding,
		Border:           f.Border,
		Background:       f.Background,
		Font:             f.Font,
		Text:             f.Text,
		Src:              f.Src,
		Hash:             f.Hash,
		Attrs:            f.Attrs,
	}
	if f.Weight != nil {
		if *f.Weight < 0 {
			return nil, fmt.Errorf("%s (%s): weight %g is negative", path, tag, *f.Weight)
		}
		n.Weight = *f.Weight
	}
	switch n.BlockOrientation {
	case "", Vertical, Horizontal:
	default:
		return nil, fmt.Errorf("%s (%s): invalid block_orientation %q", path, tag, n.BlockOrientation)
	}

	for k, v := range raw {
		if nodeKeys[k] || extraKeys[k] {
			continue
		}
		if n.Attrs == nil {
			n.Attrs = make(map[string]any)
		}
		n.Attrs[k] = v
	}

	var errs error
	if rc, ok := raw["children"]; ok && rc != nil {
		list, ok := rc.([]any)
		if !ok {
			return nil, fmt.Errorf("%s (%s): children must be a list", path, tag)
		}
		n.Children = make([]*Node, 0, len(list))
		for i, item := range list {
			childPath := fmt.Sprintf("%s.children[%d]", path, i)
			m, ok := item.(map[string]any)
			if !ok {
				errs = multierr.Append(errs, fmt.Errorf("%s: expected a mapping, got %T", childPath, item))
				continue
			}
			c, err := nodeFromRaw(m, childPath, nil)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			n.Children = append(n.Children, c)
		}
	}
	if errs != nil {
		return nil, errs
	}
	return n, nil
}

// PageFromRaw builds a page from a raw attribute mapping
func PageFromRaw(raw map[string]any) (*Page, error) {
	return pageFromRaw(raw, "page")
}

func pageFromRaw(raw map[string]any, path string) (*Page, error) {
	n, err := nodeFromRaw(raw, path, pageKeys)
	if err != nil {
		return nil, err
	}
	p := &Page{Node: *n}
	p.Orientation, _ = raw["orientation"].(string)
	p.Size, _ = raw["size"].(string)
	p.PageMargin, _ = raw["page_margin"].(string)
	return p, nil
}

// DocumentFromRaw builds a document from {pages: [...], images: {...}}
func DocumentFromRaw(raw map[string]any) (*Document, error) {
	doc := &Document{Images: make(map[string]geom.ImageRef)}

	var errs error
	if rp, ok := raw["pages"].([]any); ok {
		for i, item := range rp {
			path := fmt.Sprintf("pages[%d]", i)
			m, ok := item.(map[string]any)
			if !ok {
				errs = multierr.Append(errs, fmt.Errorf("%s: expected a mapping, got %T", path, item))
				continue
			}
			p, err := pageFromRaw(m, path)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			doc.Pages = append(doc.Pages, p)
		}
	}
	if ri, ok := raw["images"].(map[string]any); ok {
		for hash, v := range ri {
			m, ok := v.(map[string]any)
			if !ok {
				errs = multierr.Append(errs, fmt.Errorf("images[%s]: expected a mapping, got %T", hash, v))
				continue
			}
			src, _ := m["src"].(string)
			doc.Images[hash] = geom.ImageRef{Src: src, Hash: hash}
		}
	}
	if errs != nil {
		return nil, errs
	}
	return doc, nil
}

// ToRaw converts the document to plain maps and slices, the inverse of
// DocumentFromRaw.
func (d *Document) ToRaw() (map[string]any, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return raw, nil
}
