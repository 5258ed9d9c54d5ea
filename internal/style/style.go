// Package style resolves the font, margin and padding a node gets from its
// tag. A Styler is built once from a user table merged over the built-in
// defaults and is then read-only, apart from its per-tag inset cache.
package style

import (
	"strings"

	"github.com/gompdf/docflow/internal/geom"
)

// Table maps upper-cased tag names to style rules
type Table struct {
	Fonts []FontFamily     `yaml:"fonts"`
	Tags  map[string]*Rule `yaml:"tags"`
}

// Rule is the style of one tag. Nil fields are unset.
type Rule struct {
	Font    *FontRule  `yaml:"font"`
	Margin  *InsetRule `yaml:"margin"`
	Padding *InsetRule `yaml:"padding"`
}

// FontRule overlays the set fields onto a font
type FontRule struct {
	Family     *string  `yaml:"family"`
	Size       *float64 `yaml:"size"`
	Weight     *string  `yaml:"weight"`
	Style      *string  `yaml:"style"`
	Color      *string  `yaml:"color"`
	Align      *string  `yaml:"align"`
	LineHeight *float64 `yaml:"line_height"`
}

// InsetRule overlays the set sides onto a zero inset
type InsetRule struct {
	Top    *float64 `yaml:"top"`
	Right  *float64 `yaml:"right"`
	Bottom *float64 `yaml:"bottom"`
	Left   *float64 `yaml:"left"`
}

// FontFamily describes font files a renderer can embed under Name
type FontFamily struct {
	Name       string `yaml:"name"`
	Default    bool   `yaml:"default"`
	Regular    string `yaml:"regular"`
	Bold       string `yaml:"bold"`
	Italic     string `yaml:"italic"`
	BoldItalic string `yaml:"bold_italic"`
}

func ptr[T any](v T) *T { return &v }

// Defaults returns a new copy of the built-in table
func Defaults() *Table {
	footer := func(align string) *Rule {
		r := &Rule{Font: &FontRule{Size: ptr(10.0)}}
		if align != "" {
			r.Font.Align = ptr(align)
		}
		return r
	}
	heading := func(size float64) *Rule {
		return &Rule{
			Font:   &FontRule{Size: ptr(size)},
			Margin: &InsetRule{Bottom: ptr(6.0)},
		}
	}
	list := func() *Rule {
		return &Rule{Margin: &InsetRule{Bottom: ptr(12.0), Left: ptr(20.0)}}
	}
	return &Table{
		Tags: map[string]*Rule{
			"FOOTER_LEFT":   footer(""),
			"FOOTER_CENTER": footer("center"),
			"FOOTER_RIGHT":  footer("right"),
			"H1":            heading(24),
			"H2":            heading(20),
			"H3":            heading(18),
			"P": {
				Font:   &FontRule{Size: ptr(12.0)},
				Margin: &InsetRule{Bottom: ptr(12.0)},
			},
			"UL": list(),
			"OL": list(),
			"LI": {Font: &FontRule{Size: ptr(12.0), LineHeight: ptr(24.0)}},
		},
	}
}

// Merge deep merges over onto base and returns a new table. For each tag
// only the keys over sets replace those of base. Neither argument is
// modified and the result shares no pointers with them.
func Merge(base, over *Table) *Table {
	out := &Table{Tags: make(map[string]*Rule)}
	for _, t := range []*Table{base, over} {
		if t == nil {
			continue
		}
		out.Fonts = append(out.Fonts, t.Fonts...)
		for tag, r := range t.Tags {
			key := strings.ToUpper(tag)
			out.Tags[key] = out.Tags[key].merge(r)
		}
	}
	return out
}

func (r *Rule) merge(over *Rule) *Rule {
	out := &Rule{}
	if r != nil {
		out.Font = r.Font.merge(nil)
		out.Margin = r.Margin.merge(nil)
		out.Padding = r.Padding.merge(nil)
	}
	if over != nil {
		out.Font = out.Font.merge(over.Font)
		out.Margin = out.Margin.merge(over.Margin)
		out.Padding = out.Padding.merge(over.Padding)
	}
	return out
}

func pick[T any](base, over *T) *T {
	if over != nil {
		return ptr(*over)
	}
	if base != nil {
		return ptr(*base)
	}
	return nil
}

func (f *FontRule) merge(over *FontRule) *FontRule {
	if f == nil && over == nil {
		return nil
	}
	if f == nil {
		f = &FontRule{}
	}
	if over == nil {
		over = &FontRule{}
	}
	return &FontRule{
		Family:     pick(f.Family, over.Family),
		Size:       pick(f.Size, over.Size),
		Weight:     pick(f.Weight, over.Weight),
		Style:      pick(f.Style, over.Style),
		Color:      pick(f.Color, over.Color),
		Align:      pick(f.Align, over.Align),
		LineHeight: pick(f.LineHeight, over.LineHeight),
	}
}

func (i *InsetRule) merge(over *InsetRule) *InsetRule {
	if i == nil && over == nil {
		return nil
	}
	if i == nil {
		i = &InsetRule{}
	}
	if over == nil {
		over = &InsetRule{}
	}
	return &InsetRule{
		Top:    pick(i.Top, over.Top),
		Right:  pick(i.Right, over.Right),
		Bottom: pick(i.Bottom, over.Bottom),
		Left:   pick(i.Left, over.Left),
	}
}

// Apply overlays the set fields onto f
func (f *FontRule) Apply(font *geom.Font) {
	if f == nil {
		return
	}
	if f.Family != nil {
		font.Family = *f.Family
	}
	if f.Size != nil {
		font.Size = *f.Size
	}
	if f.Weight != nil {
		font.Weight = *f.Weight
	}
	if f.Style != nil {
		font.Style = *f.Style
	}
	if f.Color != nil {
		font.Color = *f.Color
	}
	if f.Align != nil {
		font.Align = *f.Align
	}
	if f.LineHeight != nil {
		font.LineHeight = *f.LineHeight
	}
}

// Margin returns the inset with the set sides, others zero
func (i *InsetRule) Margin() geom.Margin {
	var m geom.Margin
	i.ApplyTo(&m)
	return m
}

// ApplyTo overlays the set sides onto m
func (i *InsetRule) ApplyTo(m *geom.Margin) {
	if i == nil {
		return
	}
	if i.Top != nil {
		m.Top = *i.Top
	}
	if i.Right != nil {
		m.Right = *i.Right
	}
	if i.Bottom != nil {
		m.Bottom = *i.Bottom
	}
	if i.Left != nil {
		m.Left = *i.Left
	}
}
