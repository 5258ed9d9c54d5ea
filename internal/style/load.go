package style

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gompdf/docflow/internal/geom"
	"github.com/gompdf/docflow/internal/parser/css"
)

// LoadYAML reads a style table:
//
//	fonts:
//	  - name: Lato
//	    default: true
//	    regular: fonts/Lato-Regular.ttf
//	tags:
//	  h1:
//	    font: {size: 28}
//	    margin: {bottom: 8}
//
// Unknown keys are rejected. Tag names are upper-cased.
func LoadYAML(r io.Reader) (*Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var t Table
	if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unable to decode style table: %w", err)
	}
	return normalize(&t), nil
}

func normalize(t *Table) *Table {
	tags := make(map[string]*Rule, len(t.Tags))
	for tag, r := range t.Tags {
		key := strings.ToUpper(strings.TrimSpace(tag))
		tags[key] = tags[key].merge(r)
	}
	t.Tags = tags
	return t
}

var tagSelector = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// ParseCSS reads a style table from a stylesheet. Only plain tag selectors
// are used; others are logged and skipped, as are unsupported properties.
// Malformed values are errors.
func ParseCSS(r io.Reader, log *zap.Logger) (*Table, error) {
	if log == nil {
		log = zap.NewNop()
	}
	sheet, err := css.NewParser(log).Parse(r)
	if err != nil {
		return nil, err
	}

	t := &Table{Tags: make(map[string]*Rule)}
	var errs error
	for _, rule := range sheet.Rules {
		parsed, err := RuleFromDeclarations(rule.Declarations, log)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", strings.Join(rule.Selectors, ", "), err))
			continue
		}
		for _, sel := range rule.Selectors {
			if !tagSelector.MatchString(sel) {
				log.Warn("Unsupported selector skipped", zap.String("selector", sel))
				continue
			}
			key := strings.ToUpper(sel)
			t.Tags[key] = t.Tags[key].merge(parsed)
		}
	}
	if errs != nil {
		return nil, errs
	}
	return t, nil
}

// RuleFromDeclarations converts the supported declarations to a rule.
// Declarations marked !important win over later ones for the same property.
func RuleFromDeclarations(decls []*css.Declaration, log *zap.Logger) (*Rule, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Rule{}
	font := func() *FontRule {
		if r.Font == nil {
			r.Font = &FontRule{}
		}
		return r.Font
	}
	margin := func() *InsetRule {
		if r.Margin == nil {
			r.Margin = &InsetRule{}
		}
		return r.Margin
	}
	padding := func() *InsetRule {
		if r.Padding == nil {
			r.Padding = &InsetRule{}
		}
		return r.Padding
	}

	important := make(map[string]bool)
	var errs error
	for _, d := range decls {
		if important[d.Property] && !d.Important {
			continue
		}
		if d.Important {
			important[d.Property] = true
		}

		var err error
		switch d.Property {
		case "font-size":
			font().Size, err = lengthPtr(d.Value)
		case "line-height":
			font().LineHeight, err = lengthPtr(d.Value)
		case "font-family":
			font().Family = ptr(firstFamily(d.Value))
		case "font-weight":
			font().Weight = ptr(strings.ToLower(d.Value))
		case "font-style":
			font().Style = ptr(strings.ToLower(d.Value))
		case "text-align":
			font().Align = ptr(strings.ToLower(d.Value))
		case "color":
			var c geom.RGBA
			if c, err = geom.ParseColor(d.Value); err == nil {
				font().Color = ptr(c.Hex())
			}
		case "margin":
			err = setShorthand(margin(), d.Value)
		case "padding":
			err = setShorthand(padding(), d.Value)
		case "margin-top":
			margin().Top, err = lengthPtr(d.Value)
		case "margin-right":
			margin().Right, err = lengthPtr(d.Value)
		case "margin-bottom":
			margin().Bottom, err = lengthPtr(d.Value)
		case "margin-left":
			margin().Left, err = lengthPtr(d.Value)
		case "padding-top":
			padding().Top, err = lengthPtr(d.Value)
		case "padding-right":
			padding().Right, err = lengthPtr(d.Value)
		case "padding-bottom":
			padding().Bottom, err = lengthPtr(d.Value)
		case "padding-left":
			padding().Left, err = lengthPtr(d.Value)
		default:
			log.Debug("Unsupported property skipped", zap.String("property", d.Property))
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", d.Property, err))
		}
	}
	return r, errs
}

func lengthPtr(s string) (*float64, error) {
	v, err := geom.ParseLength(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func setShorthand(in *InsetRule, s string) error {
	m, err := geom.ParseMargin(s)
	if err != nil {
		return err
	}
	in.Top, in.Right, in.Bottom, in.Left = ptr(m.Top), ptr(m.Right), ptr(m.Bottom), ptr(m.Left)
	return nil
}

func firstFamily(s string) string {
	first, _, _ := strings.Cut(s, ",")
	return strings.Trim(strings.TrimSpace(first), `"'`)
}
