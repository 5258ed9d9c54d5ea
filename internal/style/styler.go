package style

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gompdf/docflow/internal/geom"
)

// Target is a node under construction that can be styled
type Target interface {
	Tag() string
	DefaultFont(font *geom.Font)
	SetMargin(m *geom.Margin)
	SetPadding(p *geom.Margin)
}

// FontRegistrar receives the font families of a style table, typically to
// embed them into a renderer.
type FontRegistrar interface {
	RegisterFamily(family FontFamily) error
}

// Option configures a Styler
type Option func(*Styler)

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(s *Styler) {
		if log != nil {
			s.log = log
		}
	}
}

type insets struct {
	margin  *geom.Margin
	padding *geom.Margin
}

// Styler applies a resolved style table to nodes
type Styler struct {
	log      *zap.Logger
	table    *Table
	fallback *FontRule

	mu    sync.Mutex
	cache map[string]*insets
}

// New creates a Styler for user merged over the built-in defaults. A nil
// user table yields the defaults.
func New(user *Table, opts ...Option) (*Styler, error) {
	s := &Styler{
		log:   zap.NewNop(),
		cache: make(map[string]*insets),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("styler")

	for i, f := range userFonts(user) {
		if strings.TrimSpace(f.Name) == "" {
			return nil, fmt.Errorf("font family %d has no name", i)
		}
	}

	s.table = Merge(Defaults(), user)
	s.propagateDefaultFamily()
	return s, nil
}

func userFonts(t *Table) []FontFamily {
	if t == nil {
		return nil
	}
	return t.Fonts
}

func (s *Styler) propagateDefaultFamily() {
	var defaults []string
	for _, f := range s.table.Fonts {
		if f.Default {
			defaults = append(defaults, f.Name)
		}
	}
	switch {
	case len(defaults) == 0:
		return
	case len(defaults) > 1:
		s.log.Warn("Multiple default font families, not propagating", zap.Strings("families", defaults))
		return
	}

	family := defaults[0]
	for _, r := range s.table.Tags {
		if r.Font == nil {
			r.Font = &FontRule{}
		}
		if r.Font.Family == nil {
			r.Font.Family = ptr(family)
		}
	}
	s.fallback = &FontRule{Family: ptr(family)}
	s.log.Debug("Propagated default font family", zap.String("family", family))
}

// Rule returns a copy of the resolved rule for tag, or nil if the tag has
// none.
func (s *Styler) Rule(tag string) *Rule {
	r, ok := s.table.Tags[strings.ToUpper(tag)]
	if !ok {
		return nil
	}
	return (*Rule)(nil).merge(r)
}

// Font returns the font a node with tag would be given
func (s *Styler) Font(tag string) *geom.Font {
	font := geom.DefaultFont()
	if r, ok := s.table.Tags[strings.ToUpper(tag)]; ok {
		r.Font.Apply(font)
	} else {
		s.fallback.Apply(font)
	}
	return font
}

// StyleNode styles target with the rule of tag, or of target.Tag() when no
// tag is given. The font is applied as a default and never replaces a font
// target already has. Targets styled with the same known tag share their
// margin and padding instances.
func (s *Styler) StyleNode(target Target, tag ...string) {
	name := target.Tag()
	if len(tag) > 0 && tag[0] != "" {
		name = tag[0]
	}
	name = strings.ToUpper(name)

	target.DefaultFont(s.Font(name))

	if _, ok := s.table.Tags[name]; !ok {
		target.SetMargin(&geom.Margin{})
		target.SetPadding(&geom.Margin{})
		return
	}
	in := s.insets(name)
	target.SetMargin(in.margin)
	target.SetPadding(in.padding)
}

func (s *Styler) insets(tag string) *insets {
	s.mu.Lock()
	defer s.mu.Unlock()
	if in, ok := s.cache[tag]; ok {
		return in
	}
	r := s.table.Tags[tag]
	m, p := r.Margin.Margin(), r.Padding.Margin()
	in := &insets{margin: &m, padding: &p}
	s.cache[tag] = in
	return in
}

// FontFamilies returns the font families of the table
func (s *Styler) FontFamilies() []FontFamily {
	out := make([]FontFamily, len(s.table.Fonts))
	copy(out, s.table.Fonts)
	return out
}

// RegisterFonts hands every font family to r. All families are attempted;
// the failures are combined.
func (s *Styler) RegisterFonts(r FontRegistrar) error {
	var errs error
	for _, f := range s.table.Fonts {
		if err := r.RegisterFamily(f); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("font family %q: %w", f.Name, err))
		}
	}
	return errs
}
