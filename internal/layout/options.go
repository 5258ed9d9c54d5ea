package layout

import (
	"go.uber.org/zap"

	"github.com/gompdf/docflow/internal/geom"
	"github.com/gompdf/docflow/internal/metrics"
	"github.com/gompdf/docflow/internal/paper"
)

// PaperSizer resolves a named paper size and orientation to page
// dimensions in points.
type PaperSizer interface {
	PaperSize(size, orientation string) (width, height float64, err error)
}

// PageDefaults are the page attributes used when a page does not set them
type PageDefaults struct {
	Orientation string
	Size        string
	PageMargin  string
}

// Options configures a Builder
type Options struct {
	Logger       *zap.Logger
	Paper        PaperSizer
	PageMargin   func(string) (float64, error)
	Metrics      metrics.Estimator
	PageDefaults PageDefaults
}

// Option is a function that configures Options
type Option func(*Options)

// DefaultOptions returns the default builder options
func DefaultOptions() Options {
	return Options{
		Logger:     zap.NewNop(),
		Paper:      paper.Default,
		PageMargin: geom.ParseLength,
		Metrics:    metrics.Coarse{},
		PageDefaults: PageDefaults{
			Orientation: paper.Portrait,
			Size:        "us-letter",
			PageMargin:  "0.75in",
		},
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(o *Options) {
		if log != nil {
			o.Logger = log
		}
	}
}

// WithPaperSizer sets the paper size lookup
func WithPaperSizer(p PaperSizer) Option {
	return func(o *Options) {
		if p != nil {
			o.Paper = p
		}
	}
}

// WithPageMarginParser sets the parser for page_margin values
func WithPageMarginParser(fn func(string) (float64, error)) Option {
	return func(o *Options) {
		if fn != nil {
			o.PageMargin = fn
		}
	}
}

// WithMetrics sets the text width estimator
func WithMetrics(m metrics.Estimator) Option {
	return func(o *Options) {
		if m != nil {
			o.Metrics = m
		}
	}
}

// WithPageDefaults overrides the page defaults. Empty fields keep the
// built-in value.
func WithPageDefaults(d PageDefaults) Option {
	return func(o *Options) {
		if d.Orientation != "" {
			o.PageDefaults.Orientation = d.Orientation
		}
		if d.Size != "" {
			o.PageDefaults.Size = d.Size
		}
		if d.PageMargin != "" {
			o.PageDefaults.PageMargin = d.PageMargin
		}
	}
}
