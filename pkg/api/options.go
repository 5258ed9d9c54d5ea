package api

import (
	"go.uber.org/zap"

	"github.com/gompdf/docflow/internal/metrics"
	"github.com/gompdf/docflow/internal/style"
)

// Options represents configuration options for the converter
type Options struct {
	// Page defaults for pages that do not set them
	PageSize        string
	PageOrientation PageOrientation
	PageMargin      string

	// Styles is merged over the built-in defaults; documents' own styles
	// are merged over it.
	Styles *style.Table
	// Stylesheets are CSS texts merged over Styles in order
	Stylesheets []string
	// StyleFiles are YAML (or .css) style tables loaded at conversion and
	// merged after Stylesheets
	StyleFiles []string

	// Metrics estimates text widths. Nil uses metrics.Coarse.
	Metrics metrics.Estimator

	// Resource paths searched for images, fonts and style files
	ResourcePaths []string

	Logger *zap.Logger
	Debug  bool
}

// Option is a function that modifies Options
type Option func(*Options)

// PageOrientation represents page orientation
type PageOrientation string

const (
	// PageOrientationPortrait sets the page to portrait orientation
	PageOrientationPortrait PageOrientation = "portrait"
	// PageOrientationLandscape sets the page to landscape orientation
	PageOrientationLandscape PageOrientation = "landscape"
)

// Standard page size names
const (
	PageSizeA3     = "a3"
	PageSizeA4     = "a4"
	PageSizeA5     = "a5"
	PageSizeLetter = "us-letter"
	PageSizeLegal  = "us-legal"
)

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		PageSize:        PageSizeLetter,
		PageOrientation: PageOrientationPortrait,
		PageMargin:      "0.75in",
		Metrics:         metrics.Coarse{},
		ResourcePaths:   []string{},
	}
}

// WithPageSize sets the default page size
func WithPageSize(size string) Option {
	return func(o *Options) {
		o.PageSize = size
	}
}

// WithPageOrientation sets the default page orientation
func WithPageOrientation(orientation PageOrientation) Option {
	return func(o *Options) {
		o.PageOrientation = orientation
	}
}

// WithPageMargin sets the default page margin, e.g. "1in" or "36"
func WithPageMargin(margin string) Option {
	return func(o *Options) {
		o.PageMargin = margin
	}
}

// WithStyleTable sets the style table
func WithStyleTable(t *style.Table) Option {
	return func(o *Options) {
		o.Styles = t
	}
}

// WithStylesheet adds CSS text
func WithStylesheet(css string) Option {
	return func(o *Options) {
		o.Stylesheets = append(o.Stylesheets, css)
	}
}

// WithStyleFile adds a style table file
func WithStyleFile(path string) Option {
	return func(o *Options) {
		o.StyleFiles = append(o.StyleFiles, path)
	}
}

// WithMetrics sets the text width estimator
func WithMetrics(m metrics.Estimator) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = log
	}
}

// WithResourcePath adds a path to search for resources
func WithResourcePath(path string) Option {
	return func(o *Options) {
		o.ResourcePaths = append(o.ResourcePaths, path)
	}
}

// WithDebug sets the debug mode
func WithDebug(debug bool) Option {
	return func(o *Options) {
		o.Debug = debug
	}
}
