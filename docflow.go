// Package docflow lays out documents described as YAML document files or
// HTML into trees of positioned boxes.
package docflow

import (
	"github.com/gompdf/docflow/pkg/api"
)

type Converter = api.Converter
type Options = api.Options
type Option = api.Option
type PageOrientation = api.PageOrientation
type Document = api.Document
type Image = api.Image

func New() *Converter                           { return api.New() }
func NewWithOptions(options Options) *Converter { return api.NewWithOptions(options) }
func DefaultOptions() Options                   { return api.DefaultOptions() }

var (
	WithPageSize        = api.WithPageSize
	WithPageOrientation = api.WithPageOrientation
	WithPageMargin      = api.WithPageMargin
	WithStyleTable      = api.WithStyleTable
	WithStylesheet      = api.WithStylesheet
	WithStyleFile       = api.WithStyleFile
	WithMetrics         = api.WithMetrics
	WithLogger          = api.WithLogger
	WithResourcePath    = api.WithResourcePath
	WithDebug           = api.WithDebug

	WriteJSON = api.WriteJSON
	WriteTree = api.WriteTree
)

const (
	PageSizeA3     = api.PageSizeA3
	PageSizeA4     = api.PageSizeA4
	PageSizeA5     = api.PageSizeA5
	PageSizeLetter = api.PageSizeLetter
	PageSizeLegal  = api.PageSizeLegal

	PageOrientationPortrait  = api.PageOrientationPortrait
	PageOrientationLandscape = api.PageOrientationLandscape
)
