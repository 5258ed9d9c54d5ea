package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/gompdf/docflow/internal/metrics"
	"github.com/gompdf/docflow/pkg/api"
)

var log = zap.NewNop()

func prepareLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var (
		l   *zap.Logger
		err error
	)
	if cmd.Bool("debug") {
		l, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		l, err = cfg.Build()
	}
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	log = l
	return ctx, nil
}

func syncLogger(context.Context, *cli.Command) error {
	// stderr cannot be synced on some platforms
	_ = log.Sync()
	return nil
}

var errWasHandled bool

func exitErrHandler(_ context.Context, _ *cli.Command, err error) {
	log.Error("Program ended with error", zap.Error(err))
	errWasHandled = true
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            "docflow",
		Usage:           "lays out YAML document files and HTML into positioned box trees",
		HideHelpCommand: true,
		Before:          prepareLogger,
		After:           syncLogger,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log layout details"},
		},
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Lays out a document and writes the result",
				Action: build,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "read the document from `FILE`, - for STDIN"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write the result to `FILE`, STDOUT if absent"},
					&cli.StringSliceFlag{Name: "styles", Aliases: []string{"s"}, Usage: "merge style table `FILE` (YAML or .css), may repeat"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "output `FORMAT` (json, tree)"},
					&cli.BoolFlag{Name: "html", Usage: "treat the input as HTML (implied by .html and .htm)"},
					&cli.StringFlag{Name: "metrics", Value: "coarse", Usage: "text width `ESTIMATOR` (coarse, fpdf)"},
					&cli.BoolFlag{Name: "resolve-images", Usage: "load every registered image and report its size"},
					&cli.StringFlag{Name: "page-size", Usage: "default page `SIZE`"},
					&cli.StringFlag{Name: "orientation", Usage: "default page `ORIENTATION` (portrait, landscape)"},
					&cli.StringFlag{Name: "page-margin", Usage: "default page `MARGIN`, e.g. 0.5in"},
					&cli.StringSliceFlag{Name: "resource-path", Aliases: []string{"r"}, Usage: "search `DIR` for images, fonts and styles, may repeat"},
				},
			},
		},
	}

	var err error
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func converterOptions(cmd *cli.Command) (api.Options, error) {
	opts := api.DefaultOptions()
	opts.Logger = log
	opts.Debug = cmd.Root().Bool("debug")

	switch m := cmd.String("metrics"); m {
	case "coarse":
		opts.Metrics = metrics.Coarse{}
	case "fpdf":
		opts.Metrics = metrics.NewFPDF()
	default:
		return opts, fmt.Errorf("unknown metrics %q", m)
	}
	if v := cmd.String("page-size"); v != "" {
		opts.PageSize = v
	}
	if v := cmd.String("orientation"); v != "" {
		opts.PageOrientation = api.PageOrientation(v)
	}
	if v := cmd.String("page-margin"); v != "" {
		opts.PageMargin = v
	}
	opts.StyleFiles = append(opts.StyleFiles, cmd.StringSlice("styles")...)
	opts.ResourcePaths = append(opts.ResourcePaths, cmd.StringSlice("resource-path")...)
	return opts, nil
}

func build(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	if format != "json" && format != "tree" {
		return fmt.Errorf("unknown output format %q", format)
	}
	opts, err := converterOptions(cmd)
	if err != nil {
		return err
	}
	c := api.NewWithOptions(opts)

	input := cmd.String("input")
	if input == "" && cmd.Args().Len() > 0 {
		input = cmd.Args().First()
	}
	isHTML := cmd.Bool("html")
	switch strings.ToLower(filepath.Ext(input)) {
	case ".html", ".htm":
		isHTML = true
	}

	var doc *api.Document
	switch {
	case input == "" || input == "-":
		if isHTML {
			doc, err = c.ConvertHTML(os.Stdin)
		} else {
			doc, err = c.Convert(os.Stdin)
		}
	case isHTML:
		doc, err = c.ConvertHTMLFile(input)
	default:
		doc, err = c.ConvertFile(input)
	}
	if err != nil {
		return fmt.Errorf("unable to lay out document: %w", err)
	}
	log.Debug("Document laid out", zap.String("input", input), zap.Int("pages", len(doc.Pages)))

	if cmd.Bool("resolve-images") {
		images, err := c.ResolveImages(ctx, doc)
		if err != nil {
			return fmt.Errorf("unable to resolve images: %w", err)
		}
		for hash, img := range images {
			log.Info("Image", zap.String("hash", hash), zap.String("src", img.Ref.Src),
				zap.String("format", img.Format), zap.Int("width", img.Width), zap.Int("height", img.Height))
		}
	}

	var out io.Writer = os.Stdout
	if name := cmd.String("output"); name != "" {
		f, err := os.Create(name)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", name, err)
		}
		defer f.Close()
		out = f
	}

	if format == "tree" {
		err = api.WriteTree(doc, out)
	} else {
		err = api.WriteJSON(doc, out)
	}
	if err != nil {
		return fmt.Errorf("unable to write result: %w", err)
	}
	return nil
}
