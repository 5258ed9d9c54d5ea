package res

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sort"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gompdf/docflow/internal/geom"
)

// Image is a loaded image with its pixel dimensions. Vector images report
// zero dimensions.
type Image struct {
	Ref      geom.ImageRef
	Resource *Resource
	Format   string
	Width    int
	Height   int
}

// LoadImage loads an image and reads its dimensions
func (l *Loader) LoadImage(ctx context.Context, urlStr string) (*Image, error) {
	res, err := l.loadTyped(ctx, urlStr, ResourceTypeImage, "an image")
	if err != nil {
		return nil, err
	}
	img := &Image{Ref: geom.NewImageRef(urlStr), Resource: res}
	if res.MimeType == "image/svg+xml" {
		img.Format = "svg"
		return img, nil
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(res.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", urlStr, err)
	}
	img.Format, img.Width, img.Height = format, cfg.Width, cfg.Height
	return img, nil
}

// LoadImages loads every image of a document registry, one load per hash.
// All images are attempted; the failures are combined into the returned
// error alongside the images that did load.
func (l *Loader) LoadImages(ctx context.Context, refs map[string]geom.ImageRef) (map[string]*Image, error) {
	hashes := make([]string, 0, len(refs))
	for h := range refs {
		hashes = append(hashes, h)
	}
	sort.Strings(hashes)

	out := make(map[string]*Image, len(refs))
	var errs error
	for _, h := range hashes {
		if err := ctx.Err(); err != nil {
			return out, multierr.Append(errs, err)
		}
		ref := refs[h]
		img, err := l.LoadImage(ctx, ref.Src)
		if err != nil {
			l.log.Warn("Unable to load image", zap.String("src", ref.Src), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("image %s: %w", h, err))
			continue
		}
		img.Ref = ref
		out[h] = img
	}
	return out, errs
}
