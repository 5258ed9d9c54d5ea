package res

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gompdf/docflow/internal/geom"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 0xff, A: 0xff})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDataURL(t *testing.T) {
	l := NewLoader("")
	ctx := context.Background()

	src := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 3, 2))
	img, err := l.LoadImage(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, "png", img.Format)
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Equal(t, "image/png", img.Resource.MimeType)
	assert.Equal(t, geom.HashSource(src), img.Ref.Hash)

	res, err := l.Load(ctx, "data:text/css,p%20%7B%20color%3A%20red%20%7D")
	require.NoError(t, err)
	assert.Equal(t, "p { color: red }", res.GetString())
	assert.Equal(t, ResourceTypeCSS, res.Type)

	_, err = l.Load(ctx, "data:nocomma")
	assert.Error(t, err)
	_, err = l.Load(ctx, "data:image/png;base64,***")
	assert.Error(t, err)
}

func TestLocalFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), pngBytes(t, 4, 4), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.css"), []byte("h1 { font-size: 20pt }"), 0o644))
	ctx := context.Background()

	// relative to the base document
	l := NewLoader(filepath.Join(dir, "doc.yaml"))
	img, err := l.LoadImage(ctx, "logo.png")
	require.NoError(t, err)
	assert.Equal(t, 4, img.Width)

	css, err := l.LoadCSS(ctx, "site.css")
	require.NoError(t, err)
	assert.Contains(t, css.GetString(), "font-size")

	_, err = l.LoadFont(ctx, "site.css")
	assert.Error(t, err)

	// found through the search path only
	other := NewLoader(filepath.Join(t.TempDir(), "doc.yaml"), WithSearchPaths(dir))
	img, err = other.LoadImage(ctx, "images/logo.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "logo.png"), img.Resource.URL)

	_, err = NewLoader("").Load(ctx, filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemote(t *testing.T) {
	data := pngBytes(t, 5, 7)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/img/a.png":
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write(data)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewLoader(srv.URL+"/docs/index.html", WithHTTPClient(srv.Client()))
	ctx := context.Background()

	img, err := l.LoadImage(ctx, "../img/a.png")
	require.NoError(t, err)
	assert.Equal(t, 5, img.Width)
	assert.Equal(t, 7, img.Height)
	assert.Equal(t, "image/png", img.Resource.MimeType)

	_, err = l.LoadImage(ctx, "../img/a.png")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	_, err = l.Load(ctx, "/nope")
	assert.Error(t, err)
}

func TestLoadImages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 2, 2), 0o644))

	good := geom.NewImageRef(path)
	bad := geom.NewImageRef(filepath.Join(dir, "b.png"))
	refs := map[string]geom.ImageRef{good.Hash: good, bad.Hash: bad}

	imgs, err := NewLoader("").LoadImages(context.Background(), refs)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	require.Len(t, imgs, 1)
	assert.Equal(t, good, imgs[good.Hash].Ref)
	assert.Equal(t, 2, imgs[good.Hash].Width)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	imgs, err = NewLoader("").LoadImages(ctx, refs)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, imgs)
}

func TestSVG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "icon.svg")
	require.NoError(t, os.WriteFile(path, []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"></svg>`), 0o644))

	img, err := NewLoader("").LoadImage(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "svg", img.Format)
	assert.Zero(t, img.Width)
}
