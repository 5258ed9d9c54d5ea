package res

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/h2non/filetype"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a local resource is in none of the searched
// locations.
var ErrNotFound = errors.New("resource not found")

// ResourceType represents the type of resource
type ResourceType int

const (
	// ResourceTypeUnknown is an unknown resource type
	ResourceTypeUnknown ResourceType = iota
	// ResourceTypeImage is an image resource
	ResourceTypeImage
	// ResourceTypeFont is a font resource
	ResourceTypeFont
	// ResourceTypeCSS is a CSS resource
	ResourceTypeCSS
	// ResourceTypeHTML is an HTML resource
	ResourceTypeHTML
	// ResourceTypeOther is any other resource
	ResourceTypeOther
)

// Resource represents a loaded resource
type Resource struct {
	URL      string
	Type     ResourceType
	Data     []byte
	MimeType string
}

// Option configures a Loader
type Option func(*Loader)

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// WithSearchPaths adds directories to search for local resources
func WithSearchPaths(paths ...string) Option {
	return func(l *Loader) {
		l.searchPaths = append(l.searchPaths, paths...)
	}
}

// WithHTTPClient sets the client used for remote resources
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// Loader handles loading resources
type Loader struct {
	// Base URL or file path for resolving relative URLs
	BaseURL string

	log *zap.Logger

	// Resource cache
	cache     map[string]*Resource
	cacheLock sync.RWMutex

	// Resource search paths
	searchPaths []string

	// HTTP client for remote resources
	client *http.Client
}

// NewLoader creates a new resource loader. Relative references are resolved
// against baseURL, a file path or an http(s) URL.
func NewLoader(baseURL string, opts ...Option) *Loader {
	l := &Loader{
		BaseURL:     baseURL,
		log:         zap.NewNop(),
		cache:       make(map[string]*Resource),
		searchPaths: []string{},
		client:      http.DefaultClient,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = l.log.Named("res")
	return l
}

// AddSearchPath adds a directory to search for local resources
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// Load loads a resource from a URL or file path
func (l *Loader) Load(ctx context.Context, urlStr string) (*Resource, error) {
	// Check if the resource is already cached
	l.cacheLock.RLock()
	if res, ok := l.cache[urlStr]; ok {
		l.cacheLock.RUnlock()
		return res, nil
	}
	l.cacheLock.RUnlock()

	var (
		res *Resource
		err error
	)
	if strings.HasPrefix(urlStr, "data:") {
		res, err = parseDataURL(urlStr)
	} else {
		var resolvedURL string
		resolvedURL, err = l.resolveURL(urlStr)
		if err != nil {
			return nil, err
		}
		if isRemote(resolvedURL) {
			res, err = l.loadRemote(ctx, resolvedURL)
		} else {
			res, err = l.loadLocal(resolvedURL)
		}
	}
	if err != nil {
		return nil, err
	}

	l.log.Debug("Loaded resource",
		zap.String("url", res.URL), zap.String("mime", res.MimeType), zap.Int("size", len(res.Data)))

	l.cacheLock.Lock()
	l.cache[urlStr] = res
	l.cacheLock.Unlock()

	return res, nil
}

func isRemote(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// parseDataURL parses a data URL (RFC 2397) and returns a Resource.
// Examples:
//
//	data:image/png;base64,<base64>
//	data:text/plain,Hello%20World
func parseDataURL(u string) (*Resource, error) {
	s := strings.TrimPrefix(u, "data:")
	meta, dataPart, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("invalid data URL")
	}

	isBase64 := false
	// meta can be like: image/png;base64 or text/plain;charset=utf-8
	comps := strings.Split(meta, ";")
	mediaType := comps[0]
	for _, c := range comps[1:] {
		if strings.EqualFold(strings.TrimSpace(c), "base64") {
			isBase64 = true
		}
	}

	var data []byte
	if isBase64 {
		var err error
		data, err = base64.StdEncoding.DecodeString(dataPart)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data URL: %w", err)
		}
	} else if d, err := url.PathUnescape(dataPart); err == nil {
		// The non-base64 form is URL-escaped
		data = []byte(d)
	} else {
		data = []byte(dataPart)
	}

	r := &Resource{URL: u, Data: data, MimeType: determineMimeType(data, mediaType, "")}
	r.Type = determineResourceType(r.MimeType, "")
	return r, nil
}

// resolveURL resolves a URL relative to the base URL
func (l *Loader) resolveURL(urlStr string) (string, error) {
	if isRemote(urlStr) || filepath.IsAbs(urlStr) {
		return urlStr, nil
	}

	if !isRemote(l.BaseURL) {
		if l.BaseURL == "" {
			return urlStr, nil
		}
		return filepath.Join(filepath.Dir(l.BaseURL), urlStr), nil
	}

	baseURL, err := url.Parse(l.BaseURL)
	if err != nil {
		return "", err
	}

	relURL, err := url.Parse(urlStr)
	if err != nil {
		return "", err
	}

	return baseURL.ResolveReference(relURL).String(), nil
}

// loadRemote loads a resource from a remote URL
func (l *Loader) loadRemote(ctx context.Context, urlStr string) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %s: %s", urlStr, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	res := &Resource{
		URL:      urlStr,
		Data:     data,
		MimeType: determineMimeType(data, mediaType, urlStr),
	}
	res.Type = determineResourceType(res.MimeType, urlStr)

	return res, nil
}

// loadLocal loads a resource from a local file
func (l *Loader) loadLocal(path string) (*Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return l.loadFromSearchPaths(path)
		}
		return nil, err
	}
	return newLocalResource(path, data), nil
}

func newLocalResource(path string, data []byte) *Resource {
	res := &Resource{
		URL:      path,
		Data:     data,
		MimeType: determineMimeType(data, "", path),
	}
	res.Type = determineResourceType(res.MimeType, path)
	return res
}

// loadFromSearchPaths tries to load a resource from the search paths
func (l *Loader) loadFromSearchPaths(filename string) (*Resource, error) {
	baseFilename := filepath.Base(filename)

	for _, searchPath := range l.searchPaths {
		path := filepath.Join(searchPath, baseFilename)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return newLocalResource(path, data), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, filename)
}

// determineMimeType sniffs the MIME type from the content and falls back to
// the declared type, then to the file extension.
func determineMimeType(data []byte, declared, path string) string {
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	if declared != "" {
		return declared
	}
	ext := strings.ToLower(filepath.Ext(path))
	if kind := filetype.GetType(strings.TrimPrefix(ext, ".")); kind != filetype.Unknown {
		return kind.MIME.Value
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if mt, _, err := mime.ParseMediaType(t); err == nil {
			return mt
		}
	}
	return "application/octet-stream"
}

// determineResourceType determines the type of a resource from its MIME
// type, then from the MIME type its extension implies.
func determineResourceType(mimeType, path string) ResourceType {
	if t := resourceTypeOf(mimeType); t != ResourceTypeOther {
		return t
	}
	return resourceTypeOf(determineMimeType(nil, "", path))
}

func resourceTypeOf(mimeType string) ResourceType {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return ResourceTypeImage
	case strings.HasPrefix(mimeType, "font/"), mimeType == "application/font-sfnt",
		mimeType == "application/x-font-ttf", mimeType == "application/font-woff":
		return ResourceTypeFont
	case mimeType == "text/css":
		return ResourceTypeCSS
	case mimeType == "text/html":
		return ResourceTypeHTML
	}
	return ResourceTypeOther
}

func (l *Loader) loadTyped(ctx context.Context, urlStr string, want ResourceType, name string) (*Resource, error) {
	res, err := l.Load(ctx, urlStr)
	if err != nil {
		return nil, err
	}
	if res.Type != want {
		return nil, fmt.Errorf("resource is not %s: %s (%s)", name, urlStr, res.MimeType)
	}
	return res, nil
}

// LoadFont loads a font resource
func (l *Loader) LoadFont(ctx context.Context, urlStr string) (*Resource, error) {
	return l.loadTyped(ctx, urlStr, ResourceTypeFont, "a font")
}

// LoadCSS loads a CSS resource
func (l *Loader) LoadCSS(ctx context.Context, urlStr string) (*Resource, error) {
	return l.loadTyped(ctx, urlStr, ResourceTypeCSS, "CSS")
}

// LoadHTML loads an HTML resource. Content that is not recognizable as
// HTML is accepted as well.
func (l *Loader) LoadHTML(ctx context.Context, urlStr string) (*Resource, error) {
	return l.Load(ctx, urlStr)
}

// GetReader returns a reader for a resource
func (r *Resource) GetReader() *bytes.Reader {
	return bytes.NewReader(r.Data)
}

// GetString returns the resource data as a string
func (r *Resource) GetString() string {
	return string(r.Data)
}
