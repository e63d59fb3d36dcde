package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	contentencoding "gitlab.com/feistel/go-contentencoding/encoding"

	"gitlab.com/gitlab-org/serve-static/internal/asset"
	"gitlab.com/gitlab-org/serve-static/metrics"
)

const (
	// DefaultIndexFile is served for pathnames ending with "/"
	DefaultIndexFile = "index.html"
	// DefaultAutoExtension is tried for pathnames without an extension
	DefaultAutoExtension = ".html"

	defaultMaxAge = 10 * time.Minute
)

var (
	// ErrForeignAsset is returned when asked to serve an asset that was not
	// matched by this server
	ErrForeignAsset = errors.New("asset does not belong to this manifest")
	// ErrUnknownCacheDirective is returned for cache directives the server
	// cannot translate into headers
	ErrUnknownCacheDirective = errors.New("unknown cache directive")

	// server side content encoding priority
	supportedEncodings = contentencoding.Preference{
		contentencoding.Brotli:   1.0,
		contentencoding.Gzip:     0.5,
		contentencoding.Identity: 0.1,
	}
)

// ServerOptions configure how pathnames are matched to entries
type ServerOptions struct {
	IndexFiles     []string
	AutoExtensions []string
}

// Server serves the entries of a Manifest. It implements asset.Server.
type Server struct {
	manifest       *Manifest
	indexFiles     []string
	autoExtensions []string
}

// NewServer returns a Server for m. Empty options fall back to index.html
// and .html
func NewServer(m *Manifest, opts ServerOptions) *Server {
	indexFiles := opts.IndexFiles
	if len(indexFiles) == 0 {
		indexFiles = []string{DefaultIndexFile}
	}

	autoExtensions := opts.AutoExtensions
	if autoExtensions == nil {
		autoExtensions = []string{DefaultAutoExtension}
	}

	return &Server{
		manifest:       m,
		indexFiles:     indexFiles,
		autoExtensions: autoExtensions,
	}
}

// MatchAsset looks pathname up, trying index files for directories and
// automatic extensions, then index files, for extensionless names
func (s *Server) MatchAsset(pathname string) (asset.Asset, bool) {
	if strings.HasSuffix(pathname, "/") {
		return s.matchIndex(pathname)
	}

	if entry, ok := s.manifest.Lookup(pathname); ok {
		return entry, true
	}

	if path.Ext(pathname) != "" {
		return nil, false
	}

	for _, ext := range s.autoExtensions {
		if entry, ok := s.manifest.Lookup(pathname + ext); ok {
			return entry, true
		}
	}

	return s.matchIndex(pathname + "/")
}

func (s *Server) matchIndex(dir string) (asset.Asset, bool) {
	for _, index := range s.indexFiles {
		if entry, ok := s.manifest.Lookup(dir + index); ok {
			return entry, true
		}
	}

	return nil, false
}

// ServeAsset writes a matched entry, honouring conditional and range
// requests and serving a precompressed variant when the client accepts one
func (s *Server) ServeAsset(w http.ResponseWriter, r *http.Request, a asset.Asset, opts asset.ServeOptions) error {
	entry, ok := a.(*Entry)
	if !ok {
		return fmt.Errorf("%w: %T", ErrForeignAsset, a)
	}

	if err := setCacheHeaders(w.Header(), opts.Cache); err != nil {
		return err
	}

	body, encoding := negotiateEncoding(r, entry)

	w.Header().Set("Content-Type", entry.contentType)
	w.Header().Set("ETag", body.etag)
	if len(entry.variants) > 0 {
		w.Header().Add("Vary", "Accept-Encoding")
	}
	if encoding != contentencoding.Identity {
		w.Header().Set("Content-Encoding", encoding)
	}

	metrics.ServedAssetSize.WithLabelValues(encoding).Observe(float64(body.Size()))

	http.ServeContent(w, r, entry.pathname, entry.modTime, bytes.NewReader(body.content))

	return nil
}

func setCacheHeaders(h http.Header, directive asset.CacheDirective) error {
	switch directive {
	case asset.CacheNever:
		h.Set("Cache-Control", "no-store")
	case asset.CacheDefault:
		h.Set("Cache-Control", fmt.Sprintf("max-age=%d", int(defaultMaxAge.Seconds())))
		h.Set("Expires", time.Now().UTC().Add(defaultMaxAge).Format(http.TimeFormat))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCacheDirective, directive)
	}

	return nil
}

// negotiateEncoding picks the body to send. Range requests and requests
// without Accept-Encoding always get the identity body.
func negotiateEncoding(r *http.Request, entry *Entry) (*Entry, string) {
	acceptHeader := r.Header.Get("Accept-Encoding")
	if len(entry.variants) == 0 || acceptHeader == "" || r.Header.Get("Range") != "" {
		return entry, contentencoding.Identity
	}

	results, err := supportedEncodings.Negotiate(acceptHeader, contentencoding.AliasIdentity)
	if err != nil {
		return entry, contentencoding.Identity
	}

	for _, accepted := range results {
		if accepted == contentencoding.Identity {
			break
		}

		if variant, ok := entry.variants[accepted]; ok {
			return variant, accepted
		}
	}

	return entry, contentencoding.Identity
}
