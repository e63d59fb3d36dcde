package asset

//go:generate mockgen -source=asset.go -destination=mock/mock_server.go -package=mock

import "net/http"

// CacheDirective tells the asset server how the served response may be cached.
type CacheDirective string

const (
	// CacheNever forbids any downstream or client caching of the response
	CacheNever CacheDirective = "never"
	// CacheDefault lets the asset server apply its own caching headers
	CacheDefault CacheDirective = "default"
)

// Asset is an entry of a pre-built static content manifest. Its contents are
// owned by the Server that returned it.
type Asset interface {
	Pathname() string
}

// ServeOptions are passed by the caller on every ServeAsset call
type ServeOptions struct {
	Cache CacheDirective
}

// Server matches normalized pathnames to assets and writes responses for them.
type Server interface {
	// MatchAsset is a pure lookup. The boolean reports whether an asset was found.
	MatchAsset(pathname string) (Asset, bool)

	// ServeAsset writes the response for a previously matched asset.
	ServeAsset(w http.ResponseWriter, r *http.Request, a Asset, opts ServeOptions) error
}
