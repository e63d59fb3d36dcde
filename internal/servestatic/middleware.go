package servestatic

import (
	"errors"
	"net/http"

	"gitlab.com/gitlab-org/serve-static/internal/asset"
	"gitlab.com/gitlab-org/serve-static/internal/httperrors"
	"gitlab.com/gitlab-org/serve-static/internal/logging"
	"gitlab.com/gitlab-org/serve-static/metrics"
)

const (
	outcomeServed    = "served"
	outcomeDelegated = "delegated"
)

var errNoAssetServer = errors.New("serve-static: an asset server is required")

// ErrorHandlerFunc presents a failure of the asset server to the client.
// pathname is the resolved pathname of the asset that failed.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, pathname string, err error)

// Options configure a Middleware. They are read once by New.
type Options struct {
	// Path, when not empty, is resolved instead of every request path
	Path string
	// Root is prefixed to the request path before lookup, defaults to "./"
	Root string
	// AssetServer matches and serves the assets
	AssetServer asset.Server
	// ErrorHandler is called when AssetServer fails to serve a matched asset
	ErrorHandler ErrorHandlerFunc
}

// Middleware serves requests matching an asset from the asset server and
// passes all other requests down the pipeline untouched.
type Middleware struct {
	resolver     *Resolver
	server       asset.Server
	errorHandler ErrorHandlerFunc
}

// New validates opts and returns a Middleware holding a copy of them
func New(opts Options) (*Middleware, error) {
	if opts.AssetServer == nil {
		return nil, errNoAssetServer
	}

	resolver, err := NewResolver(opts.Root, opts.Path)
	if err != nil {
		return nil, err
	}

	errorHandler := opts.ErrorHandler
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}

	return &Middleware{
		resolver:     resolver,
		server:       opts.AssetServer,
		errorHandler: errorHandler,
	}, nil
}

// Resolver returns the path resolver used by the middleware
func (m *Middleware) Resolver() *Resolver {
	return m.resolver
}

// Handler wraps next with the middleware
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.Serve(w, r, next)
	})
}

// Serve either serves the asset matching r or calls next
func (m *Middleware) Serve(w http.ResponseWriter, r *http.Request, next http.Handler) {
	pathname, err := m.resolver.Resolve(r.URL.EscapedPath())
	if err != nil {
		metrics.PathResolutionFailures.Inc()
		logging.LogRequest(r).WithError(err).Debug("unresolvable path, passing request through")

		m.delegate(w, r, next)
		return
	}

	a, ok := m.server.MatchAsset(pathname)
	if !ok {
		m.delegate(w, r, next)
		return
	}

	metrics.ServeStaticRequests.WithLabelValues(outcomeServed).Inc()

	err = m.server.ServeAsset(w, r, a, asset.ServeOptions{Cache: asset.CacheNever})
	if err != nil {
		metrics.ServeStaticFailures.Inc()
		m.errorHandler(w, r, pathname, err)
	}
}

func (m *Middleware) delegate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	metrics.ServeStaticRequests.WithLabelValues(outcomeDelegated).Inc()
	next.ServeHTTP(w, r)
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, pathname string, err error) {
	httperrors.Serve500WithPathname(w, r, pathname, "failed to serve asset", err)
}
