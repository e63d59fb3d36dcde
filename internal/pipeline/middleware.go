package pipeline

import (
	"net/http"

	"github.com/rs/cors"

	"gitlab.com/gitlab-org/serve-static/internal/config"
	"gitlab.com/gitlab-org/serve-static/internal/httperrors"
	"gitlab.com/gitlab-org/serve-static/internal/logging"
	"gitlab.com/gitlab-org/serve-static/internal/ratelimiter"
	"gitlab.com/gitlab-org/serve-static/metrics"
)

var (
	corsHandler = cors.New(cors.Options{AllowedMethods: []string{http.MethodGet, http.MethodHead}})

	knownMethods = map[string]bool{
		http.MethodGet:     true,
		http.MethodHead:    true,
		http.MethodPost:    true,
		http.MethodPut:     true,
		http.MethodPatch:   true,
		http.MethodDelete:  true,
		http.MethodConnect: true,
		http.MethodOptions: true,
		http.MethodTrace:   true,
	}
)

func customHeadersMiddleware(handler http.Handler, headers http.Header) http.Handler {
	if len(headers) == 0 {
		return handler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range headers {
			for _, value := range v {
				w.Header().Add(k, value)
			}
		}

		handler.ServeHTTP(w, r)
	})
}

func corsMiddleware(handler http.Handler, disabled bool) http.Handler {
	if disabled {
		return handler
	}

	return corsHandler.Handler(handler)
}

// rejectMethodsMiddleware answers 405 for methods outside of RFC 7231 and
// RFC 5789
func rejectMethodsMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !knownMethods[r.Method] {
			metrics.RejectedRequestsCount.Inc()
			logging.LogRequest(r).WithField("method", r.Method).Debug("rejecting unknown method")

			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		handler.ServeHTTP(w, r)
	})
}

// statusMiddleware serves the health check on statusPath, when set
func statusMiddleware(handler http.Handler, statusPath string) http.Handler {
	if statusPath == "" {
		return handler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == statusPath {
			w.Header().Set("Cache-Control", "no-store")
			w.Write([]byte("success\n"))

			return
		}

		handler.ServeHTTP(w, r)
	})
}

func uriLimiterMiddleware(handler http.Handler, limit int) http.Handler {
	if limit == 0 {
		return handler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(r.RequestURI) > limit {
			httperrors.Serve414(w)

			return
		}

		handler.ServeHTTP(w, r)
	})
}

func rateLimitMiddleware(handler http.Handler, cfg config.RateLimit) http.Handler {
	if cfg.SourceIPLimitPerSecond == 0 {
		return handler
	}

	rl := ratelimiter.New(cfg.SourceIPLimitPerSecond, ratelimiter.WithSourceIPBurstSize(cfg.SourceIPBurst))

	return rl.SourceIPLimiter(handler)
}
