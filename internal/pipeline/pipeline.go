// Package pipeline assembles the HTTP handler chain the serve-static
// middleware runs in.
package pipeline

import (
	"net/http"

	"github.com/gorilla/handlers"
	log "github.com/sirupsen/logrus"
	"gitlab.com/gitlab-org/labkit/correlation"
	labmetrics "gitlab.com/gitlab-org/labkit/metrics"

	"gitlab.com/gitlab-org/serve-static/internal/config"
	"gitlab.com/gitlab-org/serve-static/internal/httperrors"
	"gitlab.com/gitlab-org/serve-static/internal/logging"
	"gitlab.com/gitlab-org/serve-static/internal/servestatic"
)

// registered once, the factory's collectors live in the default registry
var metricsMiddleware = labmetrics.NewHandlerFactory(labmetrics.WithNamespace("serve_static"))

// New returns the handler serving static assets for every listener. Requests
// without a matching asset get the 404 page.
func New(cfg *config.Config, static *servestatic.Middleware) (http.Handler, error) {
	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httperrors.Serve404(w)
	})

	return build(cfg, static.Handler(notFound))
}

// build wraps handler, innermost first
func build(cfg *config.Config, handler http.Handler) (http.Handler, error) {
	customHeaders, err := cfg.Headers()
	if err != nil {
		return nil, err
	}

	handler = customHeadersMiddleware(handler, customHeaders)
	handler = corsMiddleware(handler, cfg.General.DisableCrossOriginRequests)
	handler = rejectMethodsMiddleware(handler)
	handler = statusMiddleware(handler, cfg.General.StatusPath)
	handler = uriLimiterMiddleware(handler, cfg.General.MaxURILength)
	handler = rateLimitMiddleware(handler, cfg.RateLimit)
	handler = metricsMiddleware(handler)

	handler, err = logging.BasicAccessLogger(handler, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	var correlationOpts []correlation.InboundHandlerOption
	if cfg.General.PropagateCorrelationID {
		correlationOpts = append(correlationOpts, correlation.WithPropagation())
	}
	handler = correlation.InjectCorrelationID(handler, correlationOpts...)

	handler = handlers.RecoveryHandler(
		handlers.RecoveryLogger(log.StandardLogger()),
		handlers.PrintRecoveryStack(true),
	)(handler)

	return handler, nil
}
