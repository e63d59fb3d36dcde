package ratelimiter

import (
	"net"
	"net/http"

	log "github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/serve-static/internal/httperrors"
	"gitlab.com/gitlab-org/serve-static/internal/logging"
	"gitlab.com/gitlab-org/serve-static/metrics"
)

// SourceIPLimiter returns middleware answering 429 to clients whose IP ran
// out of tokens
func (rl *RateLimiter) SourceIPLimiter(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sourceIP := remoteAddrWithoutPort(r)
		if !rl.SourceIPAllowed(sourceIP) {
			logging.LogRequest(r).WithFields(log.Fields{
				"source_ip":                     sourceIP,
				"rate_limiter_limit_per_second": rl.sourceIPLimitPerSecond,
				"rate_limiter_burst_size":       rl.sourceIPBurstSize,
			}).Debug("source IP hit rate limit")

			metrics.RateLimitSourceIPBlockedCount.Inc()
			httperrors.Serve429(w)
			return
		}

		handler.ServeHTTP(w, r)
	})
}

func remoteAddrWithoutPort(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
