package config

import (
	"time"

	"github.com/namsral/flag"
)

var (
	metricsAddress = flag.String("metrics-address", "", "The address to listen on for metrics requests")
	statusPath     = flag.String("status-path", "", "The url path for a status page, e.g., /@status")

	archivePath   = flag.String("archive", "", "Path to a zip archive holding the static site")
	archivePrefix = flag.String("archive-prefix", "public/", "The directory inside the archive holding the published files")
	assetsDir     = flag.String("assets-dir", "", "The directory holding the static site, alternative to -archive")

	root         = flag.String("root", "./", "The URL path prefix every request path is resolved against before the asset lookup")
	explicitPath = flag.String("path", "", "Serve this pathname for every request instead of the request path")
	maxURILength = flag.Int("max-uri-length", 1024, "Limit the length of URI, 0 for unlimited.")

	// HTTP rate limits
	rateLimitSourceIP      = flag.Float64("rate-limit-source-ip", 0.0, "Rate limit HTTP requests per second from a single IP, 0 means is disabled")
	rateLimitSourceIPBurst = flag.Int("rate-limit-source-ip-burst", 100, "Rate limit HTTP requests from a single IP, maximum burst allowed per second")

	disableCrossOriginRequests = flag.Bool("disable-cross-origin-requests", false, "Disable cross-origin requests")
	propagateCorrelationID     = flag.Bool("propagate-correlation-id", true, "Reuse existing Correlation-ID from the incoming request header `X-Request-ID` if present")

	logFormat         = flag.String("log-format", "json", "The log output format: 'text' or 'json'")
	logVerbose        = flag.Bool("log-verbose", false, "Verbose logging")
	sentryDSN         = flag.String("sentry-dsn", "", "The address for sending sentry crash reporting to")
	sentryEnvironment = flag.String("sentry-environment", "", "The environment for sentry crash reporting")

	// HTTP server timeouts
	serverReadTimeout       = flag.Duration("server-read-timeout", 5*time.Second, "ReadTimeout is the maximum duration for reading the entire request, including the body. A zero or negative value means there will be no timeout.")
	serverReadHeaderTimeout = flag.Duration("server-read-header-timeout", time.Second, "ReadHeaderTimeout is the amount of time allowed to read request headers. A zero or negative value means there will be no timeout.")
	serverWriteTimeout      = flag.Duration("server-write-timeout", 0, "WriteTimeout is the maximum duration before timing out writes of the response. A zero or negative value means there will be no timeout.")
	serverShutdownTimeout   = flag.Duration("server-shutdown-timeout", 30*time.Second, "Server shutdown timeout (default: 30s)")

	showVersion = flag.Bool("version", false, "Show version")

	// See initFlags()
	listenHTTP     = MultiStringFlag{separator: ","}
	exclude        = MultiStringFlag{separator: ","}
	indexFiles     = MultiStringFlag{separator: ","}
	autoExtensions = MultiStringFlag{separator: ","}

	header = MultiStringFlag{separator: ";;"}
)

// initFlags will be called from LoadConfig
func initFlags() {
	registerMultiFlags(flag.CommandLine)

	// read from -config=/path/to/serve-static-config
	flag.String(flag.DefaultConfigFlagname, "", "path to config file")

	flag.Parse()
}

func registerMultiFlags(fs *flag.FlagSet) {
	fs.Var(&listenHTTP, "listen-http", "The TCP address(es) to listen on for HTTP requests, e.g. 127.0.0.1:8080")
	fs.Var(&exclude, "exclude", "Glob pattern(s) of files left out of the site, e.g. **/*.map")
	fs.Var(&indexFiles, "index-file", "The file(s) served for paths ending with a slash (default: index.html)")
	fs.Var(&autoExtensions, "auto-extension", "The extension(s) tried for paths without one (default: .html)")
	fs.Var(&header, "header", "The additional http header(s) that should be send to the client")
}
