package config

import (
	"net/http"
	"time"

	"github.com/namsral/flag"
	log "github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/serve-static/internal/manifest"
)

// Config stores all the config options relevant to serve-static.
type Config struct {
	General   General
	Assets    Assets
	RateLimit RateLimit
	Server    Server
	Log       Log
	Sentry    Sentry

	// Raw strings passed for listen-http. They are used by the daemon to
	// create the listeners.
	ListenHTTPStrings MultiStringFlag
}

// General groups settings that can not be categorized under other head.
type General struct {
	MetricsAddress string
	StatusPath     string
	MaxURILength   int

	DisableCrossOriginRequests bool
	PropagateCorrelationID     bool

	ShowVersion bool

	CustomHeaders []string
}

// Assets groups settings describing where the site comes from and how
// request paths are mapped onto it
type Assets struct {
	Archive       string
	ArchivePrefix string
	Dir           string
	Exclude       []string

	Root string
	Path string

	IndexFiles     []string
	AutoExtensions []string
}

// RateLimit groups the per source IP request limits
type RateLimit struct {
	SourceIPLimitPerSecond float64
	SourceIPBurst          int
}

// Server groups the HTTP server timeouts
type Server struct {
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	ShutdownTimeout   time.Duration
}

// Log groups settings related to configuring logging
type Log struct {
	Format  string
	Verbose bool
}

// Sentry groups settings related to configuring Sentry
type Sentry struct {
	DSN         string
	Environment string
}

// ManifestOptions returns the options the manifest is compiled with
func (c *Config) ManifestOptions() manifest.Options {
	prefix := c.Assets.ArchivePrefix
	if c.Assets.Archive == "" {
		prefix = ""
	}

	return manifest.Options{
		Prefix:  prefix,
		Exclude: c.Assets.Exclude,
	}
}

// ServerOptions returns the options the manifest server matches paths with
func (c *Config) ServerOptions() manifest.ServerOptions {
	return manifest.ServerOptions{
		IndexFiles:     c.Assets.IndexFiles,
		AutoExtensions: c.Assets.AutoExtensions,
	}
}

// Headers parses the custom response headers
func (c *Config) Headers() (http.Header, error) {
	return ParseHeaderString(c.General.CustomHeaders)
}

func loadConfig() (*Config, error) {
	config := &Config{
		General: General{
			MetricsAddress:             *metricsAddress,
			StatusPath:                 *statusPath,
			MaxURILength:               *maxURILength,
			DisableCrossOriginRequests: *disableCrossOriginRequests,
			PropagateCorrelationID:     *propagateCorrelationID,
			CustomHeaders:              header.Split(),
			ShowVersion:                *showVersion,
		},
		Assets: Assets{
			Archive:        *archivePath,
			ArchivePrefix:  *archivePrefix,
			Dir:            *assetsDir,
			Exclude:        exclude.Split(),
			Root:           *root,
			Path:           *explicitPath,
			IndexFiles:     indexFiles.SplitOr(manifest.DefaultIndexFile),
			AutoExtensions: autoExtensions.SplitOr(manifest.DefaultAutoExtension),
		},
		RateLimit: RateLimit{
			SourceIPLimitPerSecond: *rateLimitSourceIP,
			SourceIPBurst:          *rateLimitSourceIPBurst,
		},
		Server: Server{
			ReadTimeout:       *serverReadTimeout,
			ReadHeaderTimeout: *serverReadHeaderTimeout,
			WriteTimeout:      *serverWriteTimeout,
			ShutdownTimeout:   *serverShutdownTimeout,
		},
		Log: Log{
			Format:  *logFormat,
			Verbose: *logVerbose,
		},
		Sentry: Sentry{
			DSN:         *sentryDSN,
			Environment: *sentryEnvironment,
		},

		ListenHTTPStrings: listenHTTP,
	}

	// the version can be shown without a complete configuration
	if config.General.ShowVersion {
		return config, nil
	}

	if err := Validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LogConfig logs the effective configuration at debug level
func LogConfig(config *Config) {
	log.WithFields(log.Fields{
		"archive":                       config.Assets.Archive,
		"archive-prefix":                config.Assets.ArchivePrefix,
		"assets-dir":                    config.Assets.Dir,
		"auto-extension":                config.Assets.AutoExtensions,
		"default-config-filename":       flag.DefaultConfigFlagname,
		"disable-cross-origin-requests": config.General.DisableCrossOriginRequests,
		"exclude":                       config.Assets.Exclude,
		"index-file":                    config.Assets.IndexFiles,
		"listen-http":                   config.ListenHTTPStrings.Split(),
		"log-format":                    config.Log.Format,
		"max-uri-length":                config.General.MaxURILength,
		"metrics-address":               config.General.MetricsAddress,
		"path":                          config.Assets.Path,
		"propagate-correlation-id":      config.General.PropagateCorrelationID,
		"rate-limit-source-ip":          config.RateLimit.SourceIPLimitPerSecond,
		"rate-limit-source-ip-burst":    config.RateLimit.SourceIPBurst,
		"root":                          config.Assets.Root,
		"server-read-timeout":           config.Server.ReadTimeout,
		"server-read-header-timeout":    config.Server.ReadHeaderTimeout,
		"server-write-timeout":          config.Server.WriteTimeout,
		"server-shutdown-timeout":       config.Server.ShutdownTimeout,
		"status-path":                   config.General.StatusPath,
	}).Debug("Start daemon with configuration")
}

// LoadConfig parses configuration settings passed as command line arguments or
// via config file, and populates a Config object with those values
func LoadConfig() (*Config, error) {
	initFlags()

	return loadConfig()
}
