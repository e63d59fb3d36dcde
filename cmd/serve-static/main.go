package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/serve-static/internal/config"
	"gitlab.com/gitlab-org/serve-static/internal/errortracking"
	"gitlab.com/gitlab-org/serve-static/internal/logging"
	"gitlab.com/gitlab-org/serve-static/internal/manifest"
	"gitlab.com/gitlab-org/serve-static/internal/pipeline"
	"gitlab.com/gitlab-org/serve-static/internal/servestatic"
	"gitlab.com/gitlab-org/serve-static/metrics"
)

// VERSION stores the information about the semantic version of application
var VERSION = "dev"

// REVISION stores the information about the git revision of application
var REVISION = "HEAD"

func appMain() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}

	printVersion(cfg.General.ShowVersion, VERSION)

	if err := logging.ConfigureLogging(cfg.Log.Format, cfg.Log.Verbose); err != nil {
		log.WithError(err).Fatal("Failed to initialize logging")
	}

	log.WithFields(log.Fields{
		"version":  VERSION,
		"revision": REVISION,
	}).Print("serve-static daemon")

	config.LogConfig(cfg)

	if err := errortracking.Initialize(cfg.Sentry.DSN, cfg.Sentry.Environment, VERSION); err != nil {
		log.WithError(err).Warn("Failed to initialize error tracking")
	}

	if err := manifest.LoadMIMETypes(); err != nil {
		log.WithError(err).Warn("Loading extended MIME database failed")
	}

	m, err := loadManifest(cfg)
	if err != nil {
		errortracking.CaptureErrWithStackTrace(err)
		log.WithError(err).Fatal("Failed to load assets")
	}

	static, err := servestatic.New(servestatic.Options{
		Root:        cfg.Assets.Root,
		Path:        cfg.Assets.Path,
		AssetServer: manifest.NewServer(m, cfg.ServerOptions()),
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to create serve-static middleware")
	}

	handler, err := pipeline.New(cfg, static)
	if err != nil {
		log.WithError(err).Fatal("Failed to build handler pipeline")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runServers(ctx, cfg, handler); err != nil {
		errortracking.CaptureErrWithStackTrace(err)
		log.WithError(err).Fatal("Server failed")
	}

	log.Info("serve-static stopped")
}

// loadManifest compiles the site from either the archive or the assets
// directory and records its size
func loadManifest(cfg *config.Config) (*manifest.Manifest, error) {
	start := time.Now()

	var (
		m   *manifest.Manifest
		err error
	)

	if cfg.Assets.Archive != "" {
		m, err = manifest.LoadArchiveFile(cfg.Assets.Archive, cfg.ManifestOptions())
	} else {
		m, err = manifest.LoadFS(os.DirFS(cfg.Assets.Dir), cfg.ManifestOptions())
	}
	if err != nil {
		return nil, err
	}

	metrics.ManifestAssets.Set(float64(m.Len()))
	metrics.ManifestLoadDuration.Set(time.Since(start).Seconds())

	log.WithFields(log.Fields{
		"assets":   m.Len(),
		"duration": time.Since(start),
	}).Info("assets loaded")

	return m, nil
}

func printVersion(showVersion bool, version string) {
	if showVersion {
		fmt.Fprintf(os.Stdout, "%s\n", version)
		os.Exit(0)
	}
}

func main() {
	log.SetOutput(os.Stderr)

	metrics.MustRegister()

	appMain()
}
