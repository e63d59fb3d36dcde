package main

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"gitlab.com/gitlab-org/serve-static/internal/config"
)

type listener struct {
	name   string
	server *http.Server
	ln     net.Listener
}

func newServer(handler http.Handler, timeouts config.Server) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadTimeout:       timeouts.ReadTimeout,
		ReadHeaderTimeout: timeouts.ReadHeaderTimeout,
		WriteTimeout:      timeouts.WriteTimeout,
	}
}

func metricsRouter() http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet, http.MethodHead)

	return r
}

// createListeners opens every configured socket before any server starts
func createListeners(cfg *config.Config, handler http.Handler) ([]listener, error) {
	var listeners []listener

	add := func(name, addr string, h http.Handler) error {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}

		log.WithField("listener", ln.Addr().String()).Debugf("Set up %s listener", name)
		listeners = append(listeners, listener{name: name, server: newServer(h, cfg.Server), ln: ln})

		return nil
	}

	for _, addr := range cfg.ListenHTTPStrings.Split() {
		if err := add("HTTP", addr, handler); err != nil {
			closeListeners(listeners)
			return nil, err
		}
	}

	if cfg.General.MetricsAddress != "" {
		if err := add("metrics", cfg.General.MetricsAddress, metricsRouter()); err != nil {
			closeListeners(listeners)
			return nil, err
		}
	}

	return listeners, nil
}

func closeListeners(listeners []listener) {
	for _, l := range listeners {
		l.ln.Close()
	}
}

// runServers serves until ctx is done or a server fails, then shuts all
// servers down within the configured timeout
func runServers(ctx context.Context, cfg *config.Config, handler http.Handler) error {
	listeners, err := createListeners(cfg, handler)
	if err != nil {
		return err
	}

	return serve(ctx, listeners, cfg.Server)
}

func serve(ctx context.Context, listeners []listener, timeouts config.Server) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, l := range listeners {
		l := l

		g.Go(func() error {
			log.WithField("listener", l.ln.Addr().String()).Infof("%s server started", l.name)

			if err := l.server.Serve(l.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.ShutdownTimeout)
		defer cancel()

		var result *multierror.Error
		for _, l := range listeners {
			if err := l.server.Shutdown(shutdownCtx); err != nil {
				result = multierror.Append(result, err)
			}
		}

		return result.ErrorOrNil()
	})

	return g.Wait()
}
