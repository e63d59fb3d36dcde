package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/serve-static/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		General: config.General{
			MetricsAddress: "127.0.0.1:0",
		},
		Server: config.Server{
			ReadTimeout:       5 * time.Second,
			ReadHeaderTimeout: time.Second,
			ShutdownTimeout:   5 * time.Second,
		},
	}
	require.NoError(t, cfg.ListenHTTPStrings.Set("127.0.0.1:0"))

	return cfg
}

func TestServeUntilCanceled(t *testing.T) {
	cfg := testConfig(t)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "static")
	})

	listeners, err := createListeners(cfg, handler)
	require.NoError(t, err)
	require.Len(t, listeners, 2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, listeners, cfg.Server)
	}()

	rsp, err := http.Get("http://" + listeners[0].ln.Addr().String() + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(rsp.Body)
	rsp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, "static", string(body))

	rsp, err = http.Get("http://" + listeners[1].ln.Addr().String() + "/metrics")
	require.NoError(t, err)
	rsp.Body.Close()
	require.Equal(t, http.StatusOK, rsp.StatusCode)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("servers did not shut down")
	}
}

func TestCreateListenersInvalidAddress(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, cfg.ListenHTTPStrings.Set("256.0.0.1:http"))

	_, err := createListeners(cfg, http.NotFoundHandler())
	require.Error(t, err)
}

func TestMetricsRouter(t *testing.T) {
	router := metricsRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/other", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoadManifestFromAssetsDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<p>home</p>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "site.css"), []byte("body{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "site.css.map"), []byte("{}"), 0644))

	cfg := testConfig(t)
	cfg.Assets.Dir = dir
	cfg.Assets.Exclude = []string{"**/*.map"}

	m, err := loadManifest(cfg)
	require.NoError(t, err)
	require.Equal(t, []string{"/css/site.css", "/index.html"}, m.Pathnames())
}

func TestLoadManifestMissingArchive(t *testing.T) {
	cfg := testConfig(t)
	cfg.Assets.Archive = filepath.Join(t.TempDir(), "missing.zip")
	cfg.Assets.ArchivePrefix = "public/"

	_, err := loadManifest(cfg)
	require.ErrorIs(t, err, os.ErrNotExist)
}
