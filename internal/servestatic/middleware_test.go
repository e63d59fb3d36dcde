package servestatic

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	testlog "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/serve-static/internal/asset"
	"gitlab.com/gitlab-org/serve-static/internal/asset/mock"
)

func nextHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.Header().Set("X-Next", "yes")
		w.WriteHeader(http.StatusTeapot)
		io.WriteString(w, "from next")
	})
}

func TestNewRequiresAssetServer(t *testing.T) {
	m, err := New(Options{Root: "./"})
	require.Nil(t, m)
	require.Equal(t, errNoAssetServer, err)
}

func TestNewRejectsInvalidRoot(t *testing.T) {
	mockCtrl := gomock.NewController(t)

	m, err := New(Options{Root: "%zz", AssetServer: mock.NewMockServer(mockCtrl)})
	require.Nil(t, m)
	require.True(t, errors.Is(err, &PathResolutionError{}))
}

func TestServeMatchedAsset(t *testing.T) {
	tests := []struct {
		name         string
		root         string
		explicitPath string
		url          string
		pathname     string
	}{
		{
			name:     "default_root",
			root:     "./",
			url:      "/index.html",
			pathname: "/index.html",
		},
		{
			name:     "nested_root",
			root:     "./public/",
			url:      "/img/a.png",
			pathname: "/public/img/a.png",
		},
		{
			name:         "explicit_path",
			root:         "./",
			explicitPath: "/fixed.html",
			url:          "/anything/else",
			pathname:     "/fixed.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCtrl := gomock.NewController(t)

			matched := mock.NewMockAsset(mockCtrl)
			server := mock.NewMockServer(mockCtrl)
			server.EXPECT().MatchAsset(tt.pathname).Return(matched, true).Times(1)
			server.EXPECT().
				ServeAsset(gomock.Any(), gomock.Any(), matched, asset.ServeOptions{Cache: asset.CacheNever}).
				DoAndReturn(func(w http.ResponseWriter, r *http.Request, a asset.Asset, opts asset.ServeOptions) error {
					require.Equal(t, tt.url, r.URL.Path)
					w.WriteHeader(http.StatusOK)
					io.WriteString(w, "asset body")
					return nil
				}).
				Times(1)

			m, err := New(Options{Root: tt.root, Path: tt.explicitPath, AssetServer: server})
			require.NoError(t, err)

			var nextCalled bool
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, tt.url, nil)
			m.Handler(nextHandler(&nextCalled)).ServeHTTP(w, r)

			require.False(t, nextCalled)
			require.Equal(t, http.StatusOK, w.Code)
			require.Equal(t, "asset body", w.Body.String())
		})
	}
}

func TestPassThroughWhenNoAssetMatches(t *testing.T) {
	mockCtrl := gomock.NewController(t)

	server := mock.NewMockServer(mockCtrl)
	server.EXPECT().MatchAsset("/public/missing.html").Return(nil, false).Times(1)
	server.EXPECT().ServeAsset(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	m, err := New(Options{Root: "./public/", AssetServer: server})
	require.NoError(t, err)

	var nextCalled bool
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/missing.html?x=1", nil)
	r.Header.Set("Accept", "text/html")
	m.Handler(nextHandler(&nextCalled)).ServeHTTP(w, r)

	require.True(t, nextCalled)
	require.Equal(t, http.StatusTeapot, w.Code)
	require.Equal(t, "from next", w.Body.String())
	require.Equal(t, "yes", w.Header().Get("X-Next"))
	require.Empty(t, w.Header().Get("Cache-Control"))

	require.Equal(t, "/missing.html", r.URL.Path)
	require.Equal(t, "x=1", r.URL.RawQuery)
	require.Equal(t, "text/html", r.Header.Get("Accept"))
}

func TestPassThroughPreservesRequest(t *testing.T) {
	mockCtrl := gomock.NewController(t)

	server := mock.NewMockServer(mockCtrl)
	server.EXPECT().MatchAsset(gomock.Any()).Return(nil, false).Times(1)

	m, err := New(Options{AssetServer: server})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/page", nil)
	var seen *http.Request
	next := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		seen = req
	})

	m.Serve(httptest.NewRecorder(), r, next)
	require.Same(t, r, seen)
}

func TestPassThroughOnResolutionError(t *testing.T) {
	mockCtrl := gomock.NewController(t)

	server := mock.NewMockServer(mockCtrl)
	server.EXPECT().MatchAsset(gomock.Any()).Times(0)
	server.EXPECT().ServeAsset(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	m, err := New(Options{Root: "./", Path: "/100%zz.html", AssetServer: server})
	require.NoError(t, err)

	var nextCalled bool
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/index.html", nil)
	m.Handler(nextHandler(&nextCalled)).ServeHTTP(w, r)

	require.True(t, nextCalled)
	require.Equal(t, http.StatusTeapot, w.Code)
}

func TestServeFailureIsHandedToErrorHandler(t *testing.T) {
	mockCtrl := gomock.NewController(t)

	serveErr := errors.New("publisher unavailable")

	matched := mock.NewMockAsset(mockCtrl)
	server := mock.NewMockServer(mockCtrl)
	server.EXPECT().MatchAsset("/index.html").Return(matched, true)
	server.EXPECT().ServeAsset(gomock.Any(), gomock.Any(), matched, asset.ServeOptions{Cache: asset.CacheNever}).Return(serveErr).Times(1)

	var handled error
	var handledPathname string
	m, err := New(Options{
		AssetServer: server,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, pathname string, err error) {
			handled = err
			handledPathname = pathname
			w.WriteHeader(http.StatusBadGateway)
		},
	})
	require.NoError(t, err)

	var nextCalled bool
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/index.html", nil)
	m.Handler(nextHandler(&nextCalled)).ServeHTTP(w, r)

	require.False(t, nextCalled)
	require.Equal(t, serveErr, handled)
	require.Equal(t, "/index.html", handledPathname)
	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestDefaultErrorHandlerServes500(t *testing.T) {
	mockCtrl := gomock.NewController(t)

	matched := mock.NewMockAsset(mockCtrl)
	server := mock.NewMockServer(mockCtrl)
	server.EXPECT().MatchAsset("/index.html").Return(matched, true)
	server.EXPECT().ServeAsset(gomock.Any(), gomock.Any(), matched, gomock.Any()).Return(errors.New("boom"))

	m, err := New(Options{AssetServer: server})
	require.NoError(t, err)

	hook := testlog.NewGlobal()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/index.html", nil)
	m.Serve(w, r, http.NotFoundHandler())

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotNil(t, hook.LastEntry())
	require.Equal(t, "/index.html", hook.LastEntry().Data["pathname"])
}
