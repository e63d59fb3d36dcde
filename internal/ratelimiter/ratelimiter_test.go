package ratelimiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/serve-static/metrics"
)

var validTime = time.Date(2021, 9, 13, 15, 0, 0, 0, time.UTC)

func mockNow() time.Time {
	return validTime
}

func TestSourceIPAllowed(t *testing.T) {
	tcs := map[string]struct {
		limitPerSecond float64
		burst          int
		reqNum         int
	}{
		"one_request_per_second": {
			limitPerSecond: 1,
			burst:          1,
			reqNum:         2,
		},
		"one_request_per_second_but_big_bucket": {
			limitPerSecond: 1,
			burst:          10,
			reqNum:         11,
		},
		"10_requests_per_second": {
			limitPerSecond: 10,
			burst:          10,
			reqNum:         11,
		},
	}

	for tn, tc := range tcs {
		t.Run(tn, func(t *testing.T) {
			rl := New(tc.limitPerSecond, WithNow(mockNow), WithSourceIPBurstSize(tc.burst))

			for i := 0; i < tc.reqNum; i++ {
				got := rl.SourceIPAllowed("172.16.123.1")
				if i < tc.burst {
					require.Truef(t, got, "expected true for request no. %d", i+1)
				} else {
					require.Falsef(t, got, "expected false for request no. %d", i+1)
				}
			}

			require.True(t, rl.SourceIPAllowed("172.16.123.2"), "other source IPs have their own bucket")
		})
	}
}

func TestSourceIPAllowedRefills(t *testing.T) {
	current := validTime
	rl := New(1, WithNow(func() time.Time { return current }), WithSourceIPBurstSize(1))

	require.True(t, rl.SourceIPAllowed("172.16.123.1"))
	require.False(t, rl.SourceIPAllowed("172.16.123.1"))

	current = current.Add(time.Second)
	require.True(t, rl.SourceIPAllowed("172.16.123.1"))
}

func TestSourceIPLimiter(t *testing.T) {
	rl := New(1, WithNow(mockNow), WithSourceIPBurstSize(1))
	handler := rl.SourceIPLimiter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	blocked := testutil.ToFloat64(metrics.RateLimitSourceIPBlockedCount)

	serve := func(remoteAddr string) int {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/index.html", nil)
		r.RemoteAddr = remoteAddr
		handler.ServeHTTP(w, r)

		return w.Code
	}

	require.Equal(t, http.StatusNoContent, serve("10.0.0.1:1000"))
	require.Equal(t, http.StatusTooManyRequests, serve("10.0.0.1:2000"))
	require.Equal(t, http.StatusNoContent, serve("10.0.0.2:1000"))
	require.Equal(t, blocked+1, testutil.ToFloat64(metrics.RateLimitSourceIPBlockedCount))
}

func TestRemoteAddrWithoutPort(t *testing.T) {
	tests := map[string]string{
		"10.0.0.1:1000":      "10.0.0.1",
		"[2001:db8::1]:1000": "2001:db8::1",
		"10.0.0.1":           "10.0.0.1",
	}

	for remoteAddr, expected := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = remoteAddr

		require.Equal(t, expected, remoteAddrWithoutPort(r))
	}
}
