package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ad-quality/internal/server/ratelimit"
)

// newTestServer builds a server with rate limiting off unless cfg sets it.
func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.RateLimit == nil {
		cfg.RateLimit = &ratelimit.Config{Enabled: false}
	}
	s := New(cfg)
	t.Cleanup(s.limiter.Stop)
	return s
}

// doJSON sends body as JSON through the full middleware chain.
func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.handleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "ok", decodeBody[map[string]string](t, w)["status"])
}

func TestHealthEndpoint_DatabaseDown(t *testing.T) {
	s := newTestServer(t, Config{Health: stubPinger{err: errors.New("connection refused")}})

	w := doJSON(t, s.Handler(), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decodeBody[map[string]string](t, w)
	assert.Equal(t, "degraded", resp["status"])
	assert.Equal(t, "unreachable", resp["database"])
}

func TestHealthEndpoint_BareServer(t *testing.T) {
	s := &Server{}

	w := httptest.NewRecorder()
	s.handleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouting(t *testing.T) {
	s := newTestServer(t, Config{})

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"unknown path", http.MethodGet, "/nope", http.StatusNotFound},
		{"wrong method", http.MethodGet, "/v1/strength", http.StatusMethodNotAllowed},
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, s.Handler(), tt.method, tt.path, nil)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, Config{})

	w := doJSON(t, s.Handler(), http.MethodGet, "/health", nil)
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, Config{AllowedOrigins: []string{"https://ads.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/v1/strength", nil)
	req.Header.Set("Origin", "https://ads.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, "https://ads.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Less(t, w.Code, 300)

	req = httptest.NewRequest(http.MethodOptions, "/v1/strength", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Config{RateLimit: &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  600,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/v1/strength", Method: http.MethodPost, Limit: 1, Window: time.Minute, Burst: 1},
		},
	}})

	first := doJSON(t, s.Handler(), http.MethodPost, "/v1/strength", `{}`)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, first.Header().Get("X-RateLimit-Reset"))

	second := doJSON(t, s.Handler(), http.MethodPost, "/v1/strength", `{}`)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), `"error":"rate_limit_exceeded"`)

	// probes stay reachable
	health := doJSON(t, s.Handler(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, Config{})

	w := doJSON(t, s.Handler(), http.MethodPost, "/v1/strength", map[string]any{
		"headlines": []string{"Trade Forex Today"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, s.Handler(), http.MethodPost, "/v1/compliance", map[string]any{})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s.Handler(), http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, `ad_quality_ads_scored_total{strength="poor"} 1`)
	assert.Contains(t, body, `ad_quality_http_requests_total{method="POST",route="POST /v1/strength",status="200"} 1`)
	assert.Contains(t, body, `ad_quality_compliance_issues_total{rule="required_field",severity="error"} 2`)
	assert.Contains(t, body, "ad_quality_http_request_duration_seconds_bucket")
}

func TestServersHaveIndependentRegistries(t *testing.T) {
	a := newTestServer(t, Config{})
	b := newTestServer(t, Config{})

	doJSON(t, a.Handler(), http.MethodPost, "/v1/strength", `{}`)

	w := doJSON(t, b.Handler(), http.MethodGet, "/metrics", nil)
	assert.NotContains(t, w.Body.String(), "ad_quality_ads_scored_total{")
}

func TestStartAndShutdown(t *testing.T) {
	s := newTestServer(t, Config{Port: 0})
	s.httpServer.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
