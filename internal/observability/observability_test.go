package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangabook/catalog-api/internal/config"
)

func TestLoggerJSONCarriesService(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, config.LogConfig{Level: "info", Format: "json"})
	log.Info("hello", "k", "v")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "catalog-api", rec["service"])
	assert.Equal(t, "v", rec["k"])
}

func TestLoggerTextAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, config.LogConfig{Level: "warn", Format: "text"})
	log.Info("dropped")
	log.Warn("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "msg=kept")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestMetricsObserve(t *testing.T) {
	m := NewMetrics()

	m.ObserveHTTP(http.MethodGet, "/v1/auth/session", http.StatusOK, 15*time.Millisecond)
	m.ObserveHTTP(http.MethodGet, "/v1/auth/session", http.StatusOK, 5*time.Millisecond)
	m.ObserveRemote("dolar", nil)
	m.ObserveRemote("dolar", errors.New("timeout"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/v1/auth/session", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemoteFetches.WithLabelValues("dolar", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemoteFetches.WithLabelValues("dolar", "error")))
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.ObserveRemote("productos", nil)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.True(t, strings.Contains(body, `mangabook_remote_fetches_total{result="ok",source="productos"} 1`), body)
	assert.Contains(t, body, "go_goroutines")
}
