package webserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prxlab/prxdash/internal/families"
	"github.com/prxlab/prxdash/internal/loader"
	"github.com/prxlab/prxdash/internal/projectconfig"
	"github.com/prxlab/prxdash/internal/session"
	"github.com/prxlab/prxdash/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gemmaScores = `[
  {"prompt_count": 1, "instruction_original": [5, 5], "instruct_formal": [9, 7], "instruct_casual": [3, 4]},
  {"prompt_count": 2, "instruction_original": [6, 4], "instruct_formal": [8, 8]}
]`

func newTestServer(t *testing.T, opts ...func(*Config)) http.Handler {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "alpaca"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "alpaca", "gemma.json"), []byte(gemmaScores), 0o644))

	cfg := projectconfig.New()
	cfg.Source.Root = root
	cfg.Metrics.Names = []string{"Fluency", "Accuracy"}
	cfg.Datasets = []projectconfig.DatasetConfig{{Name: "alpaca", Models: []string{"gemma", "qwen"}}}

	reg := prometheus.NewRegistry()
	m := loader.NewMetrics()
	require.NoError(t, m.Register(reg))

	l := loader.New(source.NewDir(root), cfg.MetricCount(), loader.WithMetrics(m))
	sess := session.New(cfg, l, session.Settings{
		MetricNames:   cfg.Metrics.Names,
		Families:      families.Set{{Name: "tone", Styles: []string{"instruct_formal", "instruct_casual"}}},
		Percentile:    cfg.Percentile(),
		BaselineStyle: cfg.Baseline.Style,
		TopN:          cfg.TopN(),
	})

	c := Config{Port: 0, Store: sess, Gatherer: reg, NoBrowser: true}
	for _, o := range opts {
		o(&c)
	}
	srv, err := New(c)
	require.NoError(t, err)
	return srv.Handler()
}

func do(handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestNewRequiresStore(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestServer(t)

	rec := do(handler, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	err := json.Unmarshal(rec.Body.Bytes(), &body)
	require.NoError(t, err)
	assert.Equal(t, "ok", body["status"])
}

func TestReportBeforeLoad(t *testing.T) {
	handler := newTestServer(t)

	rec := do(handler, http.MethodGet, "/report", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(handler, http.MethodGet, "/api/styles", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSelectThenReport(t *testing.T) {
	handler := newTestServer(t)

	rec := do(handler, http.MethodPost, "/api/select", `{"dataset":"alpaca"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "instruct_formal", view["best"])
	// qwen has no file, so the load publishes with one isolated failure
	failures, ok := view["failures"].([]any)
	require.True(t, ok)
	assert.Len(t, failures, 1)

	rec = do(handler, http.MethodGet, "/report", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<title>prxdash: alpaca / gemma</title>")
	assert.Contains(t, rec.Body.String(), "<table>")

	rec = do(handler, http.MethodGet, "/report.md", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "# alpaca / gemma"))

	rec = do(handler, http.MethodGet, "/api/best", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestServer(t)

	rec := do(handler, http.MethodPost, "/api/select", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(handler, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `prxdash_fetch_total{result="ok"} 1`)
	assert.Contains(t, body, `prxdash_fetch_total{result="not_found"} 1`)
	assert.Contains(t, body, "prxdash_load_duration_seconds")
}

func TestRootRedirectsToReport(t *testing.T) {
	handler := newTestServer(t)

	rec := do(handler, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/report", rec.Header().Get("Location"))
}

func TestCORSOnAPI(t *testing.T) {
	handler := newTestServer(t, func(c *Config) {
		c.AllowedOrigins = []string{"http://localhost:5173"}
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/select", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownDatasetIsBadRequest(t *testing.T) {
	handler := newTestServer(t)

	rec := do(handler, http.MethodPost, "/api/select", `{"dataset":"dolly"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
