package webapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/prxlab/prxdash/internal/aggregate"
	"github.com/prxlab/prxdash/internal/loader"
	"github.com/prxlab/prxdash/internal/projectconfig"
	"github.com/prxlab/prxdash/internal/session"
)

// Version is set at build time or defaults to dev.
var Version = "0.1.0-dev"

// Handlers holds the HTTP handler methods for the web API.
type Handlers struct {
	store ViewStore
}

// NewHandlers creates a new Handlers with the given store.
func NewHandlers(store ViewStore) *Handlers {
	return &Handlers{store: store}
}

// HandleHealth returns a simple health check response.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// HandleDatasets lists the configured datasets and metric names.
func (h *Handlers) HandleDatasets(w http.ResponseWriter, _ *http.Request) {
	cfg := h.store.Config()
	resp := DatasetsResponse{
		Datasets: make([]DatasetInfo, 0, len(cfg.Datasets)),
		Metrics:  cfg.Metrics.Names,
	}
	for _, d := range cfg.Datasets {
		resp.Datasets = append(resp.Datasets, DatasetInfo{
			Name:       d.Name,
			Models:     d.Models,
			Categories: d.Categories,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleSelect loads a dataset and model and returns the published view.
func (h *Handlers) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
	}
	vm, err := h.store.Load(r.Context(), session.Selection{Dataset: req.Dataset, Model: req.Model})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summarize(vm))
}

// HandleView returns a summary of the current view.
func (h *Handlers) HandleView(w http.ResponseWriter, _ *http.Request) {
	vm := h.store.Current()
	if vm == nil {
		writeError(w, http.StatusServiceUnavailable, ErrNoView.Error())
		return
	}
	writeJSON(w, http.StatusOK, summarize(vm))
}

// HandleStyles returns the aggregate table of the selected model.
func (h *Handlers) HandleStyles(w http.ResponseWriter, _ *http.Request) {
	vm, mv, err := currentModel(h.store)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, StylesResponse{
		Model:      mv.Model,
		Metrics:    vm.MetricNames,
		Thresholds: mv.Thresholds,
		Styles:     styleRows(mv),
	})
}

// HandleStyleDetail returns one style with its raw scores and baseline delta.
func (h *Handlers) HandleStyleDetail(w http.ResponseWriter, r *http.Request) {
	style := r.PathValue("style")
	if style == "" {
		writeError(w, http.StatusBadRequest, "style is required")
		return
	}
	_, mv, err := currentModel(h.store)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	detail, ok := styleDetail(mv, style)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("style %q not found", style))
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// HandleFamilies returns the family rollup of the selected model.
func (h *Handlers) HandleFamilies(w http.ResponseWriter, _ *http.Request) {
	vm, mv, err := currentModel(h.store)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, FamiliesResponse{
		Model:    mv.Model,
		Metrics:  vm.MetricNames,
		Families: mv.Families,
	})
}

// HandleThresholds returns the per-metric highlight thresholds.
func (h *Handlers) HandleThresholds(w http.ResponseWriter, _ *http.Request) {
	vm, mv, err := currentModel(h.store)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ThresholdsResponse{
		Model:      mv.Model,
		Percentile: h.store.Config().Percentile(),
		Metrics:    vm.MetricNames,
		Thresholds: mv.Thresholds,
	})
}

// HandleBest returns the best style of the selected model.
func (h *Handlers) HandleBest(w http.ResponseWriter, _ *http.Request) {
	_, mv, err := currentModel(h.store)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if mv.BestError != "" {
		writeError(w, http.StatusConflict, mv.BestError)
		return
	}
	writeJSON(w, http.StatusOK, BestResponse{Model: mv.Model, Style: mv.Best, Score: mv.BestScore})
}

// HandleMerged returns the cross-model merged table.
func (h *Handlers) HandleMerged(w http.ResponseWriter, _ *http.Request) {
	vm := h.store.Current()
	if vm == nil || vm.Merged == nil {
		writeError(w, http.StatusServiceUnavailable, ErrNoView.Error())
		return
	}
	m := vm.Merged
	writeJSON(w, http.StatusOK, MergedResponse{
		Models:     m.Models,
		Metrics:    vm.MetricNames,
		Thresholds: m.Thresholds,
		Styles:     mergedRows(m),
		Best:       m.Best,
		BestScore:  m.BestScore,
		BestError:  m.BestError,
	})
}

// HandleTop ranks styles by overall average, or by one metric when the
// metric query parameter is given as an index or a metric name.
func (h *Handlers) HandleTop(w http.ResponseWriter, r *http.Request) {
	vm, mv, err := currentModel(h.store)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	n := h.store.Config().TopN()
	if raw := r.URL.Query().Get("n"); raw != "" {
		n, err = strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid n %q", raw))
			return
		}
	}

	resp := TopResponse{Model: mv.Model}
	raw := r.URL.Query().Get("metric")
	if raw == "" {
		resp.Styles = aggregate.TopStyles(mv.Aggregates, n)
		writeJSON(w, http.StatusOK, resp)
		return
	}
	metric, ok := metricIndex(raw, vm.MetricNames)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown metric %q", raw))
		return
	}
	resp.Metric = &metric
	resp.MetricName = vm.MetricNames[metric]
	resp.Styles = aggregate.TopByMetric(mv.Aggregates, metric, n)
	writeJSON(w, http.StatusOK, resp)
}

// RegisterRoutes registers all web API routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, store ViewStore) {
	h := NewHandlers(store)
	mux.HandleFunc("GET /api/health", h.HandleHealth)
	mux.HandleFunc("GET /api/datasets", h.HandleDatasets)
	mux.HandleFunc("POST /api/select", h.HandleSelect)
	mux.HandleFunc("GET /api/view", h.HandleView)
	mux.HandleFunc("GET /api/styles", h.HandleStyles)
	mux.HandleFunc("GET /api/styles/{style}", h.HandleStyleDetail)
	mux.HandleFunc("GET /api/families", h.HandleFamilies)
	mux.HandleFunc("GET /api/thresholds", h.HandleThresholds)
	mux.HandleFunc("GET /api/best", h.HandleBest)
	mux.HandleFunc("GET /api/merged", h.HandleMerged)
	mux.HandleFunc("GET /api/top", h.HandleTop)
}

// CORSMiddleware wraps a handler with CORS headers.
// If allowedOrigins is empty, no CORS header is set (same-origin only).
// Otherwise, the request Origin is checked against the allowed list.
func CORSMiddleware(next http.Handler, allowedOrigins ...string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if len(allowedOrigins) > 0 && origin != "" && allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusFor maps load errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, projectconfig.ErrUnknownDataset), errors.Is(err, session.ErrUnknownModel):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrStale):
		return http.StatusConflict
	case errors.Is(err, loader.ErrNoData):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func metricIndex(raw string, names []string) (int, bool) {
	if i := slices.Index(names, raw); i >= 0 {
		return i, true
	}
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 || i >= len(names) {
		return 0, false
	}
	return i, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg, Code: code})
}
