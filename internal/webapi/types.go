package webapi

import (
	"time"

	"github.com/prxlab/prxdash/internal/baseline"
	"github.com/prxlab/prxdash/internal/loader"
	"github.com/prxlab/prxdash/internal/models"
	"github.com/prxlab/prxdash/internal/session"
)

// HealthResponse is the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is returned for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// DatasetInfo describes one configured dataset.
type DatasetInfo struct {
	Name       string   `json:"name"`
	Models     []string `json:"models"`
	Categories []string `json:"categories,omitempty"`
}

// DatasetsResponse lists configured datasets and the metric layout.
type DatasetsResponse struct {
	Datasets []DatasetInfo `json:"datasets"`
	Metrics  []string      `json:"metrics"`
}

// SelectRequest is the body of POST /api/select.
type SelectRequest struct {
	Dataset string `json:"dataset"`
	Model   string `json:"model"`
}

// ViewSummary is the API response for the current view.
type ViewSummary struct {
	Token       uint64                `json:"token"`
	Selection   session.Selection     `json:"selection"`
	Models      []string              `json:"models"`
	Records     int                   `json:"records"`
	Styles      int                   `json:"styles"`
	Best        string                `json:"best,omitempty"`
	BestScore   float64               `json:"bestScore"`
	BestError   string                `json:"bestError,omitempty"`
	Failures    []loader.FetchFailure `json:"failures"`
	GeneratedAt time.Time             `json:"generatedAt"`
}

// StyleRow is one row of the aggregate table.
type StyleRow struct {
	Style     string    `json:"style"`
	Count     int       `json:"count"`
	Averages  []float64 `json:"averages"`
	StdDevs   []float64 `json:"stdDevs"`
	Overall   float64   `json:"overall"`
	Highlight []bool    `json:"highlight"`
}

// StylesResponse is the full aggregate table of the selected model.
type StylesResponse struct {
	Model      string     `json:"model"`
	Metrics    []string   `json:"metrics"`
	Thresholds []float64  `json:"thresholds"`
	Styles     []StyleRow `json:"styles"`
}

// StyleDetail is one style with its raw scores.
type StyleDetail struct {
	StyleRow
	Min            []float64             `json:"min"`
	Max            []float64             `json:"max"`
	ScoresByMetric [][]float64           `json:"scoresByMetric"`
	Baseline       *baseline.StyleDelta `json:"baseline,omitempty"`
}

// FamiliesResponse is the family rollup of the selected model.
type FamiliesResponse struct {
	Model    string             `json:"model"`
	Metrics  []string           `json:"metrics"`
	Families []models.FamilyRow `json:"families"`
}

// ThresholdsResponse holds per-metric highlight thresholds.
type ThresholdsResponse struct {
	Model      string    `json:"model"`
	Percentile float64   `json:"percentile"`
	Metrics    []string  `json:"metrics"`
	Thresholds []float64 `json:"thresholds"`
}

// BestResponse is the best style of the selected model.
type BestResponse struct {
	Model string  `json:"model"`
	Style string  `json:"style"`
	Score float64 `json:"score"`
}

// MergedRow is one style's cross-model vector.
type MergedRow struct {
	Style     string    `json:"style"`
	Averages  []float64 `json:"averages"`
	Overall   float64   `json:"overall"`
	Highlight []bool    `json:"highlight"`
}

// MergedResponse is the cross-model merged table.
type MergedResponse struct {
	Models     []string    `json:"models"`
	Metrics    []string    `json:"metrics"`
	Thresholds []float64   `json:"thresholds"`
	Styles     []MergedRow `json:"styles"`
	Best       string      `json:"best,omitempty"`
	BestScore  float64     `json:"bestScore"`
	BestError  string      `json:"bestError,omitempty"`
}

// TopResponse ranks styles, overall or for one metric.
type TopResponse struct {
	Model      string               `json:"model"`
	Metric     *int                 `json:"metric,omitempty"`
	MetricName string               `json:"metricName,omitempty"`
	Styles     []models.RankedStyle `json:"styles"`
}
