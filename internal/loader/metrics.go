package loader

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names.
const (
	MetricFetchTotal   = "prxdash_fetch_total"
	MetricLoadDuration = "prxdash_load_duration_seconds"
)

// Fetch results for labeling.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Metrics counts fetches and times model loads. All operations are thread-safe.
type Metrics struct {
	fetchTotal   *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors. They are not registered; call Register.
func NewMetrics() *Metrics {
	return &Metrics{
		fetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricFetchTotal,
				Help: "Score file fetches by result",
			},
			[]string{"result"},
		),
		loadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricLoadDuration,
				Help:    "Time to fetch and decode every file of one model, in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"dataset"},
		),
	}
}

// Register registers all metrics with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Collectors returns all collectors.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.fetchTotal, m.loadDuration}
}

func (m *Metrics) incFetch(result string) {
	if m == nil {
		return
	}
	m.fetchTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) observeLoad(dataset string, seconds float64) {
	if m == nil {
		return
	}
	m.loadDuration.WithLabelValues(dataset).Observe(seconds)
}
