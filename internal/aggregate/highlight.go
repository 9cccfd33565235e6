package aggregate

import (
	"github.com/prxlab/prxdash/internal/metrics"
	"github.com/prxlab/prxdash/internal/models"
)

// DefaultPercentile is the quantile used for highlight thresholds.
const DefaultPercentile = 0.9

// Thresholds returns, per metric, the p-th percentile of the averages of
// every scored style.
func Thresholds(set models.AggregateSet, p float64) []float64 {
	metricCount := metricCountOf(set)
	columns := make([][]float64, metricCount)
	for _, style := range set.ScoredStyles() {
		avgs := set[style].Averages
		for i := 0; i < metricCount && i < len(avgs); i++ {
			columns[i] = append(columns[i], avgs[i])
		}
	}

	out := make([]float64, metricCount)
	for i, col := range columns {
		out[i] = metrics.Percentile(col, p)
	}
	return out
}

// Highlight flags every scored style's metric average that is at or above
// the metric's threshold. Ties at the threshold are all flagged.
func Highlight(set models.AggregateSet, thresholds []float64) map[string][]bool {
	out := make(map[string][]bool)
	for _, style := range set.ScoredStyles() {
		out[style] = HighlightVector(set[style].Averages, thresholds)
	}
	return out
}

// HighlightVector flags each value >= its threshold.
func HighlightVector(values, thresholds []float64) []bool {
	flags := make([]bool, len(values))
	for i, v := range values {
		if i < len(thresholds) && v >= thresholds[i] {
			flags[i] = true
		}
	}
	return flags
}

// VectorThresholds is Thresholds over plain style vectors, as produced by Merge.
func VectorThresholds(vectors map[string][]float64, p float64) []float64 {
	metricCount := 0
	for _, v := range vectors {
		metricCount = max(metricCount, len(v))
	}
	columns := make([][]float64, metricCount)
	for _, v := range vectors {
		for i, x := range v {
			columns[i] = append(columns[i], x)
		}
	}
	out := make([]float64, metricCount)
	for i, col := range columns {
		out[i] = metrics.Percentile(col, p)
	}
	return out
}
