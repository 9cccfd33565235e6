package aggregate

import (
	"math"
	"sort"

	"github.com/prxlab/prxdash/internal/models"
)

// TopStyles ranks scored styles by OverallAverage, highest first. Ties keep
// lexicographic order. n <= 0 returns every scored style.
func TopStyles(set models.AggregateSet, n int) []models.RankedStyle {
	return rankBy(set, n, func(e models.AggregateEntry) float64 {
		return e.OverallAverage
	})
}

// TopByMetric ranks scored styles by their average on one metric.
// An out-of-range metric yields nil.
func TopByMetric(set models.AggregateSet, metric, n int) []models.RankedStyle {
	if metric < 0 || metric >= metricCountOf(set) {
		return nil
	}
	return rankBy(set, n, func(e models.AggregateEntry) float64 {
		return e.Averages[metric]
	})
}

func rankBy(set models.AggregateSet, n int, score func(models.AggregateEntry) float64) []models.RankedStyle {
	styles := set.ScoredStyles()
	ranked := make([]models.RankedStyle, len(styles))
	for i, s := range styles {
		ranked[i] = models.RankedStyle{Style: s, Score: score(set[s])}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// Variability summarizes each metric over every raw score of every style.
// names, when long enough, labels the metrics.
func Variability(set models.AggregateSet, names []string) []models.MetricVariability {
	metricCount := metricCountOf(set)
	out := make([]models.MetricVariability, metricCount)

	for i := 0; i < metricCount; i++ {
		v := models.MetricVariability{Metric: i, Min: math.Inf(1), Max: math.Inf(-1)}
		if i < len(names) {
			v.Name = names[i]
		}
		sum := 0.0
		for _, style := range set.Styles() {
			for _, x := range set[style].ScoresByMetric[i] {
				v.Min = math.Min(v.Min, x)
				v.Max = math.Max(v.Max, x)
				sum += x
				v.Samples++
			}
		}
		if v.Samples == 0 {
			v.Min, v.Max = 0, 0
		} else {
			v.Mean = sum / float64(v.Samples)
		}
		v.NoVariability = v.Min == v.Max
		out[i] = v
	}
	return out
}
