// Package aggregate turns decoded score records into per-style statistics
// and the derived views built on them: family rollups, percentile
// highlighting, best-style selection, cross-model merging and rankings.
//
// Every function here is pure. Inputs are never mutated and each call builds
// fresh output, so callers may share a loaded record slice between loads.
package aggregate

import (
	"github.com/prxlab/prxdash/internal/metrics"
	"github.com/prxlab/prxdash/internal/models"
)

// Aggregate computes one AggregateEntry per style found in records.
//
// A style is any non-reserved field name on any record. A record contributes
// to a style only when the field is an array; each valid score at metric i is
// appended to ScoresByMetric[i] in record order. Averages and StdDevs are
// left at zero for metrics that received no scores.
func Aggregate(records []models.ScoreRecord, metricCount int) models.AggregateSet {
	if metricCount < 0 {
		metricCount = 0
	}
	set := make(models.AggregateSet)

	for _, rec := range records {
		for style := range rec.Styles {
			if _, ok := set[style]; !ok {
				set[style] = newEntry(style, metricCount)
			}
		}
	}

	for _, rec := range records {
		for style, scores := range rec.Styles {
			if !scores.IsArray {
				continue
			}
			entry := set[style]
			entry.Count++
			for i := 0; i < metricCount; i++ {
				if v, ok := scores.At(i); ok {
					entry.ScoresByMetric[i] = append(entry.ScoresByMetric[i], v)
				}
			}
			set[style] = entry
		}
	}

	for style, entry := range set {
		finalize(&entry)
		set[style] = entry
	}
	return set
}

func newEntry(style string, metricCount int) models.AggregateEntry {
	return models.AggregateEntry{
		Style:          style,
		ScoresByMetric: make([][]float64, metricCount),
		Averages:       make([]float64, metricCount),
		StdDevs:        make([]float64, metricCount),
		Min:            make([]float64, metricCount),
		Max:            make([]float64, metricCount),
	}
}

func finalize(entry *models.AggregateEntry) {
	for i, scores := range entry.ScoresByMetric {
		if len(scores) == 0 {
			continue
		}
		avg := metrics.Mean(scores)
		entry.Averages[i] = avg
		entry.StdDevs[i] = metrics.StdDevAround(scores, avg)
		entry.Min[i], entry.Max[i] = metrics.MinMax(scores)
	}
	entry.OverallAverage = metrics.Mean(entry.Averages)
}
