package baseline

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/prxlab/prxdash/internal/models"
)

// ErrBaselineMissing is returned when the baseline style is absent from the
// aggregate set or has no scored record.
var ErrBaselineMissing = errors.New("baseline style missing")

// StyleDelta compares one style against the baseline style.
// Positive deltas mean the paraphrase scored higher than the original.
type StyleDelta struct {
	Style        string    `json:"style"`
	Deltas       []float64 `json:"deltas"`
	OverallDelta float64   `json:"overall_delta"`
	// Improvement is OverallDelta relative to the baseline overall average,
	// clamped to [-1, 1]. Zero when the baseline overall is zero.
	Improvement float64 `json:"improvement"`
	Improved    int     `json:"improved_metrics"`
	Regressed   int     `json:"regressed_metrics"`
}

// Compare computes a StyleDelta for every scored style other than the
// baseline, ordered by OverallDelta descending then style key.
func Compare(set models.AggregateSet, baselineStyle string) ([]StyleDelta, error) {
	base, ok := set[baselineStyle]
	if !ok || !base.Scored() {
		return nil, fmt.Errorf("%w: %q", ErrBaselineMissing, baselineStyle)
	}

	var out []StyleDelta
	for _, style := range set.ScoredStyles() {
		if style == baselineStyle {
			continue
		}
		out = append(out, ComputeDelta(base, set[style]))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OverallDelta > out[j].OverallDelta
	})
	return out, nil
}

// ComputeDelta compares entry against base metric by metric.
func ComputeDelta(base, entry models.AggregateEntry) StyleDelta {
	n := min(len(base.Averages), len(entry.Averages))
	d := StyleDelta{Style: entry.Style, Deltas: make([]float64, n)}
	for i := 0; i < n; i++ {
		delta := entry.Averages[i] - base.Averages[i]
		d.Deltas[i] = delta
		switch {
		case delta > 0:
			d.Improved++
		case delta < 0:
			d.Regressed++
		}
	}
	d.OverallDelta = entry.OverallAverage - base.OverallAverage
	if base.OverallAverage != 0 {
		d.Improvement = math.Max(-1.0, math.Min(1.0, d.OverallDelta/base.OverallAverage))
	}
	return d
}
