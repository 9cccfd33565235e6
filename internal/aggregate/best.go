package aggregate

import (
	"errors"
	"sort"

	"github.com/prxlab/prxdash/internal/metrics"
	"github.com/prxlab/prxdash/internal/models"
)

// ErrNoScoredStyles is returned when a best style is requested from a set
// with no entry that has Count > 0.
var ErrNoScoredStyles = errors.New("no scored styles")

// BestStyle returns the scored style with the highest OverallAverage.
// Styles are visited in lexicographic order and the first maximum wins.
func BestStyle(set models.AggregateSet) (string, float64, error) {
	best, bestScore, found := "", 0.0, false
	for _, style := range set.ScoredStyles() {
		score := set[style].OverallAverage
		if !found || score > bestScore {
			best, bestScore, found = style, score, true
		}
	}
	if !found {
		return "", 0, ErrNoScoredStyles
	}
	return best, bestScore, nil
}

// BestVector is BestStyle over merged style vectors, scored by their mean.
func BestVector(vectors map[string][]float64) (string, float64, error) {
	keys := make([]string, 0, len(vectors))
	for k := range vectors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, bestScore, found := "", 0.0, false
	for _, k := range keys {
		score := metrics.Mean(vectors[k])
		if !found || score > bestScore {
			best, bestScore, found = k, score, true
		}
	}
	if !found {
		return "", 0, ErrNoScoredStyles
	}
	return best, bestScore, nil
}
