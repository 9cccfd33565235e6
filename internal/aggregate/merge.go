package aggregate

import "github.com/prxlab/prxdash/internal/models"

// Averages extracts the per-metric average vector of every scored style.
func Averages(set models.AggregateSet) map[string][]float64 {
	out := make(map[string][]float64)
	for _, style := range set.ScoredStyles() {
		avgs := set[style].Averages
		out[style] = append([]float64(nil), avgs...)
	}
	return out
}

// Merge averages each style's vector element-wise across the models that
// carry it. Models lacking a style contribute nothing, so a style seen under
// one model keeps that model's vector.
func Merge(perModel map[string]map[string][]float64) map[string][]float64 {
	sums := make(map[string][]float64)
	counts := make(map[string][]int)

	for _, styles := range perModel {
		for style, vec := range styles {
			s := sums[style]
			c := counts[style]
			if len(vec) > len(s) {
				s = append(s, make([]float64, len(vec)-len(s))...)
				c = append(c, make([]int, len(vec)-len(c))...)
			}
			for i, v := range vec {
				s[i] += v
				c[i]++
			}
			sums[style] = s
			counts[style] = c
		}
	}

	out := make(map[string][]float64, len(sums))
	for style, s := range sums {
		vec := make([]float64, len(s))
		for i := range s {
			if n := counts[style][i]; n > 0 {
				vec[i] = s[i] / float64(n)
			}
		}
		out[style] = vec
	}
	return out
}
