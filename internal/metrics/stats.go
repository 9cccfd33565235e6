package metrics

import (
	"math"
	"sort"
)

// Mean computes the arithmetic mean of a float64 slice.
// Returns 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Variance computes the population variance of a float64 slice.
// Returns 0 for empty input.
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return varianceAround(values, Mean(values))
}

// StdDev computes the population standard deviation (divides by N).
// Returns 0 when fewer than 2 values are given.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return StdDevAround(values, Mean(values))
}

// StdDevAround is StdDev measured against a mean the caller already computed,
// so the deviation and the reported average are guaranteed to agree.
func StdDevAround(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return math.Sqrt(varianceAround(values, mean))
}

// varianceAround is exactly 0 for a constant sequence, whatever rounding the
// mean picked up.
func varianceAround(values []float64, mean float64) float64 {
	if constant(values) {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return sumSq / float64(len(values))
}

func constant(values []float64) bool {
	if len(values) == 0 {
		return true
	}
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// Percentile returns the p-th quantile (p in [0,1]) of values using linear
// interpolation between closest ranks. p is clamped to [0,1] and NaN is
// treated as 0. The input slice is not modified. Returns 0 for empty input.
func Percentile(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	if math.IsNaN(p) {
		p = 0
	}
	p = math.Max(0, math.Min(1, p))

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	idx := float64(n-1) * p
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(idx-float64(lo))
}

// MinMax returns the smallest and largest value. Both are 0 for empty input.
func MinMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
