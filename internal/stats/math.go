package stats

import (
	"math"
	"slices"
)

// Median returns the median of values, averaging the middle pair for even
// counts. It returns 0 for no values.
func Median(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	temp := slices.Clone(values)
	slices.Sort(temp)

	n := len(temp)
	if n%2 == 1 {
		return float64(temp[n/2])
	}
	return float64(temp[n/2-1]+temp[n/2]) / 2.0
}

// Percentile returns the nearest-rank p-th percentile (0 < p <= 1) of values.
func Percentile(values []int, p float64) int {
	if len(values) == 0 {
		return 0
	}
	temp := slices.Clone(values)
	slices.Sort(temp)

	rank := int(math.Ceil(p*float64(len(temp)))) - 1
	rank = max(0, min(rank, len(temp)-1))
	return temp[rank]
}
