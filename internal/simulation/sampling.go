package simulation

import "fmt"

// Random is the source of every draw made by the simulator. *math/rand.Rand
// satisfies it. A Random must not be shared between concurrent runs.
type Random interface {
	Float64() float64
	Intn(n int) int
}

// Bernoulli reports whether a uniform draw in [0,1) falls below p.
func Bernoulli(rng Random, p float64) bool {
	return rng.Float64() < p
}

// PickOne returns a uniformly chosen element of values, which must be non-empty.
func PickOne(rng Random, values []int64) int64 {
	return values[rng.Intn(len(values))]
}

// SampleCount draws a count from {1, 2, ..., len(weights)} where weights[k-1]
// is the unnormalized weight of count k. The draw is scaled to the weight
// total and the smallest count whose cumulative weight reaches it is returned.
func SampleCount(rng Random, weights []float64) (int, error) {
	if len(weights) == 0 {
		return 0, fmt.Errorf("%w: weights must not be empty", ErrInvalidConfiguration)
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0, fmt.Errorf("%w: weights must sum to a positive value", ErrInvalidConfiguration)
	}

	x := rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if x <= acc {
			return i + 1, nil
		}
	}
	// Floating point residue on the last bucket.
	return len(weights), nil
}
