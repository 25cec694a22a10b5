package simulation

import (
	"errors"
	"math/rand"
	"testing"
)

// scriptedRandom replays fixed uniform draws and always picks the first element.
type scriptedRandom struct {
	floats []float64
	i      int
}

func (r *scriptedRandom) Float64() float64 {
	v := r.floats[r.i%len(r.floats)]
	r.i++
	return v
}

func (r *scriptedRandom) Intn(n int) int { return 0 }

func TestSampleCount_Cumulative(t *testing.T) {
	weights := []float64{2, 1, 1} // total 4: [0,2] -> 1, (2,3] -> 2, (3,4] -> 3
	tests := []struct {
		draw float64
		want int
	}{
		{0.0, 1},
		{0.49, 1},
		{0.5, 1},
		{0.51, 2},
		{0.75, 2},
		{0.76, 3},
		{0.999, 3},
	}

	for _, tt := range tests {
		rng := &scriptedRandom{floats: []float64{tt.draw}}
		got, err := SampleCount(rng, weights)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.want {
			t.Errorf("SampleCount(draw=%v) = %d, want %d", tt.draw, got, tt.want)
		}
	}
}

func TestSampleCount_SingleWeightAlwaysOne(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		n, err := SampleCount(rng, []float64{1.0})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 1 {
			t.Fatalf("Expected 1, got %d", n)
		}
	}
}

func TestSampleCount_Distribution(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	counts := make(map[int]int)
	trials := 20000
	for i := 0; i < trials; i++ {
		n, _ := SampleCount(rng, []float64{0.6, 0.3, 0.1})
		counts[n]++
	}

	share := float64(counts[1]) / float64(trials)
	if share < 0.57 || share > 0.63 {
		t.Errorf("Expected ~60%% singles, got %.3f", share)
	}
	if counts[4] != 0 {
		t.Errorf("Count outside the weight range sampled %d times", counts[4])
	}
}

func TestSampleCount_InvalidWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, w := range [][]float64{nil, {}, {0, 0}} {
		if _, err := SampleCount(rng, w); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("weights %v: expected ErrInvalidConfiguration, got %v", w, err)
		}
	}
}

func TestBernoulli_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		if Bernoulli(rng, 0) {
			t.Fatal("p=0 must never succeed")
		}
		if !Bernoulli(rng, 1) {
			t.Fatal("p=1 must always succeed")
		}
	}
}
