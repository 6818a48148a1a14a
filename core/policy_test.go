package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	erand "golang.org/x/exp/rand"
)

func frequencies(n, draws int, pick func() Action) []float64 {
	freq := make([]float64, n)
	for i := 0; i < draws; i++ {
		freq[pick()] += 1 / float64(draws)
	}
	return freq
}

func TestProbabilities(t *testing.T) {
	assert.InDeltaSlice(t, []float64{0.95, 0.05}, Probabilities([]float64{1, 0}, 0.1), 1e-12)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, Probabilities([]float64{1, 1}, 0.1), 1e-12)
	assert.InDeltaSlice(t, []float64{0.25, 0.25, 0.25, 0.25}, Probabilities([]float64{3, 1, 0, 2}, 1), 1e-12)
	assert.InDeltaSlice(t, []float64{0, 0.5, 0.5}, Probabilities([]float64{0, 2, 2}, 0), 1e-12)
}

func TestExpectedTarget(t *testing.T) {
	p := NewEpsilonGreedy(0.1, erand.NewSource(1))

	tied := []float64{1, 1}
	assert.InDelta(t, 1.0, p.Expected(tied, tied), 1e-12)

	values := []float64{1, 0}
	assert.InDelta(t, 0.95, p.Expected(values, values), 1e-12)

	// policy from one row, values from another
	assert.InDelta(t, 0.95*2+0.05*4, p.Expected(values, []float64{2, 4}), 1e-12)
}

func TestPickUniformOverTies(t *testing.T) {
	p := NewEpsilonGreedy(0, erand.NewSource(3))
	values := []float64{0, 0, 0, 0}

	freq := frequencies(4, 40000, func() Action { return p.Pick(values) })
	for _, f := range freq {
		assert.InDelta(t, 0.25, f, 0.02)
	}
}

func TestPickEpsilonOneIgnoresValues(t *testing.T) {
	p := NewEpsilonGreedy(1, erand.NewSource(5))
	values := []float64{5, -1, 0, 2}

	freq := frequencies(4, 40000, func() Action { return p.Pick(values) })
	for _, f := range freq {
		assert.InDelta(t, 0.25, f, 0.02)
	}
}

func TestPickEpsilonZeroOnlyGreedy(t *testing.T) {
	p := NewEpsilonGreedy(0, erand.NewSource(9))
	values := []float64{1, 3, 3, 0}

	freq := frequencies(4, 20000, func() Action { return p.Pick(values) })
	assert.Equal(t, 0.0, freq[0])
	assert.Equal(t, 0.0, freq[3])
	assert.InDelta(t, 0.5, freq[1], 0.02)
	assert.InDelta(t, 0.5, freq[2], 0.02)
}

func TestPickEpsilonMass(t *testing.T) {
	p := NewEpsilonGreedy(0.1, erand.NewSource(11))
	values := []float64{0, 1}

	freq := frequencies(2, 40000, func() Action { return p.Pick(values) })
	assert.InDelta(t, 0.05, freq[0], 0.01)
	assert.InDelta(t, 0.95, freq[1], 0.01)
}

func TestArgmaxBreaksTiesUniformly(t *testing.T) {
	p := NewEpsilonGreedy(0.5, erand.NewSource(13))
	values := []float64{2, -1, 2}

	freq := frequencies(3, 20000, func() Action { return p.Argmax(values) })
	assert.Equal(t, 0.0, freq[1])
	assert.InDelta(t, 0.5, freq[0], 0.02)
	assert.InDelta(t, 0.5, freq[2], 0.02)
}

func TestGreedySet(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, GreedySet([]float64{0, 0, 0}))
	assert.Equal(t, []int{1}, GreedySet([]float64{0, 4, 1}))
	assert.Panics(t, func() { GreedySet(nil) })
	assert.Panics(t, func() { NewEpsilonGreedy(0.1, erand.NewSource(1)).Pick([]float64{}) })
}
