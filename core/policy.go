package core

import (
	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// EpsilonGreedy selects actions from a row of action-value estimates.
// With probability Epsilon it acts uniformly over all actions, otherwise uniformly
// over the actions attaining the maximum estimate.
type EpsilonGreedy struct {
	Epsilon float64

	src erand.Source
}

func NewEpsilonGreedy(epsilon float64, src erand.Source) *EpsilonGreedy {
	return &EpsilonGreedy{
		Epsilon: epsilon,
		src:     src,
	}
}

// Pick draws a single action from the epsilon-greedy distribution over values.
func (p *EpsilonGreedy) Pick(values []float64) Action {
	return Action(sample(Probabilities(values, p.Epsilon), p.src))
}

// Argmax returns one of the maximizing actions, ties broken uniformly at random.
func (p *EpsilonGreedy) Argmax(values []float64) Action {
	return Action(sample(Probabilities(values, 0), p.src))
}

// Expected returns the expectation of target under the epsilon-greedy policy derived from values.
func (p *EpsilonGreedy) Expected(values, target []float64) float64 {
	return floats.Dot(Probabilities(values, p.Epsilon), target)
}

// GreedySet returns the indices of all entries equal to the maximum.
func GreedySet(values []float64) []int {
	if len(values) == 0 {
		panic("greedy set of an empty action set")
	}
	max := floats.Max(values)
	greedy := make([]int, 0, len(values))
	for i, v := range values {
		if v == max {
			greedy = append(greedy, i)
		}
	}
	return greedy
}

// Probabilities returns the epsilon-greedy action distribution for values.
// Every action gets epsilon/N and the greedy actions share the remaining 1-epsilon evenly.
func Probabilities(values []float64, epsilon float64) []float64 {
	greedy := GreedySet(values)
	probs := make([]float64, len(values))
	for i := range probs {
		probs[i] = epsilon / float64(len(values))
	}
	share := (1 - epsilon) / float64(len(greedy))
	for _, i := range greedy {
		probs[i] += share
	}
	return probs
}

// sample draws an index with probability proportional to its weight.
func sample(weights []float64, src erand.Source) int {
	if floats.Sum(weights) <= 0 {
		panic("sampling from weights with no mass")
	}
	for {
		// Take can land on a zero weight entry when the uniform draw is exactly 0
		if i, ok := sampleuv.NewWeighted(weights, src).Take(); ok && weights[i] > 0 {
			return i
		}
	}
}
