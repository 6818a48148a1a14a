package core

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidEpsilon  = errors.New("invalid epsilon value")
	ErrInvalidStepSize = errors.New("invalid step size")
	ErrInvalidDiscount = errors.New("invalid discount")
)

// Config holds the hyperparameters of the update rules.
type Config struct {
	// Exploration probability
	Epsilon float64
	// Step size, alpha
	StepSize float64
	// Discount rate, gamma
	Discount float64
}

func DefaultConfig() Config {
	return Config{
		Epsilon:  0.1,
		StepSize: 0.1,
		Discount: 1.0,
	}
}

// Validate rejects NaN, infinite and out of range hyperparameters.
func (c Config) Validate() error {
	if !inRange(c.Epsilon, 0, 1) {
		return fmt.Errorf("%w: %v not in [0, 1]", ErrInvalidEpsilon, c.Epsilon)
	}
	if !inRange(c.StepSize, 0, 1) || c.StepSize == 0 {
		return fmt.Errorf("%w: %v not in (0, 1]", ErrInvalidStepSize, c.StepSize)
	}
	if !inRange(c.Discount, 0, 1) {
		return fmt.Errorf("%w: %v not in [0, 1]", ErrInvalidDiscount, c.Discount)
	}
	return nil
}

func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}
