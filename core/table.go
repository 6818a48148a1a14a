package core

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrTableShape    = errors.New("action-value table has the wrong shape")
	ErrTerminalValue = errors.New("terminal state value must be 0")
)

// Table holds action-value estimates indexed by [state][action].
// The terminal row has a single entry that is always 0.
//
// A Table is owned by the caller and mutated in place by the Simulator.
// It is not safe for concurrent use.
type Table [][]float64

// NewTable returns a zero-initialized table shaped for the environment.
func NewTable(env *Environment) Table {
	t := make(Table, Terminal+1)
	for s := StateA; s <= Terminal; s++ {
		t[s] = make([]float64, env.NumActions(s))
	}
	return t
}

// Values returns the row for the state. The slice aliases the table.
func (t Table) Values(s State) []float64 {
	return t[s]
}

func (t Table) Get(s State, a Action) float64 {
	return t[s][a]
}

func (t Table) Set(s State, a Action, val float64) {
	t[s][a] = val
}

// Max returns the largest estimate in the row of the state.
func (t Table) Max(s State) float64 {
	return floats.Max(t[s])
}

func (t Table) Copy() Table {
	out := make(Table, len(t))
	for s, row := range t {
		out[s] = make([]float64, len(row))
		copy(out[s], row)
	}
	return out
}

// Combined returns the element-wise sum of the two rows for the state.
func Combined(t1, t2 Table, s State) []float64 {
	out := make([]float64, len(t1[s]))
	floats.AddTo(out, t1[s], t2[s])
	return out
}

// Check verifies the table matches the environment and that the terminal value is 0.
func (t Table) Check(env *Environment) error {
	if len(t) != int(Terminal)+1 {
		return fmt.Errorf("%w: %d state rows, want %d", ErrTableShape, len(t), Terminal+1)
	}
	for s := StateA; s <= Terminal; s++ {
		if want := env.NumActions(s); len(t[s]) != want {
			return fmt.Errorf("%w: state %v has %d entries, want %d", ErrTableShape, s, len(t[s]), want)
		}
	}
	if t[Terminal][0] != 0 {
		return ErrTerminalValue
	}
	return nil
}
