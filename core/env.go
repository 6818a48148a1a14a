package core

import (
	"errors"
	"fmt"
	"math"

	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrInvalidBActions = errors.New("state B needs at least one action")
)

type State int

const (
	StateA State = iota
	StateB
	Terminal
)

var stateNames = [...]string{"A", "B", "Terminal"}

func (s State) String() string {
	if s < StateA || s > Terminal {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Action is an index into the action row of a state.
type Action int

// Actions available in state A
const (
	Right Action = 0
	Left  Action = 1
)

const (
	DefaultBActions = 10

	// Rewards from B follow N(-0.1, 1.0)
	RewardMeanB     = -0.1
	RewardVarianceB = 1.0
)

// Environment is the two-state MDP used to expose maximization bias.
// From A, Right ends the episode with reward 0 and Left moves to B with reward 0.
// Every action in B ends the episode with a reward drawn from N(-0.1, 1).
//
// Environment holds no mutable state and can be shared between goroutines.
type Environment struct {
	numBActions int
	rewardB     distuv.Normal
}

func NewEnvironment(numBActions int) (*Environment, error) {
	if numBActions < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBActions, numBActions)
	}
	return &Environment{
		numBActions: numBActions,
		rewardB: distuv.Normal{
			Mu:    RewardMeanB,
			Sigma: math.Sqrt(RewardVarianceB),
		},
	}, nil
}

func (e *Environment) Start() State {
	return StateA
}

func (e *Environment) NumBActions() int {
	return e.numBActions
}

// NumActions returns the width of the table row for the state.
// Terminal has a single slot that always holds 0.
func (e *Environment) NumActions(s State) int {
	switch s {
	case StateA:
		return 2
	case StateB:
		return e.numBActions
	case Terminal:
		return 1
	}
	panic(fmt.Sprintf("unknown state %v", s))
}

// Actions returns the ordered actions available in the state. Terminal has none.
func (e *Environment) Actions(s State) []Action {
	if s == Terminal {
		return []Action{}
	}
	n := e.NumActions(s)
	actions := make([]Action, n)
	for i := 0; i < n; i++ {
		actions[i] = Action(i)
	}
	return actions
}

// Next is the deterministic transition function.
func (e *Environment) Next(s State, a Action) State {
	if s == Terminal {
		panic("no transitions out of the terminal state")
	}
	if a < 0 || int(a) >= e.NumActions(s) {
		panic(fmt.Sprintf("action %d out of range for state %v", a, s))
	}
	if s == StateA && a == Left {
		return StateB
	}
	return Terminal
}

// Step takes the action in the state and returns the sampled reward and the next state.
// The reward from B is drawn from src on every call.
func (e *Environment) Step(s State, a Action, src erand.Source) (float64, State) {
	next := e.Next(s, a)
	if s == StateA {
		return 0, next
	}
	reward := e.rewardB
	reward.Src = src
	return reward.Rand(), next
}
