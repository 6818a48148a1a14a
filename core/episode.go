package core

import (
	"errors"
	"fmt"

	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrNilSource  = errors.New("random source is nil")
	ErrTableCount = errors.New("wrong number of action-value tables")
)

// EpisodeResult is what a single episode reports back to the caller.
type EpisodeResult struct {
	Rule Rule
	// Times Left was chosen in A
	LeftCount int
	// max_a Q(B, a) after the episode. Double rules use the average of both tables.
	MaxValueB float64
	Steps     int
	Trace     *Trace
}

// Statistic returns the scalar the rule reports: the left count for the
// Q-learning rules and the B estimate for the Expected SARSA rules.
func (r *EpisodeResult) Statistic() float64 {
	if r.Rule.Statistic() == LeftCountStatistic {
		return float64(r.LeftCount)
	}
	return r.MaxValueB
}

// Simulator runs episodes of the environment, updating caller owned tables in place.
//
// A Simulator draws all of its randomness from the source it was created with and is
// not safe for concurrent use. Runs executed in parallel need their own Simulator,
// source and tables; sharing a table between concurrent episodes is undefined.
type Simulator struct {
	env    *Environment
	config Config

	rand   *erand.Rand
	policy *EpsilonGreedy
	coin   distuv.Bernoulli
}

func NewSimulator(env *Environment, config Config, src erand.Source) (*Simulator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, ErrNilSource
	}
	r := erand.New(src)
	return &Simulator{
		env:    env,
		config: config,
		rand:   r,
		policy: NewEpsilonGreedy(config.Epsilon, r),
		coin:   distuv.Bernoulli{P: 0.5, Src: r},
	}, nil
}

func (s *Simulator) Environment() *Environment {
	return s.env
}

func (s *Simulator) Config() Config {
	return s.config
}

// RunEpisode runs one episode from the start state with the rule, updating tables in place.
// Single estimator rules take one table, double estimator rules take two of the same shape.
// Tables are checked before anything is modified.
func (s *Simulator) RunEpisode(rule Rule, tables ...Table) (*EpisodeResult, error) {
	if err := s.checkTables(rule, tables); err != nil {
		return nil, err
	}

	result := &EpisodeResult{
		Rule:  rule,
		Trace: NewTrace(),
	}
	state := s.env.Start()
	for state != Terminal {
		action := s.policy.Pick(rule.behaviorValues(tables, state))
		if state == StateA && action == Left {
			result.LeftCount++
		}
		reward, next := s.env.Step(state, action, s.rand)
		result.Trace.AddStep(s.Update(rule, tables, state, action, reward, next))
		state = next
	}

	result.Steps = result.Trace.Len()
	result.MaxValueB = maxValueB(tables)
	return result, nil
}

// Update applies one update of the rule for the transition (state, action, reward, next).
// Double rules flip a fair coin to pick the table to update; the other table evaluates the target.
// The target is 0 when next is Terminal. Tables are assumed to be checked by the caller.
func (s *Simulator) Update(rule Rule, tables []Table, state State, action Action, reward float64, next State) *Step {
	updated, evaluated := 0, 0
	if rule.Double() {
		// heads updates the first table
		updated = 1 - int(s.coin.Rand())
		evaluated = 1 - updated
	}
	step := &ruleStep{
		next:   next,
		update: tables[updated],
		target: tables[evaluated],
		tables: tables,
	}

	target := 0.0
	if next != Terminal {
		target = targets[rule](s.policy, step)
	}
	cur := step.update.Get(state, action)
	step.update.Set(state, action, cur+s.config.StepSize*(reward+s.config.Discount*target-cur))

	return &Step{
		State:     state,
		Action:    action,
		Reward:    reward,
		NextState: next,
		Target:    target,
		Updated:   updated,
	}
}

func (s *Simulator) checkTables(rule Rule, tables []Table) error {
	if !rule.valid() {
		return fmt.Errorf("%w: %v", ErrUnknownRule, rule)
	}
	if len(tables) != rule.NumTables() {
		return fmt.Errorf("%w: %v needs %d, got %d", ErrTableCount, rule, rule.NumTables(), len(tables))
	}
	for i, t := range tables {
		if err := t.Check(s.env); err != nil {
			return fmt.Errorf("table %d: %w", i, err)
		}
	}
	return nil
}

func maxValueB(tables []Table) float64 {
	if len(tables) == 1 {
		return tables[0].Max(StateB)
	}
	avg := Combined(tables[0], tables[1], StateB)
	floats.Scale(0.5, avg)
	return floats.Max(avg)
}
