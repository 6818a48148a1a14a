package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownRule = errors.New("unknown update rule")
)

// Rule is the action-value update rule driven by the Simulator.
type Rule int

const (
	QLearning Rule = iota
	DoubleQLearning
	ExpectedSarsa
	DoubleExpectedSarsa
)

var ruleNames = map[Rule]string{
	QLearning:           "Q-learning",
	DoubleQLearning:     "Double Q-learning",
	ExpectedSarsa:       "Expected SARSA",
	DoubleExpectedSarsa: "Double Expected SARSA",
}

func AllRules() []Rule {
	return []Rule{QLearning, DoubleQLearning, ExpectedSarsa, DoubleExpectedSarsa}
}

func (r Rule) String() string {
	if name, ok := ruleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// ParseRule accepts the rule name case insensitively, ignoring spaces, dashes and underscores.
func ParseRule(name string) (Rule, error) {
	key := normalizeRuleName(name)
	for r, n := range ruleNames {
		if normalizeRuleName(n) == key {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRule, name)
}

func normalizeRuleName(name string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(name))
}

func (r Rule) valid() bool {
	_, ok := ruleNames[r]
	return ok
}

// Double reports whether the rule keeps two estimators.
func (r Rule) Double() bool {
	return r == DoubleQLearning || r == DoubleExpectedSarsa
}

func (r Rule) NumTables() int {
	if r.Double() {
		return 2
	}
	return 1
}

// NewTables returns the zero-initialized tables the rule operates on.
func (r Rule) NewTables(env *Environment) []Table {
	tables := make([]Table, r.NumTables())
	for i := range tables {
		tables[i] = NewTable(env)
	}
	return tables
}

type StatisticKind int

const (
	// Number of times Left was chosen in A during the episode
	LeftCountStatistic StatisticKind = iota
	// Largest estimate for B at the end of the episode
	MaxValueBStatistic
)

func (k StatisticKind) String() string {
	if k == LeftCountStatistic {
		return "left-count"
	}
	return "max-value-b"
}

// Statistic is the per-episode statistic the rule reports.
func (r Rule) Statistic() StatisticKind {
	if r == QLearning || r == DoubleQLearning {
		return LeftCountStatistic
	}
	return MaxValueBStatistic
}

// behaviorValues are the estimates the behavior policy acts on in state s.
// Double rules act on the sum of both tables.
func (r Rule) behaviorValues(tables []Table, s State) []float64 {
	if r.Double() {
		return Combined(tables[0], tables[1], s)
	}
	return tables[0].Values(s)
}

// ruleStep is the input to a target computation.
// For single estimator rules update and target are the same table.
type ruleStep struct {
	next   State
	update Table
	target Table
	tables []Table
}

type targetFunc func(*EpsilonGreedy, *ruleStep) float64

var targets = map[Rule]targetFunc{
	QLearning: func(_ *EpsilonGreedy, s *ruleStep) float64 {
		return s.update.Max(s.next)
	},
	DoubleQLearning: func(p *EpsilonGreedy, s *ruleStep) float64 {
		best := p.Argmax(s.update.Values(s.next))
		return s.target.Get(s.next, best)
	},
	ExpectedSarsa: func(p *EpsilonGreedy, s *ruleStep) float64 {
		values := s.update.Values(s.next)
		return p.Expected(values, values)
	},
	DoubleExpectedSarsa: func(p *EpsilonGreedy, s *ruleStep) float64 {
		return p.Expected(Combined(s.tables[0], s.tables[1], s.next), s.target.Values(s.next))
	},
}
