package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

func newTestSimulator(t *testing.T, config Config, seed uint64) *Simulator {
	t.Helper()
	env, err := NewEnvironment(DefaultBActions)
	require.NoError(t, err)
	sim, err := NewSimulator(env, config, erand.NewSource(seed))
	require.NoError(t, err)
	return sim
}

// averageCurves runs independent runs of the rule and returns the per-episode
// mean of the left count and of the B estimate.
func averageCurves(t *testing.T, rule Rule, runs, episodes int, seed uint64) ([]float64, []float64) {
	t.Helper()
	left := make([]float64, episodes)
	valueB := make([]float64, episodes)
	for run := 0; run < runs; run++ {
		sim := newTestSimulator(t, DefaultConfig(), seed+uint64(run))
		tables := rule.NewTables(sim.Environment())
		for e := 0; e < episodes; e++ {
			result, err := sim.RunEpisode(rule, tables...)
			require.NoError(t, err)
			left[e] += float64(result.LeftCount) / float64(runs)
			valueB[e] += result.MaxValueB / float64(runs)
		}
	}
	return left, valueB
}

func TestTerminalValueStaysZero(t *testing.T) {
	for _, rule := range AllRules() {
		sim := newTestSimulator(t, DefaultConfig(), 1)
		tables := rule.NewTables(sim.Environment())
		for e := 0; e < 500; e++ {
			_, err := sim.RunEpisode(rule, tables...)
			require.NoError(t, err, rule.String())
			for _, table := range tables {
				require.Equal(t, []float64{0}, table.Values(Terminal), rule.String())
			}
		}
	}
}

func TestEpisodeHasOneOrTwoTransitions(t *testing.T) {
	for _, rule := range AllRules() {
		sim := newTestSimulator(t, Config{Epsilon: 0.5, StepSize: 0.1, Discount: 1}, 2)
		tables := rule.NewTables(sim.Environment())
		lefts := 0
		for e := 0; e < 300; e++ {
			result, err := sim.RunEpisode(rule, tables...)
			require.NoError(t, err)

			first := result.Trace.Step(0)
			assert.Equal(t, StateA, first.State)
			assert.Equal(t, Terminal, result.Trace.Last().NextState)
			if first.Action == Left {
				lefts++
				require.Equal(t, 2, result.Steps)
				require.Equal(t, 1, result.LeftCount)
				assert.Equal(t, StateB, first.NextState)
				assert.Equal(t, StateB, result.Trace.Step(1).State)
			} else {
				require.Equal(t, 1, result.Steps)
				require.Equal(t, 0, result.LeftCount)
			}
		}
		assert.Greater(t, lefts, 0, rule.String())
	}
}

func TestQLearningUpdate(t *testing.T) {
	sim := newTestSimulator(t, DefaultConfig(), 3)
	table := NewTable(sim.Environment())
	table.Set(StateB, 0, 2.0)
	table.Set(StateB, 1, -1.0)

	step := sim.Update(QLearning, []Table{table}, StateA, Left, 0, StateB)
	assert.InDelta(t, 0.2, table.Get(StateA, Left), 1e-12)
	assert.Equal(t, 0.0, table.Get(StateA, Right))
	assert.Equal(t, 2.0, step.Target)

	// into the terminal state the target is 0
	sim.Update(QLearning, []Table{table}, StateB, 1, 1.0, Terminal)
	assert.InDelta(t, -1.0+0.1*(1.0-(-1.0)), table.Get(StateB, 1), 1e-12)
}

func TestExpectedSarsaUpdate(t *testing.T) {
	sim := newTestSimulator(t, DefaultConfig(), 4)
	table := NewTable(sim.Environment())
	for a := 0; a < DefaultBActions; a++ {
		table.Set(StateB, Action(a), 1.0)
	}
	table.Set(StateB, 3, 2.0)

	step := sim.Update(ExpectedSarsa, []Table{table}, StateA, Left, 0, StateB)
	// greedy action gets 0.9 + 0.01, the others 0.01 each
	want := 0.91*2.0 + 9*0.01*1.0
	assert.InDelta(t, want, step.Target, 1e-12)
	assert.InDelta(t, 0.1*want, table.Get(StateA, Left), 1e-12)
}

func TestDoubleRulesUpdateOneTable(t *testing.T) {
	for _, rule := range []Rule{DoubleQLearning, DoubleExpectedSarsa} {
		sim := newTestSimulator(t, DefaultConfig(), 5)
		tables := rule.NewTables(sim.Environment())
		counts := make([]int, 2)
		for i := 0; i < 1000; i++ {
			before := []Table{tables[0].Copy(), tables[1].Copy()}
			step := sim.Update(rule, tables, StateB, Action(i%DefaultBActions), 1.0, Terminal)

			changed := 0
			for k := range tables {
				if !floats.Equal(before[k].Values(StateB), tables[k].Values(StateB)) {
					changed++
					assert.Equal(t, k, step.Updated)
				}
			}
			require.Equal(t, 1, changed, rule.String())
			counts[step.Updated]++
		}
		assert.InDelta(t, 500, counts[0], 60)
		assert.InDelta(t, 500, counts[1], 60)
	}
}

func TestDoubleQLearningTarget(t *testing.T) {
	sim := newTestSimulator(t, DefaultConfig(), 6)
	tables := DoubleQLearning.NewTables(sim.Environment())
	tables[0].Set(StateB, 0, 1.0)
	tables[1].Set(StateB, 0, 5.0)
	tables[1].Set(StateB, 1, 7.0)

	for i := 0; i < 50; i++ {
		q1, q2 := tables[0].Copy(), tables[1].Copy()
		step := sim.Update(DoubleQLearning, tables, StateA, Left, 0, StateB)
		if step.Updated == 0 {
			// argmax of Q1 at B evaluated with Q2
			assert.Equal(t, q2.Get(StateB, 0), step.Target)
		} else {
			// argmax of Q2 at B evaluated with Q1
			assert.Equal(t, q1.Get(StateB, 1), step.Target)
		}
	}
}

func TestDoubleExpectedSarsaTarget(t *testing.T) {
	env, err := NewEnvironment(2)
	require.NoError(t, err)
	sim, err := NewSimulator(env, DefaultConfig(), erand.NewSource(7))
	require.NoError(t, err)

	tables := DoubleExpectedSarsa.NewTables(env)
	tables[0].Set(StateB, 0, 1.0)
	tables[0].Set(StateB, 1, 0.0)
	tables[1].Set(StateB, 0, 0.0)
	tables[1].Set(StateB, 1, 3.0)

	// combined B row is [1, 3]: action 1 gets 0.95, action 0 gets 0.05
	step := sim.Update(DoubleExpectedSarsa, tables, StateA, Left, 0, StateB)
	if step.Updated == 0 {
		assert.InDelta(t, 0.05*0.0+0.95*3.0, step.Target, 1e-12)
	} else {
		assert.InDelta(t, 0.05*1.0+0.95*0.0, step.Target, 1e-12)
	}
}

func TestRunEpisodeChecksTables(t *testing.T) {
	sim := newTestSimulator(t, DefaultConfig(), 8)

	single := QLearning.NewTables(sim.Environment())
	_, err := sim.RunEpisode(DoubleQLearning, single...)
	assert.ErrorIs(t, err, ErrTableCount)

	other, err := NewEnvironment(DefaultBActions + 1)
	require.NoError(t, err)
	mismatched := []Table{NewTable(sim.Environment()), NewTable(other)}
	_, err = sim.RunEpisode(DoubleExpectedSarsa, mismatched...)
	assert.ErrorIs(t, err, ErrTableShape)
	assert.Equal(t, []float64{0, 0}, mismatched[0].Values(StateA))

	broken := NewTable(sim.Environment())
	broken[Terminal][0] = 1
	_, err = sim.RunEpisode(ExpectedSarsa, broken)
	assert.ErrorIs(t, err, ErrTerminalValue)

	_, err = sim.RunEpisode(Rule(42), single...)
	assert.ErrorIs(t, err, ErrUnknownRule)
}

func TestNewSimulatorRejectsBadConfig(t *testing.T) {
	env, err := NewEnvironment(DefaultBActions)
	require.NoError(t, err)

	_, err = NewSimulator(env, Config{Epsilon: 2, StepSize: 0.1, Discount: 1}, erand.NewSource(1))
	assert.ErrorIs(t, err, ErrInvalidEpsilon)

	_, err = NewSimulator(env, DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrNilSource)
}

func TestSeededRunsAreReproducible(t *testing.T) {
	for _, rule := range AllRules() {
		left1, value1 := averageCurves(t, rule, 2, 100, 99)
		left2, value2 := averageCurves(t, rule, 2, 100, 99)
		assert.Equal(t, left1, left2)
		assert.Equal(t, value1, value2)
	}
}

func TestStatistic(t *testing.T) {
	r := &EpisodeResult{Rule: DoubleQLearning, LeftCount: 1, MaxValueB: -0.3}
	assert.Equal(t, 1.0, r.Statistic())
	r.Rule = ExpectedSarsa
	assert.Equal(t, -0.3, r.Statistic())
}

func TestDoubleQLearningReducesLeftActions(t *testing.T) {
	qLeft, _ := averageCurves(t, QLearning, 50, 300, 1000)
	dqLeft, _ := averageCurves(t, DoubleQLearning, 50, 300, 1000)

	q := floats.Sum(qLeft) / 300
	dq := floats.Sum(dqLeft) / 300
	assert.Greater(t, q, dq+0.1, "Q-learning %.3f, Double Q-learning %.3f", q, dq)
	assert.Less(t, dq, 0.2)
}

func TestExpectedSarsaEstimateOfB(t *testing.T) {
	const episodes = 2000
	for _, rule := range []Rule{ExpectedSarsa, DoubleExpectedSarsa} {
		_, valueB := averageCurves(t, rule, 40, episodes, 2000)
		late := floats.Sum(valueB[episodes/2:]) / float64(episodes/2)
		// max over noisy estimates stays above the true value of -0.1
		assert.Greater(t, late, RewardMeanB, rule.String())
		assert.Less(t, late, 0.0, rule.String())
	}
}
