package experiment

import (
	"errors"
	"fmt"

	"github.com/zeu5/maxbias-rl/core"
)

var (
	ErrInvalidRuns     = errors.New("number of runs must be positive")
	ErrInvalidEpisodes = errors.New("number of episodes must be positive")
	ErrNoExperiments   = errors.New("comparison has no experiments")
)

// Experiment is a named update rule to evaluate over many independent runs.
type Experiment struct {
	Name string
	Rule core.Rule
}

type RunConfig struct {
	Runs     int
	Episodes int
	// Run i draws from a source seeded with Seed+i
	Seed        uint64
	NumBActions int
	Config      core.Config
}

func (r *RunConfig) Validate() error {
	if r.Runs < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidRuns, r.Runs)
	}
	if r.Episodes < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidEpisodes, r.Episodes)
	}
	if r.NumBActions < 1 {
		return fmt.Errorf("%w: got %d", core.ErrInvalidBActions, r.NumBActions)
	}
	return r.Config.Validate()
}

type DataSet interface{}

// Analyzer consumes the results of the episodes of a single run.
type Analyzer interface {
	Analyze(int, *core.EpisodeResult)
	DataSet() DataSet
	Reset()
}

type AnalyzerConstructor interface {
	// new analyzer based on experiment name and run
	NewAnalyzer(string, int) Analyzer
	// Merge combines the datasets of the runs of one experiment
	Merge([]DataSet) DataSet
}

// Comparator receives the merged dataset of every experiment, in the order of the names.
type Comparator interface {
	Compare([]string, []DataSet) error
}

type analysis struct {
	name        string
	analyzer    AnalyzerConstructor
	comparators []Comparator
}

type Comparison struct {
	Experiments []*Experiment

	analyses []*analysis
}

func NewComparison() *Comparison {
	return &Comparison{
		Experiments: make([]*Experiment, 0),
		analyses:    make([]*analysis, 0),
	}
}

func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

func (c *Comparison) AddAnalysis(name string, a AnalyzerConstructor, cmps ...Comparator) {
	c.analyses = append(c.analyses, &analysis{
		name:        name,
		analyzer:    a,
		comparators: cmps,
	})
}

func (c *Comparison) experimentNames() []string {
	names := make([]string, len(c.Experiments))
	for i, e := range c.Experiments {
		names[i] = e.Name
	}
	return names
}
