package experiment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	erand "golang.org/x/exp/rand"

	"github.com/zeu5/maxbias-rl/core"
	"github.com/zeu5/maxbias-rl/util"
)

var (
	ErrCancelled = errors.New("context cancelled")
)

const progressEvery = 100

type RunResult struct {
	Experiment        string
	Run               int
	CompletedEpisodes int
	Duration          time.Duration

	Error    error
	Datasets map[string]DataSet
}

func (r *RunResult) IsError() bool {
	return r.Error != nil
}

// Report holds every run result and, per analysis, the merged dataset of each
// experiment aligned with Experiments.
type Report struct {
	Experiments []string
	Results     []*RunResult
	Merged      map[string][]DataSet
}

func (r *Report) Errors() []*RunResult {
	out := make([]*RunResult, 0)
	for _, res := range r.Results {
		if res.IsError() {
			out = append(out, res)
		}
	}
	return out
}

type experimentRunContext struct {
	ctx       context.Context
	run       int
	analyzers map[string]Analyzer
	output    *util.ParallelOutput

	*RunConfig
}

func (e *Experiment) run(ctx *experimentRunContext) *RunResult {
	start := time.Now()
	result := &RunResult{
		Experiment: e.Name,
		Run:        ctx.run,
		Datasets:   make(map[string]DataSet),
	}
	defer func() {
		result.Duration = time.Since(start)
	}()

	env, err := core.NewEnvironment(ctx.NumBActions)
	if err != nil {
		result.Error = err
		return result
	}
	sim, err := core.NewSimulator(env, ctx.Config, erand.NewSource(ctx.Seed+uint64(ctx.run)))
	if err != nil {
		result.Error = err
		return result
	}
	tables := e.Rule.NewTables(env)

	for _, a := range ctx.analyzers {
		a.Reset()
	}

EpisodeLoop:
	for episode := 0; episode < ctx.Episodes; episode++ {
		select {
		case <-ctx.ctx.Done():
			result.Error = ErrCancelled
			break EpisodeLoop
		default:
		}

		if episode%progressEvery == 0 {
			ctx.output.TrySet(fmt.Sprintf(
				"Experiment: %s, Run %d/%d, Episode %d/%d",
				e.Name, ctx.run+1, ctx.Runs, episode, ctx.Episodes,
			))
		}

		episodeResult, err := sim.RunEpisode(e.Rule, tables...)
		if err != nil {
			result.Error = fmt.Errorf("episode %d: %w", episode, err)
			break EpisodeLoop
		}
		for _, a := range ctx.analyzers {
			a.Analyze(episode, episodeResult)
		}
		result.CompletedEpisodes++
	}
	ctx.output.Set(fmt.Sprintf(
		"Experiment: %s, Run %d/%d, Episode %d/%d, Error: %v",
		e.Name, ctx.run+1, ctx.Runs, result.CompletedEpisodes, ctx.Episodes, result.Error,
	))

	for name, a := range ctx.analyzers {
		result.Datasets[name] = a.DataSet()
	}
	return result
}

// parallelWorker is a worker that runs experiments
type parallelWorker struct {
	id     int
	output *util.ParallelOutput
}

// parallelWork is one run of one experiment
type parallelWork struct {
	experiment *Experiment
	comp       *Comparison
	runNumber  int
	rConfig    *RunConfig
}

// Worker main loop that consumes work from a channel
func (w *parallelWorker) run(ctx context.Context, workCh <-chan *parallelWork, resultsCh chan<- *RunResult) {
	for {
		select {
		case <-ctx.Done():
			return
		case work, more := <-workCh:
			if !more {
				return
			}
			resultsCh <- w.runWork(ctx, work)
		}
	}
}

// Run an experiment by constructing the run context with fresh analyzers
func (w *parallelWorker) runWork(ctx context.Context, work *parallelWork) *RunResult {
	eCtx := &experimentRunContext{
		ctx:       ctx,
		run:       work.runNumber,
		analyzers: make(map[string]Analyzer),
		output:    w.output,
		RunConfig: work.rConfig,
	}
	for _, a := range work.comp.analyses {
		eCtx.analyzers[a.name] = a.analyzer.NewAnalyzer(work.experiment.Name, work.runNumber)
	}

	result := work.experiment.run(eCtx)
	if result.IsError() {
		log.Error().Err(result.Error).Str("experiment", result.Experiment).Int("run", result.Run).Int("worker", w.id).Msg("run failed")
	} else {
		log.Debug().Str("experiment", result.Experiment).Int("run", result.Run).Dur("took", result.Duration).Msg("run finished")
	}
	return result
}

// Run executes every experiment for rConfig.Runs independent runs using parallelism
// workers, merges the datasets of the successful runs and hands them to the comparators.
// Progress lines are drawn on progress when it is not nil.
//
// Each run owns its tables and random source, so the merged datasets do not depend on parallelism.
func (c *Comparison) Run(ctx context.Context, rConfig *RunConfig, parallelism int, progress io.Writer) (*Report, error) {
	if err := rConfig.Validate(); err != nil {
		return nil, err
	}
	if len(c.Experiments) == 0 {
		return nil, ErrNoExperiments
	}
	if parallelism < 1 {
		parallelism = 1
	}

	var printer *util.TerminalPrinter
	if progress != nil {
		printer = util.NewTerminalPrinter(progress, 200*time.Millisecond)
	}

	workCh := make(chan *parallelWork)
	resultsCh := make(chan *RunResult, parallelism)
	wg := new(sync.WaitGroup)

	// Start workers
	workers := make([]*parallelWorker, parallelism)
	for i := 0; i < parallelism; i++ {
		workers[i] = &parallelWorker{id: i, output: util.NewParallelOutput()}
		if printer != nil {
			workers[i].output = printer.NewOutput()
		}
	}
	if printer != nil {
		printer.Start(ctx)
	}
	for _, w := range workers {
		wg.Add(1)
		go func(w *parallelWorker) {
			defer wg.Done()
			w.run(ctx, workCh, resultsCh)
		}(w)
	}

	// Send work to workers
	go func() {
		defer close(workCh)
		for run := 0; run < rConfig.Runs; run++ {
			for _, e := range c.Experiments {
				select {
				case <-ctx.Done():
					return
				case workCh <- &parallelWork{
					experiment: e,
					comp:       c,
					runNumber:  run,
					rConfig:    rConfig,
				}:
				}
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	report := &Report{
		Experiments: c.experimentNames(),
		Results:     make([]*RunResult, 0, rConfig.Runs*len(c.Experiments)),
		Merged:      make(map[string][]DataSet),
	}
	for result := range resultsCh {
		report.Results = append(report.Results, result)
	}
	if printer != nil {
		printer.Stop()
	}
	if ctx.Err() != nil {
		return report, ErrCancelled
	}
	sort.Slice(report.Results, func(i, j int) bool {
		if report.Results[i].Run != report.Results[j].Run {
			return report.Results[i].Run < report.Results[j].Run
		}
		return report.Results[i].Experiment < report.Results[j].Experiment
	})

	if err := c.merge(report); err != nil {
		return report, err
	}
	return report, nil
}

// merge combines the datasets of the successful runs per experiment and runs the comparators.
func (c *Comparison) merge(report *Report) error {
	var errs []error
	for _, a := range c.analyses {
		merged := make([]DataSet, len(c.Experiments))
		for i, e := range c.Experiments {
			datasets := make([]DataSet, 0)
			for _, result := range report.Results {
				if result.Experiment != e.Name || result.IsError() {
					continue
				}
				datasets = append(datasets, result.Datasets[a.name])
			}
			if len(datasets) == 0 {
				log.Warn().Str("experiment", e.Name).Str("analysis", a.name).Msg("no successful runs to merge")
				continue
			}
			merged[i] = a.analyzer.Merge(datasets)
		}
		report.Merged[a.name] = merged

		for _, cmp := range a.comparators {
			if err := cmp.Compare(report.Experiments, merged); err != nil {
				errs = append(errs, fmt.Errorf("analysis %s: %w", a.name, err))
			}
		}
	}
	return errors.Join(errs...)
}
