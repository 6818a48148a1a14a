package cmd

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zeu5/maxbias-rl/analysis"
	"github.com/zeu5/maxbias-rl/core"
	"github.com/zeu5/maxbias-rl/experiment"
)

func newComparison(rules ...core.Rule) *experiment.Comparison {
	cmp := experiment.NewComparison()
	for _, rule := range rules {
		cmp.AddExperiment(&experiment.Experiment{
			Name: rule.String(),
			Rule: rule,
		})
	}
	if flags.TraceFrom >= 0 {
		cmp.AddAnalysis("traces", analysis.NewTraceAnalyzerConstructor(flags.SavePath, flags.TraceFrom))
	}
	return cmp
}

// addAnalysis records value for every episode and presents the merged curves with fig.
func addAnalysis(cmp *experiment.Comparison, fig analysis.Figure, value analysis.EpisodeValue) {
	cmp.AddAnalysis(
		fig.Name,
		analysis.NewCurveAnalyzerConstructor(value),
		analysis.NewJSONComparator(flags.SavePath, fig),
		analysis.NewPlotComparator(flags.SavePath, fig),
		analysis.NewChartComparator(flags.SavePath, fig),
		analysis.NewSummaryComparator(os.Stdout, fig, flags.Window, !flags.NoColor),
	)
}

func runComparison(cmp *experiment.Comparison) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt) // channel for interrupts from os
	defer signal.Stop(sigCh)

	doneCh := make(chan struct{}) // channel for done signal from application

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("interrupted, stopping runs")
		case <-doneCh:
		}
		cancel()
	}()
	defer close(doneCh)

	start := time.Now()
	log.Info().
		Int("runs", flags.NumRuns).
		Int("episodes", flags.Episodes).
		Int("b-actions", flags.NumBActions).
		Int("parallelism", flags.Parallelism).
		Msg("starting comparison")

	report, err := cmp.Run(ctx, flags.RunConfig(), flags.Parallelism, os.Stdout)
	if err != nil {
		return err
	}
	if failed := report.Errors(); len(failed) > 0 {
		log.Warn().Int("failed", len(failed)).Msg("some runs failed and were left out")
	}
	log.Info().Str("save-path", flags.SavePath).Dur("took", time.Since(start)).Msg("comparison finished")
	return nil
}
