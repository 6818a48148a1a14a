package cmd

import (
	"github.com/spf13/cobra"
)

var (
	flags = DefaultFlags()
)

func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&flags.SavePath, "save-path", flags.SavePath, "Path to save results")
	cmd.PersistentFlags().IntVar(&flags.NumRuns, "runs", flags.NumRuns, "Number of independent runs")
	cmd.PersistentFlags().IntVar(&flags.Episodes, "episodes", flags.Episodes, "Number of episodes per run")
	cmd.PersistentFlags().Uint64Var(&flags.Seed, "seed", flags.Seed, "Seed of the first run, run i uses seed+i")
	cmd.PersistentFlags().IntVar(&flags.NumBActions, "b-actions", flags.NumBActions, "Number of actions in state B")

	cmd.PersistentFlags().Float64Var(&flags.Epsilon, "epsilon", flags.Epsilon, "Exploration probability")
	cmd.PersistentFlags().Float64Var(&flags.StepSize, "alpha", flags.StepSize, "Step size")
	cmd.PersistentFlags().Float64Var(&flags.Discount, "gamma", flags.Discount, "Discount rate")

	cmd.PersistentFlags().IntVar(&flags.Parallelism, "parallelism", flags.Parallelism, "Number of parallel runs")
	cmd.PersistentFlags().IntVar(&flags.Window, "window", flags.Window, "Number of final episodes summarized")
	cmd.PersistentFlags().IntVar(&flags.TraceFrom, "trace-from", flags.TraceFrom, "Save step traces of the first run starting at this episode (-1 disables)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&flags.NoColor, "no-color", flags.NoColor, "Disable colored output")
}
