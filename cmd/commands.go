package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zeu5/maxbias-rl/analysis"
	"github.com/zeu5/maxbias-rl/core"
)

func QLearningCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "qlearning",
		Short: "Q-learning against Double Q-learning, % of left actions from A",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmp := newComparison(core.QLearning, core.DoubleQLearning)
			addAnalysis(cmp, analysis.LeftActionFigure(flags.Epsilon), analysis.Statistic)
			return runComparison(cmp)
		},
	}
}

func SarsaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sarsa",
		Short: "Expected SARSA against Double Expected SARSA, estimate of max Q(B, a)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmp := newComparison(core.ExpectedSarsa, core.DoubleExpectedSarsa)
			addAnalysis(cmp, analysis.ValueFigure(), analysis.Statistic)
			return runComparison(cmp)
		},
	}
}

func AllCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "All four update rules with both analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmp := newComparison(core.AllRules()...)
			addAnalysis(cmp, analysis.LeftActionFigure(flags.Epsilon), analysis.LeftAction)
			addAnalysis(cmp, analysis.ValueFigure(), analysis.ValueB)
			return runComparison(cmp)
		},
	}
}
