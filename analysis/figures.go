package analysis

import "github.com/zeu5/maxbias-rl/core"

// LeftActionFigure presents the percentage of episodes choosing Left in A.
// An unbiased learner only goes left when exploring, epsilon/2 of the time.
func LeftActionFigure(epsilon float64) Figure {
	return Figure{
		Name:      "left_actions",
		Title:     "% left actions from A",
		YLabel:    "% left actions from A",
		Scale:     100,
		Reference: 100 * epsilon / 2,
	}
}

// ValueFigure presents the estimate of the best action value in B, whose true value is the mean reward.
func ValueFigure() Figure {
	return Figure{
		Name:      "value_b",
		Title:     "Estimate of max Q(B, a)",
		YLabel:    "max Q(B, a)",
		Scale:     1,
		Reference: core.RewardMeanB,
	}
}
