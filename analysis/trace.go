package analysis

import (
	"bytes"
	"fmt"
	"os"
	"path"

	"github.com/rs/zerolog/log"

	"github.com/zeu5/maxbias-rl/core"
	"github.com/zeu5/maxbias-rl/experiment"
	"github.com/zeu5/maxbias-rl/util"
)

// TraceAnalyzer writes the steps of every episode from a threshold onwards
// to <savePath>/traces. Only the first run of an experiment is traced.
type TraceAnalyzer struct {
	savePath string
	exp      string
	// episodes before this one are skipped
	thresholdEpisode int
}

var _ experiment.Analyzer = &TraceAnalyzer{}

func (a *TraceAnalyzer) Analyze(episode int, result *core.EpisodeResult) {
	if episode < a.thresholdEpisode || result.Trace == nil {
		return
	}
	buf := new(bytes.Buffer)
	for i := 0; i < result.Trace.Len(); i++ {
		buf.WriteString(fmt.Sprintf("Step %d\n%s\n", i, stepToString(result.Trace.Step(i))))
	}
	file := path.Join(a.savePath, fmt.Sprintf("%s_trace_%d.txt", a.exp, episode))
	if err := os.WriteFile(file, buf.Bytes(), 0644); err != nil {
		log.Warn().Err(err).Str("file", file).Msg("could not save trace")
	}
}

func stepToString(step *core.Step) string {
	return fmt.Sprintf(
		"State: %s\nAction: %s\nReward: %.4f\nNext State: %s\nTarget: %.4f\nUpdated table: %d\n",
		step.State,
		actionToString(step.State, step.Action),
		step.Reward,
		step.NextState,
		step.Target,
		step.Updated,
	)
}

func actionToString(s core.State, a core.Action) string {
	if s == core.StateA {
		switch a {
		case core.Right:
			return "Right"
		case core.Left:
			return "Left"
		}
	}
	return fmt.Sprintf("%d", int(a))
}

func (a *TraceAnalyzer) DataSet() experiment.DataSet {
	return nil
}

func (a *TraceAnalyzer) Reset() {
	// do nothing
}

// noOpAnalyzer stands in for runs that are not traced.
type noOpAnalyzer struct{}

func (noOpAnalyzer) Analyze(int, *core.EpisodeResult) {}

func (noOpAnalyzer) DataSet() experiment.DataSet {
	return nil
}

func (noOpAnalyzer) Reset() {}

type TraceAnalyzerConstructor struct {
	SavePath         string
	ThresholdEpisode int
}

var _ experiment.AnalyzerConstructor = &TraceAnalyzerConstructor{}

func NewTraceAnalyzerConstructor(savePath string, thresholdEpisode int) *TraceAnalyzerConstructor {
	return &TraceAnalyzerConstructor{
		SavePath:         savePath,
		ThresholdEpisode: thresholdEpisode,
	}
}

func (c *TraceAnalyzerConstructor) NewAnalyzer(exp string, run int) experiment.Analyzer {
	if run != 0 {
		return noOpAnalyzer{}
	}
	savePath := path.Join(c.SavePath, "traces")
	if err := util.EnsureDir(savePath); err != nil {
		log.Warn().Err(err).Str("path", savePath).Msg("could not create traces directory")
	}
	return &TraceAnalyzer{
		savePath:         savePath,
		exp:              util.FileName(exp),
		thresholdEpisode: c.ThresholdEpisode,
	}
}

// Merge has nothing to combine, traces are written while the runs execute.
func (c *TraceAnalyzerConstructor) Merge(_ []experiment.DataSet) experiment.DataSet {
	return nil
}
