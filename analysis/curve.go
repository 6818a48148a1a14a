package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/zeu5/maxbias-rl/core"
	"github.com/zeu5/maxbias-rl/experiment"
	"github.com/zeu5/maxbias-rl/util"
)

// Curve is a per-episode series of a statistic, averaged over Runs runs.
type Curve struct {
	Values []float64 `json:"values"`
	Runs   int       `json:"runs"`
}

func (c *Curve) Copy() *Curve {
	return &Curve{
		Values: util.CopyFloatSlice(c.Values),
		Runs:   c.Runs,
	}
}

// MergeCurves averages the curves element-wise. Curves of different length are
// truncated to the shortest one.
func MergeCurves(datasets []experiment.DataSet) *Curve {
	curves := make([]*Curve, 0, len(datasets))
	length := -1
	for _, d := range datasets {
		c, ok := d.(*Curve)
		if !ok || c == nil {
			continue
		}
		curves = append(curves, c)
		if length < 0 || len(c.Values) < length {
			length = len(c.Values)
		}
	}
	if len(curves) == 0 {
		return &Curve{Values: []float64{}}
	}

	out := &Curve{Values: make([]float64, length)}
	for _, c := range curves {
		floats.Add(out.Values, c.Values[:length])
		out.Runs += c.Runs
	}
	floats.Scale(1/float64(len(curves)), out.Values)
	return out
}

type Summary struct {
	Experiment string  `json:"experiment"`
	Runs       int     `json:"runs"`
	Window     int     `json:"window"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
}

// Summarize computes the mean and standard deviation of the last window episodes.
func Summarize(name string, c *Curve, window int) Summary {
	values := c.Values
	if window > 0 && window < len(values) {
		values = values[len(values)-window:]
	}
	s := Summary{
		Experiment: name,
		Runs:       c.Runs,
		Window:     len(values),
	}
	if len(values) > 0 {
		s.Mean = stat.Mean(values, nil)
	}
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	return s
}

// EpisodeValue extracts the number recorded for an episode.
type EpisodeValue func(*core.EpisodeResult) float64

// Statistic records the statistic the rule reports.
func Statistic(r *core.EpisodeResult) float64 {
	return r.Statistic()
}

// LeftAction records whether Left was chosen in A.
func LeftAction(r *core.EpisodeResult) float64 {
	return float64(r.LeftCount)
}

// ValueB records the estimate of the best action in B.
func ValueB(r *core.EpisodeResult) float64 {
	return r.MaxValueB
}

type CurveAnalyzer struct {
	value EpisodeValue
	curve *Curve
}

var _ experiment.Analyzer = &CurveAnalyzer{}

func NewCurveAnalyzer(value EpisodeValue) *CurveAnalyzer {
	return &CurveAnalyzer{
		value: value,
		curve: &Curve{Values: make([]float64, 0), Runs: 1},
	}
}

// Analyze expects episodes in order, one call each.
func (c *CurveAnalyzer) Analyze(_ int, result *core.EpisodeResult) {
	c.curve.Values = append(c.curve.Values, c.value(result))
}

func (c *CurveAnalyzer) DataSet() experiment.DataSet {
	return c.curve.Copy()
}

func (c *CurveAnalyzer) Reset() {
	c.curve = &Curve{Values: make([]float64, 0), Runs: 1}
}

type CurveAnalyzerConstructor struct {
	value EpisodeValue
}

var _ experiment.AnalyzerConstructor = &CurveAnalyzerConstructor{}

func NewCurveAnalyzerConstructor(value EpisodeValue) *CurveAnalyzerConstructor {
	return &CurveAnalyzerConstructor{
		value: value,
	}
}

func (c *CurveAnalyzerConstructor) NewAnalyzer(_ string, _ int) experiment.Analyzer {
	return NewCurveAnalyzer(c.value)
}

func (c *CurveAnalyzerConstructor) Merge(datasets []experiment.DataSet) experiment.DataSet {
	return MergeCurves(datasets)
}
