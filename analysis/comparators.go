package analysis

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/logrusorgru/aurora"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/zeu5/maxbias-rl/experiment"
	"github.com/zeu5/maxbias-rl/util"
)

// Figure describes how a merged curve is presented.
type Figure struct {
	Name   string
	Title  string
	YLabel string
	// Values are multiplied by Scale before presenting, e.g. 100 for percentages
	Scale float64
	// Reference is the value an unbiased learner converges to, already scaled
	Reference float64
}

func (f Figure) scaled(c *Curve) []float64 {
	scale := f.Scale
	if scale == 0 {
		scale = 1
	}
	out := make([]float64, len(c.Values))
	for i, v := range c.Values {
		out[i] = v * scale
	}
	return out
}

func curves(datasets []experiment.DataSet) []*Curve {
	out := make([]*Curve, len(datasets))
	for i, d := range datasets {
		if c, ok := d.(*Curve); ok {
			out[i] = c
		}
	}
	return out
}

// JSONComparator saves the merged curves of all experiments to a json file.
type JSONComparator struct {
	savePath string
}

var _ experiment.Comparator = &JSONComparator{}

func NewJSONComparator(savePath string, fig Figure) *JSONComparator {
	return &JSONComparator{
		savePath: path.Join(savePath, fig.Name+".json"),
	}
}

func (j *JSONComparator) Compare(names []string, datasets []experiment.DataSet) error {
	out := make(map[string]*Curve)
	for i, c := range curves(datasets) {
		if c != nil {
			out[names[i]] = c
		}
	}
	return util.SaveJson(j.savePath, out)
}

// PlotComparator draws the merged curves as a png line plot with the reference as a dashed line.
type PlotComparator struct {
	savePath string
	fig      Figure
}

var _ experiment.Comparator = &PlotComparator{}

func NewPlotComparator(savePath string, fig Figure) *PlotComparator {
	return &PlotComparator{
		savePath: path.Join(savePath, fig.Name+".png"),
		fig:      fig,
	}
}

func (p *PlotComparator) Compare(names []string, datasets []experiment.DataSet) error {
	if err := util.EnsureDir(path.Dir(p.savePath)); err != nil {
		return err
	}
	pl := plot.New()
	pl.Title.Text = p.fig.Title
	pl.X.Label.Text = "Episodes"
	pl.Y.Label.Text = p.fig.YLabel
	pl.Legend.Top = true

	episodes := 0
	for i, c := range curves(datasets) {
		if c == nil {
			continue
		}
		values := p.fig.scaled(c)
		points := make(plotter.XYs, len(values))
		for j, v := range values {
			points[j] = plotter.XY{
				X: float64(j + 1),
				Y: v,
			}
		}
		if len(values) > episodes {
			episodes = len(values)
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			return fmt.Errorf("plotting %s: %w", names[i], err)
		}
		line.Color = plotutil.Color(i)
		pl.Add(line)
		pl.Legend.Add(names[i], line)
	}

	if episodes > 0 {
		reference, err := plotter.NewLine(plotter.XYs{
			{X: 1, Y: p.fig.Reference},
			{X: float64(episodes), Y: p.fig.Reference},
		})
		if err != nil {
			return err
		}
		reference.Color = color.Gray{Y: 96}
		reference.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		pl.Add(reference)
		pl.Legend.Add("optimal", reference)
	}

	return pl.Save(8*vg.Inch, 6*vg.Inch, p.savePath)
}

// ChartComparator renders the merged curves as an interactive html chart.
type ChartComparator struct {
	savePath string
	fig      Figure
}

var _ experiment.Comparator = &ChartComparator{}

func NewChartComparator(savePath string, fig Figure) *ChartComparator {
	return &ChartComparator{
		savePath: path.Join(savePath, fig.Name+".html"),
		fig:      fig,
	}
}

func (c *ChartComparator) Compare(names []string, datasets []experiment.DataSet) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: c.fig.Title,
			Theme:     "shine",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: c.fig.Title,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Episodes",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: c.fig.YLabel,
		}),
	)

	all := curves(datasets)
	episodes := 0
	for _, curve := range all {
		if curve != nil && len(curve.Values) > episodes {
			episodes = len(curve.Values)
		}
	}
	steps := make([]string, episodes)
	for i := range steps {
		steps[i] = strconv.Itoa(i + 1)
	}
	line.SetXAxis(steps)

	for i, curve := range all {
		if curve == nil {
			continue
		}
		items := make([]opts.LineData, 0, episodes)
		for _, v := range c.fig.scaled(curve) {
			items = append(items, opts.LineData{Value: v})
		}
		line.AddSeries(names[i], items)
	}
	reference := make([]opts.LineData, episodes)
	for i := range reference {
		reference[i] = opts.LineData{Value: c.fig.Reference}
	}
	line.AddSeries("optimal", reference)

	if err := util.EnsureDir(path.Dir(c.savePath)); err != nil {
		return err
	}
	f, err := os.Create(c.savePath)
	if err != nil {
		return err
	}
	defer f.Close()

	page := components.NewPage()
	page.AddCharts(line)
	return page.Render(f)
}

// SummaryComparator prints the mean of the last window episodes of every experiment
// next to the reference value.
type SummaryComparator struct {
	out    io.Writer
	fig    Figure
	window int
	au     aurora.Aurora
}

var _ experiment.Comparator = &SummaryComparator{}

func NewSummaryComparator(out io.Writer, fig Figure, window int, colors bool) *SummaryComparator {
	return &SummaryComparator{
		out:    out,
		fig:    fig,
		window: window,
		au:     aurora.NewAurora(colors),
	}
}

func (s *SummaryComparator) Compare(names []string, datasets []experiment.DataSet) error {
	fmt.Fprintf(s.out, "%s\n", s.au.Bold(s.fig.Title))
	fmt.Fprintf(s.out, "  %-24s %10s %10s %10s\n", "experiment", "mean", "std", "bias")

	summaries := make([]Summary, 0, len(names))
	for i, c := range curves(datasets) {
		if c == nil {
			fmt.Fprintf(s.out, "  %-24s %s\n", names[i], s.au.Red("no successful runs"))
			continue
		}
		scaled := &Curve{Values: s.fig.scaled(c), Runs: c.Runs}
		summaries = append(summaries, Summarize(names[i], scaled, s.window))
	}

	// the experiment closest to the reference is highlighted
	best := -1
	for i, sum := range summaries {
		if best < 0 || math.Abs(sum.Mean-s.fig.Reference) < math.Abs(summaries[best].Mean-s.fig.Reference) {
			best = i
		}
	}
	for i, sum := range summaries {
		bias := fmt.Sprintf("%+10.4f", sum.Mean-s.fig.Reference)
		if i == best {
			fmt.Fprintf(s.out, "  %-24s %10.4f %10.4f %s\n", sum.Experiment, sum.Mean, sum.StdDev, s.au.Green(bias))
		} else {
			fmt.Fprintf(s.out, "  %-24s %10.4f %10.4f %s\n", sum.Experiment, sum.Mean, sum.StdDev, s.au.Yellow(bias))
		}
	}
	fmt.Fprintf(s.out, "  %-24s %10.4f\n", s.au.Cyan("optimal"), s.fig.Reference)
	return nil
}
