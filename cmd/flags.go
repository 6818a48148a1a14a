package cmd

import (
	"path"
	"runtime"

	"github.com/zeu5/maxbias-rl/core"
	"github.com/zeu5/maxbias-rl/experiment"
	"github.com/zeu5/maxbias-rl/util"
)

type Flags struct {
	SavePath string
	RunFlags
	HyperParameters
	Parallelism int
	Window      int
	// episodes of the first run from TraceFrom onwards are written out, negative disables
	TraceFrom int
	LogLevel  string
	NoColor   bool
}

type RunFlags struct {
	NumRuns     int
	Episodes    int
	Seed        uint64
	NumBActions int
}

type HyperParameters struct {
	Epsilon  float64
	StepSize float64
	Discount float64
}

func DefaultFlags() *Flags {
	config := core.DefaultConfig()
	return &Flags{
		SavePath: "results",
		RunFlags: RunFlags{
			NumRuns:     1000,
			Episodes:    300,
			Seed:        1,
			NumBActions: core.DefaultBActions,
		},
		HyperParameters: HyperParameters{
			Epsilon:  config.Epsilon,
			StepSize: config.StepSize,
			Discount: config.Discount,
		},
		Parallelism: runtime.NumCPU(),
		Window:      100,
		TraceFrom:   -1,
		LogLevel:    "info",
		NoColor:     false,
	}
}

func (f *Flags) Config() core.Config {
	return core.Config{
		Epsilon:  f.Epsilon,
		StepSize: f.StepSize,
		Discount: f.Discount,
	}
}

func (f *Flags) RunConfig() *experiment.RunConfig {
	return &experiment.RunConfig{
		Runs:        f.NumRuns,
		Episodes:    f.Episodes,
		Seed:        f.Seed,
		NumBActions: f.NumBActions,
		Config:      f.Config(),
	}
}

func (f *Flags) Record() error {
	return util.SaveJson(path.Join(f.SavePath, "config.json"), f)
}
