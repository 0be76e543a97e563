package experiment

import (
	"bytes"
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/stressavg/internal/analysis"
	"github.com/san-kum/stressavg/internal/config"
	"github.com/san-kum/stressavg/internal/dataset"
	"github.com/san-kum/stressavg/internal/export"
	"github.com/san-kum/stressavg/internal/storage"
)

// Result holds every intermediate of one analysis. Mean and Spread are
// smoothed; the raw ones live in Summary.
type Result struct {
	Summary  *analysis.Summary
	Mean     []float64
	Spread   []float64
	Envelope *analysis.Envelope
	Modulus  *analysis.Modulus
	Labels   []string
}

// Report is the condensed outcome printed by the CLI.
type Report struct {
	Runs       []string      `json:"runs"`
	Samples    int           `json:"samples"`
	PeakStress float64       `json:"peak_mean_stress"`
	PeakStrain float64       `json:"peak_strain"`
	MaxSpread  float64       `json:"max_spread"`
	Modulus    ModulusReport `json:"modulus"`
	SummaryCSV string        `json:"summary_csv,omitempty"`
	FigureSVG  string        `json:"figure_svg,omitempty"`
}

type ModulusReport struct {
	Index  int     `json:"index"`
	Strain float64 `json:"strain"`
	Stress float64 `json:"stress"`
	Value  float64 `json:"value_gpa"`
}

type Experiment struct {
	cfg      config.Config
	logger   *zap.Logger
	loader   *dataset.Loader
	store    *storage.Store
	renderer *export.Renderer
}

func New(cfg config.Config, logger *zap.Logger) *Experiment {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Experiment{
		cfg:      cfg,
		logger:   logger,
		loader:   dataset.NewLoader(cfg, logger),
		store:    storage.New(cfg.BaseDir),
		renderer: export.NewRenderer(cfg.Plot),
	}
}

// Analyze loads every run and derives the statistics without touching the
// output directory.
func (e *Experiment) Analyze(ctx context.Context) (*Result, error) {
	ens, err := e.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.logger.Info("averaging", zap.Int("runs", ens.Runs()), zap.Int("samples", ens.Samples()))
	sum, err := analysis.Summarize(ens.Strain, ens.Stress)
	if err != nil {
		return nil, err
	}

	window := e.cfg.Analysis.SmoothWindow
	mean, err := analysis.Smooth(sum.Mean, window)
	if err != nil {
		return nil, err
	}
	spread, err := analysis.Smooth(sum.Spread, window)
	if err != nil {
		return nil, err
	}
	env, err := analysis.NewEnvelope(mean, spread)
	if err != nil {
		return nil, err
	}

	mod, err := analysis.SecantModulus(sum.Strain, mean, e.cfg.Analysis.ReferenceStrain)
	if err != nil {
		return nil, errors.Wrapf(err, "secant modulus at strain %g", e.cfg.Analysis.ReferenceStrain)
	}
	e.logger.Info("secant modulus",
		zap.Int("index", mod.Index),
		zap.Float64("strain", mod.Strain),
		zap.Float64("modulus", mod.Value))

	return &Result{
		Summary:  sum,
		Mean:     mean,
		Spread:   spread,
		Envelope: env,
		Modulus:  mod,
		Labels:   ens.Labels,
	}, nil
}

// Run analyzes and then writes the summary CSV and the figure. Either both
// files are written or neither is.
func (e *Experiment) Run(ctx context.Context) (*Report, error) {
	res, err := e.Analyze(ctx)
	if err != nil {
		return nil, err
	}

	e.logger.Info("rendering figure")
	var svg bytes.Buffer
	if err := e.renderer.Render(&svg, res.Figure()); err != nil {
		return nil, errors.Wrap(err, "render figure")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := e.store.Init(); err != nil {
		return nil, err
	}
	e.logger.Info("writing summary", zap.String("file", e.cfg.Output.SummaryCSV))
	csvPath, err := e.store.SaveSummary(e.cfg.Output.SummaryCSV, res.Summary)
	if err != nil {
		return nil, errors.Wrap(err, "write summary")
	}
	svgPath, err := e.store.Save(e.cfg.Output.FigureSVG, svg.Bytes())
	if err != nil {
		if rmErr := e.store.Remove(e.cfg.Output.SummaryCSV); rmErr != nil {
			e.logger.Error("remove partial summary", zap.String("path", csvPath), zap.Error(rmErr))
		}
		return nil, errors.Wrap(err, "write figure")
	}

	rep := res.Report()
	rep.SummaryCSV = csvPath
	rep.FigureSVG = svgPath
	e.logger.Info("done", zap.String("summary", csvPath), zap.String("figure", svgPath))
	return rep, nil
}

// Figure arranges the result for the two-panel renderer.
func (r *Result) Figure() *export.Figure {
	return &export.Figure{
		Labels:   r.Labels,
		Strain:   r.Summary.Strain,
		Stress:   r.Summary.Stress,
		Mean:     r.Mean,
		Envelope: r.Envelope,
		Modulus:  r.Modulus,
	}
}

func (r *Result) Report() *Report {
	rep := &Report{
		Runs:    r.Labels,
		Samples: r.Summary.Samples(),
		Modulus: ModulusReport{
			Index:  r.Modulus.Index,
			Strain: r.Modulus.Strain,
			Stress: r.Modulus.Stress,
			Value:  r.Modulus.Value,
		},
	}
	if len(r.Mean) > 0 {
		// peak by magnitude; the sign follows the loading direction
		i := floats.MaxIdx(absAll(r.Mean))
		rep.PeakStress = r.Mean[i]
		rep.PeakStrain = r.Summary.Strain[i]
		rep.MaxSpread = floats.Max(r.Spread)
	}
	return rep
}

func absAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		if x < 0 {
			x = -x
		}
		out[i] = x
	}
	return out
}
