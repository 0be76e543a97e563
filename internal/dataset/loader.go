package dataset

import (
	"bufio"
	"context"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/san-kum/stressavg/internal/config"
)

const maxLineBytes = 1 << 20

// strainTolerance bounds the difference between a run's strain and the
// first run's strain before a warning is logged.
const strainTolerance = 1e-9

// Run is one replicate read from its deformation file.
type Run struct {
	Label  string
	Path   string
	Strain []float64
	Stress []float64
}

// Ensemble holds the shared strain axis and the samples x runs stress matrix.
type Ensemble struct {
	Labels []string
	Strain []float64
	Stress [][]float64
}

func (e *Ensemble) Samples() int { return len(e.Strain) }
func (e *Ensemble) Runs() int    { return len(e.Labels) }

type Loader struct {
	cfg    config.Config
	schema Schema
	logger *zap.Logger
}

func NewLoader(cfg config.Config, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		cfg:    cfg,
		schema: SchemaFromConfig(cfg.Input),
		logger: logger,
	}
}

// Load reads every configured run in order. Strain comes from the first
// run; any failure aborts the whole load.
func (l *Loader) Load(ctx context.Context) (*Ensemble, error) {
	if len(l.cfg.Runs) == 0 {
		return nil, ErrNoRuns
	}

	n := l.cfg.Input.NumData
	ens := &Ensemble{
		Labels: append([]string(nil), l.cfg.Runs...),
		Stress: make([][]float64, n),
	}
	for i := range ens.Stress {
		ens.Stress[i] = make([]float64, len(l.cfg.Runs))
	}

	for j, label := range l.cfg.Runs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		l.logger.Info("reading run", zap.String("run", label))

		run, err := l.ReadRun(label)
		if err != nil {
			return nil, err
		}

		if j == 0 {
			ens.Strain = run.Strain
		} else if off := strainMismatches(ens.Strain, run.Strain); off > 0 {
			l.logger.Warn("strain differs from first run",
				zap.String("run", label),
				zap.Int("samples", off))
		}
		for i, v := range run.Stress {
			ens.Stress[i][j] = v
		}
	}

	return ens, nil
}

func (l *Loader) ReadRun(label string) (*Run, error) {
	path := l.cfg.RunPath(label)
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Run: label, Path: path, Err: err}
	}
	defer f.Close()

	strain, stress, line, err := ReadSeries(f, l.schema, l.cfg.Input.HeaderLines, l.cfg.Input.NumData)
	if err != nil {
		return nil, &LoadError{Run: label, Path: path, Line: line, Err: err}
	}

	return &Run{Label: label, Path: path, Strain: strain, Stress: stress}, nil
}

// ReadSeries skips headerLines lines and reads exactly n data rows. On
// failure it also reports the 1-based line number involved.
func ReadSeries(r io.Reader, schema Schema, headerLines, n int) ([]float64, []float64, int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for ; line < headerLines; line++ {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, nil, line, err
			}
			return nil, nil, line, insufficient(0, n)
		}
	}

	strain := make([]float64, 0, n)
	stress := make([]float64, 0, n)
	for len(stress) < n {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, nil, line, err
			}
			return nil, nil, line, insufficient(len(stress), n)
		}
		line++

		fields, err := schema.Split(sc.Text())
		if err != nil {
			return nil, nil, line, err
		}
		e, err := schema.Float(fields, FieldStrain)
		if err != nil {
			return nil, nil, line, err
		}
		s, err := schema.Float(fields, FieldStress)
		if err != nil {
			return nil, nil, line, err
		}
		strain = append(strain, e)
		stress = append(stress, s)
	}

	return strain, stress, line, nil
}

func insufficient(got, want int) error {
	return errors.Wrapf(ErrInsufficientData, "got %d of %d data rows", got, want)
}

func strainMismatches(ref, other []float64) int {
	off := 0
	for i := range ref {
		if math.Abs(ref[i]-other[i]) > strainTolerance {
			off++
		}
	}
	return off
}
