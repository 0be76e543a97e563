package experiment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/stressavg/internal/analysis"
	"github.com/san-kum/stressavg/internal/config"
	"github.com/san-kum/stressavg/internal/storage"
)

// writeRuns lays out one deformation file per run with n samples on a
// linear stress-strain curve scaled per run.
func writeRuns(t *testing.T, base string, n int, runs ...string) {
	t.Helper()
	for j, run := range runs {
		var sb strings.Builder
		sb.WriteString("step time strain pxx pyy pzz\n")
		for i := 0; i < n; i++ {
			e := -0.01 * float64(i)
			s := 50 * e * (1 + 0.02*float64(j))
			fmt.Fprintf(&sb, "%d 0.0 %g 0 0 %g\n", i, e, s)
		}
		path := filepath.Join(base, run, "5-Press", "dump", "deformation.txt")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0644))
	}
}

func testConfig(base string, n int) config.Config {
	cfg := config.DefaultConfig()
	cfg.BaseDir = base
	cfg.Input.NumData = n
	cfg.Plot.DPI = 100
	return *cfg
}

func TestAnalyze(t *testing.T) {
	base := t.TempDir()
	cfg := testConfig(base, 20)
	writeRuns(t, base, 20, cfg.Runs...)

	res, err := New(cfg, nil).Analyze(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 20, res.Summary.Samples())
	assert.Equal(t, 3, res.Summary.Runs())
	require.Len(t, res.Mean, 20)
	require.Len(t, res.Spread, 20)
	assert.Equal(t, 4, res.Modulus.Index)
	assert.InDelta(t, -0.04, res.Modulus.Strain, 1e-12)
	assert.InDelta(t, res.Mean[4]/res.Summary.Strain[4], res.Modulus.Value, 1e-12)

	// interior samples of a linear curve survive the box filter
	assert.InDelta(t, res.Summary.Mean[10], res.Mean[10], 1e-9)

	// nothing is written by Analyze
	_, err = os.Stat(storage.New(cfg.BaseDir).Path(cfg.Output.SummaryCSV))
	assert.True(t, os.IsNotExist(err))
}

func TestRunWritesBothOutputs(t *testing.T) {
	base := t.TempDir()
	cfg := testConfig(base, 60)
	writeRuns(t, base, 60, cfg.Runs...)

	rep, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, storage.New(cfg.BaseDir).Path(cfg.Output.SummaryCSV), rep.SummaryCSV)
	assert.Equal(t, storage.New(cfg.BaseDir).Path(cfg.Output.FigureSVG), rep.FigureSVG)
	assert.Equal(t, cfg.Runs, rep.Runs)
	assert.Equal(t, 60, rep.Samples)

	sum, err := storage.New(base).LoadSummary(cfg.Output.SummaryCSV)
	require.NoError(t, err)
	assert.Equal(t, 60, sum.Samples())
	assert.Equal(t, 3, sum.Runs())

	svg, err := os.ReadFile(rep.FigureSVG)
	require.NoError(t, err)
	assert.Contains(t, string(svg), `width="7in"`)
	assert.Contains(t, string(svg), fmt.Sprintf("E=%.2f(GPa)", rep.Modulus.Value))
}

func TestRunThresholdNotFoundWritesNothing(t *testing.T) {
	base := t.TempDir()
	cfg := testConfig(base, 4)
	writeRuns(t, base, 4, cfg.Runs...)

	_, err := New(cfg, nil).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, analysis.ErrThresholdNotFound)

	assert.NoFileExists(t, storage.New(cfg.BaseDir).Path(cfg.Output.SummaryCSV))
	assert.NoFileExists(t, storage.New(cfg.BaseDir).Path(cfg.Output.FigureSVG))
}

func TestRunRemovesSummaryWhenFigureFails(t *testing.T) {
	base := t.TempDir()
	cfg := testConfig(base, 20)
	cfg.Output.FigureSVG = filepath.Join("no", "such", "dir", "figure.svg")
	writeRuns(t, base, 20, cfg.Runs...)

	_, err := New(cfg, nil).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write figure")
	assert.NoFileExists(t, storage.New(cfg.BaseDir).Path(cfg.Output.SummaryCSV))
}

func TestRunCanceled(t *testing.T) {
	base := t.TempDir()
	cfg := testConfig(base, 20)
	writeRuns(t, base, 20, cfg.Runs...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(cfg, nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, storage.New(cfg.BaseDir).Path(cfg.Output.SummaryCSV))
}

func TestReportPeak(t *testing.T) {
	res := &Result{
		Summary: &analysis.Summary{Strain: []float64{0, -0.1, -0.2}},
		Mean:    []float64{0, -5, -3},
		Spread:  []float64{0, 0.2, 0.4},
		Modulus: &analysis.Modulus{Index: 1, Strain: -0.1, Stress: -5, Value: 50},
		Labels:  []string{"a"},
	}

	rep := res.Report()
	assert.Equal(t, -5.0, rep.PeakStress)
	assert.Equal(t, -0.1, rep.PeakStrain)
	assert.Equal(t, 0.4, rep.MaxSpread)
	assert.Equal(t, 50.0, rep.Modulus.Value)
	assert.Empty(t, rep.SummaryCSV)
}
