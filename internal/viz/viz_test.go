package viz

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/san-kum/stressavg/internal/experiment"
)

func TestPlot(t *testing.T) {
	out := Plot([]float64{0, -0.1, -0.2}, []float64{0, -2, -3}, "mean stress")
	assert.Contains(t, out, "mean stress, strain 0 to -0.2")
	assert.Greater(t, strings.Count(out, "\n"), 3)

	assert.Empty(t, Plot(nil, nil, "x"))
}

func TestRenderReport(t *testing.T) {
	rep := &experiment.Report{
		Runs:       []string{"1-Series1", "2-Series2"},
		Samples:    5050,
		PeakStress: -7.5,
		PeakStrain: -0.31,
		MaxSpread:  0.25,
		Modulus:    experiment.ModulusReport{Index: 404, Strain: -0.04, Stress: -3.2, Value: 80},
		SummaryCSV: "out/Stress-strain-summary.csv",
	}

	out := RenderReport(rep, []float64{0, -1, -2}, []float64{0, 0.1, 0.2})
	for _, want := range []string{"1-Series1, 2-Series2", "5050", "80.00 GPa", "row 404", "Stress-strain-summary.csv"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "figure")
}

func TestSpreadLine(t *testing.T) {
	assert.Equal(t, "───", SpreadLine(nil, nil, 3))
	assert.Empty(t, SpreadLine([]float64{1}, []float64{1}, 0))

	// relative spread 1%, 1%, 10%, 20%
	mean := []float64{-10, -10, -10, -10}
	spread := []float64{0.1, 0.1, 1, 2}
	out := SpreadLine(mean, spread, 4)
	assert.Equal(t, 4, utf8.RuneCountInString(out))
	assert.True(t, strings.HasSuffix(out, "█"))
	assert.True(t, strings.HasPrefix(out, "▁"))

	// the same spread on a larger mean draws the same shape
	assert.Equal(t, out, SpreadLine([]float64{-100, -100, -100, -100}, []float64{1, 1, 10, 20}, 4))
}

func TestSpreadLineZeroMean(t *testing.T) {
	out := SpreadLine([]float64{0, 0, -2, -2}, []float64{0, 0, 0.2, 0.2}, 2)
	assert.Equal(t, "·█", out)
}

func TestSpreadLineNarrowSeries(t *testing.T) {
	out := SpreadLine([]float64{-1, -1}, []float64{0.1, 0.2}, 40)
	assert.Equal(t, 2, utf8.RuneCountInString(out))
}
