package analysis

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Summary is the per-sample table written to the summary CSV.
type Summary struct {
	Strain []float64
	Stress [][]float64 // [sample][run]
	Mean   []float64
	Spread []float64
}

func (s *Summary) Samples() int { return len(s.Strain) }

func (s *Summary) Runs() int {
	if len(s.Stress) == 0 {
		return 0
	}
	return len(s.Stress[0])
}

// Aggregate computes the mean and population standard deviation of every
// row of stress (divide by the run count, no further normalization).
func Aggregate(stress [][]float64) (mean, spread []float64, err error) {
	if len(stress) == 0 || len(stress[0]) == 0 {
		return nil, nil, ErrEmptyInput
	}

	runs := len(stress[0])
	mean = make([]float64, len(stress))
	spread = make([]float64, len(stress))
	for i, row := range stress {
		if len(row) != runs {
			return nil, nil, errors.Wrapf(ErrDimensionMismatch, "sample %d has %d runs, want %d", i, len(row), runs)
		}
		mean[i], spread[i] = stat.PopMeanStdDev(row, nil)
	}
	return mean, spread, nil
}

// Summarize pairs the strain axis and stress matrix with their statistics.
func Summarize(strain []float64, stress [][]float64) (*Summary, error) {
	if len(strain) != len(stress) {
		return nil, errors.Wrapf(ErrDimensionMismatch, "%d strain samples, %d stress samples", len(strain), len(stress))
	}
	mean, spread, err := Aggregate(stress)
	if err != nil {
		return nil, err
	}
	return &Summary{Strain: strain, Stress: stress, Mean: mean, Spread: spread}, nil
}
