package analysis

import "github.com/pkg/errors"

// Modulus is a secant modulus together with the sample it was taken at.
type Modulus struct {
	Index  int
	Strain float64
	Stress float64
	Value  float64
}

// FindThreshold returns the first index, in the given order, whose strain
// is at or below ref.
func FindThreshold(strain []float64, ref float64) (int, bool) {
	for i, e := range strain {
		if e <= ref {
			return i, true
		}
	}
	return 0, false
}

func SecantModulus(strain, stress []float64, ref float64) (*Modulus, error) {
	if len(strain) != len(stress) {
		return nil, errors.Wrapf(ErrDimensionMismatch, "%d strain samples, %d stress samples", len(strain), len(stress))
	}
	i, ok := FindThreshold(strain, ref)
	if !ok {
		return nil, errors.Wrapf(ErrThresholdNotFound, "no strain <= %g", ref)
	}
	if strain[i] == 0 {
		return nil, errors.Wrapf(ErrThresholdNotFound, "strain at sample %d is zero", i)
	}
	return &Modulus{
		Index:  i,
		Strain: strain[i],
		Stress: stress[i],
		Value:  stress[i] / strain[i],
	}, nil
}
