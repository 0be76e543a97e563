package analysis

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Smooth applies a box filter of the given width and returns a series of
// the same length. Output i averages y[i-left .. i+right] where
// right = (window-1)/2 and left = window-1-right; samples outside the
// series count as zero, so edges are pulled toward zero.
func Smooth(y []float64, window int) ([]float64, error) {
	if window < 1 {
		return nil, ErrInvalidWindow
	}
	right := (window - 1) / 2
	left := window - 1 - right
	scale := 1 / float64(window)

	out := make([]float64, len(y))
	for i := range y {
		lo := max(i-left, 0)
		hi := min(i+right+1, len(y))
		out[i] = floats.Sum(y[lo:hi]) * scale
	}
	return out, nil
}

// Envelope is the band mean +/- spread.
type Envelope struct {
	Lower []float64
	Upper []float64
}

func NewEnvelope(mean, spread []float64) (*Envelope, error) {
	if len(mean) != len(spread) {
		return nil, errors.Wrapf(ErrDimensionMismatch, "mean has %d samples, spread %d", len(mean), len(spread))
	}
	env := &Envelope{
		Lower: make([]float64, len(mean)),
		Upper: make([]float64, len(mean)),
	}
	floats.SubTo(env.Lower, mean, spread)
	floats.AddTo(env.Upper, mean, spread)
	return env, nil
}
