package analysis

import "github.com/pkg/errors"

var (
	// ErrEmptyInput indicates a matrix or series with no samples.
	ErrEmptyInput = errors.New("analysis: empty input")

	// ErrDimensionMismatch indicates ragged rows or series of different length.
	ErrDimensionMismatch = errors.New("analysis: dimension mismatch")

	// ErrThresholdNotFound indicates no sample reaches the reference strain.
	ErrThresholdNotFound = errors.New("analysis: reference strain not reached")

	// ErrInvalidWindow indicates a smoothing window below one sample.
	ErrInvalidWindow = errors.New("analysis: smoothing window must be at least 1")
)
