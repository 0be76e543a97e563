package dataset

import (
	"fmt"

	"github.com/pkg/errors"
)

// Domain errors for loading run files.
var (
	// ErrInsufficientData indicates a file ended before the expected sample count.
	ErrInsufficientData = errors.New("dataset: insufficient data")

	// ErrMalformedField indicates a field that does not parse as a float.
	ErrMalformedField = errors.New("dataset: malformed numeric field")

	// ErrSchemaMismatch indicates a row with fewer fields than the schema needs.
	ErrSchemaMismatch = errors.New("dataset: row does not match schema")

	// ErrNoRuns indicates an empty run list.
	ErrNoRuns = errors.New("dataset: no runs given")
)

// LoadError wraps an error with the run and file position it came from.
type LoadError struct {
	Run  string
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("run %s: %s:%d: %v", e.Run, e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("run %s: %s: %v", e.Run, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
