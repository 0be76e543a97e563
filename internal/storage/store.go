package storage

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"github.com/san-kum/stressavg/internal/analysis"
)

const (
	ColumnStrain = "Strain"
	ColumnMean   = "Stress-avg"
	ColumnSpread = "Stress-error"
)

// ErrBadHeader indicates a summary file whose header is not
// Strain, Stress-1..Stress-N, Stress-avg, Stress-error.
var ErrBadHeader = errors.New("storage: unexpected summary header")

// Store writes output files under a base directory. Every file is written
// to a temporary sibling first and renamed into place.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.baseDir, name)
}

// SaveSummary writes the summary CSV and returns its path.
func (s *Store) SaveSummary(name string, sum *analysis.Summary) (string, error) {
	var buf bytes.Buffer
	if err := EncodeSummary(&buf, sum); err != nil {
		return "", err
	}
	return s.Save(name, buf.Bytes())
}

// Save writes data to name atomically and returns the final path.
func (s *Store) Save(name string, data []byte) (string, error) {
	path := s.Path(name)
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", errors.Wrapf(err, "create %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", errors.Wrapf(err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Wrapf(err, "close %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", errors.Wrapf(err, "commit %s", path)
	}
	return path, nil
}

func (s *Store) Remove(name string) error {
	err := os.Remove(s.Path(name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) LoadSummary(name string) (*analysis.Summary, error) {
	f, err := os.Open(s.Path(name))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeSummary(f)
}

// Header returns the CSV header for the given number of runs.
func Header(runs int) []string {
	header := []string{ColumnStrain}
	for i := 0; i < runs; i++ {
		header = append(header, fmt.Sprintf("Stress-%d", i+1))
	}
	return append(header, ColumnMean, ColumnSpread)
}

func EncodeSummary(w io.Writer, sum *analysis.Summary) error {
	n := sum.Samples()
	if len(sum.Stress) != n || len(sum.Mean) != n || len(sum.Spread) != n {
		return errors.Wrap(analysis.ErrDimensionMismatch, "summary columns differ in length")
	}

	cw := csv.NewWriter(w)
	runs := sum.Runs()
	if err := cw.Write(Header(runs)); err != nil {
		return err
	}

	row := make([]string, runs+3)
	for i := 0; i < n; i++ {
		if len(sum.Stress[i]) != runs {
			return errors.Wrapf(analysis.ErrDimensionMismatch, "sample %d has %d runs, want %d", i, len(sum.Stress[i]), runs)
		}
		row[0] = formatFloat(sum.Strain[i])
		for j, v := range sum.Stress[i] {
			row[j+1] = formatFloat(v)
		}
		row[runs+1] = formatFloat(sum.Mean[i])
		row[runs+2] = formatFloat(sum.Spread[i])
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func DecodeSummary(r io.Reader) (*analysis.Summary, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.Wrap(ErrBadHeader, "empty file")
	}

	header := records[0]
	runs := len(header) - 3
	if runs < 1 {
		return nil, errors.Wrapf(ErrBadHeader, "%d columns", len(header))
	}
	for i, name := range Header(runs) {
		if header[i] != name {
			return nil, errors.Wrapf(ErrBadHeader, "column %d is %q, want %q", i, header[i], name)
		}
	}

	n := len(records) - 1
	sum := &analysis.Summary{
		Strain: make([]float64, n),
		Stress: make([][]float64, n),
		Mean:   make([]float64, n),
		Spread: make([]float64, n),
	}
	for i, rec := range records[1:] {
		vals := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d column %d", i+2, j+1)
			}
			vals[j] = v
		}
		sum.Strain[i] = vals[0]
		sum.Stress[i] = vals[1 : runs+1]
		sum.Mean[i] = vals[runs+1]
		sum.Spread[i] = vals[runs+2]
	}
	return sum, nil
}

// formatFloat writes the shortest decimal that parses back to v.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
