package dataset

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/san-kum/stressavg/internal/config"
)

const (
	FieldStrain = "strain"
	FieldStress = "stress"
)

// Schema names the columns of a deformation file. Rows are split on runs
// of whitespace and must carry at least MinFields fields.
type Schema struct {
	Fields    map[string]int
	MinFields int
}

func SchemaFromConfig(in config.InputConfig) Schema {
	return Schema{
		Fields: map[string]int{
			FieldStrain: in.StrainColumn,
			FieldStress: in.StressColumn,
		},
		MinFields: in.MinFields,
	}
}

// Split breaks a row into fields and checks the field count.
func (s Schema) Split(line string) ([]string, error) {
	fields := strings.Fields(line)
	if len(fields) < s.MinFields {
		return nil, errors.Wrapf(ErrSchemaMismatch, "got %d fields, need at least %d", len(fields), s.MinFields)
	}
	return fields, nil
}

// Float parses the named field of an already split row.
func (s Schema) Float(fields []string, name string) (float64, error) {
	idx, ok := s.Fields[name]
	if !ok {
		return 0, errors.Wrapf(ErrSchemaMismatch, "unknown field %q", name)
	}
	if idx >= len(fields) {
		return 0, errors.Wrapf(ErrSchemaMismatch, "field %q at column %d missing", name, idx)
	}
	v, err := strconv.ParseFloat(fields[idx], 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedField, "field %q = %q", name, fields[idx])
	}
	return v, nil
}
