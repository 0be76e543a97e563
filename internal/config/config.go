package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultNumData         = 5050
	DefaultInputPath       = "5-Press/dump/deformation.txt"
	DefaultStrainColumn    = 2
	DefaultStressColumn    = 5
	DefaultMinFields       = 6
	DefaultSmoothWindow    = 9
	DefaultStrainMin       = -0.4
	DefaultStrainMax       = 0.0
	DefaultReferenceStrain = -0.04
	DefaultSummaryCSV      = "Stress-strain-summary.csv"
	DefaultFigureSVG       = "Stress-Strain-Summary.svg"
	DefaultWidthIn         = 7.0
	DefaultHeightIn        = 3.9375
	DefaultDPI             = 1200.0
	DefaultFontSize        = 10.0
)

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	BaseDir  string         `yaml:"base_dir"`
	Runs     []string       `yaml:"runs"`
	Input    InputConfig    `yaml:"input"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Plot     PlotConfig     `yaml:"plot"`
	Output   OutputConfig   `yaml:"output"`
}

type InputConfig struct {
	NumData      int    `yaml:"num_data"`
	Path         string `yaml:"path"`
	HeaderLines  int    `yaml:"header_lines"`
	StrainColumn int    `yaml:"strain_column"`
	StressColumn int    `yaml:"stress_column"`
	MinFields    int    `yaml:"min_fields"`
}

type AnalysisConfig struct {
	SmoothWindow    int     `yaml:"smooth_window"`
	ReferenceStrain float64 `yaml:"reference_strain"`
}

type PlotConfig struct {
	StrainMin   float64  `yaml:"strain_min"`
	StrainMax   float64  `yaml:"strain_max"`
	WidthIn     float64  `yaml:"width_in"`
	HeightIn    float64  `yaml:"height_in"`
	DPI         float64  `yaml:"dpi"`
	FontSize    float64  `yaml:"font_size"`
	Colors      []string `yaml:"colors"`
	StressLabel string   `yaml:"stress_label"`
}

type OutputConfig struct {
	SummaryCSV string `yaml:"summary_csv"`
	FigureSVG  string `yaml:"figure_svg"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseDir: ".",
		Runs:    []string{"1-Series1", "2-Series2", "3-Series3"},
		Input: InputConfig{
			NumData:      DefaultNumData,
			Path:         DefaultInputPath,
			HeaderLines:  1,
			StrainColumn: DefaultStrainColumn,
			StressColumn: DefaultStressColumn,
			MinFields:    DefaultMinFields,
		},
		Analysis: AnalysisConfig{
			SmoothWindow:    DefaultSmoothWindow,
			ReferenceStrain: DefaultReferenceStrain,
		},
		Plot: PlotConfig{
			StrainMin:   DefaultStrainMin,
			StrainMax:   DefaultStrainMax,
			WidthIn:     DefaultWidthIn,
			HeightIn:    DefaultHeightIn,
			DPI:         DefaultDPI,
			FontSize:    DefaultFontSize,
			Colors:      []string{"#DA291C", "#56A8CB", "#53A567"},
			StressLabel: "Stress (GPa)",
		},
		Output: OutputConfig{
			SummaryCSV: DefaultSummaryCSV,
			FigureSVG:  DefaultFigureSVG,
		},
	}
}

// Load reads a YAML file on top of DefaultConfig. Keys absent from the
// file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case len(c.Runs) == 0:
		return errors.Wrap(ErrInvalid, "at least one run is required")
	case c.Input.NumData <= 0:
		return errors.Wrapf(ErrInvalid, "num_data must be positive, got %d", c.Input.NumData)
	case c.Input.HeaderLines < 0:
		return errors.Wrapf(ErrInvalid, "header_lines must not be negative, got %d", c.Input.HeaderLines)
	case c.Input.StrainColumn < 0 || c.Input.StressColumn < 0:
		return errors.Wrap(ErrInvalid, "column indices must not be negative")
	case c.Input.MinFields <= c.Input.StrainColumn || c.Input.MinFields <= c.Input.StressColumn:
		return errors.Wrapf(ErrInvalid, "min_fields %d does not cover strain/stress columns", c.Input.MinFields)
	case c.Analysis.SmoothWindow < 1:
		return errors.Wrapf(ErrInvalid, "smooth_window must be at least 1, got %d", c.Analysis.SmoothWindow)
	case c.Plot.StrainMin >= c.Plot.StrainMax:
		return errors.Wrapf(ErrInvalid, "strain window [%g, %g] is empty", c.Plot.StrainMin, c.Plot.StrainMax)
	case c.Plot.WidthIn <= 0 || c.Plot.HeightIn <= 0 || c.Plot.DPI <= 0:
		return errors.Wrap(ErrInvalid, "figure size and dpi must be positive")
	case c.Output.SummaryCSV == "" || c.Output.FigureSVG == "":
		return errors.Wrap(ErrInvalid, "output paths must be set")
	}
	seen := make(map[string]bool, len(c.Runs))
	for _, r := range c.Runs {
		if r == "" {
			return errors.Wrap(ErrInvalid, "run label must not be empty")
		}
		if seen[r] {
			return errors.Wrapf(ErrInvalid, "duplicate run %q", r)
		}
		seen[r] = true
	}
	return nil
}

// RunPath is the deformation file of one run folder.
func (c *Config) RunPath(run string) string {
	return filepath.Join(c.BaseDir, run, filepath.FromSlash(c.Input.Path))
}
