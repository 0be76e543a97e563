package export

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/san-kum/stressavg/internal/analysis"
	"github.com/san-kum/stressavg/internal/config"
)

const (
	lineWidthPt   = 1.5
	borderWidthPt = 2
	legendScale   = 0.833
	bandAlpha     = 51 // 0.2 opacity
	xTickStep     = 0.1
	yTickCount    = 6
	yMargin       = 0.05
)

var (
	// ErrEmptyWindow indicates no sample falls inside the strain window.
	ErrEmptyWindow = errors.New("export: no samples inside strain window")

	// ErrFigureShape indicates figure series of inconsistent length.
	ErrFigureShape = errors.New("export: figure series differ in length")
)

var (
	labelFill   = drawing.ColorFromHex("ADD8E6")
	labelBorder = drawing.ColorFromHex("000080")
)

// Figure is everything the two panels draw. Stress is raw [sample][run];
// Mean and Envelope are already smoothed.
type Figure struct {
	Labels   []string
	Strain   []float64
	Stress   [][]float64
	Mean     []float64
	Envelope *analysis.Envelope
	Modulus  *analysis.Modulus
}

func (f *Figure) Validate() error {
	n := len(f.Strain)
	switch {
	case n == 0:
		return errors.Wrap(ErrFigureShape, "no samples")
	case len(f.Stress) != n || len(f.Mean) != n:
		return errors.Wrapf(ErrFigureShape, "%d strain, %d stress, %d mean", n, len(f.Stress), len(f.Mean))
	case f.Envelope == nil || len(f.Envelope.Lower) != n || len(f.Envelope.Upper) != n:
		return errors.Wrap(ErrFigureShape, "envelope missing or wrong length")
	case f.Modulus == nil:
		return errors.New("export: modulus is required")
	}
	for i, row := range f.Stress {
		if len(row) != len(f.Labels) {
			return errors.Wrapf(ErrFigureShape, "sample %d has %d runs, %d labels", i, len(row), len(f.Labels))
		}
	}
	return nil
}

// YRange is the stress axis shared by both panels.
type YRange struct {
	Min, Max float64
}

// StressRange spans every raw stress value with a 5% margin on each side.
func StressRange(stress [][]float64) YRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range stress {
		for _, v := range row {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return YRange{Min: -1, Max: 1}
	}
	span := hi - lo
	if span == 0 {
		span = math.Max(math.Abs(lo), 1)
	}
	return YRange{Min: lo - yMargin*span, Max: hi + yMargin*span}
}

type Renderer struct {
	plot config.PlotConfig
}

func NewRenderer(plot config.PlotConfig) *Renderer {
	return &Renderer{plot: plot}
}

// Size is the pixel size of the whole figure.
func (r *Renderer) Size() (int, int) {
	return int(math.Round(r.plot.WidthIn * r.plot.DPI)), int(math.Round(r.plot.HeightIn * r.plot.DPI))
}

// pt converts typographic points to canvas pixels.
func (r *Renderer) pt(points float64) float64 {
	return points * r.plot.DPI / 72
}

// Render draws both panels side by side into a single SVG document.
func (r *Renderer) Render(w io.Writer, fig *Figure) error {
	if err := fig.Validate(); err != nil {
		return err
	}
	palette, err := Palette(r.plot.Colors, len(fig.Labels))
	if err != nil {
		return err
	}

	yr := StressRange(fig.Stress)
	width, height := r.Size()
	half := width / 2

	left, err := r.runsPanel(fig, palette, yr, half, height)
	if err != nil {
		return errors.Wrap(err, "individual runs panel")
	}
	right, err := r.ensemblePanel(fig, yr, width-half, height)
	if err != nil {
		return errors.Wrap(err, "ensemble panel")
	}

	return r.compose(w, width, height, left, right, half)
}

func (r *Renderer) runsPanel(fig *Figure, palette []drawing.Color, yr YRange, width, height int) ([]byte, error) {
	series := make([]chart.Series, 0, len(fig.Labels))
	for j, label := range fig.Labels {
		xs, ys := r.clip(fig.Strain, column(fig.Stress, j))
		if len(xs) == 0 {
			return nil, ErrEmptyWindow
		}
		series = append(series, chart.ContinuousSeries{
			Name:    label,
			YAxis:   chart.YAxisSecondary,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: palette[j],
				StrokeWidth: r.pt(lineWidthPt),
			},
		})
	}

	xTicks := stepTicks(r.plot.StrainMin, r.plot.StrainMax, xTickStep)
	if len(xTicks) > 1 {
		// the right edge tick is labeled by the ensemble panel
		xTicks = xTicks[:len(xTicks)-1]
	}
	yRange := &chart.ContinuousRange{Min: yr.Min, Max: yr.Max}
	yTicks := niceTicks(yr.Min, yr.Max, yTickCount)

	ch := chart.Chart{
		Width:  width,
		Height: height,
		DPI:    r.plot.DPI,
		Background: chart.Style{
			Padding: chart.Box{Top: r.pad(0.05, height), Left: r.pad(0.02, width), Bottom: r.pad(0.02, height)},
		},
		XAxis: r.xAxis(xTicks),
		// go-chart derives the secondary range from the primary ticks,
		// so the hidden primary axis carries the same ticks.
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: yRange,
			Ticks: yTicks,
		},
		YAxisSecondary: chart.YAxis{
			Name:      r.plot.StressLabel,
			NameStyle: r.fontStyle(),
			Style:     r.fontStyle(),
			Range:     yRange,
			Ticks:     yTicks,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch, chart.Style{FontSize: r.plot.FontSize * legendScale})}

	var buf bytes.Buffer
	if err := ch.Render(chart.SVG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) ensemblePanel(fig *Figure, yr YRange, width, height int) ([]byte, error) {
	xs, mean := r.clip(fig.Strain, fig.Mean)
	_, lower := r.clip(fig.Strain, fig.Envelope.Lower)
	_, upper := r.clip(fig.Strain, fig.Envelope.Upper)
	if len(xs) == 0 {
		return nil, ErrEmptyWindow
	}

	xmin, xmax := r.plot.StrainMin, r.plot.StrainMax
	label := labelBox{
		Text:    ModulusLabel(fig.Modulus.Value),
		X:       xmax - 0.25*(xmax-xmin),
		Y:       yr.Max - 0.1*(yr.Max-yr.Min),
		Padding: int(r.pt(r.plot.FontSize * 0.5)),
		Style: chart.Style{
			FillColor:   labelFill,
			StrokeColor: labelBorder,
			StrokeWidth: r.pt(borderWidthPt),
			FontSize:    r.plot.FontSize,
			FontColor:   drawing.ColorBlack,
		},
	}

	ch := chart.Chart{
		Width:  width,
		Height: height,
		DPI:    r.plot.DPI,
		Background: chart.Style{
			Padding: chart.Box{Top: r.pad(0.05, height), Right: r.pad(0.05, width), Bottom: r.pad(0.02, height)},
		},
		XAxis: r.xAxis(stepTicks(xmin, xmax, xTickStep)),
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: yr.Min, Max: yr.Max},
		},
		Series: []chart.Series{
			bandSeries{
				Name:    "envelope",
				XValues: xs,
				Lower:   lower,
				Upper:   upper,
				Style:   chart.Style{FillColor: drawing.ColorBlack.WithAlpha(bandAlpha)},
			},
			chart.ContinuousSeries{
				Name:    "mean",
				XValues: xs,
				YValues: mean,
				Style: chart.Style{
					StrokeColor: drawing.ColorBlack,
					StrokeWidth: r.pt(lineWidthPt),
				},
			},
			label,
		},
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.SVG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) xAxis(ticks []chart.Tick) chart.XAxis {
	return chart.XAxis{
		Name:      "Strain",
		NameStyle: r.fontStyle(),
		Style:     r.fontStyle(),
		Range:     &chart.ContinuousRange{Min: r.plot.StrainMin, Max: r.plot.StrainMax},
		Ticks:     ticks,
	}
}

func (r *Renderer) fontStyle() chart.Style {
	return chart.Style{FontSize: r.plot.FontSize}
}

func (r *Renderer) pad(frac float64, extent int) int {
	return int(frac * float64(extent))
}

// clip keeps the samples whose strain lies in the display window.
func (r *Renderer) clip(strain, ys []float64) ([]float64, []float64) {
	var xo, yo []float64
	for i, e := range strain {
		if e >= r.plot.StrainMin && e <= r.plot.StrainMax {
			xo = append(xo, e)
			yo = append(yo, ys[i])
		}
	}
	return xo, yo
}

// compose nests the two panel documents in one SVG with a physical size.
func (r *Renderer) compose(w io.Writer, width, height int, left, right []byte, offset int) error {
	var sb bytes.Buffer
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%gin" height="%gin" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, r.plot.WidthIn, r.plot.HeightIn, width, height)

	sb.WriteString("<g class=\"panel-runs\">\n")
	sb.Write(stripProlog(left))
	fmt.Fprintf(&sb, "</g>\n<g class=\"panel-ensemble\" transform=\"translate(%d,0)\">\n", offset)
	sb.Write(stripProlog(right))
	sb.WriteString("</g>\n</svg>\n")

	_, err := w.Write(sb.Bytes())
	return err
}

func stripProlog(doc []byte) []byte {
	if i := bytes.Index(doc, []byte("<svg")); i > 0 {
		return doc[i:]
	}
	return doc
}

func column(stress [][]float64, run int) []float64 {
	col := make([]float64, len(stress))
	for i, row := range stress {
		col[i] = row[run]
	}
	return col
}

// ModulusLabel is the annotation text of the ensemble panel.
func ModulusLabel(e float64) string {
	return fmt.Sprintf("E=%.2f(GPa)", e)
}
