package export

import (
	"math"

	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gopkg.in/go-playground/colors.v1"
)

// Palette returns one color per run. The configured hex colors are used in
// order; when there are more runs than colors every run is instead sampled
// from a rainbow colormap at i/runs.
func Palette(hexes []string, runs int) ([]drawing.Color, error) {
	out := make([]drawing.Color, 0, runs)
	if runs <= len(hexes) {
		for _, h := range hexes[:runs] {
			c, err := colors.ParseHEX(h)
			if err != nil {
				return nil, errors.Wrapf(err, "parse color %q", h)
			}
			out = append(out, fromRGB(c.ToRGB()))
		}
		return out, nil
	}

	for i := 0; i < runs; i++ {
		c, err := rainbow(float64(i) / float64(runs))
		if err != nil {
			return nil, err
		}
		out = append(out, fromRGB(c))
	}
	return out, nil
}

// rainbow follows the gnuplot 33,13,10 color formulae.
func rainbow(x float64) (*colors.RGBColor, error) {
	r := math.Abs(2*x - 0.5)
	g := math.Sin(math.Pi * x)
	b := math.Cos(math.Pi / 2 * x)
	return colors.RGB(channel(r), channel(g), channel(b))
}

func channel(v float64) uint8 {
	v = math.Max(0, math.Min(1, v))
	return uint8(math.Round(v * 255))
}

func fromRGB(c *colors.RGBColor) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: 255}
}
