package export

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/san-kum/stressavg/internal/analysis"
	"github.com/san-kum/stressavg/internal/config"
)

func sampleFigure(runs int) *Figure {
	const n = 21
	fig := &Figure{
		Strain: make([]float64, n),
		Stress: make([][]float64, n),
		Mean:   make([]float64, n),
	}
	for j := 0; j < runs; j++ {
		fig.Labels = append(fig.Labels, string(rune('A'+j)))
	}
	spread := make([]float64, n)
	for i := 0; i < n; i++ {
		e := -0.01 * float64(i)
		fig.Strain[i] = e
		fig.Stress[i] = make([]float64, runs)
		for j := range fig.Stress[i] {
			fig.Stress[i][j] = -75*e + 0.1*float64(j)
		}
		fig.Mean[i] = -75 * e
		spread[i] = 0.05
	}
	env, err := analysis.NewEnvelope(fig.Mean, spread)
	Expect(err).NotTo(HaveOccurred())
	fig.Envelope = env
	fig.Modulus = &analysis.Modulus{Index: 4, Strain: -0.04, Stress: 3, Value: -75}
	return fig
}

var _ = Describe("Renderer", func() {
	var (
		plot config.PlotConfig
		buf  bytes.Buffer
	)

	BeforeEach(func() {
		plot = config.DefaultConfig().Plot
		plot.DPI = 100
		buf.Reset()
	})

	It("writes one svg document with the physical figure size", func() {
		Expect(NewRenderer(plot).Render(&buf, sampleFigure(3))).To(Succeed())

		out := buf.String()
		Expect(out).To(HavePrefix("<?xml"))
		Expect(strings.Count(out, "<?xml")).To(Equal(1))
		Expect(out).To(ContainSubstring(`width="7in"`))
		Expect(out).To(ContainSubstring(`height="3.9375in"`))
		Expect(out).To(ContainSubstring(`viewBox="0 0 700 394"`))
		Expect(out).To(ContainSubstring(`translate(350,0)`))
		Expect(strings.TrimSpace(out)).To(HaveSuffix("</svg>"))
	})

	It("annotates the ensemble panel with the modulus", func() {
		Expect(NewRenderer(plot).Render(&buf, sampleFigure(3))).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("E=-75.00(GPa)"))
	})

	It("labels the axes and the runs", func() {
		Expect(NewRenderer(plot).Render(&buf, sampleFigure(2))).To(Succeed())

		out := buf.String()
		Expect(out).To(ContainSubstring("Strain"))
		Expect(out).To(ContainSubstring(plot.StressLabel))
		Expect(out).To(ContainSubstring(">A<"))
		Expect(out).To(ContainSubstring(">B<"))
	})

	It("renders more runs than configured colors", func() {
		Expect(NewRenderer(plot).Render(&buf, sampleFigure(5))).To(Succeed())
		Expect(buf.Len()).To(BeNumerically(">", 0))
	})

	It("rejects a figure with no samples in the strain window", func() {
		fig := sampleFigure(2)
		for i := range fig.Strain {
			fig.Strain[i] = 1 + float64(i)
		}
		err := NewRenderer(plot).Render(&buf, fig)
		Expect(err).To(MatchError(ErrEmptyWindow))
		Expect(buf.Len()).To(BeZero())
	})

	It("rejects inconsistent series", func() {
		fig := sampleFigure(2)
		fig.Mean = fig.Mean[:3]
		Expect(NewRenderer(plot).Render(&buf, fig)).To(MatchError(ErrFigureShape))

		fig = sampleFigure(2)
		fig.Labels = fig.Labels[:1]
		Expect(NewRenderer(plot).Render(&buf, fig)).To(MatchError(ErrFigureShape))
	})
})

var _ = Describe("Renderer at the default resolution", func() {
	// three runs, five samples
	scenario := func() *Figure {
		strain := []float64{0, -0.01, -0.02, -0.03, -0.04}
		stress := [][]float64{
			{0, 0, 0},
			{1, 1.2, 0.8},
			{2, 2.1, 1.9},
			{3, 3.3, 2.7},
			{4, 4.2, 3.8},
		}
		sum, err := analysis.Summarize(strain, stress)
		Expect(err).NotTo(HaveOccurred())
		env, err := analysis.NewEnvelope(sum.Mean, sum.Spread)
		Expect(err).NotTo(HaveOccurred())
		mod, err := analysis.SecantModulus(strain, sum.Mean, -0.04)
		Expect(err).NotTo(HaveOccurred())
		return &Figure{
			Labels:   []string{"1-Series1", "2-Series2", "3-Series3"},
			Strain:   strain,
			Stress:   stress,
			Mean:     sum.Mean,
			Envelope: env,
			Modulus:  mod,
		}
	}

	It("renders the individual runs panel on the secondary axis", func() {
		r := NewRenderer(config.DefaultConfig().Plot)
		fig := scenario()
		palette, err := Palette(r.plot.Colors, len(fig.Labels))
		Expect(err).NotTo(HaveOccurred())

		out, err := r.runsPanel(fig, palette, StressRange(fig.Stress), 4200, 4725)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(out)).To(ContainSubstring("1-Series1"))
	})

	It("writes the whole figure", func() {
		var buf bytes.Buffer
		Expect(NewRenderer(config.DefaultConfig().Plot).Render(&buf, scenario())).To(Succeed())

		out := buf.String()
		Expect(out).To(ContainSubstring(`width="7in" height="3.9375in" viewBox="0 0 8400 4725"`))
		Expect(out).To(ContainSubstring("E=-100.00(GPa)"))
	})
})

var _ = Describe("StressRange", func() {
	It("adds a five percent margin around every raw value", func() {
		yr := StressRange([][]float64{{0, 1}, {10, 4}})
		Expect(yr.Min).To(BeNumerically("~", -0.5, 1e-12))
		Expect(yr.Max).To(BeNumerically("~", 10.5, 1e-12))
	})

	It("widens a flat range", func() {
		yr := StressRange([][]float64{{2, 2}})
		Expect(yr.Min).To(BeNumerically("<", 2))
		Expect(yr.Max).To(BeNumerically(">", 2))
	})
})

var _ = Describe("Palette", func() {
	It("uses the configured colors in order", func() {
		p, err := Palette([]string{"#DA291C", "#56A8CB", "#53A567"}, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal([]drawing.Color{
			{R: 0xDA, G: 0x29, B: 0x1C, A: 255},
			{R: 0x56, G: 0xA8, B: 0xCB, A: 255},
		}))
	})

	It("falls back to a rainbow colormap for extra runs", func() {
		p, err := Palette([]string{"#DA291C"}, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(HaveLen(4))
		// x=0 gives r=0.5, g=0, b=1
		Expect(p[0]).To(Equal(drawing.Color{R: 128, G: 0, B: 255, A: 255}))
		Expect(p[1]).NotTo(Equal(p[2]))
	})

	It("rejects a malformed color", func() {
		_, err := Palette([]string{"red"}, 1)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ticks", func() {
	It("steps across the strain window", func() {
		ticks := stepTicks(-0.4, 0, 0.1)
		labels := make([]string, len(ticks))
		for i, t := range ticks {
			labels[i] = t.Label
		}
		Expect(labels).To(Equal([]string{"-0.4", "-0.3", "-0.2", "-0.1", "0.0"}))
		Expect(ticks[len(ticks)-1].Value).To(BeZero())
	})

	It("picks round steps inside the range", func() {
		ticks := niceTicks(-0.3, 10.3, 6)
		Expect(ticks).NotTo(BeEmpty())
		for _, t := range ticks {
			Expect(t.Value).To(BeNumerically(">=", -0.3))
			Expect(t.Value).To(BeNumerically("<=", 10.3))
		}
		Expect(ticks[1].Value - ticks[0].Value).To(BeNumerically("~", 2, 1e-9))
	})

	It("returns nothing for an empty range", func() {
		Expect(niceTicks(1, 1, 5)).To(BeEmpty())
	})
})

var _ = Describe("ModulusLabel", func() {
	It("formats two decimals in GPa", func() {
		Expect(ModulusLabel(12.346)).To(Equal("E=12.35(GPa)"))
	})
})
