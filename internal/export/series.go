package export

import (
	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2"
)

// bandSeries fills the region between Lower and Upper along XValues.
type bandSeries struct {
	Name    string
	XValues []float64
	Lower   []float64
	Upper   []float64
	Style   chart.Style
}

func (b bandSeries) GetName() string           { return b.Name }
func (b bandSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (b bandSeries) GetStyle() chart.Style     { return b.Style }

func (b bandSeries) Validate() error {
	if len(b.XValues) != len(b.Lower) || len(b.XValues) != len(b.Upper) {
		return errors.Errorf("band %s: %d x values, %d lower, %d upper", b.Name, len(b.XValues), len(b.Lower), len(b.Upper))
	}
	return nil
}

func (b bandSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	n := len(b.XValues)
	if n == 0 {
		return
	}
	px := func(x float64) int { return canvasBox.Left + xrange.Translate(x) }
	py := func(y float64) int { return canvasBox.Bottom - yrange.Translate(y) }

	r.SetFillColor(b.Style.FillColor)
	r.MoveTo(px(b.XValues[0]), py(b.Upper[0]))
	for i := 1; i < n; i++ {
		r.LineTo(px(b.XValues[i]), py(b.Upper[i]))
	}
	for i := n - 1; i >= 0; i-- {
		r.LineTo(px(b.XValues[i]), py(b.Lower[i]))
	}
	r.Close()
	r.Fill()
}

// labelBox draws Text in a bordered box whose top edge is centered on (X, Y).
type labelBox struct {
	Text    string
	X, Y    float64
	Padding int
	Style   chart.Style
}

func (l labelBox) GetName() string           { return l.Text }
func (l labelBox) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (l labelBox) GetStyle() chart.Style     { return l.Style }

func (l labelBox) Validate() error {
	if l.Text == "" {
		return errors.New("label box: empty text")
	}
	return nil
}

func (l labelBox) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := l.Style.InheritFrom(defaults)
	r.SetFont(style.Font)
	r.SetFontSize(style.FontSize)
	tb := r.MeasureText(l.Text)

	w := tb.Width() + 2*l.Padding
	h := tb.Height() + 2*l.Padding
	cx := canvasBox.Left + xrange.Translate(l.X)
	top := canvasBox.Bottom - yrange.Translate(l.Y)
	left := cx - w/2

	r.SetFillColor(style.FillColor)
	r.SetStrokeColor(style.StrokeColor)
	r.SetStrokeWidth(style.StrokeWidth)
	r.MoveTo(left, top)
	r.LineTo(left+w, top)
	r.LineTo(left+w, top+h)
	r.LineTo(left, top+h)
	r.Close()
	r.FillStroke()

	r.SetFontColor(style.FontColor)
	r.Text(l.Text, left+l.Padding, top+l.Padding+tb.Height())
}
