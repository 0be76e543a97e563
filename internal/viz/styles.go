package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ccff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(14)

	// relative spread levels, low to high
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

var spreadChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// relative spread bands for colouring, as a fraction of |mean|
const (
	spreadMid  = 0.05
	spreadHigh = 0.15
)

// SpreadLine summarizes spread/|mean| along the curve in width buckets.
// Each bucket shows the average relative spread of its samples; bar height
// is scaled to the largest bucket and colour follows the absolute level.
// Samples with a mean of zero carry no relative spread and are skipped.
func SpreadLine(mean, spread []float64, width int) string {
	if width <= 0 {
		return ""
	}
	n := min(len(mean), len(spread))
	if n == 0 {
		return strings.Repeat("─", width)
	}
	width = min(width, n)

	rel := make([]float64, width)
	ok := make([]bool, width)
	for b := range rel {
		lo, hi := b*n/width, (b+1)*n/width
		var vals []float64
		for i := lo; i < hi; i++ {
			if m := math.Abs(mean[i]); m > 1e-12 {
				vals = append(vals, spread[i]/m)
			}
		}
		if len(vals) > 0 {
			rel[b], ok[b] = stat.Mean(vals, nil), true
		}
	}

	top := floats.Max(rel)
	var sb strings.Builder
	for b, r := range rel {
		if !ok[b] {
			sb.WriteString(Subtle.Render("·"))
			continue
		}
		idx := 0
		if top > 0 {
			idx = min(int(r/top*float64(len(spreadChars)-1)), len(spreadChars)-1)
		}
		c := string(spreadChars[idx])
		switch {
		case r >= spreadHigh:
			sb.WriteString(SparkHigh.Render(c))
		case r >= spreadMid:
			sb.WriteString(SparkMid.Render(c))
		default:
			sb.WriteString(SparkLow.Render(c))
		}
	}
	return sb.String()
}

func Separator(width int) string {
	if width < 8 {
		return Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	return Subtle.Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}
