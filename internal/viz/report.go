package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/stressavg/internal/experiment"
)

const (
	plotWidth  = 72
	plotHeight = 12
)

// Plot draws stress against sample index. The caption names the strain
// range the samples cover.
func Plot(strain, stress []float64, caption string) string {
	if len(stress) == 0 {
		return ""
	}
	if len(strain) > 0 {
		caption = fmt.Sprintf("%s, strain %g to %g", caption, strain[0], strain[len(strain)-1])
	}
	return asciigraph.Plot(stress,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	)
}

// RenderReport lays the report out as a bordered panel. When mean and
// spread are given the relative spread is summarized on one line.
func RenderReport(rep *experiment.Report, mean, spread []float64) string {
	rows := []string{
		Title.Render("stress-strain summary"),
		"",
		metric("runs", fmt.Sprintf("%d (%s)", len(rep.Runs), strings.Join(rep.Runs, ", "))),
		metric("samples", fmt.Sprintf("%d", rep.Samples)),
		metric("modulus", fmt.Sprintf("%.2f GPa", rep.Modulus.Value)),
		metric("at strain", fmt.Sprintf("%g (row %d)", rep.Modulus.Strain, rep.Modulus.Index)),
		metric("peak stress", fmt.Sprintf("%.4g GPa at strain %g", rep.PeakStress, rep.PeakStrain)),
		metric("max spread", fmt.Sprintf("%.4g GPa", rep.MaxSpread)),
	}
	if len(mean) > 0 && len(spread) > 0 {
		rows = append(rows, metric("rel. spread", SpreadLine(mean, spread, 40)))
	}
	if rep.SummaryCSV != "" || rep.FigureSVG != "" {
		rows = append(rows, "", Separator(48))
		if rep.SummaryCSV != "" {
			rows = append(rows, metric("summary", rep.SummaryCSV))
		}
		if rep.FigureSVG != "" {
			rows = append(rows, metric("figure", rep.FigureSVG))
		}
	}
	return Panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func metric(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, MetricLabel.Render(label), MetricValue.Render(value))
}
