package components

import (
	"fmt"
	"math"
	"time"

	"gridcentric/canaryctl/internal/canary/domain"
	"gridcentric/canaryctl/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

const (
	// chartHeight is the plot height in rows, excluding header and summary.
	chartHeight = 10

	// axisWidth reserves room for Y-axis labels (number + " ┤").
	axisWidth = 12

	minPlotWidth = 10
)

// SeriesChart renders a query result as a line chart with a header and a
// cur/min/max summary. Gaps are skipped; a series with no values renders a
// short "no data" line instead.
func SeriesChart(title string, points []domain.DataPoint, width int) string {
	values := Values(points)
	if len(values) == 0 {
		return styles.MutedText.Render(title + ": no data")
	}

	plotWidth := width - axisWidth
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}

	chart := asciigraph.Plot(values,
		asciigraph.Height(chartHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Precision(precisionFor(values)),
		asciigraph.SeriesColors(asciigraph.DodgerBlue),
		asciigraph.LabelColor(asciigraph.Default),
		asciigraph.Caption(timeRange(points)),
	)

	current := values[len(values)-1]
	lo, hi := minMax(values)
	line := fmt.Sprintf("  cur: %s  min: %s  max: %s",
		FormatValue(current), FormatValue(lo), FormatValue(hi))
	if gaps := len(points) - len(values); gaps > 0 {
		line += fmt.Sprintf("  gaps: %d", gaps)
	}

	header := styles.Label.Render(title)
	return lipgloss.JoinVertical(lipgloss.Left, header, chart, styles.MutedText.Render(line))
}

// Values returns the non-gap values of points in order.
func Values(points []domain.DataPoint) []float64 {
	values := make([]float64, 0, len(points))
	for _, p := range points {
		if p.Value != nil {
			values = append(values, *p.Value)
		}
	}
	return values
}

// FormatValue renders v with a K/M/G suffix for large magnitudes.
func FormatValue(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.1fG", v/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func minMax(data []float64) (float64, float64) {
	lo, hi := data[0], data[0]
	for _, v := range data[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// precisionFor shows decimals only when the series spans a small range.
func precisionFor(values []float64) uint {
	lo, hi := minMax(values)
	if hi-lo >= 100 {
		return 0
	}
	return 2
}

func timeRange(points []domain.DataPoint) string {
	if len(points) == 0 {
		return ""
	}
	const layout = "2006-01-02 15:04"
	first := time.Unix(points[0].Timestamp, 0).UTC().Format(layout)
	last := time.Unix(points[len(points)-1].Timestamp, 0).UTC().Format(layout)
	return first + " .. " + last + " UTC"
}
