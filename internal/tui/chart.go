package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/admindash/internal/pages"
)

const (
	chartHeight = 6
	legendWidth = 24
	// chartMinWidth is the content width below which the chart is hidden.
	chartMinWidth = 110
)

// breakdownChart draws a page breakdown (for example order totals by
// status) as a bar per label with a legend beside it.
type breakdownChart struct {
	title string
	data  []pages.Slice
}

func newBreakdownChart(title string) *breakdownChart {
	return &breakdownChart{title: title}
}

func (c *breakdownChart) SetData(slices []pages.Slice) {
	c.data = append([]pages.Slice(nil), slices...)
}

// Height is the number of rendered lines including the border and title.
func (c *breakdownChart) Height() int { return chartHeight + 3 }

// Render draws the chart in a bordered box of the given outer width.
func (c *breakdownChart) Render(width int) string {
	inner := width - 2
	title := accentStyle.Render(c.title)

	var content string
	if len(c.data) == 0 {
		content = lipgloss.Place(inner, chartHeight, lipgloss.Center, lipgloss.Center, helpStyle.Render("No data available"))
	} else {
		content = c.renderContent(inner)
	}
	return sectionStyle.Width(inner).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (c *breakdownChart) renderContent(width int) string {
	barsWidth := width - legendWidth - 2
	if barsWidth < 10 {
		barsWidth = 10
	}
	barWidth := max(1, min(4, barsWidth/(2*len(c.data))))

	bc := barchart.New(barsWidth, chartHeight,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(barWidth),
		barchart.WithNoAxis(),
	)
	for _, s := range c.data {
		color := statusColor(s.Label)
		style := lipgloss.NewStyle().Foreground(color).Background(color)
		bc.Push(barchart.BarData{
			Label:  "",
			Values: []barchart.BarValue{{Name: s.Label, Value: s.Value, Style: style}},
		})
	}
	bc.Draw()

	var total float64
	legend := make([]string, 0, chartHeight)
	for _, s := range c.data {
		total += s.Value
	}
	for _, s := range c.data {
		if len(legend) == chartHeight-2 {
			break
		}
		label := fmt.Sprintf("%-12s", truncate(s.Label, 12))
		line := lipgloss.NewStyle().Foreground(statusColor(s.Label)).Render(label + formatValue(s.Value))
		legend = append(legend, line)
	}
	legend = append(legend, helpStyle.Render(strings.Repeat("─", legendWidth-4)))
	legend = append(legend, fmt.Sprintf("%-12s%s", "TOTAL", formatValue(total)))
	for len(legend) < chartHeight {
		legend = append(legend, "")
	}

	chartLines := strings.Split(bc.View(), "\n")
	for len(chartLines) < chartHeight {
		chartLines = append(chartLines, "")
	}

	out := make([]string, chartHeight)
	for i := range out {
		line := chartLines[i]
		if pad := barsWidth - lipgloss.Width(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		out[i] = line + "  " + legend[i]
	}
	return strings.Join(out, "\n")
}

// formatValue prints counts as integers and sums with two decimals.
func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%10d", int64(v))
	}
	return fmt.Sprintf("%10.2f", v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "~"
}
