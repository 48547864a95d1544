package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared by every dashboard component.
var (
	ColorNavy   = lipgloss.Color("#1E2A3A")
	ColorBlue   = lipgloss.Color("#03C9D7")
	ColorGray   = lipgloss.Color("#808080")
	ColorWhite  = lipgloss.Color("#FFFFFF")
	ColorRed    = lipgloss.Color("#FF4444")
	ColorOrange = lipgloss.Color("#FFAA00")
	ColorGreen  = lipgloss.Color("#44FF44")
)

var (
	helpStyle    = lipgloss.NewStyle().Foreground(ColorGray)
	errorStyle   = lipgloss.NewStyle().Foreground(ColorRed)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorWhite)
	accentStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorBlue)
	labelStyle   = lipgloss.NewStyle().Foreground(ColorGray).Width(18)
	sectionStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(ColorGray)
)

// statusColor picks a swatch for a record status.
func statusColor(status string) lipgloss.Color {
	switch status {
	case "Active", "active", "Completed", "complete":
		return ColorGreen
	case "Pending", "pending":
		return ColorOrange
	case "Cancel", "canceled", "rejected":
		return ColorRed
	default:
		return ColorBlue
	}
}
