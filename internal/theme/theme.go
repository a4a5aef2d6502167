package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Colors
var (
	Primary = lipgloss.Color("#33A8FF")
	Muted   = lipgloss.Color("#6B7280")
	Success = lipgloss.Color("#10B981")
	Warning = lipgloss.Color("#F59E0B")
	Error   = lipgloss.Color("#EF4444")
)

// Shared styles
var (
	SectionStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	ReportBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)
)

// Candidate statuses shown next to each ranked or skipped key.
const (
	StatusNewest  = "newest"
	StatusOlder   = "older"
	StatusSkipped = "skipped"
)

// StatusColor maps a candidate status to a theme color.
func StatusColor(status string) color.Color {
	switch status {
	case StatusNewest:
		return Success
	case StatusSkipped:
		return Error
	case StatusOlder:
		return Warning
	default:
		return Muted
	}
}

// RenderStatus renders a status string with a colored bullet.
func RenderStatus(status string) string {
	bullet := lipgloss.NewStyle().Foreground(StatusColor(status)).Render("●")
	return bullet + " " + status
}
