package report

import "github.com/charmbracelet/lipgloss"

var (
	ColorPurple = lipgloss.Color("#7D56F4")
	ColorGreen  = lipgloss.Color("#25A065")
	ColorRed    = lipgloss.Color("#E05252")
	ColorYellow = lipgloss.Color("#E5C07B")
	ColorGray   = lipgloss.Color("#626262")
	ColorCyan   = lipgloss.Color("#56B6C2")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan).
			MarginTop(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Width(18)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	BarFilledStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	BarEmptyStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPurple).
			Padding(0, 1)
)

// statusStyle colors a feasibility status.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case "on_track":
		return lipgloss.NewStyle().Bold(true).Foreground(ColorGreen)
	case "caution":
		return lipgloss.NewStyle().Bold(true).Foreground(ColorYellow)
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorRed)
	}
}
