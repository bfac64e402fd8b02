package render

import "github.com/charmbracelet/lipgloss"

var (
	// Colors meet WCAG AA contrast on both black and dark surfaces.
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	BorderColor    = lipgloss.Color("#6B7280") // Gray
	BlueColor      = lipgloss.Color("#60A5FA") // Blue

	Primary   = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning   = lipgloss.NewStyle().Foreground(WarningColor)
	Error     = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted     = lipgloss.NewStyle().Foreground(MutedColor)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor)

	Heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(BlueColor)

	Focused = lipgloss.NewStyle().
		Bold(true).
		Foreground(SecondaryColor)

	Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1)

	Pass = lipgloss.NewStyle().Bold(true).Foreground(SecondaryColor)
	Fail = lipgloss.NewStyle().Bold(true).Foreground(ErrorColor)
)

// stateColors maps lifecycle state names to their display color.
var stateColors = map[string]lipgloss.Color{
	"created":   MutedColor,
	"shown":     SecondaryColor,
	"hidden":    WarningColor,
	"destroyed": ErrorColor,
}

// State renders a lifecycle state name in its color.
func State(name string) string {
	color, ok := stateColors[name]
	if !ok {
		return Muted.Render(name)
	}
	return lipgloss.NewStyle().Foreground(color).Render(name)
}
