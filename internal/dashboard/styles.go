package dashboard

import "github.com/charmbracelet/lipgloss"

// Dashboard color palette.
const (
	ColorSurfaceBg = lipgloss.Color("#12121A") // Dark surface
	ColorBorder    = lipgloss.Color("#2A2A4A") // Subtle purple-tinted border

	// Semantic colors
	ColorHealthy  = lipgloss.Color("#39FF14") // Neon green
	ColorWarning  = lipgloss.Color("#FFAA00") // Electric amber
	ColorCritical = lipgloss.Color("#FF0055") // Hot red-pink

	// Text colors
	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	// Accent colors
	ColorAccent    = lipgloss.Color("#FF2E97") // Neon pink
	ColorAccentDim = lipgloss.Color("#BF40FF") // Neon purple
)

// CPU thresholds for row severity coloring.
const (
	WarningThreshold  = 70.0
	CriticalThreshold = 90.0
)

// Base styles for the dashboard.
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	ColumnHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorTextSecondary).
				Bold(true)

	SortedColumnStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	RowStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	StaleRowStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	StatusLineStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ColorCritical).
				Bold(true)

	HelpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	HelpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)
)

// StaleMarker is appended to the host column of rows whose data has not been
// refreshed recently.
const StaleMarker = " *"

// PulseFrames are the animation frames for the fetching indicator shown while
// a poll is in flight.
var PulseFrames = []string{"◐", "◓", "◑", "◒"}

// SortArrowDesc and SortArrowAsc mark the active sort column in the header.
const (
	SortArrowDesc = "▼"
	SortArrowAsc  = "▲"
)

// CPUColor returns the severity color for a CPU percentage.
func CPUColor(percent float64) lipgloss.Color {
	switch {
	case percent >= CriticalThreshold:
		return ColorCritical
	case percent >= WarningThreshold:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// CPUStyle returns a style colored by CPU severity.
func CPUStyle(percent float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CPUColor(percent))
}
