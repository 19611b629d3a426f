package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpBinding represents a single keyboard shortcut entry.
type HelpBinding struct {
	Key  string
	Desc string
}

// helpBindings defines all keyboard shortcuts shown in the help overlay.
var helpBindings = []HelpBinding{
	{Key: "q / Ctrl+C", Desc: "Quit"},
	{Key: "m", Desc: "Toggle clients / backends"},
	{Key: "r", Desc: "Force refresh"},
	{Key: "s", Desc: "Cycle sort column"},
	{Key: "1-9", Desc: "Sort by column; repeat to flip direction"},
	{Key: "a", Desc: "Add the next hidden column"},
	{Key: "x", Desc: "Remove the last column"},
	{Key: "+ / -", Desc: "Slower / faster refresh"},
	{Key: "? / h", Desc: "Toggle this help"},
	{Key: "Esc", Desc: "Close help"},
}

var helpKeyColStyle = HelpKeyStyle.Width(14)

// renderHelp renders a centered help box listing the keyboard shortcuts and
// the column catalog.
func (m Model) renderHelp() string {
	var lines []string
	lines = append(lines, HelpTitleStyle.Render("Keyboard Shortcuts"))
	lines = append(lines, "")

	for _, binding := range helpBindings {
		lines = append(lines, helpKeyColStyle.Render(binding.Key)+HelpDescStyle.Render(binding.Desc))
	}

	lines = append(lines, "")
	lines = append(lines, HelpTitleStyle.Render("Columns"))
	lines = append(lines, "")
	for _, c := range Columns {
		lines = append(lines, helpKeyColStyle.Render(c.Title)+HelpDescStyle.Render(c.Description))
	}

	lines = append(lines, "")
	lines = append(lines, StatusLineStyle.Render("Press ? to close"))

	helpBox := HelpBoxStyle.Render(strings.Join(lines, "\n"))

	if m.width == 0 || m.height == 0 {
		return helpBox
	}
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		helpBox,
	)
}
