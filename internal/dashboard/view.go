package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/weka/wtop/internal/sampler"
	"github.com/weka/wtop/internal/weka"
)

// render renders the complete dashboard view.
func (m Model) render() string {
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderClusterLine())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n\n")

	table := m.Table()
	b.WriteString(m.renderColumnHeader(table))
	b.WriteString("\n")
	b.WriteString(m.renderRows(table))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title bar.
func (m Model) renderHeader() string {
	title := TitleStyle.Render("wtop")

	modeLabel := "backends"
	if m.mode == weka.RoleFrontend {
		modeLabel = "clients"
	}
	sub := lipgloss.NewStyle().
		Foreground(ColorTextSecondary).
		Render(fmt.Sprintf(" | %s | every %s", modeLabel, m.interval))

	return HeaderStyle.Render(title + sub)
}

// renderClusterLine renders the cluster status header, or a placeholder
// until the first status fetch lands.
func (m Model) renderClusterLine() string {
	if m.cluster == nil {
		return StatusLineStyle.Render("cluster: " + Placeholder)
	}

	c := m.cluster
	line := fmt.Sprintf("cluster %s (%s) | %s | %s / %s used | %d io-nodes | %d clients",
		c.Name, c.Release, strings.ToUpper(c.Status),
		FormatBytes(c.UsedBytes), FormatBytes(c.TotalBytes),
		c.ActiveIONodes, c.ActiveClients)
	if c.ActiveAlerts > 0 {
		line += StatusErrorStyle.Render(fmt.Sprintf(" | %d alerts", c.ActiveAlerts))
	}
	return StatusLineStyle.Render(line)
}

// renderStatusLine renders the poll state, host count, and last update age.
func (m Model) renderStatusLine() string {
	table := m.Table()

	var state string
	switch m.pollState {
	case StatusInitializing:
		state = m.Pulse() + " waiting for first sample"
	case StatusFetching:
		state = m.Pulse() + " fetching"
	case StatusOk:
		state = "● live"
	case StatusError:
		state = StatusErrorStyle.Render("✗ " + m.errorText())
	}

	var updateText string
	switch age := m.SecondsSinceUpdate(); {
	case m.lastUpdate.IsZero():
		updateText = "never"
	case age == 0:
		updateText = "just now"
	case age == 1:
		updateText = "1s ago"
	default:
		updateText = fmt.Sprintf("%ds ago", age)
	}

	return StatusLineStyle.Render(fmt.Sprintf("%s | %d hosts | updated %s", state, len(table.Rows), updateText))
}

// errorText maps the last poll error onto a short status message.
func (m Model) errorText() string {
	if m.lastError == nil {
		return "poll failed"
	}
	switch m.lastError.Kind {
	case sampler.KindAuth:
		return "not logged in to weka, run 'weka user login'"
	case sampler.KindMalformed:
		return "unexpected weka CLI output"
	default:
		return "cluster unreachable, showing last data"
	}
}

// renderColumnHeader renders the column titles with the sort indicator.
func (m Model) renderColumnHeader(t Table) string {
	var b strings.Builder
	for i, c := range t.Columns {
		title := c.Title
		style := ColumnHeaderStyle
		if c.ID == m.sortID {
			arrow := SortArrowAsc
			if m.sortDescending {
				arrow = SortArrowDesc
			}
			title += arrow
			style = SortedColumnStyle
		}
		b.WriteString(style.Render(pad(fmt.Sprintf("%d:%s", i+1, title), c.Width)))
		b.WriteString(" ")
	}
	return b.String()
}

// renderRows renders the host rows, scrolled through the viewport when the
// table outgrows the terminal. The viewport content is kept in sync by
// Update; rendering here never mutates scroll state.
func (m Model) renderRows(t Table) string {
	if len(t.Rows) == 0 {
		return StatusLineStyle.Render("no hosts reporting")
	}
	if !m.viewportReady {
		return m.renderTableContent(t)
	}
	return m.tableViewport.View()
}

// renderTableContent renders every host row, one line per host.
func (m Model) renderTableContent(t Table) string {
	lines := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		lines = append(lines, m.renderRow(t, row))
	}
	return strings.Join(lines, "\n")
}

// renderRow renders one host row. Stale rows dim; live rows color by CPU
// severity on the CPU cell only.
func (m Model) renderRow(t Table, row Row) string {
	var b strings.Builder
	for i, c := range t.Columns {
		cell := row.Cells[i]
		if c.ID == "host" && row.Stale {
			cell += StaleMarker
		}

		style := RowStyle
		switch {
		case row.Stale:
			style = StaleRowStyle
		case c.ID == "cpu":
			style = CPUStyle(row.CPUPct)
		}

		b.WriteString(style.Render(pad(cell, c.Width)))
		b.WriteString(" ")
	}
	return b.String()
}

// renderFooter renders the keyboard help footer.
func (m Model) renderFooter() string {
	hints := []string{
		"q quit",
		"m mode",
		"s sort",
		"1-9 sort col",
		"a/x columns",
		"+/- interval",
		"? help",
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}

// pad pads or truncates a cell to the column width, measuring display cells
// rather than bytes so wide runes line up.
func pad(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w > width {
		return runewidth.Truncate(s, width, "…")
	}
	return s + strings.Repeat(" ", width-w)
}
