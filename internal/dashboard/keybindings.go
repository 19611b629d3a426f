package dashboard

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/weka/wtop/internal/weka"
)

// Key bindings as constants for consistency.
const (
	KeyQuit         = "q"
	KeyQuitAlt      = "ctrl+c"
	KeyRefresh      = "r"
	KeyToggleMode   = "m"
	KeyCycleSort    = "s"
	KeyAddColumn    = "a"
	KeyRemoveColumn = "x"
	KeySlower       = "+"
	KeySlowerAlt    = "="
	KeyFaster       = "-"
	KeyToggleHelp   = "?"
	KeyToggleHelpH  = "h"
	KeyCollapse     = "esc"
)

// handleKey processes keyboard input. It returns the updated model and true
// if the key was recognized; unrecognized keys are ignored without any state
// change so stray input never disturbs the table.
func (m Model) handleKey(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	key := msg.String()

	// Help toggle takes priority
	if key == KeyToggleHelp || key == KeyToggleHelpH {
		m.showHelp = !m.showHelp
		return true, m, nil
	}

	// If help is showing, Esc closes it
	if m.showHelp && key == KeyCollapse {
		m.showHelp = false
		return true, m, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		// Interrupt any in-flight poll so the CLI subprocess dies with us.
		if m.cancelPoll != nil {
			m.cancelPoll()
		}
		m.quitting = true
		return true, m, tea.Quit

	case KeyRefresh:
		if m.polling {
			return true, m, nil
		}
		model, cmd := m.startPoll()
		return true, model, cmd

	case KeyToggleMode:
		if m.mode == weka.RoleFrontend {
			m.mode = weka.RoleBackend
		} else {
			m.mode = weka.RoleFrontend
		}
		return true, m, nil

	case KeyCycleSort:
		m.sortID = m.nextSortColumn()
		m.sortDescending = false
		return true, m, nil

	case KeyAddColumn:
		if next := NextHiddenColumn(m.visibleColumns); next != "" {
			m.visibleColumns = append(m.visibleColumns, next)
		}
		return true, m, nil

	case KeyRemoveColumn:
		// The host column is permanent; only added metric columns go.
		if n := len(m.visibleColumns); n > 1 {
			removed := m.visibleColumns[n-1]
			m.visibleColumns = m.visibleColumns[:n-1]
			if m.sortID == removed {
				m.sortID = "host"
				m.sortDescending = false
			}
		}
		return true, m, nil

	case KeySlower, KeySlowerAlt:
		if m.interval+IntervalStep <= MaxInterval {
			m.interval += IntervalStep
		}
		return true, m, nil

	case KeyFaster:
		if m.interval-IntervalStep >= MinInterval {
			m.interval -= IntervalStep
		}
		return true, m, nil
	}

	// Digits select a sort column by its position in the header; a newly
	// selected column sorts ascending, and pressing the same digit again
	// flips the direction.
	if len(key) == 1 && key >= "1" && key <= "9" {
		idx, _ := strconv.Atoi(key)
		if idx <= len(m.visibleColumns) {
			id := m.visibleColumns[idx-1]
			if m.sortID == id {
				m.sortDescending = !m.sortDescending
			} else {
				m.sortID = id
				m.sortDescending = false
			}
		}
		return true, m, nil
	}

	return false, m, nil
}

// nextSortColumn returns the visible column after the current sort column,
// wrapping around to the first.
func (m Model) nextSortColumn() string {
	for i, id := range m.visibleColumns {
		if id == m.sortID {
			return m.visibleColumns[(i+1)%len(m.visibleColumns)]
		}
	}
	if len(m.visibleColumns) > 0 {
		return m.visibleColumns[0]
	}
	return "host"
}
