package dashboard

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/weka/wtop/internal/sampler"
	"github.com/weka/wtop/internal/weka"
)

func init() {
	// Pin the color profile so rendered output is stable regardless of the
	// terminal the tests run in.
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestPad(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		width  int
		expect string
	}{
		{"pads short", "ab", 5, "ab   "},
		{"exact fit", "abcde", 5, "abcde"},
		{"truncates long", "abcdefgh", 5, "abcd…"},
		{"empty", "", 3, "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, pad(tt.in, tt.width))
		})
	}
}

func viewModel() Model {
	m := testModel()
	m.width = 120
	m.height = 40
	m.metrics = map[string]*sampler.DerivedMetric{
		"wk-cl-01": metric("wk-cl-01", weka.RoleFrontend, 25, 100),
		"wk-cl-02": metric("wk-cl-02", weka.RoleFrontend, 75, 300),
	}
	m.pollState = StatusOk
	m.lastUpdate = time.Now()
	return m
}

func TestRenderShowsHosts(t *testing.T) {
	out := viewModel().render()

	assert.Contains(t, out, "wtop")
	assert.Contains(t, out, "wk-cl-01")
	assert.Contains(t, out, "wk-cl-02")
	assert.Contains(t, out, "live")
}

func TestRenderFiltersToMode(t *testing.T) {
	m := viewModel()
	m.metrics["wk-be-01"] = metric("wk-be-01", weka.RoleBackend, 10, 10)

	out := m.render()
	assert.Contains(t, out, "wk-cl-01")
	assert.NotContains(t, out, "wk-be-01")

	m.mode = weka.RoleBackend
	out = m.render()
	assert.Contains(t, out, "wk-be-01")
	assert.NotContains(t, out, "wk-cl-01")
}

func TestRenderMarksStaleHosts(t *testing.T) {
	m := viewModel()
	m.metrics["wk-cl-01"].Stale = true

	out := m.render()
	assert.Contains(t, out, "wk-cl-01"+StaleMarker)
}

func TestRenderShowsSortIndicator(t *testing.T) {
	m := viewModel()
	m.sortID = "cpu"
	m.sortDescending = true

	out := m.render()
	assert.Contains(t, out, "CPU%"+SortArrowDesc)

	m.sortDescending = false
	out = m.render()
	assert.Contains(t, out, "CPU%"+SortArrowAsc)
}

func TestRenderErrorStatus(t *testing.T) {
	m := viewModel()
	m.pollState = StatusError
	m.lastError = &sampler.PollError{Kind: sampler.KindAuth, Message: "not logged in"}

	out := m.render()
	assert.Contains(t, out, "weka user login")
	// Table still renders with the retained data.
	assert.Contains(t, out, "wk-cl-01")
}

func TestRenderEmptyTable(t *testing.T) {
	m := viewModel()
	m.metrics = map[string]*sampler.DerivedMetric{}

	out := m.render()
	assert.Contains(t, out, "no hosts reporting")
}

func TestRenderClusterLine(t *testing.T) {
	m := viewModel()
	out := m.render()
	assert.Contains(t, out, "cluster: "+Placeholder)

	m.cluster = &weka.ClusterStatus{
		Name:          "prod",
		Release:       "4.2.1",
		Status:        "OK",
		TotalBytes:    2 * 1024 * 1024 * 1024,
		UsedBytes:     1024 * 1024 * 1024,
		ActiveIONodes: 8,
		ActiveClients: 12,
		ActiveAlerts:  1,
	}
	out = m.render()
	assert.Contains(t, out, "prod")
	assert.Contains(t, out, "4.2.1")
	assert.Contains(t, out, "1.0 GB")
	assert.Contains(t, out, "1 alerts")
}

func TestRenderHelpOverlay(t *testing.T) {
	m := viewModel()
	m.showHelp = true

	out := m.render()
	assert.Contains(t, out, "Keyboard Shortcuts")
	assert.Contains(t, out, "Columns")
	for _, line := range strings.Split(out, "\n") {
		assert.NotContains(t, line, "wk-cl-01", "table hides behind the help overlay")
	}
}

func TestRenderQuittingIsEmpty(t *testing.T) {
	m := viewModel()
	m.quitting = true
	assert.Empty(t, m.View())
}
