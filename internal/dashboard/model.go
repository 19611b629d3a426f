// Package dashboard is the Bubble Tea front end: it polls the sampler on a
// timer, holds the view state the keyboard mutates, and renders the host
// table. All state changes flow through Update, so the metric table and the
// view state never race.
package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/weka/wtop/internal/logger"
	"github.com/weka/wtop/internal/sampler"
	"github.com/weka/wtop/internal/weka"
)

// Status is the poll lifecycle state shown in the status line.
type Status int

const (
	StatusInitializing Status = iota // No poll has completed yet
	StatusFetching                   // A poll is in flight
	StatusOk                         // Last poll succeeded
	StatusError                      // Last poll failed; table shows stale data
)

// String returns a human-readable status label.
func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusFetching:
		return "fetching"
	case StatusOk:
		return "ok"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Polling interval bounds and adjustment step for the +/- keys.
const (
	MinInterval  = 500 * time.Millisecond
	MaxInterval  = 10 * time.Second
	IntervalStep = 500 * time.Millisecond
)

// pulseInterval is the animation frame rate for the fetching indicator.
const pulseInterval = 150 * time.Millisecond

// statusInterval is how often the cluster status header is refreshed. Status
// changes slowly, so it polls far less often than the stats table.
const statusInterval = 15 * time.Second

// StatusSource provides the cluster-wide status header.
type StatusSource interface {
	ClusterStatus(ctx context.Context) (*weka.ClusterStatus, error)
}

// Model is the Bubble Tea model for the wtop dashboard.
type Model struct {
	sampler *sampler.Sampler
	status  StatusSource

	// Latest published metric table. Replaced wholesale on every
	// metricsMsg, never mutated in place.
	metrics map[string]*sampler.DerivedMetric
	cluster *weka.ClusterStatus

	// View state, owned by the key handler.
	mode           weka.Role
	sortID         string
	sortDescending bool
	visibleColumns []string
	showHelp       bool

	interval   time.Duration
	pollState  Status
	lastError  *sampler.PollError
	lastUpdate time.Time

	width  int
	height int

	// In-flight poll bookkeeping. cancelPoll interrupts the running weka
	// CLI invocation when the user quits mid-poll.
	polling    bool
	cancelPoll context.CancelFunc

	pulseFrame int
	quitting   bool

	tableViewport viewport.Model
	viewportReady bool

	log logger.Logger
}

// tickMsg signals a periodic stats refresh.
type tickMsg time.Time

// pulseMsg signals a fetching-indicator animation frame.
type pulseMsg time.Time

// statusTickMsg signals a cluster status refresh.
type statusTickMsg time.Time

// metricsMsg carries the complete derived-metric table from one poll.
type metricsMsg struct {
	metrics map[string]*sampler.DerivedMetric
	err     *sampler.PollError
	time    time.Time
}

// statusMsg carries a cluster status header update. nil status means the
// fetch failed; the previous header is kept.
type statusMsg struct {
	status *weka.ClusterStatus
}

// NewModel creates the dashboard model.
func NewModel(smp *sampler.Sampler, status StatusSource, mode weka.Role, interval time.Duration, columns []string) Model {
	if interval < MinInterval {
		interval = MinInterval
	}
	if interval > MaxInterval {
		interval = MaxInterval
	}
	if len(columns) == 0 {
		columns = DefaultColumnIDs
	}
	return Model{
		sampler:        smp,
		status:         status,
		metrics:        make(map[string]*sampler.DerivedMetric),
		mode:           mode,
		sortID:         "host",
		visibleColumns: ValidColumnIDs(columns),
		interval:       interval,
		pollState:      StatusInitializing,
		log:            logger.Default(),
	}
}

// SetLogger installs a logger for diagnostics.
func (m *Model) SetLogger(l logger.Logger) {
	if l != nil {
		m.log = l
	}
}

// Init starts the refresh timers. The first poll fires through an immediate
// tick so the in-flight bookkeeping lives in Update, where model state
// actually persists.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return tickMsg(time.Now()) },
		m.statusCmd(),
		m.pulseCmd(),
		m.statusTickCmd(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, model, cmd := m.handleKey(msg)
		if handled {
			// Mode, sort, and column changes reshape the table.
			model.syncViewport()
			return model, cmd
		}
		// Keys the router ignores scroll the table viewport.
		if m.viewportReady {
			var vpCmd tea.Cmd
			m.tableViewport, vpCmd = m.tableViewport.Update(msg)
			return m, vpCmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()
		m.syncViewport()

	case tickMsg:
		if m.polling {
			// Previous poll still running; skip this cycle rather than
			// stacking CLI invocations.
			return m, m.tickCmd()
		}
		model, cmd := m.startPoll()
		return model, tea.Batch(cmd, model.tickCmd())

	case pulseMsg:
		m.pulseFrame = (m.pulseFrame + 1) % 10000
		return m, m.pulseCmd()

	case statusTickMsg:
		return m, tea.Batch(m.statusCmd(), m.statusTickCmd())

	case metricsMsg:
		m.polling = false
		m.cancelPoll = nil
		m.metrics = msg.metrics
		m.lastUpdate = msg.time
		if msg.err != nil {
			m.pollState = StatusError
			m.lastError = msg.err
		} else {
			m.pollState = StatusOk
			m.lastError = nil
		}
		m.syncViewport()

	case statusMsg:
		if msg.status != nil {
			m.cluster = msg.status
		}
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}

// startPoll marks a poll in flight and returns the command that runs it.
// The poll context is cancellable so quitting interrupts the CLI call.
func (m Model) startPoll() (Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	m.polling = true
	m.cancelPoll = cancel
	if m.pollState != StatusInitializing {
		m.pollState = StatusFetching
	}
	return m, m.pollCmd(ctx)
}

// pollCmd runs one sampler poll off the update loop.
func (m Model) pollCmd(ctx context.Context) tea.Cmd {
	smp := m.sampler
	log := m.log
	return func() tea.Msg {
		metrics, err := smp.Poll(ctx)
		var pollErr *sampler.PollError
		if err != nil {
			log.Debug("poll failed: %v", err)
			pollErr, _ = err.(*sampler.PollError)
			if pollErr == nil {
				pollErr = &sampler.PollError{Kind: sampler.KindUnreachable, Message: err.Error()}
			}
		}
		return metricsMsg{metrics: metrics, err: pollErr, time: time.Now()}
	}
}

// statusCmd fetches the cluster status header off the update loop.
func (m Model) statusCmd() tea.Cmd {
	src := m.status
	if src == nil {
		return nil
	}
	log := m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), statusInterval)
		defer cancel()
		status, err := src.ClusterStatus(ctx)
		if err != nil {
			log.Debug("cluster status fetch failed: %v", err)
			return statusMsg{status: nil}
		}
		return statusMsg{status: status}
	}
}

// tickCmd returns a command that sends a tick after the refresh interval.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// pulseCmd returns a command that sends a pulse animation frame.
func (m Model) pulseCmd() tea.Cmd {
	return tea.Tick(pulseInterval, func(t time.Time) tea.Msg {
		return pulseMsg(t)
	})
}

// statusTickCmd returns a command that schedules the next status refresh.
func (m Model) statusTickCmd() tea.Cmd {
	return tea.Tick(statusInterval, func(t time.Time) tea.Msg {
		return statusTickMsg(t)
	})
}

// resizeViewport sizes the row viewport to the space between the fixed
// header block and the footer.
func (m *Model) resizeViewport() {
	headerHeight := 5 // title, cluster line, status line, blank, column header
	footerHeight := 2
	viewportHeight := m.height - headerHeight - footerHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	if !m.viewportReady {
		m.tableViewport = viewport.New(m.width, viewportHeight)
		m.tableViewport.YPosition = headerHeight
		m.viewportReady = true
	} else {
		m.tableViewport.Width = m.width
		m.tableViewport.Height = viewportHeight
	}
}

// syncViewport re-renders the table rows into the scrolling viewport. Content
// lives on the persisted model so the scroll offset survives refreshes.
func (m *Model) syncViewport() {
	if !m.viewportReady {
		return
	}
	m.tableViewport.SetContent(m.renderTableContent(m.Table()))
}

// Table builds the current projected table from the latest metrics and view
// state. Exposed for the renderer and tests.
func (m Model) Table() Table {
	return BuildTable(m.metrics, m.mode, m.visibleColumns, m.sortID, m.sortDescending)
}

// SecondsSinceUpdate returns how many seconds have passed since the last
// successful or failed poll completed.
func (m Model) SecondsSinceUpdate() int {
	if m.lastUpdate.IsZero() {
		return 0
	}
	return int(time.Since(m.lastUpdate).Seconds())
}

// Pulse returns the current fetching-indicator frame.
func (m Model) Pulse() string {
	return PulseFrames[m.pulseFrame%len(PulseFrames)]
}
