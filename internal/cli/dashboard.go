package cli

import (
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/weka/wtop/internal/config"
	"github.com/weka/wtop/internal/dashboard"
	"github.com/weka/wtop/internal/errors"
	"github.com/weka/wtop/internal/logger"
	"github.com/weka/wtop/internal/sampler"
	"github.com/weka/wtop/internal/weka"
	"golang.org/x/term"
)

// dashboardCommand loads config, applies flag overrides, and runs the TUI.
func dashboardCommand(configPath, mode, interval, sshHost, binary string) error {
	log := logger.Default()

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}

	// Flags override the config file.
	if mode != "" {
		cfg.Mode = mode
	}
	if interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return errors.New(errors.ErrConfig,
				"Invalid interval: "+interval,
				"Use a Go duration like 1s, 500ms, or 2s")
		}
		cfg.Interval = d
	}
	if sshHost != "" {
		cfg.Weka.SSH = sshHost
	}
	if binary != "" {
		cfg.Weka.Binary = binary
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	// The dashboard takes over the whole screen; refuse to start when
	// not attached to a terminal.
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrTerm,
			"wtop requires an interactive terminal",
			"Run wtop directly in a terminal, not through a pipe or redirect")
	}

	var runner weka.Runner
	var sshRunner *weka.SSHRunner
	if cfg.Weka.SSH != "" {
		sshRunner = weka.NewSSHRunner(cfg.Weka.SSH, cfg.Weka.Timeout)
		runner = sshRunner
	} else {
		runner = weka.LocalRunner{}
	}

	source := weka.NewSource(runner, cfg.Weka.Binary)
	source.SetTimeout(cfg.Weka.Timeout)
	source.SetLogger(log)

	smp := sampler.New(source, cfg.StaleAfter, cfg.RemoveAfter)
	smp.SetLogger(log)

	role := weka.RoleFrontend
	if cfg.Mode == config.ModeBackend {
		role = weka.RoleBackend
	}

	model := dashboard.NewModel(smp, source, role, cfg.Interval, cfg.Columns)
	model.SetLogger(log)

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()

	if sshRunner != nil {
		sshRunner.Close()
	}

	if err != nil {
		return errors.WrapWithCode(err, errors.ErrTerm,
			"Dashboard terminated unexpectedly",
			"Check terminal compatibility; set WTOP_DEBUG=1 for diagnostics")
	}
	return nil
}
