package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/weka/wtop/internal/config"
	"github.com/weka/wtop/internal/errors"
	"gopkg.in/yaml.v3"
)

var initForce bool

// initCmd creates a new .wtop.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .wtop.yaml configuration",
	Long: `Initialize a new wtop configuration file.

Creates a .wtop.yaml in the current directory with interactive prompts for
the polling interval, initial view, and how to reach the weka CLI.

Examples:
  wtop init
  wtop init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initForce)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config without asking")
}

// initCommand creates a new .wtop.yaml configuration file.
func initCommand(force bool) error {
	configPath := filepath.Join(".", config.ConfigFileName)

	// Check for existing config
	if _, err := os.Stat(configPath); err == nil && !force {
		var overwrite bool

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)

		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}

		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	cfg := config.Default()
	intervalStr := cfg.Interval.String()
	sshHost := ""

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Initial view").
				Description("Which hosts to show on startup").
				Options(
					huh.NewOption("Clients (frontend hosts)", config.ModeClient),
					huh.NewOption("Backends (storage hosts)", config.ModeBackend),
				).
				Value(&cfg.Mode),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Polling interval").
				Description("How often to sample the cluster (e.g. 2s, 500ms)").
				Placeholder("2s").
				Value(&intervalStr).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return nil
					}
					d, err := time.ParseDuration(s)
					if err != nil {
						return fmt.Errorf("not a duration: use 2s, 1s, 500ms")
					}
					if d < 500*time.Millisecond {
						return fmt.Errorf("minimum interval is 500ms")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("SSH host (optional)").
				Description("Run the weka CLI on a remote node; leave empty to run locally").
				Placeholder("admin@cluster-node").
				Value(&sshHost),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility")
	}

	if s := strings.TrimSpace(intervalStr); s != "" {
		cfg.Interval, _ = time.ParseDuration(s)
	}
	cfg.Weka.SSH = strings.TrimSpace(sshHost)

	// Marshal to YAML
	data, err := renderConfig(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}

	header := `# wtop configuration
# Run 'wtop' to start the dashboard
# See: https://github.com/weka/wtop for documentation

`
	content := header + string(data)

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Printf("✓ Created %s\n\n", configPath)
	fmt.Println("Next steps:")
	fmt.Println("  wtop            - Start the dashboard")
	fmt.Println("  wtop --mode backend")

	return nil
}

// configDocument mirrors Config for YAML output. Durations are written in
// their human-readable form ("2s", not raw nanoseconds) so the generated
// file stays editable.
type configDocument struct {
	Interval    string   `yaml:"interval"`
	Mode        string   `yaml:"mode"`
	StaleAfter  int      `yaml:"stale_after"`
	RemoveAfter int      `yaml:"remove_after"`
	Columns     []string `yaml:"columns,omitempty"`
	Weka        struct {
		Binary  string `yaml:"binary"`
		SSH     string `yaml:"ssh,omitempty"`
		Timeout string `yaml:"timeout"`
	} `yaml:"weka"`
}

// renderConfig serializes a config for writing to .wtop.yaml.
func renderConfig(cfg *config.Config) ([]byte, error) {
	var doc configDocument
	doc.Interval = cfg.Interval.String()
	doc.Mode = cfg.Mode
	doc.StaleAfter = cfg.StaleAfter
	doc.RemoveAfter = cfg.RemoveAfter
	doc.Columns = cfg.Columns
	doc.Weka.Binary = cfg.Weka.Binary
	doc.Weka.SSH = cfg.Weka.SSH
	doc.Weka.Timeout = cfg.Weka.Timeout.String()
	return yaml.Marshal(doc)
}
