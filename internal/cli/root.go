// Package cli wires the cobra command tree: the root command launches the
// dashboard, with init and version as subcommands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Root command flags
var (
	modeFlag     string
	intervalFlag string
	configFlag   string
	sshFlag      string
	binaryFlag   string
)

// rootCmd is the top-level wtop command. Running it with no subcommand
// starts the dashboard.
var rootCmd = &cobra.Command{
	Use:   "wtop",
	Short: "Live performance dashboard for WEKA clusters",
	Long: `wtop is a top-style terminal dashboard for WEKA clusters.

It polls the weka CLI on an interval, derives per-second rates from the
cluster's cumulative performance counters, and renders a sortable table of
frontend or backend hosts.

Examples:
  wtop
  wtop --mode backend
  wtop --interval 1s
  wtop --ssh admin@cluster-node`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(configFlag, modeFlag, intervalFlag, sshFlag, binaryFlag)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "Initial view: client or backend (default from config)")
	rootCmd.Flags().StringVarP(&intervalFlag, "interval", "i", "", "Polling interval, e.g. 1s or 500ms (default from config)")
	rootCmd.Flags().StringVar(&sshFlag, "ssh", "", "Run the weka CLI on a remote node (alias, host, or user@host[:port])")
	rootCmd.Flags().StringVar(&binaryFlag, "binary", "", "Path to the weka CLI executable")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to a config file (default: .wtop.yaml search)")
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
