package config

import "time"

// Mode values for the initial dashboard view.
const (
	ModeClient  = "client"
	ModeBackend = "backend"
)

// Config represents the complete .wtop.yaml configuration file.
type Config struct {
	// Interval is the polling cadence for cluster stats.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Mode selects the initial view: "client" (frontend hosts) or
	// "backend" (storage hosts).
	Mode string `yaml:"mode" mapstructure:"mode"`

	// StaleAfter is how many consecutive missed polls mark a host stale.
	StaleAfter int `yaml:"stale_after" mapstructure:"stale_after"`

	// RemoveAfter is how many consecutive missed polls drop a host from
	// the table entirely.
	RemoveAfter int `yaml:"remove_after" mapstructure:"remove_after"`

	// Columns overrides the default visible column set, in display order.
	// Empty means the built-in default.
	Columns []string `yaml:"columns" mapstructure:"columns"`

	// Weka controls how the weka CLI is invoked.
	Weka WekaConfig `yaml:"weka" mapstructure:"weka"`
}

// WekaConfig controls snapshot source invocation.
type WekaConfig struct {
	// Binary is the weka CLI executable (default "weka").
	Binary string `yaml:"binary" mapstructure:"binary"`

	// SSH runs the weka CLI on a remote cluster node instead of locally.
	// Accepts an SSH config alias, hostname, or user@host[:port].
	SSH string `yaml:"ssh" mapstructure:"ssh"`

	// Timeout bounds a single weka CLI invocation.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Interval:    2 * time.Second,
		Mode:        ModeClient,
		StaleAfter:  2,
		RemoveAfter: 5,
		Weka: WekaConfig{
			Binary:  "weka",
			Timeout: 5 * time.Second,
		},
	}
}
