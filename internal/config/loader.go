package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"github.com/weka/wtop/internal/errors"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".wtop.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/wtop"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'wtop init' to create one, or specify a path with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .wtop.yaml in current directory
// 3. .wtop.yaml in parent directories (stops at home)
// 4. ~/.config/wtop/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	home, _ := os.UserHomeDir()
	dir := cwd
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if home != "" && parent == home {
			break
		}
		dir = parent

		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	if home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads config from the found path, or returns defaults if no
// config file exists anywhere in the search order.
func LoadOrDefault(explicit string) (*Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// parseConfig unmarshals viper state into a Config and validates it.
func parseConfig(v *viper.Viper) (*Config, error) {
	cfg := Default()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Config file has an unexpected structure",
			"Compare your file against the output of 'wtop init'")
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks a Config for values the dashboard cannot run with.
func Validate(cfg *Config) error {
	if cfg.Mode != ModeClient && cfg.Mode != ModeBackend {
		return errors.New(errors.ErrConfig,
			"Invalid mode: "+cfg.Mode,
			"Use 'client' or 'backend'")
	}
	if cfg.Interval < 500*time.Millisecond {
		return errors.New(errors.ErrConfig,
			"Polling interval too short",
			"Minimum interval is 500ms to avoid overwhelming the cluster")
	}
	if cfg.RemoveAfter > 0 && cfg.StaleAfter > cfg.RemoveAfter {
		return errors.New(errors.ErrConfig,
			"stale_after is larger than remove_after",
			"A host must go stale before it can be removed")
	}
	return nil
}
