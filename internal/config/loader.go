package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/printwatch/topbar/internal/errors"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = "topbar.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/topbar"
)

// Load reads the settings document from the specified path.
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'topbar dashboard' once to create a default config, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseSettings(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. topbar.yaml in current directory
// 3. ~/.config/topbar/topbar.yaml
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

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, ConfigFileName)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads settings from the found path, or returns defaults if
// no config file exists yet.
func LoadOrDefault(explicit string) (*Settings, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		return DefaultSettings(), "", nil
	}

	s, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return s, path, nil
}

// parseSettings converts viper config to our Settings struct with defaults
// merged in, so documents written by older versions pick up new fields.
func parseSettings(v *viper.Viper, path string) (*Settings, error) {
	setDefaults(v)

	cfg := DefaultSettings()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	// Custom monitors deserialized from partial documents still need the
	// template fields filled; viper only merges what the file mentions.
	for id, cm := range cfg.Custom {
		if cm.Interval <= 0 {
			cm.Interval = CustomTemplate().Interval
		}
		if cm.CommandType == "" {
			cm.CommandType = CommandShell
		}
		cfg.Custom[id] = cm
	}

	return cfg, nil
}

// setDefaults configures viper defaults for top-level scalar settings.
func setDefaults(v *viper.Viper) {
	v.SetDefault("version", CurrentConfigVersion)
	v.SetDefault("fahrenheit", false)
	v.SetDefault("hide_inactive_temps", true)
	v.SetDefault("no_tools", DefaultToolCount)
	v.SetDefault("outer_margin", 4)
	v.SetDefault("inner_margin", 8)
}
