package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/printwatch/topbar/internal/errors"
)

// Save writes the settings document to the given path atomically: the YAML is
// written to a temp file in the same directory and renamed into place, so a
// crash mid-write never leaves a truncated config behind.
func Save(s *Settings, path string) error {
	if path == "" {
		return errors.New(errors.ErrConfig,
			"No config path to save to",
			"Pass --config or create "+ConfigFileName+" first")
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to serialize settings", "")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to create config directory "+dir,
			"Check directory permissions")
	}

	tmp, err := os.CreateTemp(dir, ".topbar-*.yaml")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to create temp file for config save",
			"Check directory permissions on "+dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write settings", "")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to flush settings", "")
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to replace config file "+path,
			"Check file permissions")
	}

	return nil
}

// DefaultPath returns the global config file location under the user's home
// directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ConfigFileName
	}
	return filepath.Join(home, GlobalConfigDir, ConfigFileName)
}
