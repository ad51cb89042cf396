package config

import (
	"os"
	"path/filepath"

	"github.com/mrz1836/sitebox/internal/constants"
	"github.com/mrz1836/sitebox/internal/errors"
)

// HomeDir returns the sitebox home directory holding logs, the lock file
// and the global config. $SITEBOX_HOME wins; otherwise ~/.sitebox.
//
// Returns an error if the home directory cannot be determined.
func HomeDir() (string, error) {
	if dir := os.Getenv(constants.HomeEnvVar); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.SiteboxHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", errors.Wrap(err, "get global config path")
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// ProjectConfigPath returns the relative path to the project configuration file.
// This is always .sitebox.yaml in the working directory.
func ProjectConfigPath() string {
	return constants.ProjectConfigName
}

// LockPath returns the advisory lock file path.
func LockPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", errors.Wrap(err, "get lock path")
	}
	return filepath.Join(dir, constants.LockFileName), nil
}

// LogPath returns the rotating CLI log file path.
func LogPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", errors.Wrap(err, "get log path")
	}
	return filepath.Join(dir, constants.LogsDir, constants.CLILogFileName), nil
}
