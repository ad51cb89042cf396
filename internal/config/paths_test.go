package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/sitebox/internal/constants"
)

func TestHomeDir_EnvOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv(constants.HomeEnvVar, home)

	dir, err := HomeDir()
	require.NoError(t, err)
	assert.Equal(t, home, dir)
}

func TestHomeDir_DefaultsToUserHome(t *testing.T) {
	userHome := t.TempDir()
	t.Setenv(constants.HomeEnvVar, "")
	t.Setenv("HOME", userHome)

	dir, err := HomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(userHome, constants.SiteboxHome), dir)
}

func TestDerivedPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv(constants.HomeEnvVar, home)

	cfgPath, err := GlobalConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "config.yaml"), cfgPath)

	lockPath, err := LockPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "sitebox.lock"), lockPath)

	logPath, err := LogPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs", "sitebox.log"), logPath)
}

func TestProjectConfigPath(t *testing.T) {
	assert.Equal(t, ".sitebox.yaml", ProjectConfigPath())
}
