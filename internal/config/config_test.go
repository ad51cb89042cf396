package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/sitebox/internal/constants"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "sites", cfg.SitesDir)
	assert.Equal(t, "global", cfg.GlobalDir)
	assert.Equal(t, []string{"docker", "compose"}, cfg.Compose.Command)
	assert.Equal(t, "wplocaldocker", cfg.Network.Name)
	assert.Equal(t, "bridge", cfg.Network.Driver)
	assert.Equal(t, "127.0.0.1", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "root", cfg.Database.User)
	assert.Equal(t, "password", cfg.Database.Password)
	assert.Equal(t, "mysql", cfg.Database.Service)
	assert.Equal(t, "ready for connections", cfg.Database.ReadyMarker)
	assert.Equal(t, constants.DefaultReadinessInterval, cfg.Readiness.Interval)
	assert.Equal(t, constants.DefaultReadinessTimeout, cfg.Readiness.Timeout)
	assert.Equal(t, constants.DefaultLockTimeout, cfg.Lock.Timeout)
	assert.False(t, cfg.UI.Forms)
}

func TestConfig_Paths(t *testing.T) {
	root := t.TempDir()

	t.Run("relative dirs join root", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Root = root

		assert.Equal(t, filepath.Join(root, "sites"), cfg.SitesPath())
		assert.Equal(t, filepath.Join(root, "global"), cfg.GlobalPath())
	})

	t.Run("absolute dirs win", func(t *testing.T) {
		other := t.TempDir()
		cfg := DefaultConfig()
		cfg.Root = root
		cfg.SitesDir = other

		assert.Equal(t, other, cfg.SitesPath())
	})
}

func TestConfig_Redacted(t *testing.T) {
	cfg := DefaultConfig()

	out := cfg.Redacted()
	require.NotSame(t, cfg, out)
	assert.Equal(t, redactedValue, out.Database.Password)
	assert.Equal(t, "password", cfg.Database.Password, "original must be untouched")

	out.Compose.Command[0] = "podman"
	assert.Equal(t, "docker", cfg.Compose.Command[0], "command slice must be copied")

	cfg.Database.Password = ""
	assert.Empty(t, cfg.Redacted().Database.Password, "empty password stays empty")
}
