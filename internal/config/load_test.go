package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/sitebox/internal/constants"
	sberrors "github.com/mrz1836/sitebox/internal/errors"
)

// isolate points the sitebox home and working directory at empty temp dirs
// and clears every SITEBOX_ variable that could leak from the environment.
func isolate(t *testing.T) (home, wd string) {
	t.Helper()

	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, constants.EnvPrefix+"_") {
			t.Setenv(key, "")
			require.NoError(t, os.Unsetenv(key))
		}
	}

	home = t.TempDir()
	wd = t.TempDir()
	t.Setenv(constants.HomeEnvVar, home)
	t.Chdir(wd)
	return home, wd
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_ReturnsDefaultsWhenNoConfigFile(t *testing.T) {
	_, wd := isolate(t)

	cfg, err := Load(context.Background())
	require.NoError(t, err, "Load should not fail when no config file exists")

	resolved, err := filepath.EvalSymlinks(wd)
	require.NoError(t, err)
	actual, err := filepath.EvalSymlinks(cfg.Root)
	require.NoError(t, err)
	assert.Equal(t, resolved, actual, "root defaults to the working directory")

	assert.Equal(t, []string{"docker", "compose"}, cfg.Compose.Command)
	assert.Equal(t, time.Second, cfg.Readiness.Interval)
	assert.Equal(t, 2*time.Minute, cfg.Readiness.Timeout)
}

func TestLoad_PrecedenceEnvProjectGlobal(t *testing.T) {
	home, wd := isolate(t)

	writeFile(t, filepath.Join(home, "config.yaml"), `
network:
  name: globalnet
database:
  port: 3307
readiness:
  timeout: 30s
`)
	writeFile(t, filepath.Join(wd, ".sitebox.yaml"), `
network:
  name: projectnet
compose:
  command: ["docker-compose"]
`)
	t.Setenv("SITEBOX_DATABASE_PORT", "3310")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "projectnet", cfg.Network.Name, "project overrides global")
	assert.Equal(t, 3310, cfg.Database.Port, "env overrides files")
	assert.Equal(t, 30*time.Second, cfg.Readiness.Timeout, "global overrides defaults")
	assert.Equal(t, []string{"docker-compose"}, cfg.Compose.Command)
}

func TestLoad_ComposeCommandFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("SITEBOX_COMPOSE_COMMAND", "podman  compose")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"podman", "compose"}, cfg.Compose.Command)
}

func TestLoad_InvalidValueFails(t *testing.T) {
	home, _ := isolate(t)
	writeFile(t, filepath.Join(home, "config.yaml"), `
readiness:
  interval: 10m
  timeout: 1m
`)

	_, err := Load(context.Background())
	require.ErrorIs(t, err, sberrors.ErrConfigInvalid)
}

func TestLoad_MalformedGlobalConfig(t *testing.T) {
	home, _ := isolate(t)
	writeFile(t, filepath.Join(home, "config.yaml"), "network: [unclosed")

	_, err := Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read global config file")
}

func TestLoadWithOverrides_RootFlagWins(t *testing.T) {
	isolate(t)
	t.Setenv("SITEBOX_ROOT", "/from/env")
	root := t.TempDir()

	cfg, err := LoadWithOverrides(context.Background(), &Config{Root: root, SitesDir: "projects"})
	require.NoError(t, err)

	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, filepath.Join(root, "projects"), cfg.SitesPath())
}

func TestLoadWithOverrides_NilOverrides(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithOverrides(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "sites", cfg.SitesDir)
}

func TestLoadFromPaths_ProjectConfigOverridesGlobal(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	globalConfig := filepath.Join(dir, "global.yaml")
	writeFile(t, globalConfig, `
root: /srv/global
database:
  user: admin
  service: db
`)
	projectConfig := filepath.Join(dir, "project.yaml")
	writeFile(t, projectConfig, `
root: /srv/project
ui:
  forms: true
`)

	cfg, err := LoadFromPaths(context.Background(), projectConfig, globalConfig)
	require.NoError(t, err)

	assert.Equal(t, filepath.Clean("/srv/project"), cfg.Root)
	assert.Equal(t, "admin", cfg.Database.User)
	assert.Equal(t, "db", cfg.Database.Service)
	assert.True(t, cfg.UI.Forms)
}

func TestLoadFromPaths_MissingFilesUseDefaults(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	cfg, err := LoadFromPaths(context.Background(),
		filepath.Join(dir, "missing-project.yaml"),
		filepath.Join(dir, "missing-global.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "wplocaldocker", cfg.Network.Name)
}
