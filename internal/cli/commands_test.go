package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/sitebox/internal/errors"
)

func TestRoot_HelpListsCommands(t *testing.T) {
	h := newHarness(t)

	res := h.run("--help")

	require.NoError(t, res.err)
	for _, want := range []string{"start", "stop", "restart", "delete", "list", "global", "config", "doctor", "completion", "--root", "--output"} {
		assert.Contains(t, res.stdout, want)
	}
}

func TestRoot_NoArgsPrintsHelp(t *testing.T) {
	h := newHarness(t)

	res := h.run()

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "sitebox starts, stops, restarts and deletes")
}

func TestRoot_Version(t *testing.T) {
	h := newHarness(t)

	res := h.run("--version")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "1.2.3 (commit: abc123, built: 2026-01-01)")
}

func TestFormatVersion_Defaults(t *testing.T) {
	assert.Equal(t, "dev (commit: none, built: unknown)", formatVersion(BuildInfo{}))
}

func TestRoot_InvalidOutputFormat(t *testing.T) {
	h := newHarness(t, "docker-test")

	res := h.run("-o", "xml", "list")

	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, errors.ErrInvalidOutputFormat)
	assert.Equal(t, ExitInvalidInput, res.code)
}

func TestRoot_UnknownCommand(t *testing.T) {
	h := newHarness(t)

	res := h.run("launch")

	require.Error(t, res.err)
	assert.Equal(t, ExitInvalidInput, res.code)
}

func TestRoot_OutputFromEnvironment(t *testing.T) {
	h := newHarness(t, "docker-test")
	t.Setenv("SITEBOX_OUTPUT", "json")

	res := h.run("list")
	require.NoError(t, res.err)

	var views []environmentView
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &views))
	require.Len(t, views, 1)
}

func TestList_Text(t *testing.T) {
	h := newHarness(t, "alpha", "beta")
	require.NoError(t, os.WriteFile(filepath.Join(h.sitesDir(), "notes.txt"), []byte("x"), 0o600))

	res := h.run("list")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "ENVIRONMENT")
	assert.Contains(t, res.stdout, h.envDir("alpha"))
	assert.Contains(t, res.stdout, h.envDir("beta"))
	assert.NotContains(t, res.stdout, "notes.txt")
}

func TestList_Empty(t *testing.T) {
	h := newHarness(t)

	res := h.run("ls")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "No environments found in "+h.sitesDir())
}

func TestList_JSON(t *testing.T) {
	h := newHarness(t, "alpha", "beta")

	res := h.run("list", "--output", "json")
	require.NoError(t, res.err)

	var views []environmentView
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "alpha", views[0].Slug)
	assert.Equal(t, h.envDir("alpha"), views[0].Path)
	assert.Empty(t, views[0].Result)
}

func TestList_EmptyJSONIsArray(t *testing.T) {
	h := newHarness(t)

	res := h.run("list", "-o", "json")

	require.NoError(t, res.err)
	assert.JSONEq(t, "[]", res.stdout)
}

func TestGlobalStart(t *testing.T) {
	h := newHarness(t)

	res := h.run("global", "start")

	require.NoError(t, res.err)
	assert.Equal(t, []string{"wplocaldocker"}, h.docker.created)
	assert.Equal(t, []string{"docker compose up -d", "docker compose logs mysql"}, h.runner.lines(h.globalDir()))
	assert.Contains(t, res.stdout, "Global services: start done")
}

func TestGlobalStop_NetworkAlreadyAbsent(t *testing.T) {
	h := newHarness(t)

	res := h.run("global", "stop")

	require.NoError(t, res.err)
	assert.Equal(t, []string{"docker compose down"}, h.runner.lines(h.globalDir()))
	assert.Empty(t, h.docker.removed)
}

func TestGlobalRestart_JSON(t *testing.T) {
	h := newHarness(t)
	h.docker.networks["wplocaldocker"] = "net-1"

	res := h.run("-o", "json", "global", "restart")
	require.NoError(t, res.err)

	var view globalActionView
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &view))
	assert.Equal(t, "restart", view.Action)
	assert.Empty(t, view.Warnings)
	assert.Nil(t, view.Error)
	assert.Empty(t, h.docker.created)
}

func TestGlobalStatus_Text(t *testing.T) {
	h := newHarness(t)
	h.docker.networks["wplocaldocker"] = "net-1"

	res := h.run("global", "status")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "RESOURCE")
	assert.Contains(t, res.stdout, "wplocaldocker")
	assert.Contains(t, res.stdout, "present")
	assert.Contains(t, res.stdout, h.globalDir())
	assert.NotContains(t, res.stdout, "missing")
}

func TestGlobalStatus_MissingNetwork(t *testing.T) {
	h := newHarness(t)

	res := h.run("global", "status")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "missing")
}

func TestConfigShow_YAMLMasksPassword(t *testing.T) {
	h := newHarness(t)
	t.Setenv("SITEBOX_DATABASE_PASSWORD", "hunter22-secret")

	res := h.run("config", "show")
	require.NoError(t, res.err)

	assert.NotContains(t, res.stdout, "hunter22-secret")

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &doc))
	assert.Equal(t, h.root, doc["root"])
	db, ok := doc["database"].(map[string]any)
	require.True(t, ok)
	assert.NotEqual(t, "hunter22-secret", db["password"])
}

func TestConfigShow_JSONFollowsOutput(t *testing.T) {
	h := newHarness(t)

	res := h.run("-o", "json", "config", "show")
	require.NoError(t, res.err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &doc))
	assert.Equal(t, h.root, doc["root"])
	assert.NotEqual(t, "password", doc["database"].(map[string]any)["password"])
}

func TestConfigShow_InvalidFormat(t *testing.T) {
	h := newHarness(t)

	res := h.run("config", "show", "--format", "toml")

	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, errors.ErrInvalidOutputFormat)
	assert.Equal(t, ExitInvalidInput, res.code)
}

func TestCompletion_Scripts(t *testing.T) {
	h := newHarness(t)

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			res := h.run("completion", shell)
			require.NoError(t, res.err)
			assert.Contains(t, res.stdout, "sitebox")
		})
	}
}

func TestCompletion_Environments(t *testing.T) {
	h := newHarness(t, "docker-test", "other-site")

	res := h.runRaw("__complete", "start", "--root", h.root, "docker.")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "docker-test")
	assert.NotContains(t, res.stdout, "other-site")
	assert.NotContains(t, res.stdout, "every environment")
}

func TestCompletion_AllOnlyForLifecycleCommands(t *testing.T) {
	h := newHarness(t, "alpha")

	start := h.runRaw("__complete", "start", "--root", h.root, "")
	require.NoError(t, start.err)
	assert.Contains(t, start.stdout, "all\tevery environment")
	assert.Contains(t, start.stdout, "alpha")

	del := h.runRaw("__complete", "delete", "--root", h.root, "")
	require.NoError(t, del.err)
	assert.NotContains(t, del.stdout, "every environment")
	assert.Contains(t, del.stdout, "alpha")
}
