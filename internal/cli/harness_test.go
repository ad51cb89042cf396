package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docker/docker/api/types/network"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/sitebox/internal/clock"
	"github.com/mrz1836/sitebox/internal/database"
	"github.com/mrz1836/sitebox/internal/deletion"
	"github.com/mrz1836/sitebox/internal/doctor"
	sbnetwork "github.com/mrz1836/sitebox/internal/network"
)

// commandCall is one recorded compose invocation.
type commandCall struct {
	dir  string
	line string
}

// fakeRunner records compose invocations. Run fails with the error mapped
// to its directory in failDirs.
type fakeRunner struct {
	calls    []commandCall
	logs     string
	failDirs map[string]error
}

func (r *fakeRunner) Run(_ context.Context, dir, name string, args ...string) error {
	r.calls = append(r.calls, commandCall{dir: dir, line: name + " " + strings.Join(args, " ")})
	if err, ok := r.failDirs[dir]; ok {
		return err
	}
	return nil
}

func (r *fakeRunner) RunOutput(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, commandCall{dir: dir, line: name + " " + strings.Join(args, " ")})
	return []byte(r.logs), nil
}

// lines returns the recorded command lines run in dir.
func (r *fakeRunner) lines(dir string) []string {
	var out []string
	for _, c := range r.calls {
		if c.dir == dir {
			out = append(out, c.line)
		}
	}
	return out
}

// dirs returns the directory of every recorded call in order.
func (r *fakeRunner) dirs() []string {
	out := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c.dir)
	}
	return out
}

// fakeDocker keeps networks in memory.
type fakeDocker struct {
	networks map[string]string
	created  []string
	removed  []string
}

func (d *fakeDocker) NetworkList(_ context.Context, _ network.ListOptions) ([]network.Summary, error) {
	out := make([]network.Summary, 0, len(d.networks))
	for name, id := range d.networks {
		out = append(out, network.Summary{Name: name, ID: id, Driver: "bridge"})
	}
	return out, nil
}

func (d *fakeDocker) NetworkCreate(_ context.Context, name string, _ network.CreateOptions) (network.CreateResponse, error) {
	id := "net-" + name
	d.networks[name] = id
	d.created = append(d.created, name)
	return network.CreateResponse{ID: id}, nil
}

func (d *fakeDocker) NetworkRemove(_ context.Context, id string) error {
	for name, nid := range d.networks {
		if nid == id {
			delete(d.networks, name)
			d.removed = append(d.removed, name)
		}
	}
	return nil
}

// fakeDropper records dropped schemas.
type fakeDropper struct {
	dropped []string
	opts    database.Options
	err     error
}

func (d *fakeDropper) DropDatabase(_ context.Context, name string) error {
	d.dropped = append(d.dropped, name)
	return d.err
}

// fakePinger answers Ping with err.
type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(context.Context) error { return p.err }

// harness runs the root command against a temporary site tree.
type harness struct {
	t         *testing.T
	root      string
	home      string
	runner    *fakeRunner
	docker    *fakeDocker
	dockerErr error
	dropper   *fakeDropper
	pinger    *fakePinger
	removed   []string
	terminal  bool
	stdin     string
	logs      bytes.Buffer
}

func newHarness(t *testing.T, envs ...string) *harness {
	t.Helper()

	h := &harness{
		t:       t,
		root:    t.TempDir(),
		home:    t.TempDir(),
		runner:  &fakeRunner{logs: "mysqld: ready for connections."},
		docker:  &fakeDocker{networks: map[string]string{}},
		dropper: &fakeDropper{},
		pinger:  &fakePinger{},
	}

	t.Setenv("SITEBOX_HOME", h.home)
	t.Setenv("NO_COLOR", "1")

	require.NoError(t, os.MkdirAll(h.globalDir(), 0o750))
	for _, env := range envs {
		h.addEnvironment(env)
	}
	return h
}

func (h *harness) sitesDir() string { return filepath.Join(h.root, "sites") }

func (h *harness) globalDir() string { return filepath.Join(h.root, "global") }

func (h *harness) envDir(slug string) string { return filepath.Join(h.sitesDir(), slug) }

func (h *harness) addEnvironment(slug string) {
	h.t.Helper()
	dir := h.envDir(slug)
	require.NoError(h.t, os.MkdirAll(dir, 0o750))
	require.NoError(h.t, os.WriteFile(filepath.Join(dir, "docker-compose.yml"), []byte("services: {}\n"), 0o600))
}

func (h *harness) deps() *dependencies {
	logger := zerolog.New(&h.logs).Level(zerolog.DebugLevel)
	return &dependencies{
		runner: h.runner,
		docker: func() (sbnetwork.DockerClient, error) {
			if h.dockerErr != nil {
				return nil, h.dockerErr
			}
			return h.docker, nil
		},
		dropper: func(opts database.Options, _ zerolog.Logger) deletion.Dropper {
			h.dropper.opts = opts
			return h.dropper
		},
		pinger: func(database.Options, zerolog.Logger) doctor.Pinger { return h.pinger },
		remove: func(path string) error {
			h.removed = append(h.removed, path)
			return os.RemoveAll(path)
		},
		terminal: func() bool { return h.terminal },
		clock:    clock.RealClock{},
		lockPath: func() (string, error) { return filepath.Join(h.home, "sitebox.lock"), nil },
		logger:   &logger,
	}
}

// result is the outcome of one command invocation.
type result struct {
	stdout string
	stderr string
	err    error
	code   int
}

// run executes sitebox with args, prefixed by --root.
func (h *harness) run(args ...string) result {
	h.t.Helper()
	return h.runRaw(append([]string{"--root", h.root}, args...)...)
}

// runRaw executes sitebox with args exactly as given.
func (h *harness) runRaw(args ...string) result {
	h.t.Helper()

	var stdout, stderr bytes.Buffer
	err := execute(context.Background(), BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"},
		h.deps(), args, &streams{in: strings.NewReader(h.stdin), out: &stdout, err: &stderr})

	return result{stdout: stdout.String(), stderr: stderr.String(), err: err, code: ExitCodeForError(err)}
}
