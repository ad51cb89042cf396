package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/sitebox/internal/domain"
	"github.com/mrz1836/sitebox/internal/environment"
	sberrors "github.com/mrz1836/sitebox/internal/errors"
	"github.com/mrz1836/sitebox/internal/global"
	"github.com/mrz1836/sitebox/internal/testutil"
)

// trace records every call made by the fakes in order.
type trace struct {
	calls []string
}

type fakeComposer struct {
	tr    *trace
	fail  map[string]error
	dirs  []string
	onRun func()
}

func (f *fakeComposer) Run(_ context.Context, env domain.Environment, action domain.Action) error {
	f.tr.calls = append(f.tr.calls, action.String()+":"+env.Slug)
	f.dirs = append(f.dirs, env.Path)
	if f.onRun != nil {
		f.onRun()
	}
	return f.fail[env.Slug]
}

type fakeGlobals struct {
	tr       *trace
	err      error
	warnings []global.Warning
}

func (f *fakeGlobals) step(name string) (global.Report, error) {
	f.tr.calls = append(f.tr.calls, "global:"+name)
	return global.Report{Warnings: f.warnings}, f.err
}

func (f *fakeGlobals) Start(context.Context) (global.Report, error)   { return f.step("start") }
func (f *fakeGlobals) Stop(context.Context) (global.Report, error)    { return f.step("stop") }
func (f *fakeGlobals) Restart(context.Context) (global.Report, error) { return f.step("restart") }

// fixedRegistry lists environments in a fixed order so tests can assert on
// discovery order independent of the filesystem.
type fixedRegistry struct {
	envs    []domain.Environment
	listErr error
}

func (r *fixedRegistry) Resolve(_ context.Context, name string) (domain.Environment, error) {
	for _, e := range r.envs {
		if e.Slug == name {
			return e, nil
		}
	}
	return domain.Environment{}, sberrors.ErrEnvironmentNotFound
}

func (r *fixedRegistry) List(context.Context) ([]domain.Environment, error) {
	return r.envs, r.listErr
}

func envs(slugs ...string) []domain.Environment {
	out := make([]domain.Environment, 0, len(slugs))
	for _, s := range slugs {
		out = append(out, domain.Environment{Name: s, Slug: s, Path: "/www/sites/" + s})
	}
	return out
}

type fixture struct {
	tr       *trace
	composer *fakeComposer
	globals  *fakeGlobals
	registry *fixedRegistry
	orch     *Orchestrator
}

func newFixture(slugs ...string) *fixture {
	tr := &trace{}
	f := &fixture{
		tr:       tr,
		composer: &fakeComposer{tr: tr, fail: map[string]error{}},
		globals:  &fakeGlobals{tr: tr},
		registry: &fixedRegistry{envs: envs(slugs...)},
	}
	f.orch = New(f.registry, f.composer, f.globals, zerolog.Nop())
	return f
}

func TestStop_HostnameRunsDownInSlugDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sites", "docker-test"), 0o750))
	tr := &trace{}
	composer := &fakeComposer{tr: tr}
	o := New(environment.NewRegistry(filepath.Join(root, "sites"), zerolog.Nop()), composer, &fakeGlobals{tr: tr}, zerolog.Nop())

	env, err := o.Stop(context.Background(), "docker.test")
	require.NoError(t, err)

	assert.Equal(t, []string{"down:docker-test"}, tr.calls)
	assert.Equal(t, []string{filepath.Join(root, "sites", "docker-test")}, composer.dirs)
	assert.Equal(t, "docker.test", env.Name)
}

func TestSingleOperations(t *testing.T) {
	f := newFixture("a")

	_, err := f.orch.Start(context.Background(), "a")
	require.NoError(t, err)
	_, err = f.orch.Restart(context.Background(), "a")
	require.NoError(t, err)
	_, err = f.orch.Run(context.Background(), "a", domain.ActionDown)
	require.NoError(t, err)

	assert.Equal(t, []string{"up:a", "restart:a", "down:a"}, f.tr.calls)
}

func TestSingle_NotFoundRunsNothing(t *testing.T) {
	f := newFixture("a")

	_, err := f.orch.Start(context.Background(), "b")

	require.ErrorIs(t, err, sberrors.ErrEnvironmentNotFound)
	assert.Empty(t, f.tr.calls)
}

func TestSingle_ComposeFailureReturned(t *testing.T) {
	f := newFixture("a")
	f.composer.fail["a"] = sberrors.ErrOrchestration

	_, err := f.orch.Stop(context.Background(), "a")
	require.ErrorIs(t, err, sberrors.ErrOrchestration)
}

func TestRun_InvalidAction(t *testing.T) {
	f := newFixture("a")

	_, err := f.orch.Run(context.Background(), "a", "pause")
	require.ErrorIs(t, err, sberrors.ErrInvalidAction)
	assert.Empty(t, f.tr.calls)
}

func TestStartAll_SkipGlobalOneUpEachInOrder(t *testing.T) {
	f := newFixture("a", "b", "c")

	report, err := f.orch.StartAll(context.Background(), BulkOptions{SkipGlobal: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"up:a", "up:b", "up:c"}, f.tr.calls)
	assert.False(t, report.Global.Ran)
	assert.Len(t, report.Outcomes, 3)
}

func TestStartAll_GlobalFirst(t *testing.T) {
	f := newFixture("a", "b")

	report, err := f.orch.StartAll(context.Background(), BulkOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"global:start", "up:a", "up:b"}, f.tr.calls)
	assert.True(t, report.Global.Ran)
}

func TestStartAll_GlobalFailureAbortsBeforeEnvironments(t *testing.T) {
	f := newFixture("a", "b")
	f.globals.err = sberrors.ErrReadinessTimeout

	report, err := f.orch.StartAll(context.Background(), BulkOptions{})

	require.ErrorIs(t, err, sberrors.ErrReadinessTimeout)
	assert.Equal(t, []string{"global:start"}, f.tr.calls)
	assert.Len(t, report.Skipped, 2)
	assert.Empty(t, report.Outcomes)
}

func TestStopAll_EnvironmentsThenGlobal(t *testing.T) {
	f := newFixture("a", "b")
	f.globals.warnings = []global.Warning{{Operation: global.OpRemoveNetwork, Err: testutil.ErrMockNetworkInUse}}

	report, err := f.orch.StopAll(context.Background(), BulkOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"down:a", "down:b", "global:stop"}, f.tr.calls)
	require.Len(t, report.Global.Warnings, 1)
}

func TestRestartAll_EnvironmentsThenGlobal(t *testing.T) {
	f := newFixture("a", "b")

	_, err := f.orch.RestartAll(context.Background(), BulkOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"restart:a", "restart:b", "global:restart"}, f.tr.calls)
}

func TestBulk_SkipGlobalForStopAndRestart(t *testing.T) {
	f := newFixture("a")

	_, err := f.orch.StopAll(context.Background(), BulkOptions{SkipGlobal: true})
	require.NoError(t, err)
	_, err = f.orch.RestartAll(context.Background(), BulkOptions{SkipGlobal: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"down:a", "restart:a"}, f.tr.calls)
}

func TestBulk_ContinueOnErrorByDefault(t *testing.T) {
	f := newFixture("a", "b", "c")
	f.composer.fail["b"] = sberrors.ErrOrchestration

	report, err := f.orch.StopAll(context.Background(), BulkOptions{})

	require.ErrorIs(t, err, sberrors.ErrBulkPartialFailure)
	require.ErrorIs(t, err, sberrors.ErrOrchestration)
	assert.Contains(t, err.Error(), "1 of 3 environments failed")
	assert.Equal(t, []string{"down:a", "down:b", "down:c", "global:stop"}, f.tr.calls)

	failed := report.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "b", failed[0].Environment.Slug)
}

func TestBulk_FailFastSkipsRestAndGlobal(t *testing.T) {
	f := newFixture("a", "b", "c")
	f.composer.fail["b"] = sberrors.ErrOrchestration

	report, err := f.orch.RestartAll(context.Background(), BulkOptions{FailFast: true})

	require.ErrorIs(t, err, sberrors.ErrBulkPartialFailure)
	assert.Equal(t, []string{"restart:a", "restart:b"}, f.tr.calls)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "c", report.Skipped[0].Slug)
	assert.False(t, report.Global.Ran)
}

func TestBulk_GlobalStopFailureReported(t *testing.T) {
	f := newFixture("a")
	f.globals.err = sberrors.ErrOrchestration

	report, err := f.orch.StopAll(context.Background(), BulkOptions{})

	require.ErrorIs(t, err, sberrors.ErrOrchestration)
	assert.NotErrorIs(t, err, sberrors.ErrBulkPartialFailure)
	require.ErrorIs(t, report.Global.Err, sberrors.ErrOrchestration)
}

func TestBulk_EmptyRegistry(t *testing.T) {
	f := newFixture()

	report, err := f.orch.StopAll(context.Background(), BulkOptions{})
	require.NoError(t, err)

	assert.Empty(t, report.Outcomes)
	assert.Equal(t, []string{"global:stop"}, f.tr.calls)
}

func TestBulk_ListFailure(t *testing.T) {
	f := newFixture()
	f.registry.listErr = testutil.ErrMockPermissionDenied

	_, err := f.orch.StartAll(context.Background(), BulkOptions{})
	require.Error(t, err)
	assert.Empty(t, f.tr.calls)
}

func TestBulk_CancellationStopsLoop(t *testing.T) {
	f := newFixture("a", "b", "c")
	ctx, cancel := context.WithCancel(context.Background())
	f.composer.onRun = cancel

	report, err := f.orch.StopAll(ctx, BulkOptions{})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"down:a"}, f.tr.calls, "no global step after cancellation")
	assert.Len(t, report.Skipped, 2)
}
