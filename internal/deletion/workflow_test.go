package deletion

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
	"github.com/mrz1836/sitebox/internal/prompts"
	"github.com/mrz1836/sitebox/internal/testutil"
)

// journal records side effects across fakes in order.
type journal struct {
	events []string
}

type fakeStopper struct {
	j   *journal
	err error
	env []domain.Environment
}

func (f *fakeStopper) Run(_ context.Context, env domain.Environment, action domain.Action) error {
	f.j.events = append(f.j.events, "compose:"+action.String())
	f.env = append(f.env, env)
	return f.err
}

type fakeDropper struct {
	j     *journal
	err   error
	names []string
}

func (f *fakeDropper) DropDatabase(_ context.Context, name string) error {
	f.j.events = append(f.j.events, "drop:"+name)
	f.names = append(f.names, name)
	return f.err
}

type fakeConfirmer struct {
	answer bool
	err    error
	asked  []prompts.Request
}

func (f *fakeConfirmer) Confirm(_ context.Context, req prompts.Request) (bool, error) {
	f.asked = append(f.asked, req)
	return f.answer, f.err
}

type fixture struct {
	root      string
	j         *journal
	stopper   *fakeStopper
	dropper   *fakeDropper
	confirmer *fakeConfirmer
	removeErr error
	wf        *Workflow
}

func newFixture(t *testing.T, answer bool) *fixture {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docker-test", "wp"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docker-test", "wp", "index.php"), []byte("<?php"), 0o600))

	f := &fixture{root: root, j: &journal{}}
	f.stopper = &fakeStopper{j: f.j}
	f.dropper = &fakeDropper{j: f.j}
	f.confirmer = &fakeConfirmer{answer: answer}
	remove := func(path string) error {
		f.j.events = append(f.j.events, "remove:"+filepath.Base(path))
		if f.removeErr != nil {
			return f.removeErr
		}
		return os.RemoveAll(path)
	}
	f.wf = NewWorkflow(environment.NewRegistry(root, zerolog.Nop()), f.stopper, f.dropper, f.confirmer, remove, zerolog.Nop())
	return f
}

func interactive() Options { return Options{Interactive: true} }

func TestDelete_DeclinedHasNoSideEffects(t *testing.T) {
	f := newFixture(t, false)

	res, err := f.wf.Delete(context.Background(), "docker.test", interactive())
	require.NoError(t, err)

	assert.True(t, res.Aborted())
	assert.Equal(t, []State{StateIdle, StateAwaitingConfirmation, StateAborted}, res.States)
	assert.Empty(t, f.j.events)
	assert.DirExists(t, filepath.Join(f.root, "docker-test"))
	require.Len(t, f.confirmer.asked, 1)
	assert.False(t, f.confirmer.asked[0].Default, "default answer is no")
}

func TestDelete_ConfirmedRunsStepsInOrder(t *testing.T) {
	f := newFixture(t, true)

	res, err := f.wf.Delete(context.Background(), "docker.test", interactive())
	require.NoError(t, err)

	assert.Equal(t, []string{"compose:down", "remove:docker-test", "drop:docker-test"}, f.j.events)
	assert.Equal(t, []State{
		StateIdle, StateAwaitingConfirmation, StateConfirmed,
		StateStoppingEnvironment, StateRemovingFiles, StateDroppingDatabase, StateDone,
	}, res.States)
	assert.NoDirExists(t, filepath.Join(f.root, "docker-test"))
	assert.Equal(t, "docker.test", res.Environment.Name)
}

func TestDelete_ForceSkipsPrompt(t *testing.T) {
	f := newFixture(t, false)

	res, err := f.wf.Delete(context.Background(), "docker-test", Options{Force: true})
	require.NoError(t, err)

	assert.Empty(t, f.confirmer.asked)
	assert.Equal(t, StateDone, res.Final())
	assert.NotContains(t, res.States, StateAwaitingConfirmation)
	assert.Contains(t, res.States, StateConfirmed)
}

func TestDelete_NonInteractiveWithoutForceRefuses(t *testing.T) {
	f := newFixture(t, true)

	res, err := f.wf.Delete(context.Background(), "docker.test", Options{})

	require.ErrorIs(t, err, sberrors.ErrNonInteractiveMode)
	assert.Empty(t, f.confirmer.asked)
	assert.Empty(t, f.j.events)
	assert.Equal(t, StateIdle, res.Final())
}

func TestDelete_UnknownEnvironmentFailsBeforePrompt(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.wf.Delete(context.Background(), "missing.test", interactive())

	require.ErrorIs(t, err, sberrors.ErrEnvironmentNotFound)
	assert.Empty(t, f.confirmer.asked)
	assert.Empty(t, f.j.events)
}

func TestDelete_PromptCanceled(t *testing.T) {
	f := newFixture(t, true)
	f.confirmer.err = sberrors.ErrOperationCanceled

	res, err := f.wf.Delete(context.Background(), "docker.test", interactive())

	require.ErrorIs(t, err, sberrors.ErrOperationCanceled)
	assert.True(t, res.Aborted())
	assert.Empty(t, f.j.events)
}

func TestDelete_PromptErrorAborts(t *testing.T) {
	f := newFixture(t, true)
	f.confirmer.err = testutil.ErrMockTTYGone

	res, err := f.wf.Delete(context.Background(), "docker.test", interactive())

	require.ErrorIs(t, err, sberrors.ErrOperationCanceled)
	assert.True(t, res.Aborted())
	assert.Empty(t, f.j.events)
}

func TestDelete_StopFailureIsBestEffort(t *testing.T) {
	f := newFixture(t, true)
	f.stopper.err = sberrors.ErrOrchestration

	res, err := f.wf.Delete(context.Background(), "docker.test", interactive())
	require.NoError(t, err)

	require.ErrorIs(t, res.StopErr, sberrors.ErrOrchestration)
	assert.Equal(t, StateDone, res.Final())
	assert.Equal(t, []string{"compose:down", "remove:docker-test", "drop:docker-test"}, f.j.events)
}

func TestDelete_RemovalFailureSkipsDatabase(t *testing.T) {
	f := newFixture(t, true)
	f.removeErr = testutil.ErrMockPermissionDenied

	res, err := f.wf.Delete(context.Background(), "docker.test", interactive())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.Equal(t, StateRemovingFiles, res.Final())
	assert.Empty(t, f.dropper.names)
}

func TestDelete_DatabaseFailureAfterFilesRemoved(t *testing.T) {
	f := newFixture(t, true)
	f.dropper.err = sberrors.Wrap(sberrors.ErrDatabaseOperation, "connection refused")

	res, err := f.wf.Delete(context.Background(), "docker.test", interactive())

	require.ErrorIs(t, err, sberrors.ErrDatabaseOperation)
	assert.Contains(t, err.Error(), "already removed")
	assert.Equal(t, StateDroppingDatabase, res.Final())
	assert.NoDirExists(t, filepath.Join(f.root, "docker-test"))
	assert.Len(t, f.dropper.names, 1, "no retry")
}

func TestResult_FinalOnEmpty(t *testing.T) {
	var r Result
	assert.Equal(t, StateIdle, r.Final())
}
