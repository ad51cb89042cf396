// Package deletion removes an environment for good: it confirms with the
// user, stops the containers, deletes the directory and drops the schema.
//
// The steps are not transactional. Once files are removed a failing
// database drop leaves the schema behind, and nothing is rolled back.
package deletion

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/mrz1836/sitebox/internal/domain"
	sberrors "github.com/mrz1836/sitebox/internal/errors"
	"github.com/mrz1836/sitebox/internal/prompts"
)

// State is a step of the deletion state machine.
type State string

// Deletion states in the order they can be visited.
const (
	StateIdle                 State = "idle"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateAborted              State = "aborted"
	StateConfirmed            State = "confirmed"
	StateStoppingEnvironment  State = "stopping_environment"
	StateRemovingFiles        State = "removing_files"
	StateDroppingDatabase     State = "dropping_database"
	StateDone                 State = "done"
)

// Resolver maps a user-supplied name to an environment.
type Resolver interface {
	Resolve(ctx context.Context, nameOrSlug string) (domain.Environment, error)
}

// Stopper runs a compose action against an environment.
type Stopper interface {
	Run(ctx context.Context, env domain.Environment, action domain.Action) error
}

// Dropper drops a database schema.
type Dropper interface {
	DropDatabase(ctx context.Context, name string) error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, req prompts.Request) (bool, error)
}

// RemoveFunc deletes a directory tree.
type RemoveFunc func(path string) error

// Options controls a single deletion.
type Options struct {
	// Force skips the confirmation prompt.
	Force bool

	// Interactive reports whether a terminal is attached. Without one a
	// deletion is refused unless Force is set.
	Interactive bool
}

// Result records what a deletion did.
type Result struct {
	Environment domain.Environment `json:"environment"`

	// States lists every state visited, starting with StateIdle.
	States []State `json:"states"`

	// StopErr holds the best-effort stop failure, if any.
	StopErr error `json:"-"`
}

// Final returns the last state visited.
func (r *Result) Final() State {
	if len(r.States) == 0 {
		return StateIdle
	}
	return r.States[len(r.States)-1]
}

// Aborted reports whether the user declined or canceled.
func (r *Result) Aborted() bool {
	return r.Final() == StateAborted
}

func (r *Result) enter(s State) {
	r.States = append(r.States, s)
}

// Workflow sequences a deletion.
type Workflow struct {
	resolver  Resolver
	stopper   Stopper
	dropper   Dropper
	confirmer Confirmer
	remove    RemoveFunc
	logger    zerolog.Logger
}

// NewWorkflow creates a Workflow. A nil remove uses os.RemoveAll.
func NewWorkflow(resolver Resolver, stopper Stopper, dropper Dropper, confirmer Confirmer, remove RemoveFunc, logger zerolog.Logger) *Workflow {
	if remove == nil {
		remove = os.RemoveAll
	}
	return &Workflow{
		resolver:  resolver,
		stopper:   stopper,
		dropper:   dropper,
		confirmer: confirmer,
		remove:    remove,
		logger:    logger.With().Str("component", "deletion").Logger(),
	}
}

// Delete removes the environment called name.
//
// A declined confirmation returns a Result in StateAborted and a nil error.
// A canceled or failed prompt also aborts, returning the prompt error. Stop
// failures are recorded in Result.StopErr and do not halt the workflow. A
// file removal failure stops before the database drop.
func (w *Workflow) Delete(ctx context.Context, name string, opts Options) (*Result, error) {
	result := &Result{States: []State{StateIdle}}

	env, err := w.resolver.Resolve(ctx, name)
	if err != nil {
		return result, err
	}
	result.Environment = env
	logger := w.logger.With().Str("environment", env.Name).Str("slug", env.Slug).Logger()

	if !opts.Force {
		if !opts.Interactive {
			return result, fmt.Errorf("cannot delete %s: %w", env.Name, sberrors.ErrNonInteractiveMode)
		}

		result.enter(StateAwaitingConfirmation)
		ok, err := w.confirmer.Confirm(ctx, prompts.DeleteRequest(env.Name))
		if err != nil || !ok {
			result.enter(StateAborted)
			if err != nil {
				logger.Debug().Err(err).Msg("confirmation did not complete")
				if errors.Is(err, sberrors.ErrOperationCanceled) {
					return result, err
				}
				return result, fmt.Errorf("confirm deletion of %s: %w: %w", env.Name, sberrors.ErrOperationCanceled, err)
			}
			logger.Info().Msg("deletion declined")
			return result, nil
		}
	}
	result.enter(StateConfirmed)

	result.enter(StateStoppingEnvironment)
	if err := w.stopper.Run(ctx, env, domain.ActionDown); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		logger.Warn().Err(err).Msg("could not stop environment, deleting anyway")
		result.StopErr = err
	}

	result.enter(StateRemovingFiles)
	logger.Info().Str("dir", env.Path).Msg("Deleting Files")
	if err := w.remove(env.Path); err != nil {
		logger.Error().Err(err).Str("dir", env.Path).Msg("file removal failed")
		return result, fmt.Errorf("remove files of %s at %s: %w", env.Name, env.Path, err)
	}

	result.enter(StateDroppingDatabase)
	if err := w.dropper.DropDatabase(ctx, env.Slug); err != nil {
		logger.Error().Err(err).Msg("database drop failed after files were removed")
		return result, fmt.Errorf("files of %s are already removed: %w", env.Name, err)
	}

	result.enter(StateDone)
	return result, nil
}
