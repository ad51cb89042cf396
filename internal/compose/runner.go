package compose

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mrz1836/sitebox/internal/constants"
	"github.com/mrz1836/sitebox/internal/ctxutil"
	"github.com/mrz1836/sitebox/internal/domain"
	sberrors "github.com/mrz1836/sitebox/internal/errors"
)

// Runner invokes the configured compose command in a stack directory.
type Runner struct {
	command []string
	exec    CommandRunner
	logger  zerolog.Logger
}

// NewRunner creates a Runner. An empty command falls back to "docker compose".
func NewRunner(command []string, exec CommandRunner, logger zerolog.Logger) *Runner {
	if len(command) == 0 {
		command = constants.DefaultComposeCommand()
	}
	return &Runner{
		command: append([]string(nil), command...),
		exec:    exec,
		logger:  logger.With().Str("component", "compose").Logger(),
	}
}

// Args returns the compose subcommand for action.
func Args(action domain.Action) ([]string, error) {
	switch action {
	case domain.ActionUp:
		return []string{"up", "-d"}, nil
	case domain.ActionDown:
		return []string{"down"}, nil
	case domain.ActionRestart:
		return []string{"restart"}, nil
	}
	return nil, fmt.Errorf("compose action %q: %w", action, sberrors.ErrInvalidAction)
}

// Run applies action to env in its directory.
func (r *Runner) Run(ctx context.Context, env domain.Environment, action domain.Action) error {
	return r.RunIn(ctx, env.Path, env.Slug, action)
}

// RunIn applies action to the stack in dir. label names the stack in logs
// and errors. A non-zero exit is returned wrapping ErrOrchestration.
func (r *Runner) RunIn(ctx context.Context, dir, label string, action domain.Action) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if r.exec == nil {
		return sberrors.ErrCommandRunnerNil
	}

	sub, err := Args(action)
	if err != nil {
		return err
	}

	name, args := r.commandLine(sub...)
	r.logger.Info().
		Str("environment", label).
		Str("action", action.String()).
		Str("dir", dir).
		Msgf("%s docker containers for %s", action.Verb(), label)

	if err := r.exec.Run(ctx, dir, name, args...); err != nil {
		if ctxErr := ctxutil.Canceled(ctx); ctxErr != nil {
			return fmt.Errorf("compose %s for %s: %w", action, label, ctxErr)
		}
		r.logger.Error().Err(err).Str("environment", label).Str("action", action.String()).Msg("compose command failed")
		return fmt.Errorf("compose %s for %s: %w: %w", action, label, sberrors.ErrOrchestration, err)
	}
	return nil
}

// Logs returns the combined output of "compose logs <service>" in dir.
func (r *Runner) Logs(ctx context.Context, dir, service string) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}
	if r.exec == nil {
		return "", sberrors.ErrCommandRunnerNil
	}

	name, args := r.commandLine("logs", service)
	out, err := r.exec.RunOutput(ctx, dir, name, args...)
	if err != nil {
		return string(out), fmt.Errorf("compose logs %s: %w: %w", service, sberrors.ErrOrchestration, err)
	}
	return string(out), nil
}

// commandLine splits the configured command into binary and arguments and
// appends sub.
func (r *Runner) commandLine(sub ...string) (string, []string) {
	args := make([]string, 0, len(r.command)-1+len(sub))
	args = append(args, r.command[1:]...)
	args = append(args, sub...)
	return r.command[0], args
}
