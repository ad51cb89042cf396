// Package orchestrator applies lifecycle actions to one environment or to
// all of them, coordinating the shared global services around bulk runs.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mrz1836/sitebox/internal/ctxutil"
	"github.com/mrz1836/sitebox/internal/domain"
	sberrors "github.com/mrz1836/sitebox/internal/errors"
	"github.com/mrz1836/sitebox/internal/global"
)

// Registry discovers and resolves environments.
type Registry interface {
	Resolve(ctx context.Context, nameOrSlug string) (domain.Environment, error)
	List(ctx context.Context) ([]domain.Environment, error)
}

// Composer runs a compose action against an environment.
type Composer interface {
	Run(ctx context.Context, env domain.Environment, action domain.Action) error
}

// GlobalServices starts, stops and restarts the shared services.
type GlobalServices interface {
	Start(ctx context.Context) (global.Report, error)
	Stop(ctx context.Context) (global.Report, error)
	Restart(ctx context.Context) (global.Report, error)
}

// Orchestrator runs environment lifecycle operations sequentially.
type Orchestrator struct {
	registry Registry
	composer Composer
	globals  GlobalServices
	logger   zerolog.Logger
}

// New creates an Orchestrator.
func New(registry Registry, composer Composer, globals GlobalServices, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		composer: composer,
		globals:  globals,
		logger:   logger.With().Str("component", "orchestrator").Logger(),
	}
}

// Start brings a single environment up.
func (o *Orchestrator) Start(ctx context.Context, name string) (domain.Environment, error) {
	return o.runOne(ctx, name, domain.ActionUp)
}

// Stop brings a single environment down.
func (o *Orchestrator) Stop(ctx context.Context, name string) (domain.Environment, error) {
	return o.runOne(ctx, name, domain.ActionDown)
}

// Restart restarts a single environment.
func (o *Orchestrator) Restart(ctx context.Context, name string) (domain.Environment, error) {
	return o.runOne(ctx, name, domain.ActionRestart)
}

// Run applies action to a single environment.
func (o *Orchestrator) Run(ctx context.Context, name string, action domain.Action) (domain.Environment, error) {
	if !action.Valid() {
		return domain.Environment{}, fmt.Errorf("run %q: %w", action, sberrors.ErrInvalidAction)
	}
	return o.runOne(ctx, name, action)
}

func (o *Orchestrator) runOne(ctx context.Context, name string, action domain.Action) (domain.Environment, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return domain.Environment{}, err
	}

	env, err := o.registry.Resolve(ctx, name)
	if err != nil {
		return domain.Environment{}, err
	}
	return env, o.composer.Run(ctx, env, action)
}
