package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/sitebox/internal/ctxutil"
	"github.com/mrz1836/sitebox/internal/domain"
	sberrors "github.com/mrz1836/sitebox/internal/errors"
	"github.com/mrz1836/sitebox/internal/global"
)

// BulkOptions controls an all-environments run.
type BulkOptions struct {
	// SkipGlobal leaves the shared network and stack untouched.
	SkipGlobal bool

	// FailFast stops at the first failed environment. Remaining environments
	// and the trailing global step are skipped.
	FailFast bool
}

// Outcome is the result of one environment within a bulk run.
type Outcome struct {
	Environment domain.Environment `json:"environment"`
	Action      domain.Action      `json:"action"`
	Err         error              `json:"-"`
}

// OK reports whether the action succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// GlobalStep records the global services step of a bulk run.
type GlobalStep struct {
	Ran      bool             `json:"ran"`
	Warnings []global.Warning `json:"warnings,omitempty"`
	Err      error            `json:"-"`
}

// BulkReport collects every outcome of a bulk run.
type BulkReport struct {
	Action   domain.Action `json:"action"`
	Outcomes []Outcome     `json:"outcomes"`
	Global   GlobalStep    `json:"global"`

	// Skipped lists environments never attempted because of FailFast.
	Skipped []domain.Environment `json:"skipped,omitempty"`
}

// Failed returns the outcomes that carry an error.
func (r *BulkReport) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// StartAll starts the global services, waiting for the database, and then
// every environment in discovery order. A failed global start aborts before
// any environment is touched.
func (o *Orchestrator) StartAll(ctx context.Context, opts BulkOptions) (*BulkReport, error) {
	report := &BulkReport{Action: domain.ActionUp}
	if err := ctxutil.Canceled(ctx); err != nil {
		return report, err
	}

	envs, err := o.registry.List(ctx)
	if err != nil {
		return report, err
	}

	if !opts.SkipGlobal {
		if err := o.runGlobal(ctx, report, o.globals.Start); err != nil {
			report.Skipped = envs
			return report, fmt.Errorf("start global services: %w", err)
		}
	}

	o.runEach(ctx, report, envs, opts)
	return report, o.result(ctx, report)
}

// StopAll stops every environment and then tears the global services down.
func (o *Orchestrator) StopAll(ctx context.Context, opts BulkOptions) (*BulkReport, error) {
	return o.runAllThenGlobal(ctx, domain.ActionDown, opts, func(ctx context.Context) (global.Report, error) {
		return o.globals.Stop(ctx)
	})
}

// RestartAll restarts every environment and then the global services
// (ensuring the network first).
func (o *Orchestrator) RestartAll(ctx context.Context, opts BulkOptions) (*BulkReport, error) {
	return o.runAllThenGlobal(ctx, domain.ActionRestart, opts, func(ctx context.Context) (global.Report, error) {
		return o.globals.Restart(ctx)
	})
}

func (o *Orchestrator) runAllThenGlobal(
	ctx context.Context,
	action domain.Action,
	opts BulkOptions,
	step func(context.Context) (global.Report, error),
) (*BulkReport, error) {
	report := &BulkReport{Action: action}
	if err := ctxutil.Canceled(ctx); err != nil {
		return report, err
	}

	envs, err := o.registry.List(ctx)
	if err != nil {
		return report, err
	}

	o.runEach(ctx, report, envs, opts)

	stopped := opts.FailFast && len(report.Failed()) > 0
	if !opts.SkipGlobal && !stopped && ctx.Err() == nil {
		if err := o.runGlobal(ctx, report, step); err != nil {
			return report, errors.Join(o.result(ctx, report), fmt.Errorf("%s global services: %w", action, err))
		}
	}
	return report, o.result(ctx, report)
}

func (o *Orchestrator) runGlobal(ctx context.Context, report *BulkReport, step func(context.Context) (global.Report, error)) error {
	gr, err := step(ctx)
	report.Global = GlobalStep{Ran: true, Warnings: gr.Warnings, Err: err}
	return err
}

// runEach applies the report action to envs sequentially.
func (o *Orchestrator) runEach(ctx context.Context, report *BulkReport, envs []domain.Environment, opts BulkOptions) {
	for i, env := range envs {
		if ctx.Err() != nil {
			report.Skipped = append(report.Skipped, envs[i:]...)
			return
		}

		err := o.composer.Run(ctx, env, report.Action)
		report.Outcomes = append(report.Outcomes, Outcome{Environment: env, Action: report.Action, Err: err})
		if err == nil {
			continue
		}
		if ctxutil.IsCancellation(err) {
			o.logger.Debug().Str("environment", env.Slug).Msg("interrupted")
			continue
		}

		o.logger.Error().Err(err).Str("environment", env.Slug).Str("action", report.Action.String()).
			Msg("environment failed")
		if opts.FailFast {
			report.Skipped = append(report.Skipped, envs[i+1:]...)
			return
		}
	}
}

// result turns failed outcomes into ErrBulkPartialFailure. Cancellation
// takes precedence.
func (o *Orchestrator) result(ctx context.Context, report *BulkReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	failed := report.Failed()
	if len(failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(failed))
	for _, f := range failed {
		errs = append(errs, fmt.Errorf("%s: %w", f.Environment.Slug, f.Err))
	}
	return fmt.Errorf("%d of %d environments failed: %w: %w",
		len(failed), len(report.Outcomes), sberrors.ErrBulkPartialFailure, errors.Join(errs...))
}
