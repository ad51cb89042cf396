// Package doctor checks that the tools and services sitebox relies on are
// available. Checks run concurrently under one deadline and are reported in
// registration order.
package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/sitebox/internal/ctxutil"
)

// Status is the outcome of a single check.
type Status string

// Status values.
const (
	// StatusOK means the check passed.
	StatusOK Status = "ok"

	// StatusFailed means a required check did not pass.
	StatusFailed Status = "failed"

	// StatusWarning means an optional check did not pass.
	StatusWarning Status = "warning"
)

// Probe is one named check. Run returns a short detail (a version, a path)
// on success.
type Probe struct {
	Name     string
	Required bool
	Hint     string
	Run      func(ctx context.Context) (string, error)
}

// Check is the result of running a Probe.
type Check struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Status   Status `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Hint     string `json:"hint,omitempty"`

	Err error `json:"-"`
}

// Report holds every check in probe order.
type Report struct {
	Checks []Check `json:"checks"`

	// HasFailedRequired is set when any required check failed.
	HasFailedRequired bool `json:"has_failed_required"`
}

// Failed returns the checks that did not pass, required or not.
func (r *Report) Failed() []Check {
	var out []Check
	for _, c := range r.Checks {
		if c.Status != StatusOK {
			out = append(out, c)
		}
	}
	return out
}

// Doctor runs probes.
type Doctor struct {
	probes  []Probe
	timeout time.Duration
	logger  zerolog.Logger
}

// New creates a Doctor. timeout bounds the whole run; zero means no bound
// beyond ctx.
func New(timeout time.Duration, logger zerolog.Logger, probes ...Probe) *Doctor {
	return &Doctor{
		probes:  probes,
		timeout: timeout,
		logger:  logger.With().Str("component", "doctor").Logger(),
	}
}

// Run executes every probe concurrently. Probe failures are recorded in the
// report; only cancellation of ctx is returned as an error.
func (d *Doctor) Run(ctx context.Context) (*Report, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	runCtx := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	checks := make([]Check, len(d.probes))
	g, gCtx := errgroup.WithContext(runCtx)
	for i, p := range d.probes {
		g.Go(func() error {
			checks[i] = d.check(gCtx, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("run checks: %w", err)
	}

	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	report := &Report{Checks: checks}
	for _, c := range checks {
		if c.Status == StatusFailed {
			report.HasFailedRequired = true
			break
		}
	}
	return report, nil
}

func (d *Doctor) check(ctx context.Context, p Probe) Check {
	c := Check{Name: p.Name, Required: p.Required, Status: StatusOK}

	detail, err := p.Run(ctx)
	if err == nil {
		c.Detail = detail
		d.logger.Debug().Str("check", p.Name).Str("detail", detail).Msg("check passed")
		return c
	}

	c.Err = err
	c.Detail = err.Error()
	c.Hint = p.Hint
	c.Status = StatusWarning
	if p.Required {
		c.Status = StatusFailed
	}
	d.logger.Debug().Err(err).Str("check", p.Name).Bool("required", p.Required).Msg("check did not pass")
	return c
}
