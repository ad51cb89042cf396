// Package readiness waits for a condition with a fixed interval and an
// overall deadline.
package readiness

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/sitebox/internal/clock"
	"github.com/mrz1836/sitebox/internal/ctxutil"
	sberrors "github.com/mrz1836/sitebox/internal/errors"
)

// Probe reports whether the awaited condition holds. An error counts as
// "not ready yet" and is retried.
type Probe func(ctx context.Context) (bool, error)

// Poller runs a Probe until it succeeds or the timeout elapses.
type Poller struct {
	interval time.Duration
	timeout  time.Duration
	clock    clock.Clock
	logger   zerolog.Logger
}

// NewPoller creates a Poller. A nil clock uses the system clock.
func NewPoller(interval, timeout time.Duration, clk clock.Clock, logger zerolog.Logger) *Poller {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Poller{
		interval: interval,
		timeout:  timeout,
		clock:    clk,
		logger:   logger.With().Str("component", "readiness").Logger(),
	}
}

// Wait probes immediately and then once per interval. It returns nil on the
// first positive probe, ctx.Err() on cancellation, or an error wrapping
// ErrReadinessTimeout (and the last probe error, if any) once the timeout
// has elapsed. Probes run under the timeout too, so a hung probe cannot
// hold Wait past it.
func (p *Poller) Wait(ctx context.Context, what string, probe Probe) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := p.clock.Now()
	deadline := start.Add(p.timeout)
	var lastErr error

	for attempt := 1; ; attempt++ {
		ready, err := probe(waitCtx)
		if err != nil {
			if ctxErr := ctxutil.Canceled(ctx); ctxErr != nil {
				return ctxErr
			}
			if waitCtx.Err() == nil {
				lastErr = err
			}
			p.logger.Debug().Err(err).Int("attempt", attempt).Str("target", what).Msg("probe failed")
		}
		if ready {
			p.logger.Debug().Int("attempt", attempt).Str("target", what).
				Dur("elapsed", p.clock.Now().Sub(start)).Msg("ready")
			return nil
		}

		if waitCtx.Err() != nil || !p.clock.Now().Before(deadline) {
			return p.timeoutError(what, attempt, lastErr)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-waitCtx.Done():
			return p.timeoutError(what, attempt, lastErr)
		case <-p.clock.After(p.interval):
		}
	}
}

func (p *Poller) timeoutError(what string, attempts int, lastErr error) error {
	if lastErr != nil {
		return fmt.Errorf("%s not ready after %s (%d attempts): %w: last probe error: %w",
			what, p.timeout, attempts, sberrors.ErrReadinessTimeout, lastErr)
	}
	return fmt.Errorf("%s not ready after %s (%d attempts): %w",
		what, p.timeout, attempts, sberrors.ErrReadinessTimeout)
}
