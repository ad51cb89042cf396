// Package global manages the services shared by every environment: the
// container network and the compose stack holding the gateway and database.
//
// Ordering is fixed: the network exists before the stack starts, and the
// stack is torn down before the network is removed. Network operations are
// best-effort and surface failures as Warning values.
package global

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/sitebox/internal/ctxutil"
	"github.com/mrz1836/sitebox/internal/domain"
	"github.com/mrz1836/sitebox/internal/network"
	"github.com/mrz1836/sitebox/internal/readiness"
)

// stackLabel names the shared stack in logs and errors.
const stackLabel = "global"

// Operation names recorded in warnings.
const (
	OpEnsureNetwork = "ensure-network"
	OpRemoveNetwork = "remove-network"
)

// StackRunner runs compose commands against a directory.
type StackRunner interface {
	RunIn(ctx context.Context, dir, label string, action domain.Action) error
	Logs(ctx context.Context, dir, service string) (string, error)
}

// NetworkManager manages the shared network.
type NetworkManager interface {
	Name() string
	Lookup(ctx context.Context) (*network.Info, error)
	Ensure(ctx context.Context) (bool, error)
	Remove(ctx context.Context) (bool, error)
}

// Waiter blocks until a probe succeeds or gives up.
type Waiter interface {
	Wait(ctx context.Context, what string, probe readiness.Probe) error
}

// Warning is a best-effort failure kept as a value instead of being dropped.
type Warning struct {
	Operation string `json:"operation"`
	Err       error  `json:"-"`
}

// String renders the warning for humans.
func (w Warning) String() string {
	if w.Err == nil {
		return w.Operation
	}
	return fmt.Sprintf("%s: %v", w.Operation, w.Err)
}

// Report collects the warnings raised by a composite operation.
type Report struct {
	Warnings []Warning `json:"warnings"`
}

func (r *Report) add(w *Warning) {
	if w != nil {
		r.Warnings = append(r.Warnings, *w)
	}
}

// Options configures a Controller.
type Options struct {
	// Dir holds the shared compose definition.
	Dir string

	// Service is the compose service of the database.
	Service string

	// ReadyMarker is the log substring that signals database readiness.
	ReadyMarker string
}

// Controller coordinates the shared network and stack.
type Controller struct {
	opts    Options
	stack   StackRunner
	network NetworkManager
	waiter  Waiter
	logger  zerolog.Logger
}

// NewController creates a Controller.
func NewController(opts Options, stack StackRunner, net NetworkManager, waiter Waiter, logger zerolog.Logger) *Controller {
	return &Controller{
		opts:    opts,
		stack:   stack,
		network: net,
		waiter:  waiter,
		logger:  logger.With().Str("component", "global").Logger(),
	}
}

// EnsureNetwork creates the shared network when missing. Failures are logged
// and returned as a Warning.
func (c *Controller) EnsureNetwork(ctx context.Context) *Warning {
	if _, err := c.network.Ensure(ctx); err != nil {
		c.logger.Warn().Err(err).Str("network", c.network.Name()).Msg("could not ensure global network")
		return &Warning{Operation: OpEnsureNetwork, Err: err}
	}
	return nil
}

// RemoveNetwork removes the shared network. Failures, such as the network
// still being in use, are logged and returned as a Warning.
func (c *Controller) RemoveNetwork(ctx context.Context) *Warning {
	c.logger.Info().Str("network", c.network.Name()).Msg("Removing global network")
	if _, err := c.network.Remove(ctx); err != nil {
		c.logger.Warn().Err(err).Str("network", c.network.Name()).Msg("could not remove global network")
		return &Warning{Operation: OpRemoveNetwork, Err: err}
	}
	return nil
}

// StartGateway brings the shared stack up and blocks until the database
// logs its ready marker.
func (c *Controller) StartGateway(ctx context.Context) error {
	if err := c.stack.RunIn(ctx, c.opts.Dir, stackLabel, domain.ActionUp); err != nil {
		return err
	}
	return c.waitForDatabase(ctx)
}

// StopGateway tears the shared stack down.
func (c *Controller) StopGateway(ctx context.Context) error {
	return c.stack.RunIn(ctx, c.opts.Dir, stackLabel, domain.ActionDown)
}

// RestartGateway restarts the shared stack without readiness gating.
func (c *Controller) RestartGateway(ctx context.Context) error {
	return c.stack.RunIn(ctx, c.opts.Dir, stackLabel, domain.ActionRestart)
}

func (c *Controller) waitForDatabase(ctx context.Context) error {
	c.logger.Info().Str("service", c.opts.Service).Msgf("Waiting for %s...", c.opts.Service)
	return c.waiter.Wait(ctx, c.opts.Service, func(ctx context.Context) (bool, error) {
		logs, err := c.stack.Logs(ctx, c.opts.Dir, c.opts.Service)
		if err != nil {
			return false, err
		}
		return strings.Contains(logs, c.opts.ReadyMarker), nil
	})
}

// Start ensures the network and then starts the stack.
func (c *Controller) Start(ctx context.Context) (Report, error) {
	var report Report
	if err := ctxutil.Canceled(ctx); err != nil {
		return report, err
	}
	report.add(c.EnsureNetwork(ctx))
	return report, c.StartGateway(ctx)
}

// Stop tears the stack down and then removes the network. Network removal
// is attempted even when the stack stop failed; that error is still
// returned.
func (c *Controller) Stop(ctx context.Context) (Report, error) {
	var report Report
	if err := ctxutil.Canceled(ctx); err != nil {
		return report, err
	}
	stopErr := c.StopGateway(ctx)
	report.add(c.RemoveNetwork(ctx))
	return report, stopErr
}

// Restart ensures the network and then restarts the stack.
func (c *Controller) Restart(ctx context.Context) (Report, error) {
	var report Report
	if err := ctxutil.Canceled(ctx); err != nil {
		return report, err
	}
	report.add(c.EnsureNetwork(ctx))
	return report, c.RestartGateway(ctx)
}

// Status describes the shared services as seen from the host.
type Status struct {
	Network       string        `json:"network"`
	NetworkExists bool          `json:"network_exists"`
	NetworkInfo   *network.Info `json:"network_info,omitempty"`
	Dir           string        `json:"dir"`
	DirExists     bool          `json:"dir_exists"`
}

// Status reports whether the network exists and the stack directory is present.
func (c *Controller) Status(ctx context.Context) (Status, error) {
	st := Status{Network: c.network.Name(), Dir: c.opts.Dir}
	if info, err := os.Stat(c.opts.Dir); err == nil && info.IsDir() {
		st.DirExists = true
	}

	info, err := c.network.Lookup(ctx)
	if err != nil {
		return st, err
	}
	st.NetworkExists = info != nil
	st.NetworkInfo = info
	return st, nil
}
