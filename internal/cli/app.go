package cli

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mrz1836/sitebox/internal/clock"
	"github.com/mrz1836/sitebox/internal/compose"
	"github.com/mrz1836/sitebox/internal/config"
	"github.com/mrz1836/sitebox/internal/database"
	"github.com/mrz1836/sitebox/internal/deletion"
	"github.com/mrz1836/sitebox/internal/doctor"
	"github.com/mrz1836/sitebox/internal/environment"
	"github.com/mrz1836/sitebox/internal/flock"
	"github.com/mrz1836/sitebox/internal/global"
	"github.com/mrz1836/sitebox/internal/network"
	"github.com/mrz1836/sitebox/internal/orchestrator"
	"github.com/mrz1836/sitebox/internal/prompts"
	"github.com/mrz1836/sitebox/internal/readiness"
	"github.com/mrz1836/sitebox/internal/tui"
)

// dependencies are the seams to the outside world. Tests replace them with
// fakes; Execute uses defaultDependencies.
type dependencies struct {
	// runner executes the compose binary.
	runner compose.CommandRunner

	// docker builds the Engine API client on first use.
	docker func() (network.DockerClient, error)

	// dropper builds the database client used by delete.
	dropper func(opts database.Options, logger zerolog.Logger) deletion.Dropper

	// pinger builds the database client used by doctor.
	pinger func(opts database.Options, logger zerolog.Logger) doctor.Pinger

	// remove deletes an environment directory tree.
	remove deletion.RemoveFunc

	// terminal reports whether stdin is interactive.
	terminal func() bool

	// clock drives readiness polling.
	clock clock.Clock

	// lockPath returns the advisory lock location.
	lockPath func() (string, error)

	// logger overrides InitLogger when set.
	logger *zerolog.Logger
}

func defaultDependencies() *dependencies {
	return &dependencies{
		runner: compose.ExecRunner{},
		docker: func() (network.DockerClient, error) {
			cli, err := network.NewDockerClient()
			if err != nil {
				return nil, err
			}
			return cli, nil
		},
		dropper: func(opts database.Options, logger zerolog.Logger) deletion.Dropper {
			return database.NewDropper(opts, logger)
		},
		pinger: func(opts database.Options, logger zerolog.Logger) doctor.Pinger {
			return database.NewDropper(opts, logger)
		},
		remove: os.RemoveAll,
		terminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
		clock:    clock.RealClock{},
		lockPath: config.LockPath,
	}
}

// app is the per-invocation wiring of config, logger, output and services.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	out    tui.Output
	flags  *GlobalFlags
	deps   *dependencies
	stdin  io.Reader
	stdout io.Writer

	registry *environment.Registry
	composer *compose.Runner

	docker  network.DockerClient
	globals *global.Controller
	closers []io.Closer
}

// newApp loads the configuration and builds the services every command
// shares. Docker-backed services are built lazily by globalServices.
func newApp(ctx context.Context, cmd *cobra.Command, flags *GlobalFlags, deps *dependencies) (*app, error) {
	logger := GetLogger()
	ctx = logger.WithContext(ctx)

	cfg, err := config.LoadWithOverrides(ctx, &config.Config{Root: flags.Root})
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		out:    tui.NewOutput(cmd.OutOrStdout(), flags.Output),
		flags:  flags,
		deps:   deps,
		stdin:  cmd.InOrStdin(),
		stdout: cmd.OutOrStdout(),
	}
	a.registry = environment.NewRegistry(cfg.SitesPath(), logger)
	a.composer = compose.NewRunner(cfg.Compose.Command, deps.runner, logger)
	return a, nil
}

// dockerClient builds the Engine API client once per invocation.
func (a *app) dockerClient() (network.DockerClient, error) {
	if a.docker != nil {
		return a.docker, nil
	}

	cli, err := a.deps.docker()
	if err != nil {
		return nil, err
	}
	if c, ok := cli.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}
	a.docker = cli
	return cli, nil
}

// globalServices builds the controller for the shared network and stack.
func (a *app) globalServices() (*global.Controller, error) {
	if a.globals != nil {
		return a.globals, nil
	}

	cli, err := a.dockerClient()
	if err != nil {
		return nil, err
	}

	net := network.NewManager(cli, a.cfg.Network.Name, a.cfg.Network.Driver, a.logger)
	poller := readiness.NewPoller(a.cfg.Readiness.Interval, a.cfg.Readiness.Timeout, a.deps.clock, a.logger)
	a.globals = global.NewController(global.Options{
		Dir:         a.cfg.GlobalPath(),
		Service:     a.cfg.Database.Service,
		ReadyMarker: a.cfg.Database.ReadyMarker,
	}, a.composer, net, poller, a.logger)
	return a.globals, nil
}

// orchestrator builds the environment orchestrator. The global services are
// resolved on first use, so single-environment actions and --no-global runs
// never dial the Docker daemon.
func (a *app) orchestrator() *orchestrator.Orchestrator {
	return orchestrator.New(a.registry, a.composer, lazyGlobals{a: a}, a.logger)
}

// lazyGlobals builds the global controller when a bulk run first needs it.
type lazyGlobals struct {
	a *app
}

func (l lazyGlobals) Start(ctx context.Context) (global.Report, error) {
	c, err := l.a.globalServices()
	if err != nil {
		return global.Report{}, err
	}
	return c.Start(ctx)
}

func (l lazyGlobals) Stop(ctx context.Context) (global.Report, error) {
	c, err := l.a.globalServices()
	if err != nil {
		return global.Report{}, err
	}
	return c.Stop(ctx)
}

func (l lazyGlobals) Restart(ctx context.Context) (global.Report, error) {
	c, err := l.a.globalServices()
	if err != nil {
		return global.Report{}, err
	}
	return c.Restart(ctx)
}

// deletionWorkflow builds the delete workflow with the configured prompt.
func (a *app) deletionWorkflow() *deletion.Workflow {
	dropper := a.deps.dropper(database.Options{
		Host:     a.cfg.Database.Host,
		Port:     a.cfg.Database.Port,
		User:     a.cfg.Database.User,
		Password: a.cfg.Database.Password,
	}, a.logger)
	return deletion.NewWorkflow(a.registry, a.composer, dropper, a.confirmer(), a.deps.remove, a.logger)
}

// confirmer picks the huh form or the line prompt.
func (a *app) confirmer() prompts.Confirmer {
	if a.cfg.UI.Forms {
		return prompts.NewFormConfirmer(!tui.HasColorSupport())
	}
	return prompts.NewLineConfirmer(a.stdin, a.stdout)
}

// interactive reports whether prompts can be shown.
func (a *app) interactive() bool {
	return !a.out.IsJSON() && a.deps.terminal()
}

// lock takes the advisory lock held by mutating commands.
func (a *app) lock(ctx context.Context) (*flock.Lock, error) {
	path, err := a.deps.lockPath()
	if err != nil {
		return nil, err
	}
	lock, err := flock.Acquire(ctx, path, a.cfg.Lock.Timeout)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Str("lock", path).Msg("acquired lock")
	return lock, nil
}

// Close releases Docker clients.
func (a *app) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
	a.closers = nil
}

// withApp builds an app, runs fn and releases the app.
func withApp(cmd *cobra.Command, flags *GlobalFlags, deps *dependencies, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cmd, flags, deps)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a.logger.WithContext(ctx), a)
}

// withLockedApp is withApp holding the advisory lock for the duration.
func withLockedApp(cmd *cobra.Command, flags *GlobalFlags, deps *dependencies, fn func(ctx context.Context, a *app) error) error {
	return withApp(cmd, flags, deps, func(ctx context.Context, a *app) error {
		lock, err := a.lock(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = lock.Release() }()
		return fn(ctx, a)
	})
}
