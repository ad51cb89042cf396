package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/sitebox/internal/constants"
	"github.com/mrz1836/sitebox/internal/domain"
	"github.com/mrz1836/sitebox/internal/errors"
	"github.com/mrz1836/sitebox/internal/orchestrator"
)

// environmentFlags holds flags of start, stop and restart.
type environmentFlags struct {
	noGlobal bool
	failFast bool
}

// commandName maps an action to the command that runs it.
func commandName(action domain.Action) string {
	switch action {
	case domain.ActionUp:
		return "start"
	case domain.ActionDown:
		return "stop"
	case domain.ActionRestart:
		return "restart"
	default:
		return string(action)
	}
}

// AddEnvironmentCommands adds start, stop and restart to the root command.
func AddEnvironmentCommands(root *cobra.Command, flags *GlobalFlags, deps *dependencies) {
	for _, action := range []domain.Action{domain.ActionUp, domain.ActionDown, domain.ActionRestart} {
		root.AddCommand(newEnvironmentCmd(action, flags, deps))
	}
}

func environmentLong(name string) string {
	return fmt.Sprintf(`Usage:  sitebox %[1]s ENVIRONMENT
        sitebox %[1]s all

%[2]s one or more environments.

ENVIRONMENT can be set to either the slug version of the hostname (same as
the directory name) or the hostname.
    - docker.test
    - docker-test

When 'all' is specified as the ENVIRONMENT, each environment will %[1]s and
the global services (network, gateway, database) follow unless --no-global
is given. Environments are processed one at a time; failures are collected
and reported at the end unless --fail-fast is given.`, name, strings.ToUpper(name[:1])+name[1:])
}

func newEnvironmentCmd(action domain.Action, flags *GlobalFlags, deps *dependencies) *cobra.Command {
	envFlags := &environmentFlags{}
	name := commandName(action)

	cmd := &cobra.Command{
		Use:               name + " [ENVIRONMENT|all]",
		Short:             fmt.Sprintf("%s one or more environments", strings.ToUpper(name[:1])+name[1:]),
		Long:              environmentLong(name),
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeEnvironments(flags, true),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
				_ = cmd.Help()
				return errors.NewExitCode2Error(fmt.Errorf("%s: %w", name, errors.ErrUsage))
			}
			target := args[0]

			return withLockedApp(cmd, flags, deps, func(ctx context.Context, a *app) error {
				if target == constants.AllEnvironments {
					return runBulk(ctx, a, action, orchestrator.BulkOptions{
						SkipGlobal: envFlags.noGlobal,
						FailFast:   envFlags.failFast,
					})
				}
				return runSingle(ctx, a, action, target)
			})
		},
	}

	cmd.Flags().BoolVar(&envFlags.noGlobal, "no-global", false, "with 'all', leave the global services untouched")
	cmd.Flags().BoolVar(&envFlags.failFast, "fail-fast", false, "with 'all', stop at the first failed environment")

	return cmd
}

// runSingle applies action to one environment.
func runSingle(ctx context.Context, a *app, action domain.Action, name string) error {
	env, err := a.orchestrator().Run(ctx, name, action)
	if a.out.IsJSON() {
		view := actionView{
			Action: action,
			Environment: environmentView{
				Name:   name,
				Slug:   env.Slug,
				Path:   env.Path,
				Result: outcomeOf(err),
				Error:  errString(err),
			},
			Error: newErrorView(err),
		}
		if jerr := a.out.JSON(view); jerr != nil {
			return jerr
		}
		return markReported(err)
	}
	if err != nil {
		return err
	}

	a.out.Success(fmt.Sprintf("%s %s", pastTense(action), env.Slug))
	return nil
}

// runBulk applies action to every environment.
func runBulk(ctx context.Context, a *app, action domain.Action, opts orchestrator.BulkOptions) error {
	orch := a.orchestrator()

	var report *orchestrator.BulkReport
	var err error
	switch action {
	case domain.ActionUp:
		report, err = orch.StartAll(ctx, opts)
	case domain.ActionDown:
		report, err = orch.StopAll(ctx, opts)
	case domain.ActionRestart:
		report, err = orch.RestartAll(ctx, opts)
	default:
		return fmt.Errorf("%w: %q", errors.ErrInvalidAction, action)
	}
	return renderBulk(a.out, report, err)
}

func pastTense(action domain.Action) string {
	switch action {
	case domain.ActionUp:
		return "Started"
	case domain.ActionDown:
		return "Stopped"
	case domain.ActionRestart:
		return "Restarted"
	default:
		return string(action)
	}
}
