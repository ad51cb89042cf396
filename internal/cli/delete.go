package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/sitebox/internal/deletion"
	"github.com/mrz1836/sitebox/internal/errors"
)

// deleteFlags holds flags of the delete command.
type deleteFlags struct {
	force bool
}

// AddDeleteCommand adds the delete command to the root command.
func AddDeleteCommand(root *cobra.Command, flags *GlobalFlags, deps *dependencies) {
	root.AddCommand(newDeleteCmd(flags, deps))
}

func newDeleteCmd(flags *GlobalFlags, deps *dependencies) *cobra.Command {
	delFlags := &deleteFlags{}

	cmd := &cobra.Command{
		Use:   "delete ENVIRONMENT",
		Short: "Delete an environment, its files and its database",
		Long: `Usage:  sitebox delete ENVIRONMENT

Delete an environment. After confirmation its containers are stopped, its
directory is removed and its database is dropped from the shared MySQL
server. This cannot be undone.

ENVIRONMENT can be set to either the slug version of the hostname (same as
the directory name) or the hostname.
    - docker.test
    - docker-test

Without a terminal the command refuses to run unless --force is given.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeEnvironments(flags, false),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
				_ = cmd.Help()
				return errors.NewExitCode2Error(fmt.Errorf("delete: %w", errors.ErrUsage))
			}
			name := args[0]

			return withLockedApp(cmd, flags, deps, func(ctx context.Context, a *app) error {
				return runDelete(ctx, a, name, deletion.Options{
					Force:       delFlags.force,
					Interactive: a.interactive(),
				})
			})
		},
	}

	cmd.Flags().BoolVarP(&delFlags.force, "force", "f", false, "skip the confirmation prompt")

	return cmd
}

func runDelete(ctx context.Context, a *app, name string, opts deletion.Options) error {
	result, err := a.deletionWorkflow().Delete(ctx, name, opts)

	if a.out.IsJSON() {
		if jerr := a.out.JSON(newDeleteView(result, err)); jerr != nil {
			return jerr
		}
		return markReported(err)
	}

	if result.StopErr != nil {
		a.out.Warning(fmt.Sprintf("could not stop %s before deleting: %v", result.Environment.Slug, result.StopErr))
	}
	if err != nil {
		return err
	}
	if result.Aborted() {
		a.out.Info("Nothing was deleted.")
		return nil
	}

	a.out.Success(fmt.Sprintf("Deleted %s", result.Environment.Slug))
	return nil
}
