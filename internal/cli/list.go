package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mrz1836/sitebox/internal/tui"
)

// AddListCommand adds the list command to the root command.
func AddListCommand(root *cobra.Command, flags *GlobalFlags, deps *dependencies) {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List discovered environments",
		Long: `List every environment directory under the sites directory.

The order is the order the filesystem returns; 'all' commands process
environments in the same order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, deps, runList)
		},
	}
	root.AddCommand(cmd)
}

func runList(ctx context.Context, a *app) error {
	envs, err := a.registry.List(ctx)
	if err != nil {
		return err
	}

	if a.out.IsJSON() {
		views := make([]environmentView, 0, len(envs))
		for _, env := range envs {
			views = append(views, environmentView{Name: env.Name, Slug: env.Slug, Path: env.Path})
		}
		return a.out.JSON(views)
	}

	if len(envs) == 0 {
		a.out.Info("No environments found in " + a.registry.SitesPath())
		return nil
	}

	tbl := tui.NewTable(nil, "ENVIRONMENT", "PATH")
	for _, env := range envs {
		tbl.AddRow(env.Slug, env.Path)
	}
	return a.out.Table(tbl)
}
