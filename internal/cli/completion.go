package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/sitebox/internal/config"
	"github.com/mrz1836/sitebox/internal/constants"
	"github.com/mrz1836/sitebox/internal/environment"
	"github.com/mrz1836/sitebox/internal/slug"
)

// AddCompletionCommand adds the completion command with one subcommand per shell.
func AddCompletionCommand(rootCmd *cobra.Command) {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	completionCmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completions",
		Long: `Generate shell completion scripts for sitebox. Environment names are
completed from the sites directory.

To load completions in the current session:
  source <(sitebox completion bash)
  source <(sitebox completion zsh)
  sitebox completion fish | source
  sitebox completion powershell | Out-String | Invoke-Expression`,
	}

	completionCmd.AddCommand(
		&cobra.Command{
			Use:                   "bash",
			Short:                 "Generate bash completion script",
			DisableFlagsInUseLine: true,
			Args:                  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return cmd.Root().GenBashCompletionV2(cmd.OutOrStdout(), true)
			},
		},
		&cobra.Command{
			Use:                   "zsh",
			Short:                 "Generate zsh completion script",
			DisableFlagsInUseLine: true,
			Args:                  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:                   "fish",
			Short:                 "Generate fish completion script",
			DisableFlagsInUseLine: true,
			Args:                  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			},
		},
		&cobra.Command{
			Use:                   "powershell",
			Short:                 "Generate powershell completion script",
			DisableFlagsInUseLine: true,
			Args:                  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			},
		},
	)

	rootCmd.AddCommand(completionCmd)
}

// completeEnvironments completes environment slugs, plus "all" when
// withAll is set. It never fails: a broken config just yields no candidates.
func completeEnvironments(flags *GlobalFlags, withAll bool) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		sitesPath, err := completionSitesPath(ctx, flags)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		envs, err := environment.NewRegistry(sitesPath, GetLogger()).List(ctx)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		prefix := slug.Make(toComplete)
		var out []string
		if withAll && strings.HasPrefix(constants.AllEnvironments, toComplete) {
			out = append(out, constants.AllEnvironments+"\tevery environment")
		}
		for _, env := range envs {
			if strings.HasPrefix(env.Slug, prefix) {
				out = append(out, env.Slug)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

// completionSitesPath resolves the sites directory the way newApp does,
// without initializing the logger or output.
func completionSitesPath(ctx context.Context, flags *GlobalFlags) (string, error) {
	cfg, err := config.LoadWithOverrides(ctx, &config.Config{Root: flags.Root})
	if err != nil {
		return "", err
	}
	return cfg.SitesPath(), nil
}
