package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/sitebox/internal/config"
	"github.com/mrz1836/sitebox/internal/errors"
	"github.com/mrz1836/sitebox/internal/tui"
)

// configShowFlags holds flags of the config show command.
type configShowFlags struct {
	// format is yaml or json; empty follows --output.
	format string
}

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(root *cobra.Command, flags *GlobalFlags, deps *dependencies) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect sitebox configuration",
	}
	cmd.AddCommand(newConfigShowCmd(flags, deps))
	root.AddCommand(cmd)
}

func newConfigShowCmd(flags *GlobalFlags, deps *dependencies) *cobra.Command {
	showFlags := &configShowFlags{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Long: `Display the effective configuration after merging, from highest to lowest
precedence: --root, SITEBOX_* environment variables, ./.sitebox.yaml,
<home>/config.yaml and built-in defaults.

The database password is masked.

Examples:
  sitebox config show
  sitebox config show --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, deps, func(ctx context.Context, a *app) error {
				return runConfigShow(ctx, a.stdout, a.cfg, resolveShowFormat(showFlags.format, a.out))
			})
		},
	}

	cmd.Flags().StringVar(&showFlags.format, "format", "", "document format (yaml|json); defaults to json with --output json, yaml otherwise")

	return cmd
}

func resolveShowFormat(format string, out tui.Output) string {
	if format != "" {
		return strings.ToLower(format)
	}
	if out.IsJSON() {
		return "json"
	}
	return "yaml"
}

func runConfigShow(ctx context.Context, w io.Writer, cfg *config.Config, format string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	redacted := cfg.Redacted()
	switch format {
	case "json":
		return tui.NewJSONOutput(w).JSON(redacted)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(redacted); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	default:
		return errors.NewExitCode2Error(fmt.Errorf("%w: %q (use yaml or json)", errors.ErrInvalidOutputFormat, format))
	}
}
