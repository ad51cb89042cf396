package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mrz1836/sitebox/internal/global"
	"github.com/mrz1836/sitebox/internal/tui"
)

// AddGlobalCommand adds the global command group to the root command.
func AddGlobalCommand(root *cobra.Command, flags *GlobalFlags, deps *dependencies) {
	cmd := &cobra.Command{
		Use:   "global",
		Short: "Manage the shared network, gateway and database",
		Long: `Manage the services shared by every environment: the container network
and the global compose stack (gateway + MySQL) in the global directory.

start   ensures the network exists, brings the stack up and waits for MySQL
stop    brings the stack down and removes the network
restart ensures the network exists and restarts the stack
status  reports whether the network and the global directory exist`,
	}

	cmd.AddCommand(
		newGlobalActionCmd("start", "Start the global services", flags, deps, (*global.Controller).Start),
		newGlobalActionCmd("stop", "Stop the global services", flags, deps, (*global.Controller).Stop),
		newGlobalActionCmd("restart", "Restart the global services", flags, deps, (*global.Controller).Restart),
		newGlobalStatusCmd(flags, deps),
	)
	root.AddCommand(cmd)
}

// globalStep is a composite operation of the controller.
type globalStep func(c *global.Controller, ctx context.Context) (global.Report, error)

// globalActionView is the JSON document of a global start/stop/restart.
type globalActionView struct {
	Action   string     `json:"action"`
	Warnings []string   `json:"warnings,omitempty"`
	Error    *errorView `json:"error,omitempty"`
}

func newGlobalActionCmd(name, short string, flags *GlobalFlags, deps *dependencies, step globalStep) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLockedApp(cmd, flags, deps, func(ctx context.Context, a *app) error {
				controller, err := a.globalServices()
				if err != nil {
					return err
				}
				report, err := step(controller, ctx)
				return renderGlobalAction(a.out, name, report, err)
			})
		},
	}
}

func renderGlobalAction(out tui.Output, name string, report global.Report, err error) error {
	if out.IsJSON() {
		view := globalActionView{Action: name, Warnings: warningStrings(report.Warnings), Error: newErrorView(err)}
		if jerr := out.JSON(view); jerr != nil {
			return jerr
		}
		return markReported(err)
	}

	for _, w := range report.Warnings {
		out.Warning(w.String())
	}
	if err != nil {
		return err
	}
	out.Success("Global services: " + name + " done")
	return nil
}

func newGlobalStatusCmd(flags *GlobalFlags, deps *dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of the global services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, deps, runGlobalStatus)
		},
	}
}

func runGlobalStatus(ctx context.Context, a *app) error {
	controller, err := a.globalServices()
	if err != nil {
		return err
	}

	st, err := controller.Status(ctx)
	if a.out.IsJSON() {
		if jerr := a.out.JSON(statusView{Status: st, Error: newErrorView(err)}); jerr != nil {
			return jerr
		}
		return markReported(err)
	}

	tbl := tui.NewTable(nil, "RESOURCE", "NAME", "STATE")
	tbl.AddRow("network", st.Network, presence(st.NetworkExists, err != nil))
	tbl.AddRow("directory", st.Dir, presence(st.DirExists, false))
	if terr := a.out.Table(tbl); terr != nil {
		return terr
	}
	return err
}

func presence(exists, unknown bool) string {
	switch {
	case unknown:
		return tui.RenderLabeled(tui.OutcomeSkipped, "unknown")
	case exists:
		return tui.RenderLabeled(tui.OutcomeOK, "present")
	default:
		return tui.RenderLabeled(tui.OutcomeFailed, "missing")
	}
}
