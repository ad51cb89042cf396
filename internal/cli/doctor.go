package cli

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrz1836/sitebox/internal/constants"
	"github.com/mrz1836/sitebox/internal/database"
	"github.com/mrz1836/sitebox/internal/doctor"
	"github.com/mrz1836/sitebox/internal/errors"
	"github.com/mrz1836/sitebox/internal/network"
	"github.com/mrz1836/sitebox/internal/tui"
)

// AddDoctorCommand adds the doctor command to the root command.
func AddDoctorCommand(root *cobra.Command, flags *GlobalFlags, deps *dependencies) {
	root.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check that Docker, compose and the shared database are usable",
		Long: `Run every prerequisite check at once and report the result:

  compose   the configured compose command answers 'version'
  docker    the Docker daemon is reachable through its API
  sites     the sites directory exists
  global    the global directory holding the shared stack exists
  database  the shared MySQL server accepts connections (optional)

The command exits non-zero when a required check fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, deps, runDoctor)
		},
	})
}

// doctorView is the JSON document of doctor.
type doctorView struct {
	*doctor.Report

	Error *errorView `json:"error,omitempty"`
}

func runDoctor(ctx context.Context, a *app) error {
	addr := net.JoinHostPort(a.cfg.Database.Host, strconv.Itoa(a.cfg.Database.Port))
	pinger := a.deps.pinger(database.Options{
		Host:     a.cfg.Database.Host,
		Port:     a.cfg.Database.Port,
		User:     a.cfg.Database.User,
		Password: a.cfg.Database.Password,
	}, a.logger)

	d := doctor.New(constants.DoctorTimeout, a.logger,
		doctor.ComposeProbe(a.deps.runner, a.cfg.Compose.Command),
		doctor.DockerProbe(a.networkLookup),
		doctor.DirectoryProbe("sites", a.cfg.SitesPath(), false, "Create the sites directory or point --root at the directory holding it."),
		doctor.DirectoryProbe("global", a.cfg.GlobalPath(), true, "Check out the global compose stack below the root directory."),
		doctor.DatabaseProbe(pinger, addr),
	)

	report, err := d.Run(ctx)
	if err != nil {
		return err
	}

	var failure error
	if report.HasFailedRequired {
		failure = fmt.Errorf("%d check(s) failed: %w", len(report.Failed()), errors.ErrPrerequisiteFailed)
	}

	if a.out.IsJSON() {
		if jerr := a.out.JSON(doctorView{Report: report, Error: newErrorView(failure)}); jerr != nil {
			return jerr
		}
		return markReported(failure)
	}

	tbl := tui.NewTable(nil, "CHECK", "STATUS", "DETAIL")
	for _, c := range report.Checks {
		tbl.AddRow(c.Name, tui.RenderLabeled(checkOutcome(c.Status), string(c.Status)), c.Detail)
	}
	if terr := a.out.Table(tbl); terr != nil {
		return terr
	}
	for _, c := range report.Failed() {
		if c.Hint != "" {
			a.out.Warning(fmt.Sprintf("%s: %s", c.Name, c.Hint))
		}
	}
	if failure != nil {
		return failure
	}
	a.out.Success("All required checks passed")
	return nil
}

// networkLookup builds the network manager used by the docker check.
func (a *app) networkLookup() (doctor.NetworkLookup, error) {
	cli, err := a.dockerClient()
	if err != nil {
		return nil, err
	}
	return network.NewManager(cli, a.cfg.Network.Name, a.cfg.Network.Driver, a.logger), nil
}

func checkOutcome(s doctor.Status) string {
	switch s {
	case doctor.StatusOK:
		return tui.OutcomeOK
	case doctor.StatusWarning:
		return tui.OutcomeSkipped
	default:
		return tui.OutcomeFailed
	}
}
