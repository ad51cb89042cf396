package cli

import (
	"fmt"

	"github.com/mrz1836/sitebox/internal/deletion"
	"github.com/mrz1836/sitebox/internal/domain"
	"github.com/mrz1836/sitebox/internal/errors"
	"github.com/mrz1836/sitebox/internal/global"
	"github.com/mrz1836/sitebox/internal/orchestrator"
	"github.com/mrz1836/sitebox/internal/tui"
)

// errorView is the JSON shape of an error embedded in a result document.
type errorView struct {
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func newErrorView(err error) *errorView {
	if err == nil {
		return nil
	}
	msg, action := errors.Actionable(err)
	view := &errorView{Message: msg, Suggestion: action}
	if raw := err.Error(); raw != msg {
		view.Details = raw
	}
	return view
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// environmentView is one environment in list and bulk output.
type environmentView struct {
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Path   string `json:"path"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// actionView is the JSON document of a single-environment action.
type actionView struct {
	Action      domain.Action   `json:"action"`
	Environment environmentView `json:"environment"`
	Error       *errorView      `json:"error,omitempty"`
}

// globalStepView is the global services part of a bulk document.
type globalStepView struct {
	Ran      bool     `json:"ran"`
	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// bulkView is the JSON document of an all-environments run.
type bulkView struct {
	Action       domain.Action     `json:"action"`
	Environments []environmentView `json:"environments"`
	Global       globalStepView    `json:"global"`
	Error        *errorView        `json:"error,omitempty"`
}

func newBulkView(report *orchestrator.BulkReport, err error) bulkView {
	view := bulkView{
		Action:       report.Action,
		Environments: make([]environmentView, 0, len(report.Outcomes)+len(report.Skipped)),
		Global: globalStepView{
			Ran:      report.Global.Ran,
			Warnings: warningStrings(report.Global.Warnings),
			Error:    errString(report.Global.Err),
		},
		Error: newErrorView(err),
	}
	for _, o := range report.Outcomes {
		result := tui.OutcomeOK
		if !o.OK() {
			result = tui.OutcomeFailed
		}
		view.Environments = append(view.Environments, environmentView{
			Name:   o.Environment.Name,
			Slug:   o.Environment.Slug,
			Path:   o.Environment.Path,
			Result: result,
			Error:  errString(o.Err),
		})
	}
	for _, env := range report.Skipped {
		view.Environments = append(view.Environments, environmentView{
			Name:   env.Name,
			Slug:   env.Slug,
			Path:   env.Path,
			Result: tui.OutcomeSkipped,
		})
	}
	return view
}

func warningStrings(warnings []global.Warning) []string {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.String())
	}
	return out
}

// renderBulk prints a bulk report. In JSON mode the error is embedded in
// the document and the returned error is marked as already reported.
func renderBulk(out tui.Output, report *orchestrator.BulkReport, err error) error {
	if report == nil {
		return err
	}
	view := newBulkView(report, err)

	if out.IsJSON() {
		if jerr := out.JSON(view); jerr != nil {
			return jerr
		}
		return markReported(err)
	}

	if len(view.Environments) == 0 {
		out.Info("No environments found.")
	} else {
		tbl := tui.NewTable(nil, "ENVIRONMENT", "ACTION", "RESULT", "ERROR")
		for _, env := range view.Environments {
			tbl.AddRow(env.Slug, report.Action.String(), tui.RenderOutcome(env.Result), env.Error)
		}
		if terr := out.Table(tbl); terr != nil {
			return terr
		}
	}

	for _, w := range view.Global.Warnings {
		out.Warning(w)
	}
	if err == nil {
		out.Success(fmt.Sprintf("%s: %d environment(s) processed", commandName(report.Action), len(report.Outcomes)))
	}
	return err
}

// deleteView is the JSON document of a deletion.
type deleteView struct {
	Environment environmentView  `json:"environment"`
	States      []deletion.State `json:"states"`
	Aborted     bool             `json:"aborted"`
	StopError   string           `json:"stop_error,omitempty"`
	Error       *errorView       `json:"error,omitempty"`
}

func newDeleteView(result *deletion.Result, err error) deleteView {
	return deleteView{
		Environment: environmentView{
			Name: result.Environment.Name,
			Slug: result.Environment.Slug,
			Path: result.Environment.Path,
		},
		States:    result.States,
		Aborted:   result.Aborted(),
		StopError: errString(result.StopErr),
		Error:     newErrorView(err),
	}
}

// statusView is the JSON document of global status.
type statusView struct {
	global.Status

	Error *errorView `json:"error,omitempty"`
}

// markReported tags err so Execute does not print it a second time.
func markReported(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", errors.ErrJSONErrorOutput, err)
}

func outcomeOf(err error) string {
	if err != nil {
		return tui.OutcomeFailed
	}
	return tui.OutcomeOK
}
