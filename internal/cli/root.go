package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/sitebox/internal/errors"
	"github.com/mrz1836/sitebox/internal/tui"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger is set in PersistentPreRunE and read through GetLogger.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the logger initialized by the root command. Before
// PersistentPreRunE runs it returns a zero-value logger that discards output.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

func setLogger(l zerolog.Logger) {
	globalLoggerMu.Lock()
	globalLogger = l
	globalLoggerMu.Unlock()
}

// newRootCmd creates the sitebox root command.
func newRootCmd(flags *GlobalFlags, info BuildInfo, deps *dependencies) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "sitebox",
		Short: "Manage local compose-based site environments",
		Long: `sitebox starts, stops, restarts and deletes local site environments.

Every environment is a directory under <root>/sites holding a compose file.
A shared network and a global stack (gateway + MySQL) under <root>/global
serve all environments.

ENVIRONMENT can be set to either the slug version of the hostname (same as
the directory name) or the hostname:
    - docker.test
    - docker-test`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd, flags); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}

			format, err := tui.ParseFormat(flags.Output)
			if err != nil {
				return errors.NewExitCode2Error(err)
			}
			flags.Output = format

			logger := deps.logger
			if logger == nil {
				l := InitLogger(flags.Verbose, flags.Quiet)
				logger = &l
			}
			// One id per invocation groups the entries of a run in the shared log file.
			setLogger(logger.With().Str("invocation", uuid.NewString()).Logger())
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	AddEnvironmentCommands(cmd, flags, deps)
	AddDeleteCommand(cmd, flags, deps)
	AddListCommand(cmd, flags, deps)
	AddGlobalCommand(cmd, flags, deps)
	AddConfigCommand(cmd, flags, deps)
	AddDoctorCommand(cmd, flags, deps)
	AddCompletionCommand(cmd)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command and reports a returned error once on
// stderr. The caller maps the error to an exit code with ExitCodeForError.
func Execute(ctx context.Context, info BuildInfo) error {
	return execute(ctx, info, defaultDependencies(), nil, nil)
}

// streams overrides the standard streams of the root command.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

func execute(ctx context.Context, info BuildInfo, deps *dependencies, args []string, std *streams) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info, deps)
	if args != nil {
		cmd.SetArgs(args)
	}
	if std != nil {
		cmd.SetIn(std.in)
		cmd.SetOut(std.out)
		cmd.SetErr(std.err)
	}

	err := cmd.ExecuteContext(ctx)
	CloseLogFile()
	if err != nil && stderrors.Is(err, context.Canceled) && !stderrors.Is(err, errors.ErrOperationCanceled) {
		err = fmt.Errorf("%w: %w", errors.ErrOperationCanceled, err)
	}
	if err != nil {
		reportError(cmd, flags, err)
	}
	return err
}

// reportError prints err in the requested format unless the command already
// emitted it as part of a JSON document.
func reportError(cmd *cobra.Command, flags *GlobalFlags, err error) {
	if stderrors.Is(err, errors.ErrJSONErrorOutput) {
		return
	}

	format := flags.Output
	if _, perr := tui.ParseFormat(format); perr != nil {
		format = tui.FormatText
	}

	if format == tui.FormatText && stderrors.Is(err, errors.ErrOperationCanceled) {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Operation canceled.")
		return
	}

	tui.NewOutput(cmd.ErrOrStderr(), format).Error(err)
}
