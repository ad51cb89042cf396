// Package errors provides centralized error handling for sitebox.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
var (
	// ErrUsage indicates a required argument was missing. The CLI prints
	// help and exits with code 2.
	ErrUsage = errors.New("missing required argument")

	// ErrEnvironmentNotFound indicates no directory matches the slug of the
	// requested environment under the site root.
	ErrEnvironmentNotFound = errors.New("environment not found")

	// ErrOrchestration indicates the compose tool exited non-zero or could
	// not be started.
	ErrOrchestration = errors.New("orchestration command failed")

	// ErrReadinessTimeout indicates the shared database never reported
	// readiness within the configured bound.
	ErrReadinessTimeout = errors.New("readiness timeout")

	// ErrDatabaseOperation indicates a connection or query against the
	// shared database failed.
	ErrDatabaseOperation = errors.New("database operation failed")

	// ErrNetworkOperation indicates a shared network query, create or remove
	// failed. It is surfaced as a warning, never as a terminal error.
	ErrNetworkOperation = errors.New("network operation failed")

	// ErrBulkPartialFailure indicates at least one environment failed during
	// a start/stop/restart of all environments.
	ErrBulkPartialFailure = errors.New("one or more environments failed")

	// ErrPrerequisiteFailed indicates a required doctor check did not pass.
	ErrPrerequisiteFailed = errors.New("prerequisite check failed")

	// ErrInvalidAction indicates an unknown compose action was requested.
	ErrInvalidAction = errors.New("invalid action")

	// ErrDockerClientNil indicates the container engine client was not configured.
	ErrDockerClientNil = errors.New("docker client is nil")

	// ErrCommandRunnerNil indicates the command runner was not configured.
	ErrCommandRunnerNil = errors.New("command runner is nil")

	// ErrLockTimeout indicates the advisory lock could not be acquired within the timeout period.
	ErrLockTimeout = errors.New("lock acquisition timeout")

	// ErrNonInteractiveMode indicates that an operation requiring confirmation
	// was attempted in non-interactive mode without the force flag.
	ErrNonInteractiveMode = errors.New("use --force in non-interactive mode")

	// ErrOperationCanceled indicates the user canceled an interactive prompt.
	ErrOperationCanceled = errors.New("operation canceled")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalid indicates an invalid configuration value.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrJSONErrorOutput indicates that an error has already been output as JSON.
	// This ensures a non-zero exit code while preventing duplicate error messages.
	// Commands should silence cobra's error printing when this is returned.
	ErrJSONErrorOutput = errors.New("error output as JSON")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}

// Is reports whether any error in err's chain matches target.
// Re-exported so callers importing this package under the name "errors"
// keep access to the standard helpers.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors, discarding nils.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
