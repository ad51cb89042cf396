package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// A slice rather than a map because lookup of wrapped errors goes through
// errors.Is in declaration order.
//
//nolint:gochecknoglobals // Pre-built mapping
var errorInfoEntries = []errorEntry{
	// ===================
	// Environments
	// ===================
	{
		err: ErrUsage,
		info: ErrorInfo{
			Message: "An environment name is required.",
			Action:  "Pass the environment hostname or slug, or 'all'.",
		},
	},
	{
		err: ErrEnvironmentNotFound,
		info: ErrorInfo{
			Message: "Cannot find the requested site.",
			Action:  "Run 'sitebox list' to see available environments.",
		},
	},
	{
		err: ErrBulkPartialFailure,
		info: ErrorInfo{
			Message: "Some environments could not be processed.",
			Action:  "Check the output above, fix the failing environments and retry them individually.",
		},
	},

	{
		err: ErrPrerequisiteFailed,
		info: ErrorInfo{
			Message: "Some tools or services sitebox needs are not available.",
			Action:  "Follow the hints printed by 'sitebox doctor' and run it again.",
		},
	},

	// ===================
	// Containers
	// ===================
	{
		err: ErrOrchestration,
		info: ErrorInfo{
			Message: "The compose command failed.",
			Action:  "Check that Docker is running and the compose file in the environment directory is valid.",
		},
	},
	{
		err: ErrReadinessTimeout,
		info: ErrorInfo{
			Message: "The shared database did not become ready in time.",
			Action:  "Inspect 'docker compose logs mysql' in the global directory, or raise readiness.timeout.",
		},
	},
	{
		err: ErrNetworkOperation,
		info: ErrorInfo{
			Message: "The shared network could not be managed.",
			Action:  "Check that the Docker daemon is reachable.",
		},
	},
	{
		err: ErrDockerClientNil,
		info: ErrorInfo{
			Message: "The Docker client is not available.",
			Action:  "Check DOCKER_HOST and that the Docker daemon is running.",
		},
	},

	// ===================
	// Database
	// ===================
	{
		err: ErrDatabaseOperation,
		info: ErrorInfo{
			Message: "The environment database could not be dropped. Its files may already be gone.",
			Action:  "Start the global services with 'sitebox global start' and drop the schema manually.",
		},
	},

	// ===================
	// User Interaction
	// ===================
	{
		err: ErrOperationCanceled,
		info: ErrorInfo{
			Message: "Operation was canceled.",
			Action:  "",
		},
	},
	{
		err: ErrNonInteractiveMode,
		info: ErrorInfo{
			Message: "This operation requires confirmation in non-interactive mode.",
			Action:  "Use --force flag to skip confirmation.",
		},
	},
	{
		err: ErrLockTimeout,
		info: ErrorInfo{
			Message: "Could not acquire lock. Another sitebox command may be running.",
			Action:  "Wait for the other command to finish and try again.",
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrConfigNil,
		info: ErrorInfo{
			Message: "Configuration is not loaded.",
			Action:  "Ensure the configuration file exists and is valid YAML.",
		},
	},
	{
		err: ErrConfigInvalid,
		info: ErrorInfo{
			Message: "Invalid configuration.",
			Action:  "Run 'sitebox config show' and fix the reported value.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Unknown output format.",
			Action:  "Use --output text or --output json.",
		},
	},
	{
		err: ErrEmptyValue,
		info: ErrorInfo{
			Message: "A required value was not provided.",
			Action:  "Provide the required value and try again.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// Unwrapped sentinels hit the map; wrapped errors fall back to errors.Is.
// Unknown errors keep their own message.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
//
// For errors that have no clear action, the action string is empty.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
