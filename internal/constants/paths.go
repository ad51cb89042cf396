package constants

// Log file names and rotation settings.
const (
	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.sitebox/logs/sitebox.log
	CLILogFileName = "sitebox.log"

	// LogMaxSizeMB is the size at which the CLI log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files kept.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum age of a rotated log file.
	LogMaxAgeDays = 28

	// LogCompress enables gzip compression of rotated log files.
	LogCompress = true
)

// Configuration and lock file names.
const (
	// GlobalConfigName is the name of the global sitebox configuration file.
	// This file is located in the sitebox home directory.
	GlobalConfigName = "config.yaml"

	// ProjectConfigName is the name of the project-specific configuration file.
	// This file is looked up in the current working directory.
	ProjectConfigName = ".sitebox.yaml"

	// LockFileName is the advisory lock held by mutating commands.
	LockFileName = "sitebox.lock"
)
