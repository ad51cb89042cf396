// Package constants provides centralized constant values used throughout sitebox.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// AllEnvironments is the literal argument that applies a verb to every environment.
const AllEnvironments = "all"

// Directory names and paths used by sitebox for organizing data.
const (
	// SiteboxHome is the hidden directory name where sitebox keeps its logs,
	// lock file and global configuration. It lives in the user's home directory
	// unless SITEBOX_HOME overrides it.
	SiteboxHome = ".sitebox"

	// HomeEnvVar overrides the sitebox home directory.
	HomeEnvVar = "SITEBOX_HOME"

	// EnvPrefix is the prefix for configuration environment variables (SITEBOX_ROOT, ...).
	EnvPrefix = "SITEBOX"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// DefaultSitesDir is the directory below the root holding one directory per environment.
	DefaultSitesDir = "sites"

	// DefaultGlobalDir is the directory below the root holding the shared compose stack.
	DefaultGlobalDir = "global"
)

// Compose and container engine defaults.
const (
	// DefaultNetworkName is the reserved name of the network shared by every environment.
	DefaultNetworkName = "wplocaldocker"

	// DefaultNetworkDriver is the driver used when the shared network is created.
	DefaultNetworkDriver = "bridge"

	// DefaultDatabaseService is the compose service name of the shared database.
	DefaultDatabaseService = "mysql"

	// DefaultReadyMarker is the database log line that signals it accepts connections.
	DefaultReadyMarker = "ready for connections"
)

// DefaultComposeCommand returns the command (binary plus leading arguments)
// used to invoke compose. A function because Go has no constant slices.
func DefaultComposeCommand() []string {
	return []string{"docker", "compose"}
}

// Shared database defaults. These match the credentials baked into the
// global compose definition.
const (
	DefaultDatabaseHost     = "127.0.0.1"
	DefaultDatabasePort     = 3306
	DefaultDatabaseUser     = "root"
	DefaultDatabasePassword = "password"
)

// Timeout configurations for various operations.
const (
	// DefaultReadinessInterval is the delay between two database readiness probes.
	DefaultReadinessInterval = 1 * time.Second

	// DefaultReadinessTimeout bounds the wait for the database to become ready.
	DefaultReadinessTimeout = 2 * time.Minute

	// DefaultLockTimeout is the maximum time spent waiting for the advisory lock.
	DefaultLockTimeout = 5 * time.Second

	// LockRetryInterval is the interval between lock acquisition attempts.
	LockRetryInterval = 50 * time.Millisecond

	// DatabaseConnectTimeout bounds the dial to the shared database.
	DatabaseConnectTimeout = 5 * time.Second

	// DoctorTimeout bounds all doctor checks together.
	DoctorTimeout = 15 * time.Second
)

// File permission constants.
const (
	DirPerm  = 0o750
	FilePerm = 0o600
)
