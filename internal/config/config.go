// Package config provides configuration management for sitebox with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (SITEBOX_* prefix)
//  3. Project config (./.sitebox.yaml)
//  4. Global config (~/.sitebox/config.yaml, or $SITEBOX_HOME/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import (
	"path/filepath"
	"time"
)

// redactedValue replaces secrets when a config is displayed.
const redactedValue = "********"

// Config is the root configuration structure for sitebox.
type Config struct {
	// Root is the directory holding the sites and global directories.
	// Default: the current working directory
	Root string `yaml:"root" mapstructure:"root" json:"root"`

	// SitesDir is the directory, relative to Root unless absolute, that
	// holds one directory per environment.
	// Default: "sites"
	SitesDir string `yaml:"sites_dir" mapstructure:"sites_dir" json:"sites_dir"`

	// GlobalDir is the directory, relative to Root unless absolute, that
	// holds the shared compose definition (gateway + database).
	// Default: "global"
	GlobalDir string `yaml:"global_dir" mapstructure:"global_dir" json:"global_dir"`

	// Compose contains settings for the compose tool invocation.
	Compose ComposeConfig `yaml:"compose" mapstructure:"compose" json:"compose"`

	// Network contains settings for the shared container network.
	Network NetworkConfig `yaml:"network" mapstructure:"network" json:"network"`

	// Database contains connection and readiness settings for the shared database.
	Database DatabaseConfig `yaml:"database" mapstructure:"database" json:"database"`

	// Readiness controls the database readiness wait after the global stack starts.
	Readiness ReadinessConfig `yaml:"readiness" mapstructure:"readiness" json:"readiness"`

	// Lock controls the advisory lock held by mutating commands.
	Lock LockConfig `yaml:"lock" mapstructure:"lock" json:"lock"`

	// UI contains settings for interactive prompts.
	UI UIConfig `yaml:"ui" mapstructure:"ui" json:"ui"`
}

// ComposeConfig contains settings for invoking the compose tool.
type ComposeConfig struct {
	// Command is the binary followed by any leading arguments.
	// Default: ["docker", "compose"]. Use ["docker-compose"] for the legacy binary.
	Command []string `yaml:"command" mapstructure:"command" json:"command"`
}

// NetworkConfig describes the network shared by every environment.
type NetworkConfig struct {
	// Name is the reserved network name.
	// Default: "wplocaldocker"
	Name string `yaml:"name" mapstructure:"name" json:"name"`

	// Driver is used when the network has to be created.
	// Default: "bridge"
	Driver string `yaml:"driver" mapstructure:"driver" json:"driver"`
}

// DatabaseConfig contains settings for the shared MySQL server.
type DatabaseConfig struct {
	Host     string `yaml:"host" mapstructure:"host" json:"host"`
	Port     int    `yaml:"port" mapstructure:"port" json:"port"`
	User     string `yaml:"user" mapstructure:"user" json:"user"`
	Password string `yaml:"password" mapstructure:"password" json:"password"`

	// Service is the compose service whose logs are probed for readiness.
	// Default: "mysql"
	Service string `yaml:"service" mapstructure:"service" json:"service"`

	// ReadyMarker is the log substring that means the database accepts connections.
	// Default: "ready for connections"
	ReadyMarker string `yaml:"ready_marker" mapstructure:"ready_marker" json:"ready_marker"`
}

// ReadinessConfig bounds the database readiness wait.
type ReadinessConfig struct {
	// Interval is the delay between two probes.
	// Default: 1 second
	Interval time.Duration `yaml:"interval" mapstructure:"interval" json:"interval"`

	// Timeout is the maximum total wait.
	// Default: 2 minutes
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" json:"timeout"`
}

// LockConfig controls the advisory command lock.
type LockConfig struct {
	// Timeout is how long a command waits for another sitebox process.
	// Default: 5 seconds
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" json:"timeout"`
}

// UIConfig contains settings for interactive prompts.
type UIConfig struct {
	// Forms renders confirmations as huh forms instead of plain line prompts.
	// Default: false
	Forms bool `yaml:"forms" mapstructure:"forms" json:"forms"`
}

// SitesPath returns the absolute directory holding the environments.
func (c *Config) SitesPath() string {
	return c.resolve(c.SitesDir)
}

// GlobalPath returns the absolute directory holding the shared compose stack.
func (c *Config) GlobalPath() string {
	return c.resolve(c.GlobalDir)
}

func (c *Config) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.Root, dir)
}

// Redacted returns a copy safe for display: secrets are masked and slices
// are not shared with the receiver.
func (c *Config) Redacted() *Config {
	out := *c
	out.Compose.Command = append([]string(nil), c.Compose.Command...)
	if out.Database.Password != "" {
		out.Database.Password = redactedValue
	}
	return &out
}
