package config

import (
	"github.com/spf13/viper"

	"github.com/mrz1836/sitebox/internal/constants"
)

// DefaultConfig returns a new Config with sensible default values.
// These defaults are used as the base layer that can be overridden by
// config files, environment variables, and CLI flags.
//
// Root is left empty; Load fills it with the working directory.
func DefaultConfig() *Config {
	return &Config{
		SitesDir:  constants.DefaultSitesDir,
		GlobalDir: constants.DefaultGlobalDir,
		Compose: ComposeConfig{
			Command: constants.DefaultComposeCommand(),
		},
		Network: NetworkConfig{
			Name:   constants.DefaultNetworkName,
			Driver: constants.DefaultNetworkDriver,
		},
		Database: DatabaseConfig{
			// The credentials match the global compose definition, which
			// only listens on loopback.
			Host:        constants.DefaultDatabaseHost,
			Port:        constants.DefaultDatabasePort,
			User:        constants.DefaultDatabaseUser,
			Password:    constants.DefaultDatabasePassword,
			Service:     constants.DefaultDatabaseService,
			ReadyMarker: constants.DefaultReadyMarker,
		},
		Readiness: ReadinessConfig{
			Interval: constants.DefaultReadinessInterval,
			Timeout:  constants.DefaultReadinessTimeout,
		},
		Lock: LockConfig{
			Timeout: constants.DefaultLockTimeout,
		},
		UI: UIConfig{
			Forms: false,
		},
	}
}

// setDefaults configures all default values on the Viper instance.
// These defaults match the values from DefaultConfig().
// IMPORTANT: Keys must match the YAML tag names exactly for proper mapping.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("root", "")
	v.SetDefault("sites_dir", d.SitesDir)
	v.SetDefault("global_dir", d.GlobalDir)

	v.SetDefault("compose.command", d.Compose.Command)

	v.SetDefault("network.name", d.Network.Name)
	v.SetDefault("network.driver", d.Network.Driver)

	v.SetDefault("database.host", d.Database.Host)
	v.SetDefault("database.port", d.Database.Port)
	v.SetDefault("database.user", d.Database.User)
	v.SetDefault("database.password", d.Database.Password)
	v.SetDefault("database.service", d.Database.Service)
	v.SetDefault("database.ready_marker", d.Database.ReadyMarker)

	v.SetDefault("readiness.interval", d.Readiness.Interval.String())
	v.SetDefault("readiness.timeout", d.Readiness.Timeout.String())

	v.SetDefault("lock.timeout", d.Lock.Timeout.String())

	v.SetDefault("ui.forms", d.UI.Forms)
}
