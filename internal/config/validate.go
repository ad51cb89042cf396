package config

import (
	"strings"

	"github.com/mrz1836/sitebox/internal/errors"
)

// maxPort is the highest valid TCP port.
const maxPort = 65535

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - root, sites_dir and global_dir must not be empty
//   - compose.command must name a binary
//   - network name and driver must not be empty
//   - database host, user, service and ready marker must not be empty
//   - database port must be within 1-65535
//   - readiness interval and timeout must be positive, interval <= timeout
//   - lock timeout must be positive
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validatePaths(cfg); err != nil {
		return err
	}

	if len(cfg.Compose.Command) == 0 || strings.TrimSpace(cfg.Compose.Command[0]) == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "compose.command must not be empty")
	}

	if err := validateNetworkConfig(&cfg.Network); err != nil {
		return err
	}

	if err := validateDatabaseConfig(&cfg.Database); err != nil {
		return err
	}

	if err := validateReadinessConfig(&cfg.Readiness); err != nil {
		return err
	}

	if cfg.Lock.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"lock.timeout must be positive, got %s", cfg.Lock.Timeout)
	}

	return nil
}

func validatePaths(cfg *Config) error {
	required := []struct {
		key   string
		value string
	}{
		{"root", cfg.Root},
		{"sites_dir", cfg.SitesDir},
		{"global_dir", cfg.GlobalDir},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errors.Wrapf(errors.ErrConfigInvalid, "%s must not be empty", r.key)
		}
	}
	return nil
}

// validateNetworkConfig checks shared network settings.
func validateNetworkConfig(cfg *NetworkConfig) error {
	if cfg.Name == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "network.name must not be empty")
	}
	if cfg.Driver == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "network.driver must not be empty")
	}
	return nil
}

// validateDatabaseConfig checks shared database settings. An empty password
// is allowed.
func validateDatabaseConfig(cfg *DatabaseConfig) error {
	if cfg.Host == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "database.host must not be empty")
	}
	if cfg.Port < 1 || cfg.Port > maxPort {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"database.port must be between 1 and %d, got %d", maxPort, cfg.Port)
	}
	if cfg.User == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "database.user must not be empty")
	}
	if cfg.Service == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "database.service must not be empty")
	}
	if cfg.ReadyMarker == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "database.ready_marker must not be empty")
	}
	return nil
}

// validateReadinessConfig checks the readiness polling bounds.
func validateReadinessConfig(cfg *ReadinessConfig) error {
	if cfg.Interval <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"readiness.interval must be positive, got %s", cfg.Interval)
	}
	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"readiness.timeout must be positive, got %s", cfg.Timeout)
	}
	if cfg.Interval > cfg.Timeout {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"readiness.interval (%s) must not exceed readiness.timeout (%s)", cfg.Interval, cfg.Timeout)
	}
	return nil
}
