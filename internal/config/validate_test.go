package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sberrors "github.com/mrz1836/sitebox/internal/errors"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Root = "/srv/www"
	return cfg
}

func TestValidate_NilConfig(t *testing.T) {
	t.Parallel()

	err := Validate(nil)

	require.ErrorIs(t, err, sberrors.ErrConfigNil)
}

func TestValidate_DefaultConfigWithRoot(t *testing.T) {
	t.Parallel()

	require.NoError(t, Validate(validConfig()))
}

func TestValidate_EmptyPasswordAllowed(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Database.Password = ""

	require.NoError(t, Validate(cfg))
}

func TestValidate_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"empty root", func(c *Config) { c.Root = "" }, "root must not be empty"},
		{"empty sites dir", func(c *Config) { c.SitesDir = " " }, "sites_dir must not be empty"},
		{"empty global dir", func(c *Config) { c.GlobalDir = "" }, "global_dir must not be empty"},
		{"no compose command", func(c *Config) { c.Compose.Command = nil }, "compose.command"},
		{"blank compose binary", func(c *Config) { c.Compose.Command = []string{""} }, "compose.command"},
		{"empty network", func(c *Config) { c.Network.Name = "" }, "network.name"},
		{"empty driver", func(c *Config) { c.Network.Driver = "" }, "network.driver"},
		{"empty host", func(c *Config) { c.Database.Host = "" }, "database.host"},
		{"port zero", func(c *Config) { c.Database.Port = 0 }, "database.port"},
		{"port too high", func(c *Config) { c.Database.Port = 70000 }, "database.port"},
		{"empty user", func(c *Config) { c.Database.User = "" }, "database.user"},
		{"empty service", func(c *Config) { c.Database.Service = "" }, "database.service"},
		{"empty marker", func(c *Config) { c.Database.ReadyMarker = "" }, "database.ready_marker"},
		{"zero interval", func(c *Config) { c.Readiness.Interval = 0 }, "readiness.interval"},
		{"negative timeout", func(c *Config) { c.Readiness.Timeout = -time.Second }, "readiness.timeout"},
		{"interval exceeds timeout", func(c *Config) {
			c.Readiness.Interval = time.Minute
			c.Readiness.Timeout = time.Second
		}, "must not exceed"},
		{"zero lock timeout", func(c *Config) { c.Lock.Timeout = 0 }, "lock.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.ErrorIs(t, err, sberrors.ErrConfigInvalid)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate_BoundaryValues(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Database.Port = 65535
	cfg.Readiness.Interval = time.Second
	cfg.Readiness.Timeout = time.Second

	require.NoError(t, Validate(cfg))
}
