// Package network manages the container network shared by every environment
// through the Docker Engine API.
package network

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/rs/zerolog"

	"github.com/mrz1836/sitebox/internal/ctxutil"
	sberrors "github.com/mrz1836/sitebox/internal/errors"
)

// DockerClient defines the subset of Docker SDK methods used by this package.
// This interface enables mocking the Docker client in tests.
type DockerClient interface {
	NetworkList(ctx context.Context, options network.ListOptions) ([]network.Summary, error)
	NetworkCreate(ctx context.Context, name string, options network.CreateOptions) (network.CreateResponse, error)
	NetworkRemove(ctx context.Context, networkID string) error
}

// NewDockerClient builds an Engine API client from DOCKER_HOST and friends
// with API version negotiation enabled.
func NewDockerClient() (*client.Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w: %w", sberrors.ErrNetworkOperation, err)
	}
	return cli, nil
}

// Info describes an existing network.
type Info struct {
	Name   string `json:"name"`
	ID     string `json:"id"`
	Driver string `json:"driver"`
}

// Manager looks up, creates and removes one named network.
type Manager struct {
	client DockerClient
	name   string
	driver string
	logger zerolog.Logger
}

// NewManager creates a Manager for the network called name.
func NewManager(cli DockerClient, name, driver string, logger zerolog.Logger) *Manager {
	return &Manager{
		client: cli,
		name:   name,
		driver: driver,
		logger: logger.With().Str("component", "network").Str("network", name).Logger(),
	}
}

// Name returns the managed network name.
func (m *Manager) Name() string {
	return m.name
}

// Lookup returns the network, or nil when it does not exist. The name
// filter of the Engine API matches substrings, so results are checked for
// an exact match.
func (m *Manager) Lookup(ctx context.Context) (*Info, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if m.client == nil {
		return nil, sberrors.ErrDockerClientNil
	}

	nets, err := m.client.NetworkList(ctx, network.ListOptions{
		Filters: filters.NewArgs(filters.Arg("name", m.name)),
	})
	if err != nil {
		return nil, fmt.Errorf("list networks: %w: %w", sberrors.ErrNetworkOperation, err)
	}

	for _, n := range nets {
		if n.Name == m.name {
			return &Info{Name: n.Name, ID: n.ID, Driver: n.Driver}, nil
		}
	}
	return nil, nil //nolint:nilnil // absence is not an error
}

// Ensure creates the network unless it already exists. It reports whether a
// create call was made.
func (m *Manager) Ensure(ctx context.Context) (bool, error) {
	m.logger.Info().Msg("Ensuring global network exists")

	existing, err := m.Lookup(ctx)
	if err != nil {
		return false, err
	}
	if existing != nil {
		m.logger.Debug().Str("id", existing.ID).Msg("network already exists")
		return false, nil
	}

	resp, err := m.client.NetworkCreate(ctx, m.name, network.CreateOptions{Driver: m.driver})
	if err != nil {
		return false, fmt.Errorf("create network %s: %w: %w", m.name, sberrors.ErrNetworkOperation, err)
	}
	if resp.Warning != "" {
		m.logger.Warn().Str("warning", resp.Warning).Msg("network created with warning")
	}
	m.logger.Info().Str("id", resp.ID).Str("driver", m.driver).Msg("network created")
	return true, nil
}

// Remove deletes the network if it exists. It reports whether a remove call
// was made.
func (m *Manager) Remove(ctx context.Context) (bool, error) {
	existing, err := m.Lookup(ctx)
	if err != nil {
		return false, err
	}
	if existing == nil {
		m.logger.Debug().Msg("network already absent")
		return false, nil
	}

	if err := m.client.NetworkRemove(ctx, existing.ID); err != nil {
		return false, fmt.Errorf("remove network %s: %w: %w", m.name, sberrors.ErrNetworkOperation, err)
	}
	m.logger.Info().Msg("network removed")
	return true, nil
}
