package doctor

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	sberrors "github.com/mrz1836/sitebox/internal/errors"
	"github.com/mrz1836/sitebox/internal/network"
)

// versionRe extracts "2.29.1" from "Docker Compose version v2.29.1".
//
//nolint:gochecknoglobals // compiled once
var versionRe = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?)`)

// ParseVersion returns the first dotted version number in output, or "".
func ParseVersion(output string) string {
	if m := versionRe.FindStringSubmatch(output); len(m) >= 2 {
		return m[1]
	}
	return ""
}

// OutputRunner runs a command and returns its combined output.
type OutputRunner interface {
	RunOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// NetworkLookup finds the shared network.
type NetworkLookup interface {
	Name() string
	Lookup(ctx context.Context) (*network.Info, error)
}

// Pinger checks that a server answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ComposeProbe runs "<command> version".
func ComposeProbe(runner OutputRunner, command []string) Probe {
	label := strings.Join(command, " ")
	return Probe{
		Name:     "compose",
		Required: true,
		Hint:     "Install Docker with the compose plugin, or set compose.command for the legacy docker-compose binary.",
		Run: func(ctx context.Context) (string, error) {
			if len(command) == 0 {
				return "", sberrors.Wrap(sberrors.ErrEmptyValue, "compose command")
			}
			args := append(append([]string(nil), command[1:]...), "version")
			out, err := runner.RunOutput(ctx, "", command[0], args...)
			if err != nil {
				return "", fmt.Errorf("%s version: %w", label, err)
			}
			if v := ParseVersion(string(out)); v != "" {
				return label + " " + v, nil
			}
			return label + " (unknown version)", nil
		},
	}
}

// DockerProbe lists networks through the Engine API. A missing shared network
// is not a failure; it is created by 'sitebox global start'.
func DockerProbe(lookup func() (NetworkLookup, error)) Probe {
	return Probe{
		Name:     "docker",
		Required: true,
		Hint:     "Start the Docker daemon and check DOCKER_HOST.",
		Run: func(ctx context.Context) (string, error) {
			l, err := lookup()
			if err != nil {
				return "", err
			}
			info, err := l.Lookup(ctx)
			if err != nil {
				return "", err
			}
			if info == nil {
				return fmt.Sprintf("daemon reachable, network %s absent", l.Name()), nil
			}
			return fmt.Sprintf("daemon reachable, network %s present", l.Name()), nil
		},
	}
}

// DirectoryProbe checks that dir exists and is a directory.
func DirectoryProbe(name, dir string, required bool, hint string) Probe {
	return Probe{
		Name:     name,
		Required: required,
		Hint:     hint,
		Run: func(context.Context) (string, error) {
			info, err := os.Stat(dir)
			if err != nil {
				return "", err
			}
			if !info.IsDir() {
				return "", fmt.Errorf("%s is not a directory", dir)
			}
			return dir, nil
		},
	}
}

// DatabaseProbe pings the shared database. It is optional because the
// database only runs while the global services are up.
func DatabaseProbe(p Pinger, addr string) Probe {
	return Probe{
		Name:     "database",
		Required: false,
		Hint:     "Run 'sitebox global start' to bring the shared database up.",
		Run: func(ctx context.Context) (string, error) {
			if err := p.Ping(ctx); err != nil {
				return "", err
			}
			return addr, nil
		},
	}
}
