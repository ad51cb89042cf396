// Package environment discovers the environments living under the site root
// and resolves user-supplied names to them.
package environment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/sitebox/internal/ctxutil"
	"github.com/mrz1836/sitebox/internal/domain"
	sberrors "github.com/mrz1836/sitebox/internal/errors"
	"github.com/mrz1836/sitebox/internal/slug"
)

// Registry resolves and lists environments. It holds no state besides the
// site root; every call reads the filesystem again.
type Registry struct {
	sitesPath string
	logger    zerolog.Logger
}

// NewRegistry creates a Registry rooted at sitesPath.
func NewRegistry(sitesPath string, logger zerolog.Logger) *Registry {
	return &Registry{
		sitesPath: sitesPath,
		logger:    logger.With().Str("component", "registry").Logger(),
	}
}

// SitesPath returns the directory the registry reads.
func (r *Registry) SitesPath() string {
	return r.sitesPath
}

// Resolve slugifies nameOrSlug and returns the environment whose directory
// matches it. An empty name (or one that slugifies to nothing) returns
// ErrUsage; a missing directory returns ErrEnvironmentNotFound.
func (r *Registry) Resolve(ctx context.Context, nameOrSlug string) (domain.Environment, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return domain.Environment{}, err
	}

	name := strings.TrimSpace(nameOrSlug)
	s := slug.Make(name)
	if s == "" {
		return domain.Environment{}, sberrors.Wrap(sberrors.ErrUsage, "environment name is required")
	}

	path := filepath.Join(r.sitesPath, s)
	r.logger.Info().Str("environment", name).Str("slug", s).Msgf("Locating project files for %s", name)

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		r.logger.Debug().Err(err).Str("dir", path).Msg("environment directory missing")
		return domain.Environment{}, fmt.Errorf("cannot find %s site at %s: %w", name, path, sberrors.ErrEnvironmentNotFound)
	}

	return domain.Environment{Name: name, Slug: s, Path: path}, nil
}

// List returns every directory directly below the site root in directory
// listing order. Entry names are used as slugs unchanged. Files and symlinks
// are skipped. A missing site root yields an empty list.
func (r *Registry) List(ctx context.Context) ([]domain.Environment, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(r.sitesPath)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.Debug().Str("dir", r.sitesPath).Msg("site root missing, no environments")
			return []domain.Environment{}, nil
		}
		return nil, fmt.Errorf("failed to list environments in %s: %w", r.sitesPath, err)
	}

	envs := make([]domain.Environment, 0, len(entries))
	for _, entry := range entries {
		// DirEntry.Type comes from lstat, so a symlink to a directory is not a dir here.
		if !entry.IsDir() {
			continue
		}
		envs = append(envs, domain.Environment{
			Name: entry.Name(),
			Slug: entry.Name(),
			Path: filepath.Join(r.sitesPath, entry.Name()),
		})
	}
	return envs, nil
}
