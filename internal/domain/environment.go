// Package domain provides shared domain types for sitebox.
package domain

// Environment is one local development stack discovered under the site
// root. It is recomputed from disk on every invocation and never persisted.
//
// Example JSON representation:
//
//	{
//	    "name": "docker.test",
//	    "slug": "docker-test",
//	    "path": "/home/user/www/sites/docker-test"
//	}
type Environment struct {
	// Name is the identifier as typed by the user. For listed environments
	// it equals Slug.
	Name string `json:"name"`

	// Slug is the canonical identifier. It doubles as the directory name
	// and the database schema name.
	Slug string `json:"slug"`

	// Path is the environment directory: <root>/<sites_dir>/<slug>.
	Path string `json:"path"`
}

// String returns the slug, which is how environments are named in logs.
func (e Environment) String() string {
	return e.Slug
}
