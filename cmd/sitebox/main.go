// Package main provides the entry point for the sitebox CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/sitebox/internal/cli"
	"github.com/mrz1836/sitebox/internal/signal"
)

// Set via -ldflags at build time.
var (
	version = "" //nolint:gochecknoglobals // set by ldflags
	commit  = "" //nolint:gochecknoglobals // set by ldflags
	date    = "" //nolint:gochecknoglobals // set by ldflags
)

func main() {
	os.Exit(run())
}

func run() int {
	h := signal.NewHandler(context.Background())
	defer h.Stop()

	err := cli.Execute(h.Context(), cli.BuildInfo{Version: version, Commit: commit, Date: date})
	if err != nil && h.WasInterrupted() {
		return signal.ExitCodeInterrupted
	}
	return cli.ExitCodeForError(err)
}
