// Package compose drives the compose tool for environments and for the
// shared global stack.
package compose

import (
	"context"
	"os"
	"os/exec"
)

// CommandRunner defines the interface for executing external commands.
type CommandRunner interface {
	// Run executes name in dir with stdout and stderr inherited.
	Run(ctx context.Context, dir, name string, args ...string) error

	// RunOutput executes name in dir and returns its combined output.
	RunOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner is a concrete implementation of CommandRunner using os/exec.
// The child is killed when ctx is canceled.
type ExecRunner struct{}

// Run implements CommandRunner.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //#nosec G204 -- compose command comes from sitebox config
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// RunOutput implements CommandRunner.
func (ExecRunner) RunOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //#nosec G204 -- compose command comes from sitebox config
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

var _ CommandRunner = ExecRunner{}
