// Package testutil provides shared fixtures for sitebox tests.
//
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors simulating failures of the external systems sitebox drives.
var (
	// ErrMockDaemonUnreachable simulates a container engine that does not answer.
	ErrMockDaemonUnreachable = errors.New("daemon unreachable")

	// ErrMockNetworkInUse simulates removing a network with attached containers.
	ErrMockNetworkInUse = errors.New("network has active endpoints")

	// ErrMockComposeExit simulates a compose invocation exiting non-zero.
	ErrMockComposeExit = errors.New("exit status 1")

	// ErrMockConnectionRefused simulates a database that is not listening.
	ErrMockConnectionRefused = errors.New("connection refused")

	// ErrMockAccessDenied simulates a database rejecting a statement.
	ErrMockAccessDenied = errors.New("access denied")

	// ErrMockPermissionDenied simulates a filesystem permission failure.
	ErrMockPermissionDenied = errors.New("permission denied")

	// ErrMockTTYGone simulates a terminal closing under a prompt.
	ErrMockTTYGone = errors.New("tty gone")
)
