package domain

import (
	"fmt"

	sberrors "github.com/mrz1836/sitebox/internal/errors"
)

// Action is a lifecycle verb applied to a compose stack.
type Action string

// Action values.
const (
	// ActionUp creates and starts containers in the background.
	ActionUp Action = "up"

	// ActionDown stops and removes containers.
	ActionDown Action = "down"

	// ActionRestart restarts running containers.
	ActionRestart Action = "restart"
)

// String returns the string representation of the Action.
func (a Action) String() string {
	return string(a)
}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionUp, ActionDown, ActionRestart:
		return true
	}
	return false
}

// Verb returns the progressive form used in progress messages.
func (a Action) Verb() string {
	switch a {
	case ActionUp:
		return "Starting"
	case ActionDown:
		return "Stopping"
	case ActionRestart:
		return "Restarting"
	}
	return string(a)
}

// ParseAction converts a command verb (start, stop, restart, or the action
// names themselves) into an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "start", string(ActionUp):
		return ActionUp, nil
	case "stop", string(ActionDown):
		return ActionDown, nil
	case string(ActionRestart):
		return ActionRestart, nil
	}
	return "", fmt.Errorf("unknown action %q: %w", s, sberrors.ErrInvalidAction)
}
