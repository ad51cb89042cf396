package tui

import (
	sberrors "github.com/mrz1836/sitebox/internal/errors"
)

// ActionableError pairs a user-facing message with a suggested next step.
//
//	err := NewActionableError("environment not found", "Run 'sitebox list'.")
//	output.Error(err)
//	// ✗ environment not found
//	//   ▸ Try: Run 'sitebox list'.
type ActionableError struct {
	// Message is the primary error message.
	Message string

	// Suggestion should start with a verb.
	Suggestion string

	// Context is appended to the message in parentheses when set.
	Context string
}

// NewActionableError creates an ActionableError.
func NewActionableError(msg, suggestion string) *ActionableError {
	return &ActionableError{
		Message:    msg,
		Suggestion: suggestion,
	}
}

// FromError builds an ActionableError from the sentinel table in
// internal/errors. Unknown errors keep their own text and get no suggestion.
func FromError(err error) *ActionableError {
	if err == nil {
		return &ActionableError{}
	}
	msg, action := sberrors.Actionable(err)
	ae := NewActionableError(msg, action)
	if msg != err.Error() {
		ae.Context = err.Error()
	}
	return ae
}

// Error returns the message with its context, e.g. "environment not found (x)".
func (e *ActionableError) Error() string {
	if e.Context != "" {
		return e.Message + " (" + e.Context + ")"
	}
	return e.Message
}

// WithContext sets the context and returns e for chaining.
func (e *ActionableError) WithContext(ctx string) *ActionableError {
	e.Context = ctx
	return e
}
