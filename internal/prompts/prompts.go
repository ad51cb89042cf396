// Package prompts asks the user yes/no questions, either on a plain line
// prompt or through a huh confirm form.
package prompts

import (
	"context"
	"fmt"
)

// Request is an ephemeral yes/no question. It is never persisted.
type Request struct {
	// Question is shown to the user.
	Question string

	// Description adds context below the question in form mode.
	Description string

	// Default is the answer used for empty input.
	Default bool
}

// DeleteRequest builds the confirmation shown before an environment is deleted.
func DeleteRequest(env string) Request {
	return Request{
		Question:    fmt.Sprintf("Are you sure you want to delete the %s environment?", env),
		Description: "Containers are stopped, files are removed and the database is dropped. This cannot be undone.",
		Default:     false,
	}
}

// Confirmer asks a yes/no question. Cancellation is reported as an error
// wrapping ErrOperationCanceled.
type Confirmer interface {
	Confirm(ctx context.Context, req Request) (bool, error)
}
