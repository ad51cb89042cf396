// Package ctxutil holds the cancellation checks run at the entry of every
// blocking sitebox operation.
package ctxutil

import (
	"context"
	"errors"
)

// Canceled returns ctx.Err(): nil while ctx is live, Canceled or
// DeadlineExceeded once it is done.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}

// IsCancellation reports whether err stems from a canceled or expired
// context rather than from the operation itself.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
