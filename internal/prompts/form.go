package prompts

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	sberrors "github.com/mrz1836/sitebox/internal/errors"
)

// FormConfirmer renders the question as a huh confirm form.
type FormConfirmer struct {
	accessible bool
}

// NewFormConfirmer creates a FormConfirmer. Accessible mode replaces the
// TUI with plain prompts for screen readers.
func NewFormConfirmer(accessible bool) *FormConfirmer {
	return &FormConfirmer{accessible: accessible}
}

// Confirm implements Confirmer. Aborting the form (ctrl+c, esc) returns
// ErrOperationCanceled.
func (c *FormConfirmer) Confirm(ctx context.Context, req Request) (bool, error) {
	confirm := req.Default

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(req.Question).
				Description(req.Description).
				Affirmative("Yes").
				Negative("No").
				Value(&confirm),
		),
	).WithAccessible(c.accessible)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
			return false, fmt.Errorf("%w: %w", sberrors.ErrOperationCanceled, err)
		}
		return false, fmt.Errorf("confirmation form: %w", err)
	}
	return confirm, nil
}

var _ Confirmer = (*FormConfirmer)(nil)
