package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// TTYOutput writes styled text for humans.
type TTYOutput struct {
	w      io.Writer
	styles *OutputStyles
}

// NewTTYOutput creates a TTYOutput. It respects NO_COLOR.
func NewTTYOutput(w io.Writer) *TTYOutput {
	CheckNoColor()

	return &TTYOutput{
		w:      w,
		styles: NewOutputStyles(),
	}
}

// Success prints "✓ msg" in green.
func (o *TTYOutput) Success(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Success.Render("✓ "+msg))
}

// Error prints "✗ message" in red followed by a dim "▸ Try:" line when the
// error carries a suggestion.
func (o *TTYOutput) Error(err error) {
	var ae *ActionableError
	if !errors.As(err, &ae) {
		ae = FromError(err)
	}
	_, _ = fmt.Fprintln(o.w, o.styles.Error.Render("✗ "+ae.Error()))
	if ae.Suggestion != "" {
		_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  ▸ Try: "+ae.Suggestion))
	}
}

// Warning prints "⚠ msg" in yellow.
func (o *TTYOutput) Warning(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Warning.Render("⚠ "+msg))
}

// Info prints msg in blue.
func (o *TTYOutput) Info(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Info.Render(msg))
}

// Table renders t as aligned columns.
func (o *TTYOutput) Table(t *Table) error {
	t.w = o.w
	return t.Render()
}

// JSON writes v as indented JSON. Text mode uses it for config show.
func (o *TTYOutput) JSON(v any) error {
	encoder := json.NewEncoder(o.w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// IsJSON is false for text output.
func (o *TTYOutput) IsJSON() bool { return false }
