package tui

import (
	"io"
	"strings"

	sberrors "github.com/mrz1836/sitebox/internal/errors"
)

// Output formats accepted by --output.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Output is the user-facing result channel of a command. Diagnostics go to
// the logger; Output carries what the user asked for.
type Output interface {
	// Success prints a success message.
	Success(msg string)
	// Error prints an error, with its suggested action when known.
	Error(err error)
	// Warning prints a warning message.
	Warning(msg string)
	// Info prints an informational message.
	Info(msg string)
	// Table prints a table; JSON mode emits it as an array of records.
	Table(t *Table) error
	// JSON writes v as a JSON document.
	JSON(v any) error
	// IsJSON reports whether structured output was requested.
	IsJSON() bool
}

// ParseFormat normalizes an --output value. Empty means text.
func ParseFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", sberrors.Wrapf(sberrors.ErrInvalidOutputFormat, "%q (use %s or %s)", format, FormatText, FormatJSON)
	}
}

// NewOutput creates the output for a parsed format.
func NewOutput(w io.Writer, format string) Output {
	if format == FormatJSON {
		return NewJSONOutput(w)
	}
	return NewTTYOutput(w)
}
