// Package tui provides terminal output components for sitebox.
//
// All colors use AdaptiveColor for light/dark terminal support. Call
// CheckNoColor before rendering to respect NO_COLOR and TERM=dumb.
package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

//nolint:gochecknoglobals // package-level styling API
var (
	// ColorPrimary is blue, used for informational lines and headers.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for completed operations.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for best-effort failures and skipped work.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for failed operations.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for paths and secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	// StyleBold applies bold formatting to text.
	StyleBold = lipgloss.NewStyle().Bold(true)

	// StyleDim applies faint formatting to text.
	StyleDim = lipgloss.NewStyle().Faint(true)
)

// Outcome labels shown in bulk reports.
const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// OutcomeIcon returns the icon paired with an outcome label. Icon, color and
// text are always shown together so reports survive NO_COLOR.
func OutcomeIcon(outcome string) string {
	switch outcome {
	case OutcomeOK:
		return "✓"
	case OutcomeFailed:
		return "✗"
	case OutcomeSkipped:
		return "○"
	default:
		return "?"
	}
}

// OutcomeColor returns the semantic color of an outcome label.
func OutcomeColor(outcome string) lipgloss.AdaptiveColor {
	switch outcome {
	case OutcomeOK:
		return ColorSuccess
	case OutcomeFailed:
		return ColorError
	case OutcomeSkipped:
		return ColorWarning
	default:
		return ColorMuted
	}
}

// RenderOutcome renders "<icon> <outcome>" in the outcome's color.
func RenderOutcome(outcome string) string {
	return RenderLabeled(outcome, outcome)
}

// RenderLabeled renders "<icon> <label>" in the outcome's color.
func RenderLabeled(outcome, label string) string {
	return lipgloss.NewStyle().Foreground(OutcomeColor(outcome)).Render(OutcomeIcon(outcome) + " " + label)
}

// TableStyles holds lipgloss styles for table rendering.
type TableStyles struct {
	Header lipgloss.Style
	Cell   lipgloss.Style
	Dim    lipgloss.Style
}

// NewTableStyles creates styles for table rendering.
func NewTableStyles() *TableStyles {
	return &TableStyles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}),
		Cell: lipgloss.NewStyle(),
		Dim:  lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

// OutputStyles holds common output styles.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
}

// NewOutputStyles creates common output styles.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Info:    lipgloss.NewStyle().Foreground(ColorPrimary),
		Dim:     lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

// CheckNoColor switches lipgloss to the ASCII profile when colors are off.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport returns false if NO_COLOR is set (any value, including
// empty) or TERM=dumb. See https://no-color.org/.
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// stripANSI removes CSI and OSC escape sequences so widths count only
// visible characters.
func stripANSI(s string) string {
	var result strings.Builder
	runes := []rune(s)
	i := 0
	for i < len(runes) {
		if runes[i] == '\x1b' && i+1 < len(runes) {
			switch runes[i+1] {
			case '[':
				i = skipCSISequence(runes, i)
				continue
			case ']':
				i = skipOSCSequence(runes, i)
				continue
			}
		}
		result.WriteRune(runes[i])
		i++
	}
	return result.String()
}

// skipCSISequence skips \x1b[...letter.
func skipCSISequence(runes []rune, i int) int {
	i += 2
	for i < len(runes) {
		c := runes[i]
		i++
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			break
		}
	}
	return i
}

// skipOSCSequence skips \x1b]...ST where ST is \x1b\\ or BEL.
func skipOSCSequence(runes []rune, i int) int {
	i += 2
	for i < len(runes) {
		c := runes[i]
		if c == '\x07' {
			return i + 1
		}
		if c == '\x1b' && i+1 < len(runes) && runes[i+1] == '\\' {
			return i + 2
		}
		i++
	}
	return i
}

// visibleWidth is the terminal cell width of s without escape sequences.
// East Asian wide characters count as two cells.
func visibleWidth(s string) int {
	return runewidth.StringWidth(stripANSI(s))
}

// padRight pads s with spaces up to width visible characters.
func padRight(s string, width int) string {
	n := visibleWidth(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
