// Package consoleui renders plan summaries, work-unit progress bars, and
// table-processing status lines for the schemadoc CLI. Styling follows
// cmd/bd-examples/main.go's own lipgloss palette; color degrades
// gracefully when stdout is not a terminal or NO_COLOR is set, the same
// termenv-driven check the teacher's terminal output relies on.
package consoleui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// colorEnabled reports whether the current stdout supports color output at
// all (a non-TTY or NO_COLOR degrades to plain text).
func colorEnabled() bool {
	return termenv.EnvColorProfile() != termenv.Ascii
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"})
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"})
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"})
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"})
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"})
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

// render applies style to s, unless color is disabled, in which case s is
// returned unmodified.
func render(style lipgloss.Style, s string) string {
	if !colorEnabled() {
		return s
	}
	return style.Render(s)
}

// Success renders s in the success color.
func Success(s string) string { return render(successStyle, s) }

// Warn renders s in the warning color.
func Warn(s string) string { return render(warnStyle, s) }

// Fail renders s in the failure color.
func Fail(s string) string { return render(failStyle, s) }

// Muted renders s in a dim, secondary color.
func Muted(s string) string { return render(mutedStyle, s) }

// Accent renders s in the accent color.
func Accent(s string) string { return render(accentStyle, s) }

// Bold renders s in bold.
func Bold(s string) string { return render(boldStyle, s) }

// isatty is the narrow TTY check status lines use to decide whether to
// redraw a progress bar in place or print successive lines.
func isatty() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
