// Package ui styles CLI text output. Styling is decided once per output
// stream: a Theme either renders ANSI colors or returns text unchanged.
package ui

import (
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/calvinalkan/agent-issues/internal/issue"
)

// Adaptive palette for light and dark terminals.
var (
	colorOpen = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
	colorBusy = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	colorDone = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	colorHot  = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	colorMute = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
)

// Theme renders styled fragments for one writer.
type Theme struct {
	enabled bool

	status   map[issue.Status]lipgloss.Style
	priority map[issue.Priority]lipgloss.Style
	id       lipgloss.Style
	heading  lipgloss.Style
	muted    lipgloss.Style
	warn     lipgloss.Style
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w any) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}

// ColorEnabled applies a color mode (auto, always, never). Auto colors only
// terminals and honors NO_COLOR.
func ColorEnabled(mode string, isTTY bool, env map[string]string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return isTTY && env["NO_COLOR"] == ""
	}
}

// NewTheme returns a Theme writing to w. With enabled false every method
// returns its input unchanged.
func NewTheme(w io.Writer, enabled bool) *Theme {
	renderer := lipgloss.NewRenderer(w)
	if enabled {
		renderer.SetColorProfile(termenv.ANSI256)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}

	fg := func(c lipgloss.TerminalColor) lipgloss.Style {
		return renderer.NewStyle().Foreground(c)
	}

	return &Theme{
		enabled: enabled,
		status: map[issue.Status]lipgloss.Style{
			issue.StatusOpen:       fg(colorOpen),
			issue.StatusInProgress: fg(colorBusy),
			issue.StatusClosed:     fg(colorDone),
		},
		priority: map[issue.Priority]lipgloss.Style{
			issue.PriorityLow:      fg(colorMute),
			issue.PriorityMedium:   renderer.NewStyle(),
			issue.PriorityHigh:     fg(colorBusy),
			issue.PriorityCritical: fg(colorHot).Bold(true),
		},
		id:      fg(colorOpen).Bold(true),
		heading: renderer.NewStyle().Bold(true),
		muted:   fg(colorMute),
		warn:    fg(colorBusy),
	}
}

// Enabled reports whether the theme emits escape codes.
func (t *Theme) Enabled() bool {
	return t.enabled
}

func (t *Theme) render(style lipgloss.Style, s string) string {
	if !t.enabled {
		return s
	}

	return style.Render(s)
}

// ID renders "#<id>".
func (t *Theme) ID(id int) string {
	return t.render(t.id, "#"+strconv.Itoa(id))
}

// Status renders the status token.
func (t *Theme) Status(s issue.Status) string {
	return t.render(t.status[s], s.String())
}

// Priority renders the priority token.
func (t *Theme) Priority(p issue.Priority) string {
	return t.render(t.priority[p], p.String())
}

// Heading renders a bold title or section name.
func (t *Theme) Heading(s string) string {
	return t.render(t.heading, s)
}

// Muted renders secondary text.
func (t *Theme) Muted(s string) string {
	return t.render(t.muted, s)
}

// Warn renders a warning prefix.
func (t *Theme) Warn(s string) string {
	return t.render(t.warn, s)
}
