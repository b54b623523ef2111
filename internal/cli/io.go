package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/calvinalkan/agent-issues/internal/ui"
)

// IO handles command output with warning visibility for agents and pipes.
type IO struct {
	out      io.Writer
	errOut   io.Writer
	theme    *ui.Theme
	warnings []string
	started  bool
}

// NewIO creates a new IO instance.
func NewIO(out, errOut io.Writer, theme *ui.Theme) *IO {
	if theme == nil {
		theme = ui.NewTheme(out, false)
	}

	return &IO{out: out, errOut: errOut, theme: theme}
}

// Theme returns the styling for stdout.
func (o *IO) Theme() *ui.Theme {
	return o.theme
}

// Stderr returns an IO whose standard output is this IO's stderr. Used to
// print help after a usage error.
func (o *IO) Stderr() *IO {
	return &IO{out: o.errOut, errOut: o.errOut, theme: ui.NewTheme(o.errOut, false)}
}

// Warn adds an actionable warning.
//
// Parameters:
//   - issue: what went wrong
//   - action: what the reader should do about it
//
// Warnings are printed to stderr at both the START and END of output,
// ensuring visibility regardless of truncation or piping (head/tail).
// Any warnings cause exit code 1 to signal attention is needed.
// The same warning is recorded once.
func (o *IO) Warn(issue string, action string) {
	msg := fmt.Sprintf("%s: %s", issue, action)
	if slices.Contains(o.warnings, msg) {
		return
	}

	o.warnings = append(o.warnings, msg)
}

// Println writes to stdout. On first call, any collected warnings
// are printed to stderr first.
func (o *IO) Println(a ...any) {
	o.flushWarningsStart()
	_, _ = fmt.Fprintln(o.out, a...)
}

// Printf writes formatted output to stdout. On first call, any collected
// warnings are printed to stderr first.
func (o *IO) Printf(format string, a ...any) {
	o.flushWarningsStart()
	_, _ = fmt.Fprintf(o.out, format, a...)
}

// ErrPrintln writes to stderr.
func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// Finish prints warnings to stderr and returns exit code.
// Returns 1 if any warnings, 0 otherwise.
func (o *IO) Finish() int {
	// If no output happened but we have warnings, print them at "start" position
	o.flushWarningsStart()

	// Always print at end
	for _, w := range o.warnings {
		_, _ = fmt.Fprintln(o.errOut, "warning:", w)
	}

	if len(o.warnings) > 0 {
		return 1
	}

	return 0
}

func (o *IO) flushWarningsStart() {
	if !o.started && len(o.warnings) > 0 {
		for _, w := range o.warnings {
			_, _ = fmt.Fprintln(o.errOut, "warning:", w)
		}

		o.started = true
	}
}
