package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/agent-issues/internal/issue"
)

// ReadyCmd returns the ready command.
func ReadyCmd(app *App) *Command {
	fs := flag.NewFlagSet("ready", flag.ContinueOnError)
	fs.Int("limit", 0, "Maximum issues to show (0 = no limit)")
	addOutputFlags(fs)

	return &Command{
		Flags: fs,
		Usage: "ready [flags]",
		Short: "List actionable issues (not closed, no open blockers)",
		Long: `List issues that can be worked on now.

An issue is ready if it is not closed and none of its blockers is open or
in progress. Blockers that no longer exist do not count.

Output sorted by priority (critical first), then by ID.

Examples:
  issues ready                 # List all ready issues
  issues ready --limit 1       # Show only the top issue
  issues ready --json          # Output as JSON array`,
		Exec: func(_ context.Context, io *IO, _ []string) error {
			mode, err := outputModeFrom(fs)
			if err != nil {
				return err
			}

			s, err := app.openStore(io)
			if err != nil {
				return err
			}

			all, err := s.LoadAllIssues()
			if err != nil {
				return err
			}

			ready := issue.Ready(all)

			if limit, _ := fs.GetInt("limit"); limit > 0 && len(ready) > limit {
				ready = ready[:limit]
			}

			return printIssueList(io, mode, ready)
		},
	}
}
