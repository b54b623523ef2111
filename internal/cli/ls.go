package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/agent-issues/internal/issue"
	"github.com/calvinalkan/agent-issues/internal/store"
)

// LsCmd returns the ls command.
func LsCmd(app *App) *Command {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.String("status", "", "Filter by status (open|in-progress|closed)")
	fs.Bool("all", false, "Include closed issues")
	fs.String("label", "", "Filter by label")
	fs.String("assignee", "", "Filter by assignee")
	fs.String("project", "", "Filter by project")
	fs.Bool("blocked", false, "Show only issues with blockers")
	fs.BoolP("watch", "w", false, "Re-list whenever an issue file changes")
	addOutputFlags(fs)

	return &Command{
		Flags:   fs,
		Usage:   "ls [flags]",
		Aliases: []string{"list"},
		Examples: []string{
			"ls --label bug --assignee ada",
			"ls --status closed --json",
			"ls --blocked --watch",
		},
		Short: "List issues",
		Long: `List issues sorted by ID. Closed issues are hidden unless --all or
--status is given.

With --watch the list is printed again after every change to the issues
directory until interrupted.`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			return execLs(ctx, io, app, fs)
		},
	}
}

func execLs(ctx context.Context, io *IO, app *App, fs *flag.FlagSet) error {
	mode, err := outputModeFrom(fs)
	if err != nil {
		return err
	}

	filter, err := filterFromFlags(fs)
	if err != nil {
		return err
	}

	s, err := app.openStore(io)
	if err != nil {
		return err
	}

	if watch, _ := fs.GetBool("watch"); watch {
		if mode != outputText {
			return ErrWatchNeedsTextMode
		}

		return watchIssues(ctx, io, app, s, func() error {
			return listOnce(io, mode, s, filter)
		})
	}

	return listOnce(io, mode, s, filter)
}

func listOnce(io *IO, mode outputMode, s *store.Store, filter store.Filter) error {
	issues, err := s.ListIssues(filter)
	if err != nil {
		return err
	}

	return printIssueList(io, mode, issues)
}

func filterFromFlags(fs *flag.FlagSet) (store.Filter, error) {
	var filter store.Filter

	if raw, _ := fs.GetString("status"); fs.Changed("status") {
		status, ok := issue.ParseStatus(raw)
		if !ok {
			return store.Filter{}, fmt.Errorf("%w: %q", issue.ErrInvalidStatus, raw)
		}

		filter.Status = &status
	}

	filter.IncludeAll, _ = fs.GetBool("all")
	filter.BlockedOnly, _ = fs.GetBool("blocked")
	filter.Label, _ = fs.GetString("label")
	filter.Assignee, _ = fs.GetString("assignee")
	filter.Project, _ = fs.GetString("project")

	return filter, nil
}
