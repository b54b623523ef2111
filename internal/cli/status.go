package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/agent-issues/internal/issue"
)

// transition moves an issue to a status. check rejects issues that are
// already where the transition would take them.
type transition struct {
	name   string
	short  string
	target issue.Status
	check  func(issue.Issue) error
	done   string
}

// StartCmd returns the start command.
func StartCmd(app *App) *Command {
	return transitionCmd(app, transition{
		name:   "start",
		short:  "Set status to in-progress",
		target: issue.StatusInProgress,
		check: func(i issue.Issue) error {
			if i.Status == issue.StatusInProgress {
				return fmt.Errorf("%w: #%d", ErrAlreadyInProgress, i.ID)
			}

			return nil
		},
		done: "Started",
	})
}

// CloseCmd returns the close command.
func CloseCmd(app *App) *Command {
	return transitionCmd(app, transition{
		name:   "close",
		short:  "Set status to closed",
		target: issue.StatusClosed,
		check: func(i issue.Issue) error {
			if i.Status == issue.StatusClosed {
				return fmt.Errorf("%w: #%d", ErrAlreadyClosed, i.ID)
			}

			return nil
		},
		done: "Closed",
	})
}

// ReopenCmd returns the reopen command.
func ReopenCmd(app *App) *Command {
	return transitionCmd(app, transition{
		name:   "reopen",
		short:  "Set status back to open",
		target: issue.StatusOpen,
		check: func(i issue.Issue) error {
			if i.Status != issue.StatusClosed {
				return fmt.Errorf("%w: #%d", ErrNotClosed, i.ID)
			}

			return nil
		},
		done: "Reopened",
	})
}

func transitionCmd(app *App, tr transition) *Command {
	return &Command{
		Flags: flag.NewFlagSet(tr.name, flag.ContinueOnError),
		Usage: tr.name + " <id>",
		Short: tr.short,
		Exec: func(_ context.Context, io *IO, args []string) error {
			if len(args) == 0 {
				return ErrIDRequired
			}

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := app.openStore(io)
			if err != nil {
				return err
			}

			current, err := requireIssue(s, id)
			if err != nil {
				return err
			}

			checkErr := tr.check(current)
			if checkErr != nil {
				return checkErr
			}

			_, err = mustUpdate(s, id, func(i issue.Issue) issue.Issue {
				i.Status = tr.target

				return i
			})
			if err != nil {
				return err
			}

			io.Println(tr.done, io.Theme().ID(id))

			return nil
		},
	}
}
