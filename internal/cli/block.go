package cli

import (
	"context"
	"fmt"
	"slices"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/agent-issues/internal/store"
)

// BlockCmd returns the block command.
func BlockCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("block", flag.ContinueOnError),
		Usage: "block <id> <blocker>",
		Examples: []string{
			"block 4 2        # #4 waits for #2",
			"block '#4' '#2'",
		},
		Short: "Mark issue as blocked by another",
		Long:  "Add <blocker> to the blocked-by list of <id> and <id> to the blocks list of <blocker>.",
		Exec: func(_ context.Context, io *IO, args []string) error {
			s, id, blockerID, err := linkArgs(app, io, args)
			if err != nil {
				return err
			}

			current, err := requireIssue(s, id)
			if err != nil {
				return err
			}

			_, err = requireIssue(s, blockerID)
			if err != nil {
				return err
			}

			if slices.Contains(current.BlockedBy, blockerID) {
				return fmt.Errorf("%w: #%d", ErrAlreadyBlockedBy, blockerID)
			}

			_, ok, err := s.AddBlockedBy(id, blockerID)
			if err != nil {
				return err
			}

			if !ok {
				return notFound(id)
			}

			io.Println("Blocked", io.Theme().ID(id), "by", io.Theme().ID(blockerID))

			return nil
		},
	}
}

// UnblockCmd returns the unblock command.
func UnblockCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("unblock", flag.ContinueOnError),
		Usage: "unblock <id> <blocker>",
		Short: "Remove a blocker from an issue",
		Long:  "Remove <blocker> from the blocked-by list of <id> and <id> from the blocks list of <blocker>.",
		Exec: func(_ context.Context, io *IO, args []string) error {
			s, id, blockerID, err := linkArgs(app, io, args)
			if err != nil {
				return err
			}

			current, err := requireIssue(s, id)
			if err != nil {
				return err
			}

			if !slices.Contains(current.BlockedBy, blockerID) {
				return fmt.Errorf("%w: #%d", ErrNotBlockedBy, blockerID)
			}

			_, ok, err := s.RemoveBlockedBy(id, blockerID)
			if err != nil {
				return err
			}

			if !ok {
				return notFound(id)
			}

			io.Println("Unblocked", io.Theme().ID(id), "from", io.Theme().ID(blockerID))

			return nil
		},
	}
}

// linkArgs validates "<id> <blocker>" and opens the store.
func linkArgs(app *App, io *IO, args []string) (*store.Store, int, int, error) {
	if len(args) == 0 {
		return nil, 0, 0, ErrIDRequired
	}

	if len(args) < 2 {
		return nil, 0, 0, ErrBlockerIDRequired
	}

	id, err := parseID(args[0])
	if err != nil {
		return nil, 0, 0, err
	}

	blockerID, err := parseID(args[1])
	if err != nil {
		return nil, 0, 0, err
	}

	if id == blockerID {
		return nil, 0, 0, ErrCannotBlockSelf
	}

	s, err := app.openStore(io)
	if err != nil {
		return nil, 0, 0, err
	}

	return s, id, blockerID, nil
}
