package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

// DeleteCmd returns the delete command.
func DeleteCmd(app *App) *Command {
	return &Command{
		Flags:   flag.NewFlagSet("delete", flag.ContinueOnError),
		Usage:   "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete issue file",
		Long: `Delete the file of an issue. References to it in other issues' blocks and
blocked-by lists are left in place and no longer count as blocking.`,
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

			ok, err := s.DeleteIssue(id)
			if err != nil {
				return err
			}

			if !ok {
				return notFound(id)
			}

			io.Println("Deleted", io.Theme().ID(id))

			return nil
		},
	}
}
