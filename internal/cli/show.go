package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

// ShowCmd returns the show command.
func ShowCmd(app *App) *Command {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	addOutputFlags(fs)

	return &Command{
		Flags:   fs,
		Usage:   "show <id>",
		Aliases: []string{"view"},
		Short:   "Show issue details",
		Long:    "Display every field of an issue, its description and progress log.",
		Exec: func(_ context.Context, io *IO, args []string) error {
			mode, err := outputModeFrom(fs)
			if err != nil {
				return err
			}

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

			found, err := requireIssue(s, id)
			if err != nil {
				return err
			}

			return printIssue(io, mode, found)
		},
	}
}
