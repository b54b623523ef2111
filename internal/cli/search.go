package cli

import (
	"context"
	"strings"

	flag "github.com/spf13/pflag"
)

// SearchCmd returns the search command.
func SearchCmd(app *App) *Command {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	addOutputFlags(fs)

	return &Command{
		Flags:    fs,
		Usage:    "search <query...>",
		Examples: []string{"search crlf parser"},
		Short:    "Find issues by text",
		Long: `Find issues whose title, description or any progress message contains
the query, ignoring case. Closed issues are included.`,
		Exec: func(_ context.Context, io *IO, args []string) error {
			mode, err := outputModeFrom(fs)
			if err != nil {
				return err
			}

			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return ErrQueryRequired
			}

			s, err := app.openStore(io)
			if err != nil {
				return err
			}

			found, err := s.SearchIssues(query)
			if err != nil {
				return err
			}

			return printIssueList(io, mode, found)
		},
	}
}
