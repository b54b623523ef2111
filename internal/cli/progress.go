package cli

import (
	"context"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/agent-issues/internal/codec"
	"github.com/calvinalkan/agent-issues/internal/issue"
)

// ProgressCmd returns the progress command.
func ProgressCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("progress", flag.ContinueOnError),
		Usage: "progress <id> <message...>",
		Short: "Append a progress log entry",
		Long:  "Append a timestamped entry to the progress log of an issue.",
		Exec: func(_ context.Context, io *IO, args []string) error {
			if len(args) == 0 {
				return ErrIDRequired
			}

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			message := strings.Join(strings.Fields(strings.Join(args[1:], " ")), " ")
			if message == "" {
				return ErrMessageRequired
			}

			s, err := app.openStore(io)
			if err != nil {
				return err
			}

			entry := issue.ProgressEntry{
				Timestamp: app.Now().UTC().Format(codec.TimeLayout),
				Message:   message,
			}

			_, err = mustUpdate(s, id, func(i issue.Issue) issue.Issue {
				i.Progress = append(i.Progress, entry)

				return i
			})
			if err != nil {
				return err
			}

			io.Println("Logged progress on", io.Theme().ID(id))

			return nil
		},
	}
}
