package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/agent-issues/internal/store"
)

// InitCmd returns the init command.
func InitCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("init", flag.ContinueOnError),
		Usage: "init",
		Short: "Create the issues directory",
		Long: `Create the issues directory (.issues in the working directory unless
--dir or issues_dir is set) with an index.jsonl placeholder and a README.md
describing the file format. Fails if the directory already exists.`,
		Exec: func(_ context.Context, io *IO, _ []string) error {
			s, err := store.Init(app.initDir())
			if err != nil {
				return err
			}

			io.Println("Initialized", s.Dir())

			return nil
		},
	}
}
