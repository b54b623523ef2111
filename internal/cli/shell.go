package cli

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
	flag "github.com/spf13/pflag"
)

// ShellCmd returns the shell command.
func ShellCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("shell", flag.ContinueOnError),
		Usage: "shell",
		Short: "Interactive prompt for issue commands",
		Long: `Read commands line by line and run them against the same issues directory.
Arguments are split like a POSIX shell, so quoted titles work:

  issues> create "Fix the parser" -p high
  issues> block 2 1
  issues> ls --all

Type "help" for the command list and "exit" (or Ctrl+D) to leave. History is
kept in $XDG_STATE_HOME/issues/history on a terminal.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execShell(ctx, o, app)
		},
	}
}

func execShell(ctx context.Context, o *IO, app *App) error {
	p := app.newPrompter()
	app.linePrompt = p

	defer func() {
		app.linePrompt = nil
		_ = p.Close()
	}()

	history := historyPath(app.Env)

	if lp, ok := p.(*linerPrompter); ok && history != "" {
		readErr := lp.readHistory(history)
		if readErr != nil {
			app.Logger.Debug("no shell history loaded", "path", history, "err", readErr)
		}

		defer func() {
			writeErr := lp.writeHistory(history)
			if writeErr != nil {
				app.Logger.Warn("saving shell history failed", "path", history, "err", writeErr)
			}
		}()
	}

	for ctx.Err() == nil {
		line, err := p.Prompt("issues> ")
		if errors.Is(err, io.EOF) || errors.Is(err, errPromptAborted) {
			return nil
		}

		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p.AppendHistory(line)

		args, splitErr := shlex.Split(line)
		if splitErr != nil {
			o.ErrPrintln("error:", splitErr)

			continue
		}

		if len(args) == 0 {
			continue
		}

		if !runShellLine(ctx, o, app, args) {
			return nil
		}
	}

	return nil
}

// runShellLine runs one command. It returns false when the shell should exit.
func runShellLine(ctx context.Context, o *IO, app *App, args []string) bool {
	// Commands are rebuilt per line: flag sets keep parsed values.
	commands := Commands(app)

	switch args[0] {
	case "exit", "quit", "q":
		return false
	case "help", "?":
		for _, cmd := range commands {
			if cmd.Name() != "shell" {
				o.Println(cmd.HelpLine())
			}
		}

		return true
	case "shell":
		o.ErrPrintln("error: already in a shell")

		return true
	}

	cmd, ok := findCommand(commands, args[0])
	if !ok {
		o.ErrPrintln("error:", ErrUnknownCommand.Error()+":", args[0], "(type 'help' for commands)")

		return true
	}

	code := cmd.Run(ctx, NewIO(o.out, o.errOut, o.theme), args[1:])
	app.Logger.Debug("shell command finished", "command", args[0], "exit", code)

	return true
}

// historyPath is $XDG_STATE_HOME/issues/history, falling back to
// ~/.local/state/issues/history.
func historyPath(env map[string]string) string {
	if state := env["XDG_STATE_HOME"]; state != "" {
		return filepath.Join(state, "issues", "history")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".local", "state", "issues", "history")
	}

	return ""
}
