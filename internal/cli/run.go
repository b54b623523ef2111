package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/calvinalkan/agent-issues/internal/config"
	"github.com/calvinalkan/agent-issues/internal/ui"
)

const (
	consumedNone = 0
	consumedOne  = 1
	consumedTwo  = 2
	helpFlag     = "--help"
)

// Run is the main entry point. Returns exit code.
//
// sigCh may be nil. A signal received on it cancels the command context,
// which stops long-running commands such as "ls --watch" and "shell".
func Run(stdin io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	if len(args) > 0 {
		args = args[1:]
	}

	flags, err := parseGlobalFlags(args)
	if err != nil {
		fprintln(errOut, "error:", err)
		fprintln(errOut)
		printGlobalFlags(errOut)

		return 1
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride:   flags.workDir,
		ConfigPath:        flags.configPath,
		IssuesDirOverride: flags.issuesDir,
		Env:               env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	level := cfg.Level()
	if flags.verbose {
		level = log.DebugLevel
	}

	app := &App{
		Config: cfg,
		Env:    env,
		Stdin:  stdin,
		Out:    out,
		Logger: newLogger(errOut, level),
		Now:    time.Now,
	}

	app.Logger.Debug("config resolved", "cwd", cfg.EffectiveCwd, "global", cfg.Sources.Global, "project", cfg.Sources.Project)

	theme := ui.NewTheme(out, ui.ColorEnabled(cfg.Color, ui.IsTerminal(out), env))
	commands := Commands(app)

	if len(flags.remaining) == 0 || flags.remaining[0] == "-h" || flags.remaining[0] == helpFlag {
		printUsage(out, commands)

		return 0
	}

	name := flags.remaining[0]

	cmd, ok := findCommand(commands, name)
	if !ok {
		fprintln(errOut, "error:", fmt.Errorf("%w: %s", ErrUnknownCommand, name))
		printUsage(errOut, commands)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	return cmd.Run(ctx, NewIO(out, errOut, theme), flags.remaining[1:])
}

// Commands returns every command bound to app, in help order.
func Commands(app *App) []*Command {
	return []*Command{
		InitCmd(app),
		CreateCmd(app),
		ShowCmd(app),
		LsCmd(app),
		ReadyCmd(app),
		SearchCmd(app),
		UpdateCmd(app),
		StartCmd(app),
		CloseCmd(app),
		ReopenCmd(app),
		ProgressCmd(app),
		BlockCmd(app),
		UnblockCmd(app),
		DeleteCmd(app),
		ShellCmd(app),
		PrintConfigCmd(app),
	}
}

func findCommand(commands []*Command, name string) (*Command, bool) {
	for _, cmd := range commands {
		if cmd.Matches(name) {
			return cmd, true
		}
	}

	return nil, false
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: false,
		Prefix:          "issues",
	})
}

type globalFlags struct {
	workDir    string
	configPath string
	issuesDir  string
	verbose    bool
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a flag at args[idx]. Returns number of args consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	value := func() (string, error) {
		if idx+1 >= len(args) {
			return "", fmt.Errorf("%w: %s", ErrFlagRequiresArg, arg)
		}

		return args[idx+1], nil
	}

	switch arg {
	case "-C", "--cwd":
		v, err := value()
		flags.workDir = v

		return consumedTwo, err
	case "-c", "--config":
		v, err := value()
		flags.configPath = v

		return consumedTwo, err
	case "--dir":
		v, err := value()
		if err == nil && v == "" {
			err = config.ErrIssuesDirEmpty
		}

		flags.issuesDir = v

		return consumedTwo, err
	case "-v", "--verbose":
		flags.verbose = true

		return consumedOne, nil
	case "-h", helpFlag:
		flags.remaining = []string{helpFlag}

		return len(args) - idx, nil
	}

	if after, ok := strings.CutPrefix(arg, "--cwd="); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	if after, ok := strings.CutPrefix(arg, "--config="); ok {
		flags.configPath = after

		return consumedOne, nil
	}

	if after, ok := strings.CutPrefix(arg, "--dir="); ok {
		if after == "" {
			return consumedNone, config.ErrIssuesDirEmpty
		}

		flags.issuesDir = after

		return consumedOne, nil
	}

	if after, ok := strings.CutPrefix(arg, "-C"); ok && after != "" {
		flags.workDir = after

		return consumedOne, nil
	}

	// Unknown flag
	if strings.HasPrefix(arg, "-") && arg != "-" {
		return consumedNone, fmt.Errorf("%w: %s", ErrUnknownFlag, arg)
	}

	// Not a flag
	return consumedNone, nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printGlobalFlags(w io.Writer) {
	fprintln(w, `Global flags:
  -C, --cwd <dir>     Run as if started in <dir>
  -c, --config <file> Use specified config file
      --dir <dir>     Use <dir> as the issues directory
  -v, --verbose       Log diagnostics to stderr
  -h, --help          Show help`)
}

func printUsage(w io.Writer, commands []*Command) {
	fprintln(w, "issues - file-backed issue tracker")
	fprintln(w)
	fprintln(w, "Usage: issues [global flags] <command> [args]")
	fprintln(w)
	printGlobalFlags(w)
	fprintln(w)
	fprintln(w, "Commands:")

	for _, cmd := range commands {
		fprintln(w, cmd.HelpLine())
	}
}
