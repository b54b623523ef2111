package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/calvinalkan/agent-issues/internal/config"
	"github.com/calvinalkan/agent-issues/internal/issue"
	"github.com/calvinalkan/agent-issues/internal/store"
	"github.com/calvinalkan/agent-issues/internal/ui"
)

// App carries what every command needs besides its own flags.
type App struct {
	Config config.Config
	Env    map[string]string
	Stdin  io.Reader
	Out    io.Writer
	Logger *log.Logger
	Now    func() time.Time

	// linePrompt is the shell's prompter while a shell runs. Commands that
	// ask for input read through it.
	linePrompt prompter
}

// issuesDir returns the configured issues directory, or the nearest .issues
// directory above the working directory.
func (a *App) issuesDir() (string, error) {
	if a.Config.IssuesDirAbs == "" {
		dir, err := store.FindDir(a.Config.EffectiveCwd)
		if err != nil {
			return "", fmt.Errorf("%w; run 'issues init' first", err)
		}

		return dir, nil
	}

	info, err := os.Stat(a.Config.IssuesDirAbs)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s; run 'issues init' first", ErrIssuesDirMissing, a.Config.IssuesDirAbs)
	}

	return a.Config.IssuesDirAbs, nil
}

// initDir is where "issues init" creates the directory.
func (a *App) initDir() string {
	if a.Config.IssuesDirAbs != "" {
		return a.Config.IssuesDirAbs
	}

	return filepath.Join(a.Config.EffectiveCwd, store.DirName)
}

// openStore binds a store to the issues directory. Skipped files become
// warnings on o.
func (a *App) openStore(o *IO) (*store.Store, error) {
	dir, err := a.issuesDir()
	if err != nil {
		return nil, err
	}

	a.Logger.Debug("using issues directory", "dir", dir)

	return store.New(dir,
		store.WithClock(a.Now),
		store.WithWarningHandler(func(w store.Warning) {
			a.Logger.Debug("skipped issue file", "path", w.Path, "err", w.Err)
			o.Warn(w.String(), "fix the issue file or delete it")
		}),
	), nil
}

// interactive reports whether stdin and stdout are both terminals.
func (a *App) interactive() bool {
	return ui.IsTerminal(a.Stdin) && ui.IsTerminal(a.Out)
}

func notFound(id int) error {
	return fmt.Errorf("%w: #%d", ErrIssueNotFound, id)
}

// parseID accepts "4" and "#4".
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidID, arg)
	}

	return id, nil
}

// requireIssue loads id or returns an ErrIssueNotFound error.
func requireIssue(s *store.Store, id int) (issue.Issue, error) {
	found, ok, err := s.FindIssue(id)
	if err != nil {
		return issue.Issue{}, err
	}

	if !ok {
		return issue.Issue{}, notFound(id)
	}

	return found, nil
}

// mustUpdate is UpdateIssue with absence turned into ErrIssueNotFound.
func mustUpdate(s *store.Store, id int, transform func(issue.Issue) issue.Issue) (issue.Issue, error) {
	updated, ok, err := s.UpdateIssue(id, transform)
	if err != nil {
		return issue.Issue{}, err
	}

	if !ok {
		return issue.Issue{}, notFound(id)
	}

	return updated, nil
}
