package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/agent-issues/internal/issue"
	"github.com/calvinalkan/agent-issues/internal/store"
)

// CreateCmd returns the create command.
func CreateCmd(app *App) *Command {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.StringP("description", "d", "", "Description text")
	fs.StringP("priority", "p", "", "Priority: low|medium|high|critical (default from config)")
	fs.StringArrayP("label", "l", nil, "Label (repeatable)")
	fs.StringP("assignee", "a", "", "Assignee name")
	fs.String("project", "", "Project name")
	fs.StringArray("blocked-by", nil, "Blocker issue ID (repeatable)")
	addOutputFlags(fs)

	return &Command{
		Flags: fs,
		Usage: "create <title> [flags]",
		Examples: []string{
			`create "Fix the parser" -p high -l bug -l parser`,
			`create "Write docs" --blocked-by 1 --project site`,
		},
		Short: "Create issue, prints ID",
		Long: `Create a new issue. Prints the issue ID on success.

Without a title on an interactive terminal, prompts for title and description.
Every --blocked-by issue must exist.`,
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execCreate(io, app, fs, args)
		},
	}
}

func execCreate(io *IO, app *App, fs *flag.FlagSet, args []string) error {
	mode, err := outputModeFrom(fs)
	if err != nil {
		return err
	}

	for _, name := range []string{"description", "priority", "assignee", "project"} {
		v, _ := fs.GetString(name)
		if fs.Changed(name) && strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: --%s", ErrEmptyValue, name)
		}
	}

	title := strings.TrimSpace(strings.Join(args, " "))
	description, _ := fs.GetString("description")

	if title == "" && app.interactive() {
		title, description, err = promptNewIssue(app, description)
		if err != nil {
			return err
		}
	}

	if title == "" {
		return ErrTitleRequired
	}

	priority := app.Config.Priority()

	if raw, _ := fs.GetString("priority"); fs.Changed("priority") {
		parsed, ok := issue.ParsePriority(raw)
		if !ok {
			return fmt.Errorf("%w: %s", issue.ErrInvalidPriority, raw)
		}

		priority = parsed
	}

	s, err := app.openStore(io)
	if err != nil {
		return err
	}

	blockers, err := parseBlockers(s, fs)
	if err != nil {
		return err
	}

	labels, _ := fs.GetStringArray("label")

	in := store.NewIssue{
		Title:       title,
		Description: description,
		Priority:    &priority,
		Labels:      labels,
	}

	if assignee, _ := fs.GetString("assignee"); assignee != "" {
		in.Assignee = issue.StringPtr(assignee)
	}

	if project, _ := fs.GetString("project"); project != "" {
		in.Project = issue.StringPtr(project)
	}

	created, err := s.CreateIssue(in)
	if err != nil {
		return err
	}

	app.Logger.Debug("created issue", "id", created.ID, "file", created.Filename())

	for _, blocker := range blockers {
		linked, ok, linkErr := s.AddBlockedBy(created.ID, blocker)
		if linkErr != nil {
			return linkErr
		}

		if !ok {
			return notFound(blocker)
		}

		created = linked
	}

	if mode != outputText {
		return printJSON(io, mode, created)
	}

	io.Println(strconv.Itoa(created.ID))

	return nil
}

func parseBlockers(s *store.Store, fs *flag.FlagSet) ([]int, error) {
	raw, _ := fs.GetStringArray("blocked-by")

	blockers := make([]int, 0, len(raw))

	for _, arg := range raw {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}

		_, err = requireIssue(s, id)
		if err != nil {
			return nil, err
		}

		blockers = append(blockers, id)
	}

	return blockers, nil
}

func promptNewIssue(app *App, description string) (string, string, error) {
	var title string

	err := app.withPrompter(func(p prompter) error {
		var promptErr error

		title, promptErr = p.Prompt("Title: ")
		if promptErr != nil {
			return promptErr
		}

		if description == "" {
			description, promptErr = p.Prompt("Description (optional): ")
		}

		return promptErr
	})
	if err != nil {
		return "", "", err
	}

	return strings.TrimSpace(title), description, nil
}
