package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/agent-issues/internal/issue"
)

// UpdateCmd returns the update command.
func UpdateCmd(app *App) *Command {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	fs.String("title", "", "New title (renames the file)")
	fs.String("status", "", "New status (open|in-progress|closed)")
	fs.StringP("priority", "p", "", "New priority (low|medium|high|critical)")
	fs.StringP("assignee", "a", "", `New assignee ("" clears it)`)
	fs.String("project", "", `New project ("" clears it)`)
	fs.StringP("description", "d", "", "New description")
	fs.StringArray("add-label", nil, "Label to add (repeatable)")
	fs.StringArray("remove-label", nil, "Label to remove (repeatable)")
	addOutputFlags(fs)

	return &Command{
		Flags: fs,
		Usage: "update <id> [flags]",
		Examples: []string{
			`update 3 --title "Parse CRLF line endings"`,
			"update 3 --add-label urgent --remove-label triage",
			`update 3 --assignee ""   # clear assignee`,
		},
		Short: "Change issue fields",
		Long: `Change one or more fields of an issue. Only the given flags are applied.
Changing the title renames the issue file.`,
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execUpdate(io, app, fs, args)
		},
	}
}

func execUpdate(io *IO, app *App, fs *flag.FlagSet, args []string) error {
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

	edits, err := updateEdits(fs)
	if err != nil {
		return err
	}

	if len(edits) == 0 {
		return ErrNothingToUpdate
	}

	s, err := app.openStore(io)
	if err != nil {
		return err
	}

	updated, err := mustUpdate(s, id, func(i issue.Issue) issue.Issue {
		for _, edit := range edits {
			i = edit(i)
		}

		return i
	})
	if err != nil {
		return err
	}

	if mode != outputText {
		return printJSON(io, mode, updated)
	}

	io.Println("Updated", io.Theme().ID(updated.ID))

	return nil
}

// updateEdits validates the changed flags and turns each into an edit.
func updateEdits(fs *flag.FlagSet) ([]func(issue.Issue) issue.Issue, error) {
	var edits []func(issue.Issue) issue.Issue

	if title, _ := fs.GetString("title"); fs.Changed("title") {
		title = strings.TrimSpace(title)
		if title == "" {
			return nil, fmt.Errorf("%w: --title", ErrEmptyValue)
		}

		edits = append(edits, func(i issue.Issue) issue.Issue {
			i.Title = title

			return i
		})
	}

	if raw, _ := fs.GetString("status"); fs.Changed("status") {
		status, ok := issue.ParseStatus(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %q", issue.ErrInvalidStatus, raw)
		}

		edits = append(edits, func(i issue.Issue) issue.Issue {
			i.Status = status

			return i
		})
	}

	if raw, _ := fs.GetString("priority"); fs.Changed("priority") {
		priority, ok := issue.ParsePriority(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %q", issue.ErrInvalidPriority, raw)
		}

		edits = append(edits, func(i issue.Issue) issue.Issue {
			i.Priority = priority

			return i
		})
	}

	if value, _ := fs.GetString("assignee"); fs.Changed("assignee") {
		edits = append(edits, func(i issue.Issue) issue.Issue {
			i.Assignee = optional(value)

			return i
		})
	}

	if value, _ := fs.GetString("project"); fs.Changed("project") {
		edits = append(edits, func(i issue.Issue) issue.Issue {
			i.Project = optional(value)

			return i
		})
	}

	if value, _ := fs.GetString("description"); fs.Changed("description") {
		edits = append(edits, func(i issue.Issue) issue.Issue {
			i.Description = strings.TrimSpace(value)

			return i
		})
	}

	add, _ := fs.GetStringArray("add-label")
	remove, _ := fs.GetStringArray("remove-label")

	if len(add) > 0 || len(remove) > 0 {
		edits = append(edits, func(i issue.Issue) issue.Issue {
			for _, label := range add {
				label = strings.TrimSpace(label)
				if label != "" && !slices.Contains(i.Labels, label) {
					i.Labels = append(i.Labels, label)
				}
			}

			i.Labels = slices.DeleteFunc(i.Labels, func(label string) bool {
				return slices.Contains(remove, label)
			})

			return i
		})
	}

	return edits, nil
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	return issue.StringPtr(value)
}
