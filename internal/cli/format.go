package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/agent-issues/internal/body"
	"github.com/calvinalkan/agent-issues/internal/codec"
	"github.com/calvinalkan/agent-issues/internal/issue"
)

type outputMode int

const (
	outputText outputMode = iota
	outputJSON
	outputCompact
)

func addOutputFlags(fs *flag.FlagSet) {
	fs.Bool("json", false, "Output as indented JSON")
	fs.Bool("compact", false, "Output as single-line JSON")
}

func outputModeFrom(fs *flag.FlagSet) (outputMode, error) {
	asJSON, _ := fs.GetBool("json")
	compact, _ := fs.GetBool("compact")

	switch {
	case asJSON && compact:
		return outputText, ErrFormatConflict
	case asJSON:
		return outputJSON, nil
	case compact:
		return outputCompact, nil
	default:
		return outputText, nil
	}
}

func printJSON(o *IO, mode outputMode, v any) error {
	var (
		data []byte
		err  error
	)

	if mode == outputCompact {
		data, err = json.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	o.Println(string(data))

	return nil
}

// printIssueList prints one line per issue, or a JSON array.
func printIssueList(o *IO, mode outputMode, issues []issue.Issue) error {
	if mode != outputText {
		if issues == nil {
			issues = []issue.Issue{}
		}

		return printJSON(o, mode, issues)
	}

	for _, i := range issues {
		o.Println(formatIssueLine(o, i))
	}

	return nil
}

// printIssue prints the detail view, or a JSON object.
func printIssue(o *IO, mode outputMode, i issue.Issue) error {
	if mode != outputText {
		return printJSON(o, mode, i)
	}

	theme := o.Theme()

	o.Println(theme.ID(i.ID), theme.Heading(i.Title))

	field := func(name, value string) {
		o.Printf("%s %s\n", theme.Muted(fmt.Sprintf("%-11s", name+":")), value)
	}

	field("status", theme.Status(i.Status))
	field("priority", theme.Priority(i.Priority))
	field("created", i.Created.Format(codec.TimeLayout))
	field("updated", i.Updated.Format(codec.TimeLayout))
	field("labels", orDash(strings.Join(i.Labels, ", ")))
	field("assignee", orDash(issue.Value(i.Assignee)))
	field("project", orDash(issue.Value(i.Project)))
	field("blocks", orDash(formatRefs(i.Blocks)))
	field("blocked by", orDash(formatRefs(i.BlockedBy)))

	if i.Description != "" {
		o.Println()
		o.Println(theme.Heading("Description"))
		o.Println(i.Description)
	}

	if len(i.Progress) > 0 {
		o.Println()
		o.Println(theme.Heading("Progress"))

		for _, entry := range i.Progress {
			o.Println(body.FormatProgressLine(entry))
		}
	}

	return nil
}

func formatIssueLine(o *IO, i issue.Issue) string {
	theme := o.Theme()

	var builder strings.Builder

	builder.WriteString(theme.ID(i.ID))
	builder.WriteString(" [")
	builder.WriteString(theme.Status(i.Status))
	builder.WriteString("] [")
	builder.WriteString(theme.Priority(i.Priority))
	builder.WriteString("] ")
	builder.WriteString(i.Title)

	if len(i.Labels) > 0 {
		builder.WriteString(" ")
		builder.WriteString(theme.Muted("{" + strings.Join(i.Labels, ", ") + "}"))
	}

	if len(i.BlockedBy) > 0 {
		builder.WriteString(" ")
		builder.WriteString(theme.Warn("<- blocked-by: [" + formatRefs(i.BlockedBy) + "]"))
	}

	return builder.String()
}

func formatRefs(ids []int) string {
	parts := make([]string, len(ids))
	for idx, id := range ids {
		parts[idx] = "#" + strconv.Itoa(id)
	}

	return strings.Join(parts, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
