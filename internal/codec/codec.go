// Package codec converts between issue records and their markdown files.
package codec

import (
	"strconv"
	"strings"
	"time"

	"github.com/calvinalkan/agent-issues/internal/body"
	"github.com/calvinalkan/agent-issues/internal/frontmatter"
	"github.com/calvinalkan/agent-issues/internal/issue"
)

// TimeLayout is used for created/updated when writing files.
const TimeLayout = time.RFC3339

// timestamps without a zone are read as UTC.
var readLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// Parse decodes a whole issue file. Missing id, title and timestamps are
// replaced by the given defaults. The only error is *frontmatter.ParseError.
func Parse(content []byte, defaultID int, defaultTime time.Time) (issue.Issue, error) {
	fields, tail, err := frontmatter.Parse(content)
	if err != nil {
		return issue.Issue{}, err
	}

	return ToIssue(fields, tail, defaultID, defaultTime), nil
}

// ToIssue merges parsed frontmatter and body with defaults. Unknown status and
// priority tokens fall back to open and medium.
func ToIssue(fields frontmatter.Fields, tail []byte, defaultID int, defaultTime time.Time) issue.Issue {
	description, progress := body.Parse(string(tail))

	out := issue.Issue{
		ID:          defaultID,
		Status:      issue.StatusOpen,
		Priority:    issue.DefaultPriority,
		Created:     parseTime(fields.Created, defaultTime),
		Updated:     parseTime(fields.Updated, defaultTime),
		Labels:      nonNil(fields.Labels),
		Assignee:    fields.Assignee,
		Project:     fields.Project,
		Blocks:      nonNil(fields.Blocks),
		BlockedBy:   nonNil(fields.BlockedBy),
		Description: description,
		Progress:    progress,
	}

	if fields.ID != nil {
		out.ID = *fields.ID
	}

	if fields.Title != nil {
		out.Title = *fields.Title
	}

	if fields.Status != nil {
		out.Status = issue.StatusOrDefault(*fields.Status)
	}

	if fields.Priority != nil {
		out.Priority = issue.PriorityOrDefault(*fields.Priority)
	}

	return out
}

func parseTime(raw *string, fallback time.Time) time.Time {
	if raw == nil {
		return fallback
	}

	for _, layout := range readLayouts {
		parsed, err := time.Parse(layout, *raw)
		if err == nil {
			return parsed.UTC()
		}
	}

	return fallback
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}

	return items
}

// Marshal renders an issue file: frontmatter in fixed key order, a title
// heading, the description section and, when non-empty, the progress log.
func Marshal(i issue.Issue) string {
	var builder strings.Builder

	builder.WriteString(frontmatter.Delimiter + "\n")
	builder.WriteString("id: " + strconv.Itoa(i.ID) + "\n")
	builder.WriteString("title: " + quoteIfNeeded(i.Title, false) + "\n")
	builder.WriteString("status: " + i.Status.String() + "\n")
	builder.WriteString("priority: " + i.Priority.String() + "\n")
	builder.WriteString("created: " + formatTime(i.Created) + "\n")
	builder.WriteString("updated: " + formatTime(i.Updated) + "\n")
	builder.WriteString("labels: " + formatList(i.Labels) + "\n")
	builder.WriteString("assignee: " + formatOptional(i.Assignee) + "\n")
	builder.WriteString("project: " + formatOptional(i.Project) + "\n")
	builder.WriteString("blocks: " + formatIDs(i.Blocks) + "\n")
	builder.WriteString("blocked_by: " + formatIDs(i.BlockedBy) + "\n")
	builder.WriteString(frontmatter.Delimiter + "\n")

	builder.WriteString("\n# " + i.Title + "\n")
	builder.WriteString("\n" + body.DescriptionHeading + "\n")

	if i.Description != "" {
		builder.WriteString(i.Description + "\n")
	}

	if len(i.Progress) > 0 {
		builder.WriteString("\n" + body.ProgressHeading + "\n")

		for _, entry := range i.Progress {
			builder.WriteString(body.FormatProgressLine(entry) + "\n")
		}
	}

	return builder.String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// quoteIfNeeded wraps values the parser would otherwise alter: surrounding
// whitespace is trimmed, a leading quote character is stripped, and a bare
// null means absent.
func quoteIfNeeded(value string, nullable bool) string {
	if value == "" {
		return value
	}

	if value[0] == '"' || value[0] == '\'' || value != strings.TrimSpace(value) || (nullable && value == "null") {
		return `"` + value + `"`
	}

	return value
}

func formatOptional(value *string) string {
	if value == nil {
		return ""
	}

	return quoteIfNeeded(*value, true)
}

// formatList writes items verbatim. Label items are trimmed on read, so
// surrounding whitespace in a label does not survive a round trip.
func formatList(items []string) string {
	return "[" + strings.Join(items, ", ") + "]"
}

func formatIDs(ids []int) string {
	parts := make([]string, len(ids))
	for idx, id := range ids {
		parts[idx] = strconv.Itoa(id)
	}

	return formatList(parts)
}
