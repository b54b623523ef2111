// Package body splits the markdown part of an issue file into its description
// and progress log.
package body

import (
	"strings"

	"github.com/calvinalkan/agent-issues/internal/issue"
)

type state uint8

const (
	beforeTitle state = iota
	inDescription
	inProgress
	otherSection
	done
)

// Section headings written by the codec.
const (
	DescriptionHeading = "## Description"
	ProgressHeading    = "## Progress"
)

// Parse extracts the description and progress entries from an issue body.
// It never fails: text it does not recognize is dropped.
//
// The first "# " line is the title and is discarded. "## Description" and
// "## Progress" open their sections, any other "## " heading closes the
// current one. Inside the progress section each non-blank line must look like
// "- [timestamp] message"; the first line that does not ends parsing.
func Parse(text string) (string, []issue.ProgressEntry) {
	current := beforeTitle

	var (
		description []string
		progress    []issue.ProgressEntry
	)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if current == done {
			break
		}

		switch {
		case current == beforeTitle && strings.HasPrefix(line, "# "):
			current = otherSection

			continue
		case strings.HasPrefix(line, DescriptionHeading):
			current = inDescription

			continue
		case isProgressHeading(line):
			current = inProgress

			continue
		case strings.HasPrefix(line, "## "):
			current = otherSection

			continue
		}

		switch current {
		case inDescription:
			description = append(description, line)
		case inProgress:
			if strings.TrimSpace(line) == "" {
				continue
			}

			entry, ok := parseProgressLine(line)
			if !ok {
				current = done

				continue
			}

			progress = append(progress, entry)
		case beforeTitle, otherSection, done:
		}
	}

	return strings.TrimSpace(strings.Join(description, "\n")), progress
}

func isProgressHeading(line string) bool {
	rest, ok := strings.CutPrefix(line, "## ")
	if !ok {
		return false
	}

	const word = "progress"
	if len(rest) < len(word) {
		return false
	}

	return strings.EqualFold(rest[:len(word)], word)
}

// parseProgressLine decodes "- [timestamp] message". The timestamp runs to the
// first ']'.
func parseProgressLine(line string) (issue.ProgressEntry, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), "- [")
	if !ok {
		return issue.ProgressEntry{}, false
	}

	timestamp, message, ok := strings.Cut(rest, "]")
	if !ok {
		return issue.ProgressEntry{}, false
	}

	return issue.ProgressEntry{Timestamp: timestamp, Message: strings.TrimSpace(message)}, true
}

// FormatProgressLine renders one entry the way Parse reads it back.
func FormatProgressLine(entry issue.ProgressEntry) string {
	return "- [" + entry.Timestamp + "] " + entry.Message
}
