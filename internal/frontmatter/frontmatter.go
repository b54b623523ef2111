// Package frontmatter parses the key/value block that opens every issue file.
//
// The grammar is a deliberately small, line-oriented YAML look-alike:
//
//	---
//	id: 4
//	title: "Fix parser"
//	status: open
//	priority: high
//	created: 2026-01-01T10:00:00Z
//	updated: 2026-01-01T10:00:00Z
//	labels: [bug, "p1"]
//	assignee: null
//	project:
//	blocks: [5, 6]
//	blocked_by: []
//	---
//
// Only the delimiters are structural. Unknown keys, lines without a colon,
// blank lines and '#' comments are skipped. Malformed list values decode to an
// empty list instead of failing the parse. Missing keys are reported as absent
// so the caller can substitute its own defaults.
package frontmatter

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Delimiter opens and closes the frontmatter block.
const Delimiter = "---"

var delimiterBytes = []byte(Delimiter)

// Fields holds the recognized keys of a frontmatter block. Pointer fields are
// nil when the key was absent (or, for assignee/project, null or empty).
type Fields struct {
	ID       *int
	Title    *string
	Status   *string
	Priority *string
	Created  *string
	Updated  *string

	Labels   []string
	Assignee *string
	Project  *string

	Blocks    []int
	BlockedBy []int
}

// ParseError reports a structural delimiter problem. Line and Column are 1-based.
type ParseError struct {
	Msg    string
	Line   int
	Column int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("frontmatter: line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

func parseErr(line, column int, msg string) error {
	return &ParseError{Msg: msg, Line: line, Column: column}
}

// Parse reads the frontmatter block at the start of src and returns the
// recognized fields plus the remaining bytes after the closing delimiter line.
// Leading blank lines before the opening delimiter are allowed.
func Parse(src []byte) (Fields, []byte, error) {
	source := sliceLineSource(src)

	opening, ok := source.nextNonBlank()
	if !ok {
		return Fields{}, nil, parseErr(source.lineNum+1, 1, "missing opening delimiter")
	}

	if !isDelimiter(opening.data) {
		return Fields{}, nil, parseErr(opening.num, 1, "missing opening delimiter")
	}

	var fields Fields

	for {
		tok, ok := source.next()
		if !ok {
			return Fields{}, nil, parseErr(opening.num, 1, "missing closing delimiter")
		}

		if isDelimiter(tok.data) {
			return fields, source.remainder(), nil
		}

		line := bytes.TrimSpace(tok.data)
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		keyRaw, valueRaw, found := bytes.Cut(line, []byte{':'})
		if !found {
			continue
		}

		fields.set(string(bytes.TrimSpace(keyRaw)), string(bytes.TrimSpace(valueRaw)))
	}
}

func (f *Fields) set(key, value string) {
	switch key {
	case "id":
		if id, ok := parseUint(value); ok {
			f.ID = &id
		}
	case "title":
		title := unquote(value)
		f.Title = &title
	case "status":
		f.Status = &value
	case "priority":
		f.Priority = &value
	case "created":
		f.Created = &value
	case "updated":
		f.Updated = &value
	case "labels":
		f.Labels = parseStringList(value)
	case "assignee":
		f.Assignee = optionalString(value)
	case "project":
		f.Project = optionalString(value)
	case "blocks":
		f.Blocks = parseIntList(value)
	case "blocked_by":
		f.BlockedBy = parseIntList(value)
	}
}

// optionalString maps the raw tokens null and "" to absent. A quoted "null"
// stays a literal string.
func optionalString(value string) *string {
	if value == "" || value == "null" {
		return nil
	}

	unquoted := unquote(value)

	return &unquoted
}

// unquote strips one matching pair of single or double quotes. No escape
// processing is done.
func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if first == last && (first == '"' || first == '\'') {
			return value[1 : len(value)-1]
		}
	}

	return value
}

// listItems splits a bracketed inline list. ok is false when the brackets are
// missing. Empty items are dropped.
func listItems(value string) ([]string, bool) {
	if len(value) < 2 || value[0] != '[' || value[len(value)-1] != ']' {
		return nil, false
	}

	inner := strings.TrimSpace(value[1 : len(value)-1])
	if inner == "" {
		return nil, true
	}

	parts := strings.Split(inner, ",")
	items := make([]string, 0, len(parts))

	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		items = append(items, item)
	}

	return items, true
}

func parseStringList(value string) []string {
	items, ok := listItems(value)
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		unquoted := strings.TrimSpace(unquote(item))
		if unquoted == "" {
			continue
		}

		out = append(out, unquoted)
	}

	return out
}

// parseIntList decodes [1, 2, 3]. Any malformed item empties the whole list.
func parseIntList(value string) []int {
	items, ok := listItems(value)
	if !ok {
		return []int{}
	}

	out := make([]int, 0, len(items))
	for _, item := range items {
		n, ok := parseUint(item)
		if !ok {
			return []int{}
		}

		out = append(out, n)
	}

	return out
}

func parseUint(value string) (int, bool) {
	if value == "" || value[0] == '+' || value[0] == '-' {
		return 0, false
	}

	n, err := strconv.ParseUint(value, 10, 31)
	if err != nil {
		return 0, false
	}

	return int(n), true
}

func isDelimiter(line []byte) bool {
	return bytes.Equal(bytes.TrimRight(line, " \t"), delimiterBytes)
}

type lineToken struct {
	data []byte
	num  int
}

type sliceLineReader struct {
	data    []byte
	idx     int
	lineNum int
}

func sliceLineSource(data []byte) *sliceLineReader {
	return &sliceLineReader{data: data}
}

func (s *sliceLineReader) next() (lineToken, bool) {
	if s.idx >= len(s.data) {
		return lineToken{}, false
	}

	start := s.idx
	for s.idx < len(s.data) && s.data[s.idx] != '\n' {
		s.idx++
	}

	end := s.idx
	if s.idx < len(s.data) && s.data[s.idx] == '\n' {
		s.idx++
	}

	s.lineNum++

	return lineToken{data: bytes.TrimSuffix(s.data[start:end], []byte{'\r'}), num: s.lineNum}, true
}

func (s *sliceLineReader) nextNonBlank() (lineToken, bool) {
	for {
		tok, ok := s.next()
		if !ok {
			return lineToken{}, false
		}

		if len(bytes.TrimSpace(tok.data)) != 0 {
			return tok, true
		}
	}
}

func (s *sliceLineReader) remainder() []byte {
	if s.idx >= len(s.data) {
		return nil
	}

	return s.data[s.idx:]
}
