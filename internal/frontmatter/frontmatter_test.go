package frontmatter_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/agent-issues/internal/frontmatter"
)

func wrapFrontmatter(lines ...string) []byte {
	return []byte("---\n" + strings.Join(lines, "\n") + "\n---\n")
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

// Contract: every documented key decodes into its typed field.
func Test_Parse_Returns_Fields_When_AllKeysPresent(t *testing.T) {
	t.Parallel()

	src := wrapFrontmatter(
		"id: 4",
		"title: Fix parser",
		"status: in-progress",
		"priority: high",
		"created: 2026-01-01T10:00:00Z",
		"updated: 2026-01-02T10:00:00Z",
		"labels: [bug, \"p1\", 'ui']",
		"assignee: claude",
		"project: engine",
		"blocks: [5, 6]",
		"blocked_by: [1, 2, 3]",
	)

	got, tail, err := frontmatter.Parse(append(src, []byte("\n# Fix parser\n")...))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := frontmatter.Fields{
		ID:        intPtr(4),
		Title:     strPtr("Fix parser"),
		Status:    strPtr("in-progress"),
		Priority:  strPtr("high"),
		Created:   strPtr("2026-01-01T10:00:00Z"),
		Updated:   strPtr("2026-01-02T10:00:00Z"),
		Labels:    []string{"bug", "p1", "ui"},
		Assignee:  strPtr("claude"),
		Project:   strPtr("engine"),
		Blocks:    []int{5, 6},
		BlockedBy: []int{1, 2, 3},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	if got, want := string(tail), "\n# Fix parser\n"; got != want {
		t.Fatalf("tail=%q, want=%q", got, want)
	}
}

func Test_Parse_Optional_Strings(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name string
		line string
		want *string
	}{
		{name: "null", line: "assignee: null", want: nil},
		{name: "empty", line: "assignee: ", want: nil},
		{name: "empty no space", line: "assignee:", want: nil},
		{name: "plain", line: "assignee: claude", want: strPtr("claude")},
		{name: "double quoted", line: `assignee: "ada lovelace"`, want: strPtr("ada lovelace")},
		{name: "single quoted", line: "assignee: 'ada'", want: strPtr("ada")},
		{name: "quoted null stays literal", line: `assignee: "null"`, want: strPtr("null")},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, _, err := frontmatter.Parse(wrapFrontmatter(tt.line))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}

			if diff := cmp.Diff(tt.want, got.Assignee); diff != "" {
				t.Errorf("assignee mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// Contract: malformed arrays degrade to an empty list instead of an error.
func Test_Parse_Lists_Are_Lenient(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name       string
		line       string
		wantBlocks []int
		wantLabels []string
	}{
		{name: "empty brackets", line: "blocks: []", wantBlocks: []int{}},
		{name: "spaces", line: "blocks: [ 7 ,8 ]", wantBlocks: []int{7, 8}},
		{name: "trailing comma", line: "blocks: [7, ]", wantBlocks: []int{7}},
		{name: "missing bracket", line: "blocks: [7, 8", wantBlocks: []int{}},
		{name: "bare scalar", line: "blocks: 7", wantBlocks: []int{}},
		{name: "non integer item", line: "blocks: [7, x]", wantBlocks: []int{}},
		{name: "negative item", line: "blocks: [-1]", wantBlocks: []int{}},
		{name: "labels unbracketed", line: "labels: bug", wantLabels: []string{}},
		{name: "labels quoted and trimmed", line: `labels: [ " a " , b ]`, wantLabels: []string{"a", "b"}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, _, err := frontmatter.Parse(wrapFrontmatter(tt.line))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}

			if tt.wantBlocks != nil {
				if diff := cmp.Diff(tt.wantBlocks, got.Blocks); diff != "" {
					t.Errorf("blocks mismatch (-want +got):\n%s", diff)
				}
			}

			if tt.wantLabels != nil {
				if diff := cmp.Diff(tt.wantLabels, got.Labels); diff != "" {
					t.Errorf("labels mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func Test_Parse_Skips_Unknown_Comments_And_Blank_Lines(t *testing.T) {
	t.Parallel()

	src := wrapFrontmatter(
		"# a comment",
		"",
		"schema_version: 3",
		"no colon here",
		"id: 12",
		"title: 'Quoted: title'",
	)

	got, _, err := frontmatter.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := frontmatter.Fields{ID: intPtr(12), Title: strPtr("Quoted: title")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func Test_Parse_Leaves_Missing_Keys_Absent(t *testing.T) {
	t.Parallel()

	got, tail, err := frontmatter.Parse([]byte("\n---\nid: abc\n---"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if diff := cmp.Diff(frontmatter.Fields{}, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	if len(tail) != 0 {
		t.Fatalf("tail=%q, want empty", tail)
	}
}

func Test_Parse_Handles_CRLF(t *testing.T) {
	t.Parallel()

	got, tail, err := frontmatter.Parse([]byte("---\r\nid: 3\r\ntitle: x\r\n---\r\nbody\r\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if got.ID == nil || *got.ID != 3 || got.Title == nil || *got.Title != "x" {
		t.Fatalf("unexpected fields: %+v", got)
	}

	if got, want := string(tail), "body\r\n"; got != want {
		t.Fatalf("tail=%q, want=%q", got, want)
	}
}

// Contract: only delimiter problems fail the parse, with a position.
func Test_Parse_Returns_ParseError_When_Delimiters_Broken(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name     string
		src      string
		wantMsg  string
		wantLine int
	}{
		{name: "empty input", src: "", wantMsg: "missing opening delimiter", wantLine: 1},
		{name: "no opening", src: "id: 1\n---\n", wantMsg: "missing opening delimiter", wantLine: 1},
		{name: "heading first", src: "\n\n# Title\n", wantMsg: "missing opening delimiter", wantLine: 3},
		{name: "no closing", src: "---\nid: 1\ntitle: x\n", wantMsg: "missing closing delimiter", wantLine: 1},
		{name: "no closing after blank", src: "\n---\nid: 1", wantMsg: "missing closing delimiter", wantLine: 2},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := frontmatter.Parse([]byte(tt.src))
			if err == nil {
				t.Fatal("expected error")
			}

			var parseErr *frontmatter.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("err=%T, want *frontmatter.ParseError", err)
			}

			if got, want := parseErr.Msg, tt.wantMsg; got != want {
				t.Errorf("msg=%q, want=%q", got, want)
			}

			if got, want := parseErr.Line, tt.wantLine; got != want {
				t.Errorf("line=%d, want=%d", got, want)
			}

			if got, want := parseErr.Column, 1; got != want {
				t.Errorf("column=%d, want=%d", got, want)
			}

			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}
