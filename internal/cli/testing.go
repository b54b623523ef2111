package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calvinalkan/agent-issues/internal/store"
)

// CLI provides a clean interface for running CLI commands in tests.
// It manages a temp directory and environment variables.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string
}

// NewCLI creates a new test CLI with a temp directory. The environment is
// empty, so no global config is read.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	return &CLI{
		t:   t,
		Dir: t.TempDir(),
		Env: map[string]string{},
	}
}

// NewInitializedCLI is NewCLI followed by "issues init".
func NewInitializedCLI(t *testing.T) *CLI {
	t.Helper()

	c := NewCLI(t)
	c.MustRun("init")

	return c
}

// Run executes the CLI with the given args and returns stdout, stderr, and exit code.
// Args should not include "issues" or "--cwd" - those are added automatically.
func (r *CLI) Run(args ...string) (string, string, int) {
	return r.RunWithInput("", args...)
}

// RunWithInput executes the CLI with stdin and returns stdout, stderr, and exit code.
// stdin must be a string or io.Reader; panics otherwise.
func (r *CLI) RunWithInput(stdin any, args ...string) (string, string, int) {
	var inReader io.Reader

	switch v := stdin.(type) {
	case string:
		inReader = strings.NewReader(v)
	case io.Reader:
		inReader = v
	default:
		panic(fmt.Sprintf("stdin must be string or io.Reader, got %T", stdin))
	}

	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{"issues", "--cwd", r.Dir}, args...)
	code := Run(inReader, &outBuf, &errBuf, fullArgs, r.Env, nil)

	return outBuf.String(), errBuf.String(), code
}

// MustRun executes the CLI and fails the test if the command returns non-zero.
// Returns trimmed stdout on success.
func (r *CLI) MustRun(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code != 0 {
		r.t.Fatalf("command %v failed with exit code %d\nstderr: %s", args, code, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustFail executes the CLI and fails the test if the command succeeds.
// Also fails if stdout is not empty. Returns trimmed stderr.
func (r *CLI) MustFail(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code == 0 {
		r.t.Fatalf("command %v should have failed but succeeded\nstdout: %s", args, stdout)
	}

	if stdout != "" {
		r.t.Fatalf("command %v failed but stdout should be empty\nstdout: %s", args, stdout)
	}

	return strings.TrimSpace(stderr)
}

// IssuesDir returns the path to the .issues directory.
func (r *CLI) IssuesDir() string {
	return filepath.Join(r.Dir, store.DirName)
}

// IssuePath returns the file of issue id, failing the test unless exactly
// one file matches.
func (r *CLI) IssuePath(id int) string {
	r.t.Helper()

	matches, err := filepath.Glob(filepath.Join(r.IssuesDir(), fmt.Sprintf("%04d-*.md", id)))
	if err != nil || len(matches) != 1 {
		r.t.Fatalf("want one file for issue %d, got %v (err=%v)", id, matches, err)
	}

	return matches[0]
}

// ReadIssue reads and returns the content of an issue file.
func (r *CLI) ReadIssue(id int) string {
	r.t.Helper()

	content, err := os.ReadFile(r.IssuePath(id))
	if err != nil {
		r.t.Fatalf("failed to read issue %d: %v", id, err)
	}

	return string(content)
}

// WriteIssueFile writes raw content to a file in the issues directory.
func (r *CLI) WriteIssueFile(name, content string) {
	r.t.Helper()

	err := os.WriteFile(filepath.Join(r.IssuesDir(), name), []byte(content), 0o600)
	if err != nil {
		r.t.Fatalf("failed to write %s: %v", name, err)
	}
}

// AssertContains fails the test if content doesn't contain substr.
func AssertContains(t *testing.T, content, substr string) {
	t.Helper()

	if !strings.Contains(content, substr) {
		t.Errorf("content should contain %q\ncontent:\n%s", substr, content)
	}
}

// AssertNotContains fails the test if content contains substr.
func AssertNotContains(t *testing.T, content, substr string) {
	t.Helper()

	if strings.Contains(content, substr) {
		t.Errorf("content should NOT contain %q\ncontent:\n%s", substr, content)
	}
}
