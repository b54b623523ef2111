package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/agent-issues/internal/cli"
)

func seedIssues(t *testing.T) *cli.CLI {
	t.Helper()

	c := cli.NewInitializedCLI(t)
	c.MustRun("create", "Parser bug", "-l", "bug", "-a", "ada")
	c.MustRun("create", "Docs", "--project", "site")
	c.MustRun("create", "Old thing")
	c.MustRun("start", "2")
	c.MustRun("close", "3")
	c.MustRun("block", "2", "1")

	return c
}

func TestLsFilters(t *testing.T) {
	t.Parallel()

	c := seedIssues(t)

	for _, tt := range []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{name: "default hides closed", args: nil, want: []string{"#1", "#2"}, notWant: []string{"#3"}},
		{name: "all", args: []string{"--all"}, want: []string{"#1", "#2", "#3"}},
		{name: "status", args: []string{"--status", "closed"}, want: []string{"#3"}, notWant: []string{"#1", "#2"}},
		{name: "label", args: []string{"--label", "bug"}, want: []string{"#1"}, notWant: []string{"#2"}},
		{name: "assignee", args: []string{"--assignee", "ada"}, want: []string{"#1"}, notWant: []string{"#2"}},
		{name: "project", args: []string{"--project", "site"}, want: []string{"#2"}, notWant: []string{"#1"}},
		{name: "blocked", args: []string{"--blocked"}, want: []string{"#2"}, notWant: []string{"#1"}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stdout, stderr, code := c.Run(append([]string{"ls"}, tt.args...)...)
			if code != 0 {
				t.Fatalf("exit=%d stderr=%s", code, stderr)
			}

			for _, s := range tt.want {
				cli.AssertContains(t, stdout, s+" [")
			}

			for _, s := range tt.notWant {
				cli.AssertNotContains(t, stdout, s+" [")
			}
		})
	}
}

func TestLsLineFormat(t *testing.T) {
	t.Parallel()

	c := seedIssues(t)
	lines := strings.Split(c.MustRun("ls"), "\n")

	require.Len(t, lines, 2)
	assert.Equal(t, "#1 [open] [medium] Parser bug {bug}", lines[0])
	assert.Equal(t, "#2 [in-progress] [medium] Docs <- blocked-by: [#1]", lines[1])
}

func TestLsRejectsInvalidStatus(t *testing.T) {
	t.Parallel()

	c := seedIssues(t)
	stderr := c.MustFail("ls", "--status", "done")

	cli.AssertContains(t, stderr, "invalid status")
}

func TestLsJSONOutput(t *testing.T) {
	t.Parallel()

	c := seedIssues(t)

	indented := c.MustRun("ls", "--json")
	compact := c.MustRun("ls", "--compact")

	assert.Contains(t, indented, "\n  {")
	assert.NotContains(t, compact, "\n")

	var got []struct {
		ID        int    `json:"id"`
		Status    string `json:"status"`
		BlockedBy []int  `json:"blocked_by"`
	}

	require.NoError(t, json.Unmarshal([]byte(compact), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "in-progress", got[1].Status)
	assert.Equal(t, []int{1}, got[1].BlockedBy)

	empty := c.MustRun("ls", "--status", "open", "--label", "none", "--json")
	assert.Equal(t, "[]", empty)
}

// syncBuffer is written by the watch loop while the test reads it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestLsWatchRelistsUntilInterrupted(t *testing.T) {
	t.Parallel()

	c := cli.NewInitializedCLI(t)
	c.MustRun("create", "First")

	var stdout, stderr syncBuffer

	sigCh := make(chan os.Signal, 1)
	done := make(chan int, 1)

	go func() {
		done <- cli.Run(nil, &stdout, &stderr, []string{"issues", "--cwd", c.Dir, "ls", "--watch"}, c.Env, sigCh)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(stderr.String(), "Watching for changes")
	}, 5*time.Second, 10*time.Millisecond)

	cli.AssertContains(t, stdout.String(), "First")

	c.MustRun("create", "Second")

	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "Second")
	}, 5*time.Second, 20*time.Millisecond)

	sigCh <- os.Interrupt

	select {
	case code := <-done:
		assert.Equal(t, 0, code)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after interrupt")
	}

	cli.AssertContains(t, stderr.String(), "Stopped watching.")
}
