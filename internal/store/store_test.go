package store_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/agent-issues/internal/codec"
	"github.com/calvinalkan/agent-issues/internal/frontmatter"
	"github.com/calvinalkan/agent-issues/internal/issue"
	"github.com/calvinalkan/agent-issues/internal/store"
)

var fixedNow = time.Date(2026, 3, 4, 5, 6, 7, 890, time.UTC)

func newStore(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()

	opts = append([]store.Option{store.WithClock(func() time.Time { return fixedNow })}, opts...)

	s, err := store.Init(filepath.Join(t.TempDir(), store.DirName), opts...)
	require.NoError(t, err)

	return s
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func writeIssue(t *testing.T, s *store.Store, i issue.Issue) {
	t.Helper()

	if i.Created.IsZero() {
		i.Created = fixedNow.Truncate(time.Second)
		i.Updated = i.Created
	}

	writeFile(t, s.Dir(), i.Filename(), codec.Marshal(i))
}

func mustCreate(t *testing.T, s *store.Store, title string) issue.Issue {
	t.Helper()

	created, err := s.CreateIssue(store.NewIssue{Title: title})
	require.NoError(t, err)

	return created
}

func mustFind(t *testing.T, s *store.Store, id int) issue.Issue {
	t.Helper()

	found, ok, err := s.FindIssue(id)
	require.NoError(t, err)
	require.True(t, ok, "issue %d not found", id)

	return found
}

func fileNames(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return names
}

func ids(issues []issue.Issue) []int {
	out := make([]int, len(issues))
	for idx, i := range issues {
		out[idx] = i.ID
	}

	return out
}

func Test_Init_Creates_Index_And_Readme(t *testing.T) {
	t.Parallel()

	s := newStore(t)

	assert.ElementsMatch(t, []string{store.IndexFileName, store.ReadmeFileName}, fileNames(t, s.Dir()))

	index, err := os.ReadFile(filepath.Join(s.Dir(), store.IndexFileName))
	require.NoError(t, err)
	assert.Empty(t, index)

	issues, err := s.LoadAllIssues()
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func Test_Init_Fails_When_Directory_Exists(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), store.DirName)
	require.NoError(t, os.Mkdir(dir, 0o750))

	_, err := store.Init(dir)
	require.ErrorIs(t, err, store.ErrAlreadyInitialized)
}

func Test_FindDir_Walks_Up_From_Nested_Directory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	issuesDir := filepath.Join(root, store.DirName)
	nested := filepath.Join(root, "a", "b")

	require.NoError(t, os.Mkdir(issuesDir, 0o750))
	require.NoError(t, os.MkdirAll(nested, 0o750))

	got, err := store.FindDir(nested)
	require.NoError(t, err)

	if got != issuesDir {
		t.Fatalf("dir=%q, want=%q", got, issuesDir)
	}
}

func Test_FindDir_Returns_ErrNotFound_When_Missing(t *testing.T) {
	t.Parallel()

	_, err := store.FindDir(t.TempDir())
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func Test_NextIDFrom(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		ids  []int
		want int
	}{
		{ids: nil, want: 1},
		{ids: []int{3, 7, 2}, want: 8},
		{ids: []int{1}, want: 2},
		{ids: []int{0}, want: 1},
	} {
		if got := store.NextIDFrom(tt.ids); got != tt.want {
			t.Errorf("NextIDFrom(%v)=%d, want=%d", tt.ids, got, tt.want)
		}
	}
}

func Test_NextIssueID_Counts_Ids_Of_Unparseable_Files(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	mustCreate(t, s, "one")
	writeFile(t, s.Dir(), "0009-broken.md", "no frontmatter here\n")

	next, err := s.NextIssueID()
	require.NoError(t, err)
	assert.Equal(t, 10, next)
}

func Test_CreateIssue_Uses_Default_Priority_When_Unset(t *testing.T) {
	t.Parallel()

	s := newStore(t)

	created, err := s.CreateIssue(store.NewIssue{Title: "x"})
	require.NoError(t, err)

	assert.Equal(t, issue.DefaultPriority, created.Priority)
	assert.Equal(t, issue.PriorityMedium, mustFind(t, s, created.ID).Priority)
}

func Test_CreateIssue_Writes_File_And_Allocates_Ids(t *testing.T) {
	t.Parallel()

	s := newStore(t)

	first, err := s.CreateIssue(store.NewIssue{
		Title:       "Fix the parser",
		Description: "  trailing space  \n",
		Priority:    issue.PriorityPtr(issue.PriorityHigh),
		Labels:      []string{"bug", "parser", "bug", " "},
		Assignee:    issue.StringPtr("ada"),
	})
	require.NoError(t, err)

	second := mustCreate(t, s, "Second")

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, issue.StatusOpen, first.Status)
	assert.Equal(t, []string{"bug", "parser"}, first.Labels)
	assert.Equal(t, "trailing space", first.Description)
	assert.True(t, first.Created.Equal(fixedNow.Truncate(time.Second)), "created=%s", first.Created)
	assert.Equal(t, first.Created, first.Updated)

	_, statErr := os.Stat(filepath.Join(s.Dir(), "0001-fix-the-parser.md"))
	require.NoError(t, statErr)

	if diff := cmp.Diff(first, mustFind(t, s, 1)); diff != "" {
		t.Fatalf("reloaded issue mismatch (-want +got):\n%s", diff)
	}
}

func Test_UpdateIssue_Renames_File_When_Title_Changes(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	writeIssue(t, s, issue.Issue{
		ID: 4, Title: "Foo", Priority: issue.PriorityHigh,
		Labels: []string{"x"}, Blocks: []int{}, BlockedBy: []int{2},
		Description: "keep me",
	})

	later := fixedNow.Add(time.Hour)
	s = store.New(s.Dir(), store.WithClock(func() time.Time { return later }))

	updated, ok, err := s.UpdateIssue(4, func(i issue.Issue) issue.Issue {
		i.Title = "Bar"
		i.ID = 99

		return i
	})
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 4, updated.ID)
	assert.True(t, updated.Updated.Equal(later.Truncate(time.Second)), "updated=%s", updated.Updated)
	assert.NotContains(t, fileNames(t, s.Dir()), "0004-foo.md")
	assert.Contains(t, fileNames(t, s.Dir()), "0004-bar.md")

	reloaded := mustFind(t, s, 4)
	assert.Equal(t, "Bar", reloaded.Title)
	assert.Equal(t, issue.PriorityHigh, reloaded.Priority)
	assert.Equal(t, []string{"x"}, reloaded.Labels)
	assert.Equal(t, []int{2}, reloaded.BlockedBy)
	assert.Equal(t, "keep me", reloaded.Description)
}

func Test_UpdateIssue_Returns_Absent_When_Id_Missing(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	called := false

	_, ok, err := s.UpdateIssue(3, func(i issue.Issue) issue.Issue {
		called = true

		return i
	})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, called)
}

func Test_LoadAllIssues_Skips_Bad_File_With_Warning(t *testing.T) {
	t.Parallel()

	var warnings []store.Warning

	s := newStore(t, store.WithWarningHandler(func(w store.Warning) {
		warnings = append(warnings, w)
	}))

	mustCreate(t, s, "good")
	writeFile(t, s.Dir(), "0002-bad.md", "---\nid: 2\ntitle: never closed\n")
	writeFile(t, s.Dir(), "notes.txt", "ignored")

	issues, err := s.LoadAllIssues()
	require.NoError(t, err)

	assert.Equal(t, []int{1}, ids(issues))
	require.Len(t, warnings, 1)
	assert.Equal(t, "0002-bad.md", filepath.Base(warnings[0].Path))

	var parseErr *frontmatter.ParseError
	require.True(t, errors.As(warnings[0].Err, &parseErr), "err=%v", warnings[0].Err)
	assert.Contains(t, warnings[0].String(), "missing closing delimiter")
}

func Test_ListIssueFiles_Excludes_Readme(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	mustCreate(t, s, "b")
	mustCreate(t, s, "a")

	paths, err := s.ListIssueFiles()
	require.NoError(t, err)

	names := make([]string, len(paths))
	for idx, path := range paths {
		names[idx] = filepath.Base(path)
	}

	assert.Equal(t, []string{"0001-b.md", "0002-a.md"}, names)
}

func Test_Scan_Uses_Filename_And_Mtime_As_Defaults(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	writeFile(t, s.Dir(), "0012-hand-written.md", "---\ntitle: Hand written\n---\n\n# Hand written\n")

	mtime := time.Date(2025, 5, 5, 5, 5, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(filepath.Join(s.Dir(), "0012-hand-written.md"), mtime, mtime))

	result, err := s.Scan()
	require.NoError(t, err)
	require.Len(t, result.Issues, 1)
	assert.Empty(t, result.Warnings)

	got := result.Issues[0]
	assert.Equal(t, 12, got.ID)
	assert.True(t, got.Created.Equal(mtime), "created=%s", got.Created)
}

func Test_Scan_Sorts_By_Id_Not_Filename(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	writeFile(t, s.Dir(), "a.md", "---\nid: 20\ntitle: a\n---\n")
	writeFile(t, s.Dir(), "b.md", "---\nid: 3\ntitle: b\n---\n")

	issues, err := s.LoadAllIssues()
	require.NoError(t, err)
	assert.Equal(t, []int{3, 20}, ids(issues))
}

func Test_AddBlockedBy_Links_Both_Sides_Idempotently(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	mustCreate(t, s, "blocked")
	mustCreate(t, s, "blocker")

	for range 2 {
		got, ok, err := s.AddBlockedBy(1, 2)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []int{2}, got.BlockedBy)
	}

	assert.Equal(t, []int{2}, mustFind(t, s, 1).BlockedBy)
	assert.Equal(t, []int{1}, mustFind(t, s, 2).Blocks)
}

func Test_AddBlockedBy_Returns_Absent_When_Either_Side_Missing(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	mustCreate(t, s, "only")

	_, ok, err := s.AddBlockedBy(1, 5)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, mustFind(t, s, 1).BlockedBy)

	_, ok, err = s.AddBlockedBy(5, 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, mustFind(t, s, 1).Blocks)
}

func Test_RemoveBlockedBy_Unlinks_Both_Sides(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	mustCreate(t, s, "blocked")
	mustCreate(t, s, "blocker")
	mustCreate(t, s, "other")

	_, _, err := s.AddBlockedBy(1, 2)
	require.NoError(t, err)
	_, _, err = s.AddBlockedBy(1, 3)
	require.NoError(t, err)

	got, ok, err := s.RemoveBlockedBy(1, 2)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, []int{3}, got.BlockedBy)
	assert.Empty(t, mustFind(t, s, 2).Blocks)
	assert.Equal(t, []int{1}, mustFind(t, s, 3).Blocks)

	_, ok, err = s.RemoveBlockedBy(1, 2)
	require.NoError(t, err)
	assert.True(t, ok, "removing a missing relation is not an error")
}

func Test_FilterIssues(t *testing.T) {
	t.Parallel()

	closed := issue.StatusClosed
	all := []issue.Issue{
		{ID: 1, Status: issue.StatusOpen, Labels: []string{"bug"}, Assignee: issue.StringPtr("ada")},
		{ID: 2, Status: issue.StatusInProgress, Project: issue.StringPtr("core"), BlockedBy: []int{1}},
		{ID: 3, Status: issue.StatusClosed, Labels: []string{"bug"}},
	}

	for _, tt := range []struct {
		name   string
		filter store.Filter
		want   []int
	}{
		{name: "default hides closed", filter: store.Filter{}, want: []int{1, 2}},
		{name: "include all", filter: store.Filter{IncludeAll: true}, want: []int{1, 2, 3}},
		{name: "explicit status", filter: store.Filter{Status: &closed}, want: []int{3}},
		{name: "label", filter: store.Filter{Label: "bug", IncludeAll: true}, want: []int{1, 3}},
		{name: "assignee", filter: store.Filter{Assignee: "ada"}, want: []int{1}},
		{name: "project", filter: store.Filter{Project: "core"}, want: []int{2}},
		{name: "blocked only", filter: store.Filter{BlockedOnly: true}, want: []int{2}},
		{name: "no match", filter: store.Filter{Assignee: "nobody"}, want: []int{}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, ids(store.FilterIssues(all, tt.filter))); diff != "" {
				t.Fatalf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_SearchIssuesIn(t *testing.T) {
	t.Parallel()

	all := []issue.Issue{
		{ID: 1, Title: "Fix the Parser"},
		{ID: 2, Title: "Docs", Description: "explain PARSER errors"},
		{ID: 3, Title: "Log", Progress: []issue.ProgressEntry{{Timestamp: "t", Message: "rewrote parser loop"}}},
		{ID: 4, Title: "Unrelated", Labels: []string{"parser"}},
	}

	assert.Equal(t, []int{1, 2, 3}, ids(store.SearchIssuesIn(all, "  parser ")))
	assert.Empty(t, store.SearchIssuesIn(all, ""))
	assert.Empty(t, store.SearchIssuesIn(all, "   "))
	assert.Empty(t, store.SearchIssuesIn(all, "missing"))
}

func Test_SearchIssues_Includes_Closed(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	mustCreate(t, s, "parser one")

	_, _, err := s.UpdateIssue(1, func(i issue.Issue) issue.Issue {
		i.Status = issue.StatusClosed

		return i
	})
	require.NoError(t, err)

	found, err := s.SearchIssues("PARSER")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids(found))
}

func Test_DeleteIssue_Removes_File(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	mustCreate(t, s, "doomed")

	ok, err := s.DeleteIssue(1)
	require.NoError(t, err)
	assert.True(t, ok)

	for _, name := range fileNames(t, s.Dir()) {
		assert.False(t, strings.HasPrefix(name, "0001-"), "file %s still present", name)
	}

	ok, err = s.DeleteIssue(1)
	require.NoError(t, err)
	assert.False(t, ok)
}
