package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/calvinalkan/agent-issues/internal/codec"
	"github.com/calvinalkan/agent-issues/internal/issue"
)

var errNotRegularFile = errors.New("not a regular file")

// ScanResult holds the issues that parsed and the files that were skipped.
type ScanResult struct {
	Issues   []issue.Issue
	Warnings []Warning
}

type scanned struct {
	issue issue.Issue
	path  string
}

// ListIssueFiles returns the paths of all *.md files in the issues directory
// except README.md, sorted by name.
func (s *Store) ListIssueFiles() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read issues directory: %w", err)
	}

	paths := make([]string, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == ReadmeFileName || !strings.HasSuffix(name, ".md") {
			continue
		}

		paths = append(paths, filepath.Join(s.dir, name))
	}

	// os.ReadDir sorts by name already; keep the contract explicit.
	slices.Sort(paths)

	return paths, nil
}

// Scan parses every issue file. A file that cannot be parsed is reported as a
// Warning and skipped. Only failures to list the directory or read a file are
// returned as errors. Issues are sorted by id.
func (s *Store) Scan() (ScanResult, error) {
	entries, warnings, err := s.scan()
	if err != nil {
		return ScanResult{}, err
	}

	issues := make([]issue.Issue, len(entries))
	for idx, entry := range entries {
		issues[idx] = entry.issue
	}

	return ScanResult{Issues: issues, Warnings: warnings}, nil
}

// LoadAllIssues is Scan with warnings delivered to the warning handler.
func (s *Store) LoadAllIssues() ([]issue.Issue, error) {
	result, err := s.Scan()
	if err != nil {
		return nil, err
	}

	for _, warning := range result.Warnings {
		s.onWarning(warning)
	}

	return result.Issues, nil
}

// NextIssueID returns one past the highest id in the directory. Ids taken from
// the filenames of unparseable files count too, so a broken file never has its
// id handed out again.
func (s *Store) NextIssueID() (int, error) {
	entries, warnings, err := s.scan()
	if err != nil {
		return 0, err
	}

	ids := make([]int, 0, len(entries)+len(warnings))
	for _, entry := range entries {
		ids = append(ids, entry.issue.ID)
	}

	for _, warning := range warnings {
		ids = append(ids, idFromFilename(warning.Path))
	}

	return NextIDFrom(ids), nil
}

// NextIDFrom returns 1 + max(ids), or 1 for no ids.
func NextIDFrom(ids []int) int {
	if len(ids) == 0 {
		return 1
	}

	return max(slices.Max(ids), 0) + 1
}

// load is the internal scan used by mutations: warnings go to the handler and
// each issue keeps the path it was read from.
func (s *Store) load() ([]scanned, error) {
	entries, warnings, err := s.scan()
	if err != nil {
		return nil, err
	}

	for _, warning := range warnings {
		s.onWarning(warning)
	}

	return entries, nil
}

func (s *Store) scan() ([]scanned, []Warning, error) {
	paths, err := s.ListIssueFiles()
	if err != nil {
		return nil, nil, err
	}

	entries := make([]scanned, 0, len(paths))

	var warnings []Warning

	for _, path := range paths {
		parsed, parseErr := parseFile(path)
		if parseErr != nil {
			if isFatal(parseErr) {
				return nil, nil, parseErr
			}

			warnings = append(warnings, Warning{Path: path, Err: parseErr})

			continue
		}

		entries = append(entries, scanned{issue: parsed, path: path})
	}

	slices.SortStableFunc(entries, func(a, b scanned) int {
		return a.issue.ID - b.issue.ID
	})

	return entries, warnings, nil
}

func parseFile(path string) (issue.Issue, error) {
	info, err := os.Stat(path)
	if err != nil {
		return issue.Issue{}, fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.Mode().IsRegular() {
		return issue.Issue{}, errNotRegularFile
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return issue.Issue{}, fmt.Errorf("read %s: %w", path, err)
	}

	return codec.Parse(content, idFromFilename(path), info.ModTime().UTC())
}

// isFatal separates I/O failures, which abort a scan, from content problems,
// which only skip the file.
func isFatal(err error) bool {
	return errors.Is(err, os.ErrPermission) || (errors.As(err, new(*os.PathError)) && !errors.Is(err, os.ErrNotExist))
}

// idFromFilename returns the leading digits of the file name, or 0.
func idFromFilename(path string) int {
	name := filepath.Base(path)

	end := 0
	for end < len(name) && name[end] >= '0' && name[end] <= '9' {
		end++
	}

	id, err := strconv.Atoi(name[:end])
	if err != nil {
		return 0
	}

	return id
}
