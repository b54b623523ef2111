// Package store keeps issues as one markdown file each inside an issues
// directory. There is no index: every call rescans the directory, so the files
// are always the source of truth and can be edited by hand between calls.
//
// Writes that touch two files (renaming an issue, linking two issues) are
// independent steps. A crash in between leaves the directory half-updated;
// nothing detects or repairs that.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/calvinalkan/agent-issues/internal/codec"
	"github.com/calvinalkan/agent-issues/internal/issue"
)

// DirName is the issues directory created by Init and searched for by FindDir.
const DirName = ".issues"

// Files inside the issues directory that are not issues.
const (
	IndexFileName  = "index.jsonl"
	ReadmeFileName = "README.md"
)

const (
	dirPerms  = 0o750
	filePerms = 0o600
)

// Store is bound to a single issues directory and holds no issue state.
type Store struct {
	dir       string
	now       func() time.Time
	onWarning func(Warning)
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now for created/updated stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithWarningHandler receives every file skipped by LoadAllIssues and the
// operations built on it. The default discards them.
func WithWarningHandler(fn func(Warning)) Option {
	return func(s *Store) {
		s.onWarning = fn
	}
}

// New returns a Store for dir. The directory is not touched until the first call.
func New(dir string, opts ...Option) *Store {
	s := &Store{
		dir:       filepath.Clean(dir),
		now:       time.Now,
		onWarning: func(Warning) {},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Dir returns the issues directory.
func (s *Store) Dir() string {
	return s.dir
}

// stamp is the current time at file precision, so a returned issue equals
// what a later read produces.
func (s *Store) stamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

// NewIssue holds the caller-supplied fields of CreateIssue. Title must be
// non-empty; validating the rest is up to the caller. A nil Priority means
// issue.DefaultPriority.
type NewIssue struct {
	Title       string
	Description string
	Priority    *issue.Priority
	Labels      []string
	Assignee    *string
	Project     *string
}

// CreateIssue allocates the next id, stamps created and updated, and writes
// the issue file.
func (s *Store) CreateIssue(in NewIssue) (issue.Issue, error) {
	id, err := s.NextIssueID()
	if err != nil {
		return issue.Issue{}, err
	}

	now := s.stamp()

	priority := issue.DefaultPriority
	if in.Priority != nil {
		priority = *in.Priority
	}

	created := issue.Issue{
		ID:          id,
		Title:       in.Title,
		Status:      issue.StatusOpen,
		Priority:    priority,
		Created:     now,
		Updated:     now,
		Labels:      uniqueLabels(in.Labels),
		Assignee:    in.Assignee,
		Project:     in.Project,
		Blocks:      []int{},
		BlockedBy:   []int{},
		Description: strings.TrimSpace(in.Description),
	}

	err = writeIssue(filepath.Join(s.dir, created.Filename()), created)
	if err != nil {
		return issue.Issue{}, err
	}

	return created, nil
}

// FindIssue returns the issue with id. ok is false if no file has that id.
func (s *Store) FindIssue(id int) (issue.Issue, bool, error) {
	found, ok, err := s.locate(id)
	if err != nil || !ok {
		return issue.Issue{}, ok, err
	}

	return found.issue, true, nil
}

// UpdateIssue reloads the directory, applies transform to a copy of issue id,
// refreshes updated and writes the result. If the title change moves the
// file, the old file is removed before the new one is written. ok is false if
// id does not exist.
func (s *Store) UpdateIssue(id int, transform func(issue.Issue) issue.Issue) (issue.Issue, bool, error) {
	target, ok, err := s.locate(id)
	if err != nil || !ok {
		return issue.Issue{}, ok, err
	}

	next := transform(target.issue.Clone())
	next.ID = id
	next.Updated = s.stamp()

	err = replaceIssueFile(target.path, filepath.Join(s.dir, next.Filename()), next)
	if err != nil {
		return issue.Issue{}, false, err
	}

	return next, true, nil
}

// DeleteIssue removes the file of issue id. It returns false if id does not exist.
func (s *Store) DeleteIssue(id int) (bool, error) {
	target, ok, err := s.locate(id)
	if err != nil || !ok {
		return false, err
	}

	err = os.Remove(target.path)
	if err != nil {
		return false, fmt.Errorf("delete issue %d: %w", id, err)
	}

	return true, nil
}

func (s *Store) locate(id int) (scanned, bool, error) {
	entries, err := s.load()
	if err != nil {
		return scanned{}, false, err
	}

	for _, entry := range entries {
		if entry.issue.ID == id {
			return entry, true, nil
		}
	}

	return scanned{}, false, nil
}

func uniqueLabels(labels []string) []string {
	out := make([]string, 0, len(labels))

	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" || contains(out, label) {
			continue
		}

		out = append(out, label)
	}

	return out
}

func contains[T comparable](items []T, item T) bool {
	for _, candidate := range items {
		if candidate == item {
			return true
		}
	}

	return false
}

// writeIssue replaces path atomically with the serialized issue.
func writeIssue(path string, i issue.Issue) error {
	err := atomic.WriteFile(path, strings.NewReader(codec.Marshal(i)))
	if err != nil {
		return fmt.Errorf("write issue %d: %w", i.ID, err)
	}

	// atomic.WriteFile keeps the temp file's mode for new files.
	err = os.Chmod(path, filePerms)
	if err != nil {
		return fmt.Errorf("set permissions on %s: %w", path, err)
	}

	return nil
}
