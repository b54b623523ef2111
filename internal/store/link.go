package store

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/calvinalkan/agent-issues/internal/issue"
)

// replaceIssueFile writes i to newPath. When the filename changed, oldPath is
// removed first. The two steps are not atomic: a failure after the remove
// leaves the issue without a file.
func replaceIssueFile(oldPath, newPath string, i issue.Issue) error {
	if oldPath != newPath {
		removeErr := os.Remove(oldPath)
		if removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			return fmt.Errorf("remove old file of issue %d: %w", i.ID, removeErr)
		}
	}

	return writeIssue(newPath, i)
}

// AddBlockedBy records that blockerID blocks id, on both issues. It is
// idempotent. ok is false if either issue does not exist.
func (s *Store) AddBlockedBy(id, blockerID int) (issue.Issue, bool, error) {
	_, found, err := s.FindIssue(blockerID)
	if err != nil || !found {
		return issue.Issue{}, false, err
	}

	return s.linkPair(id, blockerID, func(ids []int, other int) []int {
		if slices.Contains(ids, other) {
			return ids
		}

		return append(ids, other)
	})
}

// RemoveBlockedBy drops the relation between id and blockerID from both
// issues. A missing relation or a missing blocker is not an error. ok is false
// if id does not exist.
func (s *Store) RemoveBlockedBy(id, blockerID int) (issue.Issue, bool, error) {
	return s.linkPair(id, blockerID, func(ids []int, other int) []int {
		return slices.DeleteFunc(ids, func(candidate int) bool {
			return candidate == other
		})
	})
}

// linkPair applies edit to id's blocked_by and then to blockerID's blocks as
// two separate updates. A crash between them leaves the relation one-sided.
func (s *Store) linkPair(id, blockerID int, edit func(ids []int, other int) []int) (issue.Issue, bool, error) {
	updated, ok, err := s.UpdateIssue(id, func(i issue.Issue) issue.Issue {
		i.BlockedBy = edit(i.BlockedBy, blockerID)

		return i
	})
	if err != nil || !ok {
		return issue.Issue{}, ok, err
	}

	_, _, err = s.UpdateIssue(blockerID, func(i issue.Issue) issue.Issue {
		i.Blocks = edit(i.Blocks, id)

		return i
	})
	if err != nil {
		return issue.Issue{}, false, err
	}

	return updated, true, nil
}
