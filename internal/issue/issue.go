// Package issue defines the issue record stored in each markdown file and the
// predicates front ends evaluate over a loaded issue set.
package issue

import (
	"encoding/json"
	"slices"
	"time"
)

// ProgressEntry is one line of an issue's progress log. Timestamp is kept
// verbatim as written in the file.
type ProgressEntry struct {
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}

// Issue is a single tracked issue.
type Issue struct {
	ID       int       `json:"id"`
	Title    string    `json:"title"`
	Status   Status    `json:"status"`
	Priority Priority  `json:"priority"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`

	// Labels is treated as a set; order is preserved for stable output.
	Labels []string `json:"labels"`

	// Optional fields: nil means not set.
	Assignee *string `json:"assignee,omitempty"`
	Project  *string `json:"project,omitempty"`

	Blocks    []int `json:"blocks"`
	BlockedBy []int `json:"blocked_by"`

	Description string          `json:"description"`
	Progress    []ProgressEntry `json:"progress"`
}

// StringPtr returns a pointer to s. Helper for optional fields.
func StringPtr(s string) *string {
	return &s
}

// Value returns the pointed-to string, or "" for nil.
func Value(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// Clone returns a deep copy so transforms cannot alias the caller's slices.
func (i Issue) Clone() Issue {
	out := i
	out.Labels = slices.Clone(i.Labels)
	out.Blocks = slices.Clone(i.Blocks)
	out.BlockedBy = slices.Clone(i.BlockedBy)
	out.Progress = slices.Clone(i.Progress)

	if i.Assignee != nil {
		out.Assignee = StringPtr(*i.Assignee)
	}

	if i.Project != nil {
		out.Project = StringPtr(*i.Project)
	}

	return out
}

// HasLabel reports whether label is in the issue's label set.
func (i Issue) HasLabel(label string) bool {
	return slices.Contains(i.Labels, label)
}

// IsBlocked reports whether the issue lists any blocker, regardless of the
// blocker's state.
func (i Issue) IsBlocked() bool {
	return len(i.BlockedBy) > 0
}

// IsEffectivelyBlocked reports whether any blocker of i is present in all and
// not closed. Blocker ids missing from all do not block.
func IsEffectivelyBlocked(i Issue, all []Issue) bool {
	if len(i.BlockedBy) == 0 {
		return false
	}

	byID := make(map[int]Status, len(all))
	for _, other := range all {
		byID[other.ID] = other.Status
	}

	for _, blockerID := range i.BlockedBy {
		status, ok := byID[blockerID]
		if ok && status != StatusClosed {
			return true
		}
	}

	return false
}

// Ready returns the issues in all that are not closed and not effectively
// blocked, highest priority first, then by id.
func Ready(all []Issue) []Issue {
	ready := make([]Issue, 0, len(all))

	for _, candidate := range all {
		if candidate.Status == StatusClosed {
			continue
		}

		if IsEffectivelyBlocked(candidate, all) {
			continue
		}

		ready = append(ready, candidate)
	}

	slices.SortStableFunc(ready, func(a, b Issue) int {
		if c := b.Priority.Compare(a.Priority); c != 0 {
			return c
		}

		return a.ID - b.ID
	})

	return ready
}

// MarshalJSON encodes list fields as arrays even when they are nil.
func (i Issue) MarshalJSON() ([]byte, error) {
	type plain Issue

	out := plain(i)
	if out.Labels == nil {
		out.Labels = []string{}
	}

	if out.Blocks == nil {
		out.Blocks = []int{}
	}

	if out.BlockedBy == nil {
		out.BlockedBy = []int{}
	}

	if out.Progress == nil {
		out.Progress = []ProgressEntry{}
	}

	return json.Marshal(out)
}
