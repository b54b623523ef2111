package store

import (
	"strings"

	"github.com/calvinalkan/agent-issues/internal/issue"
)

// Filter selects issues for ListIssues. Zero values match everything except
// the status: without Status or IncludeAll only open and in-progress issues
// are kept.
type Filter struct {
	Status      *issue.Status
	IncludeAll  bool
	BlockedOnly bool
	Label       string
	Assignee    string
	Project     string
}

func (f Filter) matches(i issue.Issue) bool {
	switch {
	case f.Status != nil:
		if i.Status != *f.Status {
			return false
		}
	case !f.IncludeAll:
		if i.Status == issue.StatusClosed {
			return false
		}
	}

	if f.Label != "" && !i.HasLabel(f.Label) {
		return false
	}

	if f.Assignee != "" && issue.Value(i.Assignee) != f.Assignee {
		return false
	}

	if f.Project != "" && issue.Value(i.Project) != f.Project {
		return false
	}

	if f.BlockedOnly && !i.IsBlocked() {
		return false
	}

	return true
}

// FilterIssues returns the issues matching filter, in input order.
func FilterIssues(issues []issue.Issue, filter Filter) []issue.Issue {
	out := make([]issue.Issue, 0, len(issues))

	for _, i := range issues {
		if filter.matches(i) {
			out = append(out, i)
		}
	}

	return out
}

// ListIssues loads the directory and applies filter.
func (s *Store) ListIssues(filter Filter) ([]issue.Issue, error) {
	issues, err := s.LoadAllIssues()
	if err != nil {
		return nil, err
	}

	return FilterIssues(issues, filter), nil
}

// SearchIssuesIn returns the issues whose title, description or any progress
// message contains query, ignoring case. A blank query matches nothing.
func SearchIssuesIn(issues []issue.Issue, query string) []issue.Issue {
	needle := strings.ToLower(strings.TrimSpace(query))

	out := []issue.Issue{}
	if needle == "" {
		return out
	}

	for _, i := range issues {
		if matchesText(i, needle) {
			out = append(out, i)
		}
	}

	return out
}

// SearchIssues loads the directory and searches all issues regardless of status.
func (s *Store) SearchIssues(query string) ([]issue.Issue, error) {
	issues, err := s.LoadAllIssues()
	if err != nil {
		return nil, err
	}

	return SearchIssuesIn(issues, query), nil
}

func matchesText(i issue.Issue, needle string) bool {
	if strings.Contains(strings.ToLower(i.Title), needle) || strings.Contains(strings.ToLower(i.Description), needle) {
		return true
	}

	for _, entry := range i.Progress {
		if strings.Contains(strings.ToLower(entry.Message), needle) {
			return true
		}
	}

	return false
}
