package issue

import (
	"cmp"
	"fmt"
)

// Priority is ordered: PriorityLow < PriorityMedium < PriorityHigh < PriorityCritical.
type Priority uint8

// Priority values in ascending order.
const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

// DefaultPriority is used when a file has no usable priority token.
const DefaultPriority = PriorityMedium

var priorityTokens = [...]string{
	PriorityLow:      "low",
	PriorityMedium:   "medium",
	PriorityHigh:     "high",
	PriorityCritical: "critical",
}

// Priorities lists every priority from lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

func (p Priority) String() string {
	if int(p) < len(priorityTokens) {
		return priorityTokens[p]
	}

	return fmt.Sprintf("Priority(%d)", uint8(p))
}

// Compare returns -1, 0 or +1 as p is lower than, equal to or higher than other.
func (p Priority) Compare(other Priority) int {
	return cmp.Compare(p, other)
}

// ParsePriority returns the priority for token. ok is false for unknown tokens.
func ParsePriority(token string) (Priority, bool) {
	for idx, candidate := range priorityTokens {
		if candidate == token {
			return Priority(idx), true
		}
	}

	return DefaultPriority, false
}

// PriorityPtr returns a pointer to p.
func PriorityPtr(p Priority) *Priority {
	return &p
}

// PriorityOrDefault parses token, falling back to DefaultPriority.
func PriorityOrDefault(token string) Priority {
	p, _ := ParsePriority(token)

	return p
}

// MarshalText encodes the priority as its file token.
func (p Priority) MarshalText() ([]byte, error) {
	if int(p) >= len(priorityTokens) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPriority, uint8(p))
	}

	return []byte(priorityTokens[p]), nil
}

// UnmarshalText decodes a file token, rejecting unknown tokens.
func (p *Priority) UnmarshalText(text []byte) error {
	parsed, ok := ParsePriority(string(text))
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, text)
	}

	*p = parsed

	return nil
}
