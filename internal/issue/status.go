package issue

import "fmt"

// Status is the lifecycle state of an issue.
type Status uint8

// Status values. The zero value is StatusOpen.
const (
	StatusOpen Status = iota
	StatusInProgress
	StatusClosed
)

var statusTokens = [...]string{
	StatusOpen:       "open",
	StatusInProgress: "in-progress",
	StatusClosed:     "closed",
}

// Statuses lists every status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusOpen, StatusInProgress, StatusClosed}
}

func (s Status) String() string {
	if int(s) < len(statusTokens) {
		return statusTokens[s]
	}

	return fmt.Sprintf("Status(%d)", uint8(s))
}

// ParseStatus returns the status for token. ok is false for unknown tokens.
func ParseStatus(token string) (Status, bool) {
	for idx, candidate := range statusTokens {
		if candidate == token {
			return Status(idx), true
		}
	}

	return StatusOpen, false
}

// StatusOrDefault parses token, falling back to StatusOpen.
func StatusOrDefault(token string) Status {
	s, _ := ParseStatus(token)

	return s
}

// MarshalText encodes the status as its file token.
func (s Status) MarshalText() ([]byte, error) {
	if int(s) >= len(statusTokens) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, uint8(s))
	}

	return []byte(statusTokens[s]), nil
}

// UnmarshalText decodes a file token. Unlike StatusOrDefault it rejects unknown tokens.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, ok := ParseStatus(string(text))
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, text)
	}

	*s = parsed

	return nil
}
