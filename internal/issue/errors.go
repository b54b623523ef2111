package issue

import "errors"

// Errors returned by the strict enum decoders.
var (
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")
)
