package cli

import "errors"

// Error variables for CLI commands.
var (
	ErrIssueNotFound      = errors.New("issue not found")
	ErrIDRequired         = errors.New("issue ID is required")
	ErrInvalidID          = errors.New("invalid issue ID")
	ErrBlockerIDRequired  = errors.New("blocker ID is required")
	ErrCannotBlockSelf    = errors.New("issue cannot block itself")
	ErrAlreadyBlockedBy   = errors.New("issue is already blocked by")
	ErrNotBlockedBy       = errors.New("issue is not blocked by")
	ErrTitleRequired      = errors.New("title is required")
	ErrMessageRequired    = errors.New("progress message is required")
	ErrQueryRequired      = errors.New("search query is required")
	ErrEmptyValue         = errors.New("empty value not allowed")
	ErrNothingToUpdate    = errors.New("no fields to update")
	ErrAlreadyInProgress  = errors.New("issue is already in progress")
	ErrAlreadyClosed      = errors.New("issue is already closed")
	ErrNotClosed          = errors.New("issue is not closed")
	ErrFormatConflict     = errors.New("--json and --compact cannot be used together")
	ErrFlagRequiresArg    = errors.New("flag requires an argument")
	ErrUnknownFlag        = errors.New("unknown flag")
	ErrUnknownCommand     = errors.New("unknown command")
	ErrIssuesDirMissing   = errors.New("issues directory does not exist")
	ErrWatchNeedsTextMode = errors.New("--watch cannot be combined with --json or --compact")
)
