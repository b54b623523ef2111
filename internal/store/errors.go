package store

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that no issues directory exists between the start
// directory and the filesystem root.
var ErrNotFound = errors.New("no issues directory found")

// ErrAlreadyInitialized reports that Init found an existing issues directory.
var ErrAlreadyInitialized = errors.New("issues directory already exists")

// Warning describes an issue file that was skipped during a directory scan.
type Warning struct {
	Path string
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %v", w.Path, w.Err)
}
