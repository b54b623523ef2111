package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

const readme = `# Issues

Each issue is one markdown file named <id>-<slug>.md, for example
0004-fix-the-parser.md. The file starts with a frontmatter block:

    ---
    id: 4
    title: Fix the parser
    status: open            # open | in-progress | closed
    priority: medium        # low | medium | high | critical
    created: 2026-01-01T10:00:00Z
    updated: 2026-01-01T10:00:00Z
    labels: [bug, parser]
    assignee: null
    project: null
    blocks: []
    blocked_by: [1, 2]
    ---

followed by a body:

    # Fix the parser

    ## Description
    Free text.

    ## Progress
    - [2026-01-01T10:00:00Z] Started work

Files may be edited by hand. index.jsonl is reserved and never read.
`

// Init creates the issues directory dir with an empty index.jsonl and a
// README.md describing the file format. It fails with ErrAlreadyInitialized if
// dir exists.
func Init(dir string, opts ...Option) (*Store, error) {
	_, statErr := os.Stat(dir)
	if statErr == nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyInitialized, dir)
	}

	if !errors.Is(statErr, os.ErrNotExist) {
		return nil, fmt.Errorf("stat %s: %w", dir, statErr)
	}

	mkdirErr := os.MkdirAll(dir, dirPerms)
	if mkdirErr != nil {
		return nil, fmt.Errorf("create issues directory: %w", mkdirErr)
	}

	for name, content := range map[string]string{IndexFileName: "", ReadmeFileName: readme} {
		path := filepath.Join(dir, name)

		writeErr := atomic.WriteFile(path, strings.NewReader(content))
		if writeErr != nil {
			return nil, fmt.Errorf("write %s: %w", name, writeErr)
		}

		chmodErr := os.Chmod(path, filePerms)
		if chmodErr != nil {
			return nil, fmt.Errorf("set permissions on %s: %w", path, chmodErr)
		}
	}

	return New(dir, opts...), nil
}

// FindDir walks from start up to the filesystem root and returns the first
// DirName directory it finds.
func FindDir(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", start, err)
	}

	dir := abs

	for {
		candidate := filepath.Join(dir, DirName)

		info, statErr := os.Stat(candidate)
		if statErr == nil && info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w (searched from %s to /)", ErrNotFound, abs)
		}

		dir = parent
	}
}
