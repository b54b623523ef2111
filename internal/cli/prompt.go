package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/peterh/liner"
)

// errPromptAborted is returned when the user presses Ctrl+C at a prompt.
var errPromptAborted = errors.New("aborted")

// prompter reads one line of input per call.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// newPrompter returns a line editor on a terminal and a plain line reader
// otherwise, so scripted input and tests work without a TTY.
func (a *App) newPrompter() prompter {
	if a.interactive() {
		state := liner.NewLiner()
		state.SetCtrlCAborts(true)

		return &linerPrompter{state: state}
	}

	if a.Stdin == nil {
		return &scanPrompter{}
	}

	return &scanPrompter{scanner: bufio.NewScanner(a.Stdin)}
}

// withPrompter runs fn with the shell's prompter when one is active, and with
// a fresh prompter that is closed afterwards otherwise.
func (a *App) withPrompter(fn func(p prompter) error) error {
	if a.linePrompt != nil {
		return fn(a.linePrompt)
	}

	p := a.newPrompter()

	defer func() { _ = p.Close() }()

	return fn(p)
}

type linerPrompter struct {
	state *liner.State
}

func (p *linerPrompter) Prompt(prompt string) (string, error) {
	line, err := p.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", errPromptAborted
	}

	return line, err
}

func (p *linerPrompter) AppendHistory(line string) {
	p.state.AppendHistory(line)
}

func (p *linerPrompter) Close() error {
	return p.state.Close()
}

func (p *linerPrompter) readHistory(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	defer func() { _ = f.Close() }()

	_, err = p.state.ReadHistory(f)

	return err
}

func (p *linerPrompter) writeHistory(path string) error {
	mkdirErr := os.MkdirAll(filepath.Dir(path), dirPerms)
	if mkdirErr != nil {
		return mkdirErr
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerms)
	if err != nil {
		return err
	}

	_, writeErr := p.state.WriteHistory(f)
	closeErr := f.Close()

	return errors.Join(writeErr, closeErr)
}

type scanPrompter struct {
	scanner *bufio.Scanner
}

func (p *scanPrompter) Prompt(_ string) (string, error) {
	if p.scanner == nil {
		return "", io.EOF
	}

	if !p.scanner.Scan() {
		err := p.scanner.Err()
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}

		return "", io.EOF
	}

	return p.scanner.Text(), nil
}

func (p *scanPrompter) AppendHistory(string) {}

func (p *scanPrompter) Close() error {
	return nil
}

const (
	dirPerms  = 0o750
	filePerms = 0o600
)
