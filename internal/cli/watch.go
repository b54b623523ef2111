package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/calvinalkan/agent-issues/internal/store"
)

// watchDebounce collapses the bursts of events an atomic write produces
// (temp file create, rename) into one refresh.
const watchDebounce = 500 * time.Millisecond

// watchIssues runs render once, then again after every settled change to an
// issue file, until ctx is cancelled.
func watchIssues(ctx context.Context, io *IO, app *App, s *store.Store, render func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	defer func() { _ = watcher.Close() }()

	addErr := watcher.Add(s.Dir())
	if addErr != nil {
		return fmt.Errorf("watch %s: %w", s.Dir(), addErr)
	}

	renderErr := render()
	if renderErr != nil {
		return renderErr
	}

	io.ErrPrintln("Watching for changes... (Press Ctrl+C to exit)")

	var debounce <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			io.ErrPrintln("Stopped watching.")

			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isIssueEvent(event) {
				continue
			}

			app.Logger.Debug("issue file changed", "path", event.Name, "op", event.Op.String())

			debounce = time.After(watchDebounce)

		case <-debounce:
			debounce = nil

			io.Println(io.Theme().Muted("-- " + app.Now().Format(time.TimeOnly)))

			renderErr := render()
			if renderErr != nil {
				app.Logger.Warn("refresh failed", "err", renderErr)
			}

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			app.Logger.Warn("watcher error", "err", watchErr)
		}
	}
}

func isIssueEvent(event fsnotify.Event) bool {
	if filepath.Ext(event.Name) != ".md" || filepath.Base(event.Name) == store.ReadmeFileName {
		return false
	}

	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
