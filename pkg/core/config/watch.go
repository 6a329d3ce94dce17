package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	mdwerror "github.com/msto63/dexcomx/foundation/core/error"
)

// watchDebounce collapses the burst of events editors emit for one save
const watchDebounce = 100 * time.Millisecond

// Watch reloads path whenever it changes and hands the result to fn.
// A reload that fails to parse is reported with a nil config and the error.
// Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, fn func(*Config, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return mdwerror.Wrap(err, "failed to create config watcher").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Watch")
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file instead of writing it
	abs, err := filepath.Abs(path)
	if err != nil {
		return mdwerror.Wrap(err, "invalid config path").WithCode(mdwerror.CodeConfigError)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return mdwerror.Wrap(err, "failed to watch config directory").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Watch").
			WithDetail("path", abs)
	}

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			fn(Load(abs))

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fn(nil, mdwerror.Wrap(werr, "config watcher error").WithCode(mdwerror.CodeConfigError))
		}
	}
}
