package uistate

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeFunc is called after the state file changes on disk.
type ChangeFunc func()

// Watch observes the state file's directory and calls cb when the document
// changes outside this process, until ctx is cancelled.
//
// The directory, not the file, is watched: the store replaces the file by
// rename, and most editors do the same, which would silently detach a
// file-level watch. Events are debounced so a write burst yields one callback.
func Watch(ctx context.Context, st *Store, logger *slog.Logger, cb ChangeFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(st.Path())
	if err := w.Add(dir); err != nil {
		return err
	}
	target := filepath.Base(st.Path())

	logger.Info("state watcher: started", slog.String("path", st.Path()))

	var debounce *time.Timer
	var fire <-chan time.Time

	schedule := func() {
		if debounce == nil {
			debounce = time.NewTimer(200 * time.Millisecond)
			fire = debounce.C
		} else {
			debounce.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("state watcher: stopped")
			return nil

		case <-fire:
			if cb != nil {
				cb()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0 {
				logger.Debug("state watcher: change", slog.String("op", ev.Op.String()))
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("state watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
