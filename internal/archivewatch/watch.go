// Package archivewatch notices edits to the archive document on disk.
//
// The loaded collection is never reloaded; a change only tells connected
// clients that restarting the server will pick up new content.
package archivewatch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeCallback is called once per burst of changes to the watched file.
type ChangeCallback func(path string)

// debounce collapses the write/rename/create storm editors produce on save.
const debounce = 200 * time.Millisecond

// Watch watches the directory holding path and calls cb after the file is
// written, created or replaced. It blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, logger *slog.Logger, cb ChangeCallback) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watching the directory survives editors that save by rename.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	logger.Info("archivewatch: started", slog.String("path", abs))

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("archivewatch: stopped")
			return nil

		case <-fire:
			fire = nil
			logger.Info("archivewatch: archive changed on disk; restart to load it", slog.String("path", abs))
			if cb != nil {
				cb(abs)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			logger.Debug("archivewatch: event", slog.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("archivewatch: error", slog.String("error", watchErr.Error()))
		}
	}
}
