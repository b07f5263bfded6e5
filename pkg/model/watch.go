package model

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events an editor save produces.
const reloadDelay = 200 * time.Millisecond

// ReloadFunc receives each successfully reloaded model.
type ReloadFunc func(*Model)

// Watch reloads path whenever it changes until ctx is cancelled. The
// parent directory is watched so that editors which replace the file on
// save are still seen. Files that fail to load are logged and skipped.
func Watch(ctx context.Context, path string, logger *slog.Logger, cb ReloadFunc) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("path", abs))

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(reloadDelay)
			fire = timer.C
		} else {
			timer.Reset(reloadDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				schedule()
			}

		case <-fire:
			m, err := Load(abs)
			if err != nil {
				logger.Warn("watcher: reload failed", slog.String("path", abs), slog.String("error", err.Error()))
				continue
			}
			logger.Debug("watcher: reloaded", slog.Int("nodes", len(m.Nodes)))
			cb(m)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: error", slog.String("error", err.Error()))
		}
	}
}
