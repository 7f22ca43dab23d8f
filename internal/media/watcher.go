package media

import (
	"context"
	"log/slog"
	"time"

	"github.com/MaTriXy/videowall/internal/bus"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 2 * time.Second

// Watcher reloads the library when files appear in or disappear from the
// source directories, then publishes bus.MediaChanged.
type Watcher struct {
	library *Library
}

func NewWatcher(library *Library) Watcher {
	return Watcher{
		library: library,
	}
}

func (w Watcher) String() string {
	return "media.Watcher"
}

func (w Watcher) Serve(ctx context.Context) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsWatcher.Close()

	for _, dir := range w.library.Directories() {
		if err := fsWatcher.Add(dir); err != nil {
			slog.Error("Failed to watch directory", "dir", dir, "error", err)
		}
	}

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				debounce = time.After(watchDebounce)
			}
		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Media watcher error", "error", err)
		case <-debounce:
			debounce = nil
			count, err := w.library.Reload()
			if err != nil {
				slog.Error("Failed to reload media library", "error", err)
				continue
			}
			slog.Info("Media library reloaded", "count", count)
			bus.Publish(bus.MediaChanged{Count: count})
		}
	}
}
