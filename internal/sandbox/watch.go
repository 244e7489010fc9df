package sandbox

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/wardproject/ward/internal/utils"
)

// WatchLists reloads the store whenever its backing file changes on disk,
// so edits to the user allow/deny lists take effect without a restart.
// It blocks until ctx is cancelled.
func WatchLists(ctx context.Context, store *ListStore) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the parent directory: editors replace files on save, which
	// would drop a watch on the file itself.
	dir := filepath.Dir(store.Path())
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	target := filepath.Clean(store.Path())
	logger := utils.WithPrefix("sandbox")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := store.Reload(); err != nil {
				logger.Warn("reloading sandbox lists failed", "err", err)
				continue
			}
			logger.Info("sandbox lists reloaded", "path", target)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("sandbox list watcher error", "err", err)
		}
	}
}
