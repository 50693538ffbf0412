package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay lets a burst of write events settle before reloading
const reloadDelay = 250 * time.Millisecond

// Watch reloads the dataset at path whenever it changes and passes the new
// catalog to onChange. It blocks until ctx is done. A reload that fails is
// logged and the previous catalog stays in use.
func Watch(ctx context.Context, path string, onChange func(*Catalog)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create dataset watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so editors that replace the file are seen
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve dataset path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch dataset directory: %w", err)
	}

	var timer *time.Timer
	reload := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDelay, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case <-reload:
			catalog, err := NewLoader(path).LoadCatalog()
			if err != nil {
				slog.Warn("Dataset reload failed, keeping previous", "path", path, "error", err)
				continue
			}
			slog.Info("Dataset reloaded", "path", path, "paintings", catalog.Len())
			onChange(catalog)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Dataset watcher error", "error", err)
		}
	}
}
