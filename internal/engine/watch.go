package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces editor save bursts into a single rebuild.
const debounceDelay = 100 * time.Millisecond

// Watch rebuilds the output every time the source script changes. A failed
// rebuild is logged and watching continues; the previous output stays in
// place. Watch returns when ctx is cancelled.
func (e *Engine) Watch(ctx context.Context) error {
	if err := e.Build(ctx); err != nil {
		e.logger.Error("initial build failed", "error", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the containing directory: editors often replace the file, which
	// would invalidate a watch on the file itself.
	dir := filepath.Dir(e.source)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	e.logger.Info("watching for changes", "source", e.source)

	var mu sync.Mutex
	var debounceTimer *time.Timer
	defer func() {
		mu.Lock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		mu.Unlock()
	}()

	sourceName := filepath.Base(e.source)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Base(event.Name) != sourceName {
				continue
			}

			mu.Lock()
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				e.logger.Debug("change detected", "source", e.source)
				if err := e.Build(ctx); err != nil {
					e.logger.Error("rebuild failed", "error", err)
				}
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Error("watcher error", "error", err)
		}
	}
}
