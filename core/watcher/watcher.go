// Package watcher feeds filesystem change events into engine cache
// invalidation.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"uilens/core/logger"
)

// Invalidator is the cache surface the watcher drives.
type Invalidator interface {
	InvalidateFile(path string)
}

// FileWatcher watches a project tree recursively and invalidates
// cached analysis state for files that change. Events are debounced
// before the optional OnChange callback fires, so a burst of saves
// triggers one downstream reaction.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	root     string
	excludes []string
	engine   Invalidator
	debounce time.Duration

	mu            sync.Mutex
	debounceTimer *time.Timer

	// OnChange, when set, runs after the debounce window closes.
	OnChange func() error
}

// New creates a watcher over root. Excluded paths are relative to root.
func New(root string, excludes []string, engine Invalidator, debounce time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &FileWatcher{
		watcher:  w,
		root:     root,
		excludes: append([]string{".git", "node_modules"}, excludes...),
		engine:   engine,
		debounce: debounce,
	}, nil
}

// Watch blocks, dispatching events until the watcher is closed.
func (fw *FileWatcher) Watch() error {
	if err := fw.addWatchersRecursively(fw.root); err != nil {
		return fmt.Errorf("failed to add watchers: %w", err)
	}

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			fw.handleEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			logger.Error("Watcher error: %v", err)
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	if fw.shouldExcludePath(event.Name) {
		return
	}

	logger.Debug("File event: %s %s", event.Op, event.Name)

	if isSourceFile(event.Name) &&
		(event.Has(fsnotify.Write) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Create)) {
		fw.engine.InvalidateFile(event.Name)
	}

	if event.Has(fsnotify.Create) {
		if stat, err := os.Stat(event.Name); err == nil && stat.IsDir() && !fw.shouldExcludePath(event.Name) {
			logger.Debug("Adding watcher for new directory: %s", event.Name)
			fw.watcher.Add(event.Name)
		}
	}

	fw.scheduleOnChange()
}

func (fw *FileWatcher) scheduleOnChange() {
	if fw.OnChange == nil {
		return
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}
	fw.debounceTimer = time.AfterFunc(fw.debounce, func() {
		if err := fw.OnChange(); err != nil {
			logger.Error("Watcher.OnChange failed: %v", err)
		}
	})
}

// Close stops the watcher.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}
	fw.mu.Unlock()

	return fw.watcher.Close()
}

func (fw *FileWatcher) shouldExcludePath(path string) bool {
	relPath, err := filepath.Rel(fw.root, path)
	if err != nil {
		return false
	}
	relPath = filepath.Clean(relPath)

	for _, exclude := range fw.excludes {
		exclude = filepath.Clean(exclude)
		if relPath == exclude || strings.HasPrefix(relPath, exclude+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (fw *FileWatcher) addWatchersRecursively(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if fw.shouldExcludePath(path) {
			logger.Debug("Excluding directory: %s", path)
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to add watcher for %s: %w", path, err)
		}
		return nil
	})
}

func isSourceFile(path string) bool {
	switch filepath.Ext(path) {
	case ".ts", ".tsx", ".js", ".jsx", ".json":
		return true
	}
	return false
}
