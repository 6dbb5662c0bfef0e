// Package watcher re-runs a matching when the problem input file changes on
// disk.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tlindh/graphmatch/pkg/logging"
)

// ChangeEvent represents a batch of writes to the watched input file
type ChangeEvent struct {
	Paths     []string
	Timestamp time.Time
}

// FileWatcher watches a problem input file for modifications. The parent
// directory is watched rather than the file itself so editors that replace
// the file on save are still detected.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	events  chan ChangeEvent
}

// NewFileWatcher creates a watcher for the given input file
func NewFileWatcher(path string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to resolve input path: %w", err)
	}

	return &FileWatcher{
		watcher: watcher,
		path:    abs,
		events:  make(chan ChangeEvent, 100),
	}, nil
}

// Start begins watching for changes to the input file
func (fw *FileWatcher) Start(ctx context.Context) error {
	if err := fw.watcher.Add(filepath.Dir(fw.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(fw.path), err)
	}

	logging.Info("started watching input", "path", fw.path)

	go fw.processEvents(ctx)
	return nil
}

// processEvents batches raw notifications so one save does not trigger
// several solves
func (fw *FileWatcher) processEvents(ctx context.Context) {
	var pending []string

	flushTimer := time.NewTimer(100 * time.Millisecond)
	flushTimer.Stop()

	flush := func() {
		if len(pending) == 0 {
			return
		}
		fw.events <- ChangeEvent{Paths: pending, Timestamp: time.Now()}
		pending = nil
	}

	for {
		select {
		case <-ctx.Done():
			fw.watcher.Close()
			close(fw.events)
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(fw.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = append(pending, event.Name)
			flushTimer.Reset(100 * time.Millisecond)

		case <-flushTimer.C:
			flush()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of change events
func (fw *FileWatcher) Events() <-chan ChangeEvent {
	return fw.events
}

// Stop stops the file watcher
func (fw *FileWatcher) Stop() error {
	return fw.watcher.Close()
}
