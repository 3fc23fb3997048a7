package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/video-digest/internal/logger"
)

var inboxExtensions = []string{".url", ".txt"}

type implWatcher struct {
	inboxDir      string
	handler       EventHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	semaphore     chan struct{}
	settle        time.Duration
	wg            sync.WaitGroup
}

// Start handles files already waiting in the inbox, then every new one, until
// ctx is cancelled. In-flight handlers are waited for before it returns.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Inbox watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inboxDir)
	w.logger.Info(ctx, "Supported formats: %s", strings.Join(inboxExtensions, ", "))

	pending, err := w.existingFiles()
	if err != nil {
		w.logger.Warn(ctx, "Failed to scan inbox: %v", err)
	}
	// The watch is already active, so a file created just before the scan
	// also has a Create event queued.
	scanned := make(map[string]os.FileInfo, len(pending))
	for _, path := range pending {
		if info, err := os.Stat(path); err == nil {
			scanned[path] = info
		}
		if err := w.dispatch(ctx, path, 0); err != nil {
			return w.stop(ctx, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return w.stop(ctx, ctx.Err())

		case event, ok := <-w.watcher.Events:
			if !ok {
				return w.stop(ctx, fmt.Errorf("watcher events channel closed"))
			}

			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !isURLFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-URL file: %s", event.Name)
				continue
			}

			if info, ok := scanned[event.Name]; ok {
				delete(scanned, event.Name)
				if sameFile(info, event.Name) {
					w.logger.Debug(ctx, "Already picked up at startup: %s", event.Name)
					continue
				}
			}

			w.logger.Info(ctx, "New inbox file detected: %s", event.Name)
			if err := w.dispatch(ctx, event.Name, w.settle); err != nil {
				return w.stop(ctx, err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return w.stop(ctx, fmt.Errorf("watcher errors channel closed"))
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

// dispatch runs the handler in a goroutine once a semaphore slot is free.
func (w *implWatcher) dispatch(ctx context.Context, path string, delay time.Duration) error {
	select {
	case w.semaphore <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() { <-w.semaphore }()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return
			}
		}

		if err := w.handler(ctx, path); err != nil {
			w.logger.Error(ctx, "Failed to process %s: %v", path, err)
		}
	}()
	return nil
}

func (w *implWatcher) stop(ctx context.Context, err error) error {
	w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
	w.wg.Wait()
	w.logger.Info(ctx, "Inbox watcher stopped")
	return err
}

// existingFiles lists URL files already in the inbox, sorted by name.
func (w *implWatcher) existingFiles() ([]string, error) {
	entries, err := os.ReadDir(w.inboxDir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if isURLFile(e.Name()) {
			files = append(files, filepath.Join(w.inboxDir, e.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

// sameFile reports whether path still names the file described by info. A
// path that is gone was already archived by its handler and counts as the same.
func sameFile(info os.FileInfo, path string) bool {
	cur, err := os.Stat(path)
	if err != nil {
		return true
	}
	return os.SameFile(info, cur)
}

// isURLFile checks if the file has an inbox extension. Hidden files are
// skipped so editor swap files are never picked up.
func isURLFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}

	ext := strings.ToLower(filepath.Ext(base))
	for _, e := range inboxExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
