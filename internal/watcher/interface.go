package watcher

import "context"

// Watcher monitors the inbox directory for new URL files.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler handles one inbox file.
type EventHandler func(ctx context.Context, filePath string) error
