package processor

import (
	"context"
	"fmt"
	"os"
	"time"
)

// waitForFile polls for path until it exists, timeout elapses, or ctx ends.
func waitForFile(ctx context.Context, path string, timeout, interval time.Duration) error {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := os.Stat(path); err == nil {
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("%w: %s after %s", ErrAudioNotFound, path, timeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
