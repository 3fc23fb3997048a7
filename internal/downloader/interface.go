package downloader

import "context"

// Downloader fetches the audio track of a video URL into a directory.
type Downloader interface {
	// Download returns the path of the MP3 file it produced inside dir.
	Download(ctx context.Context, url, dir string) (string, error)
}
