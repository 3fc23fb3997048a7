package processor

import (
	"errors"
	"fmt"
	"io/fs"
)

// Stage errors. A failed Run wraps exactly one of these.
var (
	ErrDownload      = errors.New("download failed")
	ErrTranscription = errors.New("transcription failed")
	ErrSummarization = errors.New("summarization failed")
	ErrPersist       = errors.New("writing output failed")
)

// ErrAudioNotFound reports that the downloaded audio never appeared on disk.
var ErrAudioNotFound = fmt.Errorf("audio file not found: %w", fs.ErrNotExist)

// ErrNoURL is returned by ProcessFile for an inbox file with no URL in it.
var ErrNoURL = errors.New("no URL in inbox file")

func stageErr(stage, err error) error {
	return fmt.Errorf("%w: %w", stage, err)
}
