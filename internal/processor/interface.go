package processor

import (
	"context"

	"github.com/nguyentantai21042004/video-digest/internal/models"
)

// Processor runs the URL to digest pipeline.
type Processor interface {
	// Run processes one video URL inside the scratch directory, which it
	// clears first.
	Run(ctx context.Context, url string) (Result, error)

	// ProcessFile reads a URL from an inbox file, runs it, exports the
	// outputs and archives the inbox file.
	ProcessFile(ctx context.Context, path string) error

	// Cleanup removes the scratch directory.
	Cleanup(ctx context.Context) error

	// Close releases components that hold resources.
	Close() error
}

// Result describes the outputs of a successful run. Docx paths are empty when
// docx output is disabled.
type Result struct {
	TranscriptPath string
	SummaryPath    string
	TranscriptDocx string
	SummaryDocx    string

	Segments []models.Segment
	Chunks   []models.Chunk
	Partials []models.PartialSummary
	Digest   string
}
