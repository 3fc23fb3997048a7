package summarizer

import (
	"context"

	"github.com/nguyentantai21042004/video-digest/internal/models"
)

// Limits bounds the length of one summary, in words.
type Limits struct {
	MinWords int
	MaxWords int
}

// Model summarizes a single transcript excerpt.
type Model interface {
	Summarize(ctx context.Context, text string, limits Limits) (string, error)
}

// Summarizer turns transcript chunks into timestamped partial summaries.
type Summarizer interface {
	SummarizeAll(ctx context.Context, chunks []models.Chunk) ([]models.PartialSummary, error)
}
