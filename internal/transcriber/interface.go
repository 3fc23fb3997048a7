package transcriber

import (
	"context"

	"github.com/nguyentantai21042004/video-digest/internal/models"
)

// Transcriber turns an audio file into ordered, timestamped segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]models.Segment, error)
}
