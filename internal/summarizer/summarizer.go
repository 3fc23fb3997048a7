package summarizer

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/video-digest/internal/models"
)

const summaryPrompt = `Summarize the following transcript excerpt in %d to %d words.
Keep names, numbers and technical terms as they appear. Reply with the summary only.

Transcript:
%s`

// SummarizeAll summarizes chunks in order. A chunk whose model call fails, or
// whose summary is empty after cleaning, is logged and left out; the other
// partial summaries keep their own timestamps.
func (s *implSummarizer) SummarizeAll(ctx context.Context, chunks []models.Chunk) ([]models.PartialSummary, error) {
	if len(chunks) == 0 {
		s.logger.Info(ctx, "No chunks to summarize")
		return nil, nil
	}

	s.logger.Info(ctx, "Summarizing %d chunks", len(chunks))

	partials := make([]models.PartialSummary, 0, len(chunks))
	failCount := 0

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s.logger.Debug(ctx, "[%d/%d] Summarizing chunk at %s (%d words)", i+1, len(chunks), chunk.Timestamp, chunk.Words)

		raw, err := s.model.Summarize(ctx, chunk.Text, s.limits)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			s.logger.Warn(ctx, "Failed to summarize chunk %d at %s: %v", i+1, chunk.Timestamp, err)
			failCount++
			continue
		}

		text := Clean(raw)
		if text == "" {
			s.logger.Warn(ctx, "Empty summary for chunk %d at %s", i+1, chunk.Timestamp)
			failCount++
			continue
		}

		partials = append(partials, models.PartialSummary{
			Timestamp: chunk.Timestamp,
			Text:      text,
		})
	}

	s.logger.Info(ctx, "Summary complete: %d success, %d failed", len(partials), failCount)
	if len(partials) == 0 && failCount > 0 {
		s.logger.Warn(ctx, "Every chunk failed, digest will be empty")
	}

	return partials, nil
}

func buildPrompt(text string, limits Limits) string {
	return fmt.Sprintf(summaryPrompt, limits.MinWords, limits.MaxWords, text)
}

// maxTokens leaves headroom over the word budget; English runs about 1.3
// tokens per word.
func maxTokens(limits Limits) int {
	n := limits.MaxWords*2 + 32
	if n < 64 {
		n = 64
	}
	return n
}
