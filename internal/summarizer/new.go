package summarizer

import (
	"context"
	"fmt"
	"io"

	"github.com/nguyentantai21042004/video-digest/internal/config"
	"github.com/nguyentantai21042004/video-digest/internal/logger"
)

type implSummarizer struct {
	model  Model
	limits Limits
	logger logger.Logger
}

// New creates a Summarizer that runs every chunk through model.
func New(model Model, limits Limits, log logger.Logger) Summarizer {
	return &implSummarizer{
		model:  model,
		limits: limits,
		logger: log,
	}
}

// Close closes the model when it holds resources.
func (s *implSummarizer) Close() error {
	if c, ok := s.model.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// NewModel builds the model backend selected by cfg.Summarizer.Provider.
// The returned model may hold network clients; close it with io.Closer when
// it implements one.
func NewModel(ctx context.Context, cfg *config.Config, log logger.Logger) (Model, error) {
	switch cfg.Summarizer.Provider {
	case config.ProviderGemini:
		return newGemini(ctx, cfg.Gemini, log)
	case config.ProviderOpenAI:
		return newOpenAI(cfg.OpenAI), nil
	default:
		return nil, fmt.Errorf("unknown summarizer provider %q", cfg.Summarizer.Provider)
	}
}
