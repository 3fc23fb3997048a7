package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/video-digest/internal/config"
	"github.com/nguyentantai21042004/video-digest/internal/logger"
)

// generator is the part of *genai.Models the Gemini backend calls.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// implGemini holds one client per API key and rotates to the next key when
// the current one is rate limited.
type implGemini struct {
	mu         sync.Mutex
	clients    []generator
	currentKey int
	model      string
	logger     logger.Logger
}

func newGemini(ctx context.Context, cfg config.GeminiConfig, log logger.Logger) (*implGemini, error) {
	if len(cfg.APIKeys) == 0 {
		return nil, errors.New("gemini: no API keys")
	}

	clients := make([]generator, 0, len(cfg.APIKeys))
	for i, key := range cfg.APIKeys {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini client for key %d: %w", i+1, err)
		}
		clients = append(clients, client.Models)
	}

	return &implGemini{
		clients: clients,
		model:   cfg.Model,
		logger:  log,
	}, nil
}

// Summarize sends one excerpt to Gemini. Rotates API keys on 429 / quota errors.
func (g *implGemini) Summarize(ctx context.Context, text string, limits Limits) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.clients) == 0 {
		return "", errors.New("gemini: model is closed")
	}

	prompt := buildPrompt(text, limits)
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0),
		MaxOutputTokens: int32(maxTokens(limits)),
		// thinking tokens count against MaxOutputTokens
		ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	}

	var lastErr error
	for range len(g.clients) {
		result, err := g.clients[g.currentKey].GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
		if err != nil {
			if isRateLimited(err) {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", g.currentKey+1)
				g.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}
			return text, nil
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

// Close drops the cached clients. The genai client has no connection to tear
// down, so this only makes later calls fail fast.
func (g *implGemini) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients = nil
	return nil
}

func (g *implGemini) rotateKey() {
	g.currentKey = (g.currentKey + 1) % len(g.clients)
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
