package summarizer

import (
	"context"
	"fmt"
	"net/http"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/nguyentantai21042004/video-digest/internal/config"
)

const systemPrompt = "You summarize video transcripts. Reply with the summary text only, no preamble."

type implOpenAI struct {
	client oai.Client
	model  string
}

func newOpenAI(cfg config.OpenAIConfig) *implOpenAI {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}

	return &implOpenAI{
		client: oai.NewClient(reqOpts...),
		model:  cfg.Model,
	}
}

// Summarize sends one excerpt as a chat completion.
func (o *implOpenAI) Summarize(ctx context.Context, text string, limits Limits) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Model: oai.ChatModel(o.model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(systemPrompt),
			oai.UserMessage(buildPrompt(text, limits)),
		},
		Temperature:         oai.Float(0),
		MaxCompletionTokens: oai.Int(int64(maxTokens(limits))),
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}
