package transcriber

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tidwall/gjson"

	"github.com/nguyentantai21042004/video-digest/internal/config"
	"github.com/nguyentantai21042004/video-digest/internal/logger"
	"github.com/nguyentantai21042004/video-digest/internal/models"
)

// implOpenAI transcribes through the OpenAI audio transcriptions endpoint,
// asking for verbose JSON so segment offsets come back.
type implOpenAI struct {
	client   oai.Client
	model    string
	language string
	logger   logger.Logger
}

func newOpenAI(cfg config.OpenAIConfig, language string, log logger.Logger) *implOpenAI {
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
		client:   oai.NewClient(reqOpts...),
		model:    cfg.TranscriptionModel,
		language: language,
		logger:   log,
	}
}

func (o *implOpenAI) Transcribe(ctx context.Context, audioPath string) ([]models.Segment, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	params := oai.AudioTranscriptionNewParams{
		File:                   f,
		Model:                  oai.AudioModel(o.model),
		ResponseFormat:         oai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"segment"},
	}
	if o.language != "" && o.language != "auto" {
		params.Language = oai.String(o.language)
	}

	o.logger.Info(ctx, "Starting transcription with OpenAI model %s: %s", o.model, audioPath)

	resp, err := o.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai transcribe: %w", err)
	}

	segments := parseVerboseJSON(resp.RawJSON(), resp.Text)
	o.logger.Info(ctx, "Transcription completed: %d segments", len(segments))
	return segments, nil
}

// parseVerboseJSON reads "segments" from a verbose_json transcription. When the
// response has no segments the whole text becomes one segment at 0:00.
func parseVerboseJSON(raw, fallbackText string) []models.Segment {
	var segments []models.Segment

	gjson.Get(raw, "segments").ForEach(func(_, seg gjson.Result) bool {
		text := strings.TrimSpace(seg.Get("text").String())
		if text == "" {
			return true
		}
		segments = append(segments, models.Segment{
			Start: seconds(seg.Get("start").Float()),
			End:   seconds(seg.Get("end").Float()),
			Text:  text,
		})
		return true
	})

	if len(segments) == 0 {
		if text := strings.TrimSpace(fallbackText); text != "" {
			segments = append(segments, models.Segment{Text: text})
		}
	}
	return segments
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
