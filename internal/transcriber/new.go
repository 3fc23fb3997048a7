package transcriber

import (
	"fmt"

	"github.com/nguyentantai21042004/video-digest/internal/config"
	"github.com/nguyentantai21042004/video-digest/internal/logger"
	"github.com/nguyentantai21042004/video-digest/pkg/executor"
)

// New returns the backend selected by cfg.Whisper.Backend.
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) (Transcriber, error) {
	switch cfg.Whisper.Backend {
	case config.BackendWhisperCLI:
		return &implWhisperCLI{
			ffmpeg:   cfg.FFmpeg,
			whisper:  cfg.Whisper,
			executor: exec,
			logger:   log,
		}, nil
	case config.BackendOpenAI:
		return newOpenAI(cfg.OpenAI, cfg.Whisper.Language, log), nil
	default:
		return nil, fmt.Errorf("unknown transcription backend %q", cfg.Whisper.Backend)
	}
}
