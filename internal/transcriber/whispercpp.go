package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nguyentantai21042004/video-digest/internal/config"
	"github.com/nguyentantai21042004/video-digest/internal/logger"
	"github.com/nguyentantai21042004/video-digest/internal/models"
	"github.com/nguyentantai21042004/video-digest/pkg/executor"
)

type implWhisperCLI struct {
	ffmpeg   config.FFmpegConfig
	whisper  config.WhisperConfig
	executor executor.Executor
	logger   logger.Logger
}

// whisperJSON is the subset of whisper-cli's -oj output we read.
type whisperJSON struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Transcribe runs whisper.cpp on the audio file and reads back its JSON output.
func (w *implWhisperCLI) Transcribe(ctx context.Context, audioPath string) ([]models.Segment, error) {
	wavPath, err := w.extractAudio(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	defer w.cleanupTempFile(ctx, wavPath)

	// whisper-cli appends .json to the prefix
	outputPrefix := strings.TrimSuffix(wavPath, filepath.Ext(wavPath))

	w.logger.Info(ctx, "Starting transcription with %d threads: %s", w.whisper.Threads, audioPath)

	// -oj: JSON output with per-segment offsets in milliseconds
	// -l: language, "auto" lets whisper detect it
	// -bo: best of 5
	args := []string{
		"-m", w.whisper.ModelPath,
		"-f", wavPath,
		"-oj",
		"-l", w.whisper.Language,
		"-t", strconv.Itoa(w.whisper.Threads),
		"-bo", "5",
		"--output-file", outputPrefix,
	}
	if w.whisper.Prompt != "" {
		args = append(args, "--prompt", w.whisper.Prompt)
	}
	if !w.whisper.UseGPU {
		args = append(args, "-ng")
	}

	if _, err := w.executor.Execute(ctx, w.whisper.BinaryPath, args...); err != nil {
		return nil, fmt.Errorf("whisper transcribe: %w", err)
	}

	jsonPath := outputPrefix + ".json"
	defer w.cleanupTempFile(ctx, jsonPath)

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}

	segments, err := parseWhisperJSON(data)
	if err != nil {
		return nil, err
	}

	w.logger.Info(ctx, "Transcription completed: %d segments", len(segments))
	return segments, nil
}

func parseWhisperJSON(data []byte) ([]models.Segment, error) {
	var out whisperJSON
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}

	segments := make([]models.Segment, 0, len(out.Transcription))
	for _, t := range out.Transcription {
		text := strings.TrimSpace(t.Text)
		if text == "" {
			continue
		}
		segments = append(segments, models.Segment{
			Start: time.Duration(t.Offsets.From) * time.Millisecond,
			End:   time.Duration(t.Offsets.To) * time.Millisecond,
			Text:  text,
		})
	}
	return segments, nil
}

// cleanupTempFile removes a temporary file, logs warning if fails
func (w *implWhisperCLI) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		w.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	} else {
		w.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}
