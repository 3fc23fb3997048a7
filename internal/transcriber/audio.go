package transcriber

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// extractAudio converts the downloaded audio to 16kHz mono WAV, the input
// whisper.cpp is built around.
func (w *implWhisperCLI) extractAudio(ctx context.Context, audioPath string) (string, error) {
	wavPath := strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + "_16k.wav"

	w.logger.Info(ctx, "Resampling audio for whisper: %s", audioPath)

	// -ar 16000: whisper's native sample rate
	// -ac 1: mono
	// -c:a pcm_s16le: 16-bit PCM
	args := []string{
		"-i", audioPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		wavPath,
	}

	if _, err := w.executor.Execute(ctx, w.ffmpeg.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("ffmpeg resample: %w", err)
	}

	w.logger.Debug(ctx, "Audio resampled: %s", wavPath)
	return wavPath, nil
}
