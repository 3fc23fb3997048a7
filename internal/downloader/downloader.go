package downloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoAudio is returned when yt-dlp finished but no WAV file can be located.
var ErrNoAudio = errors.New("downloader: no audio produced")

// Download extracts the best audio stream of url as WAV, then re-encodes it to
// MP3. The intermediate WAV is removed.
func (d *implDownloader) Download(ctx context.Context, url, dir string) (string, error) {
	d.logger.Info(ctx, "Downloading audio: %s", url)

	// -f: format selector, bestaudio/best by default
	// -x --audio-format wav: extract audio only, as WAV
	// --restrict-filenames: ASCII-only names, no spaces
	// --print after_move:filepath: final path on stdout once post-processing is done
	// --no-simulate: --print alone implies a dry run
	args := []string{
		"-f", d.download.Format,
		"-x",
		"--audio-format", "wav",
		"--restrict-filenames",
		"--no-playlist",
		"-o", "%(title)s.%(ext)s",
		"--print", "after_move:filepath",
		"--no-simulate",
		url,
	}

	// run inside dir so the output template stays a plain file name
	out, err := d.executor.ExecuteInDir(ctx, dir, d.download.BinaryPath, args...)
	if err != nil {
		return "", fmt.Errorf("yt-dlp: %w", err)
	}

	wavPath := lastLine(out)
	if wavPath != "" && !filepath.IsAbs(wavPath) {
		wavPath = filepath.Join(dir, wavPath)
	}
	if wavPath == "" {
		if wavPath, err = findAudio(dir, ".wav"); err != nil {
			return "", err
		}
	}

	mp3Path, err := d.convertToMP3(ctx, wavPath)
	if err != nil {
		return "", err
	}

	d.logger.Info(ctx, "Audio downloaded: %s", mp3Path)
	return mp3Path, nil
}

// convertToMP3 re-encodes wavPath next to itself and removes the WAV.
func (d *implDownloader) convertToMP3(ctx context.Context, wavPath string) (string, error) {
	mp3Path := strings.TrimSuffix(wavPath, filepath.Ext(wavPath)) + ".mp3"

	// -vn: drop any video stream
	// -b:a: constant audio bitrate
	// -y: overwrite output file if exists
	args := []string{
		"-i", wavPath,
		"-vn",
		"-b:a", d.ffmpeg.AudioBitrate,
		"-y",
		mp3Path,
	}

	if _, err := d.executor.Execute(ctx, d.ffmpeg.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("ffmpeg mp3: %w", err)
	}

	if err := os.Remove(wavPath); err != nil && !os.IsNotExist(err) {
		d.logger.Warn(ctx, "Failed to remove intermediate WAV %s: %v", wavPath, err)
	}
	return mp3Path, nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// findAudio returns the first file in dir with the given extension.
func findAudio(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read download dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ext) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", ErrNoAudio
}
