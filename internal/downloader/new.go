package downloader

import (
	"github.com/nguyentantai21042004/video-digest/internal/config"
	"github.com/nguyentantai21042004/video-digest/internal/logger"
	"github.com/nguyentantai21042004/video-digest/pkg/executor"
)

type implDownloader struct {
	download config.DownloadConfig
	ffmpeg   config.FFmpegConfig
	executor executor.Executor
	logger   logger.Logger
}

// New creates a Downloader backed by yt-dlp and ffmpeg.
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) Downloader {
	return &implDownloader{
		download: cfg.Download,
		ffmpeg:   cfg.FFmpeg,
		executor: exec,
		logger:   log,
	}
}
