package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/nguyentantai21042004/video-digest/internal/config"
	"github.com/nguyentantai21042004/video-digest/internal/downloader"
	"github.com/nguyentantai21042004/video-digest/internal/health"
	"github.com/nguyentantai21042004/video-digest/internal/logger"
	"github.com/nguyentantai21042004/video-digest/internal/observe"
	"github.com/nguyentantai21042004/video-digest/internal/processor"
	"github.com/nguyentantai21042004/video-digest/internal/summarizer"
	"github.com/nguyentantai21042004/video-digest/internal/transcriber"
	"github.com/nguyentantai21042004/video-digest/pkg/executor"
)

// app holds what every subcommand needs.
type app struct {
	cfg  *config.Config
	log  logger.Logger
	proc processor.Processor
}

// newApp loads configuration and wires the pipeline. metrics may be nil.
func newApp(ctx context.Context, configPath string, metrics *observe.Metrics) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file %q not found, copy config.example.yaml to get started", configPath)
		}
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Video Digest Pipeline")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "Transcription: %s, summarizer: %s", cfg.Whisper.Backend, cfg.Summarizer.Provider)
	log.Info(ctx, "Configuration loaded successfully")

	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	exec := executor.New()

	tr, err := transcriber.New(cfg, exec, log)
	if err != nil {
		return nil, err
	}

	model, err := summarizer.NewModel(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	limits := summarizer.Limits{MinWords: cfg.Summarizer.MinLength, MaxWords: cfg.Summarizer.MaxLength}

	proc := processor.New(cfg, processor.Components{
		Downloader:  downloader.New(cfg, exec, log),
		Transcriber: tr,
		Summarizer:  summarizer.New(model, limits, log),
	}, log, metrics)

	return &app{cfg: cfg, log: log, proc: proc}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.proc.Close(); err != nil {
		a.log.Warn(ctx, "Failed to close pipeline: %v", err)
	}
}

// readinessChecks probes the external tools and directories a run needs.
func (a *app) readinessChecks() []health.Checker {
	checks := []health.Checker{
		health.Binary("yt-dlp", a.cfg.Download.BinaryPath),
		health.Binary("ffmpeg", a.cfg.FFmpeg.BinaryPath),
		health.WritableDir("work_dir", a.cfg.Paths.WorkDir),
	}
	if a.cfg.Whisper.Backend == config.BackendWhisperCLI {
		checks = append(checks,
			health.Binary("whisper", a.cfg.Whisper.BinaryPath),
			health.File("whisper_model", a.cfg.Whisper.ModelPath),
		)
	}
	return checks
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.WorkDir,
		cfg.Paths.Inbox,
		cfg.Paths.Output,
		cfg.Paths.Archived,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
