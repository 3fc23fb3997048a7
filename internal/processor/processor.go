package processor

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/video-digest/internal/chunker"
	"github.com/nguyentantai21042004/video-digest/internal/logger"
	"github.com/nguyentantai21042004/video-digest/internal/observe"
	"github.com/nguyentantai21042004/video-digest/internal/output"
	"github.com/nguyentantai21042004/video-digest/internal/summarizer"
	"github.com/nguyentantai21042004/video-digest/internal/transcriber"
)

// Run orchestrates the whole pipeline for one URL.
func (p *implProcessor) Run(ctx context.Context, rawURL string) (Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.run(ctx, rawURL)
}

// run expects p.mu to be held.
func (p *implProcessor) run(ctx context.Context, rawURL string) (res Result, err error) {
	if logger.RunID(ctx) == "" {
		ctx = logger.WithRunID(ctx, uuid.NewString())
	}
	startTime := time.Now()
	defer func() { p.metrics.RecordRun(ctx, err) }()

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting digest: %s", rawURL)
	p.logger.Info(ctx, "========================================")

	rawURL = strings.TrimSpace(rawURL)
	if err := validateURL(rawURL); err != nil {
		return Result{}, stageErr(ErrDownload, err)
	}

	workDir := p.cfg.Paths.WorkDir
	if err := p.resetWorkDir(ctx); err != nil {
		return Result{}, stageErr(ErrPersist, err)
	}

	// Step 1: Download audio
	stageStart := time.Now()
	audioPath, err := p.comps.Downloader.Download(ctx, rawURL, workDir)
	p.metrics.RecordStage(ctx, observe.StageDownload, stageStart)
	if err != nil {
		return Result{}, stageErr(ErrDownload, err)
	}

	// Step 2: Wait for the file to land
	stageStart = time.Now()
	err = waitForFile(ctx, audioPath, p.cfg.Wait.Timeout, p.cfg.Wait.Interval)
	p.metrics.RecordStage(ctx, observe.StageWait, stageStart)
	if err != nil {
		return Result{}, stageErr(ErrDownload, err)
	}

	// Step 3: Transcribe
	stageStart = time.Now()
	segments, err := p.comps.Transcriber.Transcribe(ctx, audioPath)
	p.metrics.RecordStage(ctx, observe.StageTranscribe, stageStart)
	if err != nil {
		return Result{}, stageErr(ErrTranscription, err)
	}
	lines := transcriber.FormatLines(segments)

	res.Segments = segments
	res.TranscriptPath = filepath.Join(workDir, p.cfg.Output.TranscriptFile)
	if err := output.WriteText(res.TranscriptPath, transcriber.Render(lines)); err != nil {
		return Result{}, stageErr(ErrPersist, err)
	}
	p.logger.Info(ctx, "Transcript saved: %s (%d lines)", res.TranscriptPath, len(lines))

	// Step 4: Chunk and summarize
	stageStart = time.Now()
	res.Chunks = chunker.Chunk(lines, p.cfg.Summarizer.MaxWords)
	res.Partials, err = p.comps.Summarizer.SummarizeAll(ctx, res.Chunks)
	p.metrics.RecordStage(ctx, observe.StageSummarize, stageStart)
	p.metrics.RecordChunks(ctx, len(res.Chunks), len(res.Chunks)-len(res.Partials))
	if err != nil {
		return Result{}, stageErr(ErrSummarization, err)
	}
	res.Digest = summarizer.Digest(res.Partials)

	// Step 5: Persist summary and optional docx renditions
	stageStart = time.Now()
	err = p.persist(ctx, &res, lines)
	p.metrics.RecordStage(ctx, observe.StagePersist, stageStart)
	if err != nil {
		return Result{}, stageErr(ErrPersist, err)
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Digest completed: %d chunks, %d summarized", len(res.Chunks), len(res.Partials))
	p.logger.Info(ctx, "Output transcript: %s", res.TranscriptPath)
	p.logger.Info(ctx, "Output summary: %s", res.SummaryPath)
	p.logger.Info(ctx, "Processing time: %s", time.Since(startTime))
	p.logger.Info(ctx, "========================================")

	return res, nil
}

func (p *implProcessor) persist(ctx context.Context, res *Result, lines []string) error {
	workDir := p.cfg.Paths.WorkDir

	res.SummaryPath = filepath.Join(workDir, p.cfg.Output.SummaryFile)
	if err := output.WriteText(res.SummaryPath, res.Digest); err != nil {
		return err
	}

	if !p.cfg.Output.Docx {
		return nil
	}

	res.TranscriptDocx = docxPath(res.TranscriptPath)
	if err := output.TranscriptDocx("Transcript", lines, res.TranscriptDocx); err != nil {
		return fmt.Errorf("transcript docx: %w", err)
	}
	res.SummaryDocx = docxPath(res.SummaryPath)
	if err := output.DigestDocx("Summary", res.Partials, res.SummaryDocx); err != nil {
		return fmt.Errorf("summary docx: %w", err)
	}

	p.logger.Debug(ctx, "Docx written: %s, %s", res.TranscriptDocx, res.SummaryDocx)
	return nil
}

func docxPath(textPath string) string {
	return strings.TrimSuffix(textPath, filepath.Ext(textPath)) + ".docx"
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("empty URL")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("unsupported URL %q", raw)
	}
	return nil
}
