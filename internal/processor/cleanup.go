package processor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/video-digest/internal/output"
)

// ProcessFile handles one inbox file: the first non-blank line is the URL.
// Outputs are copied to <output>/<inbox file name>/ and the inbox file is
// moved to the archived folder. A failed run leaves the inbox file in place.
func (p *implProcessor) ProcessFile(ctx context.Context, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	rawURL, err := readURL(path)
	if err != nil {
		return err
	}

	res, err := p.run(ctx, rawURL)
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := p.exportOutputs(ctx, res, filepath.Join(p.cfg.Paths.Output, name)); err != nil {
		return stageErr(ErrPersist, err)
	}

	if err := p.moveToArchived(ctx, path); err != nil {
		p.logger.Warn(ctx, "Failed to move inbox file to archived folder: %v", err)
	}
	return nil
}

// Cleanup removes the scratch directory and everything in it.
func (p *implProcessor) Cleanup(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.logger.Info(ctx, "Cleaning up: %s", p.cfg.Paths.WorkDir)
	if err := os.RemoveAll(p.cfg.Paths.WorkDir); err != nil {
		return fmt.Errorf("remove work dir: %w", err)
	}
	return nil
}

// Close closes every component that implements io.Closer.
func (p *implProcessor) Close() error {
	var errs []error
	for _, c := range []any{p.comps.Downloader, p.comps.Transcriber, p.comps.Summarizer} {
		if closer, ok := c.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// resetWorkDir empties the scratch directory. Everything in it is lost.
func (p *implProcessor) resetWorkDir(ctx context.Context) error {
	dir := p.cfg.Paths.WorkDir
	p.logger.Debug(ctx, "Resetting work dir: %s", dir)

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clear work dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	return nil
}

// exportOutputs copies the run's files into destDir.
func (p *implProcessor) exportOutputs(ctx context.Context, res Result, destDir string) error {
	for _, src := range []string{res.TranscriptPath, res.SummaryPath, res.TranscriptDocx, res.SummaryDocx} {
		if src == "" {
			continue
		}
		dst := filepath.Join(destDir, filepath.Base(src))
		if err := output.CopyFile(src, dst); err != nil {
			return fmt.Errorf("export %s: %w", filepath.Base(src), err)
		}
	}

	p.logger.Info(ctx, "Outputs exported to: %s", destDir)
	return nil
}

// moveToArchived moves a processed inbox file to the archived folder
func (p *implProcessor) moveToArchived(ctx context.Context, path string) error {
	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return fmt.Errorf("create archived dir: %w", err)
	}
	destPath := filepath.Join(p.cfg.Paths.Archived, filepath.Base(path))

	p.logger.Info(ctx, "Moving to archived folder: %s -> %s", path, destPath)

	if err := os.Rename(path, destPath); err != nil {
		return fmt.Errorf("move to archived: %w", err)
	}
	return nil
}

func readURL(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open inbox file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read inbox file: %w", err)
	}
	return "", fmt.Errorf("%w: %s", ErrNoURL, path)
}
