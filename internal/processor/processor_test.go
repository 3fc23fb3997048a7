package processor

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/video-digest/internal/config"
	"github.com/nguyentantai21042004/video-digest/internal/logger"
	"github.com/nguyentantai21042004/video-digest/internal/models"
	"github.com/nguyentantai21042004/video-digest/internal/summarizer"
)

type fakeDownloader struct {
	err      error
	noFile   bool
	closed   bool
	gotURL   string
	fileName string
}

func (f *fakeDownloader) Download(ctx context.Context, url, dir string) (string, error) {
	f.gotURL = url
	if f.err != nil {
		return "", f.err
	}
	name := f.fileName
	if name == "" {
		name = "talk.mp3"
	}
	path := filepath.Join(dir, name)
	if f.noFile {
		return path, nil
	}
	return path, os.WriteFile(path, []byte("ID3"), 0644)
}

func (f *fakeDownloader) Close() error {
	f.closed = true
	return nil
}

type fakeTranscriber struct {
	segments []models.Segment
	err      error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) ([]models.Segment, error) {
	return f.segments, f.err
}

type fakeSummarizer struct {
	err error
}

func (f *fakeSummarizer) SummarizeAll(ctx context.Context, chunks []models.Chunk) ([]models.PartialSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.PartialSummary, 0, len(chunks))
	for i, c := range chunks {
		out = append(out, models.PartialSummary{Timestamp: c.Timestamp, Text: "point " + string(rune('A'+i))})
	}
	return out, nil
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	return &config.Config{
		Paths: config.PathsConfig{
			WorkDir:  filepath.Join(root, "downloads"),
			Inbox:    filepath.Join(root, "inbox"),
			Output:   filepath.Join(root, "output"),
			Archived: filepath.Join(root, "archived"),
		},
		Wait:       config.WaitConfig{Timeout: 200 * time.Millisecond, Interval: 10 * time.Millisecond},
		Summarizer: config.SummarizerConfig{MaxWords: 8},
		Output:     config.OutputConfig{TranscriptFile: "transcript.txt", SummaryFile: "summary.txt"},
	}
}

func sampleSegments() []models.Segment {
	return []models.Segment{
		{Start: 0, Text: "Speaker 1: welcome to the show everyone"},
		{Start: 5 * time.Second, Text: "ok"},
		{Start: 10 * time.Second, Text: "today we talk about channels and goroutines"},
		{Start: 75 * time.Second, Text: "and then we will wrap up with questions"},
	}
}

func newTestProcessor(t *testing.T, cfg *config.Config, d *fakeDownloader, tr *fakeTranscriber, s summarizer.Summarizer) *implProcessor {
	t.Helper()
	return New(cfg, Components{Downloader: d, Transcriber: tr, Summarizer: s}, logger.Discard(), nil).(*implProcessor)
}

func TestRun(t *testing.T) {
	cfg := newTestConfig(t)
	if err := os.MkdirAll(cfg.Paths.WorkDir, 0755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(cfg.Paths.WorkDir, "stale.mp3")
	if err := os.WriteFile(stale, nil, 0644); err != nil {
		t.Fatal(err)
	}

	d := &fakeDownloader{}
	p := newTestProcessor(t, cfg, d, &fakeTranscriber{segments: sampleSegments()}, &fakeSummarizer{})

	res, err := p.Run(context.Background(), "  https://www.youtube.com/watch?v=abc  ")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if d.gotURL != "https://www.youtube.com/watch?v=abc" {
		t.Errorf("downloader got %q", d.gotURL)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("work dir should be cleared before the run")
	}

	transcript, err := os.ReadFile(res.TranscriptPath)
	if err != nil {
		t.Fatal(err)
	}
	wantTranscript := "[0:00] Speaker 1: welcome to the show everyone\n[0:05] ok\n[0:10] today we talk about channels and goroutines\n[1:15] and then we will wrap up with questions\n"
	if string(transcript) != wantTranscript {
		t.Errorf("transcript =\n%s\nwant\n%s", transcript, wantTranscript)
	}

	if len(res.Chunks) != 2 {
		t.Fatalf("got %d chunks, want 2: %+v", len(res.Chunks), res.Chunks)
	}
	summary, err := os.ReadFile(res.SummaryPath)
	if err != nil {
		t.Fatal(err)
	}
	wantSummary := "[0:00:00] • point A\n[0:01:15] • point B\n"
	if string(summary) != wantSummary {
		t.Errorf("summary = %q, want %q", summary, wantSummary)
	}
	if res.TranscriptDocx != "" || res.SummaryDocx != "" {
		t.Error("docx paths should be empty when docx output is disabled")
	}
}

func TestRunWritesDocx(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Output.Docx = true
	p := newTestProcessor(t, cfg, &fakeDownloader{}, &fakeTranscriber{segments: sampleSegments()}, &fakeSummarizer{})

	res, err := p.Run(context.Background(), "https://example.com/v")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, path := range []string{res.TranscriptDocx, res.SummaryDocx} {
		if filepath.Ext(path) != ".docx" {
			t.Errorf("docx path = %q", path)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("stat %s: %v", path, err)
		}
	}
}

func TestRunStageErrors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		url       string
		d         *fakeDownloader
		tr        *fakeTranscriber
		s         *fakeSummarizer
		wantStage error
		wantAlso  error
	}{
		{"empty url", "", &fakeDownloader{}, &fakeTranscriber{}, &fakeSummarizer{}, ErrDownload, nil},
		{"bad scheme", "ftp://example.com/v", &fakeDownloader{}, &fakeTranscriber{}, &fakeSummarizer{}, ErrDownload, nil},
		{"download fails", "https://example.com/v", &fakeDownloader{err: boom}, &fakeTranscriber{}, &fakeSummarizer{}, ErrDownload, boom},
		{"audio never appears", "https://example.com/v", &fakeDownloader{noFile: true}, &fakeTranscriber{}, &fakeSummarizer{}, ErrDownload, fs.ErrNotExist},
		{"transcription fails", "https://example.com/v", &fakeDownloader{}, &fakeTranscriber{err: boom}, &fakeSummarizer{}, ErrTranscription, boom},
		{"summarizer cancelled", "https://example.com/v", &fakeDownloader{}, &fakeTranscriber{segments: sampleSegments()}, &fakeSummarizer{err: context.Canceled}, ErrSummarization, context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProcessor(t, newTestConfig(t), tt.d, tt.tr, tt.s)

			_, err := p.Run(context.Background(), tt.url)
			if !errors.Is(err, tt.wantStage) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantStage)
			}
			if tt.wantAlso != nil && !errors.Is(err, tt.wantAlso) {
				t.Errorf("Run() error = %v, want it to wrap %v", err, tt.wantAlso)
			}
			for _, other := range []error{ErrDownload, ErrTranscription, ErrSummarization, ErrPersist} {
				if other != tt.wantStage && errors.Is(err, other) {
					t.Errorf("Run() error = %v also matches %v", err, other)
				}
			}
		})
	}
}

func TestRunAudioNotFoundIsTagged(t *testing.T) {
	p := newTestProcessor(t, newTestConfig(t), &fakeDownloader{noFile: true}, &fakeTranscriber{}, &fakeSummarizer{})

	_, err := p.Run(context.Background(), "https://example.com/v")
	if !errors.Is(err, ErrAudioNotFound) {
		t.Fatalf("Run() error = %v, want ErrAudioNotFound", err)
	}
}

type failingModel struct{ calls int }

func (m *failingModel) Summarize(ctx context.Context, text string, limits summarizer.Limits) (string, error) {
	m.calls++
	return "", errors.New("quota exceeded")
}

func TestRunEveryChunkFailingKeepsOutputs(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Summarizer.MaxWords = 120
	tr := &fakeTranscriber{segments: []models.Segment{
		{Start: 0, Text: "this single segment has exactly nine words in it"},
	}}
	model := &failingModel{}
	s := summarizer.New(model, summarizer.Limits{MinWords: 40, MaxWords: 120}, logger.Discard())
	p := newTestProcessor(t, cfg, &fakeDownloader{}, tr, s)

	res, err := p.Run(context.Background(), "https://example.com/v")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if model.calls != 1 {
		t.Errorf("model called %d times, want 1", model.calls)
	}
	if len(res.Chunks) != 1 || len(res.Partials) != 0 || res.Digest != "" {
		t.Errorf("chunks = %d, partials = %d, digest = %q", len(res.Chunks), len(res.Partials), res.Digest)
	}
	if res.TranscriptPath == "" || res.SummaryPath == "" {
		t.Fatalf("paths = %q/%q, want both set", res.TranscriptPath, res.SummaryPath)
	}
	if _, err := os.Stat(res.TranscriptPath); err != nil {
		t.Errorf("transcript missing: %v", err)
	}
	summary, err := os.ReadFile(res.SummaryPath)
	if err != nil {
		t.Fatalf("summary missing: %v", err)
	}
	if len(summary) != 0 {
		t.Errorf("summary = %q, want empty", summary)
	}
}

func TestRunShortTranscriptHasEmptyDigest(t *testing.T) {
	tr := &fakeTranscriber{segments: []models.Segment{{Start: 0, Text: "hi"}}}
	p := newTestProcessor(t, newTestConfig(t), &fakeDownloader{}, tr, &fakeSummarizer{})

	res, err := p.Run(context.Background(), "https://example.com/v")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.Chunks) != 0 || res.Digest != "" {
		t.Errorf("chunks = %d, digest = %q; want none", len(res.Chunks), res.Digest)
	}
}

func TestWaitForFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "late.mp3")

	go func() {
		time.Sleep(30 * time.Millisecond)
		_ = os.WriteFile(path, nil, 0644)
	}()

	if err := waitForFile(context.Background(), path, time.Second, 5*time.Millisecond); err != nil {
		t.Fatalf("waitForFile() error = %v", err)
	}
}

func TestWaitForFileTimeout(t *testing.T) {
	start := time.Now()
	err := waitForFile(context.Background(), filepath.Join(t.TempDir(), "never"), 50*time.Millisecond, 10*time.Millisecond)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("waitForFile() error = %v, want fs.ErrNotExist", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("returned after %v, before the timeout", elapsed)
	}
}

func TestWaitForFileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := waitForFile(ctx, filepath.Join(t.TempDir(), "never"), time.Minute, time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("waitForFile() error = %v, want context.Canceled", err)
	}
}

func TestProcessFile(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Output.Docx = true
	if err := os.MkdirAll(cfg.Paths.Inbox, 0755); err != nil {
		t.Fatal(err)
	}
	inbox := filepath.Join(cfg.Paths.Inbox, "go-talk.url")
	if err := os.WriteFile(inbox, []byte("\n  https://example.com/v  \nignored\n"), 0644); err != nil {
		t.Fatal(err)
	}

	d := &fakeDownloader{}
	p := newTestProcessor(t, cfg, d, &fakeTranscriber{segments: sampleSegments()}, &fakeSummarizer{})

	if err := p.ProcessFile(context.Background(), inbox); err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}
	if d.gotURL != "https://example.com/v" {
		t.Errorf("downloader got %q", d.gotURL)
	}

	for _, name := range []string{"transcript.txt", "summary.txt", "transcript.docx", "summary.docx"} {
		if _, err := os.Stat(filepath.Join(cfg.Paths.Output, "go-talk", name)); err != nil {
			t.Errorf("exported %s: %v", name, err)
		}
	}
	if _, err := os.Stat(inbox); !os.IsNotExist(err) {
		t.Error("inbox file should be moved")
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.Archived, "go-talk.url")); err != nil {
		t.Errorf("archived file: %v", err)
	}
}

func TestProcessFileErrors(t *testing.T) {
	cfg := newTestConfig(t)
	p := newTestProcessor(t, cfg, &fakeDownloader{err: errors.New("boom")}, &fakeTranscriber{}, &fakeSummarizer{})

	blank := filepath.Join(t.TempDir(), "blank.txt")
	if err := os.WriteFile(blank, []byte("\n   \n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := p.ProcessFile(context.Background(), blank); !errors.Is(err, ErrNoURL) {
		t.Errorf("ProcessFile(blank) error = %v, want ErrNoURL", err)
	}

	failing := filepath.Join(t.TempDir(), "failing.url")
	if err := os.WriteFile(failing, []byte("https://example.com/v"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := p.ProcessFile(context.Background(), failing); !errors.Is(err, ErrDownload) {
		t.Errorf("ProcessFile(failing) error = %v, want ErrDownload", err)
	}
	if _, err := os.Stat(failing); err != nil {
		t.Error("inbox file should stay in place after a failed run")
	}
}

func TestCleanupAndClose(t *testing.T) {
	cfg := newTestConfig(t)
	d := &fakeDownloader{}
	p := newTestProcessor(t, cfg, d, &fakeTranscriber{segments: sampleSegments()}, &fakeSummarizer{})

	if _, err := p.Run(context.Background(), "https://example.com/v"); err != nil {
		t.Fatal(err)
	}
	if err := p.Cleanup(context.Background()); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if _, err := os.Stat(cfg.Paths.WorkDir); !os.IsNotExist(err) {
		t.Error("work dir should be removed")
	}

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !d.closed {
		t.Error("Close() should close components implementing io.Closer")
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://www.youtube.com/watch?v=abc", false},
		{"http://example.com/v", false},
		{"", true},
		{"youtube.com/watch?v=abc", true},
		{"file:///etc/passwd", true},
		{"https://", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := validateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestStageErrMessage(t *testing.T) {
	err := stageErr(ErrTranscription, errors.New("whisper crashed"))
	if !strings.HasPrefix(err.Error(), "transcription failed: ") {
		t.Errorf("error message = %q", err.Error())
	}
}
