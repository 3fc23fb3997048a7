package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	BackendWhisperCLI = "whisper-cli"
	BackendOpenAI     = "openai"

	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	Paths       PathsConfig       `yaml:"paths"`
	Download    DownloadConfig    `yaml:"download"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Wait        WaitConfig        `yaml:"wait"`
	Whisper     WhisperConfig     `yaml:"whisper"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	OpenAI      OpenAIConfig      `yaml:"openai"`
	Output      OutputConfig      `yaml:"output"`
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type PathsConfig struct {
	WorkDir  string `yaml:"work_dir"`
	Inbox    string `yaml:"inbox"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
}

type DownloadConfig struct {
	BinaryPath string `yaml:"binary_path"`
	Format     string `yaml:"format"`
}

type FFmpegConfig struct {
	BinaryPath   string `yaml:"binary_path"`
	AudioBitrate string `yaml:"audio_bitrate"`
}

// WaitConfig bounds the poll for the downloaded audio file.
type WaitConfig struct {
	Timeout  time.Duration `yaml:"timeout"`
	Interval time.Duration `yaml:"interval"`
}

type WhisperConfig struct {
	Backend    string `yaml:"backend"`
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads"`
	UseGPU     bool   `yaml:"use_gpu"`
}

type SummarizerConfig struct {
	Provider  string `yaml:"provider"`
	MaxWords  int    `yaml:"max_words"`
	MinLength int    `yaml:"min_length"`
	MaxLength int    `yaml:"max_length"`
}

type GeminiConfig struct {
	Model   string   `yaml:"model"`
	APIKeys []string `yaml:"api_keys"`
}

type OpenAIConfig struct {
	APIKey             string        `yaml:"api_key"`
	BaseURL            string        `yaml:"base_url"`
	Model              string        `yaml:"model"`
	TranscriptionModel string        `yaml:"transcription_model"`
	Timeout            time.Duration `yaml:"timeout"`
}

type OutputConfig struct {
	TranscriptFile string `yaml:"transcript_file"`
	SummaryFile    string `yaml:"summary_file"`
	Docx           bool   `yaml:"docx"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	WatchInbox  bool   `yaml:"watch_inbox"`
	MetricsPath string `yaml:"metrics_path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

func (c *Config) Validate() error {
	if c.Paths.WorkDir == "" {
		return fmt.Errorf("paths.work_dir is required")
	}

	c.Whisper.Backend = strings.ToLower(strings.TrimSpace(c.Whisper.Backend))
	if c.Whisper.Backend == "" {
		c.Whisper.Backend = BackendWhisperCLI
	}
	switch c.Whisper.Backend {
	case BackendWhisperCLI:
		if c.Whisper.ModelPath == "" {
			return fmt.Errorf("whisper.model_path is required")
		}
		if c.Whisper.BinaryPath == "" {
			return fmt.Errorf("whisper.binary_path is required")
		}
	case BackendOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("openai.api_key is required for whisper.backend %q", BackendOpenAI)
		}
	default:
		return fmt.Errorf("whisper.backend %q is not supported", c.Whisper.Backend)
	}

	c.Summarizer.Provider = strings.ToLower(strings.TrimSpace(c.Summarizer.Provider))
	if c.Summarizer.Provider == "" {
		c.Summarizer.Provider = ProviderGemini
	}
	switch c.Summarizer.Provider {
	case ProviderGemini:
		if len(c.Gemini.APIKeys) == 0 {
			return fmt.Errorf("gemini.api_keys is required for summarizer.provider %q", ProviderGemini)
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("openai.api_key is required for summarizer.provider %q", ProviderOpenAI)
		}
	default:
		return fmt.Errorf("summarizer.provider %q is not supported", c.Summarizer.Provider)
	}

	if c.Summarizer.MaxWords < 0 {
		return fmt.Errorf("summarizer.max_words must be >= 0, got %d", c.Summarizer.MaxWords)
	}
	if c.Summarizer.MinLength > 0 && c.Summarizer.MaxLength > 0 && c.Summarizer.MinLength > c.Summarizer.MaxLength {
		return fmt.Errorf("summarizer.min_length (%d) exceeds max_length (%d)", c.Summarizer.MinLength, c.Summarizer.MaxLength)
	}
	if c.Wait.Timeout < 0 || c.Wait.Interval < 0 {
		return fmt.Errorf("wait durations must not be negative")
	}

	if c.Paths.Inbox == "" {
		c.Paths.Inbox = "data/inbox"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Download.BinaryPath == "" {
		c.Download.BinaryPath = "yt-dlp"
	}
	if c.Download.Format == "" {
		c.Download.Format = "bestaudio/best"
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.AudioBitrate == "" {
		c.FFmpeg.AudioBitrate = "128k"
	}
	if c.Wait.Timeout == 0 {
		c.Wait.Timeout = 30 * time.Second
	}
	if c.Wait.Interval == 0 {
		c.Wait.Interval = 500 * time.Millisecond
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "auto"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.Summarizer.MaxWords == 0 {
		c.Summarizer.MaxWords = 120
	}
	if c.Summarizer.MinLength == 0 {
		c.Summarizer.MinLength = 40
	}
	if c.Summarizer.MaxLength == 0 {
		c.Summarizer.MaxLength = 130
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.OpenAI.TranscriptionModel == "" {
		c.OpenAI.TranscriptionModel = "whisper-1"
	}
	if c.Output.TranscriptFile == "" {
		c.Output.TranscriptFile = "transcript.txt"
	}
	if c.Output.SummaryFile == "" {
		c.Output.SummaryFile = "summary.txt"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.MetricsPath == "" {
		c.Server.MetricsPath = "/metrics"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 1
	}

	return nil
}
