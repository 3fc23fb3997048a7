package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Paths: PathsConfig{
			WorkDir: "data/downloads",
		},
		Whisper: WhisperConfig{
			ModelPath:  "models/test.bin",
			BinaryPath: "./whisper-cli",
			Language:   "en",
		},
		Gemini: GeminiConfig{
			APIKeys: []string{"key-1"},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing work dir",
			mutate:  func(c *Config) { c.Paths.WorkDir = "" },
			wantErr: true,
		},
		{
			name:    "missing model path",
			mutate:  func(c *Config) { c.Whisper.ModelPath = "" },
			wantErr: true,
		},
		{
			name:    "unknown whisper backend",
			mutate:  func(c *Config) { c.Whisper.Backend = "vosk" },
			wantErr: true,
		},
		{
			name: "openai transcription needs key",
			mutate: func(c *Config) {
				c.Whisper.Backend = "openai"
				c.Whisper.ModelPath = ""
			},
			wantErr: true,
		},
		{
			name: "openai transcription with key",
			mutate: func(c *Config) {
				c.Whisper.Backend = "OpenAI"
				c.Whisper.ModelPath = ""
				c.OpenAI.APIKey = "sk-test"
			},
			wantErr: false,
		},
		{
			name:    "gemini without keys",
			mutate:  func(c *Config) { c.Gemini.APIKeys = nil },
			wantErr: true,
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Summarizer.Provider = "bart" },
			wantErr: true,
		},
		{
			name:    "negative max words",
			mutate:  func(c *Config) { c.Summarizer.MaxWords = -1 },
			wantErr: true,
		},
		{
			name: "min length above max length",
			mutate: func(c *Config) {
				c.Summarizer.MinLength = 200
				c.Summarizer.MaxLength = 100
			},
			wantErr: true,
		},
		{
			name:    "negative wait timeout",
			mutate:  func(c *Config) { c.Wait.Timeout = -time.Second },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Whisper.Backend != BackendWhisperCLI {
		t.Errorf("Backend = %q, want %q", cfg.Whisper.Backend, BackendWhisperCLI)
	}
	if cfg.Summarizer.Provider != ProviderGemini {
		t.Errorf("Provider = %q, want %q", cfg.Summarizer.Provider, ProviderGemini)
	}
	if cfg.Summarizer.MaxWords != 120 {
		t.Errorf("MaxWords = %d, want 120", cfg.Summarizer.MaxWords)
	}
	if cfg.Wait.Timeout != 30*time.Second {
		t.Errorf("Wait.Timeout = %v, want 30s", cfg.Wait.Timeout)
	}
	if cfg.Wait.Interval != 500*time.Millisecond {
		t.Errorf("Wait.Interval = %v, want 500ms", cfg.Wait.Interval)
	}
	if cfg.Output.TranscriptFile != "transcript.txt" || cfg.Output.SummaryFile != "summary.txt" {
		t.Errorf("Output = %+v, want transcript.txt/summary.txt", cfg.Output)
	}
	if cfg.Download.BinaryPath != "yt-dlp" || cfg.FFmpeg.BinaryPath != "ffmpeg" {
		t.Errorf("binaries = %q/%q", cfg.Download.BinaryPath, cfg.FFmpeg.BinaryPath)
	}
	if cfg.Performance.MaxConcurrent != 1 {
		t.Errorf("MaxConcurrent = %d, want 1", cfg.Performance.MaxConcurrent)
	}
}

const sampleYAML = `
paths:
  work_dir: "data/downloads"
  inbox: "data/inbox"

whisper:
  backend: "whisper-cli"
  model_path: "models/test.bin"
  binary_path: "./whisper-cli"
  language: "en"
  prompt: "test"

summarizer:
  provider: "gemini"
  max_words: 200

gemini:
  api_keys: ["a", "b"]

wait:
  timeout: 10s
  interval: 250ms

logging:
  level: "info"
  format: "text"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func noEnv(string) (string, bool) { return "", false }

func TestLoad(t *testing.T) {
	path := writeConfig(t, sampleYAML)

	cfg, err := Loader{Lookup: noEnv}.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Whisper.ModelPath != "models/test.bin" {
		t.Errorf("ModelPath = %v, want %v", cfg.Whisper.ModelPath, "models/test.bin")
	}
	if cfg.Paths.Inbox != "data/inbox" {
		t.Errorf("Inbox = %v, want %v", cfg.Paths.Inbox, "data/inbox")
	}
	if cfg.Summarizer.MaxWords != 200 {
		t.Errorf("MaxWords = %d, want 200", cfg.Summarizer.MaxWords)
	}
	if len(cfg.Gemini.APIKeys) != 2 {
		t.Errorf("APIKeys = %v, want 2 keys", cfg.Gemini.APIKeys)
	}
	if cfg.Wait.Timeout != 10*time.Second || cfg.Wait.Interval != 250*time.Millisecond {
		t.Errorf("Wait = %+v, want 10s/250ms", cfg.Wait)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, sampleYAML)
	env := map[string]string{
		"GEMINI_API_KEYS":    " k1, ,k2 ",
		"OPENAI_API_KEY":     "sk-env",
		"DIGEST_LOG_LEVEL":   "debug",
		"DIGEST_WORK_DIR":    "/tmp/digest",
		"DIGEST_SERVER_ADDR": "127.0.0.1:9000",
	}
	loader := Loader{Lookup: func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}}

	cfg, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Gemini.APIKeys) != 2 || cfg.Gemini.APIKeys[0] != "k1" || cfg.Gemini.APIKeys[1] != "k2" {
		t.Errorf("APIKeys = %v, want [k1 k2]", cfg.Gemini.APIKeys)
	}
	if cfg.OpenAI.APIKey != "sk-env" {
		t.Errorf("OpenAI.APIKey = %q", cfg.OpenAI.APIKey)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	if cfg.Paths.WorkDir != "/tmp/digest" {
		t.Errorf("WorkDir = %q", cfg.Paths.WorkDir)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "paths: [unterminated")
	if _, err := (Loader{Lookup: noEnv}).Load(path); err == nil {
		t.Error("Load() should return error for malformed YAML")
	}
}
