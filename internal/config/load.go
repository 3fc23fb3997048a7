package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader reads a YAML config file and applies environment overrides. Tests can
// override Lookup to inject deterministic maps.
type Loader struct {
	Lookup func(string) (string, bool)
}

// Load reads path with the process environment as override source.
func Load(path string) (*Config, error) {
	return Loader{}.Load(path)
}

// Load decodes the YAML file at path, applies env overrides and validates.
func (l Loader) Load(path string) (*Config, error) {
	if l.Lookup == nil {
		l.Lookup = os.LookupEnv
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	l.applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func (l Loader) applyEnv(cfg *Config) {
	if raw, ok := l.lookup("GEMINI_API_KEYS"); ok {
		var keys []string
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
		if len(keys) > 0 {
			cfg.Gemini.APIKeys = keys
		}
	}
	if v, ok := l.lookup("OPENAI_API_KEY"); ok {
		cfg.OpenAI.APIKey = v
	}
	if v, ok := l.lookup("DIGEST_LOG_LEVEL"); ok {
		cfg.Logging.Level = v
	}
	if v, ok := l.lookup("DIGEST_WORK_DIR"); ok {
		cfg.Paths.WorkDir = v
	}
	if v, ok := l.lookup("DIGEST_SERVER_ADDR"); ok {
		cfg.Server.Addr = v
	}
}

func (l Loader) lookup(key string) (string, bool) {
	v, ok := l.Lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
