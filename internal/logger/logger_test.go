package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"invalid level", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.level, "text")
			if log == nil {
				t.Error("New() returned nil")
			}
		})
	}
}

func TestLoggerLevels(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	log := newWithOutput(&buf, "info", "text")

	log.Debug(ctx, "debug message")
	log.Info(ctx, "info message")
	log.Warn(ctx, "warn message")
	log.Error(ctx, "error message")
	log.Info(ctx, "formatted message: %s %d", "test", 123)

	out := buf.String()
	if strings.Contains(out, "debug message") {
		t.Error("debug message should be filtered at info level")
	}
	for _, want := range []string{"info message", "warn message", "error message", "formatted message: test 123"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShouldLog(t *testing.T) {
	tests := []struct {
		name        string
		configLevel string
		logLevel    logrus.Level
		shouldLog   bool
	}{
		{"debug logs at debug level", "debug", logrus.DebugLevel, true},
		{"info logs at debug level", "debug", logrus.InfoLevel, true},
		{"debug doesn't log at info level", "info", logrus.DebugLevel, false},
		{"info logs at info level", "info", logrus.InfoLevel, true},
		{"error always logs", "debug", logrus.ErrorLevel, true},
		{"invalid level defaults to info", "loud", logrus.DebugLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := newWithOutput(&bytes.Buffer{}, tt.configLevel, "text")
			if got := log.shouldLog(tt.logLevel); got != tt.shouldLog {
				t.Errorf("shouldLog() = %v, want %v", got, tt.shouldLog)
			}
		})
	}
}

func TestRunIDField(t *testing.T) {
	var buf bytes.Buffer
	log := newWithOutput(&buf, "info", "json")

	ctx := WithRunID(context.Background(), "run-42")
	log.Info(ctx, "hello %s", "world")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if line["run_id"] != "run-42" {
		t.Errorf("run_id = %v, want run-42", line["run_id"])
	}
	if line["msg"] != "hello world" {
		t.Errorf("msg = %v, want %q", line["msg"], "hello world")
	}
}

func TestRunIDMissing(t *testing.T) {
	if got := RunID(context.Background()); got != "" {
		t.Errorf("RunID() = %q, want empty", got)
	}
}
