package app

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/heartmarshall/jlex/internal/config"
)

func TestNewHandler_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, config.LogConfig{Level: "info", Format: "json"}))
	logger.Info("annotated", slog.String("doc", "a.txt"))

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("JSON handler should produce valid JSON: %v", err)
	}
	if m["doc"] != "a.txt" {
		t.Errorf("doc attribute = %v", m["doc"])
	}
}

func TestNewHandler_TextWithSource(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, config.LogConfig{Level: "debug", Format: "text"}))
	logger.Debug("source test")

	if !strings.Contains(buf.String(), "source=") {
		t.Errorf("text format should include source, got %q", buf.String())
	}
}

func TestNewHandler_LevelFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, config.LogConfig{Level: "warn", Format: "text"}))
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"unknown", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLogOutput_RotatingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "jlex.log")
	w, closer := logOutput(config.LogConfig{File: path, MaxSizeMB: 1})
	if _, err := w.Write([]byte("line\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if string(data) != "line\n" {
		t.Errorf("log file = %q", data)
	}
}

func TestLogOutput_Stderr(t *testing.T) {
	t.Parallel()

	w, closer := logOutput(config.LogConfig{})
	if w != os.Stderr {
		t.Error("empty file should log to stderr")
	}
	if err := closer.Close(); err != nil {
		t.Errorf("nop close: %v", err)
	}
}
