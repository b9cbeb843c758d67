package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/heartmarshall/jlex/internal/config"
	"github.com/heartmarshall/jlex/pkg/ctxutil"
)

// NewLogger creates a *slog.Logger based on the provided LogConfig
// and sets it as the default logger via slog.SetDefault. Records logged
// with a context carry its run ID and document name.
//
// Format "json" produces structured JSON output.
// Format "text" produces human-readable output with source info.
// Level is one of: debug, info, warn, error (case-insensitive); defaults to info.
// Output is os.Stderr unless cfg.File is set, in which case the file is
// rotated by size. The returned closer releases the file.
func NewLogger(cfg config.LogConfig) (*slog.Logger, io.Closer) {
	out, closer := logOutput(cfg)
	logger := slog.New(ctxutil.NewHandler(newHandler(out, cfg)))
	slog.SetDefault(logger)
	return logger, closer
}

func newHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: strings.EqualFold(cfg.Format, "text"),
	}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func logOutput(cfg config.LogConfig) (io.Writer, io.Closer) {
	if cfg.File == "" {
		return os.Stderr, nopCloser{}
	}
	lj := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	return lj, lj
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
