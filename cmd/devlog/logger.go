package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/natefinch/lumberjack"

	"devlog/internal/config"
)

// newLogger builds the process logger: text in development, JSON otherwise.
// When LOG_FILE is set, output is also written to a size-rotated file; the
// returned closer flushes and closes it.
func newLogger(cfg *config.Config, stdout io.Writer) (*slog.Logger, io.Closer) {
	var (
		out    = stdout
		closer io.Closer = nopCloser{}
	)
	if cfg.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		out = io.MultiWriter(stdout, file)
		closer = file
	}

	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var h slog.Handler
	if cfg.IsDev() {
		h = slog.NewTextHandler(out, opts)
	} else {
		h = slog.NewJSONHandler(out, opts)
	}
	return slog.New(h).With("service", "devlog"), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// bootstrapLogger is used until configuration is loaded.
func bootstrapLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
