package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"devlog/internal/config"
)

func TestNewLoggerDevelopmentUsesText(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := newLogger(&config.Config{Env: "development", LogLevel: "info"}, &buf)
	defer closer.Close()

	logger.Debug("hidden")
	logger.Info("hello", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug record should be filtered at info level")
	}
	if !strings.Contains(out, "msg=hello") || !strings.Contains(out, "k=v") {
		t.Errorf("expected text record, got %q", out)
	}
}

func TestNewLoggerProductionUsesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := newLogger(&config.Config{Env: "production", LogLevel: "debug"}, &buf)
	defer closer.Close()

	logger.Debug("visible")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected a JSON record, got %q", buf.String())
	}
	if rec["msg"] != "visible" || rec["service"] != "devlog" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestNewLoggerTeesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devlog.log")
	var buf bytes.Buffer
	logger, closer := newLogger(&config.Config{Env: "production", LogLevel: "info", LogFile: path}, &buf)

	logger.Info("to both")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "to both") || !strings.Contains(buf.String(), "to both") {
		t.Errorf("record should reach stdout and file; file=%q stdout=%q", data, buf.String())
	}
}
