package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewLogger_CreatesDirAndLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	log, err := NewLogger(dir, nil, false)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	// Directory should exist
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("log dir missing: %v", err)
	}

	log.Info("test_message_from_logging_test")
	_ = log.Sync()

	b, err := os.ReadFile(filepath.Join(dir, LogFile))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), `"msg":"test_message_from_logging_test"`) || !strings.Contains(string(b), `"ts":`) {
		t.Fatalf("unexpected JSON log line: %s", b)
	}
}

func TestNewLogger_ConsoleAndLevels(t *testing.T) {
	var console bytes.Buffer
	log, err := NewLogger(t.TempDir(), &console, false)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	log.Debug("hidden_debug")
	log.Info("request_done", zap.Int("status", 200))
	_ = log.Sync()

	out := console.String()
	if strings.Contains(out, "hidden_debug") {
		t.Fatalf("debug must be filtered without verbose: %q", out)
	}
	if !strings.Contains(out, "request_done") || !strings.Contains(out, `"status": 200`) {
		t.Fatalf("console line missing fields: %q", out)
	}

	console.Reset()
	verbose, err := NewLogger(t.TempDir(), &console, true)
	if err != nil {
		t.Fatalf("NewLogger verbose: %v", err)
	}
	verbose.Debug("shown_debug")
	_ = verbose.Sync()
	if !strings.Contains(console.String(), "shown_debug") {
		t.Fatalf("verbose must show debug: %q", console.String())
	}
}
