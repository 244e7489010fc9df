package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"DEBUG", log.DebugLevel},
		{"", log.InfoLevel},
		{"bogus", log.InfoLevel},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := parseLevel(tc.input); got != tc.want {
				t.Fatalf("parseLevel(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestInitLoggerWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger(LoggerOptions{Level: "info", Output: &buf})

	logger.Info("hello", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "value") {
		t.Fatalf("log output missing fields: %q", out)
	}
}

func TestInitLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger(LoggerOptions{Level: "error", Output: &buf})

	logger.Info("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below level, got %q", buf.String())
	}
}

func TestInitFileLoggerCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "ward.log")

	logger, err := InitFileLogger(path, LoggerOptions{Level: "info"})
	if err != nil {
		t.Fatalf("InitFileLogger: %v", err)
	}
	logger.Info("file entry")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "file entry") {
		t.Fatalf("log file missing entry: %q", string(data))
	}
}

func TestInitSessionLoggerWritesToDataDir(t *testing.T) {
	dir := t.TempDir()

	logger, err := InitSessionLogger(dir, "debug")
	if err != nil {
		t.Fatalf("InitSessionLogger: %v", err)
	}
	logger.Debug("session started")

	data, err := os.ReadFile(filepath.Join(dir, "session.log"))
	if err != nil {
		t.Fatalf("reading session log: %v", err)
	}
	if !strings.Contains(string(data), "session started") {
		t.Fatalf("session log missing entry: %q", string(data))
	}
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tc := range tests {
		if got := HumanSize(tc.in); got != tc.want {
			t.Fatalf("HumanSize(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
