package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerWritesTimestampedLines(t *testing.T) {
	dataDir := t.TempDir()

	logger, err := New(dataDir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Printf("generation started for %s", "resume.pdf")
	logger.Printf("generation finished\n")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dataDir, "logs", "lettersmith.log"))
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), string(data))
	}
	if !strings.Contains(lines[0], "generation started for resume.pdf") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.HasPrefix(lines[0], "[") {
		t.Errorf("line not timestamped: %q", lines[0])
	}
}

func TestLoggerAppendsAcrossOpens(t *testing.T) {
	dataDir := t.TempDir()

	first, err := New(dataDir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	first.Printf("one")
	first.Close()

	second, err := New(dataDir)
	if err != nil {
		t.Fatalf("New (reopen) failed: %v", err)
	}
	second.Printf("two")
	second.Close()

	data, err := os.ReadFile(filepath.Join(dataDir, "logs", "lettersmith.log"))
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "one") || !strings.Contains(string(data), "two") {
		t.Errorf("log did not append: %q", string(data))
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	logger.Printf("should not panic")
	if err := logger.Close(); err != nil {
		t.Errorf("nil Close should return nil, got %v", err)
	}
}
