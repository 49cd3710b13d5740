package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGenerateID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if len(id) != 36 {
			t.Fatalf("expected uuid string, got %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestFormatTimestamp(t *testing.T) {
	t.Run("nil renders never", func(t *testing.T) {
		if got := FormatTimestamp(nil); got != "never" {
			t.Errorf("expected never, got %q", got)
		}
	})

	t.Run("zero renders never", func(t *testing.T) {
		var zero time.Time
		if got := FormatTimestamp(&zero); got != "never" {
			t.Errorf("expected never, got %q", got)
		}
	})

	t.Run("formats to the minute", func(t *testing.T) {
		ts := time.Date(2026, 8, 20, 9, 30, 45, 0, time.Local)
		if got := FormatTimestamp(&ts); got != "2026-08-20 09:30" {
			t.Errorf("unexpected format %q", got)
		}
	})
}

func TestNewFileLogger(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "nested", "tvx.log")

		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}

		logger.Info("hello")

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("log file should exist: %v", err)
		}
		if len(data) == 0 {
			t.Error("expected log output written to the file")
		}
	})

	t.Run("appends across open calls", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tvx.log")

		first, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}
		first.Info("first")

		initial, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}

		second, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to reopen file logger: %v", err)
		}
		second.Info("second")

		final, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if len(final) <= len(initial) {
			t.Error("expected reopening to append, not truncate")
		}
	})
}
