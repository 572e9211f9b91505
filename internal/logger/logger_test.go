package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"info", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"invalid", LevelWarn, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr && err == nil {
				t.Errorf("expected error for input %q", tt.input)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for input %q: %v", tt.input, err)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("expected %v, got %v for input %q", tt.expected, got, tt.input)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetLevel(LevelWarn)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below warn were written: %q", out)
	}
	if !strings.Contains(out, "[WARN] warn message") {
		t.Errorf("missing warn line: %q", out)
	}
	if !strings.Contains(out, "[ERROR] error message") {
		t.Errorf("missing error line: %q", out)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vibedev.log")
	t.Setenv(envLevel, "debug")
	t.Setenv(envFile, path)

	l := New()
	defer l.Close()

	if l.Level() != LevelDebug {
		t.Fatalf("level = %v, want DEBUG", l.Level())
	}

	l.Debug("written to %s", "file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "[DEBUG] written to file") {
		t.Errorf("log file content = %q", data)
	}
}

func TestConfigure(t *testing.T) {
	l := New()
	defer l.Close()

	if err := l.Configure("bogus", ""); err == nil {
		t.Error("expected error for invalid level")
	}
	if err := l.Configure("info", ""); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if l.Level() != LevelInfo {
		t.Errorf("level = %v, want INFO", l.Level())
	}

	// Empty values keep the current setting.
	if err := l.Configure("", ""); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if l.Level() != LevelInfo {
		t.Errorf("level = %v, want INFO", l.Level())
	}
}
