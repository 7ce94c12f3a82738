package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// captureLogOutput captures log output for testing by temporarily
// redirecting the logger to write to a buffer
func captureLogOutput(f func()) string {
	var buf bytes.Buffer

	oldLogger := defaultLogger
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	defaultLogger = slog.New(handler)

	f()

	defaultLogger = oldLogger
	return buf.String()
}

// decode parses a single JSON log line.
func decode(t *testing.T, output string) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(output)), &entry); err != nil {
		t.Fatalf("failed to decode log line %q: %v", output, err)
	}
	return entry
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"", LevelInfo, false},
		{"INFO", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("text"); err != nil || f != FormatText {
		t.Errorf("ParseFormat(text) = %v, %v", f, err)
	}
	if f, err := ParseFormat(""); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(\"\") = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) succeeded")
	}
}

func TestInitLoggerTo(t *testing.T) {
	defer InitLogger(LevelInfo, FormatJSON)

	tests := []struct {
		name     string
		level    Level
		format   Format
		wantJSON bool
		wantMsg  bool
	}{
		{"json debug", LevelDebug, FormatJSON, true, true},
		{"text info", LevelInfo, FormatText, false, true},
		{"json error hides info", LevelError, FormatJSON, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			InitLoggerTo(&buf, tt.level, tt.format)
			InfoContext(context.Background(), "hello", "k", "v")

			out := buf.String()
			if got := strings.Contains(out, "hello"); got != tt.wantMsg {
				t.Fatalf("output %q contains message = %v, want %v", out, got, tt.wantMsg)
			}
			if !tt.wantMsg {
				return
			}
			if got := strings.HasPrefix(out, "{"); got != tt.wantJSON {
				t.Errorf("output %q JSON = %v, want %v", out, got, tt.wantJSON)
			}
		})
	}
}

func TestReplaceAttrTimestamp(t *testing.T) {
	defer InitLogger(LevelInfo, FormatJSON)

	var buf bytes.Buffer
	InitLoggerTo(&buf, LevelInfo, FormatJSON)
	InfoContext(context.Background(), "stamp")

	entry := decode(t, buf.String())
	ts, ok := entry["time"].(string)
	if !ok {
		t.Fatalf("time = %v, want string", entry["time"])
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("time %q is not RFC3339: %v", ts, err)
	}
}

func TestContextValues(t *testing.T) {
	entry := decode(t, captureLogOutput(func() {
		InfoContext(context.Background(), "bare")
	}))
	if _, ok := entry["run_id"]; ok {
		t.Errorf("entry = %v, want no run_id on an empty context", entry)
	}

	ctx := WithBook(WithRunID(context.Background(), "run-1"), "GEN")
	entry = decode(t, captureLogOutput(func() {
		InfoContext(ctx, "scoped")
	}))
	if entry["run_id"] != "run-1" || entry["book"] != "GEN" {
		t.Errorf("entry = %v, want run_id and book attached", entry)
	}
}

func TestLoggingFunctions(t *testing.T) {
	tests := []struct {
		name  string
		log   func()
		level string
	}{
		{"debug ctx", func() { DebugContext(context.Background(), "m") }, "DEBUG"},
		{"info ctx", func() { InfoContext(context.Background(), "m") }, "INFO"},
		{"warn ctx", func() { WarnContext(context.Background(), "m") }, "WARN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := decode(t, captureLogOutput(tt.log))
			if entry["level"] != tt.level {
				t.Errorf("level = %v, want %s", entry["level"], tt.level)
			}
		})
	}
}

func TestIngestEvents(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-2")

	tests := []struct {
		name  string
		log   func()
		msg   string
		level string
		key   string
		want  any
	}{
		{"run started", func() { RunStarted(ctx, "de4e12af7f28f599", "5", "KJV") }, "run_started", "INFO", "dbl_id", "de4e12af7f28f599"},
		{"book ingested", func() { BookIngested(ctx, "GEN", 50, 1533, 12, 1500*time.Millisecond) }, "book_ingested", "INFO", "duration_ms", float64(1500)},
		{"book failed", func() { BookFailed(ctx, "EXO", errors.New("boom")) }, "book_failed", "ERROR", "error", "boom"},
		{"chapter skipped", func() { ChapterSkipped(ctx, "GEN 3", "missing end milestone") }, "chapter_skipped", "WARN", "reason", "missing end milestone"},
		{"reference rejected", func() { ReferenceRejected(ctx, "1.2.3", errors.New("bad")) }, "reference_rejected", "WARN", "input", "1.2.3"},
		{"artifact stored", func() { ArtifactStored(ctx, "abc/5/styles.xml", "ff", 42, "backend", "file") }, "artifact_stored", "INFO", "backend", "file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := decode(t, captureLogOutput(tt.log))
			if entry["msg"] != tt.msg {
				t.Errorf("msg = %v, want %s", entry["msg"], tt.msg)
			}
			if entry["level"] != tt.level {
				t.Errorf("level = %v, want %s", entry["level"], tt.level)
			}
			if entry[tt.key] != tt.want {
				t.Errorf("%s = %v, want %v", tt.key, entry[tt.key], tt.want)
			}
			if entry["run_id"] != "run-2" {
				t.Errorf("run_id = %v, want run-2", entry["run_id"])
			}
		})
	}
}
