package history

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klytics/sheetkit/internal/render"
)

func TestLogWritesEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	l := NewLogger(path, true)
	if err := l.Log(context.Background(), Entry{RunID: "abc", Design: "sales.yaml", Success: true}); err != nil {
		t.Fatal(err)
	}

	entries, err := ReadEntries(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].RunID != "abc" || !entries[0].Success {
		t.Errorf("entries = %+v", entries)
	}
}

func TestLogDisabledIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	NewLogger(path, false).Log(context.Background(), Entry{RunID: "abc"})
	var nilLogger *Logger
	nilLogger.Log(context.Background(), Entry{RunID: "abc"})

	if _, err := os.Stat(path); err == nil {
		t.Error("disabled logger should not create file")
	}
}

func TestLogCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "deep", "history.jsonl")

	NewLogger(path, true).Log(context.Background(), Entry{RunID: "abc"})

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("expected log file to be created in nested directory")
	}
}

func TestReadEntriesSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	os.WriteFile(path, []byte(`{"run_id":"one"}`+"\nnot json\n"+`{"run_id":"two"}`+"\n"), 0644)

	entries, err := ReadEntries(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[1].RunID != "two" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestReadEntriesMissingFile(t *testing.T) {
	entries, err := ReadEntries("/nonexistent/history.jsonl")
	if err != nil {
		t.Fatalf("expected nil error for missing file, got: %v", err)
	}
	if len(entries) != 0 {
		t.Error("expected empty entries for missing file")
	}
}

func TestFromResult(t *testing.T) {
	res := &render.Result{
		RunID:      "0b7e",
		OutputPath: "out/sales.xlsx",
		Culture:    "de-DE",
		Sheets:     3,
		Errors:     []render.ElementError{{Sheet: "Summary", Element: "charts[0]"}},
		StartedAt:  time.Now(),
		Duration:   1500 * time.Millisecond,
	}
	e := FromResult("render", "sales.yaml", res)
	if e.RunID != "0b7e" || e.Output != "out/sales.xlsx" || e.Sheets != 3 || e.Errors != 1 {
		t.Errorf("entry = %+v", e)
	}
	if e.Success || e.DurationMs != 1500 || e.Command != "render" {
		t.Errorf("entry = %+v", e)
	}
}

func TestFilterEntries(t *testing.T) {
	now := time.Now()
	entries := []Entry{
		{Timestamp: now.Add(-2 * time.Hour), Design: "reports/sales.yaml", Success: true},
		{Timestamp: now.Add(-1 * time.Hour), Design: "reports/budget.yaml", Success: false},
		{Timestamp: now, Design: "reports/sales.yaml", Success: false},
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 3},
		{"design", Filter{Design: "sales"}, 2},
		{"failed", Filter{FailedOnly: true}, 2},
		{"since", Filter{Since: now.Add(-90 * time.Minute)}, 2},
		{"until", Filter{Until: now.Add(-90 * time.Minute)}, 1},
		{"limit", Filter{Limit: 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FilterEntries(entries, tt.filter); len(got) != tt.want {
				t.Errorf("got %d entries, want %d", len(got), tt.want)
			}
		})
	}

	if got := FilterEntries(entries, Filter{Limit: 1}); got[0].Timestamp != now {
		t.Error("limit should keep the newest entries")
	}
}

func TestFind(t *testing.T) {
	entries := []Entry{{RunID: "a1b2"}, {RunID: "a1c3"}, {RunID: "ff00"}}

	e, err := Find(entries, "ff")
	if err != nil || e.RunID != "ff00" {
		t.Errorf("Find(ff) = %+v, %v", e, err)
	}
	if _, err := Find(entries, "a1"); err == nil || !strings.Contains(err.Error(), "matches 2") {
		t.Errorf("ambiguous prefix err = %v", err)
	}
	if _, err := Find(entries, "zz"); err == nil {
		t.Error("expected error for unknown run")
	}
}

func TestLogSizeAndClear(t *testing.T) {
	if size := LogSize("/nonexistent/history.jsonl"); size != 0 {
		t.Errorf("expected 0 for missing file, got %d", size)
	}

	path := filepath.Join(t.TempDir(), "history.jsonl")
	os.WriteFile(path, []byte("some data\n"), 0644)
	if LogSize(path) == 0 {
		t.Error("expected non-zero size")
	}
	if err := Clear(path); err != nil {
		t.Fatal(err)
	}
	if LogSize(path) != 0 {
		t.Error("expected empty file after clear")
	}
	if err := Clear(filepath.Join(t.TempDir(), "missing.jsonl")); err != nil {
		t.Errorf("clearing a missing file: %v", err)
	}
}
