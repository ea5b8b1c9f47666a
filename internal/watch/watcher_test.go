package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klytics/sheetkit/internal/logging"
)

func newTestWatcher(t *testing.T, h Handler) *Watcher {
	t.Helper()
	w, err := New(Options{Debounce: 50 * time.Millisecond, Logger: logging.Discard(), Handler: h})
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestNewWatcherDefaults(t *testing.T) {
	w, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if w.opts.Debounce != DefaultDebounce || w.opts.Logger == nil {
		t.Errorf("debounce = %v", w.opts.Debounce)
	}
}

func TestAddTracksDependencies(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "data")
	os.MkdirAll(data, 0755)
	design := filepath.Join(dir, "sales.yaml")
	csv := filepath.Join(data, "sales.csv")

	w := newTestWatcher(t, nil)
	defer w.Close()

	if err := w.Add(design, []string{csv}); err != nil {
		t.Fatal(err)
	}
	if !w.owners[csv][design] || !w.owners[design][design] {
		t.Error("design and dependency not registered")
	}
	if !w.dirs[dir] || !w.dirs[data] {
		t.Errorf("dirs = %v", w.dirs)
	}

	// Re-adding without the dependency drops it.
	if err := w.Add(design, nil); err != nil {
		t.Fatal(err)
	}
	if w.owners[csv][design] {
		t.Error("stale dependency still registered")
	}
	if s := w.Status(); len(s.Designs) != 1 || s.Running {
		t.Errorf("status = %+v", s)
	}
}

func TestAddMissingDirectory(t *testing.T) {
	w := newTestWatcher(t, nil)
	defer w.Close()
	if err := w.Add("/nonexistent/dir/design.yaml", nil); err == nil {
		t.Error("expected error for a missing directory")
	}
}

func TestWatcherRendersOnChange(t *testing.T) {
	dir := t.TempDir()
	design := filepath.Join(dir, "report.yaml")
	csv := filepath.Join(dir, "numbers.csv")
	os.WriteFile(design, []byte("name: Report\n"), 0644)
	os.WriteFile(csv, []byte("a,b\n1,2\n"), 0644)

	rendered := make(chan string, 4)
	w := newTestWatcher(t, func(ctx context.Context, d string) ([]string, error) {
		rendered <- d
		return []string{csv}, nil
	})
	if err := w.Add(design, []string{csv}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()
	time.Sleep(100 * time.Millisecond)

	// Unrelated files are ignored.
	os.WriteFile(filepath.Join(dir, "report.xlsx"), []byte("x"), 0644)
	os.WriteFile(csv, []byte("a,b\n1,3\n"), 0644)

	select {
	case got := <-rendered:
		if got != design {
			t.Errorf("rendered %q, want %q", got, design)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for render")
	}

	time.Sleep(100 * time.Millisecond)
	events := w.Events()
	if len(events) != 1 || events[0].Status != "rendered" || events[0].Path != csv {
		t.Errorf("events = %+v", events)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Start returned %v", err)
	}
}

func TestWatcherRecordsErrors(t *testing.T) {
	dir := t.TempDir()
	design := filepath.Join(dir, "broken.yaml")
	os.WriteFile(design, []byte("name: Broken\n"), 0644)

	failed := make(chan struct{}, 1)
	w := newTestWatcher(t, func(ctx context.Context, d string) ([]string, error) {
		failed <- struct{}{}
		return nil, errors.New("invalid design")
	})
	if err := w.Add(design, nil); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)
	time.Sleep(100 * time.Millisecond)

	os.WriteFile(design, []byte("name: Broken\nsheets: 3\n"), 0644)
	select {
	case <-failed:
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for render")
	}
	time.Sleep(100 * time.Millisecond)

	events := w.Events()
	if len(events) == 0 || events[0].Status != "error" || events[0].Error != "invalid design" {
		t.Errorf("events = %+v", events)
	}
}

func TestDebounceCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	design := filepath.Join(dir, "busy.yaml")
	os.WriteFile(design, []byte("name: Busy\n"), 0644)

	rendered := make(chan string, 10)
	w, err := New(Options{Debounce: 200 * time.Millisecond, Logger: logging.Discard(),
		Handler: func(ctx context.Context, d string) ([]string, error) {
			rendered <- d
			return nil, nil
		}})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Add(design, nil); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 5; i++ {
		os.WriteFile(design, []byte("name: Busy\n"), 0644)
		time.Sleep(20 * time.Millisecond)
	}
	time.Sleep(600 * time.Millisecond)
	if n := len(rendered); n != 1 {
		t.Errorf("renders = %d, want 1", n)
	}
}
