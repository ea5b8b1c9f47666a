package progress

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNewWithEnvDisable(t *testing.T) {
	t.Setenv("SHEETKIT_NO_PROGRESS", "1")
	if New("render", 3).Enabled {
		t.Error("expected bar to be disabled with SHEETKIT_NO_PROGRESS=1")
	}
	if NewSpinner("render").Enabled {
		t.Error("expected spinner to be disabled")
	}
}

func TestBarDone(t *testing.T) {
	var buf bytes.Buffer
	bar := &Bar{Total: 3, Width: 10, Enabled: true, Out: &buf, Label: "Rendering"}
	bar.Done("a.yaml", nil)
	bar.Done("b.yaml", errors.New("boom"))
	bar.Done("c.yaml", nil)
	bar.Done("d.yaml", nil)

	if bar.Current != 3 {
		t.Errorf("current = %d, want capped at 3", bar.Current)
	}
	if bar.Failed != 1 {
		t.Errorf("failed = %d, want 1", bar.Failed)
	}
	out := buf.String()
	if !strings.Contains(out, "Rendering ██████████ 3/3 (1 failed)  c.yaml") {
		t.Errorf("output = %q", out)
	}

	buf.Reset()
	bar.Finish("3 designs")
	if !strings.Contains(buf.String(), "✗ 3 designs") {
		t.Errorf("finish = %q", buf.String())
	}
}

func TestBarPct(t *testing.T) {
	tests := []struct {
		total, current int
		want           float64
	}{
		{10, 0, 0},
		{10, 5, 50},
		{10, 10, 100},
		{0, 0, 0},
	}
	for _, tt := range tests {
		bar := &Bar{Total: tt.total, Current: tt.current}
		if got := bar.Pct(); got != tt.want {
			t.Errorf("Pct(%d/%d) = %v, want %v", tt.current, tt.total, got, tt.want)
		}
	}
}

func TestDisabledBarDoesNotWrite(t *testing.T) {
	var buf bytes.Buffer
	bar := &Bar{Total: 2, Width: 10, Out: &buf}
	bar.Done("a", nil)
	bar.Finish("done")
	if buf.Len() != 0 {
		t.Errorf("disabled bar wrote %q", buf.String())
	}
}

func TestBarConcurrentDone(t *testing.T) {
	bar := &Bar{Total: 50, Width: 10}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bar.Done("x", nil)
		}()
	}
	wg.Wait()
	if bar.Current != 50 {
		t.Errorf("current = %d, want 50", bar.Current)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerStartStop(t *testing.T) {
	out := &syncBuffer{}
	s := &Spinner{Label: "Rendering book.yaml", Enabled: true, Out: out}
	s.Start()
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Update("Saving")
	s.Stop("done")
	s.Stop("")

	got := out.String()
	if !strings.Contains(got, "Rendering book.yaml") {
		t.Errorf("spinner never drew its label: %q", got)
	}
	if !strings.HasSuffix(got, "done\n") {
		t.Errorf("spinner output = %q", got)
	}
}

func TestSpinnerDisabled(t *testing.T) {
	var buf bytes.Buffer
	s := &Spinner{Label: "x", Out: &buf}
	s.Start()
	s.Stop("done")
	if buf.Len() != 0 {
		t.Errorf("disabled spinner wrote %q", buf.String())
	}
}
