// Package progress draws progress bars and spinners for long renders.
// Output goes to stderr so stdout stays clean for --json and pipes.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Bar is a progress bar over a known number of designs.
type Bar struct {
	Total   int
	Current int
	Failed  int
	Label   string
	Width   int
	Enabled bool
	Out     io.Writer

	mu sync.Mutex
}

// New returns a bar that draws only on a terminal and when
// SHEETKIT_NO_PROGRESS is unset.
func New(label string, total int) *Bar {
	return &Bar{
		Total:   total,
		Label:   label,
		Width:   30,
		Enabled: Enabled(),
		Out:     os.Stderr,
	}
}

// Done records one finished item and redraws.
func (b *Bar) Done(name string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Current = min(b.Current+1, b.Total)
	if err != nil {
		b.Failed++
	}
	b.render(name)
}

// Finish clears the bar and prints summary.
func (b *Bar) Finish(summary string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.Enabled {
		return
	}
	mark := "✓"
	if b.Failed > 0 {
		mark = "✗"
	}
	fmt.Fprintf(b.out(), "\r\033[K%s %s\n", mark, summary)
}

// Pct returns the completed share, 0 to 100.
func (b *Bar) Pct() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Total == 0 {
		return 0
	}
	return float64(b.Current) / float64(b.Total) * 100
}

func (b *Bar) render(status string) {
	if !b.Enabled {
		return
	}
	filled := 0
	if b.Total > 0 {
		filled = min(b.Current*b.Width/b.Total, b.Width)
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", b.Width-filled)
	failed := ""
	if b.Failed > 0 {
		failed = fmt.Sprintf(" (%d failed)", b.Failed)
	}
	fmt.Fprintf(b.out(), "\r\033[K%s %s %d/%d%s  %s", b.Label, bar, b.Current, b.Total, failed, status)
}

func (b *Bar) out() io.Writer {
	if b.Out == nil {
		return os.Stderr
	}
	return b.Out
}

// Spinner shows activity while a single render runs.
type Spinner struct {
	Label   string
	Enabled bool
	Out     io.Writer

	mu      sync.Mutex
	done    chan struct{}
	running bool
}

// NewSpinner returns a spinner enabled under the same rules as New.
func NewSpinner(label string) *Spinner {
	return &Spinner{Label: label, Enabled: Enabled(), Out: os.Stderr}
}

// Start begins the animation. It is a no-op when disabled or running.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Enabled || s.running {
		return
	}
	s.running = true
	s.done = make(chan struct{})
	go s.spin(s.done)
}

func (s *Spinner) spin(done <-chan struct{}) {
	frames := []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()
	for i := 0; ; i++ {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.running {
				fmt.Fprintf(s.writer(), "\r\033[K%c %s", frames[i%len(frames)], s.Label)
			}
			s.mu.Unlock()
		}
	}
}

// Stop ends a running animation and prints result, if any.
func (s *Spinner) Stop(result string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.done)
	fmt.Fprint(s.writer(), "\r\033[K")
	if result != "" {
		fmt.Fprintln(s.writer(), result)
	}
}

// Update changes the label while running.
func (s *Spinner) Update(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Label = label
}

func (s *Spinner) writer() io.Writer {
	if s.Out == nil {
		return os.Stderr
	}
	return s.Out
}

// Enabled reports whether progress output should be drawn: stderr is a
// terminal and SHEETKIT_NO_PROGRESS is not set.
func Enabled() bool {
	if v := os.Getenv("SHEETKIT_NO_PROGRESS"); v != "" && v != "0" {
		return false
	}
	stat, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}
