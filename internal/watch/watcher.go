// Package watch re-renders design files when they, or the data files and
// images they reference, change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change triggers a render.
const DefaultDebounce = 300 * time.Millisecond

// Handler renders one design file and returns the files it depends on.
type Handler func(ctx context.Context, design string) (deps []string, err error)

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   *log.Logger
	Handler  Handler
}

// Event represents a change that was detected and processed.
type Event struct {
	Time    time.Time `json:"time"`
	Path    string    `json:"path"`
	Design  string    `json:"design"`
	Status  string    `json:"status"` // "rendered", "error"
	Error   string    `json:"error,omitempty"`
	Elapsed string    `json:"elapsed,omitempty"`
}

// Status represents the current watcher status.
type Status struct {
	Running    bool     `json:"running"`
	Designs    []string `json:"designs"`
	Files      int      `json:"files"`
	EventCount int      `json:"eventCount"`
	StartedAt  string   `json:"startedAt,omitempty"`
}

// Watcher monitors design files and their dependencies.
type Watcher struct {
	opts Options

	mu       sync.Mutex
	ctx      context.Context
	fsw      *fsnotify.Watcher
	designs  map[string][]string        // design -> dependencies
	owners   map[string]map[string]bool // watched file -> designs using it
	dirs     map[string]bool
	debounce map[string]*time.Timer
	events   []Event
	started  time.Time
	running  bool
}

// New creates a Watcher. Files are registered with Add.
func New(opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Watcher{
		opts:     opts,
		ctx:      context.Background(),
		fsw:      fsw,
		designs:  make(map[string][]string),
		owners:   make(map[string]map[string]bool),
		dirs:     make(map[string]bool),
		debounce: make(map[string]*time.Timer),
	}, nil
}

// Add watches design and the files it depends on, replacing any
// dependencies registered for it before.
func (w *Watcher) Add(design string, deps []string) error {
	abs, err := filepath.Abs(design)
	if err != nil {
		return fmt.Errorf("could not resolve %s: %w", design, err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, old := range w.designs[abs] {
		delete(w.owners[old], abs)
	}
	files := []string{abs}
	for _, d := range deps {
		if p, err := filepath.Abs(d); err == nil {
			files = append(files, p)
		}
	}
	w.designs[abs] = files
	for _, f := range files {
		if w.owners[f] == nil {
			w.owners[f] = make(map[string]bool)
		}
		w.owners[f][abs] = true
		// Directories are watched so editors that replace files on save
		// are still seen.
		dir := filepath.Dir(f)
		if w.dirs[dir] {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("could not watch %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	return nil
}

// Start processes file events. It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	w.ctx, w.started, w.running = ctx, time.Now(), true
	n := len(w.designs)
	w.mu.Unlock()

	w.opts.Logger.Info("watching", "designs", n)

	for {
		select {
		case <-ctx.Done():
			w.opts.Logger.Info("stopping watcher")
			w.mu.Lock()
			w.running = false
			for _, t := range w.debounce {
				t.Stop()
			}
			w.mu.Unlock()
			return w.fsw.Close()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.opts.Logger.Error("watch error", "err", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".~") || strings.HasSuffix(base, "~") {
		return
	}
	path, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for design := range w.owners[path] {
		if timer, ok := w.debounce[design]; ok {
			timer.Stop()
		}
		design := design
		w.debounce[design] = time.AfterFunc(w.opts.Debounce, func() {
			w.process(path, design)
		})
	}
}

func (w *Watcher) process(path, design string) {
	w.mu.Lock()
	ctx := w.ctx
	w.mu.Unlock()
	if ctx.Err() != nil {
		return
	}

	evt := Event{Time: time.Now(), Path: path, Design: design, Status: "rendered"}
	if w.opts.Handler == nil {
		w.opts.Logger.Info("changed", "path", path, "design", design)
	} else {
		deps, err := w.opts.Handler(ctx, design)
		if err != nil {
			evt.Status, evt.Error = "error", err.Error()
			w.opts.Logger.Error("render failed", "design", design, "err", err)
		} else if err := w.Add(design, deps); err != nil {
			w.opts.Logger.Warn("could not watch dependencies", "design", design, "err", err)
		}
	}
	evt.Elapsed = time.Since(evt.Time).Round(time.Millisecond).String()

	w.mu.Lock()
	w.events = append(w.events, evt)
	w.mu.Unlock()
}

// Status returns the current watcher status.
func (w *Watcher) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := Status{
		Running:    w.running,
		Files:      len(w.owners),
		EventCount: len(w.events),
	}
	for d := range w.designs {
		s.Designs = append(s.Designs, d)
	}
	if !w.started.IsZero() {
		s.StartedAt = w.started.Format(time.RFC3339)
	}
	return s
}

// Events returns all recorded events.
func (w *Watcher) Events() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	events := make([]Event, len(w.events))
	copy(events, w.events)
	return events
}

// Close releases the watcher when Start was never called.
func (w *Watcher) Close() error { return w.fsw.Close() }
