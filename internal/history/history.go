// Package history keeps a JSON-lines log of renders so past runs can be
// listed, filtered, and looked up by run ID.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/klytics/sheetkit/internal/render"
)

// Entry represents a single render.
type Entry struct {
	RunID      string    `json:"run_id"`
	Timestamp  time.Time `json:"timestamp"`
	Machine    string    `json:"machine"`
	Command    string    `json:"command"`
	Design     string    `json:"design"`
	Output     string    `json:"output,omitempty"`
	Culture    string    `json:"culture,omitempty"`
	Sheets     int       `json:"sheets"`
	Errors     int       `json:"errors"`
	Success    bool      `json:"success"`
	DurationMs int64     `json:"duration_ms"`
}

// FromResult builds the entry for a finished render of design.
func FromResult(command, design string, res *render.Result) Entry {
	host, _ := os.Hostname()
	return Entry{
		RunID:      res.RunID,
		Timestamp:  res.StartedAt,
		Machine:    host,
		Command:    command,
		Design:     design,
		Output:     res.OutputPath,
		Culture:    res.Culture,
		Sheets:     res.Sheets,
		Errors:     len(res.Errors),
		Success:    res.Success,
		DurationMs: res.Duration.Milliseconds(),
	}
}

// Logger appends entries to a history file.
// It is safe for concurrent use.
type Logger struct {
	FilePath string
	Enabled  bool

	mu sync.Mutex
}

// NewLogger creates a Logger writing to filePath.
func NewLogger(filePath string, enabled bool) *Logger {
	return &Logger{FilePath: filePath, Enabled: enabled}
}

// Log appends entry. History is best-effort: failures never fail a render.
func (l *Logger) Log(_ context.Context, entry Entry) error {
	if l == nil || !l.Enabled || l.FilePath == "" {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.FilePath), 0755); err != nil {
		return nil
	}
	f, err := os.OpenFile(l.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return nil
	}
	data = append(data, '\n')
	_, _ = f.Write(data)
	return nil
}

// ReadEntries reads all entries from the history file, oldest first.
func ReadEntries(filePath string) ([]Entry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue // skip malformed lines
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Filter selects entries.
type Filter struct {
	Since, Until time.Time
	Design       string // substring of the design path
	FailedOnly   bool
	Limit        int // newest N; 0 keeps all
}

// FilterEntries returns entries matching f, oldest first.
func FilterEntries(entries []Entry, f Filter) []Entry {
	var result []Entry
	for _, e := range entries {
		if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
			continue
		}
		if !f.Until.IsZero() && e.Timestamp.After(f.Until) {
			continue
		}
		if f.Design != "" && !strings.Contains(e.Design, f.Design) {
			continue
		}
		if f.FailedOnly && e.Success {
			continue
		}
		result = append(result, e)
	}
	if f.Limit > 0 && len(result) > f.Limit {
		result = result[len(result)-f.Limit:]
	}
	return result
}

// Find returns the entry whose run ID starts with prefix. The prefix must
// identify exactly one run.
func Find(entries []Entry, prefix string) (Entry, error) {
	if prefix == "" {
		return Entry{}, fmt.Errorf("empty run ID")
	}
	var found []Entry
	for _, e := range entries {
		if strings.HasPrefix(e.RunID, prefix) {
			found = append(found, e)
		}
	}
	switch len(found) {
	case 0:
		return Entry{}, fmt.Errorf("no render with run ID %q", prefix)
	case 1:
		return found[0], nil
	default:
		return Entry{}, fmt.Errorf("run ID %q matches %d renders — use more characters", prefix, len(found))
	}
}

// LogSize returns the size of the history file in bytes, or 0 if not found.
func LogSize(filePath string) int64 {
	info, err := os.Stat(filePath)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Clear truncates the history file.
func Clear(filePath string) error {
	if err := os.Truncate(filePath, 0); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
