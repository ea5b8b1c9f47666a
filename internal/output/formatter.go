// Package output provides formatting utilities for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Format represents an output format.
type Format int

const (
	// FormatText is plain text output.
	FormatText Format = iota
	// FormatJSON is JSON output.
	FormatJSON
)

// Writer handles formatted output to a destination.
type Writer struct {
	dest   io.Writer
	format Format
}

// NewWriter creates a writer to stdout with the given format.
func NewWriter(format Format) *Writer { return NewWriterTo(os.Stdout, format) }

// NewWriterTo creates a writer to dest with the given format.
func NewWriterTo(dest io.Writer, format Format) *Writer {
	return &Writer{dest: dest, format: format}
}

// Format returns the writer's format.
func (w *Writer) Format() Format { return w.format }

// Emit writes v under the JSON envelope for cmd, or text as is.
func (w *Writer) Emit(cmd string, v any, text string) error {
	if w.format == FormatJSON {
		return FprintJSON(w.dest, cmd, v)
	}
	return w.WriteText(text)
}

// WriteJSON encodes a value as pretty-printed JSON.
func (w *Writer) WriteJSON(v any) error {
	enc := json.NewEncoder(w.dest)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteText writes plain text.
func (w *Writer) WriteText(s string) error {
	_, err := fmt.Fprint(w.dest, s)
	return err
}
