// Package document holds a complete workbook design: document-wide defaults,
// the named style collection, and per-sheet content, charts, and drawings.
//
// A Document is a plain container. The design nodes it holds enforce their
// own invariants; Validate reports the problems that span nodes, such as a
// range naming a style the collection does not define.
package document

import (
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/text/language"

	"github.com/klytics/sheetkit/internal/style"
)

// DefaultStyleName is the name of the document-wide default style.
const DefaultStyleName = "Default"

// ErrDuplicateSheet is returned when two sheets share a name.
var ErrDuplicateSheet = errors.New("duplicate sheet name")

// Document is a workbook design.
type Document struct {
	Name     string
	Culture  string
	Defaults *style.CellStyle
	Styles   *style.Styles
	Sheets   []*Sheet

	path string
}

// New returns an empty document.
func New(name string) *Document {
	d := &Document{Name: name}
	d.wire()
	return d
}

// Path returns the file the document was loaded from, or "".
func (d *Document) Path() string { return d.path }

// Dir returns the directory relative paths in the document resolve against.
func (d *Document) Dir() string {
	if d.path == "" {
		return "."
	}
	return filepath.Dir(d.path)
}

// ResolvePath resolves p against the document directory.
func (d *Document) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(d.Dir(), p)
}

// Language returns the document culture, or the process culture when the
// document names none or names one that does not parse.
func (d *Document) Language() language.Tag {
	if d.Culture == "" {
		return style.CurrentCulture()
	}
	tag, err := language.Parse(d.Culture)
	if err != nil {
		return style.CurrentCulture()
	}
	return tag
}

// AddSheet appends a sheet called name.
func (d *Document) AddSheet(name string) (*Sheet, error) {
	if _, ok := d.Sheet(name); ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateSheet, name)
	}
	s := NewSheet(name)
	s.doc = d
	d.Sheets = append(d.Sheets, s)
	return s, nil
}

// Sheet returns the named sheet.
func (d *Document) Sheet(name string) (*Sheet, bool) {
	for _, s := range d.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// ResolveStyle returns the effective design of a range: the named style
// combined with its ancestors and the document defaults, then patched with
// opts. An empty name starts from the defaults alone.
func (d *Document) ResolveStyle(name string, opts *style.CellStyleOptions) (*style.CellStyle, error) {
	var s *style.CellStyle
	if name == "" {
		s = d.Defaults.Clone()
	} else {
		r, err := d.Styles.Resolve(name)
		if err != nil {
			return nil, err
		}
		r.Combine(d.Defaults)
		s = r
	}
	if err := s.ApplyOptions(opts); err != nil {
		return nil, err
	}
	return s, nil
}

// wire fills missing containers and sets back-references.
func (d *Document) wire() {
	if d.Defaults == nil {
		d.Defaults = style.NewCellStyle()
	}
	if d.Defaults.Name() == "" {
		_ = d.Defaults.SetName(DefaultStyleName)
	}
	if d.Styles == nil {
		d.Styles = style.NewStyles()
	}
	for _, s := range d.Sheets {
		s.doc = d
		s.wire()
	}
}

// Files returns the resolved paths of the data files and images the
// document reads, without duplicates.
func (d *Document) Files() []string {
	var files []string
	seen := make(map[string]bool)
	add := func(p string) {
		if p == "" {
			return
		}
		p = d.ResolvePath(p)
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}
	for _, s := range d.Sheets {
		if s.Data != nil {
			add(s.Data.File)
		}
		for _, p := range s.Pictures {
			if p.Picture != nil {
				add(p.Picture.Path())
			}
		}
	}
	return files
}
