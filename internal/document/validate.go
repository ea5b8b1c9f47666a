package document

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"

	"github.com/klytics/sheetkit/internal/style"
)

// Issue is a validation finding.
type Issue struct {
	Severity string `json:"severity"` // "error", "warning"
	Path     string `json:"path"`
	Message  string `json:"message"`
	Fix      string `json:"fix,omitempty"`
}

// Validate checks the document for problems no single design node can see.
// The render command refuses documents with errors; warnings degrade output.
func (d *Document) Validate() []Issue {
	var issues []Issue
	add := func(sev, path, msg, fix string) {
		issues = append(issues, Issue{Severity: sev, Path: path, Message: msg, Fix: fix})
	}

	if d.Culture != "" {
		if _, err := language.Parse(d.Culture); err != nil {
			add("warning", "culture", fmt.Sprintf("culture %q is not a BCP 47 tag; using %s", d.Culture, style.CurrentCulture()),
				"use a tag such as en-US or de-DE")
		}
	}

	for _, name := range d.Styles.Names() {
		s, _ := d.Styles.Lookup(name)
		path := fmt.Sprintf("styles[%s]", name)
		if _, err := d.Styles.Chain(name); err != nil {
			add("error", path, err.Error(), "break the inherits loop")
			continue
		}
		if p := s.Inherits(); p != "" {
			if _, ok := d.Styles.Lookup(p); !ok {
				add("warning", path+".inherits", fmt.Sprintf("style %q inherits unknown style %q", name, p),
					"define the parent style or clear inherits")
			}
		}
	}

	if len(d.Sheets) == 0 {
		add("warning", "sheets", "document has no sheets", "")
	}
	seen := make(map[string]bool)
	for i, s := range d.Sheets {
		path := fmt.Sprintf("sheets[%d]", i)
		switch {
		case s.Name == "":
			add("error", path+".name", "sheet has no name", "")
		case len([]rune(s.Name)) > excelize.MaxSheetNameLength:
			add("error", path+".name", fmt.Sprintf("sheet name %q is longer than %d characters", s.Name, excelize.MaxSheetNameLength), "")
		case strings.ContainsAny(s.Name, `:\/?*[]`):
			add("error", path+".name", fmt.Sprintf("sheet name %q contains one of : \\ / ? * [ ]", s.Name), "")
		case seen[strings.ToLower(s.Name)]:
			add("error", path+".name", fmt.Sprintf("duplicate sheet name %q", s.Name), "sheet names are case-insensitive")
		}
		seen[strings.ToLower(s.Name)] = true
		issues = append(issues, d.validateSheet(s, path)...)
	}
	return issues
}

func (d *Document) validateSheet(s *Sheet, path string) []Issue {
	var issues []Issue
	add := func(sev, p, msg, fix string) {
		issues = append(issues, Issue{Severity: sev, Path: path + "." + p, Message: msg, Fix: fix})
	}
	styleKnown := func(name string) bool {
		if name == "" {
			return true
		}
		_, ok := d.Styles.Lookup(name)
		return ok
	}

	if s.Data != nil {
		if s.Data.File != "" && len(s.Data.Rows) > 0 {
			add("warning", "data", "both file and rows are set; rows are ignored", "")
		}
		if s.Data.File != "" {
			if _, err := os.Stat(d.ResolvePath(s.Data.File)); err != nil {
				add("error", "data.file", fmt.Sprintf("data file %s not found", s.Data.File), "paths are relative to the design file")
			}
		}
		if s.Data.Cell != "" && !isCell(s.Data.Cell) {
			add("error", "data.cell", fmt.Sprintf("invalid cell %q", s.Data.Cell), "")
		}
	}

	for i, c := range s.Columns {
		p := fmt.Sprintf("columns[%d]", i)
		if _, _, err := ColumnSpan(c.Column); err != nil {
			add("error", p+".column", err.Error(), "use a letter such as B or a span such as B:D")
		}
		if c.Width < 0 || c.Width > excelize.MaxColumnWidth {
			add("error", p+".width", fmt.Sprintf("width %v is outside 0-%d", c.Width, excelize.MaxColumnWidth), "")
		}
		if !styleKnown(c.Style) {
			add("error", p+".style", fmt.Sprintf("unknown style %q", c.Style), "")
		}
	}

	for i, r := range s.Ranges {
		p := fmt.Sprintf("ranges[%d]", i)
		if _, _, err := RangeBounds(r.Ref); err != nil {
			add("error", p+".ref", err.Error(), "")
		}
		if !styleKnown(r.Style) {
			add("error", p+".style", fmt.Sprintf("unknown style %q", r.Style), "")
		}
		if r.Options != nil {
			if err := r.Options.Validate(); err != nil {
				add("error", p+".options", err.Error(), "")
			}
		}
		if r.Value != nil && r.Formula != "" {
			add("warning", p, "both value and formula are set; the formula wins", "")
		}
	}

	for i, c := range s.Charts {
		p := fmt.Sprintf("charts[%d]", i)
		if !isCell(c.Cell) {
			add("error", p+".cell", fmt.Sprintf("invalid cell %q", c.Cell), "")
		}
		if c.Chart == nil {
			add("error", p+".chart", "chart has no design", "")
			continue
		}
		if len(c.Chart.Series()) == 0 {
			add("error", p+".chart.series", "chart has no series", "add at least one series with values")
		}
		for j, sr := range c.Chart.Series() {
			if sr.Values() == "" {
				add("error", fmt.Sprintf("%s.chart.series[%d].values", p, j), "series has no values", "")
			}
		}
	}

	for i, m := range s.MiniCharts {
		p := fmt.Sprintf("mini_charts[%d]", i)
		if len(m.Location) == 0 {
			add("error", p+".location", "mini chart has no location", "")
		}
		if len(m.Location) != len(m.Range) {
			add("error", p, fmt.Sprintf("%d locations but %d ranges", len(m.Location), len(m.Range)),
				"give one source range per location cell")
		}
	}

	for i, pic := range s.Pictures {
		p := fmt.Sprintf("pictures[%d]", i)
		if !isCell(pic.Cell) {
			add("error", p+".cell", fmt.Sprintf("invalid cell %q", pic.Cell), "")
		}
		if pic.Picture == nil || pic.Picture.Path() == "" {
			add("error", p+".picture.path", "picture has no path", "")
			continue
		}
		if _, err := os.Stat(d.ResolvePath(pic.Picture.Path())); err != nil {
			add("error", p+".picture.path", fmt.Sprintf("image %s not found", pic.Picture.Path()), "")
		}
		if pic.Picture.BorderSpecified() || len(pic.Picture.VisibleEffects()) > 0 {
			add("warning", p+".picture", "picture borders and effects are kept in the design but not rendered", "")
		}
	}

	for i, sh := range s.Shapes {
		p := fmt.Sprintf("shapes[%d]", i)
		if !isCell(sh.Cell) {
			add("error", p+".cell", fmt.Sprintf("invalid cell %q", sh.Cell), "")
		}
		if sh.Shape == nil {
			add("error", p+".shape", "shape has no design", "")
		}
	}
	return issues
}

// HasErrors reports whether issues holds an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == "error" {
			return true
		}
	}
	return false
}

// ErrInvalidRef is returned for a malformed cell reference.
var ErrInvalidRef = errors.New("invalid cell reference")

// RangeBounds returns the corner cells of ref, which is a cell ("B2") or a
// range ("B2:D9").
func RangeBounds(ref string) (string, string, error) {
	from, to, found := strings.Cut(ref, ":")
	if !found {
		to = from
	}
	c1, r1, err := excelize.CellNameToCoordinates(from)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	c2, r2, err := excelize.CellNameToCoordinates(to)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	if c2 < c1 {
		c1, c2 = c2, c1
	}
	if r2 < r1 {
		r1, r2 = r2, r1
	}
	from, _ = excelize.CoordinatesToCellName(c1, r1)
	to, _ = excelize.CoordinatesToCellName(c2, r2)
	return from, to, nil
}

// ColumnSpan returns the first and last column names of "B" or "B:D".
func ColumnSpan(spec string) (string, string, error) {
	from, to, found := strings.Cut(strings.ToUpper(strings.TrimSpace(spec)), ":")
	if !found {
		to = from
	}
	a, err := excelize.ColumnNameToNumber(from)
	if err != nil {
		return "", "", fmt.Errorf("invalid column %q", spec)
	}
	b, err := excelize.ColumnNameToNumber(to)
	if err != nil {
		return "", "", fmt.Errorf("invalid column %q", spec)
	}
	if b < a {
		from, to = to, from
	}
	return from, to, nil
}

func isCell(ref string) bool {
	_, _, err := excelize.CellNameToCoordinates(ref)
	return err == nil
}
