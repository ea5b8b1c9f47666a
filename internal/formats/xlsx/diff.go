package xlsx

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

// Change kinds.
const (
	ChangeAdded   = "added"
	ChangeRemoved = "removed"
	ChangeValue   = "value"
	ChangeStyle   = "style"
)

// DiffResult holds the cell-level differences between two workbooks.
type DiffResult struct {
	Original      string   `json:"original"`
	Revised       string   `json:"revised"`
	SheetsAdded   []string `json:"sheetsAdded,omitempty"`
	SheetsRemoved []string `json:"sheetsRemoved,omitempty"`
	Changes       []Change `json:"changes"`
	Unchanged     int      `json:"unchanged"`
}

// Change is one differing cell or merge.
type Change struct {
	Sheet string `json:"sheet"`
	Cell  string `json:"cell"`
	Kind  string `json:"kind"`
	Old   string `json:"old,omitempty"`
	New   string `json:"new,omitempty"`
}

// DiffFiles reads both workbooks, styles included, and compares them.
func DiffFiles(originalPath, revisedPath string) (*DiffResult, error) {
	orig, err := ReadFileWith(originalPath, ReadOptions{Styles: true})
	if err != nil {
		return nil, fmt.Errorf("could not read original: %w", err)
	}
	rev, err := ReadFileWith(revisedPath, ReadOptions{Styles: true})
	if err != nil {
		return nil, fmt.Errorf("could not read revised: %w", err)
	}
	d := Diff(orig, rev)
	d.Original, d.Revised = originalPath, revisedPath
	return d, nil
}

// Diff compares two workbooks sheet by sheet. Sheets are matched by name;
// cells by reference. Changes are ordered by sheet, then row, then column.
func Diff(orig, rev *Workbook) *DiffResult {
	d := &DiffResult{}
	revSheets := make(map[string]*Sheet)
	for i := range rev.Sheets {
		revSheets[rev.Sheets[i].Name] = &rev.Sheets[i]
	}
	seen := make(map[string]bool)
	for i := range orig.Sheets {
		a := &orig.Sheets[i]
		seen[a.Name] = true
		b, ok := revSheets[a.Name]
		if !ok {
			d.SheetsRemoved = append(d.SheetsRemoved, a.Name)
			continue
		}
		d.diffSheet(a, b)
	}
	for _, s := range rev.Sheets {
		if !seen[s.Name] {
			d.SheetsAdded = append(d.SheetsAdded, s.Name)
		}
	}
	return d
}

func (d *DiffResult) diffSheet(a, b *Sheet) {
	av, bv := cellValues(a), cellValues(b)
	as, bs := cellStyles(a), cellStyles(b)

	cells := make(map[string]bool)
	for c := range av {
		cells[c] = true
	}
	for c := range bv {
		cells[c] = true
	}
	for c := range as {
		cells[c] = true
	}
	for c := range bs {
		cells[c] = true
	}

	var changes []Change
	for _, c := range sortedCells(cells) {
		oldV, inA := av[c]
		newV, inB := bv[c]
		switch {
		case inA && !inB:
			changes = append(changes, Change{Sheet: a.Name, Cell: c, Kind: ChangeRemoved, Old: oldV})
			continue
		case !inA && inB:
			changes = append(changes, Change{Sheet: a.Name, Cell: c, Kind: ChangeAdded, New: newV})
			continue
		case oldV != newV:
			changes = append(changes, Change{Sheet: a.Name, Cell: c, Kind: ChangeValue, Old: oldV, New: newV})
			continue
		}
		if oldS, newS := describe(as[c]), describe(bs[c]); oldS != newS {
			changes = append(changes, Change{Sheet: a.Name, Cell: c, Kind: ChangeStyle, Old: oldS, New: newS})
			continue
		}
		if inA {
			d.Unchanged++
		}
	}

	oldM, newM := make(map[string]bool), make(map[string]bool)
	for _, m := range a.Merged {
		oldM[m] = true
	}
	for _, m := range b.Merged {
		newM[m] = true
		if !oldM[m] {
			changes = append(changes, Change{Sheet: a.Name, Cell: m, Kind: ChangeAdded, New: "merge"})
		}
	}
	for _, m := range a.Merged {
		if !newM[m] {
			changes = append(changes, Change{Sheet: a.Name, Cell: m, Kind: ChangeRemoved, Old: "merge"})
		}
	}
	d.Changes = append(d.Changes, changes...)
}

func cellValues(s *Sheet) map[string]string {
	out := make(map[string]string)
	for r, row := range s.Rows {
		for c, v := range row {
			if v == "" {
				continue
			}
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err == nil {
				out[name] = v
			}
		}
	}
	return out
}

func cellStyles(s *Sheet) map[string]CellStyle {
	out := make(map[string]CellStyle, len(s.Styled))
	for _, cs := range s.Styled {
		out[cs.Cell] = cs
	}
	return out
}

func describe(cs CellStyle) string {
	if cs == (CellStyle{}) {
		return ""
	}
	cs.Cell = ""
	return fmt.Sprintf("%+v", cs)
}

func sortedCells(cells map[string]bool) []string {
	type coord struct {
		name     string
		col, row int
	}
	list := make([]coord, 0, len(cells))
	for c := range cells {
		col, row, _ := excelize.CellNameToCoordinates(c)
		list = append(list, coord{c, col, row})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].row != list[j].row {
			return list[i].row < list[j].row
		}
		return list[i].col < list[j].col
	})
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.name
	}
	return out
}

// Identical reports whether the workbooks showed no differences.
func (d *DiffResult) Identical() bool {
	return len(d.Changes) == 0 && len(d.SheetsAdded) == 0 && len(d.SheetsRemoved) == 0
}

// Stats returns a one-line summary of the diff.
func (d *DiffResult) Stats() string {
	counts := make(map[string]int)
	for _, c := range d.Changes {
		counts[c.Kind]++
	}
	return fmt.Sprintf("%d added, %d removed, %d value change(s), %d style change(s), %d unchanged; sheets +%d -%d",
		counts[ChangeAdded], counts[ChangeRemoved], counts[ChangeValue], counts[ChangeStyle], d.Unchanged,
		len(d.SheetsAdded), len(d.SheetsRemoved))
}
