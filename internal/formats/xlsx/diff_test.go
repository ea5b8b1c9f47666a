package xlsx

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	orig := &Workbook{Sheets: []Sheet{
		{
			Name:   "Summary",
			Rows:   [][]string{{"Region", "Q1"}, {"North", "10"}, {"South", "7"}},
			Styled: []CellStyle{{Cell: "A1", Bold: true}},
			Merged: []string{"A4:B4"},
		},
		{Name: "Old"},
	}}
	rev := &Workbook{Sheets: []Sheet{
		{
			Name:   "Summary",
			Rows:   [][]string{{"Region", "Q1", "Q2"}, {"North", "11"}},
			Styled: []CellStyle{{Cell: "A1", Bold: true, FillColor: "#DDEBF7"}},
		},
		{Name: "New"},
	}}

	d := Diff(orig, rev)
	want := []Change{
		{Sheet: "Summary", Cell: "A1", Kind: ChangeStyle},
		{Sheet: "Summary", Cell: "C1", Kind: ChangeAdded, New: "Q2"},
		{Sheet: "Summary", Cell: "B2", Kind: ChangeValue, Old: "10", New: "11"},
		{Sheet: "Summary", Cell: "A3", Kind: ChangeRemoved, Old: "South"},
		{Sheet: "Summary", Cell: "B3", Kind: ChangeRemoved, Old: "7"},
		{Sheet: "Summary", Cell: "A4:B4", Kind: ChangeRemoved, Old: "merge"},
	}
	if len(d.Changes) != len(want) {
		t.Fatalf("changes = %+v", d.Changes)
	}
	for i, w := range want {
		got := d.Changes[i]
		if got.Cell != w.Cell || got.Kind != w.Kind || (w.Kind != ChangeStyle && (got.Old != w.Old || got.New != w.New)) {
			t.Errorf("change %d = %+v, want %+v", i, got, w)
		}
	}
	if !strings.Contains(d.Changes[0].New, "#DDEBF7") {
		t.Errorf("style change = %+v", d.Changes[0])
	}
	if d.Unchanged != 2 {
		t.Errorf("unchanged = %d, want 2", d.Unchanged)
	}
	if len(d.SheetsAdded) != 1 || d.SheetsAdded[0] != "New" || len(d.SheetsRemoved) != 1 || d.SheetsRemoved[0] != "Old" {
		t.Errorf("sheets +%v -%v", d.SheetsAdded, d.SheetsRemoved)
	}
	if d.Identical() {
		t.Error("workbooks differ")
	}
	if !strings.HasPrefix(d.Stats(), "1 added, 3 removed, 1 value change(s), 1 style change(s), 2 unchanged") {
		t.Errorf("stats = %s", d.Stats())
	}
}

func TestDiffFilesIdentical(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.xlsx")
	wb := &Workbook{Sheets: []Sheet{{Name: "S", Rows: [][]string{{"a", "1"}}}}}
	if err := WriteFile(wb, path); err != nil {
		t.Fatal(err)
	}
	d, err := DiffFiles(path, path)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Identical() || d.Unchanged != 2 {
		t.Errorf("diff = %+v", d)
	}
}
