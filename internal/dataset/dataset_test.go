package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/klytics/sheetkit/internal/formats/xlsx"
)

func makeCSV(t *testing.T, dir string, headers []string, rows [][]string) string {
	t.Helper()
	path := filepath.Join(dir, "data.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	w.Write(headers)
	for _, row := range rows {
		w.Write(row)
	}
	w.Flush()
	return path
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	path := makeCSV(t, dir, []string{"name", "amount"}, [][]string{
		{"Alice", "100"},
		{"Bob", "200.5"},
		{"Charlie", ""},
	})

	tb, err := Load(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(tb.Columns) != 2 || len(tb.Rows) != 3 {
		t.Fatalf("got %d columns, %d rows", len(tb.Columns), len(tb.Rows))
	}
	if tb.Cell(0, 0) != "Alice" {
		t.Errorf("Cell(0,0) = %v", tb.Cell(0, 0))
	}
	if tb.Cell(1, 1) != 200.5 {
		t.Errorf("Cell(1,1) = %v, want 200.5", tb.Cell(1, 1))
	}
	if tb.Cell(2, 1) != "" || tb.Cell(9, 9) != nil {
		t.Error("empty and missing cells")
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	os.WriteFile(path, []byte(`[{"region":"North","q1":10},{"region":"South","q1":12.5,"note":null}]`), 0o644)

	tb, err := Load(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(tb.Columns) != 3 || tb.Columns[0] != "note" || tb.Columns[1] != "q1" {
		t.Errorf("columns = %v", tb.Columns)
	}
	if tb.Cell(1, 1) != 12.5 || tb.Cell(1, 0) != "" {
		t.Errorf("row = %v", tb.Rows[1])
	}

	single := filepath.Join(dir, "one.json")
	os.WriteFile(single, []byte(`{"a":1}`), 0o644)
	tb, err = Load(single, "")
	if err != nil || len(tb.Rows) != 1 {
		t.Errorf("single object: %v, %v", err, tb)
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`[1,2]`), 0o644)
	if _, err := Load(bad, ""); err == nil {
		t.Error("expected error for non-object JSON")
	}
}

func TestLoadXLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.xlsx")
	wb := &xlsx.Workbook{Sheets: []xlsx.Sheet{
		{Name: "First", Rows: [][]string{{"a"}, {"1"}}},
		{Name: "Second", Rows: [][]string{{"x", "y"}, {"2", "3"}}},
	}}
	if err := xlsx.WriteFile(wb, path); err != nil {
		t.Fatal(err)
	}

	tb, err := Load(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if tb.Columns[0] != "a" || tb.Cell(0, 0) != float64(1) {
		t.Errorf("first sheet = %+v", tb)
	}
	tb, err = Load(path, "Second")
	if err != nil {
		t.Fatal(err)
	}
	if len(tb.Columns) != 2 || tb.Cell(0, 1) != float64(3) {
		t.Errorf("second sheet = %+v", tb)
	}
	if _, err := Load(path, "Missing"); err == nil {
		t.Error("expected missing sheet error")
	}
}

func TestLoadUnsupported(t *testing.T) {
	if _, err := Load("data.parquet", ""); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestFromRowsAndValues(t *testing.T) {
	tb := FromRows([][]any{{"Region", "Q1"}, {"North", 10.0}, {"South", "n/a"}})
	if tb.Width() != 2 || len(tb.Rows) != 2 {
		t.Fatalf("table = %+v", tb)
	}
	v := tb.Values()
	if len(v) != 3 || v[0][0] != "Region" || v[1][1] != float64(10) || v[2][1] != "n/a" {
		t.Errorf("values = %v", v)
	}
}

func TestSummarize(t *testing.T) {
	tb := FromRows([][]any{{"name", "amount", "qty"}, {"a", "100", "x"}, {"b", "200", "y"}, {"c", "150", ""}})
	s := tb.Summarize()
	if len(s) != 1 {
		t.Fatalf("summaries = %+v", s)
	}
	got := s[0]
	if got.Column != "amount" || got.Sum != 450 || got.Avg != 150 || got.Min != 100 || got.Max != 200 || got.Count != 3 {
		t.Errorf("summary = %+v", got)
	}
	if FormatNumber(150) != "150" || FormatNumber(1.5) != "1.50" {
		t.Error("FormatNumber")
	}
}
