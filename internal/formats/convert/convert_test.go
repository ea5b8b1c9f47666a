package convert

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klytics/sheetkit/internal/formats/xlsx"
)

func createTestXlsx(t *testing.T, dir string) string {
	t.Helper()
	wb := &xlsx.Workbook{Sheets: []xlsx.Sheet{
		{Name: "Revenue", Rows: [][]string{
			{"Region", "", "Note"},
			{"North", "10", "a|b"},
			{"South", "7"},
		}},
		{Name: "Other", Rows: [][]string{{"x"}}},
	}}
	path := filepath.Join(dir, "book.xlsx")
	if err := xlsx.WriteFile(wb, path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestXlsxToCSV(t *testing.T) {
	path := createTestXlsx(t, t.TempDir())
	got, err := XlsxToCSV(path, "")
	if err != nil {
		t.Fatal(err)
	}
	want := "Region,,Note\nNorth,10,a|b\nSouth,7,\n"
	if got != want {
		t.Errorf("csv = %q, want %q", got, want)
	}

	other, err := XlsxToCSV(path, "Other")
	if err != nil || other != "x\n" {
		t.Errorf("sheet Other = %q, %v", other, err)
	}
	if _, err := XlsxToCSV(path, "Missing"); err == nil {
		t.Error("expected an error for a missing sheet")
	}
}

func TestXlsxToJSON(t *testing.T) {
	path := createTestXlsx(t, t.TempDir())
	got, err := XlsxToJSON(path, "Revenue")
	if err != nil {
		t.Fatal(err)
	}
	var records []map[string]string
	if err := json.Unmarshal([]byte(got), &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %v", records)
	}
	if records[0]["Region"] != "North" || records[0]["B"] != "10" || records[1]["Note"] != "" {
		t.Errorf("records = %v", records)
	}
}

func TestXlsxToMarkdown(t *testing.T) {
	path := createTestXlsx(t, t.TempDir())
	got, err := XlsxToMarkdown(path, "")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"| Region | B | Note |\n",
		"| --- | --- | --- |\n",
		`| North | 10 | a\|b |`,
		"| South | 7 |  |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("markdown missing %q:\n%s", want, got)
		}
	}
}

func TestConvertDesign(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "book.yaml")
	design := "name: Budget\nstyles:\n  - name: Header\n    font:\n      bold: Yes\nsheets:\n  - name: Plan\n"
	if err := os.WriteFile(in, []byte(design), 0o644); err != nil {
		t.Fatal(err)
	}

	out := OutputName(in, "toml", dir)
	got, err := Convert(in, out, "toml", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `name = "Budget"`) || !strings.Contains(got, "[[styles]]") {
		t.Errorf("toml = %s", got)
	}
	written, err := os.ReadFile(out)
	if err != nil || string(written) != got {
		t.Errorf("output file not written: %v", err)
	}

	back, err := Convert(out, "", "yml", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(back, "name: Header") {
		t.Errorf("yaml = %s", back)
	}
}

func TestConvertRejects(t *testing.T) {
	tests := []struct {
		name, input, to string
	}{
		{"unknown input", "notes.txt", "csv"},
		{"unsupported target", "book.xlsx", "docx"},
		{"same format", "book.yaml", "yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Convert(tt.input, "", tt.to, Options{}); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestColumnLetter(t *testing.T) {
	for i, want := range map[int]string{0: "A", 25: "Z", 26: "AA", 701: "ZZ", 702: "AAA"} {
		if got := columnLetter(i); got != want {
			t.Errorf("columnLetter(%d) = %s, want %s", i, got, want)
		}
	}
}
