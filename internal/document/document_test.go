package document

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klytics/sheetkit/internal/design"
	"github.com/klytics/sheetkit/internal/style"
)

const sampleYAML = `name: Sales
culture: de-DE
defaults:
  font:
    name: Arial
styles:
  - name: Base
    font:
      size: 10
  - name: Header
    inherits: Base
    font:
      bold: Yes
    content:
      color: "#DDEBF7"
sheets:
  - name: Summary
    settings:
      freeze:
        rows: 1
    data:
      rows:
        - [Region, Q1, Q2]
        - [North, 10, 12]
    columns:
      - column: A:C
        width: 14
    ranges:
      - ref: A1:C1
        style: Header
        options:
          font:
            italic: true
    charts:
      - cell: E2
        chart:
          type: Line
          series:
            - index: 0
              name: North
              values: Summary!$B$2:$C$2
`

func TestParseYAML(t *testing.T) {
	d, err := Parse([]byte(sampleYAML), YAML)
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != "Sales" || d.Language().String() != "de-DE" {
		t.Errorf("name %q culture %s", d.Name, d.Language())
	}
	if d.Defaults.Name() != DefaultStyleName || d.Defaults.Font().Name() != "Arial" {
		t.Error("defaults not decoded")
	}
	h, ok := d.Styles.Lookup("Header")
	if !ok || h.Owner() != d.Styles || h.Inherits() != "Base" {
		t.Fatal("styles not wired")
	}
	s, ok := d.Sheet("Summary")
	if !ok || s.Document() != d {
		t.Fatal("sheet back-reference not set")
	}
	if s.Settings.Freeze().Rows() != 1 {
		t.Error("settings not decoded")
	}
	if len(s.Data.Rows) != 2 || s.Data.Rows[1][1] != float64(10) {
		t.Errorf("rows = %v", s.Data.Rows)
	}
	if *s.Ranges[0].Options.Font.Italic != design.Yes {
		t.Error("range options not decoded")
	}
	if len(s.Charts) != 1 || s.Charts[0].Chart.Series()[0].Parent() != s.Charts[0].Chart {
		t.Error("chart not decoded")
	}
	if issues := d.Validate(); HasErrors(issues) {
		t.Errorf("unexpected issues: %+v", issues)
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"unknown key", "name: x\ncolour: red\n", nil},
		{"unknown node key", "styles:\n  - name: A\n    font:\n      weight: 3\n", design.ErrUnknownField},
		{"out of range", "styles:\n  - name: A\n    font:\n      size: 900\n", design.ErrOutOfRange},
		{"bad enum", "sheets:\n  - name: S\n    settings:\n      page:\n        paper: B7\n", design.ErrInvalidEnum},
		{"duplicate style", "styles:\n  - name: A\n  - name: A\n", design.ErrDuplicateKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), YAML)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseTOMLAndJSON(t *testing.T) {
	tomlDoc := `
name = "Budget"

[[styles]]
name = "Money"
[styles.content.format]
kind = "Currency"

[[sheets]]
name = "Plan"
`
	d, err := Parse([]byte(tomlDoc), TOML)
	if err != nil {
		t.Fatal(err)
	}
	m, ok := d.Styles.Lookup("Money")
	if !ok || m.Content().Format().Kind() != style.FormatCurrency {
		t.Fatal("TOML style not decoded")
	}

	j, err := Parse([]byte(`{"name":"J","sheets":[{"name":"A"}]}`), JSON)
	if err != nil {
		t.Fatal(err)
	}
	if len(j.Sheets) != 1 || j.Sheets[0].Settings == nil {
		t.Error("JSON sheet not wired")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	d, err := Parse([]byte(sampleYAML), YAML)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range []Format{YAML, JSON, TOML} {
		t.Run(string(f), func(t *testing.T) {
			data, err := d.Marshal(f)
			if err != nil {
				t.Fatal(err)
			}
			back, err := Parse(data, f)
			if err != nil {
				t.Fatalf("re-parse: %v\n%s", err, data)
			}
			h, ok := back.Styles.Lookup("Header")
			if !ok || h.Font().Bold() != design.Yes || h.Inherits() != "Base" {
				t.Error("styles lost")
			}
			if back.Sheets[0].Settings.Freeze().Rows() != 1 {
				t.Error("settings lost")
			}
		})
	}
}

func TestMarshalOmitsDefaults(t *testing.T) {
	d := New("Empty")
	if _, err := d.AddSheet("One"); err != nil {
		t.Fatal(err)
	}
	data, err := d.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"name":"Empty","sheets":[{"name":"One"}]}` {
		t.Errorf("json = %s", data)
	}
	if _, err := d.AddSheet("One"); !errors.Is(err, ErrDuplicateSheet) {
		t.Errorf("duplicate sheet: err = %v", err)
	}
}

func TestResolveStyle(t *testing.T) {
	d, err := Parse([]byte(sampleYAML), YAML)
	if err != nil {
		t.Fatal(err)
	}
	italic := design.Yes
	s, err := d.ResolveStyle("Header", &style.CellStyleOptions{Font: &style.FontOptions{Italic: &italic}})
	if err != nil {
		t.Fatal(err)
	}
	f := s.Font()
	if f.Bold() != design.Yes || f.Size() != 10 || f.Name() != "Arial" || f.Italic() != design.Yes {
		t.Errorf("resolved font = %s %v bold=%v italic=%v", f.Name(), f.Size(), f.Bold(), f.Italic())
	}
	h, _ := d.Styles.Lookup("Header")
	if h.Font().Italic() != design.No || h.Font().Name() != "Calibri" {
		t.Error("resolving changed the registered style")
	}

	plain, err := d.ResolveStyle("", nil)
	if err != nil || plain.Font().Name() != "Arial" {
		t.Errorf("defaults: %v", err)
	}
	if _, err := d.ResolveStyle("Missing", nil); !errors.Is(err, style.ErrStyleNotFound) {
		t.Errorf("missing: err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	d := New("Broken")
	_, _ = d.Styles.Define("A", "B")
	_, _ = d.Styles.Define("B", "A")
	_, _ = d.Styles.Define("C", "Nowhere")
	s, _ := d.AddSheet("Data")
	_, _ = d.AddSheet("")
	s.AddRange("A1:B2", "Unknown")
	s.AddRange("not a ref", "")
	s.AddChart("E1")
	s.AddMiniChart([]string{"F1", "F2"}, []string{"Data!A1:D1"})
	s.AddPicture("H1", "missing.png")
	s.Columns = append(s.Columns, &Column{Column: "1", Width: 10})

	want := map[string]string{
		"styles[A]":                          "error",
		"styles[C].inherits":                 "warning",
		"sheets[1].name":                     "error",
		"sheets[0].ranges[0].style":          "error",
		"sheets[0].ranges[1].ref":            "error",
		"sheets[0].charts[0].chart.series":   "error",
		"sheets[0].mini_charts[0]":           "error",
		"sheets[0].pictures[0].picture.path": "error",
		"sheets[0].columns[0].column":        "error",
	}
	got := make(map[string]string)
	for _, i := range d.Validate() {
		got[i.Path] = i.Severity
	}
	for path, sev := range want {
		if got[path] != sev {
			t.Errorf("%s: severity %q, want %q", path, got[path], sev)
		}
	}
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "data.csv"), []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "book.yaml")
	doc := "sheets:\n  - name: S\n    data:\n      file: data.csv\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if d.Path() != path || d.ResolvePath("data.csv") != filepath.Join(dir, "data.csv") {
		t.Error("paths not resolved against the design file")
	}
	if HasErrors(d.Validate()) {
		t.Errorf("issues: %+v", d.Validate())
	}

	if _, err := Load(filepath.Join(dir, "book.ini")); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("missing file: err = %v", err)
	}
}

func TestRangeBounds(t *testing.T) {
	tests := []struct {
		ref, from, to string
		ok            bool
	}{
		{"B2", "B2", "B2", true},
		{"B2:D9", "B2", "D9", true},
		{"D9:B2", "B2", "D9", true},
		{"B2:", "", "", false},
		{"ZZZZ1", "", "", false},
	}
	for _, tt := range tests {
		from, to, err := RangeBounds(tt.ref)
		if (err == nil) != tt.ok || from != tt.from || to != tt.to {
			t.Errorf("RangeBounds(%q) = %q, %q, %v", tt.ref, from, to, err)
		}
	}
}

func TestSampleDesign(t *testing.T) {
	d, err := Load(filepath.Join("..", "..", "testdata", "sample.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Sheets) != 2 || len(d.Sheets[0].Charts) != 1 {
		t.Fatalf("sheets = %d", len(d.Sheets))
	}
	for _, i := range d.Validate() {
		// sample.xlsx is generated, not checked in.
		if i.Severity == "error" && i.Path != "sheets[0].data.file" {
			t.Errorf("issue: %+v", i)
		}
	}
}
