package render

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"

	"github.com/klytics/sheetkit/internal/design"
	"github.com/klytics/sheetkit/internal/document"
	"github.com/klytics/sheetkit/internal/logging"
	"github.com/klytics/sheetkit/internal/style"
)

const designYAML = `name: Sales
culture: en-GB
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
        - [Region, Q1, Q2, Q3]
        - [North, 10, 12, 9]
        - [South, 7, 8, 11]
    columns:
      - column: A:D
        width: 14
    ranges:
      - ref: A1:D1
        style: Header
        options:
          font:
            italic: Yes
      - ref: A5
        style: Header
        value: Total
        merge:
          cells: 2
      - ref: B6
        formula: SUM(B2:B3)
    charts:
      - cell: F2
        chart:
          type: Line
          series:
            - index: 0
              name: North
              values: Summary!$B$2:$D$2
    mini_charts:
      - location: [E2, E3]
        range: [Summary!B2:D2, Summary!B3:D3]
  - name: Notes
    shapes:
      - cell: B2
        shape:
          kind: RoundRectangle
          text: Draft
`

func parse(t *testing.T, src string) *document.Document {
	t.Helper()
	d, err := document.Parse([]byte(src), document.YAML)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func render(t *testing.T, d *document.Document) (*Result, *excelize.File) {
	t.Helper()
	res, f, err := New(Options{Logger: logging.Discard()}).Render(context.Background(), d)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return res, f
}

func TestRender(t *testing.T) {
	res, f := render(t, parse(t, designYAML))

	if !res.Success || len(res.Errors) != 0 {
		t.Fatalf("errors = %+v", res.Errors)
	}
	if res.RunID == "" || res.Culture != "en-GB" {
		t.Errorf("run %q culture %q", res.RunID, res.Culture)
	}
	if res.Sheets != 2 || res.Rows != 3 || res.Ranges != 3 {
		t.Errorf("sheets %d rows %d ranges %d", res.Sheets, res.Rows, res.Ranges)
	}
	if res.Charts != 1 || res.MiniCharts != 2 || res.Shapes != 1 {
		t.Errorf("charts %d mini charts %d shapes %d", res.Charts, res.MiniCharts, res.Shapes)
	}

	if got := f.GetSheetList(); len(got) != 2 || got[0] != "Summary" || got[1] != "Notes" {
		t.Errorf("sheets = %v", got)
	}
	if v, _ := f.GetCellValue("Summary", "B2"); v != "10" {
		t.Errorf("B2 = %q", v)
	}
	if v, _ := f.GetCellValue("Summary", "A5"); v != "Total" {
		t.Errorf("A5 = %q", v)
	}
	if v, _ := f.GetCellFormula("Summary", "B6"); v != "SUM(B2:B3)" {
		t.Errorf("B6 formula = %q", v)
	}
	if w, _ := f.GetColWidth("Summary", "C"); w != 14 {
		t.Errorf("column C width = %v", w)
	}

	merged, err := f.GetMergeCells("Summary")
	if err != nil {
		t.Fatal(err)
	}
	if len(merged) != 1 || merged[0].GetStartAxis() != "A5" || merged[0].GetEndAxis() != "B5" {
		t.Errorf("merged = %v", merged)
	}

	id, err := f.GetCellStyle("Summary", "C1")
	if err != nil || id == 0 {
		t.Fatalf("C1 style = %d, %v", id, err)
	}
	xs, err := f.GetStyle(id)
	if err != nil {
		t.Fatal(err)
	}
	if xs.Font == nil || !xs.Font.Bold || !xs.Font.Italic || xs.Font.Size != 10 || xs.Font.Family != "Arial" {
		t.Errorf("font = %+v", xs.Font)
	}

	panes, err := f.GetPanes("Summary")
	if err != nil {
		t.Fatal(err)
	}
	if !panes.Freeze || panes.YSplit != 1 {
		t.Errorf("panes = %+v", panes)
	}
}

func TestRenderSharesStyles(t *testing.T) {
	d := document.New("Shared")
	if _, err := d.Styles.Define("Bold", ""); err != nil {
		t.Fatal(err)
	}
	b, _ := d.Styles.Lookup("Bold")
	_ = b.Font().SetBold(design.Yes)
	s, err := d.AddSheet("One")
	if err != nil {
		t.Fatal(err)
	}
	s.AddRange("A1", "Bold")
	s.AddRange("B2:C3", "Bold")
	s.AddRange("D4", "")

	res, f := render(t, d)
	if res.Styles != 1 {
		t.Errorf("styles = %d, want 1", res.Styles)
	}
	a, _ := f.GetCellStyle("One", "A1")
	c, _ := f.GetCellStyle("One", "C3")
	if a == 0 || a != c {
		t.Errorf("A1 style %d, C3 style %d", a, c)
	}
	if id, _ := f.GetCellStyle("One", "D4"); id != 0 {
		t.Errorf("unstyled range got style %d", id)
	}
}

func TestRenderCollectsElementErrors(t *testing.T) {
	d := parse(t, designYAML)
	s, _ := d.Sheet("Summary")
	s.AddPicture("H20", filepath.Join(t.TempDir(), "missing.png"))
	s.AddRange("A8", "Nope")

	res, f := render(t, d)
	if res.Success {
		t.Fatal("render with a missing picture succeeded")
	}
	want := map[string]bool{"pictures[0]": true, "ranges[3]": true}
	for _, e := range res.Errors {
		if e.Sheet != "Summary" || !want[e.Element] {
			t.Errorf("unexpected error %+v", e)
		}
		delete(want, e.Element)
	}
	if len(want) != 0 {
		t.Errorf("missing errors for %v", want)
	}
	if errors.Unwrap(&res.Errors[0]) == nil {
		t.Error("element error does not wrap its cause")
	}
	if res.Charts != 1 || res.Shapes != 1 {
		t.Error("failures stopped the remaining elements")
	}
	if v, _ := f.GetCellValue("Summary", "A2"); v != "North" {
		t.Errorf("A2 = %q", v)
	}
}

func TestRenderCulture(t *testing.T) {
	style.SetCurrentCulture(language.French)
	defer style.SetCurrentCulture(language.AmericanEnglish)

	d := parse(t, designYAML)
	res, _, err := New(Options{Logger: logging.Discard(), Culture: language.Japanese}).Render(context.Background(), d)
	if err != nil {
		t.Fatal(err)
	}
	if res.Culture != "ja" {
		t.Errorf("culture = %q", res.Culture)
	}
	if style.CurrentCulture() != language.French {
		t.Errorf("current culture not restored: %s", style.CurrentCulture())
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := New(Options{Logger: logging.Discard()}).Render(ctx, parse(t, designYAML))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
}

func TestRenderFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sales.xlsx")
	res, err := New(Options{Logger: logging.Discard()}).RenderFile(context.Background(), parse(t, designYAML), out)
	if err != nil {
		t.Fatal(err)
	}
	if res.OutputPath != out {
		t.Errorf("output = %q", res.OutputPath)
	}
	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue("Summary", "A3"); v != "South" {
		t.Errorf("A3 = %q", v)
	}
}

const fallbackYAML = `name: Ledger
styles:
  - name: Money
    content:
      format:
        kind: Currency
        error:
          kind: Value
          value: "0"
          comment: amount could not be read
  - name: Due
    content:
      format:
        kind: DateTime
        error:
          kind: Date
  - name: Plain
    content:
      format:
        kind: Numeric
sheets:
  - name: Book
    data:
      rows:
        - [Item, Amount, Due, Count]
        - [Rent, 1200, "2024-03-01", "7"]
        - [Fees, n/a, soon, many]
    ranges:
      - ref: B2:B3
        style: Money
      - ref: C2:C3
        style: Due
      - ref: D2:D3
        style: Plain
`

func TestRenderFormatFallbacks(t *testing.T) {
	res, f := render(t, parse(t, fallbackYAML))
	if !res.Success {
		t.Fatalf("errors = %+v", res.Errors)
	}

	if v, _ := f.GetCellValue("Book", "B3", excelize.Options{RawCellValue: true}); v != "0" {
		t.Errorf("B3 = %q, want the fallback value", v)
	}
	if typ, _ := f.GetCellType("Book", "B3"); typ == excelize.CellTypeSharedString {
		t.Error("B3 fallback written as text")
	}
	comments, err := f.GetComments("Book")
	if err != nil {
		t.Fatal(err)
	}
	if len(comments) != 1 || comments[0].Cell != "B3" || comments[0].Text != "amount could not be read" {
		t.Errorf("comments = %+v", comments)
	}

	if typ, _ := f.GetCellType("Book", "C2"); typ == excelize.CellTypeSharedString {
		t.Error("date text under a date format stayed text")
	}
	if v, _ := f.GetCellValue("Book", "C3", excelize.Options{RawCellValue: true}); v == "soon" {
		t.Error("C3 kept text under a date format")
	}
	c2, _ := f.GetCellStyle("Book", "C2")
	c3, _ := f.GetCellStyle("Book", "C3")
	if c2 == 0 || c2 != c3 {
		t.Errorf("date cells lost the range style: C2 %d C3 %d", c2, c3)
	}

	if typ, _ := f.GetCellType("Book", "D2"); typ == excelize.CellTypeSharedString {
		t.Error("numeric text under a numeric format stayed text")
	}
	if v, _ := f.GetCellValue("Book", "D3"); v != "many" {
		t.Errorf("D3 = %q, want the text kept when no error content is set", v)
	}
	if v, _ := f.GetCellValue("Book", "B2", excelize.Options{RawCellValue: true}); v != "1200" {
		t.Errorf("B2 = %q", v)
	}

	if res.Fallbacks != 2 {
		t.Errorf("fallbacks = %d, want 2", res.Fallbacks)
	}
}
