package actions

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klytics/sheetkit/internal/dataset"
	"github.com/klytics/sheetkit/internal/formats/xlsx"
	"github.com/klytics/sheetkit/internal/logging"
	"github.com/klytics/sheetkit/internal/pipeline"
	"github.com/klytics/sheetkit/internal/workbook"
)

const design = `name: Sales
styles:
  - name: Header
    font:
      bold: Yes
sheets:
  - name: Summary
    data:
      rows:
        - [Region, Q1, Q2]
        - [North, 10, 12]
        - [South, 7, 9]
    ranges:
      - ref: A1:C1
        style: Header
`

func testContext() context.Context {
	return logging.WithLogger(context.Background(), logging.Discard())
}

func writeDesign(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderAction(t *testing.T) {
	path := writeDesign(t, design)
	out := filepath.Join(filepath.Dir(path), "build", "sales.xlsx")

	got, err := RenderAction(&workbook.Builder{})(testContext(), pipeline.Step{ID: "r", To: out}, path)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if got != out {
		t.Errorf("output = %q, want %q", got, out)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("workbook not written: %v", err)
	}
}

func TestRenderActionRefusesInvalidDesign(t *testing.T) {
	path := writeDesign(t, strings.Replace(design, "style: Header", "style: Missing", 1))
	step := pipeline.Step{ID: "r", To: filepath.Join(t.TempDir(), "out.xlsx")}

	_, err := RenderAction(&workbook.Builder{})(testContext(), step, path)
	if !errors.Is(err, workbook.ErrInvalidDesign) {
		t.Fatalf("err = %v, want ErrInvalidDesign", err)
	}

	step.Options = map[string]string{"force": "yes please"}
	if _, err := RenderAction(&workbook.Builder{})(testContext(), step, path); !errors.Is(err, errBadOption) {
		t.Errorf("bad force option: err = %v", err)
	}
}

func TestValidateAction(t *testing.T) {
	out, err := ValidateAction(&workbook.Builder{})(testContext(), pipeline.Step{ID: "v"}, writeDesign(t, design))
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if out != "null" {
		t.Errorf("issues = %s", out)
	}

	broken := writeDesign(t, strings.Replace(design, "ref: A1:C1", "ref: nowhere", 1))
	out, err = ValidateAction(&workbook.Builder{})(testContext(), pipeline.Step{ID: "v"}, broken)
	if !errors.Is(err, workbook.ErrInvalidDesign) || !strings.Contains(out, "ranges[0].ref") {
		t.Errorf("err = %v out = %s", err, out)
	}

	if _, err := ValidateAction(&workbook.Builder{})(testContext(), pipeline.Step{ID: "v"}, ""); err == nil {
		t.Error("expected an error for a missing input")
	}
}

func TestInspectAndFlatten(t *testing.T) {
	path := writeDesign(t, design)
	rendered, err := RenderAction(&workbook.Builder{})(testContext(), pipeline.Step{ID: "r"}, path)
	if err != nil {
		t.Fatal(err)
	}

	out, err := InspectAction(testContext(), pipeline.Step{ID: "i", Options: map[string]string{"styles": "true", "sheet": "Summary"}}, rendered)
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	var wb xlsx.Workbook
	if err := json.Unmarshal([]byte(out), &wb); err != nil {
		t.Fatal(err)
	}
	if len(wb.Sheets) != 1 || wb.Sheets[0].Rows[1][0] != "North" {
		t.Fatalf("sheets = %+v", wb.Sheets)
	}
	if st, ok := wb.Sheets[0].StyleAt("A1"); !ok || !st.Bold {
		t.Errorf("A1 style = %+v", st)
	}

	flat, err := FlattenAction(testContext(), pipeline.Step{ID: "f"}, rendered)
	if err != nil {
		t.Fatalf("flatten failed: %v", err)
	}
	if !strings.HasSuffix(flat, "sales-values.xlsx") {
		t.Errorf("flatten output = %q", flat)
	}
	back, err := xlsx.ReadFileWith(flat, xlsx.ReadOptions{Styles: true})
	if err != nil {
		t.Fatal(err)
	}
	if back.Sheets[0].Rows[2][0] != "South" || len(back.Sheets[0].Styled) != 0 {
		t.Errorf("flattened = %+v", back.Sheets[0])
	}
}

func TestSummarizeAction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte("Region,Q1\nNorth,10\nSouth,6\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := SummarizeAction(testContext(), pipeline.Step{ID: "s"}, path)
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	var sums []dataset.Summary
	if err := json.Unmarshal([]byte(out), &sums); err != nil {
		t.Fatal(err)
	}
	if len(sums) != 1 || sums[0].Column != "Q1" || sums[0].Sum != 16 || sums[0].Avg != 8 {
		t.Errorf("summary = %+v", sums)
	}
}

func TestRegisterAllDryRun(t *testing.T) {
	path := writeDesign(t, design)
	out := filepath.Join(filepath.Dir(path), "out.xlsx")

	exec := pipeline.NewExecutor()
	exec.SetDryRun(true)
	RegisterAll(exec, &workbook.Builder{})

	p := &pipeline.Pipeline{Name: "dry", Steps: []pipeline.Step{
		{ID: "check", Action: "validate", Input: path},
		{ID: "build", Action: "render", Input: path, To: out},
	}}
	results, err := exec.Run(testContext(), p)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Skipped || !results[1].Skipped {
		t.Errorf("results = %+v", results)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("dry run wrote a workbook")
	}
}
