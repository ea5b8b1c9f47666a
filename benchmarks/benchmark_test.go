package benchmarks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/klytics/sheetkit/internal/design"
	"github.com/klytics/sheetkit/internal/document"
	"github.com/klytics/sheetkit/internal/formats/convert"
	"github.com/klytics/sheetkit/internal/formats/xlsx"
	"github.com/klytics/sheetkit/internal/logging"
	"github.com/klytics/sheetkit/internal/render"
)

var (
	sampleDesign = filepath.Join("..", "testdata", "sample.yaml")
	sampleXlsx   = filepath.Join("..", "testdata", "sample.xlsx")
)

func benchContext() context.Context {
	return logging.WithLogger(context.Background(), logging.Discard())
}

// largeDocument returns a design with rows data rows, a header style
// chain three deep, and one styled range per ten rows.
func largeDocument(b *testing.B, rows int) *document.Document {
	b.Helper()
	d := document.New("Large")
	base, _ := d.Styles.Define("Base", "")
	_ = base.Font().SetSize(10)
	body, _ := d.Styles.Define("Body", "Base")
	_ = body.Content().SetColor("#F2F2F2")
	header, _ := d.Styles.Define("Header", "Body")
	_ = header.Font().SetBold(design.Yes)

	s, err := d.AddSheet("Data")
	if err != nil {
		b.Fatal(err)
	}
	s.Data = &document.Data{Rows: make([][]any, 0, rows+1)}
	s.Data.Rows = append(s.Data.Rows, []any{"Region", "Q1", "Q2", "Q3", "Q4"})
	for i := 0; i < rows; i++ {
		s.Data.Rows = append(s.Data.Rows, []any{fmt.Sprintf("Region %d", i), float64(i), float64(i * 2), float64(i * 3), float64(i * 4)})
	}
	s.AddRange("A1:E1", "Header")
	for i := 2; i <= rows; i += 10 {
		s.AddRange(fmt.Sprintf("B%d:E%d", i, i), "Body")
	}
	return d
}

// --- Design model ---

func BenchmarkResolveStyle(b *testing.B) {
	d := largeDocument(b, 0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := d.ResolveStyle("Header", nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStyleCloneCombine(b *testing.B) {
	d := largeDocument(b, 0)
	h, _ := d.Styles.Lookup("Header")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := h.Clone()
		c.Combine(d.Defaults)
	}
}

func BenchmarkParseDesign(b *testing.B) {
	data, err := os.ReadFile(sampleDesign)
	if err != nil {
		b.Skip("sample.yaml not found")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := document.Parse(data, document.YAML); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMarshalDesign(b *testing.B) {
	d := largeDocument(b, 100)
	for _, f := range []document.Format{document.YAML, document.JSON, document.TOML} {
		b.Run(string(f), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := d.Marshal(f); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// --- Rendering ---

func BenchmarkRender(b *testing.B) {
	for _, rows := range []int{10, 1000} {
		b.Run(fmt.Sprintf("rows=%d", rows), func(b *testing.B) {
			d := largeDocument(b, rows)
			r := render.New(render.Options{})
			ctx := benchContext()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, f, err := r.Render(ctx, d)
				if err != nil {
					b.Fatal(err)
				}
				f.Close()
			}
		})
	}
}

func BenchmarkRenderFile(b *testing.B) {
	d := largeDocument(b, 1000)
	out := filepath.Join(b.TempDir(), "large.xlsx")
	r := render.New(render.Options{})
	ctx := benchContext()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.RenderFile(ctx, d, out); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Workbooks ---

func BenchmarkXlsxRead(b *testing.B) {
	if _, err := os.Stat(sampleXlsx); os.IsNotExist(err) {
		b.Skip("sample.xlsx not found")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := xlsx.ReadFileWith(sampleXlsx, xlsx.ReadOptions{Styles: true}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkXlsxDiff(b *testing.B) {
	rows := make([][]string, 500)
	changed := make([][]string, 500)
	for i := range rows {
		rows[i] = []string{fmt.Sprint(i), "a", "b", "c"}
		changed[i] = []string{fmt.Sprint(i), "a", "B", "c"}
	}
	orig := &xlsx.Workbook{Sheets: []xlsx.Sheet{{Name: "S", Rows: rows}}}
	rev := &xlsx.Workbook{Sheets: []xlsx.Sheet{{Name: "S", Rows: changed}}}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		xlsx.Diff(orig, rev)
	}
}

func BenchmarkConvertXlsxToCSV(b *testing.B) {
	if _, err := os.Stat(sampleXlsx); os.IsNotExist(err) {
		b.Skip("sample.xlsx not found")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := convert.XlsxToCSV(sampleXlsx, ""); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkConvertXlsxToJSON(b *testing.B) {
	if _, err := os.Stat(sampleXlsx); os.IsNotExist(err) {
		b.Skip("sample.xlsx not found")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := convert.XlsxToJSON(sampleXlsx, ""); err != nil {
			b.Fatal(err)
		}
	}
}
