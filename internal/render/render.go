// Package render turns a design document into an .xlsx workbook with
// excelize. Each element is rendered independently: a failing chart or
// range is recorded in the Result and the rest of the sheet still renders.
package render

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"

	"github.com/klytics/sheetkit/internal/dataset"
	"github.com/klytics/sheetkit/internal/document"
	"github.com/klytics/sheetkit/internal/logging"
	"github.com/klytics/sheetkit/internal/style"
)

// Options configures a Renderer.
type Options struct {
	// Logger receives progress; nil means the logger in the context.
	Logger *log.Logger
	// Culture overrides the document culture when not language.Und.
	Culture language.Tag
}

var renderMu sync.Mutex

// Renderer renders documents. It is safe for concurrent use; building the
// workbooks is serialized, saving them is not.
type Renderer struct {
	opts Options
}

// New returns a renderer with opts.
func New(opts Options) *Renderer { return &Renderer{opts: opts} }

// ElementError records the failure of one element of a sheet.
type ElementError struct {
	Sheet   string `json:"sheet"`
	Element string `json:"element"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Sheet, e.Element, e.Message)
}

func (e *ElementError) Unwrap() error { return e.Err }

// Result holds the outcome of a render.
type Result struct {
	RunID      string         `json:"runId"`
	Document   string         `json:"document"`
	OutputPath string         `json:"outputPath,omitempty"`
	Culture    string         `json:"culture"`
	Sheets     int            `json:"sheets"`
	Rows       int            `json:"rows"`
	Ranges     int            `json:"ranges"`
	Styles     int            `json:"styles"`
	Charts     int            `json:"charts"`
	MiniCharts int            `json:"miniCharts"`
	Pictures   int            `json:"pictures"`
	Shapes     int            `json:"shapes"`
	Fallbacks  int            `json:"fallbacks"`
	Errors     []ElementError `json:"errors,omitempty"`
	Success    bool           `json:"success"`
	StartedAt  time.Time      `json:"startedAt"`
	Duration   time.Duration  `json:"duration"`
}

// run is the state of one render.
type run struct {
	doc    *document.Document
	file   *excelize.File
	logger *log.Logger
	result *Result
	styles map[string]int
}

// Render builds the workbook for doc. The caller owns the returned file and
// must close it. The error is non-nil only when rendering could not run at
// all; element failures are reported in Result.Errors.
func (r *Renderer) Render(ctx context.Context, doc *document.Document) (*Result, *excelize.File, error) {
	logger := r.opts.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	culture := r.opts.Culture
	if culture == language.Und {
		culture = doc.Language()
	}
	// Format hooks read the process culture, so one render holds it at a time.
	renderMu.Lock()
	defer renderMu.Unlock()
	previous := style.CurrentCulture()
	style.SetCurrentCulture(culture)
	defer style.SetCurrentCulture(previous)

	res := &Result{
		RunID:     uuid.NewString(),
		Document:  doc.Name,
		Culture:   culture.String(),
		StartedAt: time.Now(),
	}
	progress := logging.Start(logger)
	logger.Debug("rendering", "document", doc.Name, "run", res.RunID, "culture", res.Culture)

	for _, issue := range doc.Validate() {
		if issue.Severity == "warning" {
			logger.Warn(issue.Message, "path", issue.Path)
		}
	}

	f := excelize.NewFile()
	rn := &run{doc: doc, file: f, logger: logger, result: res, styles: make(map[string]int)}
	for i, s := range doc.Sheets {
		if err := ctx.Err(); err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("render cancelled: %w", err)
		}
		rn.sheet(i, s)
	}
	if len(doc.Sheets) > 0 {
		f.SetActiveSheet(0)
	}

	res.Styles = len(rn.styles)
	res.Success = len(res.Errors) == 0
	res.Duration = progress.Elapsed()
	progress.Done(fmt.Sprintf("Rendered %d sheets", res.Sheets))
	return res, f, nil
}

// RenderFile renders doc and saves the workbook to path.
func (r *Renderer) RenderFile(ctx context.Context, doc *document.Document, path string) (*Result, error) {
	res, f, err := r.Render(ctx, doc)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return res, fmt.Errorf("could not save %s: %w", path, err)
	}
	res.OutputPath = path
	return res, nil
}

func (rn *run) fail(sheet, element string, err error) {
	rn.logger.Error("element failed", "sheet", sheet, "element", element, "err", err)
	rn.result.Errors = append(rn.result.Errors, ElementError{Sheet: sheet, Element: element, Message: err.Error(), Err: err})
}

// sheet renders the i-th sheet of the document.
func (rn *run) sheet(i int, s *document.Sheet) {
	f := rn.file
	name := s.Name
	var err error
	if i == 0 {
		err = f.SetSheetName(f.GetSheetName(0), name)
	} else {
		_, err = f.NewSheet(name)
	}
	if err != nil {
		rn.fail(name, "sheet", fmt.Errorf("could not create sheet: %w", err))
		return
	}
	rn.result.Sheets++
	rn.logger.Debug("sheet", "name", name)

	if s.Data != nil {
		if err := rn.data(s); err != nil {
			rn.fail(name, "data", err)
		}
	}
	for j, c := range s.Columns {
		if err := rn.column(s, c); err != nil {
			rn.fail(name, fmt.Sprintf("columns[%d]", j), err)
		}
	}
	for j, r := range s.Ranges {
		if err := rn.rangeStyle(s, r); err != nil {
			rn.fail(name, fmt.Sprintf("ranges[%d]", j), err)
			continue
		}
		rn.result.Ranges++
	}
	for j, c := range s.Charts {
		if err := rn.chart(s, c); err != nil {
			rn.fail(name, fmt.Sprintf("charts[%d]", j), err)
		}
	}
	for j, m := range s.MiniCharts {
		if err := rn.miniChart(s, m); err != nil {
			rn.fail(name, fmt.Sprintf("mini_charts[%d]", j), err)
		}
	}
	for j, p := range s.Pictures {
		if err := rn.picture(s, p); err != nil {
			rn.fail(name, fmt.Sprintf("pictures[%d]", j), err)
		}
	}
	for j, sh := range s.Shapes {
		if err := rn.shape(s, sh); err != nil {
			rn.fail(name, fmt.Sprintf("shapes[%d]", j), err)
		}
	}
	if err := s.Settings.Apply(f, name); err != nil {
		rn.fail(name, "settings", err)
	}
}

func (rn *run) data(s *document.Sheet) error {
	d := s.Data
	var table *dataset.Table
	if d.File != "" {
		t, err := dataset.Load(rn.doc.ResolvePath(d.File), d.Sheet)
		if err != nil {
			return err
		}
		table = t
	} else {
		table = dataset.FromRows(d.Rows)
	}
	start := d.Cell
	if start == "" {
		start = "A1"
	}
	col, row, err := excelize.CellNameToCoordinates(start)
	if err != nil {
		return err
	}
	for k, values := range table.Values() {
		cell, err := excelize.CoordinatesToCellName(col, row+k)
		if err != nil {
			return err
		}
		if err := rn.file.SetSheetRow(s.Name, cell, &values); err != nil {
			return fmt.Errorf("could not write row %d: %w", row+k, err)
		}
		rn.result.Rows++
	}
	rn.logger.Debug("data", "sheet", s.Name, "source", table.Source, "rows", len(table.Rows))
	return nil
}

func (rn *run) column(s *document.Sheet, c *document.Column) error {
	from, to, err := document.ColumnSpan(c.Column)
	if err != nil {
		return err
	}
	if c.Width > 0 {
		if err := rn.file.SetColWidth(s.Name, from, to, c.Width); err != nil {
			return err
		}
	}
	if c.Style != "" {
		id, err := rn.styleID(c.Style, nil)
		if err != nil {
			return err
		}
		if err := rn.file.SetColStyle(s.Name, from+":"+to, id); err != nil {
			return err
		}
	}
	return nil
}

func (rn *run) rangeStyle(s *document.Sheet, r *document.Range) error {
	from, to, err := document.RangeBounds(r.Ref)
	if err != nil {
		return err
	}
	f := rn.file
	switch {
	case r.Formula != "":
		if err := f.SetCellFormula(s.Name, from, r.Formula); err != nil {
			return err
		}
	case r.Value != nil:
		if err := f.SetCellValue(s.Name, from, r.Value); err != nil {
			return err
		}
	}
	if r.Merge != nil && r.Merge.Active() {
		mFrom, mTo, err := r.Merge.Range(r.Ref)
		if err != nil {
			return err
		}
		if err := f.MergeCell(s.Name, mFrom, mTo); err != nil {
			return fmt.Errorf("could not merge %s:%s: %w", mFrom, mTo, err)
		}
		to = maxCell(to, mTo)
	}
	if r.Style == "" && (r.Options == nil || r.Options.IsDefault()) {
		return nil
	}
	cs, err := rn.doc.ResolveStyle(r.Style, r.Options)
	if err != nil {
		return err
	}
	id, err := rn.register(r.Style, cs)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(s.Name, from, to, id); err != nil {
		return err
	}
	return rn.fallbacks(s.Name, from, to, cs.Content().Format(), id)
}

// fallbacks rewrites the text cells of from:to that a numeric or date format
// cannot display. Numeric or date text is stored as a number or date. Other
// text is replaced by the format's error content when the format has one.
func (rn *run) fallbacks(sheet, from, to string, nf *style.NumberFormat, styleID int) error {
	kind := nf.Kind()
	if !kind.IsNumber() && kind != style.FormatDateTime {
		return nil
	}
	c1, r1, err := excelize.CellNameToCoordinates(from)
	if err != nil {
		return err
	}
	c2, r2, err := excelize.CellNameToCoordinates(to)
	if err != nil {
		return err
	}
	f := rn.file
	for row := r1; row <= r2; row++ {
		for col := c1; col <= c2; col++ {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			typ, err := f.GetCellType(sheet, cell)
			if err != nil {
				return err
			}
			if typ != excelize.CellTypeSharedString && typ != excelize.CellTypeInlineString {
				continue
			}
			v, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
			if err != nil || v == "" {
				continue
			}
			if kind.IsNumber() {
				if n, ok := dataset.Value(v).(float64); ok {
					if err := f.SetCellFloat(sheet, cell, n, -1, 64); err != nil {
						return err
					}
					continue
				}
			} else if d, ok := style.ParseDate(v); ok {
				if err := rn.setDate(sheet, cell, d, styleID); err != nil {
					return err
				}
				continue
			}
			if !nf.ErrorContentSpecified() {
				continue
			}
			e := nf.ErrorContent()
			switch fb := e.Fallback().(type) {
			case nil:
			case time.Time:
				if err := rn.setDate(sheet, cell, fb, styleID); err != nil {
					return err
				}
			default:
				if err := f.SetCellValue(sheet, cell, fb); err != nil {
					return err
				}
			}
			if e.Comment() != "" {
				if err := f.AddComment(sheet, excelize.Comment{Cell: cell, Author: "sheetkit", Text: e.Comment()}); err != nil {
					return fmt.Errorf("could not comment %s: %w", cell, err)
				}
			}
			rn.result.Fallbacks++
			rn.logger.Debug("fallback", "sheet", sheet, "cell", cell, "value", v)
		}
	}
	return nil
}

// setDate writes a date and restores the cell style excelize replaces with
// its default date format.
func (rn *run) setDate(sheet, cell string, d time.Time, styleID int) error {
	if err := rn.file.SetCellValue(sheet, cell, d); err != nil {
		return err
	}
	return rn.file.SetCellStyle(sheet, cell, cell, styleID)
}

// styleID resolves a style and registers it once per distinct design.
func (rn *run) styleID(name string, opts *style.CellStyleOptions) (int, error) {
	s, err := rn.doc.ResolveStyle(name, opts)
	if err != nil {
		return 0, err
	}
	return rn.register(name, s)
}

func (rn *run) register(name string, s *style.CellStyle) (int, error) {
	xs, err := s.ToExcelize()
	if err != nil {
		return 0, fmt.Errorf("style %q: %w", name, err)
	}
	key, err := json.Marshal(xs)
	if err != nil {
		return 0, err
	}
	if id, ok := rn.styles[string(key)]; ok {
		return id, nil
	}
	id, err := rn.file.NewStyle(xs)
	if err != nil {
		return 0, fmt.Errorf("could not register style %q: %w", name, err)
	}
	rn.styles[string(key)] = id
	rn.logger.Debug("style", "name", name, "id", id)
	return id, nil
}

func (rn *run) chart(s *document.Sheet, p *document.ChartPlacement) error {
	if p.Chart == nil {
		return fmt.Errorf("chart has no design")
	}
	if !p.Chart.Show().Bool() {
		rn.logger.Debug("chart hidden", "sheet", s.Name, "cell", p.Cell)
		return nil
	}
	main, combos, err := p.Chart.ToExcelize()
	if err != nil {
		return err
	}
	if n := p.Chart.PointOverrides(); n > 0 {
		rn.logger.Debug("point overrides are not rendered", "sheet", s.Name, "cell", p.Cell, "points", n)
	}
	if err := rn.file.AddChart(s.Name, p.Cell, main, combos...); err != nil {
		return fmt.Errorf("could not add chart at %s: %w", p.Cell, err)
	}
	rn.result.Charts++
	return nil
}

func (rn *run) miniChart(s *document.Sheet, p *document.MiniChartPlacement) error {
	if len(p.Location) != len(p.Range) {
		return fmt.Errorf("%d locations but %d ranges", len(p.Location), len(p.Range))
	}
	opts, err := p.MiniChart.ToExcelize(p.Location, p.Range)
	if err != nil {
		return err
	}
	if err := rn.file.AddSparkline(s.Name, opts); err != nil {
		return fmt.Errorf("could not add sparklines: %w", err)
	}
	rn.result.MiniCharts += len(p.Location)
	return nil
}

func (rn *run) picture(s *document.Sheet, p *document.PicturePlacement) error {
	if p.Picture == nil || p.Picture.Path() == "" {
		return fmt.Errorf("picture has no path")
	}
	path := rn.doc.ResolvePath(p.Picture.Path())
	w, h := imageSize(path)
	if effects := p.Picture.VisibleEffects(); len(effects) > 0 || p.Picture.BorderSpecified() {
		rn.logger.Debug("picture border and effects are not rendered", "sheet", s.Name, "cell", p.Cell, "effects", effects)
	}
	if err := rn.file.AddPicture(s.Name, p.Cell, path, p.Picture.GraphicOptions(w, h)); err != nil {
		return fmt.Errorf("could not add picture %s: %w", p.Picture.Path(), err)
	}
	rn.result.Pictures++
	return nil
}

func (rn *run) shape(s *document.Sheet, p *document.ShapePlacement) error {
	if p.Shape == nil {
		return fmt.Errorf("shape has no design")
	}
	xs, err := p.Shape.ToExcelize(p.Cell)
	if err != nil {
		return err
	}
	if effects := p.Shape.VisibleEffects(); len(effects) > 0 {
		rn.logger.Debug("shape effects are not rendered", "sheet", s.Name, "cell", p.Cell, "effects", effects)
	}
	if err := rn.file.AddShape(s.Name, xs); err != nil {
		return fmt.Errorf("could not add shape at %s: %w", p.Cell, err)
	}
	rn.result.Shapes++
	return nil
}

// imageSize returns the pixel size of the image at path, or zeros when it
// cannot be decoded.
func imageSize(path string) (int, int) {
	fh, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer fh.Close()
	cfg, _, err := image.DecodeConfig(fh)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

// maxCell returns the cell with the larger column and row of a and b.
func maxCell(a, b string) string {
	ac, ar, err := excelize.CellNameToCoordinates(a)
	if err != nil {
		return b
	}
	bc, br, err := excelize.CellNameToCoordinates(b)
	if err != nil {
		return a
	}
	cell, _ := excelize.CoordinatesToCellName(max(ac, bc), max(ar, br))
	return cell
}
