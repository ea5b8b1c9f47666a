package document

import (
	"encoding/json"

	"github.com/klytics/sheetkit/internal/chart"
	"github.com/klytics/sheetkit/internal/drawing"
	"github.com/klytics/sheetkit/internal/minichart"
	"github.com/klytics/sheetkit/internal/sheet"
	"github.com/klytics/sheetkit/internal/style"
)

// Sheet is the design of one worksheet.
type Sheet struct {
	Name       string                `json:"name"`
	Settings   *sheet.Settings       `json:"settings,omitempty"`
	Data       *Data                 `json:"data,omitempty"`
	Columns    []*Column             `json:"columns,omitempty"`
	Ranges     []*Range              `json:"ranges,omitempty"`
	Charts     []*ChartPlacement     `json:"charts,omitempty"`
	MiniCharts []*MiniChartPlacement `json:"mini_charts,omitempty"`
	Pictures   []*PicturePlacement   `json:"pictures,omitempty"`
	Shapes     []*ShapePlacement     `json:"shapes,omitempty"`

	doc *Document
}

// Data is the content written to a sheet: inline rows or a data file.
type Data struct {
	// File is a .csv, .json, or .xlsx file, relative to the document.
	File string `json:"file,omitempty"`
	// Sheet selects the worksheet of an .xlsx file; empty means the first.
	Sheet string `json:"sheet,omitempty"`
	// Cell is the top-left cell; empty means A1.
	Cell string  `json:"cell,omitempty"`
	Rows [][]any `json:"rows,omitempty"`
}

// Column sets the width or style of one or more columns ("B" or "B:D").
type Column struct {
	Column string  `json:"column"`
	Width  float64 `json:"width,omitempty"`
	Style  string  `json:"style,omitempty"`
}

// Range styles a cell range and optionally sets its value and merge.
type Range struct {
	Ref     string                  `json:"ref"`
	Style   string                  `json:"style,omitempty"`
	Options *style.CellStyleOptions `json:"options,omitempty"`
	Merge   *sheet.Merge            `json:"merge,omitempty"`
	Value   any                     `json:"value,omitempty"`
	Formula string                  `json:"formula,omitempty"`
}

// ChartPlacement anchors a chart at a cell.
type ChartPlacement struct {
	Cell  string       `json:"cell"`
	Chart *chart.Chart `json:"chart"`
}

// MiniChartPlacement draws one sparkline per Location cell from the matching
// Range entry.
type MiniChartPlacement struct {
	Location  []string             `json:"location"`
	Range     []string             `json:"range"`
	MiniChart *minichart.MiniChart `json:"mini_chart,omitempty"`
}

// PicturePlacement anchors a picture at a cell.
type PicturePlacement struct {
	Cell    string           `json:"cell"`
	Picture *drawing.Picture `json:"picture"`
}

// ShapePlacement anchors a shape at a cell.
type ShapePlacement struct {
	Cell  string         `json:"cell"`
	Shape *drawing.Shape `json:"shape"`
}

// NewSheet returns an empty sheet with default settings.
func NewSheet(name string) *Sheet {
	s := &Sheet{Name: name}
	s.wire()
	return s
}

// Document returns the document the sheet belongs to, or nil.
func (s *Sheet) Document() *Document { return s.doc }

// AddRange appends a range styled with the named style.
func (s *Sheet) AddRange(ref, styleName string) *Range {
	r := &Range{Ref: ref, Style: styleName}
	s.Ranges = append(s.Ranges, r)
	return r
}

// AddChart anchors a new chart at cell and returns it.
func (s *Sheet) AddChart(cell string) *chart.Chart {
	c := chart.New()
	s.Charts = append(s.Charts, &ChartPlacement{Cell: cell, Chart: c})
	return c
}

// AddMiniChart adds a sparkline group and returns its design.
func (s *Sheet) AddMiniChart(location, source []string) *minichart.MiniChart {
	m := minichart.New()
	s.MiniCharts = append(s.MiniCharts, &MiniChartPlacement{Location: location, Range: source, MiniChart: m})
	return m
}

// AddPicture anchors the image at path to cell and returns its design.
func (s *Sheet) AddPicture(cell, path string) *drawing.Picture {
	p := drawing.NewPicture()
	_ = p.SetPath(path)
	s.Pictures = append(s.Pictures, &PicturePlacement{Cell: cell, Picture: p})
	return p
}

// AddShape anchors a new shape at cell and returns its design.
func (s *Sheet) AddShape(cell string) *drawing.Shape {
	sh := drawing.NewShape()
	s.Shapes = append(s.Shapes, &ShapePlacement{Cell: cell, Shape: sh})
	return sh
}

type sheetJSON Sheet

// MarshalJSON omits settings left at their defaults.
func (s *Sheet) MarshalJSON() ([]byte, error) {
	w := sheetJSON(*s)
	if w.Settings != nil && w.Settings.IsDefault() {
		w.Settings = nil
	}
	return json.Marshal(&w)
}

func (s *Sheet) wire() {
	if s.Settings == nil {
		s.Settings = sheet.NewSettings()
	}
	for _, p := range s.MiniCharts {
		if p.MiniChart == nil {
			p.MiniChart = minichart.New()
		}
	}
}
