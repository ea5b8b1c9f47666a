// Package xlsx reads rendered workbooks back into plain data: the cell text
// of every sheet and a summary of each styled cell's formatting.
package xlsx

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet represents a single worksheet's data.
type Sheet struct {
	Name   string      `json:"name"`
	Rows   [][]string  `json:"rows"`
	Styled []CellStyle `json:"styled,omitempty"`
	Merged []string    `json:"merged,omitempty"`
}

// CellStyle summarizes the formatting of one cell that has a non-default style.
type CellStyle struct {
	Cell      string  `json:"cell"`
	FontName  string  `json:"fontName,omitempty"`
	FontSize  float64 `json:"fontSize,omitempty"`
	Bold      bool    `json:"bold,omitempty"`
	Italic    bool    `json:"italic,omitempty"`
	FontColor string  `json:"fontColor,omitempty"`
	FillColor string  `json:"fillColor,omitempty"`
	NumFmt    string  `json:"numFmt,omitempty"`
	Borders   int     `json:"borders,omitempty"`
}

// Workbook represents a parsed Excel file with all its sheets.
type Workbook struct {
	Sheets []Sheet `json:"sheets"`
}

// ReadOptions controls how much of a workbook is read.
type ReadOptions struct {
	// Styles collects a CellStyle for every styled cell.
	Styles bool
}

// ReadFile reads an .xlsx file and returns its structured data.
func ReadFile(path string) (*Workbook, error) { return ReadFileWith(path, ReadOptions{}) }

// ReadFileWith reads an .xlsx file with opts.
func ReadFileWith(path string, opts ReadOptions) (*Workbook, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s — check that the path is correct", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s — is this a valid .xlsx file? %w", path, err)
	}
	defer f.Close()

	return Read(f, opts)
}

// ReadBytes reads an .xlsx file from a byte slice, styles included.
func ReadBytes(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not read Excel data: %w", err)
	}
	defer f.Close()

	return Read(f, ReadOptions{Styles: true})
}

// Read extracts the data of an open workbook.
func Read(f *excelize.File, opts ReadOptions) (*Workbook, error) {
	wb := &Workbook{}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("could not read sheet %q: %w", name, err)
		}

		sheet := Sheet{Name: name, Rows: rows}
		if merged, err := f.GetMergeCells(name); err == nil {
			for _, m := range merged {
				sheet.Merged = append(sheet.Merged, m.GetStartAxis()+":"+m.GetEndAxis())
			}
		}
		if opts.Styles {
			styled, err := readStyles(f, name, rows)
			if err != nil {
				return nil, err
			}
			sheet.Styled = styled
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}

	return wb, nil
}

func readStyles(f *excelize.File, sheet string, rows [][]string) ([]CellStyle, error) {
	var out []CellStyle
	cache := make(map[int]*excelize.Style)
	for r, row := range rows {
		for c := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			idx, err := f.GetCellStyle(sheet, cell)
			if err != nil {
				return nil, fmt.Errorf("could not read style of %s!%s: %w", sheet, cell, err)
			}
			if idx == 0 {
				continue
			}
			st, ok := cache[idx]
			if !ok {
				if st, err = f.GetStyle(idx); err != nil {
					return nil, fmt.Errorf("could not read style %d: %w", idx, err)
				}
				cache[idx] = st
			}
			out = append(out, summarize(cell, st))
		}
	}
	return out, nil
}

func summarize(cell string, st *excelize.Style) CellStyle {
	cs := CellStyle{Cell: cell}
	if st.Font != nil {
		cs.FontName = st.Font.Family
		cs.FontSize = st.Font.Size
		cs.Bold = st.Font.Bold
		cs.Italic = st.Font.Italic
		cs.FontColor = hexColor(st.Font.Color)
	}
	if len(st.Fill.Color) > 0 {
		cs.FillColor = hexColor(st.Fill.Color[0])
	}
	if st.CustomNumFmt != nil {
		cs.NumFmt = *st.CustomNumFmt
	} else if st.NumFmt != 0 {
		cs.NumFmt = fmt.Sprintf("builtin:%d", st.NumFmt)
	}
	for _, b := range st.Border {
		if b.Style != 0 {
			cs.Borders++
		}
	}
	return cs
}

// hexColor normalizes the RGB and ARGB forms excelize reports to "#RRGGBB".
func hexColor(s string) string {
	s = strings.ToUpper(strings.TrimPrefix(s, "#"))
	if len(s) == 8 {
		s = s[2:]
	}
	if s == "" {
		return ""
	}
	return "#" + s
}

// GetSheet returns a specific sheet by name. Returns an error if the sheet is not found.
func (wb *Workbook) GetSheet(name string) (*Sheet, error) {
	for i := range wb.Sheets {
		if wb.Sheets[i].Name == name {
			return &wb.Sheets[i], nil
		}
	}

	available := make([]string, len(wb.Sheets))
	for i, s := range wb.Sheets {
		available[i] = s.Name
	}
	return nil, fmt.Errorf("sheet %q not found — available sheets: %v", name, available)
}

// StyleAt returns the style summary of cell, if the cell is styled.
func (s *Sheet) StyleAt(cell string) (CellStyle, bool) {
	for _, cs := range s.Styled {
		if cs.Cell == cell {
			return cs, true
		}
	}
	return CellStyle{}, false
}

// RowCount returns the total number of data rows (excluding empty rows).
func (s *Sheet) RowCount() int {
	count := 0
	for _, row := range s.Rows {
		for _, cell := range row {
			if cell != "" {
				count++
				break
			}
		}
	}
	return count
}
