// Package dataset loads the tabular data a sheet design is filled with.
// It supports CSV, JSON, and XLSX sources and detects numeric cells so
// charts plot numbers rather than text.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klytics/sheetkit/internal/formats/xlsx"
)

// Table is a loaded data set. Columns is the header row; Rows excludes it.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Source  string     `json:"source"`
}

// Load reads a data file. Supports .csv, .json, and .xlsx; sheet selects the
// worksheet of an .xlsx file and defaults to the first.
func Load(path, sheet string) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return loadCSV(path)
	case ".json":
		return loadJSON(path)
	case ".xlsx":
		return loadXLSX(path, sheet)
	default:
		return nil, fmt.Errorf("unsupported data format: %s (supported: .csv, .json, .xlsx)", ext)
	}
}

// FromRows builds a table from inline rows; the first row is the header.
func FromRows(rows [][]any) *Table {
	t := &Table{Source: "inline"}
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = text(v)
		}
		if i == 0 {
			t.Columns = cells
			continue
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func loadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not parse CSV: %w", err)
	}
	if len(records) < 1 {
		return &Table{Source: path}, nil
	}
	return &Table{Columns: records[0], Rows: records[1:], Source: path}, nil
}

func loadJSON(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}

	// Try array of objects first
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		var single map[string]any
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("could not parse JSON: expected array of objects or single object")
		}
		records = []map[string]any{single}
	}

	t := &Table{Source: path}
	colSet := make(map[string]bool)
	for _, rec := range records {
		for k := range rec {
			colSet[k] = true
		}
	}
	for k := range colSet {
		t.Columns = append(t.Columns, k)
	}
	sort.Strings(t.Columns)

	for _, rec := range records {
		row := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			if v, ok := rec[col]; ok && v != nil {
				row[i] = text(v)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func loadXLSX(path, sheet string) (*Table, error) {
	wb, err := xlsx.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(wb.Sheets) == 0 {
		return &Table{Source: path}, nil
	}
	s := &wb.Sheets[0]
	if sheet != "" {
		if s, err = wb.GetSheet(sheet); err != nil {
			return nil, err
		}
	}
	t := &Table{Source: path + "#" + s.Name}
	if len(s.Rows) > 0 {
		t.Columns = s.Rows[0]
		t.Rows = s.Rows[1:]
	}
	return t, nil
}

// Width returns the widest row length, header included.
func (t *Table) Width() int {
	w := len(t.Columns)
	for _, r := range t.Rows {
		w = max(w, len(r))
	}
	return w
}

// Cell returns the value at row i, column j of the data rows: a float64 when
// the text is numeric, the text otherwise, and nil when the cell is missing.
func (t *Table) Cell(i, j int) any {
	if i < 0 || i >= len(t.Rows) || j < 0 || j >= len(t.Rows[i]) {
		return nil
	}
	return Value(t.Rows[i][j])
}

// Values returns the header row followed by every data row, with numeric
// cells converted, ready for excelize SetSheetRow.
func (t *Table) Values() [][]any {
	out := make([][]any, 0, len(t.Rows)+1)
	if len(t.Columns) > 0 {
		header := make([]any, len(t.Columns))
		for j, c := range t.Columns {
			header[j] = c
		}
		out = append(out, header)
	}
	for i, r := range t.Rows {
		row := make([]any, len(r))
		for j := range r {
			row[j] = t.Cell(i, j)
		}
		out = append(out, row)
	}
	return out
}

// Value converts numeric text to float64 and returns other text unchanged.
func Value(s string) any {
	v := strings.TrimSpace(s)
	if v == "" {
		return s
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return s
}

// Summary holds the aggregates of one numeric column.
type Summary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Sum    float64 `json:"sum"`
	Avg    float64 `json:"avg"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize calculates count, sum, avg, min, and max for each column that
// holds at least one number.
func (t *Table) Summarize() []Summary {
	var out []Summary
	for j, col := range t.Columns {
		var values []float64
		for i := range t.Rows {
			if f, ok := t.Cell(i, j).(float64); ok {
				values = append(values, f)
			}
		}
		if len(values) == 0 {
			continue
		}
		s := Summary{Column: col, Count: len(values), Min: values[0], Max: values[0]}
		for _, v := range values {
			s.Sum += v
			s.Min = min(s.Min, v)
			s.Max = max(s.Max, v)
		}
		s.Avg = s.Sum / float64(len(values))
		out = append(out, s)
	}
	return out
}

// FormatNumber formats a float as a clean string (no trailing zeros).
func FormatNumber(f float64) string {
	if f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", v)
	}
}
