// Package scaffold provides the "sheetkit init" command, which writes a
// starter design for a data file.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetkit/internal/chart"
	"github.com/klytics/sheetkit/internal/dataset"
	"github.com/klytics/sheetkit/internal/design"
	"github.com/klytics/sheetkit/internal/document"
	"github.com/klytics/sheetkit/internal/output"
)

// NewCommand creates the "init" command.
func NewCommand() *cobra.Command {
	var (
		outPath string
		sheet   string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init <data-file>",
		Short: "Write a starter design for a data file",
		Long: `Generate a design for a .csv, .json, or .xlsx data file: a header style,
a frozen header row, column widths fitted to the data, and a column chart
of the numeric columns. The format follows the output extension (.yaml,
.toml, or .json).

Example:
  sheetkit init sales.csv
  sheetkit init sales.csv -o designs/sales.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataFile := args[0]
			t, err := dataset.Load(dataFile, sheet)
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = strings.TrimSuffix(dataFile, filepath.Ext(dataFile)) + ".yaml"
			}
			if _, err := os.Stat(outPath); err == nil && !force {
				return fmt.Errorf("%s already exists — use --force to overwrite", outPath)
			}

			rel, err := filepath.Rel(filepath.Dir(outPath), dataFile)
			if err != nil {
				rel, _ = filepath.Abs(dataFile)
			}
			doc, err := Design(t, filepath.ToSlash(rel), sheet)
			if err != nil {
				return err
			}
			if err := doc.Save(outPath); err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("init", map[string]any{"design": outPath, "sheets": len(doc.Sheets), "columns": len(t.Columns)})
			}
			fmt.Printf("Wrote %s — render it with: sheetkit render %s\n", outPath, outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Design file to write (default: <data-file>.yaml)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet to read from an .xlsx data file")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing design")
	return cmd
}

// Design builds a starter design around t, reading its data from dataFile.
func Design(t *dataset.Table, dataFile, dataSheet string) (*document.Document, error) {
	name := strings.TrimSuffix(filepath.Base(dataFile), filepath.Ext(dataFile))
	doc := document.New(name)

	header, err := doc.Styles.Define("Header", "")
	if err != nil {
		return nil, err
	}
	if err := header.Font().SetBold(design.Yes); err != nil {
		return nil, err
	}
	if err := header.Content().SetColor("#DDEBF7"); err != nil {
		return nil, err
	}

	sheetName := sheetNameFor(name)
	s, err := doc.AddSheet(sheetName)
	if err != nil {
		return nil, err
	}
	s.Data = &document.Data{File: dataFile, Sheet: dataSheet}
	if len(t.Columns) == 0 {
		return doc, nil
	}
	if err := s.Settings.Freeze().SetRows(1); err != nil {
		return nil, err
	}

	last, err := excelize.ColumnNumberToName(t.Width())
	if err != nil {
		return nil, err
	}
	s.AddRange("A1:"+last+"1", "Header")

	for j := 0; j < t.Width(); j++ {
		col, _ := excelize.ColumnNumberToName(j + 1)
		s.Columns = append(s.Columns, &document.Column{Column: col, Width: fitWidth(t, j)})
	}

	if len(t.Rows) == 0 {
		return doc, nil
	}
	numeric := numericColumns(t)
	if len(numeric) == 0 {
		return doc, nil
	}
	c := s.AddChart(cellAfter(t.Width()))
	if err := c.SetType(chart.Column); err != nil {
		return nil, err
	}
	if err := c.Title().SetText(name); err != nil {
		return nil, err
	}
	quoted := "'" + strings.ReplaceAll(sheetName, "'", "''") + "'"
	rows := len(t.Rows) + 1
	categories := ""
	if len(numeric) < t.Width() && numeric[0] != 0 {
		categories = absRange(quoted, 1, 2, rows)
	}
	for _, j := range numeric {
		if _, err := c.AddSeries(t.Columns[j], categories, absRange(quoted, j+1, 2, rows)); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// sheetNameFor trims name to a valid worksheet name.
func sheetNameFor(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, name)
	for utf8.RuneCountInString(name) > excelize.MaxSheetNameLength {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	if name == "" {
		return "Data"
	}
	return name
}

func numericColumns(t *dataset.Table) []int {
	var cols []int
	for j := range t.Columns {
		numbers := 0
		for i := range t.Rows {
			if _, ok := t.Cell(i, j).(float64); ok {
				numbers++
			}
		}
		if numbers*2 > len(t.Rows) {
			cols = append(cols, j)
		}
	}
	return cols
}

func fitWidth(t *dataset.Table, j int) float64 {
	w := 8
	if j < len(t.Columns) {
		w = max(w, utf8.RuneCountInString(t.Columns[j])+2)
	}
	for _, row := range t.Rows {
		if j < len(row) {
			w = max(w, utf8.RuneCountInString(row[j])+2)
		}
	}
	return float64(min(w, 60))
}

func cellAfter(width int) string {
	cell, _ := excelize.CoordinatesToCellName(width+2, 2)
	return cell
}

func absRange(sheet string, col, from, to int) string {
	a, _ := excelize.CoordinatesToCellName(col, from, true)
	b, _ := excelize.CoordinatesToCellName(col, to, true)
	return sheet + "!" + a + ":" + b
}
