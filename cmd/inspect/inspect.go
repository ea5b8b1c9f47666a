// Package inspect provides the "sheetkit inspect" command for reading a
// rendered workbook back.
package inspect

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/dataset"
	"github.com/klytics/sheetkit/internal/formats/xlsx"
	"github.com/klytics/sheetkit/internal/output"
)

// Report is the JSON form of an inspection.
type Report struct {
	File      string                       `json:"file"`
	Sheets    []xlsx.Sheet                 `json:"sheets"`
	Summaries map[string][]dataset.Summary `json:"summaries,omitempty"`
}

// NewCommand creates the "inspect" command.
func NewCommand() *cobra.Command {
	var (
		sheetName string
		styles    bool
		summary   bool
		maxRows   int
	)

	cmd := &cobra.Command{
		Use:   "inspect <file.xlsx>",
		Short: "Show the cells, merges, and formatting of a workbook",
		Long: `Read an .xlsx file, typically one sheetkit rendered, and print its sheets.
Use --styles to list the formatting of every styled cell and --summary to
aggregate numeric columns. Pass '-' to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			var wb *xlsx.Workbook
			var err error
			if args[0] == "-" {
				data, readErr := io.ReadAll(os.Stdin)
				if readErr != nil {
					return fmt.Errorf("could not read from stdin: %w", readErr)
				}
				if len(data) == 0 {
					return fmt.Errorf("no input provided — pass an .xlsx file path or pipe data to stdin")
				}
				wb, err = xlsx.ReadBytes(data)
			} else {
				if !strings.HasSuffix(strings.ToLower(args[0]), ".xlsx") {
					return fmt.Errorf("expected an .xlsx file, got %q", args[0])
				}
				wb, err = xlsx.ReadFileWith(args[0], xlsx.ReadOptions{Styles: styles})
			}
			if err != nil {
				return err
			}

			if sheetName != "" {
				sheet, err := wb.GetSheet(sheetName)
				if err != nil {
					return err
				}
				wb = &xlsx.Workbook{Sheets: []xlsx.Sheet{*sheet}}
			}

			r := Report{File: args[0], Sheets: wb.Sheets}
			if summary {
				r.Summaries = make(map[string][]dataset.Summary)
				for _, s := range wb.Sheets {
					r.Summaries[s.Name] = tableOf(s).Summarize()
				}
			}

			if jsonOut {
				return output.PrintJSON("inspect", r)
			}
			var sb strings.Builder
			Format(&sb, r, maxRows)
			return output.PageOrPrint(os.Stdout, sb.String())
		},
	}

	cmd.Flags().StringVar(&sheetName, "sheet", "", "Inspect only the named sheet")
	cmd.Flags().BoolVar(&styles, "styles", false, "List the formatting of styled cells")
	cmd.Flags().BoolVar(&summary, "summary", false, "Summarize numeric columns")
	cmd.Flags().IntVar(&maxRows, "rows", 20, "Show at most N data rows per sheet (0 for all)")
	return cmd
}

func tableOf(s xlsx.Sheet) *dataset.Table {
	t := &dataset.Table{Source: s.Name}
	if len(s.Rows) > 0 {
		t.Columns = s.Rows[0]
		t.Rows = s.Rows[1:]
	}
	return t
}

// Format writes the text form of r.
func Format(w io.Writer, r Report, maxRows int) {
	header := color.New(color.Bold, color.FgCyan)
	dim := color.New(color.FgHiBlack)

	for _, sheet := range r.Sheets {
		header.Fprintf(w, "Sheet: %s\n", sheet.Name)
		if len(sheet.Rows) == 0 {
			dim.Fprintln(w, "  (empty)")
			fmt.Fprintln(w)
			continue
		}

		widths := columnWidths(sheet.Rows)
		writeRow(w, sheet.Rows[0], widths, color.New(color.Bold))
		dim.Fprint(w, "  ")
		for j, cw := range widths {
			if j > 0 {
				dim.Fprint(w, "+-")
			}
			dim.Fprint(w, strings.Repeat("-", cw+1))
		}
		fmt.Fprintln(w)

		rows := sheet.Rows[1:]
		shown := rows
		if maxRows > 0 && len(rows) > maxRows {
			shown = rows[:maxRows]
		}
		for _, row := range shown {
			writeRow(w, row, widths, nil)
		}
		if len(shown) < len(rows) {
			dim.Fprintf(w, "  … %d more row(s)\n", len(rows)-len(shown))
		}
		dim.Fprintf(w, "  (%d rows)\n", len(rows))

		if len(sheet.Merged) > 0 {
			fmt.Fprintf(w, "  Merged: %s\n", strings.Join(sheet.Merged, ", "))
		}
		for _, st := range sheet.Styled {
			fmt.Fprintf(w, "  %-6s %s\n", st.Cell, describe(st))
		}
		if sums := r.Summaries[sheet.Name]; len(sums) > 0 {
			fmt.Fprintln(w, "  Summary:")
			for _, s := range sums {
				fmt.Fprintf(w, "    %-12s count=%d sum=%s avg=%s min=%s max=%s\n", s.Column, s.Count,
					dataset.FormatNumber(s.Sum), dataset.FormatNumber(s.Avg),
					dataset.FormatNumber(s.Min), dataset.FormatNumber(s.Max))
			}
		}
		fmt.Fprintln(w)
	}
}

func describe(st xlsx.CellStyle) string {
	var parts []string
	if st.FontName != "" {
		parts = append(parts, fmt.Sprintf("%s %gpt", st.FontName, st.FontSize))
	}
	if st.Bold {
		parts = append(parts, "bold")
	}
	if st.Italic {
		parts = append(parts, "italic")
	}
	if st.FontColor != "" {
		parts = append(parts, "color "+st.FontColor)
	}
	if st.FillColor != "" {
		parts = append(parts, "fill "+st.FillColor)
	}
	if st.NumFmt != "" {
		parts = append(parts, "format "+st.NumFmt)
	}
	if st.Borders > 0 {
		parts = append(parts, fmt.Sprintf("%d border(s)", st.Borders))
	}
	return strings.Join(parts, ", ")
}

func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for j, cell := range row {
			for len(widths) <= j {
				widths = append(widths, 3)
			}
			if n := len([]rune(cell)); n > widths[j] {
				widths[j] = min(n, 40)
			}
		}
	}
	return widths
}

func writeRow(w io.Writer, row []string, widths []int, c *color.Color) {
	fmt.Fprint(w, "  ")
	for j, cw := range widths {
		cell := ""
		if j < len(row) {
			cell = row[j]
		}
		if r := []rune(cell); len(r) > cw {
			cell = string(r[:cw-1]) + "…"
		}
		if j > 0 {
			fmt.Fprint(w, "| ")
		}
		padded := cell + strings.Repeat(" ", cw-len([]rune(cell))+1)
		if c != nil {
			c.Fprint(w, padded)
		} else {
			fmt.Fprint(w, padded)
		}
	}
	fmt.Fprintln(w)
}
