// Package diff provides the "sheetkit diff" command for comparing rendered
// workbooks.
package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/formats/xlsx"
	"github.com/klytics/sheetkit/internal/output"
)

// NewCommand returns the diff command.
func NewCommand() *cobra.Command {
	var (
		stats      bool
		valuesOnly bool
	)

	cmd := &cobra.Command{
		Use:   "diff <original.xlsx> <revised.xlsx>",
		Short: "Compare two workbooks cell by cell",
		Long: `Shows the cells whose value or formatting differs between two .xlsx files,
along with added and removed sheets and merges. Useful for checking what a
design change did to the rendered output.

Examples:
  sheetkit diff before.xlsx after.xlsx
  sheetkit diff before.xlsx after.xlsx --stats
  sheetkit diff before.xlsx after.xlsx --values-only`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			for _, p := range args {
				if !strings.HasSuffix(strings.ToLower(p), ".xlsx") {
					return fmt.Errorf("expected an .xlsx file, got %q", p)
				}
			}

			result, err := xlsx.DiffFiles(args[0], args[1])
			if err != nil {
				return output.SystemError(err)
			}
			if valuesOnly {
				result = WithoutStyles(result)
			}

			format := output.FormatText
			if jsonFlag {
				format = output.FormatJSON
			}
			if jsonFlag || stats {
				return output.NewWriterTo(cmd.OutOrStdout(), format).Emit("diff", result, result.Stats()+"\n")
			}
			Print(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&stats, "stats", false, "Show only change counts")
	cmd.Flags().BoolVar(&valuesOnly, "values-only", false, "Ignore formatting changes")

	return cmd
}

// WithoutStyles returns a copy of d without style changes.
func WithoutStyles(d *xlsx.DiffResult) *xlsx.DiffResult {
	out := *d
	out.Changes = nil
	for _, c := range d.Changes {
		if c.Kind == xlsx.ChangeStyle {
			out.Unchanged++
			continue
		}
		out.Changes = append(out.Changes, c)
	}
	return &out
}

// Print writes a colored, sheet-grouped listing of the diff.
func Print(w io.Writer, d *xlsx.DiffResult) {
	dim := color.New(color.FgHiBlack)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	red.Fprintf(w, "--- %s\n", d.Original)
	green.Fprintf(w, "+++ %s\n", d.Revised)

	for _, s := range d.SheetsRemoved {
		red.Fprintf(w, "- sheet %s\n", s)
	}
	for _, s := range d.SheetsAdded {
		green.Fprintf(w, "+ sheet %s\n", s)
	}

	sheet := ""
	for _, c := range d.Changes {
		if c.Sheet != sheet {
			sheet = c.Sheet
			fmt.Fprintln(w)
			cyan.Fprintf(w, "@@ %s @@\n", sheet)
		}
		switch c.Kind {
		case xlsx.ChangeAdded:
			green.Fprintf(w, "+ %-8s %s\n", c.Cell, c.New)
		case xlsx.ChangeRemoved:
			red.Fprintf(w, "- %-8s %s\n", c.Cell, c.Old)
		case xlsx.ChangeValue:
			yellow.Fprintf(w, "~ %-8s %s -> %s\n", c.Cell, c.Old, c.New)
		case xlsx.ChangeStyle:
			dim.Fprintf(w, "* %-8s style %s -> %s\n", c.Cell, orNone(c.Old), orNone(c.New))
		}
	}

	if d.Identical() {
		fmt.Fprintln(w, "\nNo differences.")
		return
	}
	fmt.Fprintf(w, "\n%s\n", d.Stats())
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
