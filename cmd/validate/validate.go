// Package validate provides the "sheetkit validate" command.
package validate

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/document"
	"github.com/klytics/sheetkit/internal/output"
	"github.com/klytics/sheetkit/internal/workbook"
)

type report struct {
	Design   string           `json:"design"`
	Valid    bool             `json:"valid"`
	Errors   int              `json:"errors"`
	Warnings int              `json:"warnings"`
	Issues   []document.Issue `json:"issues"`
}

// NewCommand creates the "validate" command.
func NewCommand() *cobra.Command {
	var culture string

	cmd := &cobra.Command{
		Use:   "validate <design> [design...]",
		Short: "Check designs for problems without rendering",
		Long: `Load each design with the user and org configuration applied and report
problems that would break or degrade the rendered workbook: unknown styles,
inherits loops, bad cell references, missing data files and images.

Exits non-zero when any design has errors. Warnings do not fail.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			b, err := workbook.NewBuilder("validate")
			if err != nil {
				return err
			}

			var reports []report
			failed := 0
			for _, path := range args {
				doc, err := b.Load(path, culture)
				if err != nil {
					return err
				}
				r := report{Design: path, Issues: doc.Validate()}
				for _, is := range r.Issues {
					switch is.Severity {
					case "error":
						r.Errors++
					case "warning":
						r.Warnings++
					}
				}
				r.Valid = r.Errors == 0
				if !r.Valid {
					failed++
				}
				reports = append(reports, r)
			}

			if jsonOut {
				if err := output.PrintJSON("validate", reports); err != nil {
					return err
				}
			} else {
				for _, r := range reports {
					printReport(os.Stdout, r)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d design(s) have errors", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&culture, "culture", "", "Validate as if rendering for this culture (BCP 47 tag)")
	return cmd
}

func printReport(w io.Writer, r report) {
	if len(r.Issues) == 0 {
		color.New(color.FgGreen).Fprintf(w, "✓ %s is valid\n", r.Design)
		return
	}
	fmt.Fprintf(w, "%s: %d error(s), %d warning(s)\n", r.Design, r.Errors, r.Warnings)
	PrintIssues(w, r.Issues)
}

// PrintIssues writes one line per issue, errors in red and warnings in
// yellow, each followed by its fix when one is known.
func PrintIssues(w io.Writer, issues []document.Issue) {
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	for _, is := range issues {
		icon := yellow("!")
		if is.Severity == "error" {
			icon = red("✗")
		}
		fmt.Fprintf(w, "  %s %s: %s\n", icon, is.Path, is.Message)
		if is.Fix != "" {
			fmt.Fprintf(w, "     Fix: %s\n", is.Fix)
		}
	}
}
