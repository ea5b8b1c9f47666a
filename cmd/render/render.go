// Package render provides the "sheetkit render" command.
package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/cmd/validate"
	"github.com/klytics/sheetkit/internal/logging"
	"github.com/klytics/sheetkit/internal/output"
	"github.com/klytics/sheetkit/internal/progress"
	renderpkg "github.com/klytics/sheetkit/internal/render"
	"github.com/klytics/sheetkit/internal/workbook"
)

// NewCommand creates the "render" command.
func NewCommand() *cobra.Command {
	var (
		outPath string
		culture string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "render <design> [design...]",
		Short: "Render designs into .xlsx workbooks",
		Long: `Render one or more design files (.yaml, .toml, .json) into .xlsx workbooks.

Each workbook is written next to its design unless --output or the
output.dir setting says otherwise. Designs with validation errors are
refused unless --force is given; elements that fail to render are reported
and the rest of the workbook is still written.

Example:
  sheetkit render sales.yaml
  sheetkit render sales.yaml -o build/sales-q3.xlsx --culture de-DE
  sheetkit render designs/*.yaml --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath != "" && len(args) > 1 {
				return fmt.Errorf("--output can only be used with a single design")
			}
			jsonOut, _ := cmd.Flags().GetBool("json")
			ctx := cmd.Context()
			logger := logging.FromContext(ctx)

			b, err := workbook.NewBuilder("render")
			if err != nil {
				return err
			}

			opts := workbook.Options{Output: outPath, Culture: culture, Force: force}
			var results []*renderpkg.Result
			failed := 0
			for _, path := range args {
				res, err := renderOne(cmd, b, path, opts, jsonOut)
				if err != nil {
					if len(args) == 1 || ctx.Err() != nil {
						return err
					}
					logger.Error("render failed", "design", path, "err", err)
					failed++
					continue
				}
				results = append(results, res)
				if !res.Success {
					failed++
				}
				if !jsonOut {
					printResult(os.Stdout, path, res)
				}
			}

			if jsonOut {
				if err := output.PrintJSON("render", results); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d design(s) did not render cleanly", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output .xlsx path (single design only)")
	cmd.Flags().StringVar(&culture, "culture", "", "Culture for number and date formats (BCP 47 tag)")
	cmd.Flags().BoolVar(&force, "force", false, "Render even when the design has validation errors")
	return cmd
}

// renderOne builds a single design. Refused designs have their issues
// printed; failures after loading are system errors.
func renderOne(cmd *cobra.Command, b *workbook.Builder, path string, opts workbook.Options, jsonOut bool) (*renderpkg.Result, error) {
	timer := logging.Start(logging.FromContext(cmd.Context()))
	spinner := progress.NewSpinner("Rendering " + path)
	spinner.Enabled = spinner.Enabled && !jsonOut
	spinner.Start()
	res, _, err := b.Build(cmd.Context(), path, opts)
	spinner.Stop("")
	var invalid *workbook.InvalidError
	switch {
	case errors.As(err, &invalid):
		if !jsonOut {
			fmt.Fprintf(os.Stderr, "%s refused:\n", path)
			validate.PrintIssues(os.Stderr, invalid.Issues)
			fmt.Fprintln(os.Stderr, "  Use --force to render anyway.")
		}
		return nil, err
	case err != nil && res != nil:
		return nil, output.SystemError(err)
	case err != nil:
		return nil, err
	}
	timer.Done("rendered " + path)
	return res, nil
}

func printResult(w io.Writer, design string, res *renderpkg.Result) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	var parts []string
	add := func(n int, unit string) {
		if n == 0 {
			return
		}
		if n != 1 {
			unit += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, unit))
	}
	add(res.Sheets, "sheet")
	add(res.Rows, "row")
	add(res.Ranges, "range")
	add(res.Styles, "style")
	add(res.Charts, "chart")
	add(res.MiniCharts, "sparkline group")
	add(res.Pictures, "picture")
	add(res.Shapes, "shape")
	add(res.Fallbacks, "fallback cell")

	icon := green("✓")
	if !res.Success {
		icon = red("✗")
	}
	fmt.Fprintf(w, "%s %s → %s (%s) in %s\n", icon, design, res.OutputPath, strings.Join(parts, ", "), res.Duration.Round(time.Millisecond))
	for _, e := range res.Errors {
		fmt.Fprintf(w, "  %s %s %s: %s\n", red("✗"), e.Sheet, e.Element, e.Message)
	}
}
