// Package build provides the "sheetkit build" command, which runs a build
// manifest of render, validate, inspect, summarize, and flatten steps.
package build

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/output"
	pipelinepkg "github.com/klytics/sheetkit/internal/pipeline"
	"github.com/klytics/sheetkit/internal/pipeline/actions"
	"github.com/klytics/sheetkit/internal/workbook"
)

// DefaultManifest is read when no manifest is named.
const DefaultManifest = "sheetkit.yaml"

// NewCommand returns the build command.
func NewCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "build [manifest.yaml]",
		Short: "Run a multi-step build manifest",
		Long: `Run the steps of a build manifest in order. Steps render designs, validate
them, inspect rendered workbooks, summarize data files, and flatten
workbooks to values. A step can use an earlier step's output:

  name: Monthly reports
  steps:
    - id: sales
      action: render
      input: designs/sales.yaml
      to: out/sales-${{ date.month }}.xlsx
    - id: check
      action: inspect
      input: ${{ steps.sales.output }}

Relative paths resolve against the manifest. With --dry-run, steps that
write files are reported but not run. Reads ` + DefaultManifest + ` when no
manifest is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			verbose, _ := cmd.Flags().GetBool("verbose")

			path := DefaultManifest
			if len(args) == 1 {
				path = args[0]
			}
			p, err := pipelinepkg.LoadPipeline(path)
			if err != nil {
				return err
			}

			b, err := workbook.NewBuilder("build")
			if err != nil {
				return err
			}
			executor := pipelinepkg.NewExecutor()
			executor.SetDryRun(dryRun)
			actions.RegisterAll(executor, b)

			start := time.Now()
			results, execErr := executor.Run(cmd.Context(), p)

			if jsonOut {
				if err := output.PrintJSON("build", results); err != nil {
					return err
				}
				return execErr
			}

			green := color.New(color.FgGreen).SprintFunc()
			yellow := color.New(color.FgYellow).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()
			fmt.Println(output.StyleTitle.Render(p.Name))
			for _, r := range results {
				switch {
				case r.Error != nil:
					fmt.Fprintf(os.Stderr, "  %s %s (%s): %s\n", red("✗"), r.StepID, r.Action, r.Error)
				case r.Skipped:
					fmt.Printf("  %s %s (%s): %s\n", yellow("-"), r.StepID, r.Action, r.Message)
				default:
					fmt.Printf("  %s %s (%s) %s\n", green("✓"), r.StepID, r.Action, output.StyleDim.Render(r.Duration))
					if verbose && r.Output != "" {
						fmt.Printf("      %s\n", truncate(r.Output, 200))
					}
				}
			}
			fmt.Printf("%d step(s) in %s\n", len(results), time.Since(start).Round(time.Millisecond))
			return execErr
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report steps that write files without running them")
	return cmd
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
