// Package batch provides the "sheetkit batch" command for rendering many
// designs at once.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/output"
	"github.com/klytics/sheetkit/internal/progress"
	"github.com/klytics/sheetkit/internal/workbook"
)

// NewCommand returns the batch command.
func NewCommand() *cobra.Command {
	var (
		outDir      string
		culture     string
		force       bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch <glob-pattern> [glob-pattern...]",
		Short: "Render every design matching a pattern in parallel",
		Long: `Renders all design files matching one or more glob patterns.

A design that fails is reported and the batch continues with the rest.
The command exits non-zero if any design failed.

Examples:
  sheetkit batch 'designs/*.yaml'
  sheetkit batch 'reports/*.toml' --out-dir build --concurrency 8`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			designs, err := expand(args)
			if err != nil {
				return err
			}

			if outDir != "" {
				if err := os.MkdirAll(outDir, 0755); err != nil {
					return output.SystemError(fmt.Errorf("could not create output directory %s: %w", outDir, err))
				}
			}

			b, err := workbook.NewBuilder("batch")
			if err != nil {
				return err
			}

			bar := progress.New("Rendering", len(designs))
			bar.Enabled = bar.Enabled && !jsonFlag
			outcomes := b.BuildAll(cmd.Context(), designs, workbook.BatchOptions{
				Options:     workbook.Options{Culture: culture, Force: force},
				OutDir:      outDir,
				Concurrency: concurrency,
				OnDone: func(o workbook.Outcome) {
					var err error
					if o.Failed() {
						err = fmt.Errorf("%s failed", o.Design)
					}
					bar.Done(filepath.Base(o.Design), err)
				},
			})

			failed := 0
			for i := range outcomes {
				if outcomes[i].Failed() {
					failed++
				}
			}
			bar.Finish(fmt.Sprintf("%d design(s), %d failed", len(designs), failed))

			if jsonFlag {
				if err := output.PrintJSON("batch", outcomes); err != nil {
					return err
				}
			} else {
				printOutcomes(cmd, outcomes)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d design(s) failed", failed, len(designs))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", "", "Write every workbook to this directory")
	cmd.Flags().StringVar(&culture, "culture", "", "Culture for number and date formats (BCP 47 tag)")
	cmd.Flags().BoolVar(&force, "force", false, "Render designs even when they have validation errors")
	cmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "Number of designs rendered at once")

	return cmd
}

// expand resolves the glob patterns into a sorted list of distinct files.
func expand(patterns []string) ([]string, error) {
	var files []string
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", p, err)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no designs matched %v", patterns)
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

func printOutcomes(cmd *cobra.Command, outcomes []workbook.Outcome) {
	w := cmd.OutOrStdout()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	succeeded := 0
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			fmt.Fprintf(w, "%s %s: %v\n", red("✗"), o.Design, o.Err)
		case !o.Result.Success:
			fmt.Fprintf(w, "%s %s → %s (%d element error(s))\n", red("✗"), o.Design, o.Result.OutputPath, len(o.Result.Errors))
		default:
			succeeded++
			fmt.Fprintf(w, "%s %s → %s\n", green("✓"), o.Design, o.Result.OutputPath)
		}
	}
	fmt.Fprintf(w, "\nRendered %d designs. %d succeeded, %d failed.\n", len(outcomes), succeeded, len(outcomes)-succeeded)
}
