// Package watch provides the "sheetkit watch" command, which re-renders
// designs when they or the files they read change.
package watch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/logging"
	"github.com/klytics/sheetkit/internal/output"
	w "github.com/klytics/sheetkit/internal/watch"
	"github.com/klytics/sheetkit/internal/workbook"
)

// NewCommand creates the "watch" command.
func NewCommand() *cobra.Command {
	var (
		culture  string
		force    bool
		debounce int
	)

	cmd := &cobra.Command{
		Use:   "watch <design> [design...]",
		Short: "Re-render designs whenever they or their data change",
		Long: `Render each design once, then watch it together with the data files and
images it reads. Any change re-renders the affected designs; a design that
starts reading new files has them watched from then on.

Example:
  sheetkit watch sales.yaml budget.toml
  sheetkit watch sales.yaml --debounce 1000`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.FromContext(cmd.Context())

			b, err := workbook.NewBuilder("watch")
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("debounce") && b.Config != nil && b.Config.Watch.DebounceMS > 0 {
				debounce = b.Config.Watch.DebounceMS
			}

			build := func(ctx context.Context, design string) ([]string, error) {
				res, doc, err := b.Build(ctx, design, workbook.Options{Culture: culture, Force: force})
				if doc == nil {
					return nil, err
				}
				if err != nil {
					// Keep watching the design so fixing it triggers a render.
					return doc.Files(), err
				}
				for _, e := range res.Errors {
					logger.Warn("element failed", "sheet", e.Sheet, "element", e.Element, "err", e.Message)
				}
				logger.Info("rendered", "design", design, "output", res.OutputPath,
					"elapsed", res.Duration.Round(time.Millisecond))
				return doc.Files(), nil
			}

			watcher, err := w.New(w.Options{
				Debounce: time.Duration(debounce) * time.Millisecond,
				Logger:   logger,
				Handler:  build,
			})
			if err != nil {
				return output.SystemError(err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			for _, design := range args {
				if _, err := os.Stat(design); err != nil {
					watcher.Close()
					return fmt.Errorf("design not found: %s", design)
				}
				deps, err := build(ctx, design)
				if err != nil {
					logger.Error("render failed", "design", design, "err", err)
				}
				if err := watcher.Add(design, deps); err != nil {
					watcher.Close()
					return output.SystemError(err)
				}
			}

			fmt.Fprintf(os.Stderr, "Watching %d design(s). Press Ctrl+C to stop\n", len(args))
			if err := watcher.Start(ctx); err != nil {
				return output.SystemError(err)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("watch", watcher.Events())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&culture, "culture", "", "Culture for number and date formats (BCP 47 tag)")
	cmd.Flags().BoolVar(&force, "force", false, "Render even when a design has validation errors")
	cmd.Flags().IntVar(&debounce, "debounce", int(w.DefaultDebounce/time.Millisecond), "Debounce interval in milliseconds")
	return cmd
}
