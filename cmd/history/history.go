// Package history provides the "sheetkit history" commands for reviewing
// past renders.
package history

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/config"
	historypkg "github.com/klytics/sheetkit/internal/history"
	"github.com/klytics/sheetkit/internal/output"
)

// NewCommand creates the "history" command with all subcommands.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Review past renders",
		Long: `Every render, watch rebuild, and build step is recorded with its run ID,
design, output, culture, and outcome. Disable with:
  sheetkit config set history.enabled false`,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newClearCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}

func historyPath() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("could not load config: %w", err)
	}
	return cfg.HistoryPath(), nil
}

func newListCmd() *cobra.Command {
	var (
		last   int
		design string
		since  string
		failed bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recent renders",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := historyPath()
			if err != nil {
				return err
			}
			entries, err := historypkg.ReadEntries(path)
			if err != nil {
				return err
			}

			f := historypkg.Filter{Design: design, FailedOnly: failed, Limit: last}
			if since != "" {
				t, err := time.Parse("2006-01-02", since)
				if err != nil {
					return fmt.Errorf("invalid --since date: %w (use YYYY-MM-DD)", err)
				}
				f.Since = t
			}
			filtered := historypkg.FilterEntries(entries, f)

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("history list", filtered)
			}

			if len(filtered) == 0 {
				fmt.Println("No renders recorded.")
				return nil
			}

			fmt.Printf("Render History — %d Entries\n", len(filtered))
			fmt.Printf("File: %s\n\n", path)

			red := color.New(color.FgRed).SprintFunc()
			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "RUN\tTIMESTAMP\tCOMMAND\tDESIGN\tDURATION\tRESULT\n")
			for _, e := range filtered {
				result := "ok"
				if !e.Success {
					result = red(fmt.Sprintf("%d error(s)", e.Errors))
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", shortID(e.RunID),
					e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Command, e.Design,
					formatDuration(e.DurationMs), result)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&last, "last", 20, "Show last N entries")
	cmd.Flags().StringVar(&design, "design", "", "Filter by design path")
	cmd.Flags().StringVar(&since, "since", "", "Filter entries since date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&failed, "failed", false, "Show only renders with errors")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one render by run ID or a unique prefix of it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := historyPath()
			if err != nil {
				return err
			}
			entries, err := historypkg.ReadEntries(path)
			if err != nil {
				return err
			}
			e, err := historypkg.Find(entries, args[0])
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("history show", e)
			}

			fmt.Println(output.StyleTitle.Render("Run " + e.RunID))
			fmt.Println(output.KeyValue("Timestamp", e.Timestamp.Local().Format(time.RFC1123)))
			fmt.Println(output.KeyValue("Machine", e.Machine))
			fmt.Println(output.KeyValue("Command", e.Command))
			fmt.Println(output.KeyValue("Design", e.Design))
			fmt.Println(output.KeyValue("Output", e.Output))
			fmt.Println(output.KeyValue("Culture", e.Culture))
			fmt.Println(output.KeyValue("Sheets", fmt.Sprint(e.Sheets)))
			fmt.Println(output.KeyValue("Errors", fmt.Sprint(e.Errors)))
			fmt.Println(output.KeyValue("Duration", formatDuration(e.DurationMs)))
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the render history",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := historyPath()
			if err != nil {
				return err
			}
			if err := historypkg.Clear(path); err != nil {
				return output.SystemError(err)
			}
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("history clear", map[string]string{"cleared": path})
			}
			fmt.Printf("History cleared: %s\n", path)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show history file path and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := historyPath()
			if err != nil {
				return err
			}
			size := historypkg.LogSize(path)
			entries, _ := historypkg.ReadEntries(path)

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return output.PrintJSON("history status", map[string]any{
					"path":    path,
					"size":    size,
					"entries": len(entries),
				})
			}

			fmt.Printf("History:   %s\n", path)
			if size == 0 {
				fmt.Println("Size:      empty (no entries)")
			} else {
				fmt.Printf("Size:      %s\n", formatSize(size))
			}
			fmt.Printf("Entries:   %d\n", len(entries))
			return nil
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDuration(ms int64) string {
	if ms >= 1000 {
		return fmt.Sprintf("%.1fs", float64(ms)/1000)
	}
	return fmt.Sprintf("%dms", ms)
}

func formatSize(bytes int64) string {
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}
	if bytes < 1024*1024 {
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	}
	return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
}
