// Package cmd contains all CLI commands for the sheetkit binary.
package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/cmd/batch"
	cmdbuild "github.com/klytics/sheetkit/cmd/build"
	"github.com/klytics/sheetkit/cmd/completion"
	cmdconfig "github.com/klytics/sheetkit/cmd/config"
	cmdconvert "github.com/klytics/sheetkit/cmd/convert"
	cmddiff "github.com/klytics/sheetkit/cmd/diff"
	"github.com/klytics/sheetkit/cmd/doctor"
	cmdhistory "github.com/klytics/sheetkit/cmd/history"
	"github.com/klytics/sheetkit/cmd/inspect"
	"github.com/klytics/sheetkit/cmd/org"
	cmdrender "github.com/klytics/sheetkit/cmd/render"
	"github.com/klytics/sheetkit/cmd/scaffold"
	cmdshell "github.com/klytics/sheetkit/cmd/shell"
	"github.com/klytics/sheetkit/cmd/styles"
	"github.com/klytics/sheetkit/cmd/validate"
	"github.com/klytics/sheetkit/cmd/version"
	cmdwatch "github.com/klytics/sheetkit/cmd/watch"
	"github.com/klytics/sheetkit/internal/config"
	"github.com/klytics/sheetkit/internal/logging"
	"github.com/klytics/sheetkit/internal/output"
)

var (
	jsonOutput bool
	verbose    bool
	noColor    bool
)

// NewRootCommand creates and returns the root cobra command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sheetkit",
		Short: "Declarative Excel workbook designs",
		Long: `sheetkit — workbooks as code.

Describe a workbook once in YAML, TOML, or JSON: named styles with
inheritance, sheet settings, data, charts, sparklines, pictures, and shapes.
sheetkit validates the design and renders it into an .xlsx file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("could not load config: %w", err)
			}
			if noColor || !cfg.Output.Color {
				color.NoColor = true
			}

			level := logging.ParseLevel(cfg.Log.Level)
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), logging.New(os.Stderr, level)))
			return nil
		},
	}

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")

	// Register subcommands
	rootCmd.AddCommand(cmdrender.NewCommand())
	rootCmd.AddCommand(validate.NewCommand())
	rootCmd.AddCommand(styles.NewCommand())
	rootCmd.AddCommand(inspect.NewCommand())
	rootCmd.AddCommand(cmddiff.NewCommand())
	rootCmd.AddCommand(cmdconvert.NewCommand())
	rootCmd.AddCommand(scaffold.NewCommand())
	rootCmd.AddCommand(cmdwatch.NewCommand())
	rootCmd.AddCommand(batch.NewCommand())
	rootCmd.AddCommand(cmdbuild.NewCommand())
	rootCmd.AddCommand(cmdhistory.NewCommand())
	rootCmd.AddCommand(cmdshell.NewCommand(NewRootCommand))
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(org.NewCommand())
	rootCmd.AddCommand(doctor.NewCommand())
	rootCmd.AddCommand(completion.NewCommand(rootCmd))
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and handles any returned errors.
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		if jsonOutput {
			name := "sheetkit"
			if c, _, ferr := rootCmd.Find(os.Args[1:]); ferr == nil {
				name = c.CommandPath()
			}
			_ = output.PrintJSONError(name, err, output.ExitCode(err))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(output.ExitCode(err))
	}
}
