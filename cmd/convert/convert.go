// Package convert provides the "sheetkit convert" command.
package convert

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	conv "github.com/klytics/sheetkit/internal/formats/convert"
	"github.com/klytics/sheetkit/internal/logging"
	"github.com/klytics/sheetkit/internal/output"
)

type converted struct {
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`
	Format string `json:"format"`
	Error  string `json:"error,omitempty"`
}

// NewCommand creates the "convert" command.
func NewCommand() *cobra.Command {
	var (
		toFmt  string
		out    string
		sheet  string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "convert <file> --to <format>",
		Short: "Export workbook data or re-encode design files",
		Long: `Convert a rendered workbook to plain data, or a design file to another encoding.

Supported conversions:
  .xlsx               → csv, json, md
  .yaml, .json, .toml → yaml, json, toml

Examples:
  sheetkit convert report.xlsx --to csv --sheet Revenue
  sheetkit convert report.yaml --to toml -o report.toml
  sheetkit convert 'designs/*.yaml' --to json --out-dir ./json/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if toFmt == "" {
				return fmt.Errorf("--to is required (csv, json, md, yaml, toml)")
			}
			jsonOut, _ := cmd.Flags().GetBool("json")
			opts := conv.Options{Sheet: sheet}

			if strings.ContainsAny(args[0], "*?[") {
				results, err := convertAll(cmd, args[0], toFmt, outDir, opts)
				if err != nil {
					return err
				}
				if jsonOut {
					return output.PrintJSON("convert", results)
				}
				return nil
			}

			outPath := out
			if outPath == "" && outDir != "" {
				outPath = conv.OutputName(args[0], toFmt, outDir)
			}
			result, err := conv.Convert(args[0], outPath, toFmt, opts)
			if err != nil {
				return err
			}

			if jsonOut {
				return output.PrintJSON("convert", converted{Input: args[0], Output: outPath, Format: toFmt})
			}
			if outPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Converted: %s → %s\n", args[0], outPath)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&toFmt, "to", "", "Target format (csv, json, md, yaml, toml)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file path")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to export from an .xlsx file")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Output directory for glob conversion")

	return cmd
}

// convertAll converts every match of pattern, logging and skipping failures.
func convertAll(cmd *cobra.Command, pattern, toFmt, outDir string, opts conv.Options) ([]converted, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files matched pattern %q", pattern)
	}
	if outDir == "" {
		outDir = "."
	}

	logger := logging.FromContext(cmd.Context())
	jsonOut, _ := cmd.Flags().GetBool("json")
	results := make([]converted, 0, len(matches))
	for _, in := range matches {
		outPath := conv.OutputName(in, toFmt, outDir)
		r := converted{Input: in, Output: outPath, Format: toFmt}
		if _, err := conv.Convert(in, outPath, toFmt, opts); err != nil {
			logger.Warn("could not convert", "file", in, "err", err)
			r.Output, r.Error = "", err.Error()
		} else if !jsonOut {
			fmt.Fprintf(cmd.OutOrStdout(), "Converted: %s → %s\n", in, outPath)
		}
		results = append(results, r)
	}
	return results, nil
}
