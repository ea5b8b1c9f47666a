// Package convert turns rendered workbooks into plain data formats and
// re-encodes design files between YAML, JSON, and TOML.
package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// SupportedConversions lists the target formats for each input format.
var SupportedConversions = map[string][]string{
	"xlsx": {"csv", "json", "md"},
	"yaml": {"json", "toml"},
	"json": {"yaml", "toml"},
	"toml": {"yaml", "json"},
}

// Options tune a conversion.
type Options struct {
	// Sheet selects the worksheet of an .xlsx input; empty means the first.
	Sheet string
}

// Convert converts inputPath to toFmt. The result is returned and, when
// outputPath is set, also written there.
func Convert(inputPath, outputPath, toFmt string, opts Options) (string, error) {
	fromFmt := detectFormat(inputPath)
	if fromFmt == "" {
		return "", fmt.Errorf("could not detect input format from extension: %s", filepath.Ext(inputPath))
	}
	toFmt = strings.ToLower(strings.TrimPrefix(toFmt, "."))
	if toFmt == "yml" {
		toFmt = "yaml"
	}

	supported := SupportedConversions[fromFmt]
	if !slices.Contains(supported, toFmt) {
		return "", fmt.Errorf("unsupported conversion: %s → %s (supported from %s: %v)", fromFmt, toFmt, fromFmt, supported)
	}

	var (
		result string
		err    error
	)
	switch fromFmt {
	case "xlsx":
		switch toFmt {
		case "csv":
			result, err = XlsxToCSV(inputPath, opts.Sheet)
		case "json":
			result, err = XlsxToJSON(inputPath, opts.Sheet)
		case "md":
			result, err = XlsxToMarkdown(inputPath, opts.Sheet)
		}
	default:
		result, err = Design(inputPath, toFmt)
	}
	if err != nil {
		return "", err
	}

	if outputPath != "" {
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(outputPath, []byte(result), 0o644); err != nil {
			return "", fmt.Errorf("could not write %s: %w", outputPath, err)
		}
	}
	return result, nil
}

// OutputName returns the default output file for inputPath converted to
// toFmt, placed in dir.
func OutputName(inputPath, toFmt, dir string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return filepath.Join(dir, base+"."+toFmt)
}

func detectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return "xlsx"
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return ""
	}
}
