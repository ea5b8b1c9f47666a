// Package actions provides built-in pipeline action implementations.
package actions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klytics/sheetkit/internal/dataset"
	"github.com/klytics/sheetkit/internal/document"
	"github.com/klytics/sheetkit/internal/formats/xlsx"
	"github.com/klytics/sheetkit/internal/pipeline"
	"github.com/klytics/sheetkit/internal/workbook"
)

// RegisterAll registers all built-in actions with the given executor.
// Actions that write files are skipped in dry-run mode.
func RegisterAll(exec *pipeline.Executor, b *workbook.Builder) {
	exec.RegisterWriteAction("render", RenderAction(b))
	exec.RegisterWriteAction("flatten", FlattenAction)
	exec.RegisterAction("validate", ValidateAction(b))
	exec.RegisterAction("inspect", InspectAction)
	exec.RegisterAction("summarize", SummarizeAction)
}

// RenderAction builds the design named by the step input and returns the
// path of the written workbook.
//
// Options: culture (BCP 47 tag), force ("true" renders despite errors).
func RenderAction(b *workbook.Builder) pipeline.ActionFunc {
	return func(ctx context.Context, step pipeline.Step, input string) (string, error) {
		if input == "" {
			return "", fmt.Errorf("render requires an input design path")
		}
		force, err := boolOption(step, "force")
		if err != nil {
			return "", err
		}
		res, _, err := b.Build(ctx, input, workbook.Options{
			Output:  step.To,
			Culture: step.Options["culture"],
			Force:   force,
		})
		if err != nil {
			return "", err
		}
		if !res.Success {
			return res.OutputPath, fmt.Errorf("%s rendered with %d element error(s)", input, len(res.Errors))
		}
		return res.OutputPath, nil
	}
}

// ValidateAction loads the design named by the step input with the builder's
// configuration layers and fails when it has errors. The output is the
// issue list as JSON.
func ValidateAction(b *workbook.Builder) pipeline.ActionFunc {
	return func(ctx context.Context, step pipeline.Step, input string) (string, error) {
		if input == "" {
			return "", fmt.Errorf("validate requires an input design path")
		}
		doc, err := b.Load(input, step.Options["culture"])
		if err != nil {
			return "", err
		}
		issues := doc.Validate()
		data, err := json.Marshal(issues)
		if err != nil {
			return "", fmt.Errorf("could not serialize issues: %w", err)
		}
		if document.HasErrors(issues) {
			return string(data), &workbook.InvalidError{Path: input, Issues: issues}
		}
		return string(data), nil
	}
}

// InspectAction reads a workbook and returns its sheets as JSON. Option
// styles ("true") includes the formatting of every styled cell.
func InspectAction(ctx context.Context, step pipeline.Step, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("inspect requires an input workbook path")
	}
	styles, err := boolOption(step, "styles")
	if err != nil {
		return "", err
	}
	wb, err := xlsx.ReadFileWith(input, xlsx.ReadOptions{Styles: styles})
	if err != nil {
		return "", err
	}
	if name := step.Options["sheet"]; name != "" {
		s, err := wb.GetSheet(name)
		if err != nil {
			return "", err
		}
		wb = &xlsx.Workbook{Sheets: []xlsx.Sheet{*s}}
	}
	data, err := json.Marshal(wb)
	if err != nil {
		return "", fmt.Errorf("could not serialize workbook: %w", err)
	}
	return string(data), nil
}

// SummarizeAction loads a data file (.csv, .json, or .xlsx) and returns the
// numeric column summaries as JSON.
func SummarizeAction(ctx context.Context, step pipeline.Step, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("summarize requires an input data file")
	}
	t, err := dataset.Load(input, step.Options["sheet"])
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(t.Summarize())
	if err != nil {
		return "", fmt.Errorf("could not serialize summary: %w", err)
	}
	return string(data), nil
}

// FlattenAction copies the cell values of a workbook into a new workbook
// without formatting, charts, or drawings, and returns the new path.
func FlattenAction(ctx context.Context, step pipeline.Step, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("flatten requires an input workbook path")
	}
	out := step.To
	if out == "" {
		out = strings.TrimSuffix(input, filepath.Ext(input)) + "-values.xlsx"
	}
	wb, err := xlsx.ReadFile(input)
	if err != nil {
		return "", err
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("could not create output directory: %w", err)
		}
	}
	if err := xlsx.WriteFile(wb, out); err != nil {
		return "", err
	}
	return out, nil
}

var errBadOption = errors.New("invalid option")

func boolOption(step pipeline.Step, key string) (bool, error) {
	v, ok := step.Options[key]
	if !ok || v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q in step %q", errBadOption, key, v, step.ID)
	}
	return b, nil
}
