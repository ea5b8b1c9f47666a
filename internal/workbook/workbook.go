// Package workbook builds design files into .xlsx workbooks the way every
// sheetkit command does: load the design, layer in the user and org
// configuration, validate, render, and record the run in the history.
package workbook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"

	"github.com/klytics/sheetkit/internal/config"
	"github.com/klytics/sheetkit/internal/document"
	"github.com/klytics/sheetkit/internal/history"
	"github.com/klytics/sheetkit/internal/logging"
	"github.com/klytics/sheetkit/internal/render"
	"github.com/klytics/sheetkit/internal/style"
)

// ErrInvalidDesign is returned when validation finds errors and the build
// was not forced.
var ErrInvalidDesign = errors.New("design has errors")

// InvalidError carries the validation findings of a refused build.
type InvalidError struct {
	Path   string
	Issues []document.Issue
}

func (e *InvalidError) Error() string {
	n := 0
	for _, is := range e.Issues {
		if is.Severity == "error" {
			n++
		}
	}
	return fmt.Sprintf("%s: %d error(s) — run: sheetkit validate %s", e.Path, n, e.Path)
}

func (e *InvalidError) Unwrap() error { return ErrInvalidDesign }

// Builder holds the configuration layers applied to every design.
type Builder struct {
	Config  *config.Config
	Org     *config.OrgConfig
	History *history.Logger
	// Command names the caller in history entries.
	Command string
}

// NewBuilder loads the user and org configuration.
func NewBuilder(command string) (*Builder, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}
	org, err := config.LoadOrgConfig()
	if err != nil {
		return nil, err
	}
	return &Builder{
		Config:  cfg,
		Org:     org,
		History: history.NewLogger(cfg.HistoryPath(), cfg.History.Enabled),
		Command: command,
	}, nil
}

// Options adjust a single build.
type Options struct {
	Output  string
	Culture string
	Force   bool
}

// Load reads the design at path and applies the configuration layers: org
// shared styles fill in styles the design does not define, the configured
// default font fills in unset document defaults, and the culture is chosen
// by the org lock, the design, the user config, then the org.
func (b *Builder) Load(path, culture string) (*document.Document, error) {
	doc, err := document.Load(path)
	if err != nil {
		return nil, err
	}
	if b.Org != nil && b.Org.StylesPath() != "" {
		shared, err := document.Load(b.Org.StylesPath())
		if err != nil {
			return nil, fmt.Errorf("could not load org styles: %w", err)
		}
		doc.Styles.Combine(shared.Styles)
	}
	if cfg := b.Config; cfg != nil && (cfg.Defaults.FontName != "" || cfg.Defaults.FontSize > 0) {
		fallback, err := style.NewNamedCellStyle(document.DefaultStyleName)
		if err != nil {
			return nil, err
		}
		if cfg.Defaults.FontName != "" {
			if err := fallback.Font().SetName(cfg.Defaults.FontName); err != nil {
				return nil, fmt.Errorf("config defaults.font_name: %w", err)
			}
		}
		if cfg.Defaults.FontSize > 0 {
			if err := fallback.Font().SetSize(cfg.Defaults.FontSize); err != nil {
				return nil, fmt.Errorf("config defaults.font_size: %w", err)
			}
		}
		doc.Defaults.Combine(fallback)
	}

	user := ""
	if b.Config != nil {
		user = b.Config.Culture
	}
	if culture == "" {
		culture = b.Org.EffectiveCulture(doc.Culture, user)
	}
	doc.Culture = culture
	return doc, nil
}

// OutputPath returns where the workbook for design is written: explicit,
// else the configured output directory, else next to the design.
func (b *Builder) OutputPath(design, explicit string) string {
	if explicit != "" {
		return explicit
	}
	base := strings.TrimSuffix(filepath.Base(design), filepath.Ext(design)) + ".xlsx"
	if b.Config != nil && b.Config.Output.Dir != "" {
		return filepath.Join(b.Config.Output.Dir, base)
	}
	return filepath.Join(filepath.Dir(design), base)
}

// Build renders the design at path. The returned document is nil only when
// the design could not be loaded.
func (b *Builder) Build(ctx context.Context, path string, opts Options) (*render.Result, *document.Document, error) {
	logger := logging.FromContext(ctx)
	doc, err := b.Load(path, opts.Culture)
	if err != nil {
		return nil, nil, err
	}

	issues := doc.Validate()
	if document.HasErrors(issues) {
		if !opts.Force {
			return nil, doc, &InvalidError{Path: path, Issues: issues}
		}
		logger.Warn("rendering a design with errors", "design", path)
	}

	tag := language.Und
	if doc.Culture != "" {
		t, err := language.Parse(doc.Culture)
		if err != nil {
			return nil, doc, fmt.Errorf("invalid culture %q: %w", doc.Culture, err)
		}
		tag = t
	}

	out := b.OutputPath(path, opts.Output)
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, doc, fmt.Errorf("could not create output directory: %w", err)
		}
	}

	res, err := render.New(render.Options{Logger: logger, Culture: tag}).RenderFile(ctx, doc, out)
	if err != nil {
		return res, doc, err
	}
	_ = b.History.Log(ctx, history.FromResult(b.Command, path, res))
	return res, doc, nil
}
