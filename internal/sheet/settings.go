// Package sheet models per-sheet settings: the on-screen view, frozen panes,
// print setup, and merge rules.
package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetkit/internal/design"
	"github.com/klytics/sheetkit/internal/style"
)

// Settings groups the settings of one sheet.
type Settings struct {
	view         *View
	freeze       *Freeze
	page         *Page
	margins      *Margins
	headerFooter *HeaderFooter
}

// SettingsOptions is a partial override of a Settings.
type SettingsOptions struct {
	View         *ViewOptions         `json:"view,omitempty" yaml:"view,omitempty"`
	Freeze       *FreezeOptions       `json:"freeze,omitempty" yaml:"freeze,omitempty"`
	Page         *PageOptions         `json:"page,omitempty" yaml:"page,omitempty"`
	Margins      *MarginsOptions      `json:"margins,omitempty" yaml:"margins,omitempty"`
	HeaderFooter *HeaderFooterOptions `json:"header_footer,omitempty" yaml:"header_footer,omitempty"`
}

var (
	settingsView = design.Child("view", NewView,
		func(s *Settings) **View { return &s.view }, func(o *SettingsOptions) **ViewOptions { return &o.View })
	settingsFreeze = design.Child("freeze", NewFreeze,
		func(s *Settings) **Freeze { return &s.freeze }, func(o *SettingsOptions) **FreezeOptions { return &o.Freeze })
	settingsPage = design.Child("page", NewPage,
		func(s *Settings) **Page { return &s.page }, func(o *SettingsOptions) **PageOptions { return &o.Page })
	settingsMargins = design.Child("margins", NewMargins,
		func(s *Settings) **Margins { return &s.margins }, func(o *SettingsOptions) **MarginsOptions { return &o.Margins })
	settingsHeaderFooter = design.Child("header_footer", NewHeaderFooter,
		func(s *Settings) **HeaderFooter { return &s.headerFooter },
		func(o *SettingsOptions) **HeaderFooterOptions { return &o.HeaderFooter })

	settingsSchema = design.NewSchema[Settings, SettingsOptions]("settings",
		settingsView, settingsFreeze, settingsPage, settingsMargins, settingsHeaderFooter)
)

func NewSettings() *Settings { return settingsSchema.New() }

func (s *Settings) View() *View { return settingsView.Get(s) }
func (s *Settings) Freeze() *Freeze { return settingsFreeze.Get(s) }
func (s *Settings) Page() *Page { return settingsPage.Get(s) }
func (s *Settings) Margins() *Margins { return settingsMargins.Get(s) }
func (s *Settings) HeaderFooter() *HeaderFooter { return settingsHeaderFooter.Get(s) }

func (s *Settings) ViewSpecified() bool { return !settingsView.Peek(s).IsDefault() }
func (s *Settings) FreezeSpecified() bool { return !settingsFreeze.Peek(s).IsDefault() }
func (s *Settings) PageSpecified() bool { return !settingsPage.Peek(s).IsDefault() }
func (s *Settings) MarginsSpecified() bool { return !settingsMargins.Peek(s).IsDefault() }
func (s *Settings) HeaderFooterSpecified() bool { return !settingsHeaderFooter.Peek(s).IsDefault() }

func (s *Settings) IsDefault() bool { return settingsSchema.IsDefault(s) }
func (s *Settings) Clone() *Settings { return settingsSchema.Clone(s) }
func (s *Settings) Combine(ref *Settings) { settingsSchema.Combine(s, ref) }
func (s *Settings) ApplyOptions(o *SettingsOptions) error { return settingsSchema.Apply(s, o) }
func (s *Settings) MarshalJSON() ([]byte, error) { return settingsSchema.Encode(s) }
func (s *Settings) UnmarshalJSON(data []byte) error { return settingsSchema.Decode(s, data) }

// Apply writes the specified settings to sheet. Parts left at their defaults
// are not written, so excelize keeps its own.
func (s *Settings) Apply(f *excelize.File, sheet string) error {
	if s.ViewSpecified() {
		if err := applyView(f, sheet, s.view); err != nil {
			return fmt.Errorf("could not set view of %q: %w", sheet, err)
		}
	}
	if s.FreezeSpecified() {
		if err := f.SetPanes(sheet, s.freeze.panes()); err != nil {
			return fmt.Errorf("could not freeze panes of %q: %w", sheet, err)
		}
	}
	if s.PageSpecified() {
		p := s.page
		orientation := strings.ToLower(p.orientation.String())
		size := p.paper.Code()
		bw := p.blackAndWhite.Bool()
		opts := &excelize.PageLayoutOptions{Size: &size, Orientation: &orientation, BlackAndWhite: &bw}
		if p.Fits() {
			w, h := p.fitToWidth, p.fitToHeight
			opts.FitToWidth, opts.FitToHeight = &w, &h
			fit := true
			if err := f.SetSheetProps(sheet, &excelize.SheetPropsOptions{FitToPage: &fit}); err != nil {
				return fmt.Errorf("could not fit %q to page: %w", sheet, err)
			}
		}
		if err := f.SetPageLayout(sheet, opts); err != nil {
			return fmt.Errorf("could not set page layout of %q: %w", sheet, err)
		}
	}
	if s.MarginsSpecified() {
		m := s.margins
		opts := &excelize.PageLayoutMarginsOptions{
			Left: &m.left, Right: &m.right, Top: &m.top, Bottom: &m.bottom, Header: &m.header, Footer: &m.footer,
		}
		if err := f.SetPageMargins(sheet, opts); err != nil {
			return fmt.Errorf("could not set margins of %q: %w", sheet, err)
		}
	}
	if s.HeaderFooterSpecified() {
		h := s.headerFooter
		opts := &excelize.HeaderFooterOptions{OddHeader: code(h.header), OddFooter: code(h.footer)}
		if err := f.SetHeaderFooter(sheet, opts); err != nil {
			return fmt.Errorf("could not set header and footer of %q: %w", sheet, err)
		}
	}
	return nil
}

func applyView(f *excelize.File, sheet string, v *View) error {
	zoom := float64(v.zoom)
	grid, headers, rtl, zeros := v.gridLines.Bool(), v.headers.Bool(), v.rightToLeft.Bool(), v.showZeros.Bool()
	opts := &excelize.ViewOptions{
		ZoomScale:         &zoom,
		ShowGridLines:     &grid,
		ShowRowColHeaders: &headers,
		RightToLeft:       &rtl,
		ShowZeros:         &zeros,
	}
	if err := f.SetSheetView(sheet, 0, opts); err != nil {
		return err
	}
	hex, err := style.ColorHex(v.tabColor)
	if err != nil {
		return &design.FieldError{Field: "tab_color", Value: v.tabColor, Err: err}
	}
	if hex == "" {
		return nil
	}
	rgb := strings.TrimPrefix(hex, "#")
	return f.SetSheetProps(sheet, &excelize.SheetPropsOptions{TabColorRGB: &rgb})
}

// panes returns the frozen pane layout; rows and columns at zero unfreeze.
func (f *Freeze) panes() *excelize.Panes {
	if f.rows == 0 && f.columns == 0 {
		return &excelize.Panes{}
	}
	topLeft, _ := excelize.CoordinatesToCellName(f.columns+1, f.rows+1)
	pane := "bottomRight"
	switch {
	case f.columns == 0:
		pane = "bottomLeft"
	case f.rows == 0:
		pane = "topRight"
	}
	return &excelize.Panes{
		Freeze:      true,
		XSplit:      f.columns,
		YSplit:      f.rows,
		TopLeftCell: topLeft,
		ActivePane:  pane,
		Selection:   []excelize.Selection{{SQRef: topLeft, ActiveCell: topLeft, Pane: pane}},
	}
}

func (o *SettingsOptions) IsDefault() bool { return settingsSchema.OptionsDefault(o) }
func (o *SettingsOptions) Clone() *SettingsOptions { return settingsSchema.CloneOptions(o) }
func (o *SettingsOptions) Validate() error { return settingsSchema.ValidateOptions(o) }
