package sheet

import "github.com/klytics/sheetkit/internal/design"

// View is how the sheet is shown on screen.
type View struct {
	zoom        int
	gridLines   design.YesNo
	headers     design.YesNo
	rightToLeft design.YesNo
	showZeros   design.YesNo
	tabColor    string
}

// ViewOptions is a partial override of a View.
type ViewOptions struct {
	Zoom        *int          `json:"zoom,omitempty" yaml:"zoom,omitempty"`
	GridLines   *design.YesNo `json:"grid_lines,omitempty" yaml:"grid_lines,omitempty"`
	Headers     *design.YesNo `json:"headers,omitempty" yaml:"headers,omitempty"`
	RightToLeft *design.YesNo `json:"right_to_left,omitempty" yaml:"right_to_left,omitempty"`
	ShowZeros   *design.YesNo `json:"show_zeros,omitempty" yaml:"show_zeros,omitempty"`
	TabColor    *string       `json:"tab_color,omitempty" yaml:"tab_color,omitempty"`
}

var (
	viewZoom = design.Scalar("zoom", 100,
		func(v *View) *int { return &v.zoom }, func(o *ViewOptions) **int { return &o.Zoom }, design.Range(10, 400))
	viewGridLines = design.Scalar("grid_lines", design.Yes,
		func(v *View) *design.YesNo { return &v.gridLines }, func(o *ViewOptions) **design.YesNo { return &o.GridLines },
		design.ValidEnum[design.YesNo])
	viewHeaders = design.Scalar("headers", design.Yes,
		func(v *View) *design.YesNo { return &v.headers }, func(o *ViewOptions) **design.YesNo { return &o.Headers },
		design.ValidEnum[design.YesNo])
	viewRightToLeft = design.Scalar("right_to_left", design.No,
		func(v *View) *design.YesNo { return &v.rightToLeft }, func(o *ViewOptions) **design.YesNo { return &o.RightToLeft },
		design.ValidEnum[design.YesNo])
	viewShowZeros = design.Scalar("show_zeros", design.Yes,
		func(v *View) *design.YesNo { return &v.showZeros }, func(o *ViewOptions) **design.YesNo { return &o.ShowZeros },
		design.ValidEnum[design.YesNo])
	viewTabColor = design.Scalar("tab_color", "",
		func(v *View) *string { return &v.tabColor }, func(o *ViewOptions) **string { return &o.TabColor })

	viewSchema = design.NewSchema[View, ViewOptions]("view",
		viewZoom, viewGridLines, viewHeaders, viewRightToLeft, viewShowZeros, viewTabColor)
)

func NewView() *View { return viewSchema.New() }

func (v *View) Zoom() int { return v.zoom }
func (v *View) GridLines() design.YesNo { return v.gridLines }
func (v *View) Headers() design.YesNo { return v.headers }
func (v *View) RightToLeft() design.YesNo { return v.rightToLeft }
func (v *View) ShowZeros() design.YesNo { return v.showZeros }
func (v *View) TabColor() string { return v.tabColor }
func (v *View) SetZoom(x int) error { return viewZoom.Set(v, x) }
func (v *View) SetGridLines(x design.YesNo) error { return viewGridLines.Set(v, x) }
func (v *View) SetHeaders(x design.YesNo) error { return viewHeaders.Set(v, x) }
func (v *View) SetRightToLeft(x design.YesNo) error { return viewRightToLeft.Set(v, x) }
func (v *View) SetShowZeros(x design.YesNo) error { return viewShowZeros.Set(v, x) }
func (v *View) SetTabColor(x string) error { return viewTabColor.Set(v, x) }

func (v *View) IsDefault() bool { return viewSchema.IsDefault(v) }
func (v *View) Clone() *View { return viewSchema.Clone(v) }
func (v *View) Combine(ref *View) { viewSchema.Combine(v, ref) }
func (v *View) ApplyOptions(o *ViewOptions) error { return viewSchema.Apply(v, o) }
func (v *View) MarshalJSON() ([]byte, error) { return viewSchema.Encode(v) }
func (v *View) UnmarshalJSON(data []byte) error { return viewSchema.Decode(v, data) }

func (o *ViewOptions) IsDefault() bool { return viewSchema.OptionsDefault(o) }
func (o *ViewOptions) Clone() *ViewOptions { return viewSchema.CloneOptions(o) }
func (o *ViewOptions) Validate() error { return viewSchema.ValidateOptions(o) }

// Freeze keeps the top rows and left columns in place while scrolling.
type Freeze struct {
	rows    int
	columns int
}

// FreezeOptions is a partial override of a Freeze.
type FreezeOptions struct {
	Rows    *int `json:"rows,omitempty" yaml:"rows,omitempty"`
	Columns *int `json:"columns,omitempty" yaml:"columns,omitempty"`
}

var (
	freezeRows = design.Scalar("rows", 0,
		func(f *Freeze) *int { return &f.rows }, func(o *FreezeOptions) **int { return &o.Rows }, design.AtLeast(0))
	freezeColumns = design.Scalar("columns", 0,
		func(f *Freeze) *int { return &f.columns }, func(o *FreezeOptions) **int { return &o.Columns }, design.AtLeast(0))

	freezeSchema = design.NewSchema[Freeze, FreezeOptions]("freeze", freezeRows, freezeColumns)
)

func NewFreeze() *Freeze { return freezeSchema.New() }

func (f *Freeze) Rows() int { return f.rows }
func (f *Freeze) Columns() int { return f.columns }
func (f *Freeze) SetRows(v int) error { return freezeRows.Set(f, v) }
func (f *Freeze) SetColumns(v int) error { return freezeColumns.Set(f, v) }

func (f *Freeze) IsDefault() bool { return freezeSchema.IsDefault(f) }
func (f *Freeze) Clone() *Freeze { return freezeSchema.Clone(f) }
func (f *Freeze) Combine(ref *Freeze) { freezeSchema.Combine(f, ref) }
func (f *Freeze) ApplyOptions(o *FreezeOptions) error { return freezeSchema.Apply(f, o) }
func (f *Freeze) MarshalJSON() ([]byte, error) { return freezeSchema.Encode(f) }
func (f *Freeze) UnmarshalJSON(data []byte) error { return freezeSchema.Decode(f, data) }

func (o *FreezeOptions) IsDefault() bool { return freezeSchema.OptionsDefault(o) }
func (o *FreezeOptions) Clone() *FreezeOptions { return freezeSchema.CloneOptions(o) }
func (o *FreezeOptions) Validate() error { return freezeSchema.ValidateOptions(o) }
