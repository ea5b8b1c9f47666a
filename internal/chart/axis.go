package chart

import (
	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetkit/internal/design"
	"github.com/klytics/sheetkit/internal/style"
)

// Scale bounds the values of an axis. While Auto is Yes the bounds are
// computed by the spreadsheet application.
type Scale struct {
	auto      design.YesNo
	minimum   float64
	maximum   float64
	majorUnit float64
}

// ScaleOptions is a partial override of a Scale.
type ScaleOptions struct {
	Auto      *design.YesNo `json:"auto,omitempty" yaml:"auto,omitempty"`
	Minimum   *float64      `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum   *float64      `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	MajorUnit *float64      `json:"major_unit,omitempty" yaml:"major_unit,omitempty"`
}

var (
	scaleAuto = design.Scalar("auto", design.Yes,
		func(s *Scale) *design.YesNo { return &s.auto }, func(o *ScaleOptions) **design.YesNo { return &o.Auto },
		design.ValidEnum[design.YesNo])
	scaleMinimum = design.Scalar("minimum", 0.0,
		func(s *Scale) *float64 { return &s.minimum }, func(o *ScaleOptions) **float64 { return &o.Minimum })
	scaleMaximum = design.Scalar("maximum", 0.0,
		func(s *Scale) *float64 { return &s.maximum }, func(o *ScaleOptions) **float64 { return &o.Maximum })
	scaleMajorUnit = design.Scalar("major_unit", 0.0,
		func(s *Scale) *float64 { return &s.majorUnit }, func(o *ScaleOptions) **float64 { return &o.MajorUnit },
		design.AtLeast(0.0))

	scaleSchema = design.NewSchema[Scale, ScaleOptions]("scale", scaleAuto, scaleMinimum, scaleMaximum, scaleMajorUnit)
)

func NewScale() *Scale { return scaleSchema.New() }

func (s *Scale) Auto() design.YesNo { return s.auto }
func (s *Scale) Minimum() float64 { return s.minimum }
func (s *Scale) Maximum() float64 { return s.maximum }
func (s *Scale) MajorUnit() float64 { return s.majorUnit }
func (s *Scale) SetAuto(v design.YesNo) error { return scaleAuto.Set(s, v) }
func (s *Scale) SetMinimum(v float64) error { return scaleMinimum.Set(s, v) }
func (s *Scale) SetMaximum(v float64) error { return scaleMaximum.Set(s, v) }
func (s *Scale) SetMajorUnit(v float64) error { return scaleMajorUnit.Set(s, v) }

// SetRange fixes both bounds and turns automatic scaling off.
func (s *Scale) SetRange(lo, hi float64) error {
	return s.ApplyOptions(&ScaleOptions{Auto: ptr(design.No), Minimum: &lo, Maximum: &hi})
}

func (s *Scale) IsDefault() bool { return scaleSchema.IsDefault(s) }
func (s *Scale) Clone() *Scale { return scaleSchema.Clone(s) }
func (s *Scale) Combine(ref *Scale) { scaleSchema.Combine(s, ref) }
func (s *Scale) ApplyOptions(o *ScaleOptions) error { return scaleSchema.Apply(s, o) }
func (s *Scale) MarshalJSON() ([]byte, error) { return scaleSchema.Encode(s) }
func (s *Scale) UnmarshalJSON(data []byte) error { return scaleSchema.Decode(s, data) }

func (o *ScaleOptions) IsDefault() bool { return scaleSchema.OptionsDefault(o) }
func (o *ScaleOptions) Clone() *ScaleOptions { return scaleSchema.CloneOptions(o) }
func (o *ScaleOptions) Validate() error { return scaleSchema.ValidateOptions(o) }

// Axis is one axis of a chart.
type Axis struct {
	show           design.YesNo
	title          string
	majorGridlines design.YesNo
	minorGridlines design.YesNo
	reverse        design.YesNo
	numberFormat   string
	font           *style.Font
	scale          *Scale

	parent *Axes
}

// AxisOptions is a partial override of an Axis.
type AxisOptions struct {
	Show           *design.YesNo      `json:"show,omitempty" yaml:"show,omitempty"`
	Title          *string            `json:"title,omitempty" yaml:"title,omitempty"`
	MajorGridlines *design.YesNo      `json:"major_gridlines,omitempty" yaml:"major_gridlines,omitempty"`
	MinorGridlines *design.YesNo      `json:"minor_gridlines,omitempty" yaml:"minor_gridlines,omitempty"`
	Reverse        *design.YesNo      `json:"reverse,omitempty" yaml:"reverse,omitempty"`
	NumberFormat   *string            `json:"number_format,omitempty" yaml:"number_format,omitempty"`
	Font           *style.FontOptions `json:"font,omitempty" yaml:"font,omitempty"`
	Scale          *ScaleOptions      `json:"scale,omitempty" yaml:"scale,omitempty"`
}

var (
	axisShow = design.Scalar("show", design.Yes,
		func(a *Axis) *design.YesNo { return &a.show }, func(o *AxisOptions) **design.YesNo { return &o.Show },
		design.ValidEnum[design.YesNo])
	axisTitle = design.Scalar("title", "",
		func(a *Axis) *string { return &a.title }, func(o *AxisOptions) **string { return &o.Title })
	axisMajor = design.Scalar("major_gridlines", design.No,
		func(a *Axis) *design.YesNo { return &a.majorGridlines }, func(o *AxisOptions) **design.YesNo { return &o.MajorGridlines },
		design.ValidEnum[design.YesNo])
	axisMinor = design.Scalar("minor_gridlines", design.No,
		func(a *Axis) *design.YesNo { return &a.minorGridlines }, func(o *AxisOptions) **design.YesNo { return &o.MinorGridlines },
		design.ValidEnum[design.YesNo])
	axisReverse = design.Scalar("reverse", design.No,
		func(a *Axis) *design.YesNo { return &a.reverse }, func(o *AxisOptions) **design.YesNo { return &o.Reverse },
		design.ValidEnum[design.YesNo])
	axisNumberFormat = design.Scalar("number_format", "General",
		func(a *Axis) *string { return &a.numberFormat }, func(o *AxisOptions) **string { return &o.NumberFormat },
		design.Required)
	axisFont = design.Child("font", style.NewFont,
		func(a *Axis) **style.Font { return &a.font }, func(o *AxisOptions) **style.FontOptions { return &o.Font })
	axisScale = design.Child("scale", NewScale,
		func(a *Axis) **Scale { return &a.scale }, func(o *AxisOptions) **ScaleOptions { return &o.Scale })

	axisSchema = design.NewSchema[Axis, AxisOptions]("axis",
		axisShow, axisTitle, axisMajor, axisMinor, axisReverse, axisNumberFormat, axisFont, axisScale)
)

func NewAxis() *Axis { return axisSchema.New() }

func (a *Axis) Show() design.YesNo { return a.show }
func (a *Axis) Title() string { return a.title }
func (a *Axis) MajorGridlines() design.YesNo { return a.majorGridlines }
func (a *Axis) MinorGridlines() design.YesNo { return a.minorGridlines }
func (a *Axis) Reverse() design.YesNo { return a.reverse }
func (a *Axis) NumberFormat() string { return a.numberFormat }
func (a *Axis) Font() *style.Font { return axisFont.Get(a) }
func (a *Axis) Scale() *Scale { return axisScale.Get(a) }

func (a *Axis) SetShow(v design.YesNo) error { return axisShow.Set(a, v) }
func (a *Axis) SetTitle(v string) error { return axisTitle.Set(a, v) }
func (a *Axis) SetMajorGridlines(v design.YesNo) error { return axisMajor.Set(a, v) }
func (a *Axis) SetMinorGridlines(v design.YesNo) error { return axisMinor.Set(a, v) }
func (a *Axis) SetReverse(v design.YesNo) error { return axisReverse.Set(a, v) }
func (a *Axis) SetNumberFormat(v string) error { return axisNumberFormat.Set(a, v) }

// Parent returns the axis set the axis belongs to, or nil.
func (a *Axis) Parent() *Axes { return a.parent }

func (a *Axis) IsDefault() bool { return axisSchema.IsDefault(a) }
func (a *Axis) Clone() *Axis { return axisSchema.Clone(a) }
func (a *Axis) Combine(ref *Axis) { axisSchema.Combine(a, ref) }
func (a *Axis) ApplyOptions(o *AxisOptions) error { return axisSchema.Apply(a, o) }
func (a *Axis) MarshalJSON() ([]byte, error) { return axisSchema.Encode(a) }
func (a *Axis) UnmarshalJSON(data []byte) error { return axisSchema.Decode(a, data) }

// ToExcelize converts the axis.
func (a *Axis) ToExcelize() (excelize.ChartAxis, error) {
	out := excelize.ChartAxis{
		None:           !a.show.Bool(),
		MajorGridLines: a.majorGridlines.Bool(),
		MinorGridLines: a.minorGridlines.Bool(),
		ReverseOrder:   a.reverse.Bool(),
	}
	if a.numberFormat != "General" {
		out.NumFmt = excelize.ChartNumFmt{CustomNumFmt: a.numberFormat}
	}
	if a.title != "" {
		out.Title = []excelize.RichTextRun{{Text: a.title}}
	}
	if f := axisFont.Peek(a); f != nil && !f.IsDefault() {
		font, err := f.ToFont()
		if err != nil {
			return out, err
		}
		out.Font = *font
	}
	if s := axisScale.Peek(a); s != nil {
		out.MajorUnit = s.majorUnit
		if !s.auto.Bool() {
			lo, hi := s.minimum, s.maximum
			out.Minimum, out.Maximum = &lo, &hi
		}
	}
	return out, nil
}

func (o *AxisOptions) IsDefault() bool { return axisSchema.OptionsDefault(o) }
func (o *AxisOptions) Clone() *AxisOptions { return axisSchema.CloneOptions(o) }
func (o *AxisOptions) Validate() error { return axisSchema.ValidateOptions(o) }

// Axes holds the axes of a chart.
type Axes struct {
	primaryX   *Axis
	primaryY   *Axis
	secondaryY *Axis
}

// AxesOptions is a partial override of an Axes.
type AxesOptions struct {
	PrimaryX   *AxisOptions `json:"primary_x,omitempty" yaml:"primary_x,omitempty"`
	PrimaryY   *AxisOptions `json:"primary_y,omitempty" yaml:"primary_y,omitempty"`
	SecondaryY *AxisOptions `json:"secondary_y,omitempty" yaml:"secondary_y,omitempty"`
}

func attachAxis(p *Axes, a *Axis) { a.parent = p }

var (
	axesPrimaryX = design.Child("primary_x", NewAxis,
		func(a *Axes) **Axis { return &a.primaryX }, func(o *AxesOptions) **AxisOptions { return &o.PrimaryX }).
		Attach(attachAxis)
	axesPrimaryY = design.Child("primary_y", NewAxis,
		func(a *Axes) **Axis { return &a.primaryY }, func(o *AxesOptions) **AxisOptions { return &o.PrimaryY }).
		Attach(attachAxis)
	axesSecondaryY = design.Child("secondary_y", NewAxis,
		func(a *Axes) **Axis { return &a.secondaryY }, func(o *AxesOptions) **AxisOptions { return &o.SecondaryY }).
		Attach(attachAxis)

	axesSchema = design.NewSchema[Axes, AxesOptions]("axes", axesPrimaryX, axesPrimaryY, axesSecondaryY)
)

func NewAxes() *Axes { return axesSchema.New() }

func (a *Axes) PrimaryX() *Axis { return axesPrimaryX.Get(a) }
func (a *Axes) PrimaryY() *Axis { return axesPrimaryY.Get(a) }
func (a *Axes) SecondaryY() *Axis { return axesSecondaryY.Get(a) }

func (a *Axes) IsDefault() bool { return axesSchema.IsDefault(a) }
func (a *Axes) Clone() *Axes { return axesSchema.Clone(a) }
func (a *Axes) Combine(ref *Axes) { axesSchema.Combine(a, ref) }
func (a *Axes) ApplyOptions(o *AxesOptions) error { return axesSchema.Apply(a, o) }
func (a *Axes) MarshalJSON() ([]byte, error) { return axesSchema.Encode(a) }
func (a *Axes) UnmarshalJSON(data []byte) error { return axesSchema.Decode(a, data) }

func (o *AxesOptions) IsDefault() bool { return axesSchema.OptionsDefault(o) }
func (o *AxesOptions) Clone() *AxesOptions { return axesSchema.CloneOptions(o) }
func (o *AxesOptions) Validate() error { return axesSchema.ValidateOptions(o) }

func orNewAxis(a *Axis) *Axis {
	if a == nil {
		return NewAxis()
	}
	return a
}

func ptr[V any](v V) *V { return &v }
