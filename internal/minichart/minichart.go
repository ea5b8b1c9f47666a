// Package minichart models sparklines: the in-cell line, column and win/loss
// charts of a spreadsheet.
package minichart

import (
	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetkit/internal/design"
	"github.com/klytics/sheetkit/internal/style"
)

// Type is the sparkline kind.
type Type uint8

const (
	Line Type = iota
	Column
	WinLoss
)

var types = design.NewEnum[Type]("Line", "Column", "WinLoss")

var typeNames = [...]string{"line", "column", "win_loss"}

func (t Type) Valid() bool { return types.Valid(t) }
func (t Type) String() string { return types.String(t) }
func (t Type) MarshalText() ([]byte, error) { return types.MarshalText(t) }
func (t *Type) UnmarshalText(b []byte) error { return types.UnmarshalText(t, b) }

// EmptyCells selects how empty source cells are drawn.
type EmptyCells uint8

const (
	EmptyGap EmptyCells = iota
	EmptyZero
	EmptyConnect
)

var emptyCells = design.NewEnum[EmptyCells]("Gap", "Zero", "Connect")

var emptyNames = [...]string{"gap", "zero", "span"}

func (e EmptyCells) Valid() bool { return emptyCells.Valid(e) }
func (e EmptyCells) String() string { return emptyCells.String(e) }
func (e EmptyCells) MarshalText() ([]byte, error) { return emptyCells.MarshalText(e) }
func (e *EmptyCells) UnmarshalText(b []byte) error { return emptyCells.UnmarshalText(e, b) }

// Markers selects which points are highlighted.
type Markers struct {
	show     design.YesNo
	high     design.YesNo
	low      design.YesNo
	first    design.YesNo
	last     design.YesNo
	negative design.YesNo
}

// MarkersOptions is a partial override of a Markers.
type MarkersOptions struct {
	Show     *design.YesNo `json:"show,omitempty" yaml:"show,omitempty"`
	High     *design.YesNo `json:"high,omitempty" yaml:"high,omitempty"`
	Low      *design.YesNo `json:"low,omitempty" yaml:"low,omitempty"`
	First    *design.YesNo `json:"first,omitempty" yaml:"first,omitempty"`
	Last     *design.YesNo `json:"last,omitempty" yaml:"last,omitempty"`
	Negative *design.YesNo `json:"negative,omitempty" yaml:"negative,omitempty"`
}

func flag(name string, node func(*Markers) *design.YesNo, opt func(*MarkersOptions) **design.YesNo) *design.ScalarField[Markers, MarkersOptions, design.YesNo] {
	return design.Scalar(name, design.No, node, opt, design.ValidEnum[design.YesNo])
}

var (
	markersShow = flag("show",
		func(m *Markers) *design.YesNo { return &m.show }, func(o *MarkersOptions) **design.YesNo { return &o.Show })
	markersHigh = flag("high",
		func(m *Markers) *design.YesNo { return &m.high }, func(o *MarkersOptions) **design.YesNo { return &o.High })
	markersLow = flag("low",
		func(m *Markers) *design.YesNo { return &m.low }, func(o *MarkersOptions) **design.YesNo { return &o.Low })
	markersFirst = flag("first",
		func(m *Markers) *design.YesNo { return &m.first }, func(o *MarkersOptions) **design.YesNo { return &o.First })
	markersLast = flag("last",
		func(m *Markers) *design.YesNo { return &m.last }, func(o *MarkersOptions) **design.YesNo { return &o.Last })
	markersNegative = flag("negative",
		func(m *Markers) *design.YesNo { return &m.negative }, func(o *MarkersOptions) **design.YesNo { return &o.Negative })

	markersSchema = design.NewSchema[Markers, MarkersOptions]("markers",
		markersShow, markersHigh, markersLow, markersFirst, markersLast, markersNegative)
)

func NewMarkers() *Markers { return markersSchema.New() }

func (m *Markers) Show() design.YesNo { return m.show }
func (m *Markers) High() design.YesNo { return m.high }
func (m *Markers) Low() design.YesNo { return m.low }
func (m *Markers) First() design.YesNo { return m.first }
func (m *Markers) Last() design.YesNo { return m.last }
func (m *Markers) Negative() design.YesNo { return m.negative }
func (m *Markers) SetShow(v design.YesNo) error { return markersShow.Set(m, v) }
func (m *Markers) SetHigh(v design.YesNo) error { return markersHigh.Set(m, v) }
func (m *Markers) SetLow(v design.YesNo) error { return markersLow.Set(m, v) }
func (m *Markers) SetFirst(v design.YesNo) error { return markersFirst.Set(m, v) }
func (m *Markers) SetLast(v design.YesNo) error { return markersLast.Set(m, v) }
func (m *Markers) SetNegative(v design.YesNo) error { return markersNegative.Set(m, v) }

func (m *Markers) IsDefault() bool { return markersSchema.IsDefault(m) }
func (m *Markers) Clone() *Markers { return markersSchema.Clone(m) }
func (m *Markers) Combine(ref *Markers) { markersSchema.Combine(m, ref) }
func (m *Markers) ApplyOptions(o *MarkersOptions) error { return markersSchema.Apply(m, o) }
func (m *Markers) MarshalJSON() ([]byte, error) { return markersSchema.Encode(m) }
func (m *Markers) UnmarshalJSON(data []byte) error { return markersSchema.Decode(m, data) }

func (o *MarkersOptions) IsDefault() bool { return markersSchema.OptionsDefault(o) }
func (o *MarkersOptions) Clone() *MarkersOptions { return markersSchema.CloneOptions(o) }
func (o *MarkersOptions) Validate() error { return markersSchema.ValidateOptions(o) }

// Colors are the sparkline colors. Empty marker colors leave the choice to
// the spreadsheet application.
type Colors struct {
	series   string
	negative string
	markers  string
	first    string
	last     string
	high     string
	low      string
}

// ColorsOptions is a partial override of a Colors.
type ColorsOptions struct {
	Series   *string `json:"series,omitempty" yaml:"series,omitempty"`
	Negative *string `json:"negative,omitempty" yaml:"negative,omitempty"`
	Markers  *string `json:"markers,omitempty" yaml:"markers,omitempty"`
	First    *string `json:"first,omitempty" yaml:"first,omitempty"`
	Last     *string `json:"last,omitempty" yaml:"last,omitempty"`
	High     *string `json:"high,omitempty" yaml:"high,omitempty"`
	Low      *string `json:"low,omitempty" yaml:"low,omitempty"`
}

var (
	colorsSeries = design.Scalar("series", "#376092",
		func(c *Colors) *string { return &c.series }, func(o *ColorsOptions) **string { return &o.Series }, design.Required)
	colorsNegative = design.Scalar("negative", "#D00000",
		func(c *Colors) *string { return &c.negative }, func(o *ColorsOptions) **string { return &o.Negative }, design.Required)
	colorsMarkers = design.Scalar("markers", "",
		func(c *Colors) *string { return &c.markers }, func(o *ColorsOptions) **string { return &o.Markers })
	colorsFirst = design.Scalar("first", "",
		func(c *Colors) *string { return &c.first }, func(o *ColorsOptions) **string { return &o.First })
	colorsLast = design.Scalar("last", "",
		func(c *Colors) *string { return &c.last }, func(o *ColorsOptions) **string { return &o.Last })
	colorsHigh = design.Scalar("high", "",
		func(c *Colors) *string { return &c.high }, func(o *ColorsOptions) **string { return &o.High })
	colorsLow = design.Scalar("low", "",
		func(c *Colors) *string { return &c.low }, func(o *ColorsOptions) **string { return &o.Low })

	colorsSchema = design.NewSchema[Colors, ColorsOptions]("colors",
		colorsSeries, colorsNegative, colorsMarkers, colorsFirst, colorsLast, colorsHigh, colorsLow)
)

func NewColors() *Colors { return colorsSchema.New() }

func (c *Colors) Series() string { return c.series }
func (c *Colors) Negative() string { return c.negative }
func (c *Colors) Markers() string { return c.markers }
func (c *Colors) First() string { return c.first }
func (c *Colors) Last() string { return c.last }
func (c *Colors) High() string { return c.high }
func (c *Colors) Low() string { return c.low }
func (c *Colors) SetSeries(v string) error { return colorsSeries.Set(c, v) }
func (c *Colors) SetNegative(v string) error { return colorsNegative.Set(c, v) }
func (c *Colors) SetMarkers(v string) error { return colorsMarkers.Set(c, v) }
func (c *Colors) SetFirst(v string) error { return colorsFirst.Set(c, v) }
func (c *Colors) SetLast(v string) error { return colorsLast.Set(c, v) }
func (c *Colors) SetHigh(v string) error { return colorsHigh.Set(c, v) }
func (c *Colors) SetLow(v string) error { return colorsLow.Set(c, v) }

func (c *Colors) IsDefault() bool { return colorsSchema.IsDefault(c) }
func (c *Colors) Clone() *Colors { return colorsSchema.Clone(c) }
func (c *Colors) Combine(ref *Colors) { colorsSchema.Combine(c, ref) }
func (c *Colors) ApplyOptions(o *ColorsOptions) error { return colorsSchema.Apply(c, o) }
func (c *Colors) MarshalJSON() ([]byte, error) { return colorsSchema.Encode(c) }
func (c *Colors) UnmarshalJSON(data []byte) error { return colorsSchema.Decode(c, data) }

// hex resolves every color, naming the first malformed one.
func (c *Colors) hex() (map[string]string, error) {
	out := make(map[string]string, 7)
	for _, kv := range [...]struct{ name, value string }{
		{"series", c.series}, {"negative", c.negative}, {"markers", c.markers},
		{"first", c.first}, {"last", c.last}, {"high", c.high}, {"low", c.low},
	} {
		h, err := style.ColorHex(kv.value)
		if err != nil {
			return nil, &design.FieldError{Field: "colors." + kv.name, Value: kv.value, Err: err}
		}
		out[kv.name] = h
	}
	return out, nil
}

func (o *ColorsOptions) IsDefault() bool { return colorsSchema.OptionsDefault(o) }
func (o *ColorsOptions) Clone() *ColorsOptions { return colorsSchema.CloneOptions(o) }
func (o *ColorsOptions) Validate() error { return colorsSchema.ValidateOptions(o) }

// Axis is the horizontal axis of a sparkline.
type Axis struct {
	show        design.YesNo
	rightToLeft design.YesNo
	date        design.YesNo
}

// AxisOptions is a partial override of an Axis.
type AxisOptions struct {
	Show        *design.YesNo `json:"show,omitempty" yaml:"show,omitempty"`
	RightToLeft *design.YesNo `json:"right_to_left,omitempty" yaml:"right_to_left,omitempty"`
	Date        *design.YesNo `json:"date,omitempty" yaml:"date,omitempty"`
}

var (
	axisShow = design.Scalar("show", design.No,
		func(a *Axis) *design.YesNo { return &a.show }, func(o *AxisOptions) **design.YesNo { return &o.Show },
		design.ValidEnum[design.YesNo])
	axisRightToLeft = design.Scalar("right_to_left", design.No,
		func(a *Axis) *design.YesNo { return &a.rightToLeft }, func(o *AxisOptions) **design.YesNo { return &o.RightToLeft },
		design.ValidEnum[design.YesNo])
	axisDate = design.Scalar("date", design.No,
		func(a *Axis) *design.YesNo { return &a.date }, func(o *AxisOptions) **design.YesNo { return &o.Date },
		design.ValidEnum[design.YesNo])

	axisSchema = design.NewSchema[Axis, AxisOptions]("axis", axisShow, axisRightToLeft, axisDate)
)

func NewAxis() *Axis { return axisSchema.New() }

func (a *Axis) Show() design.YesNo { return a.show }
func (a *Axis) RightToLeft() design.YesNo { return a.rightToLeft }
func (a *Axis) Date() design.YesNo { return a.date }
func (a *Axis) SetShow(v design.YesNo) error { return axisShow.Set(a, v) }
func (a *Axis) SetRightToLeft(v design.YesNo) error { return axisRightToLeft.Set(a, v) }
func (a *Axis) SetDate(v design.YesNo) error { return axisDate.Set(a, v) }

func (a *Axis) IsDefault() bool { return axisSchema.IsDefault(a) }
func (a *Axis) Clone() *Axis { return axisSchema.Clone(a) }
func (a *Axis) Combine(ref *Axis) { axisSchema.Combine(a, ref) }
func (a *Axis) ApplyOptions(o *AxisOptions) error { return axisSchema.Apply(a, o) }
func (a *Axis) MarshalJSON() ([]byte, error) { return axisSchema.Encode(a) }
func (a *Axis) UnmarshalJSON(data []byte) error { return axisSchema.Decode(a, data) }

func (o *AxisOptions) IsDefault() bool { return axisSchema.OptionsDefault(o) }
func (o *AxisOptions) Clone() *AxisOptions { return axisSchema.CloneOptions(o) }
func (o *AxisOptions) Validate() error { return axisSchema.ValidateOptions(o) }

// MiniChart is a sparkline design.
type MiniChart struct {
	kind       Type
	weight     float64
	style      int
	emptyCells EmptyCells
	markers    *Markers
	colors     *Colors
	axis       *Axis
}

// MiniChartOptions is a partial override of a MiniChart.
type MiniChartOptions struct {
	Type       *Type           `json:"type,omitempty" yaml:"type,omitempty"`
	Weight     *float64        `json:"weight,omitempty" yaml:"weight,omitempty"`
	Style      *int            `json:"style,omitempty" yaml:"style,omitempty"`
	EmptyCells *EmptyCells     `json:"empty_cells,omitempty" yaml:"empty_cells,omitempty"`
	Markers    *MarkersOptions `json:"markers,omitempty" yaml:"markers,omitempty"`
	Colors     *ColorsOptions  `json:"colors,omitempty" yaml:"colors,omitempty"`
	Axis       *AxisOptions    `json:"axis,omitempty" yaml:"axis,omitempty"`
}

var (
	miniType = design.Scalar("type", Line,
		func(m *MiniChart) *Type { return &m.kind }, func(o *MiniChartOptions) **Type { return &o.Type },
		design.ValidEnum[Type])
	miniWeight = design.Scalar("weight", 0.75,
		func(m *MiniChart) *float64 { return &m.weight }, func(o *MiniChartOptions) **float64 { return &o.Weight },
		design.Range(0.25, 6.0))
	miniStyle = design.Scalar("style", 0,
		func(m *MiniChart) *int { return &m.style }, func(o *MiniChartOptions) **int { return &o.Style },
		design.Range(0, 35))
	miniEmptyCells = design.Scalar("empty_cells", EmptyGap,
		func(m *MiniChart) *EmptyCells { return &m.emptyCells }, func(o *MiniChartOptions) **EmptyCells { return &o.EmptyCells },
		design.ValidEnum[EmptyCells])
	miniMarkers = design.Child("markers", NewMarkers,
		func(m *MiniChart) **Markers { return &m.markers }, func(o *MiniChartOptions) **MarkersOptions { return &o.Markers })
	miniColors = design.Child("colors", NewColors,
		func(m *MiniChart) **Colors { return &m.colors }, func(o *MiniChartOptions) **ColorsOptions { return &o.Colors })
	miniAxis = design.Child("axis", NewAxis,
		func(m *MiniChart) **Axis { return &m.axis }, func(o *MiniChartOptions) **AxisOptions { return &o.Axis })

	miniSchema = design.NewSchema[MiniChart, MiniChartOptions]("minichart",
		miniType, miniWeight, miniStyle, miniEmptyCells, miniMarkers, miniColors, miniAxis)
)

// New returns a thin line sparkline.
func New() *MiniChart { return miniSchema.New() }

func (m *MiniChart) Type() Type { return m.kind }
func (m *MiniChart) Weight() float64 { return m.weight }
func (m *MiniChart) Style() int { return m.style }
func (m *MiniChart) EmptyCells() EmptyCells { return m.emptyCells }
func (m *MiniChart) Markers() *Markers { return miniMarkers.Get(m) }
func (m *MiniChart) Colors() *Colors { return miniColors.Get(m) }
func (m *MiniChart) Axis() *Axis { return miniAxis.Get(m) }

func (m *MiniChart) SetType(v Type) error { return miniType.Set(m, v) }
func (m *MiniChart) SetWeight(v float64) error { return miniWeight.Set(m, v) }
func (m *MiniChart) SetStyle(v int) error { return miniStyle.Set(m, v) }
func (m *MiniChart) SetEmptyCells(v EmptyCells) error { return miniEmptyCells.Set(m, v) }

func (m *MiniChart) MarkersSpecified() bool { return !miniMarkers.Peek(m).IsDefault() }
func (m *MiniChart) ColorsSpecified() bool { return !miniColors.Peek(m).IsDefault() }
func (m *MiniChart) AxisSpecified() bool { return !miniAxis.Peek(m).IsDefault() }

func (m *MiniChart) IsDefault() bool { return miniSchema.IsDefault(m) }
func (m *MiniChart) Clone() *MiniChart { return miniSchema.Clone(m) }
func (m *MiniChart) Combine(ref *MiniChart) { miniSchema.Combine(m, ref) }
func (m *MiniChart) ApplyOptions(o *MiniChartOptions) error { return miniSchema.Apply(m, o) }
func (m *MiniChart) MarshalJSON() ([]byte, error) { return miniSchema.Encode(m) }
func (m *MiniChart) UnmarshalJSON(data []byte) error { return miniSchema.Decode(m, data) }

// ToExcelize builds sparkline options drawing each range of source into the
// matching cell of location.
func (m *MiniChart) ToExcelize(location, source []string) (*excelize.SparklineOptions, error) {
	markers := miniMarkers.Peek(m)
	if markers == nil {
		markers = NewMarkers()
	}
	colors := miniColors.Peek(m)
	if colors == nil {
		colors = NewColors()
	}
	axis := miniAxis.Peek(m)
	if axis == nil {
		axis = NewAxis()
	}
	hex, err := colors.hex()
	if err != nil {
		return nil, err
	}
	return &excelize.SparklineOptions{
		Location:      location,
		Range:         source,
		Type:          typeNames[m.kind],
		Weight:        m.weight,
		Style:         m.style,
		EmptyCells:    emptyNames[m.emptyCells],
		Markers:       markers.show.Bool(),
		High:          markers.high.Bool(),
		Low:           markers.low.Bool(),
		First:         markers.first.Bool(),
		Last:          markers.last.Bool(),
		Negative:      markers.negative.Bool(),
		Axis:          axis.show.Bool(),
		Reverse:       axis.rightToLeft.Bool(),
		DateAxis:      axis.date.Bool(),
		SeriesColor:   hex["series"],
		NegativeColor: hex["negative"],
		MarkersColor:  hex["markers"],
		FirstColor:    hex["first"],
		LastColor:     hex["last"],
		HightColor:    hex["high"],
		LowColor:      hex["low"],
	}, nil
}

func (o *MiniChartOptions) IsDefault() bool { return miniSchema.OptionsDefault(o) }
func (o *MiniChartOptions) Clone() *MiniChartOptions { return miniSchema.CloneOptions(o) }
func (o *MiniChartOptions) Validate() error { return miniSchema.ValidateOptions(o) }
