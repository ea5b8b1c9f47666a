package chart

import (
	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetkit/internal/design"
)

// Type is the kind of plot a chart or a series draws.
type Type uint8

const (
	Column Type = iota
	ColumnStacked
	ColumnPercentStacked
	Bar
	BarStacked
	BarPercentStacked
	Line
	Area
	AreaStacked
	Pie
	Doughnut
	Scatter
	Radar
)

var types = design.NewEnum[Type]("Column", "ColumnStacked", "ColumnPercentStacked", "Bar", "BarStacked",
	"BarPercentStacked", "Line", "Area", "AreaStacked", "Pie", "Doughnut", "Scatter", "Radar")

var excelizeTypes = [...]excelize.ChartType{
	excelize.Col, excelize.ColStacked, excelize.ColPercentStacked, excelize.Bar, excelize.BarStacked,
	excelize.BarPercentStacked, excelize.Line, excelize.Area, excelize.AreaStacked, excelize.Pie,
	excelize.Doughnut, excelize.Scatter, excelize.Radar,
}

func (t Type) Valid() bool { return types.Valid(t) }
func (t Type) String() string { return types.String(t) }
func (t Type) MarshalText() ([]byte, error) { return types.MarshalText(t) }
func (t *Type) UnmarshalText(b []byte) error { return types.UnmarshalText(t, b) }

// Excelize returns the excelize chart type.
func (t Type) Excelize() excelize.ChartType { return excelizeTypes[t] }

// HasAxes reports whether the type is drawn against category and value axes.
func (t Type) HasAxes() bool { return t != Pie && t != Doughnut }

// LegendLocation places the legend around the plot area.
type LegendLocation uint8

const (
	LegendRight LegendLocation = iota
	LegendLeft
	LegendTop
	LegendBottom
	LegendTopRight
)

var legendLocations = design.NewEnum[LegendLocation]("Right", "Left", "Top", "Bottom", "TopRight")

var legendPositions = [...]string{"right", "left", "top", "bottom", "top_right"}

func (l LegendLocation) Valid() bool { return legendLocations.Valid(l) }
func (l LegendLocation) String() string { return legendLocations.String(l) }
func (l LegendLocation) MarshalText() ([]byte, error) { return legendLocations.MarshalText(l) }
func (l *LegendLocation) UnmarshalText(b []byte) error { return legendLocations.UnmarshalText(l, b) }

// Blanks selects how empty cells are plotted.
type Blanks uint8

const (
	BlanksGap Blanks = iota
	BlanksZero
	BlanksSpan
)

var blanks = design.NewEnum[Blanks]("Gap", "Zero", "Span")

var blanksNames = [...]string{"gap", "zero", "span"}

func (b Blanks) Valid() bool { return blanks.Valid(b) }
func (b Blanks) String() string { return blanks.String(b) }
func (b Blanks) MarshalText() ([]byte, error) { return blanks.MarshalText(b) }
func (b *Blanks) UnmarshalText(p []byte) error { return blanks.UnmarshalText(b, p) }

// Marker is the symbol drawn at each data point of a line or scatter series.
type Marker uint8

const (
	MarkerNone Marker = iota
	MarkerAuto
	MarkerCircle
	MarkerSquare
	MarkerDiamond
	MarkerTriangle
	MarkerX
	MarkerStar
	MarkerDash
	MarkerDot
	MarkerPlus
)

var markers = design.NewEnum[Marker]("None", "Auto", "Circle", "Square", "Diamond", "Triangle", "X", "Star", "Dash", "Dot", "Plus")

var markerSymbols = [...]string{"none", "auto", "circle", "square", "diamond", "triangle", "x", "star", "dash", "dot", "plus"}

func (m Marker) Valid() bool { return markers.Valid(m) }
func (m Marker) String() string { return markers.String(m) }
func (m Marker) MarshalText() ([]byte, error) { return markers.MarshalText(m) }
func (m *Marker) UnmarshalText(b []byte) error { return markers.UnmarshalText(m, b) }
