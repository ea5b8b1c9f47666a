package chart

import (
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetkit/internal/design"
	"github.com/klytics/sheetkit/internal/style"
)

// Point overrides the look of one data point of a series. Points are keyed
// by their zero-based index in the series.
type Point struct {
	index     int
	color     string
	explosion int

	parent *Series
}

// PointOptions is a partial override of a Point. Index selects the point.
type PointOptions struct {
	Index     *int    `json:"index,omitempty" yaml:"index,omitempty"`
	Color     *string `json:"color,omitempty" yaml:"color,omitempty"`
	Explosion *int    `json:"explosion,omitempty" yaml:"explosion,omitempty"`
}

var (
	pointIndex = design.Scalar("index", 0,
		func(p *Point) *int { return &p.index }, func(o *PointOptions) **int { return &o.Index },
		design.AtLeast(0)).Identity()
	pointColor = design.Scalar("color", "",
		func(p *Point) *string { return &p.color }, func(o *PointOptions) **string { return &o.Color })
	pointExplosion = design.Scalar("explosion", 0,
		func(p *Point) *int { return &p.explosion }, func(o *PointOptions) **int { return &o.Explosion },
		design.Range(0, 100))

	pointSchema = design.NewSchema[Point, PointOptions]("point", pointIndex, pointColor, pointExplosion)
)

func NewPoint() *Point { return pointSchema.New() }

func (p *Point) Index() int { return p.index }
func (p *Point) Color() string { return p.color }
func (p *Point) Explosion() int { return p.explosion }
func (p *Point) SetIndex(v int) error { return pointIndex.Set(p, v) }
func (p *Point) SetColor(v string) error { return pointColor.Set(p, v) }
func (p *Point) SetExplosion(v int) error { return pointExplosion.Set(p, v) }

// Parent returns the series the point belongs to, or nil.
func (p *Point) Parent() *Series { return p.parent }

func (p *Point) IsDefault() bool { return pointSchema.IsDefault(p) }
func (p *Point) Clone() *Point { return pointSchema.Clone(p) }
func (p *Point) Combine(ref *Point) { pointSchema.Combine(p, ref) }
func (p *Point) ApplyOptions(o *PointOptions) error { return pointSchema.Apply(p, o) }
func (p *Point) MarshalJSON() ([]byte, error) { return pointSchema.Encode(p) }
func (p *Point) UnmarshalJSON(data []byte) error { return pointSchema.Decode(p, data) }

func (o *PointOptions) IsDefault() bool { return pointSchema.OptionsDefault(o) }
func (o *PointOptions) Clone() *PointOptions { return pointSchema.CloneOptions(o) }
func (o *PointOptions) Validate() error { return pointSchema.ValidateOptions(o) }

func pointKey(p *Point) string { return strconv.Itoa(p.index) }

func pointOptionKey(o *PointOptions) string {
	if o.Index == nil {
		return ""
	}
	return strconv.Itoa(*o.Index)
}

// Series is one plotted data series. Series are keyed by index within their chart.
type Series struct {
	index      int
	name       string
	categories string
	values     string
	kind       Type
	secondary  design.YesNo
	color      string
	lineWidth  float64
	smooth     design.YesNo
	marker     Marker
	points     []*Point

	parent *Chart
}

// SeriesOptions is a partial override of a Series. Index selects the series.
type SeriesOptions struct {
	Index      *int            `json:"index,omitempty" yaml:"index,omitempty"`
	Name       *string         `json:"name,omitempty" yaml:"name,omitempty"`
	Categories *string         `json:"categories,omitempty" yaml:"categories,omitempty"`
	Values     *string         `json:"values,omitempty" yaml:"values,omitempty"`
	Type       *Type           `json:"type,omitempty" yaml:"type,omitempty"`
	Secondary  *design.YesNo   `json:"secondary,omitempty" yaml:"secondary,omitempty"`
	Color      *string         `json:"color,omitempty" yaml:"color,omitempty"`
	LineWidth  *float64        `json:"line_width,omitempty" yaml:"line_width,omitempty"`
	Smooth     *design.YesNo   `json:"smooth,omitempty" yaml:"smooth,omitempty"`
	Marker     *Marker         `json:"marker,omitempty" yaml:"marker,omitempty"`
	Points     []*PointOptions `json:"points,omitempty" yaml:"points,omitempty"`
}

var (
	seriesIndex = design.Scalar("index", 0,
		func(s *Series) *int { return &s.index }, func(o *SeriesOptions) **int { return &o.Index },
		design.AtLeast(0)).Identity()
	seriesName = design.Scalar("name", "",
		func(s *Series) *string { return &s.name }, func(o *SeriesOptions) **string { return &o.Name })
	seriesCategories = design.Scalar("categories", "",
		func(s *Series) *string { return &s.categories }, func(o *SeriesOptions) **string { return &o.Categories })
	seriesValues = design.Scalar("values", "",
		func(s *Series) *string { return &s.values }, func(o *SeriesOptions) **string { return &o.Values })
	seriesType = design.Scalar("type", Column,
		func(s *Series) *Type { return &s.kind }, func(o *SeriesOptions) **Type { return &o.Type },
		design.ValidEnum[Type])
	seriesSecondary = design.Scalar("secondary", design.No,
		func(s *Series) *design.YesNo { return &s.secondary }, func(o *SeriesOptions) **design.YesNo { return &o.Secondary },
		design.ValidEnum[design.YesNo])
	seriesColor = design.Scalar("color", "",
		func(s *Series) *string { return &s.color }, func(o *SeriesOptions) **string { return &o.Color })
	seriesLineWidth = design.Scalar("line_width", 0.0,
		func(s *Series) *float64 { return &s.lineWidth }, func(o *SeriesOptions) **float64 { return &o.LineWidth },
		design.Range(0.0, 1584.0))
	seriesSmooth = design.Scalar("smooth", design.No,
		func(s *Series) *design.YesNo { return &s.smooth }, func(o *SeriesOptions) **design.YesNo { return &o.Smooth },
		design.ValidEnum[design.YesNo])
	seriesMarker = design.Scalar("marker", MarkerNone,
		func(s *Series) *Marker { return &s.marker }, func(o *SeriesOptions) **Marker { return &o.Marker },
		design.ValidEnum[Marker])
	seriesPoints = design.List("points", NewPoint,
		func(s *Series) *[]*Point { return &s.points }, func(o *SeriesOptions) *[]*PointOptions { return &o.Points },
		pointKey, pointOptionKey).
		Attach(func(s *Series, p *Point) { p.parent = s })

	seriesSchema = design.NewSchema[Series, SeriesOptions]("series",
		seriesIndex, seriesName, seriesCategories, seriesValues, seriesType, seriesSecondary,
		seriesColor, seriesLineWidth, seriesSmooth, seriesMarker, seriesPoints)
)

func NewSeries() *Series { return seriesSchema.New() }

func (s *Series) Index() int { return s.index }
func (s *Series) Name() string { return s.name }
func (s *Series) Categories() string { return s.categories }
func (s *Series) Values() string { return s.values }
func (s *Series) Type() Type { return s.kind }
func (s *Series) Secondary() design.YesNo { return s.secondary }
func (s *Series) Color() string { return s.color }
func (s *Series) LineWidth() float64 { return s.lineWidth }
func (s *Series) Smooth() design.YesNo { return s.smooth }
func (s *Series) Marker() Marker { return s.marker }

func (s *Series) SetIndex(v int) error { return seriesIndex.Set(s, v) }
func (s *Series) SetName(v string) error { return seriesName.Set(s, v) }
func (s *Series) SetCategories(v string) error { return seriesCategories.Set(s, v) }
func (s *Series) SetValues(v string) error { return seriesValues.Set(s, v) }
func (s *Series) SetType(v Type) error { return seriesType.Set(s, v) }
func (s *Series) SetSecondary(v design.YesNo) error { return seriesSecondary.Set(s, v) }
func (s *Series) SetColor(v string) error { return seriesColor.Set(s, v) }
func (s *Series) SetLineWidth(v float64) error { return seriesLineWidth.Set(s, v) }
func (s *Series) SetSmooth(v design.YesNo) error { return seriesSmooth.Set(s, v) }
func (s *Series) SetMarker(v Marker) error { return seriesMarker.Set(s, v) }

// Parent returns the chart the series belongs to, or nil.
func (s *Series) Parent() *Chart { return s.parent }

// Points returns the point overrides in order.
func (s *Series) Points() []*Point { return seriesPoints.Items(s) }

// Point returns the override for the point at index i, adding a default one
// if there is none.
func (s *Series) Point(i int) (*Point, error) {
	if p := seriesPoints.Find(s, strconv.Itoa(i)); p != nil {
		return p, nil
	}
	p := NewPoint()
	if err := p.SetIndex(i); err != nil {
		return nil, err
	}
	if err := seriesPoints.Add(s, p); err != nil {
		return nil, err
	}
	return p, nil
}

// plotType is the series type, or the chart type when the series leaves its
// type at the default.
func (s *Series) plotType() Type {
	if s.parent != nil && !seriesSchema.Specified(s, "type") {
		return s.parent.kind
	}
	return s.kind
}

func (s *Series) PointsSpecified() bool { return seriesSchema.Specified(s, "points") }

func (s *Series) IsDefault() bool { return seriesSchema.IsDefault(s) }
func (s *Series) Clone() *Series { return seriesSchema.Clone(s) }
func (s *Series) Combine(ref *Series) { seriesSchema.Combine(s, ref) }
func (s *Series) ApplyOptions(o *SeriesOptions) error { return seriesSchema.Apply(s, o) }
func (s *Series) MarshalJSON() ([]byte, error) { return seriesSchema.Encode(s) }
func (s *Series) UnmarshalJSON(data []byte) error { return seriesSchema.Decode(s, data) }

// ToExcelize converts the series.
func (s *Series) ToExcelize() (excelize.ChartSeries, error) {
	out := excelize.ChartSeries{
		Name:       s.name,
		Categories: s.categories,
		Values:     s.values,
		Line:       excelize.ChartLine{Smooth: s.smooth.Bool(), Width: s.lineWidth},
	}
	hex, err := style.ColorHex(s.color)
	if err != nil {
		return out, &design.FieldError{Field: "color", Value: s.color, Err: err}
	}
	if hex != "" {
		out.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hex}}
	}
	if k := s.plotType(); k == Line || k == Scatter || k == Radar {
		out.Marker = excelize.ChartMarker{Symbol: markerSymbols[s.marker]}
	}
	return out, nil
}

func (o *SeriesOptions) IsDefault() bool { return seriesSchema.OptionsDefault(o) }
func (o *SeriesOptions) Clone() *SeriesOptions { return seriesSchema.CloneOptions(o) }
func (o *SeriesOptions) Validate() error { return seriesSchema.ValidateOptions(o) }

func seriesKey(s *Series) string { return strconv.Itoa(s.index) }

func seriesOptionKey(o *SeriesOptions) string {
	if o.Index == nil {
		return ""
	}
	return strconv.Itoa(*o.Index)
}
