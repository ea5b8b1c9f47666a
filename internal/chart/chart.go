// Package chart models spreadsheet charts: titles, legends, axes, series and
// per-point overrides, and converts them to excelize charts.
package chart

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetkit/internal/design"
	"github.com/klytics/sheetkit/internal/style"
)

// ErrNoSeries is returned when a chart without series is converted.
var ErrNoSeries = errors.New("chart has no series")

// Size is the chart frame in pixels.
type Size struct {
	width  int
	height int
}

// SizeOptions is a partial override of a Size.
type SizeOptions struct {
	Width  *int `json:"width,omitempty" yaml:"width,omitempty"`
	Height *int `json:"height,omitempty" yaml:"height,omitempty"`
}

var (
	sizeWidth = design.Scalar("width", 480,
		func(s *Size) *int { return &s.width }, func(o *SizeOptions) **int { return &o.Width }, design.AtLeast(1))
	sizeHeight = design.Scalar("height", 290,
		func(s *Size) *int { return &s.height }, func(o *SizeOptions) **int { return &o.Height }, design.AtLeast(1))

	sizeSchema = design.NewSchema[Size, SizeOptions]("size", sizeWidth, sizeHeight)
)

func NewSize() *Size { return sizeSchema.New() }

func (s *Size) Width() int { return s.width }
func (s *Size) Height() int { return s.height }
func (s *Size) SetWidth(v int) error { return sizeWidth.Set(s, v) }
func (s *Size) SetHeight(v int) error { return sizeHeight.Set(s, v) }
func (s *Size) IsDefault() bool { return sizeSchema.IsDefault(s) }
func (s *Size) Clone() *Size { return sizeSchema.Clone(s) }
func (s *Size) Combine(ref *Size) { sizeSchema.Combine(s, ref) }
func (s *Size) ApplyOptions(o *SizeOptions) error { return sizeSchema.Apply(s, o) }
func (s *Size) MarshalJSON() ([]byte, error) { return sizeSchema.Encode(s) }
func (s *Size) UnmarshalJSON(data []byte) error { return sizeSchema.Decode(s, data) }

func (o *SizeOptions) IsDefault() bool { return sizeSchema.OptionsDefault(o) }
func (o *SizeOptions) Clone() *SizeOptions { return sizeSchema.CloneOptions(o) }
func (o *SizeOptions) Validate() error { return sizeSchema.ValidateOptions(o) }

// Chart is a chart design.
type Chart struct {
	name       string
	show       design.YesNo
	kind       Type
	blanks     Blanks
	varyColors design.YesNo
	background string
	title      *Title
	legend     *Legend
	axes       *Axes
	size       *Size
	border     *style.Border
	series     []*Series
}

// ChartOptions is a partial override of a Chart.
type ChartOptions struct {
	Name       *string              `json:"name,omitempty" yaml:"name,omitempty"`
	Show       *design.YesNo        `json:"show,omitempty" yaml:"show,omitempty"`
	Type       *Type                `json:"type,omitempty" yaml:"type,omitempty"`
	Blanks     *Blanks              `json:"blanks,omitempty" yaml:"blanks,omitempty"`
	VaryColors *design.YesNo        `json:"vary_colors,omitempty" yaml:"vary_colors,omitempty"`
	Background *string              `json:"background,omitempty" yaml:"background,omitempty"`
	Title      *TitleOptions        `json:"title,omitempty" yaml:"title,omitempty"`
	Legend     *LegendOptions       `json:"legend,omitempty" yaml:"legend,omitempty"`
	Axes       *AxesOptions         `json:"axes,omitempty" yaml:"axes,omitempty"`
	Size       *SizeOptions         `json:"size,omitempty" yaml:"size,omitempty"`
	Border     *style.BorderOptions `json:"border,omitempty" yaml:"border,omitempty"`
	Series     []*SeriesOptions     `json:"series,omitempty" yaml:"series,omitempty"`
}

var (
	chartName = design.Scalar("name", "",
		func(c *Chart) *string { return &c.name }, func(o *ChartOptions) **string { return &o.Name })
	chartShow = design.Scalar("show", design.Yes,
		func(c *Chart) *design.YesNo { return &c.show }, func(o *ChartOptions) **design.YesNo { return &o.Show },
		design.ValidEnum[design.YesNo])
	chartType = design.Scalar("type", Column,
		func(c *Chart) *Type { return &c.kind }, func(o *ChartOptions) **Type { return &o.Type },
		design.ValidEnum[Type])
	chartBlanks = design.Scalar("blanks", BlanksGap,
		func(c *Chart) *Blanks { return &c.blanks }, func(o *ChartOptions) **Blanks { return &o.Blanks },
		design.ValidEnum[Blanks])
	chartVaryColors = design.Scalar("vary_colors", design.No,
		func(c *Chart) *design.YesNo { return &c.varyColors }, func(o *ChartOptions) **design.YesNo { return &o.VaryColors },
		design.ValidEnum[design.YesNo])
	chartBackground = design.Scalar("background", style.Transparent,
		func(c *Chart) *string { return &c.background }, func(o *ChartOptions) **string { return &o.Background },
		design.Required)
	chartTitle = design.Child("title", NewTitle,
		func(c *Chart) **Title { return &c.title }, func(o *ChartOptions) **TitleOptions { return &o.Title })
	chartLegend = design.Child("legend", NewLegend,
		func(c *Chart) **Legend { return &c.legend }, func(o *ChartOptions) **LegendOptions { return &o.Legend })
	chartAxes = design.Child("axes", NewAxes,
		func(c *Chart) **Axes { return &c.axes }, func(o *ChartOptions) **AxesOptions { return &o.Axes })
	chartSize = design.Child("size", NewSize,
		func(c *Chart) **Size { return &c.size }, func(o *ChartOptions) **SizeOptions { return &o.Size })
	chartBorder = design.Child("border", style.NewBorder,
		func(c *Chart) **style.Border { return &c.border }, func(o *ChartOptions) **style.BorderOptions { return &o.Border })
	chartSeries = design.List("series", NewSeries,
		func(c *Chart) *[]*Series { return &c.series }, func(o *ChartOptions) *[]*SeriesOptions { return &o.Series },
		seriesKey, seriesOptionKey).
		Attach(func(c *Chart, s *Series) { s.parent = c })

	chartSchema = design.NewSchema[Chart, ChartOptions]("chart",
		chartName, chartShow, chartType, chartBlanks, chartVaryColors, chartBackground,
		chartTitle, chartLegend, chartAxes, chartSize, chartBorder, chartSeries)
)

// New returns a visible column chart with no series.
func New() *Chart { return chartSchema.New() }

func (c *Chart) Name() string { return c.name }
func (c *Chart) Show() design.YesNo { return c.show }
func (c *Chart) Type() Type { return c.kind }
func (c *Chart) Blanks() Blanks { return c.blanks }
func (c *Chart) VaryColors() design.YesNo { return c.varyColors }
func (c *Chart) Background() string { return c.background }
func (c *Chart) Title() *Title { return chartTitle.Get(c) }
func (c *Chart) Legend() *Legend { return chartLegend.Get(c) }
func (c *Chart) Axes() *Axes { return chartAxes.Get(c) }
func (c *Chart) Size() *Size { return chartSize.Get(c) }
func (c *Chart) Border() *style.Border { return chartBorder.Get(c) }

func (c *Chart) SetName(v string) error { return chartName.Set(c, v) }
func (c *Chart) SetShow(v design.YesNo) error { return chartShow.Set(c, v) }
func (c *Chart) SetType(v Type) error { return chartType.Set(c, v) }
func (c *Chart) SetBlanks(v Blanks) error { return chartBlanks.Set(c, v) }
func (c *Chart) SetVaryColors(v design.YesNo) error { return chartVaryColors.Set(c, v) }
func (c *Chart) SetBackground(v string) error { return chartBackground.Set(c, v) }

func (c *Chart) TitleSpecified() bool { return !chartTitle.Peek(c).IsDefault() }
func (c *Chart) LegendSpecified() bool { return !chartLegend.Peek(c).IsDefault() }
func (c *Chart) AxesSpecified() bool { return !chartAxes.Peek(c).IsDefault() }
func (c *Chart) BorderSpecified() bool { return !chartBorder.Peek(c).IsDefault() }

// Series returns the series in order.
func (c *Chart) Series() []*Series { return chartSeries.Items(c) }

// AddSeries appends a series plotting values, labelled by categories. The
// series index is the next free index.
func (c *Chart) AddSeries(name, categories, values string) (*Series, error) {
	next := 0
	for _, s := range c.series {
		if s.index >= next {
			next = s.index + 1
		}
	}
	s := NewSeries()
	s.index, s.name, s.categories, s.values, s.kind = next, name, categories, values, c.kind
	if err := chartSeries.Add(c, s); err != nil {
		return nil, err
	}
	return s, nil
}

// RemoveSeries drops the series at index i and reports whether it existed.
func (c *Chart) RemoveSeries(i int) bool { return chartSeries.Remove(c, strconv.Itoa(i)) }

// PointOverrides counts the non-default point overrides of all series.
func (c *Chart) PointOverrides() int {
	n := 0
	for _, s := range c.series {
		for _, p := range s.points {
			if !p.IsDefault() {
				n++
			}
		}
	}
	return n
}

func (c *Chart) IsDefault() bool { return chartSchema.IsDefault(c) }
func (c *Chart) Clone() *Chart { return chartSchema.Clone(c) }
func (c *Chart) Combine(ref *Chart) { chartSchema.Combine(c, ref) }
func (c *Chart) ApplyOptions(o *ChartOptions) error { return chartSchema.Apply(c, o) }
func (c *Chart) MarshalJSON() ([]byte, error) { return chartSchema.Encode(c) }
func (c *Chart) UnmarshalJSON(data []byte) error { return chartSchema.Decode(c, data) }

// borderWidths maps line styles to frame widths in points.
var borderWidths = map[style.BorderStyle]float64{
	style.Hair: 0.25, style.Thin: 0.75, style.Medium: 1.5, style.Thick: 2.25, style.Double: 2.25,
}

// ToExcelize converts the chart. A series whose type is left at its default
// is drawn with the chart's type. Series drawn with another type than the
// chart, or against the secondary axis, are returned as combo charts, one per
// type and axis, in order of first appearance.
func (c *Chart) ToExcelize() (*excelize.Chart, []*excelize.Chart, error) {
	if len(c.series) == 0 {
		return nil, nil, fmt.Errorf("could not convert chart %q: %w", c.name, ErrNoSeries)
	}

	main := &excelize.Chart{
		Type:         c.kind.Excelize(),
		ShowBlanksAs: blanksNames[c.blanks],
		VaryColors:   ptr(c.varyColors.Bool()),
	}
	if l := chartLegend.Peek(c); l != nil {
		main.Legend = l.ToExcelize()
	}

	size := chartSize.Peek(c)
	if size == nil {
		size = NewSize()
	}
	main.Dimension = excelize.ChartDimension{Width: uint(size.width), Height: uint(size.height)}

	if t := chartTitle.Peek(c); t != nil {
		title, err := t.runs()
		if err != nil {
			return nil, nil, &design.FieldError{Field: "title.font", Err: err}
		}
		main.Title = title
	}

	bg, err := style.ColorHex(c.background)
	if err != nil {
		return nil, nil, &design.FieldError{Field: "background", Value: c.background, Err: err}
	}
	if bg != "" {
		main.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{bg}}
	}

	if b := chartBorder.Peek(c); b != nil && !b.IsDefault() {
		if !b.Show().Bool() {
			main.Border = excelize.ChartLine{Type: excelize.ChartLineNone}
		} else {
			w, ok := borderWidths[b.Style()]
			if !ok {
				w = 0.75
			}
			main.Border = excelize.ChartLine{Type: excelize.ChartLineSolid, Width: w}
		}
	}

	axes := chartAxes.Peek(c)
	if axes == nil {
		axes = NewAxes()
	}
	if c.kind.HasAxes() {
		if main.XAxis, err = orNewAxis(axesPrimaryX.Peek(axes)).ToExcelize(); err != nil {
			return nil, nil, &design.FieldError{Field: "axes.primary_x.font", Err: err}
		}
		if main.YAxis, err = orNewAxis(axesPrimaryY.Peek(axes)).ToExcelize(); err != nil {
			return nil, nil, &design.FieldError{Field: "axes.primary_y.font", Err: err}
		}
	}

	type group struct {
		kind      Type
		secondary bool
	}
	var order []group
	combos := make(map[group]*excelize.Chart)

	for _, s := range c.series {
		es, err := s.ToExcelize()
		if err != nil {
			return nil, nil, fmt.Errorf("series %d: %w", s.index, err)
		}
		g := group{kind: s.plotType(), secondary: s.secondary.Bool()}
		if g.kind == c.kind && !g.secondary {
			main.Series = append(main.Series, es)
			continue
		}
		combo, ok := combos[g]
		if !ok {
			combo = &excelize.Chart{Type: g.kind.Excelize()}
			if g.secondary && g.kind.HasAxes() {
				y, err := orNewAxis(axesSecondaryY.Peek(axes)).ToExcelize()
				if err != nil {
					return nil, nil, &design.FieldError{Field: "axes.secondary_y.font", Err: err}
				}
				y.Secondary = true
				combo.YAxis = y
			}
			combos[g] = combo
			order = append(order, g)
		}
		combo.Series = append(combo.Series, es)
	}

	out := make([]*excelize.Chart, 0, len(order))
	for _, g := range order {
		out = append(out, combos[g])
	}
	if len(main.Series) == 0 && len(out) > 0 {
		// excelize needs series on the primary chart; promote the first combo.
		first := out[0]
		main.Type, main.Series = first.Type, first.Series
		if first.YAxis.Secondary {
			main.YAxis = first.YAxis
			main.YAxis.Secondary = false
		}
		out = out[1:]
	}
	return main, out, nil
}

func (o *ChartOptions) IsDefault() bool { return chartSchema.OptionsDefault(o) }
func (o *ChartOptions) Clone() *ChartOptions { return chartSchema.CloneOptions(o) }
func (o *ChartOptions) Validate() error { return chartSchema.ValidateOptions(o) }
