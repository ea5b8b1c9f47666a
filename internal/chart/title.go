package chart

import (
	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetkit/internal/design"
	"github.com/klytics/sheetkit/internal/style"
)

// Title is the caption above a chart or beside an axis.
type Title struct {
	text string
	show design.YesNo
	font *style.Font
}

// TitleOptions is a partial override of a Title.
type TitleOptions struct {
	Text *string            `json:"text,omitempty" yaml:"text,omitempty"`
	Show *design.YesNo      `json:"show,omitempty" yaml:"show,omitempty"`
	Font *style.FontOptions `json:"font,omitempty" yaml:"font,omitempty"`
}

var (
	titleText = design.Scalar("text", "",
		func(t *Title) *string { return &t.text }, func(o *TitleOptions) **string { return &o.Text })
	titleShow = design.Scalar("show", design.Yes,
		func(t *Title) *design.YesNo { return &t.show }, func(o *TitleOptions) **design.YesNo { return &o.Show },
		design.ValidEnum[design.YesNo])
	titleFont = design.Child("font", style.NewFont,
		func(t *Title) **style.Font { return &t.font }, func(o *TitleOptions) **style.FontOptions { return &o.Font })

	titleSchema = design.NewSchema[Title, TitleOptions]("title", titleText, titleShow, titleFont)
)

func NewTitle() *Title { return titleSchema.New() }

func (t *Title) Text() string { return t.text }
func (t *Title) Show() design.YesNo { return t.show }
func (t *Title) Font() *style.Font { return titleFont.Get(t) }
func (t *Title) FontSpecified() bool { return !titleFont.Peek(t).IsDefault() }
func (t *Title) SetText(v string) error { return titleText.Set(t, v) }
func (t *Title) SetShow(v design.YesNo) error { return titleShow.Set(t, v) }

func (t *Title) IsDefault() bool { return titleSchema.IsDefault(t) }
func (t *Title) Clone() *Title { return titleSchema.Clone(t) }
func (t *Title) Combine(ref *Title) { titleSchema.Combine(t, ref) }
func (t *Title) ApplyOptions(o *TitleOptions) error { return titleSchema.Apply(t, o) }
func (t *Title) MarshalJSON() ([]byte, error) { return titleSchema.Encode(t) }
func (t *Title) UnmarshalJSON(data []byte) error { return titleSchema.Decode(t, data) }

// runs converts a visible, non-empty title into excelize rich text.
func (t *Title) runs() ([]excelize.RichTextRun, error) {
	if !t.show.Bool() || t.text == "" {
		return nil, nil
	}
	run := excelize.RichTextRun{Text: t.text}
	if f := titleFont.Peek(t); f != nil && !f.IsDefault() {
		font, err := f.ToFont()
		if err != nil {
			return nil, err
		}
		run.Font = font
	}
	return []excelize.RichTextRun{run}, nil
}

func (o *TitleOptions) IsDefault() bool { return titleSchema.OptionsDefault(o) }
func (o *TitleOptions) Clone() *TitleOptions { return titleSchema.CloneOptions(o) }
func (o *TitleOptions) Validate() error { return titleSchema.ValidateOptions(o) }

// Legend is the series key of a chart.
type Legend struct {
	show     design.YesNo
	location LegendLocation
	font     *style.Font
}

// LegendOptions is a partial override of a Legend.
type LegendOptions struct {
	Show     *design.YesNo      `json:"show,omitempty" yaml:"show,omitempty"`
	Location *LegendLocation    `json:"location,omitempty" yaml:"location,omitempty"`
	Font     *style.FontOptions `json:"font,omitempty" yaml:"font,omitempty"`
}

var (
	legendShow = design.Scalar("show", design.Yes,
		func(l *Legend) *design.YesNo { return &l.show }, func(o *LegendOptions) **design.YesNo { return &o.Show },
		design.ValidEnum[design.YesNo])
	legendLocation = design.Scalar("location", LegendRight,
		func(l *Legend) *LegendLocation { return &l.location }, func(o *LegendOptions) **LegendLocation { return &o.Location },
		design.ValidEnum[LegendLocation])
	legendFont = design.Child("font", style.NewFont,
		func(l *Legend) **style.Font { return &l.font }, func(o *LegendOptions) **style.FontOptions { return &o.Font })

	legendSchema = design.NewSchema[Legend, LegendOptions]("legend", legendShow, legendLocation, legendFont)
)

func NewLegend() *Legend { return legendSchema.New() }

func (l *Legend) Show() design.YesNo { return l.show }
func (l *Legend) Location() LegendLocation { return l.location }
func (l *Legend) Font() *style.Font { return legendFont.Get(l) }
func (l *Legend) SetShow(v design.YesNo) error { return legendShow.Set(l, v) }
func (l *Legend) SetLocation(v LegendLocation) error { return legendLocation.Set(l, v) }

func (l *Legend) IsDefault() bool { return legendSchema.IsDefault(l) }
func (l *Legend) Clone() *Legend { return legendSchema.Clone(l) }
func (l *Legend) Combine(ref *Legend) { legendSchema.Combine(l, ref) }
func (l *Legend) ApplyOptions(o *LegendOptions) error { return legendSchema.Apply(l, o) }
func (l *Legend) MarshalJSON() ([]byte, error) { return legendSchema.Encode(l) }
func (l *Legend) UnmarshalJSON(data []byte) error { return legendSchema.Decode(l, data) }

// ToExcelize converts the legend. A hidden legend has position "none".
func (l *Legend) ToExcelize() excelize.ChartLegend {
	if !l.show.Bool() {
		return excelize.ChartLegend{Position: "none"}
	}
	return excelize.ChartLegend{Position: legendPositions[l.location]}
}

func (o *LegendOptions) IsDefault() bool { return legendSchema.OptionsDefault(o) }
func (o *LegendOptions) Clone() *LegendOptions { return legendSchema.CloneOptions(o) }
func (o *LegendOptions) Validate() error { return legendSchema.ValidateOptions(o) }
