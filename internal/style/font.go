package style

import (
	"image/color"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetkit/internal/design"
)

// Font describes the typeface of a cell, a chart title, or a shape's text.
type Font struct {
	name      string
	size      float64
	color     string
	bold      design.YesNo
	italic    design.YesNo
	underline design.YesNo
	strikeout design.YesNo
}

// FontOptions is a partial override of a Font.
type FontOptions struct {
	Name      *string       `json:"name,omitempty" yaml:"name,omitempty"`
	Size      *float64      `json:"size,omitempty" yaml:"size,omitempty"`
	Color     *string       `json:"color,omitempty" yaml:"color,omitempty"`
	Bold      *design.YesNo `json:"bold,omitempty" yaml:"bold,omitempty"`
	Italic    *design.YesNo `json:"italic,omitempty" yaml:"italic,omitempty"`
	Underline *design.YesNo `json:"underline,omitempty" yaml:"underline,omitempty"`
	Strikeout *design.YesNo `json:"strikeout,omitempty" yaml:"strikeout,omitempty"`
}

var (
	fontName = design.Scalar("name", "Calibri",
		func(f *Font) *string { return &f.name }, func(o *FontOptions) **string { return &o.Name }, design.Required)
	fontSize = design.Scalar("size", 11.0,
		func(f *Font) *float64 { return &f.size }, func(o *FontOptions) **float64 { return &o.Size }, design.Range(1.0, 409.0))
	fontColor = design.Scalar("color", "Black",
		func(f *Font) *string { return &f.color }, func(o *FontOptions) **string { return &o.Color }, design.Required)
	fontBold = design.Scalar("bold", design.No,
		func(f *Font) *design.YesNo { return &f.bold }, func(o *FontOptions) **design.YesNo { return &o.Bold }, design.ValidEnum[design.YesNo])
	fontItalic = design.Scalar("italic", design.No,
		func(f *Font) *design.YesNo { return &f.italic }, func(o *FontOptions) **design.YesNo { return &o.Italic }, design.ValidEnum[design.YesNo])
	fontUnderline = design.Scalar("underline", design.No,
		func(f *Font) *design.YesNo { return &f.underline }, func(o *FontOptions) **design.YesNo { return &o.Underline }, design.ValidEnum[design.YesNo])
	fontStrikeout = design.Scalar("strikeout", design.No,
		func(f *Font) *design.YesNo { return &f.strikeout }, func(o *FontOptions) **design.YesNo { return &o.Strikeout }, design.ValidEnum[design.YesNo])

	fontSchema = design.NewSchema[Font, FontOptions]("font",
		fontName, fontSize, fontColor, fontBold, fontItalic, fontUnderline, fontStrikeout)
)

// NewFont returns a Calibri 11pt black font.
func NewFont() *Font { return fontSchema.New() }

func (f *Font) Name() string { return f.name }
func (f *Font) Size() float64 { return f.size }
func (f *Font) Color() string { return f.color }
func (f *Font) Bold() design.YesNo { return f.bold }
func (f *Font) Italic() design.YesNo { return f.italic }
func (f *Font) Underline() design.YesNo { return f.underline }
func (f *Font) Strikeout() design.YesNo { return f.strikeout }
func (f *Font) SetName(v string) error { return fontName.Set(f, v) }
func (f *Font) SetSize(v float64) error { return fontSize.Set(f, v) }
func (f *Font) SetColor(v string) error { return fontColor.Set(f, v) }
func (f *Font) SetBold(v design.YesNo) error { return fontBold.Set(f, v) }
func (f *Font) SetItalic(v design.YesNo) error { return fontItalic.Set(f, v) }
func (f *Font) SetUnderline(v design.YesNo) error { return fontUnderline.Set(f, v) }
func (f *Font) SetStrikeout(v design.YesNo) error { return fontStrikeout.Set(f, v) }

// IsDefault reports whether every field holds its default.
func (f *Font) IsDefault() bool { return fontSchema.IsDefault(f) }

// Clone returns a detached copy.
func (f *Font) Clone() *Font { return fontSchema.Clone(f) }

// Combine fills the fields of f still at their defaults from ref.
func (f *Font) Combine(ref *Font) { fontSchema.Combine(f, ref) }

// ApplyOptions overwrites the fields o sets.
func (f *Font) ApplyOptions(o *FontOptions) error { return fontSchema.Apply(f, o) }

func (f *Font) MarshalJSON() ([]byte, error) { return fontSchema.Encode(f) }
func (f *Font) UnmarshalJSON(data []byte) error { return fontSchema.Decode(f, data) }

// GetColor converts the stored color to RGBA.
func (f *Font) GetColor() (color.NRGBA, error) { return ParseColor(f.color) }

// ToFont converts the font to its excelize form.
func (f *Font) ToFont() (*excelize.Font, error) {
	hex, err := ColorHex(f.color)
	if err != nil {
		return nil, err
	}
	out := &excelize.Font{
		Family: f.name,
		Size:   f.size,
		Color:  hex,
		Bold:   f.bold.Bool(),
		Italic: f.italic.Bool(),
		Strike: f.strikeout.Bool(),
	}
	if f.underline.Bool() {
		out.Underline = "single"
	}
	return out, nil
}

func (o *FontOptions) IsDefault() bool { return fontSchema.OptionsDefault(o) }
func (o *FontOptions) Clone() *FontOptions { return fontSchema.CloneOptions(o) }
func (o *FontOptions) Validate() error { return fontSchema.ValidateOptions(o) }
