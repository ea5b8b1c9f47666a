package style

import (
	"image/color"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetkit/internal/design"
)

// Border is one edge of a cell's border. Borders of a style are keyed by
// position; the position is part of the border's identity.
type Border struct {
	position BorderPosition
	show     design.YesNo
	color    string
	style    BorderStyle

	parent *CellStyle
}

// BorderOptions is a partial override of a Border. Position selects the edge.
type BorderOptions struct {
	Position *BorderPosition `json:"position,omitempty" yaml:"position,omitempty"`
	Show     *design.YesNo   `json:"show,omitempty" yaml:"show,omitempty"`
	Color    *string         `json:"color,omitempty" yaml:"color,omitempty"`
	Style    *BorderStyle    `json:"style,omitempty" yaml:"style,omitempty"`
}

var (
	borderPosition = design.Scalar("position", Left,
		func(b *Border) *BorderPosition { return &b.position }, func(o *BorderOptions) **BorderPosition { return &o.Position },
		design.ValidEnum[BorderPosition]).Identity()
	borderShow = design.Scalar("show", design.No,
		func(b *Border) *design.YesNo { return &b.show }, func(o *BorderOptions) **design.YesNo { return &o.Show },
		design.ValidEnum[design.YesNo])
	borderColor = design.Scalar("color", "Black",
		func(b *Border) *string { return &b.color }, func(o *BorderOptions) **string { return &o.Color },
		design.Required)
	borderStyle = design.Scalar("style", Thin,
		func(b *Border) *BorderStyle { return &b.style }, func(o *BorderOptions) **BorderStyle { return &o.Style },
		design.ValidEnum[BorderStyle])

	borderSchema = design.NewSchema[Border, BorderOptions]("border",
		borderPosition, borderShow, borderColor, borderStyle)
)

// NewBorder returns a hidden, thin, black left border.
func NewBorder() *Border { return borderSchema.New() }

// NewBorderAt returns a default border for the given edge.
func NewBorderAt(p BorderPosition) (*Border, error) {
	b := NewBorder()
	if err := b.SetPosition(p); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Border) Position() BorderPosition { return b.position }
func (b *Border) Show() design.YesNo { return b.show }
func (b *Border) Color() string { return b.color }
func (b *Border) Style() BorderStyle { return b.style }

// SetPosition changes the edge. It must not be called on a border that
// already belongs to a style.
func (b *Border) SetPosition(v BorderPosition) error { return borderPosition.Set(b, v) }
func (b *Border) SetShow(v design.YesNo) error { return borderShow.Set(b, v) }
func (b *Border) SetColor(v string) error { return borderColor.Set(b, v) }
func (b *Border) SetStyle(v BorderStyle) error { return borderStyle.Set(b, v) }

// Parent returns the style the border belongs to, or nil.
func (b *Border) Parent() *CellStyle { return b.parent }

func (b *Border) IsDefault() bool { return borderSchema.IsDefault(b) }
func (b *Border) Clone() *Border { return borderSchema.Clone(b) }
func (b *Border) Combine(ref *Border) { borderSchema.Combine(b, ref) }
func (b *Border) ApplyOptions(o *BorderOptions) error { return borderSchema.Apply(b, o) }
func (b *Border) MarshalJSON() ([]byte, error) { return borderSchema.Encode(b) }
func (b *Border) UnmarshalJSON(data []byte) error { return borderSchema.Decode(b, data) }

// GetColor converts the stored color to RGBA.
func (b *Border) GetColor() (color.NRGBA, error) { return ParseColor(b.color) }

// ToBorder converts a shown border to its excelize form. ok is false for
// hidden borders.
func (b *Border) ToBorder() (out excelize.Border, ok bool, err error) {
	if !b.show.Bool() {
		return excelize.Border{}, false, nil
	}
	hex, err := ColorHex(b.color)
	if err != nil {
		return excelize.Border{}, false, err
	}
	return excelize.Border{
		Type:  borderTypes[b.position],
		Color: hex,
		Style: borderStyleIndex[b.style],
	}, true, nil
}

func (o *BorderOptions) IsDefault() bool { return borderSchema.OptionsDefault(o) }
func (o *BorderOptions) Clone() *BorderOptions { return borderSchema.CloneOptions(o) }
func (o *BorderOptions) Validate() error { return borderSchema.ValidateOptions(o) }

// borderKey and borderOptionKey key the borders list by position.
func borderKey(b *Border) string { return b.position.String() }

func borderOptionKey(o *BorderOptions) string {
	if o.Position == nil {
		return ""
	}
	return o.Position.String()
}
