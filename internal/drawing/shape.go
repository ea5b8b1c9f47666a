package drawing

import (
	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetkit/internal/design"
	"github.com/klytics/sheetkit/internal/style"
)

// Shape is the design of a preset shape with optional text.
type Shape struct {
	kind      ShapeKind
	text      string
	fill      string
	line      string
	lineWidth float64
	font      *style.Font
	size      *Size
	offset    *Offset
	effects   []*Effect
}

// ShapeOptions is a partial override of a Shape.
type ShapeOptions struct {
	Kind      *ShapeKind         `json:"kind,omitempty" yaml:"kind,omitempty"`
	Text      *string            `json:"text,omitempty" yaml:"text,omitempty"`
	Fill      *string            `json:"fill,omitempty" yaml:"fill,omitempty"`
	Line      *string            `json:"line,omitempty" yaml:"line,omitempty"`
	LineWidth *float64           `json:"line_width,omitempty" yaml:"line_width,omitempty"`
	Font      *style.FontOptions `json:"font,omitempty" yaml:"font,omitempty"`
	Size      *SizeOptions       `json:"size,omitempty" yaml:"size,omitempty"`
	Offset    *OffsetOptions     `json:"offset,omitempty" yaml:"offset,omitempty"`
	Effects   []*EffectOptions   `json:"effects,omitempty" yaml:"effects,omitempty"`
}

// defaultShapeSize is the width and height, in pixels, a shape takes when
// its Size leaves them at zero.
const defaultShapeSize = 160

var (
	shapeKind = design.Scalar("kind", Rectangle,
		func(s *Shape) *ShapeKind { return &s.kind }, func(o *ShapeOptions) **ShapeKind { return &o.Kind },
		design.ValidEnum[ShapeKind])
	shapeText = design.Scalar("text", "",
		func(s *Shape) *string { return &s.text }, func(o *ShapeOptions) **string { return &o.Text })
	shapeFill = design.Scalar("fill", style.Transparent,
		func(s *Shape) *string { return &s.fill }, func(o *ShapeOptions) **string { return &o.Fill }, design.Required)
	shapeLine = design.Scalar("line", "Black",
		func(s *Shape) *string { return &s.line }, func(o *ShapeOptions) **string { return &o.Line }, design.Required)
	shapeLineWidth = design.Scalar("line_width", 0.75,
		func(s *Shape) *float64 { return &s.lineWidth }, func(o *ShapeOptions) **float64 { return &o.LineWidth },
		design.Range(0.0, 1584.0))
	shapeFont = design.Child("font", style.NewFont,
		func(s *Shape) **style.Font { return &s.font }, func(o *ShapeOptions) **style.FontOptions { return &o.Font })
	shapeSize = design.Child("size", NewSize,
		func(s *Shape) **Size { return &s.size }, func(o *ShapeOptions) **SizeOptions { return &o.Size })
	shapeOffset = design.Child("offset", NewOffset,
		func(s *Shape) **Offset { return &s.offset }, func(o *ShapeOptions) **OffsetOptions { return &o.Offset })
	shapeEffects = design.List("effects", NewEffect,
		func(s *Shape) *[]*Effect { return &s.effects }, func(o *ShapeOptions) *[]*EffectOptions { return &o.Effects },
		effectKey, effectOptionKey)

	shapeSchema = design.NewSchema[Shape, ShapeOptions]("shape",
		shapeKind, shapeText, shapeFill, shapeLine, shapeLineWidth, shapeFont, shapeSize, shapeOffset, shapeEffects)
)

// NewShape returns an empty black-outlined rectangle.
func NewShape() *Shape { return shapeSchema.New() }

func (s *Shape) Kind() ShapeKind { return s.kind }
func (s *Shape) Text() string { return s.text }
func (s *Shape) Fill() string { return s.fill }
func (s *Shape) Line() string { return s.line }
func (s *Shape) LineWidth() float64 { return s.lineWidth }
func (s *Shape) Font() *style.Font { return shapeFont.Get(s) }
func (s *Shape) Size() *Size { return shapeSize.Get(s) }
func (s *Shape) Offset() *Offset { return shapeOffset.Get(s) }
func (s *Shape) Effects() []*Effect { return shapeEffects.Items(s) }

func (s *Shape) SetKind(v ShapeKind) error { return shapeKind.Set(s, v) }
func (s *Shape) SetText(v string) error { return shapeText.Set(s, v) }
func (s *Shape) SetFill(v string) error { return shapeFill.Set(s, v) }
func (s *Shape) SetLine(v string) error { return shapeLine.Set(s, v) }
func (s *Shape) SetLineWidth(v float64) error { return shapeLineWidth.Set(s, v) }

// Effect returns the effect of kind k, adding a hidden one if there is none.
func (s *Shape) Effect(k EffectKind) *Effect {
	if e := shapeEffects.Find(s, k.String()); e != nil {
		return e
	}
	e, err := NewEffectOf(k)
	if err != nil {
		design.Fatal("drawing.Shape.Effect", err.Error())
	}
	_ = shapeEffects.Add(s, e)
	return e
}

// VisibleEffects names the effects that are shown.
func (s *Shape) VisibleEffects() []string { return visible(s.effects) }

func (s *Shape) FontSpecified() bool { return !shapeFont.Peek(s).IsDefault() }
func (s *Shape) SizeSpecified() bool { return !shapeSize.Peek(s).IsDefault() }
func (s *Shape) OffsetSpecified() bool { return !shapeOffset.Peek(s).IsDefault() }

func (s *Shape) IsDefault() bool { return shapeSchema.IsDefault(s) }
func (s *Shape) Clone() *Shape { return shapeSchema.Clone(s) }
func (s *Shape) Combine(ref *Shape) { shapeSchema.Combine(s, ref) }
func (s *Shape) ApplyOptions(o *ShapeOptions) error { return shapeSchema.Apply(s, o) }
func (s *Shape) MarshalJSON() ([]byte, error) { return shapeSchema.Encode(s) }
func (s *Shape) UnmarshalJSON(data []byte) error { return shapeSchema.Decode(s, data) }

// ToExcelize converts the shape into an excelize shape anchored at cell.
func (s *Shape) ToExcelize(cell string) (*excelize.Shape, error) {
	size := shapeSize.Peek(s)
	if size == nil {
		size = NewSize()
	}
	offset := shapeOffset.Peek(s)
	if offset == nil {
		offset = NewOffset()
	}
	fill, err := style.ColorHex(s.fill)
	if err != nil {
		return nil, &design.FieldError{Field: "fill", Value: s.fill, Err: err}
	}
	line, err := style.ColorHex(s.line)
	if err != nil {
		return nil, &design.FieldError{Field: "line", Value: s.line, Err: err}
	}
	width := s.lineWidth
	scale := float64(size.scale) / 100
	w, h := size.width, size.height
	if w == 0 {
		w = defaultShapeSize
	}
	if h == 0 {
		h = defaultShapeSize
	}
	out := &excelize.Shape{
		Cell:   cell,
		Type:   s.kind.Preset(),
		Width:  uint(float64(w) * scale),
		Height: uint(float64(h) * scale),
		Format: excelize.GraphicOptions{OffsetX: offset.x, OffsetY: offset.y},
		Line:   excelize.ShapeLine{Color: line, Width: &width},
	}
	if fill != "" {
		out.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}}
	}
	if s.text != "" {
		f := shapeFont.Peek(s)
		if f == nil {
			f = style.NewFont()
		}
		font, err := f.ToFont()
		if err != nil {
			return nil, &design.FieldError{Field: "font.color", Value: f.Color(), Err: err}
		}
		out.Paragraph = []excelize.RichTextRun{{Text: s.text, Font: font}}
	}
	return out, nil
}

func (o *ShapeOptions) IsDefault() bool { return shapeSchema.OptionsDefault(o) }
func (o *ShapeOptions) Clone() *ShapeOptions { return shapeSchema.CloneOptions(o) }
func (o *ShapeOptions) Validate() error { return shapeSchema.ValidateOptions(o) }
