package drawing

import "github.com/klytics/sheetkit/internal/design"

// Size is the rendered size of a drawing in pixels. A zero width or height
// keeps the native size; Scale then applies as a percentage.
type Size struct {
	width  int
	height int
	scale  int
}

// SizeOptions is a partial override of a Size.
type SizeOptions struct {
	Width  *int `json:"width,omitempty" yaml:"width,omitempty"`
	Height *int `json:"height,omitempty" yaml:"height,omitempty"`
	Scale  *int `json:"scale,omitempty" yaml:"scale,omitempty"`
}

var (
	sizeWidth = design.Scalar("width", 0,
		func(s *Size) *int { return &s.width }, func(o *SizeOptions) **int { return &o.Width }, design.AtLeast(0))
	sizeHeight = design.Scalar("height", 0,
		func(s *Size) *int { return &s.height }, func(o *SizeOptions) **int { return &o.Height }, design.AtLeast(0))
	sizeScale = design.Scalar("scale", 100,
		func(s *Size) *int { return &s.scale }, func(o *SizeOptions) **int { return &o.Scale }, design.Range(1, 400))

	sizeSchema = design.NewSchema[Size, SizeOptions]("size", sizeWidth, sizeHeight, sizeScale)
)

func NewSize() *Size { return sizeSchema.New() }

func (s *Size) Width() int { return s.width }
func (s *Size) Height() int { return s.height }
func (s *Size) Scale() int { return s.scale }
func (s *Size) SetWidth(v int) error { return sizeWidth.Set(s, v) }
func (s *Size) SetHeight(v int) error { return sizeHeight.Set(s, v) }
func (s *Size) SetScale(v int) error { return sizeScale.Set(s, v) }

func (s *Size) IsDefault() bool { return sizeSchema.IsDefault(s) }
func (s *Size) Clone() *Size { return sizeSchema.Clone(s) }
func (s *Size) Combine(ref *Size) { sizeSchema.Combine(s, ref) }
func (s *Size) ApplyOptions(o *SizeOptions) error { return sizeSchema.Apply(s, o) }
func (s *Size) MarshalJSON() ([]byte, error) { return sizeSchema.Encode(s) }
func (s *Size) UnmarshalJSON(data []byte) error { return sizeSchema.Decode(s, data) }

// Factors returns the horizontal and vertical scale factors that bring an
// image of native size w×h to the designed size.
func (s *Size) Factors(w, h int) (float64, float64) {
	sx := float64(s.scale) / 100
	sy := sx
	if s.width > 0 && w > 0 {
		sx = float64(s.width) / float64(w)
	}
	if s.height > 0 && h > 0 {
		sy = float64(s.height) / float64(h)
	}
	return sx, sy
}

func (o *SizeOptions) IsDefault() bool { return sizeSchema.OptionsDefault(o) }
func (o *SizeOptions) Clone() *SizeOptions { return sizeSchema.CloneOptions(o) }
func (o *SizeOptions) Validate() error { return sizeSchema.ValidateOptions(o) }

// Offset moves a drawing from the top-left corner of its anchor cell, in pixels.
type Offset struct {
	x int
	y int
}

// OffsetOptions is a partial override of an Offset.
type OffsetOptions struct {
	X *int `json:"x,omitempty" yaml:"x,omitempty"`
	Y *int `json:"y,omitempty" yaml:"y,omitempty"`
}

var (
	offsetX = design.Scalar("x", 0,
		func(f *Offset) *int { return &f.x }, func(o *OffsetOptions) **int { return &o.X }, design.AtLeast(0))
	offsetY = design.Scalar("y", 0,
		func(f *Offset) *int { return &f.y }, func(o *OffsetOptions) **int { return &o.Y }, design.AtLeast(0))

	offsetSchema = design.NewSchema[Offset, OffsetOptions]("offset", offsetX, offsetY)
)

func NewOffset() *Offset { return offsetSchema.New() }

func (f *Offset) X() int { return f.x }
func (f *Offset) Y() int { return f.y }
func (f *Offset) SetX(v int) error { return offsetX.Set(f, v) }
func (f *Offset) SetY(v int) error { return offsetY.Set(f, v) }

func (f *Offset) IsDefault() bool { return offsetSchema.IsDefault(f) }
func (f *Offset) Clone() *Offset { return offsetSchema.Clone(f) }
func (f *Offset) Combine(ref *Offset) { offsetSchema.Combine(f, ref) }
func (f *Offset) ApplyOptions(o *OffsetOptions) error { return offsetSchema.Apply(f, o) }
func (f *Offset) MarshalJSON() ([]byte, error) { return offsetSchema.Encode(f) }
func (f *Offset) UnmarshalJSON(data []byte) error { return offsetSchema.Decode(f, data) }

func (o *OffsetOptions) IsDefault() bool { return offsetSchema.OptionsDefault(o) }
func (o *OffsetOptions) Clone() *OffsetOptions { return offsetSchema.CloneOptions(o) }
func (o *OffsetOptions) Validate() error { return offsetSchema.ValidateOptions(o) }
