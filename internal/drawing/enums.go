package drawing

import "github.com/klytics/sheetkit/internal/design"

// EffectKind names a visual effect. A drawing holds at most one effect of
// each kind.
type EffectKind uint8

const (
	Shadow EffectKind = iota
	Glow
	SoftEdge
	Reflection
)

var effectKinds = design.NewEnum[EffectKind]("Shadow", "Glow", "SoftEdge", "Reflection")

func (k EffectKind) Valid() bool { return effectKinds.Valid(k) }
func (k EffectKind) String() string { return effectKinds.String(k) }
func (k EffectKind) MarshalText() ([]byte, error) { return effectKinds.MarshalText(k) }
func (k *EffectKind) UnmarshalText(b []byte) error { return effectKinds.UnmarshalText(k, b) }

// EffectKinds returns every effect kind in declaration order.
func EffectKinds() []EffectKind { return []EffectKind{Shadow, Glow, SoftEdge, Reflection} }

// ShapeKind is the preset geometry of a shape.
type ShapeKind uint8

const (
	Rectangle ShapeKind = iota
	RoundRectangle
	Ellipse
	Triangle
	RightTriangle
	Diamond
	Hexagon
	Star
	RightArrow
	LeftArrow
	UpArrow
	DownArrow
	Line
	Callout
	Cloud
)

var shapeKinds = design.NewEnum[ShapeKind]("Rectangle", "RoundRectangle", "Ellipse", "Triangle",
	"RightTriangle", "Diamond", "Hexagon", "Star", "RightArrow", "LeftArrow", "UpArrow", "DownArrow",
	"Line", "Callout", "Cloud")

// presets are the DrawingML preset geometry names.
var presets = [...]string{"rect", "roundRect", "ellipse", "triangle", "rtTriangle", "diamond",
	"hexagon", "star5", "rightArrow", "leftArrow", "upArrow", "downArrow", "line",
	"wedgeRectCallout", "cloud"}

func (k ShapeKind) Valid() bool { return shapeKinds.Valid(k) }
func (k ShapeKind) String() string { return shapeKinds.String(k) }
func (k ShapeKind) MarshalText() ([]byte, error) { return shapeKinds.MarshalText(k) }
func (k *ShapeKind) UnmarshalText(b []byte) error { return shapeKinds.UnmarshalText(k, b) }

// Preset returns the DrawingML geometry name excelize writes.
func (k ShapeKind) Preset() string { return presets[k] }
