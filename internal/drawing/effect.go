package drawing

import (
	"image/color"

	"github.com/klytics/sheetkit/internal/design"
	"github.com/klytics/sheetkit/internal/style"
)

// Effect is one visual effect of a picture or shape, keyed by kind.
type Effect struct {
	kind         EffectKind
	show         design.YesNo
	color        string
	transparency int
	size         float64
	distance     float64
	angle        int
}

// EffectOptions is a partial override of an Effect. Kind selects the effect
// it applies to.
type EffectOptions struct {
	Kind         *EffectKind   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Show         *design.YesNo `json:"show,omitempty" yaml:"show,omitempty"`
	Color        *string       `json:"color,omitempty" yaml:"color,omitempty"`
	Transparency *int          `json:"transparency,omitempty" yaml:"transparency,omitempty"`
	Size         *float64      `json:"size,omitempty" yaml:"size,omitempty"`
	Distance     *float64      `json:"distance,omitempty" yaml:"distance,omitempty"`
	Angle        *int          `json:"angle,omitempty" yaml:"angle,omitempty"`
}

var (
	effectKind = design.Scalar("kind", Shadow,
		func(e *Effect) *EffectKind { return &e.kind }, func(o *EffectOptions) **EffectKind { return &o.Kind },
		design.ValidEnum[EffectKind]).Identity()
	effectShow = design.Scalar("show", design.No,
		func(e *Effect) *design.YesNo { return &e.show }, func(o *EffectOptions) **design.YesNo { return &o.Show },
		design.ValidEnum[design.YesNo])
	effectColor = design.Scalar("color", "Black",
		func(e *Effect) *string { return &e.color }, func(o *EffectOptions) **string { return &o.Color }, design.Required)
	effectTransparency = design.Scalar("transparency", 0,
		func(e *Effect) *int { return &e.transparency }, func(o *EffectOptions) **int { return &o.Transparency },
		design.Range(0, 100))
	effectSize = design.Scalar("size", 0.0,
		func(e *Effect) *float64 { return &e.size }, func(o *EffectOptions) **float64 { return &o.Size }, design.AtLeast(0.0))
	effectDistance = design.Scalar("distance", 0.0,
		func(e *Effect) *float64 { return &e.distance }, func(o *EffectOptions) **float64 { return &o.Distance },
		design.AtLeast(0.0))
	effectAngle = design.Scalar("angle", 0,
		func(e *Effect) *int { return &e.angle }, func(o *EffectOptions) **int { return &o.Angle }, design.Range(0, 359))

	effectSchema = design.NewSchema[Effect, EffectOptions]("effect",
		effectKind, effectShow, effectColor, effectTransparency, effectSize, effectDistance, effectAngle)
)

func NewEffect() *Effect { return effectSchema.New() }

// NewEffectOf returns a hidden effect of kind k.
func NewEffectOf(k EffectKind) (*Effect, error) {
	e := NewEffect()
	if err := e.SetKind(k); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Effect) Kind() EffectKind { return e.kind }
func (e *Effect) Show() design.YesNo { return e.show }
func (e *Effect) Color() string { return e.color }
func (e *Effect) Transparency() int { return e.transparency }
func (e *Effect) Size() float64 { return e.size }
func (e *Effect) Distance() float64 { return e.distance }
func (e *Effect) Angle() int { return e.angle }

// SetKind changes the list key. Do not call it on an effect already held by a drawing.
func (e *Effect) SetKind(v EffectKind) error { return effectKind.Set(e, v) }
func (e *Effect) SetShow(v design.YesNo) error { return effectShow.Set(e, v) }
func (e *Effect) SetColor(v string) error { return effectColor.Set(e, v) }
func (e *Effect) SetTransparency(v int) error { return effectTransparency.Set(e, v) }
func (e *Effect) SetSize(v float64) error { return effectSize.Set(e, v) }
func (e *Effect) SetDistance(v float64) error { return effectDistance.Set(e, v) }
func (e *Effect) SetAngle(v int) error { return effectAngle.Set(e, v) }

func (e *Effect) GetColor() (color.NRGBA, error) { return style.ParseColor(e.color) }

func (e *Effect) IsDefault() bool { return effectSchema.IsDefault(e) }
func (e *Effect) Clone() *Effect { return effectSchema.Clone(e) }
func (e *Effect) Combine(ref *Effect) { effectSchema.Combine(e, ref) }
func (e *Effect) ApplyOptions(o *EffectOptions) error { return effectSchema.Apply(e, o) }
func (e *Effect) MarshalJSON() ([]byte, error) { return effectSchema.Encode(e) }
func (e *Effect) UnmarshalJSON(data []byte) error { return effectSchema.Decode(e, data) }

func (o *EffectOptions) IsDefault() bool { return effectSchema.OptionsDefault(o) }
func (o *EffectOptions) Clone() *EffectOptions { return effectSchema.CloneOptions(o) }
func (o *EffectOptions) Validate() error { return effectSchema.ValidateOptions(o) }

func effectKey(e *Effect) string { return e.kind.String() }

func effectOptionKey(o *EffectOptions) string {
	if o.Kind == nil {
		return ""
	}
	return o.Kind.String()
}

// visible returns the names of the effects that are shown.
func visible(effects []*Effect) []string {
	var out []string
	for _, e := range effects {
		if e.show.Bool() {
			out = append(out, e.kind.String())
		}
	}
	return out
}
