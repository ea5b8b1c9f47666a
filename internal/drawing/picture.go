// Package drawing models floating drawings anchored to a cell: pictures and
// preset shapes, with their size, offset and visual effects.
package drawing

import (
	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetkit/internal/design"
	"github.com/klytics/sheetkit/internal/style"
)

// Picture is the design of an image placed on a sheet.
type Picture struct {
	path       string
	altText    string
	lockAspect design.YesNo
	print      design.YesNo
	size       *Size
	offset     *Offset
	border     *style.Border
	effects    []*Effect
}

// PictureOptions is a partial override of a Picture.
type PictureOptions struct {
	Path       *string              `json:"path,omitempty" yaml:"path,omitempty"`
	AltText    *string              `json:"alt_text,omitempty" yaml:"alt_text,omitempty"`
	LockAspect *design.YesNo        `json:"lock_aspect,omitempty" yaml:"lock_aspect,omitempty"`
	Print      *design.YesNo        `json:"print,omitempty" yaml:"print,omitempty"`
	Size       *SizeOptions         `json:"size,omitempty" yaml:"size,omitempty"`
	Offset     *OffsetOptions       `json:"offset,omitempty" yaml:"offset,omitempty"`
	Border     *style.BorderOptions `json:"border,omitempty" yaml:"border,omitempty"`
	Effects    []*EffectOptions     `json:"effects,omitempty" yaml:"effects,omitempty"`
}

var (
	picturePath = design.Scalar("path", "",
		func(p *Picture) *string { return &p.path }, func(o *PictureOptions) **string { return &o.Path })
	pictureAltText = design.Scalar("alt_text", "",
		func(p *Picture) *string { return &p.altText }, func(o *PictureOptions) **string { return &o.AltText })
	pictureLockAspect = design.Scalar("lock_aspect", design.Yes,
		func(p *Picture) *design.YesNo { return &p.lockAspect }, func(o *PictureOptions) **design.YesNo { return &o.LockAspect },
		design.ValidEnum[design.YesNo])
	picturePrint = design.Scalar("print", design.Yes,
		func(p *Picture) *design.YesNo { return &p.print }, func(o *PictureOptions) **design.YesNo { return &o.Print },
		design.ValidEnum[design.YesNo])
	pictureSize = design.Child("size", NewSize,
		func(p *Picture) **Size { return &p.size }, func(o *PictureOptions) **SizeOptions { return &o.Size })
	pictureOffset = design.Child("offset", NewOffset,
		func(p *Picture) **Offset { return &p.offset }, func(o *PictureOptions) **OffsetOptions { return &o.Offset })
	pictureBorder = design.Child("border", style.NewBorder,
		func(p *Picture) **style.Border { return &p.border }, func(o *PictureOptions) **style.BorderOptions { return &o.Border })
	pictureEffects = design.List("effects", NewEffect,
		func(p *Picture) *[]*Effect { return &p.effects }, func(o *PictureOptions) *[]*EffectOptions { return &o.Effects },
		effectKey, effectOptionKey)

	pictureSchema = design.NewSchema[Picture, PictureOptions]("picture",
		picturePath, pictureAltText, pictureLockAspect, picturePrint,
		pictureSize, pictureOffset, pictureBorder, pictureEffects)
)

func NewPicture() *Picture { return pictureSchema.New() }

func (p *Picture) Path() string { return p.path }
func (p *Picture) AltText() string { return p.altText }
func (p *Picture) LockAspect() design.YesNo { return p.lockAspect }
func (p *Picture) Print() design.YesNo { return p.print }
func (p *Picture) Size() *Size { return pictureSize.Get(p) }
func (p *Picture) Offset() *Offset { return pictureOffset.Get(p) }
func (p *Picture) Border() *style.Border { return pictureBorder.Get(p) }
func (p *Picture) Effects() []*Effect { return pictureEffects.Items(p) }

func (p *Picture) SetPath(v string) error { return picturePath.Set(p, v) }
func (p *Picture) SetAltText(v string) error { return pictureAltText.Set(p, v) }
func (p *Picture) SetLockAspect(v design.YesNo) error { return pictureLockAspect.Set(p, v) }
func (p *Picture) SetPrint(v design.YesNo) error { return picturePrint.Set(p, v) }

// Effect returns the effect of kind k, adding a hidden one if there is none.
func (p *Picture) Effect(k EffectKind) *Effect {
	if e := pictureEffects.Find(p, k.String()); e != nil {
		return e
	}
	e, err := NewEffectOf(k)
	if err != nil {
		design.Fatal("drawing.Picture.Effect", err.Error())
	}
	_ = pictureEffects.Add(p, e)
	return e
}

// VisibleEffects names the effects that are shown.
func (p *Picture) VisibleEffects() []string { return visible(p.effects) }

func (p *Picture) SizeSpecified() bool { return !pictureSize.Peek(p).IsDefault() }
func (p *Picture) OffsetSpecified() bool { return !pictureOffset.Peek(p).IsDefault() }
func (p *Picture) BorderSpecified() bool { return !pictureBorder.Peek(p).IsDefault() }

func (p *Picture) IsDefault() bool { return pictureSchema.IsDefault(p) }
func (p *Picture) Clone() *Picture { return pictureSchema.Clone(p) }
func (p *Picture) Combine(ref *Picture) { pictureSchema.Combine(p, ref) }
func (p *Picture) ApplyOptions(o *PictureOptions) error { return pictureSchema.Apply(p, o) }
func (p *Picture) MarshalJSON() ([]byte, error) { return pictureSchema.Encode(p) }
func (p *Picture) UnmarshalJSON(data []byte) error { return pictureSchema.Decode(p, data) }

// GraphicOptions converts the picture into excelize graphic options. w and h
// are the native image size in pixels, or zero when unknown.
func (p *Picture) GraphicOptions(w, h int) *excelize.GraphicOptions {
	size := pictureSize.Peek(p)
	if size == nil {
		size = NewSize()
	}
	offset := pictureOffset.Peek(p)
	if offset == nil {
		offset = NewOffset()
	}
	sx, sy := size.Factors(w, h)
	printable := p.print.Bool()
	return &excelize.GraphicOptions{
		AltText:         p.altText,
		PrintObject:     &printable,
		LockAspectRatio: p.lockAspect.Bool(),
		OffsetX:         offset.x,
		OffsetY:         offset.y,
		ScaleX:          sx,
		ScaleY:          sy,
		Positioning:     "oneCell",
	}
}

func (o *PictureOptions) IsDefault() bool { return pictureSchema.OptionsDefault(o) }
func (o *PictureOptions) Clone() *PictureOptions { return pictureSchema.CloneOptions(o) }
func (o *PictureOptions) Validate() error { return pictureSchema.ValidateOptions(o) }
