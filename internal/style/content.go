package style

import (
	"image/color"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetkit/internal/design"
)

// Pattern is a fill pattern drawn over the content color.
type Pattern struct {
	kind  PatternKind
	color string
}

// PatternOptions is a partial override of a Pattern.
type PatternOptions struct {
	Kind  *PatternKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Color *string      `json:"color,omitempty" yaml:"color,omitempty"`
}

var (
	patternKind = design.Scalar("kind", PatternNone,
		func(p *Pattern) *PatternKind { return &p.kind }, func(o *PatternOptions) **PatternKind { return &o.Kind },
		design.ValidEnum[PatternKind])
	patternColor = design.Scalar("color", "Black",
		func(p *Pattern) *string { return &p.color }, func(o *PatternOptions) **string { return &o.Color },
		design.Required)

	patternSchema = design.NewSchema[Pattern, PatternOptions]("pattern", patternKind, patternColor)
)

func NewPattern() *Pattern { return patternSchema.New() }

func (p *Pattern) Kind() PatternKind { return p.kind }
func (p *Pattern) Color() string { return p.color }
func (p *Pattern) SetKind(v PatternKind) error { return patternKind.Set(p, v) }
func (p *Pattern) SetColor(v string) error { return patternColor.Set(p, v) }
func (p *Pattern) GetColor() (color.NRGBA, error) { return ParseColor(p.color) }
func (p *Pattern) IsDefault() bool { return patternSchema.IsDefault(p) }
func (p *Pattern) Clone() *Pattern { return patternSchema.Clone(p) }
func (p *Pattern) Combine(ref *Pattern) { patternSchema.Combine(p, ref) }
func (p *Pattern) ApplyOptions(o *PatternOptions) error { return patternSchema.Apply(p, o) }
func (p *Pattern) MarshalJSON() ([]byte, error) { return patternSchema.Encode(p) }
func (p *Pattern) UnmarshalJSON(data []byte) error { return patternSchema.Decode(p, data) }

func (o *PatternOptions) IsDefault() bool { return patternSchema.OptionsDefault(o) }
func (o *PatternOptions) Clone() *PatternOptions { return patternSchema.CloneOptions(o) }
func (o *PatternOptions) Validate() error { return patternSchema.ValidateOptions(o) }

// Alignment positions text inside a cell.
type Alignment struct {
	horizontal HorizontalAlignment
	vertical   VerticalAlignment
	wrap       design.YesNo
	shrink     design.YesNo
	indent     int
	rotation   int
}

// AlignmentOptions is a partial override of an Alignment.
type AlignmentOptions struct {
	Horizontal *HorizontalAlignment `json:"horizontal,omitempty" yaml:"horizontal,omitempty"`
	Vertical   *VerticalAlignment   `json:"vertical,omitempty" yaml:"vertical,omitempty"`
	Wrap       *design.YesNo        `json:"wrap,omitempty" yaml:"wrap,omitempty"`
	Shrink     *design.YesNo        `json:"shrink,omitempty" yaml:"shrink,omitempty"`
	Indent     *int                 `json:"indent,omitempty" yaml:"indent,omitempty"`
	Rotation   *int                 `json:"rotation,omitempty" yaml:"rotation,omitempty"`
}

var (
	alignHorizontal = design.Scalar("horizontal", HAlignGeneral,
		func(a *Alignment) *HorizontalAlignment { return &a.horizontal },
		func(o *AlignmentOptions) **HorizontalAlignment { return &o.Horizontal },
		design.ValidEnum[HorizontalAlignment])
	alignVertical = design.Scalar("vertical", VAlignBottom,
		func(a *Alignment) *VerticalAlignment { return &a.vertical },
		func(o *AlignmentOptions) **VerticalAlignment { return &o.Vertical },
		design.ValidEnum[VerticalAlignment])
	alignWrap = design.Scalar("wrap", design.No,
		func(a *Alignment) *design.YesNo { return &a.wrap }, func(o *AlignmentOptions) **design.YesNo { return &o.Wrap },
		design.ValidEnum[design.YesNo])
	alignShrink = design.Scalar("shrink", design.No,
		func(a *Alignment) *design.YesNo { return &a.shrink }, func(o *AlignmentOptions) **design.YesNo { return &o.Shrink },
		design.ValidEnum[design.YesNo])
	alignIndent = design.Scalar("indent", 0,
		func(a *Alignment) *int { return &a.indent }, func(o *AlignmentOptions) **int { return &o.Indent },
		design.Range(0, 250))
	alignRotation = design.Scalar("rotation", 0,
		func(a *Alignment) *int { return &a.rotation }, func(o *AlignmentOptions) **int { return &o.Rotation },
		design.Range(0, 180))

	alignmentSchema = design.NewSchema[Alignment, AlignmentOptions]("alignment",
		alignHorizontal, alignVertical, alignWrap, alignShrink, alignIndent, alignRotation)
)

// NewAlignment returns general, bottom-aligned, unwrapped text.
func NewAlignment() *Alignment { return alignmentSchema.New() }

func (a *Alignment) Horizontal() HorizontalAlignment { return a.horizontal }
func (a *Alignment) Vertical() VerticalAlignment { return a.vertical }
func (a *Alignment) Wrap() design.YesNo { return a.wrap }
func (a *Alignment) Shrink() design.YesNo { return a.shrink }
func (a *Alignment) Indent() int { return a.indent }
func (a *Alignment) Rotation() int { return a.rotation }

func (a *Alignment) SetHorizontal(v HorizontalAlignment) error { return alignHorizontal.Set(a, v) }
func (a *Alignment) SetVertical(v VerticalAlignment) error { return alignVertical.Set(a, v) }
func (a *Alignment) SetWrap(v design.YesNo) error { return alignWrap.Set(a, v) }
func (a *Alignment) SetShrink(v design.YesNo) error { return alignShrink.Set(a, v) }
func (a *Alignment) SetIndent(v int) error { return alignIndent.Set(a, v) }
func (a *Alignment) SetRotation(v int) error { return alignRotation.Set(a, v) }

func (a *Alignment) IsDefault() bool { return alignmentSchema.IsDefault(a) }
func (a *Alignment) Clone() *Alignment { return alignmentSchema.Clone(a) }
func (a *Alignment) Combine(ref *Alignment) { alignmentSchema.Combine(a, ref) }
func (a *Alignment) ApplyOptions(o *AlignmentOptions) error { return alignmentSchema.Apply(a, o) }
func (a *Alignment) MarshalJSON() ([]byte, error) { return alignmentSchema.Encode(a) }
func (a *Alignment) UnmarshalJSON(data []byte) error { return alignmentSchema.Decode(a, data) }

// ToAlignment converts the alignment to its excelize form.
func (a *Alignment) ToAlignment() *excelize.Alignment {
	return &excelize.Alignment{
		Horizontal:   horizontalNames[a.horizontal],
		Vertical:     verticalNames[a.vertical],
		WrapText:     a.wrap.Bool(),
		ShrinkToFit:  a.shrink.Bool(),
		Indent:       a.indent,
		TextRotation: a.rotation,
	}
}

func (o *AlignmentOptions) IsDefault() bool { return alignmentSchema.OptionsDefault(o) }
func (o *AlignmentOptions) Clone() *AlignmentOptions { return alignmentSchema.CloneOptions(o) }
func (o *AlignmentOptions) Validate() error { return alignmentSchema.ValidateOptions(o) }

// Protection controls cell locking when the sheet is protected.
type Protection struct {
	locked design.YesNo
	hidden design.YesNo
}

// ProtectionOptions is a partial override of a Protection.
type ProtectionOptions struct {
	Locked *design.YesNo `json:"locked,omitempty" yaml:"locked,omitempty"`
	Hidden *design.YesNo `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

var (
	protectionLocked = design.Scalar("locked", design.Yes,
		func(p *Protection) *design.YesNo { return &p.locked }, func(o *ProtectionOptions) **design.YesNo { return &o.Locked },
		design.ValidEnum[design.YesNo])
	protectionHidden = design.Scalar("hidden", design.No,
		func(p *Protection) *design.YesNo { return &p.hidden }, func(o *ProtectionOptions) **design.YesNo { return &o.Hidden },
		design.ValidEnum[design.YesNo])

	protectionSchema = design.NewSchema[Protection, ProtectionOptions]("protection", protectionLocked, protectionHidden)
)

func NewProtection() *Protection { return protectionSchema.New() }

func (p *Protection) Locked() design.YesNo { return p.locked }
func (p *Protection) Hidden() design.YesNo { return p.hidden }
func (p *Protection) SetLocked(v design.YesNo) error { return protectionLocked.Set(p, v) }
func (p *Protection) SetHidden(v design.YesNo) error { return protectionHidden.Set(p, v) }
func (p *Protection) IsDefault() bool { return protectionSchema.IsDefault(p) }
func (p *Protection) Clone() *Protection { return protectionSchema.Clone(p) }
func (p *Protection) Combine(ref *Protection) { protectionSchema.Combine(p, ref) }
func (p *Protection) ApplyOptions(o *ProtectionOptions) error { return protectionSchema.Apply(p, o) }
func (p *Protection) MarshalJSON() ([]byte, error) { return protectionSchema.Encode(p) }
func (p *Protection) UnmarshalJSON(data []byte) error { return protectionSchema.Decode(p, data) }

func (o *ProtectionOptions) IsDefault() bool { return protectionSchema.OptionsDefault(o) }
func (o *ProtectionOptions) Clone() *ProtectionOptions { return protectionSchema.CloneOptions(o) }
func (o *ProtectionOptions) Validate() error { return protectionSchema.ValidateOptions(o) }

// Content is everything about a cell that is not its font or borders:
// background color, pattern, alignment, number format, and protection.
type Content struct {
	color      string
	pattern    *Pattern
	alignment  *Alignment
	format     *NumberFormat
	protection *Protection
}

// ContentOptions is a partial override of a Content.
type ContentOptions struct {
	Color      *string             `json:"color,omitempty" yaml:"color,omitempty"`
	Pattern    *PatternOptions     `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Alignment  *AlignmentOptions   `json:"alignment,omitempty" yaml:"alignment,omitempty"`
	Format     *NumberFormatOptions `json:"format,omitempty" yaml:"format,omitempty"`
	Protection *ProtectionOptions  `json:"protection,omitempty" yaml:"protection,omitempty"`
}

var (
	contentColor = design.Scalar("color", Transparent,
		func(c *Content) *string { return &c.color }, func(o *ContentOptions) **string { return &o.Color },
		design.Required)
	contentPattern = design.Child("pattern", NewPattern,
		func(c *Content) **Pattern { return &c.pattern }, func(o *ContentOptions) **PatternOptions { return &o.Pattern })
	contentAlignment = design.Child("alignment", NewAlignment,
		func(c *Content) **Alignment { return &c.alignment }, func(o *ContentOptions) **AlignmentOptions { return &o.Alignment })
	contentFormat = design.Child("format", NewNumberFormat,
		func(c *Content) **NumberFormat { return &c.format }, func(o *ContentOptions) **NumberFormatOptions { return &o.Format })
	contentProtection = design.Child("protection", NewProtection,
		func(c *Content) **Protection { return &c.protection }, func(o *ContentOptions) **ProtectionOptions { return &o.Protection })

	contentSchema = design.NewSchema[Content, ContentOptions]("content",
		contentColor, contentPattern, contentAlignment, contentFormat, contentProtection)
)

// NewContent returns a transparent, unformatted content.
func NewContent() *Content { return contentSchema.New() }

func (c *Content) Color() string { return c.color }
func (c *Content) SetColor(v string) error { return contentColor.Set(c, v) }
func (c *Content) Pattern() *Pattern { return contentPattern.Get(c) }
func (c *Content) Alignment() *Alignment { return contentAlignment.Get(c) }
func (c *Content) Format() *NumberFormat { return contentFormat.Get(c) }
func (c *Content) Protection() *Protection { return contentProtection.Get(c) }

// PatternSpecified and friends report whether a child differs from its default.
func (c *Content) PatternSpecified() bool { return !contentPattern.Peek(c).IsDefault() }
func (c *Content) AlignmentSpecified() bool { return !contentAlignment.Peek(c).IsDefault() }
func (c *Content) FormatSpecified() bool { return !contentFormat.Peek(c).IsDefault() }
func (c *Content) ProtectionSpecified() bool { return !contentProtection.Peek(c).IsDefault() }

func (c *Content) IsDefault() bool { return contentSchema.IsDefault(c) }
func (c *Content) Clone() *Content { return contentSchema.Clone(c) }
func (c *Content) Combine(ref *Content) { contentSchema.Combine(c, ref) }
func (c *Content) ApplyOptions(o *ContentOptions) error { return contentSchema.Apply(c, o) }
func (c *Content) MarshalJSON() ([]byte, error) { return contentSchema.Encode(c) }
func (c *Content) UnmarshalJSON(data []byte) error { return contentSchema.Decode(c, data) }

// GetColor converts the background color.
func (c *Content) GetColor() (color.NRGBA, error) { return ParseColor(c.color) }

// ToFill converts the background color and pattern to an excelize fill.
// ok is false when the cell has no fill.
func (c *Content) ToFill() (fill excelize.Fill, ok bool, err error) {
	bg, err := ColorHex(c.color)
	if err != nil {
		return excelize.Fill{}, false, err
	}
	p := contentPattern.Peek(c)
	if p == nil || p.kind == PatternNone || p.kind == PatternSolid {
		if bg == "" {
			return excelize.Fill{}, false, nil
		}
		return excelize.Fill{Type: "pattern", Pattern: int(PatternSolid), Color: []string{bg}}, true, nil
	}
	fg, err := ColorHex(p.color)
	if err != nil {
		return excelize.Fill{}, false, err
	}
	return excelize.Fill{Type: "pattern", Pattern: int(p.kind), Color: []string{fg}}, true, nil
}

func (o *ContentOptions) IsDefault() bool { return contentSchema.OptionsDefault(o) }
func (o *ContentOptions) Clone() *ContentOptions { return contentSchema.CloneOptions(o) }
func (o *ContentOptions) Validate() error { return contentSchema.ValidateOptions(o) }
