package style

import (
	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetkit/internal/design"
)

// CellStyle is a named, inheritable cell design. Name and Inherits identify
// the style; they are never combined.
type CellStyle struct {
	name     string
	inherits string
	content  *Content
	font     *Font
	borders  []*Border

	owner *Styles
}

// CellStyleOptions is a partial override of a CellStyle's design.
type CellStyleOptions struct {
	Content *ContentOptions  `json:"content,omitempty" yaml:"content,omitempty"`
	Font    *FontOptions     `json:"font,omitempty" yaml:"font,omitempty"`
	Borders []*BorderOptions `json:"borders,omitempty" yaml:"borders,omitempty"`
}

var (
	styleName = design.Scalar[CellStyle, CellStyleOptions]("name", "",
		func(s *CellStyle) *string { return &s.name }, nil, design.Required).Identity()
	styleInherits = design.Scalar[CellStyle, CellStyleOptions]("inherits", "",
		func(s *CellStyle) *string { return &s.inherits }, nil).Identity()
	styleContent = design.Child("content", NewContent,
		func(s *CellStyle) **Content { return &s.content }, func(o *CellStyleOptions) **ContentOptions { return &o.Content })
	styleFont = design.Child("font", NewFont,
		func(s *CellStyle) **Font { return &s.font }, func(o *CellStyleOptions) **FontOptions { return &o.Font })
	styleBorders = design.List("borders", NewBorder,
		func(s *CellStyle) *[]*Border { return &s.borders }, func(o *CellStyleOptions) *[]*BorderOptions { return &o.Borders },
		borderKey, borderOptionKey).
		Attach(func(s *CellStyle, b *Border) { b.parent = s })

	cellStyleSchema = design.NewSchema[CellStyle, CellStyleOptions]("style",
		styleName, styleInherits, styleContent, styleFont, styleBorders)
)

// NewCellStyle returns an unnamed style with every field at its default.
// A style must be named before it can be combined.
func NewCellStyle() *CellStyle { return cellStyleSchema.New() }

// NewNamedCellStyle returns a default style called name.
func NewNamedCellStyle(name string) (*CellStyle, error) {
	s := NewCellStyle()
	if err := s.SetName(name); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CellStyle) Name() string { return s.name }
func (s *CellStyle) Inherits() string { return s.inherits }

// SetName renames the style. A style registered in a collection cannot take
// the name of another member.
func (s *CellStyle) SetName(v string) error {
	if s.owner != nil && v != s.name {
		if _, dup := s.owner.Lookup(v); dup {
			return &design.FieldError{Field: "name", Value: v, Err: design.ErrDuplicateKey}
		}
	}
	return styleName.Set(s, v)
}

// SetInherits names the parent style. The empty string clears inheritance.
func (s *CellStyle) SetInherits(v string) error { return styleInherits.Set(s, v) }

// Owner returns the collection the style is registered in, or nil.
func (s *CellStyle) Owner() *Styles { return s.owner }

func (s *CellStyle) Content() *Content { return styleContent.Get(s) }
func (s *CellStyle) Font() *Font { return styleFont.Get(s) }

// Borders returns the borders in the order they were added.
func (s *CellStyle) Borders() []*Border { return styleBorders.Items(s) }

// Border returns the border at p, adding a default one if the style has none.
func (s *CellStyle) Border(p BorderPosition) *Border {
	if b := styleBorders.Find(s, p.String()); b != nil {
		return b
	}
	b, err := NewBorderAt(p)
	if err != nil {
		design.Fatal("style.CellStyle.Border", err.Error())
	}
	_ = styleBorders.Add(s, b)
	return b
}

// HasBorder reports whether the style has a border at p.
func (s *CellStyle) HasBorder(p BorderPosition) bool { return styleBorders.Find(s, p.String()) != nil }

// RemoveBorder drops the border at p and reports whether there was one.
func (s *CellStyle) RemoveBorder(p BorderPosition) bool { return styleBorders.Remove(s, p.String()) }

// Outline shows the four outer borders with one line style and color.
func (s *CellStyle) Outline(st BorderStyle, color string) error {
	if err := borderStyle.Check(st); err != nil {
		return err
	}
	if err := borderColor.Check(color); err != nil {
		return err
	}
	for _, p := range BorderPositions() {
		b := s.Border(p)
		b.show, b.style, b.color = design.Yes, st, color
	}
	return nil
}

func (s *CellStyle) ContentSpecified() bool { return !styleContent.Peek(s).IsDefault() }
func (s *CellStyle) FontSpecified() bool { return !styleFont.Peek(s).IsDefault() }
func (s *CellStyle) BordersSpecified() bool { return cellStyleSchema.Specified(s, "borders") }

// IsDefault reports whether the style's design is at its defaults. The name
// and parent style are not part of the design.
func (s *CellStyle) IsDefault() bool { return cellStyleSchema.IsDefault(s) }

// Clone returns a copy whose children are cloned. The copy keeps the name,
// the parent style and the owner, so its inheritance still resolves, but it
// is not a member of the owner until added.
func (s *CellStyle) Clone() *CellStyle { return cellStyleSchema.Clone(s) }

// Combine fills the design fields of s still at their defaults from ref.
// It panics with a *design.UsageError if s has no name.
func (s *CellStyle) Combine(ref *CellStyle) {
	if s.name == "" {
		design.Fatal("style.CellStyle.Combine", "cannot combine a style that has no name")
	}
	cellStyleSchema.Combine(s, ref)
}

// CombineInherited combines s with the style it inherits from, one hop.
func (s *CellStyle) CombineInherited() { s.Combine(s.TryGetInheritStyle()) }

// ApplyOptions overwrites the design fields o sets. A failing apply leaves s unchanged.
func (s *CellStyle) ApplyOptions(o *CellStyleOptions) error { return cellStyleSchema.Apply(s, o) }

func (s *CellStyle) MarshalJSON() ([]byte, error) { return cellStyleSchema.Encode(s) }

func (s *CellStyle) UnmarshalJSON(data []byte) error {
	owner := s.owner
	if err := cellStyleSchema.Decode(s, data); err != nil {
		return err
	}
	s.owner = owner
	return nil
}

// TryGetInheritStyle returns the style s inherits from. When s inherits
// nothing, has no owner, or names a style the owner does not hold, it returns
// a fresh empty style, which combines as a no-op.
func (s *CellStyle) TryGetInheritStyle() *CellStyle {
	if s.inherits == "" || s.owner == nil {
		return NewCellStyle()
	}
	if p, ok := s.owner.Lookup(s.inherits); ok {
		return p
	}
	return NewCellStyle()
}

// ToExcelize converts the style into an excelize style definition. Children
// left at their defaults are omitted so excelize keeps its own defaults.
func (s *CellStyle) ToExcelize() (*excelize.Style, error) {
	out := &excelize.Style{}

	f := styleFont.Peek(s)
	if f == nil {
		f = NewFont()
	}
	font, err := f.ToFont()
	if err != nil {
		return nil, &design.FieldError{Field: "font.color", Value: f.Color(), Err: err}
	}
	out.Font = font

	for _, b := range s.borders {
		eb, ok, err := b.ToBorder()
		if err != nil {
			return nil, &design.FieldError{Field: "borders." + b.position.String() + ".color", Value: b.color, Err: err}
		}
		if ok {
			out.Border = append(out.Border, eb)
		}
	}

	c := styleContent.Peek(s)
	if c == nil {
		return out, nil
	}
	fill, ok, err := c.ToFill()
	if err != nil {
		return nil, &design.FieldError{Field: "content.color", Value: c.Color(), Err: err}
	}
	if ok {
		out.Fill = fill
	}
	if c.AlignmentSpecified() {
		out.Alignment = c.Alignment().ToAlignment()
	}
	if c.ProtectionSpecified() {
		p := c.Protection()
		out.Protection = &excelize.Protection{Locked: p.Locked().Bool(), Hidden: p.Hidden().Bool()}
	}
	if c.FormatSpecified() {
		code := c.Format().GetDataFormat()
		out.CustomNumFmt = &code
	}
	return out, nil
}

func (o *CellStyleOptions) IsDefault() bool { return cellStyleSchema.OptionsDefault(o) }
func (o *CellStyleOptions) Clone() *CellStyleOptions { return cellStyleSchema.CloneOptions(o) }
func (o *CellStyleOptions) Validate() error { return cellStyleSchema.ValidateOptions(o) }
