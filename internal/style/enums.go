package style

import "github.com/klytics/sheetkit/internal/design"

// BorderPosition identifies one edge of a cell.
type BorderPosition uint8

const (
	Left BorderPosition = iota
	Top
	Right
	Bottom
	DiagonalUp
	DiagonalDown
)

var borderPositions = design.NewEnum[BorderPosition]("Left", "Top", "Right", "Bottom", "DiagonalUp", "DiagonalDown")

// excelize border type names, indexed by BorderPosition.
var borderTypes = [...]string{"left", "top", "right", "bottom", "diagonalUp", "diagonalDown"}

func (p BorderPosition) Valid() bool { return borderPositions.Valid(p) }
func (p BorderPosition) String() string { return borderPositions.String(p) }
func (p BorderPosition) MarshalText() ([]byte, error) { return borderPositions.MarshalText(p) }
func (p *BorderPosition) UnmarshalText(b []byte) error { return borderPositions.UnmarshalText(p, b) }

// BorderPositions returns the four outer edges in drawing order.
func BorderPositions() []BorderPosition { return []BorderPosition{Left, Top, Right, Bottom} }

// BorderStyle is the line style of a border.
type BorderStyle uint8

const (
	Hair BorderStyle = iota
	Thin
	Medium
	Thick
	Dashed
	Dotted
	Double
	MediumDashed
	DashDot
	MediumDashDot
	DashDotDot
	MediumDashDotDot
	SlantDashDot
)

var borderStyles = design.NewEnum[BorderStyle]("Hair", "Thin", "Medium", "Thick", "Dashed", "Dotted",
	"Double", "MediumDashed", "DashDot", "MediumDashDot", "DashDotDot", "MediumDashDotDot", "SlantDashDot")

// excelize border style indexes, indexed by BorderStyle.
var borderStyleIndex = [...]int{7, 1, 2, 5, 3, 4, 6, 8, 9, 10, 11, 12, 13}

func (s BorderStyle) Valid() bool { return borderStyles.Valid(s) }
func (s BorderStyle) String() string { return borderStyles.String(s) }
func (s BorderStyle) MarshalText() ([]byte, error) { return borderStyles.MarshalText(s) }
func (s *BorderStyle) UnmarshalText(b []byte) error { return borderStyles.UnmarshalText(s, b) }

// PatternKind is a fill pattern. Members are declared in excelize's pattern
// index order, so the value is the excelize index.
type PatternKind uint8

const (
	PatternNone PatternKind = iota
	PatternSolid
	PatternMediumGray
	PatternDarkGray
	PatternLightGray
	PatternDarkHorizontal
	PatternDarkVertical
	PatternDarkDown
	PatternDarkUp
	PatternDarkGrid
	PatternDarkTrellis
	PatternLightHorizontal
	PatternLightVertical
	PatternLightDown
	PatternLightUp
	PatternLightGrid
	PatternLightTrellis
	PatternGray125
	PatternGray0625
)

var patternKinds = design.NewEnum[PatternKind]("None", "Solid", "MediumGray", "DarkGray", "LightGray",
	"DarkHorizontal", "DarkVertical", "DarkDown", "DarkUp", "DarkGrid", "DarkTrellis",
	"LightHorizontal", "LightVertical", "LightDown", "LightUp", "LightGrid", "LightTrellis",
	"Gray125", "Gray0625")

func (k PatternKind) Valid() bool { return patternKinds.Valid(k) }
func (k PatternKind) String() string { return patternKinds.String(k) }
func (k PatternKind) MarshalText() ([]byte, error) { return patternKinds.MarshalText(k) }
func (k *PatternKind) UnmarshalText(b []byte) error { return patternKinds.UnmarshalText(k, b) }

// HorizontalAlignment positions content across a cell.
type HorizontalAlignment uint8

const (
	HAlignGeneral HorizontalAlignment = iota
	HAlignLeft
	HAlignCenter
	HAlignRight
	HAlignFill
	HAlignJustify
	HAlignCenterContinuous
	HAlignDistributed
)

var horizontalAlignments = design.NewEnum[HorizontalAlignment]("General", "Left", "Center", "Right",
	"Fill", "Justify", "CenterContinuous", "Distributed")

var horizontalNames = [...]string{"", "left", "center", "right", "fill", "justify", "centerContinuous", "distributed"}

func (a HorizontalAlignment) Valid() bool { return horizontalAlignments.Valid(a) }
func (a HorizontalAlignment) String() string { return horizontalAlignments.String(a) }
func (a HorizontalAlignment) MarshalText() ([]byte, error) { return horizontalAlignments.MarshalText(a) }
func (a *HorizontalAlignment) UnmarshalText(b []byte) error { return horizontalAlignments.UnmarshalText(a, b) }

// VerticalAlignment positions content down a cell.
type VerticalAlignment uint8

const (
	VAlignTop VerticalAlignment = iota
	VAlignCenter
	VAlignBottom
	VAlignJustify
	VAlignDistributed
)

var verticalAlignments = design.NewEnum[VerticalAlignment]("Top", "Center", "Bottom", "Justify", "Distributed")

var verticalNames = [...]string{"top", "center", "bottom", "justify", "distributed"}

func (a VerticalAlignment) Valid() bool { return verticalAlignments.Valid(a) }
func (a VerticalAlignment) String() string { return verticalAlignments.String(a) }
func (a VerticalAlignment) MarshalText() ([]byte, error) { return verticalAlignments.MarshalText(a) }
func (a *VerticalAlignment) UnmarshalText(b []byte) error { return verticalAlignments.UnmarshalText(a, b) }

// FormatKind selects how a cell value is displayed.
type FormatKind uint8

const (
	FormatGeneral FormatKind = iota
	FormatText
	FormatNumeric
	FormatCurrency
	FormatPercentage
	FormatScientific
	FormatDateTime
)

var formatKinds = design.NewEnum[FormatKind]("General", "Text", "Numeric", "Currency", "Percentage", "Scientific", "DateTime")

func (k FormatKind) Valid() bool { return formatKinds.Valid(k) }
func (k FormatKind) String() string { return formatKinds.String(k) }
func (k FormatKind) MarshalText() ([]byte, error) { return formatKinds.MarshalText(k) }
func (k *FormatKind) UnmarshalText(b []byte) error { return formatKinds.UnmarshalText(k, b) }

// IsNumber reports whether the kind expects numeric cell values.
func (k FormatKind) IsNumber() bool {
	switch k {
	case FormatNumeric, FormatCurrency, FormatPercentage, FormatScientific:
		return true
	}
	return false
}

// Negative selects how negative numbers are shown.
type Negative uint8

const (
	NegativeMinus Negative = iota
	NegativeParenthesis
	NegativeRed
	NegativeParenthesisRed
)

var negatives = design.NewEnum[Negative]("Minus", "Parenthesis", "Red", "ParenthesisRed")

func (n Negative) Valid() bool { return negatives.Valid(n) }
func (n Negative) String() string { return negatives.String(n) }
func (n Negative) MarshalText() ([]byte, error) { return negatives.MarshalText(n) }
func (n *Negative) UnmarshalText(b []byte) error { return negatives.UnmarshalText(n, b) }

// DateLayout is a date/time display layout.
type DateLayout uint8

const (
	ShortDate DateLayout = iota
	LongDate
	ShortTime
	LongTime
	FullDateTime
	MonthYear
)

var dateLayouts = design.NewEnum[DateLayout]("ShortDate", "LongDate", "ShortTime", "LongTime", "FullDateTime", "MonthYear")

func (l DateLayout) Valid() bool { return dateLayouts.Valid(l) }
func (l DateLayout) String() string { return dateLayouts.String(l) }
func (l DateLayout) MarshalText() ([]byte, error) { return dateLayouts.MarshalText(l) }
func (l *DateLayout) UnmarshalText(b []byte) error { return dateLayouts.UnmarshalText(l, b) }
