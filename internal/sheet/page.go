package sheet

import "github.com/klytics/sheetkit/internal/design"

// Page is the print setup.
type Page struct {
	orientation   Orientation
	paper         Paper
	fitToWidth    int
	fitToHeight   int
	blackAndWhite design.YesNo
}

// PageOptions is a partial override of a Page.
type PageOptions struct {
	Orientation   *Orientation  `json:"orientation,omitempty" yaml:"orientation,omitempty"`
	Paper         *Paper        `json:"paper,omitempty" yaml:"paper,omitempty"`
	FitToWidth    *int          `json:"fit_to_width,omitempty" yaml:"fit_to_width,omitempty"`
	FitToHeight   *int          `json:"fit_to_height,omitempty" yaml:"fit_to_height,omitempty"`
	BlackAndWhite *design.YesNo `json:"black_and_white,omitempty" yaml:"black_and_white,omitempty"`
}

var (
	pageOrientation = design.Scalar("orientation", Portrait,
		func(p *Page) *Orientation { return &p.orientation }, func(o *PageOptions) **Orientation { return &o.Orientation },
		design.ValidEnum[Orientation])
	pagePaper = design.Scalar("paper", A4,
		func(p *Page) *Paper { return &p.paper }, func(o *PageOptions) **Paper { return &o.Paper },
		design.ValidEnum[Paper])
	pageFitToWidth = design.Scalar("fit_to_width", 0,
		func(p *Page) *int { return &p.fitToWidth }, func(o *PageOptions) **int { return &o.FitToWidth }, design.AtLeast(0))
	pageFitToHeight = design.Scalar("fit_to_height", 0,
		func(p *Page) *int { return &p.fitToHeight }, func(o *PageOptions) **int { return &o.FitToHeight }, design.AtLeast(0))
	pageBlackAndWhite = design.Scalar("black_and_white", design.No,
		func(p *Page) *design.YesNo { return &p.blackAndWhite }, func(o *PageOptions) **design.YesNo { return &o.BlackAndWhite },
		design.ValidEnum[design.YesNo])

	pageSchema = design.NewSchema[Page, PageOptions]("page",
		pageOrientation, pagePaper, pageFitToWidth, pageFitToHeight, pageBlackAndWhite)
)

func NewPage() *Page { return pageSchema.New() }

func (p *Page) Orientation() Orientation { return p.orientation }
func (p *Page) Paper() Paper { return p.paper }
func (p *Page) FitToWidth() int { return p.fitToWidth }
func (p *Page) FitToHeight() int { return p.fitToHeight }
func (p *Page) BlackAndWhite() design.YesNo { return p.blackAndWhite }
func (p *Page) SetOrientation(v Orientation) error { return pageOrientation.Set(p, v) }
func (p *Page) SetPaper(v Paper) error { return pagePaper.Set(p, v) }
func (p *Page) SetFitToWidth(v int) error { return pageFitToWidth.Set(p, v) }
func (p *Page) SetFitToHeight(v int) error { return pageFitToHeight.Set(p, v) }
func (p *Page) SetBlackAndWhite(v design.YesNo) error { return pageBlackAndWhite.Set(p, v) }

// Fits reports whether the page is scaled to a number of pages.
func (p *Page) Fits() bool { return p.fitToWidth > 0 || p.fitToHeight > 0 }

func (p *Page) IsDefault() bool { return pageSchema.IsDefault(p) }
func (p *Page) Clone() *Page { return pageSchema.Clone(p) }
func (p *Page) Combine(ref *Page) { pageSchema.Combine(p, ref) }
func (p *Page) ApplyOptions(o *PageOptions) error { return pageSchema.Apply(p, o) }
func (p *Page) MarshalJSON() ([]byte, error) { return pageSchema.Encode(p) }
func (p *Page) UnmarshalJSON(data []byte) error { return pageSchema.Decode(p, data) }

func (o *PageOptions) IsDefault() bool { return pageSchema.OptionsDefault(o) }
func (o *PageOptions) Clone() *PageOptions { return pageSchema.CloneOptions(o) }
func (o *PageOptions) Validate() error { return pageSchema.ValidateOptions(o) }

// Margins are the printed page margins in inches.
type Margins struct {
	left   float64
	right  float64
	top    float64
	bottom float64
	header float64
	footer float64
}

// MarginsOptions is a partial override of a Margins.
type MarginsOptions struct {
	Left   *float64 `json:"left,omitempty" yaml:"left,omitempty"`
	Right  *float64 `json:"right,omitempty" yaml:"right,omitempty"`
	Top    *float64 `json:"top,omitempty" yaml:"top,omitempty"`
	Bottom *float64 `json:"bottom,omitempty" yaml:"bottom,omitempty"`
	Header *float64 `json:"header,omitempty" yaml:"header,omitempty"`
	Footer *float64 `json:"footer,omitempty" yaml:"footer,omitempty"`
}

func margin(name string, def float64, node func(*Margins) *float64, opt func(*MarginsOptions) **float64) *design.ScalarField[Margins, MarginsOptions, float64] {
	return design.Scalar(name, def, node, opt, design.AtLeast(0.0))
}

var (
	marginsLeft = margin("left", 0.7,
		func(m *Margins) *float64 { return &m.left }, func(o *MarginsOptions) **float64 { return &o.Left })
	marginsRight = margin("right", 0.7,
		func(m *Margins) *float64 { return &m.right }, func(o *MarginsOptions) **float64 { return &o.Right })
	marginsTop = margin("top", 0.75,
		func(m *Margins) *float64 { return &m.top }, func(o *MarginsOptions) **float64 { return &o.Top })
	marginsBottom = margin("bottom", 0.75,
		func(m *Margins) *float64 { return &m.bottom }, func(o *MarginsOptions) **float64 { return &o.Bottom })
	marginsHeader = margin("header", 0.3,
		func(m *Margins) *float64 { return &m.header }, func(o *MarginsOptions) **float64 { return &o.Header })
	marginsFooter = margin("footer", 0.3,
		func(m *Margins) *float64 { return &m.footer }, func(o *MarginsOptions) **float64 { return &o.Footer })

	marginsSchema = design.NewSchema[Margins, MarginsOptions]("margins",
		marginsLeft, marginsRight, marginsTop, marginsBottom, marginsHeader, marginsFooter)
)

func NewMargins() *Margins { return marginsSchema.New() }

func (m *Margins) Left() float64 { return m.left }
func (m *Margins) Right() float64 { return m.right }
func (m *Margins) Top() float64 { return m.top }
func (m *Margins) Bottom() float64 { return m.bottom }
func (m *Margins) Header() float64 { return m.header }
func (m *Margins) Footer() float64 { return m.footer }
func (m *Margins) SetLeft(v float64) error { return marginsLeft.Set(m, v) }
func (m *Margins) SetRight(v float64) error { return marginsRight.Set(m, v) }
func (m *Margins) SetTop(v float64) error { return marginsTop.Set(m, v) }
func (m *Margins) SetBottom(v float64) error { return marginsBottom.Set(m, v) }
func (m *Margins) SetHeader(v float64) error { return marginsHeader.Set(m, v) }
func (m *Margins) SetFooter(v float64) error { return marginsFooter.Set(m, v) }

func (m *Margins) IsDefault() bool { return marginsSchema.IsDefault(m) }
func (m *Margins) Clone() *Margins { return marginsSchema.Clone(m) }
func (m *Margins) Combine(ref *Margins) { marginsSchema.Combine(m, ref) }
func (m *Margins) ApplyOptions(o *MarginsOptions) error { return marginsSchema.Apply(m, o) }
func (m *Margins) MarshalJSON() ([]byte, error) { return marginsSchema.Encode(m) }
func (m *Margins) UnmarshalJSON(data []byte) error { return marginsSchema.Decode(m, data) }

func (o *MarginsOptions) IsDefault() bool { return marginsSchema.OptionsDefault(o) }
func (o *MarginsOptions) Clone() *MarginsOptions { return marginsSchema.CloneOptions(o) }
func (o *MarginsOptions) Validate() error { return marginsSchema.ValidateOptions(o) }

// HeaderFooter is the text printed above and below every page. Plain text is
// centered; text starting with "&" is passed through as a header/footer code.
type HeaderFooter struct {
	header string
	footer string
}

// HeaderFooterOptions is a partial override of a HeaderFooter.
type HeaderFooterOptions struct {
	Header *string `json:"header,omitempty" yaml:"header,omitempty"`
	Footer *string `json:"footer,omitempty" yaml:"footer,omitempty"`
}

var (
	hfHeader = design.Scalar("header", "",
		func(h *HeaderFooter) *string { return &h.header }, func(o *HeaderFooterOptions) **string { return &o.Header },
		maxFieldLength)
	hfFooter = design.Scalar("footer", "",
		func(h *HeaderFooter) *string { return &h.footer }, func(o *HeaderFooterOptions) **string { return &o.Footer },
		maxFieldLength)

	headerFooterSchema = design.NewSchema[HeaderFooter, HeaderFooterOptions]("header_footer", hfHeader, hfFooter)
)

func NewHeaderFooter() *HeaderFooter { return headerFooterSchema.New() }

func (h *HeaderFooter) Header() string { return h.header }
func (h *HeaderFooter) Footer() string { return h.footer }
func (h *HeaderFooter) SetHeader(v string) error { return hfHeader.Set(h, v) }
func (h *HeaderFooter) SetFooter(v string) error { return hfFooter.Set(h, v) }

func (h *HeaderFooter) IsDefault() bool { return headerFooterSchema.IsDefault(h) }
func (h *HeaderFooter) Clone() *HeaderFooter { return headerFooterSchema.Clone(h) }
func (h *HeaderFooter) Combine(ref *HeaderFooter) { headerFooterSchema.Combine(h, ref) }
func (h *HeaderFooter) ApplyOptions(o *HeaderFooterOptions) error { return headerFooterSchema.Apply(h, o) }
func (h *HeaderFooter) MarshalJSON() ([]byte, error) { return headerFooterSchema.Encode(h) }
func (h *HeaderFooter) UnmarshalJSON(data []byte) error {
	return headerFooterSchema.Decode(h, data)
}

func (o *HeaderFooterOptions) IsDefault() bool { return headerFooterSchema.OptionsDefault(o) }
func (o *HeaderFooterOptions) Clone() *HeaderFooterOptions { return headerFooterSchema.CloneOptions(o) }
func (o *HeaderFooterOptions) Validate() error { return headerFooterSchema.ValidateOptions(o) }

// maxFieldLength rejects header and footer text SpreadsheetML cannot store.
func maxFieldLength(s string) error {
	if len([]rune(s)) > 255 {
		return design.ErrOutOfRange
	}
	return nil
}

// code returns the header/footer code for s.
func code(s string) string {
	if s == "" || s[0] == '&' {
		return s
	}
	return "&C" + s
}
