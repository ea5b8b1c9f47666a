package style

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"github.com/klytics/sheetkit/internal/design"
)

var (
	cultureMu      sync.RWMutex
	currentCulture = language.AmericanEnglish
)

// CurrentCulture returns the culture used when a format names none, or names
// one that cannot be parsed.
func CurrentCulture() language.Tag {
	cultureMu.RLock()
	defer cultureMu.RUnlock()
	return currentCulture
}

// SetCurrentCulture replaces the process-wide fallback culture.
func SetCurrentCulture(tag language.Tag) {
	cultureMu.Lock()
	currentCulture = tag
	cultureMu.Unlock()
}

// ErrorKind selects what a cell shows when its value cannot be formatted.
type ErrorKind uint8

const (
	ErrorNone ErrorKind = iota
	ErrorValue
	ErrorDate
)

var errorKinds = design.NewEnum[ErrorKind]("None", "Value", "Date")

func (k ErrorKind) Valid() bool { return errorKinds.Valid(k) }
func (k ErrorKind) String() string { return errorKinds.String(k) }
func (k ErrorKind) MarshalText() ([]byte, error) { return errorKinds.MarshalText(k) }
func (k *ErrorKind) UnmarshalText(b []byte) error { return errorKinds.UnmarshalText(k, b) }

// FormatError is the fallback content written in place of a value that does
// not match its number format.
type FormatError struct {
	kind    ErrorKind
	value   string
	comment string
}

// FormatErrorOptions is a partial override of a FormatError.
type FormatErrorOptions struct {
	Kind    *ErrorKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Value   *string    `json:"value,omitempty" yaml:"value,omitempty"`
	Comment *string    `json:"comment,omitempty" yaml:"comment,omitempty"`
}

var (
	formatErrorKind = design.Scalar("kind", ErrorNone,
		func(e *FormatError) *ErrorKind { return &e.kind }, func(o *FormatErrorOptions) **ErrorKind { return &o.Kind },
		design.ValidEnum[ErrorKind])
	formatErrorValue = design.Scalar("value", "",
		func(e *FormatError) *string { return &e.value }, func(o *FormatErrorOptions) **string { return &o.Value })
	formatErrorComment = design.Scalar("comment", "",
		func(e *FormatError) *string { return &e.comment }, func(o *FormatErrorOptions) **string { return &o.Comment })

	formatErrorSchema = design.NewSchema[FormatError, FormatErrorOptions]("error",
		formatErrorKind, formatErrorValue, formatErrorComment)
)

func NewFormatError() *FormatError { return formatErrorSchema.New() }

func (e *FormatError) Kind() ErrorKind { return e.kind }
func (e *FormatError) Value() string { return e.value }
func (e *FormatError) Comment() string { return e.comment }
func (e *FormatError) SetKind(v ErrorKind) error { return formatErrorKind.Set(e, v) }
func (e *FormatError) SetValue(v string) error { return formatErrorValue.Set(e, v) }
func (e *FormatError) SetComment(v string) error { return formatErrorComment.Set(e, v) }

func (e *FormatError) IsDefault() bool { return formatErrorSchema.IsDefault(e) }
func (e *FormatError) Clone() *FormatError { return formatErrorSchema.Clone(e) }
func (e *FormatError) Combine(ref *FormatError) { formatErrorSchema.Combine(e, ref) }
func (e *FormatError) ApplyOptions(o *FormatErrorOptions) error { return formatErrorSchema.Apply(e, o) }
func (e *FormatError) MarshalJSON() ([]byte, error) { return formatErrorSchema.Encode(e) }
func (e *FormatError) UnmarshalJSON(data []byte) error { return formatErrorSchema.Decode(e, data) }

// fallbackDateLayouts are tried in order by Date.
var fallbackDateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02", "01/02/2006", "02.01.2006"}

// Date parses the stored value as a date. An unparsable value yields the zero
// time (0001-01-01).
func (e *FormatError) Date() time.Time {
	t, _ := ParseDate(e.value)
	return t
}

// ParseDate reads s as an RFC 3339, ISO, US or German date.
func ParseDate(s string) (time.Time, bool) {
	v := strings.TrimSpace(s)
	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Number parses the stored value as a number. An unparsable value yields 0.
func (e *FormatError) Number() float64 {
	f, _ := parseNumber(e.value)
	return f
}

// Fallback returns the value to write for a cell that failed to format, or
// nil when the kind is None. A Value fallback holding numeric text is
// written as a number.
func (e *FormatError) Fallback() any {
	switch e.kind {
	case ErrorValue:
		if _, ok := parseNumber(e.value); ok {
			return e.Number()
		}
		return e.value
	case ErrorDate:
		return e.Date()
	}
	return nil
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (o *FormatErrorOptions) IsDefault() bool { return formatErrorSchema.OptionsDefault(o) }
func (o *FormatErrorOptions) Clone() *FormatErrorOptions { return formatErrorSchema.CloneOptions(o) }
func (o *FormatErrorOptions) Validate() error { return formatErrorSchema.ValidateOptions(o) }

// NumberFormat describes how a cell value is displayed.
type NumberFormat struct {
	kind      FormatKind
	decimals  int
	separator design.YesNo
	negative  Negative
	culture   string
	date      DateLayout
	custom    string
	err       *FormatError
}

// NumberFormatOptions is a partial override of a NumberFormat.
type NumberFormatOptions struct {
	Kind      *FormatKind         `json:"kind,omitempty" yaml:"kind,omitempty"`
	Decimals  *int                `json:"decimals,omitempty" yaml:"decimals,omitempty"`
	Separator *design.YesNo       `json:"separator,omitempty" yaml:"separator,omitempty"`
	Negative  *Negative           `json:"negative,omitempty" yaml:"negative,omitempty"`
	Culture   *string             `json:"culture,omitempty" yaml:"culture,omitempty"`
	Date      *DateLayout         `json:"date,omitempty" yaml:"date,omitempty"`
	Custom    *string             `json:"custom,omitempty" yaml:"custom,omitempty"`
	Error     *FormatErrorOptions `json:"error,omitempty" yaml:"error,omitempty"`
}

var (
	formatKind = design.Scalar("kind", FormatText,
		func(f *NumberFormat) *FormatKind { return &f.kind }, func(o *NumberFormatOptions) **FormatKind { return &o.Kind },
		design.ValidEnum[FormatKind])
	formatDecimals = design.Scalar("decimals", 2,
		func(f *NumberFormat) *int { return &f.decimals }, func(o *NumberFormatOptions) **int { return &o.Decimals },
		design.Range(0, 30))
	formatSeparator = design.Scalar("separator", design.No,
		func(f *NumberFormat) *design.YesNo { return &f.separator }, func(o *NumberFormatOptions) **design.YesNo { return &o.Separator },
		design.ValidEnum[design.YesNo])
	formatNegative = design.Scalar("negative", NegativeMinus,
		func(f *NumberFormat) *Negative { return &f.negative }, func(o *NumberFormatOptions) **Negative { return &o.Negative },
		design.ValidEnum[Negative])
	formatCulture = design.Scalar("culture", "",
		func(f *NumberFormat) *string { return &f.culture }, func(o *NumberFormatOptions) **string { return &o.Culture })
	formatDate = design.Scalar("date", ShortDate,
		func(f *NumberFormat) *DateLayout { return &f.date }, func(o *NumberFormatOptions) **DateLayout { return &o.Date },
		design.ValidEnum[DateLayout])
	formatCustom = design.Scalar("custom", "",
		func(f *NumberFormat) *string { return &f.custom }, func(o *NumberFormatOptions) **string { return &o.Custom })
	formatError = design.Child("error", NewFormatError,
		func(f *NumberFormat) **FormatError { return &f.err }, func(o *NumberFormatOptions) **FormatErrorOptions { return &o.Error })

	numberFormatSchema = design.NewSchema[NumberFormat, NumberFormatOptions]("format",
		formatKind, formatDecimals, formatSeparator, formatNegative, formatCulture, formatDate, formatCustom, formatError)
)

// NewNumberFormat returns a text format with two decimals for numeric kinds.
func NewNumberFormat() *NumberFormat { return numberFormatSchema.New() }

func (f *NumberFormat) Kind() FormatKind { return f.kind }
func (f *NumberFormat) Decimals() int { return f.decimals }
func (f *NumberFormat) Separator() design.YesNo { return f.separator }
func (f *NumberFormat) Negative() Negative { return f.negative }
func (f *NumberFormat) CultureName() string { return f.culture }
func (f *NumberFormat) Date() DateLayout { return f.date }
func (f *NumberFormat) Custom() string { return f.custom }
// ErrorContent returns the content written when a value does not fit the format.
func (f *NumberFormat) ErrorContent() *FormatError { return formatError.Get(f) }
func (f *NumberFormat) ErrorContentSpecified() bool { return !formatError.Peek(f).IsDefault() }

func (f *NumberFormat) SetKind(v FormatKind) error { return formatKind.Set(f, v) }
func (f *NumberFormat) SetDecimals(v int) error { return formatDecimals.Set(f, v) }
func (f *NumberFormat) SetSeparator(v design.YesNo) error { return formatSeparator.Set(f, v) }
func (f *NumberFormat) SetNegative(v Negative) error { return formatNegative.Set(f, v) }
func (f *NumberFormat) SetCulture(v string) error { return formatCulture.Set(f, v) }
func (f *NumberFormat) SetDate(v DateLayout) error { return formatDate.Set(f, v) }
func (f *NumberFormat) SetCustom(v string) error { return formatCustom.Set(f, v) }

func (f *NumberFormat) IsDefault() bool { return numberFormatSchema.IsDefault(f) }
func (f *NumberFormat) Clone() *NumberFormat { return numberFormatSchema.Clone(f) }
func (f *NumberFormat) Combine(ref *NumberFormat) { numberFormatSchema.Combine(f, ref) }
func (f *NumberFormat) ApplyOptions(o *NumberFormatOptions) error { return numberFormatSchema.Apply(f, o) }
func (f *NumberFormat) MarshalJSON() ([]byte, error) { return numberFormatSchema.Encode(f) }
func (f *NumberFormat) UnmarshalJSON(data []byte) error { return numberFormatSchema.Decode(f, data) }

// Culture returns the parsed culture. An empty or unparsable culture falls
// back to CurrentCulture.
func (f *NumberFormat) Culture() language.Tag {
	if f.culture == "" {
		return CurrentCulture()
	}
	tag, err := language.Parse(f.culture)
	if err != nil {
		return CurrentCulture()
	}
	return tag
}

// currencySymbols covers the currencies whose symbol differs from the ISO code.
var currencySymbols = map[string]string{
	"USD": "$", "EUR": "€", "GBP": "£", "JPY": "¥", "CNY": "¥", "INR": "₹",
	"KRW": "₩", "RUB": "₽", "BRL": "R$", "CAD": "CA$", "AUD": "A$", "PLN": "zł",
	"TRY": "₺", "UAH": "₴", "ILS": "₪", "CHF": "CHF", "SEK": "kr", "NOK": "kr", "DKK": "kr",
}

// CurrencySymbol returns the symbol of the culture's currency, or its ISO
// code when no symbol is known.
func (f *NumberFormat) CurrencySymbol() string {
	unit, conf := currency.FromTag(f.Culture())
	if conf == language.No {
		unit = currency.USD
	}
	code := unit.String()
	if sym, ok := currencySymbols[code]; ok {
		return sym
	}
	return code
}

// GetDataFormat returns the excel number format code for the format. A custom
// code always wins.
func (f *NumberFormat) GetDataFormat() string {
	if f.custom != "" {
		return f.custom
	}
	switch f.kind {
	case FormatGeneral:
		return "General"
	case FormatText:
		return "@"
	case FormatNumeric:
		return f.signed(f.digits())
	case FormatCurrency:
		return f.signed(`"` + f.CurrencySymbol() + `"` + f.digits())
	case FormatPercentage:
		return f.signed(f.digits() + "%")
	case FormatScientific:
		return f.mantissa() + "E+00"
	case FormatDateTime:
		return dateFormat(f.date, f.Culture())
	}
	return "General"
}

func (f *NumberFormat) mantissa() string {
	if f.decimals == 0 {
		return "0"
	}
	return "0." + strings.Repeat("0", f.decimals)
}

func (f *NumberFormat) digits() string {
	m := f.mantissa()
	if f.separator.Bool() {
		return "#,##" + m
	}
	return m
}

func (f *NumberFormat) signed(pos string) string {
	switch f.negative {
	case NegativeParenthesis:
		return pos + ";(" + pos + ")"
	case NegativeRed:
		return pos + ";[Red]-" + pos
	case NegativeParenthesisRed:
		return pos + ";[Red](" + pos + ")"
	}
	return pos
}

// dateFormat orders day, month, and year the way the culture writes them.
func dateFormat(layout DateLayout, tag language.Tag) string {
	var short string
	base, _ := tag.Base()
	region, _ := tag.Region()
	switch {
	case region.String() == "US":
		short = "m/d/yyyy"
	case base.String() == "ja", base.String() == "zh", base.String() == "ko", base.String() == "hu", base.String() == "sv", base.String() == "lt":
		short = "yyyy-mm-dd"
	case base.String() == "de", base.String() == "ru", base.String() == "pl", base.String() == "cs", base.String() == "fi", base.String() == "nb":
		short = "dd.mm.yyyy"
	default:
		short = "dd/mm/yyyy"
	}

	switch layout {
	case LongDate:
		return "dddd, mmmm d, yyyy"
	case ShortTime:
		return "hh:mm"
	case LongTime:
		return "hh:mm:ss"
	case FullDateTime:
		return short + " hh:mm:ss"
	case MonthYear:
		return "mmmm yyyy"
	}
	return short
}

func (o *NumberFormatOptions) IsDefault() bool { return numberFormatSchema.OptionsDefault(o) }
func (o *NumberFormatOptions) Clone() *NumberFormatOptions { return numberFormatSchema.CloneOptions(o) }
func (o *NumberFormatOptions) Validate() error { return numberFormatSchema.ValidateOptions(o) }
