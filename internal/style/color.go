package style

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ErrColor is returned when a stored color is neither a known name nor a hex value.
var ErrColor = errors.New("malformed color")

// Transparent is the color name for "no color".
const Transparent = "Transparent"

// namedColors maps lower-case color names to RRGGBB.
var namedColors = map[string]string{
	"black":       "000000",
	"white":       "FFFFFF",
	"red":         "FF0000",
	"darkred":     "8B0000",
	"green":       "008000",
	"darkgreen":   "006400",
	"lightgreen":  "90EE90",
	"blue":        "0000FF",
	"darkblue":    "00008B",
	"lightblue":   "ADD8E6",
	"navy":        "000080",
	"yellow":      "FFFF00",
	"lightyellow": "FFFFE0",
	"orange":      "FFA500",
	"gray":        "808080",
	"grey":        "808080",
	"darkgray":    "A9A9A9",
	"lightgray":   "D3D3D3",
	"silver":      "C0C0C0",
	"maroon":      "800000",
	"purple":      "800080",
	"teal":        "008080",
	"olive":       "808000",
	"lime":        "00FF00",
	"aqua":        "00FFFF",
	"cyan":        "00FFFF",
	"fuchsia":     "FF00FF",
	"magenta":     "FF00FF",
	"brown":       "A52A2A",
	"pink":        "FFC0CB",
}

// ParseColor converts a color name ("Black", "Transparent"), "#RRGGBB",
// "RRGGBB", or "#AARRGGBB" into a non-premultiplied color.
func ParseColor(s string) (color.NRGBA, error) {
	v := strings.TrimSpace(s)
	if strings.EqualFold(v, Transparent) {
		return color.NRGBA{}, nil
	}
	if hex, ok := namedColors[strings.ToLower(v)]; ok {
		v = hex
	}
	v = strings.TrimPrefix(v, "#")

	alpha := uint8(0xFF)
	switch len(v) {
	case 6:
	case 8:
		a, err := strconv.ParseUint(v[:2], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrColor, s)
		}
		alpha = uint8(a)
		v = v[2:]
	default:
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrColor, s)
	}

	rgb, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrColor, s)
	}
	return color.NRGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: alpha}, nil
}

// Hex formats c as "#RRGGBB", the form excelize expects.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ColorHex resolves s to "#RRGGBB". It returns "" for the empty string and
// for transparent colors, which excelize models as "no color".
func ColorHex(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	c, err := ParseColor(s)
	if err != nil {
		return "", err
	}
	if c.A == 0 {
		return "", nil
	}
	return Hex(c), nil
}
