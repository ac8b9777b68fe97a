// Package color encodes button background colors as RGBA byte tuples.
package color

import (
	"encoding/hex"
	"math"
	"strings"

	"github.com/arthur-debert/autopage/pkg/errors"
	"golang.org/x/image/colornames"
)

// DefaultOpacity is applied when a color carries no alpha of its own.
const DefaultOpacity = 0.75

// RGBA is a color as [R, G, B, A]. It marshals as a JSON array of numbers.
type RGBA [4]uint8

// AlphaFor converts an opacity fraction to an alpha byte.
func AlphaFor(opacity float64) uint8 {
	a := math.Round(opacity * 255)
	switch {
	case math.IsNaN(a) || a < 0:
		return 0
	case a > 255:
		return 255
	}
	return uint8(a)
}

// Parse converts a named web color or a hex string (#RRGGBB, #RRGGBBAA,
// 0xRRGGBB or 0xRRGGBBAA) to RGBA. Colors without an alpha channel take it
// from opacity; an embedded alpha wins over opacity.
func Parse(expr string, opacity float64) (RGBA, error) {
	s := strings.TrimSpace(expr)

	if named, ok := colornames.Map[strings.ToLower(s)]; ok {
		return RGBA{named.R, named.G, named.B, AlphaFor(opacity)}, nil
	}

	digits := s
	switch {
	case strings.HasPrefix(digits, "#"):
		digits = digits[1:]
	case len(digits) >= 2 && strings.EqualFold(digits[:2], "0x"):
		digits = digits[2:]
	}

	if len(digits) != 6 && len(digits) != 8 {
		return RGBA{}, errors.Newf(errors.ErrColorFormat, "invalid color %q: expected a color name or 6 or 8 hex digits", expr).
			WithDetail("color", expr)
	}

	raw, err := hex.DecodeString(digits)
	if err != nil {
		return RGBA{}, errors.Wrapf(err, errors.ErrColorFormat, "invalid color %q", expr).
			WithDetail("color", expr)
	}

	c := RGBA{raw[0], raw[1], raw[2], AlphaFor(opacity)}
	if len(raw) == 4 {
		c[3] = raw[3]
	}
	return c, nil
}

// Hex formats the RGB channels as "#rrggbb".
func (c RGBA) Hex() string {
	return "#" + hex.EncodeToString(c[:3])
}
