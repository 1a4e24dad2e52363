// Package color provides hex color parsing for tag colors and document styles.
package color

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var hexRe = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// RGB is an 8-bit per channel color.
type RGB struct {
	R, G, B uint8
}

// Hex formats the color as "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Parse reads "#RGB", "#RRGGBB" or the same without the leading '#'.
func Parse(s string) (RGB, error) {
	m := hexRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return RGB{}, fmt.Errorf("invalid hex color %q", s)
	}
	digits := m[1]
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustParse is Parse for compile-time constants. It panics on malformed input.
func MustParse(s string) RGB {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Normalize returns the canonical "#RRGGBB" form of s, or fallback when s is
// empty. Malformed input is an error.
func Normalize(s, fallback string) (string, error) {
	if strings.TrimSpace(s) == "" {
		s = fallback
	}
	c, err := Parse(s)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}
