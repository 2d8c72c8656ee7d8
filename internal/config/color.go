package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor accepts #rgb, #rrggbb, #rrggbbaa or an SVG color name.
// The alpha channel is dropped: every color is returned fully opaque.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		c.A = 255
		return c, nil
	}

	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("unrecognized color %q", s)
	}
	hex := s[1:]

	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6, 8:
	default:
		return color.RGBA{}, fmt.Errorf("unrecognized color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("unrecognized color %q", s)
	}
	if len(hex) == 8 {
		v >>= 8
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
