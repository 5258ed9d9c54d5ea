package geom

import (
	"fmt"
	"strconv"
	"strings"
)

// RGBA is a parsed color
type RGBA struct {
	R, G, B, A uint8
}

// Hex formats the color as #rrggbbaa
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

var namedColors = map[string]RGBA{
	"black":       {0, 0, 0, 0xff},
	"white":       {0xff, 0xff, 0xff, 0xff},
	"red":         {0xff, 0, 0, 0xff},
	"green":       {0, 0x80, 0, 0xff},
	"blue":        {0, 0, 0xff, 0xff},
	"gray":        {0x80, 0x80, 0x80, 0xff},
	"grey":        {0x80, 0x80, 0x80, 0xff},
	"transparent": {},
}

// ParseColor parses #rgb, #rrggbb, #rrggbbaa, rgb(r,g,b) and a few named
// colors. Colors without an alpha channel are opaque.
func ParseColor(value string) (RGBA, error) {
	v := strings.TrimSpace(value)
	if c, ok := namedColors[strings.ToLower(v)]; ok {
		return c, nil
	}
	if strings.HasPrefix(v, "#") {
		if c, ok := parseHexColor(v); ok {
			return c, nil
		}
		return RGBA{}, malformed(value, "invalid hex color")
	}

	var r, g, b int
	compact := strings.ReplaceAll(v, " ", "")
	if _, err := fmt.Sscanf(compact, "rgb(%d,%d,%d)", &r, &g, &b); err == nil {
		if r < 0 || r > 255 || g < 0 || g > 255 || b < 0 || b > 255 {
			return RGBA{}, malformed(value, "rgb component out of range")
		}
		return RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}, nil
	}
	return RGBA{}, malformed(value, "unsupported color")
}

func parseHexColor(s string) (RGBA, bool) {
	s = strings.TrimPrefix(s, "#")
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]}) + "ff"
	case 6:
		s += "ff"
	case 8:
	default:
		return RGBA{}, false
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGBA{}, false
	}
	return RGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, true
}
