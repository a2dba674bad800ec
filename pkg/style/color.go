package style

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a 32-bit ARGB color.
type Color uint32

// RGBA builds a color from 8-bit channels.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// RGB builds an opaque color.
func RGB(r, g, b uint8) Color {
	return RGBA(r, g, b, 0xFF)
}

// Common colors.
const (
	ColorTransparent Color = 0x00000000
	ColorBlack       Color = 0xFF000000
	ColorWhite       Color = 0xFFFFFFFF
	ColorRed         Color = 0xFFFF0000
	ColorGreen       Color = 0xFF008000
	ColorBlue        Color = 0xFF0000FF
)

var namedColors = map[string]Color{
	"transparent": ColorTransparent,
	"black":       ColorBlack,
	"white":       ColorWhite,
	"red":         ColorRed,
	"green":       ColorGreen,
	"lime":        0xFF00FF00,
	"blue":        ColorBlue,
	"yellow":      0xFFFFFF00,
	"cyan":        0xFF00FFFF,
	"magenta":     0xFFFF00FF,
	"gray":        0xFF808080,
	"grey":        0xFF808080,
	"silver":      0xFFC0C0C0,
	"orange":      0xFFFFA500,
	"purple":      0xFF800080,
	"navy":        0xFF000080,
	"teal":        0xFF008080,
	"maroon":      0xFF800000,
	"olive":       0xFF808000,
}

// Channels returns the 8-bit red, green, blue and alpha components.
func (c Color) Channels() (r, g, b, a uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c), uint8(c >> 24)
}

func (c Color) String() string {
	r, g, b, a := c.Channels()
	if a == 0xFF {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}

// LerpColor linearly interpolates each channel of two colors.
func LerpColor(a, b Color, t float64) Color {
	ar, ag, ab, aa := a.Channels()
	br, bg, bb, ba := b.Channels()
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return RGBA(mix(ar, br), mix(ag, bg), mix(ab, bb), mix(aa, ba))
}

// ParseColor parses named colors, #rgb, #rrggbb, #rrggbbaa, rgb() and rgba().
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s[1:])
	}
	if args, ok := functionArgs(s, "rgba"); ok {
		return parseRGBArgs(args, true)
	}
	if args, ok := functionArgs(s, "rgb"); ok {
		return parseRGBArgs(args, false)
	}
	return 0, fmt.Errorf("invalid color %q", s)
}

func parseHexColor(hex string) (Color, error) {
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}) + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return 0, fmt.Errorf("invalid hex color #%s", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid hex color #%s", hex)
	}
	// #rrggbbaa -> aarrggbb
	return Color(uint32(v>>8) | uint32(v&0xFF)<<24), nil
}

func parseRGBArgs(args []string, alpha bool) (Color, error) {
	want := 3
	if alpha {
		want = 4
	}
	if len(args) != want {
		return 0, fmt.Errorf("expected %d color components, got %d", want, len(args))
	}
	var ch [4]uint8
	ch[3] = 0xFF
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(args[i])
		if err != nil || v < 0 || v > 255 {
			return 0, fmt.Errorf("invalid color component %q", args[i])
		}
		ch[i] = uint8(v)
	}
	if alpha {
		a, err := strconv.ParseFloat(args[3], 64)
		if err != nil || a < 0 || a > 1 {
			return 0, fmt.Errorf("invalid alpha %q", args[3])
		}
		ch[3] = uint8(a*255 + 0.5)
	}
	return RGBA(ch[0], ch[1], ch[2], ch[3]), nil
}

// functionArgs splits "name(a, b, c)" into its trimmed arguments.
func functionArgs(s, name string) ([]string, bool) {
	if !strings.HasPrefix(s, name+"(") || !strings.HasSuffix(s, ")") {
		return nil, false
	}
	inner := s[len(name)+1 : len(s)-1]
	parts := splitTopLevel(inner, ',')
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, true
}

// splitTopLevel splits s on sep, ignoring separators nested in parentheses.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
