package params

import (
	"math/rand"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ParseColor reads "#rgb" or "#rrggbb" (the leading # is optional).
// Malformed input yields opaque black and ok=false; it never fails.
func ParseColor(s string) (c colorful.Color, ok bool) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 6:
	default:
		return colorful.Color{}, false
	}
	for i := 0; i < len(h); i++ {
		if !isHexDigit(h[i]) {
			return colorful.Color{}, false
		}
	}

	c, err := colorful.Hex("#" + strings.ToLower(h))
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

// FormatColor renders c as lowercase "#rrggbb".
func FormatColor(c colorful.Color) string {
	return c.Clamped().Hex()
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

var (
	deepHues = []string{"#1e2bff", "#223bff", "#2032c8", "#1a2c8f"}
	warmHues = []string{"#ff6a2b", "#ff5b1f", "#e85b2f", "#d85a38"}
	darkHues = []string{"#0b0b10", "#0e0e12", "#0a0a0e", "#0d0d12"}
	coolHues = []string{"#9cb6c7", "#a7c1d1", "#8fa7c7", "#b1c9d5"}
)

// RandomPalette picks a deep, warm, near-black and cool color, in that order.
func RandomPalette(rng *rand.Rand) []string {
	return []string{
		deepHues[rng.Intn(len(deepHues))],
		warmHues[rng.Intn(len(warmHues))],
		darkHues[rng.Intn(len(darkHues))],
		coolHues[rng.Intn(len(coolHues))],
	}
}
