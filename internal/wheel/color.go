package wheel

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// AdjustColor lightens (positive percent) or darkens (negative percent) a
// #rrggbb color by shifting every channel by round(2.55*percent), clamped to
// [0,255]. Input that is not a 6-digit hex color is returned unchanged.
func AdjustColor(hex string, percent float64) string {
	c, ok := ParseHex(hex)
	if !ok {
		return hex
	}
	// floor(x+0.5) rounds halves upward.
	amt := int(math.Floor(2.55*percent + 0.5))
	return fmt.Sprintf("#%02x%02x%02x", clampChannel(int(c.R)+amt), clampChannel(int(c.G)+amt), clampChannel(int(c.B)+amt))
}

// ParseHex decodes "#rrggbb" (the leading # is optional) into an opaque color.
func ParseHex(hex string) (color.RGBA, bool) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8 & 0xff), B: uint8(n & 0xff), A: 0xff}, true
}

func mustHex(hex string) color.RGBA {
	c, ok := ParseHex(hex)
	if !ok {
		return color.RGBA{A: 0xff}
	}
	return c
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
