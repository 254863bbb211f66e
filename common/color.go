package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// namedColors covers the CSS keywords used by the default configuration.
var namedColors = map[string]mgl32.Vec3{
	"white":   {1, 1, 1},
	"black":   {0, 0, 0},
	"red":     {1, 0, 0},
	"green":   {0, 128.0 / 255.0, 0},
	"blue":    {0, 0, 1},
	"gray":    {128.0 / 255.0, 128.0 / 255.0, 128.0 / 255.0},
	"hotpink": {1, 105.0 / 255.0, 180.0 / 255.0},
}

// ParseColor converts a "#rgb", "#rrggbb" or named CSS color into an RGB vector with
// channels in [0, 1].
//
// Parameters:
//   - s: the color string
//
// Returns:
//   - mgl32.Vec3: the parsed color
//   - error: error if the string is neither a known name nor a valid hex color
func ParseColor(s string) (mgl32.Vec3, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return mgl32.Vec3{}, fmt.Errorf("common: unknown color %q", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return mgl32.Vec3{}, fmt.Errorf("common: malformed hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("common: malformed hex color %q: %w", s, err)
	}
	return mgl32.Vec3{
		float32((v>>16)&0xff) / 255,
		float32((v>>8)&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}

// FormatColor renders an RGB vector as a "#rrggbb" string.
func FormatColor(c mgl32.Vec3) string {
	to := func(f float32) uint8 {
		return uint8(Saturate(f)*255 + 0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x", to(c[0]), to(c[1]), to(c[2]))
}
