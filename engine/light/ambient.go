package light

import (
	"github.com/Carmen-Shannon/oxy-toon/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Ambient light defaults.
var DefaultAmbientColor = mgl32.Vec3{1, 1, 1}

// DefaultAmbientIntensity is the default ambient multiplier.
const DefaultAmbientIntensity float32 = 1.1

// MaxAmbientIntensity bounds the tunable ambient intensity.
const MaxAmbientIntensity float32 = 2

// Ambient is a uniform, direction-less light layered additively over the toon shading.
type Ambient struct {
	Color     mgl32.Vec3
	Intensity float32
}

// NewAmbient returns the default ambient light.
func NewAmbient() Ambient {
	return Ambient{Color: DefaultAmbientColor, Intensity: DefaultAmbientIntensity}
}

// Clamped returns a copy with the color saturated and the intensity limited to [0, MaxAmbientIntensity].
func (a Ambient) Clamped() Ambient {
	return Ambient{
		Color:     mgl32.Vec3{common.Saturate(a.Color[0]), common.Saturate(a.Color[1]), common.Saturate(a.Color[2])},
		Intensity: common.Clamp(a.Intensity, 0, MaxAmbientIntensity),
	}
}

// Radiance returns color scaled by intensity.
func (a Ambient) Radiance() mgl32.Vec3 {
	return a.Color.Mul(a.Intensity)
}
