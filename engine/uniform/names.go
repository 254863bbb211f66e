package uniform

import "github.com/go-gl/mathgl/mgl32"

// Toon pass uniform names, shared by every character material.
const (
	LightPosition     = "uLightPosition"
	FaceLightMap      = "uFaceLightMap"
	RampVMove         = "uRampVmove"
	IsDay             = "uIsDay"
	Hair              = "uHair"
	ShadowColor       = "uShadowColor"
	MetalMap          = "uMetalMap"
	NoMetallic        = "uNoMetallic"
	Metallic          = "uMetallic"
	RimLightWidth     = "uRimLightWidth"
	RimLightIntensity = "uRimLightIntensity"
	Time              = "uTime"
	Near              = "uNear"
	Far               = "uFar"
	Resolution        = "uResolution"
	AmbientColor      = "uAmbientColor"
	AmbientIntensity  = "uAmbientIntensity"
)

// Outline pass uniform names. Resolution reuses the toon name but lives in the outline set.
const (
	OutlineWidth = "uOutLineWidth"
)

// Per-material binding names attached by the material builder.
const (
	ColorMap     = "map"
	LightMap     = "uLightMap"
	RampMap      = "uRampMap"
	NormalMap    = "uNormalMap"
	EmissiveMap  = "uEmissiveMap"
	DepthTexture = "uDepthTexture"
	ForwardVec   = "uForwardVec"
	LeftVec      = "uLeftVec"
)

// Default values for the toon pass.
const (
	DefaultRampVMove         float32 = 0.5
	DefaultIsDay             float32 = 1
	DefaultNoMetallic        float32 = 0.1
	DefaultMetallic          float32 = 0.2
	DefaultRimLightWidth     float32 = 0.2
	DefaultRimLightIntensity float32 = 0.9
	DefaultNear              float32 = 0.1
	DefaultFar               float32 = 1000
	DefaultAmbientIntensity  float32 = 1.1

	// DefaultOutlineWidth is in tenths of a pixel on screen: the outline vertex shader
	// extrudes outlineWidth * 10 pixels, so 0.3 draws a 3 pixel line.
	DefaultOutlineWidth float32 = 0.3
)

// NewToonSet creates the shared uniform set of the toon shading pass with every entry
// declared at its default value. Texture slots start unset.
//
// Parameters:
//   - options: additional options applied after the defaults
//
// Returns:
//   - Set: the toon uniform set
func NewToonSet(options ...SetBuilderOption) Set {
	defaults := WithValues(
		Entry{LightPosition, Vec3(mgl32.Vec3{})},
		Entry{FaceLightMap, Texture(nil)},
		Entry{RampVMove, Float(DefaultRampVMove)},
		Entry{IsDay, Float(DefaultIsDay)},
		Entry{Hair, Bool(false)},
		Entry{ShadowColor, Color(mgl32.Vec3{1, 1, 1})},
		Entry{MetalMap, Texture(nil)},
		Entry{NoMetallic, Float(DefaultNoMetallic)},
		Entry{Metallic, Float(DefaultMetallic)},
		Entry{RimLightWidth, Float(DefaultRimLightWidth)},
		Entry{RimLightIntensity, Float(DefaultRimLightIntensity)},
		Entry{Time, Float(0)},
		Entry{Near, Float(DefaultNear)},
		Entry{Far, Float(DefaultFar)},
		Entry{Resolution, Vec2(mgl32.Vec2{})},
		Entry{AmbientColor, Color(mgl32.Vec3{1, 1, 1})},
		Entry{AmbientIntensity, Float(DefaultAmbientIntensity)},
	)
	return NewSet("toon", append([]SetBuilderOption{defaults}, options...)...)
}

// NewOutlineSet creates the uniform set of the outline pass.
//
// Parameters:
//   - options: additional options applied after the defaults
//
// Returns:
//   - Set: the outline uniform set
func NewOutlineSet(options ...SetBuilderOption) Set {
	defaults := WithValues(
		Entry{Resolution, Vec2(mgl32.Vec2{})},
		Entry{OutlineWidth, Float(DefaultOutlineWidth)},
	)
	return NewSet("outline", append([]SetBuilderOption{defaults}, options...)...)
}
