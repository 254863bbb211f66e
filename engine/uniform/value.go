package uniform

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-toon/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Kind identifies the type held by a uniform Value.
type Kind int

const (
	// KindFloat is a scalar float32.
	KindFloat Kind = iota

	// KindColor is a linear RGB color.
	KindColor

	// KindVec2 is a 2-component vector.
	KindVec2

	// KindVec3 is a 3-component vector.
	KindVec3

	// KindTexture is a texture handle, possibly nil (an unset slot).
	KindTexture

	// KindBool is a boolean flag.
	KindBool
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindColor:
		return "color"
	case KindVec2:
		return "vec2"
	case KindVec3:
		return "vec3"
	case KindTexture:
		return "texture"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a typed uniform value. The zero Value is a float of 0.
type Value struct {
	kind    Kind
	f       float32
	v2      mgl32.Vec2
	v3      mgl32.Vec3
	texture *common.TextureAsset
	b       bool
}

// Float creates a scalar value.
func Float(f float32) Value { return Value{kind: KindFloat, f: f} }

// Color creates a color value.
func Color(c mgl32.Vec3) Value { return Value{kind: KindColor, v3: c} }

// Vec2 creates a 2-component vector value.
func Vec2(v mgl32.Vec2) Value { return Value{kind: KindVec2, v2: v} }

// Vec3 creates a 3-component vector value.
func Vec3(v mgl32.Vec3) Value { return Value{kind: KindVec3, v3: v} }

// Texture creates a texture value. A nil texture declares a slot that is present but unset.
func Texture(t *common.TextureAsset) Value { return Value{kind: KindTexture, texture: t} }

// Bool creates a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind returns the type held by the value.
func (v Value) Kind() Kind { return v.kind }

// Float returns the scalar payload.
func (v Value) Float() float32 { return v.f }

// Color returns the color payload.
func (v Value) Color() mgl32.Vec3 { return v.v3 }

// Vec2 returns the 2-component vector payload.
func (v Value) Vec2() mgl32.Vec2 { return v.v2 }

// Vec3 returns the 3-component vector payload.
func (v Value) Vec3() mgl32.Vec3 { return v.v3 }

// Texture returns the texture payload, which may be nil.
func (v Value) Texture() *common.TextureAsset { return v.texture }

// Bool returns the boolean payload.
func (v Value) Bool() bool { return v.b }

// Equal reports whether two values have the same kind and payload. Textures compare by handle.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindFloat:
		return v.f == o.f
	case KindColor, KindVec3:
		return v.v3 == o.v3
	case KindVec2:
		return v.v2 == o.v2
	case KindTexture:
		return v.texture == o.texture
	case KindBool:
		return v.b == o.b
	}
	return false
}
