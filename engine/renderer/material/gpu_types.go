package material

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-toon/engine/uniform"
)

// GPUToonParams is the GPU-aligned uniform block read by the toon fragment shaders.
// Matches the WGSL ToonParams struct layout exactly. Size: 128 bytes.
type GPUToonParams struct {
	LightPosition     [3]float32 // offset 0
	RampVMove         float32    // offset 12
	ShadowColor       [3]float32 // offset 16
	IsDay             float32    // offset 28
	AmbientColor      [3]float32 // offset 32
	AmbientIntensity  float32    // offset 44
	ForwardVec        [3]float32 // offset 48
	Metallic          float32    // offset 60
	LeftVec           [3]float32 // offset 64
	NoMetallic        float32    // offset 76
	Resolution        [2]float32 // offset 80
	Near              float32    // offset 88
	Far               float32    // offset 92
	RimLightWidth     float32    // offset 96
	RimLightIntensity float32    // offset 100
	Time              float32    // offset 104
	Hair              uint32     // offset 108
	Category          uint32     // offset 112
	HasEmissive       uint32     // offset 116
	_                 [2]uint32  // offset 120: padding to 16-byte alignment
}

// NewGPUToonParams snapshots the scalar toon uniforms visible through v.
//
// Parameters:
//   - v: the material's uniform view
//   - category: the material category, written for the shader's branch selection
//
// Returns:
//   - GPUToonParams: the packed parameters
func NewGPUToonParams(v uniform.View, category Category) GPUToonParams {
	return GPUToonParams{
		LightPosition:     v.Vec3(uniform.LightPosition),
		RampVMove:         v.Float(uniform.RampVMove),
		ShadowColor:       v.Color(uniform.ShadowColor),
		IsDay:             v.Float(uniform.IsDay),
		AmbientColor:      v.Color(uniform.AmbientColor),
		AmbientIntensity:  v.Float(uniform.AmbientIntensity),
		ForwardVec:        v.Vec3(uniform.ForwardVec),
		Metallic:          v.Float(uniform.Metallic),
		LeftVec:           v.Vec3(uniform.LeftVec),
		NoMetallic:        v.Float(uniform.NoMetallic),
		Resolution:        v.Vec2(uniform.Resolution),
		Near:              v.Float(uniform.Near),
		Far:               v.Float(uniform.Far),
		RimLightWidth:     v.Float(uniform.RimLightWidth),
		RimLightIntensity: v.Float(uniform.RimLightIntensity),
		Time:              v.Float(uniform.Time),
		Hair:              boolBits(v.Bool(uniform.Hair)),
		Category:          uint32(category),
		HasEmissive:       boolBits(v.Texture(uniform.EmissiveMap) != nil),
	}
}

// Size returns the size of the GPUToonParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUToonParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUToonParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 128-byte buffer ready for GPU upload.
func (g *GPUToonParams) Marshal() []byte {
	buf := make([]byte, 128)
	putVec3(buf[0:], g.LightPosition)
	putF32(buf[12:], g.RampVMove)
	putVec3(buf[16:], g.ShadowColor)
	putF32(buf[28:], g.IsDay)
	putVec3(buf[32:], g.AmbientColor)
	putF32(buf[44:], g.AmbientIntensity)
	putVec3(buf[48:], g.ForwardVec)
	putF32(buf[60:], g.Metallic)
	putVec3(buf[64:], g.LeftVec)
	putF32(buf[76:], g.NoMetallic)
	putF32(buf[80:], g.Resolution[0])
	putF32(buf[84:], g.Resolution[1])
	putF32(buf[88:], g.Near)
	putF32(buf[92:], g.Far)
	putF32(buf[96:], g.RimLightWidth)
	putF32(buf[100:], g.RimLightIntensity)
	putF32(buf[104:], g.Time)
	binary.LittleEndian.PutUint32(buf[108:112], g.Hair)
	binary.LittleEndian.PutUint32(buf[112:116], g.Category)
	binary.LittleEndian.PutUint32(buf[116:120], g.HasEmissive)
	return buf
}

// GPUOutlineParams is the GPU-aligned uniform block read by the outline shaders.
// Matches the WGSL OutlineParams struct layout exactly. Size: 16 bytes.
type GPUOutlineParams struct {
	Resolution   [2]float32 // offset 0
	OutlineWidth float32    // offset 8
	Opacity      float32    // offset 12
}

// NewGPUOutlineParams snapshots the outline uniforms visible through v.
func NewGPUOutlineParams(v uniform.View, opacity float32) GPUOutlineParams {
	return GPUOutlineParams{
		Resolution:   v.Vec2(uniform.Resolution),
		OutlineWidth: v.Float(uniform.OutlineWidth),
		Opacity:      opacity,
	}
}

// Size returns the size of the GPUOutlineParams struct in bytes.
func (g *GPUOutlineParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUOutlineParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPUOutlineParams) Marshal() []byte {
	buf := make([]byte, 16)
	putF32(buf[0:], g.Resolution[0])
	putF32(buf[4:], g.Resolution[1])
	putF32(buf[8:], g.OutlineWidth)
	putF32(buf[12:], g.Opacity)
	return buf
}

func putF32(buf []byte, f float32) {
	binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(f))
}

func putVec3(buf []byte, v [3]float32) {
	putF32(buf[0:], v[0])
	putF32(buf[4:], v[1])
	putF32(buf[8:], v[2])
}

func boolBits(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
