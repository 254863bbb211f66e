package material

import (
	"github.com/Carmen-Shannon/oxy-toon/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Side selects which faces of a mesh are rendered.
type Side int

const (
	// SideFront renders front faces only.
	SideFront Side = iota

	// SideBack renders back faces only.
	SideBack

	// SideDouble renders both faces.
	SideDouble
)

// String returns the lowercase side name.
func (s Side) String() string {
	switch s {
	case SideBack:
		return "back"
	case SideDouble:
		return "double"
	default:
		return "front"
	}
}

// CullMode returns the face culling mode that renders this side.
//
// Returns:
//   - wgpu.CullMode: back culling for front faces, front culling for back faces, none for double
func (s Side) CullMode() wgpu.CullMode {
	switch s {
	case SideBack:
		return wgpu.CullModeFront
	case SideDouble:
		return wgpu.CullModeNone
	default:
		return wgpu.CullModeBack
	}
}

// BaseMaterial is a snapshot of the standard PBR material a loaded mesh arrives with. The
// builders copy the parameters that control transparency, depth, alpha test and culling.
type BaseMaterial struct {
	// Name is the source material name; it determines the surface category.
	Name string

	// Color is the base color factor.
	Color mgl32.Vec3

	// Map is the base color texture.
	Map *common.TextureAsset

	// Transparent enables alpha blending.
	Transparent bool

	// Opacity is the base alpha factor.
	Opacity float32

	// DepthTest and DepthWrite control depth buffer usage.
	DepthTest, DepthWrite bool

	// AlphaTest discards fragments whose alpha falls below it; 0 disables the test.
	AlphaTest float32

	// Side selects the rendered faces.
	Side Side
}

// NewBaseMaterial returns a base material with the standard defaults: white, opaque,
// depth tested and written, front faces only.
//
// Parameters:
//   - name: the material name
//
// Returns:
//   - BaseMaterial: the base material
func NewBaseMaterial(name string) BaseMaterial {
	return BaseMaterial{
		Name:       name,
		Color:      mgl32.Vec3{1, 1, 1},
		Opacity:    1,
		DepthTest:  true,
		DepthWrite: true,
		Side:       SideFront,
	}
}
