package material

import (
	"github.com/Carmen-Shannon/oxy-toon/common"
	"github.com/Carmen-Shannon/oxy-toon/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-toon/engine/uniform"
)

// material is the implementation of the Material interface.
type material struct {
	name         string
	category     Category
	base         BaseMaterial
	pipeline     pipeline.Pipeline
	uniforms     uniform.View
	renderOrder  int
	vertexColors bool
}

// Material is a shaded material instance owned by exactly one mesh. Its uniforms are the
// pass's shared set seen through the instance's own override entries (texture bindings,
// axis vectors), so no state is shared with any other mesh except through the shared set.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Category returns the surface category the material was built for.
	//
	// Returns:
	//   - Category: the surface category
	Category() Category

	// Base returns the base material snapshot the instance was built from.
	//
	// Returns:
	//   - BaseMaterial: the copied base parameters
	Base() BaseMaterial

	// Pipeline returns the render state the material is drawn with.
	//
	// Returns:
	//   - pipeline.Pipeline: the shared render-state descriptor
	Pipeline() pipeline.Pipeline

	// Uniforms returns the uniform view the material reads from.
	//
	// Returns:
	//   - uniform.View: the shared set combined with the per-instance overrides
	Uniforms() uniform.View

	// Texture returns the texture bound under name, or nil if the slot is unset.
	//
	// Parameters:
	//   - name: the binding name (e.g. uniform.RampMap)
	//
	// Returns:
	//   - *common.TextureAsset: the bound texture, or nil
	Texture(name string) *common.TextureAsset

	// RenderOrder returns the draw order hint; lower values draw first.
	RenderOrder() int

	// VertexColors reports whether the material reads per-vertex colors.
	VertexColors() bool

	// Marshal packs the material's current scalar uniforms into the byte layout of its
	// shader's parameter block.
	//
	// Returns:
	//   - []byte: the GPU-ready parameter block
	Marshal() []byte
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// A uniform view is required.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{}
	for _, opt := range options {
		opt(m)
	}
	if m.uniforms == nil {
		panic("material: a uniform view is required")
	}
	if m.name == "" {
		m.name = m.base.Name
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Category() Category {
	return m.category
}

func (m *material) Base() BaseMaterial {
	return m.base
}

func (m *material) Pipeline() pipeline.Pipeline {
	return m.pipeline
}

func (m *material) Uniforms() uniform.View {
	return m.uniforms
}

func (m *material) Texture(name string) *common.TextureAsset {
	return m.uniforms.Texture(name)
}

func (m *material) RenderOrder() int {
	return m.renderOrder
}

func (m *material) VertexColors() bool {
	return m.vertexColors
}

func (m *material) Marshal() []byte {
	if m.category == CategoryOutline {
		p := NewGPUOutlineParams(m.uniforms, m.base.Opacity)
		return p.Marshal()
	}
	p := NewGPUToonParams(m.uniforms, m.category)
	return p.Marshal()
}
