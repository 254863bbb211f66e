package material

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-toon/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-toon/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-toon/engine/uniform"
)

// DefaultOutlineRenderOrder draws silhouettes before the shaded meshes they sit behind.
const DefaultOutlineRenderOrder = -1

// OutlineBuilder constructs silhouette materials for the back-face expansion outline.
type OutlineBuilder interface {
	// Build creates the outline material for one mesh of the duplicated hierarchy. Only
	// back faces are drawn; vertices are pushed out along their normals by the shared width,
	// scaled by the vertex color alpha, and the source color map tints the line.
	//
	// Parameters:
	//   - source: the base material of the duplicated mesh
	//
	// Returns:
	//   - Material: the outline material
	//   - error: ErrMissingColorMap if the source has no color map
	Build(source BaseMaterial) (Material, error)

	// Uniforms returns the shared outline set.
	Uniforms() uniform.Set
}

// outlineBuilder is the implementation of the OutlineBuilder interface.
type outlineBuilder struct {
	builderConfig
	uniforms uniform.Set
}

var _ OutlineBuilder = &outlineBuilder{}

// NewOutlineBuilder creates an outline material builder bound to the outline uniform set.
//
// Parameters:
//   - uniforms: the shared outline uniform set
//   - options: variadic list of BuilderOption functions
//
// Returns:
//   - OutlineBuilder: the outline builder
func NewOutlineBuilder(uniforms uniform.Set, options ...BuilderOption) OutlineBuilder {
	if uniforms == nil {
		panic("material: outline builder requires a uniform set")
	}
	cfg := newBuilderConfig(options)
	if !cfg.hasOrder {
		cfg.order = DefaultOutlineRenderOrder
	}
	return &outlineBuilder{builderConfig: cfg, uniforms: uniforms}
}

func (b *outlineBuilder) Uniforms() uniform.Set {
	return b.uniforms
}

func (b *outlineBuilder) Build(source BaseMaterial) (Material, error) {
	if source.Map == nil {
		return nil, fmt.Errorf("%w: outline of %q", ErrMissingColorMap, source.Name)
	}

	base := NewBaseMaterial(source.Name)
	base.Map = source.Map
	base.Transparent = true
	base.Side = SideBack

	p := b.cache.Get(pipeline.State{
		Vertex:     b.shaders.MustGet(shader.KeyOutlineVertex),
		Fragment:   b.shaders.MustGet(shader.KeyOutlineFragment),
		CullMode:   base.Side.CullMode(),
		DepthTest:  base.DepthTest,
		DepthWrite: base.DepthWrite,
		Blend:      true,
	})

	return NewMaterial(
		WithName(source.Name+".outline"),
		WithCategory(CategoryOutline),
		WithBase(base),
		WithPipeline(p),
		WithUniforms(uniform.WithOverrides(b.uniforms,
			uniform.Entry{Name: uniform.ColorMap, Value: uniform.Texture(source.Map)},
		)),
		WithRenderOrder(b.order),
		WithVertexColors(true),
	), nil
}
