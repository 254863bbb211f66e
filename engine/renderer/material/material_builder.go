package material

import (
	"github.com/Carmen-Shannon/oxy-toon/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-toon/engine/uniform"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithCategory sets the surface category of the material.
func WithCategory(category Category) MaterialBuilderOption {
	return func(m *material) {
		m.category = category
	}
}

// WithBase sets the base material snapshot.
//
// Parameters:
//   - base: the base parameters to copy
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base snapshot to a material
func WithBase(base BaseMaterial) MaterialBuilderOption {
	return func(m *material) {
		m.base = base
	}
}

// WithPipeline sets the render state the material is drawn with.
func WithPipeline(p pipeline.Pipeline) MaterialBuilderOption {
	return func(m *material) {
		m.pipeline = p
	}
}

// WithUniforms sets the uniform view the material reads from.
//
// Parameters:
//   - view: the shared set, usually wrapped with per-instance overrides
//
// Returns:
//   - MaterialBuilderOption: a function that applies the uniform view to a material
func WithUniforms(view uniform.View) MaterialBuilderOption {
	return func(m *material) {
		m.uniforms = view
	}
}

// WithRenderOrder sets the draw order hint.
func WithRenderOrder(order int) MaterialBuilderOption {
	return func(m *material) {
		m.renderOrder = order
	}
}

// WithVertexColors enables per-vertex color input.
func WithVertexColors(enabled bool) MaterialBuilderOption {
	return func(m *material) {
		m.vertexColors = enabled
	}
}
