package material

import (
	"github.com/Carmen-Shannon/oxy-toon/common"
	"github.com/Carmen-Shannon/oxy-toon/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-toon/engine/renderer/shader"
	"github.com/rs/zerolog"
)

// BuilderOption configures a toon or outline material builder.
type BuilderOption func(*builderConfig)

// WithLogger sets the logger used to report built materials.
//
// Parameters:
//   - logger: the zerolog logger
//
// Returns:
//   - BuilderOption: a function that applies the logger option to a builder
func WithLogger(logger zerolog.Logger) BuilderOption {
	return func(c *builderConfig) {
		c.logger = logger
	}
}

// WithShaderLibrary replaces the built-in shader library.
func WithShaderLibrary(lib shader.Library) BuilderOption {
	return func(c *builderConfig) {
		c.shaders = lib
	}
}

// WithPipelineCache shares a pipeline cache between builders so identical render state
// resolves to one pipeline.
//
// Parameters:
//   - cache: the pipeline cache
//
// Returns:
//   - BuilderOption: a function that applies the cache option to a builder
func WithPipelineCache(cache *pipeline.Cache) BuilderOption {
	return func(c *builderConfig) {
		c.cache = cache
	}
}

// WithDepthTexture sets the depth texture handle bound to every built material. The handle
// belongs to the depth capture collaborator.
func WithDepthTexture(depth *common.TextureAsset) BuilderOption {
	return func(c *builderConfig) {
		c.depth = depth
	}
}

// WithBuilderRenderOrder overrides the render order assigned to built materials.
func WithBuilderRenderOrder(order int) BuilderOption {
	return func(c *builderConfig) {
		c.order = order
		c.hasOrder = true
	}
}
