package toon

import (
	"github.com/Carmen-Shannon/oxy-toon/common"
	"github.com/Carmen-Shannon/oxy-toon/engine/config"
	"github.com/Carmen-Shannon/oxy-toon/engine/light"
	"github.com/Carmen-Shannon/oxy-toon/engine/postprocess"
	"github.com/Carmen-Shannon/oxy-toon/engine/profiler"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

// PipelineOption is a functional option for configuring a Pipeline via NewPipeline.
type PipelineOption func(*pipeline)

// WithLogger sets the root logger; each component logs through a child tagged with its name.
//
// Parameters:
//   - logger: the zerolog logger
//
// Returns:
//   - PipelineOption: option function to apply
func WithLogger(logger zerolog.Logger) PipelineOption {
	return func(p *pipeline) {
		p.logger = logger
	}
}

// WithProfiler records frame and pass durations and ticks the profiler once per frame.
//
// Parameters:
//   - prof: the profiler
//
// Returns:
//   - PipelineOption: option function to apply
func WithProfiler(prof *profiler.Profiler) PipelineOption {
	return func(p *pipeline) {
		p.profiler = prof
	}
}

// WithDepthSource sets the depth capture collaborator sampled every frame.
func WithDepthSource(src common.DepthSource) PipelineOption {
	return func(p *pipeline) {
		p.depth = src
	}
}

// WithWorkers sets the worker count shared by assembly and the post-processing chain.
// Values below 2 run both serially.
//
// Parameters:
//   - n: the number of workers
//
// Returns:
//   - PipelineOption: option function to apply
func WithWorkers(n int) PipelineOption {
	return func(p *pipeline) {
		p.workers = n
	}
}

// WithPlacement overrides where assembled characters are placed.
func WithPlacement(pos mgl32.Vec3) PipelineOption {
	return func(p *pipeline) {
		p.placement = &pos
	}
}

// WithConfig applies cfg once the pipeline is built. Its uniform writes land on the
// first frame.
//
// Parameters:
//   - cfg: the initial configuration
//
// Returns:
//   - PipelineOption: option function to apply
func WithConfig(cfg config.Config) PipelineOption {
	return func(p *pipeline) {
		p.initial = &cfg
	}
}

// WithChainOptions passes extra options to the post-processing chain. They are applied
// after the pipeline's own options.
func WithChainOptions(options ...postprocess.ChainOption) PipelineOption {
	return func(p *pipeline) {
		p.chainOpts = append(p.chainOpts, options...)
	}
}

// WithMarkerOptions configures the tracked light.
func WithMarkerOptions(options ...light.MarkerBuilderOption) PipelineOption {
	return func(p *pipeline) {
		p.markerOpts = append(p.markerOpts, options...)
	}
}
