// Package toon wires the character shading components into one pipeline: the shared
// uniform sets, the material builders, scene assembly, the frame updater and the
// post-processing chain.
package toon

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-toon/common"
	"github.com/Carmen-Shannon/oxy-toon/engine/config"
	"github.com/Carmen-Shannon/oxy-toon/engine/frame"
	"github.com/Carmen-Shannon/oxy-toon/engine/light"
	"github.com/Carmen-Shannon/oxy-toon/engine/postprocess"
	"github.com/Carmen-Shannon/oxy-toon/engine/profiler"
	"github.com/Carmen-Shannon/oxy-toon/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-toon/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-toon/engine/scene"
	"github.com/Carmen-Shannon/oxy-toon/engine/uniform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

// Pipeline is the composition root of the toon shading pipeline. It owns the two shared
// uniform sets and every component that reads or writes them. Frame must be called from
// a single render goroutine; ApplyConfig and the marker may be used from any goroutine.
type Pipeline interface {
	// Toon returns the shared toon uniform set.
	Toon() uniform.Set

	// Outline returns the shared outline uniform set.
	Outline() uniform.Set

	// Marker returns the tracked light.
	Marker() light.Marker

	// Chain returns the post-processing chain.
	Chain() postprocess.Chain

	// Textures returns the character textures the builders bind.
	Textures() *material.TextureSet

	// Assemble builds the shaded and outline instances of model and adds both to s. Each
	// scene can be assembled once.
	//
	// Parameters:
	//   - s: the target scene
	//   - model: the loaded character
	//
	// Returns:
	//   - error: the first material build failure or scene.ErrAlreadyAssembled
	Assemble(s scene.Scene, model *scene.Node) error

	// Advance applies queued uniform writes and advances the frame by delta seconds. Hosts
	// that render between the update and post-processing call Advance, draw, then Post.
	//
	// Parameters:
	//   - delta: seconds since the previous frame
	//
	// Returns:
	//   - frame.State: the frame state after the update
	//   - error: the joined uniform errors, or nil
	Advance(delta float32) (frame.State, error)

	// Post runs the post-processing chain over color using the frame state returned by Advance.
	//
	// Parameters:
	//   - state: the current frame state
	//   - color: the rendered frame in linear RGBA
	//
	// Returns:
	//   - *postprocess.Buffer: the processed frame; owned by the chain until the next call
	//   - error: error if color is not a valid buffer
	Post(state frame.State, color *postprocess.Buffer) (*postprocess.Buffer, error)

	// Frame runs Advance, then Post when color is not nil, and records the frame with the
	// profiler.
	//
	// Parameters:
	//   - delta: seconds since the previous frame
	//   - color: the rendered frame in linear RGBA, or nil
	//
	// Returns:
	//   - frame.State: the frame state after the update
	//   - *postprocess.Buffer: the processed frame; owned by the chain until the next call
	//   - error: the joined uniform and chain errors, or nil
	Frame(delta float32, color *postprocess.Buffer) (frame.State, *postprocess.Buffer, error)

	// ApplyConfig queues the configuration's uniform writes for the next frame and updates
	// the marker and chain parameters.
	//
	// Parameters:
	//   - cfg: the configuration to apply
	ApplyConfig(cfg config.Config)
}

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	mu         sync.Mutex
	assemblers map[scene.Scene]scene.Assembler

	toon     uniform.Set
	outline  uniform.Set
	marker   light.Marker
	textures *material.TextureSet
	depthTex *common.TextureAsset

	toonBuilder    material.Builder
	outlineBuilder material.OutlineBuilder
	updater        frame.Updater
	chain          postprocess.Chain

	profiler   *profiler.Profiler
	depth      common.DepthSource
	viewport   frame.Viewport
	workers    int
	placement  *mgl32.Vec3
	initial    *config.Config
	chainOpts  []postprocess.ChainOption
	markerOpts []light.MarkerBuilderOption
	logger     zerolog.Logger
}

var _ Pipeline = &pipeline{}

// NewPipeline creates the pipeline. The textures and viewport are required and
// NewPipeline panics if either is nil.
//
// Parameters:
//   - textures: the character textures
//   - viewport: the viewport the frame updater samples every frame
//   - options: functional options to further configure the pipeline
//
// Returns:
//   - Pipeline: the new pipeline
//   - error: error if a built-in shader fails to compile or the shared textures could not be bound
func NewPipeline(textures *material.TextureSet, viewport frame.Viewport, options ...PipelineOption) (Pipeline, error) {
	if textures == nil {
		panic("toon: NewPipeline requires a texture set")
	}
	if viewport == nil {
		panic("toon: NewPipeline requires a viewport")
	}

	p := &pipeline{
		assemblers: make(map[scene.Scene]scene.Assembler),
		textures:   textures,
		viewport:   viewport,
		workers:    1,
		logger:     zerolog.Nop(),
	}
	for _, option := range options {
		option(p)
	}

	modules, err := shader.Builtin().CompileAll()
	if err != nil {
		return nil, fmt.Errorf("toon: %w", err)
	}

	p.toon = uniform.NewToonSet(uniform.WithLogger(p.component("uniform")))
	p.outline = uniform.NewOutlineSet(uniform.WithLogger(p.component("uniform")))
	if err := textures.BindShared(p.toon); err != nil {
		return nil, fmt.Errorf("toon: bind shared textures: %w", err)
	}
	p.marker = light.NewMarker(p.markerOpts...)

	p.depthTex = common.NewDepthTextureAsset()
	p.toonBuilder = material.NewBuilder(p.toon, textures,
		material.WithLogger(p.component("material")),
		material.WithDepthTexture(p.depthTex),
	)
	p.outlineBuilder = material.NewOutlineBuilder(p.outline, material.WithLogger(p.component("material")))

	updaterOpts := []frame.UpdaterOption{frame.WithLogger(p.component("frame"))}
	if p.depth != nil {
		updaterOpts = append(updaterOpts, frame.WithDepthSource(p.depth))
	}
	p.updater = frame.NewUpdater(p.toon, p.outline, p.marker, viewport, updaterOpts...)

	chainOpts := []postprocess.ChainOption{
		postprocess.WithLogger(p.component("postprocess")),
		postprocess.WithWorkers(p.workers),
	}
	if p.profiler != nil {
		prof := p.profiler
		chainOpts = append(chainOpts, postprocess.WithPassObserver(func(kind postprocess.Kind, took time.Duration) {
			prof.ObservePass(kind.String(), took)
		}))
	}
	p.chain = postprocess.NewChain(append(chainOpts, p.chainOpts...)...)

	if p.initial != nil {
		p.ApplyConfig(*p.initial)
	}
	p.logger.Info().Int("workers", p.workers).Int("shaders", len(modules)).Msg("toon pipeline ready")
	return p, nil
}

func (p *pipeline) component(name string) zerolog.Logger {
	return p.logger.With().Str("component", name).Logger()
}

func (p *pipeline) Toon() uniform.Set {
	return p.toon
}

func (p *pipeline) Outline() uniform.Set {
	return p.outline
}

func (p *pipeline) Marker() light.Marker {
	return p.marker
}

func (p *pipeline) Chain() postprocess.Chain {
	return p.chain
}

func (p *pipeline) Textures() *material.TextureSet {
	return p.textures
}

func (p *pipeline) Assemble(s scene.Scene, model *scene.Node) error {
	p.mu.Lock()
	a, ok := p.assemblers[s]
	if !ok {
		opts := []scene.AssemblerOption{
			scene.WithAssemblyLogger(p.component("assembly")),
			scene.WithAssemblyWorkers(p.workers),
		}
		if p.placement != nil {
			opts = append(opts, scene.WithPlacement(*p.placement))
		}
		a = scene.NewAssembler(s, p.toonBuilder, p.outlineBuilder, opts...)
		p.assemblers[s] = a
	}
	p.mu.Unlock()
	return a.Assemble(model)
}

func (p *pipeline) Advance(delta float32) (frame.State, error) {
	state, err := p.updater.Advance(delta)
	if state.Depth != nil {
		p.depthTex.Width, p.depthTex.Height = state.Depth.Width, state.Depth.Height
	}
	return state, err
}

func (p *pipeline) Post(state frame.State, color *postprocess.Buffer) (*postprocess.Buffer, error) {
	return p.chain.Process(postprocess.FrameContext{
		Width:  state.Width,
		Height: state.Height,
		Depth:  state.Depth,
	}, color)
}

func (p *pipeline) Frame(delta float32, color *postprocess.Buffer) (frame.State, *postprocess.Buffer, error) {
	start := time.Now()
	state, err := p.Advance(delta)

	var out *postprocess.Buffer
	if color != nil {
		var perr error
		out, perr = p.Post(state, color)
		err = errors.Join(err, perr)
	}

	if p.profiler != nil {
		p.profiler.ObserveFrame(time.Since(start))
		p.profiler.Tick()
	}
	return state, out, err
}

func (p *pipeline) ApplyConfig(cfg config.Config) {
	config.Apply(cfg, config.Targets{
		Toon:    p.toon,
		Outline: p.outline,
		Marker:  p.marker,
		Chain:   p.chain,
	})
	p.logger.Debug().Msg("configuration queued")
}
