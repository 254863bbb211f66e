package postprocess

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// PassObserver receives the wall time of every executed pass.
type PassObserver func(kind Kind, took time.Duration)

// Chain is the ordered post-processing chain: bloom, then anti-aliasing, then tone mapping.
// The order is fixed. Parameters are live-tunable; out of range values are clamped, never
// rejected, and a parameter change takes effect on the next Process call.
type Chain interface {
	// Process runs every pass over src in order. src is not modified. The returned buffer
	// is owned by the chain and is valid until the next Process call.
	//
	// Parameters:
	//   - ctx: the frame's resolution and depth snapshot; a nil depth disables depth-aware work
	//   - src: the rendered linear color buffer
	//
	// Returns:
	//   - *Buffer: the processed buffer
	//   - error: ErrInvalidBuffer if src is unusable
	Process(ctx FrameContext, src *Buffer) (*Buffer, error)

	// Descriptor returns the ordered pass list with the current parameters.
	Descriptor() []PassDescriptor

	// Bloom returns the current bloom parameters.
	Bloom() BloomParams

	// SetBloom replaces the bloom parameters after clamping them.
	SetBloom(p BloomParams)

	// AntiAlias returns the current anti-alias preset.
	AntiAlias() Preset

	// SetAntiAlias replaces the anti-alias preset, clamped to the known presets.
	SetAntiAlias(p Preset)

	// ToneMap returns the current tone-map parameters.
	ToneMap() ToneMapParams

	// SetToneMap replaces the tone-map parameters after clamping them.
	SetToneMap(p ToneMapParams)
}

// chain is the implementation of the Chain interface.
type chain struct {
	mu sync.Mutex

	bloom     *bloom
	antiAlias *antiAlias
	toneMap   *toneMap

	rows     RowRunner
	ping     *Buffer
	pong     *Buffer
	observer PassObserver
	logger   zerolog.Logger
}

var _ Chain = &chain{}

// NewChain creates a chain with default parameters.
//
// Parameters:
//   - options: functional options to further configure the chain
//
// Returns:
//   - Chain: the new chain
func NewChain(options ...ChainOption) Chain {
	c := &chain{
		bloom:     newBloom(DefaultBloomParams()),
		antiAlias: newAntiAlias(DefaultPreset),
		toneMap:   newToneMap(DefaultToneMapParams()),
		rows:      serialRows{},
		logger:    zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *chain) passes() [len(Order)]Pass {
	return [len(Order)]Pass{c.bloom, c.antiAlias, c.toneMap}
}

func (c *chain) Process(ctx FrameContext, src *Buffer) (*Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !src.SameSize(c.ping) {
		c.ping = NewBuffer(src.Width, src.Height)
		c.pong = NewBuffer(src.Width, src.Height)
		c.logger.Debug().Int("width", src.Width).Int("height", src.Height).Msg("post-process buffers resized")
	}

	cur := src
	for _, pass := range c.passes() {
		dst := c.ping
		if cur == c.ping {
			dst = c.pong
		}
		start := time.Now()
		pass.Apply(ctx, c.rows, cur, dst)
		if c.observer != nil {
			c.observer(pass.Kind(), time.Since(start))
		}
		cur = dst
	}
	return cur, nil
}

func (c *chain) Descriptor() []PassDescriptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return []PassDescriptor{
		{Kind: KindBloom, Enabled: c.bloom.params.Intensity > 0, Params: c.bloom.params},
		{Kind: KindAntiAlias, Enabled: true, Params: c.antiAlias.preset},
		{Kind: KindToneMap, Enabled: c.toneMap.params.Enabled, Params: c.toneMap.params},
	}
}

func (c *chain) Bloom() BloomParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bloom.params
}

func (c *chain) SetBloom(p BloomParams) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bloom.params = p.Clamped()
}

func (c *chain) AntiAlias() Preset {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.antiAlias.preset
}

func (c *chain) SetAntiAlias(p Preset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.antiAlias.preset = p.Clamped()
}

func (c *chain) ToneMap() ToneMapParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toneMap.params
}

func (c *chain) SetToneMap(p ToneMapParams) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toneMap.params = p.Clamped()
}
