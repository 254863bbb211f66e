package pipeline

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-toon/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// State is the subset of render state that distinguishes one pipeline from another.
type State struct {
	Vertex, Fragment shader.Shader
	CullMode         wgpu.CullMode
	DepthTest        bool
	DepthWrite       bool
	Blend            bool
	AlphaCutoff      float32
}

// Key derives a stable pipeline key from the state.
func (s State) Key() string {
	return fmt.Sprintf("%s+%s/cull=%d/dt=%t/dw=%t/blend=%t/cut=%g",
		s.Vertex.Key(), s.Fragment.Key(), s.CullMode, s.DepthTest, s.DepthWrite, s.Blend, s.AlphaCutoff)
}

// Cache deduplicates pipelines so materials with identical render state share one.
// It is safe for concurrent use.
type Cache struct {
	mu        sync.Mutex
	pipelines map[string]Pipeline
}

// NewCache creates an empty pipeline cache.
func NewCache() *Cache {
	return &Cache{pipelines: make(map[string]Pipeline)}
}

// Get returns the pipeline for the given state, creating it on first request.
//
// Parameters:
//   - s: the render state
//
// Returns:
//   - Pipeline: the shared pipeline for s
func (c *Cache) Get(s State) Pipeline {
	key := s.Key()

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.pipelines[key]; ok {
		return p
	}
	p := NewPipeline(key,
		WithVertexShader(s.Vertex),
		WithFragmentShader(s.Fragment),
		WithCullMode(s.CullMode),
		WithDepthTestEnabled(s.DepthTest),
		WithDepthWriteEnabled(s.DepthWrite),
		WithBlendEnabled(s.Blend),
		WithAlphaCutoff(s.AlphaCutoff),
	)
	c.pipelines[key] = p
	return p
}

// Len returns the number of distinct pipelines created so far.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pipelines)
}
