package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-toon/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outlineState() State {
	lib := shader.Builtin()
	return State{
		Vertex:     lib.MustGet(shader.KeyOutlineVertex),
		Fragment:   lib.MustGet(shader.KeyOutlineFragment),
		CullMode:   wgpu.CullModeFront,
		DepthTest:  true,
		DepthWrite: true,
		Blend:      true,
	}
}

func TestNewPipelineDefaults(t *testing.T) {
	lib := shader.Builtin()
	p := NewPipeline("toon",
		WithVertexShader(lib.MustGet(shader.KeyToonVertex)),
		WithFragmentShader(lib.MustGet(shader.KeyFaceFragment)),
	)

	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.False(t, p.BlendEnabled())
	assert.Nil(t, p.BlendState())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, "vs_toon", p.Shader(shader.ShaderTypeVertex).EntryPoint())
	assert.Equal(t, "fs_face", p.Shader(shader.ShaderTypeFragment).EntryPoint())
}

func TestNewPipelineRequiresBothStages(t *testing.T) {
	lib := shader.Builtin()
	assert.Panics(t, func() {
		NewPipeline("broken", WithVertexShader(lib.MustGet(shader.KeyToonVertex)))
	})
}

func TestBlendEnabledGetsAlphaBlend(t *testing.T) {
	p := NewCache().Get(outlineState())
	require.NotNil(t, p.BlendState())
	assert.Equal(t, wgpu.BlendFactorSrcAlpha, p.BlendState().Color.SrcFactor)
	assert.Equal(t, wgpu.CullModeFront, p.CullMode())
}

func TestAlphaCutoffIsClamped(t *testing.T) {
	s := outlineState()
	s.AlphaCutoff = 3
	assert.Equal(t, float32(1), NewCache().Get(s).AlphaCutoff())
}

func TestCacheSharesIdenticalState(t *testing.T) {
	c := NewCache()
	a := c.Get(outlineState())
	b := c.Get(outlineState())
	assert.Same(t, a, b)

	other := outlineState()
	other.CullMode = wgpu.CullModeNone
	assert.NotSame(t, a, c.Get(other))
	assert.Equal(t, 2, c.Len())
}

func TestBindGroupLayoutsCoverBothStages(t *testing.T) {
	layouts := NewCache().Get(outlineState()).BindGroupLayouts()
	require.Contains(t, layouts, 1)
	assert.Len(t, layouts[1].Entries, 2)
}
