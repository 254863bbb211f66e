package toon

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-toon/common"
	"github.com/Carmen-Shannon/oxy-toon/engine/config"
	"github.com/Carmen-Shannon/oxy-toon/engine/frame"
	"github.com/Carmen-Shannon/oxy-toon/engine/postprocess"
	"github.com/Carmen-Shannon/oxy-toon/engine/profiler"
	"github.com/Carmen-Shannon/oxy-toon/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-toon/engine/scene"
	"github.com/Carmen-Shannon/oxy-toon/engine/uniform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTextures() *material.TextureSet {
	return &material.TextureSet{
		FaceLightMap: common.NewTextureAsset("face.light"),
		HairLight:    common.NewTextureAsset("hair.light"),
		HairRamp:     common.NewTextureAsset("hair.ramp"),
		HairNormal:   common.NewTextureAsset("hair.normal"),
		BodyLight:    common.NewTextureAsset("body.light"),
		BodyRamp:     common.NewTextureAsset("body.ramp"),
		BodyNormal:   common.NewTextureAsset("body.normal"),
		BodyEmissive: common.NewTextureAsset("body.emissive"),
		MetalMap:     common.NewTextureAsset("matcap.metal"),
	}
}

func testModel() *scene.Node {
	root := scene.NewNode("character")
	for _, name := range []string{"face", "body", "hair"} {
		base := material.NewBaseMaterial(name)
		base.Map = common.NewTextureAsset(name + ".map")
		root.AddMesh(&scene.Mesh{
			Name:     name,
			Geometry: &scene.Geometry{Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}},
			Base:     base,
		})
	}
	return root
}

func newTestPipeline(t *testing.T, options ...PipelineOption) Pipeline {
	t.Helper()
	p, err := NewPipeline(testTextures(), frame.FixedViewport{Width: 8, Height: 4}, options...)
	require.NoError(t, err)
	return p
}

func TestNewPipelineBindsSharedTextures(t *testing.T) {
	textures := testTextures()
	p, err := NewPipeline(textures, frame.FixedViewport{Width: 8, Height: 4})
	require.NoError(t, err)

	assert.Same(t, textures.FaceLightMap, p.Toon().Texture(uniform.FaceLightMap))
	assert.Same(t, textures.MetalMap, p.Toon().Texture(uniform.MetalMap))
	assert.Same(t, textures, p.Textures())
}

func TestNewPipelineRequiresCollaborators(t *testing.T) {
	assert.Panics(t, func() { _, _ = NewPipeline(nil, frame.FixedViewport{Width: 1, Height: 1}) })
	assert.Panics(t, func() { _, _ = NewPipeline(testTextures(), nil) })
}

func TestPipelineAssemble(t *testing.T) {
	p := newTestPipeline(t)
	s := scene.NewScene("main")

	require.NoError(t, p.Assemble(s, testModel()))
	assert.Equal(t, 6, s.MeshCount())
	assert.True(t, s.Ready().Ready())

	assert.ErrorIs(t, p.Assemble(s, testModel()), scene.ErrAlreadyAssembled)

	other := scene.NewScene("other")
	require.NoError(t, p.Assemble(other, testModel()), "each scene is assembled independently")
}

func TestPipelineAssemblePlacement(t *testing.T) {
	p := newTestPipeline(t, WithPlacement(mgl32.Vec3{1, 2, 3}), WithWorkers(3))
	s := scene.NewScene("main")
	model := testModel()

	require.NoError(t, p.Assemble(s, model))
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, model.Position)
}

func TestPipelineFrameWithoutColor(t *testing.T) {
	p := newTestPipeline(t)

	state, out, err := p.Frame(0.25, nil)
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Equal(t, uint64(1), state.Frame)
	assert.InDelta(t, 0.25, p.Toon().Float(uniform.Time), 1e-6)
	assert.Equal(t, mgl32.Vec2{8, 4}, p.Outline().Vec2(uniform.Resolution))
}

func TestPipelineFrameRunsChain(t *testing.T) {
	p := newTestPipeline(t)
	color := postprocess.NewBuffer(8, 4)
	color.Fill([4]float32{0.2, 0.2, 0.2, 1})

	_, out, err := p.Frame(0.016, color)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.True(t, out.SameSize(color))

	_, _, err = p.Frame(0.016, &postprocess.Buffer{Width: 2, Height: 2})
	assert.ErrorIs(t, err, postprocess.ErrInvalidBuffer)
}

func TestPipelineApplyConfigLandsOnNextFrame(t *testing.T) {
	cfg := config.Default()
	cfg.RimLight.Intensity = 2.5
	cfg.Outline.Width = 0.6
	cfg.SMAA.Preset = "low"

	p := newTestPipeline(t)
	p.ApplyConfig(cfg)

	assert.Equal(t, postprocess.PresetLow, p.Chain().AntiAlias(), "chain parameters apply immediately")
	assert.NotEqual(t, float32(2.5), p.Toon().Float(uniform.RimLightIntensity), "uniform writes wait for the frame")

	_, _, err := p.Frame(0, nil)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, p.Toon().Float(uniform.RimLightIntensity), 1e-6)
	assert.InDelta(t, 0.6, p.Outline().Float(uniform.OutlineWidth), 1e-6)
}

func TestPipelineWithConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Metal.Metallic = 7
	p := newTestPipeline(t, WithConfig(cfg))

	_, _, err := p.Frame(0, nil)
	require.NoError(t, err)
	assert.InDelta(t, 7, p.Toon().Float(uniform.Metallic), 1e-6)
}

func TestPipelineProfilerObservesPasses(t *testing.T) {
	prof := profiler.NewProfiler()
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, prof.Register(reg))

	p := newTestPipeline(t, WithProfiler(prof))
	color := postprocess.NewBuffer(8, 4)
	_, _, err := p.Frame(0.016, color)
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	series := map[string]int{}
	for _, f := range families {
		series[f.GetName()] = len(f.GetMetric())
	}
	assert.Equal(t, len(postprocess.Order), series["oxytoon_pass_duration_seconds"])
	assert.Equal(t, 1, series["oxytoon_frames_total"])
}
