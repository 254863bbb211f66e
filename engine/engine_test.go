package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-toon/common"
	"github.com/Carmen-Shannon/oxy-toon/engine/frame"
	"github.com/Carmen-Shannon/oxy-toon/engine/postprocess"
	"github.com/Carmen-Shannon/oxy-toon/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-toon/engine/scene"
	"github.com/Carmen-Shannon/oxy-toon/engine/toon"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPipeline(t *testing.T) toon.Pipeline {
	t.Helper()
	textures := &material.TextureSet{
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
	p, err := toon.NewPipeline(textures, frame.FixedViewport{Width: 4, Height: 4})
	require.NoError(t, err)
	return p
}

func testModel() *scene.Node {
	root := scene.NewNode("character")
	base := material.NewBaseMaterial("body")
	base.Map = common.NewTextureAsset("body.map")
	root.AddMesh(&scene.Mesh{
		Name:     "body",
		Geometry: &scene.Geometry{Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}},
		Base:     base,
	})
	return root
}

// runWithTimeout fails the test if Run does not return in time.
func runWithTimeout(t *testing.T, e Engine) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		e.Quit()
		t.Fatal("engine did not stop")
	}
}

func TestRunStopsAfterMaxFrames(t *testing.T) {
	p := testPipeline(t)
	e := NewEngine(WithPipeline(p), WithMaxFrames(3))

	var presented atomic.Int32
	var lastFrame atomic.Uint64
	e.SetRenderCallback(func(state frame.State, _ []scene.DrawItem) *postprocess.Buffer {
		lastFrame.Store(state.Frame)
		b := postprocess.NewBuffer(state.Width, state.Height)
		b.Fill([4]float32{0.1, 0.1, 0.1, 1})
		return b
	})
	e.SetPresentCallback(func(out *postprocess.Buffer) {
		if out.Width == 4 && out.Height == 4 {
			presented.Add(1)
		}
	})

	runWithTimeout(t, e)
	assert.Equal(t, uint64(3), e.Frames())
	assert.Equal(t, uint64(3), lastFrame.Load())
	assert.Equal(t, int32(3), presented.Load())
}

func TestRenderPanicStopsEngine(t *testing.T) {
	e := NewEngine()
	e.SetRenderCallback(func(frame.State, []scene.DrawItem) *postprocess.Buffer {
		panic("device lost")
	})

	runWithTimeout(t, e)
	assert.Zero(t, e.Frames())
}

func TestQuitIsIdempotent(t *testing.T) {
	e := NewEngine(WithTickRate(500), WithRenderFrameLimit(200))
	e.SetTickCallback(func(float32) {
		e.Quit()
		e.Quit()
	})

	runWithTimeout(t, e)
	assert.NotPanics(t, e.Quit)
}

func TestOnlyReadyScenesAreDrawn(t *testing.T) {
	p := testPipeline(t)
	pending := scene.NewScene("pending", scene.WithRoots(testModel()))
	assembled := scene.NewScene("assembled")
	require.NoError(t, p.Assemble(assembled, testModel()))

	e := NewEngine(WithPipeline(p), WithScene(1, pending), WithMaxFrames(1))
	e.AddScene(0, assembled)

	var draws atomic.Int32
	e.SetRenderCallback(func(_ frame.State, items []scene.DrawItem) *postprocess.Buffer {
		draws.Store(int32(len(items)))
		return nil
	})

	runWithTimeout(t, e)
	assert.Equal(t, int32(2), draws.Load(), "shaded mesh and its outline")
	assert.Len(t, e.Scenes(), 2)

	e.RemoveScene(1)
	assert.Nil(t, e.Scene(1))
	assert.Same(t, p, e.Pipeline())
}
