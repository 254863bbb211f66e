package common

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmoothstep(t *testing.T) {
	assert.Equal(t, float32(0), Smoothstep(0.2, 0.8, 0.1))
	assert.Equal(t, float32(1), Smoothstep(0.2, 0.8, 0.9))
	assert.InDelta(t, 0.5, Smoothstep(0.2, 0.8, 0.5), 1e-6)

	// collapsed edges degrade to a step
	assert.Equal(t, float32(0), Smoothstep(0.5, 0.5, 0.49))
	assert.Equal(t, float32(1), Smoothstep(0.5, 0.5, 0.5))
	assert.Equal(t, float32(1), Smoothstep(0.5, 0.2, 0.7))
}

func TestWrapDelta(t *testing.T) {
	assert.InDelta(t, 0.25, WrapDelta(1.25), 1e-6)
	assert.InDelta(t, 0.999, WrapDelta(0.999), 1e-6)
	assert.InDelta(t, 0, WrapDelta(3), 1e-6)
	assert.InDelta(t, -0.5, WrapDelta(-1.5), 1e-6)
	assert.Equal(t, WrapDelta(WrapDelta(2.7)), WrapDelta(2.7))
	assert.True(t, math.IsNaN(float64(WrapDelta(float32(math.Inf(1))))))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(1), Clamp(3, -1, 1))
	assert.Equal(t, float32(-1), Clamp(-3, -1, 1))
	assert.Equal(t, 4, ClampInt(9, 0, 4))
	assert.Equal(t, float32(0), Saturate(-0.1))
}

func TestLuminance(t *testing.T) {
	assert.InDelta(t, 1, Luminance(1, 1, 1), 1e-6)
	assert.Greater(t, Luminance(0, 1, 0), Luminance(1, 0, 0))
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want mgl32.Vec3
	}{
		{"#ffffff", mgl32.Vec3{1, 1, 1}},
		{"#FFF", mgl32.Vec3{1, 1, 1}},
		{"#ff0000", mgl32.Vec3{1, 0, 0}},
		{" white ", mgl32.Vec3{1, 1, 1}},
		{"hotpink", mgl32.Vec3{1, 105.0 / 255, 180.0 / 255}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want[:], got[:], 1e-6)
		})
	}

	for _, bad := range []string{"", "ff0000", "#ff00", "#gggggg", "chartreuse-ish"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatColorRoundTrip(t *testing.T) {
	c, err := ParseColor("#6b3a3a")
	require.NoError(t, err)
	assert.Equal(t, "#6b3a3a", FormatColor(c))
}

func TestDepthTextureResize(t *testing.T) {
	d := NewDepthTexture(2, 1)
	d.Set(0, 0, 0.25)
	assert.Equal(t, float32(1), d.At(1, 0), "cleared to the far plane")
	assert.Equal(t, float32(0.25), d.At(-5, 3), "coordinates clamp to the edge")

	assert.Same(t, d, d.Resize(2, 1))

	r := d.Resize(4, 2)
	require.NotNil(t, r)
	assert.InDelta(t, 0.25, r.At(0, 1), 1e-4)
	assert.InDelta(t, 0.25, r.At(1, 0), 1e-4)
	assert.InDelta(t, 1, r.At(3, 1), 1e-4)

	assert.Nil(t, d.Resize(0, 2))
	var missing *DepthTexture
	assert.False(t, missing.Valid())
	assert.Nil(t, missing.Resize(2, 2))
}

func TestDepthTextureResizeOversizedStorage(t *testing.T) {
	d := &DepthTexture{Width: 2, Height: 2, Depth: make([]float32, 8)}
	for i := range d.Depth {
		d.Depth[i] = 0.5
	}
	d.Depth[7] = 0
	require.True(t, d.Valid())

	var r *DepthTexture
	require.NotPanics(t, func() { r = d.Resize(4, 4) })
	require.NotNil(t, r)
	assert.Len(t, r.Depth, 16)
	for _, v := range r.Depth {
		assert.InDelta(t, 0.5, v, 1e-4)
	}
}

func TestTextureAssetDecodeFlipY(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	flipped := NewTextureAsset("flipped")
	flipped.Data = buf.Bytes()
	require.NoError(t, flipped.Decode())
	assert.True(t, flipped.Decoded())
	assert.Equal(t, []byte{0, 0, 255, 255}, flipped.Pixels[:4])

	upright := NewTextureAsset("upright")
	upright.Data = buf.Bytes()
	upright.FlipY = false
	require.NoError(t, upright.Decode())
	assert.Equal(t, []byte{255, 0, 0, 255}, upright.Pixels[:4])

	assert.Error(t, NewTextureAsset("empty").Decode())
}

func TestTextureAssetTags(t *testing.T) {
	tex := NewTextureAsset("ramp")
	assert.True(t, tex.GenerateMipmaps)
	assert.Equal(t, ColorSpaceLinear, tex.ColorSpace)

	tex.DisableMipmaps()
	tex.SetRepeat()
	assert.False(t, tex.GenerateMipmaps)
	assert.Zero(t, tex.Sampler.LodMaxClamp)
	assert.Equal(t, wgpu.AddressModeRepeat, tex.Sampler.AddressModeU)
	assert.Equal(t, "srgb", ColorSpaceSRGB.String())

	depth := NewDepthTextureAsset()
	assert.False(t, depth.FlipY)
	assert.Equal(t, wgpu.FilterModeNearest, depth.Sampler.MagFilter)
}

func TestFirstNonZero(t *testing.T) {
	assert.Equal(t, "b", FirstNonZero("", "b", "c"))
	assert.Equal(t, "", FirstNonZero[string]())
	assert.Equal(t, 3, FirstNonZero(0, 0, 3))
}
