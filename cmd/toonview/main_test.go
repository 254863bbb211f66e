package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-toon/engine/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDefaultsWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toon.yaml")

	out, err := execute(t, "defaults", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestDefaultsCurrentIncludesEnvOverrides(t *testing.T) {
	t.Setenv("OXYTOON_OUTLINE_WIDTH", "0.8")
	path := filepath.Join(t.TempDir(), "toon.yaml")

	_, err := execute(t, "defaults", "--current", path)
	require.NoError(t, err)

	cfg, err := config.NewLoader(path).Load()
	require.NoError(t, err)
	assert.InDelta(t, 0.8, cfg.Outline.Width, 1e-6)
}

func TestPostProcessesImage(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")

	img := image.NewNRGBA(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			c := color.NRGBA{R: 40, G: 40, B: 40, A: 255}
			if x >= 8 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(in, buf.Bytes(), 0o644))

	stdout, err := execute(t, "post", in, "-o", out, "--depth", in)
	require.NoError(t, err)
	assert.Contains(t, stdout, "16x8")

	result, err := readPNG(out)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), result.Bounds())
}

func TestPostMissingInput(t *testing.T) {
	_, err := execute(t, "post", filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "defaults", filepath.Join(t.TempDir(), "x.yaml"))
	assert.Error(t, err)
}

func TestDepthFromImage(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 2, 1))
	img.SetGray16(1, 0, color.Gray16{Y: 0xffff})
	d := depthFromImage(img)
	assert.InDelta(t, 0, d.At(0, 0), 1e-6)
	assert.InDelta(t, 1, d.At(1, 0), 1e-6)
}
