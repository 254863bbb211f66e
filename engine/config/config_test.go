package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-toon/engine/light"
	"github.com/Carmen-Shannon/oxy-toon/engine/postprocess"
	"github.com/Carmen-Shannon/oxy-toon/engine/uniform"
	"github.com/fsnotify/fsnotify"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, cfg, cfg.Clamped())
	assert.Equal(t, "#6b3a3a", cfg.Bloom.Glow)
	assert.Equal(t, postprocess.PresetUltra, cfg.Preset())
	assert.Equal(t, float32(5.37), cfg.Light.Rotation)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := NewLoader(filepath.Join(t.TempDir(), "absent.yaml")).Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = NewLoader("").Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toon.yaml")
	writeFile(t, path, `
day_night:
  is_day: -1
bloom:
  radius: -4
  glow: "#ff0000"
smaa:
  preset: low
light:
  position:
    y: 4
`)
	t.Setenv("OXYTOON_RIM_LIGHT_INTENSITY", "2.5")

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, float32(-1), cfg.DayNight.IsDay)
	assert.Equal(t, float32(0), cfg.Bloom.Radius, "negative radius clamps to zero")
	assert.Equal(t, "#ff0000", cfg.Bloom.Glow)
	assert.Equal(t, postprocess.PresetLow, cfg.Preset())
	assert.Equal(t, float32(4), cfg.Light.Position.Y)
	assert.Equal(t, float32(10), cfg.Light.Position.Z, "unset keys keep their defaults")
	assert.Equal(t, float32(2.5), cfg.RimLight.Intensity)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "shadow:\n  color: mauve-ish\nsmaa:\n  preset: extreme\n")

	l := NewLoader(path)
	_, err := l.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shadow.color")
	assert.Contains(t, err.Error(), "smaa.preset")
	assert.Equal(t, Default(), l.Last())
}

func TestClampedLimitsRanges(t *testing.T) {
	cfg := Default()
	cfg.DayNight.IsDay = 4
	cfg.Outline.Width = -2
	cfg.Ambient.Intensity = 9
	cfg.Metal.Metallic = 20
	cfg.Bloom.Iterations = 0
	cfg.ToneMap.Contrast = 0

	c := cfg.Clamped()
	assert.Equal(t, float32(1), c.DayNight.IsDay)
	assert.Equal(t, float32(0), c.Outline.Width)
	assert.Equal(t, light.MaxAmbientIntensity, c.Ambient.Intensity)
	assert.Equal(t, float32(10), c.Metal.Metallic)
	assert.Equal(t, 1, c.Bloom.Iterations)
	assert.Equal(t, float32(1), c.ToneMap.Contrast)
}

func TestApplyQueuesUniformWrites(t *testing.T) {
	toon, outline := uniform.NewToonSet(), uniform.NewOutlineSet()
	marker := light.NewMarker()
	chain := postprocess.NewChain()

	cfg := Default()
	cfg.DayNight.IsDay = -0.5
	cfg.Outline.Width = 0.7
	cfg.Shadow.Color = "#000000"
	cfg.Light.Visible = true
	cfg.Light.Rotation = 1
	cfg.Bloom.Intensity = 6
	cfg.SMAA.Preset = "medium"
	cfg.ToneMap.Enabled = false

	Apply(cfg, Targets{Toon: toon, Outline: outline, Marker: marker, Chain: chain})

	assert.Equal(t, uniform.DefaultIsDay, toon.Float(uniform.IsDay), "uniform writes wait for the next drain")
	_, err := toon.Drain()
	require.NoError(t, err)
	_, err = outline.Drain()
	require.NoError(t, err)

	assert.Equal(t, float32(-0.5), toon.Float(uniform.IsDay))
	assert.Equal(t, mgl32.Vec3{}, toon.Color(uniform.ShadowColor))
	assert.Equal(t, float32(0.7), outline.Float(uniform.OutlineWidth))
	assert.True(t, marker.Visible())
	assert.Equal(t, float32(1), marker.Rotation())
	assert.Equal(t, float32(6), chain.Bloom().Intensity)
	assert.Equal(t, postprocess.PresetMedium, chain.AntiAlias())
	assert.False(t, chain.ToneMap().Enabled)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Bloom.Iterations = 7
	cfg.Ambient.Color = "#102030"
	require.NoError(t, Save(cfg, path))

	got, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 7, got.Bloom.Iterations)
	assert.Equal(t, "#102030", got.Ambient.Color)
}

func TestReloadKeepsLastValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.yaml")
	writeFile(t, path, "outline:\n  width: 0.4\n")
	l := NewLoader(path)
	_, err := l.Load()
	require.NoError(t, err)

	var got []Config
	onChange := func(c Config) { got = append(got, c) }

	writeFile(t, path, "outline:\n  width: 0.6\n")
	l.handle(fsnotify.Event{Name: path, Op: fsnotify.Write}, onChange)
	require.Len(t, got, 1)
	assert.Equal(t, float32(0.6), got[0].Outline.Width)

	writeFile(t, path, "ambient:\n  color: nope\n")
	l.handle(fsnotify.Event{Name: path, Op: fsnotify.Write}, onChange)
	assert.Len(t, got, 1)
	assert.Equal(t, float32(0.6), l.Last().Outline.Width)

	l.handle(fsnotify.Event{Name: path, Op: fsnotify.Chmod}, onChange)
	assert.Len(t, got, 1)
}

func TestWatchRequiresFile(t *testing.T) {
	assert.Error(t, NewLoader("").Watch(func(Config) {}))
}
