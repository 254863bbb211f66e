// Package config loads the live-tunable parameter surface of the toon pipeline.
package config

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-toon/common"
	"github.com/Carmen-Shannon/oxy-toon/engine/light"
	"github.com/Carmen-Shannon/oxy-toon/engine/postprocess"
	"github.com/Carmen-Shannon/oxy-toon/engine/uniform"
)

// Config holds every tunable option, grouped by concern.
type Config struct {
	DayNight DayNightConfig `mapstructure:"day_night"`
	Outline  OutlineConfig  `mapstructure:"outline"`
	Ambient  AmbientConfig  `mapstructure:"ambient"`
	Light    LightConfig    `mapstructure:"light"`
	Bloom    BloomConfig    `mapstructure:"bloom"`
	Shadow   ShadowConfig   `mapstructure:"shadow"`
	Metal    MetalConfig    `mapstructure:"metal"`
	RimLight RimLightConfig `mapstructure:"rim_light"`
	ToneMap  ToneMapConfig  `mapstructure:"tone_map"`
	SMAA     SMAAConfig     `mapstructure:"smaa"`
	Render   RenderConfig   `mapstructure:"render"`
}

// DayNightConfig blends between the day and night ramp rows; -1 is night, 1 is day.
type DayNightConfig struct {
	IsDay float32 `mapstructure:"is_day"`
}

// OutlineConfig configures the silhouette outline.
type OutlineConfig struct {
	Width float32 `mapstructure:"width"`
}

// AmbientConfig configures the ambient light.
type AmbientConfig struct {
	Color     string  `mapstructure:"color"`
	Intensity float32 `mapstructure:"intensity"`
}

// Vec3Config is a 3-component vector.
type Vec3Config struct {
	X float32 `mapstructure:"x"`
	Y float32 `mapstructure:"y"`
	Z float32 `mapstructure:"z"`
}

// LightConfig configures the tracked debug light marker.
type LightConfig struct {
	Visible  bool       `mapstructure:"visible"`
	Position Vec3Config `mapstructure:"position"`
	Rotation float32    `mapstructure:"rotation"`
}

// BloomConfig configures the bloom pass.
type BloomConfig struct {
	Intensity  float32 `mapstructure:"intensity"`
	Radius     float32 `mapstructure:"radius"`
	Threshold  float32 `mapstructure:"threshold"`
	Smoothing  float32 `mapstructure:"smoothing"`
	Iterations int     `mapstructure:"iterations"`
	Glow       string  `mapstructure:"glow"`
	DepthAware bool    `mapstructure:"depth_aware"`
}

// ShadowConfig configures the shadow tint.
type ShadowConfig struct {
	Color string `mapstructure:"color"`
}

// MetalConfig holds the two independent matte and matcap weights.
type MetalConfig struct {
	Metallic   float32 `mapstructure:"metallic"`
	NoMetallic float32 `mapstructure:"no_metallic"`
}

// RimLightConfig configures the rim light.
type RimLightConfig struct {
	Width     float32 `mapstructure:"width"`
	Intensity float32 `mapstructure:"intensity"`
}

// ToneMapConfig configures the GT tone-map curve.
type ToneMapConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	MaxLuminance    float32 `mapstructure:"max_luminance"`
	Contrast        float32 `mapstructure:"contrast"`
	LinearStart     float32 `mapstructure:"linear_start"`
	LinearLength    float32 `mapstructure:"linear_length"`
	BlackTightnessC float32 `mapstructure:"black_tightness_c"`
	BlackTightnessB float32 `mapstructure:"black_tightness_b"`
}

// SMAAConfig selects the anti-alias preset: low, medium, high or ultra.
type SMAAConfig struct {
	Preset string `mapstructure:"preset"`
}

// RenderConfig holds host-side render settings.
type RenderConfig struct {
	Width      int     `mapstructure:"width"`
	Height     int     `mapstructure:"height"`
	PixelRatio float32 `mapstructure:"pixel_ratio"`
	FrameLimit int     `mapstructure:"frame_limit"`
	Workers    int     `mapstructure:"workers"`
	Near       float32 `mapstructure:"near"`
	Far        float32 `mapstructure:"far"`
}

// Default returns the configuration every option starts from.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		DayNight: DayNightConfig{IsDay: uniform.DefaultIsDay},
		Outline:  OutlineConfig{Width: uniform.DefaultOutlineWidth},
		Ambient:  AmbientConfig{Color: "#ffffff", Intensity: light.DefaultAmbientIntensity},
		Light: LightConfig{
			Visible: false,
			Position: Vec3Config{
				X: light.DefaultMarkerPosition[0],
				Y: light.DefaultMarkerPosition[1],
				Z: light.DefaultMarkerPosition[2],
			},
			Rotation: light.DefaultMarkerRotation,
		},
		Bloom: BloomConfig{
			Intensity:  postprocess.DefaultBloomIntensity,
			Radius:     postprocess.DefaultBloomRadius,
			Threshold:  postprocess.DefaultBloomThreshold,
			Smoothing:  postprocess.DefaultBloomSmoothing,
			Iterations: postprocess.DefaultBloomIterations,
			Glow:       common.FormatColor(postprocess.DefaultBloomGlow),
		},
		Shadow:   ShadowConfig{Color: "#ffffff"},
		Metal:    MetalConfig{Metallic: uniform.DefaultMetallic, NoMetallic: uniform.DefaultNoMetallic},
		RimLight: RimLightConfig{Width: uniform.DefaultRimLightWidth, Intensity: uniform.DefaultRimLightIntensity},
		ToneMap: ToneMapConfig{
			Enabled:         true,
			MaxLuminance:    postprocess.DefaultMaxLuminance,
			Contrast:        postprocess.DefaultContrast,
			LinearStart:     postprocess.DefaultLinearStart,
			LinearLength:    postprocess.DefaultLinearLength,
			BlackTightnessC: postprocess.DefaultBlackTightnessC,
			BlackTightnessB: postprocess.DefaultBlackTightnessB,
		},
		SMAA: SMAAConfig{Preset: postprocess.DefaultPreset.String()},
		Render: RenderConfig{
			Width:      1280,
			Height:     720,
			PixelRatio: 1,
			Workers:    1,
			Near:       uniform.DefaultNear,
			Far:        uniform.DefaultFar,
		},
	}
}

// Validate checks the options that cannot be clamped: colors and the preset name.
//
// Returns:
//   - error: the joined validation errors, or nil
func (c Config) Validate() error {
	var errs []error
	for key, s := range map[string]string{
		"ambient.color": c.Ambient.Color,
		"bloom.glow":    c.Bloom.Glow,
		"shadow.color":  c.Shadow.Color,
	} {
		if _, err := common.ParseColor(s); err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", key, err))
		}
	}
	if _, err := postprocess.ParsePreset(c.SMAA.Preset); err != nil {
		errs = append(errs, fmt.Errorf("config: smaa.preset: %w", err))
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("config: render size %dx%d must be positive", c.Render.Width, c.Render.Height))
	}
	return errors.Join(errs...)
}

// Clamped returns a copy with every numeric option limited to its tunable range.
func (c Config) Clamped() Config {
	c.DayNight.IsDay = common.Clamp(c.DayNight.IsDay, -1, 1)
	c.Outline.Width = common.Saturate(c.Outline.Width)
	c.Ambient.Intensity = common.Clamp(c.Ambient.Intensity, 0, light.MaxAmbientIntensity)
	c.Metal.Metallic = common.Clamp(c.Metal.Metallic, 0, 10)
	c.Metal.NoMetallic = common.Saturate(c.Metal.NoMetallic)
	c.RimLight.Width = common.Saturate(c.RimLight.Width)
	c.RimLight.Intensity = common.Clamp(c.RimLight.Intensity, 0, 10)
	c.Render.PixelRatio = common.Clamp(c.Render.PixelRatio, 0.25, 4)
	c.Render.Workers = max(c.Render.Workers, 1)
	c.Render.FrameLimit = max(c.Render.FrameLimit, 0)
	if c.Render.Near <= 0 {
		c.Render.Near = uniform.DefaultNear
	}
	if c.Render.Far <= c.Render.Near {
		c.Render.Far = max(uniform.DefaultFar, c.Render.Near*2)
	}

	bloom := c.BloomParams()
	c.Bloom.Intensity = bloom.Intensity
	c.Bloom.Radius = bloom.Radius
	c.Bloom.Threshold = bloom.Threshold
	c.Bloom.Smoothing = bloom.Smoothing
	c.Bloom.Iterations = bloom.Iterations

	tm := c.ToneMapParams()
	c.ToneMap.MaxLuminance = tm.MaxLuminance
	c.ToneMap.Contrast = tm.Contrast
	c.ToneMap.LinearStart = tm.LinearStart
	c.ToneMap.LinearLength = tm.LinearLength
	c.ToneMap.BlackTightnessC = tm.BlackTightnessC
	c.ToneMap.BlackTightnessB = tm.BlackTightnessB
	return c
}

// BloomParams converts the bloom group, clamped. An invalid glow color keeps the default tint.
func (c Config) BloomParams() postprocess.BloomParams {
	glow, err := common.ParseColor(c.Bloom.Glow)
	if err != nil {
		glow = postprocess.DefaultBloomGlow
	}
	return postprocess.BloomParams{
		Intensity:  c.Bloom.Intensity,
		Radius:     c.Bloom.Radius,
		Threshold:  c.Bloom.Threshold,
		Smoothing:  c.Bloom.Smoothing,
		Iterations: c.Bloom.Iterations,
		Glow:       glow,
		DepthAware: c.Bloom.DepthAware,
	}.Clamped()
}

// ToneMapParams converts the tone-map group, clamped.
func (c Config) ToneMapParams() postprocess.ToneMapParams {
	return postprocess.ToneMapParams{
		Enabled:         c.ToneMap.Enabled,
		MaxLuminance:    c.ToneMap.MaxLuminance,
		Contrast:        c.ToneMap.Contrast,
		LinearStart:     c.ToneMap.LinearStart,
		LinearLength:    c.ToneMap.LinearLength,
		BlackTightnessC: c.ToneMap.BlackTightnessC,
		BlackTightnessB: c.ToneMap.BlackTightnessB,
	}.Clamped()
}

// Preset returns the anti-alias preset, falling back to the default for unknown names.
func (c Config) Preset() postprocess.Preset {
	p, err := postprocess.ParsePreset(c.SMAA.Preset)
	if err != nil {
		return postprocess.DefaultPreset
	}
	return p
}
