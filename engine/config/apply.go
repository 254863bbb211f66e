package config

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-toon/common"
	"github.com/Carmen-Shannon/oxy-toon/engine/light"
	"github.com/Carmen-Shannon/oxy-toon/engine/postprocess"
	"github.com/Carmen-Shannon/oxy-toon/engine/uniform"
	"github.com/go-gl/mathgl/mgl32"
)

// Targets are the components a configuration is applied to. Nil targets are skipped.
type Targets struct {
	Toon    uniform.Set
	Outline uniform.Set
	Marker  light.Marker
	Chain   postprocess.Chain
}

// Apply maps every option onto its uniform entry or pass parameter. Uniform writes are
// queued, never written directly, so they land together at the start of the next frame.
// The marker and chain are updated immediately; both are safe for concurrent use and the
// chain only reads its parameters between frames.
//
// Parameters:
//   - cfg: the configuration; numeric values are clamped first
//   - t: the components to update
func Apply(cfg Config, t Targets) {
	cfg = cfg.Clamped()

	if t.Toon != nil {
		t.Toon.Enqueue(ToonMutation(cfg))
	}
	if t.Outline != nil {
		width := cfg.Outline.Width
		t.Outline.Enqueue(func(s uniform.Set) error {
			return s.SetFloat(uniform.OutlineWidth, width)
		})
	}
	if t.Marker != nil {
		t.Marker.SetPosition(mgl32.Vec3{cfg.Light.Position.X, cfg.Light.Position.Y, cfg.Light.Position.Z})
		t.Marker.SetRotation(cfg.Light.Rotation)
		t.Marker.SetVisible(cfg.Light.Visible)
	}
	if t.Chain != nil {
		t.Chain.SetBloom(cfg.BloomParams())
		t.Chain.SetAntiAlias(cfg.Preset())
		t.Chain.SetToneMap(cfg.ToneMapParams())
	}
}

// ToonMutation returns a single mutation writing every toon pass option. Colors that fail
// to parse keep their current value.
//
// Parameters:
//   - cfg: the clamped configuration
//
// Returns:
//   - uniform.Mutation: the queued write
func ToonMutation(cfg Config) uniform.Mutation {
	return func(s uniform.Set) error {
		errs := []error{
			s.SetFloat(uniform.IsDay, cfg.DayNight.IsDay),
			s.SetFloat(uniform.AmbientIntensity, cfg.Ambient.Intensity),
			s.SetFloat(uniform.Metallic, cfg.Metal.Metallic),
			s.SetFloat(uniform.NoMetallic, cfg.Metal.NoMetallic),
			s.SetFloat(uniform.RimLightWidth, cfg.RimLight.Width),
			s.SetFloat(uniform.RimLightIntensity, cfg.RimLight.Intensity),
			s.SetFloat(uniform.Near, cfg.Render.Near),
			s.SetFloat(uniform.Far, cfg.Render.Far),
		}
		if c, err := common.ParseColor(cfg.Ambient.Color); err == nil {
			errs = append(errs, s.SetColor(uniform.AmbientColor, c))
		}
		if c, err := common.ParseColor(cfg.Shadow.Color); err == nil {
			errs = append(errs, s.SetColor(uniform.ShadowColor, c))
		}
		return errors.Join(errs...)
	}
}
