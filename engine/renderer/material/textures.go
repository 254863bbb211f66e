package material

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-toon/common"
	"github.com/Carmen-Shannon/oxy-toon/engine/uniform"
)

// TextureSet holds the character textures the builders bind by category. The face light
// map and the metal matcap are shared by every instance and live in the uniform set; the
// rest are attached per instance.
type TextureSet struct {
	FaceLightMap *common.TextureAsset

	HairLight  *common.TextureAsset
	HairRamp   *common.TextureAsset
	HairNormal *common.TextureAsset

	BodyLight    *common.TextureAsset
	BodyRamp     *common.TextureAsset
	BodyNormal   *common.TextureAsset
	BodyEmissive *common.TextureAsset

	MetalMap *common.TextureAsset
}

// ApplyImportTags sets the orientation, color space, wrap and mipmap tags each texture must
// be uploaded with. Light, normal and emissive maps are authored with a top-left origin;
// ramps are sampled per row and must not be mipmapped. Nil entries are skipped.
func (t *TextureSet) ApplyImportTags() {
	if tex := t.FaceLightMap; tex != nil {
		tex.DisableMipmaps()
		tex.FlipY = false
	}
	for _, tex := range []*common.TextureAsset{t.HairLight, t.HairNormal, t.BodyLight, t.BodyNormal} {
		if tex == nil {
			continue
		}
		tex.FlipY = false
		tex.SetRepeat()
	}
	if tex := t.HairRamp; tex != nil {
		tex.DisableMipmaps()
		tex.ColorSpace = common.ColorSpaceLinear
	}
	if tex := t.BodyEmissive; tex != nil {
		tex.FlipY = false
		tex.ColorSpace = common.ColorSpaceSRGB
	}
	if tex := t.BodyRamp; tex != nil {
		tex.DisableMipmaps()
	}
}

// BindShared writes the shared texture slots (face light map, metal matcap) into the toon set.
//
// Parameters:
//   - s: the toon uniform set
//
// Returns:
//   - error: error if a slot was declared with another kind
func (t *TextureSet) BindShared(s uniform.Set) error {
	if err := s.SetTexture(uniform.FaceLightMap, t.FaceLightMap); err != nil {
		return err
	}
	return s.SetTexture(uniform.MetalMap, t.MetalMap)
}

// All returns every texture keyed by its slot name, including nil entries.
func (t *TextureSet) All() map[string]*common.TextureAsset {
	return map[string]*common.TextureAsset{
		"face.light":    t.FaceLightMap,
		"hair.light":    t.HairLight,
		"hair.ramp":     t.HairRamp,
		"hair.normal":   t.HairNormal,
		"body.light":    t.BodyLight,
		"body.ramp":     t.BodyRamp,
		"body.normal":   t.BodyNormal,
		"body.emissive": t.BodyEmissive,
		"matcap.metal":  t.MetalMap,
	}
}

// requireTextures returns ErrMissingTexture naming the first nil texture.
func requireTextures(material string, category Category, named ...any) error {
	for i := 0; i+1 < len(named); i += 2 {
		if named[i+1].(*common.TextureAsset) == nil {
			return fmt.Errorf("%w: %s texture for %s material %q", ErrMissingTexture, named[i], category, material)
		}
	}
	return nil
}
