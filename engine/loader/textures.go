package loader

import (
	"fmt"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-toon/common"
	"github.com/Carmen-Shannon/oxy-toon/engine/renderer/material"
)

// Texture file names relative to the texture root directory.
const (
	FaceLightMapFile = "Face/faceLightmap.png"
	HairLightFile    = "Hair/light.png"
	HairRampFile     = "Hair/ramp.png"
	HairNormalFile   = "Hair/normal.png"
	BodyLightFile    = "Body/light.png"
	BodyRampFile     = "Body/ramp.png"
	BodyNormalFile   = "Body/normal.png"
	BodyEmissiveFile = "Body/emissive.png"
	MetalMapFile     = "matcap/metalMap.png"
)

// TextureFiles lists every file LoadTextureSet reads, in load order.
var TextureFiles = []string{
	FaceLightMapFile,
	HairLightFile, HairRampFile, HairNormalFile,
	BodyLightFile, BodyRampFile, BodyNormalFile, BodyEmissiveFile,
	MetalMapFile,
}

func (l *loader) LoadTextures(dir string) (*material.TextureSet, error) {
	set, err := LoadTextureSet(dir)
	if err != nil {
		l.logger.Error().Err(err).Str("dir", dir).Msg("texture load failed")
		return nil, err
	}
	l.logger.Info().Str("dir", dir).Int("textures", len(TextureFiles)).Msg("textures loaded")
	return set, nil
}

// LoadTextureSet reads the character textures from dir. Import tags are applied before
// decoding so row order already matches each texture's origin. The light maps carry
// display-encoded color and are tagged sRGB.
//
// Parameters:
//   - dir: the texture root directory
//
// Returns:
//   - *material.TextureSet: the decoded textures
//   - error: the first texture that failed to decode
func LoadTextureSet(dir string) (*material.TextureSet, error) {
	open := func(file string) *common.TextureAsset {
		t := common.NewTextureAsset(file)
		t.Path = filepath.Join(dir, filepath.FromSlash(file))
		t.MimeType = "image/png"
		return t
	}
	set := &material.TextureSet{
		FaceLightMap: open(FaceLightMapFile),
		HairLight:    open(HairLightFile),
		HairRamp:     open(HairRampFile),
		HairNormal:   open(HairNormalFile),
		BodyLight:    open(BodyLightFile),
		BodyRamp:     open(BodyRampFile),
		BodyNormal:   open(BodyNormalFile),
		BodyEmissive: open(BodyEmissiveFile),
		MetalMap:     open(MetalMapFile),
	}
	set.HairLight.ColorSpace = common.ColorSpaceSRGB
	set.BodyLight.ColorSpace = common.ColorSpaceSRGB
	set.ApplyImportTags()

	for _, t := range []*common.TextureAsset{
		set.FaceLightMap,
		set.HairLight, set.HairRamp, set.HairNormal,
		set.BodyLight, set.BodyRamp, set.BodyNormal, set.BodyEmissive,
		set.MetalMap,
	} {
		if err := t.Decode(); err != nil {
			return nil, fmt.Errorf("loader: texture %s: %w", t.Name, err)
		}
	}
	return set, nil
}
