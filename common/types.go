// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// ColorSpace tags how a texture's texels are encoded.
type ColorSpace int

const (
	// ColorSpaceLinear marks data textures (ramps, light maps, normals) sampled without decoding.
	ColorSpaceLinear ColorSpace = iota

	// ColorSpaceSRGB marks display-encoded color textures that are decoded to linear on sample.
	ColorSpaceSRGB
)

// String returns the lowercase name of the color space.
func (c ColorSpace) String() string {
	if c == ColorSpaceSRGB {
		return "srgb"
	}
	return "linear"
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV specify the addressing mode for texture coordinates outside the [0, 1] range.
	AddressModeU, AddressModeV wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMaxClamp caps the mip level; zero disables mip sampling for textures without mipmaps.
	LodMaxClamp float32
}

// DefaultSamplerStagingData returns a linear, clamp-to-edge sampler with mip sampling enabled.
//
// Returns:
//   - SamplerStagingData: the default sampler configuration
func DefaultSamplerStagingData() SamplerStagingData {
	return SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		MipmapFilter: wgpu.MipmapFilterModeLinear,
		LodMaxClamp:  32,
	}
}

// TextureAsset is a named image referenced by a material or a uniform. The pixel data is
// produced by an external loader (or Decode); the import tags describe how the host
// must upload and sample it.
type TextureAsset struct {
	// Name is an identifier for this texture (e.g., "hair.light", "body.ramp").
	Name string

	// Path is the file path for external textures (empty for embedded).
	Path string

	// Data contains raw image bytes for embedded textures (PNG/JPEG).
	Data []byte

	// MimeType indicates the image format (e.g., "image/png").
	MimeType string

	// Pixels holds decoded RGBA pixel data (4 bytes per pixel, row-major), populated by Decode.
	Pixels []byte

	// Width is the texture width in pixels (populated after Decode).
	Width int

	// Height is the texture height in pixels (populated after Decode).
	Height int

	// FlipY flips rows on decode. Textures authored with a top-left origin leave it off.
	FlipY bool

	// ColorSpace tags the texel encoding.
	ColorSpace ColorSpace

	// GenerateMipmaps requests a mip chain on upload.
	GenerateMipmaps bool

	// Sampler holds the sampler configuration used when binding this texture.
	Sampler SamplerStagingData
}

// NewTextureAsset creates a texture with the default import tags: bottom-left origin,
// linear data encoding, mipmaps on and a clamped linear sampler. Color maps that hold
// display-encoded texels must be retagged with ColorSpaceSRGB.
//
// Parameters:
//   - name: the texture identifier
//
// Returns:
//   - *TextureAsset: the new texture asset
func NewTextureAsset(name string) *TextureAsset {
	return &TextureAsset{
		Name:            name,
		FlipY:           true,
		ColorSpace:      ColorSpaceLinear,
		GenerateMipmaps: true,
		Sampler:         DefaultSamplerStagingData(),
	}
}

// NewDepthTextureAsset creates the handle materials bind for the captured depth buffer.
// The capture collaborator owns its contents; it is never decoded, flipped or mipmapped
// and is sampled without filtering.
//
// Returns:
//   - *TextureAsset: the depth texture handle
func NewDepthTextureAsset() *TextureAsset {
	sampler := DefaultSamplerStagingData()
	sampler.MagFilter = wgpu.FilterModeNearest
	sampler.MinFilter = wgpu.FilterModeNearest
	sampler.MipmapFilter = wgpu.MipmapFilterModeNearest
	sampler.LodMaxClamp = 0
	return &TextureAsset{
		Name:       "depth",
		ColorSpace: ColorSpaceLinear,
		Sampler:    sampler,
	}
}

// DisableMipmaps turns off mip generation and clamps sampling to the base level.
func (t *TextureAsset) DisableMipmaps() {
	t.GenerateMipmaps = false
	t.Sampler.MipmapFilter = wgpu.MipmapFilterModeNearest
	t.Sampler.LodMaxClamp = 0
}

// SetRepeat switches both texture axes to repeat addressing.
func (t *TextureAsset) SetRepeat() {
	t.Sampler.AddressModeU = wgpu.AddressModeRepeat
	t.Sampler.AddressModeV = wgpu.AddressModeRepeat
}

// Decoded reports whether pixel data is available.
func (t *TextureAsset) Decoded() bool {
	return t != nil && len(t.Pixels) > 0 && t.Width > 0 && t.Height > 0
}

// Decode decodes the texture to raw RGBA pixel data, honouring FlipY.
// Uses either embedded Data bytes or loads from Path on disk.
//
// Returns:
//   - error: error if decoding fails
func (t *TextureAsset) Decode() error {
	if t == nil {
		return fmt.Errorf("texture is nil")
	}

	var img image.Image
	var err error

	if len(t.Data) > 0 {
		img, _, err = image.Decode(bytes.NewReader(t.Data))
		if err != nil {
			return fmt.Errorf("failed to decode embedded image %s: %w", t.Name, err)
		}
	} else if t.Path != "" {
		file, fileErr := os.Open(t.Path)
		if fileErr != nil {
			return fmt.Errorf("failed to open texture file %s: %w", t.Path, fileErr)
		}
		defer file.Close()

		img, _, err = image.Decode(file)
		if err != nil {
			return fmt.Errorf("failed to decode texture file %s: %w", t.Path, err)
		}
	} else {
		return fmt.Errorf("texture %s has neither data nor path", t.Name)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	if t.FlipY {
		stride := rgba.Stride
		row := make([]byte, stride)
		for y := 0; y < rgba.Rect.Dy()/2; y++ {
			top := rgba.Pix[y*stride : (y+1)*stride]
			bottom := rgba.Pix[(rgba.Rect.Dy()-1-y)*stride : (rgba.Rect.Dy()-y)*stride]
			copy(row, top)
			copy(top, bottom)
			copy(bottom, row)
		}
	}

	t.Pixels = rgba.Pix
	t.Width = bounds.Dx()
	t.Height = bounds.Dy()
	return nil
}
