// Package postprocess implements the fixed bloom, anti-alias and tone-map chain applied to
// the rendered color buffer.
package postprocess

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/Carmen-Shannon/oxy-toon/common"
	xdraw "golang.org/x/image/draw"
)

// ErrInvalidBuffer is returned for nil, empty or undersized buffers.
var ErrInvalidBuffer = errors.New("postprocess: invalid buffer")

// Buffer is a linear RGBA float color buffer stored row-major, four floats per pixel.
type Buffer struct {
	Width  int
	Height int
	Pix    []float32
}

// NewBuffer allocates a transparent black buffer.
//
// Parameters:
//   - width: buffer width in pixels
//   - height: buffer height in pixels
//
// Returns:
//   - *Buffer: the new buffer
func NewBuffer(width, height int) *Buffer {
	return &Buffer{Width: width, Height: height, Pix: make([]float32, width*height*4)}
}

// Validate reports whether the buffer has usable dimensions and storage.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil", ErrInvalidBuffer)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidBuffer, b.Width, b.Height)
	}
	if len(b.Pix) < b.Width*b.Height*4 {
		return fmt.Errorf("%w: %d floats for %dx%d", ErrInvalidBuffer, len(b.Pix), b.Width, b.Height)
	}
	return nil
}

// At returns the RGBA value at (x, y), clamping coordinates to the edge.
func (b *Buffer) At(x, y int) [4]float32 {
	x = common.ClampInt(x, 0, b.Width-1)
	y = common.ClampInt(y, 0, b.Height-1)
	i := (y*b.Width + x) * 4
	return [4]float32{b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]}
}

// Set writes the RGBA value at (x, y). Out of range coordinates are ignored.
func (b *Buffer) Set(x, y int, c [4]float32) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	i := (y*b.Width + x) * 4
	copy(b.Pix[i:i+4], c[:])
}

// Luminance returns the Rec. 709 luminance at (x, y).
func (b *Buffer) Luminance(x, y int) float32 {
	c := b.At(x, y)
	return common.Luminance(c[0], c[1], c[2])
}

// SameSize reports whether o has the same dimensions.
func (b *Buffer) SameSize(o *Buffer) bool {
	return o != nil && b.Width == o.Width && b.Height == o.Height
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{Width: b.Width, Height: b.Height, Pix: make([]float32, len(b.Pix))}
	copy(out.Pix, b.Pix)
	return out
}

// CopyFrom copies src into b. Both must have the same size.
func (b *Buffer) CopyFrom(src *Buffer) {
	copy(b.Pix, src.Pix)
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c [4]float32) {
	for i := 0; i+3 < len(b.Pix); i += 4 {
		copy(b.Pix[i:i+4], c[:])
	}
}

// FromImage decodes an image into a linear buffer. Color channels are treated as sRGB
// encoded and linearized; alpha is kept as is.
//
// Parameters:
//   - img: the source image
//
// Returns:
//   - *Buffer: the linear buffer
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	rgba := image.NewRGBA64(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), img, bounds.Min, xdraw.Src)

	out := NewBuffer(bounds.Dx(), bounds.Dy())
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			c := rgba.RGBA64At(x, y)
			a := float32(c.A) / math.MaxUint16
			var r, g, bl float32
			if a > 0 {
				// un-premultiply before decoding
				r = float32(c.R) / math.MaxUint16 / a
				g = float32(c.G) / math.MaxUint16 / a
				bl = float32(c.B) / math.MaxUint16 / a
			}
			out.Set(x, y, [4]float32{SRGBToLinear(r), SRGBToLinear(g), SRGBToLinear(bl), a})
		}
	}
	return out
}

// ToImage encodes the buffer to an 8-bit sRGB image. Values are saturated before encoding.
//
// Returns:
//   - *image.NRGBA: the encoded image
func (b *Buffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	to8 := func(v float32) uint8 {
		return uint8(common.Saturate(v)*255 + 0.5)
	}
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			c := b.At(x, y)
			img.SetNRGBA(x, y, color.NRGBA{
				R: to8(LinearToSRGB(c[0])),
				G: to8(LinearToSRGB(c[1])),
				B: to8(LinearToSRGB(c[2])),
				A: to8(c[3]),
			})
		}
	}
	return img
}

// SRGBToLinear decodes one sRGB channel.
func SRGBToLinear(v float32) float32 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return common.Pow((v+0.055)/1.055, 2.4)
}

// LinearToSRGB encodes one linear channel.
func LinearToSRGB(v float32) float32 {
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*common.Pow(v, 1/2.4) - 0.055
}
