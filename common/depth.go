package common

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// DepthTexture is a per-frame snapshot of the depth buffer with normalized depth values
// in [0, 1] (0 = near plane, 1 = far plane), stored row-major.
type DepthTexture struct {
	Width  int
	Height int
	Depth  []float32
}

// DepthSource is the external depth-capture collaborator. DepthTexture may return nil
// while no snapshot is available (for example during a resize); consumers must then fall
// back to depth-independent behavior for that frame.
type DepthSource interface {
	DepthTexture() *DepthTexture
}

// NewDepthTexture allocates a depth texture cleared to the far plane.
//
// Parameters:
//   - width: texture width in pixels
//   - height: texture height in pixels
//
// Returns:
//   - *DepthTexture: the new depth texture
func NewDepthTexture(width, height int) *DepthTexture {
	d := &DepthTexture{
		Width:  width,
		Height: height,
		Depth:  make([]float32, width*height),
	}
	for i := range d.Depth {
		d.Depth[i] = 1
	}
	return d
}

// Valid reports whether the texture has usable dimensions and storage.
func (d *DepthTexture) Valid() bool {
	return d != nil && d.Width > 0 && d.Height > 0 && len(d.Depth) >= d.Width*d.Height
}

// At returns the depth at pixel (x, y), clamping coordinates to the texture edge.
//
// Parameters:
//   - x, y: pixel coordinates
//
// Returns:
//   - float32: the normalized depth
func (d *DepthTexture) At(x, y int) float32 {
	x = ClampInt(x, 0, d.Width-1)
	y = ClampInt(y, 0, d.Height-1)
	return d.Depth[y*d.Width+x]
}

// Set writes the depth at pixel (x, y). Out of range coordinates are ignored.
func (d *DepthTexture) Set(x, y int, depth float32) {
	if x < 0 || y < 0 || x >= d.Width || y >= d.Height {
		return
	}
	d.Depth[y*d.Width+x] = depth
}

// Resize returns a copy of the texture scaled to width x height. Depth is resampled with
// nearest-neighbour filtering so edges stay hard; interpolating across a silhouette would
// invent depths that belong to neither surface. A texture already at the requested size
// is returned unchanged.
//
// Parameters:
//   - width: target width in pixels
//   - height: target height in pixels
//
// Returns:
//   - *DepthTexture: the resized texture, or nil if either the source or the target size is invalid
func (d *DepthTexture) Resize(width, height int) *DepthTexture {
	if !d.Valid() || width <= 0 || height <= 0 {
		return nil
	}
	if d.Width == width && d.Height == height {
		return d
	}

	src := image.NewGray16(image.Rect(0, 0, d.Width, d.Height))
	for i, v := range d.Depth[:d.Width*d.Height] {
		q := uint16(Saturate(v)*math.MaxUint16 + 0.5)
		src.Pix[i*2] = uint8(q >> 8)
		src.Pix[i*2+1] = uint8(q)
	}

	dst := image.NewGray16(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	out := &DepthTexture{Width: width, Height: height, Depth: make([]float32, width*height)}
	for i := range out.Depth {
		q := uint16(dst.Pix[i*2])<<8 | uint16(dst.Pix[i*2+1])
		out.Depth[i] = float32(q) / math.MaxUint16
	}
	return out
}
