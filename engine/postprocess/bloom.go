package postprocess

import (
	"math"

	"github.com/Carmen-Shannon/oxy-toon/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Bloom parameter defaults and bounds.
const (
	DefaultBloomIntensity  float32 = 3.5
	DefaultBloomRadius     float32 = 4
	DefaultBloomThreshold  float32 = 0.75
	DefaultBloomSmoothing  float32 = 0.05
	DefaultBloomIterations         = 3

	MaxBloomIntensity  float32 = 10
	MaxBloomRadius     float32 = 10
	MaxBloomIterations         = 10

	// DefaultDepthTolerance is the largest normalized depth difference a depth-aware blur
	// still averages across.
	DefaultDepthTolerance float32 = 0.02
)

// DefaultBloomGlow is the default glow tint (#6b3a3a).
var DefaultBloomGlow = mgl32.Vec3{0x6b / 255.0, 0x3a / 255.0, 0x3a / 255.0}

// BloomParams configures bloom extraction, blur and composite.
type BloomParams struct {
	// Intensity scales the composited glow.
	Intensity float32

	// Radius is the blur radius in pixels per iteration.
	Radius float32

	// Threshold is the luminance where extraction starts.
	Threshold float32

	// Smoothing is the soft-knee width above Threshold.
	Smoothing float32

	// Iterations is the number of blur passes; each widens the spread.
	Iterations int

	// Glow tints the extracted light.
	Glow mgl32.Vec3

	// DepthAware rejects blur samples across depth discontinuities when depth is available.
	DepthAware bool

	// DepthTolerance is the depth difference treated as a discontinuity.
	DepthTolerance float32
}

// DefaultBloomParams returns the default bloom configuration.
func DefaultBloomParams() BloomParams {
	return BloomParams{
		Intensity:      DefaultBloomIntensity,
		Radius:         DefaultBloomRadius,
		Threshold:      DefaultBloomThreshold,
		Smoothing:      DefaultBloomSmoothing,
		Iterations:     DefaultBloomIterations,
		Glow:           DefaultBloomGlow,
		DepthTolerance: DefaultDepthTolerance,
	}
}

// Clamped returns a copy with every parameter limited to its valid range. A negative
// radius becomes zero.
func (p BloomParams) Clamped() BloomParams {
	p.Intensity = common.Clamp(p.Intensity, 0, MaxBloomIntensity)
	p.Radius = common.Clamp(p.Radius, 0, MaxBloomRadius)
	p.Threshold = common.Saturate(p.Threshold)
	p.Smoothing = common.Saturate(p.Smoothing)
	p.Iterations = common.ClampInt(p.Iterations, 1, MaxBloomIterations)
	p.Glow = mgl32.Vec3{common.Saturate(p.Glow[0]), common.Saturate(p.Glow[1]), common.Saturate(p.Glow[2])}
	if p.DepthTolerance <= 0 {
		p.DepthTolerance = DefaultDepthTolerance
	}
	return p
}

// Weight returns the soft-knee extraction weight for a luminance.
func (p BloomParams) Weight(luminance float32) float32 {
	return common.Smoothstep(p.Threshold, p.Threshold+p.Smoothing, luminance)
}

// bloom is the bloom pass. Its scratch buffers are reused between frames.
type bloom struct {
	params BloomParams
	bright *Buffer
	tmp    *Buffer
}

func newBloom(p BloomParams) *bloom {
	return &bloom{params: p.Clamped()}
}

func (b *bloom) Kind() Kind {
	return KindBloom
}

func (b *bloom) Apply(ctx FrameContext, rows RowRunner, src, dst *Buffer) {
	p := b.params
	if p.Intensity == 0 {
		dst.CopyFrom(src)
		return
	}
	if !src.SameSize(b.bright) {
		b.bright = NewBuffer(src.Width, src.Height)
		b.tmp = NewBuffer(src.Width, src.Height)
	}

	var depth *common.DepthTexture
	if p.DepthAware {
		depth = ctx.depthFor(src)
	}

	b.extract(rows, src)
	for i := range p.Iterations {
		radius := p.Radius * float32(i+1)
		b.blur(rows, b.bright, b.tmp, radius, depth, true)
		b.blur(rows, b.tmp, b.bright, radius, depth, false)
	}
	b.composite(rows, src, dst)
}

// extract writes the soft-knee weighted, glow-tinted bright pixels into b.bright.
func (b *bloom) extract(rows RowRunner, src *Buffer) {
	p := b.params
	rows.Run(src.Height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < src.Width; x++ {
				c := src.At(x, y)
				w := p.Weight(common.Luminance(c[0], c[1], c[2]))
				b.bright.Set(x, y, [4]float32{c[0] * w * p.Glow[0], c[1] * w * p.Glow[1], c[2] * w * p.Glow[2], 0})
			}
		}
	})
}

// blur runs one separable gaussian direction from in to out.
func (b *bloom) blur(rows RowRunner, in, out *Buffer, radius float32, depth *common.DepthTexture, horizontal bool) {
	kernel := gaussianKernel(radius)
	if len(kernel) == 1 {
		out.CopyFrom(in)
		return
	}
	tolerance := b.params.DepthTolerance

	rows.Run(in.Height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < in.Width; x++ {
				var center float32
				if depth != nil {
					center = depth.At(x, y)
				}
				var sum [3]float32
				var total float32
				for k, w := range kernel {
					off := k - len(kernel)/2
					sx, sy := x+off, y
					if !horizontal {
						sx, sy = x, y+off
					}
					if depth != nil && float32(math.Abs(float64(depth.At(sx, sy)-center))) > tolerance {
						continue
					}
					c := in.At(sx, sy)
					sum[0] += c[0] * w
					sum[1] += c[1] * w
					sum[2] += c[2] * w
					total += w
				}
				if total > 0 {
					sum[0] /= total
					sum[1] /= total
					sum[2] /= total
				}
				out.Set(x, y, [4]float32{sum[0], sum[1], sum[2], 0})
			}
		}
	})
}

// composite adds the blurred glow onto the source.
func (b *bloom) composite(rows RowRunner, src, dst *Buffer) {
	k := b.params.Intensity
	rows.Run(src.Height, func(y0, y1 int) {
		for i := y0 * src.Width * 4; i < y1*src.Width*4; i += 4 {
			dst.Pix[i] = src.Pix[i] + b.bright.Pix[i]*k
			dst.Pix[i+1] = src.Pix[i+1] + b.bright.Pix[i+1]*k
			dst.Pix[i+2] = src.Pix[i+2] + b.bright.Pix[i+2]*k
			dst.Pix[i+3] = src.Pix[i+3]
		}
	})
}

// gaussianKernel returns normalized weights covering [-ceil(radius), ceil(radius)] with
// sigma = radius / 2. A zero radius yields the identity kernel.
func gaussianKernel(radius float32) []float32 {
	half := int(math.Ceil(float64(radius)))
	if half <= 0 {
		return []float32{1}
	}
	sigma := float64(radius) / 2
	kernel := make([]float32, 2*half+1)
	var total float32
	for i := range kernel {
		d := float64(i - half)
		w := float32(math.Exp(-d * d / (2 * sigma * sigma)))
		kernel[i] = w
		total += w
	}
	for i := range kernel {
		kernel[i] /= total
	}
	return kernel
}
