package postprocess

import (
	"fmt"
	"math"
	"strings"

	"github.com/Carmen-Shannon/oxy-toon/common"
)

// Preset selects the anti-aliasing quality.
type Preset int

const (
	PresetLow Preset = iota
	PresetMedium
	PresetHigh
	PresetUltra
)

// DefaultPreset is the default anti-aliasing quality.
const DefaultPreset = PresetUltra

// String returns the lowercase preset name.
func (p Preset) String() string {
	switch p {
	case PresetLow:
		return "low"
	case PresetMedium:
		return "medium"
	case PresetHigh:
		return "high"
	case PresetUltra:
		return "ultra"
	default:
		return fmt.Sprintf("preset(%d)", int(p))
	}
}

// Clamped limits p to the known presets.
func (p Preset) Clamped() Preset {
	return Preset(common.ClampInt(int(p), int(PresetLow), int(PresetUltra)))
}

// ParsePreset parses a preset name, case-insensitively.
//
// Parameters:
//   - s: the preset name
//
// Returns:
//   - Preset: the parsed preset
//   - error: error if the name is unknown
func ParsePreset(s string) (Preset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PresetLow, nil
	case "medium":
		return PresetMedium, nil
	case "high":
		return PresetHigh, nil
	case "ultra":
		return PresetUltra, nil
	}
	return DefaultPreset, fmt.Errorf("postprocess: unknown anti-alias preset %q", s)
}

// PresetSettings are the edge detection parameters behind a preset.
type PresetSettings struct {
	// Threshold is the luma contrast that marks an edge.
	Threshold float32

	// MaxSearchSteps bounds the edge run search in each direction.
	MaxSearchSteps int
}

// Settings returns the edge detection parameters of the preset.
func (p Preset) Settings() PresetSettings {
	switch p.Clamped() {
	case PresetLow:
		return PresetSettings{Threshold: 0.15, MaxSearchSteps: 4}
	case PresetMedium:
		return PresetSettings{Threshold: 0.1, MaxSearchSteps: 8}
	case PresetHigh:
		return PresetSettings{Threshold: 0.1, MaxSearchSteps: 16}
	default:
		return PresetSettings{Threshold: 0.05, MaxSearchSteps: 32}
	}
}

// antiAlias is a morphological anti-aliasing pass. Edges are detected on perceptual luma,
// edge runs are measured along the edge, and each edge pixel is blended with its neighbor
// across the edge by a weight that is largest at the ends of a run, where staircase steps sit.
type antiAlias struct {
	preset Preset
	luma   []float32
}

func newAntiAlias(p Preset) *antiAlias {
	return &antiAlias{preset: p.Clamped()}
}

func (a *antiAlias) Kind() Kind {
	return KindAntiAlias
}

func (a *antiAlias) Apply(_ FrameContext, rows RowRunner, src, dst *Buffer) {
	settings := a.preset.Settings()
	w, h := src.Width, src.Height
	if cap(a.luma) < w*h {
		a.luma = make([]float32, w*h)
	}
	luma := a.luma[:w*h]

	rows.Run(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				c := src.At(x, y)
				luma[y*w+x] = perceptualLuma(c)
			}
		}
	})

	lumaAt := func(x, y int) float32 {
		return luma[common.ClampInt(y, 0, h-1)*w+common.ClampInt(x, 0, w-1)]
	}
	// edgeTop reports an edge between (x, y) and (x, y-1); edgeLeft between (x, y) and (x-1, y).
	edgeTop := func(x, y int) bool {
		return y > 0 && x >= 0 && x < w && abs32(lumaAt(x, y)-lumaAt(x, y-1)) > settings.Threshold
	}
	edgeLeft := func(x, y int) bool {
		return x > 0 && y >= 0 && y < h && abs32(lumaAt(x, y)-lumaAt(x-1, y)) > settings.Threshold
	}

	rows.Run(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				c := src.At(x, y)
				best := float32(0)
				var nx, ny int

				if edgeTop(x, y) {
					if wt := runWeight(settings.MaxSearchSteps, func(d int) bool { return edgeTop(x-d, y) }, func(d int) bool { return edgeTop(x+d, y) }); wt > best {
						best, nx, ny = wt, x, y-1
					}
				}
				if y+1 < h && edgeTop(x, y+1) {
					if wt := runWeight(settings.MaxSearchSteps, func(d int) bool { return edgeTop(x-d, y+1) }, func(d int) bool { return edgeTop(x+d, y+1) }); wt > best {
						best, nx, ny = wt, x, y+1
					}
				}
				if edgeLeft(x, y) {
					if wt := runWeight(settings.MaxSearchSteps, func(d int) bool { return edgeLeft(x, y-d) }, func(d int) bool { return edgeLeft(x, y+d) }); wt > best {
						best, nx, ny = wt, x-1, y
					}
				}
				if x+1 < w && edgeLeft(x+1, y) {
					if wt := runWeight(settings.MaxSearchSteps, func(d int) bool { return edgeLeft(x+1, y-d) }, func(d int) bool { return edgeLeft(x+1, y+d) }); wt > best {
						best, nx, ny = wt, x+1, y
					}
				}

				if best > 0 {
					n := src.At(nx, ny)
					for i := range 4 {
						c[i] = common.Lerp(c[i], n[i], best)
					}
				}
				dst.Set(x, y, c)
			}
		}
	})
}

// runWeight measures the edge run through the current pixel, up to maxSteps each way, and
// returns the blend weight for the pixel's position in it. A run that spans the full search
// window in both directions is a straight edge and is not blended.
func runWeight(maxSteps int, back, fwd func(d int) bool) float32 {
	dl, dr := 0, 0
	for dl < maxSteps && back(dl+1) {
		dl++
	}
	for dr < maxSteps && fwd(dr+1) {
		dr++
	}
	if dl == maxSteps && dr == maxSteps {
		return 0
	}
	length := float32(dl + dr + 1)
	pos := float32(min(dl, dr)) + 0.5
	return 0.5 * (1 - pos/(length/2+0.5))
}

// perceptualLuma is the luma of a gamma-encoded approximation of the linear color, which
// matches the contrast a viewer perceives at an edge.
func perceptualLuma(c [4]float32) float32 {
	l := common.Luminance(common.Saturate(c[0]), common.Saturate(c[1]), common.Saturate(c[2]))
	return float32(math.Sqrt(float64(l)))
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
