package postprocess

import (
	"github.com/Carmen-Shannon/oxy-toon/common"
)

// Tone-map defaults and bounds.
const (
	DefaultMaxLuminance    float32 = 2
	DefaultContrast        float32 = 1
	DefaultLinearStart     float32 = 0.1
	DefaultLinearLength    float32 = 0.12
	DefaultBlackTightnessC float32 = 1.69
	DefaultBlackTightnessB float32 = 0
)

// ToneMapParams configures the GT (Uchimura) filmic curve.
type ToneMapParams struct {
	// Enabled turns the pass on; when false the buffer passes through unmodified.
	Enabled bool

	// MaxLuminance is the curve's shoulder asymptote, in [1, 100].
	MaxLuminance float32

	// Contrast is the slope of the linear section, in [1, 5].
	Contrast float32

	// LinearStart is where the linear section begins, in [0, 1].
	LinearStart float32

	// LinearLength is the length of the linear section, in [0, 0.99].
	LinearLength float32

	// BlackTightnessC is the toe exponent, in [1, 3].
	BlackTightnessC float32

	// BlackTightnessB is the toe pedestal, in [0, 1].
	BlackTightnessB float32
}

// DefaultToneMapParams returns the default curve, enabled.
func DefaultToneMapParams() ToneMapParams {
	return ToneMapParams{
		Enabled:         true,
		MaxLuminance:    DefaultMaxLuminance,
		Contrast:        DefaultContrast,
		LinearStart:     DefaultLinearStart,
		LinearLength:    DefaultLinearLength,
		BlackTightnessC: DefaultBlackTightnessC,
		BlackTightnessB: DefaultBlackTightnessB,
	}
}

// Clamped returns a copy with every parameter limited to its valid range.
func (p ToneMapParams) Clamped() ToneMapParams {
	p.MaxLuminance = common.Clamp(p.MaxLuminance, 1, 100)
	p.Contrast = common.Clamp(p.Contrast, 1, 5)
	p.LinearStart = common.Saturate(p.LinearStart)
	p.LinearLength = common.Clamp(p.LinearLength, 0, 0.99)
	p.BlackTightnessC = common.Clamp(p.BlackTightnessC, 1, 3)
	p.BlackTightnessB = common.Saturate(p.BlackTightnessB)
	return p
}

// gtCurve holds the per-frame constants of the curve.
type gtCurve struct {
	p, a, m, c, b float32
	l0, s0, s1    float32
	cp            float32
}

func newGTCurve(params ToneMapParams) gtCurve {
	g := gtCurve{
		p: params.MaxLuminance,
		a: params.Contrast,
		m: params.LinearStart,
		c: params.BlackTightnessC,
		b: params.BlackTightnessB,
	}
	g.l0 = (g.p - g.m) * params.LinearLength / g.a
	g.s0 = g.m + g.l0
	g.s1 = g.m + g.a*g.l0
	if d := g.p - g.s1; d > 1e-6 {
		c2 := g.a * g.p / d
		g.cp = -c2 / g.p
	}
	return g
}

// Eval maps one linear channel value through the curve. Only sections with a nonzero
// weight are evaluated, so the toe is never raised to a power at a degenerate start.
func (g gtCurve) Eval(x float32) float32 {
	w0 := 1 - common.Smoothstep(0, g.m, x)
	w2 := common.Step(g.m+g.l0, x)
	w1 := 1 - w0 - w2

	var out float32
	if w0 != 0 {
		toe := g.b
		if g.m > 0 {
			toe += g.m * common.Pow(max(x, 0)/g.m, g.c)
		}
		out += w0 * toe
	}
	if w1 != 0 {
		out += w1 * (g.m + g.a*(x-g.m))
	}
	if w2 != 0 {
		shoulder := g.p
		if g.cp != 0 {
			shoulder = g.p - (g.p-g.s1)*common.Exp(g.cp*(x-g.s0))
		}
		out += w2 * shoulder
	}
	return out
}

// GTToneMap evaluates the curve for a single value with the given parameters.
//
// Parameters:
//   - params: the curve parameters; they are clamped first
//   - x: the linear input value
//
// Returns:
//   - float32: the tone-mapped value
func GTToneMap(params ToneMapParams, x float32) float32 {
	return newGTCurve(params.Clamped()).Eval(x)
}

// toneMap is the tone-mapping pass.
type toneMap struct {
	params ToneMapParams
}

func newToneMap(p ToneMapParams) *toneMap {
	return &toneMap{params: p.Clamped()}
}

func (t *toneMap) Kind() Kind {
	return KindToneMap
}

func (t *toneMap) Apply(_ FrameContext, rows RowRunner, src, dst *Buffer) {
	if !t.params.Enabled {
		dst.CopyFrom(src)
		return
	}
	curve := newGTCurve(t.params)
	rows.Run(src.Height, func(y0, y1 int) {
		for i := y0 * src.Width * 4; i < y1*src.Width*4; i += 4 {
			dst.Pix[i] = curve.Eval(src.Pix[i])
			dst.Pix[i+1] = curve.Eval(src.Pix[i+1])
			dst.Pix[i+2] = curve.Eval(src.Pix[i+2])
			dst.Pix[i+3] = src.Pix[i+3]
		}
	})
}
