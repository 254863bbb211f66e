package common

import (
	"math"
)

// Clamp restricts x to the closed range [lo, hi].
//
// Parameters:
//   - x: the value to clamp
//   - lo: the lower bound
//   - hi: the upper bound
//
// Returns:
//   - float32: x limited to [lo, hi]
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// ClampInt restricts x to the closed range [lo, hi].
//
// Parameters:
//   - x: the value to clamp
//   - lo: the lower bound
//   - hi: the upper bound
//
// Returns:
//   - int: x limited to [lo, hi]
func ClampInt(x, lo, hi int) int {
	return min(max(x, lo), hi)
}

// Saturate clamps x to [0, 1].
func Saturate(x float32) float32 {
	return Clamp(x, 0, 1)
}

// Smoothstep performs Hermite interpolation between edge0 and edge1, matching the
// WGSL/GLSL builtin. When the edges collapse (edge1 <= edge0) it degrades to a hard
// step at edge0 instead of dividing by zero.
//
// Parameters:
//   - edge0: the lower edge of the transition
//   - edge1: the upper edge of the transition
//   - x: the input value
//
// Returns:
//   - float32: 0 below edge0, 1 above edge1, a smooth curve in between
func Smoothstep(edge0, edge1, x float32) float32 {
	if edge1 <= edge0 {
		if x >= edge0 {
			return 1
		}
		return 0
	}
	t := Saturate((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// Step returns 1 when x >= edge, otherwise 0.
func Step(edge, x float32) float32 {
	if x >= edge {
		return 1
	}
	return 0
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Luminance returns the Rec. 709 relative luminance of a linear RGB color.
//
// Parameters:
//   - r, g, b: linear color channels
//
// Returns:
//   - float32: the weighted luminance
func Luminance(r, g, b float32) float32 {
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// WrapDelta reduces a frame delta modulo one time unit. The sign of the input is kept,
// so a delta of 1.25 becomes 0.25 and 0.999 passes through untouched. Infinite or NaN
// deltas come back as NaN, matching a plain floating point modulo.
//
// Parameters:
//   - delta: the elapsed time since the previous frame, in seconds
//
// Returns:
//   - float32: delta mod 1
func WrapDelta(delta float32) float32 {
	return float32(math.Mod(float64(delta), 1))
}

// Pow is a float32 convenience wrapper around math.Pow.
func Pow(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}

// Exp is a float32 convenience wrapper around math.Exp.
func Exp(x float32) float32 {
	return float32(math.Exp(float64(x)))
}
