package math

import "math"

// TwoPi is 2π as float32.
const TwoPi = float32(2 * math.Pi)

// NormalizeAngle wraps an angle in radians into [0, 2π).
func NormalizeAngle(a float32) float32 {
	v := float32(math.Mod(float64(a), float64(TwoPi)))
	if v < 0 {
		v += TwoPi
	}
	// float32 rounding can land exactly on 2π for tiny negative inputs
	if v >= TwoPi {
		v = 0
	}
	return v
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sincos returns sin and cos of a float32 angle.
func Sincos(a float32) (sin, cos float32) {
	s, c := math.Sincos(float64(a))
	return float32(s), float32(c)
}
