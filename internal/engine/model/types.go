// Package model turns parsed OBJ/MTL data into drawable, animatable models.
// A Model aggregates one Unit per OBJ group; each Unit owns its indexed
// mesh and the GPU buffers it was uploaded to.
package model

import (
	gomath "math"

	"github.com/Faultbox/objview/pkg/math"
)

// DrawMode selects the shader a model is drawn with.
type DrawMode int

const (
	DrawColor   DrawMode = iota // flat color, positions only
	DrawTexture                 // diffuse texture, positions + UVs
)

// String returns the mode name.
func (m DrawMode) String() string {
	switch m {
	case DrawColor:
		return "color"
	case DrawTexture:
		return "texture"
	default:
		return "unknown"
	}
}

// DefaultColor is the color models are drawn with unless the caller picks one.
var DefaultColor = math.Vec4{X: 0, Y: 0, Z: 0, W: 1}

// Size is the accumulated scale of a model relative to its loaded size.
type Size struct {
	X, Y, Z float32
}

// One is the identity scale.
var One = Size{1, 1, 1}

// RotationAngles holds rotation (radians) around each axis between the
// current and the initial orientation.
type RotationAngles struct {
	X, Y, Z float32
}

const angleEpsilon = 1e-4

// Equal compares angles with a 1e-4 tolerance.
func (r RotationAngles) Equal(other RotationAngles) bool {
	return absf(r.X-other.X) < angleEpsilon &&
		absf(r.Y-other.Y) < angleEpsilon &&
		absf(r.Z-other.Z) < angleEpsilon
}

// IsZero reports whether every angle is within tolerance of zero.
func (r RotationAngles) IsZero() bool {
	return r.Equal(RotationAngles{})
}

// Normalized wraps every angle into [0, 2π).
func (r RotationAngles) Normalized() RotationAngles {
	return RotationAngles{
		X: math.NormalizeAngle(r.X),
		Y: math.NormalizeAngle(r.Y),
		Z: math.NormalizeAngle(r.Z),
	}
}

// TransformContext carries the model-wide state a unit needs to transform
// its vertices.
type TransformContext struct {
	Center math.Vec3 // pivot for scale and rotation
}

// DrawContext carries the model-wide state a unit needs to draw.
type DrawContext struct {
	Mode DrawMode
}

func absf(x float32) float32 {
	return float32(gomath.Abs(float64(x)))
}
