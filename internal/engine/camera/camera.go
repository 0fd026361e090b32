// Package camera provides the hemisphere orbit camera used by the viewer.
package camera

import (
	gomath "math"

	"github.com/Faultbox/objview/pkg/math"
)

const (
	// DepthNear is the near clipping plane and the smallest render distance.
	DepthNear = 0.01
	// FOV is the vertical field of view in radians.
	FOV = float32(gomath.Pi / 2)

	thetaEpsilon = 1e-5
)

var worldUp = math.Vec3{Y: 1}

// Hemisphere is a camera on the surface of the upper hemisphere around a
// target point, described by radius R, polar angle Theta (from +Y) and
// azimuth Phi.
type Hemisphere struct {
	target math.Vec3
	r      float32
	theta  float32
	phi    float32

	minRadius      float32
	maxRadius      float32
	renderDistance float32
	aspect         float32

	// Sensitivity
	ZoomSensitivity float32 // radius change per wheel notch
	DragSensitivity float32 // radians per pixel
}

// NewHemisphere places the camera at position looking at target. A position
// below the target is mirrored above it. The radius range is fixed to
// [R/10, 10R] of the starting radius.
func NewHemisphere(position, target math.Vec3, aspect, renderDistance float32) *Hemisphere {
	rel := position.Sub(target)
	rel.Y = absf(rel.Y)

	c := &Hemisphere{
		target:          target,
		aspect:          aspect,
		ZoomSensitivity: 1,
		DragSensitivity: 0.01,
	}
	c.SetRenderDistance(renderDistance)

	c.r = rel.Length()
	if c.r < DepthNear {
		c.r = DepthNear
	}
	c.minRadius = max(c.r/10, DepthNear)
	c.maxRadius = max(10*c.r, c.minRadius)

	c.SetTheta(float32(gomath.Acos(float64(rel.Y / c.r))))
	c.SetPhi(float32(gomath.Atan2(float64(rel.Z), float64(rel.X))))
	return c
}

// R returns the current radius.
func (c *Hemisphere) R() float32 { return c.r }

// Theta returns the polar angle in radians.
func (c *Hemisphere) Theta() float32 { return c.theta }

// Phi returns the azimuth in radians, in [0, 2π).
func (c *Hemisphere) Phi() float32 { return c.phi }

// Target returns the orbited point.
func (c *Hemisphere) Target() math.Vec3 { return c.target }

// RadiusRange returns the allowed radius range.
func (c *Hemisphere) RadiusRange() (lo, hi float32) { return c.minRadius, c.maxRadius }

// RenderDistance returns the far plane distance.
func (c *Hemisphere) RenderDistance() float32 { return c.renderDistance }

// SetR sets the radius, clamped to the radius range.
func (c *Hemisphere) SetR(r float32) {
	c.r = math.Clamp(r, c.minRadius, c.maxRadius)
}

// SetTheta sets the polar angle, clamped just inside [0, π] so the view
// never aligns with the up vector.
func (c *Hemisphere) SetTheta(theta float32) {
	c.theta = math.Clamp(theta, thetaEpsilon, float32(gomath.Pi)-thetaEpsilon)
}

// SetPhi sets the azimuth, wrapped into [0, 2π).
func (c *Hemisphere) SetPhi(phi float32) {
	c.phi = math.NormalizeAngle(phi)
}

// SetRenderDistance sets the far plane, never closer than DepthNear.
func (c *Hemisphere) SetRenderDistance(d float32) {
	c.renderDistance = max(d, DepthNear)
}

// SetAspect updates the aspect ratio after a resize.
func (c *Hemisphere) SetAspect(aspect float32) {
	if aspect > 0 {
		c.aspect = aspect
	}
}

// SetTarget moves the orbited point, keeping R, Theta and Phi.
func (c *Hemisphere) SetTarget(target math.Vec3) {
	c.target = target
}

// Position returns the camera position in world space.
func (c *Hemisphere) Position() math.Vec3 {
	sinT, cosT := math.Sincos(c.theta)
	sinP, cosP := math.Sincos(c.phi)
	return math.Vec3{
		X: c.r*sinT*cosP + c.target.X,
		Y: c.r*cosT + c.target.Y,
		Z: c.r*sinT*sinP + c.target.Z,
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *Hemisphere) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.target, worldUp)
}

// ProjectionMatrix returns the perspective projection.
func (c *Hemisphere) ProjectionMatrix() math.Mat4 {
	return math.Perspective(FOV, c.aspect, DepthNear, c.renderDistance)
}

// HandleZoom moves the camera along the radius; positive delta zooms in.
func (c *Hemisphere) HandleZoom(delta float32) {
	c.SetR(c.r - delta*c.ZoomSensitivity)
}

// HandleDrag orbits the camera by a mouse drag delta in pixels.
func (c *Hemisphere) HandleDrag(deltaX, deltaY float32) {
	c.SetPhi(c.phi + deltaX*c.DragSensitivity)
	c.SetTheta(c.theta - deltaY*c.DragSensitivity)
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
