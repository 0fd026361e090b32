package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/objview/pkg/math"
)

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-4
}

func nearVec(a, b math.Vec3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

func TestNewHemispherePosition(t *testing.T) {
	tests := []struct {
		name     string
		position math.Vec3
		target   math.Vec3
		want     math.Vec3
	}{
		{"diagonal", math.Vec3{X: 5, Y: 5, Z: 5}, math.Vec3{}, math.Vec3{X: 5, Y: 5, Z: 5}},
		{"offset target", math.Vec3{X: 3, Y: 4, Z: 0}, math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{X: 3, Y: 4, Z: 0}},
		{"below is mirrored", math.Vec3{X: 2, Y: -3, Z: 1}, math.Vec3{}, math.Vec3{X: 2, Y: 3, Z: 1}},
		{"negative azimuth", math.Vec3{X: 1, Y: 1, Z: -1}, math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewHemisphere(tt.position, tt.target, 16.0/9, 100)
			if got := c.Position(); !nearVec(got, tt.want) {
				t.Errorf("Position = %v, want %v", got, tt.want)
			}
			if c.Phi() < 0 || c.Phi() >= math.TwoPi {
				t.Errorf("Phi = %v outside [0, 2π)", c.Phi())
			}
		})
	}
}

func TestRadiusClamp(t *testing.T) {
	c := NewHemisphere(math.Vec3{Y: 10}, math.Vec3{}, 1, 100)
	lo, hi := c.RadiusRange()
	if !near(lo, 1) || !near(hi, 100) {
		t.Fatalf("RadiusRange = [%v, %v], want [1, 100]", lo, hi)
	}

	c.SetR(0.5)
	if !near(c.R(), 1) {
		t.Errorf("R = %v after SetR(0.5), want 1", c.R())
	}
	c.HandleZoom(-1000)
	if !near(c.R(), 100) {
		t.Errorf("R = %v after zooming out, want 100", c.R())
	}
	c.HandleZoom(2)
	if !near(c.R(), 98) {
		t.Errorf("R = %v after zooming in by 2, want 98", c.R())
	}
}

func TestThetaClamp(t *testing.T) {
	c := NewHemisphere(math.Vec3{X: 1, Y: 1}, math.Vec3{}, 1, 100)

	c.SetTheta(-1)
	if c.Theta() <= 0 {
		t.Errorf("Theta = %v, want > 0", c.Theta())
	}
	c.SetTheta(4)
	if c.Theta() >= float32(gomath.Pi) {
		t.Errorf("Theta = %v, want < π", c.Theta())
	}

	// Straight above the target must still produce a usable view matrix.
	c = NewHemisphere(math.Vec3{Y: 5}, math.Vec3{}, 1, 100)
	v := c.ViewMatrix()
	for i, f := range v {
		if gomath.IsNaN(float64(f)) {
			t.Fatalf("view matrix element %d is NaN", i)
		}
	}
}

func TestPhiWraps(t *testing.T) {
	c := NewHemisphere(math.Vec3{X: 1, Y: 1}, math.Vec3{}, 1, 100)
	c.SetPhi(-float32(gomath.Pi / 2))
	if !near(c.Phi(), float32(3*gomath.Pi/2)) {
		t.Errorf("Phi = %v, want 3π/2", c.Phi())
	}
	c.SetPhi(5 * float32(gomath.Pi))
	if !near(c.Phi(), float32(gomath.Pi)) {
		t.Errorf("Phi = %v, want π", c.Phi())
	}
}

func TestRenderDistanceFloor(t *testing.T) {
	c := NewHemisphere(math.Vec3{X: 1, Y: 1}, math.Vec3{}, 1, 0)
	if c.RenderDistance() != DepthNear {
		t.Errorf("RenderDistance = %v, want %v", c.RenderDistance(), DepthNear)
	}
	c.SetRenderDistance(50)
	if c.RenderDistance() != 50 {
		t.Errorf("RenderDistance = %v, want 50", c.RenderDistance())
	}
}

func TestDragKeepsRadius(t *testing.T) {
	c := NewHemisphere(math.Vec3{X: 3, Y: 4}, math.Vec3{}, 1, 100)
	c.HandleDrag(40, -25)
	if d := c.Position().Length(); !near(d, 5) {
		t.Errorf("distance after drag = %v, want 5", d)
	}
	if c.Position().Y < 0 {
		t.Errorf("camera left the upper hemisphere: %v", c.Position())
	}
}

func TestViewMatrixLooksAtTarget(t *testing.T) {
	target := math.Vec3{X: 1, Y: 2, Z: 3}
	c := NewHemisphere(math.Vec3{X: 6, Y: 7, Z: 3}, target, 1, 100)
	v := c.ViewMatrix()

	// The target lands on the negative view Z axis.
	p := v.TransformVec3(target)
	if !near(p.X, 0) || !near(p.Y, 0) || p.Z >= 0 {
		t.Errorf("target in view space = %v, want (0, 0, -d)", p)
	}
	if !near(-p.Z, c.R()) {
		t.Errorf("target depth = %v, want R = %v", -p.Z, c.R())
	}
}
