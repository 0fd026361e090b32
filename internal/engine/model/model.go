package model

import (
	"errors"
	gomath "math"

	"github.com/Faultbox/objview/pkg/math"
	"github.com/Faultbox/objview/pkg/mesh"
)

// ErrDrawModeLocked is returned when switching a model without textures to
// DrawTexture.
var ErrDrawModeLocked = errors.New("model has no textures to draw with")

// Model is a set of units transformed and drawn together. It tracks a
// logical position, size and rotation that the per-vertex transforms keep
// in sync with the vertex buffers.
type Model struct {
	Name  string
	Color math.Vec4

	// Per-second animation applied by Update.
	MovementPerSecond math.Vec3
	ScalingPerSecond  Size // factor reached after one second
	RotationPerSecond RotationAngles

	units    []*Unit
	textures TextureLoader
	texIDs   []uint32

	drawMode DrawMode
	position math.Vec3
	size     Size
	rotation RotationAngles
}

func newModel(name string, units []*Unit, textures TextureLoader, texIDs []uint32, color math.Vec4) *Model {
	m := &Model{
		Name:             name,
		Color:            color,
		ScalingPerSecond: One,
		units:            units,
		textures:         textures,
		texIDs:           texIDs,
		size:             One,
	}
	if m.Textured() {
		m.drawMode = DrawTexture
	}
	return m
}

// Units returns the model's units in OBJ group order.
func (m *Model) Units() []*Unit { return m.units }

// Position returns the accumulated translation.
func (m *Model) Position() math.Vec3 { return m.position }

// Size returns the accumulated scale.
func (m *Model) Size() Size { return m.size }

// Rotation returns the accumulated rotation, each angle in [0, 2π).
func (m *Model) Rotation() RotationAngles { return m.rotation }

// DrawMode returns the current draw mode.
func (m *Model) DrawMode() DrawMode { return m.drawMode }

// Textured reports whether any unit can be drawn with a texture.
func (m *Model) Textured() bool {
	for _, u := range m.units {
		if u.Textured() {
			return true
		}
	}
	return false
}

// SetDrawMode switches between color and texture drawing.
func (m *Model) SetDrawMode(mode DrawMode) error {
	if mode == DrawTexture && !m.Textured() {
		return ErrDrawModeLocked
	}
	m.drawMode = mode
	return nil
}

// VertexCount returns the total number of indexed vertices.
func (m *Model) VertexCount() int {
	n := 0
	for _, u := range m.units {
		n += u.VertexCount()
	}
	return n
}

// TriangleCount returns the total number of triangles.
func (m *Model) TriangleCount() int {
	n := 0
	for _, u := range m.units {
		n += u.TriangleCount()
	}
	return n
}

// Bounds returns the bounding box of all units' current positions.
func (m *Model) Bounds() mesh.Bounds {
	var b mesh.Bounds
	for i, u := range m.units {
		ub := u.Bounds()
		if i == 0 {
			b = ub
			continue
		}
		b.Min = math.Vec3{X: min(b.Min.X, ub.Min.X), Y: min(b.Min.Y, ub.Min.Y), Z: min(b.Min.Z, ub.Min.Z)}
		b.Max = math.Vec3{X: max(b.Max.X, ub.Max.X), Y: max(b.Max.Y, ub.Max.Y), Z: max(b.Max.Z, ub.Max.Z)}
	}
	return b
}

// Draw activates the program for the current draw mode and draws every unit.
func (m *Model) Draw(programs Programs) {
	switch m.drawMode {
	case DrawColor:
		programs.UseColor(m.Color)
	case DrawTexture:
		programs.UseTexture()
	}

	ctx := DrawContext{Mode: m.drawMode}
	for _, u := range m.units {
		u.Draw(ctx)
	}
}

// Update advances the per-second animation by seconds.
func (m *Model) Update(seconds float32) {
	if !m.MovementPerSecond.IsZero() {
		d := m.MovementPerSecond.Scale(seconds)
		m.Move(d.X, d.Y, d.Z)
	}
	if m.ScalingPerSecond != One {
		s := m.ScalingPerSecond
		m.Scale(rateFactor(s.X, seconds), rateFactor(s.Y, seconds), rateFactor(s.Z, seconds))
	}
	if !m.RotationPerSecond.IsZero() {
		r := m.RotationPerSecond
		m.Rotate(r.X*seconds, r.Y*seconds, r.Z*seconds)
	}
}

// Move translates the model.
func (m *Model) Move(dx, dy, dz float32) {
	for _, u := range m.units {
		u.Move(dx, dy, dz)
	}
	m.position = m.position.Add(math.Vec3{X: dx, Y: dy, Z: dz})
}

// Scale scales the model about its position.
func (m *Model) Scale(sx, sy, sz float32) {
	ctx := m.transformContext()
	for _, u := range m.units {
		u.Scale(ctx, sx, sy, sz)
	}
	m.size = Size{m.size.X * sx, m.size.Y * sy, m.size.Z * sz}
}

// RotateX rotates the model about the X axis through its position.
func (m *Model) RotateX(angle float32) {
	ctx := m.transformContext()
	for _, u := range m.units {
		u.RotateX(ctx, angle)
	}
	m.rotation.X = math.NormalizeAngle(m.rotation.X + angle)
}

// RotateY rotates the model about the Y axis through its position.
func (m *Model) RotateY(angle float32) {
	ctx := m.transformContext()
	for _, u := range m.units {
		u.RotateY(ctx, angle)
	}
	m.rotation.Y = math.NormalizeAngle(m.rotation.Y + angle)
}

// RotateZ rotates the model about the Z axis through its position.
func (m *Model) RotateZ(angle float32) {
	ctx := m.transformContext()
	for _, u := range m.units {
		u.RotateZ(ctx, angle)
	}
	m.rotation.Z = math.NormalizeAngle(m.rotation.Z + angle)
}

// Rotate applies RotateX, RotateY and RotateZ in that order. The order
// matters: rotations do not commute.
func (m *Model) Rotate(x, y, z float32) {
	m.RotateX(x)
	m.RotateY(y)
	m.RotateZ(z)
}

// Close releases every GPU buffer and texture the model owns.
func (m *Model) Close() {
	for _, u := range m.units {
		u.release()
	}
	if m.textures != nil {
		for _, id := range m.texIDs {
			m.textures.DeleteTexture(id)
		}
	}
	m.texIDs = nil
}

func (m *Model) transformContext() TransformContext {
	return TransformContext{Center: m.position}
}

// rateFactor turns a per-second scale rate into the factor for seconds.
// Non-positive rates have no real power and leave the axis unscaled.
func rateFactor(rate, seconds float32) float32 {
	if rate <= 0 {
		return 1
	}
	return float32(gomath.Pow(float64(rate), float64(seconds)))
}
