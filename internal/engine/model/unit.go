package model

import (
	"github.com/Faultbox/objview/pkg/math"
	"github.com/Faultbox/objview/pkg/mesh"
)

// Unit is one independently indexed part of a model, drawn with a single
// material.
type Unit struct {
	Material string

	gpu       GPU
	handle    uint32
	texture   uint32
	textured  bool
	positions []float32 // xyz, mutated in place by transforms
	vertices  int
	triangles int
	splits    int
}

// newUnit uploads m and returns the unit owning the buffers.
func newUnit(gpu GPU, m *mesh.IndexedMesh, material string, textured bool, texture uint32) (*Unit, error) {
	u := &Unit{
		Material:  material,
		gpu:       gpu,
		texture:   texture,
		textured:  textured,
		positions: m.FlatPositions(),
		vertices:  m.VertexCount(),
		triangles: m.TriangleCount(),
		splits:    m.Splits,
	}

	var uvs []float32
	if textured {
		uvs = m.FlatUVs()
	}
	handle, err := gpu.UploadMesh(u.positions, uvs, m.Indices)
	if err != nil {
		return nil, err
	}
	u.handle = handle
	return u, nil
}

// Positions returns the current vertex positions (xyz). The slice is owned
// by the unit.
func (u *Unit) Positions() []float32 {
	return u.positions
}

// VertexCount returns the number of indexed vertices.
func (u *Unit) VertexCount() int { return u.vertices }

// TriangleCount returns the number of triangles.
func (u *Unit) TriangleCount() int { return u.triangles }

// Splits returns how many vertices were duplicated for UV seams.
func (u *Unit) Splits() int { return u.splits }

// Textured reports whether the unit has UVs and a texture.
func (u *Unit) Textured() bool { return u.textured && u.texture != 0 }

// Draw issues the indexed draw call.
func (u *Unit) Draw(ctx DrawContext) {
	u.gpu.DrawMesh(u.handle, ctx.Mode == DrawTexture && u.Textured(), u.texture)
}

// Move translates every vertex.
func (u *Unit) Move(dx, dy, dz float32) {
	p := u.positions
	for i := 0; i+2 < len(p); i += 3 {
		p[i] += dx
		p[i+1] += dy
		p[i+2] += dz
	}
	u.upload()
}

// Scale scales every vertex about ctx.Center.
func (u *Unit) Scale(ctx TransformContext, sx, sy, sz float32) {
	c := ctx.Center
	p := u.positions
	for i := 0; i+2 < len(p); i += 3 {
		p[i] = (p[i]-c.X)*sx + c.X
		p[i+1] = (p[i+1]-c.Y)*sy + c.Y
		p[i+2] = (p[i+2]-c.Z)*sz + c.Z
	}
	u.upload()
}

// RotateX rotates every vertex about the X axis through ctx.Center.
func (u *Unit) RotateX(ctx TransformContext, angle float32) {
	sin, cos := math.Sincos(angle)
	c := ctx.Center
	p := u.positions
	for i := 0; i+2 < len(p); i += 3 {
		y := p[i+1] - c.Y
		z := p[i+2] - c.Z
		p[i+1] = cos*y - sin*z + c.Y
		p[i+2] = sin*y + cos*z + c.Z
	}
	u.upload()
}

// RotateY rotates every vertex about the Y axis through ctx.Center.
func (u *Unit) RotateY(ctx TransformContext, angle float32) {
	sin, cos := math.Sincos(angle)
	c := ctx.Center
	p := u.positions
	for i := 0; i+2 < len(p); i += 3 {
		x := p[i] - c.X
		z := p[i+2] - c.Z
		p[i] = cos*x + sin*z + c.X
		p[i+2] = -sin*x + cos*z + c.Z
	}
	u.upload()
}

// RotateZ rotates every vertex about the Z axis through ctx.Center.
func (u *Unit) RotateZ(ctx TransformContext, angle float32) {
	sin, cos := math.Sincos(angle)
	c := ctx.Center
	p := u.positions
	for i := 0; i+2 < len(p); i += 3 {
		x := p[i] - c.X
		y := p[i+1] - c.Y
		p[i] = cos*x - sin*y + c.X
		p[i+1] = sin*x + cos*y + c.Y
	}
	u.upload()
}

// Bounds returns the bounding box of the current positions.
func (u *Unit) Bounds() mesh.Bounds {
	p := u.positions
	if len(p) < 3 {
		return mesh.Bounds{}
	}
	b := mesh.Bounds{
		Min: math.Vec3{X: p[0], Y: p[1], Z: p[2]},
		Max: math.Vec3{X: p[0], Y: p[1], Z: p[2]},
	}
	for i := 3; i+2 < len(p); i += 3 {
		b.Min = math.Vec3{X: min(b.Min.X, p[i]), Y: min(b.Min.Y, p[i+1]), Z: min(b.Min.Z, p[i+2])}
		b.Max = math.Vec3{X: max(b.Max.X, p[i]), Y: max(b.Max.Y, p[i+1]), Z: max(b.Max.Z, p[i+2])}
	}
	return b
}

func (u *Unit) upload() {
	u.gpu.UpdatePositions(u.handle, u.positions)
}

// release frees the unit's GPU buffers. Textures are shared and released
// by the model.
func (u *Unit) release() {
	if u.handle != 0 {
		u.gpu.DeleteMesh(u.handle)
		u.handle = 0
	}
}
