// Package mesh builds rendering-ready indexed meshes from OBJ-style face
// corner streams, where position, texture coordinate and normal indices are
// assigned independently.
package mesh

import (
	"errors"

	"github.com/Faultbox/objview/pkg/math"
)

// NoIndex marks an attribute a face corner does not reference
// (e.g. "f 1//1 2//2 3//3" has no texture coordinates).
const NoIndex = -1

// Mesh building errors.
var (
	ErrIndexOutOfRange = errors.New("face corner index out of range")
	ErrNotTriangles    = errors.New("corner count is not a multiple of 3")
)

// FaceCorner is one vertex of one face, referencing the raw attribute
// streams by 0-based index.
type FaceCorner struct {
	Position int
	TexCoord int
	Normal   int // parsed, not propagated to the output buffers
}

// IndexedMesh is a deduplicated vertex buffer with parallel attribute
// slices and a triangle index buffer.
type IndexedMesh struct {
	Positions []math.Vec3
	UVs       []math.Vec2 // same length as Positions
	Indices   []uint32    // triples form triangles, in corner order

	// Splits is the number of vertices appended because a position was
	// reused with a different texture coordinate.
	Splits int
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the midpoint of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// VertexCount returns the number of output vertices.
func (m *IndexedMesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles in the index buffer.
func (m *IndexedMesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// FlatPositions returns positions as a tightly packed xyz float buffer.
func (m *IndexedMesh) FlatPositions() []float32 {
	out := make([]float32, 0, len(m.Positions)*3)
	for _, p := range m.Positions {
		out = append(out, p.X, p.Y, p.Z)
	}
	return out
}

// FlatUVs returns texture coordinates as a tightly packed uv float buffer.
func (m *IndexedMesh) FlatUVs() []float32 {
	out := make([]float32, 0, len(m.UVs)*2)
	for _, uv := range m.UVs {
		out = append(out, uv.X, uv.Y)
	}
	return out
}

// Bounds returns the bounding box of all positions.
// An empty mesh yields the zero box.
func (m *IndexedMesh) Bounds() Bounds {
	if len(m.Positions) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: m.Positions[0], Max: m.Positions[0]}
	for _, p := range m.Positions[1:] {
		b.Min = math.Vec3{X: min(b.Min.X, p.X), Y: min(b.Min.Y, p.Y), Z: min(b.Min.Z, p.Z)}
		b.Max = math.Vec3{X: max(b.Max.X, p.X), Y: max(b.Max.Y, p.Y), Z: max(b.Max.Z, p.Z)}
	}
	return b
}
