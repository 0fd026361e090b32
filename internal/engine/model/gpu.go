package model

import "github.com/Faultbox/objview/pkg/math"

// GPU uploads mesh buffers and draws them. The production implementation
// lives in the buffer package; tests use an in-memory fake.
type GPU interface {
	// UploadMesh creates buffers for tightly packed positions (xyz), UVs
	// (uv, may be nil) and triangle indices, returning an opaque handle.
	UploadMesh(positions, uvs []float32, indices []uint32) (uint32, error)
	// UpdatePositions replaces the position buffer contents.
	UpdatePositions(handle uint32, positions []float32)
	// DrawMesh draws the indexed triangles, with UVs and texture bound when
	// textured is true.
	DrawMesh(handle uint32, textured bool, texture uint32)
	// DeleteMesh releases every buffer behind the handle.
	DeleteMesh(handle uint32)
}

// TextureLoader turns image files into GPU textures.
type TextureLoader interface {
	LoadTexture(path string) (uint32, error)
	DeleteTexture(id uint32)
}

// Programs activates the shader for a draw mode.
type Programs interface {
	UseColor(color math.Vec4)
	UseTexture()
}
