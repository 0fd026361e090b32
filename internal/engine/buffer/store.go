package buffer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/logger"
)

// Attribute locations shared with the embedded shaders.
const (
	PositionLocation = 0
	TexCoordLocation = 1
)

// mesh is one uploaded unit: shared position and index buffers, a VAO for
// the color program and, when UVs were given, one for the texture program.
type mesh struct {
	positions *VertexBuffer
	uvs       *VertexBuffer
	ebo       *ElementBuffer
	color     *VertexArray
	textured  *VertexArray
}

// Store owns the GL buffers of every uploaded mesh and implements the
// model package's GPU interface.
type Store struct {
	meshes *handles[*mesh]
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{meshes: newHandles[*mesh]()}
}

// UploadMesh creates the buffers for one unit.
func (s *Store) UploadMesh(positions, uvs []float32, indices []uint32) (uint32, error) {
	if len(positions)%3 != 0 {
		return 0, fmt.Errorf("position buffer length %d is not a multiple of 3", len(positions))
	}
	if uvs != nil && len(uvs)/2 != len(positions)/3 {
		return 0, fmt.Errorf("%d UVs for %d positions", len(uvs)/2, len(positions)/3)
	}

	m := &mesh{
		positions: NewVertexBuffer(positions),
		ebo:       NewElementBuffer(indices),
	}
	m.color = NewVertexArray(m.ebo)
	m.color.Attrib(PositionLocation, 3, m.positions)

	if uvs != nil {
		m.uvs = NewVertexBuffer(uvs)
		m.textured = NewVertexArray(m.ebo)
		m.textured.Attrib(PositionLocation, 3, m.positions)
		m.textured.Attrib(TexCoordLocation, 2, m.uvs)
	}

	if code := gl.GetError(); code != gl.NO_ERROR {
		m.delete()
		return 0, fmt.Errorf("uploading mesh: GL error 0x%x", code)
	}

	h := s.meshes.add(m)
	logger.Debug("mesh uploaded",
		zap.Uint32("handle", h),
		zap.Int("vertices", len(positions)/3),
		zap.Int32("indices", m.ebo.Count),
		zap.Bool("uvs", uvs != nil),
	)
	return h, nil
}

// UpdatePositions replaces a mesh's position buffer.
func (s *Store) UpdatePositions(handle uint32, positions []float32) {
	if m, ok := s.meshes.get(handle); ok {
		m.positions.Update(positions)
	}
}

// DrawMesh draws a mesh with the currently active program. The textured
// VAO is used only when the mesh has UVs.
func (s *Store) DrawMesh(handle uint32, textured bool, texture uint32) {
	m, ok := s.meshes.get(handle)
	if !ok {
		return
	}
	if textured && m.textured != nil {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, texture)
		m.textured.DrawElements()
		gl.BindTexture(gl.TEXTURE_2D, 0)
		return
	}
	m.color.DrawElements()
}

// DeleteMesh releases a mesh's buffers. Unknown handles are ignored.
func (s *Store) DeleteMesh(handle uint32) {
	if m, ok := s.meshes.remove(handle); ok {
		m.delete()
	}
}

// Len returns the number of live meshes.
func (s *Store) Len() int {
	return s.meshes.len()
}

func (m *mesh) delete() {
	if m.textured != nil {
		m.textured.Delete()
	}
	m.color.Delete()
	if m.uvs != nil {
		m.uvs.Delete()
	}
	m.positions.Delete()
	m.ebo.Delete()
}
