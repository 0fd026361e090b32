// Package buffer wraps OpenGL vertex array, vertex buffer and element
// buffer objects. All calls must happen on the GL thread.
package buffer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const floatSize = 4

// VertexBuffer is a VBO of float32 data.
type VertexBuffer struct {
	ID  uint32
	Len int // number of floats
}

// NewVertexBuffer uploads data into a new dynamic VBO.
func NewVertexBuffer(data []float32) *VertexBuffer {
	b := &VertexBuffer{}
	gl.GenBuffers(1, &b.ID)
	b.Update(data)
	return b
}

// Update replaces the buffer contents, reallocating only when the length
// changes.
func (b *VertexBuffer) Update(data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, b.ID)
	if len(data) == b.Len && len(data) > 0 {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data)*floatSize, gl.Ptr(data))
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*floatSize, ptr(data), gl.DYNAMIC_DRAW)
		b.Len = len(data)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Delete releases the buffer.
func (b *VertexBuffer) Delete() {
	if b.ID != 0 {
		gl.DeleteBuffers(1, &b.ID)
		b.ID = 0
	}
}

// ElementBuffer is an EBO of uint32 triangle indices.
type ElementBuffer struct {
	ID    uint32
	Count int32
}

// NewElementBuffer uploads indices into a new static EBO.
func NewElementBuffer(indices []uint32) *ElementBuffer {
	b := &ElementBuffer{Count: int32(len(indices))}
	gl.GenBuffers(1, &b.ID)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ID)
	var p unsafe.Pointer
	if len(indices) > 0 {
		p = gl.Ptr(indices)
	}
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, p, gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	return b
}

// Delete releases the buffer.
func (b *ElementBuffer) Delete() {
	if b.ID != 0 {
		gl.DeleteBuffers(1, &b.ID)
		b.ID = 0
	}
}

// VertexArray is a VAO recording attribute bindings and the element buffer.
type VertexArray struct {
	ID    uint32
	count int32
}

// NewVertexArray creates a VAO bound to ebo.
func NewVertexArray(ebo *ElementBuffer) *VertexArray {
	a := &VertexArray{count: ebo.Count}
	gl.GenVertexArrays(1, &a.ID)
	gl.BindVertexArray(a.ID)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo.ID)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	return a
}

// Attrib binds a tightly packed float attribute of size components from vbo
// to location index.
func (a *VertexArray) Attrib(index uint32, size int32, vbo *VertexBuffer) {
	gl.BindVertexArray(a.ID)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo.ID)
	gl.VertexAttribPointer(index, size, gl.FLOAT, false, size*floatSize, nil)
	gl.EnableVertexAttribArray(index)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// DrawElements draws the element buffer as triangles.
func (a *VertexArray) DrawElements() {
	gl.BindVertexArray(a.ID)
	gl.DrawElements(gl.TRIANGLES, a.count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Delete releases the VAO.
func (a *VertexArray) Delete() {
	if a.ID != 0 {
		gl.DeleteVertexArrays(1, &a.ID)
		a.ID = 0
	}
}

func ptr(data []float32) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return gl.Ptr(data)
}
