package model

import (
	"errors"
	"fmt"

	"github.com/Faultbox/objview/pkg/math"
)

type fakeMesh struct {
	positions []float32
	uvs       []float32
	indices   []uint32
}

type fakeDraw struct {
	handle   uint32
	textured bool
	texture  uint32
}

// fakeGPU records uploads and draw calls in memory.
type fakeGPU struct {
	next    uint32
	meshes  map[uint32]*fakeMesh
	draws   []fakeDraw
	updates int
	failAt  int // UploadMesh call (1-based) that fails, 0 for never
	uploads int
}

func newFakeGPU() *fakeGPU {
	return &fakeGPU{next: 1, meshes: make(map[uint32]*fakeMesh)}
}

func (g *fakeGPU) UploadMesh(positions, uvs []float32, indices []uint32) (uint32, error) {
	g.uploads++
	if g.failAt != 0 && g.uploads == g.failAt {
		return 0, errors.New("out of memory")
	}
	h := g.next
	g.next++
	g.meshes[h] = &fakeMesh{
		positions: append([]float32(nil), positions...),
		uvs:       append([]float32(nil), uvs...),
		indices:   append([]uint32(nil), indices...),
	}
	return h, nil
}

func (g *fakeGPU) UpdatePositions(handle uint32, positions []float32) {
	g.updates++
	if m, ok := g.meshes[handle]; ok {
		m.positions = append(m.positions[:0], positions...)
	}
}

func (g *fakeGPU) DrawMesh(handle uint32, textured bool, texture uint32) {
	g.draws = append(g.draws, fakeDraw{handle, textured, texture})
}

func (g *fakeGPU) DeleteMesh(handle uint32) {
	delete(g.meshes, handle)
}

// fakeTextures hands out sequential ids for any path not listed in missing.
type fakeTextures struct {
	next    uint32
	loaded  map[uint32]string
	calls   []string
	missing map[string]bool
}

func newFakeTextures() *fakeTextures {
	return &fakeTextures{next: 100, loaded: make(map[uint32]string), missing: make(map[string]bool)}
}

func (t *fakeTextures) LoadTexture(path string) (uint32, error) {
	t.calls = append(t.calls, path)
	if t.missing[path] {
		return 0, fmt.Errorf("open %s: no such file", path)
	}
	id := t.next
	t.next++
	t.loaded[id] = path
	return id, nil
}

func (t *fakeTextures) DeleteTexture(id uint32) {
	delete(t.loaded, id)
}

type fakePrograms struct {
	color   []math.Vec4
	texture int
}

func (p *fakePrograms) UseColor(c math.Vec4) { p.color = append(p.color, c) }
func (p *fakePrograms) UseTexture()          { p.texture++ }
