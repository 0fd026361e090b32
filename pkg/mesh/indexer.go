package mesh

import (
	"fmt"

	"github.com/Faultbox/objview/pkg/math"
)

// aliasTable maps an original position index to the output vertices that
// share its position but carry a different texture coordinate. Every
// position is implicitly aliased to itself; extra holds the splits.
type aliasTable struct {
	extra map[int][]uint32
}

func (a *aliasTable) find(pos int, uv math.Vec2, uvs []math.Vec2) (uint32, bool) {
	if uvs[pos] == uv {
		return uint32(pos), true
	}
	for _, idx := range a.extra[pos] {
		if uvs[idx] == uv {
			return idx, true
		}
	}
	return 0, false
}

func (a *aliasTable) add(pos int, idx uint32) {
	a.extra[pos] = append(a.extra[pos], idx)
}

// BuildIndexedMesh deduplicates position/texture-coordinate pairs into a
// single vertex buffer.
//
// The first corner to reference a position claims that slot's UV. Later
// corners with the same position reuse any existing variant whose UV is
// exactly equal; otherwise the position is duplicated into a new vertex.
// UV equality is exact float comparison, so rounding noise in the source
// produces extra vertices.
//
// Slots never claimed by a textured corner get UV (0, 0). Any index outside
// positions or texCoords fails the whole build.
func BuildIndexedMesh(positions []math.Vec3, texCoords []math.Vec2, corners []FaceCorner) (*IndexedMesh, error) {
	if len(corners)%3 != 0 {
		return nil, fmt.Errorf("%w: %d corners", ErrNotTriangles, len(corners))
	}

	vertices := make([]math.Vec3, len(positions), len(positions)+len(corners)/3)
	copy(vertices, positions)
	uvs := make([]math.Vec2, len(positions), cap(vertices))
	claimed := make([]bool, len(positions))

	aliases := aliasTable{extra: make(map[int][]uint32)}
	indices := make([]uint32, 0, len(corners))
	splits := 0

	for i, c := range corners {
		if c.Position < 0 || c.Position >= len(positions) {
			return nil, fmt.Errorf("%w: corner %d position %d (have %d)", ErrIndexOutOfRange, i, c.Position, len(positions))
		}

		if c.TexCoord == NoIndex {
			indices = append(indices, uint32(c.Position))
			continue
		}
		if c.TexCoord < 0 || c.TexCoord >= len(texCoords) {
			return nil, fmt.Errorf("%w: corner %d texcoord %d (have %d)", ErrIndexOutOfRange, i, c.TexCoord, len(texCoords))
		}
		uv := texCoords[c.TexCoord]

		if !claimed[c.Position] {
			claimed[c.Position] = true
			uvs[c.Position] = uv
			indices = append(indices, uint32(c.Position))
			continue
		}

		if idx, ok := aliases.find(c.Position, uv, uvs); ok {
			indices = append(indices, idx)
			continue
		}

		idx := uint32(len(vertices))
		vertices = append(vertices, positions[c.Position])
		uvs = append(uvs, uv)
		aliases.add(c.Position, idx)
		indices = append(indices, idx)
		splits++
	}

	return &IndexedMesh{
		Positions: vertices,
		UVs:       uvs,
		Indices:   indices,
		Splits:    splits,
	}, nil
}

// BuildPositionMesh builds an untextured mesh: positions are used as-is and
// the index buffer references them directly. UVs are all (0, 0).
func BuildPositionMesh(positions []math.Vec3, corners []FaceCorner) (*IndexedMesh, error) {
	if len(corners)%3 != 0 {
		return nil, fmt.Errorf("%w: %d corners", ErrNotTriangles, len(corners))
	}

	vertices := make([]math.Vec3, len(positions))
	copy(vertices, positions)

	indices := make([]uint32, len(corners))
	for i, c := range corners {
		if c.Position < 0 || c.Position >= len(positions) {
			return nil, fmt.Errorf("%w: corner %d position %d (have %d)", ErrIndexOutOfRange, i, c.Position, len(positions))
		}
		indices[i] = uint32(c.Position)
	}

	return &IndexedMesh{
		Positions: vertices,
		UVs:       make([]math.Vec2, len(positions)),
		Indices:   indices,
	}, nil
}
