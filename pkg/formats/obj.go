package formats

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/objview/pkg/encoding"
	"github.com/Faultbox/objview/pkg/math"
	"github.com/Faultbox/objview/pkg/mesh"
)

// OBJ format errors.
var (
	ErrMalformedFace   = errors.New("malformed face")
	ErrUnsupportedFace = errors.New("only triangular faces are supported")
)

// OBJGroup is one independently indexed sub-mesh: the attribute window it
// reads from and the triangles drawn with a single material.
//
// Corner indices are 0-based and relative to the group's attribute slices;
// the shifts record how many attributes earlier windows consumed.
type OBJGroup struct {
	Name     string // last "o" or "g" name seen
	Material string // "usemtl" in effect, empty if none

	Positions []math.Vec3
	TexCoords []math.Vec2
	Normals   []math.Vec3
	Corners   []mesh.FaceCorner

	PositionShift int
	TexCoordShift int
	NormalShift   int
}

// FaceCount returns the number of triangles in the group.
func (g *OBJGroup) FaceCount() int {
	return len(g.Corners) / 3
}

// Textured reports whether every corner references a texture coordinate.
func (g *OBJGroup) Textured() bool {
	if len(g.Corners) == 0 || len(g.TexCoords) == 0 {
		return false
	}
	for _, c := range g.Corners {
		if c.TexCoord == mesh.NoIndex {
			return false
		}
	}
	return true
}

// OBJ is a parsed Wavefront OBJ file.
type OBJ struct {
	MaterialLib string // last "mtllib" argument, as written
	Dir         string // directory of the source file, set by ParseOBJFile
	Groups      []*OBJGroup
}

// MaterialLibPath returns the material library path resolved next to the
// OBJ file, or "" when the file names none.
func (o *OBJ) MaterialLibPath() string {
	if o.MaterialLib == "" {
		return ""
	}
	return filepath.Join(o.Dir, filepath.FromSlash(normalizePath(o.MaterialLib)))
}

// VertexCount returns the number of positions across all groups.
func (o *OBJ) VertexCount() int {
	seen := make(map[int]bool)
	total := 0
	for _, g := range o.Groups {
		if seen[g.PositionShift] {
			continue
		}
		seen[g.PositionShift] = true
		total += len(g.Positions)
	}
	return total
}

// FaceCount returns the number of triangles across all groups.
func (o *OBJ) FaceCount() int {
	total := 0
	for _, g := range o.Groups {
		total += g.FaceCount()
	}
	return total
}

// Materials returns the distinct material names in group order.
func (o *OBJ) Materials() []string {
	var names []string
	seen := make(map[string]bool)
	for _, g := range o.Groups {
		if g.Material == "" || seen[g.Material] {
			continue
		}
		seen[g.Material] = true
		names = append(names, g.Material)
	}
	return names
}

// objReader holds parse state. Attributes accumulate in a window; a "v"
// line after faces closes the window and every group that indexes into it.
type objReader struct {
	obj *OBJ

	positions []math.Vec3
	texCoords []math.Vec2
	normals   []math.Vec3

	vShift, vtShift, vnShift int

	pending  []*OBJGroup // groups reading from the current window
	current  *OBJGroup
	material string
	name     string
	hasFaces bool
}

// ParseOBJ parses UTF-8 OBJ text.
func ParseOBJ(r io.Reader) (*OBJ, error) {
	p := &objReader{obj: &OBJ{}}
	if err := scanLines(r, p.line); err != nil {
		return nil, err
	}
	p.closeWindow()
	return p.obj, nil
}

// ParseOBJFile parses an OBJ file from disk, decoding it from textEncoding
// (empty for UTF-8).
func ParseOBJFile(path, textEncoding string) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	defer f.Close()

	r, err := encoding.NewReader(f, textEncoding)
	if err != nil {
		return nil, err
	}
	obj, err := ParseOBJ(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	obj.Dir = filepath.Dir(path)
	return obj, nil
}

func (p *objReader) line(lineNo int, line string, fields []string) error {
	args := fields[1:]

	switch fields[0] {
	case "v":
		if p.hasFaces {
			p.closeWindow()
		}
		v, err := parseVec3(args)
		if err != nil {
			return lineError(lineNo, line, err)
		}
		p.positions = append(p.positions, v)

	case "vt":
		vt, err := parseVec2(args)
		if err != nil {
			return lineError(lineNo, line, err)
		}
		p.texCoords = append(p.texCoords, vt)

	case "vn":
		vn, err := parseVec3(args)
		if err != nil {
			return lineError(lineNo, line, err)
		}
		p.normals = append(p.normals, vn)

	case "f":
		if len(args) != 3 {
			return lineError(lineNo, line, fmt.Errorf("%w: got %d corners", ErrUnsupportedFace, len(args)))
		}
		g := p.group()
		for _, tok := range args {
			c, err := p.corner(tok)
			if err != nil {
				return lineError(lineNo, line, err)
			}
			g.Corners = append(g.Corners, c)
		}
		p.hasFaces = true

	case "usemtl":
		name := restOf(line, "usemtl")
		if name == "" {
			return lineError(lineNo, line, ErrMissingArgument)
		}
		p.material = name
		if p.current != nil && len(p.current.Corners) > 0 {
			p.current = nil
		} else if p.current != nil {
			p.current.Material = name
		}

	case "mtllib":
		lib := restOf(line, "mtllib")
		if lib == "" {
			return lineError(lineNo, line, ErrMissingArgument)
		}
		p.obj.MaterialLib = lib

	case "o", "g":
		p.name = restOf(line, fields[0])
	}

	return nil
}

// group returns the group receiving faces, starting one if needed.
func (p *objReader) group() *OBJGroup {
	if p.current == nil {
		p.current = &OBJGroup{
			Name:          p.name,
			Material:      p.material,
			PositionShift: p.vShift,
			TexCoordShift: p.vtShift,
			NormalShift:   p.vnShift,
		}
		p.pending = append(p.pending, p.current)
	}
	return p.current
}

// closeWindow hands the accumulated attributes to the groups that index
// them and advances the shifts.
func (p *objReader) closeWindow() {
	for _, g := range p.pending {
		if len(g.Corners) == 0 {
			continue
		}
		g.Positions = p.positions
		g.TexCoords = p.texCoords
		g.Normals = p.normals
		p.obj.Groups = append(p.obj.Groups, g)
	}

	p.vShift += len(p.positions)
	p.vtShift += len(p.texCoords)
	p.vnShift += len(p.normals)
	p.positions, p.texCoords, p.normals = nil, nil, nil
	p.pending = nil
	p.current = nil
	p.hasFaces = false
}

// corner parses "v", "v/vt", "v//vn" or "v/vt/vn" into window-relative
// indices.
func (p *objReader) corner(tok string) (mesh.FaceCorner, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 || parts[0] == "" {
		return mesh.FaceCorner{}, fmt.Errorf("%w: %q", ErrMalformedFace, tok)
	}

	c := mesh.FaceCorner{TexCoord: mesh.NoIndex, Normal: mesh.NoIndex}
	var err error

	if c.Position, err = resolveIndex(parts[0], p.vShift, len(p.positions)); err != nil {
		return c, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.TexCoord, err = resolveIndex(parts[1], p.vtShift, len(p.texCoords)); err != nil {
			return c, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.Normal, err = resolveIndex(parts[2], p.vnShift, len(p.normals)); err != nil {
			return c, err
		}
	}
	return c, nil
}

// resolveIndex turns a 1-based (or negative, end-relative) OBJ index into a
// 0-based index relative to the current window. Range checks are left to
// the mesh builder.
func resolveIndex(tok string, shift, windowLen int) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: index %q", ErrMalformedFace, tok)
	}
	switch {
	case n > 0:
		return n - 1 - shift, nil
	case n < 0:
		return windowLen + n, nil
	default:
		return 0, fmt.Errorf("%w: index 0", ErrMalformedFace)
	}
}
