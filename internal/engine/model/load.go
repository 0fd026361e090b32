package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/pkg/formats"
	"github.com/Faultbox/objview/pkg/math"
	"github.com/Faultbox/objview/pkg/mesh"
)

// ErrUnknownMaterial is returned when a group uses a material the library
// does not define.
var ErrUnknownMaterial = errors.New("unknown material")

// LoadOptions controls how an OBJ file becomes a model.
type LoadOptions struct {
	// Textured builds UV-indexed units and loads diffuse maps from the
	// material library. When false every unit is color-only.
	Textured bool
	// TextureOverride, when set, is used as the texture of every group that
	// has texture coordinates, and the material library is not read.
	TextureOverride string
	// Encoding of the OBJ and MTL text (empty for UTF-8).
	Encoding string
	// Color used in DrawColor mode.
	Color math.Vec4
}

// DefaultLoadOptions returns textured loading with DefaultColor.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{Textured: true, Color: DefaultColor}
}

// Load parses the OBJ file at path and uploads one unit per group. Either
// the whole model is built or every resource acquired so far is released
// and an error returned.
func Load(path string, gpu GPU, textures TextureLoader, opts LoadOptions) (*Model, error) {
	obj, err := formats.ParseOBJFile(path, opts.Encoding)
	if err != nil {
		return nil, err
	}

	b := &builder{gpu: gpu, textures: textures, cache: make(map[string]uint32)}
	m, err := b.build(obj, opts)
	if err != nil {
		b.rollback()
		return nil, fmt.Errorf("loading model %s: %w", path, err)
	}
	m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	logger.Debug("model loaded",
		zap.String("path", path),
		zap.Int("units", len(m.units)),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", m.TriangleCount()),
		zap.Stringer("mode", m.drawMode),
	)
	return m, nil
}

// LoadWithTexture loads path and draws every group that has texture
// coordinates with the image at texturePath, ignoring the material library.
func LoadWithTexture(path, texturePath string, gpu GPU, textures TextureLoader, opts LoadOptions) (*Model, error) {
	opts.Textured = true
	opts.TextureOverride = texturePath
	return Load(path, gpu, textures, opts)
}

// builder tracks what has been uploaded so a failed load can undo it.
type builder struct {
	gpu      GPU
	textures TextureLoader
	cache    map[string]uint32
	texIDs   []uint32
	units    []*Unit
}

func (b *builder) build(obj *formats.OBJ, opts LoadOptions) (*Model, error) {
	var lib *formats.MTL
	if opts.Textured && opts.TextureOverride == "" && obj.MaterialLib != "" {
		var err error
		lib, err = formats.ParseMTLFile(obj.MaterialLibPath(), opts.Encoding)
		if err != nil {
			return nil, err
		}
	}

	for i, g := range obj.Groups {
		texPath, err := b.texturePath(g, lib, opts)
		if err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}

		textured := opts.Textured && g.Textured()
		var m *mesh.IndexedMesh
		if textured {
			m, err = mesh.BuildIndexedMesh(g.Positions, g.TexCoords, g.Corners)
		} else {
			m, err = mesh.BuildPositionMesh(g.Positions, g.Corners)
		}
		if err != nil {
			return nil, fmt.Errorf("group %d (%s): %w", i, g.Material, err)
		}

		var tex uint32
		if textured && texPath != "" {
			if tex, err = b.texture(texPath); err != nil {
				return nil, err
			}
		}

		u, err := newUnit(b.gpu, m, g.Material, textured, tex)
		if err != nil {
			return nil, fmt.Errorf("uploading group %d: %w", i, err)
		}
		b.units = append(b.units, u)
	}

	return newModel("", b.units, b.textures, b.texIDs, opts.Color), nil
}

// texturePath returns the diffuse map for a group, or "" for none.
func (b *builder) texturePath(g *formats.OBJGroup, lib *formats.MTL, opts LoadOptions) (string, error) {
	if !opts.Textured {
		return "", nil
	}
	if opts.TextureOverride != "" {
		return opts.TextureOverride, nil
	}
	if lib == nil || g.Material == "" {
		return "", nil
	}
	mat := lib.Get(g.Material)
	if mat == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownMaterial, g.Material)
	}
	return lib.DiffuseMapPath(mat), nil
}

// texture loads path once per model.
func (b *builder) texture(path string) (uint32, error) {
	if id, ok := b.cache[path]; ok {
		return id, nil
	}
	if b.textures == nil {
		return 0, fmt.Errorf("no texture loader for %s", path)
	}
	id, err := b.textures.LoadTexture(path)
	if err != nil {
		return 0, fmt.Errorf("loading texture %s: %w", path, err)
	}
	b.cache[path] = id
	b.texIDs = append(b.texIDs, id)
	return id, nil
}

func (b *builder) rollback() {
	for _, u := range b.units {
		u.release()
	}
	for _, id := range b.texIDs {
		b.textures.DeleteTexture(id)
	}
	b.units, b.texIDs = nil, nil
}
