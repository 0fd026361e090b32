package model

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/objview/pkg/math"
)

const quadOBJ = `mtllib quad.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vt 0.5 0.5
usemtl wood
f 1/1 2/2 3/3
f 1/5 3/3 4/4
`

const quadMTL = `newmtl wood
Kd 0.8 0.6 0.4
map_Kd textures\wood.png
`

const twoMaterialOBJ = `mtllib scene.mtl
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
usemtl wood
f 1/1 2/2 3/3
usemtl stone
f 3/3 2/2 1/1
usemtl wood
f 1/1 3/3 2/2
`

const twoMaterialMTL = `newmtl wood
map_Kd wood.png
newmtl stone
map_Kd stone.png
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadTextured(t *testing.T) {
	dir := writeFiles(t, map[string]string{"quad.obj": quadOBJ, "quad.mtl": quadMTL})
	gpu, tex := newFakeGPU(), newFakeTextures()

	m, err := Load(filepath.Join(dir, "quad.obj"), gpu, tex, DefaultLoadOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Name != "quad" {
		t.Errorf("Name = %q, want quad", m.Name)
	}
	if len(m.Units()) != 1 {
		t.Fatalf("units = %d, want 1", len(m.Units()))
	}
	u := m.Units()[0]
	// Position 1 is seen with UV 1 and UV 5, so it is split once.
	if u.VertexCount() != 5 || u.Splits() != 1 || u.TriangleCount() != 2 {
		t.Errorf("unit: %d vertices, %d splits, %d triangles", u.VertexCount(), u.Splits(), u.TriangleCount())
	}
	if m.DrawMode() != DrawTexture || !u.Textured() {
		t.Errorf("mode = %v textured = %v", m.DrawMode(), u.Textured())
	}
	want := filepath.Join(dir, "textures", "wood.png")
	if len(tex.calls) != 1 || tex.calls[0] != want {
		t.Errorf("texture loads = %v, want [%s]", tex.calls, want)
	}
	if m.Color != DefaultColor {
		t.Errorf("Color = %v, want DefaultColor", m.Color)
	}

	fm := gpu.meshes[u.handle]
	if len(fm.positions) != 15 || len(fm.uvs) != 10 || len(fm.indices) != 6 {
		t.Errorf("upload sizes: %d positions %d uvs %d indices", len(fm.positions), len(fm.uvs), len(fm.indices))
	}

	m.Close()
	if len(gpu.meshes) != 0 || len(tex.loaded) != 0 {
		t.Errorf("Close left %d meshes, %d textures", len(gpu.meshes), len(tex.loaded))
	}
}

func TestLoadSharesTextures(t *testing.T) {
	dir := writeFiles(t, map[string]string{"scene.obj": twoMaterialOBJ, "scene.mtl": twoMaterialMTL})
	tex := newFakeTextures()

	m, err := Load(filepath.Join(dir, "scene.obj"), newFakeGPU(), tex, DefaultLoadOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(m.Units()) != 3 {
		t.Fatalf("units = %d, want 3", len(m.Units()))
	}
	if len(tex.calls) != 2 {
		t.Errorf("texture loads = %v, want wood and stone once each", tex.calls)
	}
	if m.Units()[0].texture != m.Units()[2].texture {
		t.Error("units using the same material got different textures")
	}
}

func TestLoadUntextured(t *testing.T) {
	dir := writeFiles(t, map[string]string{"quad.obj": quadOBJ})
	gpu, tex := newFakeGPU(), newFakeTextures()

	opts := DefaultLoadOptions()
	opts.Textured = false
	opts.Color = math.Vec4{X: 1, Y: 0, Z: 0, W: 1}

	// No MTL on disk: it must not be read when loading untextured.
	m, err := Load(filepath.Join(dir, "quad.obj"), gpu, tex, opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tex.calls) != 0 {
		t.Errorf("untextured load loaded textures %v", tex.calls)
	}
	u := m.Units()[0]
	if u.VertexCount() != 4 || u.Splits() != 0 {
		t.Errorf("position-only unit: %d vertices, %d splits", u.VertexCount(), u.Splits())
	}
	if m.DrawMode() != DrawColor || m.Color != opts.Color {
		t.Errorf("mode %v color %v", m.DrawMode(), m.Color)
	}
	if len(gpu.meshes[u.handle].uvs) != 0 {
		t.Error("untextured unit uploaded UVs")
	}
}

func TestLoadWithTextureOverride(t *testing.T) {
	dir := writeFiles(t, map[string]string{"scene.obj": twoMaterialOBJ})
	tex := newFakeTextures()

	m, err := LoadWithTexture(filepath.Join(dir, "scene.obj"), "skin.png", newFakeGPU(), tex, DefaultLoadOptions())
	if err != nil {
		t.Fatalf("LoadWithTexture: %v", err)
	}
	if len(tex.calls) != 1 || tex.calls[0] != "skin.png" {
		t.Errorf("texture loads = %v, want [skin.png]", tex.calls)
	}
	for i, u := range m.Units() {
		if !u.Textured() {
			t.Errorf("unit %d not textured", i)
		}
	}
}

func TestLoadErrorsReleaseResources(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		missing string
		failAt  int
		wantErr error
		wantMsg string
	}{
		{
			name:    "unknown material",
			files:   map[string]string{"scene.obj": twoMaterialOBJ, "scene.mtl": "newmtl wood\nmap_Kd wood.png\n"},
			wantErr: ErrUnknownMaterial,
		},
		{
			name:    "missing texture",
			files:   map[string]string{"scene.obj": twoMaterialOBJ, "scene.mtl": twoMaterialMTL},
			missing: "stone.png",
			wantMsg: "stone.png",
		},
		{
			name:    "upload failure",
			files:   map[string]string{"scene.obj": twoMaterialOBJ, "scene.mtl": twoMaterialMTL},
			failAt:  3,
			wantMsg: "out of memory",
		},
		{
			name:    "missing material library",
			files:   map[string]string{"scene.obj": twoMaterialOBJ},
			wantMsg: "scene.mtl",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFiles(t, tt.files)
			gpu, tex := newFakeGPU(), newFakeTextures()
			gpu.failAt = tt.failAt
			if tt.missing != "" {
				tex.missing[filepath.Join(dir, tt.missing)] = true
			}

			m, err := Load(filepath.Join(dir, "scene.obj"), gpu, tex, DefaultLoadOptions())
			if err == nil {
				t.Fatal("expected error")
			}
			if m != nil {
				t.Error("failed Load returned a model")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("err = %v, want mention of %q", err, tt.wantMsg)
			}
			if len(gpu.meshes) != 0 {
				t.Errorf("%d meshes leaked", len(gpu.meshes))
			}
			if len(tex.loaded) != 0 {
				t.Errorf("%d textures leaked", len(tex.loaded))
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.obj"), newFakeGPU(), newFakeTextures(), DefaultLoadOptions())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}
}
