package viewer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/objview/internal/config"
	"github.com/Faultbox/objview/internal/engine/camera"
	"github.com/Faultbox/objview/internal/engine/input"
	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/pkg/math"
)

type memGPU struct {
	next   uint32
	live   map[uint32]bool
	failAt int
	calls  int
}

func newMemGPU() *memGPU { return &memGPU{next: 1, live: make(map[uint32]bool)} }

func (g *memGPU) UploadMesh(_, _ []float32, _ []uint32) (uint32, error) {
	g.calls++
	if g.calls == g.failAt {
		return 0, errors.New("upload failed")
	}
	h := g.next
	g.next++
	g.live[h] = true
	return h, nil
}
func (g *memGPU) UpdatePositions(uint32, []float32) {}
func (g *memGPU) DrawMesh(uint32, bool, uint32)      {}
func (g *memGPU) DeleteMesh(h uint32)                { delete(g.live, h) }

type memTextures struct {
	next uint32
	live map[uint32]bool
}

func newMemTextures() *memTextures { return &memTextures{next: 1, live: make(map[uint32]bool)} }

func (t *memTextures) LoadTexture(string) (uint32, error) {
	id := t.next
	t.next++
	t.live[id] = true
	return id, nil
}
func (t *memTextures) DeleteTexture(id uint32) { delete(t.live, id) }

const triangleOBJ = `v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
f 1/1 2/2 3/3
`

func writeOBJ(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOptions(t *testing.T) {
	tests := []struct {
		name string
		mc   config.ModelConfig
		want model.LoadOptions
	}{
		{
			name: "defaults",
			mc:   config.ModelConfig{Path: "a.obj"},
			want: model.LoadOptions{Textured: true, Encoding: "cp1251", Color: model.DefaultColor},
		},
		{
			name: "texture override and color",
			mc:   config.ModelConfig{Path: "a.obj", Texture: "skin.png", Color: [4]float32{0, 1, 0, 1}},
			want: model.LoadOptions{Textured: true, TextureOverride: "skin.png", Encoding: "cp1251", Color: math.Vec4{Y: 1, W: 1}},
		},
		{
			name: "untextured",
			mc:   config.ModelConfig{Path: "a.obj", Untextured: true},
			want: model.LoadOptions{Textured: false, Encoding: "cp1251", Color: model.DefaultColor},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loadOptions(tt.mc, "cp1251"); got != tt.want {
				t.Errorf("loadOptions = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadScenePlacesModels(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Scene.Models = []config.ModelConfig{
		{
			Path:            writeOBJ(t, dir, "a.obj", triangleOBJ),
			Untextured:      true,
			Position:        [3]float32{2, 0, 0},
			RotatePerSecond: [3]float32{0, 1, 0},
		},
		{
			Path:           writeOBJ(t, dir, "b.obj", triangleOBJ),
			Texture:        "skin.png",
			ScalePerSecond: [3]float32{2, 0, 0},
		},
	}

	models, err := loadScene(cfg, newMemGPU(), newMemTextures())
	if err != nil {
		t.Fatalf("loadScene: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("models = %d, want 2", len(models))
	}

	a, b := models[0], models[1]
	if a.Position() != (math.Vec3{X: 2}) {
		t.Errorf("a.Position = %v, want (2,0,0)", a.Position())
	}
	if a.RotationPerSecond != (model.RotationAngles{Y: 1}) || a.DrawMode() != model.DrawColor {
		t.Errorf("a: rotation rate %v mode %v", a.RotationPerSecond, a.DrawMode())
	}
	if b.ScalingPerSecond != (model.Size{X: 2, Y: 1, Z: 1}) || b.DrawMode() != model.DrawTexture {
		t.Errorf("b: scale rate %v mode %v", b.ScalingPerSecond, b.DrawMode())
	}

	bounds, ok := sceneBounds(models)
	if !ok || bounds.Min != (math.Vec3{}) || bounds.Max != (math.Vec3{X: 3, Y: 1}) {
		t.Errorf("sceneBounds = %+v, %v", bounds, ok)
	}
}

func TestLoadSceneFailureClosesLoadedModels(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Scene.Models = []config.ModelConfig{
		{Path: writeOBJ(t, dir, "a.obj", triangleOBJ), Texture: "skin.png"},
		{Path: filepath.Join(dir, "missing.obj")},
	}

	gpu, tex := newMemGPU(), newMemTextures()
	if _, err := loadScene(cfg, gpu, tex); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want os.ErrNotExist", err)
	}
	if len(gpu.live) != 0 || len(tex.live) != 0 {
		t.Errorf("leaked %d meshes, %d textures", len(gpu.live), len(tex.live))
	}
}

func TestFocusTargetsSceneCenter(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.Models = []config.ModelConfig{
		{Path: writeOBJ(t, t.TempDir(), "a.obj", triangleOBJ), Untextured: true, Position: [3]float32{2, 0, 0}},
	}
	models, err := loadScene(cfg, newMemGPU(), newMemTextures())
	if err != nil {
		t.Fatalf("loadScene: %v", err)
	}
	defer closeAll(models)

	c := camera.NewHemisphere(math.Vec3{X: 5, Y: 5, Z: 5}, math.Vec3{}, 1, 100)
	r := c.R()
	focus(c, models)

	b, _ := sceneBounds(models)
	if c.Target() != b.Center() {
		t.Errorf("target = %v, want %v", c.Target(), b.Center())
	}
	if c.R() != r {
		t.Errorf("R changed from %v to %v", r, c.R())
	}

	empty := camera.NewHemisphere(math.Vec3{X: 5, Y: 5, Z: 5}, math.Vec3{}, 1, 100)
	focus(empty, nil)
	if empty.Target() != (math.Vec3{}) {
		t.Errorf("empty scene moved target to %v", empty.Target())
	}
}

func TestSceneBoundsEmpty(t *testing.T) {
	if _, ok := sceneBounds(nil); ok {
		t.Error("empty scene reported bounds")
	}
}

func TestActionFor(t *testing.T) {
	tests := []struct {
		event input.Event
		want  Action
	}{
		{input.Event{Type: input.EventKeyDown, Key: sdl.K_ESCAPE}, ActionQuit},
		{input.Event{Type: input.EventKeyDown, Key: sdl.K_t}, ActionToggleDrawMode},
		{input.Event{Type: input.EventKeyDown, Key: sdl.K_w}, ActionToggleWireframe},
		{input.Event{Type: input.EventKeyDown, Key: sdl.K_SPACE}, ActionTogglePause},
		{input.Event{Type: input.EventKeyDown, Key: sdl.K_F12}, ActionScreenshot},
		{input.Event{Type: input.EventKeyDown, Key: sdl.K_f}, ActionFocus},
		{input.Event{Type: input.EventKeyDown, Key: sdl.K_t, Repeat: true}, ActionNone},
		{input.Event{Type: input.EventKeyUp, Key: sdl.K_ESCAPE}, ActionNone},
		{input.Event{Type: input.EventKeyDown, Key: sdl.K_q}, ActionNone},
	}
	for _, tt := range tests {
		if got := actionFor(tt.event); got != tt.want {
			t.Errorf("actionFor(%+v) = %v, want %v", tt.event, got, tt.want)
		}
	}
}

func TestToggleDrawMode(t *testing.T) {
	dir := t.TempDir()
	path := writeOBJ(t, dir, "a.obj", triangleOBJ)
	gpu, tex := newMemGPU(), newMemTextures()

	textured, err := model.LoadWithTexture(path, "skin.png", gpu, tex, model.DefaultLoadOptions())
	if err != nil {
		t.Fatal(err)
	}
	opts := model.DefaultLoadOptions()
	opts.Textured = false
	plain, err := model.Load(path, gpu, tex, opts)
	if err != nil {
		t.Fatal(err)
	}
	models := []*model.Model{textured, plain}

	toggleDrawMode(models)
	if textured.DrawMode() != model.DrawColor || plain.DrawMode() != model.DrawColor {
		t.Errorf("after one toggle: %v, %v", textured.DrawMode(), plain.DrawMode())
	}
	toggleDrawMode(models)
	if textured.DrawMode() != model.DrawTexture || plain.DrawMode() != model.DrawColor {
		t.Errorf("after two toggles: %v, %v", textured.DrawMode(), plain.DrawMode())
	}
}
