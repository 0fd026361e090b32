// Package viewer runs the interactive model viewer: window, input, camera
// and the per-frame update and draw of the loaded models.
package viewer

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/config"
	"github.com/Faultbox/objview/internal/engine/buffer"
	"github.com/Faultbox/objview/internal/engine/camera"
	"github.com/Faultbox/objview/internal/engine/debug"
	"github.com/Faultbox/objview/internal/engine/input"
	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/internal/engine/renderer"
	"github.com/Faultbox/objview/internal/engine/texture"
	"github.com/Faultbox/objview/internal/engine/window"
	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/pkg/math"
)

// Title is the window title prefix.
const Title = "objview"

// Viewer is the main viewer instance.
type Viewer struct {
	cfg      *config.Config
	running  bool
	paused   bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	store    *buffer.Store
	textures *texture.Loader
	camera   *camera.Hemisphere
	models   []*model.Model
	shots    *debug.Screenshots
	shotDue  bool
}

// New creates the window and GL state and loads the configured scene.
func New(cfg *config.Config) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("models", len(cfg.Scene.Models)),
	)

	v := &Viewer{cfg: cfg}

	var err error
	v.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    4,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	bg := cfg.Graphics.Background
	width, height := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		Background: math.Vec4{X: bg[0], Y: bg[1], Z: bg[2], W: bg[3]},
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.input = input.New()
	v.shots = debug.NewScreenshots(cfg.Graphics.ScreenshotDir, Title)
	v.store = buffer.NewStore()
	v.textures = texture.NewLoader()

	v.models, err = loadScene(cfg, v.store, v.textures)
	if err != nil {
		v.Close()
		return nil, err
	}

	logger.Info("scene loaded",
		zap.Int("models", len(v.models)),
		zap.Int("meshes", v.store.Len()),
	)

	v.camera = newCamera(cfg.Camera, v.window.Aspect(), v.models)
	v.updateTitle(0)

	logger.Info("viewer initialized successfully")
	return v, nil
}

func newCamera(cc config.CameraConfig, aspect float32, models []*model.Model) *camera.Hemisphere {
	target := math.Vec3{X: cc.Target[0], Y: cc.Target[1], Z: cc.Target[2]}
	if b, ok := sceneBounds(models); ok && cc.FitToModels {
		target = b.Center()
	}
	position := math.Vec3{X: cc.Position[0], Y: cc.Position[1], Z: cc.Position[2]}

	c := camera.NewHemisphere(position, target, aspect, cc.RenderDistance)
	c.ZoomSensitivity = cc.ZoomSensitivity
	c.DragSensitivity = cc.OrbitSpeed
	return c
}

// Run starts the main loop and returns when the window is closed or ESC is
// pressed.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	var minFrame time.Duration
	if v.cfg.Graphics.FPSLimit > 0 {
		minFrame = time.Second / time.Duration(v.cfg.Graphics.FPSLimit)
	}

	logger.Info("starting viewer loop")

	for v.running {
		frameStart := time.Now()
		dt := float32(frameStart.Sub(lastTime).Seconds())
		lastTime = frameStart

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()

		if !v.paused {
			for _, m := range v.models {
				m.Update(dt)
			}
		}

		v.render()
		if v.shotDue {
			v.shotDue = false
			v.screenshot()
		}
		v.window.SwapBuffers()

		frameCount++
		if elapsed := time.Since(fpsTimer); elapsed >= time.Second {
			fps := float64(frameCount) / elapsed.Seconds()
			v.updateTitle(fps)
			logger.Debug("fps", zap.Float64("fps", fps), zap.Float32("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if minFrame > 0 {
			if rest := minFrame - time.Since(frameStart); rest > 0 {
				time.Sleep(rest)
			}
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			// Event sizes are in screen coordinates; GL wants pixels.
			width, height := v.window.DrawableSize()
			v.renderer.Resize(width, height)
			v.camera.SetAspect(window.Aspect(width, height))
		case input.EventMouseWheel:
			v.camera.HandleZoom(event.DeltaY)
		case input.EventDrag:
			v.camera.HandleDrag(event.DeltaX, event.DeltaY)
		case input.EventKeyDown:
			v.apply(actionFor(event))
		}
	}
}

func (v *Viewer) apply(a Action) {
	switch a {
	case ActionQuit:
		v.running = false
	case ActionToggleDrawMode:
		toggleDrawMode(v.models)
	case ActionToggleWireframe:
		v.renderer.SetWireframe(!v.renderer.Wireframe())
	case ActionTogglePause:
		v.paused = !v.paused
		logger.Debug("animation paused", zap.Bool("paused", v.paused))
	case ActionScreenshot:
		v.shotDue = true
	case ActionFocus:
		focus(v.camera, v.models)
	}
}

// focus points the camera at the center of the scene bounds.
func focus(c *camera.Hemisphere, models []*model.Model) {
	if b, ok := sceneBounds(models); ok {
		c.SetTarget(b.Center())
		logger.Debug("camera focused", zap.Float32("x", c.Target().X), zap.Float32("y", c.Target().Y), zap.Float32("z", c.Target().Z))
	}
}

// screenshot saves the frame just rendered, before the buffer swap.
func (v *Viewer) screenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.SavePixels(pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// toggleDrawMode flips every model between color and texture drawing.
// Models without textures stay in color mode.
func toggleDrawMode(models []*model.Model) {
	for _, m := range models {
		next := model.DrawTexture
		if m.DrawMode() == model.DrawTexture {
			next = model.DrawColor
		}
		if err := m.SetDrawMode(next); err != nil {
			if errors.Is(err, model.ErrDrawModeLocked) {
				logger.Debug("draw mode unchanged", zap.String("model", m.Name), zap.Error(err))
				continue
			}
			logger.Warn("draw mode", zap.String("model", m.Name), zap.Error(err))
		}
	}
}

func (v *Viewer) render() {
	v.renderer.Begin(v.camera.ViewMatrix(), v.camera.ProjectionMatrix())
	for _, m := range v.models {
		m.Draw(v.renderer)
	}
	v.renderer.End()
}

func (v *Viewer) updateTitle(fps float64) {
	title := Title
	if len(v.models) == 1 {
		title += " - " + v.models[0].Name
	}
	if fps > 0 {
		title += fmt.Sprintf(" (%.0f fps)", fps)
	}
	v.window.SetTitle(title)
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	closeAll(v.models)
	v.models = nil
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
