// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/engine/shader"
	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Background math.Vec4
}

// Renderer owns the color and texture programs and implements the model
// package's Programs interface.
type Renderer struct {
	config Config

	colorProgram   *shader.Program
	textureProgram *shader.Program
	wireframe      bool
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	bg := cfg.Background
	gl.ClearColor(bg.X, bg.Y, bg.Z, bg.W)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	var err error
	r.colorProgram, err = shader.NewProgram("color", shader.ColorVertex, shader.ColorFragment)
	if err != nil {
		return nil, err
	}
	r.textureProgram, err = shader.NewProgram("texture", shader.TextureVertex, shader.TextureFragment)
	if err != nil {
		r.colorProgram.Delete()
		return nil, err
	}

	r.textureProgram.Use()
	r.textureProgram.SetInt("diffuse", 0)
	gl.UseProgram(0)

	logger.Debug("shader programs created",
		zap.Uint32("color", r.colorProgram.ID),
		zap.Uint32("texture", r.textureProgram.ID),
	)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	r.colorProgram.Delete()
	r.textureProgram.Delete()
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// SetWireframe switches between filled and line polygons.
func (r *Renderer) SetWireframe(on bool) {
	r.wireframe = on
	if on {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// Wireframe reports whether polygons are drawn as lines.
func (r *Renderer) Wireframe() bool {
	return r.wireframe
}

// Begin clears the frame and loads the camera matrices into both programs.
// Vertex positions are already in world space, so the model matrix is the
// identity.
func (r *Renderer) Begin(view, projection math.Mat4) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	for _, p := range []*shader.Program{r.colorProgram, r.textureProgram} {
		p.Use()
		p.SetMat4("model", math.Identity())
		p.SetMat4("view", view)
		p.SetMat4("projection", projection)
	}
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.UseProgram(0)
}

// ReadPixels reads the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// UseColor activates the flat color program.
func (r *Renderer) UseColor(color math.Vec4) {
	r.colorProgram.Use()
	r.colorProgram.SetVec4("color", color)
}

// UseTexture activates the texture program.
func (r *Renderer) UseTexture() {
	r.textureProgram.Use()
}
