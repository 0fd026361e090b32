// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Camera   CameraConfig   `yaml:"camera"`
	Scene    SceneConfig    `yaml:"scene"`
	Data     DataConfig     `yaml:"data"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	FPSLimit   int        `yaml:"fps_limit"`
	Background [4]float32 `yaml:"background"` // clear color, RGBA

	ScreenshotDir string `yaml:"screenshot_dir"`
}

// CameraConfig holds the initial hemisphere camera placement.
type CameraConfig struct {
	Position        [3]float32 `yaml:"position"`         // eye, projected onto the upper hemisphere
	Target          [3]float32 `yaml:"target"`           // point the camera orbits
	RenderDistance  float32    `yaml:"render_distance"`  // far plane
	ZoomSensitivity float32    `yaml:"zoom_sensitivity"` // radius change per wheel notch
	OrbitSpeed      float32    `yaml:"orbit_speed"`      // radians per pixel dragged
	FitToModels     bool       `yaml:"fit_to_models"`    // aim at the loaded models on start
}

// SceneConfig lists the models shown at startup.
type SceneConfig struct {
	Models []ModelConfig `yaml:"models"`
}

// ModelConfig describes one model to load and animate.
type ModelConfig struct {
	Path       string     `yaml:"path"`
	Texture    string     `yaml:"texture"`    // overrides the MTL diffuse maps
	Untextured bool       `yaml:"untextured"` // skip UVs and textures
	Color      [4]float32 `yaml:"color"`      // zero means the default color

	Position [3]float32 `yaml:"position"`

	MovePerSecond   [3]float32 `yaml:"move_per_second"`
	ScalePerSecond  [3]float32 `yaml:"scale_per_second"` // zero components mean 1
	RotatePerSecond [3]float32 `yaml:"rotate_per_second"`
}

// HasColor reports whether a color was configured.
func (m ModelConfig) HasColor() bool {
	return m.Color != [4]float32{}
}

// ScaleRate returns ScalePerSecond with unset components defaulted to 1.
func (m ModelConfig) ScaleRate() [3]float32 {
	s := m.ScalePerSecond
	for i := range s {
		if s[i] == 0 {
			s[i] = 1
		}
	}
	return s
}

// DataConfig holds input file settings.
type DataConfig struct {
	Encoding string `yaml:"encoding"` // text encoding of OBJ/MTL files
	LastDir  string `yaml:"last_dir"` // directory the file dialog opens in
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:         1280,
			Height:        720,
			VSync:         true,
			Background:    [4]float32{1, 1, 1, 1},
			ScreenshotDir: "screenshots",
		},
		Camera: CameraConfig{
			Position:        [3]float32{5, 5, 5},
			RenderDistance:  100,
			ZoomSensitivity: 1,
			OrbitSpeed:      0.01,
		},
		Data: DataConfig{
			Encoding: "utf-8",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks values that would make the viewer unusable.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.FPSLimit < 0 {
		errs = append(errs, fmt.Errorf("graphics: negative fps_limit %d", c.Graphics.FPSLimit))
	}
	if c.Camera.Position == c.Camera.Target {
		errs = append(errs, errors.New("camera: position equals target"))
	}
	for i, m := range c.Scene.Models {
		if m.Path == "" {
			errs = append(errs, fmt.Errorf("scene: model %d has no path", i))
		}
		if m.Untextured && m.Texture != "" {
			errs = append(errs, fmt.Errorf("scene: model %d sets both texture and untextured", i))
		}
		for _, s := range m.ScalePerSecond {
			if s < 0 {
				errs = append(errs, fmt.Errorf("scene: model %d has negative scale_per_second %v", i, m.ScalePerSecond))
				break
			}
		}
	}
	return errors.Join(errs...)
}
