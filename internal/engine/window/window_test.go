package window

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestAspect(t *testing.T) {
	tests := []struct {
		w, h int
		want float32
	}{
		{1280, 720, 1280.0 / 720},
		{800, 800, 1},
		{800, 0, 1},
		{0, 600, 1},
	}
	for _, tt := range tests {
		if got := Aspect(tt.w, tt.h); got != tt.want {
			t.Errorf("Aspect(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestContextAttributes(t *testing.T) {
	has := func(attrs []glAttribute, attr sdl.GLattr) (int, bool) {
		for _, a := range attrs {
			if a.attr == attr {
				return a.value, true
			}
		}
		return 0, false
	}

	attrs := contextAttributes(0)
	if v, ok := has(attrs, sdl.GL_CONTEXT_PROFILE_MASK); !ok || v != sdl.GL_CONTEXT_PROFILE_CORE {
		t.Errorf("profile mask = %d, %v; want core", v, ok)
	}
	if _, ok := has(attrs, sdl.GL_MULTISAMPLEBUFFERS); ok {
		t.Error("multisampling requested with 0 samples")
	}

	attrs = contextAttributes(4)
	if v, ok := has(attrs, sdl.GL_MULTISAMPLESAMPLES); !ok || v != 4 {
		t.Errorf("samples = %d, %v; want 4", v, ok)
	}
}

func TestWindowFlags(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		fullscreen bool
	}{
		{"windowed", Config{}, false},
		{"fullscreen", Config{Fullscreen: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := windowFlags(tt.cfg)
			if flags&sdl.WINDOW_ALLOW_HIGHDPI == 0 {
				t.Error("HiDPI not allowed")
			}
			if flags&sdl.WINDOW_OPENGL == 0 {
				t.Error("OpenGL flag missing")
			}
			if got := flags&sdl.WINDOW_FULLSCREEN_DESKTOP != 0; got != tt.fullscreen {
				t.Errorf("fullscreen = %v, want %v", got, tt.fullscreen)
			}
		})
	}
}
