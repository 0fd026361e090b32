package viewer

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/objview/internal/engine/input"
)

// Action is a viewer command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionToggleDrawMode
	ActionToggleWireframe
	ActionTogglePause
	ActionScreenshot
	ActionFocus
)

var keyBindings = map[sdl.Keycode]Action{
	sdl.K_ESCAPE: ActionQuit,
	sdl.K_t:      ActionToggleDrawMode,
	sdl.K_w:      ActionToggleWireframe,
	sdl.K_SPACE:  ActionTogglePause,
	sdl.K_F12:    ActionScreenshot,
	sdl.K_f:      ActionFocus,
}

// actionFor maps a key press to an action. Releases and auto-repeat map
// to ActionNone.
func actionFor(e input.Event) Action {
	if e.Type != input.EventKeyDown || e.Repeat {
		return ActionNone
	}
	return keyBindings[e.Key]
}
