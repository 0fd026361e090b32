package shader

import _ "embed"

// Embedded sources of the viewer's two programs.
var (
	//go:embed glsl/color.vert
	ColorVertex string

	//go:embed glsl/color.frag
	ColorFragment string

	//go:embed glsl/texture.vert
	TextureVertex string

	//go:embed glsl/texture.frag
	TextureFragment string
)
