package texture

import (
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/logger"
)

// Loader decodes image files and uploads them as mipmapped, repeating 2D
// textures. It must be used on the GL thread.
type Loader struct {
	// MaxSize caps the texture width and height; larger images are
	// downscaled. Zero means no limit beyond the driver's.
	MaxSize int
}

// NewLoader returns a loader capped at the driver's maximum texture size.
func NewLoader() *Loader {
	var maxSize int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSize)
	return &Loader{MaxSize: int(maxSize)}
}

// LoadTexture decodes path and uploads it, returning the GL texture name.
func (l *Loader) LoadTexture(path string) (uint32, error) {
	img, format, err := DecodeFile(path)
	if err != nil {
		return 0, err
	}
	rgba := ToRGBA(img, l.MaxSize)
	FlipVertical(rgba)

	id := Upload(rgba)
	logger.Debug("texture loaded",
		zap.String("path", path),
		zap.String("format", format),
		zap.Int("width", rgba.Bounds().Dx()),
		zap.Int("height", rgba.Bounds().Dy()),
		zap.Uint32("id", id),
	)
	return id, nil
}

// DeleteTexture releases a texture created by LoadTexture.
func (l *Loader) DeleteTexture(id uint32) {
	if id != 0 {
		gl.DeleteTextures(1, &id)
	}
}

// Upload creates a texture from tightly packed RGBA pixels, bottom row
// first.
func Upload(img *image.RGBA) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	var pix unsafe.Pointer
	if len(img.Pix) > 0 {
		pix = unsafe.Pointer(&img.Pix[0])
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, pix)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id
}
