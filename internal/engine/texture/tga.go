package texture

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

// ErrUnsupportedTGA is returned for TGA variants the decoder does not read.
var ErrUnsupportedTGA = errors.New("unsupported TGA")

func init() {
	// TGA has no magic number; match "no color map" plus the image type.
	image.RegisterFormat("tga", "?\x00\x02", decodeTGAReader, decodeTGAConfig)
	image.RegisterFormat("tga", "?\x00\x0a", decodeTGAReader, decodeTGAConfig)
}

type tgaHeader struct {
	idLength    int
	imageType   byte
	width       int
	height      int
	bpp         int
	topToBottom bool
}

func parseTGAHeader(h []byte) (tgaHeader, error) {
	if len(h) < tgaHeaderSize {
		return tgaHeader{}, fmt.Errorf("%w: header truncated", ErrUnsupportedTGA)
	}
	hdr := tgaHeader{
		idLength:    int(h[0]),
		imageType:   h[2],
		width:       int(h[12]) | int(h[13])<<8,
		height:      int(h[14]) | int(h[15])<<8,
		bpp:         int(h[16]),
		topToBottom: h[17]&0x20 != 0,
	}
	if h[1] != 0 {
		return hdr, fmt.Errorf("%w: color-mapped", ErrUnsupportedTGA)
	}
	if hdr.imageType != TGATypeUncompressed && hdr.imageType != TGATypeRLE {
		return hdr, fmt.Errorf("%w: type %d", ErrUnsupportedTGA, hdr.imageType)
	}
	if hdr.bpp != 24 && hdr.bpp != 32 {
		return hdr, fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedTGA, hdr.bpp)
	}
	return hdr, nil
}

func decodeTGAConfig(r io.Reader) (image.Config, error) {
	h := make([]byte, tgaHeaderSize)
	if _, err := io.ReadFull(r, h); err != nil {
		return image.Config{}, err
	}
	hdr, err := parseTGAHeader(h)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.RGBAModel, Width: hdr.width, Height: hdr.height}, nil
}

func decodeTGAReader(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	return DecodeTGA(data)
}

// DecodeTGA decodes uncompressed (type 2) and RLE (type 10) true-color TGA
// data into a top-down RGBA image.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	hdr, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}

	offset := tgaHeaderSize + hdr.idLength
	if offset > len(data) {
		return nil, fmt.Errorf("%w: data truncated", ErrUnsupportedTGA)
	}
	src := data[offset:]

	img := image.NewRGBA(image.Rect(0, 0, hdr.width, hdr.height))
	px := tgaPixels{img: img, hdr: hdr, bytesPerPixel: hdr.bpp / 8}

	if hdr.imageType == TGATypeUncompressed {
		if len(src) < hdr.width*hdr.height*px.bytesPerPixel {
			return nil, fmt.Errorf("%w: pixel data truncated", ErrUnsupportedTGA)
		}
		for i := 0; i < hdr.width*hdr.height; i++ {
			px.set(i, px.read(src[i*px.bytesPerPixel:]))
		}
		return img, nil
	}

	if err := px.decodeRLE(src); err != nil {
		return nil, err
	}
	return img, nil
}

// tgaPixels writes pixels in file order into a top-down image.
type tgaPixels struct {
	img           *image.RGBA
	hdr           tgaHeader
	bytesPerPixel int
}

func (p tgaPixels) read(b []byte) color.RGBA {
	c := color.RGBA{R: b[2], G: b[1], B: b[0], A: 255}
	if p.bytesPerPixel == 4 {
		c.A = b[3]
	}
	return c
}

func (p tgaPixels) set(i int, c color.RGBA) {
	x, y := i%p.hdr.width, i/p.hdr.width
	if !p.hdr.topToBottom {
		y = p.hdr.height - 1 - y
	}
	p.img.SetRGBA(x, y, c)
}

func (p tgaPixels) decodeRLE(src []byte) error {
	total := p.hdr.width * p.hdr.height
	pixel, pos := 0, 0

	for pixel < total {
		if pos >= len(src) {
			return fmt.Errorf("%w: RLE data truncated at pixel %d", ErrUnsupportedTGA, pixel)
		}
		packet := src[pos]
		pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if pos+p.bytesPerPixel > len(src) {
				return fmt.Errorf("%w: RLE data truncated at pixel %d", ErrUnsupportedTGA, pixel)
			}
			c := p.read(src[pos:])
			pos += p.bytesPerPixel
			for i := 0; i < count && pixel < total; i++ {
				p.set(pixel, c)
				pixel++
			}
			continue
		}

		for i := 0; i < count && pixel < total; i++ {
			if pos+p.bytesPerPixel > len(src) {
				return fmt.Errorf("%w: RLE data truncated at pixel %d", ErrUnsupportedTGA, pixel)
			}
			p.set(pixel, p.read(src[pos:]))
			pos += p.bytesPerPixel
			pixel++
		}
	}
	return nil
}
