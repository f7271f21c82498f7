// Package texture decodes and prepares texture images.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrUnsupportedTGA is returned for TGA variants DecodeTGA cannot read.
var ErrUnsupportedTGA = errors.New("unsupported TGA")

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

// tgaReader writes BGR(A) pixels into an image in file order.
type tgaReader struct {
	img           *image.RGBA
	width, height int
	bytesPerPixel int
	topToBottom   bool
	next          int // index of the next pixel to write
}

func (r *tgaReader) done() bool {
	return r.next >= r.width*r.height
}

// pixel decodes one pixel from p, which must hold bytesPerPixel bytes.
func (r *tgaReader) pixel(p []byte) color.RGBA {
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if r.bytesPerPixel == 4 {
		c.A = p[3]
	}
	return c
}

func (r *tgaReader) put(c color.RGBA) {
	x := r.next % r.width
	y := r.next / r.width
	if !r.topToBottom {
		y = r.height - 1 - y
	}
	r.img.SetRGBA(x, y, c)
	r.next++
}

// DecodeTGA decodes uncompressed (type 2) and RLE (type 10) true-color TGA data.
// The format has no magic number, so callers pick it by file extension.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("TGA data too short: %d bytes", len(data))
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped", ErrUnsupportedTGA)
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("%w: type %d", ErrUnsupportedTGA, imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedTGA, bpp)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}
	pix := data[offset:]

	r := &tgaReader{
		img:           image.NewRGBA(image.Rect(0, 0, width, height)),
		width:         width,
		height:        height,
		bytesPerPixel: bpp / 8,
		topToBottom:   descriptor&0x20 != 0,
	}

	if imageType == TGATypeUncompressed {
		if len(pix) < width*height*r.bytesPerPixel {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}
		for i := 0; !r.done(); i += r.bytesPerPixel {
			r.put(r.pixel(pix[i:]))
		}
		return r.img, nil
	}

	decodeRLE(r, pix)
	return r.img, nil
}

// decodeRLE reads run-length packets until the image is full or data runs out.
// Truncated data leaves the remaining pixels transparent.
func decodeRLE(r *tgaReader, pix []byte) {
	i := 0
	for !r.done() && i < len(pix) {
		packet := pix[i]
		i++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if i+r.bytesPerPixel > len(pix) {
				return
			}
			c := r.pixel(pix[i:])
			i += r.bytesPerPixel
			for ; count > 0 && !r.done(); count-- {
				r.put(c)
			}
			continue
		}

		for ; count > 0 && !r.done(); count-- {
			if i+r.bytesPerPixel > len(pix) {
				return
			}
			r.put(r.pixel(pix[i:]))
			i += r.bytesPerPixel
		}
	}
}
