package resource

import (
	"fmt"
	"image"
)

// TGA image types.
const (
	tgaTypeUncompressed = 2  // Uncompressed true-color
	tgaTypeRLE          = 10 // RLE compressed true-color
)

// TGA decodes uncompressed or RLE true-color Targa files into an
// *image.NRGBA. Targa has no magic number, so it cannot go through
// image.Decode and is picked by extension instead.
var TGA = Decoder{ContentType: "image/x-tga", Decode: func(data []byte) (any, error) { return decodeTGA(data) }}

func decodeTGA(data []byte) (*image.NRGBA, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != tgaTypeUncompressed && imageType != tgaTypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d (only uncompressed/RLE true-color supported)", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d (only 24/32 supported)", bpp)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("TGA has empty size %dx%d", width, height)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}

	w := tgaWriter{
		img:         image.NewNRGBA(image.Rect(0, 0, width, height)),
		width:       width,
		height:      height,
		bpp:         bpp / 8,
		topToBottom: descriptor&0x20 != 0,
	}
	pixels := data[offset:]

	if imageType == tgaTypeUncompressed {
		if len(pixels) < width*height*w.bpp {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}
		for i := 0; i < width*height; i++ {
			w.put(i, pixels[i*w.bpp:])
		}
		return w.img, nil
	}

	if err := w.decodeRLE(pixels); err != nil {
		return nil, err
	}
	return w.img, nil
}

// tgaWriter places BGR(A) pixels, stored bottom-up unless the descriptor
// says otherwise, into a top-down image.
type tgaWriter struct {
	img         *image.NRGBA
	width       int
	height      int
	bpp         int
	topToBottom bool
}

func (w *tgaWriter) put(idx int, px []byte) {
	x := idx % w.width
	y := idx / w.width
	if !w.topToBottom {
		y = w.height - 1 - y
	}
	a := uint8(255)
	if w.bpp == 4 {
		a = px[3]
	}
	i := w.img.PixOffset(x, y)
	w.img.Pix[i+0] = px[2]
	w.img.Pix[i+1] = px[1]
	w.img.Pix[i+2] = px[0]
	w.img.Pix[i+3] = a
}

func (w *tgaWriter) decodeRLE(data []byte) error {
	total := w.width * w.height
	idx := 0
	pos := 0

	for idx < total {
		if pos >= len(data) {
			return fmt.Errorf("TGA RLE data truncated at pixel %d of %d", idx, total)
		}
		packet := data[pos]
		pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run: one pixel repeated count times
			if pos+w.bpp > len(data) {
				return fmt.Errorf("TGA RLE data truncated")
			}
			px := data[pos : pos+w.bpp]
			pos += w.bpp
			for i := 0; i < count && idx < total; i++ {
				w.put(idx, px)
				idx++
			}
			continue
		}

		// Raw: count literal pixels
		for i := 0; i < count && idx < total; i++ {
			if pos+w.bpp > len(data) {
				return fmt.Errorf("TGA RLE data truncated")
			}
			w.put(idx, data[pos:pos+w.bpp])
			pos += w.bpp
			idx++
		}
	}
	return nil
}
