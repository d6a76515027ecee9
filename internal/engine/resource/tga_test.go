package resource

import (
	"image"
	"image/color"
	"testing"
)

func tgaHeader(imageType byte, w, h int, bpp byte, descriptor byte) []byte {
	hdr := make([]byte, 18)
	hdr[2] = imageType
	hdr[12] = byte(w)
	hdr[13] = byte(w >> 8)
	hdr[14] = byte(h)
	hdr[15] = byte(h >> 8)
	hdr[16] = bpp
	hdr[17] = descriptor
	return hdr
}

func TestDecodeTGAUncompressedBottomUp(t *testing.T) {
	// 2x2, 24-bit BGR, rows stored bottom-up
	data := tgaHeader(tgaTypeUncompressed, 2, 2, 24, 0)
	data = append(data,
		0, 0, 255, 0, 255, 0, // bottom row: red, green
		255, 0, 0, 255, 255, 255, // top row: blue, white
	)

	v, err := TGA.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	img := v.(*image.NRGBA)

	want := map[image.Point]color.NRGBA{
		{0, 0}: {B: 255, A: 255},
		{1, 0}: {R: 255, G: 255, B: 255, A: 255},
		{0, 1}: {R: 255, A: 255},
		{1, 1}: {G: 255, A: 255},
	}
	for p, c := range want {
		if got := img.NRGBAAt(p.X, p.Y); got != c {
			t.Errorf("pixel %v = %v, want %v", p, got, c)
		}
	}
}

func TestDecodeTGARLETopDown(t *testing.T) {
	// 3x1, 32-bit, top-down: run of 2 half-transparent red, then 1 raw green
	data := tgaHeader(tgaTypeRLE, 3, 1, 32, 0x20)
	data = append(data,
		0x81, 0, 0, 255, 128,
		0x00, 0, 255, 0, 255,
	)

	v, err := TGA.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	img := v.(*image.NRGBA)

	for x, want := range []color.NRGBA{
		{R: 255, A: 128},
		{R: 255, A: 128},
		{G: 255, A: 255},
	} {
		if got := img.NRGBAAt(x, 0); got != want {
			t.Errorf("pixel %d = %v, want %v", x, got, want)
		}
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := map[string][]byte{
		"short":         {0, 0, 2},
		"color mapped":  func() []byte { h := tgaHeader(tgaTypeUncompressed, 1, 1, 24, 0); h[1] = 1; return h }(),
		"grayscale":     tgaHeader(3, 1, 1, 8, 0),
		"16 bit":        tgaHeader(tgaTypeUncompressed, 1, 1, 16, 0),
		"empty":         tgaHeader(tgaTypeUncompressed, 0, 0, 24, 0),
		"truncated":     append(tgaHeader(tgaTypeUncompressed, 2, 2, 24, 0), 1, 2, 3),
		"rle truncated": append(tgaHeader(tgaTypeRLE, 4, 1, 24, 0), 0x81, 1, 2, 3),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := TGA.Decode(data); err == nil {
				t.Error("expected error")
			}
		})
	}
}
