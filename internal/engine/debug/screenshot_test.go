package debug

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFlipRows(t *testing.T) {
	// 1x2: bottom row red, top row green, in GL order
	pixels := []byte{
		255, 0, 0, 255,
		0, 255, 0, 255,
	}
	img, err := FlipRows(pixels, 1, 2)
	if err != nil {
		t.Fatalf("FlipRows: %v", err)
	}
	if c := img.RGBAAt(0, 0); c != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("top row should be green, got %v", c)
	}
	if c := img.RGBAAt(0, 1); c != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("bottom row should be red, got %v", c)
	}
}

func TestFlipRowsRejectsBadInput(t *testing.T) {
	if _, err := FlipRows(make([]byte, 7), 1, 2); err == nil {
		t.Error("expected size mismatch error")
	}
	if _, err := FlipRows(nil, 0, 0); err == nil {
		t.Error("expected error for empty size")
	}
}

func TestCaptureFromPixels(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "quad")
	sc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC) }

	pixels := make([]byte, 2*2*4)
	for i := range pixels {
		pixels[i] = 255
	}
	name, err := sc.CaptureFromPixels(pixels, 2, 2)
	if err != nil {
		t.Fatalf("CaptureFromPixels: %v", err)
	}

	want := filepath.Join(dir, "quad_2024-03-01_12-30-00.000.png")
	if name != want {
		t.Errorf("filename = %s, want %s", name, want)
	}

	f, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode written png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Errorf("unexpected bounds %v", b)
	}
}

func TestGenerateFilenameWithoutDir(t *testing.T) {
	sc := NewScreenshotCapture("", "shot")
	name := sc.GenerateFilename()
	if !strings.HasPrefix(name, "shot_") || !strings.HasSuffix(name, ".png") {
		t.Errorf("unexpected filename %s", name)
	}
	if strings.ContainsRune(name, filepath.Separator) {
		t.Errorf("filename should have no directory, got %s", name)
	}
}
