package canvas

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func solidImage(t *testing.T, w, h int) image.Image {
	t.Helper()
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func newTestCanvas(t *testing.T) *Canvas {
	t.Helper()
	return New(800, 1000, nil)
}

// uploadOne pushes one image through the ingestor and fails the test on any
// deferral or error.
func uploadOne(t *testing.T, c *Canvas, data []byte) *Object {
	t.Helper()
	obj, pending, err := NewIngestor(nil).Upload(c, SideFront, data)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if pending != nil {
		t.Fatalf("upload unexpectedly deferred")
	}
	return obj
}
