package canvas

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"testing"
)

func decodeExport(t *testing.T, data []byte) (w, h int, center color.Color) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), img.At(b.Dx()/2, b.Dy()/2)
}

func TestExportPreviewDimensions(t *testing.T) {
	c := newTestCanvas(t)
	exp := NewExporter(c, nil)

	data, err := exp.ExportPreview()
	if err != nil {
		t.Fatalf("export preview: %v", err)
	}
	w, h, center := decodeExport(t, data)
	if w != 400 || h != 500 {
		t.Fatalf("preview = %dx%d, want 400x500", w, h)
	}
	r, g, b, _ := center.RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff {
		t.Fatalf("empty canvas center = %v, want white", center)
	}
}

func TestExportPrintDimensions(t *testing.T) {
	c := newTestCanvas(t)
	exp := NewExporter(c, nil)

	data, err := exp.ExportPrint()
	if err != nil {
		t.Fatalf("export print: %v", err)
	}
	w, h, _ := decodeExport(t, data)
	if w != 1600 || h != 2000 {
		t.Fatalf("print = %dx%d, want 1600x2000", w, h)
	}
}

func TestExportRendersCenteredImage(t *testing.T) {
	c := newTestCanvas(t)
	uploadOne(t, c, solidPNG(t, 100, 100, color.NRGBA{R: 0xff, A: 0xff}))

	data, err := NewExporter(c, nil).ExportPreview()
	if err != nil {
		t.Fatalf("export preview: %v", err)
	}
	_, _, center := decodeExport(t, data)
	r, g, b, _ := center.RGBA()
	if r != 0xffff || g != 0 || b != 0 {
		t.Fatalf("center = %v, want red", center)
	}
}

func TestExportSkipsCropOverlay(t *testing.T) {
	c := newTestCanvas(t)
	crop := NewCropTool(c, nil)
	uploadOne(t, c, solidPNG(t, 100, 100, color.NRGBA{R: 0xff, A: 0xff}))
	if err := crop.Begin(SideFront); err != nil {
		t.Fatalf("begin crop: %v", err)
	}

	// The overlay carries no bitmap; rendering must not choke on it.
	if _, err := NewExporter(c, nil).ExportPreview(); err != nil {
		t.Fatalf("export with active crop: %v", err)
	}
}

func TestExportRejectedWhileBusy(t *testing.T) {
	c := newTestCanvas(t)
	release, err := c.Begin("other")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer release()

	if _, err := NewExporter(c, nil).ExportPreview(); !errors.Is(err, ErrBusy) {
		t.Fatalf("err = %v, want ErrBusy", err)
	}
	if _, err := NewExporter(c, nil).ExportPrint(); !errors.Is(err, ErrBusy) {
		t.Fatalf("err = %v, want ErrBusy", err)
	}
}

func TestExportRendersText(t *testing.T) {
	c := newTestCanvas(t)
	if _, err := NewTextTool(c, nil).Add(SideFront, "HELLO"); err != nil {
		t.Fatalf("add text: %v", err)
	}

	data, err := NewExporter(c, nil).ExportPrint()
	if err != nil {
		t.Fatalf("export print: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	// Black glyph pixels must show up somewhere near the center band.
	b := img.Bounds()
	found := false
	for y := b.Dy()/2 - 100; y < b.Dy()/2+100 && !found; y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r < 0x8000 && g < 0x8000 && bl < 0x8000 {
				found = true
				break
			}
		}
	}
	if !found {
		t.Fatalf("no dark text pixels in export")
	}
}
