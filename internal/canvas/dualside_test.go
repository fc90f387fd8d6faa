package canvas

import (
	"image/color"
	"testing"
)

func TestToggleRoundTripsSideState(t *testing.T) {
	c := newTestCanvas(t)
	cache := NewStateCache(c, nil, nil, nil)

	front := uploadOne(t, c, solidPNG(t, 100, 100, color.NRGBA{R: 0xff, A: 0xff}))
	if _, err := NewTextTool(c, nil).Add(SideFront, "front side"); err != nil {
		t.Fatalf("add text: %v", err)
	}
	front.Left = 250
	front.Top = 600

	side, err := cache.Toggle()
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if side != SideBack || cache.Current() != SideBack {
		t.Fatalf("side after toggle = %q", side)
	}
	if got := len(c.Objects()); got != 0 {
		t.Fatalf("back side started with %d objects", got)
	}

	uploadOne(t, c, solidPNG(t, 50, 50, color.NRGBA{B: 0xff, A: 0xff}))

	if _, err := cache.Toggle(); err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if cache.Current() != SideFront {
		t.Fatalf("side after second toggle = %q", cache.Current())
	}

	objs := c.Objects()
	if len(objs) != 2 {
		t.Fatalf("restored %d objects, want 2", len(objs))
	}
	restored := c.ObjectByName(front.Name)
	if restored == nil {
		t.Fatalf("front image %q not restored", front.Name)
	}
	if restored.Left != 250 || restored.Top != 600 {
		t.Fatalf("restored position = (%g, %g), want (250, 600)", restored.Left, restored.Top)
	}
	if restored.ScaleX != front.ScaleX {
		t.Fatalf("restored scale = %g, want %g", restored.ScaleX, front.ScaleX)
	}

	// The back side's single image survives another round trip.
	if _, err := cache.Toggle(); err != nil {
		t.Fatalf("third toggle: %v", err)
	}
	if got := c.ImageCount(); got != 1 {
		t.Fatalf("back side image count = %d, want 1", got)
	}
}

func TestToggleCancelsActiveCrop(t *testing.T) {
	c := newTestCanvas(t)
	crop := NewCropTool(c, nil)
	cache := NewStateCache(c, nil, crop, nil)

	uploadOne(t, c, solidPNG(t, 100, 100, color.NRGBA{A: 0xff}))
	if err := crop.Begin(SideFront); err != nil {
		t.Fatalf("begin crop: %v", err)
	}

	if _, err := cache.Toggle(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if crop.Active() {
		t.Fatalf("crop still active after toggle")
	}
	if c.ObjectByName(CropOverlayName) != nil {
		t.Fatalf("overlay leaked into toggled view")
	}
}

func TestToggleExcludesBackgroundFromSnapshot(t *testing.T) {
	c := newTestCanvas(t)
	cache := NewStateCache(c, nil, nil, nil)

	bg := NewImageObject(KindBackground, BackgroundName, solidImage(t, 10, 10), nil)
	bg.Selectable = false
	c.InsertAt(0, bg)
	uploadOne(t, c, solidPNG(t, 20, 20, color.NRGBA{A: 0xff}))

	if _, err := cache.Toggle(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := cache.Toggle(); err != nil {
		t.Fatalf("toggle back: %v", err)
	}

	// No loader is wired, so a restored background would mean the snapshot
	// captured it.
	if c.Background() != nil {
		t.Fatalf("background came back through the snapshot")
	}
	if c.ImageCount() != 1 {
		t.Fatalf("image count = %d, want 1", c.ImageCount())
	}
}
