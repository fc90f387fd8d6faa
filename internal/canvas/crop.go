package canvas

import (
	"image"
	"image/draw"
	"log/slog"
	"math"
)

// CropOverlayName is the transient overlay rectangle's stable name.
const CropOverlayName = "crop-overlay"

// CropTool drives the Idle -> Active -> {Applied, Cancelled} -> Idle state
// machine. While active it owns a crop-overlay object constrained to the
// target image's bounding rectangle; Apply converts the overlay's bounds to
// the target's native pixel space and replaces the target with the cropped
// raster.
type CropTool struct {
	canvas *Canvas
	logger *slog.Logger

	overlay *Object
	target  *Object
	view    Side
}

func NewCropTool(c *Canvas, logger *slog.Logger) *CropTool {
	if logger == nil {
		logger = slog.Default()
	}
	return &CropTool{canvas: c, logger: logger}
}

// Active reports whether an overlay is currently shown.
func (t *CropTool) Active() bool { return t.overlay != nil }

// Target returns the image being cropped while active.
func (t *CropTool) Target() *Object { return t.target }

// Overlay returns the constrained overlay rectangle while active.
func (t *CropTool) Overlay() *Object { return t.overlay }

// Begin enters crop mode on the currently selected image: an overlay sized
// to half the target's bounding box appears centered over it, the target
// gets a temporary highlight stroke, and rotation stays disabled on the
// overlay (Angle is never touched). A rotated target is refused: the
// overlay clamp and Apply both work in the unrotated bounding rectangle.
func (t *CropTool) Begin(view Side) error {
	if t.Active() {
		return ErrCropActive
	}
	sel := t.canvas.Active()
	if sel == nil {
		return ErrNoSelection
	}
	if !sel.Kind.IsImage() {
		return ErrNotImage
	}
	if sel.Angle != 0 {
		return ErrRotatedTarget
	}

	release, err := t.canvas.Begin("crop-begin")
	if err != nil {
		return err
	}
	defer release()

	t.target = sel
	t.target.highlighted = true
	t.view = view

	ib := sel.Bounds()
	overlay := &Object{
		Kind:       KindCropOverlay,
		Name:       CropOverlayName,
		Left:       ib.Left + ib.Width/2,
		Top:        ib.Top + ib.Height/2,
		ScaleX:     1,
		ScaleY:     1,
		Selectable: true,
		Evented:    true,
		baseW:      ib.Width * 0.5,
		baseH:      ib.Height * 0.5,
	}
	t.overlay = overlay
	t.clampPosition()

	t.canvas.Add(overlay)
	t.canvas.SetActive(overlay)
	return nil
}

// MoveOverlay requests a new top-left position for the overlay (in canvas
// display coordinates). Placements that would push an edge outside the
// target image are repositioned to the nearest legal spot rather than
// rejected.
func (t *CropTool) MoveOverlay(left, top float64) {
	if !t.Active() {
		return
	}
	ob := t.overlay.Bounds()
	t.overlay.Left = left + ob.Width/2
	t.overlay.Top = top + ob.Height/2
	t.clampPosition()
}

// ScaleOverlay requests new overlay scale factors. Scale is capped so the
// overlay can never exceed the target's dimensions, then the position is
// re-clamped.
func (t *CropTool) ScaleOverlay(scaleX, scaleY float64) {
	if !t.Active() {
		return
	}
	ib := t.target.Bounds()
	if scaleX < 0 {
		scaleX = 0
	}
	if scaleY < 0 {
		scaleY = 0
	}
	if t.overlay.baseW > 0 {
		if max := ib.Width / t.overlay.baseW; scaleX > max {
			scaleX = max
		}
	}
	if t.overlay.baseH > 0 {
		if max := ib.Height / t.overlay.baseH; scaleY > max {
			scaleY = max
		}
	}
	t.overlay.ScaleX = scaleX
	t.overlay.ScaleY = scaleY
	t.clampPosition()
}

func (t *CropTool) clampPosition() {
	ib := t.target.Bounds()
	ob := t.overlay.Bounds()

	left := ob.Left
	top := ob.Top
	if left < ib.Left {
		left = ib.Left
	}
	if top < ib.Top {
		top = ib.Top
	}
	if left+ob.Width > ib.Left+ib.Width {
		left = ib.Left + ib.Width - ob.Width
	}
	if top+ob.Height > ib.Top+ib.Height {
		top = ib.Top + ib.Height - ob.Height
	}
	t.overlay.Left = left + ob.Width/2
	t.overlay.Top = top + ob.Height/2
}

// Apply rasterizes the pixels under the overlay into a replacement object.
//
// The overlay's bounds are translated into the target's native pixel space
// with scale = nativeDimension / displayedBoundingDimension; output
// dimensions round to the nearest integer and never drop below 1px. A
// zero-area overlay aborts and leaves both the target and the overlay on the
// canvas untouched.
func (t *CropTool) Apply() (*Object, error) {
	if !t.Active() {
		return nil, ErrCropInactive
	}

	cb := t.overlay.Bounds()
	ib := t.target.Bounds()
	if cb.Width <= 0 || cb.Height <= 0 || ib.Width <= 0 || ib.Height <= 0 {
		t.logger.Error("degenerate crop rectangle",
			"view", t.view, "w", cb.Width, "h", cb.Height)
		return nil, ErrDegenerateCrop
	}

	release, err := t.canvas.Begin("crop-apply")
	if err != nil {
		return nil, err
	}
	defer release()

	nat := t.target.bitmap.Bounds()
	scaleX := float64(nat.Dx()) / ib.Width
	scaleY := float64(nat.Dy()) / ib.Height

	sx := (cb.Left - ib.Left) * scaleX
	sy := (cb.Top - ib.Top) * scaleY
	sw := cb.Width * scaleX
	sh := cb.Height * scaleY

	outW := int(math.Round(sw))
	outH := int(math.Round(sh))
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}

	srcMin := image.Pt(nat.Min.X+int(math.Round(sx)), nat.Min.Y+int(math.Round(sy)))
	srcRect := image.Rectangle{Min: srcMin, Max: srcMin.Add(image.Pt(outW, outH))}.Intersect(nat)

	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.Draw(dst, image.Rectangle{Max: srcRect.Size()}, t.target.bitmap, srcRect.Min, draw.Src)

	source, err := encodePNG(dst)
	if err != nil {
		t.logger.Error("crop raster encode failed", "view", t.view, "err", err)
		return nil, err
	}

	cropped := NewImageObject(KindCroppedImage, uniqueName("cropped", t.view), dst, source)
	cropped.Left = float64(t.canvas.Width()) / 2
	cropped.Top = float64(t.canvas.Height()) / 2

	t.target.highlighted = false
	t.canvas.Remove(t.target)
	t.canvas.Remove(t.overlay)
	t.canvas.Add(cropped)
	t.canvas.SetActive(cropped)

	t.logger.Info("crop applied",
		"view", t.view, "name", cropped.Name, "out_w", outW, "out_h", outH)

	t.overlay = nil
	t.target = nil
	return cropped, nil
}

// Cancel discards the overlay and restores the target's transient styling.
func (t *CropTool) Cancel() {
	if !t.Active() {
		return
	}
	t.target.highlighted = false
	t.canvas.Remove(t.overlay)
	t.canvas.SetActive(t.target)
	t.overlay = nil
	t.target = nil
}
