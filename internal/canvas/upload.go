package canvas

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"

	_ "image/jpeg"
	_ "image/png"
)

const (
	// MaxUploadBytes mirrors the signed-upload limit: 30MB.
	MaxUploadBytes = 30 * 1024 * 1024

	// DefaultMaxImages is the per-view cap on user images. The "add anyway"
	// path below deliberately lets the user bypass it once per prompt.
	DefaultMaxImages = 2

	// DefaultFitFraction bounds a fresh upload to this fraction of the
	// canvas in each dimension.
	DefaultFitFraction = 0.4
)

// Ingestor turns uploaded image bytes into selectable canvas objects and
// enforces the per-view image cap.
type Ingestor struct {
	MaxImages   int
	FitFraction float64
	logger      *slog.Logger
}

func NewIngestor(logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		MaxImages:   DefaultMaxImages,
		FitFraction: DefaultFitFraction,
		logger:      logger,
	}
}

// PendingUpload is a deferred upload: the cap was reached, nothing was added
// to the canvas, and the user must pick one of Replace, AddAnyway or Cancel.
type PendingUpload struct {
	ing      *Ingestor
	canvas   *Canvas
	view     Side
	data     []byte
	resolved bool
}

// Upload decodes the file and adds it centered and scaled-to-fit. When the
// active view already holds MaxImages user images the upload is deferred and
// a PendingUpload is returned instead (obj == nil). Decode failures are
// logged and add nothing.
func (g *Ingestor) Upload(c *Canvas, view Side, data []byte) (*Object, *PendingUpload, error) {
	if len(data) > MaxUploadBytes {
		g.logger.Error("upload rejected", "view", view, "size", len(data), "err", ErrUploadTooLarge)
		return nil, nil, ErrUploadTooLarge
	}

	if c.ImageCount() >= g.MaxImages {
		g.logger.Info("image cap reached, deferring upload",
			"view", view, "count", c.ImageCount(), "max", g.MaxImages)
		return nil, &PendingUpload{ing: g, canvas: c, view: view, data: data}, nil
	}

	obj, err := g.add(c, view, data)
	if err != nil {
		return nil, nil, err
	}
	return obj, nil, nil
}

func (g *Ingestor) add(c *Canvas, view Side, data []byte) (*Object, error) {
	release, err := c.Begin("upload")
	if err != nil {
		return nil, err
	}
	defer release()

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		g.logger.Error("upload image decode failed", "view", view, "err", err)
		return nil, fmt.Errorf("decode upload: %w", err)
	}

	b := img.Bounds()
	maxW := float64(c.Width()) * g.FitFraction
	maxH := float64(c.Height()) * g.FitFraction
	scale := minf(maxW/float64(b.Dx()), maxH/float64(b.Dy()), 1)

	o := NewImageObject(KindUserImage, uniqueName("user-image", view), img, data)
	o.Left = float64(c.Width()) / 2
	o.Top = float64(c.Height()) / 2
	o.ScaleX = scale
	o.ScaleY = scale

	c.Add(o)
	c.SetActive(o)
	g.logger.Info("image added",
		"view", view, "name", o.Name, "format", format,
		"native_w", b.Dx(), "native_h", b.Dy(), "scale", scale)
	return o, nil
}

// Replace removes every user image on the canvas and adds the deferred one.
func (p *PendingUpload) Replace() (*Object, error) {
	if p.resolved {
		return nil, fmt.Errorf("pending upload already resolved")
	}
	p.resolved = true
	for _, o := range p.canvas.Objects() {
		if o.Kind.IsImage() {
			p.canvas.Remove(o)
		}
	}
	return p.ing.add(p.canvas, p.view, p.data)
}

// AddAnyway bypasses the cap once and adds the deferred image alongside the
// existing ones.
func (p *PendingUpload) AddAnyway() (*Object, error) {
	if p.resolved {
		return nil, fmt.Errorf("pending upload already resolved")
	}
	p.resolved = true
	return p.ing.add(p.canvas, p.view, p.data)
}

// Cancel discards the deferred file.
func (p *PendingUpload) Cancel() {
	p.resolved = true
	p.data = nil
}

func minf(vals ...float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
