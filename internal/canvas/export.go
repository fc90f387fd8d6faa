package canvas

import (
	"fmt"
	"image"
	"image/color"
	stddraw "image/draw"
	"log/slog"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultPreviewScale    = 0.5
	DefaultPrintMultiplier = 2.0
)

// Exporter rasterizes the canvas in two modes: a fast low-resolution
// preview and a full-resolution print file. Both run under the canvas op
// token so no other tool can interleave with the resolution switch.
type Exporter struct {
	PreviewScale    float64
	PrintMultiplier float64

	canvas *Canvas
	logger *slog.Logger
}

func NewExporter(c *Canvas, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		PreviewScale:    DefaultPreviewScale,
		PrintMultiplier: DefaultPrintMultiplier,
		canvas:          c,
		logger:          logger,
	}
}

// ExportPreview renders a scaled-down PNG for thumbnails and cart previews.
func (e *Exporter) ExportPreview() ([]byte, error) {
	return e.export("export-preview", e.PreviewScale, draw.ApproxBiLinear)
}

// ExportPrint renders the full-resolution print PNG.
func (e *Exporter) ExportPrint() ([]byte, error) {
	return e.export("export-print", e.PrintMultiplier, draw.CatmullRom)
}

func (e *Exporter) export(op string, mult float64, scaler draw.Transformer) ([]byte, error) {
	release, err := e.canvas.Begin(op)
	if err != nil {
		return nil, err
	}
	defer release()

	img, err := e.render(mult, scaler)
	if err != nil {
		e.logger.Error("export failed", "op", op, "err", err)
		return nil, err
	}
	return encodePNG(img)
}

// render composites the z-ordered scene at the given multiplier. Crop
// overlays are working chrome, never part of the artwork.
func (e *Exporter) render(mult float64, scaler draw.Transformer) (*image.RGBA, error) {
	w := int(math.Round(float64(e.canvas.Width()) * mult))
	h := int(math.Round(float64(e.canvas.Height()) * mult))
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("export dimensions %dx%d", w, h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	stddraw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, stddraw.Src)

	for _, o := range e.canvas.Objects() {
		if o.Kind == KindCropOverlay {
			continue
		}

		src := o.bitmap
		if o.Kind == KindText {
			var err error
			src, err = rasterizeText(o)
			if err != nil {
				return nil, err
			}
		}
		if src == nil {
			continue
		}

		scaler.Transform(dst, objectAffine(o, src, mult), src, src.Bounds(), draw.Over, nil)
	}
	return dst, nil
}

// objectAffine maps the object's native pixels onto the export surface:
// translate to center, rotate, scale (object scale times export
// multiplier), then offset by half the native size so (Left, Top) stays the
// object's center.
func objectAffine(o *Object, src image.Image, mult float64) f64.Aff3 {
	b := src.Bounds()
	w := float64(b.Dx())
	h := float64(b.Dy())

	sx := o.ScaleX * mult
	sy := o.ScaleY * mult
	theta := o.Angle * math.Pi / 180
	cos := math.Cos(theta)
	sin := math.Sin(theta)

	cx := o.Left * mult
	cy := o.Top * mult

	a11 := sx * cos
	a12 := -sy * sin
	a21 := sx * sin
	a22 := sy * cos

	return f64.Aff3{
		a11, a12, cx - (a11*w/2 + a12*h/2),
		a21, a22, cy - (a21*w/2 + a22*h/2),
	}
}

// rasterizeText draws a text object at its native footprint so the shared
// affine path can composite it like any bitmap.
func rasterizeText(o *Object) (*image.RGBA, error) {
	face, err := fontFace(o.FontFamily, o.FontSize)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	w := int(math.Ceil(o.baseW))
	h := int(math.Ceil(o.baseH))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(parseHexColor(o.Fill)),
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: face.Metrics().Ascent},
	}
	d.DrawString(o.Text)
	return img, nil
}

func parseHexColor(s string) color.NRGBA {
	c := color.NRGBA{A: 0xff} // black fallback
	if len(s) != 7 || s[0] != '#' {
		return c
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return c
	}
	c.R, c.G, c.B = r, g, b
	return c
}
