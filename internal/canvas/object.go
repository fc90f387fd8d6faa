package canvas

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"time"
)

// Kind tags the payload of a scene object.
type Kind string

const (
	KindBackground   Kind = "background"
	KindUserImage    Kind = "user-image"
	KindCroppedImage Kind = "cropped-image"
	KindText         Kind = "text"
	KindCropOverlay  Kind = "crop-overlay"
)

// IsImage reports whether the object carries a user-visible bitmap
// (backgrounds and crop overlays are not counted).
func (k Kind) IsImage() bool {
	return k == KindUserImage || k == KindCroppedImage
}

// Side is one of the two garment faces being designed independently.
type Side string

const (
	SideFront Side = "front"
	SideBack  Side = "back"
)

func (s Side) Other() Side {
	if s == SideFront {
		return SideBack
	}
	return SideFront
}

// Rect is an axis-aligned rectangle in canvas display coordinates.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Object is one addressable item on the canvas. Position is the object's
// center (origin center/center, matching how every tool places objects).
// Bounds() ignores rotation; the only rotatable objects are user images and
// text, and the crop tool refuses rotated targets.
type Object struct {
	Kind       Kind
	Name       string
	Left       float64
	Top        float64
	ScaleX     float64
	ScaleY     float64
	Angle      float64 // degrees, clockwise
	Selectable bool
	Evented    bool

	// image payload: decoded bitmap plus the encoded source it was built
	// from. The source is authoritative for serialization.
	bitmap image.Image
	source []byte

	// text payload
	Text       string
	FontFamily string
	FontSize   float64
	Fill       string // #rrggbb

	// unscaled footprint; derived from the bitmap for image kinds,
	// measured from the font for text, explicit for crop overlays
	baseW float64
	baseH float64

	highlighted bool // transient crop-target stroke
}

// NewImageObject builds an image-kind object from a decoded bitmap and the
// encoded bytes it came from.
func NewImageObject(kind Kind, name string, img image.Image, source []byte) *Object {
	b := img.Bounds()
	return &Object{
		Kind:       kind,
		Name:       name,
		ScaleX:     1,
		ScaleY:     1,
		Selectable: true,
		Evented:    true,
		bitmap:     img,
		source:     source,
		baseW:      float64(b.Dx()),
		baseH:      float64(b.Dy()),
	}
}

// NewTextObject builds a text object; its footprint is measured from the
// mapped font face.
func NewTextObject(name, text, family string, size float64, fill string) (*Object, error) {
	w, h, err := measureText(text, family, size)
	if err != nil {
		return nil, fmt.Errorf("measure text: %w", err)
	}
	return &Object{
		Kind:       KindText,
		Name:       name,
		ScaleX:     1,
		ScaleY:     1,
		Selectable: true,
		Evented:    true,
		Text:       text,
		FontFamily: family,
		FontSize:   size,
		Fill:       fill,
		baseW:      w,
		baseH:      h,
	}, nil
}

// Bitmap returns the decoded image payload (nil for text objects).
func (o *Object) Bitmap() image.Image { return o.bitmap }

// Source returns the encoded bytes an image object was built from.
func (o *Object) Source() []byte { return o.source }

// BaseSize is the object's unscaled footprint.
func (o *Object) BaseSize() (w, h float64) { return o.baseW, o.baseH }

// Bounds is the object's displayed footprint: base size times scale,
// centered on (Left, Top).
func (o *Object) Bounds() Rect {
	w := o.baseW * o.ScaleX
	h := o.baseH * o.ScaleY
	return Rect{
		Left:   o.Left - w/2,
		Top:    o.Top - h/2,
		Width:  w,
		Height: h,
	}
}

// SetText replaces the text content and re-measures the footprint.
func (o *Object) SetText(text string) error {
	if o.Kind != KindText {
		return ErrNotText
	}
	w, h, err := measureText(text, o.FontFamily, o.FontSize)
	if err != nil {
		return err
	}
	o.Text = text
	o.baseW, o.baseH = w, h
	return nil
}

// SetFont updates family and size together and re-measures.
func (o *Object) SetFont(family string, size float64) error {
	if o.Kind != KindText {
		return ErrNotText
	}
	w, h, err := measureText(o.Text, family, size)
	if err != nil {
		return err
	}
	o.FontFamily = family
	o.FontSize = size
	o.baseW, o.baseH = w, h
	return nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// uniqueName builds the timestamp-based names the tools stamp on objects,
// e.g. "user-image-front-1712345678901".
func uniqueName(prefix string, side Side) string {
	return fmt.Sprintf("%s-%s-%d", prefix, side, time.Now().UnixMilli())
}
