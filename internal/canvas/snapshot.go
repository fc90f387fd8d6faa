package canvas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
)

// objectJSON is the serialized form of a scene object. Image payloads carry
// their encoded source bytes (base64 in the JSON) so a restore can rebuild
// the bitmap exactly.
type objectJSON struct {
	Kind       Kind    `json:"kind"`
	Name       string  `json:"name"`
	Left       float64 `json:"left"`
	Top        float64 `json:"top"`
	ScaleX     float64 `json:"scaleX"`
	ScaleY     float64 `json:"scaleY"`
	Angle      float64 `json:"angle,omitempty"`
	Selectable bool    `json:"selectable"`
	Evented    bool    `json:"evented"`

	Source []byte `json:"source,omitempty"`

	Text       string  `json:"text,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	Fill       string  `json:"fill,omitempty"`
}

type sceneJSON struct {
	Objects []objectJSON `json:"objects"`
}

// Serialize captures the ordered non-background, non-overlay objects as
// JSON. Backgrounds and crop overlays are reconstructed fresh on every
// restore and must never appear in a snapshot.
func (c *Canvas) Serialize() ([]byte, error) {
	var scene sceneJSON
	for _, o := range c.objects {
		if o.Kind == KindBackground || o.Kind == KindCropOverlay {
			continue
		}
		scene.Objects = append(scene.Objects, objectJSON{
			Kind:       o.Kind,
			Name:       o.Name,
			Left:       o.Left,
			Top:        o.Top,
			ScaleX:     o.ScaleX,
			ScaleY:     o.ScaleY,
			Angle:      o.Angle,
			Selectable: o.Selectable,
			Evented:    o.Evented,
			Source:     o.source,
			Text:       o.Text,
			FontFamily: o.FontFamily,
			FontSize:   o.FontSize,
			Fill:       o.Fill,
		})
	}
	return json.Marshal(scene)
}

// Restore appends the snapshot's objects to the canvas in their saved
// order. The caller clears the canvas and reloads the background itself.
func (c *Canvas) Restore(data []byte) error {
	var scene sceneJSON
	if err := json.Unmarshal(data, &scene); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	for _, oj := range scene.Objects {
		o, err := objectFromJSON(oj)
		if err != nil {
			return err
		}
		c.objects = append(c.objects, o)
	}
	return nil
}

func objectFromJSON(oj objectJSON) (*Object, error) {
	var o *Object
	switch {
	case oj.Kind.IsImage():
		img, _, err := image.Decode(bytes.NewReader(oj.Source))
		if err != nil {
			return nil, fmt.Errorf("decode image %q: %w", oj.Name, err)
		}
		o = NewImageObject(oj.Kind, oj.Name, img, oj.Source)
	case oj.Kind == KindText:
		var err error
		o, err = NewTextObject(oj.Name, oj.Text, oj.FontFamily, oj.FontSize, oj.Fill)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("snapshot contains %s object %q", oj.Kind, oj.Name)
	}
	o.Left = oj.Left
	o.Top = oj.Top
	o.ScaleX = oj.ScaleX
	o.ScaleY = oj.ScaleY
	o.Angle = oj.Angle
	o.Selectable = oj.Selectable
	o.Evented = oj.Evented
	return o, nil
}
