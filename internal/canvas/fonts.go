package canvas

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// The storefront offers web font family names; rasterization maps each onto
// a bundled Go font with a comparable feel.
var fontData = map[string][]byte{
	"Arial":           goregular.TTF,
	"Times New Roman": goregular.TTF,
	"Courier New":     gomono.TTF,
	"Impact":          gobold.TTF,
	"Verdana":         gomedium.TTF,
	"Georgia":         goitalic.TTF,
}

const DefaultFontFamily = "Arial"

// FontFamilies lists the selectable families in menu order.
func FontFamilies() []string {
	return []string{"Arial", "Times New Roman", "Courier New", "Impact", "Verdana", "Georgia"}
}

var (
	fontMu     sync.Mutex
	fontParsed = map[string]*opentype.Font{}
)

func parsedFont(family string) (*opentype.Font, error) {
	fontMu.Lock()
	defer fontMu.Unlock()
	if f, ok := fontParsed[family]; ok {
		return f, nil
	}
	data, ok := fontData[family]
	if !ok {
		data = fontData[DefaultFontFamily]
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", family, err)
	}
	fontParsed[family] = f
	return f, nil
}

func fontFace(family string, size float64) (font.Face, error) {
	f, err := parsedFont(family)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// measureText returns the unscaled footprint of a single text line.
func measureText(text, family string, size float64) (w, h float64, err error) {
	face, err := fontFace(family, size)
	if err != nil {
		return 0, 0, err
	}
	defer face.Close()
	adv := font.MeasureString(face, text)
	m := face.Metrics()
	return float64(adv) / 64, float64(m.Ascent+m.Descent) / 64, nil
}
