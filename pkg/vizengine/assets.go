package vizengine

import (
	"bytes"
	_ "embed"
	"log"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Simplified continental outline behind the map view.
//
//go:embed data/us-outline.geo.json
var usOutlineGeoJSON []byte

type fonts struct {
	regular *text.GoTextFaceSource
	mono    *text.GoTextFaceSource
}

func loadFonts() fonts {
	r, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Printf("[FONT] regular face: %v", err)
	}
	m, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		log.Printf("[FONT] mono face: %v", err)
	}
	return fonts{regular: r, mono: m}
}

func (f fonts) face(size float64) *text.GoTextFace {
	return &text.GoTextFace{Source: f.regular, Size: size}
}

func (f fonts) monoFace(size float64) *text.GoTextFace {
	return &text.GoTextFace{Source: f.mono, Size: size}
}
