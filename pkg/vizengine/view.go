package vizengine

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/GuinanGuo/fight-song-viz/pkg/songdata"
	"github.com/GuinanGuo/fight-song-viz/pkg/store"
)

// View is one chart surface. Each view owns its visual elements exclusively;
// the store and the tooltip are the only shared resources.
type View interface {
	Name() string
	// SetRect re-lays the view out for a new drawing area (initial layout
	// and window resize both come through here).
	SetRect(r Rect)
	// Tick advances time-based visual state. Called only while the view's
	// section is visible, which is what stops the poster's particle loop.
	Tick(now time.Time, dt float64)
	Draw(screen *ebiten.Image)
	// HitTest returns the school under the cursor, or nil.
	HitTest(x, y float64) *songdata.School
}

// Marker sizing shared by the map and scatter views.
const (
	markerBase      = 4.0
	markerPerTrope  = 1.2
	featuredRadius  = 11.0
	dimOpacity      = 0.12
	filterFadeSecs  = 0.3
	entranceSeconds = 0.9
)

var conferenceColors = map[string]color.RGBA{
	"Big Ten":     {0, 191, 255, 255},  // sky blue
	"SEC":         {255, 99, 71, 255},  // tomato
	"ACC":         {173, 255, 47, 255}, // lime
	"Big 12":      {255, 196, 0, 255},  // amber
	"Pac-12":      {186, 85, 211, 255}, // orchid
	"Independent": {240, 240, 240, 255},
}

var (
	colorBackground = color.RGBA{8, 10, 15, 255}
	colorPanel      = color.RGBA{0, 0, 0, 100}
	colorPanelEdge  = color.RGBA{36, 42, 53, 255}
	colorLand       = color.RGBA{26, 29, 35, 255}
	colorOutline    = color.RGBA{36, 42, 53, 255}
	colorFeatured   = color.RGBA{255, 203, 5, 255} // maize
)

// scaleColor premultiplies the color by an alpha factor for translucent
// vector drawing.
func scaleColor(c color.RGBA, a float32) color.RGBA {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	return color.RGBA{
		R: uint8(float32(c.R) * a),
		G: uint8(float32(c.G) * a),
		B: uint8(float32(c.B) * a),
		A: uint8(255 * a),
	}
}

func conferenceColor(conf string) color.RGBA {
	if c, ok := conferenceColors[conf]; ok {
		return c
	}
	return color.RGBA{160, 160, 160, 255}
}

// ConferenceColor exposes the palette for out-of-package renderers.
func ConferenceColor(conf string) color.RGBA { return conferenceColor(conf) }

func markerRadius(s *songdata.School) float64 {
	if s.Featured() {
		return featuredRadius
	}
	return markerBase + markerPerTrope*float64(s.TropeCount)
}

// fader eases each school's opacity toward the filter-consistent baseline
// over the fixed transition duration.
type fader struct {
	current map[string]float64
	target  map[string]float64
}

func newFader(schools []*songdata.School, filter string) *fader {
	f := &fader{
		current: make(map[string]float64, len(schools)),
		target:  make(map[string]float64, len(schools)),
	}
	for _, s := range schools {
		a := filterAlpha(s, filter)
		f.current[s.Name] = a
		f.target[s.Name] = a
	}
	return f
}

func filterAlpha(s *songdata.School, filter string) float64 {
	if filter == store.FilterAll || s.Conference == filter {
		return 1.0
	}
	return dimOpacity
}

// Retarget recomputes every school's target opacity for a new filter value.
func (f *fader) Retarget(schools []*songdata.School, filter string) {
	for _, s := range schools {
		f.target[s.Name] = filterAlpha(s, filter)
	}
}

// Step advances all opacities by dt seconds.
func (f *fader) Step(dt float64) {
	step := dt / filterFadeSecs
	for name, cur := range f.current {
		tgt := f.target[name]
		switch {
		case cur < tgt:
			f.current[name] = clamp(cur+step, cur, tgt)
		case cur > tgt:
			f.current[name] = clamp(cur-step, tgt, cur)
		}
	}
}

func (f *fader) Alpha(name string) float64 {
	if a, ok := f.current[name]; ok {
		return a
	}
	return 1.0
}

// hoverAlpha combines the filter baseline with hover emphasis: while a
// school is hovered or selected, unrelated elements dim and the focus set is
// lifted to full opacity.
func hoverAlpha(base float64, name, focus string, related map[string]bool) float64 {
	if focus == "" {
		return base
	}
	if name == focus || related[name] {
		return 1.0
	}
	if base < dimOpacity {
		return base
	}
	return dimOpacity
}
