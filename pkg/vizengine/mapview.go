package vizengine

import (
	"image"
	"log"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	geojson "github.com/paulmach/go.geojson"

	"github.com/GuinanGuo/fight-song-viz/pkg/songdata"
	"github.com/GuinanGuo/fight-song-viz/pkg/store"
)

// MapView places every school on an Albers-projected US map. The state
// background is an optional overlay; when it cannot be loaded the markers
// render on the bare panel.
type MapView struct {
	st      *store.Store
	schools []*songdata.School
	fonts   fonts

	rect      Rect
	proj      Projection
	positions map[string][2]float64
	fade      *fader

	states *geojson.FeatureCollection // nil when the overlay failed to load
	bg     *ebiten.Image

	pulsePhase float64
}

func NewMapView(st *store.Store, schools []*songdata.School, f fonts, background []byte) *MapView {
	v := &MapView{
		st:        st,
		schools:   schools,
		fonts:     f,
		positions: make(map[string][2]float64),
		fade:      newFader(schools, st.ConferenceFilter()),
	}
	if background != nil {
		fc, err := geojson.UnmarshalFeatureCollection(background)
		if err != nil {
			// Optional resource: the map just loses its background layer.
			log.Printf("[MAP] background overlay unusable: %v", err)
		} else {
			v.states = fc
		}
	}
	st.Subscribe(store.KeyConferenceFilter, func(val any, _ store.Snapshot) {
		filter, _ := val.(string)
		v.fade.Retarget(v.schools, filter)
	})
	return v
}

func (v *MapView) Name() string { return "map" }

func (v *MapView) SetRect(r Rect) {
	v.rect = r
	coords := make([][2]float64, 0, len(v.schools))
	for _, s := range v.schools {
		coords = append(coords, [2]float64{s.Lat, s.Lng})
	}
	v.proj = FitAlbers(coords, r, 40)
	for _, s := range v.schools {
		x, y := v.proj.Project(s.Lat, s.Lng)
		v.positions[s.Name] = [2]float64{x, y}
	}
	v.renderBackground()
}

// renderBackground rasterizes the state polygons once per layout.
func (v *MapView) renderBackground() {
	v.bg = nil
	if v.states == nil || v.rect.W <= 0 || v.rect.H <= 0 {
		return
	}
	img := image.NewRGBA(image.Rect(0, 0, int(v.rect.W), int(v.rect.H)))
	project := func(ring [][]float64) [][2]float64 {
		out := make([][2]float64, len(ring))
		for i, p := range ring {
			x, y := v.proj.Project(p[1], p[0])
			out[i] = [2]float64{x - v.rect.X, y - v.rect.Y}
		}
		return out
	}
	drawPoly := func(poly [][][]float64) {
		rings := make([][][2]float64, len(poly))
		for i, ring := range poly {
			rings[i] = project(ring)
		}
		fillPolygon(img, rings, colorLand)
		for _, ring := range rings {
			drawRing(img, ring, colorOutline)
		}
	}
	for _, f := range v.states.Features {
		if f.Geometry == nil {
			continue
		}
		if f.Geometry.IsPolygon() {
			drawPoly(f.Geometry.Polygon)
		} else if f.Geometry.IsMultiPolygon() {
			for _, poly := range f.Geometry.MultiPolygon {
				drawPoly(poly)
			}
		}
	}
	v.bg = ebiten.NewImageFromImage(img)
}

func (v *MapView) Tick(now time.Time, dt float64) {
	v.fade.Step(dt)
	v.pulsePhase += dt * 2 * math.Pi / 1.8 // one glow cycle per 1.8s
}

func (v *MapView) HitTest(x, y float64) *songdata.School {
	var best *songdata.School
	bestDist := math.Inf(1)
	for _, s := range v.schools {
		p := v.positions[s.Name]
		d := math.Hypot(x-p[0], y-p[1])
		if d <= markerRadius(s)+3 && d < bestDist {
			best, bestDist = s, d
		}
	}
	return best
}

func (v *MapView) Draw(screen *ebiten.Image) {
	if v.bg != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(v.rect.X, v.rect.Y)
		screen.DrawImage(v.bg, op)
	}

	hovered := v.st.HoveredSchool()
	selected := v.st.SelectedSchool()
	focus := hovered
	if focus == "" {
		focus = selected
	}
	related := conferenceMates(v.schools, focus)

	// Featured school draws last so it sits on top.
	for _, s := range v.schools {
		if !s.Featured() {
			v.drawMarker(screen, s, focus, related, selected)
		}
	}
	for _, s := range v.schools {
		if s.Featured() {
			v.drawMarker(screen, s, focus, related, selected)
		}
	}
}

func (v *MapView) drawMarker(screen *ebiten.Image, s *songdata.School, focus string, related map[string]bool, selected string) {
	p := v.positions[s.Name]
	alpha := hoverAlpha(v.fade.Alpha(s.Name), s.Name, focus, related)
	col := conferenceColor(s.Conference)
	r := markerRadius(s)

	if s.Featured() {
		// Persistent glow: two breathing rings around the marker.
		glow := 0.5 + 0.5*math.Sin(v.pulsePhase)
		gr := r + 4 + glow*6
		ga := float32(alpha * (0.35 + 0.25*glow))
		vector.StrokeCircle(screen, float32(p[0]), float32(p[1]), float32(gr), 2, scaleColor(colorFeatured, ga), true)
		vector.StrokeCircle(screen, float32(p[0]), float32(p[1]), float32(gr*0.6), 1, scaleColor(colorFeatured, ga*0.7), true)
		col = colorFeatured
	}

	vector.DrawFilledCircle(screen, float32(p[0]), float32(p[1]), float32(r), scaleColor(col, float32(alpha)), true)
	if s.Name == selected {
		vector.StrokeCircle(screen, float32(p[0]), float32(p[1]), float32(r+3), 2, scaleColor(colorFeatured, 1), true)
	}
}

// conferenceMates returns the schools semantically related to the focused
// one: everyone in the same conference.
func conferenceMates(schools []*songdata.School, focus string) map[string]bool {
	if focus == "" {
		return nil
	}
	f := songdata.ByName(schools, focus)
	if f == nil {
		return nil
	}
	out := make(map[string]bool)
	for _, s := range schools {
		if s.Conference == f.Conference {
			out[s.Name] = true
		}
	}
	return out
}
