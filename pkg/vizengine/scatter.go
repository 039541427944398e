package vizengine

import (
	"fmt"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/GuinanGuo/fight-song-viz/pkg/songdata"
	"github.com/GuinanGuo/fight-song-viz/pkg/store"
)

// ScatterView plots tempo against duration.
type ScatterView struct {
	st      *store.Store
	schools []*songdata.School
	fonts   fonts

	rect       Rect
	plot       Rect
	xScale     linearScale
	yScale     linearScale
	fade       *fader
	pulsePhase float64
}

func NewScatterView(st *store.Store, schools []*songdata.School, f fonts) *ScatterView {
	v := &ScatterView{st: st, schools: schools, fonts: f,
		fade: newFader(schools, st.ConferenceFilter())}
	st.Subscribe(store.KeyConferenceFilter, func(val any, _ store.Snapshot) {
		filter, _ := val.(string)
		v.fade.Retarget(v.schools, filter)
	})
	return v
}

func (v *ScatterView) Name() string { return "scatter" }

func (v *ScatterView) SetRect(r Rect) {
	v.rect = r
	v.plot = r.Inset(50)
	bpmMin, bpmMax := songdata.DimBPM.Range(v.schools)
	durMin, durMax := songdata.DimDuration.Range(v.schools)
	v.xScale = newScale(bpmMin-10, bpmMax+10, v.plot.X, v.plot.X+v.plot.W)
	v.yScale = newScale(durMin-10, durMax+10, v.plot.Y+v.plot.H, v.plot.Y)
}

func (v *ScatterView) Tick(now time.Time, dt float64) {
	v.fade.Step(dt)
	v.pulsePhase += dt * 2 * math.Pi / 1.8
}

func (v *ScatterView) pos(s *songdata.School) (float64, float64) {
	return v.xScale.Map(s.BPM), v.yScale.Map(s.Duration)
}

func (v *ScatterView) HitTest(x, y float64) *songdata.School {
	var best *songdata.School
	bestDist := math.Inf(1)
	for _, s := range v.schools {
		px, py := v.pos(s)
		d := math.Hypot(x-px, y-py)
		if d <= markerRadius(s)+3 && d < bestDist {
			best, bestDist = s, d
		}
	}
	return best
}

func (v *ScatterView) Draw(screen *ebiten.Image) {
	face := v.fonts.face(12)

	// Axes.
	vector.StrokeLine(screen, float32(v.plot.X), float32(v.plot.Y+v.plot.H), float32(v.plot.X+v.plot.W), float32(v.plot.Y+v.plot.H), 1, colorPanelEdge, false)
	vector.StrokeLine(screen, float32(v.plot.X), float32(v.plot.Y), float32(v.plot.X), float32(v.plot.Y+v.plot.H), 1, colorPanelEdge, false)

	for _, tick := range []float64{80, 100, 120, 140, 160} {
		x := v.xScale.Map(tick)
		if x < v.plot.X || x > v.plot.X+v.plot.W {
			continue
		}
		vector.StrokeLine(screen, float32(x), float32(v.plot.Y), float32(x), float32(v.plot.Y+v.plot.H), 1, scaleColor(colorPanelEdge, 0.4), false)
		op := &text.DrawOptions{}
		op.GeoM.Translate(x-10, v.plot.Y+v.plot.H+6)
		op.ColorScale.Scale(1, 1, 1, 0.5)
		text.Draw(screen, fmt.Sprintf("%.0f", tick), face, op)
	}
	xl := &text.DrawOptions{}
	xl.GeoM.Translate(v.plot.X+v.plot.W-80, v.plot.Y+v.plot.H+24)
	xl.ColorScale.Scale(1, 1, 1, 0.5)
	text.Draw(screen, "tempo (bpm)", face, xl)
	yl := &text.DrawOptions{}
	yl.GeoM.Translate(v.rect.X+8, v.plot.Y-18)
	yl.ColorScale.Scale(1, 1, 1, 0.5)
	text.Draw(screen, "duration (s)", face, yl)

	hovered := v.st.HoveredSchool()
	selected := v.st.SelectedSchool()
	focus := hovered
	if focus == "" {
		focus = selected
	}
	related := conferenceMates(v.schools, focus)

	for _, s := range v.schools {
		if !s.Featured() {
			v.drawDot(screen, s, focus, related, selected)
		}
	}
	for _, s := range v.schools {
		if s.Featured() {
			v.drawDot(screen, s, focus, related, selected)
		}
	}
}

func (v *ScatterView) drawDot(screen *ebiten.Image, s *songdata.School, focus string, related map[string]bool, selected string) {
	x, y := v.pos(s)
	alpha := hoverAlpha(v.fade.Alpha(s.Name), s.Name, focus, related)
	col := conferenceColor(s.Conference)
	r := markerRadius(s)
	if s.Featured() {
		glow := 0.5 + 0.5*math.Sin(v.pulsePhase)
		vector.StrokeCircle(screen, float32(x), float32(y), float32(r+3+glow*5), 2, scaleColor(colorFeatured, float32(alpha*(0.3+0.3*glow))), true)
		col = colorFeatured
	}
	vector.DrawFilledCircle(screen, float32(x), float32(y), float32(r), scaleColor(col, float32(alpha)), true)
	if s.Name == selected {
		vector.StrokeCircle(screen, float32(x), float32(y), float32(r+3), 2, scaleColor(colorFeatured, 1), true)
	}
}
