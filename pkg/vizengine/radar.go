package vizengine

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/GuinanGuo/fight-song-viz/pkg/songdata"
	"github.com/GuinanGuo/fight-song-viz/pkg/store"
)

var radarAxes = []string{"tempo", "duration", "tropes", "fight", "victory", "rah"}

// RadarView draws one six-axis polygon per conference from the derived
// aggregates. Its elements are conferences, not schools, so it has no school
// hit-testing; it follows the filter and the hovered school's conference.
type RadarView struct {
	st      *store.Store
	stats   []songdata.ConferenceStats
	schools []*songdata.School
	fonts   fonts

	rect    Rect
	cx, cy  float64
	radius  float64
	axisMax [6]float64
	alphas  map[string]*struct{ cur, tgt float64 }
}

func NewRadarView(st *store.Store, stats []songdata.ConferenceStats, schools []*songdata.School, f fonts) *RadarView {
	v := &RadarView{st: st, stats: stats, schools: schools, fonts: f,
		alphas: make(map[string]*struct{ cur, tgt float64 })}
	for _, cs := range stats {
		v.alphas[cs.Conference] = &struct{ cur, tgt float64 }{1, 1}
	}
	for _, cs := range stats {
		vals := v.axisValues(cs)
		for i, val := range vals {
			if val > v.axisMax[i] {
				v.axisMax[i] = val
			}
		}
	}
	st.Subscribe(store.KeyConferenceFilter, func(val any, _ store.Snapshot) {
		filter, _ := val.(string)
		for conf, a := range v.alphas {
			if filter == store.FilterAll || conf == filter {
				a.tgt = 1
			} else {
				a.tgt = dimOpacity
			}
		}
	})
	return v
}

func (v *RadarView) axisValues(cs songdata.ConferenceStats) [6]float64 {
	return [6]float64{cs.AvgBPM, cs.AvgDur, cs.AvgTropes, cs.FightRate, cs.VictoryRate, cs.RahRate}
}

func (v *RadarView) Name() string { return "radar" }

func (v *RadarView) SetRect(r Rect) {
	v.rect = r
	v.cx, v.cy = r.Center()
	v.radius = math.Min(r.W, r.H)/2 - 60
}

func (v *RadarView) Tick(now time.Time, dt float64) {
	step := dt / filterFadeSecs
	for _, a := range v.alphas {
		switch {
		case a.cur < a.tgt:
			a.cur = clamp(a.cur+step, a.cur, a.tgt)
		case a.cur > a.tgt:
			a.cur = clamp(a.cur-step, a.tgt, a.cur)
		}
	}
}

func (v *RadarView) HitTest(x, y float64) *songdata.School { return nil }

func (v *RadarView) axisPoint(axis int, t float64) (float64, float64) {
	angle := float64(axis)*math.Pi/3 - math.Pi/2
	return v.cx + t*v.radius*math.Cos(angle), v.cy + t*v.radius*math.Sin(angle)
}

func (v *RadarView) Draw(screen *ebiten.Image) {
	face := v.fonts.face(12)

	// Grid rings and spokes.
	for _, t := range []float64{0.25, 0.5, 0.75, 1.0} {
		var prevX, prevY float64
		for i := 0; i <= len(radarAxes); i++ {
			x, y := v.axisPoint(i%len(radarAxes), t)
			if i > 0 {
				vector.StrokeLine(screen, float32(prevX), float32(prevY), float32(x), float32(y), 1, scaleColor(colorPanelEdge, 0.6), false)
			}
			prevX, prevY = x, y
		}
	}
	for i, label := range radarAxes {
		x, y := v.axisPoint(i, 1)
		vector.StrokeLine(screen, float32(v.cx), float32(v.cy), float32(x), float32(y), 1, scaleColor(colorPanelEdge, 0.6), false)
		lx, ly := v.axisPoint(i, 1.14)
		w, _ := text.Measure(label, face, 0)
		op := &text.DrawOptions{}
		op.GeoM.Translate(lx-w/2, ly-7)
		op.ColorScale.Scale(1, 1, 1, 0.5)
		text.Draw(screen, label, face, op)
	}

	hoveredConf := v.hoveredSchoolConference()

	for _, cs := range v.stats {
		if cs.Count == 0 {
			continue
		}
		alpha := v.alphas[cs.Conference].cur
		if hoveredConf != "" && cs.Conference != hoveredConf && alpha > dimOpacity {
			alpha = dimOpacity
		}
		v.drawPolygon(screen, cs, alpha)
	}

	// Legend row along the bottom.
	lx := v.rect.X + 20
	ly := v.rect.Y + v.rect.H - 24
	for _, cs := range v.stats {
		if cs.Count == 0 {
			continue
		}
		col := conferenceColor(cs.Conference)
		alpha := float32(v.alphas[cs.Conference].cur)
		vector.DrawFilledCircle(screen, float32(lx+6), float32(ly+7), 5, scaleColor(col, alpha), true)
		op := &text.DrawOptions{}
		op.GeoM.Translate(lx+16, ly)
		op.ColorScale.Scale(alpha, alpha, alpha, 1)
		text.Draw(screen, cs.Conference, face, op)
		w, _ := text.Measure(cs.Conference, face, 0)
		lx += w + 34
	}
}

func (v *RadarView) hoveredSchoolConference() string {
	name := v.st.HoveredSchool()
	if name == "" {
		name = v.st.SelectedSchool()
	}
	if name == "" {
		return ""
	}
	if s := songdata.ByName(v.schools, name); s != nil {
		return s.Conference
	}
	return ""
}

func (v *RadarView) drawPolygon(screen *ebiten.Image, cs songdata.ConferenceStats, alpha float64) {
	vals := v.axisValues(cs)
	col := conferenceColor(cs.Conference)
	var pts [6][2]float64
	for i, val := range vals {
		t := 0.0
		if v.axisMax[i] > 0 {
			t = val / v.axisMax[i]
		}
		x, y := v.axisPoint(i, t)
		pts[i] = [2]float64{x, y}
	}
	for i := range pts {
		j := (i + 1) % len(pts)
		vector.StrokeLine(screen, float32(pts[i][0]), float32(pts[i][1]), float32(pts[j][0]), float32(pts[j][1]), 2, scaleColor(col, float32(alpha)), true)
	}
	for i := range pts {
		vector.DrawFilledCircle(screen, float32(pts[i][0]), float32(pts[i][1]), 3, scaleColor(col, float32(alpha)), true)
	}
}
