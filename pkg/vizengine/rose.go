package vizengine

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/GuinanGuo/fight-song-viz/pkg/songdata"
	"github.com/GuinanGuo/fight-song-viz/pkg/store"
)

const (
	roseSectorGap = 0.06 // radians trimmed from each side of a sector
	roseMinShare  = 0.5  // smallest conference sector radius as share of max
)

type roseDot struct {
	school *songdata.School
	x, y   float64
}

// RoseView lays the six conferences out as wedges around a shared origin;
// wedge radius tracks conference size and each school sits at a tempo-mapped
// distance inside its wedge.
type RoseView struct {
	st      *store.Store
	schools []*songdata.School
	stats   []songdata.ConferenceStats
	fonts   fonts

	rect     Rect
	cx, cy   float64
	radius   float64
	dots     []roseDot
	fade     *fader
	pulse    float64
	maxCount int
}

func NewRoseView(st *store.Store, schools []*songdata.School, stats []songdata.ConferenceStats, f fonts) *RoseView {
	v := &RoseView{
		st:      st,
		schools: schools,
		stats:   stats,
		fonts:   f,
		fade:    newFader(schools, st.ConferenceFilter()),
	}
	for _, cs := range stats {
		if cs.Count > v.maxCount {
			v.maxCount = cs.Count
		}
	}
	st.Subscribe(store.KeyConferenceFilter, func(val any, _ store.Snapshot) {
		filter, _ := val.(string)
		v.fade.Retarget(v.schools, filter)
	})
	return v
}

func (v *RoseView) Name() string { return "rose" }

func (v *RoseView) SetRect(r Rect) {
	v.rect = r
	v.cx = r.X + r.W/2
	v.cy = r.Y + r.H/2 + 8
	v.radius = math.Min(r.W, r.H)/2 - 46
	v.layoutDots()
}

// sectorAngles returns the trimmed angular range of conference sector i,
// starting from twelve o'clock.
func (v *RoseView) sectorAngles(i int) (a0, a1 float64) {
	span := 2 * math.Pi / float64(len(songdata.Conferences))
	a0 = -math.Pi/2 + span*float64(i) + roseSectorGap
	a1 = a0 + span - 2*roseSectorGap
	return a0, a1
}

// sectorRadius scales a wedge between half and full radius by school count.
func (v *RoseView) sectorRadius(count int) float64 {
	if v.maxCount == 0 {
		return v.radius
	}
	share := roseMinShare + (1-roseMinShare)*float64(count)/float64(v.maxCount)
	return v.radius * share
}

func (v *RoseView) layoutDots() {
	v.dots = v.dots[:0]
	bpmMin, bpmMax := songdata.DimBPM.Range(v.schools)
	for ci, conf := range songdata.Conferences {
		var members []*songdata.School
		for _, s := range v.schools {
			if s.Conference == conf {
				members = append(members, s)
			}
		}
		a0, a1 := v.sectorAngles(ci)
		outer := v.sectorRadius(len(members))
		for mi, s := range members {
			t := (float64(mi) + 0.5) / float64(len(members))
			angle := a0 + (a1-a0)*t
			rNorm := 0.0
			if bpmMax > bpmMin {
				rNorm = (s.BPM - bpmMin) / (bpmMax - bpmMin)
			}
			r := outer * (0.3 + 0.65*rNorm)
			v.dots = append(v.dots, roseDot{
				school: s,
				x:      v.cx + r*math.Cos(angle),
				y:      v.cy + r*math.Sin(angle),
			})
		}
	}
}

func (v *RoseView) Tick(now time.Time, dt float64) {
	v.fade.Step(dt)
	v.pulse += dt * 2 * math.Pi / 1.8
}

func (v *RoseView) HitTest(x, y float64) *songdata.School {
	var best *songdata.School
	bestDist := markerBase + markerPerTrope*3 + 4
	for _, d := range v.dots {
		dist := math.Hypot(x-d.x, y-d.y)
		if dist < bestDist {
			best, bestDist = d.school, dist
		}
	}
	return best
}

func (v *RoseView) drawWedge(screen *ebiten.Image, a0, a1, outer float64, col color.RGBA, alpha float32) {
	// Wedge outline as radial edges plus a segmented arc.
	steps := int(math.Max(8, (a1-a0)/0.08))
	prevX := v.cx + outer*math.Cos(a0)
	prevY := v.cy + outer*math.Sin(a0)
	vector.StrokeLine(screen, float32(v.cx), float32(v.cy), float32(prevX), float32(prevY), 1, scaleColor(col, alpha), true)
	for i := 1; i <= steps; i++ {
		a := a0 + (a1-a0)*float64(i)/float64(steps)
		x := v.cx + outer*math.Cos(a)
		y := v.cy + outer*math.Sin(a)
		vector.StrokeLine(screen, float32(prevX), float32(prevY), float32(x), float32(y), 1, scaleColor(col, alpha), true)
		prevX, prevY = x, y
	}
	vector.StrokeLine(screen, float32(v.cx), float32(v.cy), float32(prevX), float32(prevY), 1, scaleColor(col, alpha), true)
}

func (v *RoseView) Draw(screen *ebiten.Image) {
	face := v.fonts.face(12)
	hovered := v.st.HoveredSchool()
	selected := v.st.SelectedSchool()
	focus := hovered
	if focus == "" {
		focus = selected
	}
	related := conferenceMates(v.schools, focus)
	filter := v.st.ConferenceFilter()

	for ci, cs := range v.stats {
		a0, a1 := v.sectorAngles(ci)
		outer := v.sectorRadius(cs.Count)
		col := conferenceColor(cs.Conference)
		alpha := float32(0.8)
		if filter != store.FilterAll && filter != cs.Conference {
			alpha = float32(dimOpacity)
		}
		v.drawWedge(screen, a0, a1, outer, col, alpha)

		mid := (a0 + a1) / 2
		lx := v.cx + (v.radius+20)*math.Cos(mid)
		ly := v.cy + (v.radius+20)*math.Sin(mid)
		w, h := text.Measure(cs.Conference, face, 0)
		op := &text.DrawOptions{}
		op.GeoM.Translate(lx-w/2, ly-h/2)
		op.ColorScale.ScaleWithColor(scaleColor(col, alpha))
		text.Draw(screen, cs.Conference, face, op)
	}

	for _, d := range v.dots {
		s := d.school
		alpha := hoverAlpha(v.fade.Alpha(s.Name), s.Name, focus, related)
		radius := markerRadius(s)
		col := conferenceColor(s.Conference)
		if s.Featured() {
			glow := float32(0.5+0.5*math.Sin(v.pulse)) * float32(alpha)
			vector.DrawFilledCircle(screen, float32(d.x), float32(d.y), float32(radius)+5, scaleColor(colorFeatured, glow*0.3), true)
			vector.StrokeCircle(screen, float32(d.x), float32(d.y), float32(radius)+3, 1.5, scaleColor(colorFeatured, float32(alpha)), true)
		}
		vector.DrawFilledCircle(screen, float32(d.x), float32(d.y), float32(radius), scaleColor(col, float32(alpha)), true)
		if s.Name == selected {
			vector.StrokeCircle(screen, float32(d.x), float32(d.y), float32(radius)+2, 2, scaleColor(colorFeatured, float32(alpha)), true)
		}
	}
}
