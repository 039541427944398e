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

var parallelDims = []songdata.Dimension{
	songdata.DimBPM,
	songdata.DimDuration,
	songdata.DimYear,
	songdata.DimFight,
	songdata.DimRah,
}

// Fractional positions of the boolean false/true stops on their axis.
const (
	boolFalseT = 0.92
	boolTrueT  = 0.08
)

type brush struct {
	active bool
	y0, y1 float64 // pixel range, y0 <= y1 after normalization
}

// ParallelView draws one polyline per school across five axes and supports
// drag-brushing on each axis; brushes across axes intersect.
type ParallelView struct {
	st      *store.Store
	schools []*songdata.School
	fonts   fonts

	rect   Rect
	plot   Rect
	axisX  []float64
	scales []linearScale
	fade   *fader

	brushes  []brush
	dragAxis int // -1 when not dragging
	dragFrom float64
}

func NewParallelView(st *store.Store, schools []*songdata.School, f fonts) *ParallelView {
	v := &ParallelView{
		st:       st,
		schools:  schools,
		fonts:    f,
		fade:     newFader(schools, st.ConferenceFilter()),
		brushes:  make([]brush, len(parallelDims)),
		dragAxis: -1,
	}
	st.Subscribe(store.KeyConferenceFilter, func(val any, _ store.Snapshot) {
		filter, _ := val.(string)
		v.fade.Retarget(v.schools, filter)
	})
	return v
}

func (v *ParallelView) Name() string { return "parallel" }

func (v *ParallelView) SetRect(r Rect) {
	v.rect = r
	v.plot = Rect{X: r.X + 60, Y: r.Y + 40, W: r.W - 120, H: r.H - 90}
	v.axisX = make([]float64, len(parallelDims))
	v.scales = make([]linearScale, len(parallelDims))
	for i, dim := range parallelDims {
		v.axisX[i] = v.plot.X + v.plot.W*float64(i)/float64(len(parallelDims)-1)
		min, max := dim.Range(v.schools)
		v.scales[i] = newScale(min, max, v.plot.Y+v.plot.H, v.plot.Y)
	}
	// Brushes are pixel ranges; a relayout invalidates them.
	v.brushes = make([]brush, len(parallelDims))
}

// axisY places a school on one axis.
func (v *ParallelView) axisY(s *songdata.School, i int) float64 {
	dim := parallelDims[i]
	if dim.Bool() {
		t := boolFalseT
		if dim.Value(s) > 0 {
			t = boolTrueT
		}
		return v.plot.Y + v.plot.H*t
	}
	return v.scales[i].Map(dim.Value(s))
}

// Passes reports whether the school clears every active brush.
func (v *ParallelView) Passes(s *songdata.School) bool {
	for i, b := range v.brushes {
		if !b.active {
			continue
		}
		y := v.axisY(s, i)
		if y < b.y0 || y > b.y1 {
			return false
		}
	}
	return true
}

// DragStart begins a brush when the press lands on an axis.
func (v *ParallelView) DragStart(x, y float64) bool {
	if y < v.plot.Y || y > v.plot.Y+v.plot.H {
		return false
	}
	for i, ax := range v.axisX {
		if math.Abs(x-ax) <= 9 {
			v.dragAxis = i
			v.dragFrom = y
			v.brushes[i] = brush{active: true, y0: y, y1: y}
			return true
		}
	}
	return false
}

func (v *ParallelView) DragMove(x, y float64) {
	if v.dragAxis < 0 {
		return
	}
	y = clamp(y, v.plot.Y, v.plot.Y+v.plot.H)
	b := &v.brushes[v.dragAxis]
	b.y0 = math.Min(v.dragFrom, y)
	b.y1 = math.Max(v.dragFrom, y)
}

func (v *ParallelView) DragEnd() {
	if v.dragAxis >= 0 {
		b := &v.brushes[v.dragAxis]
		// A click without movement clears the axis brush.
		if b.y1-b.y0 < 3 {
			*b = brush{}
		}
		v.dragAxis = -1
	}
}

func (v *ParallelView) Tick(now time.Time, dt float64) { v.fade.Step(dt) }

func (v *ParallelView) HitTest(x, y float64) *songdata.School {
	var best *songdata.School
	bestDist := 5.0
	for _, s := range v.schools {
		if !v.Passes(s) {
			continue
		}
		for i := 0; i < len(parallelDims)-1; i++ {
			d := pointSegmentDist(x, y, v.axisX[i], v.axisY(s, i), v.axisX[i+1], v.axisY(s, i+1))
			if d < bestDist {
				best, bestDist = s, d
			}
		}
	}
	return best
}

func pointSegmentDist(px, py, x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(px-x1, py-y1)
	}
	t := clamp(((px-x1)*dx+(py-y1)*dy)/l2, 0, 1)
	return math.Hypot(px-(x1+t*dx), py-(y1+t*dy))
}

func (v *ParallelView) Draw(screen *ebiten.Image) {
	face := v.fonts.face(12)

	for i, dim := range parallelDims {
		ax := v.axisX[i]
		vector.StrokeLine(screen, float32(ax), float32(v.plot.Y), float32(ax), float32(v.plot.Y+v.plot.H), 1, colorPanelEdge, false)
		label := dim.String()
		w, _ := text.Measure(label, face, 0)
		op := &text.DrawOptions{}
		op.GeoM.Translate(ax-w/2, v.plot.Y+v.plot.H+10)
		op.ColorScale.Scale(1, 1, 1, 0.55)
		text.Draw(screen, label, face, op)

		if dim.Bool() {
			for _, stop := range []struct {
				t     float64
				label string
			}{{boolTrueT, "yes"}, {boolFalseT, "no"}} {
				sy := v.plot.Y + v.plot.H*stop.t
				sop := &text.DrawOptions{}
				sop.GeoM.Translate(ax+6, sy-7)
				sop.ColorScale.Scale(1, 1, 1, 0.35)
				text.Draw(screen, stop.label, face, sop)
			}
		}

		if b := v.brushes[i]; b.active {
			vector.DrawFilledRect(screen, float32(ax-7), float32(b.y0), 14, float32(b.y1-b.y0), scaleColor(colorFeatured, 0.25), false)
			vector.StrokeRect(screen, float32(ax-7), float32(b.y0), 14, float32(b.y1-b.y0), 1, scaleColor(colorFeatured, 0.8), false)
		}
	}

	hovered := v.st.HoveredSchool()
	selected := v.st.SelectedSchool()
	focus := hovered
	if focus == "" {
		focus = selected
	}
	related := conferenceMates(v.schools, focus)

	for _, s := range v.schools {
		alpha := hoverAlpha(v.fade.Alpha(s.Name), s.Name, focus, related)
		if !v.Passes(s) {
			alpha = 0.04
		}
		col := conferenceColor(s.Conference)
		width := float32(1.5)
		if s.Featured() {
			col = colorFeatured
			width = 2.5
		}
		if s.Name == focus {
			width = 3
		}
		for i := 0; i < len(parallelDims)-1; i++ {
			vector.StrokeLine(screen,
				float32(v.axisX[i]), float32(v.axisY(s, i)),
				float32(v.axisX[i+1]), float32(v.axisY(s, i+1)),
				width, scaleColor(col, float32(alpha)), true)
		}
	}
}

// SetBrush sets an axis brush directly in pixel space (tests and scripted
// filtering).
func (v *ParallelView) SetBrush(axis int, y0, y1 float64) {
	if axis < 0 || axis >= len(v.brushes) {
		return
	}
	v.brushes[axis] = brush{active: true, y0: math.Min(y0, y1), y1: math.Max(y0, y1)}
}

func (v *ParallelView) ClearBrush(axis int) {
	if axis >= 0 && axis < len(v.brushes) {
		v.brushes[axis] = brush{}
	}
}
