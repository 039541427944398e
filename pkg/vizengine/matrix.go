package vizengine

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/GuinanGuo/fight-song-viz/pkg/songdata"
	"github.com/GuinanGuo/fight-song-viz/pkg/store"
)

// MatrixView is a school-by-trope grid. Columns reorder on the matrix sort
// key; cells follow the conference filter and hover focus.
type MatrixView struct {
	st      *store.Store
	schools []*songdata.School
	fonts   fonts

	rect    Rect
	grid    Rect
	ordered []*songdata.School
	fade    *fader

	cellW, cellH float64
}

func NewMatrixView(st *store.Store, schools []*songdata.School, f fonts) *MatrixView {
	v := &MatrixView{st: st, schools: schools, fonts: f,
		fade: newFader(schools, st.ConferenceFilter())}
	v.resort(st.MatrixSort())
	st.Subscribe(store.KeyConferenceFilter, func(val any, _ store.Snapshot) {
		filter, _ := val.(string)
		v.fade.Retarget(v.schools, filter)
	})
	st.Subscribe(store.KeyMatrixSort, func(val any, _ store.Snapshot) {
		order, _ := val.(store.SortOrder)
		v.resort(order)
	})
	return v
}

func (v *MatrixView) resort(order store.SortOrder) {
	v.ordered = songdata.Sorted(v.schools, string(order))
	v.layoutCells()
}

func (v *MatrixView) Name() string { return "matrix" }

func (v *MatrixView) SetRect(r Rect) {
	v.rect = r
	v.grid = Rect{X: r.X + 90, Y: r.Y + 30, W: r.W - 110, H: r.H - 60}
	v.layoutCells()
}

func (v *MatrixView) layoutCells() {
	if len(v.ordered) == 0 || v.grid.W <= 0 {
		return
	}
	v.cellW = v.grid.W / float64(len(v.ordered))
	v.cellH = v.grid.H / float64(len(songdata.Tropes))
}

func (v *MatrixView) Tick(now time.Time, dt float64) { v.fade.Step(dt) }

func (v *MatrixView) HitTest(x, y float64) *songdata.School {
	if !v.grid.Contains(x, y) || v.cellW <= 0 {
		return nil
	}
	col := int((x - v.grid.X) / v.cellW)
	if col < 0 || col >= len(v.ordered) {
		return nil
	}
	return v.ordered[col]
}

func (v *MatrixView) Draw(screen *ebiten.Image) {
	face := v.fonts.face(12)

	// Row labels.
	for i, trope := range songdata.Tropes {
		op := &text.DrawOptions{}
		op.GeoM.Translate(v.rect.X+8, v.grid.Y+float64(i)*v.cellH+v.cellH/2-7)
		op.ColorScale.Scale(1, 1, 1, 0.55)
		text.Draw(screen, trope, face, op)
	}

	hovered := v.st.HoveredSchool()
	selected := v.st.SelectedSchool()
	focus := hovered
	if focus == "" {
		focus = selected
	}
	related := conferenceMates(v.schools, focus)

	for col, s := range v.ordered {
		alpha := hoverAlpha(v.fade.Alpha(s.Name), s.Name, focus, related)
		colX := v.grid.X + float64(col)*v.cellW
		colCol := conferenceColor(s.Conference)
		if s.Featured() {
			colCol = colorFeatured
		}
		if s.Name == focus {
			vector.DrawFilledRect(screen, float32(colX), float32(v.grid.Y), float32(v.cellW), float32(v.grid.H), scaleColor(colorPanelEdge, 0.8), false)
		}
		for row, trope := range songdata.Tropes {
			if !s.Trope(trope) {
				continue
			}
			cy := v.grid.Y + float64(row)*v.cellH
			vector.DrawFilledRect(screen,
				float32(colX+1), float32(cy+1),
				float32(v.cellW-2), float32(v.cellH-2),
				scaleColor(colCol, float32(alpha)), false)
		}
		if s.Name == selected {
			vector.StrokeRect(screen, float32(colX), float32(v.grid.Y), float32(v.cellW), float32(v.grid.H), 2, scaleColor(colorFeatured, 1), false)
		}
	}

	// Sort readout under the grid.
	op := &text.DrawOptions{}
	op.GeoM.Translate(v.grid.X, v.grid.Y+v.grid.H+8)
	op.ColorScale.Scale(1, 1, 1, 0.45)
	text.Draw(screen, "sorted by "+string(v.st.MatrixSort()), face, op)
}

// Ordered exposes the current column order (left to right).
func (v *MatrixView) Ordered() []*songdata.School { return v.ordered }
