package vizengine

import (
	"testing"

	"github.com/GuinanGuo/fight-song-viz/pkg/store"
)

func newTestParallel(t *testing.T) *ParallelView {
	t.Helper()
	v := NewParallelView(store.New(), testSchools(), loadFonts())
	v.SetRect(Rect{X: 0, Y: 0, W: 800, H: 400})
	return v
}

func TestParallelBrushIntersection(t *testing.T) {
	v := newTestParallel(t)
	schools := v.schools

	// No brushes: everyone passes.
	for _, s := range schools {
		if !v.Passes(s) {
			t.Errorf("%s filtered with no brushes active", s.Name)
		}
	}

	// Brush the bpm axis down to Michigan's position only.
	michigan := schools[0]
	y := v.axisY(michigan, 0)
	v.SetBrush(0, y-2, y+2)
	if !v.Passes(michigan) {
		t.Error("Michigan should pass its own bpm brush")
	}
	if v.Passes(schools[3]) { // Texas, bpm 110, far away
		t.Error("Texas should fail the bpm brush")
	}

	// Add a second brush on the rah axis that excludes Michigan (rah=true
	// sits at the top stop; brush the bottom stop instead).
	bottom := v.plot.Y + v.plot.H*boolFalseT
	v.SetBrush(4, bottom-2, bottom+2)
	if v.Passes(michigan) {
		t.Error("brushes must intersect: Michigan passes bpm but not rah")
	}

	v.ClearBrush(4)
	if !v.Passes(michigan) {
		t.Error("clearing the rah brush should readmit Michigan")
	}
}

func TestParallelBooleanStops(t *testing.T) {
	v := newTestParallel(t)
	// Axis 3 is fight: Michigan true, Alabama false.
	top := v.axisY(v.schools[0], 3)
	bottom := v.axisY(v.schools[2], 3)
	if top >= bottom {
		t.Errorf("true stop (%.1f) should sit above false stop (%.1f)", top, bottom)
	}
	if top < v.plot.Y || bottom > v.plot.Y+v.plot.H {
		t.Error("boolean stops left the plot area")
	}
}

func TestParallelDragLifecycle(t *testing.T) {
	v := newTestParallel(t)

	// Press away from any axis: no drag.
	if v.DragStart(v.axisX[0]+50, v.plot.Y+100) {
		t.Error("DragStart should reject presses between axes")
	}

	// Press on the duration axis and sweep.
	ax := v.axisX[1]
	if !v.DragStart(ax+3, v.plot.Y+50) {
		t.Fatal("DragStart should accept a press on the axis")
	}
	v.DragMove(ax, v.plot.Y+150)
	v.DragEnd()
	b := v.brushes[1]
	if !b.active || b.y1-b.y0 < 90 {
		t.Errorf("drag should leave an active brush spanning the sweep, got %+v", b)
	}

	// A click without movement clears it.
	v.DragStart(ax, v.plot.Y+50)
	v.DragEnd()
	if v.brushes[1].active {
		t.Error("click on the axis should clear the brush")
	}
}
