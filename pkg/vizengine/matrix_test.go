package vizengine

import (
	"testing"

	"github.com/GuinanGuo/fight-song-viz/pkg/store"
)

func TestMatrixResortsOnStoreChange(t *testing.T) {
	st := store.New()
	v := NewMatrixView(st, testSchools(), loadFonts())
	v.SetRect(Rect{X: 0, Y: 0, W: 800, H: 400})

	// Default order groups by conference: both Big Ten schools lead.
	ordered := v.Ordered()
	if ordered[0].Conference != "Big Ten" || ordered[1].Conference != "Big Ten" {
		t.Fatalf("default order should lead with Big Ten, got %s / %s",
			ordered[0].Conference, ordered[1].Conference)
	}

	st.SetMatrixSort(store.SortBPM)
	ordered = v.Ordered()
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].BPM < ordered[i].BPM {
			t.Fatalf("bpm sort should be non-increasing: %s (%.0f) before %s (%.0f)",
				ordered[i-1].Name, ordered[i-1].BPM, ordered[i].Name, ordered[i].BPM)
		}
	}

	st.SetMatrixSort(store.SortTropeCount)
	ordered = v.Ordered()
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].TropeCount > ordered[i].TropeCount {
			t.Fatalf("trope sort should ascend: %s before %s",
				ordered[i-1].Name, ordered[i].Name)
		}
	}
}

func TestMatrixHitTestColumns(t *testing.T) {
	st := store.New()
	v := NewMatrixView(st, testSchools(), loadFonts())
	v.SetRect(Rect{X: 0, Y: 0, W: 800, H: 400})

	ordered := v.Ordered()
	colW := v.grid.W / float64(len(ordered))

	first := v.HitTest(v.grid.X+colW/2, v.grid.Y+10)
	if first == nil || first.Name != ordered[0].Name {
		t.Errorf("first column hit = %v; want %s", first, ordered[0].Name)
	}
	last := v.HitTest(v.grid.X+v.grid.W-colW/2, v.grid.Y+10)
	if last == nil || last.Name != ordered[len(ordered)-1].Name {
		t.Errorf("last column hit = %v; want %s", last, ordered[len(ordered)-1].Name)
	}
	if out := v.HitTest(v.grid.X-20, v.grid.Y+10); out != nil {
		t.Errorf("hit outside the grid = %v; want nil", out)
	}
}
