package vizengine

import (
	"testing"
	"time"

	"github.com/GuinanGuo/fight-song-viz/pkg/store"
)

func TestPosterParticlesAdvanceOnlyOnTick(t *testing.T) {
	v := NewPosterView(store.New(), testSchools(), loadFonts())
	v.SetRect(Rect{X: 0, Y: 0, W: 800, H: 600})

	before := v.Phases("Michigan")
	if len(before) == 0 {
		t.Fatal("Michigan cluster has no particles")
	}

	// No tick, no movement: this is what freezes hidden sections.
	after := v.Phases("Michigan")
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("phases moved without a tick")
		}
	}

	v.Tick(time.Now(), 0.1)
	after = v.Phases("Michigan")
	moved := false
	for i := range before {
		if before[i] != after[i] {
			moved = true
		}
	}
	if !moved {
		t.Error("phases did not advance on tick")
	}
}

func TestPosterFasterTempoSpinsFaster(t *testing.T) {
	v := NewPosterView(store.New(), testSchools(), loadFonts())
	v.SetRect(Rect{X: 0, Y: 0, W: 800, H: 600})

	before := map[string][]float64{
		"Michigan": v.Phases("Michigan"), // 152 bpm
		"Texas":    v.Phases("Texas"),    // 110 bpm
	}
	v.Tick(time.Now(), 1.0)
	dMichigan := v.Phases("Michigan")[0] - before["Michigan"][0]
	dTexas := v.Phases("Texas")[0] - before["Texas"][0]
	if dMichigan <= dTexas {
		t.Errorf("152 bpm should outpace 110 bpm: %.3f vs %.3f rad", dMichigan, dTexas)
	}
}

func TestPosterHitTestFindsCluster(t *testing.T) {
	v := NewPosterView(store.New(), testSchools(), loadFonts())
	v.SetRect(Rect{X: 0, Y: 0, W: 800, H: 600})

	for i := range v.clusters {
		c := &v.clusters[i]
		if got := v.HitTest(c.x, c.y); got == nil || got.Name != c.school.Name {
			t.Errorf("HitTest at %s cluster center = %v", c.school.Name, got)
		}
	}
	if got := v.HitTest(-100, -100); got != nil {
		t.Errorf("HitTest far away = %v; want nil", got)
	}
}
