package vizengine

import (
	"testing"

	"github.com/GuinanGuo/fight-song-viz/pkg/songdata"
	"github.com/GuinanGuo/fight-song-viz/pkg/store"
)

func newTestNetwork(t *testing.T, schools []*songdata.School) *NetworkView {
	t.Helper()
	g, err := songdata.BuildSimilarityGraph(schools)
	if err != nil {
		t.Fatalf("BuildSimilarityGraph: %v", err)
	}
	v, err := NewNetworkView(store.New(), schools, g, nil, loadFonts())
	if err != nil {
		t.Fatalf("NewNetworkView: %v", err)
	}
	return v
}

func TestNetworkAdjacency(t *testing.T) {
	// Michigan and Ohio State are near-identical conference mates; Texas is
	// distant on every measure and in another conference.
	year := 1898
	schools := []*songdata.School{
		{Name: "Michigan", Conference: "Big Ten", BPM: 150, Duration: 70, TropeCount: 5, Year: &year},
		{Name: "Ohio State", Conference: "Big Ten", BPM: 148, Duration: 72, TropeCount: 5, Year: &year},
		{Name: "Texas", Conference: "Big 12", BPM: 60, Duration: 180, TropeCount: 0, Year: &year},
	}
	v := newTestNetwork(t, schools)

	if !v.Adjacent("Michigan", "Ohio State") || !v.Adjacent("Ohio State", "Michigan") {
		t.Error("near-identical conference mates should share an edge, both directions")
	}
	if v.Adjacent("Michigan", "Texas") || v.Adjacent("Ohio State", "Texas") {
		t.Error("dissimilar schools should not share an edge")
	}
}

func TestNetworkLayoutBounds(t *testing.T) {
	v := newTestNetwork(t, testSchools())
	rect := Rect{X: 100, Y: 100, W: 600, H: 400}
	v.SetRect(rect)

	for i, p := range v.Positions() {
		if p.X < rect.X || p.X > rect.X+rect.W || p.Y < rect.Y || p.Y > rect.Y+rect.H {
			t.Errorf("node %d at (%.1f, %.1f) left the rect %+v", i, p.X, p.Y, rect)
		}
	}
}

func TestNetworkLayoutSeparation(t *testing.T) {
	v := newTestNetwork(t, testSchools())
	v.SetRect(Rect{X: 0, Y: 0, W: 600, H: 600})

	pos := v.Positions()
	for i := 0; i < len(pos); i++ {
		for j := i + 1; j < len(pos); j++ {
			dx, dy := pos[i].X-pos[j].X, pos[i].Y-pos[j].Y
			if dx == 0 && dy == 0 {
				t.Errorf("nodes %d and %d collapsed onto the same point", i, j)
			}
		}
	}
}

func TestNetworkDeterministicLayout(t *testing.T) {
	a := newTestNetwork(t, testSchools())
	b := newTestNetwork(t, testSchools())
	rect := Rect{X: 0, Y: 0, W: 500, H: 500}
	a.SetRect(rect)
	b.SetRect(rect)
	pa, pb := a.Positions(), b.Positions()
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("layout not reproducible: node %d %v vs %v", i, pa[i], pb[i])
		}
	}
}
