package songdata

import (
	"math"
	"testing"
)

func intp(v int) *int { return &v }

func TestSimilarityIdenticalRecords(t *testing.T) {
	a := &School{Name: "A", Conference: "Big Ten", BPM: 140, Duration: 70, TropeCount: 3}
	b := &School{Name: "B", Conference: "Big Ten", BPM: 140, Duration: 70, TropeCount: 3}
	// Third record widens the ranges so the normalization is non-degenerate.
	c := &School{Name: "C", Conference: "SEC", BPM: 60, Duration: 200, TropeCount: 0}

	r := RangesOf([]*School{a, b, c})
	score := Similarity(a, b, r)
	want := 1.0 / weightScale
	if math.Abs(score-want) > 1e-9 {
		t.Errorf("identical same-conference score = %f, want %f", score, want)
	}
	if score <= EdgeThreshold {
		t.Errorf("identical records score %f does not exceed the edge threshold", score)
	}
}

func TestSimilarityGraphScenario(t *testing.T) {
	// Two Big Ten twins and one very different SEC school: exactly one edge.
	schools := []*School{
		{Name: "A", Conference: "Big Ten", BPM: 140, Duration: 70, TropeCount: 3},
		{Name: "B", Conference: "Big Ten", BPM: 140, Duration: 70, TropeCount: 3},
		{Name: "C", Conference: "SEC", BPM: 60, Duration: 200, TropeCount: 0},
	}
	g, err := BuildSimilarityGraph(schools)
	if err != nil {
		t.Fatalf("BuildSimilarityGraph: %v", err)
	}
	edges, err := g.Edges()
	if err != nil {
		t.Fatalf("Edges: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("expected exactly 1 edge, got %d", len(edges))
	}
	e := edges[0]
	pair := e.Source + "-" + e.Target
	if pair != "A-B" && pair != "B-A" {
		t.Errorf("edge %s, want A-B", pair)
	}
	for _, n := range Neighbors(g, "C") {
		t.Errorf("SEC school has unexpected neighbor %s", n)
	}
}

func TestSimilarityClipping(t *testing.T) {
	// A degenerate set with zero spread must not divide by zero and must
	// still give the same-conference bonus alone for cross-conference pairs.
	a := &School{Name: "A", Conference: "ACC", BPM: 120, Duration: 60, TropeCount: 2}
	b := &School{Name: "B", Conference: "Big 12", BPM: 120, Duration: 60, TropeCount: 2}
	r := RangesOf([]*School{a, b})
	got := Similarity(a, b, r)
	want := (weightBPM + weightDuration + weightTropes) / weightScale
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("cross-conference identical score = %f, want %f", got, want)
	}
}

func TestSortedByBPMNonIncreasing(t *testing.T) {
	schools := []*School{
		{Name: "A", BPM: 120}, {Name: "B", BPM: 160},
		{Name: "C", BPM: 140}, {Name: "D", BPM: 140},
	}
	out := Sorted(schools, "bpm")
	for i := 1; i < len(out); i++ {
		if out[i].BPM > out[i-1].BPM {
			t.Fatalf("bpm order violated at %d: %f after %f", i, out[i].BPM, out[i-1].BPM)
		}
	}
}

func TestSortedByYearMissingUsesDefault(t *testing.T) {
	schools := []*School{
		{Name: "Old", Year: intp(1898)},
		{Name: "Missing"},
		{Name: "New", Year: intp(1954)},
	}
	out := Sorted(schools, "year")
	gotOrder := []string{out[0].Name, out[1].Name, out[2].Name}
	want := []string{"Old", "Missing", "New"} // missing draws as 1930
	for i := range want {
		if gotOrder[i] != want[i] {
			t.Fatalf("year order = %v, want %v", gotOrder, want)
		}
	}
}

func TestYearRangeExcludesMissing(t *testing.T) {
	schools := []*School{
		{Name: "A", Year: intp(1900)},
		{Name: "B"}, // unknown year must not drag the domain to 1930
		{Name: "C", Year: intp(1910)},
	}
	min, max := DimYear.Range(schools)
	if min != 1900 || max != 1910 {
		t.Errorf("year range = [%f, %f], want [1900, 1910]", min, max)
	}
	if got := DimYear.Value(schools[1]); got != DefaultYear {
		t.Errorf("missing year value = %f, want %d", got, DefaultYear)
	}
}
