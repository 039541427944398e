package vizengine

import (
	"math"
	"testing"
)

func TestFitAlbersOrdering(t *testing.T) {
	coords := [][2]float64{
		{47.65, -122.30}, // Seattle
		{42.28, -83.74},  // Ann Arbor
		{42.36, -71.06},  // Boston
		{30.28, -97.73},  // Austin
	}
	rect := Rect{X: 0, Y: 0, W: 1000, H: 600}
	proj := FitAlbers(coords, rect, 20)

	sx, _ := proj.Project(47.65, -122.30)
	ax, ay := proj.Project(42.28, -83.74)
	bx, _ := proj.Project(42.36, -71.06)
	_, ty := proj.Project(30.28, -97.73)

	if !(sx < ax && ax < bx) {
		t.Errorf("west-east ordering broken: seattle=%.1f annArbor=%.1f boston=%.1f", sx, ax, bx)
	}
	if !(ay < ty) {
		t.Errorf("north-south ordering broken: annArbor y=%.1f austin y=%.1f", ay, ty)
	}
}

func TestFitAlbersInsideRect(t *testing.T) {
	coords := [][2]float64{
		{47.65, -122.30},
		{25.72, -80.28}, // Coral Gables
		{44.97, -93.23}, // Minneapolis
		{34.07, -118.44},
		{42.36, -71.06},
	}
	rect := Rect{X: 100, Y: 50, W: 800, H: 500}
	proj := FitAlbers(coords, rect, 40)
	for _, c := range coords {
		x, y := proj.Project(c[0], c[1])
		if x < rect.X || x > rect.X+rect.W || y < rect.Y || y > rect.Y+rect.H {
			t.Errorf("Project(%v) = (%.1f, %.1f) outside %+v", c, x, y, rect)
		}
	}
}

func TestLinearScale(t *testing.T) {
	tests := []struct {
		d0, d1, r0, r1, v, want float64
	}{
		{0, 10, 0, 100, 5, 50},
		{0, 10, 100, 0, 0, 100}, // inverted range
		{50, 150, 0, 1, 150, 1},
		{5, 5, 0, 100, 5, 0}, // degenerate domain widens, v lands at the low end
	}
	for _, tt := range tests {
		got := newScale(tt.d0, tt.d1, tt.r0, tt.r1).Map(tt.v)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("scale [%v,%v]->[%v,%v] Map(%v) = %v; want %v", tt.d0, tt.d1, tt.r0, tt.r1, tt.v, got, tt.want)
		}
	}
}

func TestEaseOutCubic(t *testing.T) {
	if got := easeOutCubic(0); got != 0 {
		t.Errorf("easeOutCubic(0) = %v; want 0", got)
	}
	if got := easeOutCubic(1); math.Abs(got-1) > 1e-9 {
		t.Errorf("easeOutCubic(1) = %v; want 1", got)
	}
	if a, b := easeOutCubic(0.2), easeOutCubic(0.8); a >= b {
		t.Errorf("easeOutCubic not monotonic: f(0.2)=%v f(0.8)=%v", a, b)
	}
	// Eases out: front-loaded relative to linear.
	if got := easeOutCubic(0.5); got <= 0.5 {
		t.Errorf("easeOutCubic(0.5) = %v; want > 0.5", got)
	}
}

func TestRect(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 100, H: 50}
	if !r.Contains(10, 20) || !r.Contains(60, 45) {
		t.Error("Contains rejected interior points")
	}
	if r.Contains(9, 20) || r.Contains(60, 71) {
		t.Error("Contains accepted exterior points")
	}
	in := r.Inset(5)
	if in.X != 15 || in.Y != 25 || in.W != 90 || in.H != 40 {
		t.Errorf("Inset(5) = %+v", in)
	}
}
