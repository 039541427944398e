package vizengine

import (
	"image"
	"image/color"
	"math"
	"sort"
)

// Rect is a view's drawing area in screen pixels.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func (r Rect) Center() (float64, float64) { return r.X + r.W/2, r.Y + r.H/2 }

// Inset shrinks the rect by the given margin on every side.
func (r Rect) Inset(m float64) Rect {
	return Rect{X: r.X + m, Y: r.Y + m, W: r.W - 2*m, H: r.H - 2*m}
}

// linearScale maps a data domain onto a pixel range.
type linearScale struct {
	d0, d1 float64
	r0, r1 float64
}

func newScale(d0, d1, r0, r1 float64) linearScale {
	if d1 == d0 {
		d1 = d0 + 1
	}
	return linearScale{d0, d1, r0, r1}
}

func (s linearScale) Map(v float64) float64 {
	t := (v - s.d0) / (s.d1 - s.d0)
	return s.r0 + t*(s.r1-s.r0)
}

// Albers equal-area conic projection for the continental US: standard
// parallels 29.5°/45.5°, origin 23°N 96°W.
const (
	albersPhi1   = 29.5 * math.Pi / 180
	albersPhi2   = 45.5 * math.Pi / 180
	albersPhi0   = 23.0 * math.Pi / 180
	albersLambda = -96.0 * math.Pi / 180
)

// albersRaw returns unscaled projection-plane coordinates, y growing north.
func albersRaw(lat, lng float64) (x, y float64) {
	phi := lat * math.Pi / 180
	lambda := lng * math.Pi / 180
	n := (math.Sin(albersPhi1) + math.Sin(albersPhi2)) / 2
	c := math.Cos(albersPhi1)*math.Cos(albersPhi1) + 2*n*math.Sin(albersPhi1)
	rho := math.Sqrt(c-2*n*math.Sin(phi)) / n
	rho0 := math.Sqrt(c-2*n*math.Sin(albersPhi0)) / n
	theta := n * (lambda - albersLambda)
	x = rho * math.Sin(theta)
	y = rho0 - rho*math.Cos(theta)
	return x, y
}

// Projection fits the Albers plane onto a screen rect. Built once per view
// layout from the coordinates it has to contain.
type Projection struct {
	scale      float64
	offX, offY float64
}

// FitAlbers computes the affine fit that places all the given lat/lng points
// inside rect with the given padding.
func FitAlbers(coords [][2]float64, rect Rect, padding float64) Projection {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range coords {
		x, y := albersRaw(c[0], c[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	inner := rect.Inset(padding)
	spanX, spanY := maxX-minX, maxY-minY
	if spanX <= 0 || spanY <= 0 || inner.W <= 0 || inner.H <= 0 {
		return Projection{scale: 1}
	}
	scale := math.Min(inner.W/spanX, inner.H/spanY)
	// Center the fitted extent; projection-plane y points north, screen y
	// points down, so y flips around the extent midpoint.
	offX := inner.X + (inner.W-spanX*scale)/2 - minX*scale
	offY := inner.Y + (inner.H-spanY*scale)/2 + maxY*scale
	return Projection{scale: scale, offX: offX, offY: offY}
}

func (p Projection) Project(lat, lng float64) (x, y float64) {
	rx, ry := albersRaw(lat, lng)
	return p.offX + rx*p.scale, p.offY - ry*p.scale
}

// fillPolygon scanline-fills a geojson polygon (outer ring plus holes) that
// has already been projected to screen space.
func fillPolygon(img *image.RGBA, rings [][][2]float64, c color.RGBA) {
	if len(rings) == 0 {
		return
	}
	bounds := img.Bounds()
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, ring := range rings {
		for _, p := range ring {
			minY = math.Min(minY, p[1])
			maxY = math.Max(maxY, p[1])
		}
	}
	for y := int(minY); y <= int(maxY); y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		var nodes []int
		fy := float64(y)
		for _, ring := range rings {
			for i := 0; i < len(ring); i++ {
				j := (i + 1) % len(ring)
				if (ring[i][1] < fy && ring[j][1] >= fy) || (ring[j][1] < fy && ring[i][1] >= fy) {
					nodeX := ring[i][0] + (fy-ring[i][1])/(ring[j][1]-ring[i][1])*(ring[j][0]-ring[i][0])
					nodes = append(nodes, int(nodeX))
				}
			}
		}
		sort.Ints(nodes)
		for i := 0; i < len(nodes)-1; i += 2 {
			xs, xe := nodes[i], nodes[i+1]
			if xs < bounds.Min.X {
				xs = bounds.Min.X
			}
			if xe >= bounds.Max.X {
				xe = bounds.Max.X - 1
			}
			for x := xs; x < xe; x++ {
				off := (y-bounds.Min.Y)*img.Stride + (x-bounds.Min.X)*4
				img.Pix[off], img.Pix[off+1], img.Pix[off+2], img.Pix[off+3] = c.R, c.G, c.B, 255
			}
		}
	}
}

// drawRing outlines a projected ring with Bresenham lines.
func drawRing(img *image.RGBA, ring [][2]float64, c color.RGBA) {
	for i := 0; i < len(ring)-1; i++ {
		drawLine(img, int(ring[i][0]), int(ring[i][1]), int(ring[i+1][0]), int(ring[i+1][1]), c)
	}
}

func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	bounds := img.Bounds()
	dx, dy := math.Abs(float64(x2-x1)), math.Abs(float64(y2-y1))
	sx, sy := -1, -1
	if x1 < x2 {
		sx = 1
	}
	if y1 < y2 {
		sy = 1
	}
	err := dx - dy
	for {
		if x1 >= bounds.Min.X && x1 < bounds.Max.X && y1 >= bounds.Min.Y && y1 < bounds.Max.Y {
			off := (y1-bounds.Min.Y)*img.Stride + (x1-bounds.Min.X)*4
			img.Pix[off], img.Pix[off+1], img.Pix[off+2], img.Pix[off+3] = c.R, c.G, c.B, 255
		}
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func easeOutCubic(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	u := 1 - t
	return 1 - u*u*u
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
