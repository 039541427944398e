package vizengine

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log"
	"math"
	"sort"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/GuinanGuo/fight-song-viz/pkg/assetcache"
	"github.com/GuinanGuo/fight-song-viz/pkg/songdata"
	"github.com/GuinanGuo/fight-song-viz/pkg/store"
)

// Force layout constants.
const (
	linkDistance    = 80.0
	chargeStrength  = -180.0
	collisionRadius = 26.0
	layoutTicks     = 300
	velocityDecay   = 0.6
	centerStrength  = 0.05
	linkStrength    = 0.08
)

type layoutEdge struct {
	a, b   int
	weight float64
}

// NetworkView lays the similarity graph out with a small force simulation:
// link springs, pairwise charge, a center pull and pairwise collision, run
// for a fixed number of ticks at build time. Solved positions are cached so
// a restart skips the simulation.
type NetworkView struct {
	st      *store.Store
	schools []*songdata.School
	fonts   fonts
	cache   *assetcache.Cache

	rect      Rect
	fade      *fader
	positions []Vec2 // abstract layout space, fitted at draw time
	fit       struct{ scale, offX, offY float64 }
	edges     []layoutEdge
	adjacency map[string]map[string]bool
	index     map[string]int

	pulsePhase float64
}

type Vec2 struct{ X, Y float64 }

func NewNetworkView(st *store.Store, schools []*songdata.School, g graph.Graph[string, *songdata.School], cache *assetcache.Cache, f fonts) (*NetworkView, error) {
	v := &NetworkView{
		st:        st,
		schools:   schools,
		fonts:     f,
		cache:     cache,
		fade:      newFader(schools, st.ConferenceFilter()),
		adjacency: make(map[string]map[string]bool),
		index:     make(map[string]int, len(schools)),
	}
	for i, s := range schools {
		v.index[s.Name] = i
		v.adjacency[s.Name] = make(map[string]bool)
	}

	edges, err := g.Edges()
	if err != nil {
		return nil, fmt.Errorf("similarity edges: %w", err)
	}
	// Stable edge order keeps the layout reproducible for a given dataset.
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
	for _, e := range edges {
		ai, aok := v.index[e.Source]
		bi, bok := v.index[e.Target]
		if !aok || !bok {
			continue
		}
		v.edges = append(v.edges, layoutEdge{a: ai, b: bi, weight: float64(e.Properties.Weight) / 100})
		v.adjacency[e.Source][e.Target] = true
		v.adjacency[e.Target][e.Source] = true
	}

	v.positions = v.solveLayout()

	st.Subscribe(store.KeyConferenceFilter, func(val any, _ store.Snapshot) {
		filter, _ := val.(string)
		v.fade.Retarget(v.schools, filter)
	})
	return v, nil
}

func (v *NetworkView) layoutKey() string {
	h := fnv.New64a()
	for _, s := range v.schools {
		fmt.Fprintf(h, "%s|", s.Name)
	}
	for _, e := range v.edges {
		fmt.Fprintf(h, "%d-%d|", e.a, e.b)
	}
	return fmt.Sprintf("layout/%x", h.Sum64())
}

func (v *NetworkView) solveLayout() []Vec2 {
	key := v.layoutKey()
	if v.cache != nil {
		if raw, err := v.cache.Get(key); err == nil && raw != nil {
			var pos []Vec2
			if json.Unmarshal(raw, &pos) == nil && len(pos) == len(v.schools) {
				log.Printf("[NET] Using cached layout %s", key)
				return pos
			}
		}
	}

	n := len(v.schools)
	pos := make([]Vec2, n)
	vel := make([]Vec2, n)
	// Phyllotaxis seed: deterministic and roughly uniform.
	for i := range pos {
		r := 14 * math.Sqrt(float64(i)+0.5)
		a := float64(i) * 2.399963229728653
		pos[i] = Vec2{r * math.Cos(a), r * math.Sin(a)}
	}

	for tick := 0; tick < layoutTicks; tick++ {
		// Charge: pairwise repulsion.
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx, dy := pos[j].X-pos[i].X, pos[j].Y-pos[i].Y
				d2 := dx*dx + dy*dy
				if d2 < 1 {
					d2 = 1
				}
				f := chargeStrength / d2
				d := math.Sqrt(d2)
				fx, fy := f*dx/d, f*dy/d
				vel[i].X += fx
				vel[i].Y += fy
				vel[j].X -= fx
				vel[j].Y -= fy
			}
		}
		// Links: springs toward linkDistance, stiffer for stronger edges.
		for _, e := range v.edges {
			dx, dy := pos[e.b].X-pos[e.a].X, pos[e.b].Y-pos[e.a].Y
			d := math.Hypot(dx, dy)
			if d < 1e-6 {
				d = 1e-6
			}
			k := linkStrength * e.weight * (d - linkDistance) / d
			vel[e.a].X += k * dx
			vel[e.a].Y += k * dy
			vel[e.b].X -= k * dx
			vel[e.b].Y -= k * dy
		}
		// Center pull and collision.
		for i := 0; i < n; i++ {
			vel[i].X -= pos[i].X * centerStrength
			vel[i].Y -= pos[i].Y * centerStrength
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx, dy := pos[j].X-pos[i].X, pos[j].Y-pos[i].Y
				d := math.Hypot(dx, dy)
				if d >= collisionRadius || d < 1e-6 {
					continue
				}
				push := (collisionRadius - d) / d / 2
				vel[i].X -= dx * push
				vel[i].Y -= dy * push
				vel[j].X += dx * push
				vel[j].Y += dy * push
			}
		}
		for i := 0; i < n; i++ {
			vel[i].X *= velocityDecay
			vel[i].Y *= velocityDecay
			pos[i].X += vel[i].X
			pos[i].Y += vel[i].Y
		}
	}

	if v.cache != nil {
		if raw, err := json.Marshal(pos); err == nil {
			if err := v.cache.Put(key, raw); err != nil {
				log.Printf("[NET] Failed to cache layout: %v", err)
			}
		}
	}
	return pos
}

func (v *NetworkView) Name() string { return "network" }

func (v *NetworkView) SetRect(r Rect) {
	v.rect = r
	inner := r.Inset(50)
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range v.positions {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	spanX, spanY := maxX-minX, maxY-minY
	if spanX <= 0 || spanY <= 0 {
		v.fit.scale = 1
		v.fit.offX, v.fit.offY = inner.Center()
		return
	}
	v.fit.scale = math.Min(inner.W/spanX, inner.H/spanY)
	cx, cy := inner.Center()
	v.fit.offX = cx - (minX+spanX/2)*v.fit.scale
	v.fit.offY = cy - (minY+spanY/2)*v.fit.scale
}

func (v *NetworkView) screenPos(i int) (float64, float64) {
	return v.fit.offX + v.positions[i].X*v.fit.scale, v.fit.offY + v.positions[i].Y*v.fit.scale
}

func (v *NetworkView) Tick(now time.Time, dt float64) {
	v.fade.Step(dt)
	v.pulsePhase += dt * 2 * math.Pi / 1.8
}

func (v *NetworkView) HitTest(x, y float64) *songdata.School {
	var best *songdata.School
	bestDist := math.Inf(1)
	for i, s := range v.schools {
		px, py := v.screenPos(i)
		d := math.Hypot(x-px, y-py)
		if d <= markerRadius(s)+4 && d < bestDist {
			best, bestDist = s, d
		}
	}
	return best
}

func (v *NetworkView) Draw(screen *ebiten.Image) {
	hovered := v.st.HoveredSchool()
	selected := v.st.SelectedSchool()
	focus := hovered
	if focus == "" {
		focus = selected
	}
	// Graph neighbors are the related set here, not conference mates.
	related := v.adjacency[focus]

	for _, e := range v.edges {
		a, b := v.schools[e.a], v.schools[e.b]
		x1, y1 := v.screenPos(e.a)
		x2, y2 := v.screenPos(e.b)
		alpha := math.Min(v.fade.Alpha(a.Name), v.fade.Alpha(b.Name)) * 0.45
		if focus != "" {
			if a.Name == focus || b.Name == focus {
				alpha = 0.9
			} else {
				alpha = math.Min(alpha, dimOpacity)
			}
		}
		width := float32(1 + 2*(e.weight-songdata.EdgeThreshold))
		vector.StrokeLine(screen, float32(x1), float32(y1), float32(x2), float32(y2), width, scaleColor(colorPanelEdge, float32(alpha*2)), true)
	}

	for i, s := range v.schools {
		x, y := v.screenPos(i)
		alpha := hoverAlpha(v.fade.Alpha(s.Name), s.Name, focus, related)
		col := conferenceColor(s.Conference)
		r := markerRadius(s)
		if s.Featured() {
			glow := 0.5 + 0.5*math.Sin(v.pulsePhase)
			vector.StrokeCircle(screen, float32(x), float32(y), float32(r+3+glow*5), 2, scaleColor(colorFeatured, float32(alpha*(0.3+0.3*glow))), true)
			col = colorFeatured
		}
		vector.DrawFilledCircle(screen, float32(x), float32(y), float32(r), scaleColor(col, float32(alpha)), true)
		if s.Name == selected {
			vector.StrokeCircle(screen, float32(x), float32(y), float32(r+3), 2, scaleColor(colorFeatured, 1), true)
		}
	}
}

// Positions exposes the fitted screen positions, used by bounds tests.
func (v *NetworkView) Positions() []Vec2 {
	out := make([]Vec2, len(v.positions))
	for i := range v.positions {
		x, y := v.screenPos(i)
		out[i] = Vec2{x, y}
	}
	return out
}

// Adjacent reports whether two schools share a similarity edge.
func (v *NetworkView) Adjacent(a, b string) bool { return v.adjacency[a][b] }
