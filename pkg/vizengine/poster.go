package vizengine

import (
	"math"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/GuinanGuo/fight-song-viz/pkg/songdata"
	"github.com/GuinanGuo/fight-song-viz/pkg/store"
)

const (
	posterParticlesMin = 6 // plus one per trope
	posterOrbitBase    = 10.0
	posterOrbitSpread  = 14.0
)

type posterParticle struct {
	radius float64 // orbit radius around the cluster anchor
	phase  float64 // current angle
	size   float64
}

type posterCluster struct {
	school    *songdata.School
	x, y      float64
	omega     float64 // angular velocity, rad/s, from tempo
	particles []posterParticle
}

// PosterView is the abstract closing panel: one orbiting particle cluster per
// school, spinning at the song's tempo. Particles only advance while the view
// is on screen, so hidden sections cost nothing.
type PosterView struct {
	st      *store.Store
	schools []*songdata.School
	fonts   fonts

	rect     Rect
	clusters []posterCluster
	fade     *fader
}

func NewPosterView(st *store.Store, schools []*songdata.School, f fonts) *PosterView {
	v := &PosterView{
		st:      st,
		schools: schools,
		fonts:   f,
		fade:    newFader(schools, st.ConferenceFilter()),
	}
	v.buildClusters()
	st.Subscribe(store.KeyConferenceFilter, func(val any, _ store.Snapshot) {
		filter, _ := val.(string)
		v.fade.Retarget(v.schools, filter)
	})
	return v
}

func (v *PosterView) Name() string { return "poster" }

func (v *PosterView) buildClusters() {
	// Deterministic particle geometry so relayout does not reshuffle orbits.
	rng := rand.New(rand.NewSource(7))
	v.clusters = make([]posterCluster, 0, len(v.schools))
	for _, s := range v.schools {
		c := posterCluster{
			school: s,
			// One full revolution per beat pair keeps even the fastest
			// songs readable.
			omega: s.BPM / 60 * math.Pi,
		}
		n := posterParticlesMin + s.TropeCount
		for i := 0; i < n; i++ {
			c.particles = append(c.particles, posterParticle{
				radius: posterOrbitBase + rng.Float64()*posterOrbitSpread,
				phase:  rng.Float64() * 2 * math.Pi,
				size:   1.2 + rng.Float64()*1.6,
			})
		}
		v.clusters = append(v.clusters, c)
	}
}

func (v *PosterView) SetRect(r Rect) {
	v.rect = r
	// Clusters on a grid, ordered by conference so the palette bands.
	ordered := songdata.Sorted(v.schools, string(store.SortConference))
	cols := int(math.Ceil(math.Sqrt(float64(len(ordered)) * r.W / math.Max(r.H, 1))))
	if cols < 1 {
		cols = 1
	}
	rows := (len(ordered) + cols - 1) / cols
	cellW := r.W / float64(cols)
	cellH := (r.H - 40) / float64(rows)
	pos := make(map[string][2]float64, len(ordered))
	for i, s := range ordered {
		col := i % cols
		row := i / cols
		pos[s.Name] = [2]float64{
			r.X + cellW*(float64(col)+0.5),
			r.Y + 20 + cellH*(float64(row)+0.5),
		}
	}
	for i := range v.clusters {
		p := pos[v.clusters[i].school.Name]
		v.clusters[i].x, v.clusters[i].y = p[0], p[1]
	}
}

func (v *PosterView) Tick(now time.Time, dt float64) {
	v.fade.Step(dt)
	for i := range v.clusters {
		c := &v.clusters[i]
		for j := range c.particles {
			c.particles[j].phase += c.omega * dt
		}
	}
}

func (v *PosterView) HitTest(x, y float64) *songdata.School {
	var best *songdata.School
	bestDist := posterOrbitBase + posterOrbitSpread + 4
	for i := range v.clusters {
		c := &v.clusters[i]
		dist := math.Hypot(x-c.x, y-c.y)
		if dist < bestDist {
			best, bestDist = c.school, dist
		}
	}
	return best
}

func (v *PosterView) Draw(screen *ebiten.Image) {
	hovered := v.st.HoveredSchool()
	selected := v.st.SelectedSchool()
	focus := hovered
	if focus == "" {
		focus = selected
	}
	related := conferenceMates(v.schools, focus)
	face := v.fonts.face(11)

	for i := range v.clusters {
		c := &v.clusters[i]
		s := c.school
		alpha := hoverAlpha(v.fade.Alpha(s.Name), s.Name, focus, related)
		col := conferenceColor(s.Conference)
		if s.Featured() {
			col = colorFeatured
		}

		// Faint core so a cluster reads as one school even when particles
		// are spread out.
		vector.DrawFilledCircle(screen, float32(c.x), float32(c.y), 2, scaleColor(col, float32(alpha)*0.9), true)
		for _, p := range c.particles {
			px := c.x + p.radius*math.Cos(p.phase)
			py := c.y + p.radius*math.Sin(p.phase)
			vector.DrawFilledCircle(screen, float32(px), float32(py), float32(p.size), scaleColor(col, float32(alpha)*0.7), true)
		}

		if s.Name == focus {
			vector.StrokeCircle(screen, float32(c.x), float32(c.y), float32(posterOrbitBase+posterOrbitSpread+2), 1, scaleColor(col, float32(alpha)*0.6), true)
			w, _ := text.Measure(s.Name, face, 0)
			op := &text.DrawOptions{}
			op.GeoM.Translate(c.x-w/2, c.y+posterOrbitBase+posterOrbitSpread+6)
			op.ColorScale.ScaleWithColor(scaleColor(col, float32(alpha)))
			text.Draw(screen, s.Name, face, op)
		}
	}
}

// Phases returns the particle phases for one school, in cluster order. Used
// by tests to confirm the pause-when-hidden behavior.
func (v *PosterView) Phases(name string) []float64 {
	for i := range v.clusters {
		if v.clusters[i].school.Name == name {
			out := make([]float64, len(v.clusters[i].particles))
			for j, p := range v.clusters[i].particles {
				out[j] = p.phase
			}
			return out
		}
	}
	return nil
}
