package vizengine

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/GuinanGuo/fight-song-viz/pkg/songdata"
)

const tooltipPadding = 12.0

// Tooltip is the single overlay shown next to the cursor by whichever view
// currently owns it.
type Tooltip struct {
	fonts   fonts
	school  *songdata.School
	x, y    float64
	visible bool
}

func newTooltip(f fonts) *Tooltip {
	return &Tooltip{fonts: f}
}

func (t *Tooltip) Show(s *songdata.School, x, y float64) {
	t.school = s
	t.x, t.y = x, y
	t.visible = true
}

// Move repositions without changing content.
func (t *Tooltip) Move(x, y float64) {
	t.x, t.y = x, y
}

func (t *Tooltip) Hide() {
	t.visible = false
	t.school = nil
}

func (t *Tooltip) Draw(screen *ebiten.Image) {
	if !t.visible || t.school == nil {
		return
	}
	s := t.school
	year := "unknown"
	if s.Year != nil {
		year = fmt.Sprintf("%d", *s.Year)
	}
	lines := []string{
		s.Name,
		s.Conference,
		fmt.Sprintf("“%s”", s.SongName),
		fmt.Sprintf("%.0f bpm · %.0fs", s.BPM, s.Duration),
		fmt.Sprintf("%d tropes · %s", s.TropeCount, year),
	}

	face := t.fonts.face(14)
	titleFace := t.fonts.face(16)
	lineH := 20.0
	boxW := 0.0
	for i, line := range lines {
		f := face
		if i == 0 {
			f = titleFace
		}
		w, _ := text.Measure(line, f, 0)
		if w > boxW {
			boxW = w
		}
	}
	boxW += 24
	boxH := lineH*float64(len(lines)) + 18

	// Anchor right of the cursor, clamped to the screen.
	sw, sh := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	bx := clamp(t.x+16, tooltipPadding, sw-boxW-tooltipPadding)
	by := clamp(t.y+16, tooltipPadding, sh-boxH-tooltipPadding)

	vector.DrawFilledRect(screen, float32(bx), float32(by), float32(boxW), float32(boxH), color.RGBA{0, 0, 0, 210}, false)
	vector.StrokeRect(screen, float32(bx), float32(by), float32(boxW), float32(boxH), 1, colorPanelEdge, false)
	vector.DrawFilledRect(screen, float32(bx), float32(by), 3, float32(boxH), conferenceColor(s.Conference), false)

	for i, line := range lines {
		f := face
		alpha := float32(0.75)
		if i == 0 {
			f = titleFace
			alpha = 1.0
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(bx+12, by+8+float64(i)*lineH)
		op.ColorScale.Scale(alpha, alpha, alpha, 1)
		text.Draw(screen, line, f, op)
	}
}
