package vizengine

import (
	"fmt"
	"image/color"
	"log"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/GuinanGuo/fight-song-viz/pkg/assetcache"
	"github.com/GuinanGuo/fight-song-viz/pkg/songdata"
	"github.com/GuinanGuo/fight-song-viz/pkg/store"
)

const headerHeight = 64.0

// Config carries the command-line knobs into the engine.
type Config struct {
	Width, Height int
	DatasetPath   string
	DatasetURL    string
	AudioDir      string
	CaptureDir    string
	CacheDir      string
}

type section struct {
	name  string
	views []View
}

type chip struct {
	label string
	value string
	rect  Rect
}

// Engine is the ebiten.Game that hosts the chart sections. One section (two
// views) is visible at a time; the store keeps every view's idea of
// selection, hover, filter and sort in agreement.
type Engine struct {
	Width, Height int
	CaptureDir    string

	cfg      Config
	st       *store.Store
	fonts    fonts
	cache    *assetcache.Cache
	schools  []*songdata.School
	stats    []songdata.ConferenceStats
	tooltip  *Tooltip
	audio    *AudioPlayer
	sections []section
	section  int

	loadErr error

	enteredAt  time.Time
	lastTick   time.Time
	dragging   *ParallelView
	capturePNG bool

	filterChips []chip
	sortChip    Rect

	npMu       sync.Mutex
	nowPlaying string
}

func NewEngine(cfg Config) *Engine {
	e := &Engine{
		Width:      cfg.Width,
		Height:     cfg.Height,
		CaptureDir: cfg.CaptureDir,
		cfg:        cfg,
		st:         store.New(),
		fonts:      loadFonts(),
		enteredAt:  time.Now(),
		lastTick:   time.Now(),
	}
	if cfg.CacheDir != "" {
		cache, err := assetcache.Open(cfg.CacheDir)
		if err != nil {
			// The cache only speeds up downloads and layout; run without it.
			log.Printf("[CACHE] unavailable: %v", err)
		} else {
			e.cache = cache
		}
	}
	e.load()
	return e
}

// load pulls the dataset in and builds every view. Kept separate from the
// constructor so the error screen's retry can run it again.
func (e *Engine) load() {
	schools, err := songdata.Load(songdata.LoadOptions{
		Path:  e.cfg.DatasetPath,
		URL:   e.cfg.DatasetURL,
		Cache: e.cache,
	})
	if err != nil {
		log.Printf("[DATA] load failed: %v", err)
		e.loadErr = err
		return
	}
	e.loadErr = nil
	e.schools = schools
	e.stats = songdata.Aggregate(schools)

	g, err := songdata.BuildSimilarityGraph(schools)
	if err != nil {
		log.Printf("[NET] similarity graph: %v", err)
		e.loadErr = err
		return
	}
	network, err := NewNetworkView(e.st, schools, g, e.cache, e.fonts)
	if err != nil {
		log.Printf("[NET] layout failed: %v", err)
		e.loadErr = err
		return
	}

	e.sections = []section{
		{name: "map-rose", views: []View{
			NewMapView(e.st, schools, e.fonts, usOutlineGeoJSON),
			NewRoseView(e.st, schools, e.stats, e.fonts),
		}},
		{name: "radar-scatter", views: []View{
			NewRadarView(e.st, e.stats, schools, e.fonts),
			NewScatterView(e.st, schools, e.fonts),
		}},
		{name: "matrix-network", views: []View{
			NewMatrixView(e.st, schools, e.fonts),
			network,
		}},
		{name: "parallel-poster", views: []View{
			NewParallelView(e.st, schools, e.fonts),
			NewPosterView(e.st, schools, e.fonts),
		}},
	}
	e.tooltip = newTooltip(e.fonts)
	e.layoutSections()

	if e.cfg.AudioDir != "" {
		e.audio = NewAudioPlayer(e.cfg.AudioDir, func(song, _ string) {
			e.npMu.Lock()
			e.nowPlaying = song
			e.npMu.Unlock()
		})
		e.audio.Start()
		e.st.Subscribe(store.KeySelectedSchool, func(val any, _ store.Snapshot) {
			name, _ := val.(string)
			e.audio.Play(songdata.ByName(e.schools, name))
		})
	}
	e.st.Subscribe(store.KeyCurrentSection, func(val any, _ store.Snapshot) {
		if idx, ok := val.(int); ok {
			e.section = idx
			e.enteredAt = time.Now()
		}
	})
}

// layoutSections hands each view its half of the content area and rebuilds
// the header chips.
func (e *Engine) layoutSections() {
	content := Rect{X: 0, Y: headerHeight, W: float64(e.Width), H: float64(e.Height) - headerHeight}
	gutter := 12.0
	half := (content.W - 3*gutter) / 2
	left := Rect{X: content.X + gutter, Y: content.Y + gutter, W: half, H: content.H - 2*gutter}
	right := Rect{X: left.X + half + gutter, Y: left.Y, W: half, H: left.H}
	for i := range e.sections {
		e.sections[i].views[0].SetRect(left.Inset(8))
		e.sections[i].views[1].SetRect(right.Inset(8))
	}

	e.filterChips = e.filterChips[:0]
	face := e.fonts.face(12)
	x := float64(e.Width) - 16
	options := make([]string, 0, len(songdata.Conferences)+1)
	options = append(options, songdata.Conferences...)
	options = append(options, store.FilterAll)
	// Built right to left so "all" lands leftmost after the reverse walk.
	for i := len(options) - 1; i >= 0; i-- {
		w, _ := text.Measure(options[i], face, 0)
		boxW := w + 18
		x -= boxW
		e.filterChips = append(e.filterChips, chip{
			label: options[i],
			value: options[i],
			rect:  Rect{X: x, Y: 36, W: boxW, H: 22},
		})
		x -= 6
	}
	e.sortChip = Rect{X: 16, Y: 36, W: 170, H: 22}
}

func (e *Engine) Shutdown() {
	if e.audio != nil {
		e.audio.Shutdown()
	}
	if e.cache != nil {
		if err := e.cache.Close(); err != nil {
			log.Printf("[CACHE] close: %v", err)
		}
	}
}

var filterCycle = append([]string{store.FilterAll}, songdata.Conferences...)

var sortCycle = []store.SortOrder{store.SortConference, store.SortTropeCount, store.SortYear, store.SortBPM}

func (e *Engine) cycleFilter() {
	cur := e.st.ConferenceFilter()
	for i, f := range filterCycle {
		if f == cur {
			e.st.SetConferenceFilter(filterCycle[(i+1)%len(filterCycle)])
			return
		}
	}
	e.st.SetConferenceFilter(store.FilterAll)
}

func (e *Engine) cycleSort() {
	cur := e.st.MatrixSort()
	for i, s := range sortCycle {
		if s == cur {
			e.st.SetMatrixSort(sortCycle[(i+1)%len(sortCycle)])
			return
		}
	}
	e.st.SetMatrixSort(store.SortConference)
}

func (e *Engine) Update() error {
	now := time.Now()
	dt := now.Sub(e.lastTick).Seconds()
	e.lastTick = now
	if dt > 0.25 {
		dt = 0.25
	}

	if e.loadErr != nil {
		if inpututil.IsKeyJustPressed(ebiten.KeyR) {
			log.Println("[DATA] retrying load...")
			e.load()
		}
		return nil
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		e.st.SetSection((e.st.CurrentSection() + 1) % len(e.sections))
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		e.st.SetSection((e.st.CurrentSection() + len(e.sections) - 1) % len(e.sections))
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		e.cycleFilter()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		e.cycleSort()
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		e.capturePNG = true
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		e.st.SelectSchool("")
	}
	for i, k := range []ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4} {
		if inpututil.IsKeyJustPressed(k) && i < len(e.sections) {
			e.st.SetSection(i)
		}
	}

	mx, my := ebiten.CursorPosition()
	fx, fy := float64(mx), float64(my)
	sec := &e.sections[e.section]

	// An active axis brush owns the cursor until release.
	if e.dragging != nil {
		e.dragging.DragMove(fx, fy)
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
			e.dragging.DragEnd()
			e.dragging = nil
		}
		e.tick(sec, now, dt)
		return nil
	}

	var hit *songdata.School
	for _, v := range sec.views {
		if hit = v.HitTest(fx, fy); hit != nil {
			break
		}
	}
	if hit != nil {
		if e.st.HoveredSchool() != hit.Name {
			e.tooltip.Show(hit, fx, fy)
		} else {
			e.tooltip.Move(fx, fy)
		}
		e.st.HoverSchool(hit.Name)
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	} else {
		e.st.HoverSchool("")
		e.tooltip.Hide()
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		switch {
		case e.clickChips(fx, fy):
			// handled
		case e.startBrush(sec, fx, fy):
			// handled
		case hit != nil:
			if e.st.SelectedSchool() == hit.Name {
				e.st.SelectSchool("")
			} else {
				e.st.SelectSchool(hit.Name)
			}
		default:
			// Clicking empty space clears the selection everywhere.
			e.st.SelectSchool("")
		}
	}

	e.tick(sec, now, dt)
	return nil
}

func (e *Engine) tick(sec *section, now time.Time, dt float64) {
	for _, v := range sec.views {
		v.Tick(now, dt)
	}
}

func (e *Engine) clickChips(x, y float64) bool {
	for _, c := range e.filterChips {
		if c.rect.Contains(x, y) {
			e.st.SetConferenceFilter(c.value)
			return true
		}
	}
	if e.sections[e.section].name == "matrix-network" && e.sortChip.Contains(x, y) {
		e.cycleSort()
		return true
	}
	return false
}

func (e *Engine) startBrush(sec *section, x, y float64) bool {
	for _, v := range sec.views {
		if pv, ok := v.(*ParallelView); ok && pv.DragStart(x, y) {
			e.dragging = pv
			return true
		}
	}
	return false
}

func (e *Engine) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	if e.loadErr != nil {
		e.drawErrorScreen(screen)
		return
	}

	sec := &e.sections[e.section]
	entrance := easeOutCubic(clamp(time.Since(e.enteredAt).Seconds()/entranceSeconds, 0, 1))

	for _, v := range sec.views {
		v.Draw(screen)
	}
	// Entrance: the new section rises out of the background.
	if entrance < 1 {
		fade := scaleColor(colorBackground, float32(1-entrance))
		vector.DrawFilledRect(screen, 0, float32(headerHeight), float32(e.Width), float32(e.Height)-float32(headerHeight), fade, false)
	}

	e.drawHeader(screen, sec)
	e.tooltip.Draw(screen)

	if e.capturePNG {
		e.capturePNG = false
		e.captureFrame(screen, time.Now())
	}
}

func (e *Engine) drawHeader(screen *ebiten.Image, sec *section) {
	vector.DrawFilledRect(screen, 0, 0, float32(e.Width), float32(headerHeight), color.RGBA{0, 0, 0, 140}, false)
	vector.StrokeLine(screen, 0, float32(headerHeight), float32(e.Width), float32(headerHeight), 1, colorPanelEdge, false)

	title := e.fonts.monoFace(20)
	op := &text.DrawOptions{}
	op.GeoM.Translate(16, 8)
	text.Draw(screen, "COLLEGE FIGHT SONGS", title, op)

	small := e.fonts.face(12)
	sectionLine := fmt.Sprintf("%d/%d  %s   <- -> sections  F filter  S sort  P capture", e.section+1, len(e.sections), sec.name)
	op = &text.DrawOptions{}
	op.GeoM.Translate(260, 12)
	op.ColorScale.Scale(1, 1, 1, 0.5)
	text.Draw(screen, sectionLine, small, op)

	e.npMu.Lock()
	np := e.nowPlaying
	e.npMu.Unlock()
	if np != "" {
		op = &text.DrawOptions{}
		op.GeoM.Translate(260, 30)
		op.ColorScale.ScaleWithColor(scaleColor(colorFeatured, 0.85))
		text.Draw(screen, "NOW PLAYING  "+np, small, op)
	}

	active := e.st.ConferenceFilter()
	for _, c := range e.filterChips {
		col := conferenceColor(c.value)
		if c.value == store.FilterAll {
			col = color.RGBA{200, 200, 200, 255}
		}
		alpha := float32(0.35)
		if c.value == active {
			alpha = 1.0
		}
		vector.StrokeRect(screen, float32(c.rect.X), float32(c.rect.Y), float32(c.rect.W), float32(c.rect.H), 1, scaleColor(col, alpha), false)
		top := &text.DrawOptions{}
		top.GeoM.Translate(c.rect.X+9, c.rect.Y+4)
		top.ColorScale.ScaleWithColor(scaleColor(col, alpha))
		text.Draw(screen, c.label, small, top)
	}

	if sec.name == "matrix-network" {
		label := fmt.Sprintf("sort: %s", e.st.MatrixSort())
		vector.StrokeRect(screen, float32(e.sortChip.X), float32(e.sortChip.Y), float32(e.sortChip.W), float32(e.sortChip.H), 1, colorPanelEdge, false)
		top := &text.DrawOptions{}
		top.GeoM.Translate(e.sortChip.X+9, e.sortChip.Y+4)
		top.ColorScale.Scale(1, 1, 1, 0.7)
		text.Draw(screen, label, small, top)
	}
}

func (e *Engine) drawErrorScreen(screen *ebiten.Image) {
	face := e.fonts.monoFace(16)
	lines := []string{
		"FAILED TO LOAD FIGHT SONG DATA",
		"",
		e.loadErr.Error(),
		"",
		"press R to retry",
	}
	y := float64(e.Height)/2 - float64(len(lines))*12
	for i, line := range lines {
		w, _ := text.Measure(line, face, 0)
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(e.Width)/2-w/2, y+float64(i)*24)
		if i == 0 {
			op.ColorScale.ScaleWithColor(color.RGBA{255, 99, 71, 255})
		} else {
			op.ColorScale.Scale(1, 1, 1, 0.7)
		}
		text.Draw(screen, line, face, op)
	}
}

// Layout tracks the outside size so the window can be resized; every view is
// re-laid-out when it changes.
func (e *Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 && (outsideWidth != e.Width || outsideHeight != e.Height) {
		e.Width, e.Height = outsideWidth, outsideHeight
		if e.loadErr == nil {
			e.layoutSections()
		}
	}
	return e.Width, e.Height
}
