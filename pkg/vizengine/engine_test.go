package vizengine

import (
	"testing"

	"github.com/GuinanGuo/fight-song-viz/pkg/songdata"
	"github.com/GuinanGuo/fight-song-viz/pkg/store"
)

func TestCycleFilterWrapsThroughEveryConference(t *testing.T) {
	e := &Engine{st: store.New()}

	seen := []string{e.st.ConferenceFilter()}
	for i := 0; i < len(filterCycle); i++ {
		e.cycleFilter()
		seen = append(seen, e.st.ConferenceFilter())
	}
	if first, last := seen[0], seen[len(seen)-1]; first != store.FilterAll || last != store.FilterAll {
		t.Errorf("cycle should start and end at %q: %v", store.FilterAll, seen)
	}
	for _, conf := range songdata.Conferences {
		found := false
		for _, s := range seen {
			if s == conf {
				found = true
			}
		}
		if !found {
			t.Errorf("cycle never visited %s", conf)
		}
	}
}

func TestCycleFilterRecoversFromUnknownValue(t *testing.T) {
	e := &Engine{st: store.New()}
	e.st.SetConferenceFilter("Mountain West")
	e.cycleFilter()
	if got := e.st.ConferenceFilter(); got != store.FilterAll {
		t.Errorf("unknown filter should reset to %q, got %q", store.FilterAll, got)
	}
}

func TestCycleSortVisitsEveryOrder(t *testing.T) {
	e := &Engine{st: store.New()}
	seen := map[store.SortOrder]bool{e.st.MatrixSort(): true}
	for i := 0; i < len(sortCycle); i++ {
		e.cycleSort()
		seen[e.st.MatrixSort()] = true
	}
	for _, order := range sortCycle {
		if !seen[order] {
			t.Errorf("cycle never visited %s", order)
		}
	}
	if got := e.st.MatrixSort(); got != store.SortConference {
		t.Errorf("full cycle should return to %s, got %s", store.SortConference, got)
	}
}

func TestMapViewBackgroundParsing(t *testing.T) {
	st := store.New()
	f := loadFonts()

	v := NewMapView(st, testSchools(), f, usOutlineGeoJSON)
	if v.states == nil {
		t.Error("embedded outline should parse")
	}

	v = NewMapView(st, testSchools(), f, []byte("not geojson"))
	if v.states != nil {
		t.Error("broken overlay should be dropped, not kept")
	}

	v = NewMapView(st, testSchools(), f, nil)
	if v.states != nil {
		t.Error("nil background should leave the overlay empty")
	}
}
