// Package songdata holds the fight-song dataset: the school records, the
// derived per-conference statistics and the pairwise similarity graph the
// network view is built from.
package songdata

import "sort"

// FeaturedSchool gets the special visual treatment: biggest marker, drawn on
// top, persistent pulse glow.
const FeaturedSchool = "Michigan"

// Conferences is the fixed sector order used by the radar and rose views.
var Conferences = []string{"Big Ten", "SEC", "ACC", "Big 12", "Pac-12", "Independent"}

// Tropes lists the boolean lyrical-content flags in display order.
var Tropes = []string{
	"fight", "victory", "win_won", "rah", "nonsense",
	"colors", "men", "opponents", "spelling",
}

// School is one record of the dataset. Records are immutable after load.
type School struct {
	Name       string  `json:"school"`
	Conference string  `json:"conference"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	SongName   string  `json:"song_name"`
	Writers    string  `json:"writers,omitempty"`
	Year       *int    `json:"year"`
	BPM        float64 `json:"bpm"`
	Duration   float64 `json:"sec_duration"`
	TropeCount int     `json:"trope_count"`

	Fight     bool `json:"fight"`
	Victory   bool `json:"victory"`
	WinWon    bool `json:"win_won"`
	Rah       bool `json:"rah"`
	Nonsense  bool `json:"nonsense"`
	Colors    bool `json:"colors"`
	Men       bool `json:"men"`
	Opponents bool `json:"opponents"`
	Spelling  bool `json:"spelling"`

	TrackID string `json:"track_id,omitempty"`
	Lyrics  string `json:"lyrics,omitempty"`
}

func (s *School) Featured() bool { return s.Name == FeaturedSchool }

// Trope returns the named flag. Unknown names are false.
func (s *School) Trope(name string) bool {
	switch name {
	case "fight":
		return s.Fight
	case "victory":
		return s.Victory
	case "win_won":
		return s.WinWon
	case "rah":
		return s.Rah
	case "nonsense":
		return s.Nonsense
	case "colors":
		return s.Colors
	case "men":
		return s.Men
	case "opponents":
		return s.Opponents
	case "spelling":
		return s.Spelling
	}
	return false
}

// Dimension identifies a numeric or boolean axis a view can plot. Extraction
// goes through typed funcs rather than field-name lookup.
type Dimension int

const (
	DimBPM Dimension = iota
	DimDuration
	DimYear
	DimTropeCount
	DimFight
	DimRah
)

// DefaultYear substitutes for records with an unknown founding year when a
// concrete position is needed. The year scale domain still excludes them.
const DefaultYear = 1930

func (d Dimension) String() string {
	switch d {
	case DimBPM:
		return "bpm"
	case DimDuration:
		return "duration"
	case DimYear:
		return "year"
	case DimTropeCount:
		return "tropes"
	case DimFight:
		return "fight"
	case DimRah:
		return "rah"
	}
	return "unknown"
}

// Value extracts the dimension from a record. Boolean dimensions map to 0/1.
// Missing years map to DefaultYear.
func (d Dimension) Value(s *School) float64 {
	switch d {
	case DimBPM:
		return s.BPM
	case DimDuration:
		return s.Duration
	case DimYear:
		if s.Year == nil {
			return DefaultYear
		}
		return float64(*s.Year)
	case DimTropeCount:
		return float64(s.TropeCount)
	case DimFight:
		if s.Fight {
			return 1
		}
	case DimRah:
		if s.Rah {
			return 1
		}
	}
	return 0
}

// Bool reports whether the dimension is a boolean flag axis.
func (d Dimension) Bool() bool { return d == DimFight || d == DimRah }

// Range returns the min and max of the dimension over the school set. For
// DimYear, records with an unknown year are excluded from the domain.
func (d Dimension) Range(schools []*School) (min, max float64) {
	first := true
	for _, s := range schools {
		if d == DimYear && s.Year == nil {
			continue
		}
		v := d.Value(s)
		if first {
			min, max = v, v
			first = false
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// ByName returns the school with the given name, or nil.
func ByName(schools []*School, name string) *School {
	for _, s := range schools {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Sorted returns a copy of the school list ordered for the matrix view.
// "bpm" is non-increasing; the others ascend, with name as the tie-breaker.
func Sorted(schools []*School, order string) []*School {
	out := make([]*School, len(schools))
	copy(out, schools)
	less := func(a, b *School) bool { return a.Name < b.Name }
	switch order {
	case "bpm":
		less = func(a, b *School) bool {
			if a.BPM != b.BPM {
				return a.BPM > b.BPM
			}
			return a.Name < b.Name
		}
	case "trope_count":
		less = func(a, b *School) bool {
			if a.TropeCount != b.TropeCount {
				return a.TropeCount < b.TropeCount
			}
			return a.Name < b.Name
		}
	case "year":
		less = func(a, b *School) bool {
			ya, yb := DimYear.Value(a), DimYear.Value(b)
			if ya != yb {
				return ya < yb
			}
			return a.Name < b.Name
		}
	case "conference":
		rank := make(map[string]int, len(Conferences))
		for i, c := range Conferences {
			rank[c] = i
		}
		less = func(a, b *School) bool {
			if rank[a.Conference] != rank[b.Conference] {
				return rank[a.Conference] < rank[b.Conference]
			}
			return a.Name < b.Name
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
