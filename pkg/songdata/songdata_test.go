package songdata

import "testing"

func TestLoadEmbeddedDataset(t *testing.T) {
	schools, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(schools) < 30 {
		t.Fatalf("embedded dataset has %d schools, expected at least 30", len(schools))
	}

	featured := ByName(schools, FeaturedSchool)
	if featured == nil {
		t.Fatalf("featured school %q missing from dataset", FeaturedSchool)
	}
	if !featured.Featured() {
		t.Error("Featured() false for the featured record")
	}

	seen := make(map[string]bool)
	for _, s := range schools {
		if seen[s.Name] {
			t.Errorf("duplicate school %q", s.Name)
		}
		seen[s.Name] = true

		count := 0
		for _, trope := range Tropes {
			if s.Trope(trope) {
				count++
			}
		}
		if count != s.TropeCount {
			t.Errorf("%s: trope_count %d but %d flags set", s.Name, s.TropeCount, count)
		}
		known := false
		for _, c := range Conferences {
			if s.Conference == c {
				known = true
			}
		}
		if !known {
			t.Errorf("%s: unknown conference %q", s.Name, s.Conference)
		}
		if s.Lat < 24 || s.Lat > 50 || s.Lng < -125 || s.Lng > -66 {
			t.Errorf("%s: coordinates (%f, %f) outside the continental US", s.Name, s.Lat, s.Lng)
		}
	}
}

func TestTropeScannerOnLyrics(t *testing.T) {
	sc := NewTropeScanner()
	tests := []struct {
		lyrics string
		trope  string
		want   bool
	}{
		{"Fight, fight, fight for the team", "fight", true},
		{"FIGHT ON", "fight", true},
		{"onward to victory", "victory", true},
		{"rah rah rah", "rah", true},
		{"the crimson and the gold", "colors", true},
		{"M-i-n-n-e-s-o-t-a", "spelling", true},
		{"hullabaloo caneck caneck", "nonsense", true},
		{"a quiet alma mater hymn", "fight", false},
		{"a quiet alma mater hymn", "spelling", false},
	}
	for _, tt := range tests {
		got := sc.Scan(tt.lyrics)[tt.trope]
		if got != tt.want {
			t.Errorf("Scan(%q)[%s] = %v, want %v", tt.lyrics, tt.trope, got, tt.want)
		}
	}
}

func TestTropeScannerFillsArizona(t *testing.T) {
	schools, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	az := ByName(schools, "Arizona")
	if az == nil {
		t.Fatal("Arizona missing from dataset")
	}
	if !az.Fight || !az.Colors {
		t.Errorf("scanner flags: fight=%v colors=%v, want both true", az.Fight, az.Colors)
	}
	if az.TropeCount == 0 {
		t.Error("scanner left trope_count at 0")
	}
}

func TestAggregate(t *testing.T) {
	y := 1900
	schools := []*School{
		{Name: "A", Conference: "Big Ten", BPM: 100, Duration: 60, TropeCount: 2, Fight: true, Victory: true, Year: &y},
		{Name: "B", Conference: "Big Ten", BPM: 140, Duration: 80, TropeCount: 1, Fight: true},
		{Name: "C", Conference: "SEC", BPM: 120, Duration: 100, TropeCount: 3, Rah: true},
	}
	stats := Aggregate(schools)
	if len(stats) != len(Conferences) {
		t.Fatalf("got %d aggregates, want %d", len(stats), len(Conferences))
	}

	bigTen := stats[0]
	if bigTen.Conference != "Big Ten" || bigTen.Count != 2 {
		t.Fatalf("first aggregate = %+v", bigTen)
	}
	if bigTen.AvgBPM != 120 || bigTen.AvgDur != 70 || bigTen.AvgTropes != 1.5 {
		t.Errorf("Big Ten averages = %+v", bigTen)
	}
	if bigTen.FightRate != 1.0 || bigTen.VictoryRate != 0.5 {
		t.Errorf("Big Ten rates = %+v", bigTen)
	}

	for _, st := range stats {
		for _, rate := range []float64{st.FightRate, st.VictoryRate, st.WinWonRate, st.RahRate} {
			if rate < 0 || rate > 1 {
				t.Errorf("%s: rate %f outside [0,1]", st.Conference, rate)
			}
		}
	}
	if MaxCount(stats) != 2 {
		t.Errorf("MaxCount = %d, want 2", MaxCount(stats))
	}
}
