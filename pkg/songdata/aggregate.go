package songdata

// ConferenceStats holds the derived per-conference statistics the radar and
// rose views draw. Computed once after load; the school set never changes.
type ConferenceStats struct {
	Conference string
	Count      int
	AvgBPM     float64
	AvgDur     float64
	AvgTropes  float64
	// Share of the conference's schools whose song carries the flag.
	FightRate   float64
	VictoryRate float64
	WinWonRate  float64
	RahRate     float64
}

// Aggregate computes stats for every known conference, in Conferences order.
// Conferences with no schools get a zero entry so the sector layout stays
// stable.
func Aggregate(schools []*School) []ConferenceStats {
	out := make([]ConferenceStats, len(Conferences))
	for i, conf := range Conferences {
		st := ConferenceStats{Conference: conf}
		var fights, victories, winWons, rahs int
		for _, s := range schools {
			if s.Conference != conf {
				continue
			}
			st.Count++
			st.AvgBPM += s.BPM
			st.AvgDur += s.Duration
			st.AvgTropes += float64(s.TropeCount)
			if s.Fight {
				fights++
			}
			if s.Victory {
				victories++
			}
			if s.WinWon {
				winWons++
			}
			if s.Rah {
				rahs++
			}
		}
		if st.Count > 0 {
			n := float64(st.Count)
			st.AvgBPM /= n
			st.AvgDur /= n
			st.AvgTropes /= n
			st.FightRate = float64(fights) / n
			st.VictoryRate = float64(victories) / n
			st.WinWonRate = float64(winWons) / n
			st.RahRate = float64(rahs) / n
		}
		out[i] = st
	}
	return out
}

// MaxCount returns the largest school count across the aggregates.
func MaxCount(stats []ConferenceStats) int {
	max := 0
	for _, st := range stats {
		if st.Count > max {
			max = st.Count
		}
	}
	return max
}
