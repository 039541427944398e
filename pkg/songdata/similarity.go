package songdata

import (
	"fmt"
	"math"

	"github.com/dominikbraun/graph"
)

// Similarity weighting. The raw weights sum to 1.0 but the total is divided
// by 0.7, so two identical same-conference songs score ~1.43. An edge exists
// when the score exceeds EdgeThreshold.
const (
	weightBPM        = 0.3
	weightDuration   = 0.2
	weightTropes     = 0.2
	weightConference = 0.3
	weightScale      = 0.7
	EdgeThreshold    = 0.7
)

// SimilarityRanges carries the dataset-wide spans used to normalize pairwise
// differences.
type SimilarityRanges struct {
	BPM      float64
	Duration float64
	Tropes   float64
}

// RangesOf computes the normalization spans over the school set. Degenerate
// spans collapse to 1 so identical values still score a zero difference.
func RangesOf(schools []*School) SimilarityRanges {
	bpmMin, bpmMax := DimBPM.Range(schools)
	durMin, durMax := DimDuration.Range(schools)
	trMin, trMax := DimTropeCount.Range(schools)
	r := SimilarityRanges{
		BPM:      bpmMax - bpmMin,
		Duration: durMax - durMin,
		Tropes:   trMax - trMin,
	}
	if r.BPM <= 0 {
		r.BPM = 1
	}
	if r.Duration <= 0 {
		r.Duration = 1
	}
	if r.Tropes <= 0 {
		r.Tropes = 1
	}
	return r
}

// Similarity scores two schools. Each difference contribution is normalized
// by the dataset span and clipped to [0,1] before weighting.
func Similarity(a, b *School, r SimilarityRanges) float64 {
	bpmSim := 1 - clip01(math.Abs(a.BPM-b.BPM)/r.BPM)
	durSim := 1 - clip01(math.Abs(a.Duration-b.Duration)/r.Duration)
	tropeSim := 1 - clip01(math.Abs(float64(a.TropeCount-b.TropeCount))/r.Tropes)
	confSim := 0.0
	if a.Conference == b.Conference {
		confSim = 1.0
	}
	score := weightBPM*bpmSim + weightDuration*durSim + weightTropes*tropeSim + weightConference*confSim
	return score / weightScale
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// BuildSimilarityGraph creates the undirected weighted graph the network
// view lays out: one vertex per school, an edge wherever the similarity
// score clears the threshold.
func BuildSimilarityGraph(schools []*School) (graph.Graph[string, *School], error) {
	g := graph.New(func(s *School) string { return s.Name }, graph.Weighted())
	for _, s := range schools {
		if err := g.AddVertex(s); err != nil {
			return nil, fmt.Errorf("add vertex %s: %w", s.Name, err)
		}
	}
	r := RangesOf(schools)
	for i := 0; i < len(schools); i++ {
		for j := i + 1; j < len(schools); j++ {
			score := Similarity(schools[i], schools[j], r)
			if score <= EdgeThreshold {
				continue
			}
			// Edge weight keeps two decimal places of the score; the layout
			// only needs relative strength.
			w := int(score * 100)
			if err := g.AddEdge(schools[i].Name, schools[j].Name, graph.EdgeWeight(w)); err != nil {
				return nil, fmt.Errorf("add edge %s-%s: %w", schools[i].Name, schools[j].Name, err)
			}
		}
	}
	return g, nil
}

// Neighbors returns the names adjacent to the given school in the graph.
func Neighbors(g graph.Graph[string, *School], name string) []string {
	adj, err := g.AdjacencyMap()
	if err != nil {
		return nil
	}
	var out []string
	for n := range adj[name] {
		out = append(out, n)
	}
	return out
}
