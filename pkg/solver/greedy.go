package solver

import (
	"sort"
	"strconv"

	"github.com/tlindh/graphmatch/pkg/model"
)

// GreedyResult is the outcome of a greedy matching pass. VertexMatching[i]
// holds the target vertex assigned to pattern vertex i, or -1 when unmatched;
// EdgeMatching is the same for edges. Values uses the x_i,k and y_ij,kl
// variable IDs of the exact formulations.
type GreedyResult struct {
	Objective      float64
	Values         map[string]float64
	VertexMatching []int
	EdgeMatching   []int
}

// GreedySolver computes a fast feasible matching with a degree-guided
// heuristic. The objective counts unmatched pattern elements, an upper bound
// for minimal extension matching.
type GreedySolver struct {
	pb *model.Problem
}

// NewGreedy returns a greedy solver for the problem.
func NewGreedy(pb *model.Problem) *GreedySolver { return &GreedySolver{pb: pb} }

// Solve matches high-degree pattern vertices first, preferring target
// vertices adjacent to already-placed neighbors, then resolves edges along
// the vertex assignment.
func (s *GreedySolver) Solve() *GreedyResult {
	pattern, target := s.pb.Pattern(), s.pb.Target()
	nVP, nVT := pattern.Order(), target.Order()
	nEP := pattern.Size()

	res := &GreedyResult{
		Values:         map[string]float64{},
		VertexMatching: make([]int, nVP),
		EdgeMatching:   make([]int, nEP),
	}
	for i := range res.VertexMatching {
		res.VertexMatching[i] = -1
	}
	for ij := range res.EdgeMatching {
		res.EdgeMatching[ij] = -1
	}

	vertexUsed := make([]bool, nVT)
	edgeUsed := make([]bool, target.Size())

	order := make([]int, nVP)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return pattern.Vertex(order[a]).Degree(model.InOut) > pattern.Vertex(order[b]).Degree(model.InOut)
	})

	for _, i := range order {
		pv := pattern.Vertex(i)
		bestK, bestScore := -1, -1000000

		for k := 0; k < nVT; k++ {
			if vertexUsed[k] {
				continue
			}

			// Count already-placed neighbors that stay adjacent under i -> k.
			score := 0
			for _, ij := range pv.Edges(model.InOut) {
				pe := pattern.Edge(ij)
				j := pe.Target()
				if j == i {
					j = pe.Origin()
				}
				l := res.VertexMatching[j]
				if l < 0 {
					continue
				}
				if target.HasEdgeBetween(k, l) || target.HasEdgeBetween(l, k) {
					score++
				}
			}

			diff := pv.Degree(model.InOut) - target.Vertex(k).Degree(model.InOut)
			if diff < 0 {
				diff = -diff
			}
			if adjusted := score*1000 - diff; adjusted > bestScore {
				bestScore, bestK = adjusted, k
			}
		}

		if bestK >= 0 {
			res.VertexMatching[i] = bestK
			vertexUsed[bestK] = true
			res.Values["x_"+strconv.Itoa(i)+","+strconv.Itoa(bestK)] = 1
		}
	}

	for ij := 0; ij < nEP; ij++ {
		pe := pattern.Edge(ij)
		k := res.VertexMatching[pe.Origin()]
		l := res.VertexMatching[pe.Target()]
		if k < 0 || l < 0 {
			continue
		}

		kl := -1
		for _, cand := range target.EdgesBetween(k, l) {
			if !edgeUsed[cand] {
				kl = cand
				break
			}
		}
		if kl < 0 {
			continue
		}

		res.EdgeMatching[ij] = kl
		edgeUsed[kl] = true
		res.Values["y_"+strconv.Itoa(ij)+","+strconv.Itoa(kl)] = 1
	}

	unmatched := 0
	for _, k := range res.VertexMatching {
		if k < 0 {
			unmatched++
		}
	}
	for _, kl := range res.EdgeMatching {
		if kl < 0 {
			unmatched++
		}
	}
	res.Objective = float64(unmatched)

	return res
}
