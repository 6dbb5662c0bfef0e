// Package solution decodes solver value maps into graph matchings and renders
// them as terminal reports or XML documents.
package solution

import (
	"math"
	"sort"
	"strconv"

	"github.com/tlindh/graphmatch/pkg/model"
)

// assignmentThreshold decides when a relaxation value counts as a selected
// assignment.
const assignmentThreshold = 0.5

// subgraphTol is the objective tolerance below which the pattern counts as an
// exact subgraph of the target.
const subgraphTol = 1e-6

// Matching is a decoded solver solution. Mappings hold the assigned target
// index per pattern element, -1 when unmatched. Unmatched lists are sorted
// ascending by index.
type Matching struct {
	Objective float64

	VertexMapping []int
	EdgeMapping   []int

	UnmatchedPatternVertices []int
	UnmatchedPatternEdges    []int
	UnmatchedTargetVertices  []int
	UnmatchedTargetEdges     []int
}

// Interpret decodes a solver value map against the problem's dimensions. An
// element is matched to the first candidate whose x_i,k or y_ij,kl value
// reaches the assignment threshold.
func Interpret(pb *model.Problem, values map[string]float64, objective float64) *Matching {
	pattern, target := pb.Pattern(), pb.Target()
	nVP, nVT := pattern.Order(), target.Order()
	nEP, nET := pattern.Size(), target.Size()

	m := &Matching{
		Objective:     objective,
		VertexMapping: make([]int, nVP),
		EdgeMapping:   make([]int, nEP),
	}

	targetVertexMatched := make([]bool, nVT)
	targetEdgeMatched := make([]bool, nET)

	for i := 0; i < nVP; i++ {
		m.VertexMapping[i] = -1
		for k := 0; k < nVT; k++ {
			if values["x_"+strconv.Itoa(i)+","+strconv.Itoa(k)] >= assignmentThreshold {
				m.VertexMapping[i] = k
				targetVertexMatched[k] = true
				break
			}
		}
		if m.VertexMapping[i] < 0 {
			m.UnmatchedPatternVertices = append(m.UnmatchedPatternVertices, i)
		}
	}

	for ij := 0; ij < nEP; ij++ {
		m.EdgeMapping[ij] = -1
		for kl := 0; kl < nET; kl++ {
			if values["y_"+strconv.Itoa(ij)+","+strconv.Itoa(kl)] >= assignmentThreshold {
				m.EdgeMapping[ij] = kl
				targetEdgeMatched[kl] = true
				break
			}
		}
		if m.EdgeMapping[ij] < 0 {
			m.UnmatchedPatternEdges = append(m.UnmatchedPatternEdges, ij)
		}
	}

	for k := 0; k < nVT; k++ {
		if !targetVertexMatched[k] {
			m.UnmatchedTargetVertices = append(m.UnmatchedTargetVertices, k)
		}
	}
	for kl := 0; kl < nET; kl++ {
		if !targetEdgeMatched[kl] {
			m.UnmatchedTargetEdges = append(m.UnmatchedTargetEdges, kl)
		}
	}

	return m
}

// Feasible reports whether a solution exists at all.
func (m *Matching) Feasible() bool { return !math.IsInf(m.Objective, 0) }

// IsSubgraph reports whether the pattern embeds exactly, meaning the matching
// objective vanished.
func (m *Matching) IsSubgraph() bool { return m.Objective < subgraphTol }

// IsIsomorphic reports whether an edit distance matching transforms the
// pattern into the target at zero cost.
func (m *Matching) IsIsomorphic() bool {
	return m.Feasible() && math.Abs(m.Objective) < subgraphTol
}

// MinimalExtension is the objective rounded to a count of edits, or -1 when
// no solution exists.
func (m *Matching) MinimalExtension() int {
	if !m.Feasible() {
		return -1
	}
	return int(math.Round(m.Objective))
}

// edgePairs resolves edge indices to sorted (origin, target) endpoint pairs.
func edgePairs(g *model.Graph, indices []int) [][2]int {
	pairs := make([][2]int, 0, len(indices))
	for _, idx := range indices {
		e := g.Edge(idx)
		pairs = append(pairs, [2]int{e.Origin(), e.Target()})
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a][0] != pairs[b][0] {
			return pairs[a][0] < pairs[b][0]
		}
		return pairs[a][1] < pairs[b][1]
	})
	return pairs
}

// UnmatchedPatternEdgePairs lists unmatched pattern edges as endpoint pairs
// sorted ascending by (origin, target).
func (m *Matching) UnmatchedPatternEdgePairs(pb *model.Problem) [][2]int {
	return edgePairs(pb.Pattern(), m.UnmatchedPatternEdges)
}

// UnmatchedTargetEdgePairs lists unmatched target edges as endpoint pairs
// sorted ascending by (origin, target).
func (m *Matching) UnmatchedTargetEdgePairs(pb *model.Problem) [][2]int {
	return edgePairs(pb.Target(), m.UnmatchedTargetEdges)
}
