package solver

import (
	"container/heap"
	"context"
	"math"

	"github.com/tlindh/graphmatch/pkg/logging"
)

// integralityTol is the distance from an integer below which a relaxation
// value counts as integral.
const integralityTol = 1e-6

// node is one open subproblem of the search tree.
type node struct {
	lower []float64
	upper []float64
	bound float64 // relaxation objective, the node's best possible value
}

// nodeQueue orders open nodes best-bound first.
type nodeQueue struct {
	nodes    []*node
	maximize bool
}

func (q *nodeQueue) Len() int { return len(q.nodes) }

func (q *nodeQueue) Less(a, b int) bool {
	if q.maximize {
		return q.nodes[a].bound > q.nodes[b].bound
	}
	return q.nodes[a].bound < q.nodes[b].bound
}

func (q *nodeQueue) Swap(a, b int) { q.nodes[a], q.nodes[b] = q.nodes[b], q.nodes[a] }

func (q *nodeQueue) Push(x any) { q.nodes = append(q.nodes, x.(*node)) }

func (q *nodeQueue) Pop() any {
	n := q.nodes[len(q.nodes)-1]
	q.nodes = q.nodes[:len(q.nodes)-1]
	return n
}

// branchAndBound runs a best-first search over the integer columns of m. The
// returned result always carries a non-nil Values map.
func branchAndBound(ctx context.Context, m *milpModel, cfg solveConfig) *Result {
	res := &Result{Status: NotSolved, Objective: m.worstObjective(), Values: map[string]float64{}}

	root := m.solveRelaxation(m.colLower, m.colUpper)
	switch root.status {
	case Infeasible:
		res.Status = Infeasible
		return res
	case Unbounded:
		res.Status = Unbounded
		return res
	case NotSolved:
		return res
	}

	var (
		incumbent    []float64
		incumbentObj = m.worstObjective()
		haveIncum    bool
		stopped      bool
	)

	queue := &nodeQueue{maximize: m.maximize}
	heap.Push(queue, &node{lower: m.colLower, upper: m.colUpper, bound: root.objective})
	explored := 0

search:
	for queue.Len() > 0 {
		if ctx.Err() != nil {
			stopped = true
			break
		}

		n := heap.Pop(queue).(*node)
		if haveIncum && !m.improves(n.bound, incumbentObj, cfg.mipGap) {
			// Best-first order: no remaining node can beat the incumbent.
			break
		}

		rel := m.solveRelaxation(n.lower, n.upper)
		explored++
		if rel.status != Optimal {
			continue
		}
		if haveIncum && !m.improves(rel.objective, incumbentObj, cfg.mipGap) {
			continue
		}

		branch := m.mostFractional(rel.x)
		if branch < 0 {
			incumbent = rel.x
			incumbentObj = rel.objective
			haveIncum = true
			if cfg.verbose {
				logging.Debug("incumbent found",
					"objective", incumbentObj, "nodes", explored, "open", queue.Len())
			}
			if cfg.firstFeasible {
				stopped = queue.Len() > 0
				break search
			}
			continue
		}

		frac := rel.x[branch]
		down := &node{
			lower: n.lower,
			upper: cloneWith(n.upper, branch, math.Floor(frac)),
			bound: rel.objective,
		}
		up := &node{
			lower: cloneWith(n.lower, branch, math.Ceil(frac)),
			upper: n.upper,
			bound: rel.objective,
		}
		if down.upper[branch] >= down.lower[branch] {
			heap.Push(queue, down)
		}
		if up.upper[branch] >= up.lower[branch] {
			heap.Push(queue, up)
		}
	}

	if !haveIncum {
		if stopped {
			return res
		}
		res.Status = Infeasible
		return res
	}

	res.Objective = incumbentObj
	if stopped {
		res.Status = Suboptimal
	} else {
		res.Status = Optimal
	}
	for j, id := range m.colIDs {
		v := incumbent[j]
		if m.integer[j] {
			v = math.Round(v)
		}
		res.Values[id] = v
	}
	if cfg.verbose {
		logging.Debug("search finished",
			"status", res.Status.String(), "objective", res.Objective, "nodes", explored)
	}
	return res
}

// improves reports whether candidate beats incumbent by more than the
// relative gap, respecting the optimization sense.
func (m *milpModel) improves(candidate, incumbent, gap float64) bool {
	margin := gap * math.Max(1, math.Abs(incumbent))
	if m.maximize {
		return candidate > incumbent+margin
	}
	return candidate < incumbent-margin
}

// mostFractional returns the integer column whose value lies furthest from an
// integer, or -1 when the point is integer feasible.
func (m *milpModel) mostFractional(x []float64) int {
	best, bestDist := -1, integralityTol
	for j := range x {
		if !m.integer[j] {
			continue
		}
		dist := math.Abs(x[j] - math.Round(x[j]))
		if dist > bestDist {
			best, bestDist = j, dist
		}
	}
	return best
}

func cloneWith(vals []float64, idx int, v float64) []float64 {
	out := append([]float64(nil), vals...)
	out[idx] = v
	return out
}
