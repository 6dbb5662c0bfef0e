package solver

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlindh/graphmatch/pkg/ilp"
	"github.com/tlindh/graphmatch/pkg/model"
)

// knapsackProgram maximizes x + y subject to x + y <= 1.5 over binaries. The
// relaxation is fractional, the integer optimum is 1.
func knapsackProgram() *ilp.Program {
	p := ilp.NewProgram(ilp.Maximize)
	x := p.AddVariable(ilp.NewBinary("x"))
	y := p.AddVariable(ilp.NewBinary("y"))

	row := ilp.NewExpression()
	row.Add(x, 1)
	row.Add(y, 1)
	p.AddConstraint(ilp.NewConstraint("cap", row, ilp.LessEq, 1.5))

	obj := ilp.NewExpression()
	obj.Add(x, 1)
	obj.Add(y, 1)
	p.SetObjective(obj)
	return p
}

func TestSolveMIPRoundsFractionalRelaxation(t *testing.T) {
	res, err := New().LoadAndSolveMIP(context.Background(), knapsackProgram())
	require.NoError(t, err)

	assert.Equal(t, Optimal, res.Status)
	assert.True(t, res.IsOptimal())
	assert.True(t, res.HasSolution())
	assert.InDelta(t, 1.0, res.Objective, 1e-6)
	assert.InDelta(t, 1.0, res.Value("x")+res.Value("y"), 1e-6)
	for _, id := range []string{"x", "y"} {
		v := res.Value(id)
		assert.InDelta(t, math.Round(v), v, 1e-6)
	}
}

func TestSolveLPKeepsFractionalOptimum(t *testing.T) {
	res, err := New().LoadAndSolveLP(context.Background(), knapsackProgram())
	require.NoError(t, err)

	assert.Equal(t, Optimal, res.Status)
	assert.InDelta(t, 1.5, res.Objective, 1e-6)
	assert.InDelta(t, 1.5, res.Value("x")+res.Value("y"), 1e-6)
}

func TestSolveMIPMinimizeWithCover(t *testing.T) {
	p := ilp.NewProgram(ilp.Minimize)
	x := p.AddVariable(ilp.NewBinary("x"))
	y := p.AddVariable(ilp.NewBinary("y"))

	row := ilp.NewExpression()
	row.Add(x, 1)
	row.Add(y, 1)
	p.AddConstraint(ilp.NewConstraint("cover", row, ilp.GreaterEq, 1))

	obj := ilp.NewExpression()
	obj.Add(x, 2)
	obj.Add(y, 3)
	obj.AddConstant(1)
	p.SetObjective(obj)

	res, err := New().LoadAndSolveMIP(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, Optimal, res.Status)
	// Picking x alone costs 2, plus the constant.
	assert.InDelta(t, 3.0, res.Objective, 1e-6)
	assert.InDelta(t, 1.0, res.Value("x"), 1e-6)
	assert.InDelta(t, 0.0, res.Value("y"), 1e-6)
}

func TestSolveMIPEqualityConstraint(t *testing.T) {
	p := ilp.NewProgram(ilp.Minimize)
	x := p.AddVariable(ilp.NewBinary("x"))
	y := p.AddVariable(ilp.NewBinary("y"))

	row := ilp.NewExpression()
	row.Add(x, 1)
	row.Add(y, 2)
	p.AddConstraint(ilp.NewConstraint("balance", row, ilp.Equal, 2))

	obj := ilp.NewExpression()
	obj.Add(x, 1)
	obj.Add(y, 1)
	p.SetObjective(obj)

	res, err := New().LoadAndSolveMIP(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, Optimal, res.Status)
	assert.InDelta(t, 1.0, res.Objective, 1e-6)
	assert.InDelta(t, 0.0, res.Value("x"), 1e-6)
	assert.InDelta(t, 1.0, res.Value("y"), 1e-6)
}

func TestSolveMIPInfeasibleReportsStatus(t *testing.T) {
	p := ilp.NewProgram(ilp.Minimize)
	x := p.AddVariable(ilp.NewBinary("x"))

	row := ilp.NewExpression()
	row.Add(x, 1)
	p.AddConstraint(ilp.NewConstraint("impossible", row, ilp.GreaterEq, 2))

	obj := ilp.NewExpression()
	obj.Add(x, 1)
	p.SetObjective(obj)

	res, err := New().LoadAndSolveMIP(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, Infeasible, res.Status)
	assert.True(t, res.IsInfeasible())
	assert.False(t, res.HasSolution())
	assert.True(t, math.IsInf(res.Objective, 1))
	assert.NotNil(t, res.Values)
	assert.Empty(t, res.Values)
}

func TestSolveMIPUnboundedReportsStatus(t *testing.T) {
	p := ilp.NewProgram(ilp.Minimize)
	x := p.AddVariable(ilp.NewVariable("x", ilp.Continuous, 0, math.Inf(1)))

	obj := ilp.NewExpression()
	obj.Add(x, -1)
	p.SetObjective(obj)

	res, err := New().LoadAndSolveMIP(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, Unbounded, res.Status)
	assert.True(t, res.IsUnbounded())
	assert.True(t, math.IsInf(res.Objective, 1))
	assert.Empty(t, res.Values)
}

func TestSolveMIPRejectsEmptyProgram(t *testing.T) {
	s := New()

	_, err := s.LoadAndSolveMIP(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotLoaded)

	_, err = s.LoadAndSolveMIP(context.Background(), ilp.NewProgram(ilp.Minimize))
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestSolveMIPCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New().LoadAndSolveMIP(ctx, knapsackProgram())
	require.NoError(t, err)
	assert.Equal(t, NotSolved, res.Status)
	assert.False(t, res.HasSolution())
}

func TestSolveMIPFirstFeasibleStops(t *testing.T) {
	res, err := New().LoadAndSolveMIP(context.Background(), knapsackProgram(), WithFirstFeasible())
	require.NoError(t, err)

	require.True(t, res.HasSolution())
	// The first integer point found is feasible but need not be proven best.
	assert.InDelta(t, 1.0, res.Objective, 1e-6)
	assert.InDelta(t, math.Round(res.Value("x")), res.Value("x"), 1e-6)
	assert.InDelta(t, math.Round(res.Value("y")), res.Value("y"), 1e-6)
}

func TestSolveMIPDeactivatedVariableStaysZero(t *testing.T) {
	p := ilp.NewProgram(ilp.Maximize)
	x := p.AddVariable(ilp.NewBinary("x"))
	y := p.AddVariable(ilp.NewBinary("y"))
	y.Deactivate()

	obj := ilp.NewExpression()
	obj.Add(x, 1)
	obj.Add(y, 5)
	p.SetObjective(obj)

	res, err := New().LoadAndSolveMIP(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, Optimal, res.Status)
	assert.InDelta(t, 1.0, res.Objective, 1e-6)
	assert.InDelta(t, 0.0, res.Value("y"), 1e-6)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "optimal", Optimal.String())
	assert.Equal(t, "suboptimal", Suboptimal.String())
	assert.Equal(t, "infeasible", Infeasible.String())
	assert.Equal(t, "unbounded", Unbounded.String())
	assert.Equal(t, "not solved", NotSolved.String())
}

func greedyProblem(t *testing.T, pn int, pe [][2]int, tn int, te [][2]int) *model.Problem {
	t.Helper()
	pattern := model.NewGraph(model.Undirected)
	for i := 0; i < pn; i++ {
		_, err := pattern.AddVertex(string(rune('a' + i)))
		require.NoError(t, err)
	}
	for _, e := range pe {
		_, err := pattern.AddEdge(e[0], e[1])
		require.NoError(t, err)
	}
	target := model.NewGraph(model.Undirected)
	for i := 0; i < tn; i++ {
		_, err := target.AddVertex(string(rune('a' + i)))
		require.NoError(t, err)
	}
	for _, e := range te {
		_, err := target.AddEdge(e[0], e[1])
		require.NoError(t, err)
	}
	return model.NewProblem(model.SubgraphMatching, pattern, target)
}

func TestGreedyMatchesTriangleInK4(t *testing.T) {
	pb := greedyProblem(t, 3, [][2]int{{0, 1}, {1, 2}, {0, 2}},
		4, [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}})

	res := NewGreedy(pb).Solve()

	assert.Equal(t, 0.0, res.Objective)
	used := map[int]bool{}
	for i, k := range res.VertexMatching {
		require.GreaterOrEqual(t, k, 0, "vertex %d unmatched", i)
		assert.False(t, used[k])
		used[k] = true
	}
	for ij, kl := range res.EdgeMatching {
		assert.GreaterOrEqual(t, kl, 0, "edge %d unmatched", ij)
	}
	// The solution map mirrors the matching under the formulation variable ids.
	assert.Len(t, res.Values, 6)
}

func TestGreedyCountsUnmatchedElements(t *testing.T) {
	// A triangle cannot embed into a single edge: one vertex and two edges
	// stay unmatched at best.
	pb := greedyProblem(t, 3, [][2]int{{0, 1}, {1, 2}, {0, 2}},
		2, [][2]int{{0, 1}})

	res := NewGreedy(pb).Solve()

	matchedVertices := 0
	for _, k := range res.VertexMatching {
		if k >= 0 {
			matchedVertices++
		}
	}
	assert.Equal(t, 2, matchedVertices)

	matchedEdges := 0
	for _, kl := range res.EdgeMatching {
		if kl >= 0 {
			matchedEdges++
		}
	}
	assert.Equal(t, 1, matchedEdges)
	assert.Equal(t, 3.0, res.Objective)
}

func TestGreedyLeavesExtraTargetVerticesUnused(t *testing.T) {
	pb := greedyProblem(t, 2, [][2]int{{0, 1}}, 5, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}})

	res := NewGreedy(pb).Solve()

	assert.Equal(t, 0.0, res.Objective)
	k, l := res.VertexMatching[0], res.VertexMatching[1]
	assert.True(t, pb.Target().HasEdgeBetween(k, l) || pb.Target().HasEdgeBetween(l, k))
}
