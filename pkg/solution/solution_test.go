package solution

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlindh/graphmatch/pkg/model"
)

func buildGraph(t *testing.T, n int, edges [][2]int) *model.Graph {
	t.Helper()
	g := model.NewGraph(model.Undirected)
	for i := 0; i < n; i++ {
		_, err := g.AddVertex(string(rune('a' + i)))
		require.NoError(t, err)
	}
	for _, e := range edges {
		_, err := g.AddEdge(e[0], e[1])
		require.NoError(t, err)
	}
	return g
}

func pathInTriangle(t *testing.T, kind model.ProblemKind) *model.Problem {
	t.Helper()
	pattern := buildGraph(t, 2, [][2]int{{0, 1}})
	target := buildGraph(t, 3, [][2]int{{0, 1}, {1, 2}, {0, 2}})
	return model.NewProblem(kind, pattern, target)
}

func TestInterpretDecodesMappings(t *testing.T) {
	pb := pathInTriangle(t, model.SubgraphMatching)
	values := map[string]float64{
		"x_0,1": 1,
		"x_1,2": 1,
		"y_0,1": 1, // target edge 1 connects vertices 1 and 2
	}

	m := Interpret(pb, values, 0)

	assert.Equal(t, []int{1, 2}, m.VertexMapping)
	assert.Equal(t, []int{1}, m.EdgeMapping)
	assert.Empty(t, m.UnmatchedPatternVertices)
	assert.Empty(t, m.UnmatchedPatternEdges)
	assert.Equal(t, []int{0}, m.UnmatchedTargetVertices)
	assert.Equal(t, []int{0, 2}, m.UnmatchedTargetEdges)
}

func TestInterpretThresholdAndTieBreak(t *testing.T) {
	pb := pathInTriangle(t, model.SubgraphMatching)
	values := map[string]float64{
		"x_0,0": 0.49,
		"x_0,1": 0.5,
		"x_0,2": 1,
	}

	m := Interpret(pb, values, 3)

	// The first candidate at or above the threshold wins.
	assert.Equal(t, 1, m.VertexMapping[0])
	assert.Equal(t, -1, m.VertexMapping[1])
	assert.Equal(t, []int{1}, m.UnmatchedPatternVertices)
	assert.Equal(t, []int{0}, m.UnmatchedPatternEdges)
}

func TestMatchingMetrics(t *testing.T) {
	pb := pathInTriangle(t, model.SubgraphMatching)

	exact := Interpret(pb, map[string]float64{}, 0)
	assert.True(t, exact.IsSubgraph())
	assert.True(t, exact.IsIsomorphic())
	assert.Equal(t, 0, exact.MinimalExtension())

	partial := Interpret(pb, map[string]float64{}, 2.4)
	assert.False(t, partial.IsSubgraph())
	assert.Equal(t, 2, partial.MinimalExtension())

	infeasible := Interpret(pb, map[string]float64{}, math.Inf(1))
	assert.False(t, infeasible.Feasible())
	assert.False(t, infeasible.IsSubgraph())
	assert.False(t, infeasible.IsIsomorphic())
	assert.Equal(t, -1, infeasible.MinimalExtension())
}

func TestUnmatchedEdgePairsSorted(t *testing.T) {
	pattern := buildGraph(t, 4, [][2]int{{2, 3}, {0, 1}, {1, 2}})
	target := buildGraph(t, 1, nil)
	pb := model.NewProblem(model.SubgraphMatching, pattern, target)

	m := Interpret(pb, map[string]float64{}, 7)

	assert.Equal(t, [][2]int{{0, 1}, {1, 2}, {2, 3}}, m.UnmatchedPatternEdgePairs(pb))
}

func TestWriteXMLSubgraphMatching(t *testing.T) {
	pb := pathInTriangle(t, model.SubgraphMatching)
	require.NoError(t, pb.SetVertexCost(0, 1, 0.25))
	values := map[string]float64{"x_0,1": 1}

	m := Interpret(pb, values, 2)

	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, pb, m))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<?xml version=\"1.0\"?>\n<solution>"))
	assert.Contains(t, out, `<objective status="optimal" value="2"></objective>`)
	assert.Contains(t, out, `<substitution cost="0.25">`)
	assert.Contains(t, out, `<node type="query" index="0"></node>`)
	assert.Contains(t, out, `<node type="target" index="1"></node>`)
	assert.Contains(t, out, `<insertion cost="1">`)
	assert.Contains(t, out, `<edge type="query" from="0" to="1"></edge>`)
	// Target-side deletions only appear for edit distance problems.
	assert.NotContains(t, out, "<deletion")
}

func TestWriteXMLEditDistanceIncludesDeletions(t *testing.T) {
	pb := pathInTriangle(t, model.GraphEditDistance)
	values := map[string]float64{
		"x_0,0": 1,
		"x_1,1": 1,
		"y_0,0": 1,
	}

	m := Interpret(pb, values, 3)

	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, pb, m))
	out := buf.String()

	assert.Contains(t, out, `<deletion cost="1">`)
	assert.Contains(t, out, `<node type="target" index="2"></node>`)
	assert.Contains(t, out, `<edge type="target" from="1" to="2"></edge>`)
	assert.Contains(t, out, `<edge type="target" from="0" to="2"></edge>`)
}

func TestWriteXMLInfeasible(t *testing.T) {
	pb := pathInTriangle(t, model.SubgraphMatching)
	m := Interpret(pb, map[string]float64{}, math.Inf(1))

	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, pb, m))

	assert.Contains(t, buf.String(), `<objective status="infeasible" value="inf"></objective>`)
}

func TestPrintMatchingReport(t *testing.T) {
	color.NoColor = true
	pb := pathInTriangle(t, model.SubgraphMatching)
	m := Interpret(pb, map[string]float64{"x_0,0": 1, "x_1,1": 1, "y_0,0": 1}, 0)

	var buf bytes.Buffer
	PrintMatchingReport(&buf, pb, m)
	out := buf.String()

	assert.Contains(t, out, "Minimal Extension: 0\n")
	assert.Contains(t, out, "Is Subgraph: yes\n")
	assert.Contains(t, out, "Vertices to add: 0\n")
	assert.Contains(t, out, "Edges to add: 0\n")
	assert.Contains(t, out, "Unmatched pattern vertices: none\n")
	assert.Contains(t, out, "Unmatched pattern edges: none\n")
}

func TestPrintMatchingReportInfeasible(t *testing.T) {
	color.NoColor = true
	pb := pathInTriangle(t, model.SubgraphMatching)
	m := Interpret(pb, map[string]float64{}, math.Inf(1))

	var buf bytes.Buffer
	PrintMatchingReport(&buf, pb, m)
	out := buf.String()

	assert.Contains(t, out, "Minimal Extension: inf\n")
	assert.Contains(t, out, "Is Subgraph: no\n")
	assert.Contains(t, out, "Unmatched pattern vertices: 0 1\n")
	assert.Contains(t, out, "Unmatched pattern edges: (0,1)\n")
}

func TestPrintEditDistanceReport(t *testing.T) {
	color.NoColor = true
	pb := pathInTriangle(t, model.GraphEditDistance)
	m := Interpret(pb, map[string]float64{"x_0,0": 1, "x_1,1": 1, "y_0,0": 1}, 3)

	var buf bytes.Buffer
	PrintEditDistanceReport(&buf, pb, m, false)
	out := buf.String()

	assert.Contains(t, out, "GED: 3\n")
	assert.Contains(t, out, "Is Isomorphic: no\n")
	assert.Contains(t, out, "Unmatched target vertices: 2\n")
	assert.Contains(t, out, "Unmatched target edges: (0,2) (1,2)\n")
}

func TestPrintEditDistanceReportRelaxed(t *testing.T) {
	color.NoColor = true
	pb := pathInTriangle(t, model.GraphEditDistance)
	m := Interpret(pb, map[string]float64{}, 2.5)

	var buf bytes.Buffer
	PrintEditDistanceReport(&buf, pb, m, true)

	assert.Contains(t, buf.String(), "GED lower bound: 2.5\n")
}