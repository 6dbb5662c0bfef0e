package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUndirectedConstruction(t *testing.T) {
	g := NewGraph(Undirected)
	for _, id := range []string{"a", "b", "c"} {
		_, err := g.AddVertex(id)
		require.NoError(t, err)
	}

	_, err := g.AddEdge(2, 0)
	require.NoError(t, err)
	_, err = g.AddEdge(0, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, g.Order())
	assert.Equal(t, 2, g.Size())

	// Undirected edges are stored with the smaller index first.
	e := g.Edge(0)
	assert.Equal(t, 0, e.Origin())
	assert.Equal(t, 2, e.Target())

	assert.Equal(t, 2, g.Vertex(0).Degree(InOut))
	assert.Equal(t, 1, g.Vertex(1).Degree(InOut))
	assert.Equal(t, 1, g.Vertex(2).Degree(InOut))

	v, ok := g.VertexByID("b")
	require.True(t, ok)
	assert.Equal(t, 1, v.Index())

	assert.True(t, g.HasEdgeBetween(1, 0))
	assert.True(t, g.HasEdgeBetween(0, 2))
	assert.False(t, g.HasEdgeBetween(1, 2))
}

func TestDirectedBuckets(t *testing.T) {
	g := NewGraph(Directed)
	for _, id := range []string{"0", "1", "2"} {
		_, err := g.AddVertex(id)
		require.NoError(t, err)
	}

	_, err := g.AddEdge(0, 1)
	require.NoError(t, err)
	_, err = g.AddEdge(2, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, g.Vertex(0).Degree(Out))
	assert.Equal(t, 0, g.Vertex(0).Degree(In))
	assert.Equal(t, 2, g.Vertex(1).Degree(In))
	assert.Equal(t, 0, g.Vertex(1).Degree(Out))
	assert.Equal(t, 2, g.Vertex(1).Degree(InOut))

	assert.True(t, g.HasEdgeBetween(0, 1))
	assert.False(t, g.HasEdgeBetween(1, 0))
}

func TestDuplicateVertexID(t *testing.T) {
	g := NewGraph(Undirected)
	_, err := g.AddVertex("x")
	require.NoError(t, err)
	_, err = g.AddVertex("x")
	assert.Error(t, err)
}

func TestAddEdgeRangeChecks(t *testing.T) {
	g := NewGraph(Undirected)
	_, err := g.AddVertex("0")
	require.NoError(t, err)

	_, err = g.AddEdge(0, 1)
	assert.Error(t, err)
	_, err = g.AddEdge(-1, 0)
	assert.Error(t, err)
}

func TestParallelEdgesAndLoops(t *testing.T) {
	g := NewGraph(Undirected)
	for i := 0; i < 2; i++ {
		_, err := g.AddVertex(string(rune('a' + i)))
		require.NoError(t, err)
	}

	_, err := g.AddEdge(0, 1)
	require.NoError(t, err)
	_, err = g.AddEdge(1, 0)
	require.NoError(t, err)
	_, err = g.AddEdge(1, 1)
	require.NoError(t, err)

	assert.Len(t, g.EdgesBetween(0, 1), 2)
	assert.Len(t, g.EdgesBetween(1, 1), 1)
	assert.True(t, g.HasEdgeBetween(1, 1))
	assert.False(t, g.HasEdgeBetween(0, 0))

	// A loop appears once in its endpoint's bucket.
	assert.Equal(t, 3, g.Vertex(1).Degree(InOut))
}
