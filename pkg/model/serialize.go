package model

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteAdjacency writes the graph as one adjacency-matrix block in the format
// Parse reads: a vertex count line followed by the matrix rows. Parallel edges
// show up as cell values above one and self-loops on the diagonal.
func (g *Graph) WriteAdjacency(w io.Writer) error {
	n := g.Order()
	matrix := make([][]int, n)
	for r := range matrix {
		matrix[r] = make([]int, n)
	}

	for e := 0; e < g.Size(); e++ {
		edge := g.Edge(e)
		matrix[edge.origin][edge.target]++
		if g.kind == Undirected && edge.origin != edge.target {
			matrix[edge.target][edge.origin]++
		}
	}

	if _, err := fmt.Fprintln(w, n); err != nil {
		return fmt.Errorf("write adjacency: %w", err)
	}
	for r := 0; r < n; r++ {
		cells := make([]string, n)
		for c := 0; c < n; c++ {
			cells[c] = strconv.Itoa(matrix[r][c])
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, " ")); err != nil {
			return fmt.Errorf("write adjacency: %w", err)
		}
	}
	return nil
}

// AdjacencyString returns the adjacency-matrix block as a string
func (g *Graph) AdjacencyString() string {
	var sb strings.Builder
	_ = g.WriteAdjacency(&sb)
	return sb.String()
}
