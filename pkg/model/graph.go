package model

import (
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
)

// Kind selects between directed and undirected edge semantics for a Graph.
type Kind int

const (
	Undirected Kind = iota
	Directed
)

// String returns the lowercase name of the kind
func (k Kind) String() string {
	if k == Directed {
		return "directed"
	}
	return "undirected"
}

// Direction selects one of the per-vertex incidence buckets.
type Direction int

const (
	In Direction = iota
	Out
	InOut
)

// Vertex is a node of a Graph, addressable by index and by identifier.
// Incidence is stored as edge indices, bucketed by direction.
type Vertex struct {
	index int
	id    string
	edges [3][]int
}

// Index returns the zero-based position of the vertex in its graph
func (v *Vertex) Index() int { return v.index }

// ID returns the vertex identifier
func (v *Vertex) ID() string { return v.id }

// Edges returns the indices of the edges incident to v in the given direction
func (v *Vertex) Edges(dir Direction) []int { return v.edges[dir] }

// Degree returns the number of incident edges in the given direction
func (v *Vertex) Degree(dir Direction) int { return len(v.edges[dir]) }

// Edge is an ordered pair of vertex indices with a stable index of its own.
// For undirected graphs the pair is stored with origin <= target.
type Edge struct {
	index  int
	origin int
	target int
}

// Index returns the zero-based position of the edge in its graph
func (e *Edge) Index() int { return e.index }

// Origin returns the index of the origin vertex
func (e *Edge) Origin() int { return e.origin }

// Target returns the index of the target vertex
func (e *Edge) Target() int { return e.target }

// Graph owns its vertices and edges. It is built once through AddVertex and
// AddEdge and treated as read-only afterwards. Adjacency queries are answered
// by an embedded gonum graph; self-loops are tracked separately because the
// simple graphs reject them.
type Graph struct {
	kind     Kind
	vertices []Vertex
	edges    []Edge
	byID     map[string]int
	pairs    map[[2]int][]int

	directed   *simple.DirectedGraph
	undirected *simple.UndirectedGraph
	loops      map[int]int
}

// NewGraph creates an empty graph of the given kind
func NewGraph(kind Kind) *Graph {
	g := &Graph{
		kind:  kind,
		byID:  make(map[string]int),
		pairs: make(map[[2]int][]int),
		loops: make(map[int]int),
	}
	if kind == Directed {
		g.directed = simple.NewDirectedGraph()
	} else {
		g.undirected = simple.NewUndirectedGraph()
	}
	return g
}

// Kind returns the graph kind
func (g *Graph) Kind() Kind { return g.kind }

// Order returns the number of vertices
func (g *Graph) Order() int { return len(g.vertices) }

// Size returns the number of edges
func (g *Graph) Size() int { return len(g.edges) }

// AddVertex appends a vertex with the given identifier.
// Identifiers must be unique within the graph.
func (g *Graph) AddVertex(id string) (*Vertex, error) {
	if _, exists := g.byID[id]; exists {
		return nil, fmt.Errorf("duplicate vertex identifier %q", id)
	}

	index := len(g.vertices)
	g.vertices = append(g.vertices, Vertex{index: index, id: id})
	g.byID[id] = index

	if g.directed != nil {
		g.directed.AddNode(simple.Node(index))
	} else {
		g.undirected.AddNode(simple.Node(index))
	}

	return &g.vertices[index], nil
}

// AddEdge appends an edge between two vertex indices. For undirected graphs
// the pair is normalised so that origin <= target.
func (g *Graph) AddEdge(origin, target int) (*Edge, error) {
	if origin < 0 || origin >= len(g.vertices) {
		return nil, fmt.Errorf("edge origin %d out of range [0, %d)", origin, len(g.vertices))
	}
	if target < 0 || target >= len(g.vertices) {
		return nil, fmt.Errorf("edge target %d out of range [0, %d)", target, len(g.vertices))
	}

	if g.kind == Undirected && origin > target {
		origin, target = target, origin
	}

	index := len(g.edges)
	g.edges = append(g.edges, Edge{index: index, origin: origin, target: target})

	if g.kind == Directed {
		g.vertices[origin].edges[Out] = append(g.vertices[origin].edges[Out], index)
		g.vertices[target].edges[In] = append(g.vertices[target].edges[In], index)
		g.vertices[origin].edges[InOut] = append(g.vertices[origin].edges[InOut], index)
		if target != origin {
			g.vertices[target].edges[InOut] = append(g.vertices[target].edges[InOut], index)
		}
	} else {
		g.vertices[origin].edges[InOut] = append(g.vertices[origin].edges[InOut], index)
		if target != origin {
			g.vertices[target].edges[InOut] = append(g.vertices[target].edges[InOut], index)
		}
	}

	key := [2]int{origin, target}
	g.pairs[key] = append(g.pairs[key], index)

	if origin == target {
		g.loops[origin]++
	} else if g.directed != nil {
		if !g.directed.HasEdgeFromTo(int64(origin), int64(target)) {
			g.directed.SetEdge(g.directed.NewEdge(simple.Node(origin), simple.Node(target)))
		}
	} else {
		if !g.undirected.HasEdgeBetween(int64(origin), int64(target)) {
			g.undirected.SetEdge(g.undirected.NewEdge(simple.Node(origin), simple.Node(target)))
		}
	}

	return &g.edges[index], nil
}

// Vertex returns the vertex at the given index, or nil if out of range
func (g *Graph) Vertex(index int) *Vertex {
	if index < 0 || index >= len(g.vertices) {
		return nil
	}
	return &g.vertices[index]
}

// VertexByID looks a vertex up by identifier
func (g *Graph) VertexByID(id string) (*Vertex, bool) {
	index, ok := g.byID[id]
	if !ok {
		return nil, false
	}
	return &g.vertices[index], true
}

// Edge returns the edge at the given index, or nil if out of range
func (g *Graph) Edge(index int) *Edge {
	if index < 0 || index >= len(g.edges) {
		return nil
	}
	return &g.edges[index]
}

// HasEdgeBetween reports whether an edge connects the two vertices.
// For directed graphs the query is directional from origin to target.
func (g *Graph) HasEdgeBetween(origin, target int) bool {
	if origin < 0 || origin >= len(g.vertices) || target < 0 || target >= len(g.vertices) {
		return false
	}
	if origin == target {
		return g.loops[origin] > 0
	}
	if g.directed != nil {
		return g.directed.HasEdgeFromTo(int64(origin), int64(target))
	}
	return g.undirected.HasEdgeBetween(int64(origin), int64(target))
}

// EdgesBetween returns the indices of all edges connecting the two vertices,
// honouring direction for directed graphs.
func (g *Graph) EdgesBetween(origin, target int) []int {
	if g.kind == Undirected && origin > target {
		origin, target = target, origin
	}
	return g.pairs[[2]int{origin, target}]
}
