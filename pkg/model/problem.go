package model

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ProblemKind selects the matching semantics of a Problem.
type ProblemKind int

const (
	// SubgraphMatching asks for a mapping of the pattern into the target.
	SubgraphMatching ProblemKind = iota
	// GraphEditDistance asks for a symmetric edit distance between both graphs.
	GraphEditDistance
)

// ErrBadCost is returned when a substitution cost is not a finite number.
var ErrBadCost = errors.New("cost must be a finite number")

// Problem pairs a pattern and a target graph with dense substitution-cost
// matrices. All costs default to zero (exact matching). The problem references
// the graphs but does not own them.
type Problem struct {
	kind    ProblemKind
	pattern *Graph
	target  *Graph
	vCost   *mat.Dense
	eCost   *mat.Dense
}

// NewProblem creates a problem over the given graphs with zero cost matrices.
// Matrices for empty dimensions stay nil; the cost accessors treat them as
// all-zero.
func NewProblem(kind ProblemKind, pattern, target *Graph) *Problem {
	p := &Problem{kind: kind, pattern: pattern, target: target}
	if pattern.Order() > 0 && target.Order() > 0 {
		p.vCost = mat.NewDense(pattern.Order(), target.Order(), nil)
	}
	if pattern.Size() > 0 && target.Size() > 0 {
		p.eCost = mat.NewDense(pattern.Size(), target.Size(), nil)
	}
	return p
}

// Kind returns the matching semantics
func (p *Problem) Kind() ProblemKind { return p.kind }

// Pattern returns the pattern graph
func (p *Problem) Pattern() *Graph { return p.pattern }

// Target returns the target graph
func (p *Problem) Target() *Graph { return p.target }

// VertexCost returns the cost of substituting pattern vertex i by target
// vertex k. Out-of-range indices yield the zero element.
func (p *Problem) VertexCost(i, k int) float64 {
	if p.vCost == nil || i < 0 || k < 0 || i >= p.pattern.Order() || k >= p.target.Order() {
		return 0
	}
	return p.vCost.At(i, k)
}

// EdgeCost returns the cost of substituting pattern edge ij by target edge kl.
// Out-of-range indices yield the zero element.
func (p *Problem) EdgeCost(ij, kl int) float64 {
	if p.eCost == nil || ij < 0 || kl < 0 || ij >= p.pattern.Size() || kl >= p.target.Size() {
		return 0
	}
	return p.eCost.At(ij, kl)
}

// SetVertexCost assigns a substitution cost for a vertex pair
func (p *Problem) SetVertexCost(i, k int, cost float64) error {
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return fmt.Errorf("vertex cost (%d,%d): %w", i, k, ErrBadCost)
	}
	if p.vCost == nil || i < 0 || k < 0 || i >= p.pattern.Order() || k >= p.target.Order() {
		return fmt.Errorf("vertex cost index (%d,%d) out of range %dx%d",
			i, k, p.pattern.Order(), p.target.Order())
	}
	p.vCost.Set(i, k, cost)
	return nil
}

// SetEdgeCost assigns a substitution cost for an edge pair
func (p *Problem) SetEdgeCost(ij, kl int, cost float64) error {
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return fmt.Errorf("edge cost (%d,%d): %w", ij, kl, ErrBadCost)
	}
	if p.eCost == nil || ij < 0 || kl < 0 || ij >= p.pattern.Size() || kl >= p.target.Size() {
		return fmt.Errorf("edge cost index (%d,%d) out of range %dx%d",
			ij, kl, p.pattern.Size(), p.target.Size())
	}
	p.eCost.Set(ij, kl, cost)
	return nil
}

// VertexCosts exposes the vertex cost matrix, nil when either graph is empty
func (p *Problem) VertexCosts() *mat.Dense { return p.vCost }

// EdgeCosts exposes the edge cost matrix, nil when either graph has no edges
func (p *Problem) EdgeCosts() *mat.Dense { return p.eCost }
