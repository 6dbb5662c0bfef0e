package formulation

import (
	"math"
	"strconv"

	"github.com/tlindh/graphmatch/pkg/ilp"
	"github.com/tlindh/graphmatch/pkg/model"
)

func (f *Formulation) initConstraints() {
	total := f.variant == subgraphIsomorphism || f.variant == substitutionTolerant

	// Each pattern vertex is assigned once (exactly for total matching).
	for i := 0; i < f.nVP; i++ {
		expr := ilp.NewExpression()
		for k := 0; k < f.nVT; k++ {
			expr.Add(f.xVars[i][k], 1)
		}
		rel := ilp.LessEq
		if total {
			rel = ilp.Equal
		}
		f.program.AddConstraint(ilp.NewConstraint("vertex_"+strconv.Itoa(i), expr, rel, 1))
	}

	// Each target vertex receives at most one pattern vertex.
	for k := 0; k < f.nVT; k++ {
		expr := ilp.NewExpression()
		for i := 0; i < f.nVP; i++ {
			expr.Add(f.xVars[i][k], 1)
		}
		f.program.AddConstraint(ilp.NewConstraint("target_vertex_"+strconv.Itoa(k), expr, ilp.LessEq, 1))
	}

	// Each pattern edge is assigned once (exactly for total matching).
	for ij := 0; ij < f.nEP; ij++ {
		expr := ilp.NewExpression()
		for kl := 0; kl < f.nET; kl++ {
			expr.Add(f.yVars[ij][kl], 1)
		}
		rel := ilp.LessEq
		if total {
			rel = ilp.Equal
		}
		f.program.AddConstraint(ilp.NewConstraint("edge_"+strconv.Itoa(ij), expr, rel, 1))
	}

	// Edit distance is symmetric: target edges also receive at most one.
	if f.variant == editDistance {
		for kl := 0; kl < f.nET; kl++ {
			expr := ilp.NewExpression()
			for ij := 0; ij < f.nEP; ij++ {
				expr.Add(f.yVars[ij][kl], 1)
			}
			f.program.AddConstraint(ilp.NewConstraint("target_edge_"+strconv.Itoa(kl), expr, ilp.LessEq, 1))
		}
	}

	f.initEdgeConsistency()

	if f.induced && f.variant != editDistance {
		f.initInduced()
	}
}

// initEdgeConsistency adds the two F2 inequalities per pattern edge and target
// vertex: an edge assignment incident at k forces the matching endpoint
// assignment onto k. Undirected graphs admit either endpoint on either side.
func (f *Formulation) initEdgeConsistency() {
	pattern, target := f.pb.Pattern(), f.pb.Target()

	for ij := 0; ij < f.nEP; ij++ {
		pe := pattern.Edge(ij)
		i, j := pe.Origin(), pe.Target()

		for k := 0; k < f.nVT; k++ {
			out := ilp.NewExpression()
			in := ilp.NewExpression()

			for _, kl := range target.Vertex(k).Edges(model.InOut) {
				te := target.Edge(kl)
				if te.Origin() == k {
					out.Add(f.yVars[ij][kl], 1)
				}
				if te.Target() == k {
					in.Add(f.yVars[ij][kl], 1)
				}
			}

			out.Add(f.xVars[i][k], -1)
			in.Add(f.xVars[j][k], -1)
			if !f.directed {
				out.Add(f.xVars[j][k], -1)
				in.Add(f.xVars[i][k], -1)
			}

			prefix := "edge_cons_" + strconv.Itoa(ij) + "_" + strconv.Itoa(k)
			f.program.AddConstraint(ilp.NewConstraint(prefix+"_out", out, ilp.LessEq, 0))
			f.program.AddConstraint(ilp.NewConstraint(prefix+"_in", in, ilp.LessEq, 0))
		}
	}
}

// initInduced forbids a matched target vertex pair from leaving the target
// edge between them unmatched.
func (f *Formulation) initInduced() {
	target := f.pb.Target()

	for kl := 0; kl < f.nET; kl++ {
		te := target.Edge(kl)
		k, l := te.Origin(), te.Target()

		expr := ilp.NewExpression()
		for i := 0; i < f.nVP; i++ {
			expr.Add(f.xVars[i][k], 1)
		}
		for i := 0; i < f.nVP; i++ {
			expr.Add(f.xVars[i][l], 1)
		}
		for ij := 0; ij < f.nEP; ij++ {
			expr.Add(f.yVars[ij][kl], -1)
		}

		f.program.AddConstraint(ilp.NewConstraint("induced_"+strconv.Itoa(kl), expr, ilp.LessEq, 1))
	}
}

func (f *Formulation) initObjective() {
	obj := ilp.NewExpression()

	switch f.variant {
	case subgraphIsomorphism:
		for i := 0; i < f.nVP; i++ {
			for k := 0; k < f.nVT; k++ {
				if cost := costAt(f.xCosts, i, k); cost > 0 {
					obj.Add(f.xVars[i][k], cost)
				}
			}
		}
		for ij := 0; ij < f.nEP; ij++ {
			for kl := 0; kl < f.nET; kl++ {
				if cost := costAt(f.yCosts, ij, kl); cost > 0 {
					obj.Add(f.yVars[ij][kl], cost)
				}
			}
		}

	case substitutionTolerant:
		for i := 0; i < f.nVP; i++ {
			for k := 0; k < f.nVT; k++ {
				if cost := costAt(f.xCosts, i, k); math.Abs(cost) > precision {
					obj.Add(f.xVars[i][k], cost)
				}
			}
		}
		for ij := 0; ij < f.nEP; ij++ {
			for kl := 0; kl < f.nET; kl++ {
				if cost := costAt(f.yCosts, ij, kl); math.Abs(cost) > precision {
					obj.Add(f.yVars[ij][kl], cost)
				}
			}
		}

	case minimumCost:
		// Pay every creation cost up front, credit it back on a match. A
		// matched element therefore contributes its substitution cost instead
		// of its creation cost. With non-default substitution costs the
		// creation credit still applies per matched element.
		constant := 0.0
		for i := 0; i < f.nVP; i++ {
			constant += f.vertexCreate[i]
		}
		for ij := 0; ij < f.nEP; ij++ {
			constant += f.edgeCreate[ij]
		}
		obj.AddConstant(constant)

		for i := 0; i < f.nVP; i++ {
			for k := 0; k < f.nVT; k++ {
				coeff := costAt(f.xCosts, i, k) - f.vertexCreate[i]
				if math.Abs(coeff) > precision {
					obj.Add(f.xVars[i][k], coeff)
				}
			}
		}
		for ij := 0; ij < f.nEP; ij++ {
			for kl := 0; kl < f.nET; kl++ {
				coeff := costAt(f.yCosts, ij, kl) - f.edgeCreate[ij]
				if math.Abs(coeff) > precision {
					obj.Add(f.yVars[ij][kl], coeff)
				}
			}
		}

	case editDistance:
		// Delete and insert everything, then credit the savings of each
		// substitution. The cost matrices already hold
		// substitution - insertion - deletion.
		for i := 0; i < f.nVP; i++ {
			for k := 0; k < f.nVT; k++ {
				if coeff := costAt(f.xCosts, i, k); math.Abs(coeff) > precision {
					obj.Add(f.xVars[i][k], coeff)
				}
			}
		}
		for ij := 0; ij < f.nEP; ij++ {
			for kl := 0; kl < f.nET; kl++ {
				if coeff := costAt(f.yCosts, ij, kl); math.Abs(coeff) > precision {
					obj.Add(f.yVars[ij][kl], coeff)
				}
			}
		}
		obj.AddConstant(f.vInsert*float64(f.nVP) + f.vDelete*float64(f.nVT) +
			f.eInsert*float64(f.nEP) + f.eDelete*float64(f.nET))
	}

	f.program.SetObjective(obj)
}
