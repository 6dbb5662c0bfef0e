package formulation

import (
	"math"
	"sort"
)

// restrictProblem reactivates every variable and then deactivates the
// candidates excluded by the variant's pruning rule. Deactivated variables
// stay in the program with [0, 0] bounds so constraint indexing is stable.
func (f *Formulation) restrictProblem(up float64) {
	for i := 0; i < f.nVP; i++ {
		for k := 0; k < f.nVT; k++ {
			f.xVars[i][k].Activate()
		}
	}
	for ij := 0; ij < f.nEP; ij++ {
		for kl := 0; kl < f.nET; kl++ {
			f.yVars[ij][kl].Activate()
		}
	}

	switch f.variant {
	case subgraphIsomorphism:
		f.restrictExact()
	case substitutionTolerant, editDistance:
		if up < 1 {
			f.restrictByThreshold(up, f.variant == editDistance)
		}
	case minimumCost:
		// No pruning: every pattern element may stay unmatched anyway.
	}
}

// restrictExact keeps only zero-cost substitutions.
func (f *Formulation) restrictExact() {
	for i := 0; i < f.nVP; i++ {
		for k := 0; k < f.nVT; k++ {
			if costAt(f.xCosts, i, k) > precision {
				f.xVars[i][k].Deactivate()
			}
		}
	}

	for ij := 0; ij < f.nEP; ij++ {
		for kl := 0; kl < f.nET; kl++ {
			if costAt(f.yCosts, ij, kl) > precision {
				f.yVars[ij][kl].Deactivate()
			}
		}
	}
	f.dropInconsistentEdgeVars()
}

// restrictByThreshold keeps the cheapest up-fraction of vertex candidates per
// pattern row and target column, optionally prunes edge candidates per row the
// same way, and finally drops edge variables whose endpoint assignments died.
func (f *Formulation) restrictByThreshold(up float64, pruneEdgeRows bool) {
	for i := 0; i < f.nVP; i++ {
		vals := make([]float64, f.nVT)
		for k := 0; k < f.nVT; k++ {
			vals[k] = costAt(f.xCosts, i, k)
		}
		threshold := rankThreshold(vals, up)
		for k := 0; k < f.nVT; k++ {
			if costAt(f.xCosts, i, k) > threshold+precision {
				f.xVars[i][k].Deactivate()
			}
		}
	}

	for k := 0; k < f.nVT; k++ {
		vals := make([]float64, f.nVP)
		for i := 0; i < f.nVP; i++ {
			vals[i] = costAt(f.xCosts, i, k)
		}
		threshold := rankThreshold(vals, up)
		for i := 0; i < f.nVP; i++ {
			if costAt(f.xCosts, i, k) > threshold+precision {
				f.xVars[i][k].Deactivate()
			}
		}
	}

	if pruneEdgeRows {
		for ij := 0; ij < f.nEP; ij++ {
			vals := make([]float64, f.nET)
			for kl := 0; kl < f.nET; kl++ {
				vals[kl] = costAt(f.yCosts, ij, kl)
			}
			threshold := rankThreshold(vals, up)
			for kl := 0; kl < f.nET; kl++ {
				if costAt(f.yCosts, ij, kl) > threshold+precision {
					f.yVars[ij][kl].Deactivate()
				}
			}
		}
	}

	f.dropInconsistentEdgeVars()
}

// rankThreshold returns the cost below which the cheapest up-fraction of the
// values lies.
func rankThreshold(vals []float64, up float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	idx := int(math.Floor(float64(len(sorted)) * up))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// dropInconsistentEdgeVars deactivates y[ij][kl] when no admissible endpoint
// assignment remains. For directed graphs the pair (i->k, j->l) must be
// active; for undirected graphs the swapped pair also qualifies.
func (f *Formulation) dropInconsistentEdgeVars() {
	pattern, target := f.pb.Pattern(), f.pb.Target()
	for ij := 0; ij < f.nEP; ij++ {
		pe := pattern.Edge(ij)
		i, j := pe.Origin(), pe.Target()
		for kl := 0; kl < f.nET; kl++ {
			if !f.yVars[ij][kl].Active() {
				continue
			}
			te := target.Edge(kl)
			k, l := te.Origin(), te.Target()

			straight := f.xVars[i][k].Active() && f.xVars[j][l].Active()
			if f.directed {
				if !straight {
					f.yVars[ij][kl].Deactivate()
				}
				continue
			}
			swapped := f.xVars[i][l].Active() && f.xVars[j][k].Active()
			if !straight && !swapped {
				f.yVars[ij][kl].Deactivate()
			}
		}
	}
}
