package solver

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// relaxation is the outcome of one LP solve.
type relaxation struct {
	status    Status
	objective float64
	x         []float64
}

// solveRelaxation solves the continuous relaxation of the model under the
// given column bounds. The model is lowered to standard form (equality rows
// over non-negative columns): columns are shifted by their lower bound, finite
// upper bounds become slack rows, and inequality rows get a slack or surplus
// column. gonum's simplex does the numerical work.
func (m *milpModel) solveRelaxation(lower, upper []float64) relaxation {
	n := m.cols()

	costs := make([]float64, n)
	for j := 0; j < n; j++ {
		if m.maximize {
			costs[j] = -m.colCosts[j]
		} else {
			costs[j] = m.colCosts[j]
		}
	}

	for j := 0; j < n; j++ {
		if math.IsInf(lower[j], 0) {
			return relaxation{status: NotSolved, objective: m.worstObjective()}
		}
		if upper[j]-lower[j] < 0 {
			return relaxation{status: Infeasible, objective: m.worstObjective()}
		}
	}

	// Per-row term lists from the triplet entries.
	rowTerms := make([][]nonzero, m.rows())
	for _, e := range m.entries {
		rowTerms[e.row] = append(rowTerms[e.row], e)
	}

	type stdRow struct {
		terms []nonzero
		rhs   float64
		slack float64 // +1 slack, -1 surplus, 0 equality
	}

	var stdRows []stdRow
	for r := 0; r < m.rows(); r++ {
		shift := 0.0
		for _, e := range rowTerms[r] {
			shift += e.value * lower[e.col]
		}
		lo, hi := m.rowLower[r], m.rowUpper[r]
		switch {
		case lo == hi:
			stdRows = append(stdRows, stdRow{terms: rowTerms[r], rhs: lo - shift})
		case math.IsInf(lo, -1):
			stdRows = append(stdRows, stdRow{terms: rowTerms[r], rhs: hi - shift, slack: 1})
		case math.IsInf(hi, 1):
			stdRows = append(stdRows, stdRow{terms: rowTerms[r], rhs: lo - shift, slack: -1})
		}
	}
	for j := 0; j < n; j++ {
		if !math.IsInf(upper[j], 1) {
			stdRows = append(stdRows, stdRow{
				terms: []nonzero{{col: j, value: 1}},
				rhs:   upper[j] - lower[j],
				slack: 1,
			})
		}
	}

	shiftCost := 0.0
	for j := 0; j < n; j++ {
		shiftCost += m.colCosts[j] * lower[j]
	}

	if len(stdRows) == 0 {
		// Unconstrained: each column sits at its shifted origin unless its
		// cost pulls it to an open upper bound.
		for j := 0; j < n; j++ {
			if costs[j] < 0 {
				return relaxation{status: Unbounded, objective: m.worstObjective()}
			}
		}
		x := append([]float64(nil), lower...)
		return relaxation{status: Optimal, objective: shiftCost + m.offset, x: x}
	}

	slacks := 0
	for _, row := range stdRows {
		if row.slack != 0 {
			slacks++
		}
	}

	total := n + slacks
	a := mat.NewDense(len(stdRows), total, nil)
	b := make([]float64, len(stdRows))
	c := make([]float64, total)
	copy(c, costs)

	slackCol := n
	for r, row := range stdRows {
		for _, e := range row.terms {
			a.Set(r, e.col, a.At(r, e.col)+e.value)
		}
		if row.slack != 0 {
			a.Set(r, slackCol, row.slack)
			slackCol++
		}
		b[r] = row.rhs
	}

	opt, z, err := lp.Simplex(c, a, b, 0, nil)
	switch {
	case err == nil:
	case errors.Is(err, lp.ErrInfeasible):
		return relaxation{status: Infeasible, objective: m.worstObjective()}
	case errors.Is(err, lp.ErrUnbounded):
		return relaxation{status: Unbounded, objective: m.worstObjective()}
	default:
		return relaxation{status: NotSolved, objective: m.worstObjective()}
	}

	x := make([]float64, n)
	linear := 0.0
	for j := 0; j < n; j++ {
		x[j] = z[j] + lower[j]
	}
	if m.maximize {
		linear = -opt
	} else {
		linear = opt
	}
	return relaxation{status: Optimal, objective: linear + shiftCost + m.offset, x: x}
}
