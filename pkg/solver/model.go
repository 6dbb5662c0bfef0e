package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/tlindh/graphmatch/pkg/ilp"
)

// ErrNotLoaded is returned when solving is attempted without a usable program.
var ErrNotLoaded = errors.New("no linear program loaded")

// nonzero is one triplet entry of the sparse constraint matrix.
type nonzero struct {
	row, col int
	value    float64
}

// milpModel is the numeric form of an ilp.Program: one column per variable in
// insertion order, one row per constraint, the coefficient matrix in triplet
// form and the objective with its constant offset.
type milpModel struct {
	colCosts []float64
	colLower []float64
	colUpper []float64
	integer  []bool
	colIDs   []string

	rowLower []float64
	rowUpper []float64
	entries  []nonzero

	offset   float64
	maximize bool
}

func buildModel(p *ilp.Program) (*milpModel, error) {
	if p == nil {
		return nil, ErrNotLoaded
	}
	vars := p.Variables()
	if len(vars) == 0 {
		return nil, fmt.Errorf("%w: program has no variables", ErrNotLoaded)
	}

	m := &milpModel{
		colCosts: make([]float64, len(vars)),
		colLower: make([]float64, len(vars)),
		colUpper: make([]float64, len(vars)),
		integer:  make([]bool, len(vars)),
		colIDs:   make([]string, len(vars)),
		maximize: p.Sense() == ilp.Maximize,
	}

	index := make(map[*ilp.Variable]int, len(vars))
	for j, v := range vars {
		index[v] = j
		m.colIDs[j] = v.ID()
		m.colLower[j] = v.Lower()
		m.colUpper[j] = v.Upper()
		m.integer[j] = v.Kind() != ilp.Continuous
	}

	obj := p.Objective()
	m.offset = obj.Constant()
	for v, coeff := range obj.Terms() {
		j, ok := index[v]
		if !ok {
			return nil, fmt.Errorf("objective references unregistered variable %q", v.ID())
		}
		m.colCosts[j] += coeff
	}

	for r, c := range p.Constraints() {
		expr := c.Expression()
		bound := c.RHS() - expr.Constant()
		switch c.Relation() {
		case ilp.LessEq:
			m.rowLower = append(m.rowLower, math.Inf(-1))
			m.rowUpper = append(m.rowUpper, bound)
		case ilp.GreaterEq:
			m.rowLower = append(m.rowLower, bound)
			m.rowUpper = append(m.rowUpper, math.Inf(1))
		case ilp.Equal:
			m.rowLower = append(m.rowLower, bound)
			m.rowUpper = append(m.rowUpper, bound)
		}

		for v, coeff := range expr.Terms() {
			j, ok := index[v]
			if !ok {
				return nil, fmt.Errorf("constraint %q references unregistered variable %q", c.ID(), v.ID())
			}
			m.entries = append(m.entries, nonzero{row: r, col: j, value: coeff})
		}
	}

	return m, nil
}

func (m *milpModel) cols() int { return len(m.colCosts) }
func (m *milpModel) rows() int { return len(m.rowLower) }

// worstObjective is the objective reported when no solution exists.
func (m *milpModel) worstObjective() float64 {
	if m.maximize {
		return math.Inf(-1)
	}
	return math.Inf(1)
}
