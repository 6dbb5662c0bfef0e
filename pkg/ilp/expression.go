package ilp

// Expression is a linear combination of variables plus a scalar constant.
// Terms are keyed by variable identity; adding a coefficient for a variable
// that already has one accumulates additively.
type Expression struct {
	terms    map[*Variable]float64
	constant float64
}

// NewExpression creates an empty expression
func NewExpression() *Expression {
	return &Expression{terms: make(map[*Variable]float64)}
}

// Add accumulates a coefficient onto a variable's term
func (e *Expression) Add(v *Variable, coeff float64) {
	e.terms[v] += coeff
}

// AddConstant accumulates onto the scalar constant
func (e *Expression) AddConstant(c float64) {
	e.constant += c
}

// Coefficient returns the accumulated coefficient for a variable, zero if the
// variable has no term
func (e *Expression) Coefficient(v *Variable) float64 {
	return e.terms[v]
}

// Constant returns the scalar constant
func (e *Expression) Constant() float64 { return e.constant }

// Len returns the number of variable terms
func (e *Expression) Len() int { return len(e.terms) }

// Terms exposes the term map for iteration. Callers must not mutate it.
func (e *Expression) Terms() map[*Variable]float64 { return e.terms }
