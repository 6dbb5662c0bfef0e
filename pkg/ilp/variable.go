package ilp

// VarKind classifies a decision variable for the solver.
type VarKind int

const (
	// Binary variables take values in {0, 1}.
	Binary VarKind = iota
	// Bounded variables are integers within [lb, ub].
	Bounded
	// Continuous variables are reals within [lb, ub].
	Continuous
)

// Variable is a decision variable identified by a unique id within its
// program. Expressions reference variables by pointer identity, so a variable
// must be created once and shared.
type Variable struct {
	id     string
	kind   VarKind
	lb, ub float64

	savedLB, savedUB float64
	inactive         bool
}

// NewVariable creates a variable with explicit bounds
func NewVariable(id string, kind VarKind, lb, ub float64) *Variable {
	return &Variable{id: id, kind: kind, lb: lb, ub: ub, savedLB: lb, savedUB: ub}
}

// NewBinary creates a {0,1} variable
func NewBinary(id string) *Variable {
	return NewVariable(id, Binary, 0, 1)
}

// ID returns the variable identifier
func (v *Variable) ID() string { return v.id }

// Kind returns the variable kind
func (v *Variable) Kind() VarKind { return v.kind }

// Lower returns the current lower bound
func (v *Variable) Lower() float64 { return v.lb }

// Upper returns the current upper bound
func (v *Variable) Upper() float64 { return v.ub }

// Deactivate pins the variable to zero by collapsing its bounds to [0, 0].
// The original bounds are kept so Activate can restore them.
func (v *Variable) Deactivate() {
	if v.inactive {
		return
	}
	v.savedLB, v.savedUB = v.lb, v.ub
	v.lb, v.ub = 0, 0
	v.inactive = true
}

// Activate restores the bounds saved by Deactivate
func (v *Variable) Activate() {
	if !v.inactive {
		return
	}
	v.lb, v.ub = v.savedLB, v.savedUB
	v.inactive = false
}

// Active reports whether the variable can still take a nonzero value
func (v *Variable) Active() bool { return !v.inactive }
