package formulation

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/tlindh/graphmatch/pkg/ilp"
	"github.com/tlindh/graphmatch/pkg/model"
)

// precision is the tolerance for all cost comparisons.
const precision = 1e-9

// approxDeletionCost replaces the deletion costs in approximate
// minimal-extension mode, making target-side deletions prohibitively
// expensive.
const approxDeletionCost = 1e6

type variantKind int

const (
	subgraphIsomorphism variantKind = iota
	substitutionTolerant
	minimumCost
	editDistance
)

// Option adjusts a formulation before Init is called.
type Option func(*Formulation)

// WithInduced adds the induced-subgraph constraints: a matched target vertex
// pair may not leave the target edge between them unmatched. The
// edit-distance formulation ignores this option and adds no induced rows.
func WithInduced() Option {
	return func(f *Formulation) { f.induced = true }
}

// WithRelaxation downgrades all variables to continuous [0,1], turning the
// program into the LP relaxation
func WithRelaxation() Option {
	return func(f *Formulation) { f.relaxed = true }
}

// WithEditCosts overrides the four unit edit costs of the edit-distance
// formulation
func WithEditCosts(vertexInsert, vertexDelete, edgeInsert, edgeDelete float64) Option {
	return func(f *Formulation) {
		f.vInsert, f.vDelete = vertexInsert, vertexDelete
		f.eInsert, f.eDelete = edgeInsert, edgeDelete
	}
}

// WithApproxMinimalExtension inflates the deletion costs so the edit-distance
// solution avoids target-side deletions, approximating a minimal extension
func WithApproxMinimalExtension() Option {
	return func(f *Formulation) {
		f.vDelete = approxDeletionCost
		f.eDelete = approxDeletionCost
	}
}

// Formulation builds an integer linear program over a matching problem and
// retains the variable matrices for solution decoding. Construct with one of
// the New functions, call Init exactly once, then hand Program() to a solver.
type Formulation struct {
	pb      *model.Problem
	variant variantKind
	induced bool
	relaxed bool

	vInsert, vDelete float64
	eInsert, eDelete float64

	nVP, nVT, nEP, nET int
	directed           bool

	program *ilp.Program
	xVars   [][]*ilp.Variable
	yVars   [][]*ilp.Variable
	xCosts  *mat.Dense
	yCosts  *mat.Dense

	vertexCreate []float64
	edgeCreate   []float64
}

func newFormulation(variant variantKind, pb *model.Problem, opts ...Option) *Formulation {
	f := &Formulation{
		pb:      pb,
		variant: variant,
		vInsert: 1, vDelete: 1,
		eInsert: 1, eDelete: 1,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewSubgraphIsomorphism creates the exact subgraph isomorphism formulation.
// Only zero-cost substitutions are admissible; candidate pruning is not
// supported.
func NewSubgraphIsomorphism(pb *model.Problem, opts ...Option) *Formulation {
	return newFormulation(subgraphIsomorphism, pb, opts...)
}

// NewSubstitutionTolerant creates the substitution-tolerant subgraph matching
// formulation: every pattern element must be matched, substitutions carry
// their cost.
func NewSubstitutionTolerant(pb *model.Problem, opts ...Option) *Formulation {
	return newFormulation(substitutionTolerant, pb, opts...)
}

// NewMinimumCost creates the minimum-cost subgraph matching formulation:
// pattern elements may stay unmatched at a creation cost, so the objective is
// the cost of the minimal extension of the target.
func NewMinimumCost(pb *model.Problem, opts ...Option) *Formulation {
	return newFormulation(minimumCost, pb, opts...)
}

// NewEditDistance creates the graph edit distance formulation, symmetric over
// pattern and target with unit edit costs by default.
func NewEditDistance(pb *model.Problem, opts ...Option) *Formulation {
	return newFormulation(editDistance, pb, opts...)
}

// Init builds the linear program. The upper bound up selects the fraction of
// cheapest substitution candidates kept by pruning; up = 1 disables pruning.
// The minimum-cost formulation accepts any valid up but never prunes.
func (f *Formulation) Init(up float64) error {
	if up <= 0 || up > 1 {
		return fmt.Errorf("upper bound %v outside (0, 1]", up)
	}
	if f.pb.Pattern().Kind() != f.pb.Target().Kind() {
		return fmt.Errorf("pattern graph is %s but target graph is %s",
			f.pb.Pattern().Kind(), f.pb.Target().Kind())
	}
	if f.variant == subgraphIsomorphism && up < 1 {
		return fmt.Errorf("subgraph isomorphism does not support candidate pruning (upper bound %v)", up)
	}

	f.nVP = f.pb.Pattern().Order()
	f.nVT = f.pb.Target().Order()
	f.nEP = f.pb.Pattern().Size()
	f.nET = f.pb.Target().Size()
	f.directed = f.pb.Pattern().Kind() == model.Directed

	f.program = ilp.NewProgram(ilp.Minimize)
	f.initVariables()
	f.initCosts()
	f.restrictProblem(up)
	f.initConstraints()
	f.initObjective()
	return nil
}

// Program returns the built linear program, nil before Init
func (f *Formulation) Program() *ilp.Program { return f.program }

// Problem returns the matching problem the formulation was built over
func (f *Formulation) Problem() *model.Problem { return f.pb }

// Relaxed reports whether the variables are continuous
func (f *Formulation) Relaxed() bool { return f.relaxed }

// XVar returns the vertex assignment variable for pattern vertex i and target
// vertex k
func (f *Formulation) XVar(i, k int) *ilp.Variable { return f.xVars[i][k] }

// YVar returns the edge assignment variable for pattern edge ij and target
// edge kl
func (f *Formulation) YVar(ij, kl int) *ilp.Variable { return f.yVars[ij][kl] }

func (f *Formulation) initVariables() {
	kind := ilp.Binary
	if f.relaxed {
		kind = ilp.Continuous
	}

	f.xVars = make([][]*ilp.Variable, f.nVP)
	for i := 0; i < f.nVP; i++ {
		f.xVars[i] = make([]*ilp.Variable, f.nVT)
		for k := 0; k < f.nVT; k++ {
			id := "x_" + strconv.Itoa(i) + "," + strconv.Itoa(k)
			v := ilp.NewVariable(id, kind, 0, 1)
			f.xVars[i][k] = v
			f.program.AddVariable(v)
		}
	}

	f.yVars = make([][]*ilp.Variable, f.nEP)
	for ij := 0; ij < f.nEP; ij++ {
		f.yVars[ij] = make([]*ilp.Variable, f.nET)
		for kl := 0; kl < f.nET; kl++ {
			id := "y_" + strconv.Itoa(ij) + "," + strconv.Itoa(kl)
			v := ilp.NewVariable(id, kind, 0, 1)
			f.yVars[ij][kl] = v
			f.program.AddVariable(v)
		}
	}
}

func (f *Formulation) initCosts() {
	if f.nVP > 0 && f.nVT > 0 {
		f.xCosts = mat.NewDense(f.nVP, f.nVT, nil)
		for i := 0; i < f.nVP; i++ {
			for k := 0; k < f.nVT; k++ {
				cost := f.pb.VertexCost(i, k)
				if f.variant == editDistance {
					cost -= f.vInsert + f.vDelete
				}
				f.xCosts.Set(i, k, cost)
			}
		}
	}

	if f.nEP > 0 && f.nET > 0 {
		f.yCosts = mat.NewDense(f.nEP, f.nET, nil)
		for ij := 0; ij < f.nEP; ij++ {
			for kl := 0; kl < f.nET; kl++ {
				cost := f.pb.EdgeCost(ij, kl)
				if f.variant == editDistance {
					cost -= f.eInsert + f.eDelete
				}
				f.yCosts.Set(ij, kl, cost)
			}
		}
	}

	if f.variant == minimumCost {
		f.vertexCreate = make([]float64, f.nVP)
		for i := range f.vertexCreate {
			f.vertexCreate[i] = 1
		}
		f.edgeCreate = make([]float64, f.nEP)
		for ij := range f.edgeCreate {
			f.edgeCreate[ij] = 1
		}
	}
}

func costAt(m *mat.Dense, r, c int) float64 {
	if m == nil {
		return 0
	}
	return m.At(r, c)
}
