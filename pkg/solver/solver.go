// Package solver drives mixed-integer linear programs built with pkg/ilp. The
// continuous relaxations run on gonum's simplex and the integer search is a
// best-first branch and bound over fractional columns.
package solver

import (
	"context"
	"time"

	"github.com/tlindh/graphmatch/pkg/ilp"
	"github.com/tlindh/graphmatch/pkg/logging"
)

// Status is the outcome class of a solve.
type Status int

const (
	// NotSolved means the solver produced no usable answer.
	NotSolved Status = iota
	// Optimal means the returned solution is proven optimal within the gap.
	Optimal
	// Suboptimal means a feasible solution was found but optimality was not
	// proven, typically after a time limit or a first-feasible stop.
	Suboptimal
	// Infeasible means no assignment satisfies the constraints.
	Infeasible
	// Unbounded means the objective can be improved without limit.
	Unbounded
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case Suboptimal:
		return "suboptimal"
	case Infeasible:
		return "infeasible"
	case Unbounded:
		return "unbounded"
	default:
		return "not solved"
	}
}

// Result holds the outcome of one solve. Values maps variable IDs to their
// assigned value; it is empty, never nil, when no solution exists.
type Result struct {
	Status    Status
	Objective float64
	Values    map[string]float64
}

func (r *Result) IsOptimal() bool    { return r.Status == Optimal }
func (r *Result) IsInfeasible() bool { return r.Status == Infeasible }
func (r *Result) IsUnbounded() bool  { return r.Status == Unbounded }

// HasSolution reports whether Values carries a usable assignment.
func (r *Result) HasSolution() bool {
	return r.Status == Optimal || r.Status == Suboptimal
}

// Value returns the assigned value of the variable, or 0 when absent.
func (r *Result) Value(id string) float64 { return r.Values[id] }

type solveConfig struct {
	verbose       bool
	timeLimit     time.Duration
	firstFeasible bool
	mipGap        float64
}

// SolveOption configures a single solve call.
type SolveOption func(*solveConfig)

// WithVerbose enables per-node progress logging.
func WithVerbose() SolveOption {
	return func(c *solveConfig) { c.verbose = true }
}

// WithTimeLimit bounds the wall-clock time of the search. When the limit
// expires the best incumbent is returned as suboptimal.
func WithTimeLimit(d time.Duration) SolveOption {
	return func(c *solveConfig) { c.timeLimit = d }
}

// WithFirstFeasible stops the search at the first integer-feasible solution.
func WithFirstFeasible() SolveOption {
	return func(c *solveConfig) { c.firstFeasible = true }
}

// WithMIPGap sets the relative optimality gap at which the search stops.
func WithMIPGap(gap float64) SolveOption {
	return func(c *solveConfig) {
		if gap > 0 {
			c.mipGap = gap
		}
	}
}

const defaultMIPGap = 1e-9

// Solver solves ilp programs. The zero value is ready to use.
type Solver struct{}

// New returns a ready Solver.
func New() *Solver { return &Solver{} }

// LoadAndSolveLP solves the continuous relaxation of the program, ignoring
// integrality on every column.
func (s *Solver) LoadAndSolveLP(ctx context.Context, p *ilp.Program) (*Result, error) {
	m, err := buildModel(p)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel := m.solveRelaxation(m.colLower, m.colUpper)
	res := &Result{Status: rel.status, Objective: rel.objective, Values: map[string]float64{}}
	if rel.status == Optimal {
		for j, id := range m.colIDs {
			res.Values[id] = rel.x[j]
		}
	}
	return res, nil
}

// LoadAndSolveMIP solves the program with its integrality requirements.
// Infeasible and unbounded programs are reported through the result status,
// not as errors.
func (s *Solver) LoadAndSolveMIP(ctx context.Context, p *ilp.Program, opts ...SolveOption) (*Result, error) {
	cfg := solveConfig{mipGap: defaultMIPGap}
	for _, opt := range opts {
		opt(&cfg)
	}

	m, err := buildModel(p)
	if err != nil {
		return nil, err
	}

	if cfg.timeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeLimit)
		defer cancel()
	}

	if cfg.verbose {
		logging.Debug("starting branch and bound",
			"columns", m.cols(), "rows", m.rows(), "maximize", m.maximize)
	}

	return branchAndBound(ctx, m, cfg), nil
}
