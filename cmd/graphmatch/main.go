package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"

	"github.com/tlindh/graphmatch/pkg/config"
	"github.com/tlindh/graphmatch/pkg/formulation"
	"github.com/tlindh/graphmatch/pkg/logging"
	"github.com/tlindh/graphmatch/pkg/model"
	"github.com/tlindh/graphmatch/pkg/solution"
	"github.com/tlindh/graphmatch/pkg/solver"
	"github.com/tlindh/graphmatch/pkg/watcher"
	"github.com/tlindh/graphmatch/pkg/web"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("graphmatch", pflag.ContinueOnError)

	flags.BoolP("time", "t", false, "report wall time in milliseconds")
	flags.BoolP("ged", "g", false, "compute graph edit distance")
	flags.Bool("lp", false, "relaxed edit distance, reports an LP lower bound")
	flags.Bool("approx-minext", false, "approximate minimal extension via inflated deletion costs")
	flags.BoolP("fast", "f", false, "greedy heuristic or first feasible solution")
	flags.Float64P("upperbound", "u", 1.0, "fraction of cheapest candidates kept, in (0,1]")
	flags.BoolP("exact", "e", false, "exact subgraph isomorphism, zero-cost candidates only")
	flags.Bool("stsm", false, "substitution-tolerant matching, every pattern element matched")
	flags.StringP("output", "o", "", "write the solution as XML to this file")
	flags.Bool("induced", false, "require the match to be induced")
	flags.Bool("multigraph", false, "adjacency values count parallel edges")
	flags.Bool("directed", false, "parse the input as directed graphs")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.Bool("watch", false, "re-solve whenever the input file changes")
	flags.Bool("web", false, "serve results over HTTP")
	flags.Int("port", 8080, "web server port")

	// Aliases kept for older invocations.
	flags.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "f2lp":
			name = "lp"
		case "minext-approx":
			name = "approx-minext"
		case "approx-stsm":
			name = "stsm"
		case "up":
			name = "upperbound"
		}
		return pflag.NormalizedName(name)
	})

	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: graphmatch [options] <input_file.txt>")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Input format: text file with two graphs (pattern and target),")
		fmt.Fprintln(os.Stderr, "each given as a vertex count followed by its adjacency matrix.")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Options:")
		fmt.Fprint(os.Stderr, flags.FlagUsages())
	}

	return flags
}

func run(args []string) error {
	flags := newFlagSet()
	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}

	// Relaxation implies edit distance, approximate minimal extension
	// additionally implies relaxation.
	if cfg.ApproxMinxt {
		cfg.LP = true
	}
	if cfg.LP {
		cfg.GED = true
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.Verbose {
		logging.SetLevel(slog.LevelDebug)
	}

	if flags.NArg() != 1 {
		flags.Usage()
		return fmt.Errorf("expected exactly one input file, got %d", flags.NArg())
	}
	inputPath := flags.Arg(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := &runner{cfg: cfg}

	if cfg.WebMode {
		r.server = web.NewServer()
		defer r.server.Close()

		go func() {
			if err := r.server.Start(cfg.Port); err != nil {
				logging.Error("web server stopped", "error", err)
			}
		}()
	}

	if err := r.solveFile(ctx, inputPath); err != nil {
		if !cfg.Watch {
			return err
		}
		// In watch mode a broken input is not fatal, the next save may fix it.
		logging.Error("solve failed", "path", inputPath, "error", err)
		r.publishStatus("failed", err.Error())
	}

	switch {
	case cfg.Watch:
		return r.watchLoop(ctx, inputPath)
	case cfg.WebMode:
		<-ctx.Done()
		return nil
	default:
		return nil
	}
}

// runner holds the per-process state shared between solves
type runner struct {
	cfg    *config.Config
	server *web.Server
}

func (r *runner) publishStatus(state, message string) {
	if r.server == nil {
		return
	}
	if err := r.server.PublishSolveStatus(state, message); err != nil {
		logging.Warn("failed to publish solve status", "error", err)
	}
}

// watchLoop re-solves the input whenever the watcher reports a change
func (r *runner) watchLoop(ctx context.Context, inputPath string) error {
	fw, err := watcher.NewFileWatcher(inputPath)
	if err != nil {
		return err
	}
	defer fw.Stop()

	if err := fw.Start(ctx); err != nil {
		return err
	}

	deb := watcher.NewDebouncer(fw.Events(), 200*time.Millisecond, 2*time.Second)
	deb.Start(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-deb.Output():
			if !ok {
				return nil
			}
			logging.Info("input changed, re-solving", "path", inputPath)
			if err := r.solveFile(ctx, inputPath); err != nil {
				logging.Error("solve failed", "path", inputPath, "error", err)
				r.publishStatus("failed", err.Error())
			}
		}
	}
}

// solveFile runs one full parse, formulate, solve, report cycle
func (r *runner) solveFile(ctx context.Context, path string) error {
	start := time.Now()

	r.publishStatus("parsing", fmt.Sprintf("parsing %s", path))

	pb, err := r.loadProblem(path)
	if err != nil {
		return err
	}
	if r.server != nil {
		r.server.SetProblem(pb)
	}

	var m *solution.Matching
	var status string

	if r.cfg.GED {
		m, status, err = r.solveEditDistance(ctx, pb)
	} else if r.cfg.Fast {
		m, status = r.solveGreedy(pb)
	} else {
		m, status, err = r.solveMatching(ctx, pb)
	}
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	if r.cfg.GED {
		solution.PrintEditDistanceReport(os.Stdout, pb, m, r.cfg.LP)
		if r.cfg.ApproxMinxt {
			count := len(m.UnmatchedPatternVertices) + len(m.UnmatchedPatternEdges)
			fmt.Printf("Approx minimal extension (pattern side, count): %d\n", count)
		}
	} else {
		solution.PrintMatchingReport(os.Stdout, pb, m)
	}

	if r.cfg.Time {
		fmt.Printf("Time: %d ms\n", elapsed.Milliseconds())
	}

	if r.cfg.Output != "" {
		if err := writeSolutionFile(r.cfg.Output, pb, m); err != nil {
			return err
		}
	}

	r.publishStatus("solved", fmt.Sprintf("objective %g", m.Objective))
	if r.server != nil {
		if err := r.server.PublishMatching(status, m, elapsed.Milliseconds()); err != nil {
			logging.Warn("failed to publish matching", "error", err)
		}
	}

	return nil
}

func (r *runner) loadProblem(path string) (*model.Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	var parseOpts []model.ParseOption
	if r.cfg.Multigraph {
		parseOpts = append(parseOpts, model.WithMultigraph())
	}
	if r.cfg.Directed {
		parseOpts = append(parseOpts, model.WithDirected())
	}

	pattern, target, err := model.Parse(f, parseOpts...)
	if err != nil {
		return nil, err
	}

	kind := model.SubgraphMatching
	if r.cfg.GED {
		kind = model.GraphEditDistance
	}
	return model.NewProblem(kind, pattern, target), nil
}

func (r *runner) solveOptions() []solver.SolveOption {
	var opts []solver.SolveOption
	if r.cfg.Verbose {
		opts = append(opts, solver.WithVerbose())
	}
	return opts
}

// solveEditDistance runs the symmetric edit distance formulation, as a MIP or
// as its LP relaxation
func (r *runner) solveEditDistance(ctx context.Context, pb *model.Problem) (*solution.Matching, string, error) {
	var formOpts []formulation.Option
	if r.cfg.LP {
		formOpts = append(formOpts, formulation.WithRelaxation())
	}
	if r.cfg.ApproxMinxt {
		formOpts = append(formOpts, formulation.WithApproxMinimalExtension())
	}
	if r.cfg.Induced {
		formOpts = append(formOpts, formulation.WithInduced())
	}

	form := formulation.NewEditDistance(pb, formOpts...)

	r.publishStatus("formulating", "building edit distance program")
	if err := form.Init(r.cfg.Upperbound); err != nil {
		return nil, "", err
	}

	r.publishStatus("solving", "running solver")
	s := solver.New()

	var res *solver.Result
	var err error
	if r.cfg.LP {
		res, err = s.LoadAndSolveLP(ctx, form.Program())
	} else {
		opts := r.solveOptions()
		if r.cfg.Fast {
			opts = append(opts, solver.WithFirstFeasible())
		}
		res, err = s.LoadAndSolveMIP(ctx, form.Program(), opts...)
	}
	if err != nil {
		return nil, "", err
	}

	return solution.Interpret(pb, res.Values, res.Objective), res.Status.String(), nil
}

// solveMatching runs one of the subgraph matching formulations
func (r *runner) solveMatching(ctx context.Context, pb *model.Problem) (*solution.Matching, string, error) {
	var form *formulation.Formulation
	var formOpts []formulation.Option
	if r.cfg.Induced {
		formOpts = append(formOpts, formulation.WithInduced())
	}

	up := r.cfg.Upperbound
	switch {
	case r.cfg.Exact:
		form = formulation.NewSubgraphIsomorphism(pb, formOpts...)
		up = 1.0
	case r.cfg.STSM:
		form = formulation.NewSubstitutionTolerant(pb, formOpts...)
	default:
		form = formulation.NewMinimumCost(pb, formOpts...)
	}

	r.publishStatus("formulating", "building matching program")
	if err := form.Init(up); err != nil {
		return nil, "", err
	}

	r.publishStatus("solving", "running solver")
	res, err := solver.New().LoadAndSolveMIP(ctx, form.Program(), r.solveOptions()...)
	if err != nil {
		return nil, "", err
	}

	return solution.Interpret(pb, res.Values, res.Objective), res.Status.String(), nil
}

// solveGreedy runs the degree-ordered heuristic instead of the MIP
func (r *runner) solveGreedy(pb *model.Problem) (*solution.Matching, string) {
	r.publishStatus("solving", "running greedy heuristic")
	res := solver.NewGreedy(pb).Solve()
	return solution.Interpret(pb, res.Values, res.Objective), "greedy"
}

func writeSolutionFile(path string, pb *model.Problem, m *solution.Matching) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := solution.WriteXML(f, pb, m); err != nil {
		return fmt.Errorf("failed to write solution: %w", err)
	}
	return nil
}
