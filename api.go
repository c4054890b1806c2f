package biqbin

import (
	"context"
	"time"

	"gonum.org/v1/gonum/mat"
)

// api.go is the package's outermost entry point, generalizing
// jjhbw-GoMILP/api.go's Problem.Solve() shape (build a config, call the
// internal solve, translate the result) to this package's SDP bounding
// engine. The fluent variable/constraint builder jjhbw-GoMILP's Problem
// exposes has no analogue here: graph and BQP file construction are
// external collaborators here, so callers already hand in a
// Laplacian matrix (directly, or via BQPToMaxCut).

// SolveResult is the translated, user-facing outcome of a Solve call: the
// final cut vector, its Max-Cut value, and the run metadata a caller
// needs (nodes explored/pruned, whether the root-only or time-limit knobs
// cut the search short).
type SolveResult struct {
	// Cut is the indicator vector in {0,1}^N over the first N vertices:
	// Cut[i] is 1 exactly when vertex i lies on the other side of the cut
	// from vertex N (the padding vertex of BQPToMaxCut), which reads as 0
	// and is omitted.
	Cut []int

	Value         float64
	NodesExplored int
	NodesPruned   int

	// StoppedAtRoot is set when cfg.RootOnly stopped the search after
	// bounding only the root node.
	StoppedAtRoot bool

	// StoppedByTimeLimit is set when ctx/cfg.TimeLimit cut the search
	// short; Value/Cut are still the best incumbent found.
	StoppedByTimeLimit bool
}

// Solve runs the distributed branch-and-bound solver to completion (or
// until ctx/cfg.TimeLimit expires) on a symmetric Laplacian-form objective
// L of order N+1, and returns the best cut found over the first N vertices
// (vertex N is conventionally fixed to 0). heuristic may be
// nil to use the default Goemans-Williamson rounding (heuristic.go).
func Solve(ctx context.Context, L *mat.SymDense, cfg Config, heuristic Heuristic) (SolveResult, error) {
	return SolveWithObserver(ctx, L, cfg, heuristic, nil)
}

// SolveWithObserver is Solve with an additional Observer for lifecycle
// visibility (node dispatched, node pruned or branched),
// generalizing jjhbw-GoMILP/instrumentation.go's BnbMiddleware hook.
func SolveWithObserver(ctx context.Context, L *mat.SymDense, cfg Config, heuristic Heuristic, observer Observer) (SolveResult, error) {
	if heuristic == nil {
		heuristic = GoemansWilliamson
	}
	start := time.Now()
	var full *Problem
	out := runWithPanicTranslation(func() Result {
		full = NewProblem(L)
		return solveTree(ctx, full, cfg, heuristic, observer)
	})

	var cut []int
	if full != nil {
		n := full.n
		cut = make([]int, n-1)
		if out.err == nil {
			for i := 0; i < n-1; i++ {
				if out.result.Best.X[i] != out.result.Best.X[n-1] {
					cut[i] = 1
				}
			}
		}
	}
	timedOut := cfg.TimeLimit > 0 && time.Since(start) >= time.Duration(cfg.TimeLimit*float64(time.Second))
	return SolveResult{
		Cut: cut,
		// The search works in x^T*L*x units; the Max-Cut value is a quarter of that.
		Value:              out.result.Best.Value / 4,
		NodesExplored:      out.result.NodesExplored,
		NodesPruned:        out.result.NodesPruned,
		StoppedAtRoot:      cfg.RootOnly,
		StoppedByTimeLimit: ctx.Err() != nil || timedOut,
	}, out.err
}

type solveOutcome struct {
	result Result
	err    error
}

// runWithPanicTranslation recovers the panics errors.go's fatal-condition
// helpers raise (InputError/NumericalError/CapacityError) and surfaces them
// as a returned error instead, since those are the only conditions that
// should ever be reported back to a library caller rather than crashing the
// process outright -- a CLI frontend (out of scope here) decides whether to
// abort on them.
func runWithPanicTranslation(f func() Result) (out solveOutcome) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				out.err = err
				return
			}
			panic(r)
		}
	}()
	out.result = f()
	return out
}
