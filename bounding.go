package biqbin

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// bounding.go is the per-node bounding driver: reduce the node to its
// free-variable subproblem, run the basic (cut-free) SDP relaxation once,
// then alternate separation rounds (tightening the cutting-plane set) with
// proximal-bundle rounds (tightening gamma against the current cut set)
// until either the round budget is exhausted or the bound is judged unable
// to close the gap to the incumbent, recovering a fractional solution and a
// primal heuristic candidate along the way.

// BoundResult is everything the coordinator needs after bounding one node:
// the tightened upper bound, a fractional solution over every original
// vertex (used to pick the next branching variable), the best heuristic
// solution found while bounding this node, and (for the root node only)
// the basic-vs-final gap used to seed use_diff short-circuiting for every
// later node.
type BoundResult struct {
	Bound     float64
	FracSol   []float64
	Heuristic *BabSolution

	// HasRootDiff is set only when this was the root node (Level 0); RootDiff
	// is then the drop the cutting-plane loop bought over the basic SDP
	// bound, recorded once and reused by every other node's use_diff test.
	HasRootDiff bool
	RootDiff    float64
}

// boundNode runs the full outer round loop for one node and returns its
// tightened bound plus supporting artifacts. rng must be a stream derived
// from the coordinator's seed (rng.go) so the search stays deterministic
// for a fixed Config.Seed. incumbent is the best known cut value at
// dispatch time (Bab_LBGet() in the reference), used both for the
// can't-possibly-prune give-up tests and for the use_diff short-circuit;
// rootDiff is the coordinator's shared basic-vs-final gap, as recorded by
// the root node's own bounding pass (zero until the root has finished).
func boundNode(n *BabNode, full *Problem, cfg Config, heuristic Heuristic, rng *rand.Rand, incumbent, rootDiff float64) BoundResult {
	child, free := full.reduce(n.Xfixed)

	f0, X := solveMaxCutSDP(child.L)
	basicBound := f0 + child.FixedValue

	b := newBundle(1.0, f0, X, child.L, nil)

	result := BoundResult{
		Bound:     basicBound,
		FracSol:   fracSolFromX(n, full.n, free, X),
		Heuristic: runHeuristicPass(child, X, n, free, full.n, heuristic, rng),
	}

	// Ordinary prune: no cutting plane can raise a bound that already
	// fails to beat the incumbent, so don't bother separating any.
	if basicBound <= incumbent+pruneEpsilon {
		return result
	}

	// use_diff: a non-root node whose cut-free bound exceeds the incumbent
	// by more than the root's own basic-vs-final drop plus 1 is assumed
	// unable to close that gap with cutting planes, so the expensive
	// separation/bundle loop is skipped entirely.
	if cfg.UseDiff && n.Level != 0 && basicBound > incumbent+rootDiff+1.0 {
		return result
	}

	bdlIter := cfg.InitBundleIter
	maxRounds := cfg.MaxOuterIter + cfg.ExtraIter
	giveUp := false

	for round := 1; round <= maxRounds; round++ {
		count := round

		triStats := updateTriangleInequalities(child, b.X, cfg)

		var pentStats separationStats
		includePent := cfg.IncludePent && (count > cfg.TriagIter || triStats.MaxViolation < 0.2)
		if includePent {
			pentStats = updatePentagonalInequalities(child, b.X, cfg, rng)
		}

		var heptStats separationStats
		includeHept := cfg.IncludeHept && (count > cfg.TriagIter+cfg.PentIter ||
			(triStats.MaxViolation < 0.2 && 1-pentStats.MaxViolation < 0.4))
		if includeHept {
			heptStats = updateHeptagonalInequalities(child, b.X, cfg, rng)
		}

		if triStats.Added+pentStats.Added+heptStats.Added > 0 || triStats.Removed+pentStats.Removed+heptStats.Removed > 0 {
			refreshForNewCuts(child, child.L, b)
		}

		oldF := b.Fval
		RunBundle(child, child.L, b, bdlIter)

		bound := b.Fval + child.FixedValue
		if bound <= incumbent+pruneEpsilon {
			break
		}

		gap := bound - incumbent
		switch {
		case count == cfg.TriagIter+cfg.PentIter+cfg.HeptIter:
			if gap-1.0 > (oldF-b.Fval)*float64(cfg.MaxOuterIter-count) {
				giveUp = true
			}
		case count == cfg.MaxOuterIter:
			if gap-1.0 > (oldF-b.Fval)*float64(cfg.ExtraIter) {
				giveUp = true
			}
		case count >= cfg.MaxOuterIter+cfg.ExtraIter:
			giveUp = true
		}
		if giveUp {
			break
		}

		bdlIter += count % 2
		if bdlIter > cfg.MaxBundleIter {
			bdlIter = cfg.MaxBundleIter
		}
	}

	result.Bound = b.Fval + child.FixedValue
	result.FracSol = fracSolFromX(n, full.n, free, b.X)
	if n.Level == 0 {
		result.HasRootDiff = true
		result.RootDiff = basicBound - result.Bound
	}

	if final := runHeuristicPass(child, b.X, n, free, full.n, heuristic, rng); final != nil &&
		(result.Heuristic == nil || final.Value > result.Heuristic.Value) {
		result.Heuristic = final
	}

	return result
}

// fracSolFromX lifts the reduced primal X's first row (the relaxed {-1,1}
// value of every free vertex against the reference vertex) onto the full
// vertex index space: fixed vertices keep their {-1,0,+1} fixation as a
// float, free vertices take X's row directly.
func fracSolFromX(n *BabNode, total int, free []int, X *mat.SymDense) []float64 {
	fracFull := make([]float64, total)
	for i := range fracFull {
		switch n.Xfixed[i] {
		case Pos:
			fracFull[i] = 1
		case Neg:
			fracFull[i] = -1
		}
	}
	for b := 1; b < len(free); b++ {
		fracFull[free[b]] = X.At(0, b)
	}
	return fracFull
}

// runHeuristicPass runs the injected Heuristic against the reduced
// problem's current primal X and maps the result back onto the full vertex
// space, returning nil if no heuristic is configured or it errors out.
func runHeuristicPass(child *Problem, X *mat.SymDense, n *BabNode, free []int, total int, heuristic Heuristic, rng *rand.Rand) *BabSolution {
	if heuristic == nil {
		return nil
	}
	reducedSol, err := heuristic(child.L, X, rng, child.n)
	if err != nil {
		return nil
	}
	return mapHeuristicSolution(reducedSol, free, n.Xfixed, total)
}

// mapHeuristicSolution lifts a {-1,+1} solution over the reduced
// free-index space back onto every original vertex: fixed vertices take
// their fixed sign, free vertices take the reduced solution's sign
// relative to vertex 0 (flipping the whole vector first if the reduced
// solution put vertex 0 at -1, since vertex 0 must read as +1 globally and
// a global sign flip never changes which edges are cut).
func mapHeuristicSolution(reduced *BabSolution, free []int, fixed []FixState, n int) *BabSolution {
	flip := int8(1)
	if len(reduced.X) > 0 && reduced.X[0] < 0 {
		flip = -1
	}

	full := make([]int8, n)
	for i, fx := range fixed {
		if fx != Free {
			full[i] = int8(fx)
		}
	}
	for b, orig := range free {
		full[orig] = flip * reduced.X[b]
	}

	return &BabSolution{X: full, Value: reduced.Value}
}

// fullCutValue evaluates a full {-1,+1} assignment against the original
// (unfixed) objective, used by the coordinator to validate an incumbent
// independent of whatever reduced problem produced it.
func fullCutValue(L *mat.SymDense, x []int8) float64 {
	return cutValue(L, x)
}
