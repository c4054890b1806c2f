package biqbin

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// heuristic.go implements the Goemans-Williamson hyperplane-rounding
// primal heuristic plus a 1-opt local search, and an injectable Heuristic
// function type (the reference implementation's C++ wrapper exists
// precisely so a caller can swap the rounding heuristic; we keep
// that extension point as a plain Go func type instead of an interface,
// since a single method is all it needs).

// Heuristic proposes an improved {-1,+1} assignment from the current
// relaxation's primal X and the original objective L. It returns the
// proposed solution and its true cut value.
type Heuristic func(L *mat.SymDense, X *mat.SymDense, rng *rand.Rand, trials int) (*BabSolution, error)

// GoemansWilliamson is the default Heuristic: repeated random hyperplane
// cuts through a Cholesky factor of X, refined by 1-opt.
func GoemansWilliamson(L *mat.SymDense, X *mat.SymDense, rng *rand.Rand, trials int) (*BabSolution, error) {
	n := X.SymmetricDim()
	chol := choleskyFactor(X) // n x n, X = chol*chol^T

	best := &BabSolution{X: make([]int8, n), Value: -1e300}
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: normalSource{rng}}

	for t := 0; t < trials; t++ {
		h := make([]float64, n)
		for i := range h {
			h[i] = normal.Rand()
		}

		x := make([]int8, n)
		for i := 0; i < n; i++ {
			var dot float64
			for j := 0; j <= i; j++ {
				dot += chol.At(i, j) * h[j]
			}
			if dot >= 0 {
				x[i] = 1
			} else {
				x[i] = -1
			}
		}

		oneOptLocalSearch(L, x)
		val := cutValue(L, x)
		if val > best.Value {
			best.Value = val
			copy(best.X, x)
		}
	}

	return best, nil
}

// normalSource adapts a *rand.Rand to the uint64-seeded source interface
// that distuv.Normal draws from.
type normalSource struct{ r *rand.Rand }

func (s normalSource) Uint64() uint64   { return s.r.Uint64() }
func (s normalSource) Seed(seed uint64) { s.r.Seed(int64(seed)) }

// cutValue evaluates x^T*L*x for a +-1 vector.
func cutValue(L *mat.SymDense, x []int8) float64 {
	n := len(x)
	var sum float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sum += float64(x[i]) * float64(x[j]) * L.At(i, j)
		}
	}
	return sum
}

// oneOptLocalSearch flips single coordinates while any flip improves the
// cut value, the mc_1opt pass from original_source's 1-opt refinement of
// a GW-rounded cut.
func oneOptLocalSearch(L *mat.SymDense, x []int8) {
	n := len(x)
	improved := true
	for improved {
		improved = false
		for i := 0; i < n; i++ {
			var delta float64
			for j := 0; j < n; j++ {
				if j == i {
					continue
				}
				delta += float64(x[j]) * L.At(i, j)
			}
			delta *= -2 * float64(x[i])
			if delta > 1e-9 {
				x[i] = -x[i]
				improved = true
			}
		}
	}
}
