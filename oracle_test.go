package biqbin

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// TestSolveMaxCutSDP_OrderOne checks the degenerate n=1 case: diag(X)=e
// forces X=[1] exactly (after rescaleDiagonalToOne), so phi must equal
// L0[0][0] regardless of how many barrier steps ran.
func TestSolveMaxCutSDP_OrderOne(t *testing.T) {
	for _, c := range []float64{5, -3, 0.25} {
		L0 := mat.NewSymDense(1, []float64{c})
		phi, X := solveMaxCutSDP(L0)
		if math.Abs(phi-c) > 1e-9 {
			t.Fatalf("c=%v: phi = %v, want %v", c, phi, c)
		}
		if math.Abs(X.At(0, 0)-1) > 1e-9 {
			t.Fatalf("c=%v: X[0][0] = %v, want 1", c, X.At(0, 0))
		}
	}
}

// bruteForceMaxCut enumerates every x in {-1,1}^n and returns the maximum
// of x^T*L0*x, the reference value the oracle's phi must never fall below.
func bruteForceMaxCut(L0 *mat.SymDense) float64 {
	n := L0.SymmetricDim()
	best := math.Inf(-1)
	forEachSign(n, func(x []int8) {
		var v float64
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				v += float64(x[i]) * float64(x[j]) * L0.At(i, j)
			}
		}
		if v > best {
			best = v
		}
	})
	return best
}

func TestSolveMaxCutSDP_IsValidUpperBound(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 8; trial++ {
		n := 3 + trial%2 // alternate between order 3 and 4
		L0 := mat.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				if i == j {
					continue
				}
				w := math.Round(rng.Float64()*10) - 5
				L0.SetSym(i, j, w)
			}
		}
		// Laplacian-form diagonal: row sum of the (symmetric) off-diagonal
		// weights, so x^T*L0*x is a genuine cut value for x in {-1,1}^n.
		for i := 0; i < n; i++ {
			var rowSum float64
			for j := 0; j < n; j++ {
				if j != i {
					rowSum += L0.At(i, j)
				}
			}
			L0.SetSym(i, i, -rowSum)
		}

		phi, X := solveMaxCutSDP(L0)
		bound := bruteForceMaxCut(L0)
		if phi < bound-1e-4 {
			t.Fatalf("trial %d: phi=%v is below the brute-force max cut %v", trial, phi, bound)
		}
		for i := 0; i < n; i++ {
			if math.Abs(X.At(i, i)-1) > 1e-4 {
				t.Fatalf("trial %d: X[%d][%d]=%v, diag(X) must be e", trial, i, i, X.At(i, i))
			}
		}
		if m := minEigenvalue(X); m < -1e-4 {
			t.Fatalf("trial %d: X has negative eigenvalue %v, must be PSD", trial, m)
		}
	}
}
