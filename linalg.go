package biqbin

import "gonum.org/v1/gonum/mat"

// linalg.go is the thin linear-algebra façade the oracle and bundle method
// share: a wrapper over the dense kernels they both need,
// grounded on jjhbw-GoMILP/subproblem.go's direct mat.Dense usage
// (mat.NewDense, .Slice, .Stack, .Dims, mat.DenseCopyOf) and
// gonum-gonum/mat/eigen.go's EigenSym.Factorize.

// choleskyFactor returns the lower-triangular Cholesky factor Z of the
// symmetric positive semidefinite matrix X such that X = Z*Z^T, used by
// the heuristic to seed Goemans-Williamson hyperplane rounding. Panics
// with a NumericalError if X is not (numerically) SPD: a failed Cholesky
// is a fatal numerical failure, not a recoverable condition.
func choleskyFactor(X *mat.SymDense) *mat.TriDense {
	var chol mat.Cholesky
	if ok := chol.Factorize(X); !ok {
		// Fall back to a small diagonal jitter before giving up: the SDP
		// primal coming out of the oracle can be SPD only up to rounding
		// error, so a tiny nudge is often enough to recover a usable
		// factor for rounding purposes.
		n := X.SymmetricDim()
		jittered := mat.NewSymDense(n, nil)
		jittered.CopySym(X)
		for i := 0; i < n; i++ {
			jittered.SetSym(i, i, jittered.At(i, i)+1e-8)
		}
		if ok := chol.Factorize(jittered); !ok {
			panicNumerical("choleskyFactor", "matrix is not positive semidefinite")
		}
	}
	var lower mat.TriDense
	chol.LTo(&lower)
	return &lower
}

// minEigenvalue returns the smallest eigenvalue of the symmetric matrix X,
// used by the oracle's tests to check that its primal X is PSD.
func minEigenvalue(X *mat.SymDense) float64 {
	var eig mat.EigenSym
	if ok := eig.Factorize(X, false); !ok {
		panicNumerical("minEigenvalue", "eigenvalue decomposition failed to converge")
	}
	values := eig.Values(nil)
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// symVecDot computes <A,B> = sum_ij A_ij*B_ij for two matrices of the same
// order, the Frobenius inner product used throughout the bundle method
// (<L,Xi>, <L0,X>).
func symVecDot(A, B *mat.SymDense) float64 {
	n := A.SymmetricDim()
	var sum float64
	for i := 0; i < n; i++ {
		sum += A.At(i, i) * B.At(i, i)
		for j := i + 1; j < n; j++ {
			sum += 2 * A.At(i, j) * B.At(i, j)
		}
	}
	return sum
}

// symIndefiniteSolve solves the symmetric (possibly indefinite) system
// A*x = b via an LU factorization of the dense view of A. The bundle's
// inner Mehrotra KKT system is small (bounded by bundle size + 1) so a
// general LU is adequate for this symmetric indefinite KKT system without
// needing a specialized factorization.
func symIndefiniteSolve(A *mat.Dense, b []float64) []float64 {
	var lu mat.LU
	lu.Factorize(A)
	if lu.Cond() >= 1e14 {
		panicNumerical("symIndefiniteSolve", "KKT system is numerically singular")
	}
	n, _ := A.Dims()
	rhs := mat.NewVecDense(n, append([]float64(nil), b...))
	var x mat.VecDense
	if err := lu.SolveVecTo(&x, false, rhs); err != nil {
		panicNumerical("symIndefiniteSolve", err.Error())
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return out
}
