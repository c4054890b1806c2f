package biqbin

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// oracle.go is the interior-point oracle: given symmetric
// L0, produce phi = max{<L0,X> : diag(X)=e, X>=0 PSD} and a primal X.
//
// The dual of this SDP is min{sum(y) : Diag(y)-L0 >= 0 PSD}, the classic
// "dual scaling" formulation behind Helmberg-Rendl-style Max-Cut SDP
// solvers. We follow a log-det barrier path-following method on the dual:
// at barrier parameter mu, the analytic center satisfies
//
//	X = mu * S^-1,  S = Diag(y) - L0,
//
// and the Newton system for minimizing sum(y) - mu*logdet(S) over y has
// gradient e - mu*diag(S^-1) and (dense) Hessian H_ij = mu*(S^-1)_ij^2.
// Both are assembled with the linalg façade and solved with
// symIndefiniteSolve. mu is reduced geometrically after every
// oracleNewtonSteps Newton steps, and the loop stops once the duality gap
// <X,S> = mu*n at the analytic center falls below oracleGapTol; S is kept
// positive definite by backtracking the step length.
//
// The recovered X from the barrier is only approximately diag(X)=e; a
// final diagonal congruence X <- D*X*D with D = diag(1/sqrt(X_ii)) forces
// diag(X)=e exactly while preserving PSD (congruence by an invertible
// diagonal matrix never changes definiteness), meeting the oracle's
// feasibility contract.
const (
	oracleMaxIter  = 60
	oracleInitMu   = 1.0
	oracleMuShrink = 0.25
	oracleGapTol   = 1e-8
	// oracleNewtonSteps is the number of Newton steps taken per value of mu.
	oracleNewtonSteps = 2
)

// dualSlack computes S = Diag(y) - L0.
func dualSlack(y []float64, L0 *mat.SymDense) *mat.SymDense {
	n := len(y)
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := -L0.At(i, j)
			if i == j {
				v += y[i]
			}
			s.SetSym(i, j, v)
		}
	}
	return s
}

// invertSPD returns the inverse of a symmetric positive definite matrix,
// or ok=false if Cholesky factorization fails (S is not PD at this y).
func invertSPD(s *mat.SymDense) (*mat.Dense, bool) {
	var chol mat.Cholesky
	if !chol.Factorize(s) {
		return nil, false
	}
	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return nil, false
	}
	return mat.DenseCopyOf(&inv), true
}

// isPD reports whether Diag(y) - L0 is positive definite.
func isPD(y []float64, L0 *mat.SymDense) bool {
	var chol mat.Cholesky
	return chol.Factorize(dualSlack(y, L0))
}

// solveMaxCutSDP runs the oracle to convergence and returns the optimal
// value and a feasible primal X. Panics with a NumericalError if no
// strictly dual-feasible starting point or Newton step can be found,
// matching the "IPM stalls" fatal-failure classification.
func solveMaxCutSDP(L0 *mat.SymDense) (float64, *mat.SymDense) {
	n := L0.SymmetricDim()

	// Diagonally dominant start: S_ii = y_i - L0_ii exceeds sum_j|S_ij| =
	// the absolute row sum of L0's off-diagonal entries whenever y_i is
	// chosen past both that row sum and L0_ii itself, which Gershgorin's
	// theorem then certifies as PD regardless of L0's own diagonal.
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		var rowSum float64
		for j := 0; j < n; j++ {
			if j != i {
				rowSum += math.Abs(L0.At(i, j))
			}
		}
		y[i] = rowSum + math.Abs(L0.At(i, i)) + 1
	}
	if !isPD(y, L0) {
		panicNumerical("solveMaxCutSDP", "failed to find a dual-feasible starting point")
	}

	mu := oracleInitMu
	var Sinv *mat.Dense
	for iter := 0; iter < oracleMaxIter; iter++ {
		S := dualSlack(y, L0)
		inv, ok := invertSPD(S)
		if !ok {
			panicNumerical("solveMaxCutSDP", "dual slack lost positive definiteness")
		}
		Sinv = inv

		grad := make([]float64, n)
		H := mat.NewDense(n, n, nil)
		for i := 0; i < n; i++ {
			grad[i] = 1 - mu*Sinv.At(i, i)
			for j := 0; j < n; j++ {
				H.Set(i, j, mu*Sinv.At(i, j)*Sinv.At(i, j))
			}
		}
		negGrad := make([]float64, n)
		for i := range grad {
			negGrad[i] = -grad[i]
		}
		dy := symIndefiniteSolve(H, negGrad)

		alpha := 1.0
		trial := make([]float64, n)
		for step := 0; step < 40; step++ {
			for i := range y {
				trial[i] = y[i] + alpha*dy[i]
			}
			if isPD(trial, L0) {
				break
			}
			alpha *= 0.5
		}
		copy(y, trial)

		if iter%oracleNewtonSteps != oracleNewtonSteps-1 {
			continue
		}
		gap := mu * float64(n)
		if gap < oracleGapTol {
			break
		}
		mu *= oracleMuShrink
	}
	inv, ok := invertSPD(dualSlack(y, L0))
	if !ok {
		panicNumerical("solveMaxCutSDP", "dual slack lost positive definiteness")
	}
	Sinv = inv

	X := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			X.SetSym(i, j, mu*Sinv.At(i, j))
		}
	}
	rescaleDiagonalToOne(X)

	return symVecDot(L0, X), X
}

// rescaleDiagonalToOne applies the congruence X <- D*X*D with
// D = diag(1/sqrt(X_ii)) so diag(X) becomes exactly e while preserving
// positive semidefiniteness.
func rescaleDiagonalToOne(X *mat.SymDense) {
	n := X.SymmetricDim()
	d := make([]float64, n)
	for i := 0; i < n; i++ {
		v := X.At(i, i)
		if v <= 0 {
			v = 1e-12
		}
		d[i] = 1 / math.Sqrt(v)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			X.SetSym(i, j, X.At(i, j)*d[i]*d[j])
		}
	}
}

