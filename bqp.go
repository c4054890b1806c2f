package biqbin

import "gonum.org/v1/gonum/mat"

// bqp.go implements the BQP -> Max-Cut exact-penalty reduction, grounded
// directly on _examples/original_source/bqp_data_processing.c
// (post_process_BQP_input): given a binary quadratic program
//
//	minimize  x^T*F*x + c^T*x  s.t. A*x = b,  x in {0,1}^n
//
// build a Laplacian-form objective L of order n+1 whose Max-Cut optimum
// recovers the BQP optimum once const_val is added back (the "1 is the
// constant part" convention this package uses throughout, e.g. bundle.go's
// G construction, keeps every quadratic form in x^T*L*x units with no
// extra scaling factor; the reference C implementation multiplies its Adj
// matrix by 4 purely to keep intermediate values integral, which a
// floating-point implementation has no reason to preserve).
//
// BQPReduction is the result of reducing a BQP instance to its equivalent
// Max-Cut instance.
type BQPReduction struct {
	L           *mat.SymDense
	ConstOffset float64
	Penalty     float64
}

// BQPToMaxCut reduces minimize x^T*F*x + c^T*x s.t. A*x=b, x in {0,1}^n to
// an (n+1)x(n+1) Laplacian-form Max-Cut instance via an exact-penalty
// construction. F must be symmetric (F[i][j]==F[j][i]); A has
// m rows (one per equality constraint) and n columns.
func BQPToMaxCut(F *mat.Dense, c []float64, A *mat.Dense, b []float64) BQPReduction {
	n := len(c)
	if n == 0 {
		panicInput("BQPToMaxCut: F/c must have positive order")
	}
	fr, fc := F.Dims()
	if fr != n || fc != n {
		panicInput("BQPToMaxCut: F must be n x n")
	}
	m := len(b)
	if m > 0 {
		ar, ac := A.Dims()
		if ar != m || ac != n {
			panicInput("BQPToMaxCut: A must be m x n")
		}
	}

	// Transformation from {0,1} to {-1,1} model (post_process_BQP_input):
	// constant = 1/4*e'Fe + 1/2*c'e, bTilde = b - 1/2*A*e, ATilde = 1/2*A,
	// cTilde = 1/2*(Fe + c), FTilde = 1/4*F.
	var constant float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			constant += 0.25 * F.At(i, j)
		}
		constant += 0.5 * c[i]
	}

	bTilde := make([]float64, m)
	for i := 0; i < m; i++ {
		var rowSum float64
		for j := 0; j < n; j++ {
			rowSum += A.At(i, j)
		}
		bTilde[i] = b[i] - 0.5*rowSum
	}

	aTilde := mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			aTilde.Set(i, j, 0.5*A.At(i, j))
		}
	}

	cTilde := make([]float64, n)
	for i := 0; i < n; i++ {
		var rowSum float64
		for j := 0; j < n; j++ {
			rowSum += F.At(i, j)
		}
		cTilde[i] = 0.5 * (rowSum + c[i])
	}

	fTilde := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			fTilde.Set(i, j, 0.25*F.At(i, j))
		}
	}

	// C = [FTilde, 0.5*cTilde; 0.5*cTilde', constant], the (n+1)x(n+1)
	// matrix whose SDP relaxation range bounds the exact-penalty parameter.
	C := mat.NewSymDense(n+1, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			C.SetSym(i, j, fTilde.At(i, j))
		}
		C.SetSym(i, n, 0.5*cTilde[i])
	}
	C.SetSym(n, n, constant)

	r1, _ := solveMaxCutSDP(C)

	negC := mat.NewSymDense(n+1, nil)
	for i := 0; i < n+1; i++ {
		for j := i; j < n+1; j++ {
			negC.SetSym(i, j, -C.At(i, j))
		}
	}
	r2Neg, _ := solveMaxCutSDP(negC)
	r2 := -r2Neg

	rho := absMax(r1, r2)
	penalty := ceilFloat(2*rho + 1)

	// L_tmp = [FTilde + penalty*ATilde'*ATilde, 0.5*cTilde - penalty*ATilde'*bTilde;
	//          ..., constant + penalty*bTilde'*bTilde]
	Ltmp := mat.NewSymDense(n+1, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var ata float64
			for k := 0; k < m; k++ {
				ata += aTilde.At(k, i) * aTilde.At(k, j)
			}
			Ltmp.SetSym(i, j, fTilde.At(i, j)+penalty*ata)
		}
		var atb float64
		for k := 0; k < m; k++ {
			atb += aTilde.At(k, i) * bTilde[k]
		}
		Ltmp.SetSym(i, n, 0.5*cTilde[i]-penalty*atb)
	}
	var btb float64
	for k := 0; k < m; k++ {
		btb += bTilde[k] * bTilde[k]
	}
	Ltmp.SetSym(n, n, constant+penalty*btb)

	var constOffset float64
	for i := 0; i < n+1; i++ {
		for j := 0; j < n+1; j++ {
			constOffset += Ltmp.At(i, j)
		}
	}

	// Adj is the off-diagonal part of L_tmp over the full (n+1) embedding
	// (vertex n carries the penalized linear term via its interaction with
	// every real vertex); the degree of each real vertex folds in that
	// interaction, but only the top-left n x n block stays in the output
	// adjacency -- vertex n's own row/column is rebuilt from the standard
	// row-sum padding below, reusing it as the "fixed to 0" pinning vertex
	// of the outer Max-Cut convention instead of its BQP-linearization role.
	deg := make([]float64, n)
	for i := 0; i < n; i++ {
		var d float64
		for j := 0; j < n+1; j++ {
			if j != i {
				d += Ltmp.At(i, j)
			}
		}
		deg[i] = d
	}

	L := mat.NewSymDense(n+1, nil)
	rowSum := make([]float64, n)
	for i := 0; i < n; i++ {
		L.SetSym(i, i, deg[i])
		for j := i + 1; j < n; j++ {
			L.SetSym(i, j, -Ltmp.At(i, j))
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			rowSum[i] += L.At(i, j)
		}
	}
	var total float64
	for i := 0; i < n; i++ {
		L.SetSym(i, n, rowSum[i])
		total += rowSum[i]
	}
	L.SetSym(n, n, total)

	return BQPReduction{L: L, ConstOffset: constOffset, Penalty: penalty}
}

// BQPOptimum converts a Max-Cut objective value (x^T*L*x for the BQPToMaxCut
// Laplacian) back into the original BQP optimum, per
// original_source/bqp_data_processing.c's "opt = const_val - OP_MC" comment.
func (r BQPReduction) BQPOptimum(maxCutValue float64) float64 {
	return r.ConstOffset - maxCutValue
}

func absMax(a, b float64) float64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a > b {
		return a
	}
	return b
}

func ceilFloat(v float64) float64 {
	i := float64(int64(v))
	if i < v {
		i++
	}
	return i
}
