package biqbin

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// bundle.go implements the proximal bundle method. The
// dual multiplier gamma for a cutting plane is stored directly on its
// cutEvaluator (the Y field) rather than in a parallel vector, so pruning
// and merging a cut (separation.go) automatically carries its multiplier
// forward (or initializes it to 0 for a new cut) without any separate
// resize bookkeeping — the active cut list *is* the gamma vector.

// Bundle holds the proximal bundle's state: the proximal parameter
// t, the cached oracle value f, the current primal X, and up to MaxBundle
// tuples (Xi, Fi=<L,Xi>, gi).
type Bundle struct {
	T    float64
	Fval float64
	X    *mat.SymDense

	F  []float64
	G  [][]float64 // m-vectors, one per bundle member
	Xs []*mat.SymDense
}

// newBundle seeds a one-element bundle from the current oracle evaluation,
// the shape every outer bounding round refresh produces: append the
// newly evaluated (X_test, F_test, g).
func newBundle(t0 float64, f0 float64, X0 *mat.SymDense, L *mat.SymDense, g0 []float64) *Bundle {
	return &Bundle{
		T:    t0,
		Fval: f0,
		X:    X0,
		F:    []float64{symVecDot(L, X0)},
		G:    [][]float64{append([]float64(nil), g0...)},
		Xs:   []*mat.SymDense{X0},
	}
}

func readGamma(p *Problem) []float64 {
	cuts := p.cuts()
	gamma := make([]float64, len(cuts))
	for i, c := range cuts {
		gamma[i] = c.dual()
	}
	return gamma
}

func writeGamma(p *Problem, gamma []float64) {
	cuts := p.cuts()
	for i, c := range cuts {
		c.setDual(gamma[i])
	}
}

// refreshForNewCuts recomputes every bundle member's subgradient against
// the (possibly resized) active cut list, appends a freshly evaluated
// trial point, and inflates t by 1.05, the bundle refresh step run
// whenever separation changes which cuts are active.
func refreshForNewCuts(p *Problem, L *mat.SymDense, b *Bundle) {
	for i, Xi := range b.Xs {
		ones := make([]float64, p.M())
		for j := range ones {
			ones[j] = 1
		}
		opB(p, Xi, ones)
		b.G[i] = ones
		b.F[i] = symVecDot(L, Xi)
	}

	gamma := readGamma(p)
	fTest, Xtest, gTest := fctEval(p, L, gamma)
	b.F = append(b.F, symVecDot(L, Xtest))
	b.G = append(b.G, gTest)
	b.Xs = append(b.Xs, Xtest)
	b.Fval = fTest
	b.X = Xtest
	b.T *= 1.05
}

// fctEval evaluates the Lagrangian dual function at gamma: it solves the
// oracle on L - Bt(gamma), recovering the dual function value
// f(gamma) = oracle(L-Bt(gamma)) + sum(gamma) and the subgradient
// g = 1 - B(X*).
func fctEval(p *Problem, L *mat.SymDense, gamma []float64) (float64, *mat.SymDense, []float64) {
	n := p.n
	Lprime := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			Lprime.Set(i, j, L.At(i, j))
		}
	}
	opBt(p, gamma, Lprime)

	LprimeSym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			LprimeSym.SetSym(i, j, Lprime.At(i, j))
		}
	}

	f0, X := solveMaxCutSDP(LprimeSym)

	var gammaSum float64
	for _, v := range gamma {
		gammaSum += v
	}

	g := make([]float64, len(gamma))
	for i := range g {
		g[i] = 1
	}
	opB(p, X, g)

	return f0 + gammaSum, X, g
}

// RunBundle runs up to iters proximal bundle iterations. gamma is read
// from and written back to the active cuts' Y fields
// around the call so callers never see a disconnected gamma vector.
func RunBundle(p *Problem, L *mat.SymDense, b *Bundle, iters int) {
	for iter := 0; iter < iters; iter++ {
		gamma := readGamma(p)
		k := len(b.F)
		m := len(gamma)

		zeta := make([]float64, k)
		for i := 0; i < k; i++ {
			zeta[i] = -b.F[i] - dotVec(b.G[i], gamma)
		}

		lambda, _, dgamma := solveLambdaEta(b.G, gamma, zeta, b.T, m, k)

		gammaTest := make([]float64, m)
		for i := range gammaTest {
			gammaTest[i] = gamma[i] + dgamma[i]
		}

		fTest, Xtest, gTest := fctEval(p, L, gammaTest)

		Glambda := make([]float64, m)
		for i := 0; i < k; i++ {
			for j := 0; j < m; j++ {
				Glambda[j] += lambda[i] * b.G[i][j]
			}
		}
		var fapprox float64
		for i := 0; i < k; i++ {
			fapprox += b.F[i] * lambda[i]
		}
		fapprox += dotVec(gammaTest, Glambda)
		del := b.Fval - fapprox

		lmax := 0.0
		for _, l := range lambda {
			if l > lmax {
				lmax = l
			}
		}

		FtestDot := symVecDot(L, Xtest)

		if b.Fval-fTest > 0.05*del {
			// Serious step: accept gammaTest, recompute primal as the
			// convex combination, purge all low-weight bundle members.
			writeGamma(p, gammaTest)
			b.Fval = fTest
			b.X = combinePrimal(b.Xs, lambda, p.n)
			b.T *= 1.01
			purgeBundle(b, lambda, lmax)
			appendBundleMember(b, Xtest, FtestDot, gTest)
		} else {
			// Null step: gamma is unchanged (callers read it back
			// unmodified since writeGamma was not called); shrink t and
			// purge only among the first k-1 members, preserving the
			// last one at the tail.
			b.T /= 1.01
			nullStepPurge(b, lambda, lmax, Xtest, FtestDot, gTest)
		}

		if len(b.F) > MaxBundle {
			panicCapacity("bundle", MaxBundle)
		}
	}
}

func appendBundleMember(b *Bundle, X *mat.SymDense, F float64, g []float64) {
	b.F = append(b.F, F)
	b.G = append(b.G, g)
	b.Xs = append(b.Xs, X)
}

// purgeBundle implements the serious-step purge: drop every member whose
// weight fell below 1% of the largest weight.
func purgeBundle(b *Bundle, lambda []float64, lmax float64) {
	var F []float64
	var G [][]float64
	var Xs []*mat.SymDense
	for i := range b.F {
		if lambda[i] < 0.01*lmax {
			continue
		}
		F = append(F, b.F[i])
		G = append(G, b.G[i])
		Xs = append(Xs, b.Xs[i])
	}
	b.F, b.G, b.Xs = F, G, Xs
}

// nullStepPurge implements the null-step purge: only the first k-1
// members are eligible for removal; the k-th (last) member is preserved
// unconditionally and moved to the new tail, after the freshly appended
// trial point.
func nullStepPurge(b *Bundle, lambda []float64, lmax float64, Xtest *mat.SymDense, Ftest float64, g []float64) {
	k := len(b.F)
	if k == 0 {
		appendBundleMember(b, Xtest, Ftest, g)
		return
	}
	lastF, lastG, lastXs := b.F[k-1], b.G[k-1], b.Xs[k-1]

	var F []float64
	var G [][]float64
	var Xs []*mat.SymDense
	for i := 0; i < k-1; i++ {
		if lambda[i] < 0.01*lmax {
			continue
		}
		F = append(F, b.F[i])
		G = append(G, b.G[i])
		Xs = append(Xs, b.Xs[i])
	}
	F = append(F, Ftest)
	G = append(G, g)
	Xs = append(Xs, Xtest)
	F = append(F, lastF)
	G = append(G, lastG)
	Xs = append(Xs, lastXs)

	b.F, b.G, b.Xs = F, G, Xs
}

func combinePrimal(Xs []*mat.SymDense, lambda []float64, n int) *mat.SymDense {
	out := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var v float64
			for k, X := range Xs {
				v += lambda[k] * X.At(i, j)
			}
			out.SetSym(i, j, v)
		}
	}
	return out
}

func dotVec(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

const (
	lambdaEtaMaxOuter = 50
	lambdaEtaTol      = 1e-5
	qpMaxIter         = 30
	qpGapTol          = 1e-5
)

// solveLambdaEta is the outer loop of the bundle's inner QP: it
// alternates solving min_lambda c^T*lambda + 1/2*lambda^T*Q*lambda subject
// to sum(lambda)=1, lambda>=0 (with Q=t*G^T*G, c=zeta-t*G^T*eta) against
// recomputing eta = max(0, -gamma/t + G*lambda), terminating when the
// relative change of dgamma = t*(eta-G*lambda) falls below 1e-5, capped at
// 50 outer iterations. On exhausting the cap without convergence the
// caller's t is left untouched here; RunBundle's serious/null step already
// adapts t, so repeated failure to converge simply shrinks t on the next
// null step.
func solveLambdaEta(G [][]float64, gamma []float64, zeta []float64, t float64, m, k int) (lambda, eta, dgamma []float64) {
	eta = make([]float64, m)
	var prevDgamma []float64

	Q := mat.NewDense(k, k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			v := t * dotVec(G[i], G[j])
			Q.Set(i, j, v)
			Q.Set(j, i, v)
		}
	}

	for outer := 0; outer < lambdaEtaMaxOuter; outer++ {
		c := make([]float64, k)
		for i := 0; i < k; i++ {
			c[i] = zeta[i] - t*dotVec(G[i], eta)
		}

		lambda = solveSimplexQP(Q, c, k)

		Glambda := make([]float64, m)
		for i := 0; i < k; i++ {
			for j := 0; j < m; j++ {
				Glambda[j] += lambda[i] * G[i][j]
			}
		}

		newEta := make([]float64, m)
		for j := 0; j < m; j++ {
			v := -gamma[j]/t + Glambda[j]
			if v < 0 {
				v = 0
			}
			newEta[j] = v
		}

		dgamma = make([]float64, m)
		for j := 0; j < m; j++ {
			dgamma[j] = t * (newEta[j] - Glambda[j])
		}

		if prevDgamma != nil {
			var num, den float64
			for j := 0; j < m; j++ {
				diff := dgamma[j] - prevDgamma[j]
				num += diff * diff
				den += prevDgamma[j] * prevDgamma[j]
			}
			if den == 0 || math.Sqrt(num/math.Max(den, 1e-300)) < lambdaEtaTol {
				eta = newEta
				break
			}
		}
		eta = newEta
		prevDgamma = dgamma
	}

	return lambda, eta, dgamma
}

// solveSimplexQP solves min c^T*lambda + 1/2*lambda^T*Q*lambda subject to
// sum(lambda)=1, lambda>=0 with a Mehrotra predictor-corrector primal-dual
// interior-point method. Stationarity requires Q*lambda + c - nu*1 - z = 0
// for a free nu (the equality's multiplier) and z>=0 complementary to
// lambda; eliminating the bound-multiplier update dz = Lambda^-1*(-rc-Z*dlambda)
// from the 3x3 Newton system collapses it to the (k+1)x(k+1) reduced KKT
// system solved here via the symmetric-indefinite façade in linalg.go,
// a Mehrotra predictor step using the symmetric indefinite KKT system,
// capped at 30 iterations with a 1e-5 duality-gap tolerance.
func solveSimplexQP(Q *mat.Dense, c []float64, k int) []float64 {
	lambda := make([]float64, k)
	z := make([]float64, k)
	for i := 0; i < k; i++ {
		lambda[i] = 1.0 / float64(k)
		z[i] = 1.0
	}
	nu := 0.0

	for iter := 0; iter < qpMaxIter; iter++ {
		rd := make([]float64, k)
		for i := 0; i < k; i++ {
			var qi float64
			for j := 0; j < k; j++ {
				qi += Q.At(i, j) * lambda[j]
			}
			rd[i] = qi + c[i] - nu - z[i]
		}
		rp := -1.0
		for i := 0; i < k; i++ {
			rp += lambda[i]
		}

		mu := dotVec(lambda, z) / float64(k)
		if mu < qpGapTol {
			break
		}

		dlambda, dnu, dz := solveQPNewtonStep(Q, rd, rp, lambda, z, k, mu, nil, nil)

		// Mehrotra centering: measure the affine step's duality gap,
		// pick sigma=(mu_aff/mu)^3, then recompute with the corrector
		// term included.
		alphaAff := qpStepLength(lambda, dlambda, z, dz, k)
		muAff := 0.0
		for i := 0; i < k; i++ {
			muAff += (lambda[i] + alphaAff*dlambda[i]) * (z[i] + alphaAff*dz[i])
		}
		muAff /= float64(k)
		sigma := math.Pow(muAff/math.Max(mu, 1e-300), 3)
		if sigma > 1 {
			sigma = 1
		} else if sigma < 0 {
			sigma = 0
		}

		dlambda, dnu, dz = solveQPNewtonStep(Q, rd, rp, lambda, z, k, mu, dlambda, dz, sigma)

		alpha := 0.99 * qpStepLength(lambda, dlambda, z, dz, k)
		for i := 0; i < k; i++ {
			lambda[i] += alpha * dlambda[i]
			z[i] += alpha * dz[i]
		}
		nu += alpha * dnu
	}

	// Clean numerical negatives and renormalize onto the simplex.
	sum := 0.0
	for i := range lambda {
		if lambda[i] < 0 {
			lambda[i] = 0
		}
		sum += lambda[i]
	}
	if sum > 0 {
		for i := range lambda {
			lambda[i] /= sum
		}
	} else {
		for i := range lambda {
			lambda[i] = 1.0 / float64(k)
		}
	}
	return lambda
}

// qpStepLength returns the largest alpha in (0,1] keeping lambda+alpha*dlambda
// and z+alpha*dz strictly positive, via the standard ratio test.
func qpStepLength(lambda, dlambda, z, dz []float64, k int) float64 {
	alpha := 1.0
	for i := 0; i < k; i++ {
		if dlambda[i] < 0 {
			alpha = math.Min(alpha, -lambda[i]/dlambda[i])
		}
		if dz[i] < 0 {
			alpha = math.Min(alpha, -z[i]/dz[i])
		}
	}
	return alpha * 0.999
}

// solveQPNewtonStep assembles and solves the reduced (k+1)x(k+1) KKT system
// for one Newton step. With prevDlambda/prevDz nil it computes the pure
// affine-scaling direction (rc = Lambda*Z*1); otherwise it adds Mehrotra's
// corrector term prevDlambda.prevDz - sigma*mu*1 to rc.
func solveQPNewtonStep(Q *mat.Dense, rd []float64, rp float64, lambda, z []float64, k int, mu float64, prevDlambda, prevDz []float64, sigma ...float64) (dlambda []float64, dnu float64, dz []float64) {
	rc := make([]float64, k)
	for i := 0; i < k; i++ {
		rc[i] = lambda[i] * z[i]
		if prevDlambda != nil {
			rc[i] += prevDlambda[i]*prevDz[i] - sigma[0]*mu
		}
	}

	d := make([]float64, k)
	for i := 0; i < k; i++ {
		d[i] = z[i] / lambda[i]
	}

	A := mat.NewDense(k+1, k+1, nil)
	rhs := make([]float64, k+1)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			v := Q.At(i, j)
			if i == j {
				v += d[i]
			}
			A.Set(i, j, v)
		}
		A.Set(i, k, -1)
		A.Set(k, i, 1)
		rhs[i] = -rd[i] - rc[i]/lambda[i]
	}
	A.Set(k, k, 0)
	rhs[k] = -rp

	sol := symIndefiniteSolve(A, rhs)
	dlambda = sol[:k]
	dnu = sol[k]

	dz = make([]float64, k)
	for i := 0; i < k; i++ {
		dz[i] = (-rc[i] - z[i]*dlambda[i]) / lambda[i]
	}
	return dlambda, dnu, dz
}
