package biqbin

import "gonum.org/v1/gonum/mat"

// operators.go implements B and its adjoint Bt. Both are
// in-place updaters following the reference implementation's convention
// exactly: op_B subtracts B(X) from an existing vector, op_Bt subtracts
// Bt(gamma) from an existing matrix. Pentagonal rows carry the 1/2 scale
// and heptagonal rows the 1/3 scale returned by cutEvaluator.signsScale
// (the minus sign of B is applied where that scale is used);
// operators.go itself is arity-agnostic.

// applyB evaluates B(X) for every active cut of p, in the fixed order
// triangles, pentagons, heptagons, and returns the resulting vector.
func applyB(p *Problem, X *mat.SymDense) []float64 {
	cuts := p.cuts()
	out := make([]float64, len(cuts))
	for i, c := range cuts {
		out[i] = c.evaluate(X)
	}
	return out
}

// opB performs y <- y - B(X) in place.
func opB(p *Problem, X *mat.SymDense, y []float64) {
	b := applyB(p, X)
	for i := range y {
		y[i] -= b[i]
	}
}

// opBt performs X <- X - Bt(gamma) in place: for every active cut with
// dual weight gamma[i], half of -s*b[p]*b[q]*gamma[i] is subtracted from
// each of X[v[p],v[q]] and X[v[q],v[p]], so that the symmetric pair
// together carries the full term and <B(X),gamma> = <X,Bt(gamma)>.
func opBt(p *Problem, gamma []float64, X *mat.Dense) {
	cuts := p.cuts()
	for i, c := range cuts {
		signs, scale := c.signsScale()
		v := c.vertexIndices()
		g := gamma[i]
		for pi := 0; pi < len(v); pi++ {
			for qi := pi + 1; qi < len(v); qi++ {
				contrib := -scale * float64(signs[pi]) * float64(signs[qi]) * g / 2
				vp, vq := v[pi], v[qi]
				X.Set(vp, vq, X.At(vp, vq)-contrib)
				X.Set(vq, vp, X.At(vq, vp)-contrib)
			}
		}
	}
}

// applyBt is the non-mutating counterpart: it accumulates Bt(gamma) into a
// fresh zero matrix.
func applyBt(p *Problem, gamma []float64, n int) *mat.Dense {
	X := mat.NewDense(n, n, nil)
	opBt(p, negateAll(gamma), X) // opBt subtracts, so negate to add
	return X
}

func negateAll(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = -x
	}
	return out
}
