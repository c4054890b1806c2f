package biqbin

import "gonum.org/v1/gonum/mat"

// Problem is the per-node subproblem bounded by the interior-point oracle:
// the objective L plus the currently active cutting planes. Grounded on
// jjhbw-GoMILP/subproblem.go's subProblem struct, which separates fields
// "inherited from parent and should not be modified" (here: L, n) from
// fields that grow and shrink during bounding (here: the three cut lists
// and Bundle).
type Problem struct {
	// L is the symmetric Laplacian-form objective, order n.
	L *mat.SymDense
	n int

	Triangles []TriangleInequality
	Pentagons []PentagonalInequality
	Heptagons []HeptagonalInequality

	// Bundle is a bundle-size slot (k); no code in this package sets it, so
	// it stays 0.
	Bundle int

	// FixedValue is the objective contribution already accounted for by
	// the node's fixed variables ("f + fixedValue").
	FixedValue float64
}

// NIneq, NPentIneq, NHeptaIneq are the active-cut counters.
func (p *Problem) NIneq() int      { return len(p.Triangles) }
func (p *Problem) NPentIneq() int  { return len(p.Pentagons) }
func (p *Problem) NHeptaIneq() int { return len(p.Heptagons) }

// M is the total number of active cutting planes (the dimension of the
// dual vector gamma).
func (p *Problem) M() int { return p.NIneq() + p.NPentIneq() + p.NHeptaIneq() }

// NewProblem wraps an objective matrix into a fresh subproblem with no
// active cutting planes.
func NewProblem(L *mat.SymDense) *Problem {
	n, _ := L.Dims()
	if n == 0 {
		panicInput("objective matrix must have positive order")
	}
	return &Problem{L: L, n: n}
}

// reduce builds the child subproblem for a node's fixation vector. Vertex
// 0 is always kept (the reference that carries the relaxed linear value
// of every other vertex via X[0,j], and read as +1); every other fixed
// vertex k folds its coupling to the free vertices into row/column 0
// (L'[0,j] += sign(k)*L[k,j]), and its diagonal term L[k,k], its coupling
// 2*sign(k)*L[k,0] to vertex 0 and its coupling 2*L[k,k2]*sign(k)*sign(k2)
// to every other fixed vertex k2 into a constant added to FixedValue, so
// the child's x^T*L'*x plus FixedValue equals the full x^T*L*x. The
// returned slice maps each row of the reduced matrix back to its original
// vertex index (free[0] is always 0).
func (p *Problem) reduce(fixed []FixState) (*Problem, []int) {
	n := p.n
	free := make([]int, 0, n)
	free = append(free, 0)
	for i := 1; i < n; i++ {
		if fixed[i] == Free {
			free = append(free, i)
		}
	}
	m := len(free)

	L2 := mat.NewSymDense(m, nil)
	for a := 0; a < m; a++ {
		for b := a; b < m; b++ {
			L2.SetSym(a, b, p.L.At(free[a], free[b]))
		}
	}

	var constOffset float64
	for k := 1; k < n; k++ {
		if fixed[k] == Free {
			continue
		}
		sk := float64(fixed[k])
		constOffset += p.L.At(k, k) + 2*sk*p.L.At(k, 0)
		for b := 1; b < m; b++ {
			fb := free[b]
			L2.SetSym(0, b, L2.At(0, b)+sk*p.L.At(k, fb))
		}
		for k2 := k + 1; k2 < n; k2++ {
			if fixed[k2] == Free {
				continue
			}
			constOffset += 2 * p.L.At(k, k2) * sk * float64(fixed[k2])
		}
	}

	child := NewProblem(L2)
	child.FixedValue = p.FixedValue + constOffset
	return child, free
}

// cuts returns every active cutting plane as a cutEvaluator, in the fixed
// order triangles, pentagons, heptagons that the operator B/Bt relies on
// for indexing into gamma/g.
func (p *Problem) cuts() []cutEvaluator {
	out := make([]cutEvaluator, 0, p.M())
	for i := range p.Triangles {
		out = append(out, &p.Triangles[i])
	}
	for i := range p.Pentagons {
		out = append(out, &p.Pentagons[i])
	}
	for i := range p.Heptagons {
		out = append(out, &p.Heptagons[i])
	}
	return out
}
