package biqbin

import "gonum.org/v1/gonum/mat"

// inequality.go implements the sum type over triangle/pentagonal/heptagonal
// cutting planes: tagged inequalities with variable arity, modeled as a
// sum type over the three variants with fixed-size index arrays and a
// type discriminator, composed through a common trait.
//
// All three variants share the same underlying construction: pick k
// (3, 5, or 7) vertex indices and a fixed sign vector b in {-1,1}^k with
// b[0] == 1 (the global sign flip of b leaves every pairwise product
// unchanged, so fixing the first entry removes the redundant half of the
// sign space). The quantity
//
//	raw(X) = sum_{p<q} b[p]*b[q]*X[v[p],v[q]]
//
// satisfies raw(X) >= -(k-1)/2 for every rank-one X = x*x^T with
// x in {-1,1}^n, because y[p] = b[p]*x[v[p]] ranges freely over {-1,1}^k
// (x is unconstrained per coordinate) and raw(X) = (S^2-k)/2 where
// S = sum(y) is an odd integer of absolute value >= 1 (k is odd). Writing
// B(X) = -s_k * raw(X) with s_3=1, s_5=1/2, s_7=1/3 yields exactly
// B(X) <= 1 for every type and every arity, giving every cutting
// plane the uniform "B_i(X) <= 1" shape operators.go expects. Different
// choices of b separate different fractional points even though the bound
// is always 1; "type" selects one of a small fixed list of sign vectors
// per arity (4 for triangle, 3 for pentagonal, 4 for heptagonal).

// cutEvaluator is the common trait the bounding driver composes over.
type cutEvaluator interface {
	evaluate(L *mat.SymDense) float64 // B(X) for the active primal X, via a symmetric matrix view
	dual() float64
	setDual(y float64)
	violation() float64
	setViolation(v float64)

	// vertexIndices and signsScale expose the (v, b, s) triple that
	// defines B(X) = -s * sum_{p<q} b[p]*b[q]*X[v[p],v[q]], used by
	// operators.go to apply B and its adjoint without a type switch.
	vertexIndices() []int
	signsScale() ([]int8, float64)
}

// triangleSigns and friends hold, for each (arity,type), the canonical
// sign vector with entry 0 fixed to +1.
var triangleSigns = [5][3]int8{
	1: {1, 1, 1},
	2: {1, 1, -1},
	3: {1, -1, 1},
	4: {1, -1, -1},
}

var pentagonSigns = [4][5]int8{
	1: {1, 1, 1, 1, 1},
	2: {1, 1, 1, 1, -1},
	3: {1, 1, -1, 1, -1},
}

var heptagonSigns = [5][7]int8{
	1: {1, 1, 1, 1, 1, 1, 1},
	2: {1, 1, 1, 1, 1, 1, -1},
	3: {1, 1, 1, -1, 1, 1, -1},
	4: {1, -1, 1, -1, 1, -1, 1},
}

// pentagonScale and heptagonScale are s_k from the package doc above.
const (
	triangleScale = 1.0
	pentagonScale = 0.5
	heptagonScale = 1.0 / 3.0
)

// TriangleInequality is a cutting plane over three vertex indices.
type TriangleInequality struct {
	I, J, K int
	Type    int // 1..4
	Value   float64
	Y       float64 // dual multiplier gamma, 0 when inactive
}

func (t *TriangleInequality) indices() [3]int { return [3]int{t.I, t.J, t.K} }

func (t *TriangleInequality) evaluate(L *mat.SymDense) float64 {
	b := triangleSigns[t.Type]
	idx := t.indices()
	return rawCut(L, idx[:], b[:]) * -triangleScale
}
func (t *TriangleInequality) dual() float64         { return t.Y }
func (t *TriangleInequality) setDual(y float64)      { t.Y = y }
func (t *TriangleInequality) violation() float64     { return t.Value }
func (t *TriangleInequality) setViolation(v float64) { t.Value = v }
func (t *TriangleInequality) vertexIndices() []int   { idx := t.indices(); return idx[:] }
func (t *TriangleInequality) signsScale() ([]int8, float64) {
	b := triangleSigns[t.Type]
	return b[:], triangleScale
}

// key identifies a triangle by its sorted indices and type, for dedup.
func (t *TriangleInequality) key() [4]int { return [4]int{t.I, t.J, t.K, t.Type} }

// newTriangle builds a TriangleInequality with i<j<k enforced by the
// caller (the separation enumeration already scans in sorted order).
func newTriangle(i, j, k, typ int) TriangleInequality {
	return TriangleInequality{I: i, J: j, K: k, Type: typ}
}

// PentagonalInequality is a cutting plane over a 5-vertex permutation.
type PentagonalInequality struct {
	Perm [5]int
	Type int // 1..3
	Value float64
	Y     float64
}

func (p *PentagonalInequality) evaluate(L *mat.SymDense) float64 {
	b := pentagonSigns[p.Type]
	return rawCut(L, p.Perm[:], b[:]) * -pentagonScale
}
func (p *PentagonalInequality) dual() float64         { return p.Y }
func (p *PentagonalInequality) setDual(y float64)      { p.Y = y }
func (p *PentagonalInequality) violation() float64     { return p.Value }
func (p *PentagonalInequality) setViolation(v float64) { p.Value = v }
func (p *PentagonalInequality) vertexIndices() []int   { return p.Perm[:] }
func (p *PentagonalInequality) signsScale() ([]int8, float64) {
	b := pentagonSigns[p.Type]
	return b[:], pentagonScale
}

// HeptagonalInequality is a cutting plane over a 7-vertex permutation.
type HeptagonalInequality struct {
	Perm [7]int
	Type int // 1..4
	Value float64
	Y     float64
}

func (h *HeptagonalInequality) evaluate(L *mat.SymDense) float64 {
	b := heptagonSigns[h.Type]
	return rawCut(L, h.Perm[:], b[:]) * -heptagonScale
}
func (h *HeptagonalInequality) dual() float64         { return h.Y }
func (h *HeptagonalInequality) setDual(y float64)      { h.Y = y }
func (h *HeptagonalInequality) violation() float64     { return h.Value }
func (h *HeptagonalInequality) setViolation(v float64) { h.Value = v }
func (h *HeptagonalInequality) vertexIndices() []int   { return h.Perm[:] }
func (h *HeptagonalInequality) signsScale() ([]int8, float64) {
	b := heptagonSigns[h.Type]
	return b[:], heptagonScale
}

// rawCut computes sum_{p<q} b[p]*b[q]*X[v[p],v[q]] against the symmetric
// matrix view L (used both for the objective and for the SDP primal X,
// since both are *mat.SymDense of the same order).
func rawCut(X *mat.SymDense, v []int, b []int8) float64 {
	var sum float64
	for p := 0; p < len(v); p++ {
		for q := p + 1; q < len(v); q++ {
			sum += float64(b[p]) * float64(b[q]) * X.At(v[p], v[q])
		}
	}
	return sum
}
