package biqbin

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestProblem_ReduceNoFixations(t *testing.T) {
	L := mat.NewSymDense(3, []float64{
		2, -1, -1,
		-1, 2, -1,
		-1, -1, 2,
	})
	p := NewProblem(L)
	child, free := p.reduce([]FixState{Pos, Free, Free})

	if len(free) != 3 {
		t.Fatalf("expected all 3 vertices free/kept, got free=%v", free)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(child.L.At(i, j)-L.At(i, j)) > 1e-12 {
				t.Fatalf("reduced matrix differs at (%d,%d): %v vs %v", i, j, child.L.At(i, j), L.At(i, j))
			}
		}
	}
	if child.FixedValue != 0 {
		t.Fatalf("FixedValue should stay 0 with nothing actually folded out, got %v", child.FixedValue)
	}
}

func TestProblem_ReduceFoldsFixedVertex(t *testing.T) {
	L := mat.NewSymDense(3, []float64{
		2, -1, -1,
		-1, 2, -1,
		-1, -1, 2,
	})
	p := NewProblem(L)
	// Fix vertex 2 to +1; vertex 1 stays free.
	child, free := p.reduce([]FixState{Pos, Free, Pos})

	if len(free) != 2 || free[0] != 0 || free[1] != 1 {
		t.Fatalf("free = %v, want [0 1]", free)
	}
	// L'[0,1] should gain sign(2)*L[2,1] = 1*-1 = -1 folded in: -1 + -1 = -2.
	if math.Abs(child.L.At(0, 1)-(-2)) > 1e-12 {
		t.Fatalf("L'[0][1] = %v, want -2", child.L.At(0, 1))
	}
	// Constant offset: L[2,2] + 2*sign(2)*L[2,0] = 2 + 2*1*(-1) = 0.
	if child.FixedValue != 0 {
		t.Fatalf("FixedValue = %v, want 0 (L[2,2] cancels 2*L[2,0])", child.FixedValue)
	}
}

func TestProblem_ReduceAccumulatesConstantForFixedPairs(t *testing.T) {
	L := mat.NewSymDense(4, []float64{
		3, -1, -1, -1,
		-1, 2, -1, -2,
		-1, -1, 3, -1,
		-1, -2, -1, 2,
	})
	p := NewProblem(L)
	// Fix vertices 1 and 3; vertex 2 stays free.
	child, free := p.reduce([]FixState{Pos, Neg, Free, Pos})

	if len(free) != 2 || free[0] != 0 || free[1] != 2 {
		t.Fatalf("free = %v, want [0 2]", free)
	}
	// constOffset = L[1,1] + L[3,3] + 2*L[1,3]*s1*s3 + 2*s1*L[1,0] + 2*s3*L[3,0]
	//             = 2 + 2 + 4 + 2 - 2 = 8, with s1 = -1, s3 = 1.
	want := L.At(1, 1) + L.At(3, 3) + 2*L.At(1, 3)*-1*1 + 2*-1*L.At(1, 0) + 2*1*L.At(3, 0)
	if math.Abs(child.FixedValue-want) > 1e-12 {
		t.Fatalf("FixedValue = %v, want %v", child.FixedValue, want)
	}
}

func TestProblem_CutsOrderingMatchesCounters(t *testing.T) {
	p := &Problem{n: 5}
	p.Triangles = []TriangleInequality{newTriangle(0, 1, 2, 1), newTriangle(0, 1, 3, 1)}
	p.Pentagons = []PentagonalInequality{{Perm: [5]int{0, 1, 2, 3, 4}, Type: 1}}

	if p.NIneq() != 2 || p.NPentIneq() != 1 || p.NHeptaIneq() != 0 {
		t.Fatalf("counters = (%d,%d,%d), want (2,1,0)", p.NIneq(), p.NPentIneq(), p.NHeptaIneq())
	}
	if p.M() != 3 {
		t.Fatalf("M() = %d, want 3", p.M())
	}
	cuts := p.cuts()
	if len(cuts) != 3 {
		t.Fatalf("cuts() returned %d entries, want 3", len(cuts))
	}
	// First two entries must be the triangles (in order), the last the pentagon.
	if _, ok := cuts[0].(*TriangleInequality); !ok {
		t.Fatalf("cuts()[0] is not a *TriangleInequality")
	}
	if _, ok := cuts[2].(*PentagonalInequality); !ok {
		t.Fatalf("cuts()[2] is not a *PentagonalInequality")
	}
}
