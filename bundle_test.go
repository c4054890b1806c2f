package biqbin

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func dummySym(n int, v float64) *mat.SymDense {
	X := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		X.SetSym(i, i, v)
	}
	return X
}

// TestPurgeBundle_DropsBelowOneteentPercentOfMax checks the bundle purge
// invariant: after purgeBundle, every surviving weight is
// >= 0.01*max(lambda).
func TestPurgeBundle_DropsBelowOneteentPercentOfMax(t *testing.T) {
	b := &Bundle{
		F:  []float64{1, 2, 3, 4},
		G:  [][]float64{{1}, {2}, {3}, {4}},
		Xs: []*mat.SymDense{dummySym(2, 1), dummySym(2, 2), dummySym(2, 3), dummySym(2, 4)},
	}
	lambda := []float64{0.5, 0.002, 0.004, 0.494} // lmax=0.5; threshold=0.005
	purgeBundle(b, lambda, 0.5)

	if len(b.F) != 2 {
		t.Fatalf("expected 2 survivors (indices 0 and 3), got %d: F=%v", len(b.F), b.F)
	}
	if b.F[0] != 1 || b.F[1] != 4 {
		t.Fatalf("wrong survivors: F=%v, want [1 4]", b.F)
	}
}

// TestNullStepPurge_PreservesLastMember checks the null-step purge
// rule: only the first k-1 members are eligible for removal, the k-th is
// preserved unconditionally and re-appended after the new trial point.
func TestNullStepPurge_PreservesLastMember(t *testing.T) {
	b := &Bundle{
		F:  []float64{1, 2, 3},
		G:  [][]float64{{1}, {2}, {3}},
		Xs: []*mat.SymDense{dummySym(2, 1), dummySym(2, 2), dummySym(2, 3)},
	}
	lambda := []float64{0.005, 0.005, 0.98} // below the 1%-of-max threshold for indices 0,1
	Xtest := dummySym(2, 9)

	nullStepPurge(b, lambda, 0.98, Xtest, 9, []float64{9})

	// Index 2 (value 3, weight 0.98) is the preserved last member: it must
	// survive even though it was never checked against the threshold, and
	// the trial point must land before it.
	if len(b.F) < 2 {
		t.Fatalf("expected at least the trial point + preserved last member, got %v", b.F)
	}
	last := b.F[len(b.F)-1]
	if last != 3 {
		t.Fatalf("preserved last member missing: F=%v, want last element 3", b.F)
	}
	secondLast := b.F[len(b.F)-2]
	if secondLast != 9 {
		t.Fatalf("trial point must sit directly before the preserved member: F=%v", b.F)
	}
}

func TestNullStepPurge_EmptyBundleJustAppends(t *testing.T) {
	b := &Bundle{}
	Xtest := dummySym(2, 5)
	nullStepPurge(b, nil, 0, Xtest, 5, []float64{5})
	if len(b.F) != 1 || b.F[0] != 5 {
		t.Fatalf("empty bundle should just append the trial point, got F=%v", b.F)
	}
}

func TestCombinePrimal_ConvexCombination(t *testing.T) {
	Xs := []*mat.SymDense{
		mat.NewSymDense(2, []float64{1, 0, 0, 1}),
		mat.NewSymDense(2, []float64{0, 1, 1, 0}),
	}
	lambda := []float64{0.25, 0.75}
	out := combinePrimal(Xs, lambda, 2)
	want := mat.NewSymDense(2, []float64{0.25, 0.75, 0.75, 0.25})
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if out.At(i, j) != want.At(i, j) {
				t.Fatalf("combinePrimal[%d][%d] = %v, want %v", i, j, out.At(i, j), want.At(i, j))
			}
		}
	}
}

func TestNewBundle_SeedsSingleMember(t *testing.T) {
	L := mat.NewSymDense(2, []float64{2, -1, -1, 2})
	X0 := mat.NewSymDense(2, []float64{1, 0.5, 0.5, 1})
	b := newBundle(1.0, 3.5, X0, L, []float64{0.1, -0.1})

	if len(b.F) != 1 || len(b.G) != 1 || len(b.Xs) != 1 {
		t.Fatalf("newBundle must seed exactly one member, got F=%d G=%d Xs=%d", len(b.F), len(b.G), len(b.Xs))
	}
	if b.Fval != 3.5 || b.T != 1.0 {
		t.Fatalf("newBundle did not preserve Fval/T: Fval=%v T=%v", b.Fval, b.T)
	}
}
