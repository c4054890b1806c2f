package biqbin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

// buildPaddedLaplacian builds the (n+1)x(n+1) Laplacian-form matrix the
// solver's public API expects from an n x n symmetric weight matrix with
// zero diagonal:
// the top-left block is the ordinary graph Laplacian, and the appended
// (n+1)-th row/column is the "vertex conventionally fixed to 0" reference
// -- zero-coupled here since a plain graph carries no BQP linear term.
func buildPaddedLaplacian(w *mat.Dense) *mat.SymDense {
	n, _ := w.Dims()
	L := mat.NewSymDense(n+1, nil)
	for i := 0; i < n; i++ {
		var deg float64
		for j := 0; j < n; j++ {
			if j != i {
				deg += w.At(i, j)
			}
		}
		L.SetSym(i, i, deg)
		for j := i + 1; j < n; j++ {
			L.SetSym(i, j, -w.At(i, j))
		}
	}
	return L
}

func completeGraph(n int, weight float64) *mat.Dense {
	w := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				w.Set(i, j, weight)
			}
		}
	}
	return w
}

func cycleGraph(n int, weight float64) *mat.Dense {
	w := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		w.Set(i, j, weight)
		w.Set(j, i, weight)
	}
	return w
}

// fastConfig turns heptagonal separation off for the unit-sized test
// graphs; every other parameter keeps its NewConfig default.
func fastConfig() Config {
	cfg := NewConfig()
	cfg.IncludeHept = false
	return cfg
}

func TestSolve_TriangleK3(t *testing.T) {
	L := buildPaddedLaplacian(completeGraph(3, 1))
	res, err := Solve(context.Background(), L, fastConfig(), nil)
	assert.NoError(t, err)
	assert.Equal(t, 2.0, res.Value)
	assert.Len(t, res.Cut, 3)
}

func TestSolve_K4(t *testing.T) {
	L := buildPaddedLaplacian(completeGraph(4, 1))
	res, err := Solve(context.Background(), L, fastConfig(), nil)
	assert.NoError(t, err)
	assert.Equal(t, 4.0, res.Value)
	assert.Len(t, res.Cut, 4)
}

func TestSolve_C5(t *testing.T) {
	L := buildPaddedLaplacian(cycleGraph(5, 1))
	res, err := Solve(context.Background(), L, fastConfig(), nil)
	assert.NoError(t, err)
	assert.Equal(t, 4.0, res.Value)
	assert.Len(t, res.Cut, 5)
}

func TestSolve_RootOnlyStopsAfterOneNode(t *testing.T) {
	L := buildPaddedLaplacian(completeGraph(3, 1))
	cfg := fastConfig()
	cfg.RootOnly = true
	res, err := Solve(context.Background(), L, cfg, nil)
	assert.NoError(t, err)
	assert.True(t, res.StoppedAtRoot)
	assert.Equal(t, 1, res.NodesExplored)
}

func TestSolve_MultipleWorkersAgreesWithSequential(t *testing.T) {
	L := buildPaddedLaplacian(completeGraph(4, 1))
	seq, err := Solve(context.Background(), L, fastConfig(), nil)
	assert.NoError(t, err)

	parallelCfg := fastConfig().WithWorkers(3)
	par, err := Solve(context.Background(), L, parallelCfg, nil)
	assert.NoError(t, err)

	assert.Equal(t, seq.Value, par.Value)
}

func TestSolve_CutMatchesReportedValue(t *testing.T) {
	L := buildPaddedLaplacian(cycleGraph(5, 2))
	res, err := Solve(context.Background(), L, fastConfig(), nil)
	assert.NoError(t, err)

	// Recompute the cut value directly from the reported {0,1} indicator to
	// make sure Value and Cut are mutually consistent.
	x := make([]int8, len(res.Cut)+1)
	for i, b := range res.Cut {
		if b == 1 {
			x[i] = -1
		} else {
			x[i] = 1
		}
	}
	x[len(res.Cut)] = 1 // the padding vertex, zero-coupled either way
	// cutValue is x^T*L*x, four times the Max-Cut value.
	assert.InDelta(t, res.Value, cutValue(L, x)/4, 1e-6)
}

func TestSolve_InvalidInputPanFile(t *testing.T) {
	empty := &mat.SymDense{}
	_, err := Solve(context.Background(), empty, NewConfig(), nil)
	assert.Error(t, err)
	var inputErr *InputError
	assert.ErrorAs(t, err, &inputErr)
}
